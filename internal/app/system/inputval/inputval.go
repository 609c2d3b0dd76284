// Package inputval validates decoded admin API payloads with
// waffle/pantry/validate and turns failures into the field -> message map
// that jsonutil.ValidationError writes.
//
//	type serviceInput struct {
//	    Title string `json:"title" validate:"required,max=200" label:"Title"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    jsonutil.ValidationError(w, res.Fields())
//	}
package inputval

import (
	"net/mail"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is one failed rule, keyed by the JSON field name.
type FieldError struct {
	Field   string
	Message string
}

// Result is the outcome of Validate.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// Fields returns the first message per field, or nil when valid.
func (r *Result) Fields() map[string]string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, seen := out[e.Field]; !seen {
			out[e.Field] = e.Message
		}
	}
	return out
}

// rule is a custom validate tag with its check and message suffix.
type rule struct {
	check func(string) bool
	msg   string
}

var rules = map[string]rule{
	"slug":     {IsValidSlug, "may only contain lowercase letters, digits and dashes."},
	"imageref": {IsValidImageRef, "must be a URL or a path starting with /."},
	"httpurl":  {IsValidHTTPURL, "must be a valid URL starting with http:// or https://."},
	"objectid": {IsValidObjectID, "is not a valid ID."},
}

var validator = sync.OnceValue(func() *validate.Validator {
	v := validate.New(validate.WithStopOnFirstError())
	for name, r := range rules {
		check := r.check
		v.RegisterRuleFunc(name, func(value any) bool {
			s, ok := value.(string)
			return ok && check(s)
		}, name)
	}
	return v
})

// Validate checks s against its validate tags. Labels come from the optional
// label tag and default to the JSON name.
//
// Built-in rules used here: required, email, oneof, min, max. Custom rules:
// slug, imageref, httpurl, objectid.
func Validate(s any) *Result {
	res := &Result{}
	err := validator().Struct(s)
	if err == nil {
		return res
	}
	errs, ok := err.(validate.Errors)
	if !ok {
		return res
	}
	labels := labelsFor(reflect.TypeOf(s))
	for _, e := range errs {
		label := labels[e.Field]
		if label == "" {
			label = e.Field
		}
		res.Errors = append(res.Errors, FieldError{Field: e.Field, Message: message(label, e.Rule, e.Param)})
	}
	return res
}

var labelCache sync.Map // reflect.Type -> map[string]string

// labelsFor maps JSON field names to label tags for a struct type.
func labelsFor(t reflect.Type) map[string]string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	if m, ok := labelCache.Load(t); ok {
		return m.(map[string]string)
	}
	m := make(map[string]string)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		label := f.Tag.Get("label")
		if label == "" {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			name = f.Name
		}
		m[name] = label
	}
	labelCache.Store(t, m)
	return m
}

func message(label, ruleName, param string) string {
	if r, ok := rules[ruleName]; ok {
		return label + " " + r.msg
	}
	switch ruleName {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "oneof", "enum":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + " must be at least " + param + " characters."
	case "max":
		return label + " must be at most " + param + " characters."
	}
	return label + " is invalid."
}

// IsValidEmail accepts a bare RFC 5322 address, not "Name <addr>".
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// IsValidSlug accepts [a-z0-9] runs joined by single dashes.
func IsValidSlug(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '-' {
			return false
		}
	}
	return true
}

// IsValidImageRef accepts empty, an http(s) URL, or a site-relative path
// such as the ones the upload endpoint returns.
func IsValidImageRef(s string) bool {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return true
	case strings.HasPrefix(s, "//"):
		return false
	case strings.HasPrefix(s, "/"):
		return true
	}
	return IsValidHTTPURL(s)
}

// IsValidHTTPURL accepts absolute http and https URLs with a host.
func IsValidHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether s is a 24-char Mongo ObjectID hex.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
