package inputval

import (
	"reflect"
	"testing"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) bool
		in   string
		want bool
	}{
		{"email ok", IsValidEmail, "contact@dd.example", true},
		{"email trimmed", IsValidEmail, "  contact@dd.example ", false},
		{"email display name", IsValidEmail, "Team <contact@dd.example>", false},
		{"email empty", IsValidEmail, "", false},
		{"email no at", IsValidEmail, "contact.dd.example", false},

		{"url https", IsValidHTTPURL, "https://linkedin.com/company/dd", true},
		{"url http", IsValidHTTPURL, "http://dd.example", true},
		{"url no host", IsValidHTTPURL, "https://", false},
		{"url ftp", IsValidHTTPURL, "ftp://dd.example/file", false},
		{"url relative", IsValidHTTPURL, "/about", false},

		{"image empty", IsValidImageRef, "", true},
		{"image upload path", IsValidImageRef, "/files/uploads/2026/logo.png", true},
		{"image url", IsValidImageRef, "https://cdn.dd.example/logo.png", true},
		{"image protocol relative", IsValidImageRef, "//evil.example/x.png", false},
		{"image javascript", IsValidImageRef, "javascript:alert(1)", false},

		{"slug ok", IsValidSlug, "financial-due-diligence-2026", true},
		{"slug upper", IsValidSlug, "Financial", false},
		{"slug leading dash", IsValidSlug, "-tax", false},
		{"slug trailing dash", IsValidSlug, "tax-", false},
		{"slug double dash", IsValidSlug, "tax--audit", false},
		{"slug space", IsValidSlug, "tax audit", false},
		{"slug empty", IsValidSlug, "", false},

		{"objectid ok", IsValidObjectID, "507f1f77bcf86cd799439011", true},
		{"objectid short", IsValidObjectID, "507f1f77", false},
		{"objectid not hex", IsValidObjectID, "zzzf1f77bcf86cd799439011", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

type serviceInput struct {
	Title  string `json:"title" validate:"required,max=20" label:"Title"`
	Slug   string `json:"slug" validate:"required,slug" label:"Slug"`
	Image  string `json:"image" validate:"imageref" label:"Image"`
	Status string `json:"status" validate:"oneof=active inactive" label:"Status"`
}

func TestValidate(t *testing.T) {
	ok := serviceInput{Title: "Tax advisory", Slug: "tax-advisory", Image: "/files/a.png", Status: "active"}
	if res := Validate(ok); res.HasErrors() {
		t.Fatalf("valid input flagged: %v", res.Fields())
	}
	if res := Validate(&ok); res.HasErrors() {
		t.Fatalf("pointer input flagged: %v", res.Fields())
	}

	bad := serviceInput{Title: "", Slug: "Tax Advisory", Image: "//x", Status: "archived"}
	fields := Validate(bad).Fields()
	want := map[string]string{
		"title":  "Title is required.",
		"slug":   "Slug may only contain lowercase letters, digits and dashes.",
		"image":  "Image must be a URL or a path starting with /.",
		"status": "Status must be one of: active, inactive.",
	}
	for k, msg := range want {
		if fields[k] != msg {
			t.Errorf("fields[%q] = %q, want %q", k, fields[k], msg)
		}
	}

	long := ok
	long.Title = "A title that is far too long"
	if msg := Validate(long).Fields()["title"]; msg != "Title must be at most 20 characters." {
		t.Errorf("max message = %q", msg)
	}
}

func TestResult_Fields(t *testing.T) {
	var empty Result
	if empty.Fields() != nil || empty.HasErrors() {
		t.Error("empty result should have no fields")
	}
	r := Result{Errors: []FieldError{
		{Field: "title", Message: "first"},
		{Field: "title", Message: "second"},
		{Field: "slug", Message: "slug msg"},
	}}
	f := r.Fields()
	if f["title"] != "first" || f["slug"] != "slug msg" || len(f) != 2 {
		t.Errorf("Fields() = %v", f)
	}
}

func TestLabelsFor(t *testing.T) {
	type in struct {
		FullName string `json:"full_name,omitempty" label:"Full name"`
		Skip     string `json:"-" label:"Skipped"`
		NoLabel  string `json:"no_label"`
	}
	m := labelsFor(reflect.TypeOf(&in{}))
	if m["full_name"] != "Full name" || m["Skip"] != "Skipped" {
		t.Errorf("labels = %v", m)
	}
	if _, has := m["no_label"]; has {
		t.Error("unlabeled field should be absent")
	}
	if labelsFor(reflect.TypeOf(42)) != nil {
		t.Error("non-struct should give nil")
	}
}
