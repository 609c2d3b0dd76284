package formguard

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field limits, in runes of trimmed input.
const (
	NameMin    = 2
	NameMax    = 100
	EmailMax   = 255
	CompanyMax = 200
	MessageMin = 10
	MessageMax = 5000
)

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	linkRe       = regexp.MustCompile(`(?i)https?://`)
	wwwRe        = regexp.MustCompile(`(?i)www\.`)
	embeddedMail = regexp.MustCompile(`(?i)[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}`)
)

// Fields are the user-entered values of the contact form.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
}

// Sanitized returns f with every field passed through Sanitize.
func (f Fields) Sanitized() Fields {
	return Fields{
		Name:    Sanitize(f.Name),
		Email:   Sanitize(f.Email),
		Company: Sanitize(f.Company),
		Message: Sanitize(f.Message),
	}
}

// Result is the outcome of ValidateForm. Errors maps field to message.
type Result struct {
	Valid  bool
	Errors map[string]string
}

// Err returns a *ValidationError, or nil when valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Fields: r.Errors}
}

func runes(s string) int { return utf8.RuneCountInString(strings.TrimSpace(s)) }

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailRe.MatchString(strings.TrimSpace(s)) }

// HasSpam reports links or more than one embedded email address in msg.
func HasSpam(msg string) bool {
	if linkRe.MatchString(msg) || wwwRe.MatchString(msg) {
		return true
	}
	return len(embeddedMail.FindAllString(msg, 2)) > 1
}

// ValidateForm checks every field and collects all failures.
func ValidateForm(f Fields) Result {
	errs := map[string]string{}

	switch n := runes(f.Name); {
	case n == 0:
		errs["name"] = "Name is required"
	case n < NameMin:
		errs["name"] = "Name must be at least 2 characters"
	case n > NameMax:
		errs["name"] = "Name is too long"
	}

	switch {
	case runes(f.Email) == 0:
		errs["email"] = "Email is required"
	case !ValidEmail(f.Email):
		errs["email"] = "Please enter a valid email address"
	case runes(f.Email) > EmailMax:
		errs["email"] = "Email is too long"
	}

	if runes(f.Company) > CompanyMax {
		errs["company"] = "Company name is too long"
	}

	switch n := runes(f.Message); {
	case n == 0:
		errs["message"] = "Message is required"
	case n < MessageMin:
		errs["message"] = "Message must be at least 10 characters"
	case n > MessageMax:
		errs["message"] = "Message is too long (maximum 5000 characters)"
	}
	// The spam message replaces any length message.
	if HasSpam(f.Message) {
		errs["message"] = "Please remove links or multiple email addresses from your message"
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// PrefillMessage is the message body suggested when the form is opened from
// a service page. A blank service yields no prefill.
func PrefillMessage(service string) string {
	service = strings.TrimSpace(service)
	if service == "" {
		return ""
	}
	return "I am interested in the " + service + " service. Please provide a quote."
}
