package formguard

import (
	"strconv"
	"strings"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
)

// Testimonial form limits, in runes of trimmed input.
const (
	RoleCompanyMax = 200
	LocationMax    = 100
	ExperienceMin  = 10
	ExperienceMax  = 2000
)

// TestimonialFields are the user-entered values of the public testimonial
// form. RoleCompany is one free-text line such as "CTO, Acme Ltd".
type TestimonialFields struct {
	Name        string `json:"name"`
	RoleCompany string `json:"role_company"`
	Location    string `json:"location"`
	Rating      int    `json:"rating"`
	Experience  string `json:"experience"`
}

// TestimonialSubmission is what the testimonial form sent.
type TestimonialSubmission struct {
	TestimonialFields
	Honeypot string `json:"bot_field"`
	Nonce    string `json:"nonce"`
}

// Sanitized strips markup from every text field. A zero rating becomes the
// default; other values are kept so validation can reject them.
func (f TestimonialFields) Sanitized() TestimonialFields {
	out := TestimonialFields{
		Name:        Sanitize(f.Name),
		RoleCompany: Sanitize(f.RoleCompany),
		Location:    Sanitize(f.Location),
		Rating:      f.Rating,
		Experience:  Sanitize(f.Experience),
	}
	if out.Rating == 0 {
		out.Rating = models.DefaultRating
	}
	return out
}

// ValidateTestimonial checks every field and collects all failures.
func ValidateTestimonial(f TestimonialFields) Result {
	errs := map[string]string{}

	switch n := runes(f.Name); {
	case n == 0:
		errs["name"] = "Name is required"
	case n > NameMax:
		errs["name"] = "Name is too long"
	}

	switch n := runes(f.RoleCompany); {
	case n == 0:
		errs["role_company"] = "Role & Company is required"
	case n > RoleCompanyMax:
		errs["role_company"] = "Role & Company is too long"
	default:
		if role, company := SplitRoleCompany(f.RoleCompany); role == "" || company == "" {
			errs["role_company"] = `Please enter your role and company, e.g. "CTO, Acme"`
		}
	}

	switch n := runes(f.Location); {
	case n == 0:
		errs["location"] = "Location is required"
	case n > LocationMax:
		errs["location"] = "Location is too long"
	}

	if f.Rating < models.MinRating || f.Rating > models.MaxRating {
		errs["rating"] = "Rating must be between " + strconv.Itoa(models.MinRating) +
			" and " + strconv.Itoa(models.MaxRating)
	}

	switch n := runes(f.Experience); {
	case n == 0:
		errs["experience"] = "Experience is required"
	case n < ExperienceMin:
		errs["experience"] = "Please write at least 10 characters"
	case n > ExperienceMax:
		errs["experience"] = "Experience is too long (maximum 2000 characters)"
	}
	if HasSpam(f.Experience) {
		errs["experience"] = "Please remove links or multiple email addresses from your message"
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// SplitRoleCompany splits "Role, Company" at the first comma, or failing
// that at the first " at ". Without either the whole line is the role.
func SplitRoleCompany(s string) (role, company string) {
	s = strings.TrimSpace(s)
	if role, company, ok := strings.Cut(s, ","); ok {
		return strings.TrimSpace(role), strings.TrimSpace(company)
	}
	if i := strings.Index(strings.ToLower(s), " at "); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+4:])
	}
	return s, ""
}
