package formguard

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validFields() Fields {
	return Fields{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Company: "Acme",
		Message: "We need background screening for 40 hires.",
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello  ", "hello"},
		{"<b>bold</b> text", "bold text"},
		{"hi<script>alert(1)</script> there", "hi there"},
		{"<SCRIPT type=\"x\">\nbad()\n</SCRIPT>ok", "ok"},
		{"Tom & Jerry", "Tom & Jerry"},
		{"a < b", "a < b"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Hello", "Hello"},
		{"Smith &amp; Sons", "Smith & Sons"},
		{"<!-- x --><i>Acme</i>", "Acme"},
	}
	for _, tt := range tests {
		got := Sanitize(tt.in)
		if got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := Sanitize(got); again != got {
			t.Errorf("Sanitize not idempotent for %q: %q -> %q", tt.in, got, again)
		}
	}
}

func TestValidateForm_Valid(t *testing.T) {
	r := ValidateForm(validFields())
	if !r.Valid || len(r.Errors) != 0 {
		t.Fatalf("ValidateForm() = %+v, want valid", r)
	}
	if r.Err() != nil {
		t.Errorf("Err() = %v, want nil", r.Err())
	}
}

func TestValidateForm_FieldMessages(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Fields)
		field string
		want  string
	}{
		{"name empty", func(f *Fields) { f.Name = "  " }, "name", "Name is required"},
		{"name short", func(f *Fields) { f.Name = "J" }, "name", "Name must be at least 2 characters"},
		{"name long", func(f *Fields) { f.Name = strings.Repeat("a", 101) }, "name", "Name is too long"},
		{"email empty", func(f *Fields) { f.Email = "" }, "email", "Email is required"},
		{"email bad", func(f *Fields) { f.Email = "jane@example" }, "email", "Please enter a valid email address"},
		{"email long", func(f *Fields) { f.Email = strings.Repeat("a", 250) + "@example.com" }, "email", "Email is too long"},
		{"company long", func(f *Fields) { f.Company = strings.Repeat("c", 201) }, "company", "Company name is too long"},
		{"message empty", func(f *Fields) { f.Message = "" }, "message", "Message is required"},
		{"message short", func(f *Fields) { f.Message = "too short" }, "message", "Message must be at least 10 characters"},
		{"message long", func(f *Fields) { f.Message = strings.Repeat("m", 5001) }, "message", "Message is too long (maximum 5000 characters)"},
		{"link", func(f *Fields) { f.Message = "see http://spam.example now" }, "message", "Please remove links or multiple email addresses from your message"},
		{"www", func(f *Fields) { f.Message = "visit WWW.spam.example today" }, "message", "Please remove links or multiple email addresses from your message"},
		{"two emails", func(f *Fields) { f.Message = "mail a@b.com or c@d.org please" }, "message", "Please remove links or multiple email addresses from your message"},
		{"spam overrides short", func(f *Fields) { f.Message = "www.x.io" }, "message", "Please remove links or multiple email addresses from your message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mod(&f)
			r := ValidateForm(f)
			if r.Valid {
				t.Fatal("expected invalid")
			}
			if got := r.Errors[tt.field]; got != tt.want {
				t.Errorf("Errors[%s] = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestValidateForm_OneEmailInMessageAllowed(t *testing.T) {
	f := validFields()
	f.Message = "Reply to jane@example.com with pricing please."
	if r := ValidateForm(f); !r.Valid {
		t.Errorf("unexpected errors: %v", r.Errors)
	}
}

func TestValidateForm_CountsRunes(t *testing.T) {
	f := validFields()
	f.Name = strings.Repeat("é", 100)
	if r := ValidateForm(f); !r.Valid {
		t.Errorf("100 runes should be accepted: %v", r.Errors)
	}
}

func TestValidateForm_CollectsAll(t *testing.T) {
	r := ValidateForm(Fields{})
	for _, k := range []string{"name", "email", "message"} {
		if _, ok := r.Errors[k]; !ok {
			t.Errorf("missing error for %s", k)
		}
	}
	var ve *ValidationError
	if !errors.As(r.Err(), &ve) || len(ve.Fields) != 3 {
		t.Errorf("Err() = %v, want ValidationError with 3 fields", r.Err())
	}
}

func TestCheckRateLimit(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := CheckRateLimit(time.Time{}, now); err != nil {
		t.Errorf("zero last: %v", err)
	}
	if err := CheckRateLimit(now.Add(-61*time.Second), now); err != nil {
		t.Errorf("after window: %v", err)
	}

	err := CheckRateLimit(now.Add(-30500*time.Millisecond), now)
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want RateLimitError", err)
	}
	if rl.Seconds() != 30 {
		t.Errorf("Seconds() = %d, want 30", rl.Seconds())
	}
	if rl.Error() != "Please wait 30 seconds before submitting again." {
		t.Errorf("Error() = %q", rl.Error())
	}

	err = CheckRateLimit(now.Add(-59999*time.Millisecond), now)
	if !errors.As(err, &rl) || rl.Seconds() != 1 {
		t.Errorf("1ms remaining should round up to 1 second, got %v", err)
	}

	if err := CheckRateLimitWindow(now.Add(-10*time.Second), now, 5*time.Second); err != nil {
		t.Errorf("custom window: %v", err)
	}
}

func TestGuard_Check(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g := Guard{MinFillTime: 3 * time.Second}
	sess := Session{Nonce: "abc123", RenderedAt: now.Add(-10 * time.Second)}
	ok := Submission{Fields: validFields(), Nonce: "abc123"}

	if err := g.Check(ok, sess, now); err != nil {
		t.Fatalf("Check() = %v, want nil", err)
	}

	hp := ok
	hp.Honeypot = "http://bot"
	hp.Nonce = "wrong"
	if err := g.Check(hp, sess, now); !errors.Is(err, ErrHoneypot) || !IsSilent(err) {
		t.Errorf("honeypot: err = %v, want silent ErrHoneypot", err)
	}

	bad := ok
	bad.Nonce = "nope"
	if err := g.Check(bad, sess, now); !errors.Is(err, ErrNonceMismatch) {
		t.Errorf("nonce: err = %v", err)
	}

	if err := g.Check(Submission{Fields: validFields()}, Session{}, now); !errors.Is(err, ErrNonceMismatch) {
		t.Errorf("empty nonces must not match: %v", err)
	}

	fast := Session{Nonce: "abc123", RenderedAt: now.Add(-2999 * time.Millisecond)}
	if err := g.Check(ok, fast, now); !errors.Is(err, ErrTooFast) {
		t.Errorf("timing: err = %v", err)
	}

	noTime := Session{Nonce: "abc123"}
	if err := g.Check(ok, noTime, now); err != nil {
		t.Errorf("zero render time should skip timing: %v", err)
	}
}

func TestPipeline_Order(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := NewPipeline()
	sess := Session{Nonce: "n", RenderedAt: now.Add(-time.Second)}

	// Rate limit first, even with invalid fields and a honeypot.
	sub := Submission{Honeypot: "x"}
	_, err := p.Evaluate(sub, sess, now.Add(-10*time.Second), now)
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want RateLimitError", err)
	}

	// Validation before honeypot.
	_, err = p.Evaluate(sub, sess, time.Time{}, now)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	// Honeypot before nonce.
	sub.Fields = validFields()
	sub.Nonce = "other"
	_, err = p.Evaluate(sub, sess, time.Time{}, now)
	if !errors.Is(err, ErrHoneypot) {
		t.Fatalf("err = %v, want ErrHoneypot", err)
	}

	// Nonce before timing.
	sub.Honeypot = ""
	_, err = p.Evaluate(sub, sess, time.Time{}, now)
	if !errors.Is(err, ErrNonceMismatch) {
		t.Fatalf("err = %v, want ErrNonceMismatch", err)
	}

	sub.Nonce = "n"
	_, err = p.Evaluate(sub, sess, time.Time{}, now)
	if !errors.Is(err, ErrTooFast) {
		t.Fatalf("err = %v, want ErrTooFast", err)
	}

	sess.RenderedAt = now.Add(-5 * time.Second)
	sub.Name = "  <b>Jane</b> Doe "
	clean, err := p.Evaluate(sub, sess, time.Time{}, now)
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if clean.Name != "Jane Doe" {
		t.Errorf("clean.Name = %q, want sanitized", clean.Name)
	}
}

func TestBanner(t *testing.T) {
	tests := []struct {
		err     error
		key     string
		visible bool
	}{
		{nil, "", false},
		{&ValidationError{Fields: map[string]string{"name": "x"}}, "", false},
		{ErrHoneypot, "", false},
		{&RateLimitError{Wait: 5 * time.Second}, KeyRateLimit, true},
		{ErrNonceMismatch, KeyCSRF, true},
		{ErrTooFast, KeyTiming, true},
		{errors.New("boom"), KeySubmit, true},
	}
	for _, tt := range tests {
		key, msg, ok := Banner(tt.err)
		if key != tt.key || ok != tt.visible {
			t.Errorf("Banner(%v) = (%q, %q, %v), want key %q visible %v", tt.err, key, msg, ok, tt.key, tt.visible)
		}
	}
	if _, msg, _ := Banner(errors.New("boom")); msg != MsgSubmitFailed {
		t.Errorf("generic message = %q", msg)
	}
}

func TestPrefillMessage(t *testing.T) {
	if got := PrefillMessage("Drug Testing"); got != "I am interested in the Drug Testing service. Please provide a quote." {
		t.Errorf("PrefillMessage = %q", got)
	}
	if got := PrefillMessage("  "); got != "" {
		t.Errorf("PrefillMessage(blank) = %q, want empty", got)
	}
}

func validTestimonial() TestimonialFields {
	return TestimonialFields{
		Name:        "Dr. Elena Rossi",
		RoleCompany: "Compliance Lead, PharmaGlobal",
		Location:    "Milan, Italy",
		Rating:      5,
		Experience:  "Thorough checks and clear reports every time.",
	}
}

func TestValidateTestimonial(t *testing.T) {
	if r := ValidateTestimonial(validTestimonial()); !r.Valid {
		t.Fatalf("ValidateTestimonial() = %+v, want valid", r)
	}

	tests := []struct {
		name  string
		mod   func(*TestimonialFields)
		field string
		want  string
	}{
		{"name empty", func(f *TestimonialFields) { f.Name = " " }, "name", "Name is required"},
		{"role empty", func(f *TestimonialFields) { f.RoleCompany = "" }, "role_company", "Role & Company is required"},
		{"role without company", func(f *TestimonialFields) { f.RoleCompany = "Consultant" }, "role_company", `Please enter your role and company, e.g. "CTO, Acme"`},
		{"location empty", func(f *TestimonialFields) { f.Location = "" }, "location", "Location is required"},
		{"rating high", func(f *TestimonialFields) { f.Rating = 6 }, "rating", "Rating must be between 1 and 5"},
		{"rating negative", func(f *TestimonialFields) { f.Rating = -1 }, "rating", "Rating must be between 1 and 5"},
		{"experience empty", func(f *TestimonialFields) { f.Experience = "" }, "experience", "Experience is required"},
		{"experience short", func(f *TestimonialFields) { f.Experience = "Great" }, "experience", "Please write at least 10 characters"},
		{"experience link", func(f *TestimonialFields) { f.Experience = "Visit https://spam.example now" }, "experience",
			"Please remove links or multiple email addresses from your message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validTestimonial()
			tt.mod(&f)
			r := ValidateTestimonial(f)
			if r.Valid {
				t.Fatal("want invalid")
			}
			if got := r.Errors[tt.field]; got != tt.want {
				t.Errorf("Errors[%q] = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestTestimonialFields_SanitizedDefaultsRating(t *testing.T) {
	f := validTestimonial()
	f.Rating = 0
	f.Name = "<b>Elena</b>"
	got := f.Sanitized()
	if got.Rating != 5 {
		t.Errorf("Rating = %d, want 5", got.Rating)
	}
	if got.Name != "Elena" {
		t.Errorf("Name = %q, want Elena", got.Name)
	}
}

func TestPipeline_TestimonialOrder(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := NewPipeline()
	sess := Session{Nonce: "n", RenderedAt: now.Add(-time.Minute)}

	sub := TestimonialSubmission{Honeypot: "x"}
	_, err := p.EvaluateTestimonial(sub, sess, now.Add(-time.Second), now)
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want RateLimitError", err)
	}

	_, err = p.EvaluateTestimonial(sub, sess, time.Time{}, now)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	sub.TestimonialFields = validTestimonial()
	if _, err = p.EvaluateTestimonial(sub, sess, time.Time{}, now); !errors.Is(err, ErrHoneypot) {
		t.Fatalf("err = %v, want ErrHoneypot", err)
	}

	sub.Honeypot = ""
	if _, err = p.EvaluateTestimonial(sub, sess, time.Time{}, now); !errors.Is(err, ErrNonceMismatch) {
		t.Fatalf("err = %v, want ErrNonceMismatch", err)
	}

	sub.Nonce = "n"
	if _, err = p.EvaluateTestimonial(sub, Session{Nonce: "n", RenderedAt: now}, time.Time{}, now); !errors.Is(err, ErrTooFast) {
		t.Fatalf("err = %v, want ErrTooFast", err)
	}

	clean, err := p.EvaluateTestimonial(sub, sess, time.Time{}, now)
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if clean.Name != "Dr. Elena Rossi" {
		t.Errorf("clean.Name = %q", clean.Name)
	}
}

func TestSplitRoleCompany(t *testing.T) {
	tests := []struct{ in, role, company string }{
		{"CTO, Acme", "CTO", "Acme"},
		{"Head of HR, Smith, Jones & Co", "Head of HR", "Smith, Jones & Co"},
		{"Founder at NextGen", "Founder", "NextGen"},
		{"Consultant", "Consultant", ""},
	}
	for _, tt := range tests {
		role, company := SplitRoleCompany(tt.in)
		if role != tt.role || company != tt.company {
			t.Errorf("SplitRoleCompany(%q) = %q, %q; want %q, %q", tt.in, role, company, tt.role, tt.company)
		}
	}
}
