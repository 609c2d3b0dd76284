package formguard

import (
	"crypto/subtle"
	"time"
)

// Defaults for the guard and pipeline.
const (
	DefaultRateLimitWindow = 60 * time.Second
	DefaultMinFillTime     = 3 * time.Second
)

// CheckRateLimit rejects a submission made within a minute of last.
// A zero last always passes.
func CheckRateLimit(last, now time.Time) error {
	return CheckRateLimitWindow(last, now, DefaultRateLimitWindow)
}

// CheckRateLimitWindow is CheckRateLimit with a custom window.
func CheckRateLimitWindow(last, now time.Time, window time.Duration) error {
	if last.IsZero() {
		return nil
	}
	if elapsed := now.Sub(last); elapsed < window {
		return &RateLimitError{Wait: window - elapsed}
	}
	return nil
}

// Submission is what the submitter sent.
type Submission struct {
	Fields
	Honeypot string `json:"bot_field"`
	Nonce    string `json:"nonce"`
}

// Session is what the server (or client) remembered when the form was rendered.
type Session struct {
	Nonce      string
	RenderedAt time.Time
}

// Guard runs the anti-bot checks.
type Guard struct {
	MinFillTime time.Duration
}

// NonceMatches compares in constant time. Empty values never match.
func NonceMatches(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// Check applies honeypot, nonce and timing checks in that order; the first
// failure wins. A zero RenderedAt skips the timing check.
func (g Guard) Check(sub Submission, sess Session, now time.Time) error {
	return g.check(sub.Honeypot, sub.Nonce, sess, now)
}

func (g Guard) check(honeypot, nonce string, sess Session, now time.Time) error {
	if honeypot != "" {
		return ErrHoneypot
	}
	if !NonceMatches(nonce, sess.Nonce) {
		return ErrNonceMismatch
	}
	min := g.MinFillTime
	if min <= 0 {
		min = DefaultMinFillTime
	}
	if !sess.RenderedAt.IsZero() && now.Sub(sess.RenderedAt) < min {
		return ErrTooFast
	}
	return nil
}

// Pipeline is the full submission gate: rate limit, field validation, then
// the guard checks.
type Pipeline struct {
	Window time.Duration
	Guard  Guard
}

// NewPipeline returns a Pipeline with the default window and fill time.
func NewPipeline() Pipeline {
	return Pipeline{
		Window: DefaultRateLimitWindow,
		Guard:  Guard{MinFillTime: DefaultMinFillTime},
	}
}

// Evaluate sanitizes the contact fields and runs every stage. It returns the
// sanitized fields together with the first failing stage's error.
func (p Pipeline) Evaluate(sub Submission, sess Session, last, now time.Time) (Fields, error) {
	clean := sub.Fields.Sanitized()
	return clean, p.run(ValidateForm(clean), sub.Honeypot, sub.Nonce, sess, last, now)
}

// EvaluateTestimonial is Evaluate for the public testimonial form.
func (p Pipeline) EvaluateTestimonial(sub TestimonialSubmission, sess Session, last, now time.Time) (TestimonialFields, error) {
	clean := sub.TestimonialFields.Sanitized()
	return clean, p.run(ValidateTestimonial(clean), sub.Honeypot, sub.Nonce, sess, last, now)
}

// run applies rate limit, field validation, then the guard.
func (p Pipeline) run(fields Result, honeypot, nonce string, sess Session, last, now time.Time) error {
	window := p.Window
	if window <= 0 {
		window = DefaultRateLimitWindow
	}
	if err := CheckRateLimitWindow(last, now, window); err != nil {
		return err
	}
	if err := fields.Err(); err != nil {
		return err
	}
	return p.Guard.check(honeypot, nonce, sess, now)
}
