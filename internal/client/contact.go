// internal/client/contact.go
package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/formguard"
)

// Keys used for per-form submission timestamps.
const (
	ContactFormName     = "contact"
	TestimonialFormName = "testimonial"
)

// Form is an issued public form. FetchedAt is the local clock at issue
// time; the client-side timing check measures from it.
type Form struct {
	Nonce      string    `json:"nonce"`
	RenderedAt time.Time `json:"rendered_at"`
	MinFillMS  int64     `json:"min_fill_ms"`
	Message    string    `json:"message,omitempty"`
	Service    string    `json:"service,omitempty"`
	FetchedAt  time.Time `json:"-"`
}

// ContactForm asks the server for a nonce. service, when set, pre-fills
// the message.
func (c *Client) ContactForm(ctx context.Context, service string) (Form, error) {
	var q url.Values
	if service != "" {
		q = url.Values{"service": {service}}
	}
	return c.issueForm(ctx, "/api/contact/form", q)
}

// TestimonialForm asks the server for a testimonial form nonce.
func (c *Client) TestimonialForm(ctx context.Context) (Form, error) {
	return c.issueForm(ctx, "/api/testimonials/form", nil)
}

func (c *Client) issueForm(ctx context.Context, path string, q url.Values) (Form, error) {
	var out Form
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return Form{}, err
	}
	out.FetchedAt = time.Now()
	return out, nil
}

// pipeline is the local pipeline for form, honoring the server's fill time.
func pipeline(form Form) formguard.Pipeline {
	p := formguard.NewPipeline()
	if form.MinFillMS > 0 {
		p.Guard.MinFillTime = time.Duration(form.MinFillMS) * time.Millisecond
	}
	return p
}

// SubmissionClock remembers when each form was last submitted.
// *localstore.Store implements it.
type SubmissionClock interface {
	LastSubmission(form string) time.Time
	RecordSubmission(form string, at time.Time) error
}

// ContactInput is what the user typed.
type ContactInput struct {
	formguard.Fields
	ServiceInterest string
	Honeypot        string
}

// SubmitContact runs the same pipeline as the server locally, and only
// then posts. Local rejections return the formguard error types without
// touching the network; a silent rejection returns nil. clock may be nil.
func (c *Client) SubmitContact(ctx context.Context, form Form, in ContactInput, clock SubmissionClock) error {
	now := time.Now()
	var last time.Time
	if clock != nil {
		last = clock.LastSubmission(ContactFormName)
	}

	sub := formguard.Submission{Fields: in.Fields, Honeypot: in.Honeypot, Nonce: form.Nonce}
	clean, err := pipeline(form).Evaluate(sub, formguard.Session{Nonce: form.Nonce, RenderedAt: form.FetchedAt}, last, now)
	if err != nil {
		if formguard.IsSilent(err) {
			return nil
		}
		return err
	}

	body := map[string]string{
		"name":             clean.Name,
		"email":            clean.Email,
		"company":          clean.Company,
		"message":          clean.Message,
		"service_interest": in.ServiceInterest,
		"nonce":            form.Nonce,
		"bot_field":        "",
	}
	if err := c.do(ctx, http.MethodPost, "/api/contact", nil, body, nil); err != nil {
		return err
	}
	if clock != nil {
		_ = clock.RecordSubmission(ContactFormName, now)
	}
	return nil
}

// TestimonialInput is what the user typed into the testimonial form.
type TestimonialInput struct {
	formguard.TestimonialFields
	Honeypot string
}

// SubmitTestimonial is SubmitContact for the testimonial form. The server
// stores the testimonial unpublished until an admin approves it.
func (c *Client) SubmitTestimonial(ctx context.Context, form Form, in TestimonialInput, clock SubmissionClock) error {
	now := time.Now()
	var last time.Time
	if clock != nil {
		last = clock.LastSubmission(TestimonialFormName)
	}

	sub := formguard.TestimonialSubmission{TestimonialFields: in.TestimonialFields, Honeypot: in.Honeypot, Nonce: form.Nonce}
	clean, err := pipeline(form).EvaluateTestimonial(sub, formguard.Session{Nonce: form.Nonce, RenderedAt: form.FetchedAt}, last, now)
	if err != nil {
		if formguard.IsSilent(err) {
			return nil
		}
		return err
	}

	body := map[string]any{
		"name":         clean.Name,
		"role_company": clean.RoleCompany,
		"location":     clean.Location,
		"rating":       clean.Rating,
		"experience":   clean.Experience,
		"nonce":        form.Nonce,
		"bot_field":    "",
	}
	if err := c.do(ctx, http.MethodPost, "/api/testimonials/submit", nil, body, nil); err != nil {
		return err
	}
	if clock != nil {
		_ = clock.RecordSubmission(TestimonialFormName, now)
	}
	return nil
}
