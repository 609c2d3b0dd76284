// internal/app/features/contact/contact.go
//
// Package contact serves the public forms:
//
//	GET  /api/contact/form          issue a per-render nonce (and a prefilled message)
//	POST /api/contact               run the anti-abuse pipeline, then store the submission
//	GET  /api/testimonials/form     issue a nonce for the testimonial form
//	POST /api/testimonials/submit   store a testimonial for admin approval
package contact

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	errorsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/errors"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/contacts"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/submissions"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/events"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/formguard"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/mailer"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/network"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/sitesettings"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FormName keys the nonce session and the submission tracker.
const FormName = "contact"

// Config wires the handler's collaborators. Mail, NotifyTo, Publisher and
// Settings are optional.
type Config struct {
	Contacts  *contacts.Store
	Tracker   submissions.Tracker
	Sessions  *auth.SessionManager
	Pipeline  formguard.Pipeline
	Settings  *sitesettings.Resolver
	Mail      mailer.Sender
	NotifyTo  string // staff address; falls back to the site settings email
	AdminURL  string // link included in notification emails
	Publisher events.Publisher
}

// Handler serves the contact form endpoints.
type Handler struct {
	cfg    Config
	form   publicForm
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
	now    func() time.Time
	notify func(mailer.Email) // runs the send; asynchronous outside tests
}

// NewHandler creates a contact Handler.
func NewHandler(cfg Config, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	h := &Handler{
		cfg: cfg,
		form: publicForm{
			name:     FormName,
			sessions: cfg.Sessions,
			tracker:  cfg.Tracker,
			pipeline: cfg.Pipeline,
			logger:   logger,
		},
		errLog: errLog,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	h.notify = func(e mailer.Email) { go h.send(e) }
	return h
}

// Routes returns the router to mount at /api/contact.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/form", h.render)
	r.Post("/", h.submit)
	return r
}

// FormResponse is returned by GET /api/contact/form.
type FormResponse struct {
	Nonce      string    `json:"nonce"`
	RenderedAt time.Time `json:"rendered_at"`
	MinFillMS  int64     `json:"min_fill_ms"`
	Message    string    `json:"message,omitempty"` // prefilled from ?service=
	Service    string    `json:"service,omitempty"`
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	resp, err := h.form.issue(w, r, h.now())
	if err != nil {
		h.errLog.Log(r, "failed to issue contact form nonce", err)
		jsonutil.InternalError(w, formguard.MsgSubmitFailed)
		return
	}
	resp.Service = strings.TrimSpace(r.URL.Query().Get("service"))
	resp.Message = formguard.PrefillMessage(resp.Service)
	jsonutil.OK(w, resp)
}

// submitRequest is the POST body.
type submitRequest struct {
	formguard.Submission
	ServiceInterest string `json:"service_interest"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var in submitRequest
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	ctx := r.Context()
	now := h.now()
	ip := network.ClientIP(r)

	clean, err := h.cfg.Pipeline.Evaluate(in.Submission, h.form.session(r), h.form.last(ctx, ip), now)
	if err != nil {
		h.form.reject(w, r, ip, err)
		return
	}

	sub := &models.ContactSubmission{
		Name:            clean.Name,
		Email:           clean.Email,
		Company:         clean.Company,
		Message:         clean.Message,
		ServiceInterest: formguard.Sanitize(in.ServiceInterest),
		IPAddress:       ip,
	}
	if err := h.cfg.Contacts.Submit(ctx, sub); err != nil {
		h.errLog.Log(r, "failed to store contact submission", err)
		jsonutil.InternalError(w, formguard.MsgSubmitFailed)
		return
	}

	h.form.accepted(w, r, ip, now)

	h.logger.Info("contact submission received",
		zap.String("id", sub.IDHex()),
		zap.String("ip", ip),
		zap.String("service", sub.ServiceInterest))
	events.Emit(ctx, h.cfg.Publisher, h.logger, events.SubjectContactReceived, sub)
	h.notifyStaff(ctx, sub)

	jsonutil.Created(w, map[string]any{"status": "received", "id": sub.IDHex()})
}

func (h *Handler) notifyStaff(ctx context.Context, sub *models.ContactSubmission) {
	if h.cfg.Mail == nil {
		return
	}
	to := h.cfg.NotifyTo
	siteName := ""
	if h.cfg.Settings != nil {
		s := h.cfg.Settings.Get(ctx)
		siteName = s.SiteName
		if to == "" {
			to = s.Email
		}
	}
	if to == "" {
		return
	}
	email, err := mailer.ContactNotificationEmail(to, mailer.ContactNotificationData{
		SiteName:    siteName,
		Name:        sub.Name,
		Email:       sub.Email,
		Company:     sub.Company,
		Message:     sub.Message,
		SubmittedAt: sub.CreatedAt,
		AdminURL:    h.cfg.AdminURL,
	})
	if err != nil {
		h.logger.Error("failed to render contact notification", zap.Error(err))
		return
	}
	h.notify(email)
}

func (h *Handler) send(e mailer.Email) {
	if err := h.cfg.Mail.Send(e); err != nil && !errors.Is(err, mailer.ErrDisabled) {
		h.logger.Warn("contact notification not sent", zap.Error(err))
	}
}
