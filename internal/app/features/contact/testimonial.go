package contact

import (
	"net/http"
	"time"

	errorsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/errors"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/submissions"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/testimonials"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/events"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/formguard"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/network"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TestimonialFormName keys the testimonial nonce session and its own
// submission timestamps, separate from the contact form.
const TestimonialFormName = "testimonial"

// TestimonialConfig wires the testimonial form. Publisher is optional.
type TestimonialConfig struct {
	Testimonials *testimonials.Store
	Tracker      submissions.Tracker
	Sessions     *auth.SessionManager
	Pipeline     formguard.Pipeline
	Publisher    events.Publisher
}

// TestimonialHandler serves the public testimonial form. Submissions are
// stored inactive; an admin publishes them through PUT /api/testimonials/{id}.
type TestimonialHandler struct {
	cfg    TestimonialConfig
	form   publicForm
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
	now    func() time.Time
}

// NewTestimonialHandler creates a TestimonialHandler.
func NewTestimonialHandler(cfg TestimonialConfig, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *TestimonialHandler {
	return &TestimonialHandler{
		cfg: cfg,
		form: publicForm{
			name:     TestimonialFormName,
			sessions: cfg.Sessions,
			tracker:  cfg.Tracker,
			pipeline: cfg.Pipeline,
			logger:   logger,
		},
		errLog: errLog,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register adds GET /form and POST /submit to the /api/testimonials router.
func (h *TestimonialHandler) Register(r chi.Router) {
	r.Get("/form", h.render)
	r.Post("/submit", h.submit)
}

func (h *TestimonialHandler) render(w http.ResponseWriter, r *http.Request) {
	resp, err := h.form.issue(w, r, h.now())
	if err != nil {
		h.errLog.Log(r, "failed to issue testimonial form nonce", err)
		jsonutil.InternalError(w, formguard.MsgSubmitFailed)
		return
	}
	jsonutil.OK(w, resp)
}

func (h *TestimonialHandler) submit(w http.ResponseWriter, r *http.Request) {
	var in formguard.TestimonialSubmission
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}

	ctx := r.Context()
	now := h.now()
	ip := network.ClientIP(r)

	clean, err := h.cfg.Pipeline.EvaluateTestimonial(in, h.form.session(r), h.form.last(ctx, ip), now)
	if err != nil {
		h.form.reject(w, r, ip, err)
		return
	}

	role, company := formguard.SplitRoleCompany(clean.RoleCompany)
	t := &models.Testimonial{
		Name:     clean.Name,
		Role:     role,
		Company:  company,
		Location: clean.Location,
		Text:     clean.Experience,
		Rating:   clean.Rating,
		IsActive: false,
	}
	testimonials.Normalize(t)
	if err := h.cfg.Testimonials.Create(ctx, t); err != nil {
		h.errLog.Log(r, "failed to store testimonial submission", err)
		jsonutil.InternalError(w, formguard.MsgSubmitFailed)
		return
	}

	h.form.accepted(w, r, ip, now)

	h.logger.Info("testimonial submission received",
		zap.String("id", t.IDHex()),
		zap.String("ip", ip))
	events.Emit(ctx, h.cfg.Publisher, h.logger, events.SubjectTestimonialReceived, t)

	jsonutil.Created(w, map[string]any{"status": "received", "id": t.IDHex()})
}
