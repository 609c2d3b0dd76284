// internal/app/features/inbox/inbox.go
//
// Package inbox is the admin view of contact submissions.
package inbox

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	errorsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/errors"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/contacts"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auditlog"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/htmlsanitize"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const (
	kind        = "contact_submission"
	maxNotesLen = 5000
)

// Handler serves /api/contact-submissions.
type Handler struct {
	store  *contacts.Store
	audit  *auditlog.Logger
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates an inbox Handler.
func NewHandler(store *contacts.Store, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, audit: audit, errLog: errLog, logger: logger}
}

// Routes returns the admin-only router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAdmin)
	r.Get("/", h.list)
	r.Get("/counts", h.counts)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	if limit < 0 {
		limit = 0
	}
	if page < 1 {
		page = 1
	}

	list, err := h.store.ListByStatus(r.Context(), strings.TrimSpace(q.Get("status")), limit, page)
	if errors.Is(err, contacts.ErrInvalidStatus) {
		jsonutil.ValidationError(w, map[string]string{"status": statusMessage()})
		return
	}
	if err != nil {
		h.errLog.Log(r, "failed to list contact submissions", err)
		jsonutil.InternalError(w, "internal error")
		return
	}
	jsonutil.OK(w, list)
}

// counts reports the number of submissions per status.
func (h *Handler) counts(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]int64, len(models.AllContactStatuses()))
	for _, s := range models.AllContactStatuses() {
		n, err := h.store.Count(r.Context(), bson.M{"status": s})
		if err != nil {
			h.errLog.Log(r, "failed to count contact submissions", err)
			jsonutil.InternalError(w, "internal error")
			return
		}
		out[s] = n
	}
	jsonutil.OK(w, out)
}

// get returns one submission; opening a new one marks it read.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sub, err := h.store.MarkRead(r.Context(), id)
	if err != nil {
		h.errLog.Store(w, r, "failed to load contact submission", err)
		return
	}
	jsonutil.OK(w, sub)
}

type updateInput struct {
	Status   string `json:"status"`
	Notes    string `json:"notes"`
	Revision int64  `json:"revision"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in updateInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.Notes = htmlsanitize.Text(in.Notes)

	fields := map[string]string{}
	if !models.IsValidContactStatus(in.Status) {
		fields["status"] = statusMessage()
	}
	if len([]rune(in.Notes)) > maxNotesLen {
		fields["notes"] = "Notes must be at most 5000 characters."
	}
	if in.Revision <= 0 {
		fields["revision"] = "Revision is required."
	}
	if len(fields) > 0 {
		jsonutil.ValidationError(w, fields)
		return
	}

	id := chi.URLParam(r, "id")
	sub, err := h.store.SetStatus(r.Context(), id, in.Revision, in.Status, in.Notes)
	if err != nil {
		h.errLog.Store(w, r, "failed to update contact submission", err)
		return
	}
	h.audit.Updated(r, kind, id, "status="+sub.Status)
	jsonutil.OK(w, sub)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.errLog.Store(w, r, "failed to delete contact submission", err)
		return
	}
	h.audit.Deleted(r, kind, id, "")
	jsonutil.NoContent(w)
}

func statusMessage() string {
	return "Status must be one of: " + strings.Join(models.AllContactStatuses(), ", ") + "."
}
