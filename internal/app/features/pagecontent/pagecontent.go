// internal/app/features/pagecontent/pagecontent.go
package pagecontent

import (
	"net/http"

	errorsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/errors"
	pagestore "github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/pagecontent"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auditlog"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/htmlsanitize"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/normalize"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const kind = "page_content"

// Handler serves /api/page-content.
type Handler struct {
	store  *pagestore.Store
	audit  *auditlog.Logger
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a page content Handler.
func NewHandler(store *pagestore.Store, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, audit: audit, errLog: errLog, logger: logger}
}

// Routes returns the router to mount at /api/page-content.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{page}", h.page)
	r.Get("/{page}/{section}", h.section)
	r.With(auth.RequireAdmin).Put("/{page}/{section}", h.put)
	return r
}

// page returns every section of a page keyed by section name. An unknown
// page is an empty object, not a 404.
func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	sections, err := h.store.GetPage(r.Context(), chi.URLParam(r, "page"))
	if err != nil {
		h.errLog.Log(r, "failed to load page content", err)
		jsonutil.InternalError(w, "internal error")
		return
	}
	jsonutil.OK(w, sections)
}

func (h *Handler) section(w http.ResponseWriter, r *http.Request) {
	pc, err := h.store.GetSection(r.Context(), chi.URLParam(r, "page"), chi.URLParam(r, "section"))
	if err != nil {
		h.errLog.Store(w, r, "failed to load page section", err)
		return
	}
	jsonutil.OK(w, pc)
}

type putInput struct {
	Content  models.Value `json:"content"`
	Revision int64        `json:"revision"`
}

// SanitizeValue cleans the markup in string content, including strings
// nested one level inside object content.
func SanitizeValue(v models.Value) models.Value {
	switch v.Kind {
	case models.KindString:
		v.String = htmlsanitize.Sanitize(v.String)
	case models.KindObject:
		out := make(map[string]any, len(v.Object))
		for k, x := range v.Object {
			if s, ok := x.(string); ok {
				out[k] = htmlsanitize.Sanitize(s)
				continue
			}
			out[k] = x
		}
		v.Object = out
	}
	return v
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	var in putInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	if in.Content.Kind == "" {
		jsonutil.ValidationError(w, map[string]string{"content": "Content is required."})
		return
	}

	page := normalize.Key(chi.URLParam(r, "page"))
	section := normalize.Key(chi.URLParam(r, "section"))
	pc, err := h.store.Upsert(r.Context(), page, section, in.Revision, SanitizeValue(in.Content))
	if err != nil {
		h.errLog.Store(w, r, "failed to save page content", err)
		return
	}
	if pc.Revision == 1 {
		h.audit.Created(r, kind, page+"/"+section, "")
	} else {
		h.audit.Updated(r, kind, page+"/"+section, "")
	}
	jsonutil.OK(w, pc)
}
