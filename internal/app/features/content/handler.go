// Package content serves the admin-editable collections (services, FAQs,
// testimonials and blog posts) over one REST shape:
//
//	GET    /            list (active only unless an admin asks for ?all=1)
//	GET    /{id}        one document
//	POST   /            create (admin)
//	PUT    /{id}        replace editable fields, body carries revision (admin)
//	DELETE /{id}        delete (admin)
package content

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	errorsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/errors"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/crud"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auditlog"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/inputval"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// maxPageSize caps ?limit on paged lists.
const maxPageSize = 100

// errBadBody marks a request body that is not valid JSON.
var errBadBody = errors.New("invalid JSON body")

// Resource describes one collection.
type Resource[T any, PT interface {
	*T
	crud.Document
}] struct {
	// Kind names the entity in activity log targets, e.g. "service".
	Kind  string
	Store *crud.Store[T, PT]
	// Public filters lists for anonymous callers. Nil lists everything.
	Public func(r *http.Request) bson.M
	// Admin filters ?all=1 lists for admins. Nil lists everything.
	Admin func(r *http.Request) bson.M
	// Lookup resolves the {id} path value. Nil uses Store.Get.
	Lookup func(ctx context.Context, key string) (PT, error)
	// Visible hides documents from anonymous GET /{id}. Nil shows all.
	Visible func(PT) bool
	// Bind decodes and validates a create/update body. fields is non-nil
	// when validation failed.
	Bind func(r *http.Request) (doc PT, revision int64, fields map[string]string, err error)
	// Set builds the $set document for an update.
	Set func(PT) bson.M
	// Label is recorded as the activity log details.
	Label func(PT) string
	// Paged enables ?limit= and ?page=.
	Paged bool
}

// Handler serves one Resource.
type Handler[T any, PT interface {
	*T
	crud.Document
}] struct {
	res    Resource[T, PT]
	audit  *auditlog.Logger
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a Handler for res.
func NewHandler[T any, PT interface {
	*T
	crud.Document
}](res Resource[T, PT], audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler[T, PT] {
	return &Handler[T, PT]{res: res, audit: audit, errLog: errLog, logger: logger}
}

// Routes returns the router to mount at /api/<collection>.
func (h *Handler[T, PT]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAdmin)
		pr.Post("/", h.create)
		pr.Put("/{id}", h.update)
		pr.Delete("/{id}", h.delete)
	})
	return r
}

func isAdmin(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.IsAdmin()
}

func (h *Handler[T, PT]) list(w http.ResponseWriter, r *http.Request) {
	var filter bson.M
	if isAdmin(r) && r.URL.Query().Get("all") == "1" {
		if h.res.Admin != nil {
			filter = h.res.Admin(r)
		}
	} else if h.res.Public != nil {
		filter = h.res.Public(r)
	}

	opts := crud.ListOptions{Filter: filter}
	if h.res.Paged {
		opts.Limit, opts.Page = pageParams(r)
	}

	items, err := h.res.Store.List(r.Context(), opts)
	if err != nil {
		h.errLog.Log(r, "list "+h.res.Kind+" failed", err)
		jsonutil.InternalError(w, "internal error")
		return
	}
	jsonutil.OK(w, items)
}

func (h *Handler[T, PT]) lookup(ctx context.Context, key string) (PT, error) {
	if h.res.Lookup != nil {
		return h.res.Lookup(ctx, key)
	}
	return h.res.Store.Get(ctx, key)
}

func (h *Handler[T, PT]) get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errLog.Store(w, r, "get "+h.res.Kind+" failed", err)
		return
	}
	if h.res.Visible != nil && !h.res.Visible(doc) && !isAdmin(r) {
		jsonutil.NotFound(w, "not found")
		return
	}
	jsonutil.OK(w, doc)
}

// bind runs Resource.Bind and writes the 400 response when it fails.
func (h *Handler[T, PT]) bind(w http.ResponseWriter, r *http.Request) (PT, int64, bool) {
	doc, rev, fields, err := h.res.Bind(r)
	if err != nil {
		jsonutil.BadRequest(w, errBadBody.Error())
		return nil, 0, false
	}
	if len(fields) > 0 {
		jsonutil.ValidationError(w, fields)
		return nil, 0, false
	}
	return doc, rev, true
}

func (h *Handler[T, PT]) label(doc PT) string {
	if h.res.Label == nil {
		return ""
	}
	return h.res.Label(doc)
}

func (h *Handler[T, PT]) create(w http.ResponseWriter, r *http.Request) {
	doc, _, ok := h.bind(w, r)
	if !ok {
		return
	}
	if err := h.res.Store.Create(r.Context(), doc); err != nil {
		h.errLog.Store(w, r, "create "+h.res.Kind+" failed", err)
		return
	}
	h.audit.Created(r, h.res.Kind, doc.Base().IDHex(), h.label(doc))
	jsonutil.Created(w, doc)
}

func (h *Handler[T, PT]) update(w http.ResponseWriter, r *http.Request) {
	doc, rev, ok := h.bind(w, r)
	if !ok {
		return
	}
	if rev <= 0 {
		jsonutil.ValidationError(w, map[string]string{"revision": "Revision is required."})
		return
	}
	id := chi.URLParam(r, "id")
	updated, err := h.res.Store.Update(r.Context(), id, rev, h.res.Set(doc))
	if err != nil {
		h.errLog.Store(w, r, "update "+h.res.Kind+" failed", err)
		return
	}
	h.audit.Updated(r, h.res.Kind, id, h.label(updated))
	jsonutil.OK(w, updated)
}

func (h *Handler[T, PT]) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.res.Store.Delete(r.Context(), id); err != nil {
		h.errLog.Store(w, r, "delete "+h.res.Kind+" failed", err)
		return
	}
	h.audit.Deleted(r, h.res.Kind, id, "")
	jsonutil.NoContent(w)
}

// pageParams reads ?limit= and ?page=. A missing or bad limit means no limit.
func pageParams(r *http.Request) (limit, page int64) {
	q := r.URL.Query()
	limit, _ = strconv.ParseInt(q.Get("limit"), 10, 64)
	if limit < 0 {
		limit = 0
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page, _ = strconv.ParseInt(q.Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	return limit, page
}

// decode reads the JSON body into in and validates it with inputval.
func decode(r *http.Request, in any) (map[string]string, error) {
	if err := jsonutil.Decode(r, in); err != nil {
		return nil, err
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return res.Fields(), nil
	}
	return nil, nil
}

// boolOr returns *p, or def when the field was omitted.
func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
