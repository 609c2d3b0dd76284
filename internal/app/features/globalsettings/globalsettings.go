// internal/app/features/globalsettings/globalsettings.go
//
// Package globalsettings is the admin key/value editor over global_settings.
// Site-group keys are edited through /api/settings instead.
package globalsettings

import (
	"errors"
	"net/http"
	"strings"

	errorsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/errors"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/crud"
	settingsstore "github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/settings"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auditlog"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	kind         = "global_setting"
	maxKeyLen    = 100
	maxDescLen   = 500
	msgManaged   = "This key is managed by /api/settings."
	msgKeyFormat = "Key may only contain letters, digits, dots, dashes and underscores."
)

// Handler serves /api/global-settings.
type Handler struct {
	store  *settingsstore.Store
	audit  *auditlog.Logger
	errLog *errorsfeature.ErrorLogger
	logger *zap.Logger
}

// NewHandler creates a global settings Handler.
func NewHandler(store *settingsstore.Store, audit *auditlog.Logger, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{store: store, audit: audit, errLog: errLog, logger: logger}
}

// Routes returns the admin-only router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAdmin)
	r.Get("/", h.list)
	r.Get("/{key}", h.get)
	r.Put("/{key}", h.put)
	r.Delete("/{key}", h.delete)
	return r
}

// managed reports keys owned by the settings singleton.
func managed(key string) bool {
	if key == models.KeySettingsVersion {
		return true
	}
	for _, k := range models.SiteSettingKeys() {
		if k == key {
			return true
		}
	}
	return false
}

func validKey(key string) bool {
	if key == "" || len(key) > maxKeyLen {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '.', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListGroup(r.Context(), strings.TrimSpace(r.URL.Query().Get("group")))
	if err != nil {
		h.errLog.Log(r, "failed to list global settings", err)
		jsonutil.InternalError(w, "internal error")
		return
	}
	jsonutil.OK(w, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	g, err := h.store.GetByKey(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.errLog.Store(w, r, "failed to load global setting", err)
		return
	}
	jsonutil.OK(w, g)
}

type putInput struct {
	Value       models.Value `json:"value"`
	Description string       `json:"description"`
	Group       string       `json:"group"`
	Revision    int64        `json:"revision"`
}

// put creates the key when revision is 0 and it does not exist yet, and
// otherwise updates it when revision matches.
func (h *Handler) put(w http.ResponseWriter, r *http.Request) {
	key := models.NormalizeSettingKey(chi.URLParam(r, "key"))
	var in putInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	in.Description = strings.TrimSpace(in.Description)
	in.Group = models.NormalizeSettingKey(in.Group)

	fields := map[string]string{}
	switch {
	case !validKey(key):
		fields["key"] = msgKeyFormat
	case managed(key):
		fields["key"] = msgManaged
	}
	if in.Group == models.SettingGroupSite || in.Group == models.SettingGroupSystem {
		fields["group"] = msgManaged
	}
	if len([]rune(in.Description)) > maxDescLen {
		fields["description"] = "Description must be at most 500 characters."
	}
	if in.Value.Kind == "" {
		in.Value = models.NullValue()
	}
	if len(fields) > 0 {
		jsonutil.ValidationError(w, fields)
		return
	}

	ctx := r.Context()
	if in.Revision > 0 {
		g, err := h.store.UpdateByKey(ctx, key, in.Revision, in.Value, in.Description)
		if err != nil {
			h.errLog.Store(w, r, "failed to update global setting", err)
			return
		}
		h.audit.Updated(r, kind, key, "")
		jsonutil.OK(w, g)
		return
	}

	g, err := h.store.Insert(ctx, key, in.Value, in.Description, in.Group)
	if errors.Is(err, crud.ErrDuplicate) {
		// Someone else created it first; hand back their copy.
		cur, gerr := h.store.GetByKey(ctx, key)
		if gerr != nil {
			h.errLog.Store(w, r, "failed to load global setting", gerr)
			return
		}
		jsonutil.Conflict(w, cur)
		return
	}
	if err != nil {
		h.errLog.Store(w, r, "failed to create global setting", err)
		return
	}
	h.audit.Created(r, kind, key, "")
	jsonutil.Created(w, g)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	key := models.NormalizeSettingKey(chi.URLParam(r, "key"))
	if managed(key) {
		jsonutil.ValidationError(w, map[string]string{"key": msgManaged})
		return
	}
	if err := h.store.DeleteByKey(r.Context(), key); err != nil {
		h.errLog.Store(w, r, "failed to delete global setting", err)
		return
	}
	h.audit.Deleted(r, kind, key, "")
	jsonutil.NoContent(w)
}
