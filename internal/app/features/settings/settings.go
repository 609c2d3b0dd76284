// internal/app/features/settings/settings.go
package settings

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	errorsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/errors"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/crud"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auditlog"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/events"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/htmlsanitize"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/inputval"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/sitesettings"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MaxFieldLength caps every free-text setting.
const MaxFieldLength = 1000

// Saver persists the settings singleton with a version check.
// *settingsstore.Store implements it.
type Saver interface {
	SaveSite(ctx context.Context, in models.SiteSettings) (models.SiteSettings, error)
}

// Handler provides the site settings endpoints.
type Handler struct {
	store    Saver
	resolver *sitesettings.Resolver
	audit    *auditlog.Logger
	pub      events.Publisher
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger
}

// NewHandler creates a new settings Handler.
func NewHandler(
	store Saver,
	resolver *sitesettings.Resolver,
	audit *auditlog.Logger,
	pub events.Publisher,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		store:    store,
		resolver: resolver,
		audit:    audit,
		pub:      pub,
		errLog:   errLog,
		logger:   logger,
	}
}

// Routes returns the router to mount at /api/settings.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.show)
	r.With(auth.RequireAdmin).Put("/", h.update)
	return r
}

// show returns the current settings. It never fails.
func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, h.resolver.Get(r.Context()))
}

// clean trims and strips markup from every text field.
func clean(s models.SiteSettings) models.SiteSettings {
	for _, p := range []*string{
		&s.SiteName, &s.Description, &s.Keywords, &s.Logo, &s.AnalyticsID,
		&s.Email, &s.Phone, &s.Address, &s.Facebook, &s.Twitter, &s.LinkedIn,
		&s.GoogleVerification,
	} {
		*p = htmlsanitize.Text(*p)
	}
	s.Email = strings.ToLower(s.Email)
	return s
}

// Validate returns field errors for s, nil when it is acceptable.
func Validate(s models.SiteSettings) map[string]string {
	fields := map[string]string{}
	for key, v := range s.ToValues() {
		if v.Kind == models.KindString && len([]rune(v.String)) > MaxFieldLength {
			fields[key] = "Must be at most 1000 characters."
		}
	}
	if s.Email != "" && !inputval.IsValidEmail(s.Email) {
		fields[models.KeyEmail] = "A valid email address is required."
	}
	for key, u := range map[string]string{
		models.KeyFacebook: s.Facebook,
		models.KeyTwitter:  s.Twitter,
		models.KeyLinkedIn: s.LinkedIn,
	} {
		if u != "" && !inputval.IsValidHTTPURL(u) {
			fields[key] = "Must be a URL starting with http:// or https://."
		}
	}
	if !inputval.IsValidImageRef(s.Logo) {
		fields[models.KeyLogo] = "Must be a URL or a path starting with /."
	}
	if s.Version < 0 {
		fields["version"] = "Version must not be negative."
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// update saves the settings when the submitted version matches the stored
// one, then refreshes the resolver snapshot.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in models.SiteSettings
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	in = clean(in)
	if fields := Validate(in); fields != nil {
		jsonutil.ValidationError(w, fields)
		return
	}

	before := h.resolver.Snapshot()
	saved, err := h.store.SaveSite(r.Context(), in)
	if err != nil {
		var cf *crud.ConflictError
		if errors.As(err, &cf) {
			if cur, ok := cf.Current.(models.SiteSettings); ok {
				h.resolver.Set(cur)
			}
		}
		h.errLog.Store(w, r, "failed to save site settings", err)
		return
	}
	h.resolver.Set(saved)

	if before.MaintenanceMode != saved.MaintenanceMode {
		h.logger.Info("maintenance mode changed",
			zap.Bool("maintenance_mode", saved.MaintenanceMode),
			zap.String("by", auth.ActorEmail(r)))
	}
	h.audit.Updated(r, "settings", "", "version="+strconv.FormatInt(saved.Version, 10))
	events.Emit(r.Context(), h.pub, h.logger, events.SubjectSettingsUpdated, saved)
	jsonutil.OK(w, saved)
}
