// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	activityfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/activity"
	contactfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/contact"
	contentfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/content"
	errorsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/errors"
	filesfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/files"
	globalsettingsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/globalsettings"
	healthfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/health"
	inboxfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/inbox"
	loginfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/login"
	pagecontentfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/pagecontent"
	settingsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/settings"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/activity"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/blogs"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/contacts"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/faqs"
	pagestore "github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/pagecontent"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/ratelimit"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/services"
	settingsstore "github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/settings"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/testimonials"
	userstore "github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/users"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auditlog"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/formguard"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/sitesettings"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// csrfExempt lists the mutating endpoints reachable without a CSRF token.
// Login has no session yet; the public forms carry their own nonce.
var csrfExempt = map[string]bool{
	"/api/auth/login":          true,
	"/api/contact":             true,
	"/api/testimonials/submit": true,
}

// skipCSRF reports whether req bypasses CSRF validation. Requests with an
// Authorization header are authenticated by LoadBearerUser alone and never
// by the browser cookie, so they cannot be forged cross-site.
func skipCSRF(req *http.Request) bool {
	if req.Header.Get("Authorization") != "" {
		return true
	}
	return csrfExempt[strings.TrimSuffix(req.URL.Path, "/")]
}

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. Middleware order matters: the cookie user is
// loaded first, a bearer token then overrides it, and only then does the
// maintenance gate run so it can recognise admins.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	tokens, err := auth.NewTokenIssuer(appCfg.TokenKey, appCfg.TokenMaxAge, secure, logger)
	if err != nil {
		logger.Error("token issuer init failed", zap.Error(err))
		return nil, err
	}

	// Fetch fresh user data on each request so disabled accounts lose
	// access immediately.
	fetcher := userstore.NewFetcher(deps.MongoDatabase, logger)
	sessionMgr.SetUserFetcher(fetcher)

	db := deps.MongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger)
	activityStore := activity.New(db)
	auditLogger := auditlog.New(activityStore, logger, appCfg.ActivityLogMode, deps.Publisher)
	settingsStore := settingsstore.New(db)
	resolver := siteResolver(settingsStore, logger)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(timeouts.Request()))

	// CORS middleware: must be early in the chain to handle preflight requests.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	r.Use(sessionMgr.LoadSessionUser)
	r.Use(auth.LoadBearerUser(tokens, fetcher, logger))
	r.Use(sitesettings.Maintenance(resolver))

	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("ddsite_csrf"),
		csrf.RequestHeader("X-CSRF-Token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			jsonutil.Forbidden(w, "CSRF token invalid or missing")
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	csrfProtect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)
	r.Use(func(next http.Handler) http.Handler {
		protected := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if skipCSRF(req) {
				next.ServeHTTP(w, req)
				return
			}
			protected.ServeHTTP(w, req)
		})
	})

	// ─────────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────────

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	if deps.Redis != nil {
		healthHandler.AddCheck("redis", deps.Redis)
	}
	if deps.NATS != nil {
		healthHandler.AddCheck("nats", deps.NATS)
	}
	if taskRunner != nil {
		healthHandler.AddCheck("tasks", taskRunner)
	}
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Uploaded files (local storage only)
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	r.Route("/api", func(api chi.Router) {
		// Authentication
		var rateLimitStore *ratelimit.Store
		if appCfg.RateLimitEnabled {
			rateLimitStore = ratelimit.New(db,
				appCfg.RateLimitLoginAttempts,
				appCfg.RateLimitLoginWindow,
				appCfg.RateLimitLoginLockout,
			)
		}
		loginHandler := loginfeature.NewHandler(userstore.New(db), rateLimitStore, sessionMgr, tokens, auditLogger, errLog, logger)
		api.Mount("/auth", loginHandler.Routes())

		// Marketing content
		api.Mount("/services", contentfeature.NewHandler(contentfeature.Services(services.New(db)), auditLogger, errLog, logger).Routes())
		api.Mount("/faqs", contentfeature.NewHandler(contentfeature.FAQs(faqs.New(db)), auditLogger, errLog, logger).Routes())
		api.Mount("/blogs", contentfeature.NewHandler(contentfeature.Blogs(blogs.New(db)), auditLogger, errLog, logger).Routes())
		api.Mount("/page-content", pagecontentfeature.NewHandler(pagestore.New(db), auditLogger, errLog, logger).Routes())

		// Contact form and the staff inbox
		contactStore := contacts.New(db)
		pipeline := formguard.NewPipeline()
		pipeline.Window = appCfg.ContactRateWindow
		pipeline.Guard.MinFillTime = appCfg.ContactMinFillTime
		contactHandler := contactfeature.NewHandler(contactfeature.Config{
			Contacts:  contactStore,
			Tracker:   deps.Submissions,
			Sessions:  sessionMgr,
			Pipeline:  pipeline,
			Settings:  resolver,
			Mail:      deps.Mailer,
			NotifyTo:  appCfg.ContactNotifyTo,
			AdminURL:  strings.TrimSuffix(appCfg.BaseURL, "/") + "/admin/inbox",
			Publisher: deps.Publisher,
		}, errLog, logger)
		api.Mount("/contact", contactHandler.Routes())

		// Testimonials: admin CRUD plus the public submission form
		testimonialStore := testimonials.New(db)
		testimonialRoutes := contentfeature.NewHandler(contentfeature.Testimonials(testimonialStore), auditLogger, errLog, logger).Routes()
		contactfeature.NewTestimonialHandler(contactfeature.TestimonialConfig{
			Testimonials: testimonialStore,
			Tracker:      deps.Submissions,
			Sessions:     sessionMgr,
			Pipeline:     pipeline,
			Publisher:    deps.Publisher,
		}, errLog, logger).Register(testimonialRoutes)
		api.Mount("/testimonials", testimonialRoutes)
		api.Mount("/contact-submissions", inboxfeature.NewHandler(contactStore, auditLogger, errLog, logger).Routes())

		// Settings
		api.Mount("/settings", settingsfeature.NewHandler(settingsStore, resolver, auditLogger, deps.Publisher, errLog, logger).Routes())
		api.Mount("/global-settings", globalsettingsfeature.NewHandler(settingsStore, auditLogger, errLog, logger).Routes())

		// Activity log and uploads (admin only)
		api.Mount("/audit-logs", activityfeature.NewHandler(activityStore, errLog, logger).Routes())
		api.Mount("/uploads", filesfeature.NewHandler(deps.FileStorage, errLog, auditLogger, logger).Routes())
	})

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	return r, nil
}
