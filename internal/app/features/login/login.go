// internal/app/features/login/login.go
package login

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	errorsfeature "github.com/alimahjoub5/Due-Diligence-Project/internal/app/features/errors"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/ratelimit"
	userstore "github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/users"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auditlog"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/authutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// Handler serves /api/auth.
type Handler struct {
	userStore      *userstore.Store
	rateLimitStore *ratelimit.Store // nil disables lockout
	sessionMgr     *auth.SessionManager
	tokens         *auth.TokenIssuer
	auditLogger    *auditlog.Logger
	errLog         *errorsfeature.ErrorLogger
	logger         *zap.Logger
	now            func() time.Time
}

// NewHandler creates a new login Handler. rateLimitStore can be nil to
// disable lockout.
func NewHandler(
	userStore *userstore.Store,
	rateLimitStore *ratelimit.Store,
	sessionMgr *auth.SessionManager,
	tokens *auth.TokenIssuer,
	auditLogger *auditlog.Logger,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userStore:      userStore,
		rateLimitStore: rateLimitStore,
		sessionMgr:     sessionMgr,
		tokens:         tokens,
		auditLogger:    auditLogger,
		errLog:         errLog,
		logger:         logger,
		now:            time.Now,
	}
}

// Routes returns the router to mount at /api/auth.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/session", h.handleSession)
	return r
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Role      string            `json:"role"`
	User      *auth.SessionUser `json:"user"`
}

// SessionResponse describes the caller's current authentication.
type SessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	User          *auth.SessionUser `json:"user,omitempty"`
	CSRFToken     string            `json:"csrf_token,omitempty"`
}

// lockedMessage words a lockout the way the login form always has.
func lockedMessage(wait time.Duration) (string, int) {
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	if wait > time.Minute {
		return fmt.Sprintf("Too many failed login attempts. Please try again in %d minute(s).", int(wait.Minutes())+1), secs
	}
	return fmt.Sprintf("Too many failed login attempts. Please try again in %d second(s).", secs), secs
}

func (h *Handler) tooMany(w http.ResponseWriter, lockedUntil *time.Time) {
	var wait time.Duration
	if lockedUntil != nil {
		wait = lockedUntil.Sub(h.now())
	}
	msg, secs := lockedMessage(wait)
	jsonutil.TooManyRequests(w, msg, secs)
}

func (h *Handler) recordFailure(r *http.Request, email string) (bool, *time.Time) {
	if h.rateLimitStore == nil {
		return false, nil
	}
	return h.rateLimitStore.RecordFailure(r.Context(), email)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in authutil.LoginInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON body")
		return
	}
	in = in.Normalized()
	if errs := authutil.ValidateLogin(in); errs != nil {
		jsonutil.ValidationError(w, errs)
		return
	}

	// Check rate limit before touching the account.
	if h.rateLimitStore != nil {
		st := h.rateLimitStore.CheckAllowed(r.Context(), in.Email)
		if !st.Allowed {
			h.auditLogger.LoginFailed(r, in.Email, "rate limited")
			h.tooMany(w, st.LockedUntil)
			return
		}
	}

	user, err := h.userStore.GetByEmail(r.Context(), in.Email)
	if err != nil {
		if !errors.Is(err, userstore.ErrNotFound) {
			h.errLog.Log(r, "database error during login lookup", err)
			jsonutil.InternalError(w, "Service temporarily unavailable. Please try again.")
			return
		}
		authutil.BurnCompare(in.Password)
		h.recordFailure(r, in.Email)
		h.auditLogger.LoginFailed(r, in.Email, "unknown email")
		jsonutil.Unauthorized(w, authutil.ErrInvalidCredentials.Error())
		return
	}

	if !user.IsActive() {
		authutil.BurnCompare(in.Password)
		h.recordFailure(r, in.Email)
		h.auditLogger.LoginFailed(r, in.Email, "account disabled")
		jsonutil.Unauthorized(w, authutil.ErrInvalidCredentials.Error())
		return
	}

	if !authutil.CheckPassword(in.Password, user.PasswordHash) {
		lockedOut, lockedUntil := h.recordFailure(r, in.Email)
		if lockedOut {
			h.auditLogger.LoginFailed(r, in.Email, "locked out")
			h.tooMany(w, lockedUntil)
			return
		}
		h.auditLogger.LoginFailed(r, in.Email, "wrong password")
		jsonutil.Unauthorized(w, authutil.ErrInvalidCredentials.Error())
		return
	}

	if authutil.NeedsRehash(user.PasswordHash) {
		if hash, err := authutil.HashPassword(in.Password); err == nil {
			if err := h.userStore.UpdatePassword(r.Context(), user.ID, hash); err != nil {
				h.logger.Warn("password rehash failed", zap.String("user_id", user.ID.Hex()), zap.Error(err))
			}
		}
	}

	if h.rateLimitStore != nil {
		if err := h.rateLimitStore.ClearOnSuccess(r.Context(), in.Email); err != nil {
			h.logger.Warn("failed to clear login attempts", zap.Error(err))
		}
	}

	su := &auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
	}
	tok, expires, err := h.tokens.Issue(su)
	if err != nil {
		h.errLog.Log(r, "failed to issue token", err)
		jsonutil.InternalError(w, "internal error")
		return
	}
	if err := h.sessionMgr.CreateSession(w, r, su); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		jsonutil.InternalError(w, "internal error")
		return
	}
	if err := h.userStore.RecordLogin(r.Context(), user.ID, h.now()); err != nil {
		h.logger.Warn("failed to record login time", zap.Error(err), zap.String("email", user.Email))
	}

	h.auditLogger.LoginSucceeded(r, user.Email)
	jsonutil.OK(w, LoginResponse{Token: tok, ExpiresAt: expires, Role: su.Role, User: su})
}

// handleLogout ends the cookie session. Bearer tokens are stateless and
// simply discarded by the client.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.logger.Info("admin signed out", zap.String("email", u.Email), zap.String("via", u.Via))
	}
	h.sessionMgr.DestroySession(w, r)
	jsonutil.OK(w, map[string]string{"status": "signed_out"})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	resp := SessionResponse{CSRFToken: csrf.Token(r)}
	if u, ok := auth.CurrentUser(r); ok {
		resp.Authenticated = true
		resp.User = u
	}
	jsonutil.OK(w, resp)
}
