package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

const testKey = "xK8nP2mQ9rT5vW7yB3cF6hJ0lN4sU1wZ"

type fakeFetcher map[string]*SessionUser

func (f fakeFetcher) FetchUser(_ context.Context, id string) *SessionUser {
	if u, ok := f[id]; ok {
		cp := *u
		return &cp
	}
	return nil
}

func adminUser() *SessionUser {
	return &SessionUser{ID: "65f000000000000000000001", Name: "Admin", Email: "admin@example.com", Role: "admin"}
}

// probe records the user seen by the wrapped handler.
func probe(got **SessionUser) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := CurrentUser(r); ok {
			*got = u
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewSessionManager(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		sessionKey string
		secure     bool
		wantErr    bool
	}{
		{
			name:       "valid key dev mode",
			sessionKey: "this-is-a-32-character-long-key!",
			secure:     false,
			wantErr:    false,
		},
		{
			name:       "valid key prod mode",
			sessionKey: "this-is-a-32-character-long-key!",
			secure:     true,
			wantErr:    false,
		},
		{
			name:       "empty key",
			sessionKey: "",
			secure:     false,
			wantErr:    true,
		},
		{
			name:       "weak key dev mode",
			sessionKey: "short",
			secure:     false,
			wantErr:    false, // Warning but allowed in dev
		},
		{
			name:       "weak key prod mode",
			sessionKey: "short",
			secure:     true,
			wantErr:    true, // Error in prod
		},
		{
			name:       "default key prod mode",
			sessionKey: "dev-only-session-key-not-for-production",
			secure:     true,
			wantErr:    true, // Default keys not allowed in prod
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, err := NewSessionManager(tt.sessionKey, "test-session", "", time.Hour, tt.secure, logger)

			if tt.wantErr {
				if err == nil {
					t.Error("NewSessionManager() expected error, got nil")
				}
			} else {
				if err != nil {
					t.Errorf("NewSessionManager() error = %v", err)
				}
				if sm == nil {
					t.Error("NewSessionManager() returned nil")
				}
			}
		})
	}
}

func TestIsDefaultKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"dev-only-key", true},
		{"change-me-please", true},
		{"placeholder-key", true},
		{"default-session-key", true},
		{"example-key-here", true},
		{"insecure-dev-key", true},
		{"test-key-123", true},
		{"secret123", true},
		{"password123", true},
		{"xK8nP2mQ9rT5vW7yB3cF6hJ0lN4sU1wZ", false}, // Random looking
		{"secure-random-key-that-is-long-enough", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := isDefaultKey(tt.key)
			if got != tt.want {
				t.Errorf("isDefaultKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestClassifySessionError(t *testing.T) {
	// Test nil error
	errType, _ := classifySessionError(nil)
	if errType != sessionErrUnknown {
		t.Errorf("classifySessionError(nil) type = %v, want %v", errType, sessionErrUnknown)
	}
}

func TestClassifySessionError_Types(t *testing.T) {
	// Test with various error message patterns
	tests := []struct {
		name     string
		errMsg   string
		wantType sessionErrorType
	}{
		{"expired", "expired timestamp", sessionErrExpired},
		{"mac invalid", "mac validation failed", sessionErrTampered},
		{"hash invalid", "hash mismatch", sessionErrTampered},
		{"decrypt failed", "decrypt error", sessionErrCorrupted},
		{"base64 error", "base64 decode failed", sessionErrCorrupted},
		{"decode error", "decode failed", sessionErrCorrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create a mock securecookie decode error
			err := mockSecureCookieError{msg: tt.errMsg, isDecode: true}
			errType, _ := classifySessionError(err)
			if errType != tt.wantType {
				t.Errorf("classifySessionError() type = %v, want %v", errType, tt.wantType)
			}
		})
	}
}

func TestClassifySessionError_Backend(t *testing.T) {
	// Non-decode error should be backend
	err := mockSecureCookieError{msg: "backend error", isDecode: false}
	errType, category := classifySessionError(err)
	if errType != sessionErrBackend {
		t.Errorf("classifySessionError() type = %v, want %v", errType, sessionErrBackend)
	}
	if category != "backend" {
		t.Errorf("classifySessionError() category = %q, want %q", category, "backend")
	}
}

// mockSecureCookieError implements securecookie.Error for testing
type mockSecureCookieError struct {
	msg      string
	isDecode bool
}

func (e mockSecureCookieError) Error() string {
	return e.msg
}

func (e mockSecureCookieError) IsDecode() bool {
	return e.isDecode
}

func (e mockSecureCookieError) IsUsage() bool {
	return false
}

func (e mockSecureCookieError) IsInternal() bool {
	return false
}

func (e mockSecureCookieError) Cause() error {
	return nil
}

func TestGetString(t *testing.T) {
	logger := zap.NewNop()
	sm, _ := NewSessionManager("this-is-a-32-character-long-key!", "", "", time.Hour, false, logger)

	req := httptest.NewRequest("GET", "/", nil)
	sess, _ := sm.GetSession(req)

	// Test with no value
	if got := getString(sess, "nonexistent"); got != "" {
		t.Errorf("getString() nonexistent = %q, want empty", got)
	}

	// Test with string value
	sess.Values["test_key"] = "test_value"
	if got := getString(sess, "test_key"); got != "test_value" {
		t.Errorf("getString() = %q, want %q", got, "test_value")
	}

	// Test with non-string value
	sess.Values["int_key"] = 123
	if got := getString(sess, "int_key"); got != "" {
		t.Errorf("getString() int = %q, want empty", got)
	}
}

func TestSessionManager_SessionName(t *testing.T) {
	sm, _ := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	if sm.SessionName() != "ddsite-session" {
		t.Errorf("SessionName() = %q, want ddsite-session", sm.SessionName())
	}
}

func TestCurrentUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if u, ok := CurrentUser(req); ok || u != nil {
		t.Error("CurrentUser() should be empty for request without user")
	}

	req = WithTestUser(req, adminUser())
	u, ok := CurrentUser(req)
	if !ok || u.Email != "admin@example.com" {
		t.Errorf("CurrentUser() = %+v, %v", u, ok)
	}
	if ActorEmail(req) != "admin@example.com" {
		t.Errorf("ActorEmail() = %q", ActorEmail(req))
	}
	if ActorEmail(httptest.NewRequest("GET", "/", nil)) != "system" {
		t.Error("ActorEmail() without user should be system")
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		user *SessionUser
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"wrong role", &SessionUser{ID: "x", Role: "viewer"}, http.StatusForbidden},
		{"admin", adminUser(), http.StatusOK},
		{"admin mixed case", &SessionUser{ID: "x", Role: " Admin "}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/audit-logs", nil)
			if tt.user != nil {
				req = WithTestUser(req, tt.user)
			}
			rec := httptest.NewRecorder()
			var seen *SessionUser
			RequireAdmin(probe(&seen)).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want != http.StatusOK {
				var body map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
					t.Errorf("expected JSON error body, got %q", rec.Body.String())
				}
			}
		})
	}
}

func TestSessionManager_CookieRoundTrip(t *testing.T) {
	sm, err := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}
	admin := adminUser()
	sm.SetUserFetcher(fakeFetcher{admin.ID: admin})

	rec := httptest.NewRecorder()
	if err := sm.CreateSession(rec, httptest.NewRequest("POST", "/api/auth/login", nil), admin); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("CreateSession() set no cookie")
	}

	req := httptest.NewRequest("GET", "/api/auth/session", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	var seen *SessionUser
	sm.LoadSessionUser(probe(&seen)).ServeHTTP(httptest.NewRecorder(), req)
	if seen == nil || seen.Email != admin.Email || seen.Via != "cookie" {
		t.Fatalf("LoadSessionUser() user = %+v", seen)
	}

	// A disabled user loses the session.
	sm.SetUserFetcher(fakeFetcher{})
	seen = nil
	sm.LoadSessionUser(probe(&seen)).ServeHTTP(httptest.NewRecorder(), req)
	if seen != nil {
		t.Errorf("disabled user still loaded: %+v", seen)
	}
}

func TestSessionManager_DestroySession(t *testing.T) {
	sm, _ := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	rec := httptest.NewRecorder()
	_ = sm.CreateSession(rec, httptest.NewRequest("POST", "/", nil), adminUser())

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	out := httptest.NewRecorder()
	sm.DestroySession(out, req)

	var expired bool
	for _, c := range out.Result().Cookies() {
		if c.Name == sm.SessionName() && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("DestroySession() did not expire the cookie")
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	ti, err := NewTokenIssuer(testKey, time.Hour, true, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenIssuer() error = %v", err)
	}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ti.now = func() time.Time { return fixed }

	tok, exp, err := ti.Issue(adminUser())
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if !exp.Equal(fixed.Add(time.Hour)) {
		t.Errorf("expires = %v, want %v", exp, fixed.Add(time.Hour))
	}

	c, err := ti.Verify(tok)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if c.Sub != adminUser().ID || c.Role != "admin" || c.JTI == "" || c.IssuedAt != fixed.Unix() {
		t.Errorf("claims = %+v", c)
	}

	tok2, _, _ := ti.Issue(adminUser())
	c2, _ := ti.Verify(tok2)
	if c2.JTI == c.JTI {
		t.Error("tokens must carry distinct JTIs")
	}
}

func TestTokenIssuer_Rejects(t *testing.T) {
	ti, _ := NewTokenIssuer(testKey, time.Hour, false, zap.NewNop())
	tok, _, _ := ti.Issue(adminUser())

	if _, err := ti.Verify(tok + "x"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("tampered: err = %v, want ErrInvalidToken", err)
	}

	other, _ := NewTokenIssuer("zZ1wU4sN0lJ6hF3cB7yW5vT9rQ2mP8nK", time.Hour, false, zap.NewNop())
	if _, err := other.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign key: err = %v, want ErrInvalidToken", err)
	}

	ti.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := ti.Verify(tok); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("old token: err = %v, want ErrExpiredToken", err)
	}
}

func TestNewTokenIssuer_WeakKeyInProd(t *testing.T) {
	if _, err := NewTokenIssuer("short", time.Hour, true, zap.NewNop()); err == nil {
		t.Error("expected error for weak key in prod")
	}
	var cfgErr *SessionConfigError
	if _, err := NewTokenIssuer("", time.Hour, false, zap.NewNop()); !errors.As(err, &cfgErr) {
		t.Errorf("empty key: err = %v, want SessionConfigError", err)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"", "", false},
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"Bearer", "", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		got, ok := BearerToken(req)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BearerToken(%q) = (%q, %v), want (%q, %v)", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLoadBearerUser(t *testing.T) {
	ti, _ := NewTokenIssuer(testKey, time.Hour, false, zap.NewNop())
	admin := adminUser()
	tok, _, _ := ti.Issue(admin)
	mw := LoadBearerUser(ti, fakeFetcher{admin.ID: admin}, zap.NewNop())

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		var seen *SessionUser
		mw(probe(&seen)).ServeHTTP(httptest.NewRecorder(), req)
		if seen == nil || seen.Via != "bearer" || seen.Email != admin.Email {
			t.Errorf("user = %+v", seen)
		}
	})

	t.Run("invalid token drops cookie user", func(t *testing.T) {
		req := WithTestUser(httptest.NewRequest("GET", "/", nil), admin)
		req.Header.Set("Authorization", "Bearer nope")
		var seen *SessionUser
		mw(probe(&seen)).ServeHTTP(httptest.NewRecorder(), req)
		if seen != nil {
			t.Errorf("user = %+v, want none", seen)
		}
	})

	t.Run("no header keeps cookie user", func(t *testing.T) {
		req := WithTestUser(httptest.NewRequest("GET", "/", nil), admin)
		var seen *SessionUser
		mw(probe(&seen)).ServeHTTP(httptest.NewRecorder(), req)
		if seen == nil {
			t.Error("cookie user was dropped")
		}
	})

	t.Run("disabled user", func(t *testing.T) {
		mw := LoadBearerUser(ti, fakeFetcher{}, zap.NewNop())
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		var seen *SessionUser
		mw(probe(&seen)).ServeHTTP(httptest.NewRecorder(), req)
		if seen != nil {
			t.Errorf("user = %+v, want none", seen)
		}
	})
}

func TestFormNonce_RoundTrip(t *testing.T) {
	sm, _ := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	rendered := time.UnixMilli(1714564800123)

	rec := httptest.NewRecorder()
	if err := sm.IssueFormNonce(rec, httptest.NewRequest("GET", "/api/contact/form", nil), "contact", "n0nce", rendered); err != nil {
		t.Fatalf("IssueFormNonce() error = %v", err)
	}

	req := httptest.NewRequest("POST", "/api/contact", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	nonce, at := sm.FormNonce(req, "contact")
	if nonce != "n0nce" || !at.Equal(rendered) {
		t.Errorf("FormNonce() = (%q, %v)", nonce, at)
	}

	if n, at := sm.FormNonce(httptest.NewRequest("POST", "/", nil), "contact"); n != "" || !at.IsZero() {
		t.Errorf("missing session: (%q, %v)", n, at)
	}
}
