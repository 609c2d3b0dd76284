package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

// LoadBearerUser authenticates requests that carry an Authorization header.
// When the header is present it alone decides identity: an invalid token
// clears any cookie-session user, so header-bearing requests never ride on
// browser cookies. Requests without the header pass through unchanged.
func LoadBearerUser(ti *TokenIssuer, uf UserFetcher, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			r = r.WithContext(context.WithValue(r.Context(), currentUserKey, (*SessionUser)(nil)))

			tok, ok := BearerToken(r)
			if !ok {
				logger.Debug("bearer rejected: malformed Authorization header",
					zap.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}
			claims, err := ti.Verify(tok)
			if err != nil {
				logger.Debug("bearer rejected",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			var u *SessionUser
			if uf != nil {
				u = uf.FetchUser(r.Context(), claims.Sub)
				if u == nil {
					logger.Info("bearer rejected: user not found or disabled",
						zap.String("user_id", claims.Sub))
					next.ServeHTTP(w, r)
					return
				}
			} else {
				u = &SessionUser{ID: claims.Sub, Email: claims.Email, Role: claims.Role}
			}
			u.Via = "bearer"
			next.ServeHTTP(w, withUser(r, u))
		})
	}
}
