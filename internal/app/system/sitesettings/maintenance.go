package sitesettings

import (
	"net/http"
	"strings"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
)

// MaintenanceMessage is returned to public callers while the site is down.
const MaintenanceMessage = "We are currently performing scheduled maintenance. Access is temporarily restricted."

// exemptPrefixes stay reachable during maintenance.
var exemptPrefixes = []string{
	"/health",
	"/ready",
	"/readyz",
	"/livez",
	"/api/auth/",
}

// Exempt reports whether r bypasses the maintenance gate: health probes, the
// auth endpoints, reading the settings, and any signed-in admin.
func Exempt(r *http.Request) bool {
	p := r.URL.Path
	for _, pre := range exemptPrefixes {
		if p == strings.TrimSuffix(pre, "/") || strings.HasPrefix(p, pre) {
			return true
		}
	}
	if p == "/api/settings" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		return true
	}
	u, ok := auth.CurrentUser(r)
	return ok && u.IsAdmin()
}

// Maintenance answers 503 for every non-exempt request while maintenance mode
// is on. It reads the Resolver snapshot, so it adds no I/O per request; it
// must run after the auth middlewares so admins are recognised.
func Maintenance(res *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !res.InMaintenance() || Exempt(r) {
				next.ServeHTTP(w, r)
				return
			}
			body := map[string]any{
				"maintenance": true,
				"message":     MaintenanceMessage,
			}
			if email := res.Snapshot().Email; email != "" {
				body["contact"] = email
			}
			w.Header().Set("Retry-After", "3600")
			jsonutil.ServiceUnavailable(w, body)
		})
	}
}
