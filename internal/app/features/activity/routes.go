// internal/app/features/activity/routes.go
package activity

import (
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router to mount at /api/audit-logs. Admin only.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireAdmin)

	r.Get("/", h.list)
	r.Get("/export.csv", h.ServeCSV)

	return r
}
