// internal/app/features/superadmin/routes.go
package superadmin

import (
	"github.com/go-chi/chi/v5"
	"github.com/oneheartblacktown/hub/internal/app/system/auth"
)

// Routes mounts the superadmin endpoints (typically at "/superadmin").
// The admin request review routes are mounted separately by bootstrap.
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	r.Post("/auth", h.HandleSignin)

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSuperAdmin)
		pr.Get("/admins", h.ServeAdmins)
		pr.Get("/events", h.ServeEvents)
		pr.Put("/events/{id}", h.HandleUpdateEvent)
		pr.Delete("/events/{id}", h.HandleDeleteEvent)
		pr.Get("/audit", h.ServeAudit)
	})

	return r
}
