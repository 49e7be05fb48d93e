// internal/app/features/events/routes.go
package events

import (
	"github.com/go-chi/chi/v5"
	"github.com/oneheartblacktown/hub/internal/app/system/auth"
)

// Routes mounts the public event routes (typically at "/events").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeView)
	return r
}

// ManageRoutes mounts the event CRUD routes (typically at "/admin/events").
// The superadmin may use them for any admin's events.
func ManageRoutes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireAdmin)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})
	return r
}
