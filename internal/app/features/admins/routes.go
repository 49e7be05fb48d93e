// internal/app/features/admins/routes.go
package admins

import (
	"github.com/go-chi/chi/v5"
	"github.com/oneheartblacktown/hub/internal/app/system/auth"
)

// Routes mounts admin profile routes (typically at "/admins").
func Routes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()

	// Public profile page data.
	r.Get("/{id}", h.ServeView)

	// Self-service edits (owner or superadmin; checked in the handler).
	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireAdmin)
		pr.Put("/{id}", h.HandleEdit)
	})

	return r
}
