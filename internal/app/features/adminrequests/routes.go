// internal/app/features/adminrequests/routes.go
package adminrequests

import (
	"github.com/go-chi/chi/v5"
	"github.com/oneheartblacktown/hub/internal/app/system/auth"
)

// Routes mounts the public submission endpoint (typically at
// "/admin-requests").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleSubmit)
	return r
}

// ReviewRoutes mounts the superadmin review endpoints (typically at
// "/superadmin/admin-requests").
func ReviewRoutes(h *Handler, tm *auth.TokenManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireSuperAdmin)
		pr.Get("/", h.ServeListPending)
		pr.Get("/count", h.ServeCountPending)
		pr.Put("/{id}", h.HandleDecide)
	})
	return r
}
