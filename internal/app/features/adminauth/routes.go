// internal/app/features/adminauth/routes.go
package adminauth

import "github.com/go-chi/chi/v5"

// Routes mounts the admin auth endpoints (typically at "/admin-auth").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleAuth)
	r.Post("/login", h.HandleLogin)
	return r
}
