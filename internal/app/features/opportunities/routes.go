// internal/app/features/opportunities/routes.go
package opportunities

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter mounted under /opportunities.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}
