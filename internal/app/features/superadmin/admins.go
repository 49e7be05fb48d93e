// internal/app/features/superadmin/admins.go
package superadmin

import (
	"net/http"

	adminstore "github.com/oneheartblacktown/hub/internal/app/store/admins"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
)

// ServeAdmins lists every active admin ordered by name.
// GET /superadmin/admins
func (h *Handler) ServeAdmins(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list admins")
	defer cancel()

	list, err := adminstore.New(h.DB).List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list admins failed", err, MsgAdminsFailed)
		return
	}
	formutil.JSON(w, http.StatusOK, list)
}
