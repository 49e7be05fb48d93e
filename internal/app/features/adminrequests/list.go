// internal/app/features/adminrequests/list.go
package adminrequests

import (
	"net/http"

	adminrequeststore "github.com/oneheartblacktown/hub/internal/app/store/adminrequests"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
)

// ServeListPending returns every PENDING request, newest first.
// Authorization: RequireSuperAdmin middleware in routes.go.
// GET /superadmin/admin-requests
func (h *Handler) ServeListPending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list pending admin requests")
	defer cancel()

	list, err := adminrequeststore.New(h.DB).ListPending(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list pending admin requests failed", err, MsgListFailed)
		return
	}
	formutil.JSON(w, http.StatusOK, list)
}

type countResponse struct {
	Pending int64 `json:"pending"`
}

// ServeCountPending reports the size of the review queue.
// GET /superadmin/admin-requests/count
func (h *Handler) ServeCountPending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "count pending admin requests")
	defer cancel()

	n, err := adminrequeststore.New(h.DB).CountPending(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count pending admin requests failed", err, MsgListFailed)
		return
	}
	formutil.JSON(w, http.StatusOK, countResponse{Pending: n})
}
