// internal/app/features/superadmin/audit.go
package superadmin

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	auditstore "github.com/oneheartblacktown/hub/internal/app/store/audit"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/paging"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type auditResponse struct {
	Events     []auditstore.Event `json:"events"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Total      int64              `json:"total"`
	TotalPages int                `json:"totalPages"`
}

// ServeAudit pages through the audit trail, newest first.
// Optional filters: ?adminId, ?category, ?eventType.
// GET /superadmin/audit
func (h *Handler) ServeAudit(w http.ResponseWriter, r *http.Request) {
	f := auditstore.QueryFilter{
		Category:  strings.TrimSpace(query.Get(r, "category")),
		EventType: strings.TrimSpace(query.Get(r, "eventType")),
	}
	if s := strings.TrimSpace(query.Get(r, "adminId")); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "bad adminId filter", err, MsgInvalidAdminID)
			return
		}
		f.AdminID = &id
	}
	p := paging.Parse(r)
	f.Limit = int64(p.Limit)
	f.Offset = p.Skip()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "query audit trail")
	defer cancel()

	store := auditstore.New(h.DB)
	total, err := store.Count(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, MsgAuditFailed)
		return
	}
	list, err := store.Query(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, MsgAuditFailed)
		return
	}

	formutil.JSON(w, http.StatusOK, auditResponse{
		Events:     list,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: paging.TotalPages(total, p.Limit),
	})
}
