// internal/app/features/adminrequests/decide.go
package adminrequests

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	adminrequeststore "github.com/oneheartblacktown/hub/internal/app/store/adminrequests"
	adminstore "github.com/oneheartblacktown/hub/internal/app/store/admins"
	"github.com/oneheartblacktown/hub/internal/app/system/apperr"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
	"github.com/oneheartblacktown/hub/internal/app/system/txn"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Decision actions accepted by HandleDecide.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type decideForm struct {
	Action formutil.Text `json:"action"`
}

type decideResponse struct {
	Message string `json:"message"`
	AdminID string `json:"adminId,omitempty"`
}

// HandleDecide approves or rejects a PENDING request. Both outcomes delete
// the request; approval first creates the admin from it.
// Authorization: RequireSuperAdmin middleware in routes.go.
// PUT /superadmin/admin-requests/{id}
func (h *Handler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad admin request id", err, MsgInvalidID)
		return
	}

	var f decideForm
	if err := formutil.DecodeJSON(w, r, &f); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode decision body failed", err, formutil.MsgInvalidBody)
		return
	}

	switch strings.ToLower(strings.TrimSpace(f.Action.Value)) {
	case ActionApprove:
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "approve admin request")
		defer cancel()

		admin, err := h.Approve(ctx, id)
		if err != nil {
			h.ErrLog.Render(w, r, "approve admin request failed", err, MsgDecisionFailed)
			return
		}
		h.Audit.RequestApproved(ctx, r, id, admin.ID, admin.Email)
		h.Log.Info("admin request approved",
			zap.String("request_id", id.Hex()),
			zap.String("admin_id", admin.ID.Hex()))
		formutil.JSON(w, http.StatusOK, decideResponse{Message: MsgApproved, AdminID: admin.ID.Hex()})

	case ActionReject:
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "reject admin request")
		defer cancel()

		if err := h.Reject(ctx, id); err != nil {
			h.ErrLog.Render(w, r, "reject admin request failed", err, MsgDecisionFailed)
			return
		}
		h.Audit.RequestRejected(ctx, r, id)
		h.Log.Info("admin request rejected", zap.String("request_id", id.Hex()))
		formutil.JSON(w, http.StatusOK, decideResponse{Message: MsgRejected})

	default:
		h.ErrLog.LogBadRequest(w, r, "unknown admin request action", nil, MsgInvalidAction)
	}
}

// Approve turns the PENDING request id into an admin and deletes the
// request as one transaction. On deployments without transactions the
// created admin is removed again if the request cannot be deleted, so a
// failed approval always leaves the request PENDING and no admin behind.
func (h *Handler) Approve(ctx context.Context, id primitive.ObjectID) (models.Admin, error) {
	reqs := adminrequeststore.New(h.DB)
	admins := adminstore.New(h.DB)

	var created models.Admin
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		created = models.Admin{}

		req, err := reqs.GetPendingByID(ctx, id)
		if err == mongo.ErrNoDocuments {
			return apperr.E(apperr.NotFound, MsgNotFound, err)
		}
		if err != nil {
			return err
		}

		taken, err := admins.EmailExists(ctx, req.Email)
		if err != nil {
			return err
		}
		if taken {
			return apperr.E(apperr.Conflict, MsgEmailInUse, adminstore.ErrDuplicateEmail)
		}

		admin, err := admins.Create(ctx, req.ToAdmin())
		if err == adminstore.ErrDuplicateEmail {
			return apperr.E(apperr.Conflict, MsgEmailInUse, err)
		}
		if err != nil {
			return err
		}

		n, err := reqs.DeletePending(ctx, id)
		if err == nil && n == 0 {
			err = apperr.E(apperr.NotFound, MsgNotFound, mongo.ErrNoDocuments)
		}
		if err != nil {
			if !txn.Active(ctx) {
				h.compensate(ctx, admins, admin.ID)
			}
			return err
		}

		created = admin
		return nil
	})
	if err != nil {
		return models.Admin{}, err
	}
	return created, nil
}

func (h *Handler) compensate(ctx context.Context, admins *adminstore.Store, adminID primitive.ObjectID) {
	if _, err := admins.Delete(ctx, adminID); err != nil {
		h.Log.Error("failed to roll back admin created during approval",
			zap.String("admin_id", adminID.Hex()),
			zap.Error(err))
	}
}

// Reject deletes the PENDING request id without creating an admin.
func (h *Handler) Reject(ctx context.Context, id primitive.ObjectID) error {
	n, err := adminrequeststore.New(h.DB).DeletePending(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.E(apperr.NotFound, MsgNotFound, mongo.ErrNoDocuments)
	}
	return nil
}
