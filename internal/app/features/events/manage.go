// internal/app/features/events/manage.go
package events

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	adminstore "github.com/oneheartblacktown/hub/internal/app/store/admins"
	eventstore "github.com/oneheartblacktown/hub/internal/app/store/events"
	"github.com/oneheartblacktown/hub/internal/app/system/apperr"
	"github.com/oneheartblacktown/hub/internal/app/system/authz"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type messageResponse struct {
	Message string `json:"message"`
}

// resolveOwner decides which admin a new event belongs to. Admins always
// own what they create; the superadmin must name an existing admin.
func (h *Handler) resolveOwner(ctx context.Context, r *http.Request, f EventForm) (primitive.ObjectID, error) {
	if id, ok := authz.AdminID(r); ok {
		return id, nil
	}
	if !authz.IsSuperAdmin(r) {
		return primitive.NilObjectID, apperr.E(apperr.Authorization, MsgNotOwner, nil)
	}
	id, ok, err := f.OwnerID()
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !ok {
		return primitive.NilObjectID, apperr.E(apperr.Validation, "adminId is required.", nil)
	}
	if _, err := adminstore.New(h.DB).GetByID(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return primitive.NilObjectID, apperr.E(apperr.Validation, MsgOwnerUnknown, err)
		}
		return primitive.NilObjectID, err
	}
	return id, nil
}

// HandleCreate stores a new event owned by the caller.
// Authorization: RequireAdmin in routes.go.
// POST /admin/events
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var f EventForm
	if err := formutil.DecodeJSON(w, r, &f); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode event body failed", err, formutil.MsgInvalidBody)
		return
	}
	e, err := f.Event()
	if err != nil {
		h.ErrLog.Render(w, r, "invalid event", err, MsgCreateFailed)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create event")
	defer cancel()

	owner, err := h.resolveOwner(ctx, r, f)
	if err != nil {
		h.ErrLog.Render(w, r, "resolve event owner failed", err, MsgCreateFailed)
		return
	}
	e.AdminID = owner

	created, err := eventstore.New(h.DB).Create(ctx, e)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create event failed", err, MsgCreateFailed)
		return
	}

	h.Audit.EventCreated(ctx, r, created.ID, owner)
	h.Log.Info("event created",
		zap.String("event_id", created.ID.Hex()),
		zap.String("admin_id", owner.Hex()))
	formutil.JSON(w, http.StatusCreated, created)
}

// loadOwned fetches event id and checks the caller may change it. It
// renders the failure itself and reports ok=false.
func (h *Handler) loadOwned(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Event, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad event id", err, MsgInvalidID)
		return models.Event{}, false
	}
	e, err := eventstore.New(h.DB).GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		uierrors.RenderNotFound(w, r, MsgNotFound)
		return models.Event{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load event failed", err, MsgFetchFailed)
		return models.Event{}, false
	}
	if !authz.CanActForAdmin(r, e.AdminID) {
		h.Log.Warn("event access denied",
			zap.String("event_id", e.ID.Hex()),
			zap.String("owner_id", e.AdminID.Hex()))
		uierrors.RenderForbidden(w, r, MsgNotOwner)
		return models.Event{}, false
	}
	return e, true
}

// HandleUpdate replaces an event's fields. Ownership never changes.
// Authorization: RequireAdmin in routes.go; owner or superadmin.
// PUT /admin/events/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update event")
	defer cancel()

	cur, ok := h.loadOwned(ctx, w, r)
	if !ok {
		return
	}

	var f EventForm
	if err := formutil.DecodeJSON(w, r, &f); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode event body failed", err, formutil.MsgInvalidBody)
		return
	}
	e, err := f.Event()
	if err != nil {
		h.ErrLog.Render(w, r, "invalid event", err, MsgUpdateFailed)
		return
	}

	updated, err := eventstore.New(h.DB).Update(ctx, cur.ID, e)
	if err == mongo.ErrNoDocuments {
		uierrors.RenderNotFound(w, r, MsgNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update event failed", err, MsgUpdateFailed)
		return
	}

	h.Audit.EventUpdated(ctx, r, cur.ID, cur.AdminID)
	h.Log.Info("event updated", zap.String("event_id", cur.ID.Hex()))
	formutil.JSON(w, http.StatusOK, updated)
}

// HandleDelete removes an event.
// Authorization: RequireAdmin in routes.go; owner or superadmin.
// DELETE /admin/events/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete event")
	defer cancel()

	cur, ok := h.loadOwned(ctx, w, r)
	if !ok {
		return
	}

	n, err := eventstore.New(h.DB).Delete(ctx, cur.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete event failed", err, MsgDeleteFailed)
		return
	}
	if n == 0 {
		uierrors.RenderNotFound(w, r, MsgNotFound)
		return
	}

	h.Audit.EventDeleted(ctx, r, cur.ID, cur.AdminID)
	h.Log.Info("event deleted", zap.String("event_id", cur.ID.Hex()))
	formutil.JSON(w, http.StatusOK, messageResponse{Message: MsgDeleted})
}
