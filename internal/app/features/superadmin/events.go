// internal/app/features/superadmin/events.go
package superadmin

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	"github.com/oneheartblacktown/hub/internal/app/features/events"
	adminstore "github.com/oneheartblacktown/hub/internal/app/store/admins"
	eventstore "github.com/oneheartblacktown/hub/internal/app/store/events"
	"github.com/oneheartblacktown/hub/internal/app/system/apperr"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type eventsResponse struct {
	Events []models.EventWithAdmin `json:"events"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ServeEvents lists every event with its admin's name, date ascending.
// ?adminId narrows the list to one admin.
// GET /superadmin/events
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	var filter *primitive.ObjectID
	if s := strings.TrimSpace(query.Get(r, "adminId")); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "bad adminId filter", err, MsgInvalidAdminID)
			return
		}
		filter = &id
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list events with admin")
	defer cancel()

	list, err := eventstore.New(h.DB).ListWithAdmin(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list events with admin failed", err, MsgEventsFailed)
		return
	}
	formutil.JSON(w, http.StatusOK, eventsResponse{Events: list})
}

// HandleUpdateEvent replaces any event's fields and, when adminId is
// given, moves it to that admin. Responds with the event and admin name.
// PUT /superadmin/events/{id}
func (h *Handler) HandleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad event id", err, MsgInvalidEventID)
		return
	}

	var f events.EventForm
	if err := formutil.DecodeJSON(w, r, &f); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode event body failed", err, formutil.MsgInvalidBody)
		return
	}
	e, err := f.Event()
	if err != nil {
		h.ErrLog.Render(w, r, "invalid event", err, MsgUpdateFailed)
		return
	}
	owner, reassign, err := f.OwnerID()
	if err != nil {
		h.ErrLog.Render(w, r, "invalid event owner", err, MsgUpdateFailed)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "superadmin update event")
	defer cancel()

	if reassign {
		_, err := adminstore.New(h.DB).GetByID(ctx, owner)
		if err == mongo.ErrNoDocuments {
			h.ErrLog.Render(w, r, "event owner not found", apperr.E(apperr.Validation, MsgAdminNotFound, err), MsgUpdateFailed)
			return
		}
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load event owner failed", err, MsgUpdateFailed)
			return
		}
	}

	store := eventstore.New(h.DB)
	var prev models.Event
	if reassign {
		prev, err = store.UpdateAndReassign(ctx, id, e, owner)
	} else {
		prev, err = store.Update(ctx, id, e)
	}
	if err != nil {
		if err == mongo.ErrNoDocuments {
			uierrors.RenderNotFound(w, r, MsgEventNotFound)
			return
		}
		h.ErrLog.LogServerError(w, r, "superadmin update event failed", err, MsgUpdateFailed)
		return
	}
	out, err := store.GetWithAdmin(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "reload event failed", err, MsgUpdateFailed)
		return
	}

	h.Audit.EventUpdated(ctx, r, id, out.AdminID)
	if out.AdminID != prev.AdminID {
		h.Audit.EventReassigned(ctx, r, id, prev.AdminID, out.AdminID)
	}
	h.Log.Info("superadmin updated event",
		zap.String("event_id", id.Hex()),
		zap.String("admin_id", out.AdminID.Hex()))
	formutil.JSON(w, http.StatusOK, out)
}

// HandleDeleteEvent removes any event.
// DELETE /superadmin/events/{id}
func (h *Handler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad event id", err, MsgInvalidEventID)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "superadmin delete event")
	defer cancel()

	store := eventstore.New(h.DB)
	cur, err := store.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		uierrors.RenderNotFound(w, r, MsgEventNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load event failed", err, MsgDeleteFailed)
		return
	}
	n, err := store.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "superadmin delete event failed", err, MsgDeleteFailed)
		return
	}
	if n == 0 {
		uierrors.RenderNotFound(w, r, MsgEventNotFound)
		return
	}
	h.Audit.EventDeleted(ctx, r, id, cur.AdminID)

	h.Log.Info("superadmin deleted event", zap.String("event_id", id.Hex()))
	formutil.JSON(w, http.StatusOK, messageResponse{Message: MsgEventDeleted})
}
