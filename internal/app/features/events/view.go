// internal/app/features/events/view.go
package events

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	eventstore "github.com/oneheartblacktown/hub/internal/app/store/events"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServeView returns one event.
// GET /events/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad event id", err, MsgInvalidID)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view event")
	defer cancel()

	e, err := eventstore.New(h.DB).GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		uierrors.RenderNotFound(w, r, MsgNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load event failed", err, MsgFetchFailed)
		return
	}
	formutil.JSON(w, http.StatusOK, e)
}
