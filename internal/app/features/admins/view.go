// internal/app/features/admins/view.go
package admins

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	adminstore "github.com/oneheartblacktown/hub/internal/app/store/admins"
	eventstore "github.com/oneheartblacktown/hub/internal/app/store/events"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type viewResponse struct {
	Admin  models.Admin   `json:"admin"`
	Events []models.Event `json:"events"`
}

// ServeView returns an admin's public profile and events (date ascending).
// GET /admins/{id}
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad admin id", err, MsgInvalidID)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view admin")
	defer cancel()

	admin, err := adminstore.New(h.DB).GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		h.ErrLog.Render(w, r, "admin not found", notFound(err), MsgNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load admin failed", err, MsgFetchFailed)
		return
	}

	events, err := eventstore.New(h.DB).ListByAdmin(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list admin events failed", err, MsgFetchFailed)
		return
	}

	h.Log.Debug("admin profile served", zap.String("admin_id", id.Hex()), zap.Int("events", len(events)))
	formutil.JSON(w, http.StatusOK, viewResponse{Admin: admin, Events: events})
}
