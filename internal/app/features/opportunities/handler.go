// internal/app/features/opportunities/handler.go
package opportunities

import (
	"net/http"
	"time"

	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	eventstore "github.com/oneheartblacktown/hub/internal/app/store/events"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MsgFetchFailed is the 500 body when the listing cannot be read.
const MsgFetchFailed = "Failed to fetch opportunities"

// Handler serves the volunteer opportunities listing.
type Handler struct {
	DB     *mongo.Database
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	// Now is the clock used to find the start of today. Defaults to time.Now.
	Now func() time.Time
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		ErrLog: errLog,
		Log:    logger,
		Now:    time.Now,
	}
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type listResponse struct {
	Opportunities []models.Opportunity `json:"opportunities"`
}

// ServeList returns events carrying a volunteer opportunity whose date is
// today or later, soonest first, each with its admin's name.
// GET /opportunities
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list opportunities")
	defer cancel()

	from := StartOfDay(h.Now().Local())
	list, err := eventstore.New(h.DB).ListOpportunities(ctx, from)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list opportunities failed", err, MsgFetchFailed)
		return
	}
	formutil.JSON(w, http.StatusOK, listResponse{Opportunities: list})
}
