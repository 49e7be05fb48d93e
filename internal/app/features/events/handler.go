// internal/app/features/events/handler.go
package events

import (
	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	"github.com/oneheartblacktown/hub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	MsgInvalidID    = "Invalid event ID"
	MsgNotFound     = "Event not found"
	MsgFetchFailed  = "Error fetching events"
	MsgCreateFailed = "Error creating event"
	MsgUpdateFailed = "Error updating event"
	MsgDeleteFailed = "Error deleting event"
	MsgDeleted      = "Event deleted successfully"
	MsgNotOwner     = "You can only manage your own events"
	MsgOwnerUnknown = "Owning admin not found"
)

// Handler serves the public event query and the admin event CRUD routes.
type Handler struct {
	DB     *mongo.Database
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	// Audit records actions; nil disables auditing.
	Audit *auditlog.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		ErrLog: errLog,
		Log:    logger,
	}
}
