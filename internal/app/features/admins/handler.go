// internal/app/features/admins/handler.go
package admins

import (
	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	"github.com/oneheartblacktown/hub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	MsgInvalidID    = "Invalid admin ID"
	MsgNotFound     = "Admin not found"
	MsgEmailInUse   = "Email already in use"
	MsgFetchFailed  = "Error fetching admin data"
	MsgUpdateFailed = "Error updating admin information"
	MsgNotPermitted = "You can only edit your own profile"
)

// Handler serves admin profiles.
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
