// internal/app/features/superadmin/handler.go
package superadmin

import (
	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	"github.com/oneheartblacktown/hub/internal/app/system/auditlog"
	"github.com/oneheartblacktown/hub/internal/app/system/auth"
	"github.com/oneheartblacktown/hub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	MsgCredentialsMissing = "Username and password are required"
	MsgInvalidCredentials = "Invalid credentials"
	MsgAuthenticated      = "Authentication successful"
	MsgAuthFailed         = "Internal server error"
	MsgAdminsFailed       = "Error fetching admins"
	MsgEventsFailed       = "Error fetching events"
	MsgAuditFailed        = "Error fetching audit trail"
	MsgUpdateFailed       = "Error updating event"
	MsgDeleteFailed       = "Error deleting event"
	MsgEventDeleted       = "Event deleted successfully"
	MsgInvalidEventID     = "Invalid event ID"
	MsgInvalidAdminID     = "Invalid admin ID"
	MsgEventNotFound      = "Event not found"
	MsgAdminNotFound      = "Owning admin not found"
)

// Credentials are the configured superadmin username and password.
type Credentials struct {
	Username string
	Password string
}

// Handler serves superadmin sign-in and the cross-admin management views.
type Handler struct {
	DB     *mongo.Database
	Tokens *auth.TokenManager
	Creds  Credentials
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger

	// Limiter throttles sign-in attempts; nil disables throttling.
	Limiter *ratelimit.AuthLimiter
	// Audit records sign-ins and event changes; nil disables auditing.
	Audit *auditlog.Logger
}

func NewHandler(db *mongo.Database, tokens *auth.TokenManager, creds Credentials, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Tokens: tokens,
		Creds:  creds,
		ErrLog: errLog,
		Log:    logger,
	}
}
