// internal/app/features/adminrequests/handler.go
package adminrequests

import (
	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	"github.com/oneheartblacktown/hub/internal/app/system/auditlog"
	"github.com/oneheartblacktown/hub/internal/app/system/authutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Response messages.
const (
	MsgMissingFields  = "Missing required fields"
	MsgSubmitted      = "Admin request submitted successfully. Please wait for approval."
	MsgEmailInUse     = "An admin with this email already exists"
	MsgInvalidAction  = "Invalid action"
	MsgInvalidID      = "Invalid admin request ID"
	MsgNotFound       = "Admin request not found"
	MsgApproved       = "Admin request approved and admin created successfully"
	MsgRejected       = "Admin request rejected and deleted successfully"
	MsgSubmitFailed   = "Error creating admin request"
	MsgListFailed     = "Failed to fetch admin requests"
	MsgDecisionFailed = "Error updating admin request"
)

// Handler serves the signup queue: public submission plus the superadmin
// review endpoints.
type Handler struct {
	DB         *mongo.Database
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
	BcryptCost int

	// Audit records actions; nil disables auditing.
	Audit *auditlog.Logger
}

// NewHandler constructs an adminrequests Handler. A zero bcryptCost uses
// authutil.DefaultCost.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, bcryptCost int, logger *zap.Logger) *Handler {
	if bcryptCost == 0 {
		bcryptCost = authutil.DefaultCost
	}
	return &Handler{
		DB:         db,
		ErrLog:     errLog,
		Log:        logger,
		BcryptCost: bcryptCost,
	}
}
