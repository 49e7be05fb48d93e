// internal/app/features/adminauth/handler.go
package adminauth

import (
	"sync"

	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	"github.com/oneheartblacktown/hub/internal/app/system/auditlog"
	"github.com/oneheartblacktown/hub/internal/app/system/auth"
	"github.com/oneheartblacktown/hub/internal/app/system/authutil"
	"github.com/oneheartblacktown/hub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Response messages.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgLoginSuccessful    = "Login successful"
	MsgCredentialsMissing = "Email and password are required"
	MsgLoginFailed        = "Error during login"
)

// Handler serves admin login and the legacy combined login/signup endpoint.
type Handler struct {
	DB         *mongo.Database
	Tokens     *auth.TokenManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
	BcryptCost int

	// Limiter throttles login attempts; nil disables throttling.
	Limiter *ratelimit.AuthLimiter
	// SignupLimiter caps signups per client IP. It should be the limiter
	// guarding POST /admin-requests so both paths share one budget.
	SignupLimiter *ratelimit.Limiter
	// Audit records login outcomes; nil disables auditing.
	Audit *auditlog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewHandler(db *mongo.Database, tokens *auth.TokenManager, errLog *uierrors.ErrorLogger, bcryptCost int, logger *zap.Logger) *Handler {
	if bcryptCost == 0 {
		bcryptCost = authutil.DefaultCost
	}
	return &Handler{
		DB:         db,
		Tokens:     tokens,
		ErrLog:     errLog,
		Log:        logger,
		BcryptCost: bcryptCost,
	}
}

// dummy returns a hash compared against when the email is unknown, so an
// unknown address costs the same bcrypt work as a wrong password.
func (h *Handler) dummy() string {
	h.dummyOnce.Do(func() {
		hash, err := authutil.HashPassword("unknown-admin-placeholder", h.BcryptCost)
		if err != nil {
			h.Log.Warn("failed to build placeholder hash", zap.Error(err))
		}
		h.dummyHash = hash
	})
	return h.dummyHash
}
