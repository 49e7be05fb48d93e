// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	adminauthfeature "github.com/oneheartblacktown/hub/internal/app/features/adminauth"
	adminrequestsfeature "github.com/oneheartblacktown/hub/internal/app/features/adminrequests"
	adminsfeature "github.com/oneheartblacktown/hub/internal/app/features/admins"
	errorsfeature "github.com/oneheartblacktown/hub/internal/app/features/errors"
	eventsfeature "github.com/oneheartblacktown/hub/internal/app/features/events"
	healthfeature "github.com/oneheartblacktown/hub/internal/app/features/health"
	opportunitiesfeature "github.com/oneheartblacktown/hub/internal/app/features/opportunities"
	superadminfeature "github.com/oneheartblacktown/hub/internal/app/features/superadmin"
	auditstore "github.com/oneheartblacktown/hub/internal/app/store/audit"
	"github.com/oneheartblacktown/hub/internal/app/system/auditlog"
	"github.com/oneheartblacktown/hub/internal/app/system/auth"
	"github.com/oneheartblacktown/hub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It builds the token manager from config
// and mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tm, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.AdminTokenTTL, appCfg.SuperAdminTokenTTL, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}
	return newRouter(appCfg, deps, tm, logger), nil
}

func newRouter(appCfg AppConfig, deps DBDeps, tm *auth.TokenManager, logger *zap.Logger) chi.Router {
	db := deps.HubMongoDatabase

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Audit trail shared by every feature that changes state.
	audit := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	r := chi.NewRouter()

	// Loads the bearer identity, when present, for handlers that read it
	// without requiring it.
	r.Use(tm.LoadBearer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorsfeature.RenderNotFound(w, r, "Not found")
	})
	r.MethodNotAllowed(errorsfeature.RenderMethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.HubMongoClient, appCfg.Version, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Credential endpoints share one limiter so attempts against
	// /admin-auth and /superadmin/auth count together per IP.
	var (
		authLimiter   *ratelimit.AuthLimiter
		signupLimiter *ratelimit.Limiter
	)
	if deps.HubRedis != nil {
		counter := ratelimit.NewRedisCounter(deps.HubRedis)
		authLimiter = ratelimit.NewSharedAuthLimiter(counter, appCfg.LoginIPLimit, appCfg.LoginAccountLimit, logger)
		signupLimiter = ratelimit.NewShared(counter, "signup_ip:", appCfg.SignupIPLimit, time.Hour, logger)
	} else {
		authLimiter = ratelimit.NewAuthLimiter(appCfg.LoginIPLimit, appCfg.LoginAccountLimit)
		signupLimiter = ratelimit.New(appCfg.SignupIPLimit, time.Hour)
	}

	// Admin signup requests: public submission, superadmin review
	requestsHandler := adminrequestsfeature.NewHandler(db, errLog, appCfg.BcryptCost, logger)
	requestsHandler.Audit = audit
	r.Group(func(gr chi.Router) {
		gr.Use(ratelimit.PerIP(signupLimiter, ratelimit.MsgTooManySubmissions, logger))
		gr.Mount("/admin-requests", adminrequestsfeature.Routes(requestsHandler))
	})
	r.Mount("/superadmin/admin-requests", adminrequestsfeature.ReviewRoutes(requestsHandler, tm))

	// Admin login (and the legacy combined login/signup endpoint)
	authHandler := adminauthfeature.NewHandler(db, tm, errLog, appCfg.BcryptCost, logger)
	authHandler.Limiter = authLimiter
	authHandler.SignupLimiter = signupLimiter
	authHandler.Audit = audit
	r.Mount("/admin-auth", adminauthfeature.Routes(authHandler))

	// Admin profiles
	adminsHandler := adminsfeature.NewHandler(db, errLog, logger)
	adminsHandler.Audit = audit
	r.Mount("/admins", adminsfeature.Routes(adminsHandler, tm))

	// Events: public geofenced listing, admin management
	eventsHandler := eventsfeature.NewHandler(db, errLog, logger)
	eventsHandler.Audit = audit
	r.Mount("/events", eventsfeature.Routes(eventsHandler))
	r.Mount("/admin/events", eventsfeature.ManageRoutes(eventsHandler, tm))

	// Public opportunities board
	oppHandler := opportunitiesfeature.NewHandler(db, errLog, logger)
	r.Mount("/opportunities", opportunitiesfeature.Routes(oppHandler))

	// Superadmin sign-in and cross-admin management
	creds := superadminfeature.Credentials{
		Username: appCfg.SuperAdminUsername,
		Password: appCfg.SuperAdminPassword,
	}
	superHandler := superadminfeature.NewHandler(db, tm, creds, errLog, logger)
	superHandler.Limiter = authLimiter
	superHandler.Audit = audit
	r.Mount("/superadmin", superadminfeature.Routes(superHandler, tm))

	return r
}
