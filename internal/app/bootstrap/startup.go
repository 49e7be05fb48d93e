// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/oneheartblacktown/hub/internal/app/store/audit"
	"github.com/oneheartblacktown/hub/internal/app/system/inputval"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
	"github.com/oneheartblacktown/hub/internal/app/system/workers"
	"go.uber.org/zap"
)

// auditRetention is the running prune worker, stopped by Shutdown.
var auditRetention *workers.AuditRetention

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It applies
// the process-wide settings that handlers read.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})
	inputval.SetAllowedEmailDomains(appCfg.AllowedEmailDomains)

	if appCfg.AuditRetention > 0 && deps.HubMongoDatabase != nil {
		auditRetention = workers.NewAuditRetention(audit.New(deps.HubMongoDatabase), logger,
			appCfg.AuditPruneInterval, appCfg.AuditRetention)
		auditRetention.Start()
	}

	cur := timeouts.Current()
	logger.Info("startup complete",
		zap.Strings("allowed_email_domains", appCfg.AllowedEmailDomains),
		zap.Duration("timeout_short", cur.Short),
		zap.Duration("timeout_medium", cur.Medium),
		zap.Duration("timeout_long", cur.Long))
	return nil
}
