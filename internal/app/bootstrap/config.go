// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/oneheartblacktown/hub/internal/app/system/auditlog"
	"github.com/oneheartblacktown/hub/internal/app/system/auth"
	"github.com/oneheartblacktown/hub/internal/app/system/inputval"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// appConfigKeys defines the configuration keys for the hub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: HUB_MONGO_URI, HUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "MongoDB connect and initial ping timeout"},
	{Name: "redis_url", Default: "", Desc: "Redis URL for shared rate limits (empty keeps them in memory)"},

	// Tokens
	{Name: "jwt_secret", Default: "", Desc: "HMAC secret for bearer tokens (32+ random chars)"},
	{Name: "admin_token_ttl", Default: "24h", Desc: "Admin token lifetime"},
	{Name: "superadmin_token_ttl", Default: "8h", Desc: "Superadmin token lifetime"},

	// Superadmin
	{Name: "superadmin_username", Default: "", Desc: "Superadmin username"},
	{Name: "superadmin_password", Default: "", Desc: "Superadmin password"},

	// Signup
	{Name: "allowed_email_domains", Default: strings.Join(inputval.DefaultEmailDomains, ","), Desc: "Comma-separated email domains accepted on admin signup"},
	{Name: "bcrypt_cost", Default: bcrypt.DefaultCost, Desc: "bcrypt cost for password hashes"},

	// Throttling (0 disables)
	{Name: "login_ip_limit", Default: 10, Desc: "Login and superadmin sign-in attempts per IP per minute"},
	{Name: "login_account_limit", Default: 5, Desc: "Login attempts per account per 5 minutes"},
	{Name: "signup_ip_limit", Default: 20, Desc: "Admin signup submissions per IP per hour"},

	// Audit trail
	{Name: "audit_log_auth", Default: "all", Desc: "Where auth audit events go: all, db, log, off"},
	{Name: "audit_log_admin", Default: "all", Desc: "Where admin audit events go: all, db, log, off"},
	{Name: "audit_retention", Default: "2160h", Desc: "How long audit events are kept (0 keeps them forever)"},
	{Name: "audit_prune_interval", Default: "1h", Desc: "How often expired audit events are pruned"},

	// Timeouts (blank keeps the built-in defaults)
	{Name: "timeout_short", Default: "", Desc: "Budget for single-document operations (e.g., 5s)"},
	{Name: "timeout_medium", Default: "", Desc: "Budget for list and aggregate operations (e.g., 10s)"},
	{Name: "timeout_long", Default: "", Desc: "Budget for transactional operations (e.g., 30s)"},

	{Name: "version", Default: "dev", Desc: "Version string reported by /health"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config.yaml/json/toml
// files, environment variables (WAFFLE_* for core, HUB_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", 10*time.Second),

		RedisURL: strings.TrimSpace(appValues.String("redis_url")),

		JWTSecret:          appValues.String("jwt_secret"),
		AdminTokenTTL:      appValues.Duration("admin_token_ttl", 24*time.Hour),
		SuperAdminTokenTTL: appValues.Duration("superadmin_token_ttl", 8*time.Hour),

		SuperAdminUsername: strings.TrimSpace(appValues.String("superadmin_username")),
		SuperAdminPassword: appValues.String("superadmin_password"),

		AllowedEmailDomains: splitList(appValues.String("allowed_email_domains")),
		BcryptCost:          appValues.Int("bcrypt_cost"),

		LoginIPLimit:      appValues.Int("login_ip_limit"),
		LoginAccountLimit: appValues.Int("login_account_limit"),
		SignupIPLimit:     appValues.Int("signup_ip_limit"),

		AuditLogAuth:  strings.ToLower(strings.TrimSpace(appValues.String("audit_log_auth"))),
		AuditLogAdmin: strings.ToLower(strings.TrimSpace(appValues.String("audit_log_admin"))),

		AuditRetention:     appValues.Duration("audit_retention", 90*24*time.Hour),
		AuditPruneInterval: appValues.Duration("audit_prune_interval", time.Hour),

		TimeoutShort:  appValues.Duration("timeout_short", 0),
		TimeoutMedium: appValues.Duration("timeout_medium", 0),
		TimeoutLong:   appValues.Duration("timeout_long", 0),

		Version: appValues.String("version"),
	}

	return coreCfg, appCfg, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is checked here to catch configuration errors before
// attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database is required")
	}
	if appCfg.RedisURL != "" {
		if _, err := redis.ParseURL(appCfg.RedisURL); err != nil {
			return fmt.Errorf("invalid redis_url: %w", err)
		}
	}

	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if len(appCfg.JWTSecret) < auth.MinSecretLen {
		if coreCfg != nil && coreCfg.Env == "prod" {
			return fmt.Errorf("jwt_secret must be at least %d characters in prod", auth.MinSecretLen)
		}
		logger.Warn("jwt_secret is short; use 32+ random characters outside dev",
			zap.Int("length", len(appCfg.JWTSecret)))
	}

	if appCfg.SuperAdminUsername == "" || appCfg.SuperAdminPassword == "" {
		return fmt.Errorf("superadmin_username and superadmin_password are required")
	}

	if appCfg.BcryptCost < bcrypt.MinCost || appCfg.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, appCfg.BcryptCost)
	}

	if !auditlog.ValidDestination(appCfg.AuditLogAuth) {
		return fmt.Errorf("audit_log_auth must be one of all, db, log, off; got %q", appCfg.AuditLogAuth)
	}
	if !auditlog.ValidDestination(appCfg.AuditLogAdmin) {
		return fmt.Errorf("audit_log_admin must be one of all, db, log, off; got %q", appCfg.AuditLogAdmin)
	}

	if appCfg.AuditRetention < 0 {
		return fmt.Errorf("audit_retention must not be negative")
	}
	if appCfg.AuditRetention > 0 && appCfg.AuditPruneInterval <= 0 {
		return fmt.Errorf("audit_prune_interval must be positive when audit_retention is set")
	}

	if len(appCfg.AllowedEmailDomains) == 0 {
		logger.Warn("allowed_email_domains is empty; using the built-in list")
	}
	return nil
}
