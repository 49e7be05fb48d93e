// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (HUB_*), configuration
// files, or command-line flags, loaded in LoadConfig. Framework-level
// settings (ports, TLS, log level, CORS, body limits) live in WAFFLE's
// CoreConfig instead.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI            string        // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase       string        // Database name within MongoDB
	MongoMaxPoolSize    uint64        // Upper bound on pooled connections
	MongoMinPoolSize    uint64        // Connections kept warm
	MongoConnectTimeout time.Duration // Initial connect and ping budget

	// Optional Redis for rate limits shared across instances
	RedisURL string // e.g., redis://localhost:6379/0; empty keeps limits in memory

	// Bearer tokens
	JWTSecret          string        // HMAC key for admin and superadmin tokens
	AdminTokenTTL      time.Duration // Lifetime of an admin token (default 24h)
	SuperAdminTokenTTL time.Duration // Lifetime of a superadmin token (default 8h)

	// The single configured superadmin
	SuperAdminUsername string
	SuperAdminPassword string

	// Signup
	AllowedEmailDomains []string // Email domains accepted on admin signup
	BcryptCost          int      // Cost for new password hashes

	// Throttling; zero disables a limit
	LoginIPLimit      int // Credential attempts per IP per minute
	LoginAccountLimit int // Credential attempts per account per five minutes
	SignupIPLimit     int // Signup submissions per IP per hour

	// Audit trail destinations: "all", "db", "log", or "off"
	AuditLogAuth  string // Logins and sign-ins
	AuditLogAdmin string // Signup review, profile and event changes

	// Audit pruning; zero retention keeps events forever
	AuditRetention     time.Duration
	AuditPruneInterval time.Duration

	// Timeout overrides; zero keeps the built-in defaults
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration

	// Version is reported by /health.
	Version string
}
