// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/oneheartblacktown/hub/internal/app/store/audit"
	"github.com/oneheartblacktown/hub/internal/app/system/auth"
	"github.com/oneheartblacktown/hub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations for a category.
const (
	All = "all" // MongoDB and zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config chooses where each category goes.
type Config struct {
	Auth  string
	Admin string
}

// ValidDestination reports whether s is one of All, DB, Log, Off.
func ValidDestination(s string) bool {
	switch s {
	case All, DB, Log, Off:
		return true
	}
	return false
}

// Logger records audit events to MongoDB (via audit.Store) and zap.
// A nil *Logger is a no-op, so handlers built without one still work.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates an audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	if zapLog == nil {
		zapLog = zap.NewNop()
	}
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) destination(category string) string {
	switch category {
	case audit.CategoryAuth:
		return l.config.Auth
	case audit.CategoryAdmin:
		return l.config.Admin
	default:
		return All
	}
}

func (l *Logger) logToZap(e audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", e.Category),
		zap.String("event_type", e.EventType),
		zap.String("actor", e.Actor),
		zap.Bool("success", e.Success),
		zap.String("ip", e.IP),
	}
	if e.AdminID != nil {
		fields = append(fields, zap.String("admin_id", e.AdminID.Hex()))
	}
	if e.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", e.FailureReason))
	}
	for k, v := range e.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}
	if e.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records e according to its category's destination. A failed
// insert is logged and otherwise ignored; auditing never fails a request.
func (l *Logger) Log(ctx context.Context, e audit.Event) {
	if l == nil {
		return
	}
	dest := l.destination(e.Category)
	if dest == Off || dest == "" {
		return
	}
	if dest == All || dest == Log {
		l.logToZap(e)
	}
	if (dest == All || dest == DB) && l.store != nil {
		if err := l.store.Log(ctx, e); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", e.EventType))
		}
	}
}

// Actor names the caller of r as stored in audit.Event.Actor.
func Actor(r *http.Request) string {
	u, ok := auth.CurrentUser(r)
	switch {
	case !ok:
		return "anonymous"
	case u.IsSuperAdmin:
		return "superadmin:" + u.Username
	default:
		return "admin:" + u.ID
	}
}

func newEvent(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		Actor:     Actor(r),
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

func ptr(id primitive.ObjectID) *primitive.ObjectID { return &id }

/*─────────────────────────────────────────────────────────────────────────────*
| Authentication                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// LoginSuccess records an admin login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, adminID primitive.ObjectID, email string) {
	if l == nil {
		return
	}
	e := newEvent(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.AdminID = ptr(adminID)
	e.Actor = "admin:" + adminID.Hex()
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginFailed records a rejected admin login. The reason is stored but
// never shown to the caller.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, email, reason string) {
	if l == nil {
		return
	}
	e := newEvent(r, audit.CategoryAuth, audit.EventLoginFailed, false)
	e.FailureReason = reason
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

// LoginThrottled records a credential attempt refused by rate limiting.
func (l *Logger) LoginThrottled(ctx context.Context, r *http.Request, account string) {
	if l == nil {
		return
	}
	e := newEvent(r, audit.CategoryAuth, audit.EventLoginThrottled, false)
	e.FailureReason = "rate_limited"
	e.Details = map[string]string{"account": account}
	l.Log(ctx, e)
}

// SuperAdminLogin records a superadmin sign-in attempt.
func (l *Logger) SuperAdminLogin(ctx context.Context, r *http.Request, username string, success bool) {
	if l == nil {
		return
	}
	eventType := audit.EventSuperAdminLoginSuccess
	if !success {
		eventType = audit.EventSuperAdminLoginFailed
	}
	e := newEvent(r, audit.CategoryAuth, eventType, success)
	if success {
		e.Actor = "superadmin:" + username
	} else {
		e.FailureReason = "invalid_credentials"
	}
	e.Details = map[string]string{"username": username}
	l.Log(ctx, e)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin requests and profiles                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// RequestSubmitted records a new signup request.
func (l *Logger) RequestSubmitted(ctx context.Context, r *http.Request, requestID primitive.ObjectID, email string) {
	if l == nil {
		return
	}
	e := newEvent(r, audit.CategoryAdmin, audit.EventRequestSubmitted, true)
	e.Details = map[string]string{"request_id": requestID.Hex(), "email": email}
	l.Log(ctx, e)
}

// RequestApproved records an approval and the admin it created.
func (l *Logger) RequestApproved(ctx context.Context, r *http.Request, requestID, adminID primitive.ObjectID, email string) {
	if l == nil {
		return
	}
	e := newEvent(r, audit.CategoryAdmin, audit.EventRequestApproved, true)
	e.AdminID = ptr(adminID)
	e.Details = map[string]string{"request_id": requestID.Hex(), "email": email}
	l.Log(ctx, e)
}

// RequestRejected records a rejection.
func (l *Logger) RequestRejected(ctx context.Context, r *http.Request, requestID primitive.ObjectID) {
	if l == nil {
		return
	}
	e := newEvent(r, audit.CategoryAdmin, audit.EventRequestRejected, true)
	e.Details = map[string]string{"request_id": requestID.Hex()}
	l.Log(ctx, e)
}

// ProfileUpdated records a change to an admin's profile.
func (l *Logger) ProfileUpdated(ctx context.Context, r *http.Request, adminID primitive.ObjectID, email string) {
	if l == nil {
		return
	}
	e := newEvent(r, audit.CategoryAdmin, audit.EventProfileUpdated, true)
	e.AdminID = ptr(adminID)
	e.Details = map[string]string{"email": email}
	l.Log(ctx, e)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Events                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (l *Logger) eventChange(ctx context.Context, r *http.Request, eventType string, eventID, ownerID primitive.ObjectID) {
	if l == nil {
		return
	}
	e := newEvent(r, audit.CategoryAdmin, eventType, true)
	e.AdminID = ptr(ownerID)
	e.Details = map[string]string{"event_id": eventID.Hex()}
	l.Log(ctx, e)
}

// EventCreated records a new event owned by ownerID.
func (l *Logger) EventCreated(ctx context.Context, r *http.Request, eventID, ownerID primitive.ObjectID) {
	l.eventChange(ctx, r, audit.EventEventCreated, eventID, ownerID)
}

// EventUpdated records an edit to an event owned by ownerID.
func (l *Logger) EventUpdated(ctx context.Context, r *http.Request, eventID, ownerID primitive.ObjectID) {
	l.eventChange(ctx, r, audit.EventEventUpdated, eventID, ownerID)
}

// EventDeleted records removal of an event owned by ownerID.
func (l *Logger) EventDeleted(ctx context.Context, r *http.Request, eventID, ownerID primitive.ObjectID) {
	l.eventChange(ctx, r, audit.EventEventDeleted, eventID, ownerID)
}

// EventReassigned records an ownership move. AdminID is the new owner.
func (l *Logger) EventReassigned(ctx context.Context, r *http.Request, eventID, from, to primitive.ObjectID) {
	if l == nil {
		return
	}
	e := newEvent(r, audit.CategoryAdmin, audit.EventEventReassigned, true)
	e.AdminID = ptr(to)
	e.Details = map[string]string{"event_id": eventID.Hex(), "from_admin_id": from.Hex()}
	l.Log(ctx, e)
}
