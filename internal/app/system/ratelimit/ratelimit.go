// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"go.uber.org/zap"
)

// Messages returned with 429 responses.
const (
	MsgTooManyFromClient  = "Too many attempts. Please wait a minute before trying again."
	MsgTooManyForAccount  = "Too many attempts for this account. Please wait a few minutes."
	MsgTooManySubmissions = "Too many requests. Please try again later."
)

// Limiter counts events per key in fixed windows. It is safe for
// concurrent use. Close stops the background sweep.
//
// By default counts live in process memory. A Limiter built with NewShared
// keeps them in a Counter instead, so every instance sees the same totals.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time

	counter Counter
	prefix  string
	log     *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter admitting limit events per key per duration.
// A limit of zero or less admits everything.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if limit > 0 && duration > 0 {
		go l.sweep(2 * duration)
	}
	return l
}

// NewShared creates a limiter whose counts live in c under keys starting
// with prefix. When c fails the limiter admits the event and logs.
func NewShared(c Counter, prefix string, limit int, duration time.Duration, logger *zap.Logger) *Limiter {
	return &Limiter{
		limit:    limit,
		duration: duration,
		now:      time.Now,
		counter:  c,
		prefix:   prefix,
		log:      logger,
		stop:     make(chan struct{}),
	}
}

// SetClock replaces the time source. For tests only.
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// AllowClient records one event for r's client IP and reports whether it
// is within the limit.
func (l *Limiter) AllowClient(r *http.Request) bool {
	return l.allow(r.Context(), ClientIP(r))
}

func (l *Limiter) allow(ctx context.Context, key string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	if l.counter != nil {
		n, err := l.counter.Incr(ctx, l.prefix+key, l.duration)
		if err != nil {
			l.log.Warn("rate limit counter unavailable; admitting", zap.Error(err))
			return true
		}
		return n <= int64(l.limit)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	if l == nil {
		return
	}
	if l.counter != nil {
		if err := l.counter.Del(context.Background(), l.prefix+key); err != nil {
			l.log.Warn("rate limit reset failed", zap.Error(err))
		}
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Close stops the sweep goroutine. The limiter keeps working afterwards
// but expired keys are only replaced, not removed.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, w := range l.windows {
				if !now.Before(w.expiresAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP extracts the client IP from an HTTP request.
// It checks X-Forwarded-For and X-Real-IP first (for proxied requests),
// then falls back to RemoteAddr.
//
// The forwarding headers are trusted as sent. The hub must run behind a
// proxy that overwrites them; exposed directly, a client can pick any
// key it likes and per-IP limits stop meaning anything.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

/*─────────────────────────────────────────────────────────────────────────────*
| Credential endpoints                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// Realm separates account namespaces so an admin email and a superadmin
// username that happen to match never share a counter.
type Realm string

const (
	AdminRealm      Realm = "admin"
	SuperAdminRealm Realm = "superadmin"
)

// AuthLimiter throttles credential checks by client IP and by account,
// covering both spraying from one address and guessing at one account.
type AuthLimiter struct {
	byIP      *Limiter
	byAccount *Limiter
}

// NewAuthLimiter creates an AuthLimiter admitting ipLimit attempts per
// minute per IP and accountLimit attempts per five minutes per account.
func NewAuthLimiter(ipLimit, accountLimit int) *AuthLimiter {
	return &AuthLimiter{
		byIP:      New(ipLimit, time.Minute),
		byAccount: New(accountLimit, 5*time.Minute),
	}
}

// NewSharedAuthLimiter is NewAuthLimiter with counts kept in c.
func NewSharedAuthLimiter(c Counter, ipLimit, accountLimit int, logger *zap.Logger) *AuthLimiter {
	return &AuthLimiter{
		byIP:      NewShared(c, "login_ip:", ipLimit, time.Minute, logger),
		byAccount: NewShared(c, "login_attempts:", accountLimit, 5*time.Minute, logger),
	}
}

// Check records an attempt against account (an email or username) in
// realm from r's client. It returns false and the message to show when
// either limit is exceeded. A nil AuthLimiter admits everything.
func (al *AuthLimiter) Check(r *http.Request, realm Realm, account string) (bool, string) {
	if al == nil {
		return true, ""
	}
	if !al.byIP.allow(r.Context(), ClientIP(r)) {
		return false, MsgTooManyFromClient
	}
	if key := accountKey(realm, account); key != "" && !al.byAccount.allow(r.Context(), key) {
		return false, MsgTooManyForAccount
	}
	return true, ""
}

// Succeeded clears the account's counter after a successful sign-in.
func (al *AuthLimiter) Succeeded(realm Realm, account string) {
	if al == nil {
		return
	}
	if key := accountKey(realm, account); key != "" {
		al.byAccount.Reset(key)
	}
}

// Close stops both sweeps.
func (al *AuthLimiter) Close() {
	if al == nil {
		return
	}
	al.byIP.Close()
	al.byAccount.Close()
}

func accountKey(realm Realm, s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return string(realm) + ":" + s
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// PerIP admits at most l's limit of requests per client IP and answers
// the rest with 429 and msg.
func PerIP(l *Limiter, msg string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.AllowClient(r) {
				logger.Warn("rate limited",
					zap.String("ip", ClientIP(r)),
					zap.String("path", r.URL.Path))
				TooMany(w, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TooMany writes a 429 with {"message": msg}.
func TooMany(w http.ResponseWriter, msg string) {
	w.Header().Set("Retry-After", "60")
	formutil.JSON(w, http.StatusTooManyRequests, struct {
		Message string `json:"message"`
	}{msg})
}
