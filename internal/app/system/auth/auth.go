// Package auth mints and verifies the signed bearer tokens used by admins
// and the superadmin, and provides the middleware that guards routes.
//
// Tokens are stateless HS256 JWTs. An admin token carries the admin's id;
// a superadmin token carries the configured username and role=superadmin.
// Nothing is persisted server-side.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// MinSecretLen is the recommended minimum signing key length in bytes.
const MinSecretLen = 32

var (
	ErrMissingToken = errors.New("missing or malformed bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Response messages written by the middleware.
const (
	MsgMissingToken = "Unauthorized: Missing or invalid token format"
	MsgInvalidToken = "Unauthorized: Invalid token"
	MsgExpiredToken = "Unauthorized: Token expired"
	MsgForbidden    = "Forbidden: Insufficient permissions"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Claims & identity                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// Claims is the JWT payload. Exactly one of AdminID or Username is set.
type Claims struct {
	AdminID  string `json:"adminId,omitempty"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenUser is the verified identity injected into r.Context().
type TokenUser struct {
	ID           string // admin ObjectID hex; empty for the superadmin
	Username     string // superadmin username; empty for admins
	Role         string
	IsSuperAdmin bool
	ExpiresAt    time.Time
}

// AdminObjectID parses ID. ok is false for the superadmin or a malformed id.
func (u *TokenUser) AdminObjectID() (primitive.ObjectID, bool) {
	if u == nil || u.ID == "" {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the verified token identity, if any.
func CurrentUser(r *http.Request) (*TokenUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*TokenUser)
	return u, ok && u != nil
}

// WithTestUser attaches u to the request context. For tests only.
func WithTestUser(r *http.Request, u *TokenUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *TokenUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Token manager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// TokenManager signs and verifies tokens with a single shared secret.
type TokenManager struct {
	secret        []byte
	adminTTL      time.Duration
	superAdminTTL time.Duration
	log           *zap.Logger
	now           func() time.Time
}

// NewTokenManager builds a TokenManager. An empty secret is an error;
// a short one is logged as a warning.
func NewTokenManager(secret string, adminTTL, superAdminTTL time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty; provide ≥%d random chars", MinSecretLen)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(secret) < MinSecretLen {
		logger.Warn("jwt secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if adminTTL <= 0 {
		adminTTL = 24 * time.Hour
	}
	if superAdminTTL <= 0 {
		superAdminTTL = 8 * time.Hour
	}
	return &TokenManager{
		secret:        []byte(secret),
		adminTTL:      adminTTL,
		superAdminTTL: superAdminTTL,
		log:           logger,
		now:           time.Now,
	}, nil
}

// SetClock replaces the time source. For tests only.
func (tm *TokenManager) SetClock(now func() time.Time) { tm.now = now }

// MintAdmin issues an admin token for adminID.
func (tm *TokenManager) MintAdmin(adminID primitive.ObjectID) (string, error) {
	if adminID.IsZero() {
		return "", errors.New("mint admin token: zero admin id")
	}
	return tm.sign(Claims{AdminID: adminID.Hex()}, tm.adminTTL)
}

// MintSuperAdmin issues a superadmin token for username.
func (tm *TokenManager) MintSuperAdmin(username string) (string, error) {
	if username == "" {
		return "", errors.New("mint superadmin token: empty username")
	}
	return tm.sign(Claims{Username: username, Role: RoleSuperAdmin}, tm.superAdminTTL)
}

func (tm *TokenManager) sign(c Claims, ttl time.Duration) (string, error) {
	now := tm.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}

// Parse verifies raw and returns the identity it asserts.
// Expired tokens yield ErrExpiredToken; anything else that fails
// verification yields ErrInvalidToken.
func (tm *TokenManager) Parse(raw string) (*TokenUser, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(tm.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	u := &TokenUser{}
	if c.ExpiresAt != nil {
		u.ExpiresAt = c.ExpiresAt.Time
	}
	switch {
	case c.Role == RoleSuperAdmin && c.Username != "":
		u.Username = c.Username
		u.Role = RoleSuperAdmin
		u.IsSuperAdmin = true
	case c.AdminID != "" && c.Role == "":
		if !primitive.IsValidObjectID(c.AdminID) {
			return nil, fmt.Errorf("%w: malformed admin id", ErrInvalidToken)
		}
		u.ID = c.AdminID
		u.Role = RoleAdmin
	default:
		return nil, fmt.Errorf("%w: no identity", ErrInvalidToken)
	}
	return u, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingToken
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", ErrMissingToken
	}
	return tok, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadBearer injects the token identity when a valid bearer token is
// present. Requests without one, or with a bad one, continue anonymously.
func (tm *TokenManager) LoadBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw, err := BearerToken(r); err == nil {
			if u, err := tm.Parse(raw); err == nil {
				r = withUser(r, u)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSuperAdmin admits only requests bearing a valid superadmin token.
func (tm *TokenManager) RequireSuperAdmin(next http.Handler) http.Handler {
	return tm.require(next, true)
}

// RequireAdmin admits requests bearing a valid admin or superadmin token.
// Whether the caller may act on a particular admin is decided by authz.
func (tm *TokenManager) RequireAdmin(next http.Handler) http.Handler {
	return tm.require(next, false)
}

func (tm *TokenManager) require(next http.Handler, superOnly bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := BearerToken(r)
		if err != nil {
			deny(w, http.StatusUnauthorized, MsgMissingToken)
			return
		}
		u, err := tm.Parse(raw)
		if err != nil {
			tm.log.Debug("bearer token rejected",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			if errors.Is(err, ErrExpiredToken) {
				deny(w, http.StatusUnauthorized, MsgExpiredToken)
				return
			}
			deny(w, http.StatusUnauthorized, MsgInvalidToken)
			return
		}
		if superOnly && !u.IsSuperAdmin {
			deny(w, http.StatusForbidden, MsgForbidden)
			return
		}
		next.ServeHTTP(w, withUser(r, u))
	})
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="hub"`)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
