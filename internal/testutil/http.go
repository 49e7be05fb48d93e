package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oneheartblacktown/hub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TestJWTSecret signs tokens minted by NewTokenManager.
const TestJWTSecret = "test-jwt-secret-must-be-32-chars-long"

// SuperAdminUsername is the username carried by SuperAdminUser.
const SuperAdminUsername = "root"

// AdminUser returns a token identity for the admin with id.
func AdminUser(id primitive.ObjectID) *auth.TokenUser {
	return &auth.TokenUser{ID: id.Hex(), Role: auth.RoleAdmin}
}

// SuperAdminUser returns a superadmin token identity.
func SuperAdminUser() *auth.TokenUser {
	return &auth.TokenUser{Username: SuperAdminUsername, Role: auth.RoleSuperAdmin, IsSuperAdmin: true}
}

// WithUser injects u into r's context, bypassing the bearer middleware.
func WithUser(r *http.Request, u *auth.TokenUser) *http.Request {
	return auth.WithTestUser(r, u)
}

// NewTokenManager returns a TokenManager using TestJWTSecret and the
// production TTLs (1 day admin, 8 hours superadmin).
func NewTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager(TestJWTSecret, 24*time.Hour, 8*time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create token manager: %v", err)
	}
	return tm
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is v encoded as JSON.
func NewJSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	var body io.Reader
	switch b := v.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		body = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeJSON decodes rec's body into v or fails the test.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// Message returns the "message" field of a JSON response.
func Message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	DecodeJSON(t, rec, &body)
	return body.Message
}
