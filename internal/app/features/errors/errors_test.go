package errors_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	"github.com/oneheartblacktown/hub/internal/app/system/apperr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body uierrors.Body
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body.Message
}

func TestRender_Statuses(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	tests := []struct {
		name   string
		render func(w http.ResponseWriter)
		status int
		msg    string
	}{
		{"bad request", func(w http.ResponseWriter) { uierrors.RenderBadRequest(w, req, "bad") }, 400, "bad"},
		{"unauthorized default", func(w http.ResponseWriter) { uierrors.RenderUnauthorized(w, req, "") }, 401, "Unauthorized"},
		{"forbidden", func(w http.ResponseWriter) { uierrors.RenderForbidden(w, req, "nope") }, 403, "nope"},
		{"not found", func(w http.ResponseWriter) { uierrors.RenderNotFound(w, req, "gone") }, 404, "gone"},
		{"conflict", func(w http.ResponseWriter) { uierrors.RenderConflict(w, req, "taken") }, 409, "taken"},
		{"server default", func(w http.ResponseWriter) { uierrors.RenderServerError(w, req, "") }, 500, uierrors.MsgServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.render(rec)
			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Content-Type: got %q", ct)
			}
			if got := decode(t, rec); got != tt.msg {
				t.Errorf("message: got %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestErrorLogger_LogServerError_HidesCause(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	errLog := uierrors.NewErrorLogger(zap.New(core))

	req := httptest.NewRequest(http.MethodPost, "/admins", nil)
	rec := httptest.NewRecorder()
	errLog.LogServerError(rec, req, "insert admin failed", fmt.Errorf("E11000 password_hash $2a$10$secret"), "Unable to save.")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "E11000") || strings.Contains(body, "$2a$") {
		t.Errorf("cause leaked into response: %s", body)
	}
	if logs.FilterMessage("insert admin failed").Len() != 1 {
		t.Error("expected the failure to be logged")
	}
}

func TestErrorLogger_Render_ByKind(t *testing.T) {
	errLog := uierrors.NewErrorLogger(nil)
	req := httptest.NewRequest(http.MethodPut, "/admins/x", nil)

	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{apperr.E(apperr.Conflict, "Email already in use", nil), 409, "Email already in use"},
		{apperr.E(apperr.NotFound, "Admin not found", nil), 404, "Admin not found"},
		{apperr.E(apperr.Validation, "Name is required.", nil), 400, "Name is required."},
		{fmt.Errorf("socket closed"), 500, "Failed to update"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		errLog.Render(rec, req, "update failed", tt.err, "Failed to update")
		if rec.Code != tt.status {
			t.Errorf("%v: status %d, want %d", tt.err, rec.Code, tt.status)
		}
		if got := decode(t, rec); got != tt.msg {
			t.Errorf("%v: message %q, want %q", tt.err, got, tt.msg)
		}
	}
}
