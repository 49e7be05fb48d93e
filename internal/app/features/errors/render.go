// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
)

// MsgServerError is the body of every 500 unless a handler supplies a
// more specific safe message.
const MsgServerError = "Internal server error"

// Body is the JSON shape of every error response.
type Body struct {
	Message string `json:"message"`
}

// Write renders {"message": msg} with status.
func Write(w http.ResponseWriter, status int, msg string) {
	formutil.JSON(w, status, Body{Message: msg})
}

func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	Write(w, http.StatusBadRequest, msg)
}

// RenderUnauthorized responds 401. An empty msg uses "Unauthorized".
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Unauthorized"
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="hub"`)
	Write(w, http.StatusUnauthorized, msg)
}

// RenderForbidden responds 403. An empty msg uses "Forbidden".
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Forbidden"
	}
	Write(w, http.StatusForbidden, msg)
}

func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	Write(w, http.StatusNotFound, msg)
}

func RenderConflict(w http.ResponseWriter, r *http.Request, msg string) {
	Write(w, http.StatusConflict, msg)
}

func RenderMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// RenderServerError responds 500. An empty msg uses MsgServerError.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = MsgServerError
	}
	Write(w, http.StatusInternalServerError, msg)
}
