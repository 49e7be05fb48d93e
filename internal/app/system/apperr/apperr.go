// Package apperr defines the closed set of failure kinds a request can end
// in and the HTTP status each maps to.
//
// Handlers and services wrap lower-level errors with E so the response
// layer can pick a status and a safe message without inspecting driver
// errors. The wrapped cause is for logs only.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the response layer.
type Kind int

const (
	Persistence    Kind = iota // data-store failure (500)
	Validation                 // missing or malformed input (400)
	Authentication             // bad credentials or token (401)
	Authorization              // valid identity, insufficient rights (403)
	NotFound                   // unknown id (404)
	Conflict                   // uniqueness violation, e.g. email in use (409)
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authentication:
		return "authentication"
	case Authorization:
		return "authorization"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "persistence"
	}
}

// Status returns the HTTP status code for k.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error with a message that is safe to show callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// E builds a classified error. cause may be nil.
func E(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
// Unclassified errors are Persistence.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Persistence
}

// Is reports whether err carries kind k.
func Is(err error, k Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == k
}

// Message returns the caller-safe message for err. Persistence errors
// never expose their cause; fallback is used when err carries no message.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
