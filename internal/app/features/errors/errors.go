// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/oneheartblacktown/hub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and then renders the
// matching JSON error. The logged cause never reaches the response body.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger. A nil logger logs nothing.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
}

// LogServerError logs at error level and responds 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Error(logMsg, e.fields(r, err)...)
	RenderServerError(w, r, userMsg)
}

// LogBadRequest logs at warn level and responds 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	RenderBadRequest(w, r, userMsg)
}

// Render maps err onto its apperr kind. Persistence failures are logged
// and answered with fallback; every other kind answers with its own message.
func (e *ErrorLogger) Render(w http.ResponseWriter, r *http.Request, logMsg string, err error, fallback string) {
	kind := apperr.KindOf(err)
	if kind == apperr.Persistence {
		e.LogServerError(w, r, logMsg, err, fallback)
		return
	}
	e.Log.Debug(logMsg, append(e.fields(r, err), zap.String("kind", kind.String()))...)
	Write(w, kind.Status(), apperr.Message(err, fallback))
}
