// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/doubtspanel/internal/app/system/apperr"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs failures and writes the JSON error body the client
// shows to the user.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": msg} with the given status.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

// Respond classifies err, logs it at a level that suits its kind, and
// writes the matching status. The user sees the error's own message when
// it carries one and fallback otherwise.
func (e *ErrorLogger) Respond(w http.ResponseWriter, r *http.Request, logMsg string, err error, fallback string) {
	kind := apperr.KindOf(err)
	fields := e.fields(r, err, kind)
	switch kind {
	case apperr.KindTransport:
		e.Log.Error(logMsg, fields...)
		// transport causes never reach the client
		WriteError(w, kind.Status(), fallback)
		return
	case apperr.KindDomainRejected, apperr.KindUnauthorized:
		e.Log.Warn(logMsg, fields...)
	default:
		e.Log.Info(logMsg, fields...)
	}
	WriteError(w, kind.Status(), apperr.Message(err, fallback))
}

// LogServerError logs err and writes a 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Error(logMsg, e.fields(r, err, apperr.KindTransport)...)
	WriteError(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs at info and writes a 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Info(logMsg, e.fields(r, err, apperr.KindValidation)...)
	WriteError(w, http.StatusBadRequest, userMsg)
}

// LogForbidden logs at warn and writes a 403 with userMsg.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg string, userMsg string) {
	e.Log.Warn(logMsg, e.fields(r, nil, apperr.KindUnauthorized)...)
	WriteError(w, http.StatusForbidden, userMsg)
}

func (e *ErrorLogger) fields(r *http.Request, err error, kind apperr.Kind) []zap.Field {
	fs := []zap.Field{
		zap.String("kind", kind.String()),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fs = append(fs, zap.String("request_id", id))
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	return fs
}
