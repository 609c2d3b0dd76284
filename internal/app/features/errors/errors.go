// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/crud"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/jsonutil"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures with the request's method, path and
// request ID.
type ErrorLogger struct {
	logger *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log writes msg and err at error level. Extra fields are appended.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error, fields ...zap.Field) {
	base := []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := chimw.GetReqID(r.Context()); id != "" {
		base = append(base, zap.String("request_id", id))
	}
	e.logger.Error(msg, append(base, fields...)...)
}

// Handler provides the JSON fallbacks mounted on the root router.
type Handler struct{}

// NewHandler creates a new error Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers unknown routes with {"error":"not found"}.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.NotFound(w, "not found")
}

// MethodNotAllowed answers known routes hit with the wrong verb.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, http.StatusMethodNotAllowed, "method not allowed")
}

// Forbidden answers requests rejected by CSRF protection.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	jsonutil.Forbidden(w, "forbidden")
}

// Store writes the response for an error returned by a crud-backed store:
// 404 for a missing document, 409 for a duplicate value or a revision
// conflict, and 500 (logged) for anything else.
func (e *ErrorLogger) Store(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var ce *crud.ConstraintError
	var cf *crud.ConflictError
	var fe *crud.FieldError
	switch {
	case stderrors.Is(err, crud.ErrNotFound):
		jsonutil.NotFound(w, "not found")
	case stderrors.As(err, &fe):
		jsonutil.ValidationError(w, map[string]string{fe.Field: fe.Message})
	case stderrors.As(err, &ce):
		jsonutil.Constraint(w, ce.Field)
	case stderrors.As(err, &cf):
		jsonutil.Conflict(w, cf.Current)
	default:
		e.Log(r, msg, err)
		jsonutil.InternalError(w, "internal error")
	}
}
