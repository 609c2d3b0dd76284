// internal/client/errors.go
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinel errors. Use errors.Is.
var (
	// ErrNetwork means the server could not be reached or did not answer.
	ErrNetwork = errors.New("server unreachable")
	// ErrNotFound is a 404 from the server.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a 401; the token is missing, expired or revoked.
	ErrUnauthorized = errors.New("not authorized")
	// ErrMaintenance is a 503 maintenance response on a public route.
	ErrMaintenance = errors.New("site is in maintenance mode")
)

// APIError is any non-2xx response. Fields is set for validation failures,
// RetryAfter for 429s.
type APIError struct {
	Status     int
	Message    string
	Code       string
	Fields     map[string]string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s (%d): %v", e.Message, e.Status, e.Fields)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Unwrap maps well-known statuses onto the sentinels.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusServiceUnavailable:
		return ErrMaintenance
	}
	return nil
}

// ConstraintViolation is a 409 naming the field whose unique constraint was
// violated (for example a duplicate blog slug).
type ConstraintViolation struct {
	Field string
}

func (e *ConstraintViolation) Error() string {
	return "duplicate value for " + e.Field
}

// ConflictError is a 409 revision conflict. Current holds the stored
// document as the server returned it; decode it with CurrentAs.
type ConflictError struct {
	Current json.RawMessage
}

func (e *ConflictError) Error() string {
	return "revision conflict: the record was changed by someone else"
}

// CurrentAs decodes the stored document into v.
func (e *ConflictError) CurrentAs(v any) error {
	if len(e.Current) == 0 {
		return errors.New("conflict carried no current document")
	}
	return json.Unmarshal(e.Current, v)
}

// errorBody covers every error shape the server writes.
type errorBody struct {
	Error      string            `json:"error"`
	Code       string            `json:"code"`
	Field      string            `json:"field"`
	Fields     map[string]string `json:"fields"`
	Current    json.RawMessage   `json:"current"`
	RetryAfter int               `json:"retry_after"`
	Message    string            `json:"message"`
}

// decodeError turns a non-2xx response body into the matching error type.
func decodeError(status int, body []byte) error {
	var b errorBody
	_ = json.Unmarshal(body, &b)

	if status == http.StatusConflict {
		switch {
		case b.Field != "":
			return &ConstraintViolation{Field: b.Field}
		case len(b.Current) > 0 && string(b.Current) != "null":
			return &ConflictError{Current: b.Current}
		}
	}

	msg := b.Error
	if msg == "" {
		msg = b.Message
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{
		Status:     status,
		Message:    msg,
		Code:       b.Code,
		Fields:     b.Fields,
		RetryAfter: time.Duration(b.RetryAfter) * time.Second,
	}
}
