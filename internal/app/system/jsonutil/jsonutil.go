// Package jsonutil writes the API's JSON responses and reads its JSON
// request bodies. Every error response uses the Problem shape, which the
// client SDK decodes back into typed errors.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// MaxBodyBytes caps a decoded request body.
const MaxBodyBytes = 1 << 20

// Problem is the body of every non-2xx API response.
type Problem struct {
	Error      string            `json:"error"`
	Code       string            `json:"code,omitempty"`
	Field      string            `json:"field,omitempty"`  // 409 unique constraint
	Fields     map[string]string `json:"fields,omitempty"` // 400 validation
	Current    any               `json:"current,omitempty"`
	RetryAfter int               `json:"retry_after,omitempty"` // seconds
}

// JSON writes data with the given status. A nil data writes no body.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func OK(w http.ResponseWriter, data any)       { JSON(w, http.StatusOK, data) }
func Created(w http.ResponseWriter, data any)  { JSON(w, http.StatusCreated, data) }
func Accepted(w http.ResponseWriter, data any) { JSON(w, http.StatusAccepted, data) }

// NoContent writes a bare 204.
func NoContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

// Fail writes p with the given status.
func Fail(w http.ResponseWriter, status int, p Problem) {
	if p.Error == "" {
		p.Error = http.StatusText(status)
	}
	JSON(w, status, p)
}

// Error writes {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	Fail(w, status, Problem{Error: message})
}

// Coded writes {"error": message, "code": code} so clients can branch on a
// stable key instead of the human message.
func Coded(w http.ResponseWriter, status int, code, message string) {
	Fail(w, status, Problem{Error: message, Code: code})
}

func BadRequest(w http.ResponseWriter, message string)   { Error(w, http.StatusBadRequest, message) }
func Unauthorized(w http.ResponseWriter, message string) { Error(w, http.StatusUnauthorized, message) }
func Forbidden(w http.ResponseWriter, message string)    { Error(w, http.StatusForbidden, message) }
func NotFound(w http.ResponseWriter, message string)     { Error(w, http.StatusNotFound, message) }

// InternalError writes a 500. Log the cause separately; never put it in message.
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}

// ValidationError writes a 400 with per-field messages.
func ValidationError(w http.ResponseWriter, fields map[string]string) {
	Fail(w, http.StatusBadRequest, Problem{Error: "validation failed", Fields: fields})
}

// Constraint writes a 409 naming the field whose unique constraint failed.
func Constraint(w http.ResponseWriter, field string) {
	Fail(w, http.StatusConflict, Problem{Error: "duplicate value", Field: field})
}

// Conflict writes a 409 carrying the stored document so the caller can
// reload or merge.
func Conflict(w http.ResponseWriter, current any) {
	Fail(w, http.StatusConflict, Problem{Error: "revision conflict", Current: current})
}

// TooManyRequests writes a 429 with both a Retry-After header and body field.
func TooManyRequests(w http.ResponseWriter, message string, retryAfter int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	Fail(w, http.StatusTooManyRequests, Problem{Error: message, RetryAfter: retryAfter})
}

// ServiceUnavailable writes a 503 with an arbitrary body.
func ServiceUnavailable(w http.ResponseWriter, data any) {
	JSON(w, http.StatusServiceUnavailable, data)
}

var (
	ErrEmptyBody    = errors.New("request body is empty")
	ErrBodyTooLarge = fmt.Errorf("request body exceeds %d bytes", MaxBodyBytes)
	ErrTrailingData = errors.New("request body has data after the JSON value")
)

// Decode reads exactly one JSON value of at most MaxBodyBytes into v.
func Decode(r *http.Request, v any) error {
	lr := &io.LimitedReader{R: r.Body, N: MaxBodyBytes + 1}
	dec := json.NewDecoder(lr)
	if err := dec.Decode(v); err != nil {
		switch {
		case lr.N <= 0:
			return ErrBodyTooLarge
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		}
		return err
	}
	if dec.More() {
		return ErrTrailingData
	}
	return nil
}
