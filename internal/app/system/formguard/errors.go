// Package formguard validates public form submissions and screens them for
// abuse. It is pure: no I/O, no clocks. The server contact handler and the
// admin client both run it, the client before any network call.
package formguard

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Messages shown to submitters. Anti-abuse messages are deliberately vague.
const (
	MsgNonceMismatch = "Security validation failed. Please refresh the page and try again."
	MsgTooFast       = "Please take your time filling out the form."
	MsgSubmitFailed  = "An error occurred. Please try again later."
)

// Keys under which global (non-field) errors are reported.
const (
	KeyRateLimit = "rateLimit"
	KeyCSRF      = "csrf"
	KeyTiming    = "timing"
	KeySubmit    = "submit"
)

// ValidationError carries every failing field with its message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%d fields)", len(e.Fields))
}

// AntiAbuseRejection is a submission rejected as likely automated. Silent
// rejections must look like success to the submitter and persist nothing.
type AntiAbuseRejection struct {
	Reason  string
	Silent  bool
	Message string
}

func (e *AntiAbuseRejection) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "submission rejected: " + e.Reason
}

// Sentinel rejections. Compare with errors.Is.
var (
	ErrHoneypot      = &AntiAbuseRejection{Reason: "honeypot", Silent: true}
	ErrNonceMismatch = &AntiAbuseRejection{Reason: "nonce", Message: MsgNonceMismatch}
	ErrTooFast       = &AntiAbuseRejection{Reason: "timing", Message: MsgTooFast}
)

// RateLimitError reports how long the submitter must wait.
type RateLimitError struct {
	Wait time.Duration
}

// Seconds is Wait rounded up to whole seconds.
func (e *RateLimitError) Seconds() int {
	return int(math.Ceil(e.Wait.Seconds()))
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Please wait %d seconds before submitting again.", e.Seconds())
}

// IsSilent reports whether err is a rejection that must not be shown.
func IsSilent(err error) bool {
	var r *AntiAbuseRejection
	return errors.As(err, &r) && r.Silent
}

// Banner maps a global error to its display key and message. Field
// validation errors and silent rejections return ok=false. Anything
// unrecognised is a generic submit failure.
func Banner(err error) (key, msg string, ok bool) {
	if err == nil {
		return "", "", false
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return "", "", false
	}
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return KeyRateLimit, rl.Error(), true
	}
	var ar *AntiAbuseRejection
	if errors.As(err, &ar) {
		switch {
		case ar.Silent:
			return "", "", false
		case ar.Reason == ErrTooFast.Reason:
			return KeyTiming, ar.Message, true
		default:
			return KeyCSRF, MsgNonceMismatch, true
		}
	}
	return KeySubmit, MsgSubmitFailed, true
}
