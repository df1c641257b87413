// Package faults defines the closed set of failure kinds the gateway can
// return and the single point where kinds are translated to HTTP statuses.
//
// Failure values are immutable after construction and support errors.Is /
// errors.As via Unwrap. The message is client-safe: causes are preserved for
// server-side logs but never rendered into the response body.
package faults

import (
	"errors"
	"fmt"

	"wildebeast-llm-api/internal/models"
)

// Kind is the stable, machine-facing error code LLM agents branch on.
type Kind string

const (
	// KindValidation covers malformed inbound requests only. Surfaced as 422.
	KindValidation Kind = "validation_error"
	// KindForecastService means the downstream was reached and rejected the
	// forecast request itself (4xx) or returned a body that fails validation.
	KindForecastService Kind = "forecast_service_error"
	// KindTimeout means the call exceeded the local deadline.
	KindTimeout Kind = "timeout_error"
	// KindUnavailable means the downstream could not be reached or returned 5xx.
	KindUnavailable Kind = "service_unavailable"
	// KindInternal covers everything not attributable to the network or the
	// downstream's documented behavior.
	KindInternal Kind = "internal_error"
)

// Failure is the canonical error type for the gateway.
type Failure struct {
	kind           Kind
	message        string
	timeoutSeconds float64
	cause          error
}

// New creates a Failure with a client-safe message.
func New(kind Kind, message string) *Failure {
	return &Failure{kind: kind, message: message}
}

// Wrap attaches a cause to a new Failure. The cause is exposed via Unwrap()
// for logging and errors.Is, never via the client-facing message.
func Wrap(cause error, kind Kind, message string) *Failure {
	return &Failure{kind: kind, message: message, cause: cause}
}

// Timeout creates a timeout_error carrying the configured deadline so the
// caller can decide whether to retry with more patience.
func Timeout(cause error, seconds float64) *Failure {
	return &Failure{
		kind:           KindTimeout,
		message:        "Request to forecast service timed out. The service may be overloaded.",
		timeoutSeconds: seconds,
		cause:          cause,
	}
}

// Ensure converts any error to *Failure.
//
//   - nil input => nil output
//   - an existing *Failure is returned as-is
//   - anything else becomes an internal_error with a generic message
func Ensure(err error) *Failure {
	if err == nil {
		return nil
	}

	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	return Wrap(err, KindInternal, "An unexpected error occurred.")
}

func (f *Failure) Error() string {
	if f == nil {
		return "<nil>"
	}
	if f.cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.kind, f.message, f.cause)
	}
	return fmt.Sprintf("%s: %s", f.kind, f.message)
}

func (f *Failure) Unwrap() error { return f.cause }

func (f *Failure) Kind() Kind      { return f.kind }
func (f *Failure) Message() string { return f.message }

// TimeoutSeconds is zero for every kind except timeout_error.
func (f *Failure) TimeoutSeconds() float64 { return f.timeoutSeconds }

// HTTPStatus maps the kind to the response status. This is the only place
// in the gateway where that translation happens.
func (f *Failure) HTTPStatus() int {
	switch f.kind {
	case KindValidation:
		return 422
	case KindForecastService:
		return 502
	case KindTimeout:
		return 504
	case KindUnavailable:
		return 503
	default:
		return 500
	}
}

// Response renders the public error body.
func (f *Failure) Response() models.ErrorResponse {
	return models.ErrorResponse{
		Error:          string(f.kind),
		Message:        f.message,
		TimeoutSeconds: f.timeoutSeconds,
	}
}
