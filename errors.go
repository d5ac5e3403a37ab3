package rowangate

import (
	"errors"
	"fmt"
	"time"
)

// Error type identifiers carried by ClientError.Type.
const (
	ErrorTypeValidation  = "Validation"
	ErrorTypeRateLimit   = "RateLimit"
	ErrorTypeCircuitOpen = "CircuitOpen"
	ErrorTypeTimeout     = "Timeout"
	ErrorTypeTransport   = "Transport"
	ErrorTypeProtocol    = "Protocol"
)

// Sentinel errors for common failure scenarios.
var (
	// ErrCircuitOpen is returned when the circuit breaker is in open state.
	ErrCircuitOpen = errors.New("rowangate: circuit open")

	// ErrRateLimited is returned when a request is denied by the local
	// rate limiter.
	ErrRateLimited = errors.New("rowangate: rate limited")

	// ErrClosed is returned when a request is submitted to a closed client.
	ErrClosed = errors.New("rowangate: client closed")
)

// ClientError is the typed error surfaced for every failure mode. The Type
// field distinguishes validation, rate limiting, breaker rejection, timeout,
// transport and protocol failures.
type ClientError struct {
	Type        string
	Message     string
	Cause       error
	RequestID   string
	StatusCode  int
	Attempt     int
	MaxAttempts int
	Timestamp   time.Time
	Duration    time.Duration
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Attempt > 0 {
		msg = fmt.Sprintf("%s (attempt %d/%d)", msg, e.Attempt, e.MaxAttempts)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types so errors.Is matches two ClientErrors of the same
// Type regardless of message or cause.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// IsTransient reports whether the error represents a failure that might
// succeed on a later call: timeouts, transport failures, protocol errors and
// breaker or rate-limit rejections that clear on their own. Validation
// failures are permanent for the same input.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrRateLimited) {
		return true
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		switch clientErr.Type {
		case ErrorTypeTimeout, ErrorTypeTransport, ErrorTypeProtocol,
			ErrorTypeRateLimit, ErrorTypeCircuitOpen:
			return true
		default:
			return false
		}
	}

	return false
}
