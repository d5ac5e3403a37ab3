package rowangate

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClientErrorFormatting(t *testing.T) {
	err := &ClientError{
		Type:        ErrorTypeTransport,
		Message:     "network request failed",
		Cause:       errors.New("connection refused"),
		RequestID:   "req-1",
		Attempt:     2,
		MaxAttempts: 3,
	}

	msg := err.Error()
	if !strings.Contains(msg, "Transport") {
		t.Errorf("Expected type in message, got %q", msg)
	}
	if !strings.Contains(msg, "req-1") {
		t.Errorf("Expected request ID in message, got %q", msg)
	}
	if !strings.Contains(msg, "attempt 2/3") {
		t.Errorf("Expected attempt counter in message, got %q", msg)
	}
}

func TestClientErrorNil(t *testing.T) {
	var err *ClientError
	if err.Error() != "<nil>" {
		t.Errorf("Expected '<nil>', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Error("Expected nil unwrap")
	}
}

func TestClientErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := &ClientError{Type: ErrorTypeTransport, Message: "failed", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the cause")
	}
}

func TestClientErrorIsMatchesType(t *testing.T) {
	a := &ClientError{Type: ErrorTypeTimeout, Message: "first"}
	b := &ClientError{Type: ErrorTypeTimeout, Message: "second"}
	c := &ClientError{Type: ErrorTypeProtocol, Message: "other"}

	if !errors.Is(a, b) {
		t.Error("Expected same-type ClientErrors to match")
	}
	if errors.Is(a, c) {
		t.Error("Expected different-type ClientErrors not to match")
	}
}

func TestSentinelCauses(t *testing.T) {
	open := &ClientError{Type: ErrorTypeCircuitOpen, Message: "circuit breaker is open", Cause: ErrCircuitOpen}
	limited := &ClientError{Type: ErrorTypeRateLimit, Message: "local rate limit exceeded", Cause: ErrRateLimited}

	if !errors.Is(open, ErrCircuitOpen) {
		t.Error("Expected ErrCircuitOpen sentinel to match")
	}
	if !errors.Is(limited, ErrRateLimited) {
		t.Error("Expected ErrRateLimited sentinel to match")
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrCircuitOpen, true},
		{ErrRateLimited, true},
		{&ClientError{Type: ErrorTypeTimeout}, true},
		{&ClientError{Type: ErrorTypeTransport}, true},
		{&ClientError{Type: ErrorTypeProtocol}, true},
		{&ClientError{Type: ErrorTypeRateLimit}, true},
		{&ClientError{Type: ErrorTypeCircuitOpen}, true},
		{&ClientError{Type: ErrorTypeValidation}, false},
		{errors.New("plain"), false},
		{fmt.Errorf("wrapped: %w", &ClientError{Type: ErrorTypeTimeout}), true},
	}

	for i, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Errorf("Case %d: IsTransient(%v) = %v, want %v", i, tc.err, got, tc.want)
		}
	}
}
