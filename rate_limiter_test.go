package rowangate

import (
	"testing"
	"time"
)

func TestRateLimiterAllowWithinWindow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Errorf("Expected Allow()=true for call %d", i+1)
		}
	}

	if rl.Allow() {
		t.Error("Expected Allow()=false once the window is full")
	}

	if rl.Count() != 3 {
		t.Errorf("Expected count=3 after rejection, got %d", rl.Count())
	}
}

func TestRateLimiterRejectionDoesNotIncrement(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	rl.Allow()
	rl.Allow()
	rl.Allow()

	if rl.Count() != 1 {
		t.Errorf("Expected count=1, got %d", rl.Count())
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(2, 30*time.Millisecond)

	rl.Allow()
	rl.Allow()

	if rl.Allow() {
		t.Error("Expected Allow()=false in the full window")
	}

	time.Sleep(40 * time.Millisecond)

	if !rl.Allow() {
		t.Error("Expected Allow()=true after the window elapsed")
	}

	if rl.Count() != 1 {
		t.Errorf("Expected count=1 in the fresh window, got %d", rl.Count())
	}
}

func TestRateLimiterRemaining(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	if rl.Remaining() != 5 {
		t.Errorf("Expected remaining=5 before any calls, got %d", rl.Remaining())
	}

	rl.Allow()
	rl.Allow()

	if rl.Remaining() != 3 {
		t.Errorf("Expected remaining=3, got %d", rl.Remaining())
	}
}

func TestRateLimiterRemainingAfterStaleWindow(t *testing.T) {
	rl := NewRateLimiter(2, 20*time.Millisecond)

	rl.Allow()
	rl.Allow()
	time.Sleep(30 * time.Millisecond)

	if rl.Remaining() != 2 {
		t.Errorf("Expected remaining=2 for a stale window, got %d", rl.Remaining())
	}
}
