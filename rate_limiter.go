package rowangate

import (
	"time"
)

// Default rate limiter settings, matching the service's advertised quota of
// sixty requests per minute.
const (
	DefaultMaxPerWindow = 60
	DefaultRateWindow   = 60 * time.Second
)

// NewRateLimiter creates a fixed-window rate limiter. The first window opens
// on the first Allow call.
func NewRateLimiter(maxPerWindow int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxPerWindow: maxPerWindow,
		window:       window,
	}
}

// Allow consumes one slot in the current window. It returns false without
// incrementing the count when the window is full. A stale window is reset
// before the check.
func (rl *RateLimiter) Allow() bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.windowStart) >= rl.window {
		rl.windowStart = now
		rl.count = 0
	}

	if rl.count >= rl.maxPerWindow {
		return false
	}

	rl.count++
	return true
}

// Remaining returns the number of slots left in the current window.
func (rl *RateLimiter) Remaining() int {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.windowStart) >= rl.window {
		return rl.maxPerWindow
	}

	remaining := rl.maxPerWindow - rl.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Count returns the number of slots consumed in the current window.
func (rl *RateLimiter) Count() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.count
}
