// Package backoff provides delay strategies shared by the retry loop and the
// connection monitor.
package backoff

import (
	"math/rand"
	"time"
)

// Strategy computes the delay to wait before the next attempt. Attempts are
// counted from one.
type Strategy interface {
	Delay(attempt int) time.Duration
}

// Fixed waits the same interval before every attempt.
type Fixed struct {
	Interval time.Duration
}

// Delay implements Strategy.
func (f Fixed) Delay(int) time.Duration {
	return f.Interval
}

// ExponentialJitter doubles the base interval per attempt, caps the result at
// Max, and adds up to Jitter fraction of random spread so independent clients
// do not reconnect in lockstep.
type ExponentialJitter struct {
	Base   time.Duration
	Max    time.Duration
	Jitter float64
}

// Delay implements Strategy.
func (e ExponentialJitter) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := e.Base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if e.Max > 0 && delay >= e.Max {
			delay = e.Max
			break
		}
	}
	if e.Max > 0 && delay > e.Max {
		delay = e.Max
	}

	jitter := e.Jitter
	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}
	if jitter > 0 {
		delay += time.Duration(float64(delay) * jitter * rand.Float64())
	}

	return delay
}
