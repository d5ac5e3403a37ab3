package backoff

import (
	"testing"
	"time"
)

func TestFixedDelay(t *testing.T) {
	f := Fixed{Interval: 250 * time.Millisecond}

	for attempt := 1; attempt <= 5; attempt++ {
		if got := f.Delay(attempt); got != 250*time.Millisecond {
			t.Errorf("Delay(%d) = %v, want 250ms", attempt, got)
		}
	}
}

func TestExponentialJitterDoubles(t *testing.T) {
	e := ExponentialJitter{Base: 100 * time.Millisecond, Max: time.Minute}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := e.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponentialJitterCapsAtMax(t *testing.T) {
	e := ExponentialJitter{Base: 100 * time.Millisecond, Max: 500 * time.Millisecond}

	if got := e.Delay(10); got != 500*time.Millisecond {
		t.Errorf("Delay(10) = %v, want cap 500ms", got)
	}
}

func TestExponentialJitterZeroAttemptClamped(t *testing.T) {
	e := ExponentialJitter{Base: 100 * time.Millisecond}

	if got := e.Delay(0); got != 100*time.Millisecond {
		t.Errorf("Delay(0) = %v, want base value", got)
	}
}

func TestExponentialJitterSpread(t *testing.T) {
	e := ExponentialJitter{Base: 100 * time.Millisecond, Max: time.Second, Jitter: 0.5}

	for i := 0; i < 50; i++ {
		got := e.Delay(2)
		if got < 200*time.Millisecond || got > 300*time.Millisecond {
			t.Fatalf("Delay(2) = %v, want within [200ms, 300ms]", got)
		}
	}
}

func TestExponentialJitterClampsJitterFraction(t *testing.T) {
	e := ExponentialJitter{Base: 100 * time.Millisecond, Jitter: 5}

	for i := 0; i < 50; i++ {
		got := e.Delay(1)
		if got < 100*time.Millisecond || got > 200*time.Millisecond {
			t.Fatalf("Delay(1) = %v, want within [100ms, 200ms]", got)
		}
	}
}
