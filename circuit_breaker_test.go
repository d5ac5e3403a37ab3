package rowangate

import (
	"testing"
	"time"
)

func TestNewCircuitBreakerDefaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})

	if cb.config.FailureThreshold != 5 {
		t.Errorf("Expected default FailureThreshold=5, got %d", cb.config.FailureThreshold)
	}

	if cb.config.CoolDown != 5*time.Second {
		t.Errorf("Expected default CoolDown=5s, got %v", cb.config.CoolDown)
	}

	if cb.State() != StateClosed {
		t.Errorf("Expected initial state=closed, got %v", cb.State())
	}
}

func TestCircuitBreakerAllowClosed(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})

	if !cb.Allow() {
		t.Error("Expected Allow()=true when circuit breaker is closed")
	}
}

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		CoolDown:         time.Minute,
	})

	cb.RecordFailure()
	cb.RecordFailure()

	if cb.State() != StateClosed {
		t.Errorf("Expected state=closed below threshold, got %v", cb.State())
	}

	cb.RecordFailure()

	if cb.State() != StateOpen {
		t.Errorf("Expected state=open at threshold, got %v", cb.State())
	}

	if cb.Allow() {
		t.Error("Expected Allow()=false while open")
	}
}

func TestCircuitBreakerHalfOpenAfterCoolDown(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		CoolDown:         20 * time.Millisecond,
	})

	cb.RecordFailure()

	if cb.Allow() {
		t.Error("Expected Allow()=false immediately after opening")
	}

	time.Sleep(30 * time.Millisecond)

	if !cb.Allow() {
		t.Error("Expected Allow()=true after cool-down")
	}

	if cb.State() != StateHalfOpen {
		t.Errorf("Expected state=half-open after cool-down, got %v", cb.State())
	}
}

func TestCircuitBreakerHalfOpenSuccessCloses(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		CoolDown:         10 * time.Millisecond,
	})

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)

	if !cb.Allow() {
		t.Fatal("Expected trial call to be allowed")
	}

	cb.RecordSuccess()

	if cb.State() != StateClosed {
		t.Errorf("Expected state=closed after half-open success, got %v", cb.State())
	}

	if cb.ConsecutiveFailures() != 0 {
		t.Errorf("Expected failures reset to 0, got %d", cb.ConsecutiveFailures())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		CoolDown:         30 * time.Millisecond,
	})

	cb.RecordFailure()
	time.Sleep(40 * time.Millisecond)

	if !cb.Allow() {
		t.Fatal("Expected trial call to be allowed")
	}

	cb.RecordFailure()

	if cb.State() != StateOpen {
		t.Errorf("Expected state=open after half-open failure, got %v", cb.State())
	}

	// The cool-down timer must be fresh, so the very next call is rejected.
	if cb.Allow() {
		t.Error("Expected Allow()=false right after re-opening")
	}
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		CoolDown:         time.Minute,
	})

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()

	if cb.ConsecutiveFailures() != 0 {
		t.Errorf("Expected failures reset to 0 after success, got %d", cb.ConsecutiveFailures())
	}

	// The old failures no longer count toward the threshold.
	cb.RecordFailure()
	cb.RecordFailure()

	if cb.State() != StateClosed {
		t.Errorf("Expected state=closed, got %v", cb.State())
	}
}

func TestCircuitStateString(t *testing.T) {
	if StateClosed.String() != "closed" {
		t.Errorf("Expected 'closed', got %q", StateClosed.String())
	}
	if StateOpen.String() != "open" {
		t.Errorf("Expected 'open', got %q", StateOpen.String())
	}
	if StateHalfOpen.String() != "half-open" {
		t.Errorf("Expected 'half-open', got %q", StateHalfOpen.String())
	}
}
