package rowangate

import (
	"sync"
	"time"
)

// Request is one outbound chat message together with the semantic fields the
// Rowan API uses to route it. A Request is immutable once submitted.
type Request struct {
	Message     string `json:"message"`
	ContextType string `json:"context_type"`
	Source      string `json:"source"`
}

// Default values applied to a Request when the caller leaves the routing
// fields empty. They mirror the service's own defaults.
const (
	DefaultContextType = "casual"
	DefaultSource      = "api"
)

// CircuitBreakerConfig holds circuit breaker configuration.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that trips the
	// breaker open.
	FailureThreshold int
	// CoolDown is the minimum time an open breaker waits before allowing a
	// trial call through.
	CoolDown time.Duration
}

// CircuitBreaker tracks consecutive network failures and blocks attempts for
// a cool-down period once the failure threshold is crossed.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu                  sync.Mutex
	state               CircuitState
	consecutiveFailures int
	openedAt            time.Time
}

// CircuitState represents the state of the circuit breaker.
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

// String returns a short lower-case name for the state.
func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CacheEntry represents a cached successful response.
type CacheEntry struct {
	Response  string
	StoredAt  time.Time
	ExpiresAt time.Time // zero means the entry never expires
}

// Cache is the interface for response caching. Implementations must be safe
// for concurrent use.
type Cache interface {
	Get(key string) (*CacheEntry, bool)
	Set(key string, entry *CacheEntry, ttl time.Duration)
	Delete(key string)
	Clear()
	Len() int
}

// CacheKeyFunc builds the normalized cache key for a request. Two requests
// with identical semantic fields must map to the same key.
type CacheKeyFunc func(Request) string

// RateLimiter caps outbound attempts per fixed time window, independent of
// network state.
type RateLimiter struct {
	mu           sync.Mutex
	maxPerWindow int
	window       time.Duration
	windowStart  time.Time
	count        int
}

// ConnState reports whether the remote endpoint looked alive on the last
// completed probe cycle.
type ConnState int

const (
	Disconnected ConnState = iota
	Connected
)

// String returns a short lower-case name for the state.
func (s ConnState) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// ConnectionStatus is the monitor's published view of the remote endpoint.
// It is a value snapshot; callers cannot mutate the monitor through it.
type ConnectionStatus struct {
	State             ConnState
	ReconnectAttempts int
	LastProbe         time.Time
	LastError         error
}

// Stats is a point-in-time snapshot of the client's reliability machinery,
// intended for presentation layers and diagnostics.
type Stats struct {
	QueueDepth    int
	CacheSize     int
	CircuitState  CircuitState
	RateRemaining int
	Connection    *ConnectionStatus // nil when no monitor is configured
}

// Option represents a configuration option for New.
type Option func(*Client)

// queueEntry owns one Request plus its completion handle and preserves FIFO
// position in the dispatcher queue.
type queueEntry struct {
	req        Request
	requestID  string
	enqueuedAt time.Time
	done       chan outcome
}

// outcome is the terminal result of a queued request.
type outcome struct {
	response string
	err      error
}
