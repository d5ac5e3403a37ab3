package rowangate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/RowanoakeAI/rowangate/internal/backoff"
)

// Wire protocol constants for the Rowan API.
const (
	apiKeyHeader = "X-API-Key"
	chatPath     = "/chat"
	statusPath   = "/status"
)

// Default timing for the chat path.
const (
	DefaultMaxAttempts    = 3
	DefaultRetryDelay     = 1 * time.Second
	DefaultAttemptTimeout = 5 * time.Second
)

// Client is a resilient gateway to a single Rowan chat endpoint. It layers
// validation, response caching, local rate limiting, retries and circuit
// breaking around the standard net/http Client, and serializes all chat
// calls through a FIFO dispatcher so at most one is in flight at a time.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	maxMessageLength   int
	maxAttempts        int
	attemptTimeout     time.Duration
	retryBackoff       backoff.Strategy
	defaultContextType string
	defaultSource      string

	circuitBreaker *CircuitBreaker
	rateLimiter    *RateLimiter
	cache          Cache
	cacheTTL       time.Duration
	cacheKeyFunc   CacheKeyFunc

	monitorConfig *MonitorConfig
	monitor       *ConnectionMonitor

	metrics *MetricsCollector
	debug   *DebugConfig
	logger  Logger

	validationError error

	mu     sync.Mutex
	queue  []*queueEntry
	closed bool

	wake     chan struct{}
	stop     chan struct{}
	loopDone chan struct{}
}

// New constructs a Client for the given endpoint and credential, applying
// the provided functional options. The credential is supplied by the caller
// and sent as the X-API-Key header; it is never generated here. A best
// effort configuration validation is performed; call IsValid or
// ValidationError to inspect the result. The dispatcher loop starts
// immediately and runs until Close.
func New(baseURL, apiKey string, options ...Option) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultAttemptTimeout,
		},
		maxMessageLength:   DefaultMaxMessageLength,
		maxAttempts:        DefaultMaxAttempts,
		attemptTimeout:     DefaultAttemptTimeout,
		retryBackoff:       backoff.Fixed{Interval: DefaultRetryDelay},
		defaultContextType: DefaultContextType,
		defaultSource:      DefaultSource,
		circuitBreaker:     NewCircuitBreaker(CircuitBreakerConfig{}),
		rateLimiter:        NewRateLimiter(DefaultMaxPerWindow, DefaultRateWindow),
		cache:              NewInMemoryCache(),
		cacheTTL:           0,
		cacheKeyFunc:       DefaultCacheKeyFunc,
		debug:              DefaultDebugConfig(),
		wake:               make(chan struct{}, 1),
		stop:               make(chan struct{}),
		loopDone:           make(chan struct{}),
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	if client.monitorConfig != nil {
		client.monitor = newConnectionMonitor(client, *client.monitorConfig)
		client.monitor.Start()
	}

	go client.run()

	return client
}

// Send submits a chat message with the default context type and source and
// blocks until the request resolves. Resolution order matches submission
// order across all callers.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	return c.SendRequest(ctx, Request{Message: message})
}

// SendRequest submits a fully specified chat request. Validation failures
// are returned synchronously and never consume a rate-limit slot or touch
// the network. If ctx is cancelled while waiting, SendRequest returns early
// but the enqueued request still runs to completion.
func (c *Client) SendRequest(ctx context.Context, req Request) (string, error) {
	if req.ContextType == "" {
		req.ContextType = c.defaultContextType
	}
	if req.Source == "" {
		req.Source = c.defaultSource
	}

	if err := validateMessage(req.Message, c.maxMessageLength); err != nil {
		if c.metrics != nil {
			c.metrics.RecordError(ErrorTypeValidation)
		}
		return "", err
	}

	entry, err := c.enqueue(req)
	if err != nil {
		return "", err
	}

	select {
	case res := <-entry.done:
		return res.response, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// doAttempt performs one network round trip against the chat endpoint,
// bounded by the per-attempt timeout. A 2xx response missing the "response"
// field is a protocol error; every other failure is a timeout or transport
// error.
func (c *Client) doAttempt(entry *queueEntry, attempt int) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.attemptTimeout)
	defer cancel()

	body, err := json.Marshal(entry.req)
	if err != nil {
		return "", c.newError(ErrorTypeTransport, "encoding request failed", err, entry, attempt, 0)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return "", c.newError(ErrorTypeTransport, "building request failed", err, entry, attempt, 0)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", c.newError(ErrorTypeTimeout, "attempt exceeded its deadline", err, entry, attempt, time.Since(start))
		}
		return "", c.newError(ErrorTypeTransport, "network request failed", err, entry, attempt, time.Since(start))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		cerr := c.newError(ErrorTypeTransport, "server returned non-success status", nil, entry, attempt, time.Since(start))
		cerr.StatusCode = resp.StatusCode
		return "", cerr
	}

	// A pointer distinguishes a missing field from an empty reply.
	var payload struct {
		Response *string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", c.newError(ErrorTypeProtocol, "malformed response body", err, entry, attempt, time.Since(start))
	}
	if payload.Response == nil {
		return "", c.newError(ErrorTypeProtocol, "response field missing", nil, entry, attempt, time.Since(start))
	}

	return *payload.Response, nil
}

// newError builds a ClientError carrying the request's correlation fields.
func (c *Client) newError(errorType, message string, cause error, entry *queueEntry, attempt int, duration time.Duration) *ClientError {
	return &ClientError{
		Type:        errorType,
		Message:     message,
		Cause:       cause,
		RequestID:   entry.requestID,
		Attempt:     attempt,
		MaxAttempts: c.maxAttempts,
		Timestamp:   time.Now(),
		Duration:    duration,
	}
}

// ConnectionStatus returns the monitor's latest published status. ok is
// false when no connection monitor is configured.
func (c *Client) ConnectionStatus() (status ConnectionStatus, ok bool) {
	if c.monitor == nil {
		return ConnectionStatus{}, false
	}
	return c.monitor.Status(), true
}

// Stats returns a snapshot of the client's reliability machinery.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	depth := len(c.queue)
	c.mu.Unlock()

	stats := Stats{
		QueueDepth:   depth,
		CircuitState: c.circuitBreaker.State(),
	}
	if c.cache != nil {
		stats.CacheSize = c.cache.Len()
	}
	if c.rateLimiter != nil {
		stats.RateRemaining = c.rateLimiter.Remaining()
	}
	if c.monitor != nil {
		status := c.monitor.Status()
		stats.Connection = &status
	}
	return stats
}

// Close stops the dispatcher loop and the connection monitor. Requests still
// queued when Close is called resolve with ErrClosed, in order. Close blocks
// until the loop has drained and is safe to call once.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.loopDone

	if c.monitor != nil {
		c.monitor.Stop()
	}
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}
