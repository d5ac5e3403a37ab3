package rowangate

import (
	"fmt"
	"net/http"
	"time"

	"github.com/RowanoakeAI/rowangate/internal/backoff"
)

// WithMaxAttempts sets the maximum number of attempts per logical call.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		c.maxAttempts = n
	}
}

// WithRetryDelay sets the fixed delay between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryBackoff = backoff.Fixed{Interval: d}
	}
}

// WithRetryBackoff sets a custom delay strategy between attempts.
func WithRetryBackoff(strategy backoff.Strategy) Option {
	return func(c *Client) {
		c.retryBackoff = strategy
	}
}

// WithAttemptTimeout bounds each network attempt.
func WithAttemptTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.attemptTimeout = d
		if c.httpClient != nil {
			c.httpClient.Timeout = d
		}
	}
}

// WithMaxMessageLength sets the maximum outbound message length in runes.
func WithMaxMessageLength(n int) Option {
	return func(c *Client) {
		c.maxMessageLength = n
	}
}

// WithRateLimiter replaces the default fixed-window rate limiter.
func WithRateLimiter(maxPerWindow int, window time.Duration) Option {
	return func(c *Client) {
		c.rateLimiter = NewRateLimiter(maxPerWindow, window)
	}
}

// WithoutRateLimiter disables local rate limiting.
func WithoutRateLimiter() Option {
	return func(c *Client) {
		c.rateLimiter = nil
	}
}

// WithCircuitBreaker replaces the default circuit breaker configuration.
func WithCircuitBreaker(config CircuitBreakerConfig) Option {
	return func(c *Client) {
		c.circuitBreaker = NewCircuitBreaker(config)
	}
}

// WithCacheTTL sets the lifetime of cached responses. Zero keeps entries for
// the life of the process.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithCustomCache sets a custom cache implementation.
func WithCustomCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithCacheKeyFunc sets a custom cache key function.
func WithCacheKeyFunc(fn CacheKeyFunc) Option {
	return func(c *Client) {
		c.cacheKeyFunc = fn
	}
}

// WithoutCache disables response caching; every call reaches the service.
func WithoutCache() Option {
	return func(c *Client) {
		c.cache = nil
	}
}

// WithHTTPClient sets a custom HTTP client for the chat path.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithConnectionMonitor enables the periodic liveness monitor.
func WithConnectionMonitor(config MonitorConfig) Option {
	return func(c *Client) {
		c.monitorConfig = &config
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithDebug enables debug logging with the default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets a custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// WithDefaults sets the context type and source applied to bare Send calls.
func WithDefaults(contextType, source string) Option {
	return func(c *Client) {
		c.defaultContextType = contextType
		c.defaultSource = source
	}
}

// ValidateConfiguration validates the client configuration and returns an
// error describing every problem found.
func (c *Client) ValidateConfiguration() error {
	var problems []string

	problems = append(problems, c.validateEndpointConfig()...)
	problems = append(problems, c.validateRetryConfig()...)
	problems = append(problems, c.validateRateLimiterConfig()...)
	problems = append(problems, c.validateCacheConfig()...)
	problems = append(problems, c.validateCircuitBreakerConfig()...)
	problems = append(problems, c.validateDebugConfig()...)

	if len(problems) > 0 {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", problems),
		}
	}

	return nil
}

func (c *Client) validateEndpointConfig() []string {
	var problems []string

	if c.baseURL == "" {
		problems = append(problems, "baseURL must be set")
	}
	if c.apiKey == "" {
		problems = append(problems, "apiKey must be set")
	}
	if c.httpClient == nil {
		problems = append(problems, "httpClient must not be nil")
	}
	if c.maxMessageLength <= 0 {
		problems = append(problems, "maxMessageLength must be positive")
	}

	return problems
}

func (c *Client) validateRetryConfig() []string {
	var problems []string

	if c.maxAttempts < 1 {
		problems = append(problems, "maxAttempts must be at least 1")
	}
	if c.attemptTimeout <= 0 {
		problems = append(problems, "attemptTimeout must be positive")
	}
	if c.retryBackoff == nil {
		problems = append(problems, "retry backoff strategy must not be nil")
	}

	return problems
}

func (c *Client) validateRateLimiterConfig() []string {
	var problems []string

	if c.rateLimiter != nil {
		if c.rateLimiter.maxPerWindow <= 0 {
			problems = append(problems, "rateLimiter maxPerWindow must be positive")
		}
		if c.rateLimiter.window <= 0 {
			problems = append(problems, "rateLimiter window must be positive")
		}
	}

	return problems
}

func (c *Client) validateCacheConfig() []string {
	var problems []string

	if c.cache != nil {
		if c.cacheTTL < 0 {
			problems = append(problems, "cacheTTL must not be negative")
		}
		if c.cacheKeyFunc == nil {
			problems = append(problems, "cacheKeyFunc must be set when cache is enabled")
		}
	}

	return problems
}

func (c *Client) validateCircuitBreakerConfig() []string {
	var problems []string

	if c.circuitBreaker == nil {
		problems = append(problems, "circuitBreaker must not be nil")
		return problems
	}
	if c.circuitBreaker.config.FailureThreshold <= 0 {
		problems = append(problems, "circuitBreaker FailureThreshold must be positive")
	}
	if c.circuitBreaker.config.CoolDown <= 0 {
		problems = append(problems, "circuitBreaker CoolDown must be positive")
	}

	return problems
}

func (c *Client) validateDebugConfig() []string {
	var problems []string

	if c.debug != nil && c.debug.Enabled && c.logger == nil {
		problems = append(problems, "logger must be set when debug is enabled")
	}

	return problems
}
