package rowangate

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the gateway's request
// lifecycle and reliability layers. It is safe for concurrent use.
type MetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	queueDepth prometheus.Gauge

	retriesTotal *prometheus.CounterVec

	circuitBreakerState prometheus.Gauge

	rateLimitRemaining prometheus.Gauge

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheSize   prometheus.Gauge

	connectionUp       prometheus.Gauge
	probeFailuresTotal prometheus.Counter

	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied
// registerer. Tests use this with a private registry.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "rowangate_requests_total",
				Help: "Total number of chat requests resolved, by outcome",
			},
			[]string{"outcome"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rowangate_request_duration_seconds",
				Help:    "Duration of chat requests from dequeue to resolution",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		queueDepth: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "rowangate_queue_depth",
				Help: "Number of requests waiting in the dispatcher queue",
			},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "rowangate_retries_total",
				Help: "Total number of retry attempts",
			},
			[]string{"attempt"},
		),
		circuitBreakerState: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "rowangate_circuit_breaker_state",
				Help: "Current circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
		),
		rateLimitRemaining: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "rowangate_rate_limit_remaining",
				Help: "Remaining slots in the current rate-limit window",
			},
		),
		cacheHits: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "rowangate_cache_hits_total",
				Help: "Total number of cache hits",
			},
		),
		cacheMisses: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "rowangate_cache_misses_total",
				Help: "Total number of cache misses",
			},
		),
		cacheSize: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "rowangate_cache_size",
				Help: "Number of entries in the response cache",
			},
		),
		connectionUp: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "rowangate_connection_up",
				Help: "Whether the last completed probe cycle found the endpoint alive",
			},
		),
		probeFailuresTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "rowangate_probe_failures_total",
				Help: "Total number of failed liveness probes",
			},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "rowangate_errors_total",
				Help: "Total number of errors by type",
			},
			[]string{"type"},
		),
	}
}

// RecordRequest records one resolved request with its outcome label
// ("success", "cached", or an error type).
func (mc *MetricsCollector) RecordRequest(outcome string, duration time.Duration) {
	mc.requestsTotal.WithLabelValues(outcome).Inc()
	mc.requestDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordQueueDepth updates the dispatcher queue depth gauge.
func (mc *MetricsCollector) RecordQueueDepth(depth int) {
	mc.queueDepth.Set(float64(depth))
}

// RecordRetry records a retry attempt.
func (mc *MetricsCollector) RecordRetry(attempt int) {
	mc.retriesTotal.WithLabelValues(strconv.Itoa(attempt)).Inc()
}

// RecordCircuitState updates the breaker state gauge.
func (mc *MetricsCollector) RecordCircuitState(state CircuitState) {
	mc.circuitBreakerState.Set(float64(state))
}

// RecordRateLimitRemaining updates the remaining rate budget gauge.
func (mc *MetricsCollector) RecordRateLimitRemaining(remaining int) {
	mc.rateLimitRemaining.Set(float64(remaining))
}

// RecordCacheHit records a cache hit.
func (mc *MetricsCollector) RecordCacheHit() {
	mc.cacheHits.Inc()
}

// RecordCacheMiss records a cache miss.
func (mc *MetricsCollector) RecordCacheMiss() {
	mc.cacheMisses.Inc()
}

// RecordCacheSize updates the cache size gauge.
func (mc *MetricsCollector) RecordCacheSize(size int) {
	mc.cacheSize.Set(float64(size))
}

// RecordConnectionUp updates the connection gauge.
func (mc *MetricsCollector) RecordConnectionUp(up bool) {
	if up {
		mc.connectionUp.Set(1)
	} else {
		mc.connectionUp.Set(0)
	}
}

// RecordProbeFailure records one failed liveness probe.
func (mc *MetricsCollector) RecordProbeFailure() {
	mc.probeFailuresTotal.Inc()
}

// RecordError records an error by type.
func (mc *MetricsCollector) RecordError(errorType string) {
	mc.errorsTotal.WithLabelValues(errorType).Inc()
}
