package rowangate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/RowanoakeAI/rowangate/internal/backoff"
)

// Default monitor settings.
const (
	DefaultProbeInterval = 5 * time.Second
	DefaultProbeAttempts = 3
)

// MonitorConfig holds connection monitor configuration. Zero fields take the
// defaults above; RetryDelay defaults to the shared chat retry delay.
type MonitorConfig struct {
	// Interval between probe cycles while the endpoint is healthy.
	Interval time.Duration
	// ProbeTimeout bounds a single probe round trip.
	ProbeTimeout time.Duration
	// ProbeAttempts is the number of back-to-back probes per cycle before
	// the cycle counts as failed.
	ProbeAttempts int
	// RetryDelay is the wait between probes within one cycle.
	RetryDelay time.Duration
	// MaxReconnectDelay caps the growing gap between failed cycles.
	MaxReconnectDelay time.Duration
	// OnStatusChange, if set, is invoked from the monitor goroutine whenever
	// the published state flips.
	OnStatusChange func(ConnectionStatus)
}

// ConnectionMonitor periodically probes the remote endpoint's liveness,
// independent of the chat dispatcher and its circuit breaker. Probe failures
// never affect the chat path; the monitor only publishes a status value.
type ConnectionMonitor struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	config     MonitorConfig
	reconnect  backoff.Strategy

	logger  Logger
	debug   *DebugConfig
	metrics *MetricsCollector

	mu     sync.Mutex
	status ConnectionStatus

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// newConnectionMonitor builds a monitor sharing the client's endpoint,
// credential and observability hooks but nothing else: it keeps its own HTTP
// client so probes and chat calls never block each other.
func newConnectionMonitor(c *Client, config MonitorConfig) *ConnectionMonitor {
	if config.Interval <= 0 {
		config.Interval = DefaultProbeInterval
	}
	if config.ProbeTimeout <= 0 {
		config.ProbeTimeout = DefaultAttemptTimeout
	}
	if config.ProbeAttempts <= 0 {
		config.ProbeAttempts = DefaultProbeAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	if config.MaxReconnectDelay <= 0 {
		config.MaxReconnectDelay = 4 * config.Interval
	}

	return &ConnectionMonitor{
		baseURL:    c.baseURL,
		apiKey:     c.apiKey,
		httpClient: &http.Client{Timeout: config.ProbeTimeout},
		config:     config,
		reconnect: backoff.ExponentialJitter{
			Base:   config.Interval,
			Max:    config.MaxReconnectDelay,
			Jitter: 0.1,
		},
		logger:  c.logger,
		debug:   c.debug,
		metrics: c.metrics,
	}
}

// Start launches the probe loop. Calling Start twice is a no-op.
func (m *ConnectionMonitor) Start() {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.run()
}

// Stop halts the probe loop and waits for it to exit.
func (m *ConnectionMonitor) Stop() {
	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return
	}
	m.started = false
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	cancel()
	<-done
}

// Status returns the latest published status.
func (m *ConnectionMonitor) Status() ConnectionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// run probes immediately, then on the configured interval. After failed
// cycles the gap grows with the reconnect backoff, capped at
// MaxReconnectDelay, and snaps back to the interval on recovery.
func (m *ConnectionMonitor) run() {
	defer close(m.done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-timer.C:
		}

		err := m.probeCycle()
		if m.ctx.Err() != nil {
			return
		}

		delay := m.config.Interval
		if err != nil {
			attempts := m.publishFailure(err)
			delay = m.reconnect.Delay(attempts)
		} else {
			m.publishSuccess()
		}

		timer.Reset(delay)
	}
}

// probeCycle performs up to ProbeAttempts back-to-back probes with the
// configured delay between them, returning the last error if all fail.
func (m *ConnectionMonitor) probeCycle() error {
	b := retry.WithMaxRetries(uint64(m.config.ProbeAttempts-1), retry.NewConstant(m.config.RetryDelay))

	return retry.Do(m.ctx, b, func(ctx context.Context) error {
		if err := m.probe(ctx); err != nil {
			if m.metrics != nil {
				m.metrics.RecordProbeFailure()
			}
			return retry.RetryableError(err)
		}
		return nil
	})
}

// probe issues one liveness request. Any non-2xx status or transport failure
// counts as down.
func (m *ConnectionMonitor) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+statusPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set(apiKeyHeader, m.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status probe returned %d", resp.StatusCode)
	}
	return nil
}

// publishSuccess records a healthy cycle and resets the reconnect counter.
func (m *ConnectionMonitor) publishSuccess() {
	m.mu.Lock()
	changed := m.status.State != Connected
	m.status = ConnectionStatus{
		State:     Connected,
		LastProbe: time.Now(),
	}
	status := m.status
	callback := m.config.OnStatusChange
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordConnectionUp(true)
	}
	if changed {
		if m.debug != nil && m.debug.Enabled && m.debug.LogMonitor && m.logger != nil {
			m.logger.Info("connection restored")
		}
		if callback != nil {
			callback(status)
		}
	}
}

// publishFailure records a failed cycle and returns the updated reconnect
// attempt count.
func (m *ConnectionMonitor) publishFailure(err error) int {
	m.mu.Lock()
	changed := m.status.State != Disconnected
	m.status.State = Disconnected
	m.status.ReconnectAttempts++
	m.status.LastProbe = time.Now()
	m.status.LastError = err
	status := m.status
	callback := m.config.OnStatusChange
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordConnectionUp(false)
	}
	if m.debug != nil && m.debug.Enabled && m.debug.LogMonitor && m.logger != nil {
		m.logger.Warn("connection probe cycle failed",
			"reconnectAttempts", status.ReconnectAttempts, "error", err.Error())
	}
	if changed && callback != nil {
		callback(status)
	}

	return status.ReconnectAttempts
}
