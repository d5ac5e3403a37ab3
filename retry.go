package rowangate

import (
	"time"
)

// callWithRetry wraps one logical chat call with a bounded number of
// attempts and a delay between them. The circuit breaker is consulted before
// every attempt; a breaker rejection ends the whole cycle without retry.
// Timeout, transport and protocol failures feed the breaker's failure count.
func (c *Client) callWithRetry(entry *queueEntry) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if !c.circuitBreaker.Allow() {
			if c.debug != nil && c.debug.Enabled && c.debug.LogCircuit && c.logger != nil {
				c.logger.Warn("circuit breaker open, rejecting call",
					"requestID", entry.requestID, "state", c.circuitBreaker.State().String())
			}
			return "", c.newError(ErrorTypeCircuitOpen, "circuit breaker is open", ErrCircuitOpen, entry, attempt, 0)
		}

		if attempt > 1 {
			if c.debug != nil && c.debug.Enabled && c.debug.LogRetries && c.logger != nil {
				c.logger.Info("retry attempt", "requestID", entry.requestID,
					"attempt", attempt, "maxAttempts", c.maxAttempts)
			}
			if c.metrics != nil {
				c.metrics.RecordRetry(attempt)
			}
		}

		response, err := c.doAttempt(entry, attempt)
		if err == nil {
			c.circuitBreaker.RecordSuccess()
			if c.metrics != nil {
				c.metrics.RecordCircuitState(c.circuitBreaker.State())
			}
			return response, nil
		}

		c.circuitBreaker.RecordFailure()
		if c.metrics != nil {
			c.metrics.RecordCircuitState(c.circuitBreaker.State())
		}
		if c.debug != nil && c.debug.Enabled && c.debug.LogRetries && c.logger != nil {
			c.logger.Warn("attempt failed", "requestID", entry.requestID,
				"attempt", attempt, "error", err.Error())
		}

		lastErr = err
		if attempt < c.maxAttempts {
			time.Sleep(c.retryBackoff.Delay(attempt))
		}
	}

	return "", lastErr
}
