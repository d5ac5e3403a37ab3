package rowangate

import (
	"time"
)

// enqueue appends the request to the FIFO queue and wakes the dispatcher
// loop if it is idle.
func (c *Client) enqueue(req Request) (*queueEntry, error) {
	entry := &queueEntry{
		req:        req,
		enqueuedAt: time.Now(),
		done:       make(chan outcome, 1),
	}
	if c.debug != nil && c.debug.RequestIDGen != nil {
		entry.requestID = c.debug.RequestIDGen()
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.queue = append(c.queue, entry)
	depth := len(c.queue)
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.RecordQueueDepth(depth)
	}
	if c.debug != nil && c.debug.Enabled && c.debug.LogQueue && c.logger != nil {
		c.logger.Debug("request enqueued", "requestID", entry.requestID, "queueDepth", depth)
	}

	// Non-blocking: a pending token is enough, the loop re-checks the queue
	// after every entry.
	select {
	case c.wake <- struct{}{}:
	default:
	}

	return entry, nil
}

// run is the single dispatcher loop. It drains the queue strictly in arrival
// order, processing each entry fully, including all of its retries, before
// starting the next. The loop blocks when the queue is empty and wakes on
// the next enqueue.
func (c *Client) run() {
	defer close(c.loopDone)

	for {
		entry := c.next()
		if entry == nil {
			c.failPending()
			return
		}

		response, err := c.process(entry)
		entry.done <- outcome{response: response, err: err}

		if c.metrics != nil {
			c.mu.Lock()
			depth := len(c.queue)
			c.mu.Unlock()
			c.metrics.RecordQueueDepth(depth)
		}
	}
}

// next pops the head entry, blocking while the queue is empty. It returns
// nil once the client is closing.
func (c *Client) next() *queueEntry {
	for {
		select {
		case <-c.stop:
			return nil
		default:
		}

		c.mu.Lock()
		if len(c.queue) > 0 {
			entry := c.queue[0]
			c.queue = c.queue[1:]
			c.mu.Unlock()
			return entry
		}
		c.mu.Unlock()

		select {
		case <-c.wake:
		case <-c.stop:
			return nil
		}
	}
}

// failPending resolves every still-queued entry with ErrClosed, preserving
// order.
func (c *Client) failPending() {
	c.mu.Lock()
	pending := c.queue
	c.queue = nil
	c.mu.Unlock()

	for _, entry := range pending {
		entry.done <- outcome{err: ErrClosed}
	}
}

// process runs one entry through the pipeline: cache lookup, rate limiter,
// retry controller, cache write. Only the dispatcher loop calls it, so the
// cache and rate window are never mutated by two in-flight calls.
func (c *Client) process(entry *queueEntry) (string, error) {
	start := time.Now()

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("processing request", "requestID", entry.requestID,
			"contextType", entry.req.ContextType, "source", entry.req.Source)
	}

	var key string
	if c.cache != nil {
		key = c.cacheKeyFunc(entry.req)
		if cached, found := c.cache.Get(key); found {
			if c.metrics != nil {
				c.metrics.RecordCacheHit()
				c.metrics.RecordRequest("cached", time.Since(start))
			}
			if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
				c.logger.Debug("cache hit", "requestID", entry.requestID, "cacheKey", key)
			}
			return cached.Response, nil
		}
		if c.metrics != nil {
			c.metrics.RecordCacheMiss()
		}
	}

	if c.rateLimiter != nil {
		allowed := c.rateLimiter.Allow()
		if c.metrics != nil {
			c.metrics.RecordRateLimitRemaining(c.rateLimiter.Remaining())
		}
		if !allowed {
			if c.debug != nil && c.debug.Enabled && c.debug.LogRateLimit && c.logger != nil {
				c.logger.Warn("local rate limit exceeded", "requestID", entry.requestID)
			}
			if c.metrics != nil {
				c.metrics.RecordError(ErrorTypeRateLimit)
				c.metrics.RecordRequest(ErrorTypeRateLimit, time.Since(start))
			}
			return "", c.newError(ErrorTypeRateLimit, "local rate limit exceeded", ErrRateLimited, entry, 0, time.Since(start))
		}
	}

	response, err := c.callWithRetry(entry)
	if err != nil {
		errType := ErrorTypeTransport
		if clientErr, ok := err.(*ClientError); ok {
			errType = clientErr.Type
		}
		if c.metrics != nil {
			c.metrics.RecordError(errType)
			c.metrics.RecordRequest(errType, time.Since(start))
		}
		return "", err
	}

	if c.cache != nil {
		c.cache.Set(key, &CacheEntry{Response: response, StoredAt: time.Now()}, c.cacheTTL)
		if c.metrics != nil {
			c.metrics.RecordCacheSize(c.cache.Len())
		}
		if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
			c.logger.Debug("response cached", "requestID", entry.requestID, "cacheKey", key, "ttl", c.cacheTTL)
		}
	}

	if c.metrics != nil {
		c.metrics.RecordRequest("success", time.Since(start))
	}

	return response, nil
}
