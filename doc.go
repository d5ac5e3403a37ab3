// Package rowangate provides a resilient client gateway for the Rowan
// assistant's HTTP chat API:
//
//   - Outbound message validation before anything else runs
//   - In-memory response caching keyed on the request's semantic fields
//   - Local fixed-window rate limiting, independent of network state
//   - Bounded retries with a fixed inter-attempt delay and per-attempt timeout
//   - Circuit breaker (closed / open / half-open states)
//   - A FIFO dispatcher serializing chat calls, one in flight at a time
//   - An independent connection monitor probing the endpoint's liveness
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area: functional options configure everything
//   - No shared state between client instances
//   - Callers get typed errors, never panics
//   - Strict ordering: responses resolve in submission order
//
// Typical usage:
//
//	client := rowangate.New("http://localhost:7692", apiKey,
//	    rowangate.WithMaxAttempts(3),
//	    rowangate.WithCacheTTL(5*time.Minute),
//	    rowangate.WithConnectionMonitor(rowangate.MonitorConfig{}),
//	)
//	defer client.Close()
//
//	reply, err := client.Send(ctx, "good morning")
//
// The credential is sent as the X-API-Key header on every call; the gateway
// never issues or refreshes credentials itself. Validation failures are
// returned synchronously and never consume a queue slot; everything else
// flows through the dispatcher queue in strict arrival order, where a
// rate-limit rejection resolves the request without touching the network.
// Provide a Logger (for example via WithSimpleLogger) and enable debug flags
// selectively for insight without noise.
package rowangate
