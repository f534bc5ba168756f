// Package metrics holds the process-wide runtime counters.
package metrics

import "sync"

// Counters is the process-wide counter set. All mutation goes through the
// increment methods under one mutex; readers take a Snapshot copy. Counters
// reset only on process restart.
type Counters struct {
	mu            sync.Mutex
	requests      int64
	errors        int64
	primaryCalls  int64
	fallbackCalls int64
	totalTokens   int64
}

// Snapshot is a point-in-time copy of the counters, shaped for the /metrics
// response.
type Snapshot struct {
	Requests      int64 `json:"requests"`
	Errors        int64 `json:"errors"`
	PrimaryCalls  int64 `json:"primary_calls"`
	FallbackCalls int64 `json:"fallback_calls"`
	TotalTokens   int64 `json:"total_tokens"`
}

// NewCounters creates a zeroed counter set.
func NewCounters() *Counters {
	return &Counters{}
}

// IncRequests records one handled chat request.
func (c *Counters) IncRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests++
}

// IncErrors records one request that ended in the apology reply.
func (c *Counters) IncErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors++
}

// RecordPrimaryCall records a successful primary generation and its token
// usage.
func (c *Counters) RecordPrimaryCall(tokens int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.primaryCalls++
	c.totalTokens += int64(tokens)
}

// RecordFallbackCall records a successful fallback generation and its token
// usage.
func (c *Counters) RecordFallbackCall(tokens int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallbackCalls++
	c.totalTokens += int64(tokens)
}

// Snapshot returns a copy of the current counter values.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Requests:      c.requests,
		Errors:        c.errors,
		PrimaryCalls:  c.primaryCalls,
		FallbackCalls: c.fallbackCalls,
		TotalTokens:   c.totalTokens,
	}
}
