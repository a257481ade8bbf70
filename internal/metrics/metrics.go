// Package metrics provides lightweight, lock-free counters for
// tracking resolution, connection, and I/O statistics.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for a godial run.
// A nil Collector is safe to use — all methods become no-ops.
type Collector struct {
	resolves          atomic.Int64
	resolveFailures   atomic.Int64
	connectAttempts   atomic.Int64
	connectFailures   atomic.Int64
	connectionsActive atomic.Int64
	connectionsTotal  atomic.Int64
	bytesIn           atomic.Int64
	bytesOut          atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Resolution metrics ───────────────────────────────────────────────

// ResolveDone records one completed resolution; failed marks failures.
func (c *Collector) ResolveDone(failed bool) {
	if c == nil {
		return
	}
	c.resolves.Add(1)
	if failed {
		c.resolveFailures.Add(1)
	}
}

// Resolves returns the total number of resolutions attempted.
func (c *Collector) Resolves() int64 {
	if c == nil {
		return 0
	}
	return c.resolves.Load()
}

// ResolveFailures returns the number of failed resolutions.
func (c *Collector) ResolveFailures() int64 {
	if c == nil {
		return 0
	}
	return c.resolveFailures.Load()
}

// ── Connection metrics ───────────────────────────────────────────────

// ConnectAttempt records one per-candidate connection attempt.
func (c *Collector) ConnectAttempt() {
	if c == nil {
		return
	}
	c.connectAttempts.Add(1)
}

// ConnectFailure records one failed per-candidate attempt.
func (c *Collector) ConnectFailure() {
	if c == nil {
		return
	}
	c.connectFailures.Add(1)
}

// ConnectionOpened increments both the active and total counters.
func (c *Collector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(1)
	c.connectionsTotal.Add(1)
}

// ConnectionClosed decrements the active connection counter.
func (c *Collector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.connectionsActive.Add(-1)
}

// ActiveConnections returns the current number of open connections.
func (c *Collector) ActiveConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsActive.Load()
}

// TotalConnections returns the lifetime connection count.
func (c *Collector) TotalConnections() int64 {
	if c == nil {
		return 0
	}
	return c.connectionsTotal.Load()
}

// ConnectAttempts returns the lifetime per-candidate attempt count.
func (c *Collector) ConnectAttempts() int64 {
	if c == nil {
		return 0
	}
	return c.connectAttempts.Load()
}

// ConnectFailures returns the lifetime per-candidate failure count.
func (c *Collector) ConnectFailures() int64 {
	if c == nil {
		return 0
	}
	return c.connectFailures.Load()
}

// ── I/O metrics ──────────────────────────────────────────────────────

// BytesReceived records n bytes read from the network.
func (c *Collector) BytesReceived(n int64) {
	if c == nil {
		return
	}
	c.bytesIn.Add(n)
}

// BytesSent records n bytes written to the network.
func (c *Collector) BytesSent(n int64) {
	if c == nil {
		return
	}
	c.bytesOut.Add(n)
}

// TotalBytesIn returns total bytes received.
func (c *Collector) TotalBytesIn() int64 {
	if c == nil {
		return 0
	}
	return c.bytesIn.Load()
}

// TotalBytesOut returns total bytes sent.
func (c *Collector) TotalBytesOut() int64 {
	if c == nil {
		return 0
	}
	return c.bytesOut.Load()
}

// ── Error metrics ────────────────────────────────────────────────────

// RecordError stores the message and time of the most recent error.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime            string `json:"uptime"`
	Resolves          int64  `json:"resolves"`
	ResolveFailures   int64  `json:"resolve_failures"`
	ConnectAttempts   int64  `json:"connect_attempts"`
	ConnectFailures   int64  `json:"connect_failures"`
	ConnectionsActive int64  `json:"connections_active"`
	ConnectionsTotal  int64  `json:"connections_total"`
	BytesIn           int64  `json:"bytes_in"`
	BytesOut          int64  `json:"bytes_out"`
	LastError         string `json:"last_error,omitempty"`
	LastErrorMessage  string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:            time.Since(c.startTime).Truncate(time.Second).String(),
		Resolves:          c.resolves.Load(),
		ResolveFailures:   c.resolveFailures.Load(),
		ConnectAttempts:   c.connectAttempts.Load(),
		ConnectFailures:   c.connectFailures.Load(),
		ConnectionsActive: c.connectionsActive.Load(),
		ConnectionsTotal:  c.connectionsTotal.Load(),
		BytesIn:           c.bytesIn.Load(),
		BytesOut:          c.bytesOut.Load(),
		LastErrorMessage:  c.lastErrorMsg,
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
	}
	return s
}
