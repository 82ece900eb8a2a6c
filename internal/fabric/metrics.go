package fabric

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds lightweight counters for HTTP activity.
type Metrics struct {
	TotalRequests atomic.Int64
	TotalFailures atomic.Int64 // transport errors, no response
	BytesRead     atomic.Int64
	LatencyNanos  atomic.Int64

	mu        sync.Mutex
	status2xx int64
	status3xx int64
	status4xx int64
	status5xx int64
	last      time.Duration
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics { return &Metrics{} }

// IncRequest increments the request counter.
func (m *Metrics) IncRequest() { m.TotalRequests.Add(1) }

// IncFailure counts an exchange that produced no HTTP response.
func (m *Metrics) IncFailure() { m.TotalFailures.Add(1) }

// AddBytes accumulates response body bytes consumed by the client.
func (m *Metrics) AddBytes(n int64) { m.BytesRead.Add(n) }

// Observe records the round-trip latency of one exchange.
func (m *Metrics) Observe(d time.Duration) {
	m.LatencyNanos.Add(d.Nanoseconds())
	m.mu.Lock()
	m.last = d
	m.mu.Unlock()
}

// IncStatus tracks status buckets.
func (m *Metrics) IncStatus(code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case code >= 200 && code < 300:
		m.status2xx++
	case code >= 300 && code < 400:
		m.status3xx++
	case code >= 400 && code < 500:
		m.status4xx++
	case code >= 500:
		m.status5xx++
	}
}

// MetricsSnapshot is a read-only copy of metrics state.
type MetricsSnapshot struct {
	TotalRequests int64
	TotalFailures int64
	BytesRead     int64
	Status2xx     int64
	Status3xx     int64
	Status4xx     int64
	Status5xx     int64
	LastLatency   time.Duration
	AvgLatency    time.Duration
}

// Errors returns failed exchanges plus 4xx/5xx responses.
func (s MetricsSnapshot) Errors() int64 { return s.TotalFailures + s.Status4xx + s.Status5xx }

// Snapshot returns a copy of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := m.TotalRequests.Load()
	var avg time.Duration
	if total > 0 {
		avg = time.Duration(m.LatencyNanos.Load() / total)
	}
	return MetricsSnapshot{
		TotalRequests: total,
		TotalFailures: m.TotalFailures.Load(),
		BytesRead:     m.BytesRead.Load(),
		Status2xx:     m.status2xx,
		Status3xx:     m.status3xx,
		Status4xx:     m.status4xx,
		Status5xx:     m.status5xx,
		LastLatency:   m.last,
		AvgLatency:    avg,
	}
}
