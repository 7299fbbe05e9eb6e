package monday

import (
	"sync/atomic"
	"time"
)

// Metrics tracks client statistics using atomic operations for thread-safety
type Metrics struct {
	Requests   atomic.Int64
	Retries    atomic.Int64
	Failures   atomic.Int64
	Complexity atomic.Int64
	StartTime  time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// IncRequests increments the requests counter
func (m *Metrics) IncRequests() {
	m.Requests.Add(1)
}

// IncRetries increments the retries counter
func (m *Metrics) IncRetries() {
	m.Retries.Add(1)
}

// IncFailures increments the failures counter
func (m *Metrics) IncFailures() {
	m.Failures.Add(1)
}

// AddComplexity records the complexity points a query consumed
func (m *Metrics) AddComplexity(points int64) {
	m.Complexity.Add(points)
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	Requests   int64         `json:"requests"`
	Retries    int64         `json:"retries"`
	Failures   int64         `json:"failures"`
	Complexity int64         `json:"complexity"`
	Uptime     time.Duration `json:"uptime"`
}

// Snapshot returns a point-in-time copy of all metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Requests:   m.Requests.Load(),
		Retries:    m.Retries.Load(),
		Failures:   m.Failures.Load(),
		Complexity: m.Complexity.Load(),
		Uptime:     time.Since(m.StartTime),
	}
}
