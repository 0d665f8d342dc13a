package httpapi

import (
	"sync/atomic"
	"time"
)

// Metrics tracks API statistics using atomic operations for thread-safety
type Metrics struct {
	RequestsTotal atomic.Int64
	ServerErrors  atomic.Int64
	TasksCreated  atomic.Int64
	TasksUpdated  atomic.Int64
	TasksDeleted  atomic.Int64
	InFlight      atomic.Int32
	StartTime     time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	RequestsTotal int64     `json:"requests_total"`
	ServerErrors  int64     `json:"server_errors"`
	TasksCreated  int64     `json:"tasks_created"`
	TasksUpdated  int64     `json:"tasks_updated"`
	TasksDeleted  int64     `json:"tasks_deleted"`
	InFlight      int32     `json:"in_flight"`
	StartTime     time.Time `json:"start_time"`
	Uptime        string    `json:"uptime"`
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestsTotal: m.RequestsTotal.Load(),
		ServerErrors:  m.ServerErrors.Load(),
		TasksCreated:  m.TasksCreated.Load(),
		TasksUpdated:  m.TasksUpdated.Load(),
		TasksDeleted:  m.TasksDeleted.Load(),
		InFlight:      m.InFlight.Load(),
		StartTime:     m.StartTime,
		Uptime:        time.Since(m.StartTime).Round(time.Second).String(),
	}
}
