// Package metrics exposes Prometheus instrumentation for workflow runs.
//
// Metrics are registered on a caller supplied registerer so that several
// engines, or tests, never collide on the global registry. A nil *Metrics is
// valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hireflow"

// Metrics holds engine collectors
type Metrics struct {
	// RunsTotal counts finished runs. Labels: status (completed, failed), success
	RunsTotal *prometheus.CounterVec
	// RunDurationSeconds measures run wall time. Labels: status
	RunDurationSeconds *prometheus.HistogramVec
	// NodesTotal counts nodes by terminal state. Labels: card_type, state
	NodesTotal *prometheus.CounterVec
	// NodeDurationSeconds measures handler time. Labels: card_type
	NodeDurationSeconds *prometheus.HistogramVec
	// NodeErrorsTotal counts error records. Labels: kind, severity
	NodeErrorsTotal *prometheus.CounterVec
	// ActiveRuns tracks runs in progress
	ActiveRuns prometheus.Gauge
	// QueuedRuns tracks runs waiting for a worker
	QueuedRuns prometheus.Gauge
}

// New creates and registers collectors on registerer
func New(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "total",
			Help:      "Finished workflow runs by status and success",
		}, []string{"status", "success"}),
		RunDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "duration_seconds",
			Help:      "Workflow run duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"status"}),
		NodesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "total",
			Help:      "Nodes reaching a terminal state by card type",
		}, []string{"card_type", "state"}),
		NodeDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "duration_seconds",
			Help:      "Node handler duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 30},
		}, []string{"card_type"}),
		NodeErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "node",
			Name:      "errors_total",
			Help:      "Recorded node errors by kind and severity",
		}, []string{"kind", "severity"}),
		ActiveRuns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "active",
			Help:      "Workflow runs in progress",
		}),
		QueuedRuns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "queued",
			Help:      "Workflow runs waiting for a worker",
		}),
	}
}

// RunStarted increments active runs
func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.ActiveRuns.Inc()
}

// RunFinished records a finished run
func (m *Metrics) RunFinished(status string, success bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ActiveRuns.Dec()
	flag := "false"
	if success {
		flag = "true"
	}
	m.RunsTotal.WithLabelValues(status, flag).Inc()
	m.RunDurationSeconds.WithLabelValues(status).Observe(elapsed.Seconds())
}

// Node records a node reaching state; elapsed is zero for skipped nodes.
func (m *Metrics) Node(cardType, state string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.NodesTotal.WithLabelValues(cardType, state).Inc()
	if elapsed > 0 {
		m.NodeDurationSeconds.WithLabelValues(cardType).Observe(elapsed.Seconds())
	}
}

// Error records an error record
func (m *Metrics) Error(kind, severity string) {
	if m == nil {
		return
	}
	m.NodeErrorsTotal.WithLabelValues(kind, severity).Inc()
}

// Queued adjusts the queued runs gauge by delta
func (m *Metrics) Queued(delta int) {
	if m == nil {
		return
	}
	m.QueuedRuns.Add(float64(delta))
}
