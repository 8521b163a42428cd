// Package metrics holds the Prometheus collectors of the dashboard.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// fs operation labels
const (
	OpResolve = "resolve"
	OpRead    = "read"
	OpList    = "list"
	OpStat    = "stat"
	OpCount   = "count"
	OpClear   = "clear"
)

type Metrics struct {
	registry *prometheus.Registry

	// Ingestion metrics
	LinesParsed  *prometheus.CounterVec
	LinesSkipped prometheus.Counter
	FilesRead    prometheus.Counter

	// Error metrics
	FSErrors *prometheus.CounterVec

	// Maintenance metrics
	FilesCleared prometheus.Counter

	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance on its own registry, so several instances
// (one per test) never collide on registration
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		LinesParsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snort_dashboard_lines_parsed_total",
				Help: "Total number of log lines parsed into alerts",
			},
			[]string{"format"},
		),

		LinesSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "snort_dashboard_lines_skipped_total",
				Help: "Total number of non-blank log lines no parser recognized",
			},
		),

		FilesRead: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "snort_dashboard_files_read_total",
				Help: "Total number of log files read",
			},
		),

		FSErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snort_dashboard_fs_errors_total",
				Help: "Total number of filesystem errors by operation",
			},
			[]string{"op"},
		),

		FilesCleared: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "snort_dashboard_files_cleared_total",
				Help: "Total number of log files truncated",
			},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "snort_dashboard_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method", "code"},
		),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// The helpers below accept a nil receiver so components can run without metrics.

func (m *Metrics) RecordParsed(format string) {
	if m == nil {
		return
	}
	m.LinesParsed.WithLabelValues(format).Inc()
}

func (m *Metrics) RecordSkipped() {
	if m == nil {
		return
	}
	m.LinesSkipped.Inc()
}

func (m *Metrics) RecordFileRead() {
	if m == nil {
		return
	}
	m.FilesRead.Inc()
}

func (m *Metrics) RecordFSError(op string) {
	if m == nil {
		return
	}
	m.FSErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) RecordCleared(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.FilesCleared.Add(float64(n))
}

func (m *Metrics) ObserveRequest(route, method, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, code).Observe(elapsed.Seconds())
}
