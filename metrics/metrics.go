// Package metrics records pipeline stage timings, item counts and run
// outcomes in a private Prometheus registry.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "semschema"

// Item kinds reported by SetItems.
const (
	ItemsRaw               = "raw"
	ItemsActive            = "active"
	ItemsSchemas           = "schemas"
	ItemsProperties        = "properties"
	ItemsDroppedProperties = "dropped_properties"
	ItemsUncoveredRoots    = "uncovered_roots"
	ItemsPlaceholders      = "placeholders"
)

// Run outcomes reported by RecordRun.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	items         *prometheus.GaugeVec
	runs          *prometheus.CounterVec
	lastSuccess   prometheus.Gauge
}

// New creates the collectors and registers them, together with the Go
// runtime collector, in a new registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"stage"}),
		items: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items",
			Help:      "Item counts of the last run by kind",
		}, []string{"kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome",
		}, []string{"status"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}),
	}
	m.registry.MustRegister(
		m.stageDuration,
		m.items,
		m.runs,
		m.lastSuccess,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStage records the duration of one stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// StartStage returns a func that records the time elapsed since the call.
func (m *Metrics) StartStage(stage string) func() {
	start := time.Now()
	return func() { m.ObserveStage(stage, time.Since(start)) }
}

// SetItems sets the count of one item kind.
func (m *Metrics) SetItems(kind string, n int) {
	m.items.WithLabelValues(kind).Set(float64(n))
}

// RecordRun counts a finished run.
func (m *Metrics) RecordRun(status string, at time.Time) {
	m.runs.WithLabelValues(status).Inc()
	if status == StatusSuccess {
		m.lastSuccess.Set(float64(at.Unix()))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// WriteTextfile writes the registry for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
