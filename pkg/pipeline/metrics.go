package pipeline

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
)

// Metrics instruments a scoring run on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	records  *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates and registers the run collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trustscore_records_total",
			Help: "Records emitted, by status.",
		}, []string{"status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trustscore_metric_latency_seconds",
			Help:    "Wall clock time of each metric extractor.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"metric"}),
	}
	m.registry.MustRegister(m.records, m.latency)
	return m
}

// Registry exposes the collectors, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeRecord(degraded bool) {
	if m == nil {
		return
	}
	status := statusOK
	if degraded {
		status = statusDegraded
	}
	m.records.WithLabelValues(status).Inc()
}

func (m *Metrics) observeLatency(name string, ms int) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(name).Observe(float64(ms) / 1000)
}

// WriteFile writes the collected metrics in text exposition format.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
