// Package metrics records secrets API traffic and placeholder outcomes for a
// single bwsconnect invocation. The registry can be dumped to a Prometheus
// textfile so cron or CI runs can be scraped by node_exporter.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Placeholder outcomes.
const (
	OutcomeResolved       = "resolved"
	OutcomeSecretNotFound = "secret_not_found"
	OutcomeFieldNotFound  = "field_not_found"
)

// Metrics owns a private registry. All methods are safe on a nil receiver so
// callers never need to check whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests  *prometheus.CounterVec
	apiDuration  *prometheus.HistogramVec
	placeholders *prometheus.CounterVec
	renders      prometheus.Counter
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		apiRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bwsconnect_api_requests_total",
				Help: "Total number of requests sent to the secrets API",
			},
			[]string{"endpoint", "method", "code"},
		),
		apiDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bwsconnect_api_request_duration_seconds",
				Help:    "Duration of secrets API requests in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		placeholders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bwsconnect_placeholders_total",
				Help: "Placeholders processed by template rendering, by outcome",
			},
			[]string{"outcome"},
		),
		renders: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "bwsconnect_renders_total",
				Help: "Number of templates rendered",
			},
		),
	}
}

// ObserveRequest records one API round trip. code is 0 when no response was
// received.
func (m *Metrics) ObserveRequest(endpoint, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	m.apiRequests.WithLabelValues(endpoint, method, label).Inc()
	m.apiDuration.WithLabelValues(endpoint, method).Observe(d.Seconds())
}

// ObservePlaceholder records the outcome of one placeholder occurrence.
func (m *Metrics) ObservePlaceholder(outcome string) {
	if m == nil {
		return
	}
	m.placeholders.WithLabelValues(outcome).Inc()
}

// ObserveRender counts a render that finished without error.
func (m *Metrics) ObserveRender() {
	if m == nil {
		return
	}
	m.renders.Inc()
}

// Gatherer exposes the registry, mostly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return prometheus.NewRegistry()
	}
	return m.registry
}

// WriteTextfile writes all metrics in the text exposition format to path,
// atomically replacing any previous file.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
