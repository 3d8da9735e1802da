// Package metrics provides Prometheus metrics for calls to the loan API.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics counts and times requests to the loan API.
type UpstreamMetrics struct {
	RequestsTotal   *prometheus.CounterVec   // by operation and outcome
	RequestDuration *prometheus.HistogramVec // by operation
}

// NewUpstreamMetrics creates the metrics and registers them on registry.
func NewUpstreamMetrics(registry *prometheus.Registry) (*UpstreamMetrics, error) {
	m := &UpstreamMetrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prestamos_upstream_requests_total",
				Help: "Total number of loan API requests by operation and outcome",
			},
			[]string{"operation", "outcome"}, // outcome: success, api_error, transport_error
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prestamos_upstream_request_duration_seconds",
				Help:    "Time taken by loan API requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"operation"},
		),
	}

	for _, c := range []prometheus.Collector{m.RequestsTotal, m.RequestDuration} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register upstream metrics: %w", err)
		}
	}
	return m, nil
}

// ObserveRequest records one finished request.
func (m *UpstreamMetrics) ObserveRequest(op, outcome string, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(op, outcome).Inc()
	m.RequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}
