// Package metrics exposes Prometheus counters for the counting workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's collectors on a private registry so tests can
// create isolated instances.
type Metrics struct {
	ScansTotal    *prometheus.CounterVec
	ExportsTotal  *prometheus.CounterVec
	RequestsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		ScansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventura_scans_committed_total",
				Help: "Count records committed, by location.",
			},
			[]string{"location"},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventura_exports_total",
				Help: "Completed exports, by file format.",
			},
			[]string{"format"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventura_http_requests_total",
				Help: "HTTP requests, by method and status code.",
			},
			[]string{"method", "status"},
		),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.ScansTotal, m.ExportsTotal, m.RequestsTotal)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
