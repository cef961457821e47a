// Package metrics exposes the service's Prometheus counters on a dedicated registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portfolio"

// Metrics is safe to use through a nil pointer; every observation is then a no-op.
type Metrics struct {
	registry        *prometheus.Registry
	storeSelections *prometheus.CounterVec
	mediaOperations *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		storeSelections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_selections_total",
				Help:      "Requests served per record store (primary or fallback).",
			},
			[]string{"store"},
		),
		mediaOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "media_operations_total",
				Help:      "Media host calls by operation (upload, delete) and result (ok, error).",
			},
			[]string{"operation", "result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.storeSelections,
		m.mediaOperations,
	)
	return m
}

func (m *Metrics) ObserveStore(store string) {
	if m == nil {
		return
	}
	m.storeSelections.WithLabelValues(store).Inc()
}

func (m *Metrics) ObserveMedia(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mediaOperations.WithLabelValues(operation, result).Inc()
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
