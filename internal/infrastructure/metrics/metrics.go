// Package metrics exposes Prometheus metrics for documents, navigation,
// storage and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"invoicedesk/internal/domain/documents"
	"invoicedesk/internal/domain/navigation"
)

const namespace = "invoicedesk"

// Metrics holds all application metrics registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsSaved      *prometheus.CounterVec
	NavigationDecisions *prometheus.CounterVec
	StorageChanges      *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
}

var (
	_ documents.Recorder  = (*Metrics)(nil)
	_ navigation.Recorder = (*Metrics)(nil)
)

// New creates a private registry with Go/process collectors and registers all
// application metrics on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		DocumentsSaved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_saved_total",
			Help:      "Total number of documents appended, by document type",
		}, []string{"type"}),
		NavigationDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigation_decisions_total",
			Help:      "Route guard decisions, by outcome",
		}, []string{"outcome"}),
		StorageChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_changes_observed_total",
			Help:      "Changes to storage keys observed by the watcher",
		}, []string{"key", "deleted"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route template, method and status",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route template",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method"}),
	}
}

// DocumentSaved implements documents.Recorder.
func (m *Metrics) DocumentSaved(t documents.Type) {
	m.DocumentsSaved.WithLabelValues(string(t)).Inc()
}

// NavigationDecided implements navigation.Recorder.
func (m *Metrics) NavigationDecided(outcome navigation.Outcome) {
	m.NavigationDecisions.WithLabelValues(string(outcome)).Inc()
}

// StorageChanged records a change seen by a storage watcher.
func (m *Metrics) StorageChanged(key string, deleted bool) {
	m.StorageChanges.WithLabelValues(key, strconv.FormatBool(deleted)).Inc()
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, start time.Time) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
