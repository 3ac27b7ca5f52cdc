// Package metrics exposes Prometheus collectors for the HTTP layer and the
// expense lifecycle.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()
	once     sync.Once

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	expenseTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expense_transitions_total",
			Help: "Expense lifecycle operations by action and outcome.",
		},
		[]string{"action", "outcome"},
	)
)

// Outcomes recorded for expense transitions.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			httpInFlight, httpRequestsTotal, httpRequestDuration, expenseTransitions,
		)
	})
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	Init()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// RequestStarted increments the in-flight gauge.
func RequestStarted() {
	httpInFlight.Inc()
}

// RequestFinished records a completed request. path must be the route
// template, not the raw URL, to keep label cardinality bounded.
func RequestFinished(method, path, status string, seconds float64) {
	httpInFlight.Dec()
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}

// RecordTransition counts one lifecycle operation.
func RecordTransition(action, outcome string) {
	expenseTransitions.WithLabelValues(action, outcome).Inc()
}
