package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection
type Collector struct {
	registry *prometheus.Registry

	// Upstream fetch metrics
	FetchRequestsTotal *prometheus.CounterVec
	FetchDuration      *prometheus.HistogramVec

	// API metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// Dashboard metrics
	ViewErrorsTotal     *prometheus.CounterVec
	StaleResultsDropped prometheus.Counter
	StoreErrorsTotal    *prometheus.CounterVec
}

// NewCollector creates a collector registered on its own registry
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		FetchRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_requests_total",
				Help:      "Total number of upstream weather API requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),

		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Upstream weather API request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"endpoint"},
		),

		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by route, method, and status",
			},
			[]string{"route", "method", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"route"},
		),

		ViewErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "view_errors_total",
				Help:      "Total number of error messages rendered by dashboard region",
			},
			[]string{"region"},
		),

		StaleResultsDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_results_dropped_total",
				Help:      "Results discarded because a newer query superseded them",
			},
		),

		StoreErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Total number of favorites/recents storage errors by operation",
			},
			[]string{"operation"},
		),
	}
}

// Registry exposes the registry for the /metrics handler
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer creates a new timer
func (c *Collector) NewTimer(histogram prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// The Record helpers are nil-safe so components can run without metrics.

// RecordFetch records one upstream request
func (c *Collector) RecordFetch(endpoint, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.FetchRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	c.FetchDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RecordAPIRequest increments API request counter
func (c *Collector) RecordAPIRequest(route, method, status string) {
	if c == nil {
		return
	}
	c.APIRequestsTotal.WithLabelValues(route, method, status).Inc()
}

// RecordViewError increments the per-region error counter
func (c *Collector) RecordViewError(region string) {
	if c == nil {
		return
	}
	c.ViewErrorsTotal.WithLabelValues(region).Inc()
}

// RecordStaleResult counts a result dropped for a superseded query
func (c *Collector) RecordStaleResult() {
	if c == nil {
		return
	}
	c.StaleResultsDropped.Inc()
}

// RecordStoreError increments storage error counter
func (c *Collector) RecordStoreError(operation string) {
	if c == nil {
		return
	}
	c.StoreErrorsTotal.WithLabelValues(operation).Inc()
}
