// Package metrics exposes Prometheus collectors for HTTP traffic, store operations
// and the store read cache.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	RequestCounter  *prometheus.CounterVec
	ErrorCounter    *prometheus.CounterVec
	StoreOps        *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
}

// New registers every collector under namespace in a fresh registry, together
// with the Go and process collectors.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		RequestCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests",
			},
			[]string{"method", "path"},
		),
		ErrorCounter: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API responses with status >= 400",
			},
			[]string{"method", "path", "status"},
		),
		StoreOps: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Record store operations by outcome",
			},
			[]string{"op", "outcome"},
		),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_cache_lookups_total",
				Help:      "Record store cache lookups by read and result",
			},
			[]string{"read", "result"},
		),
	}
}

// StoreOperation counts one store call. The outcome label is ok or error.
func (m *Metrics) StoreOperation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.StoreOps.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) CacheLookup(read string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(read, result).Inc()
}

// ObserveRequest records a finished request. path should be the route pattern,
// not the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.RequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
	m.RequestCounter.WithLabelValues(method, path).Inc()
	if status >= 400 {
		m.ErrorCounter.WithLabelValues(method, path, code).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
