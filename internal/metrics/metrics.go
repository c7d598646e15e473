// Package metrics defines the Prometheus collectors exported by the service.
// All methods are safe to call on a nil *Metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	cacheLookups   *prometheus.CounterVec
	linksCreated   prometheus.Counter
	codeCollisions prometheus.Counter
	accessEvents   prometheus.Counter
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	httpInFlight   prometheus.Gauge
}

// New registers the collectors with reg under the given namespace.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Redirect cache lookups partitioned by result.",
		}, []string{"result"}),
		linksCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_created_total",
			Help:      "Short links persisted.",
		}),
		codeCollisions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "code_collisions_total",
			Help:      "Generated codes rejected by the unique constraint.",
		}),
		accessEvents: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_events_total",
			Help:      "Access events recorded on cache misses.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests processed.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "Number of HTTP requests currently being served.",
		}),
	}
}

func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) LinkCreated() {
	if m == nil {
		return
	}
	m.linksCreated.Inc()
}

func (m *Metrics) CodeCollision() {
	if m == nil {
		return
	}
	m.codeCollisions.Inc()
}

func (m *Metrics) AccessRecorded() {
	if m == nil {
		return
	}
	m.accessEvents.Inc()
}

// RequestStarted increments the in-flight gauge and returns a func that
// records the finished request.
func (m *Metrics) RequestStarted() func(method, route, status string) {
	if m == nil {
		return func(string, string, string) {}
	}
	start := time.Now()
	m.httpInFlight.Inc()
	return func(method, route, status string) {
		m.httpInFlight.Dec()
		m.httpRequests.WithLabelValues(method, route, status).Inc()
		m.httpDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
	}
}
