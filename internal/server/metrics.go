package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics aggregates the server's Prometheus collectors on a private
// registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	connections   prometheus.Gauge
}

// NewMetrics builds the collector set. entityCount and eventsDropped are
// sampled on scrape.
func NewMetrics(entityCount func() float64, eventsDropped func() float64) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geomsync",
			Name:      "requests_total",
			Help:      "Query requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "geomsync",
			Name:      "query_duration_seconds",
			Help:      "Query handling latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "geomsync",
			Name:      "connections",
			Help:      "Open WebSocket and QUIC connections.",
		}),
	}

	registry.MustRegister(m.requests, m.queryDuration, m.connections)

	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "geomsync",
		Name:      "entities",
		Help:      "Registered entities.",
	}, entityCount))
	registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: "geomsync",
		Name:      "events_dropped_total",
		Help:      "Event deliveries dropped on full subscriber buffers.",
	}, eventsDropped))

	return m
}

// Handler serves the scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(op Op, ok bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.requests.WithLabelValues(op.String(), outcome).Inc()
	m.queryDuration.WithLabelValues(op.String()).Observe(elapsed.Seconds())
}

func (m *Metrics) connOpened() {
	if m != nil {
		m.connections.Inc()
	}
}

func (m *Metrics) connClosed() {
	if m != nil {
		m.connections.Dec()
	}
}
