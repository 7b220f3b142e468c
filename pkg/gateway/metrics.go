package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registerer is satisfied by prometheus.Registerer; the alias keeps the
// option signature free of a prometheus import at call sites.
type Registerer = prometheus.Registerer

// metrics holds the request counters. A nil *metrics is valid and records
// nothing, so clients without WithMetrics skip collection entirely.
type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func newMetrics(reg Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulse",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total API requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pulse",
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// Metrics are request counters shared by every per-session client.
// Create one per process; registering the same counters twice panics.
type Metrics struct {
	m *metrics
}

// NewMetrics registers the request counters on reg once.
func NewMetrics(reg Registerer) *Metrics {
	return &Metrics{m: newMetrics(reg)}
}

// WithSharedMetrics attaches previously registered counters to a client.
func WithSharedMetrics(sm *Metrics) Option {
	return func(c *Client) {
		if sm != nil {
			c.metrics = sm.m
		}
	}
}

func (m *metrics) observe(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}
