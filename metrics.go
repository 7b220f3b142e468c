package pulse

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	sessionsActive prometheus.Gauge
	connectsTotal  *prometheus.CounterVec
	eventsTotal    prometheus.Counter
	patchesTotal   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "pulse",
			Name:      "sessions_active",
			Help:      "Number of currently connected sessions",
		}),
		connectsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "connects_total",
			Help:      "Websocket connections accepted, by whether they resumed a session",
		}, []string{"resumed"}),
		eventsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "events_total",
			Help:      "DOM events received from clients",
		}),
		patchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "patches_total",
			Help:      "Render patches sent to clients",
		}),
	}
}
