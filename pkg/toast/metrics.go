package toast

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts notifications shown, by kind. Create one per process
// and share it across managers; registering the counters twice panics.
type Metrics struct {
	shownTotal *prometheus.CounterVec
}

// NewMetrics registers the notification counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		shownTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulse",
			Subsystem: "toast",
			Name:      "shown_total",
			Help:      "Notifications shown, by kind; a show replacing a visible notification counts again",
		}, []string{"kind"}),
	}
}

// WithSharedMetrics attaches previously registered counters to a manager.
func WithSharedMetrics(m *Metrics) Option {
	return func(mgr *Manager) { mgr.metrics = m }
}

func (m *Metrics) shown(kind Type) {
	if m == nil {
		return
	}
	m.shownTotal.WithLabelValues(string(kind)).Inc()
}
