package reconcile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the reconciliation pipeline.
type Metrics struct {
	// Pipeline outcomes by terminal state
	Outcomes *prometheus.CounterVec

	// Remote step latencies by step
	StepLatency *prometheus.HistogramVec

	// Outcomes dropped because the selections moved on while the pipeline ran
	StaleDiscarded prometheus.Counter
}

// NewMetrics registers the pipeline metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdesk_reconcile_outcomes_total",
			Help: "Total reconciliation pipeline runs by terminal state",
		}, []string{"state"}), // state: "settled_ok", "settled_degraded", "failed"

		StepLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flightdesk_reconcile_step_duration_seconds",
			Help:    "Duration of remote reconciliation steps",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"step"}),

		StaleDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "flightdesk_reconcile_stale_discarded_total",
			Help: "Reconciliation outcomes discarded because the selection epoch changed",
		}),
	}
}

func (m *Metrics) IncrementOutcome(state string) {
	if m != nil {
		m.Outcomes.WithLabelValues(state).Inc()
	}
}

func (m *Metrics) ObserveStep(step string, d time.Duration) {
	if m != nil {
		m.StepLatency.WithLabelValues(step).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementStale() {
	if m != nil {
		m.StaleDiscarded.Inc()
	}
}
