package observability

import (
	"context"

	"github.com/aretw0/cascade/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	Triggers    *prometheus.CounterVec
	Descriptors *prometheus.HistogramVec
	Outcomes    *prometheus.CounterVec
	Ticks       prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Triggers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cascade_triggers_total",
				Help: "Total number of interaction signals processed",
			},
			[]string{"kind"},
		),
		Descriptors: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cascade_batch_descriptors",
				Help:    "Number of event descriptors produced per trigger",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"kind"},
		),
		Outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cascade_descriptors_total",
				Help: "Event descriptors handled by the applier, by change and status",
			},
			[]string{"change", "status"},
		),
		Ticks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cascade_ticks_total",
				Help: "Total number of applier passes",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Triggers, m.Descriptors, m.Outcomes, m.Ticks)
	}
	return m
}

// Hooks returns lifecycle hooks recording into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	outcome := func(_ context.Context, e *domain.ApplyEvent) {
		m.Outcomes.WithLabelValues(string(e.Change), string(e.Status)).Inc()
	}
	return domain.LifecycleHooks{
		OnTrigger: func(_ context.Context, e *domain.TriggerEvent) {
			m.Triggers.WithLabelValues(string(e.Kind)).Inc()
			m.Descriptors.WithLabelValues(string(e.Kind)).Observe(float64(e.Descriptors))
		},
		OnApply: outcome,
		OnDrop:  outcome,
		OnTick: func(context.Context, *domain.TickEvent) {
			m.Ticks.Inc()
		},
	}
}
