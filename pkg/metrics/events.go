package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeProcessed = "processed"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// EventMetrics counts consumed domain events.
type EventMetrics struct {
	consumed *prometheus.CounterVec
}

func NewEventMetrics(reg prometheus.Registerer) *EventMetrics {
	if reg == nil {
		return &EventMetrics{}
	}
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "events_consumed_total",
		Help: "Domain events consumed by the worker, by topic, type and outcome.",
	}, []string{"topic", "event_type", "outcome"})
	reg.MustRegister(consumed)
	return &EventMetrics{consumed: consumed}
}

func (m *EventMetrics) Inc(topic, eventType, outcome string) {
	if m == nil || m.consumed == nil {
		return
	}
	if eventType == "" {
		eventType = "unknown"
	}
	m.consumed.WithLabelValues(topic, eventType, outcome).Inc()
}
