package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ViewOutcomeRecorded = "recorded"
	ViewOutcomeFailed   = "failed"
	ViewOutcomeDropped  = "dropped"
)

// ViewMetrics counts view-tracking outcomes and exposes the queue depth.
type ViewMetrics struct {
	events     *prometheus.CounterVec
	queueDepth prometheus.Gauge
}

// NewViewMetrics registers the view tracker collectors on reg.
func NewViewMetrics(reg prometheus.Registerer) *ViewMetrics {
	if reg == nil {
		return &ViewMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "view_events_total",
		Help:      "View events by outcome.",
	}, []string{"outcome"})
	depth := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "view_queue_depth",
		Help:      "View events waiting to be written.",
	})
	reg.MustRegister(events, depth)
	return &ViewMetrics{events: events, queueDepth: depth}
}

// Inc records one event with the given outcome.
func (v *ViewMetrics) Inc(outcome string) {
	if v == nil || v.events == nil {
		return
	}
	v.events.WithLabelValues(outcome).Inc()
}

// SetQueueDepth publishes the current queue length.
func (v *ViewMetrics) SetQueueDepth(n int) {
	if v == nil || v.queueDepth == nil {
		return
	}
	v.queueDepth.Set(float64(n))
}
