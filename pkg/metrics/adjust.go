package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AdjustMetrics surfaces the booking/inventory consistency gap. Every
// failed best-effort inventory adjustment after a booking mutation is
// already durable lands on the failure counter so operators can reconcile
// by hand.
type AdjustMetrics struct {
	duration *prometheus.HistogramVec
	failure  *prometheus.CounterVec
}

// NewAdjustMetrics registers the inventory adjustment metrics.
func NewAdjustMetrics(reg prometheus.Registerer) *AdjustMetrics {
	if reg == nil {
		return &AdjustMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_adjust_duration_seconds",
		Help:    "Duration of outbound inventory adjust calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_adjust_failure_total",
		Help: "Inventory adjustments that failed after the booking record was already durable.",
	}, []string{"operation"})
	reg.MustRegister(duration, failure)
	return &AdjustMetrics{
		duration: duration,
		failure:  failure,
	}
}

// ObserveDuration records the latency of one adjust call.
func (a *AdjustMetrics) ObserveDuration(operation string, duration time.Duration) {
	if a == nil || a.duration == nil {
		return
	}
	a.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncFailure counts an adjustment that could not be applied.
func (a *AdjustMetrics) IncFailure(operation string) {
	if a == nil || a.failure == nil {
		return
	}
	a.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}
