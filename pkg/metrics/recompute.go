package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecomputeMetrics records recomputation-pass activity per order table trigger.
type RecomputeMetrics struct {
	duration  *prometheus.HistogramVec
	passes    *prometheus.CounterVec
	coalesced prometheus.Counter
	failures  *prometheus.CounterVec
}

// NewRecomputeMetrics registers the recompute metrics on the provided registerer.
func NewRecomputeMetrics(reg prometheus.Registerer) *RecomputeMetrics {
	if reg == nil {
		return &RecomputeMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recompute_pass_duration_seconds",
		Help:    "Duration of order recomputation passes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})
	passes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recompute_passes_total",
		Help: "Completed recomputation passes.",
	}, []string{"trigger"})
	coalesced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recompute_notifications_coalesced_total",
		Help: "Change notifications absorbed into an already-pending pass.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recompute_pass_failures_total",
		Help: "Recomputation passes that ended in error.",
	}, []string{"trigger"})
	reg.MustRegister(duration, passes, coalesced, failures)
	return &RecomputeMetrics{
		duration:  duration,
		passes:    passes,
		coalesced: coalesced,
		failures:  failures,
	}
}

// ObserveDuration records the duration of one pass for the named trigger table.
func (m *RecomputeMetrics) ObserveDuration(trigger string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(trigger)).Observe(duration.Seconds())
}

// IncPass increments the completed-pass counter for the named trigger table.
func (m *RecomputeMetrics) IncPass(trigger string) {
	if m == nil || m.passes == nil {
		return
	}
	m.passes.WithLabelValues(normalizeLabel(trigger)).Inc()
}

// IncCoalesced increments the coalesced-notification counter.
func (m *RecomputeMetrics) IncCoalesced() {
	if m == nil || m.coalesced == nil {
		return
	}
	m.coalesced.Inc()
}

// IncFailure increments the failed-pass counter for the named trigger table.
func (m *RecomputeMetrics) IncFailure(trigger string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(trigger)).Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
