package metrics

import "github.com/prometheus/client_golang/prometheus"

// OutboxPublisherMetrics counts publish attempts per aggregate table.
type OutboxPublisherMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewOutboxPublisherMetrics registers the publisher metrics on the provided registerer.
func NewOutboxPublisherMetrics(reg prometheus.Registerer) *OutboxPublisherMetrics {
	if reg == nil {
		return &OutboxPublisherMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "Outbox events successfully pushed to the notification stream.",
	}, []string{"table"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_failed_total",
		Help: "Outbox events whose publish attempt failed.",
	}, []string{"table"})
	reg.MustRegister(published, failed)
	return &OutboxPublisherMetrics{published: published, failed: failed}
}

// IncPublished increments the published counter for the given table.
func (m *OutboxPublisherMetrics) IncPublished(table string) {
	if m == nil || m.published == nil {
		return
	}
	m.published.WithLabelValues(normalizeLabel(table)).Inc()
}

// IncFailed increments the failed counter for the given table.
func (m *OutboxPublisherMetrics) IncFailed(table string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(table)).Inc()
}
