package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics records settlement outcomes for inbound payment events.
type WebhookMetrics struct {
	settled  *prometheus.CounterVec
	replayed *prometheus.CounterVec
	orphaned *prometheus.CounterVec
}

// NewWebhookMetrics registers the webhook counters on the provided registerer.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	settled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_payments_settled",
		Help: "Payments transitioned to success by webhook events.",
	}, []string{"provider"})
	replayed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_replayed",
		Help: "Webhook deliveries that matched an already settled payment.",
	}, []string{"provider"})
	orphaned := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_orphaned",
		Help: "Webhook deliveries with no matching payment record.",
	}, []string{"provider"})
	reg.MustRegister(settled, replayed, orphaned)
	return &WebhookMetrics{
		settled:  settled,
		replayed: replayed,
		orphaned: orphaned,
	}
}

// IncSettled increments the settled counter for the named provider.
func (m *WebhookMetrics) IncSettled(provider string) {
	if m == nil || m.settled == nil {
		return
	}
	m.settled.WithLabelValues(normalizeLabel(provider)).Inc()
}

// IncReplayed increments the replay counter for the named provider.
func (m *WebhookMetrics) IncReplayed(provider string) {
	if m == nil || m.replayed == nil {
		return
	}
	m.replayed.WithLabelValues(normalizeLabel(provider)).Inc()
}

// IncOrphaned increments the orphaned-event counter for the named provider.
func (m *WebhookMetrics) IncOrphaned(provider string) {
	if m == nil || m.orphaned == nil {
		return
	}
	m.orphaned.WithLabelValues(normalizeLabel(provider)).Inc()
}

func normalizeLabel(provider string) string {
	if provider == "" {
		return "unknown"
	}
	return provider
}
