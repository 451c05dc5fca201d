package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics counts subscription attempts and verified webhook deliveries.
type PaymentMetrics interface {
	IncSubscriptionCreated(program string)
	IncSubscriptionFailed(program string)
	IncWebhookEvent(eventType string)
}

type paymentMetrics struct {
	subscriptions *prometheus.CounterVec
	webhookEvents *prometheus.CounterVec
}

func NewPaymentMetrics(registry *prometheus.Registry) PaymentMetrics {
	subscriptions := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_total",
			Help: "The total number of subscription creation attempts by outcome",
		},
		[]string{"outcome", "program"},
	)

	webhookEvents := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "The total number of verified Stripe webhook events by type",
		},
		[]string{"type"},
	)

	return &paymentMetrics{
		subscriptions: subscriptions,
		webhookEvents: webhookEvents,
	}
}

func (m *paymentMetrics) IncSubscriptionCreated(program string) {
	m.subscriptions.WithLabelValues("created", program).Inc()
}

func (m *paymentMetrics) IncSubscriptionFailed(program string) {
	m.subscriptions.WithLabelValues("failed", program).Inc()
}

func (m *paymentMetrics) IncWebhookEvent(eventType string) {
	m.webhookEvents.WithLabelValues(eventType).Inc()
}
