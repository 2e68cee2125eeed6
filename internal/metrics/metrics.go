// Package metrics exposes webhook processing counters on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

type Metrics struct {
	webhookEvents *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		webhookEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pedidohub_webhook_events_total",
			Help: "Webhook deliveries by gateway and terminal outcome.",
		}, []string{"gateway", "outcome"}),
	}
}

func (m *Metrics) RecordWebhookEvent(gateway, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(gateway, outcome).Inc()
}

var Module = fx.Module("metrics",
	fx.Provide(New),
)
