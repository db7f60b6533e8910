package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsInitiated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payssd_payments_initiated_total",
		Help: "Payment initiation attempts by mode and outcome",
	}, []string{"mode", "outcome"})

	ProcessorCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payssd_processor_calls_total",
		Help: "Outbound processor charge calls by result",
	}, []string{"result"})

	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payssd_notifications_dispatched_total",
		Help: "Notification rows written by event",
	}, []string{"event"})

	OutboxDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payssd_outbox_deliveries_total",
		Help: "Outbox delivery attempts by status",
	}, []string{"status"})
)
