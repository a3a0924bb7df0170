package rabbitmq

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_published_total",
			Help: "Audit events confirmed by the broker",
		},
		[]string{"routing_key"},
	)

	publishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_publish_failures_total",
			Help: "Audit events that could not be published and were dropped",
		},
		[]string{"routing_key", "reason"},
	)
)
