package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultPersisted  = "persisted"
	ResultMalformed  = "malformed"
	ResultStoreError = "store_error"
)

var (
	// MessagesConsumed counts deliveries by outcome. Every delivery is acked regardless of result.
	MessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_messages_consumed_total",
			Help: "Audit deliveries handled by outcome",
		},
		[]string{"result"},
	)

	MissingChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_missing_changes_total",
			Help: "Audit events persisted without a changes diff",
		},
		[]string{"event_type"},
	)

	IngestLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "audit_ingest_duration_seconds",
			Help:    "Time spent normalizing and persisting one audit delivery",
			Buckets: prometheus.DefBuckets,
		},
	)
)
