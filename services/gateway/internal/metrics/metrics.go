package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokenRefreshes counts service tokens fetched from the directory.
	// Redundant refreshes by concurrent callers are expected and show up here.
	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_directory_token_refreshes_total",
			Help: "Directory service token fetches by outcome",
		},
		[]string{"result"},
	)

	DirectoryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_directory_requests_total",
			Help: "Directory admin API calls by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	DirectoryLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_directory_request_duration_seconds",
			Help:    "Directory admin API call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	Reconciliations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_role_reconciliations_total",
			Help: "Role update requests by result",
		},
		[]string{"result"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_rate_limited_total",
			Help: "Requests rejected by the fixed-window limiter",
		},
		[]string{"scope"},
	)
)
