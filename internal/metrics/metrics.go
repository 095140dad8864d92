package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HistoryFeedRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_history_feed_requests_total",
		Help: "Total number of history feed computations requested.",
	})

	HistoryFeedCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_history_feed_cache_hits_total",
		Help: "Total number of history feed requests served from the memoized result.",
	})

	StoreMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_store_mutations_total",
		Help: "Total number of persisted record store mutations.",
	},
		[]string{"store", "op"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	NotificationsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_notifications_published_total",
		Help: "Total number of appointment notifications published.",
	})
)

var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "portal_http_request_duration_seconds",
	Help:    "Duration of HTTP requests by route template.",
	Buckets: prometheus.DefBuckets,
},
	[]string{"method", "route", "status"},
)
