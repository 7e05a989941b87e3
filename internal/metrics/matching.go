package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ranking, reindex and explanation metrics.
var (
	RankRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_requests_total",
			Help:      "Total ranking requests by path",
		},
		[]string{"path", "status"}, // path: lexical / similarity
	)

	RankDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rank_duration_seconds",
			Help:      "Ranking duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"path"},
	)

	RankPoolSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rank_pool_size",
			Help:      "Number of entities scored per lexical ranking",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 7),
		},
		[]string{"perspective"},
	)

	RankPoolTruncatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_pool_truncated_total",
			Help:      "Lexical rankings whose pool hit the max pool size",
		},
		[]string{"perspective"},
	)

	ReindexItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reindex_items_total",
			Help:      "Reindexed entities by outcome",
		},
		[]string{"kind", "status"},
	)

	ExplainRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explain_requests_total",
			Help:      "Explanation generation requests by outcome",
		},
		[]string{"provider", "status"},
	)

	ExplainRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "explain_request_duration_seconds",
			Help:      "Explanation generation duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"provider"},
	)
)

var matchMetricsRegistered bool

// RegisterMatchingMetrics registers ranking, reindex and explanation metrics. Must be called once from main.
func RegisterMatchingMetrics() {
	if matchMetricsRegistered {
		return
	}
	prometheus.MustRegister(RankRequestsTotal)
	prometheus.MustRegister(RankDuration)
	prometheus.MustRegister(RankPoolSize)
	prometheus.MustRegister(RankPoolTruncatedTotal)
	prometheus.MustRegister(ReindexItemsTotal)
	prometheus.MustRegister(ExplainRequestsTotal)
	prometheus.MustRegister(ExplainRequestDuration)
	matchMetricsRegistered = true
}
