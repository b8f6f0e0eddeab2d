package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixelfolio",
			Name:      "retrieval_requests_total",
			Help:      "Total number of retrieval requests",
		},
		[]string{"status"},
	)

	RetrievalRebuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pixelfolio",
			Name:      "retrieval_rebuilds_total",
			Help:      "Total number of vector store rebuilds",
		},
		[]string{"reason"}, // "empty" / "stale"
	)

	RetrievalResultsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pixelfolio",
			Name:      "retrieval_results_returned",
			Help:      "Number of documents returned per retrieval",
			Buckets:   []float64{0, 1, 2, 3, 5, 10},
		},
	)

	RateLimitRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pixelfolio",
			Name:      "rate_limit_rejections_total",
			Help:      "Total number of rate-limited requests",
		},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalRebuildsTotal)
	prometheus.MustRegister(RetrievalResultsReturned)
	prometheus.MustRegister(RateLimitRejectionsTotal)
	retrievalMetricsRegistered = true
}
