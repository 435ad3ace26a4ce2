package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval path Prometheus metrics. The path label is one of
// "vector", "lexical", "hybrid".
var (
	RetrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "retrievex",
			Name:      "retrieval_requests_total",
			Help:      "Total retrieval requests per path",
		},
		[]string{"path", "status"}, // status: "success" / "failure"
	)

	RetrievalDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "retrievex",
			Name:      "retrieval_duration_seconds",
			Help:      "Retrieval duration in seconds per path",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"path"},
	)

	RetrievalResultsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "retrievex",
			Name:      "retrieval_results_returned",
			Help:      "Number of results returned per path",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
		[]string{"path"},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers the retrieval collectors. Must be
// called once from the composition root (no init()).
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalRequestsTotal)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(RetrievalResultsReturned)
	retrievalMetricsRegistered = true
}
