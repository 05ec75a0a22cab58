package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medreview_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "medreview_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	httpErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medreview_http_errors_total",
		Help: "Count of request errors by domain error code",
	}, []string{"method", "path", "code"})

	moderationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medreview_moderation_transitions_total",
		Help: "Count of review moderation transitions by target status and result",
	}, []string{"status", "result"})

	bulkOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medreview_bulk_item_outcomes_total",
		Help: "Per-item outcomes of bulk moderation actions",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveHTTPError increments the error counter for the given domain code.
func ObserveHTTPError(method, path, code string) {
	httpErrorsTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveModerationTransition records a single review transition attempt.
func ObserveModerationTransition(status, result string) {
	moderationTransitions.WithLabelValues(status, result).Inc()
}

// ObserveBulkOutcome increments the per-item bulk outcome counter.
func ObserveBulkOutcome(result string) {
	bulkOutcomes.WithLabelValues(result).Inc()
}
