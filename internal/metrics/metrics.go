package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   prometheus.CounterVec
	HTTPRequestDuration prometheus.HistogramVec
	HTTPResponseSize    prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitExceededTotal prometheus.CounterVec

	// Campaign lifecycle metrics
	SimulationEmailsSent  prometheus.CounterVec
	SimulationSendErrors  prometheus.CounterVec
	ClicksRecorded        prometheus.CounterVec
	QuizSubmissionsTotal  prometheus.CounterVec
	RiskScoresComputed    prometheus.CounterVec
	ReportCacheHitsTotal  prometheus.CounterVec
	ReportCacheMissTotal  prometheus.CounterVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPResponseSize: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_response_size_bytes",
					Help:    "HTTP response size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path", "status"},
			),

			RateLimitExceededTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of rate limit violations",
				},
				[]string{"endpoint", "method"},
			),

			SimulationEmailsSent: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "simulation_emails_sent_total",
					Help: "Total number of phishing simulation emails sent",
				},
				[]string{"phishing_type"},
			),
			SimulationSendErrors: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "simulation_send_errors_total",
					Help: "Total number of failed simulation email sends",
				},
				[]string{"phishing_type"},
			),
			ClicksRecorded: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "clicks_recorded_total",
					Help: "Total number of tracking link clicks recorded",
				},
				[]string{"outcome", "device_type"},
			),
			QuizSubmissionsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "quiz_submissions_total",
					Help: "Total number of graded quiz submissions",
				},
				[]string{"category", "passed"},
			),
			RiskScoresComputed: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "risk_scores_computed_total",
					Help: "Total number of risk score computations",
				},
				[]string{"awareness_level"},
			),
			ReportCacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "report_cache_hits_total",
					Help: "Total number of campaign report cache hits",
				},
				[]string{"report"},
			),
			ReportCacheMissTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "report_cache_misses_total",
					Help: "Total number of campaign report cache misses",
				},
				[]string{"report"},
			),

			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
