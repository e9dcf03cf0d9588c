package prometheus

import (
	"strconv"
	"time"

	"homecare-service/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Visit lifecycle metrics
	VisitsStartedCounter   prometheus.Counter
	VisitsCompletedCounter prometheus.Counter

	// Invariant enforcement metrics
	InvariantRejectionCounter *prometheus.CounterVec
	CaregiverDemotionsCounter prometheus.Counter
	ArrangementsClosedCounter prometheus.Counter

	// Database operation metrics
	DBOperationHistogram *prometheus.HistogramVec

	// Request metrics
	RequestDurationHistogram *prometheus.HistogramVec
	APIRequestCounter        *prometheus.CounterVec
	APIErrorCounter          *prometheus.CounterVec

	// Namespace prefix for metrics
	namespace string
)

// InitMetrics initializes all Prometheus metrics
func InitMetrics(cfg *config.Config) {
	namespace = cfg.Metrics.Prefix

	// Visit lifecycle metrics
	VisitsStartedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visits_started_total",
		Help:      "Total number of visits checked in",
	})

	VisitsCompletedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visits_completed_total",
		Help:      "Total number of visits checked out",
	})

	// Invariant enforcement metrics
	InvariantRejectionCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invariant_rejections_total",
			Help:      "Total number of mutations rejected by a domain rule",
		},
		[]string{"reason"},
	)

	CaregiverDemotionsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "caregiver_demotions_total",
		Help:      "Total number of 24/7 caregiver flags cleared by the single-caregiver rule",
	})

	ArrangementsClosedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "arrangements_closed_total",
		Help:      "Total number of open-ended arrangements closed by a newer arrangement",
	})

	// Database operation metrics
	DBOperationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_operation_duration_seconds",
			Help:      "Duration of database operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Request metrics
	RequestDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	APIRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "path"},
	)

	APIErrorCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Total number of API errors",
		},
		[]string{"method", "path", "status"},
	)
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Track API request count
			APIRequestCounter.With(prometheus.Labels{
				"method": c.Request().Method,
				"path":   c.Path(),
			}).Inc()

			// Process the request
			err := next(c)

			// Track request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			RequestDurationHistogram.With(prometheus.Labels{
				"method": c.Request().Method,
				"path":   c.Path(),
				"status": status,
			}).Observe(duration)

			// Track errors
			if c.Response().Status >= 400 {
				APIErrorCounter.With(prometheus.Labels{
					"method": c.Request().Method,
					"path":   c.Path(),
					"status": status,
				}).Inc()
			}

			return err
		}
	}
}

// HandlerFunc returns a HTTP handler for metrics endpoint
func HandlerFunc() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// TrackDBOperation returns a function that tracks database operation duration
func TrackDBOperation(operation string) func(time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationHistogram.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordVisitStarted increments the started-visit counter.
func RecordVisitStarted() {
	if VisitsStartedCounter != nil {
		VisitsStartedCounter.Inc()
	}
}

// RecordVisitCompleted increments the completed-visit counter.
func RecordVisitCompleted() {
	if VisitsCompletedCounter != nil {
		VisitsCompletedCounter.Inc()
	}
}

// RecordRejection increments the invariant rejection counter for a reason code.
func RecordRejection(reason string) {
	if InvariantRejectionCounter != nil {
		InvariantRejectionCounter.With(prometheus.Labels{"reason": reason}).Inc()
	}
}

// RecordDemotions adds to the caregiver demotion counter.
func RecordDemotions(n int) {
	if CaregiverDemotionsCounter != nil && n > 0 {
		CaregiverDemotionsCounter.Add(float64(n))
	}
}

// RecordArrangementsClosed adds to the closed-arrangement counter.
func RecordArrangementsClosed(n int) {
	if ArrangementsClosedCounter != nil && n > 0 {
		ArrangementsClosedCounter.Add(float64(n))
	}
}
