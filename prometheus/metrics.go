package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Signup and login counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rental_register_total",
			Help: "Total number of signup attempts",
		},
	)

	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rental_login_total",
			Help: "Total number of login attempts",
		},
	)

	ActivationCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rental_activation_total",
			Help: "Total number of account activation attempts",
		},
	)

	// Listing operation counter
	HouseOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_house_operations_total",
			Help: "Total number of listing operations",
		},
		[]string{"operation"}, // "create", "update", "delete", "search"
	)

	// Booking operation counter
	BookingOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_booking_operations_total",
			Help: "Total number of reservation and visit operations",
		},
		[]string{"kind", "operation"}, // kind: "reservation"|"visit"
	)

	// Verification code counter
	CodeIssuedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_verification_codes_issued_total",
			Help: "Total number of verification codes issued",
		},
		[]string{"purpose"},
	)

	// Error counters
	ErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_errors_total",
			Help: "Total number of request errors",
		},
		[]string{"type"}, // "invalid_request", "invalid_code", "conflict", "db_error" etc.
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rental_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rental_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rental_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rental_info",
			Help: "Information about the rental service",
		},
		[]string{"version"},
	)

	// Available listings
	AvailableHousesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rental_available_houses",
			Help: "Number of currently available listings",
		},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(ActivationCounter)
	prometheus.MustRegister(HouseOperationCounter)
	prometheus.MustRegister(BookingOperationCounter)
	prometheus.MustRegister(CodeIssuedCounter)
	prometheus.MustRegister(ErrorCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(InfoGauge)
	prometheus.MustRegister(AvailableHousesGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// RecordError increments the error counter for the given type
func RecordError(errorType string) {
	ErrorCounter.WithLabelValues(errorType).Inc()
}

// TrackDBOperation returns a function that tracks database operation duration.
// Use as: defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.WithLabelValues(operation).Observe(duration)
	}
}

// MetricsMiddleware records request counts and durations per endpoint
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			endpoint := c.Path()
			method := c.Request().Method
			statusStr := strconv.Itoa(status)

			HTTPRequestCounter.WithLabelValues(endpoint, method, statusStr).Inc()
			RequestDuration.WithLabelValues(endpoint, method, statusStr).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
