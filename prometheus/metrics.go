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
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "biometric_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Registration counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "biometric_register_total",
			Help: "Total number of user registrations",
		},
	)

	// Biometric record operation counter
	RecordOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biometric_record_operations_total",
			Help: "Total number of biometric record operations",
		},
		[]string{"operation"}, // operation can be "create", "read", "update", "delete", "list", "analytics"
	)

	// Organization operation counter
	OrganizationOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biometric_organization_operations_total",
			Help: "Total number of organization operations",
		},
		[]string{"operation"},
	)

	// Audit entry counter
	AuditEntryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biometric_audit_entries_total",
			Help: "Total number of audit log entries written",
		},
		[]string{"action"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biometric_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biometric_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", "stale_role" etc.
	)

	// Access denial counter
	AccessDeniedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "biometric_access_denied_total",
			Help: "Total number of denied operations",
		},
		[]string{"reason"}, // reason can be "role", "tenancy", "no_organization"
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "biometric_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "biometric_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active tokens
	ActiveTokensGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "biometric_active_tokens",
			Help: "Number of currently active authentication tokens",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "biometric_info",
			Help: "Information about the biometric record service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(RecordOperationCounter)
	prometheus.MustRegister(OrganizationOperationCounter)
	prometheus.MustRegister(AuditEntryCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(AccessDeniedCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveTokensGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// IncreaseActiveTokens increments the active tokens gauge
func IncreaseActiveTokens() {
	ActiveTokensGauge.Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordAccessDenied records a denied operation by reason
func RecordAccessDenied(reason string) {
	AccessDeniedCounter.With(prometheus.Labels{"reason": reason}).Inc()
}

// RecordRecordOperation records a biometric record operation
func RecordRecordOperation(operation string) {
	RecordOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordOrganizationOperation records an organization operation
func RecordOrganizationOperation(operation string) {
	OrganizationOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordAuditEntry records an audit log entry by action
func RecordAuditEntry(action string) {
	AuditEntryCounter.With(prometheus.Labels{"action": action}).Inc()
}
