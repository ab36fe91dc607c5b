package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Price aggregation metrics
	PriceRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_refresh_total",
			Help: "Price refresh attempts by outcome",
		},
		[]string{"result"}, // success, failure, empty
	)

	DealsLookupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deals_lookup_duration_seconds",
			Help:    "External deals lookup latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Library metrics
	PurchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_purchases_total",
			Help: "Library entries created, by source",
		},
		[]string{"source"},
	)

	AuthenticationAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authentication_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"status"}, // success or failure
	)
)

// InitMetrics registers all Prometheus metrics.
func InitMetrics() {
	prometheus.MustRegister(HttpRequestsTotal)
	prometheus.MustRegister(HttpRequestDuration)
	prometheus.MustRegister(PriceRefreshTotal)
	prometheus.MustRegister(DealsLookupDuration)
	prometheus.MustRegister(PurchasesTotal)
	prometheus.MustRegister(AuthenticationAttempts)
}

// PrometheusMiddleware collects metrics for each request.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		HttpRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		HttpRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(time.Since(start).Seconds())
	}
}

// PrometheusHandler returns the Prometheus metrics handler.
func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
