// Package metrics provides Prometheus instrumentation for the scoring service.
package metrics

import (
	"context"
	"database/sql"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraudguard",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fraudguard",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// ScoresTotal counts scored transactions by verdict.
	ScoresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraudguard",
			Name:      "scores_total",
			Help:      "Total transactions scored, by verdict.",
		},
		[]string{"verdict"},
	)

	// ScoreDuration observes the scoring pipeline latency.
	ScoreDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fraudguard",
		Name:      "score_duration_seconds",
		Help:      "End-to-end scoring pipeline duration in seconds.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
	})

	// StorageAppendFailures counts failed fire-and-forget record appends.
	StorageAppendFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fraudguard",
		Name:      "storage_append_failures_total",
		Help:      "Total record store append failures (verdicts still returned).",
	})

	// ModelLoaded reports whether a model bundle is currently loaded.
	ModelLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fraudguard",
		Name:      "model_loaded",
		Help:      "1 when a model bundle is loaded, 0 otherwise.",
	})

	// ActiveWebSocketClients tracks connected alert stream clients.
	ActiveWebSocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fraudguard",
		Name:      "active_websocket_clients",
		Help:      "Number of currently connected WebSocket clients.",
	})

	// DBOpenConnections tracks open database connections.
	DBOpenConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fraudguard", Name: "db_open_connections",
		Help: "Number of open database connections.",
	})
	// DBInUseConnections tracks in-use database connections.
	DBInUseConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fraudguard", Name: "db_in_use_connections",
		Help: "Number of in-use database connections.",
	})
	// GoroutineCount tracks the current number of goroutines.
	GoroutineCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fraudguard", Name: "goroutines",
		Help: "Current number of goroutines.",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ScoresTotal,
		ScoreDuration,
		StorageAppendFailures,
		ModelLoaded,
		ActiveWebSocketClients,
		DBOpenConnections,
		DBInUseConnections,
		GoroutineCount,
	)
}

// CollectRuntime samples process and DB pool gauges every interval until the
// context is cancelled. db may be nil (in-memory or flat-file mode).
func CollectRuntime(ctx context.Context, db *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			GoroutineCount.Set(float64(runtime.NumGoroutine()))
			if db != nil {
				stats := db.Stats()
				DBOpenConnections.Set(float64(stats.OpenConnections))
				DBInUseConnections.Set(float64(stats.InUse))
			}
		case <-ctx.Done():
			return
		}
	}
}

// Middleware returns a gin middleware that records request metrics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(), // Uses route pattern, not actual path (avoids cardinality explosion)
		))

		c.Next()

		timer.ObserveDuration()
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			statusBucket(c.Writer.Status()),
		).Inc()
	}
}

// Handler returns the Prometheus metrics HTTP handler for /metrics endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// statusBucket groups HTTP status codes into buckets (2xx, 3xx, 4xx, 5xx).
func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
