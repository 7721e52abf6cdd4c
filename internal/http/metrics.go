package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalHTTPMetrics *HTTPMetrics
	httpMetricsOnce   sync.Once
)

// HTTPMetrics holds all HTTP-related metrics.
type HTTPMetrics struct {
	requestsTotal  *prometheus.CounterVec
	requestDur     *prometheus.HistogramVec
	responseSize   *prometheus.HistogramVec
	activeRequests prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP metrics once per process.
func NewHTTPMetrics() *HTTPMetrics {
	httpMetricsOnce.Do(func() {
		globalHTTPMetrics = &HTTPMetrics{
			requestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "convsplit_http_requests_total",
					Help: "Total HTTP requests by method, endpoint and status",
				},
				[]string{"method", "endpoint", "status"},
			),
			requestDur: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "convsplit_http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
				},
				[]string{"method", "endpoint"},
			),
			responseSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "convsplit_http_response_size_bytes",
					Help:    "HTTP response body size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "endpoint"},
			),
			activeRequests: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "convsplit_http_active_requests",
					Help: "Number of currently active HTTP requests",
				},
			),
		}
	})
	return globalHTTPMetrics
}

// Middleware returns an Echo middleware that records HTTP metrics.
// Endpoints are labeled with the route pattern (c.Path), so
// /api/v1/conversations/3 and /api/v1/conversations/4 share a series.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			m.activeRequests.Inc()
			defer m.activeRequests.Dec()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			method := c.Request().Method
			endpoint := normalizePath(c.Path())
			m.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(c.Response().Status)).Inc()
			m.requestDur.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
			m.responseSize.WithLabelValues(method, endpoint).Observe(float64(c.Response().Size))
			return nil
		}
	}
}

func normalizePath(path string) string {
	if path == "" {
		return "unmatched"
	}
	return path
}
