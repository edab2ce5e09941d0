package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ HTTP = (*httpMetrics)(nil)

type httpMetrics struct {
	requestCounter    *prometheus.CounterVec
	durationHistogram *prometheus.HistogramVec
}

func newHTTPMetrics(reg *prometheus.Registry) *httpMetrics {
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by method, route and status class",
		},
		[]string{"method", "path", "status"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"method", "path", "status"},
	)

	reg.MustRegister(counter, duration)

	return &httpMetrics{
		requestCounter:    counter,
		durationHistogram: duration,
	}
}

// Request records one finished request. path should be the route pattern,
// not the raw URL, to keep label cardinality bounded.
func (m *httpMetrics) Request(method, path string, status int, duration time.Duration) {
	class := StatusClass(status)
	m.requestCounter.WithLabelValues(method, path, class).Inc()
	m.durationHistogram.WithLabelValues(method, path, class).Observe(duration.Seconds())
}

// StatusClass buckets an HTTP status into "2xx", "3xx", "4xx" or "5xx".
func StatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
