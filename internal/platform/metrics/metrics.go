package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-level Prometheus collectors.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	DeniedRequests  prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "erp_sessions_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		DeniedRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "erp_sessions_http_denied_requests_total",
			Help: "Total number of requests rejected by the client IP allowlist",
		}),
	}
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// IncrementDenied counts a request rejected by the allowlist.
func (m *Metrics) IncrementDenied() {
	if m == nil {
		return
	}
	m.DeniedRequests.Inc()
}
