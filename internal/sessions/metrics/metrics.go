package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure kinds used as the "kind" label.
const (
	FailureConnection  = "connection"
	FailureQuery       = "query"
	FailureFetch       = "fetch"
	FailureTimeout     = "timeout"
	FailureCircuitOpen = "circuit_open"
)

// Metrics provides observability for the active-session pipeline.
type Metrics struct {
	// End-to-end FetchActiveUsers latency
	FetchLatency prometheus.Histogram

	// Fatal failures by kind
	FetchFailures *prometheus.CounterVec

	// Rows that could not be extracted
	RowErrors prometheus.Counter

	// Users in the latest successful report, by client
	ActiveUsers *prometheus.GaugeVec

	// 1 while the database circuit is open
	BreakerOpen prometheus.Gauge
}

// New creates the session metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "erp_sessions_fetch_duration_seconds",
			Help:    "Duration of active session retrieval including normalization",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "erp_sessions_fetch_failures_total",
			Help: "Total failed session retrievals by kind",
		}, []string{"kind"}),
		RowErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "erp_sessions_row_errors_total",
			Help: "Total session rows returned with an extraction error",
		}),
		ActiveUsers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "erp_sessions_active_users",
			Help: "Active ERP users in the latest report by client",
		}, []string{"client"}), // client: "app", "bi"
		BreakerOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "erp_sessions_circuit_open",
			Help: "Whether the database circuit breaker is open",
		}),
	}
}

func (m *Metrics) ObserveFetchLatency(d time.Duration) {
	if m != nil {
		m.FetchLatency.Observe(d.Seconds())
	}
}

// IncrementFailure records a fatal failure of the given kind.
func (m *Metrics) IncrementFailure(kind string) {
	if m != nil {
		m.FetchFailures.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) AddRowErrors(n int) {
	if m != nil && n > 0 {
		m.RowErrors.Add(float64(n))
	}
}

// SetActiveUsers publishes the counts from a successful report.
func (m *Metrics) SetActiveUsers(app, bi int) {
	if m != nil {
		m.ActiveUsers.WithLabelValues("app").Set(float64(app))
		m.ActiveUsers.WithLabelValues("bi").Set(float64(bi))
	}
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}
