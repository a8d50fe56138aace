package service

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the screening API.
//
// Metrics:
//   - screening_submissions_total{classification,rule} - classified submissions
//   - screening_validation_failures_total - submissions rejected at the boundary
//   - screening_store_failures_total - classified submissions that could not be saved
//   - screening_analytics_snapshots_total{result} - dashboard recomputations
//   - screening_http_request_duration_seconds{method,route,status} - request latency
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	SubmissionsTotal        *prometheus.CounterVec
	ValidationFailuresTotal prometheus.Counter
	StoreFailuresTotal      prometheus.Counter
	SnapshotsTotal          *prometheus.CounterVec
	RequestDuration         *prometheus.HistogramVec
}

// NewMetrics registers the collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screening_submissions_total",
				Help: "Total number of classified screening submissions",
			},
			[]string{"classification", "rule"},
		),
		ValidationFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "screening_validation_failures_total",
			Help: "Total number of submissions rejected by validation",
		}),
		StoreFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "screening_store_failures_total",
			Help: "Total number of classified submissions that failed to persist",
		}),
		SnapshotsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screening_analytics_snapshots_total",
				Help: "Total number of analytics snapshot computations",
			},
			[]string{"result"}, // "ok" or "error"
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "screening_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (m *Metrics) submission(classification, rule string) {
	if m == nil {
		return
	}
	if rule == "" {
		rule = "none"
	}
	m.SubmissionsTotal.WithLabelValues(classification, rule).Inc()
}

func (m *Metrics) validationFailure() {
	if m == nil {
		return
	}
	m.ValidationFailuresTotal.Inc()
}

func (m *Metrics) storeFailure() {
	if m == nil {
		return
	}
	m.StoreFailuresTotal.Inc()
}

func (m *Metrics) snapshot(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SnapshotsTotal.WithLabelValues(result).Inc()
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
