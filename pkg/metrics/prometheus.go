package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	alertsTotal      *prometheus.CounterVec
	membersProcessed *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		alertsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "senateinsight_alerts_total",
				Help: "Total number of alerts routed to a backend",
			},
			[]string{"backend", "alert_type"},
		),
		membersProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "senateinsight_members_processed_total",
				Help: "Total number of members analyzed",
			},
			[]string{"chamber"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "senateinsight_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "senateinsight_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAlert records an alert routed to a backend.
func (r *Recorder) RecordAlert(backend, alertType string) {
	r.alertsTotal.WithLabelValues(backend, alertType).Inc()
}

// RecordMemberProcessed records one analyzed member.
func (r *Recorder) RecordMemberProcessed(chamber string) {
	r.membersProcessed.WithLabelValues(chamber).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
