package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	pollSuccess  = "success"
	pollFailure  = "failure"
	pollRejected = "rejected"
)

var (
	// pollTotal counts ticks by outcome.
	// status: success|failure|rejected (circuit breaker open)
	pollTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_poll_total",
			Help: "Total number of health polls by outcome",
		},
		[]string{"source", "status"},
	)

	pollDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "monitor_poll_duration_seconds",
			Help:    "Duration of health polls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	pollItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "monitor_poll_items",
			Help: "Number of health items returned by the last successful poll",
		},
		[]string{"source"},
	)

	unknownSeverityTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_unknown_severity_total",
			Help: "Health items whose type was not recognised and mapped to warning",
		},
		[]string{"source", "type"},
	)
)

func recordPoll(source, status string, seconds float64) {
	pollTotal.WithLabelValues(source, status).Inc()
	pollDuration.WithLabelValues(source).Observe(seconds)
}
