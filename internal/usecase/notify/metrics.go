package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// notificationSubmittedTotal counts Submit calls by outcome.
	// result: created|duplicate
	notificationSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_submitted_total",
			Help: "Total number of submitted notifications by dedup result",
		},
		[]string{"result"},
	)

	notificationHistorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_history_size",
			Help: "Number of distinct notifications held in history",
		},
	)

	notificationEvictedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_history_evicted_total",
			Help: "Total number of notifications evicted from a bounded history",
		},
	)

	notificationQueuePending = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "notification_queue_pending",
			Help: "Number of rendered messages waiting for the next flush",
		},
		[]string{"channel"},
	)

	notificationFlushTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_flush_total",
			Help: "Total number of non-empty flushes by outcome",
		},
		[]string{"channel", "status"}, // status: success|partial_failure
	)

	notificationSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_sent_total",
			Help: "Total number of notifications sent",
		},
		[]string{"channel", "status"}, // status: success|failure
	)

	notificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_duration_seconds",
			Help:    "Notification send duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"channel"},
	)

	notificationDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dropped_total",
			Help: "Total number of dropped notifications",
		},
		[]string{"channel", "reason"}, // reason: send_failed|enqueue_failed
	)
)

// RecordSubmitted counts one Submit call.
func RecordSubmitted(created bool) {
	if created {
		notificationSubmittedTotal.WithLabelValues("created").Inc()
		return
	}
	notificationSubmittedTotal.WithLabelValues("duplicate").Inc()
}

// SetHistorySize records the current history length.
func SetHistorySize(n int) {
	notificationHistorySize.Set(float64(n))
}

// RecordEvicted counts one history eviction.
func RecordEvicted() {
	notificationEvictedTotal.Inc()
}

// SetQueuePending records the queue length of a channel.
func SetQueuePending(channel string, n int) {
	notificationQueuePending.WithLabelValues(channel).Set(float64(n))
}

// RecordFlush counts one flush that had at least one message.
func RecordFlush(channel string, failed int) {
	if failed > 0 {
		notificationFlushTotal.WithLabelValues(channel, "partial_failure").Inc()
		return
	}
	notificationFlushTotal.WithLabelValues(channel, "success").Inc()
}

// RecordSuccess records a delivered message.
func RecordSuccess(channel string, duration time.Duration) {
	notificationSentTotal.WithLabelValues(channel, "success").Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordFailure records a message whose delivery failed.
func RecordFailure(channel string, duration time.Duration) {
	notificationSentTotal.WithLabelValues(channel, "failure").Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordDropped counts a message that will never be delivered.
func RecordDropped(channel string, reason string) {
	notificationDroppedTotal.WithLabelValues(channel, reason).Inc()
}
