package notifier

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rateLimitHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_rate_limit_hits_total",
			Help: "Total number of 429 responses from webhook targets",
		},
		[]string{"channel"},
	)

	rateLimitWaitSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_rate_limit_wait_seconds",
			Help:    "Time spent waiting on the local rate limiter in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"channel"},
	)
)

func recordRateLimitHit(channel string) {
	rateLimitHitsTotal.WithLabelValues(channel).Inc()
}

func recordRateLimitWait(channel string, wait time.Duration) {
	rateLimitWaitSeconds.WithLabelValues(channel).Observe(wait.Seconds())
}
