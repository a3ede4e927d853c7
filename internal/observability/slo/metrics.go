// Package slo publishes service level indicators derived from the
// service's own Prometheus counters.
package slo

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// SLO targets for the notifier.
const (
	// PollSuccessSLO is the target ratio of health polls that reach Radarr.
	PollSuccessSLO = 0.99

	// DeliverySuccessSLO is the target ratio of webhook sends that succeed.
	DeliverySuccessSLO = 0.99

	// ErrorRateSLO is the maximum ratio of 5xx responses on the HTTP surface.
	ErrorRateSLO = 0.001
)

// Counter names read by the Updater.
const (
	pollMetric     = "monitor_poll_total"
	deliveryMetric = "notification_sent_total"
	httpMetric     = "http_requests_total"
)

var (
	// SLOPollSuccess is the share of successful polls since the previous update.
	SLOPollSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_poll_success_ratio",
			Help: "Ratio of successful health polls (0-1), target: 0.99",
		},
	)

	// SLODeliverySuccess is the share of successful webhook sends since the
	// previous update.
	SLODeliverySuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_delivery_success_ratio",
			Help: "Ratio of successful notification sends (0-1), target: 0.99",
		},
	)

	// SLOErrorRate is the share of 5xx HTTP responses since the previous update.
	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "Current HTTP error rate ratio (0-1), target: 0.001",
		},
	)
)

// totals are cumulative counter sums at one point in time.
type totals struct {
	pollOK, pollAll     float64
	sentOK, sentAll     float64
	httpFail, httpTotal float64
}

// Updater turns counter deltas between two calls into ratio gauges.
// A window without any events leaves the corresponding gauge unchanged.
type Updater struct {
	gatherer prometheus.Gatherer

	mu   sync.Mutex
	prev totals
}

// NewUpdater reads counters from g; nil uses prometheus.DefaultGatherer.
func NewUpdater(g prometheus.Gatherer) *Updater {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return &Updater{gatherer: g}
}

// Update gathers the counters and refreshes the SLO gauges. Its signature
// fits a scheduler job body.
func (u *Updater) Update(_ context.Context) error {
	families, err := u.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	cur := collect(families)

	u.mu.Lock()
	prev := u.prev
	u.prev = cur
	u.mu.Unlock()

	setRatio(SLOPollSuccess, cur.pollOK-prev.pollOK, cur.pollAll-prev.pollAll)
	setRatio(SLODeliverySuccess, cur.sentOK-prev.sentOK, cur.sentAll-prev.sentAll)
	setRatio(SLOErrorRate, cur.httpFail-prev.httpFail, cur.httpTotal-prev.httpTotal)
	return nil
}

func setRatio(g prometheus.Gauge, part, whole float64) {
	if whole <= 0 {
		return
	}
	g.Set(part / whole)
}

func collect(families []*dto.MetricFamily) totals {
	var t totals
	for _, mf := range families {
		switch mf.GetName() {
		case pollMetric:
			t.pollAll, t.pollOK = sumByLabel(mf, "status", func(v string) bool { return v == "success" })
		case deliveryMetric:
			t.sentAll, t.sentOK = sumByLabel(mf, "status", func(v string) bool { return v == "success" })
		case httpMetric:
			t.httpTotal, t.httpFail = sumByLabel(mf, "status", func(v string) bool { return len(v) == 3 && v[0] == '5' })
		}
	}
	return t
}

// sumByLabel returns the sum of every counter in mf and the sum of those
// whose label matches.
func sumByLabel(mf *dto.MetricFamily, label string, match func(string) bool) (all, matched float64) {
	for _, m := range mf.GetMetric() {
		v := m.GetCounter().GetValue()
		all += v
		for _, lp := range m.GetLabel() {
			if lp.GetName() == label && match(lp.GetValue()) {
				matched += v
				break
			}
		}
	}
	return all, matched
}
