package slo

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counters struct {
	poll *prometheus.CounterVec
	sent *prometheus.CounterVec
	http *prometheus.CounterVec
}

func newRegistry(t *testing.T) (*prometheus.Registry, counters) {
	t.Helper()
	reg := prometheus.NewRegistry()
	c := counters{
		poll: prometheus.NewCounterVec(prometheus.CounterOpts{Name: pollMetric}, []string{"source", "status"}),
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{Name: deliveryMetric}, []string{"channel", "status"}),
		http: prometheus.NewCounterVec(prometheus.CounterOpts{Name: httpMetric}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(c.poll, c.sent, c.http)
	return reg, c
}

func TestSLOConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected float64
	}{
		{"PollSuccessSLO", PollSuccessSLO, 0.99},
		{"DeliverySuccessSLO", DeliverySuccessSLO, 0.99},
		{"ErrorRateSLO", ErrorRateSLO, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value)
		})
	}
}

func TestUpdater_Ratios(t *testing.T) {
	// Arrange
	reg, c := newRegistry(t)
	c.poll.WithLabelValues("radarr", "success").Add(3)
	c.poll.WithLabelValues("radarr", "failure").Add(1)
	c.sent.WithLabelValues("discord", "success").Add(9)
	c.sent.WithLabelValues("discord", "failure").Add(1)
	c.http.WithLabelValues("GET", "GET /health", "200").Add(7)
	c.http.WithLabelValues("GET", "GET /radarr/health", "500").Add(1)
	c.http.WithLabelValues("GET", "unmatched", "404").Add(2)
	u := NewUpdater(reg)

	// Act
	require.NoError(t, u.Update(context.Background()))

	// Assert
	assert.InDelta(t, 0.75, testutil.ToFloat64(SLOPollSuccess), 1e-9)
	assert.InDelta(t, 0.9, testutil.ToFloat64(SLODeliverySuccess), 1e-9)
	assert.InDelta(t, 0.1, testutil.ToFloat64(SLOErrorRate), 1e-9)
}

func TestUpdater_UsesDeltaSincePreviousUpdate(t *testing.T) {
	reg, c := newRegistry(t)
	u := NewUpdater(reg)
	c.poll.WithLabelValues("radarr", "failure").Add(10)
	require.NoError(t, u.Update(context.Background()))
	assert.Equal(t, 0.0, testutil.ToFloat64(SLOPollSuccess))

	c.poll.WithLabelValues("radarr", "success").Add(4)
	require.NoError(t, u.Update(context.Background()))

	assert.Equal(t, 1.0, testutil.ToFloat64(SLOPollSuccess), "only the last window counts")
}

func TestUpdater_EmptyWindowKeepsGauge(t *testing.T) {
	reg, c := newRegistry(t)
	u := NewUpdater(reg)
	c.sent.WithLabelValues("discord", "success").Add(1)
	c.sent.WithLabelValues("discord", "failure").Add(1)
	require.NoError(t, u.Update(context.Background()))

	require.NoError(t, u.Update(context.Background()))

	assert.Equal(t, 0.5, testutil.ToFloat64(SLODeliverySuccess))
}
