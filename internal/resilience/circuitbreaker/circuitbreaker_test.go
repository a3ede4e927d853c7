package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream down")

func fail() (interface{}, error)    { return nil, errUpstream }
func succeed() (interface{}, error) { return "ok", nil }

func TestNew(t *testing.T) {
	cb := New(DefaultConfig("test-circuit"))

	assert.Equal(t, "test-circuit", cb.Name())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
	assert.False(t, cb.IsOpen())
}

func TestExecute_Success(t *testing.T) {
	cb := New(DefaultConfig("test-success"))

	result, err := cb.Execute(succeed)

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestRadarrConfig_TripsOnConsecutiveFailures(t *testing.T) {
	// Arrange
	cfg := RadarrConfig()
	cb := New(cfg)

	// Act
	for i := uint32(0); i < cfg.ConsecutiveFailures-1; i++ {
		_, err := cb.Execute(fail)
		require.ErrorIs(t, err, errUpstream)
	}
	assert.False(t, cb.IsOpen(), "one failure short of the threshold")

	_, err := cb.Execute(fail)
	require.ErrorIs(t, err, errUpstream)

	// Assert
	assert.True(t, cb.IsOpen())
	called := false
	_, err = cb.Execute(func() (interface{}, error) { called = true; return nil, nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.True(t, IsRejection(err))
	assert.False(t, called)
}

func TestConsecutiveFailures_SuccessResets(t *testing.T) {
	cb := New(Config{Name: "reset", MaxRequests: 1, Timeout: time.Minute, ConsecutiveFailures: 3})

	_, _ = cb.Execute(fail)
	_, _ = cb.Execute(fail)
	_, _ = cb.Execute(succeed)
	_, _ = cb.Execute(fail)
	_, _ = cb.Execute(fail)

	assert.False(t, cb.IsOpen())
}

func TestRatioConfig(t *testing.T) {
	cb := New(Config{Name: "ratio", MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureThreshold: 0.5, MinRequests: 4})

	_, _ = cb.Execute(fail)
	_, _ = cb.Execute(fail)
	_, _ = cb.Execute(fail)
	assert.False(t, cb.IsOpen(), "below MinRequests")

	_, _ = cb.Execute(succeed)
	_, _ = cb.Execute(fail)
	assert.True(t, cb.IsOpen())
}

func TestHalfOpenRecovers(t *testing.T) {
	cb := New(Config{Name: "recover", MaxRequests: 1, Timeout: 50 * time.Millisecond, ConsecutiveFailures: 1})

	_, _ = cb.Execute(fail)
	require.True(t, cb.IsOpen())

	require.Eventually(t, func() bool { return cb.State() == gobreaker.StateHalfOpen }, time.Second, 10*time.Millisecond)

	_, err := cb.Execute(succeed)
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestIsRejection(t *testing.T) {
	assert.True(t, IsRejection(gobreaker.ErrOpenState))
	assert.True(t, IsRejection(gobreaker.ErrTooManyRequests))
	assert.False(t, IsRejection(errUpstream))
	assert.False(t, IsRejection(nil))
}
