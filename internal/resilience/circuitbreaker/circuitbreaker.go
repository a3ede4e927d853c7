// Package circuitbreaker adapts sony/gobreaker to the application's
// configuration and logging.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config defines circuit breaker behaviour.
//
// Fields:
//   - Name: Identifier used in logs
//   - MaxRequests: Requests allowed through while half-open
//   - Interval: Closed-state window after which counts reset (0 = never)
//   - Timeout: Time spent open before probing again
//   - ConsecutiveFailures: Trip after this many failures in a row.
//     When zero, FailureThreshold and MinRequests are used instead.
//   - FailureThreshold: Failure ratio that trips the breaker
//   - MinRequests: Requests needed before the ratio is considered
type Config struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
	FailureThreshold    float64
	MinRequests         uint32
}

// DefaultConfig returns a ratio-based configuration: the breaker opens when
// 60% of at least 5 requests in a 30s window fail.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// RadarrConfig suits a health endpoint polled every few seconds: five
// failed polls in a row open the breaker for a minute, then a single trial
// decides whether to close it.
func RadarrConfig() Config {
	return Config{
		Name:                "radarr-health",
		MaxRequests:         1,
		Interval:            0,
		Timeout:             60 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// CircuitBreaker wraps gobreaker.CircuitBreaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a circuit breaker. State changes are logged at warn level.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: readyToTrip(cfg),
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

func readyToTrip(cfg Config) func(gobreaker.Counts) bool {
	if cfg.ConsecutiveFailures > 0 {
		return func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		}
	}
	return func(counts gobreaker.Counts) bool {
		if counts.Requests < cfg.MinRequests {
			return false
		}
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return failureRatio >= cfg.FailureThreshold
	}
}

// Execute runs fn if the breaker allows it. When the breaker is open it
// returns gobreaker.ErrOpenState without calling fn.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

// State returns the current state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the breaker's name.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen reports whether calls are currently being rejected.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// IsRejection reports whether err means the breaker refused the call
// rather than the call itself failing.
func IsRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
