package worker

import (
	"fmt"
	"time"

	"radarr-notify/internal/pkg/config"
)

// Config holds the settings shared by every job of a Scheduler.
//
// Fields:
//   - Timezone: IANA location used to evaluate cron expressions.
//     Empty means the host's local time.
//   - DefaultTimeout: Upper bound for a single job run when the job does
//     not set its own. Zero means runs are bounded only by Stop.
type Config struct {
	Timezone       string
	DefaultTimeout time.Duration
}

// DefaultConfig returns a Config that evaluates schedules in UTC and bounds
// each run to one minute.
func DefaultConfig() Config {
	return Config{
		Timezone:       "UTC",
		DefaultTimeout: time.Minute,
	}
}

// Validate checks the timezone and timeout, collecting every failure.
func (c Config) Validate() error {
	var errs []error

	if c.Timezone != "" {
		if err := config.ValidateTimezone(c.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("Timezone: %w", err))
		}
	}

	if c.DefaultTimeout < 0 {
		errs = append(errs, fmt.Errorf("DefaultTimeout: duration must not be negative, got %v", c.DefaultTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("scheduler configuration validation failed: %v", errs)
	}
	return nil
}

// location resolves Timezone, falling back to time.Local when empty.
func (c Config) location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
