package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// CronParser is the schedule grammar shared by configuration validation and
// the job scheduler. The seconds field is optional so both "*/10 * * * * *"
// and "30 5 * * *" are accepted, as are descriptors like "@every 10s".
var CronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateCronSchedule checks that schedule can be parsed by CronParser.
//
// Accepted forms:
//   - "second minute hour day month weekday", e.g. "*/10 * * * * *"
//   - "minute hour day month weekday", e.g. "0 */6 * * *"
//   - descriptors, e.g. "@every 30s" or "@hourly"
//
// Parameters:
//   - schedule: Cron expression to validate
//
// Returns:
//   - error: nil if valid, an error quoting the schedule otherwise
func ValidateCronSchedule(schedule string) error {
	if strings.TrimSpace(schedule) == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}

	if _, err := CronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	return nil
}

// ValidateTimezone checks that timezone is a loadable IANA location name
// such as "UTC" or "Europe/Berlin".
//
// Loading depends on the tz database being present on the host; in
// containers without tzdata only "UTC" and "Local" resolve.
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}

	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}

	return nil
}

// ValidateDuration checks that duration lies in [min, max].
//
// Parameters:
//   - duration: Value to check
//   - min: Lower bound (inclusive)
//   - max: Upper bound (inclusive)
//
// Returns:
//   - error: nil if in range; an error naming the violated bound otherwise,
//     or an error if min > max
func ValidateDuration(duration, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if duration < min {
		return fmt.Errorf("duration %v is below minimum %v", duration, min)
	}
	if duration > max {
		return fmt.Errorf("duration %v exceeds maximum %v", duration, max)
	}
	return nil
}

// ValidateIntRange checks that value lies in [min, max].
// Used for ports and the notification history limit.
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}
	if value < min {
		return fmt.Errorf("value %d is below minimum %d", value, min)
	}
	if value > max {
		return fmt.Errorf("value %d exceeds maximum %d", value, max)
	}
	return nil
}

// ValidatePositiveDuration checks that duration is strictly greater than zero.
func ValidatePositiveDuration(duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", duration)
	}
	return nil
}

// logLevels are the names accepted by ValidateLogLevel.
var logLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// ValidateLogLevel checks that level is one of debug, info, warn or error
// (case-insensitive).
func ValidateLogLevel(level string) error {
	if _, ok := logLevels[strings.ToLower(strings.TrimSpace(level))]; !ok {
		return fmt.Errorf("invalid log level '%s': must be one of debug, info, warn, error", level)
	}
	return nil
}
