// Package config provides environment-variable loaders and validators shared
// by the application's configuration layer.
//
// Loaders never fail: an unset variable yields the default, and a value that
// does not parse or validate yields the default plus a warning. Callers log
// the warnings and record them through ConfigMetrics.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ConfigLoadResult is the outcome of loading one environment variable.
//
// Fields:
//   - Value: The loaded value, or the default when a fallback was applied
//   - Warnings: One message per fallback applied
//   - FallbackApplied: True if the environment value was rejected
//
// Example:
//
//	result := LoadEnvDuration("DISCORD_TIMEOUT", 10*time.Second, ValidatePositiveDuration)
//	for _, w := range result.Warnings {
//	    logger.Warn("configuration fallback", slog.String("warning", w))
//	}
//	timeout := result.Value.(time.Duration)
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString returns the value of envKey, or defaultValue when the
// variable is unset or empty. No validation is performed.
func LoadEnvString(envKey, defaultValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return defaultValue
}

// LoadEnvWithFallback loads a string and validates it.
//
// Parameters:
//   - envKey: Environment variable name
//   - defaultValue: Value used when unset or invalid
//   - validator: Validation function, nil to accept any value
//
// Returns:
//   - ConfigLoadResult: Value is a string
//
// Warning format:
//
//	"Invalid {envKey}='{value}': {error}, falling back to default '{default}'"
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	if validator != nil {
		if err := validator(value); err != nil {
			return fallback(envKey, value, defaultValue, err)
		}
	}

	return ConfigLoadResult{Value: value}
}

// LoadEnvDuration loads a Go duration string ("10s", "1m30s") and validates it.
// Parse and validation failures fall back to defaultValue with a warning.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback(envKey, raw, defaultValue, err)
	}

	if validator != nil {
		if err := validator(d); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}

	return ConfigLoadResult{Value: d}
}

// LoadEnvInt loads a base-10 integer and validates it.
// Surrounding whitespace is trimmed before parsing.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return ConfigLoadResult{Value: defaultValue}
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback(envKey, raw, defaultValue, err)
	}

	if validator != nil {
		if err := validator(n); err != nil {
			return fallback(envKey, raw, defaultValue, err)
		}
	}

	return ConfigLoadResult{Value: n}
}

func fallback(envKey, raw string, defaultValue interface{}, err error) ConfigLoadResult {
	return ConfigLoadResult{
		Value: defaultValue,
		Warnings: []string{fmt.Sprintf(
			"Invalid %s='%s': %v, falling back to default '%v'",
			envKey, raw, err, defaultValue,
		)},
		FallbackApplied: true,
	}
}
