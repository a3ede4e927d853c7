package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCronSchedule_Valid(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
	}{
		{"every 10 seconds", "*/10 * * * * *"},
		{"every 5 seconds", "*/5 * * * * *"},
		{"five field daily", "30 5 * * *"},
		{"five field every 6 hours", "0 */6 * * *"},
		{"weekdays with seconds", "0 30 9 * * 1-5"},
		{"every descriptor", "@every 30s"},
		{"hourly descriptor", "@hourly"},
		{"list and step", "15,45 */2 * * 1,3,5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateCronSchedule(tt.schedule))
		})
	}
}

func TestValidateCronSchedule_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
	}{
		{"empty string", ""},
		{"blank string", "   "},
		{"too few fields", "0 0"},
		{"too many fields", "0 0 * * * * *"},
		{"invalid second", "60 * * * * *"},
		{"invalid hour", "0 24 * * *"},
		{"invalid month", "0 0 * 13 *"},
		{"random text", "invalid format"},
		{"unknown descriptor", "@sometimes"},
		{"bad every duration", "@every ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid cron schedule")
		})
	}
}

func TestValidateCronSchedule_ErrorMessage(t *testing.T) {
	err := ValidateCronSchedule("invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron schedule 'invalid'")
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.NoError(t, ValidateTimezone("Local"))

	err := ValidateTimezone("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	err = ValidateTimezone("Mars/Olympus_Mons")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timezone 'Mars/Olympus_Mons'")
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name    string
		value   time.Duration
		min     time.Duration
		max     time.Duration
		wantErr string
	}{
		{"inside range", 10 * time.Second, time.Second, time.Minute, ""},
		{"at min", time.Second, time.Second, time.Minute, ""},
		{"at max", time.Minute, time.Second, time.Minute, ""},
		{"below min", 500 * time.Millisecond, time.Second, time.Minute, "below minimum"},
		{"above max", 2 * time.Minute, time.Second, time.Minute, "exceeds maximum"},
		{"inverted range", time.Second, time.Minute, time.Second, "invalid range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDuration(tt.value, tt.min, tt.max)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateIntRange(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		min     int
		max     int
		wantErr string
	}{
		{"port", 7979, 1, 65535, ""},
		{"zero history limit", 0, 0, 1_000_000, ""},
		{"port zero", 0, 1, 65535, "below minimum"},
		{"port too large", 70000, 1, 65535, "exceeds maximum"},
		{"inverted range", 5, 10, 1, "invalid range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIntRange(tt.value, tt.min, tt.max)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.NoError(t, ValidatePositiveDuration(10*time.Second))

	for _, d := range []time.Duration{0, -time.Second} {
		err := ValidatePositiveDuration(d)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be positive")
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "INFO", " Warn "} {
		t.Run("valid_"+level, func(t *testing.T) {
			assert.NoError(t, ValidateLogLevel(level))
		})
	}

	for _, level := range []string{"", "trace", "warning", "fatal"} {
		t.Run("invalid_"+level, func(t *testing.T) {
			err := ValidateLogLevel(level)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid log level")
		})
	}
}
