package config

import (
	"time"

	pkgconfig "radarr-notify/internal/pkg/config"
)

// Environment variables that override the configuration file.
const (
	EnvServerHost        = "SERVER_HOST"
	EnvServerPort        = "SERVER_PORT"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLogFile           = "LOG_FILE"
	EnvRadarrURL         = "RADARR_URL"
	EnvRadarrAPIKey      = "RADARR_APIKEY"
	EnvRadarrSchedule    = "RADARR_SCHEDULE"
	EnvRadarrTimeout     = "RADARR_TIMEOUT"
	EnvDiscordWebhookURL = "DISCORD_WEBHOOK_URL"
	EnvDiscordFlush      = "DISCORD_FLUSH_SCHEDULE"
	EnvDiscordTimeout    = "DISCORD_TIMEOUT"
	EnvHistoryLimit      = "NOTIFICATIONS_HISTORY_LIMIT"
	EnvSchedulerTimezone = "SCHEDULER_TIMEZONE"
)

// applyEnv overlays environment variables on c. The current value of each
// field is the fallback for an invalid variable. Returns one warning per
// fallback applied.
func (c *Config) applyEnv() []string {
	var warnings []string
	collect := func(field string, r pkgconfig.ConfigLoadResult) pkgconfig.ConfigLoadResult {
		if r.FallbackApplied {
			configMetrics.RecordFallback(field)
			warnings = append(warnings, r.Warnings...)
		}
		return r
	}

	c.Server.Host = pkgconfig.LoadEnvString(EnvServerHost, c.Server.Host)
	c.Server.Port = collect("server.port", pkgconfig.LoadEnvInt(EnvServerPort, c.Server.Port, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 1, 65535)
	})).Value.(int)

	c.Logging.Level = collect("logging.level", pkgconfig.LoadEnvWithFallback(EnvLogLevel, c.Logging.Level, pkgconfig.ValidateLogLevel)).Value.(string)
	c.Logging.File = pkgconfig.LoadEnvString(EnvLogFile, c.Logging.File)

	c.Radarr.URL = pkgconfig.LoadEnvString(EnvRadarrURL, c.Radarr.URL)
	c.Radarr.APIKey = pkgconfig.LoadEnvString(EnvRadarrAPIKey, c.Radarr.APIKey)
	c.Radarr.Schedule = collect("radarr.schedule", pkgconfig.LoadEnvWithFallback(EnvRadarrSchedule, c.Radarr.Schedule, pkgconfig.ValidateCronSchedule)).Value.(string)
	c.Radarr.Timeout = Duration(collect("radarr.timeout", pkgconfig.LoadEnvDuration(EnvRadarrTimeout, c.Radarr.Timeout.Std(), pkgconfig.ValidatePositiveDuration)).Value.(time.Duration))

	c.Discord.WebhookURL = pkgconfig.LoadEnvString(EnvDiscordWebhookURL, c.Discord.WebhookURL)
	c.Discord.FlushSchedule = collect("discord.flush_schedule", pkgconfig.LoadEnvWithFallback(EnvDiscordFlush, c.Discord.FlushSchedule, pkgconfig.ValidateCronSchedule)).Value.(string)
	c.Discord.Timeout = Duration(collect("discord.timeout", pkgconfig.LoadEnvDuration(EnvDiscordTimeout, c.Discord.Timeout.Std(), pkgconfig.ValidatePositiveDuration)).Value.(time.Duration))

	c.Notifications.HistoryLimit = collect("notifications.history_limit", pkgconfig.LoadEnvInt(EnvHistoryLimit, c.Notifications.HistoryLimit, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 0, 1_000_000)
	})).Value.(int)

	c.Scheduler.Timezone = collect("scheduler.timezone", pkgconfig.LoadEnvWithFallback(EnvSchedulerTimezone, c.Scheduler.Timezone, pkgconfig.ValidateTimezone)).Value.(string)

	return warnings
}
