// Package config loads the application configuration from a JSON or YAML
// file, overlays environment variables and validates the result.
//
// Precedence: built-in defaults, then the file, then the environment.
// Environment values that fail validation fall back to the file value and
// are reported as warnings rather than errors.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"radarr-notify/internal/domain/entity"
	pkgconfig "radarr-notify/internal/pkg/config"
)

// ErrUnsupportedFormat is returned for config files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// configMetrics records load and validation outcomes.
var configMetrics = pkgconfig.NewConfigMetrics("radarr_notify")

// Config is the complete application configuration.
type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	// DatabasePath is accepted for compatibility with existing config files.
	// Notification history is kept in memory only.
	DatabasePath  string              `json:"database_path,omitempty" yaml:"database_path,omitempty"`
	Logging       LoggingConfig       `json:"logging" yaml:"logging"`
	Radarr        RadarrConfig        `json:"radarr" yaml:"radarr"`
	Discord       DiscordConfig       `json:"discord" yaml:"discord"`
	Notifications NotificationsConfig `json:"notifications" yaml:"notifications"`
	Scheduler     SchedulerConfig     `json:"scheduler" yaml:"scheduler"`
}

// ServerConfig is the HTTP control surface listener.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
	// ShutdownTimeout bounds graceful shutdown. Default: 10s
	ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error. Default: info
	Level string `json:"level" yaml:"level"`
	// File, when set, receives log output in addition to stdout.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	// Format is json or text. Default: json
	Format string `json:"format" yaml:"format"`
}

// RadarrConfig is the monitored Radarr instance.
type RadarrConfig struct {
	URL    string `json:"url" yaml:"url"`
	APIKey string `json:"apikey" yaml:"apikey"`
	// Schedule of the poll job. Default: every 10 seconds
	Schedule string `json:"schedule" yaml:"schedule"`
	// Timeout per health request. Default: 10s
	Timeout Duration `json:"timeout" yaml:"timeout"`
	// Enabled registers the poll job at startup. Default: true
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// DiscordConfig is the webhook target. WebhookURL is required.
type DiscordConfig struct {
	WebhookURL string `json:"webhook_url" yaml:"webhook_url"`
	Username   string `json:"username,omitempty" yaml:"username,omitempty"`
	// FlushSchedule of the dispatch job. Default: every 5 seconds
	FlushSchedule string `json:"flush_schedule" yaml:"flush_schedule"`
	// Timeout per webhook request. Default: 10s
	Timeout Duration `json:"timeout" yaml:"timeout"`
	// RateLimit in requests per second; 0 disables pacing. Default: 2
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`
	// RateBurst is the token bucket size. Default: 5
	RateBurst int `json:"rate_burst" yaml:"rate_burst"`
}

// NotificationsConfig bounds the notification history.
type NotificationsConfig struct {
	// HistoryLimit is the maximum number of distinct notifications kept;
	// 0 keeps all of them. Default: 0
	HistoryLimit int `json:"history_limit" yaml:"history_limit"`
}

// SchedulerConfig configures the cron scheduler.
type SchedulerConfig struct {
	// Timezone for cron expressions. Default: UTC
	Timezone string `json:"timezone" yaml:"timezone"`
	// JobTimeout bounds a job run that sets no timeout of its own. Default: 1m
	JobTimeout Duration `json:"job_timeout" yaml:"job_timeout"`
}

// Default returns the configuration used when neither the file nor the
// environment sets a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Radarr: RadarrConfig{
			Schedule: "*/10 * * * * *",
			Timeout:  Duration(10 * time.Second),
			Enabled:  true,
		},
		Discord: DiscordConfig{
			FlushSchedule: "*/5 * * * * *",
			Timeout:       Duration(10 * time.Second),
			RateLimit:     2,
			RateBurst:     5,
		},
		Scheduler: SchedulerConfig{
			Timezone:   "UTC",
			JobTimeout: Duration(time.Minute),
		},
	}
}

// Load builds the configuration.
//
// Parameters:
//   - path: JSON (.json) or YAML (.yaml, .yml) file; empty skips the file
//   - logger: Receives environment fallback warnings; nil uses slog.Default()
//
// Returns:
//   - *Config: Validated configuration
//   - error: Read, parse or validation error. Validation errors are joined,
//     so every problem is reported at once.
func Load(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	warnings := cfg.applyEnv()
	for _, w := range warnings {
		logger.Warn("configuration fallback", slog.String("warning", w))
	}
	configMetrics.SetFallbackActive(len(warnings) > 0)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	configMetrics.RecordLoadTimestamp()
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	// #nosec G304 -- path is provided by the operator on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// Validate checks every field and returns all problems joined together.
// Each failing field is counted in the validation error metric.
func (c *Config) Validate() error {
	var errs []error
	check := func(field string, err error) {
		if err == nil {
			return
		}
		configMetrics.RecordValidationError(field)
		var ve *entity.ValidationError
		if errors.As(err, &ve) {
			errs = append(errs, err)
			return
		}
		errs = append(errs, fmt.Errorf("%s: %w", field, err))
	}

	check("server.port", pkgconfig.ValidateIntRange(c.Server.Port, 1, 65535))
	check("server.shutdown_timeout", pkgconfig.ValidatePositiveDuration(c.Server.ShutdownTimeout.Std()))

	check("logging.level", pkgconfig.ValidateLogLevel(c.Logging.Level))
	if f := strings.ToLower(c.Logging.Format); f != "json" && f != "text" {
		check("logging.format", fmt.Errorf("invalid log format '%s': must be json or text", c.Logging.Format))
	}

	check("radarr.url", entity.ValidateEndpointURL("radarr.url", c.Radarr.URL))
	if strings.TrimSpace(c.Radarr.APIKey) == "" {
		check("radarr.apikey", errors.New("api key is required"))
	}
	check("radarr.schedule", pkgconfig.ValidateCronSchedule(c.Radarr.Schedule))
	check("radarr.timeout", pkgconfig.ValidatePositiveDuration(c.Radarr.Timeout.Std()))

	check("discord.webhook_url", entity.ValidateEndpointURL("discord.webhook_url", c.Discord.WebhookURL))
	check("discord.flush_schedule", pkgconfig.ValidateCronSchedule(c.Discord.FlushSchedule))
	check("discord.timeout", pkgconfig.ValidatePositiveDuration(c.Discord.Timeout.Std()))
	if c.Discord.RateLimit < 0 {
		check("discord.rate_limit", fmt.Errorf("rate limit must be zero or positive, got %v", c.Discord.RateLimit))
	}
	check("discord.rate_burst", pkgconfig.ValidateIntRange(c.Discord.RateBurst, 1, 100))

	check("notifications.history_limit", pkgconfig.ValidateIntRange(c.Notifications.HistoryLimit, 0, 1_000_000))

	check("scheduler.timezone", pkgconfig.ValidateTimezone(c.Scheduler.Timezone))
	check("scheduler.job_timeout", pkgconfig.ValidatePositiveDuration(c.Scheduler.JobTimeout.Std()))

	return errors.Join(errs...)
}
