package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"radarr-notify/internal/domain/entity"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const jsonConfig = `{
  "server": {"host": "127.0.0.1", "port": 8080},
  "database_path": "./data.db",
  "logging": {"level": "debug", "file": "/tmp/radarr-notify.log"},
  "radarr": {"url": "http://radarr:7878", "apikey": "abc123"},
  "discord": {"webhook_url": "https://discord.com/api/webhooks/1/token", "timeout": "5s"},
  "notifications": {"history_limit": 500}
}`

const yamlConfig = `
server:
  host: 127.0.0.1
  port: 8080
logging:
  level: warn
  format: text
radarr:
  url: http://radarr:7878
  apikey: abc123
  schedule: "@every 30s"
  enabled: false
discord:
  webhook_url: https://discord.com/api/webhooks/1/token
  flush_schedule: "*/15 * * * * *"
  rate_limit: 0.5
scheduler:
  timezone: Europe/Berlin
  job_timeout: 2m
`

func TestLoad_JSON(t *testing.T) {
	// Arrange
	path := writeFile(t, "config.json", jsonConfig)

	// Act
	cfg, err := Load(path, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, "./data.db", cfg.DatabasePath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/radarr-notify.log", cfg.Logging.File)
	assert.Equal(t, "http://radarr:7878", cfg.Radarr.URL)
	assert.Equal(t, "abc123", cfg.Radarr.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Discord.Timeout.Std())
	assert.Equal(t, 500, cfg.Notifications.HistoryLimit)

	// Unset fields keep their defaults.
	assert.Equal(t, "*/10 * * * * *", cfg.Radarr.Schedule)
	assert.True(t, cfg.Radarr.Enabled)
	assert.Equal(t, "*/5 * * * * *", cfg.Discord.FlushSchedule)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "UTC", cfg.Scheduler.Timezone)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", yamlConfig)

	cfg, err := Load(path, nil)

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "@every 30s", cfg.Radarr.Schedule)
	assert.False(t, cfg.Radarr.Enabled)
	assert.Equal(t, "*/15 * * * * *", cfg.Discord.FlushSchedule)
	assert.InDelta(t, 0.5, cfg.Discord.RateLimit, 1e-9)
	assert.Equal(t, "Europe/Berlin", cfg.Scheduler.Timezone)
	assert.Equal(t, 2*time.Minute, cfg.Scheduler.JobTimeout.Std())
	assert.Equal(t, "https://discord.com/api/webhooks/1/token", cfg.Discord.WebhookURL)
}

func TestLoad_FileErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			wantErr: os.ErrNotExist,
		},
		{
			name:    "unsupported extension",
			path:    func(t *testing.T) string { return writeFile(t, "config.toml", "x = 1") },
			wantErr: ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t), nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := Load(writeFile(t, "config.json", `{"server":`), nil)
		assert.ErrorContains(t, err, "failed to parse config")
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Load(writeFile(t, "config.json", `{"radarr":{"timeout":"soon"}}`), nil)
		assert.ErrorContains(t, err, "invalid duration")
	})
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	// Arrange
	path := writeFile(t, "config.json", jsonConfig)
	t.Setenv(EnvRadarrURL, "https://radarr.example.com")
	t.Setenv(EnvRadarrAPIKey, "from-env")
	t.Setenv(EnvDiscordWebhookURL, "https://discord.com/api/webhooks/2/other")
	t.Setenv(EnvLogLevel, "ERROR")
	t.Setenv(EnvServerPort, "9090")

	// Act
	cfg, err := Load(path, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://radarr.example.com", cfg.Radarr.URL)
	assert.Equal(t, "from-env", cfg.Radarr.APIKey)
	assert.Equal(t, "https://discord.com/api/webhooks/2/other", cfg.Discord.WebhookURL)
	assert.Equal(t, "ERROR", cfg.Logging.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_InvalidEnvironmentFallsBack(t *testing.T) {
	// Arrange
	path := writeFile(t, "config.json", jsonConfig)
	t.Setenv(EnvRadarrSchedule, "every now and then")
	t.Setenv(EnvServerPort, "99999")
	before := testutil.ToFloat64(configMetrics.FallbacksTotal.WithLabelValues("radarr.schedule"))

	// Act
	cfg, err := Load(path, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "*/10 * * * * *", cfg.Radarr.Schedule)
	assert.Equal(t, 8080, cfg.Server.Port, "file value is the fallback")
	assert.Equal(t, before+1, testutil.ToFloat64(configMetrics.FallbacksTotal.WithLabelValues("radarr.schedule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(configMetrics.FallbackActive))
}

func TestLoad_MissingWebhookIsFatal(t *testing.T) {
	// Arrange
	path := writeFile(t, "config.json", `{"radarr":{"url":"http://radarr:7878","apikey":"abc123"}}`)

	// Act
	cfg, err := Load(path, nil)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, entity.ErrValidationFailed)
	assert.Contains(t, err.Error(), "discord.webhook_url")
}

func TestLoad_EnvironmentOnly(t *testing.T) {
	t.Setenv(EnvRadarrURL, "http://localhost:7878")
	t.Setenv(EnvRadarrAPIKey, "k")
	t.Setenv(EnvDiscordWebhookURL, "https://discord.com/api/webhooks/1/token")

	cfg, err := Load("", nil)

	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "http://localhost:7878", cfg.Radarr.URL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Radarr.URL = "http://radarr:7878"
		cfg.Radarr.APIKey = "k"
		cfg.Discord.WebhookURL = "https://discord.com/api/webhooks/1/token"
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantParts []string
	}{
		{"valid", func(c *Config) {}, nil},
		{"missing radarr", func(c *Config) { c.Radarr.URL = ""; c.Radarr.APIKey = "" }, []string{"radarr.url", "radarr.apikey"}},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, []string{"server.port"}},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, []string{"logging.level"}},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, []string{"logging.format"}},
		{"five field cron accepted", func(c *Config) { c.Radarr.Schedule = "*/5 * * * *" }, nil},
		{"bad cron", func(c *Config) { c.Discord.FlushSchedule = "often" }, []string{"discord.flush_schedule"}},
		{"bad webhook", func(c *Config) { c.Discord.WebhookURL = "discord.com/hook" }, []string{"discord.webhook_url"}},
		{"missing webhook", func(c *Config) { c.Discord.WebhookURL = "" }, []string{"discord.webhook_url", "URL is required"}},
		{"negative history", func(c *Config) { c.Notifications.HistoryLimit = -1 }, []string{"notifications.history_limit"}},
		{"bad timezone", func(c *Config) { c.Scheduler.Timezone = "Mars/Olympus" }, []string{"scheduler.timezone"}},
		{"zero timeout", func(c *Config) { c.Radarr.Timeout = 0 }, []string{"radarr.timeout"}},
		{
			name: "errors are aggregated",
			mutate: func(c *Config) {
				c.Server.Port = 70000
				c.Discord.RateLimit = -1
				c.Discord.RateBurst = 0
			},
			wantParts: []string{"server.port", "discord.rate_limit", "discord.rate_burst"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if len(tt.wantParts) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, part := range tt.wantParts {
				assert.Contains(t, err.Error(), part)
			}
		})
	}
}

func TestValidate_EndpointErrorsAreValidationErrors(t *testing.T) {
	cfg := Default()
	cfg.Radarr.APIKey = "k"

	err := cfg.Validate()

	assert.ErrorIs(t, err, entity.ErrValidationFailed)
}

func TestDuration_Text(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("90")))
}
