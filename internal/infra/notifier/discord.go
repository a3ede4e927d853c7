package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"radarr-notify/internal/domain/entity"
)

// DiscordConfig holds the settings for a Discord webhook.
//
// Fields:
//   - WebhookURL: https://discord.com/api/webhooks/{id}/{token}
//   - Username: Optional display name overriding the webhook's default
//   - Timeout: HTTP client timeout per request (default 10s)
//   - RateLimit: Requests per second; zero or negative disables pacing
//   - RateBurst: Token bucket size
type DiscordConfig struct {
	WebhookURL string
	Username   string
	Timeout    time.Duration
	RateLimit  float64
	RateBurst  int
}

// DefaultDiscordConfig returns the timeout and pacing used when the
// configuration file leaves them unset.
func DefaultDiscordConfig() DiscordConfig {
	return DiscordConfig{
		Timeout:   10 * time.Second,
		RateLimit: 2,
		RateBurst: 5,
	}
}

// DiscordNotifier posts notifications to a Discord webhook.
type DiscordNotifier struct {
	endpoint    string
	redacted    string
	username    string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

var _ Notifier = (*DiscordNotifier)(nil)

// DiscordWebhookPayload is the JSON body of a webhook execution.
type DiscordWebhookPayload struct {
	Content  string `json:"content"`
	Username string `json:"username,omitempty"`
}

// DiscordErrorResponse is the JSON body Discord returns on errors.
type DiscordErrorResponse struct {
	Message    string  `json:"message"`
	Code       int     `json:"code"`
	RetryAfter float64 `json:"retry_after"` // seconds
}

const (
	// maxContentLength is Discord's limit on message content, in characters.
	maxContentLength = 2000
	truncationSuffix = "..."

	defaultRetryAfter = 5 * time.Second
)

// NewDiscordNotifier validates cfg and creates a notifier.
//
// The query parameter wait=true is added to the webhook URL so Discord
// confirms delivery synchronously and reports errors in the response.
//
// Returns:
//   - error: ErrMissingWebhookURL if cfg.WebhookURL is empty,
//     ErrInvalidWebhookURL if it is not an absolute http(s) URL
func NewDiscordNotifier(cfg DiscordConfig, logger *slog.Logger) (*DiscordNotifier, error) {
	if cfg.WebhookURL == "" {
		return nil, ErrMissingWebhookURL
	}
	if err := entity.ValidateEndpointURL("discord.webhook_url", cfg.WebhookURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhookURL, err)
	}
	u, err := url.Parse(cfg.WebhookURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWebhookURL, err)
	}
	q := u.Query()
	q.Set("wait", "true")
	u.RawQuery = q.Encode()

	defaults := DefaultDiscordConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DiscordNotifier{
		endpoint:    u.String(),
		redacted:    redactWebhookURL(u),
		username:    cfg.Username,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
		logger:      logger.With(slog.String("channel", "discord")),
	}, nil
}

// Name returns "discord".
func (d *DiscordNotifier) Name() string { return "discord" }

// Endpoint returns the webhook URL with its token redacted, for logging.
func (d *DiscordNotifier) Endpoint() string { return d.redacted }

// Render builds {"content": "**Warning**: message"}, truncated to Discord's
// content limit.
func (d *DiscordNotifier) Render(n entity.Notification) ([]byte, error) {
	content := fmt.Sprintf("**%s**: %s", n.Severity.Label(), n.Message)
	payload := DiscordWebhookPayload{
		Content:  truncate(content, maxContentLength, truncationSuffix),
		Username: d.username,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal webhook payload: %w", err)
	}
	return data, nil
}

// Send implements Notifier.Send. The request is attempted exactly once.
func (d *DiscordNotifier) Send(ctx context.Context, payload []byte) error {
	wait, err := d.rateLimiter.Wait(ctx)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	if wait > 0 {
		recordRateLimitWait(d.Name(), wait)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = d.redacted
		}
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil

	case resp.StatusCode == http.StatusTooManyRequests:
		recordRateLimitHit(d.Name())
		retryAfter := extractRetryAfter(resp, body)
		d.logger.WarnContext(ctx, "Discord rate limit hit, message dropped",
			slog.Duration("retry_after", retryAfter))
		return &RateLimitError{
			Message:    "Discord rate limit exceeded",
			RetryAfter: retryAfter,
		}

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Discord API client error %d: %s", resp.StatusCode, bodySnippet(body)),
		}

	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Discord API server error %d: %s", resp.StatusCode, bodySnippet(body)),
		}
	}

	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, bodySnippet(body))
}

// extractRetryAfter reads the back-off Discord asked for, first from the
// JSON body, then from the Retry-After header, defaulting to five seconds.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var discordErr DiscordErrorResponse
	if err := json.Unmarshal(body, &discordErr); err == nil && discordErr.RetryAfter > 0 {
		return time.Duration(discordErr.RetryAfter * float64(time.Second))
	}

	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return defaultRetryAfter
}
