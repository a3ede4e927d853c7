// Package radarr implements the client for Radarr's v3 health API.
package radarr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"radarr-notify/internal/domain/entity"
	"radarr-notify/internal/resilience/circuitbreaker"
)

const (
	userAgent          = "RadarrNotify/1.0"
	healthPath         = "/api/v3/health"
	defaultTimeout     = 10 * time.Second
	defaultMaxBodySize = 1 << 20
)

// HealthItem is one entry of GET /api/v3/health.
// Type carries Radarr's vocabulary (ok, notice, warning, error).
type HealthItem struct {
	Source  string `json:"source"`
	Type    string `json:"type"`
	Message string `json:"message"`
	WikiURL string `json:"wikiUrl,omitempty"`
}

// Config holds the connection settings for a Radarr instance.
//
// Fields:
//   - URL: Base URL, e.g. http://radarr:7878 (a path prefix for reverse proxies is kept)
//   - APIKey: Sent as the apiKey query parameter
//   - Timeout: Per-request timeout (default 10s)
//   - MaxBodySize: Response size limit in bytes (default 1MiB)
type Config struct {
	URL         string
	APIKey      string
	Timeout     time.Duration
	MaxBodySize int64
}

// Validate checks that URL and APIKey are usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return ErrMissingURL
	}
	if err := entity.ValidateEndpointURL("radarr.url", c.URL); err != nil {
		return err
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Client queries a Radarr instance.
//
// Thread safety: Client is safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	healthURL      string
	redactedURL    string
	maxBodySize    int64
	timeout        time.Duration
	logger         *slog.Logger
}

// NewClient validates cfg and creates a client.
//
// Parameters:
//   - cfg: Connection settings
//   - breaker: Circuit breaker guarding the health call; nil uses RadarrConfig()
//   - logger: Structured logger; nil uses slog.Default()
//
// Returns:
//   - *Client: Ready-to-use client
//   - error: Config validation error
func NewClient(cfg Config, breaker *circuitbreaker.CircuitBreaker, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	healthURL, err := buildHealthURL(cfg.URL, cfg.APIKey)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}
	if breaker == nil {
		breaker = circuitbreaker.New(circuitbreaker.RadarrConfig())
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		circuitBreaker: breaker,
		healthURL:      healthURL,
		redactedURL:    redactAPIKey(healthURL),
		maxBodySize:    cfg.MaxBodySize,
		timeout:        cfg.Timeout,
		logger:         logger.With(slog.String("source", "radarr")),
	}, nil
}

// Endpoint returns the health URL with the API key masked, for logging.
func (c *Client) Endpoint() string { return c.redactedURL }

// Breaker exposes the circuit breaker so callers can report its state.
func (c *Client) Breaker() *circuitbreaker.CircuitBreaker { return c.circuitBreaker }

// Health fetches the current health items.
//
// The request runs through the circuit breaker. When the breaker is open the
// call returns gobreaker.ErrOpenState without touching the network.
//
// Returns:
//   - []HealthItem: Items in the order Radarr returned them (empty when healthy)
//   - error: Transport error, *StatusError, ErrBodyTooLarge or ErrMalformedResponse
func (c *Client) Health(ctx context.Context) ([]HealthItem, error) {
	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doHealth(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]HealthItem), nil
}

func (c *Client) doHealth(ctx context.Context) ([]HealthItem, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = c.redactedURL
		}
		return nil, fmt.Errorf("radarr health request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read radarr response: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrBodyTooLarge, c.maxBodySize)
	}

	var items []HealthItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if items == nil {
		items = []HealthItem{}
	}

	c.logger.DebugContext(ctx, "radarr health fetched", slog.Int("items", len(items)))
	return items, nil
}

// buildHealthURL appends /api/v3/health to any existing base path and sets apiKey.
func buildHealthURL(base, apiKey string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse radarr url: %w", err)
	}
	u.Path = strings.TrimRight(u.Path, "/") + healthPath
	q := u.Query()
	q.Set("apiKey", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func redactAPIKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("apiKey") {
		q.Set("apiKey", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
