package notifier

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ErrMissingWebhookURL is returned when a webhook notifier is built without a URL.
	ErrMissingWebhookURL = errors.New("webhook URL is required")

	// ErrInvalidWebhookURL is returned when the webhook URL is malformed.
	ErrInvalidWebhookURL = errors.New("invalid webhook URL")
)

// RateLimitError is returned when the target answers 429 Too Many Requests.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError is returned for 4xx responses other than 429.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// ServerError is returned for 5xx responses.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// IsRateLimited reports whether err carries a *RateLimitError.
func IsRateLimited(err error) (*RateLimitError, bool) {
	var rateLimitErr *RateLimitError
	if errors.As(err, &rateLimitErr) {
		return rateLimitErr, true
	}
	return nil, false
}

// truncate shortens text to at most maxRunes runes, replacing the tail with
// suffix when it had to cut.
func truncate(text string, maxRunes int, suffix string) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	keep := maxRunes - utf8.RuneCountInString(suffix)
	if keep < 0 {
		keep = 0
	}

	var b strings.Builder
	n := 0
	for _, r := range text {
		if n == keep {
			break
		}
		b.WriteRune(r)
		n++
	}
	b.WriteString(suffix)
	return b.String()
}

// redactWebhookURL hides the secret token of a webhook URL.
// "https://discord.com/api/webhooks/123/abc?wait=true" becomes
// "https://discord.com/api/webhooks/123/****".
func redactWebhookURL(u *url.URL) string {
	redacted := *u
	redacted.RawQuery = ""
	redacted.User = nil

	segments := strings.Split(strings.TrimSuffix(redacted.Path, "/"), "/")
	if len(segments) > 1 {
		segments[len(segments)-1] = "****"
	}
	redacted.Path = strings.Join(segments, "/")
	redacted.RawPath = ""
	return redacted.String()
}

// bodySnippet returns at most 200 runes of a response body for error messages.
func bodySnippet(body []byte) string {
	return truncate(strings.TrimSpace(string(body)), 200, "...")
}
