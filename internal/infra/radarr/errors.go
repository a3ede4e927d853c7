package radarr

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingURL is returned when no Radarr base URL is configured.
	ErrMissingURL = errors.New("radarr url is required")

	// ErrMissingAPIKey is returned when no Radarr API key is configured.
	ErrMissingAPIKey = errors.New("radarr api key is required")

	// ErrMalformedResponse is returned when the health body is not the expected JSON array.
	ErrMalformedResponse = errors.New("malformed radarr health response")

	// ErrBodyTooLarge is returned when the response exceeds MaxBodySize.
	ErrBodyTooLarge = errors.New("radarr response body too large")
)

// StatusError reports a non-200 answer from Radarr.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("radarr returned HTTP %d: %s", e.StatusCode, e.Status)
}
