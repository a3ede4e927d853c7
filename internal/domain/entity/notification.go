// Package entity defines the core domain entities and validation logic for the application.
// It contains the notification records that flow from the health pollers to the
// webhook dispatcher, along with their validation rules and domain-specific errors.
package entity

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

// Severity is the alert level of a notification.
type Severity int

const (
	// SeverityInfo is an informational status (e.g. a health check that recovered).
	SeverityInfo Severity = iota
	// SeverityWarning is a degraded state that does not stop the service.
	SeverityWarning
	// SeverityError is a failure that needs operator attention.
	SeverityError
)

// String returns the lowercase wire form of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Label returns the capitalized form used in rendered messages.
func (s Severity) Label() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	return s >= SeverityInfo && s <= SeverityError
}

// MarshalText implements encoding.TextMarshaler so severities serialize as strings.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, &ValidationError{Field: "severity", Message: fmt.Sprintf("unknown severity %d", int(s))}
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity converts a case-insensitive string into a Severity.
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "info":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityInfo, &ValidationError{Field: "severity", Message: fmt.Sprintf("unknown severity %q", raw)}
	}
}

// BareNotification is an alert supplied by a caller before it has been
// deduplicated or assigned an identity.
type BareNotification struct {
	Severity Severity
	Message  string
}

// Fingerprint returns the dedup key of the notification.
func (b BareNotification) Fingerprint() uint64 {
	return Fingerprint(b.Severity, b.Message)
}

// Validate checks that the notification carries a known severity and a message.
func (b BareNotification) Validate() error {
	if !b.Severity.Valid() {
		return &ValidationError{Field: "severity", Message: fmt.Sprintf("unknown severity %d", int(b.Severity))}
	}
	if strings.TrimSpace(b.Message) == "" {
		return &ValidationError{Field: "message", Message: "message is required"}
	}
	return nil
}

// Notification is the process-lifetime record of a distinct alert.
// It is created exactly once per (severity, message) pair and its ID is never reused.
type Notification struct {
	ID          string    `json:"id"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	Fingerprint uint64    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

// Fingerprint hashes message and severity with 64-bit FNV-1a.
// A zero byte separates the fields so that the message cannot bleed into the severity.
func Fingerprint(severity Severity, message string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(message))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(severity.String()))
	return h.Sum64()
}
