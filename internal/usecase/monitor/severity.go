package monitor

import (
	"strings"

	"radarr-notify/internal/domain/entity"
)

// MapSeverity converts a Radarr health type into a Severity.
//
// ok, notice and info map to Info, warning to Warning and error to Error.
// Any other value maps to Warning and known is false so the caller can log it.
func MapSeverity(healthType string) (severity entity.Severity, known bool) {
	switch strings.ToLower(strings.TrimSpace(healthType)) {
	case "ok", "notice", "info":
		return entity.SeverityInfo, true
	case "warning":
		return entity.SeverityWarning, true
	case "error":
		return entity.SeverityError, true
	default:
		return entity.SeverityWarning, false
	}
}
