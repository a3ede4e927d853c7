package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"radarr-notify/internal/domain/entity"
)

func TestMapSeverity(t *testing.T) {
	tests := []struct {
		input     string
		want      entity.Severity
		wantKnown bool
	}{
		{"ok", entity.SeverityInfo, true},
		{"notice", entity.SeverityInfo, true},
		{"info", entity.SeverityInfo, true},
		{"warning", entity.SeverityWarning, true},
		{"Warning", entity.SeverityWarning, true},
		{"error", entity.SeverityError, true},
		{" ERROR ", entity.SeverityError, true},
		{"critical", entity.SeverityWarning, false},
		{"", entity.SeverityWarning, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, known := MapSeverity(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantKnown, known)
		})
	}
}
