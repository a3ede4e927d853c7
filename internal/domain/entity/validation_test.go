package entity

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateEndpointURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name:    "valid https URL",
			url:     "https://discord.com/api/webhooks/1/token",
			wantErr: false,
		},
		{
			name:    "valid http URL on the local network",
			url:     "http://192.168.1.20:7878",
			wantErr: false,
		},
		{
			name:    "valid URL with query",
			url:     "https://example.com/hook?thread_id=1",
			wantErr: false,
		},
		{
			name:    "empty URL",
			url:     "",
			wantErr: true,
		},
		{
			name:    "invalid scheme - ftp",
			url:     "ftp://example.com/feed",
			wantErr: true,
		},
		{
			name:    "invalid scheme - javascript",
			url:     "javascript:alert(1)",
			wantErr: true,
		},
		{
			name:    "no host",
			url:     "https://",
			wantErr: true,
		},
		{
			name:    "unparsable",
			url:     "http://[::1",
			wantErr: true,
		},
		{
			name:    "too long",
			url:     "https://example.com/" + strings.Repeat("a", maxURLLength),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpointURL("radarr.url", tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateEndpointURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if vErr.Field != "radarr.url" {
				t.Errorf("Field = %q, want %q", vErr.Field, "radarr.url")
			}
		})
	}
}
