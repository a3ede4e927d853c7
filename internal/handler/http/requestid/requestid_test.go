package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{"with request ID", WithRequestID(context.Background(), "test-id-123"), "test-id-123"},
		{"without request ID", context.Background(), ""},
		{"with invalid type in context", context.WithValue(context.Background(), RequestIDKey, 12345), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromContext(tt.ctx))
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"abc-123_x.y", true},
		{uuid.NewString(), true},
		{"", false},
		{strings.Repeat("a", 129), false},
		{"has space", false},
		{"line\nbreak", false},
		{`quote"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.id))
		})
	}
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantReuse bool
	}{
		{"generates when absent", "", false},
		{"propagates valid header", "client-req-42", true},
		{"replaces invalid header", "bad id\r\nInjected: yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var seen string
			handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = FromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rr := httptest.NewRecorder()

			// Act
			handler.ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
			if tt.wantReuse {
				assert.Equal(t, tt.header, seen)
				return
			}
			_, err := uuid.Parse(seen)
			require.NoError(t, err, "a fresh UUID is generated")
		})
	}
}
