package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"

	"radarr-notify/internal/domain/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockSender records sent payloads and fails those listed in failOn.
type mockSender struct {
	mu        sync.Mutex
	sent      [][]byte
	attempts  int
	failOn    map[string]bool
	failAll   bool
	renderErr error
}

type mockPayload struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (m *mockSender) Name() string { return "mock" }

func (m *mockSender) Render(n entity.Notification) ([]byte, error) {
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	return json.Marshal(mockPayload{ID: n.ID, Message: n.Message})
}

func (m *mockSender) Send(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++

	var p mockPayload
	_ = json.Unmarshal(payload, &p)
	if m.failAll || m.failOn[p.Message] {
		return errors.New("webhook unreachable")
	}
	m.sent = append(m.sent, payload)
	return nil
}

func (m *mockSender) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, raw := range m.sent {
		var p mockPayload
		_ = json.Unmarshal(raw, &p)
		out = append(out, p.Message)
	}
	return out
}

func (m *mockSender) attemptCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// recordingDispatcher counts Enqueue calls without sending anything.
type recordingDispatcher struct {
	mu       sync.Mutex
	enqueued []entity.Notification
	err      error
}

func (r *recordingDispatcher) Name() string { return "recording" }

func (r *recordingDispatcher) Enqueue(n entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.enqueued = append(r.enqueued, n)
	return nil
}

func (r *recordingDispatcher) Flush(context.Context) error { return nil }

func (r *recordingDispatcher) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.enqueued)
}
