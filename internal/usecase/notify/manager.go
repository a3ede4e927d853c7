// Package notify deduplicates alerts and hands new ones to a queued webhook
// dispatcher.
//
// A Manager keeps the process-lifetime history of distinct notifications,
// keyed by the fingerprint of (severity, message). Submitting an alert that
// is already in history has no effect. A new alert is assigned a UUID,
// appended to history and enqueued on the Dispatcher in one critical
// section, so concurrent submissions of the same alert produce exactly one
// history entry and one delivery.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"radarr-notify/internal/domain/entity"
)

// ManagerConfig tunes a Manager.
//
// Fields:
//   - HistoryLimit: Maximum number of notifications kept. Zero keeps all of
//     them. When the limit is reached the oldest entry is evicted, and its
//     alert may be delivered again if it recurs.
type ManagerConfig struct {
	HistoryLimit int
}

// Manager is the shared, lock-guarded notification history.
type Manager struct {
	dispatcher Dispatcher
	limit      int
	logger     *slog.Logger

	newID func() string
	now   func() time.Time

	mu      sync.Mutex
	history []entity.Notification
	seen    map[uint64]entity.Notification
}

// NewManager creates a Manager that forwards new notifications to dispatcher.
//
// Parameters:
//   - dispatcher: Outbound queue (must not be nil)
//   - cfg: History bound
//   - logger: Structured logger; nil uses slog.Default()
//
// Returns:
//   - *Manager: Manager with empty history
//   - error: ErrNilDispatcher if dispatcher is nil
func NewManager(dispatcher Dispatcher, cfg ManagerConfig, logger *slog.Logger) (*Manager, error) {
	if dispatcher == nil {
		return nil, ErrNilDispatcher
	}
	if logger == nil {
		logger = slog.Default()
	}
	limit := cfg.HistoryLimit
	if limit < 0 {
		limit = 0
	}
	return &Manager{
		dispatcher: dispatcher,
		limit:      limit,
		logger:     logger.With(slog.String("component", "notify")),
		newID:      uuid.NewString,
		now:        time.Now,
		seen:       make(map[uint64]entity.Notification),
	}, nil
}

// Submit records bare if it has not been seen before and enqueues it for
// delivery.
//
// Returns:
//   - (existing, false) if a notification with the same severity and
//     message is already in history; nothing is changed
//   - (created, true) if bare was new; it is now in history and queued
//
// Submit never blocks on network I/O. A failure to enqueue is logged and
// counted; the notification stays in history.
func (m *Manager) Submit(ctx context.Context, bare entity.BareNotification) (entity.Notification, bool) {
	fp := bare.Fingerprint()

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.seen[fp]; ok {
		RecordSubmitted(false)
		m.logger.DebugContext(ctx, "duplicate notification suppressed",
			slog.String("notification_id", existing.ID),
			slog.String("severity", bare.Severity.String()))
		return existing, false
	}

	n := entity.Notification{
		ID:          m.newID(),
		Severity:    bare.Severity,
		Message:     bare.Message,
		Fingerprint: fp,
		CreatedAt:   m.now(),
	}

	if m.limit > 0 && len(m.history) >= m.limit {
		m.evictOldestLocked()
	}
	m.history = append(m.history, n)
	m.seen[fp] = n
	SetHistorySize(len(m.history))
	RecordSubmitted(true)

	if err := m.dispatcher.Enqueue(n); err != nil {
		m.logger.ErrorContext(ctx, "failed to enqueue notification",
			slog.String("notification_id", n.ID),
			slog.String("dispatcher", m.dispatcher.Name()),
			slog.Any("error", err))
		return n, true
	}

	m.logger.InfoContext(ctx, "notification queued",
		slog.String("notification_id", n.ID),
		slog.String("severity", n.Severity.String()),
		slog.String("dispatcher", m.dispatcher.Name()))
	return n, true
}

// History returns a copy of the recorded notifications, oldest first.
func (m *Manager) History() []entity.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Notification, len(m.history))
	copy(out, m.history)
	return out
}

// Len returns the number of recorded notifications.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.history)
}

func (m *Manager) evictOldestLocked() {
	oldest := m.history[0]
	delete(m.seen, oldest.Fingerprint)
	copy(m.history, m.history[1:])
	m.history[len(m.history)-1] = entity.Notification{}
	m.history = m.history[:len(m.history)-1]
	RecordEvicted()
	m.logger.Debug("notification evicted from history", slog.String("notification_id", oldest.ID))
}
