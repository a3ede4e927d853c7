package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"radarr-notify/internal/domain/entity"
)

// NoOpNotifier writes notifications to the log instead of a webhook.
// It is used when no webhook URL is configured so that polling and
// deduplication still run.
type NoOpNotifier struct {
	logger *slog.Logger
}

var _ Notifier = (*NoOpNotifier)(nil)

// NewNoOpNotifier creates a NoOpNotifier. A nil logger uses slog.Default().
func NewNoOpNotifier(logger *slog.Logger) *NoOpNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoOpNotifier{logger: logger}
}

// Name returns "noop".
func (n *NoOpNotifier) Name() string { return "noop" }

// Render formats n as a single plain-text line.
func (n *NoOpNotifier) Render(notification entity.Notification) ([]byte, error) {
	return []byte(fmt.Sprintf("[%s] %s", notification.Severity.Label(), notification.Message)), nil
}

// Send logs payload and always succeeds.
func (n *NoOpNotifier) Send(ctx context.Context, payload []byte) error {
	n.logger.InfoContext(ctx, "notification (no webhook configured)", slog.String("message", string(payload)))
	return nil
}
