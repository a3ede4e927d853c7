package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"radarr-notify/internal/domain/entity"
	"radarr-notify/internal/observability/tracing"
)

// Dispatcher accepts notifications for later delivery to one remote target.
//
// Enqueue must not perform I/O: the Manager calls it while holding its
// history lock. Delivery happens in Flush, which a scheduler job calls on
// its own cadence.
type Dispatcher interface {
	// Name identifies the target in logs and metrics (e.g. "discord").
	Name() string

	// Enqueue renders n and appends it to the outbound queue.
	Enqueue(n entity.Notification) error

	// Flush drains the queue and transmits every drained message once.
	// The queue is empty afterwards regardless of the outcome.
	Flush(ctx context.Context) error

	// Pending returns the number of queued messages.
	Pending() int
}

// Sender delivers pre-rendered payloads to a webhook.
// infra/notifier provides the Discord and no-op implementations.
type Sender interface {
	Name() string
	Render(n entity.Notification) ([]byte, error)
	Send(ctx context.Context, payload []byte) error
}

// OutboundMessage is a notification rendered at enqueue time so Flush
// never formats.
type OutboundMessage struct {
	NotificationID string
	Severity       entity.Severity
	Payload        []byte
}

// QueueDispatcher is a Dispatcher backed by an in-memory queue and a Sender.
//
// The queue lock is held only to append or to swap the queue for an empty
// one. Sends run outside it, sequentially and in enqueue order. Messages
// that fail to send are logged, counted and discarded.
type QueueDispatcher struct {
	sender Sender
	logger *slog.Logger

	mu    sync.Mutex
	queue []OutboundMessage

	// flushMu keeps concurrent flushes from interleaving their batches.
	flushMu sync.Mutex
}

var _ Dispatcher = (*QueueDispatcher)(nil)

// NewQueueDispatcher creates a dispatcher that delivers through sender.
//
// Parameters:
//   - sender: Webhook transport (must not be nil)
//   - logger: Structured logger; nil uses slog.Default()
//
// Returns:
//   - *QueueDispatcher: Dispatcher with an empty queue
//   - error: ErrNilSender if sender is nil
func NewQueueDispatcher(sender Sender, logger *slog.Logger) (*QueueDispatcher, error) {
	if sender == nil {
		return nil, ErrNilSender
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueDispatcher{
		sender: sender,
		logger: logger.With(slog.String("channel", sender.Name())),
	}, nil
}

// Name returns the sender's name.
func (d *QueueDispatcher) Name() string {
	return d.sender.Name()
}

// Enqueue implements Dispatcher.Enqueue.
func (d *QueueDispatcher) Enqueue(n entity.Notification) error {
	payload, err := d.sender.Render(n)
	if err != nil {
		RecordDropped(d.Name(), "enqueue_failed")
		return fmt.Errorf("%w %s: %v", ErrRenderFailed, n.ID, err)
	}

	d.mu.Lock()
	d.queue = append(d.queue, OutboundMessage{
		NotificationID: n.ID,
		Severity:       n.Severity,
		Payload:        payload,
	})
	SetQueuePending(d.Name(), len(d.queue))
	d.mu.Unlock()

	return nil
}

// Pending implements Dispatcher.Pending.
func (d *QueueDispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Flush implements Dispatcher.Flush.
//
// Returns:
//   - nil if the queue was empty or every message was delivered
//   - *FlushError if any message failed; the failed messages are gone
func (d *QueueDispatcher) Flush(ctx context.Context) error {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	batch := d.drain()
	if len(batch) == 0 {
		return nil
	}

	ctx, span := tracing.Tracer().Start(ctx, "notify.Flush")
	defer span.End()

	var errs []error
	for _, msg := range batch {
		start := time.Now()
		err := d.sender.Send(ctx, msg.Payload)
		elapsed := time.Since(start)

		if err != nil {
			RecordFailure(d.Name(), elapsed)
			RecordDropped(d.Name(), "send_failed")
			d.logger.Warn("notification delivery failed",
				slog.String("notification_id", msg.NotificationID),
				slog.String("severity", msg.Severity.String()),
				slog.Duration("send_duration", elapsed),
				slog.Any("error", err))
			errs = append(errs, fmt.Errorf("notification %s: %w", msg.NotificationID, err))
			continue
		}

		RecordSuccess(d.Name(), elapsed)
		d.logger.Debug("notification delivered",
			slog.String("notification_id", msg.NotificationID),
			slog.Duration("send_duration", elapsed))
	}

	RecordFlush(d.Name(), len(errs))
	span.SetAttributes(
		attribute.String("notify.channel", d.Name()),
		attribute.Int("notify.attempted", len(batch)),
		attribute.Int("notify.failed", len(errs)),
	)

	if len(errs) == 0 {
		d.logger.Info("flush completed", slog.Int("sent", len(batch)))
		return nil
	}

	flushErr := &FlushError{
		Channel:   d.Name(),
		Attempted: len(batch),
		Failed:    len(errs),
		Err:       errors.Join(errs...),
	}
	tracing.RecordError(span, flushErr)
	return flushErr
}

// drain swaps the queue for an empty one and returns the old contents.
func (d *QueueDispatcher) drain() []OutboundMessage {
	d.mu.Lock()
	batch := d.queue
	d.queue = nil
	SetQueuePending(d.Name(), 0)
	d.mu.Unlock()

	return batch
}
