package notify

import (
	"errors"
	"fmt"
)

var (
	// ErrNilDispatcher is returned when a Manager is built without a dispatcher.
	ErrNilDispatcher = errors.New("dispatcher is required")

	// ErrNilSender is returned when a QueueDispatcher is built without a sender.
	ErrNilSender = errors.New("sender is required")

	// ErrRenderFailed wraps failures turning a notification into a wire payload.
	ErrRenderFailed = errors.New("failed to render notification")
)

// FlushError reports a flush in which at least one message could not be
// delivered. Failed messages have already been discarded.
type FlushError struct {
	Channel   string
	Attempted int
	Failed    int
	Err       error
}

// Error returns a summary such as "discord flush: 2 of 5 messages failed: ...".
func (e *FlushError) Error() string {
	return fmt.Sprintf("%s flush: %d of %d messages failed: %v", e.Channel, e.Failed, e.Attempted, e.Err)
}

// Unwrap exposes the joined per-message causes to errors.Is and errors.As.
func (e *FlushError) Unwrap() error {
	return e.Err
}
