// Package notifier delivers rendered notifications to chat webhooks.
//
// A Notifier turns a notification into a wire payload (Render) and posts a
// payload to its target (Send). Rendering happens when a notification is
// queued and sending happens later during a flush, so the two are separate.
// Implementations do not retry: a failed send is reported to the caller and
// the message is dropped.
package notifier

import (
	"context"

	"radarr-notify/internal/domain/entity"
)

// Notifier renders and sends notifications to one webhook target.
type Notifier interface {
	// Name identifies the target in logs and metrics.
	Name() string

	// Render builds the request body for n. It performs no I/O.
	Render(n entity.Notification) ([]byte, error)

	// Send posts payload to the target once.
	//
	// Returns:
	//   - nil on a 2xx response
	//   - *RateLimitError on 429, *ClientError on other 4xx,
	//     *ServerError on 5xx, a wrapped transport error otherwise
	Send(ctx context.Context, payload []byte) error
}
