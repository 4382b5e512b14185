package broadcast

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrEmpty is returned by TryRecv when no message is queued yet.
	// It is transient and not a failure.
	ErrEmpty = errors.New("broadcast: queue is empty")

	// ErrDisconnected is returned once the producer side of a queue is gone
	// and every message queued before that has been received.
	ErrDisconnected = errors.New("broadcast: queue disconnected")

	// ErrReceiverClosed is returned when sending to, or receiving from, a consumer-end
	// that its owner has closed.
	ErrReceiverClosed = errors.New("broadcast: receiver closed")

	// ErrBroadcasterClosed is returned by Publish and Close on a closed broadcaster.
	ErrBroadcasterClosed = errors.New("broadcast: broadcaster closed")

	// ErrTimeout is returned when a bounded wait expires.
	ErrTimeout = errors.New("broadcast: timeout")

	// ErrHandlerPanic wraps a recovered panic from a subscriber handler.
	ErrHandlerPanic = errors.New("broadcast: handler panicked")
)

// DeliveryError reports that a published message could not be enqueued for one subscriber.
// Publish keeps delivering to the remaining subscribers and returns every DeliveryError joined.
type DeliveryError struct {
	SubscriberID uuid.UUID
	Err          error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("broadcast: deliver to subscriber %s: %v", e.SubscriberID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
