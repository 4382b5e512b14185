package broadcast

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/google/uuid"
)

// waitStrategy decides how Next behaves on an empty queue.
type waitStrategy struct {
	poll         bool
	pollInterval time.Duration
}

// Receiver is the consumer-end of one subscriber queue.
// It receives every message published after it was registered, in publish order.
// A Receiver is meant to be drained by a single goroutine.
type Receiver[T any] struct {
	id   uuid.UUID
	q    *queue[T]
	wait waitStrategy
}

// ID returns the subscriber ID assigned at registration.
func (r *Receiver[T]) ID() uuid.UUID {
	return r.id
}

// TryRecv returns the next queued message without waiting.
// It returns ErrEmpty when nothing is queued, ErrDisconnected when the broadcaster
// was closed and the queue is drained, and ErrReceiverClosed after Close.
func (r *Receiver[T]) TryRecv() (T, error) {
	return r.q.pop()
}

// Recv blocks until a message is available, the queue disconnects, or ctx is done.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	return r.q.wait(ctx)
}

// RecvTimeout is Recv bounded by d. It returns ErrTimeout when d elapses first.
func (r *Receiver[T]) RecvTimeout(d time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	v, err := r.q.wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return v, ErrTimeout
	}
	return v, err
}

// Next waits for the next message using the strategy the broadcaster was configured with:
// a blocking wait by default, or polling TryRecv every poll interval.
func (r *Receiver[T]) Next(ctx context.Context) (T, error) {
	if !r.wait.poll {
		return r.Recv(ctx)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		v, err := r.q.pop()
		if !errors.Is(err, ErrEmpty) {
			return v, err
		}

		if r.wait.pollInterval <= 0 {
			if err := ctx.Err(); err != nil {
				return v, err
			}
			runtime.Gosched()
			continue
		}

		if timer == nil {
			timer = time.NewTimer(r.wait.pollInterval)
		} else {
			timer.Reset(r.wait.pollInterval)
		}

		select {
		case <-ctx.Done():
			return v, ctx.Err()
		case <-timer.C:
		}
	}
}

// Len reports how many messages are queued and not yet received.
func (r *Receiver[T]) Len() int {
	return r.q.len()
}

// Close tears down the consumer-end and discards queued messages.
// The next publish to this subscriber fails and the broadcaster drops its producer-end.
// Close is idempotent.
func (r *Receiver[T]) Close() error {
	r.q.closeReceiver()
	return nil
}
