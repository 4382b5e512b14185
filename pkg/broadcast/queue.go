package broadcast

import (
	"context"
	"errors"
	"sync"
)

// compactThreshold is the number of consumed slots after which the backing
// slice is shifted down instead of growing further.
const compactThreshold = 64

// queue is an unbounded FIFO with one producer side and one consumer side.
// Either side can be torn down independently.
type queue[T any] struct {
	mu     sync.Mutex
	items  []T
	head   int
	notify chan struct{}

	senderClosed   bool
	receiverClosed bool
}

func newQueue[T any]() *queue[T] {
	return &queue[T]{
		notify: make(chan struct{}, 1),
	}
}

// push never blocks: the queue has no capacity limit.
func (q *queue[T]) push(v T) error {
	q.mu.Lock()
	if q.receiverClosed {
		q.mu.Unlock()
		return ErrReceiverClosed
	}
	if q.senderClosed {
		q.mu.Unlock()
		return ErrDisconnected
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.signal()
	return nil
}

// pop returns the oldest item without waiting.
// Items queued before the sender closed are still returned; ErrDisconnected
// is reported only once they are drained.
func (q *queue[T]) pop() (T, error) {
	var zero T

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.receiverClosed {
		return zero, ErrReceiverClosed
	}

	if q.head < len(q.items) {
		v := q.items[q.head]
		q.items[q.head] = zero
		q.head++

		switch {
		case q.head == len(q.items):
			q.items = q.items[:0]
			q.head = 0
		case q.head >= compactThreshold && q.head*2 >= len(q.items):
			n := copy(q.items, q.items[q.head:])
			clear(q.items[n:])
			q.items = q.items[:n]
			q.head = 0
		}

		return v, nil
	}

	if q.senderClosed {
		return zero, ErrDisconnected
	}

	return zero, ErrEmpty
}

// wait parks until an item is available, either side closes, or ctx is done.
func (q *queue[T]) wait(ctx context.Context) (T, error) {
	for {
		v, err := q.pop()
		if !errors.Is(err, ErrEmpty) {
			if err == nil && q.len() > 0 {
				// Hand the wakeup on so a second waiter does not sleep on a non-empty queue.
				q.signal()
			}
			return v, err
		}

		select {
		case <-q.notify:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

func (q *queue[T]) closeSender() {
	q.mu.Lock()
	q.senderClosed = true
	q.mu.Unlock()
	q.signal()
}

// closeReceiver drops everything still queued.
func (q *queue[T]) closeReceiver() bool {
	q.mu.Lock()
	if q.receiverClosed {
		q.mu.Unlock()
		return false
	}
	q.receiverClosed = true
	q.items = nil
	q.head = 0
	q.mu.Unlock()

	q.signal()
	return true
}

func (q *queue[T]) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
