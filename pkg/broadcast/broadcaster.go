package broadcast

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/fanout/core/logger"
)

// subscription is the producer-end of one subscriber queue.
type subscription[T any] struct {
	id uuid.UUID
	q  *queue[T]
}

// hub is the state shared by every handle of one Broadcaster.
type hub[T any] struct {
	mu     sync.RWMutex
	subs   []*subscription[T]
	closed bool

	wait   waitStrategy
	prune  bool
	logger *slog.Logger

	published atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
	pruned    atomic.Int64
}

// Broadcaster fans every published message out to all registered subscribers.
// Each subscriber owns a private unbounded queue and receives messages in publish order.
//
// A Broadcaster is a handle: copies and Clone share one subscriber list, so a
// subscriber registered through any handle receives messages published through any other.
// All methods are safe for concurrent use.
type Broadcaster[T any] struct {
	hub *hub[T]
}

// Stats is a point-in-time snapshot of broadcaster counters.
type Stats struct {
	Subscribers int
	Published   int64 // Publish calls that reached the subscriber list
	Delivered   int64 // messages enqueued, summed over subscribers
	Failed      int64 // sends rejected because the consumer was gone
	Pruned      int64 // producer-ends removed after a failed send
	Closed      bool
}

// New creates an empty broadcaster.
//
// Example:
//
//	b := broadcast.New[event.Event](
//	    broadcast.WithLogger(log),
//	)
//	rx := b.Register()
func New[T any](opts ...Option) *Broadcaster[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Broadcaster[T]{
		hub: &hub[T]{
			wait:   o.wait,
			prune:  o.prune,
			logger: o.logger.With(logger.Component("broadcast")),
		},
	}
}

// Clone returns another handle onto the same subscriber list.
func (b *Broadcaster[T]) Clone() *Broadcaster[T] {
	return &Broadcaster[T]{hub: b.hub}
}

// Register creates a new subscriber queue and returns its consumer-end.
// The subscriber receives only messages published after Register returns.
// On a closed broadcaster the returned receiver is already disconnected.
func (b *Broadcaster[T]) Register() *Receiver[T] {
	h := b.hub
	sub := &subscription[T]{id: uuid.New(), q: newQueue[T]()}
	rx := &Receiver[T]{id: sub.id, q: sub.q, wait: h.wait}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.q.closeSender()
		h.logger.Warn("register on closed broadcaster", logger.SubscriberID(sub.id))
		return rx
	}
	h.subs = append(h.subs, sub)
	n := len(h.subs)
	h.mu.Unlock()

	h.logger.Debug("subscriber registered",
		logger.SubscriberID(sub.id),
		logger.Count("subscribers", n))

	return rx
}

// Publish enqueues a copy of msg for every registered subscriber, in registration order.
// It never waits for subscribers to consume.
//
// A subscriber whose receiver was closed does not stop delivery to the others: its
// failure is returned as a *DeliveryError (joined with any others) and, unless disabled
// with WithPruneDisconnected(false), its producer-end is dropped.
// Publishing with no subscribers is a no-op.
func (b *Broadcaster[T]) Publish(msg T) error {
	h := b.hub

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return ErrBroadcasterClosed
	}
	subs := make([]*subscription[T], len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	h.published.Add(1)

	var (
		errs []error
		dead []*subscription[T]
	)

	for _, sub := range subs {
		if err := sub.q.push(clone(msg)); err != nil {
			h.failed.Add(1)
			h.logger.Warn("delivery failed",
				logger.SubscriberID(sub.id),
				logger.Error(err))
			errs = append(errs, &DeliveryError{SubscriberID: sub.id, Err: err})
			dead = append(dead, sub)
			continue
		}
		h.delivered.Add(1)
	}

	if len(dead) > 0 && h.prune {
		h.remove(dead)
	}

	return errors.Join(errs...)
}

// Len returns the number of registered producer-ends.
func (b *Broadcaster[T]) Len() int {
	b.hub.mu.RLock()
	defer b.hub.mu.RUnlock()
	return len(b.hub.subs)
}

// Close disconnects every subscriber. Receivers still get what was queued before
// Close and then report ErrDisconnected. Publish fails with ErrBroadcasterClosed
// afterwards, for every handle.
func (b *Broadcaster[T]) Close() error {
	h := b.hub

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrBroadcasterClosed
	}
	h.closed = true
	subs := h.subs
	h.subs = nil
	h.mu.Unlock()

	for _, sub := range subs {
		sub.q.closeSender()
	}

	h.logger.Info("broadcaster closed", logger.Count("subscribers", len(subs)))
	return nil
}

// Stats returns current counters for observability.
func (b *Broadcaster[T]) Stats() Stats {
	h := b.hub

	h.mu.RLock()
	n := len(h.subs)
	closed := h.closed
	h.mu.RUnlock()

	return Stats{
		Subscribers: n,
		Published:   h.published.Load(),
		Delivered:   h.delivered.Load(),
		Failed:      h.failed.Load(),
		Pruned:      h.pruned.Load(),
		Closed:      closed,
	}
}

// remove drops the given producer-ends, keeping the order of the rest.
func (h *hub[T]) remove(dead []*subscription[T]) {
	gone := make(map[*subscription[T]]struct{}, len(dead))
	for _, sub := range dead {
		gone[sub] = struct{}{}
	}

	h.mu.Lock()
	kept := h.subs[:0]
	removed := 0
	for _, sub := range h.subs {
		if _, ok := gone[sub]; ok {
			removed++
			continue
		}
		kept = append(kept, sub)
	}
	clear(h.subs[len(kept):])
	h.subs = kept
	h.mu.Unlock()

	if removed > 0 {
		h.pruned.Add(int64(removed))
		h.logger.Debug("pruned disconnected subscribers", logger.Count("pruned", removed))
	}
}

func clone[T any](msg T) T {
	if c, ok := any(msg).(Cloner[T]); ok {
		return c.Clone()
	}
	return msg
}
