// Package listener implements a long-lived broadcast subscriber that dispatches
// events by kind until it receives event.ProcessingFinished.
package listener

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/dmitrymomot/fanout/core/logger"
	"github.com/dmitrymomot/fanout/pkg/broadcast"
	"github.com/dmitrymomot/fanout/pkg/event"
)

// Listener consumes one subscriber queue. It keeps a broadcaster handle so the
// code driving it can publish follow-up events through the same subscriber set.
type Listener struct {
	id     string
	b      *broadcast.Broadcaster[event.Event]
	rx     *broadcast.Receiver[event.Event]
	logger *slog.Logger
	hook   Hook

	started atomic.Bool
	running atomic.Bool

	pass         atomic.Int64
	fail         atomic.Int64
	cont         atomic.Int64
	finished     atomic.Int64
	unrecognized atomic.Int64
}

// Stats counts dispatched events per kind.
type Stats struct {
	Pass         int64
	Fail         int64
	Continue     int64
	Finished     int64
	Unrecognized int64
	Running      bool
}

// New binds a listener to a receiver obtained from b.Register.
//
// Example:
//
//	rx := b.Register()
//	l := listener.New("ep1", b.Clone(), rx, listener.WithLogger(log))
//	h := l.Go(ctx)
func New(id string, b *broadcast.Broadcaster[event.Event], rx *broadcast.Receiver[event.Event], opts ...Option) *Listener {
	l := &Listener{
		id:     id,
		b:      b,
		rx:     rx,
		logger: logger.Nop(),
	}

	for _, opt := range opts {
		opt(l)
	}

	l.logger = l.logger.With(
		logger.Component("listener"),
		logger.ListenerID(id),
		logger.SubscriberID(rx.ID()),
	)

	return l
}

// Subscribe registers a new receiver on b and binds a listener to it.
func Subscribe(id string, b *broadcast.Broadcaster[event.Event], opts ...Option) *Listener {
	return New(id, b.Clone(), b.Register(), opts...)
}

// ID returns the listener identifier.
func (l *Listener) ID() string {
	return l.id
}

// Listen runs the dispatch loop on the calling goroutine. It returns nil after
// handling ProcessingFinished; events still queued behind it are discarded.
//
// If the queue disconnects, Listen dispatches event.Disconnected() like any other
// event and returns the receive error. It returns ctx.Err() when ctx is done.
// A Listener runs once; its receiver is closed when Listen returns.
func (l *Listener) Listen(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	l.running.Store(true)
	defer l.running.Store(false)
	defer l.rx.Close()

	l.logger.InfoContext(ctx, "listener started")

	for {
		e, err := l.rx.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				l.logger.InfoContext(context.Background(), "listener stopping", logger.Error(err))
				return err
			}

			l.dispatch(ctx, event.Disconnected())
			return err
		}

		if l.dispatch(ctx, e) {
			return nil
		}
	}
}

// Go runs Listen on its own goroutine.
func (l *Listener) Go(ctx context.Context) *broadcast.Handle {
	return broadcast.Go(func() error {
		return l.Listen(ctx)
	})
}

// Run provides errgroup compatibility. Context cancellation counts as a clean exit.
//
// Example:
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(l1.Run(ctx))
//	g.Go(l2.Run(ctx))
//	err := g.Wait()
func (l *Listener) Run(ctx context.Context) func() error {
	return func() error {
		err := l.Listen(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

// Publish sends e to every subscriber of the listener's broadcaster, itself included
// while it is still listening.
func (l *Listener) Publish(e event.Event) error {
	return l.b.Publish(e)
}

// Stats returns dispatch counters.
func (l *Listener) Stats() Stats {
	return Stats{
		Pass:         l.pass.Load(),
		Fail:         l.fail.Load(),
		Continue:     l.cont.Load(),
		Finished:     l.finished.Load(),
		Unrecognized: l.unrecognized.Load(),
		Running:      l.running.Load(),
	}
}

// dispatch handles one event and reports whether the loop must stop.
func (l *Listener) dispatch(ctx context.Context, e event.Event) bool {
	stop := false

	switch e.Kind {
	case event.KindPass:
		l.pass.Add(1)
		l.logger.InfoContext(ctx, "pass", logger.Message(e.Message))
	case event.KindFail:
		l.fail.Add(1)
		l.logger.WarnContext(ctx, "fail", logger.Message(e.Message))
	case event.KindContinue:
		l.cont.Add(1)
		l.logger.InfoContext(ctx, "continue", logger.Message(e.Message))
	case event.KindProcessingFinished:
		l.finished.Add(1)
		l.logger.InfoContext(ctx, "stopping loop: processing finished",
			logger.Message(e.Message),
			logger.Count("discarded", l.rx.Len()))
		stop = true
	default:
		l.unrecognized.Add(1)
		l.logger.WarnContext(ctx, "unrecognized event",
			logger.Event(e.Kind.String()),
			logger.Count("kind", int(e.Kind)),
			logger.Message(e.Message))
	}

	if l.hook != nil {
		l.hook(ctx, l.id, e)
	}

	return stop
}
