package listener

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/fanout/pkg/event"
)

// Hook observes every event a listener dispatches, including the synthesized
// disconnect event. It runs on the listener goroutine.
type Hook func(ctx context.Context, id string, e event.Event)

// Option configures a Listener.
type Option func(*Listener)

// WithLogger configures structured logging for the listener.
func WithLogger(l *slog.Logger) Option {
	return func(ls *Listener) {
		if l != nil {
			ls.logger = l
		}
	}
}

// WithHook registers a hook called after each event is logged.
func WithHook(h Hook) Option {
	return func(ls *Listener) {
		if h != nil {
			ls.hook = h
		}
	}
}
