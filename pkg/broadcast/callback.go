package broadcast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/fanout/core/logger"
)

// RegisterWithCallback registers a subscriber whose messages are processed by handler
// on a dedicated goroutine. The goroutine runs until handler returns Stop, the
// broadcaster is closed, or handler panics.
//
// Wait on the returned handle to collect the subscriber. Its error is nil after Stop,
// ErrDisconnected after Close, and wraps ErrHandlerPanic after a panic.
//
// Example:
//
//	h := b.RegisterWithCallback(func(e event.Event) broadcast.Command {
//	    log.Info("processed", "event", e)
//	    return broadcast.Stop
//	})
//	defer h.Wait()
func (b *Broadcaster[T]) RegisterWithCallback(handler CommandHandler[T]) *Handle {
	rx := b.Register()
	log := b.hub.logger.With(logger.SubscriberID(rx.ID()))

	return Go(func() error {
		// The consumer-end goes away with the goroutine, so later publishes prune it.
		defer rx.Close()
		return runCallback(rx, handler, log)
	})
}

func runCallback[T any](rx *Receiver[T], handler CommandHandler[T], log *slog.Logger) error {
	ctx := context.Background()
	processed := 0

	for {
		msg, err := rx.Next(ctx)
		if err != nil {
			log.Warn("callback subscriber stopping: queue unavailable",
				logger.Count("processed", processed),
				logger.Error(err))
			return err
		}

		cmd, err := invoke(handler, msg)
		if err != nil {
			log.Error("callback subscriber stopping: handler panicked",
				logger.Count("processed", processed),
				logger.Error(err))
			return err
		}
		processed++

		if cmd == Stop {
			log.Debug("callback subscriber stopped",
				logger.Count("processed", processed),
				logger.Count("pending", rx.Len()))
			return nil
		}
	}
}

func invoke[T any](handler CommandHandler[T], msg T) (cmd Command, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return handler(msg), nil
}
