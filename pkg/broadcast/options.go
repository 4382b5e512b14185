package broadcast

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/fanout/core/logger"
)

// Option configures a Broadcaster.
type Option func(*options)

type options struct {
	wait   waitStrategy
	prune  bool
	logger *slog.Logger
}

func defaultOptions() *options {
	return &options{
		prune:  true,
		logger: logger.Nop(),
	}
}

// WithLogger configures structured logging for the broadcaster and its callback subscribers.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPollInterval makes receivers poll their queue every d instead of blocking.
// Zero spins, yielding the processor between polls. Negative values are ignored.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.wait = waitStrategy{poll: true, pollInterval: d}
		}
	}
}

// WithBlockingWait makes receivers park until a message arrives. This is the default.
func WithBlockingWait() Option {
	return func(o *options) {
		o.wait = waitStrategy{}
	}
}

// WithPruneDisconnected controls whether Publish drops a producer-end after its
// consumer is found closed. Enabled by default. When disabled the producer-end is
// kept and every later Publish reports it again.
func WithPruneDisconnected(prune bool) Option {
	return func(o *options) {
		o.prune = prune
	}
}
