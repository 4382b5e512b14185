package broadcast

import "time"

// WaitMode selects how subscribers wait on an empty queue.
type WaitMode string

const (
	WaitBlocking WaitMode = "blocking"
	WaitPoll     WaitMode = "poll"
)

// Config holds environment-driven broadcaster settings.
type Config struct {
	WaitMode         WaitMode      `env:"BROADCAST_WAIT_MODE" envDefault:"blocking"`
	PollInterval     time.Duration `env:"BROADCAST_POLL_INTERVAL" envDefault:"1ms"`
	KeepDisconnected bool          `env:"BROADCAST_KEEP_DISCONNECTED" envDefault:"false"`
}

// DefaultConfig returns the settings New uses without options.
func DefaultConfig() Config {
	return Config{
		WaitMode:     WaitBlocking,
		PollInterval: time.Millisecond,
	}
}

// NewFromConfig creates a Broadcaster from configuration.
// Additional options override config values.
func NewFromConfig[T any](cfg Config, opts ...Option) *Broadcaster[T] {
	base := make([]Option, 0, 2)

	if cfg.WaitMode == WaitPoll {
		base = append(base, WithPollInterval(cfg.PollInterval))
	}
	if cfg.KeepDisconnected {
		base = append(base, WithPruneDisconnected(false))
	}

	return New[T](append(base, opts...)...)
}
