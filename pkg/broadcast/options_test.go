package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fanout/core/config"
)

func TestOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		b := New[int]()
		assert.False(t, b.hub.wait.poll)
		assert.True(t, b.hub.prune)
		assert.NotNil(t, b.hub.logger)
	})

	t.Run("poll interval", func(t *testing.T) {
		t.Parallel()

		b := New[int](WithPollInterval(5 * time.Millisecond))
		assert.Equal(t, waitStrategy{poll: true, pollInterval: 5 * time.Millisecond}, b.hub.wait)
		assert.Equal(t, b.hub.wait, b.Register().wait)
	})

	t.Run("negative poll interval is ignored", func(t *testing.T) {
		t.Parallel()

		b := New[int](WithPollInterval(-time.Second))
		assert.False(t, b.hub.wait.poll)
	})

	t.Run("blocking wait overrides polling", func(t *testing.T) {
		t.Parallel()

		b := New[int](WithPollInterval(time.Millisecond), WithBlockingWait())
		assert.False(t, b.hub.wait.poll)
	})

	t.Run("nil logger is ignored", func(t *testing.T) {
		t.Parallel()

		b := New[int](WithLogger(nil))
		assert.NotNil(t, b.hub.logger)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("default config", func(t *testing.T) {
		t.Parallel()

		b := NewFromConfig[int](DefaultConfig())
		assert.False(t, b.hub.wait.poll)
		assert.True(t, b.hub.prune)
	})

	t.Run("empty config", func(t *testing.T) {
		t.Parallel()

		b := NewFromConfig[int](Config{})
		assert.False(t, b.hub.wait.poll)
		assert.True(t, b.hub.prune)
	})

	t.Run("loaded from environment variables", func(t *testing.T) {
		t.Parallel()

		var cfg Config
		require.NoError(t, config.LoadFrom(&cfg, map[string]string{
			"BROADCAST_WAIT_MODE":         "poll",
			"BROADCAST_POLL_INTERVAL":     "3ms",
			"BROADCAST_KEEP_DISCONNECTED": "true",
		}))

		b := NewFromConfig[int](cfg)
		assert.Equal(t, waitStrategy{poll: true, pollInterval: 3 * time.Millisecond}, b.hub.wait)
		assert.False(t, b.hub.prune)
	})

	t.Run("env defaults match DefaultConfig", func(t *testing.T) {
		t.Parallel()

		var cfg Config
		require.NoError(t, config.LoadFrom(&cfg, map[string]string{}))
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("options override config", func(t *testing.T) {
		t.Parallel()

		cfg := Config{WaitMode: WaitPoll, PollInterval: time.Millisecond}
		b := NewFromConfig[int](cfg, WithBlockingWait())
		assert.False(t, b.hub.wait.poll)
	})
}
