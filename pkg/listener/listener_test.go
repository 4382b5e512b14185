package listener_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/fanout/core/logger"
	"github.com/dmitrymomot/fanout/pkg/broadcast"
	"github.com/dmitrymomot/fanout/pkg/event"
	"github.com/dmitrymomot/fanout/pkg/listener"
)

type journal struct {
	mu     sync.Mutex
	events map[string][]event.Event
}

func newJournal() *journal {
	return &journal{events: make(map[string][]event.Event)}
}

func (j *journal) hook(_ context.Context, id string, e event.Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.events[id] = append(j.events[id], e)
}

func (j *journal) of(id string) []event.Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]event.Event, len(j.events[id]))
	copy(out, j.events[id])
	return out
}

func TestListener_Listen(t *testing.T) {
	t.Parallel()

	t.Run("stops at processing finished", func(t *testing.T) {
		t.Parallel()

		b := broadcast.New[event.Event]()
		j := newJournal()
		l := listener.Subscribe("ep1", b, listener.WithHook(j.hook))

		require.NoError(t, b.Publish(event.Pass("a")))
		require.NoError(t, b.Publish(event.Fail("b")))
		require.NoError(t, b.Publish(event.Continue("c")))
		require.NoError(t, b.Publish(event.ProcessingFinished("d")))
		require.NoError(t, b.Publish(event.Pass("never seen")))

		require.NoError(t, l.Listen(context.Background()))

		assert.Equal(t, []event.Event{
			event.Pass("a"),
			event.Fail("b"),
			event.Continue("c"),
			event.ProcessingFinished("d"),
		}, j.of("ep1"))

		stats := l.Stats()
		assert.Equal(t, listener.Stats{Pass: 1, Fail: 1, Continue: 1, Finished: 1}, stats)
	})

	t.Run("unrecognized events are logged and skipped", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))

		b := broadcast.New[event.Event]()
		j := newJournal()
		l := listener.Subscribe("ep1", b, listener.WithHook(j.hook), listener.WithLogger(log))

		require.NoError(t, b.Publish(event.Event{Kind: event.Kind(42), Message: "future"}))
		require.NoError(t, b.Publish(event.ProcessingFinished("end")))

		require.NoError(t, l.Listen(context.Background()))

		assert.Len(t, j.of("ep1"), 2)
		assert.Equal(t, int64(1), l.Stats().Unrecognized)
		assert.Contains(t, buf.String(), "unrecognized event")
		assert.Contains(t, buf.String(), "listener_id=ep1")
	})

	t.Run("disconnect is dispatched as a fail event", func(t *testing.T) {
		t.Parallel()

		b := broadcast.New[event.Event]()
		j := newJournal()
		l := listener.Subscribe("ep1", b, listener.WithHook(j.hook))

		require.NoError(t, b.Publish(event.Pass("before close")))
		require.NoError(t, b.Close())

		err := l.Listen(context.Background())
		assert.ErrorIs(t, err, broadcast.ErrDisconnected)
		assert.Equal(t, []event.Event{
			event.Pass("before close"),
			event.Disconnected(),
		}, j.of("ep1"))
		assert.Equal(t, int64(1), l.Stats().Fail)
	})

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()

		b := broadcast.New[event.Event]()
		l := listener.Subscribe("ep1", b)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, l.Listen(ctx), context.DeadlineExceeded)
		assert.False(t, l.Stats().Running)
	})

	t.Run("runs once", func(t *testing.T) {
		t.Parallel()

		b := broadcast.New[event.Event]()
		l := listener.Subscribe("ep1", b)
		require.NoError(t, b.Publish(event.ProcessingFinished("end")))

		require.NoError(t, l.Listen(context.Background()))
		assert.ErrorIs(t, l.Listen(context.Background()), listener.ErrAlreadyStarted)
	})

	t.Run("finished listener is pruned by the next publish", func(t *testing.T) {
		t.Parallel()

		b := broadcast.New[event.Event]()
		l := listener.Subscribe("ep1", b)
		require.NoError(t, b.Publish(event.ProcessingFinished("end")))
		require.NoError(t, l.Listen(context.Background()))

		assert.ErrorIs(t, b.Publish(event.Pass("late")), broadcast.ErrReceiverClosed)
		assert.Equal(t, 0, b.Len())
	})
}

func TestListener_Go(t *testing.T) {
	t.Parallel()

	for name, opts := range map[string][]broadcast.Option{
		"blocking": nil,
		"polling":  {broadcast.WithPollInterval(time.Millisecond)},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b := broadcast.New[event.Event](opts...)
			j := newJournal()
			l := listener.Subscribe("ep1", b, listener.WithHook(j.hook))

			h := l.Go(context.Background())

			require.NoError(t, b.Publish(event.Pass("1")))
			require.NoError(t, b.Publish(event.Pass("2")))
			require.NoError(t, b.Publish(event.ProcessingFinished("3")))

			require.NoError(t, h.WaitTimeout(time.Second))
			assert.Equal(t, []event.Event{
				event.Pass("1"),
				event.Pass("2"),
				event.ProcessingFinished("3"),
			}, j.of("ep1"))
		})
	}
}

func TestListener_Run(t *testing.T) {
	t.Parallel()

	t.Run("errgroup joins listeners", func(t *testing.T) {
		t.Parallel()

		b := broadcast.New[event.Event]()
		j := newJournal()
		l1 := listener.Subscribe("ep1", b, listener.WithHook(j.hook))
		l2 := listener.Subscribe("ep2", b, listener.WithHook(j.hook))

		g, ctx := errgroup.WithContext(context.Background())
		g.Go(l1.Run(ctx))
		g.Go(l2.Run(ctx))

		require.NoError(t, b.Publish(event.Continue("go on")))
		require.NoError(t, b.Publish(event.ProcessingFinished("done")))

		require.NoError(t, g.Wait())

		want := []event.Event{event.Continue("go on"), event.ProcessingFinished("done")}
		assert.Equal(t, want, j.of("ep1"))
		assert.Equal(t, want, j.of("ep2"))
	})

	t.Run("cancellation is a clean exit", func(t *testing.T) {
		t.Parallel()

		b := broadcast.New[event.Event]()
		l := listener.Subscribe("ep1", b)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.NoError(t, l.Run(ctx)())
	})

	t.Run("disconnect is reported", func(t *testing.T) {
		t.Parallel()

		b := broadcast.New[event.Event]()
		l := listener.Subscribe("ep1", b)
		require.NoError(t, b.Close())

		assert.ErrorIs(t, l.Run(context.Background())(), broadcast.ErrDisconnected)
	})
}

func TestListener_Publish(t *testing.T) {
	t.Parallel()

	b := broadcast.New[event.Event]()
	j := newJournal()

	l1 := listener.Subscribe("ep1", b, listener.WithHook(j.hook))
	l2 := listener.Subscribe("ep2", b, listener.WithHook(j.hook))
	assert.Equal(t, "ep1", l1.ID())

	h := l2.Go(context.Background())

	require.NoError(t, l1.Publish(event.Pass("from ep1")))
	require.NoError(t, l1.Publish(event.ProcessingFinished("ep1 done")))

	require.NoError(t, h.WaitTimeout(time.Second))
	require.NoError(t, l1.Listen(context.Background()))

	want := []event.Event{event.Pass("from ep1"), event.ProcessingFinished("ep1 done")}
	assert.Equal(t, want, j.of("ep1"))
	assert.Equal(t, want, j.of("ep2"))
}

func TestScenario_TwoListenersAndCallback(t *testing.T) {
	t.Parallel()

	b := broadcast.New[event.Event]()
	j := newJournal()

	var (
		mu        sync.Mutex
		callbacks []event.Event
	)
	c := b.RegisterWithCallback(func(e event.Event) broadcast.Command {
		mu.Lock()
		callbacks = append(callbacks, e)
		mu.Unlock()
		return broadcast.Stop
	})

	l1 := listener.Subscribe("ep1", b, listener.WithHook(j.hook))
	l2 := listener.Subscribe("ep2", b, listener.WithHook(j.hook))
	h1 := l1.Go(context.Background())
	h2 := l2.Go(context.Background())

	require.NoError(t, b.Publish(event.Pass("a")))

	// The callback subscriber may already be gone; that must only be reported.
	if err := b.Publish(event.ProcessingFinished("b")); err != nil {
		assert.ErrorIs(t, err, broadcast.ErrReceiverClosed)
	}

	require.NoError(t, broadcast.Join(c, h1, h2))

	mu.Lock()
	assert.Equal(t, []event.Event{event.Pass("a")}, callbacks)
	mu.Unlock()

	want := []event.Event{event.Pass("a"), event.ProcessingFinished("b")}
	assert.Equal(t, want, j.of("ep1"))
	assert.Equal(t, want, j.of("ep2"))
}
