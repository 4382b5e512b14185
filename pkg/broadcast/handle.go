package broadcast

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Handle tracks a subscriber goroutine until it exits.
type Handle struct {
	done chan struct{}
	err  error
}

// Go runs fn on its own goroutine and returns a handle to join it.
// A panic in fn is recovered and reported as an error wrapping ErrHandlerPanic.
func Go(fn func() error) *Handle {
	h := &Handle{done: make(chan struct{})}

	go func() {
		defer close(h.done)
		defer func() {
			if r := recover(); r != nil {
				h.err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
			}
		}()

		h.err = fn()
	}()

	return h
}

// Wait blocks until the goroutine exits and returns its error.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// WaitTimeout is Wait bounded by d. It returns ErrTimeout if the goroutine is still running.
func (h *Handle) WaitTimeout(d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-h.done:
		return h.err
	case <-timer.C:
		return ErrTimeout
	}
}

// Done is closed when the goroutine exits.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// IsComplete reports whether the goroutine has exited, without blocking.
func (h *Handle) IsComplete() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Err returns the exit error, or nil while the goroutine is still running.
func (h *Handle) Err() error {
	if !h.IsComplete() {
		return nil
	}
	return h.err
}

// Join waits for every handle and returns the first non-nil error.
// Nil handles are skipped.
func Join(handles ...*Handle) error {
	var g errgroup.Group
	for _, h := range handles {
		if h == nil {
			continue
		}
		g.Go(h.Wait)
	}
	return g.Wait()
}
