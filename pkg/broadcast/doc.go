// Package broadcast provides a generic in-process pub/sub engine.
//
// A Broadcaster fans each published message out to every registered subscriber.
// Every subscriber owns a private unbounded FIFO queue, so a slow subscriber never
// blocks the publisher or the other subscribers.
//
// # Architecture
//
//   - Broadcaster: holds the producer-ends, one per subscriber, in registration order
//   - Receiver: the consumer-end of one subscriber queue
//   - RegisterWithCallback: a subscriber driven by a handler that returns Start or Stop
//   - Handle: joins a subscriber goroutine
//
// # Usage
//
// Long-lived subscriber owning its receiver:
//
//	b := broadcast.New[string]()
//	defer b.Close()
//
//	rx := b.Register()
//	h := broadcast.Go(func() error {
//		for {
//			msg, err := rx.Next(ctx)
//			if err != nil {
//				return err
//			}
//			fmt.Println("received:", msg)
//		}
//	})
//
//	b.Publish("Hello, World!")
//
// Callback subscriber:
//
//	h := b.RegisterWithCallback(func(msg string) broadcast.Command {
//		fmt.Println("processed:", msg)
//		return broadcast.Stop
//	})
//
//	b.Publish("only one")
//	_ = h.Wait()
//
// # Delivery Guarantees
//
// A subscriber receives every message published after it registered, in the order
// Publish was called. There is no replay of earlier messages and no ordering
// between different subscribers. Publish never waits for consumers.
//
// # Waiting
//
// Receivers block on an empty queue by default. WithPollInterval switches them to
// polling, which trades CPU for not needing a wakeup. Both modes deliver and
// terminate identically.
//
//	b := broadcast.New[string](broadcast.WithPollInterval(time.Millisecond))
//
// # Error Handling
//
// Closing a receiver does not affect anybody else. The next Publish reports a
// *DeliveryError for it, continues with the remaining subscribers, and drops the
// dead producer-end:
//
//	if err := b.Publish(msg); err != nil {
//		var de *broadcast.DeliveryError
//		if errors.As(err, &de) {
//			log.Warn("subscriber gone", "id", de.SubscriberID)
//		}
//	}
//
// Close disconnects every subscriber. Receivers drain what was queued and then
// report ErrDisconnected.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use across multiple goroutines,
// except that a Receiver should be drained by one goroutine. The subscriber list is
// guarded by a read-write mutex: Publish snapshots it under the read lock and
// enqueues outside the lock.
package broadcast
