package broadcast

// Command is returned by a callback subscriber's handler to steer its loop.
type Command int

const (
	// Start keeps the subscriber running.
	Start Command = iota
	// Stop terminates the subscriber after the current message.
	Stop
)

func (c Command) String() string {
	switch c {
	case Start:
		return "start"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// CommandHandler processes one message and decides whether the subscriber continues.
type CommandHandler[T any] func(msg T) Command

// Cloner is implemented by message types that carry references and need a deep
// copy per subscriber. Publish calls Clone once for every producer-end.
type Cloner[T any] interface {
	Clone() T
}
