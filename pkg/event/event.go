// Package event defines the messages exchanged between broadcast listeners.
package event

import "fmt"

// Kind identifies an Event variant.
type Kind int

const (
	// KindUnknown is the zero value and stands in for variants a listener does not know.
	KindUnknown Kind = iota
	KindPass
	KindFail
	KindContinue
	KindProcessingFinished
)

// DisconnectedMessage is the payload of the Fail event a listener synthesizes when
// its queue disconnects.
const DisconnectedMessage = "Error receiving - Disconnected"

func (k Kind) String() string {
	switch k {
	case KindPass:
		return "Pass"
	case KindFail:
		return "Fail"
	case KindContinue:
		return "Continue"
	case KindProcessingFinished:
		return "ProcessingFinished"
	default:
		return "Unknown"
	}
}

// Event is a tagged value carrying one message string. Events compare by value.
type Event struct {
	Kind    Kind
	Message string
}

func Pass(msg string) Event {
	return Event{Kind: KindPass, Message: msg}
}

func Fail(msg string) Event {
	return Event{Kind: KindFail, Message: msg}
}

func Continue(msg string) Event {
	return Event{Kind: KindContinue, Message: msg}
}

// ProcessingFinished is the terminal event: a listener stops after receiving it.
func ProcessingFinished(msg string) Event {
	return Event{Kind: KindProcessingFinished, Message: msg}
}

// Disconnected returns the Fail event reported when a queue loses its producer.
func Disconnected() Event {
	return Fail(DisconnectedMessage)
}

// IsTerminal reports whether e ends a listener's loop.
func (e Event) IsTerminal() bool {
	return e.Kind == KindProcessingFinished
}

// Known reports whether e is one of the defined variants.
func (e Event) Known() bool {
	return e.Kind >= KindPass && e.Kind <= KindProcessingFinished
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%q)", e.Kind, e.Message)
}
