package listener

import "errors"

// ErrAlreadyStarted is returned when Listen is called more than once on a Listener.
var ErrAlreadyStarted = errors.New("listener: already started")
