package command

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownIdentifier is reported when no receiver is registered for a command's identifier.
	ErrUnknownIdentifier = errors.New("no receiver registered for command")

	// ErrPayloadMismatch is reported by a receiver given a payload variant it does not handle.
	ErrPayloadMismatch = errors.New("payload not handled by receiver")

	// ErrAccessUnavailable is reported when exclusive access to a shared receiver cannot be obtained.
	ErrAccessUnavailable = errors.New("receiver access unavailable")

	// ErrReceiverPoisoned is reported for a shared receiver whose previous invocation panicked.
	ErrReceiverPoisoned = fmt.Errorf("receiver poisoned: %w", ErrAccessUnavailable)

	// ErrReceiverPanicked is returned when a receiver panics while handling a payload.
	ErrReceiverPanicked = errors.New("receiver panicked")

	// ErrInvalidIdentifier is returned for identifiers outside the declared set.
	ErrInvalidIdentifier = errors.New("invalid command identifier")

	// ErrNilReceiver is returned when registering a nil receiver.
	ErrNilReceiver = errors.New("receiver cannot be nil")

	// ErrNilQueue is returned when draining a nil queue.
	ErrNilQueue = errors.New("command queue cannot be nil")

	// ErrDispatcherBusy is returned when Drain is called on a dispatcher that is already draining.
	ErrDispatcherBusy = errors.New("dispatcher is already draining")
)

// Drop reasons attached to DropError and to drop diagnostics.
const (
	ReasonUnknownIdentifier = "unknown_identifier"
	ReasonPayloadMismatch   = "payload_mismatch"
	ReasonAccessUnavailable = "access_unavailable"
)

// DropError describes a command that was dropped, naming the component that
// dropped it and why. It unwraps to one of the taxonomy sentinels.
type DropError struct {
	Component  string
	Reason     string
	Identifier Identifier
	Payload    string
	Err        error
}

func (e *DropError) Error() string {
	if e == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(e.Component)
	b.WriteString(": dropped")
	if e.Identifier.Valid() {
		b.WriteString(" ")
		b.WriteString(e.Identifier.String())
	}
	if e.Payload != "" {
		b.WriteString(" (payload ")
		b.WriteString(e.Payload)
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DropError) Unwrap() error { return e.Err }
