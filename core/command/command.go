package command

import (
	"time"

	"github.com/google/uuid"
)

// Command pairs an identifier with its payload. Commands are immutable once
// enqueued and are consumed exactly once by a Dispatcher.
type Command struct {
	ID         string
	Identifier Identifier
	Payload    Payload
	CreatedAt  time.Time
}

// NewCommand creates a Command with a generated ID and creation time.
// Byte payloads are copied so later writes by the producer are not observed.
//
// Example:
//
//	cmd := command.NewCommand(command.SimpleDataRequest, command.SimpleData{
//	    SerialNumber: 0xdeadbeef,
//	    ObjectType:   0x50,
//	})
func NewCommand(id Identifier, payload Payload) Command {
	return Command{
		ID:         uuid.New().String(),
		Identifier: id,
		Payload:    clonePayload(payload),
		CreatedAt:  time.Now(),
	}
}
