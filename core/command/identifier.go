package command

import (
	"fmt"
	"strings"
)

// Identifier is the routing key of a command. The set of identifiers is
// closed: new command families are added here together with a payload type.
type Identifier uint8

const (
	// SimpleDataRequest carries a small fixed-size object record.
	SimpleDataRequest Identifier = iota + 1
	// ComplexDataRequest carries a variable-length opaque payload.
	ComplexDataRequest
	// UnimplementedRequest has no payload and no receiver by default.
	UnimplementedRequest
)

var identifierNames = map[Identifier]string{
	SimpleDataRequest:    "SimpleDataRequest",
	ComplexDataRequest:   "ComplexDataRequest",
	UnimplementedRequest: "UnimplementedRequest",
}

// Identifiers returns every known identifier in declaration order.
func Identifiers() []Identifier {
	return []Identifier{SimpleDataRequest, ComplexDataRequest, UnimplementedRequest}
}

// Valid reports whether id is one of the declared identifiers.
func (id Identifier) Valid() bool {
	_, ok := identifierNames[id]
	return ok
}

func (id Identifier) String() string {
	if name, ok := identifierNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Identifier(%d)", uint8(id))
}

// ParseIdentifier resolves an identifier by name, case-insensitively.
func ParseIdentifier(s string) (Identifier, error) {
	s = strings.TrimSpace(s)
	for id, name := range identifierNames {
		if strings.EqualFold(name, s) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
}
