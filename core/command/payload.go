package command

import "slices"

// Payload is the data carried by a command. The set of payload variants is
// closed; only types declared in this package implement it.
//
// A payload may disagree with the identifier it was enqueued under. Receivers
// report such commands with ErrPayloadMismatch instead of failing.
type Payload interface {
	payload()
}

// SimpleData registers an object identified by its serial number.
type SimpleData struct {
	SerialNumber uint32
	ObjectType   uint8
}

// ComplexData is an opaque variable-length payload.
type ComplexData struct {
	Payload []byte
}

// Unimplemented is the empty payload of UnimplementedRequest.
type Unimplemented struct{}

func (SimpleData) payload()    {}
func (ComplexData) payload()   {}
func (Unimplemented) payload() {}

// PayloadName returns the variant name of p, used in diagnostics.
func PayloadName(p Payload) string {
	switch p.(type) {
	case SimpleData:
		return "SimpleData"
	case ComplexData:
		return "ComplexData"
	case Unimplemented:
		return "Unimplemented"
	case nil:
		return "<nil>"
	default:
		return "unknown"
	}
}

// clonePayload detaches p from memory owned by the producer.
func clonePayload(p Payload) Payload {
	if c, ok := p.(ComplexData); ok {
		return ComplexData{Payload: slices.Clone(c.Payload)}
	}
	return p
}
