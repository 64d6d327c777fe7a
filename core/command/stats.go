package command

import (
	"errors"
	"sync/atomic"
)

// Stats counts dispatch outcomes. Every received command lands in exactly
// one of the outcome counters.
type Stats struct {
	Received          uint64 // Commands taken from the queue
	Delivered         uint64 // Handled successfully by a receiver
	UnknownIdentifier uint64 // Dropped: no receiver registered
	PayloadMismatch   uint64 // Dropped by the receiver: unrecognised payload
	AccessUnavailable uint64 // Dropped: shared receiver busy or poisoned
	Failed            uint64 // Receiver returned another error or panicked
}

// Dropped returns the number of commands dropped for any reason.
func (s Stats) Dropped() uint64 {
	return s.UnknownIdentifier + s.PayloadMismatch + s.AccessUnavailable
}

// Add returns the sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Received:          s.Received + o.Received,
		Delivered:         s.Delivered + o.Delivered,
		UnknownIdentifier: s.UnknownIdentifier + o.UnknownIdentifier,
		PayloadMismatch:   s.PayloadMismatch + o.PayloadMismatch,
		AccessUnavailable: s.AccessUnavailable + o.AccessUnavailable,
		Failed:            s.Failed + o.Failed,
	}
}

func (s *Stats) record(err error) {
	s.Received++
	switch {
	case err == nil:
		s.Delivered++
	case errors.Is(err, ErrUnknownIdentifier):
		s.UnknownIdentifier++
	case errors.Is(err, ErrPayloadMismatch):
		s.PayloadMismatch++
	case errors.Is(err, ErrAccessUnavailable):
		s.AccessUnavailable++
	default:
		s.Failed++
	}
}

// counters is the concurrency-safe form of Stats kept by a Dispatcher.
type counters struct {
	received          atomic.Uint64
	delivered         atomic.Uint64
	unknownIdentifier atomic.Uint64
	payloadMismatch   atomic.Uint64
	accessUnavailable atomic.Uint64
	failed            atomic.Uint64
}

func (c *counters) record(err error) {
	c.received.Add(1)
	switch {
	case err == nil:
		c.delivered.Add(1)
	case errors.Is(err, ErrUnknownIdentifier):
		c.unknownIdentifier.Add(1)
	case errors.Is(err, ErrPayloadMismatch):
		c.payloadMismatch.Add(1)
	case errors.Is(err, ErrAccessUnavailable):
		c.accessUnavailable.Add(1)
	default:
		c.failed.Add(1)
	}
}

func (c *counters) snapshot() Stats {
	return Stats{
		Received:          c.received.Load(),
		Delivered:         c.delivered.Load(),
		UnknownIdentifier: c.unknownIdentifier.Load(),
		PayloadMismatch:   c.payloadMismatch.Load(),
		AccessUnavailable: c.accessUnavailable.Load(),
		Failed:            c.failed.Load(),
	}
}
