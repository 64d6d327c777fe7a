package command

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/cmdrouter/core/logger"
)

// Receiver performs the side effect for one or more command families.
//
// Handle returns nil once the payload was handled. A payload variant the
// receiver does not recognise is logged and reported with an error matching
// ErrPayloadMismatch; Handle must never panic for it.
//
// Receivers need not be safe for concurrent use. Wrap a receiver with Share
// before registering it under several identifiers.
type Receiver interface {
	// Name identifies the receiver in diagnostics.
	Name() string

	// Handle executes the receiver's handling routine for payload.
	Handle(ctx context.Context, payload Payload) error
}

type receiverConfig struct {
	name   string
	logger *slog.Logger
}

// ReceiverOption configures the built-in receivers.
type ReceiverOption func(*receiverConfig)

// WithReceiverName overrides the receiver name used in diagnostics.
func WithReceiverName(name string) ReceiverOption {
	return func(c *receiverConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithReceiverLogger sets the logger receiving the receiver's records.
func WithReceiverLogger(l *slog.Logger) ReceiverOption {
	return func(c *receiverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func newReceiverConfig(name string, opts []ReceiverOption) receiverConfig {
	c := receiverConfig{name: name, logger: logger.Discard()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// dropUnknown logs a payload the receiver does not handle and returns the
// matching DropError.
func (c receiverConfig) dropUnknown(ctx context.Context, p Payload) error {
	err := &DropError{
		Component: c.name,
		Reason:    ReasonPayloadMismatch,
		Payload:   PayloadName(p),
		Err:       ErrPayloadMismatch,
	}
	c.logger.WarnContext(ctx, "received unknown event, dropping it",
		logger.Component(c.name),
		logger.Reason(ReasonPayloadMismatch),
		slog.String("payload", err.Payload))
	return err
}

// ReceiverFunc adapts a function over one payload variant to a Receiver.
// Payloads of any other variant are dropped with ErrPayloadMismatch.
//
// Example:
//
//	pinger := command.NewReceiverFunc("pinger",
//	    func(ctx context.Context, _ command.Unimplemented) error {
//	        return nil
//	    })
type ReceiverFunc[T Payload] struct {
	cfg receiverConfig
	fn  func(context.Context, T) error
}

// NewReceiverFunc creates a receiver handling payloads of type T with fn.
func NewReceiverFunc[T Payload](name string, fn func(context.Context, T) error, opts ...ReceiverOption) *ReceiverFunc[T] {
	return &ReceiverFunc[T]{
		cfg: newReceiverConfig(name, opts),
		fn:  fn,
	}
}

// Name returns the receiver name.
func (r *ReceiverFunc[T]) Name() string {
	return r.cfg.name
}

// Handle invokes the wrapped function when payload is a T.
func (r *ReceiverFunc[T]) Handle(ctx context.Context, payload Payload) error {
	v, ok := payload.(T)
	if !ok {
		return r.cfg.dropUnknown(ctx, payload)
	}
	return r.fn(ctx, v)
}
