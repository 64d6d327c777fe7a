package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/cmdrouter/core/logger"
)

// Middleware wraps a Receiver to add cross-cutting behaviour.
// Dispatchers apply middleware inside the shared-receiver guard.
type Middleware func(next Receiver) Receiver

// middlewareReceiver wraps a Receiver with middleware functionality.
type middlewareReceiver struct {
	name string
	fn   func(ctx context.Context, payload Payload) error
}

func (r *middlewareReceiver) Name() string {
	return r.name
}

func (r *middlewareReceiver) Handle(ctx context.Context, payload Payload) error {
	return r.fn(ctx, payload)
}

// LoggingMiddleware logs every delivery with its duration and outcome.
// Payload mismatches are logged at debug level; the receiver has already
// reported them.
//
// Example:
//
//	dispatcher := command.NewDispatcher(registry,
//	    command.WithMiddleware(command.LoggingMiddleware(log)),
//	)
func LoggingMiddleware(log *slog.Logger) Middleware {
	return func(next Receiver) Receiver {
		return &middlewareReceiver{
			name: next.Name(),
			fn: func(ctx context.Context, payload Payload) error {
				start := time.Now()
				attrs := []any{
					logger.Receiver(next.Name()),
					logger.CommandID(CommandID(ctx)),
					slog.String("payload", PayloadName(payload)),
				}

				log.DebugContext(ctx, "delivery started", attrs...)

				err := next.Handle(ctx, payload)
				attrs = append(attrs, logger.Duration(time.Since(start)))

				switch {
				case err == nil:
					log.DebugContext(ctx, "delivery completed", attrs...)
				case isMismatch(err):
					log.DebugContext(ctx, "delivery dropped by receiver", append(attrs, logger.Error(err))...)
				default:
					log.ErrorContext(ctx, "delivery failed", append(attrs, logger.Error(err))...)
				}

				return err
			},
		}
	}
}

// TimeoutMiddleware gives every delivery a context deadline of timeout.
// Cancellation is cooperative: the receiver keeps running until it returns,
// so a shared receiver's guard is never released under a live call.
// Non-positive timeouts disable the middleware.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next Receiver) Receiver {
		if timeout <= 0 {
			return next
		}
		return &middlewareReceiver{
			name: next.Name(),
			fn: func(ctx context.Context, payload Payload) error {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()

				if err := next.Handle(ctx, payload); err != nil {
					if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
						return fmt.Errorf("%s: deadline %s exceeded: %w", next.Name(), timeout, err)
					}
					return err
				}
				return nil
			},
		}
	}
}
