package command

import (
	"context"
	"log/slog"
	"time"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger receiving dispatch diagnostics.
// By default diagnostics are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMiddleware sets middleware applied to every resolved receiver in the
// order provided. Middleware runs inside the shared-receiver guard.
//
// Example:
//
//	dispatcher := command.NewDispatcher(registry,
//	    command.WithMiddleware(command.LoggingMiddleware(log)),
//	)
func WithMiddleware(middleware ...Middleware) Option {
	return func(d *Dispatcher) {
		d.middleware = append(d.middleware, middleware...)
	}
}

// WithAcquireTimeout bounds how long a dispatch waits for a busy shared
// receiver before dropping the command. Zero means a single try-lock.
// Negative values are ignored.
func WithAcquireTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout >= 0 {
			d.acquireTimeout = timeout
		}
	}
}

// WithFallback sets a hook receiving commands whose identifier has no
// receiver, after the drop has been logged. Useful for dead-letter capture
// or metrics. The command still counts as dropped.
//
// Example:
//
//	dispatcher := command.NewDispatcher(registry,
//	    command.WithFallback(func(ctx context.Context, cmd command.Command) error {
//	        deadLetters = append(deadLetters, cmd)
//	        return nil
//	    }),
//	)
func WithFallback(fn func(context.Context, Command) error) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.fallback = fn
		}
	}
}
