package command

import (
	"context"
	"errors"
	"fmt"
)

// chainMiddleware applies multiple middleware in order.
// The first middleware in the slice is the outermost (executed first).
func chainMiddleware(r Receiver, middleware []Middleware) Receiver {
	// Reverse order required: wrapping innermost first makes it execute last
	for i := len(middleware) - 1; i >= 0; i-- {
		r = middleware[i](r)
	}
	return r
}

// safeHandle executes a receiver with panic recovery.
// A panic is converted to an error wrapping ErrReceiverPanicked.
func safeHandle(ctx context.Context, r Receiver, payload Payload) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %s: %v", ErrReceiverPanicked, r.Name(), rec)
		}
	}()
	return r.Handle(ctx, payload)
}

func isPanic(err error) bool {
	return err != nil && errors.Is(err, ErrReceiverPanicked)
}

func isMismatch(err error) bool {
	return err != nil && errors.Is(err, ErrPayloadMismatch)
}
