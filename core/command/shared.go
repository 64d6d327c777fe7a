package command

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultAcquireTimeout bounds how long a dispatch waits for a busy shared receiver.
	DefaultAcquireTimeout = 100 * time.Millisecond

	acquirePollInterval = time.Millisecond
)

// SharedReceiver is a single receiver instance reachable from several
// identifiers. Every invocation runs under its mutual-exclusion guard, so
// the wrapped receiver never sees overlapping calls.
//
// Register the same *SharedReceiver under each identifier; never copy it.
//
// If the wrapped receiver panics while the guard is held, the guard is
// poisoned and later acquisitions fail with ErrReceiverPoisoned until
// ClearPoison is called.
type SharedReceiver struct {
	receiver Receiver
	mu       sync.Mutex
	poisoned atomic.Bool
}

// Share wraps r in a lock-guarded handle. It panics if r is nil.
//
// Example:
//
//	device := command.Share(command.NewSimpleReceiver("UART0"))
//	registry.MustRegister(command.SimpleDataRequest, device)
//	registry.MustRegister(command.UnimplementedRequest, device)
func Share(r Receiver) *SharedReceiver {
	if r == nil {
		panic(ErrNilReceiver)
	}
	if s, ok := r.(*SharedReceiver); ok {
		return s
	}
	return &SharedReceiver{receiver: r}
}

// Name returns the wrapped receiver's name.
func (s *SharedReceiver) Name() string {
	return s.receiver.Name()
}

// Unwrap returns the wrapped receiver.
func (s *SharedReceiver) Unwrap() Receiver {
	return s.receiver
}

// Handle invokes the wrapped receiver under the guard, waiting at most
// DefaultAcquireTimeout for it. Dispatchers acquire the guard themselves;
// this method serves callers outside a Dispatcher.
func (s *SharedReceiver) Handle(ctx context.Context, payload Payload) error {
	return s.invoke(ctx, DefaultAcquireTimeout, func(ctx context.Context) error {
		return safeHandle(ctx, s.receiver, payload)
	})
}

// Poisoned reports whether a previous invocation panicked under the guard.
func (s *SharedReceiver) Poisoned() bool {
	return s.poisoned.Load()
}

// ClearPoison makes a poisoned receiver available again.
func (s *SharedReceiver) ClearPoison() {
	s.poisoned.Store(false)
}

// invoke runs fn while holding the guard. The guard is released on every
// exit path; a panic reported by fn poisons it first.
func (s *SharedReceiver) invoke(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	if err := s.acquire(ctx, timeout); err != nil {
		return err
	}
	defer s.mu.Unlock()

	err := fn(ctx)
	if isPanic(err) {
		s.poisoned.Store(true)
	}
	return err
}

// acquire try-locks the guard, polling until timeout or ctx is done.
// It never waits unbounded.
func (s *SharedReceiver) acquire(ctx context.Context, timeout time.Duration) error {
	if s.poisoned.Load() {
		return ErrReceiverPoisoned
	}
	if s.mu.TryLock() {
		return s.checkPoison()
	}
	if timeout <= 0 {
		return fmt.Errorf("%w: %s is busy", ErrAccessUnavailable, s.Name())
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(acquirePollInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrAccessUnavailable, ctx.Err())
		case <-deadline.C:
			return fmt.Errorf("%w: %s busy for %s", ErrAccessUnavailable, s.Name(), timeout)
		case <-tick.C:
			if s.mu.TryLock() {
				return s.checkPoison()
			}
		}
	}
}

// checkPoison runs with the guard held; it releases the guard when the
// receiver was poisoned while we waited.
func (s *SharedReceiver) checkPoison() error {
	if s.poisoned.Load() {
		s.mu.Unlock()
		return ErrReceiverPoisoned
	}
	return nil
}
