package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/cmdrouter/core/logger"
)

const dispatcherComponent = "dispatcher"

// State is the lifecycle state of a Dispatcher.
type State int32

const (
	StateIdle State = iota
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDraining:
		return "draining"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Dispatcher drains a Queue in FIFO order and delivers every command to the
// receiver its identifier resolves to. Failures never abort the loop: a
// command that cannot be delivered is logged and dropped, never retried or
// requeued.
//
// Several dispatchers may share one Registry, each draining its own queue.
// Shared receivers are invoked under their guard, so no two deliveries to
// the same SharedReceiver overlap.
//
// Example:
//
//	registry := command.NewRegistry()
//	registry.MustRegister(command.SimpleDataRequest, command.NewSimpleReceiver("UART0"))
//
//	dispatcher := command.NewDispatcher(registry, command.WithLogger(log))
//	stats, err := dispatcher.Drain(ctx, queue)
type Dispatcher struct {
	registry       *Registry
	middleware     []Middleware
	fallback       func(context.Context, Command) error
	acquireTimeout time.Duration
	logger         *slog.Logger

	state atomic.Int32
	stats counters
}

// NewDispatcher creates a dispatcher routing through registry.
// It panics if registry is nil.
func NewDispatcher(registry *Registry, opts ...Option) *Dispatcher {
	if registry == nil {
		panic("command: dispatcher requires a registry")
	}

	d := &Dispatcher{
		registry:       registry,
		acquireTimeout: DefaultAcquireTimeout,
		logger:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(logger.Component(dispatcherComponent))

	return d
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// Stats returns the outcome counters accumulated over the dispatcher's lifetime.
func (d *Dispatcher) Stats() Stats {
	return d.stats.snapshot()
}

// Drain dequeues and dispatches commands until the queue is empty, then
// returns the outcome counters of this run. Drop conditions are counted,
// not returned.
//
// Drain stops early only when ctx is done; the remaining commands stay
// queued. It returns ErrDispatcherBusy if the dispatcher is already
// draining.
func (d *Dispatcher) Drain(ctx context.Context, q *Queue) (Stats, error) {
	if q == nil {
		return Stats{}, ErrNilQueue
	}
	if !d.state.CompareAndSwap(int32(StateIdle), int32(StateDraining)) {
		return Stats{}, ErrDispatcherBusy
	}
	defer d.state.Store(int32(StateIdle))

	start := time.Now()
	var run Stats

	for {
		if err := ctx.Err(); err != nil {
			d.logger.WarnContext(ctx, "drain interrupted",
				logger.Count("remaining", q.Len()),
				logger.Error(err))
			return run, err
		}

		cmd, ok := q.Dequeue()
		if !ok {
			break
		}
		run.record(d.Dispatch(ctx, cmd))
	}

	d.logger.DebugContext(ctx, "queue drained",
		logger.Count("received", int(run.Received)),
		logger.Count("delivered", int(run.Delivered)),
		logger.Count("dropped", int(run.Dropped())),
		logger.Count("failed", int(run.Failed)),
		logger.Elapsed(start))

	return run, nil
}

// Dispatch routes a single command. It returns nil once a receiver handled
// the command, or the reason the command was dropped: ErrUnknownIdentifier,
// ErrPayloadMismatch, ErrAccessUnavailable (all as *DropError), or the
// receiver's own error. Every drop is logged before Dispatch returns.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) error {
	err := d.dispatch(WithCommandMeta(ctx, cmd), cmd)
	d.stats.record(err)
	return err
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd Command) error {
	receiver, ok := d.registry.Resolve(cmd.Identifier)
	if !ok {
		return d.dropUnknown(ctx, cmd)
	}

	if shared, ok := receiver.(*SharedReceiver); ok {
		err := shared.invoke(ctx, d.acquireTimeout, func(ctx context.Context) error {
			return d.deliver(ctx, cmd, shared.receiver)
		})
		if errors.Is(err, ErrAccessUnavailable) {
			return d.dropUnavailable(ctx, cmd, shared, err)
		}
		return err
	}

	return d.deliver(ctx, cmd, receiver)
}

// deliver invokes the receiver through the middleware chain.
func (d *Dispatcher) deliver(ctx context.Context, cmd Command, receiver Receiver) error {
	err := safeHandle(ctx, chainMiddleware(receiver, d.middleware), cmd.Payload)
	switch {
	case err == nil:
		return nil
	case isMismatch(err):
		// the receiver already reported the drop
		return err
	case isPanic(err):
		d.logger.ErrorContext(ctx, "receiver panicked",
			logger.Receiver(receiver.Name()),
			slog.String("command", cmd.Identifier.String()),
			logger.CommandID(cmd.ID),
			logger.Error(err))
		return err
	default:
		d.logger.ErrorContext(ctx, "receiver failed",
			logger.Receiver(receiver.Name()),
			slog.String("command", cmd.Identifier.String()),
			logger.CommandID(cmd.ID),
			logger.Error(err))
		return err
	}
}

func (d *Dispatcher) dropUnknown(ctx context.Context, cmd Command) error {
	err := &DropError{
		Component:  dispatcherComponent,
		Reason:     ReasonUnknownIdentifier,
		Identifier: cmd.Identifier,
		Payload:    PayloadName(cmd.Payload),
		Err:        ErrUnknownIdentifier,
	}
	d.logger.WarnContext(ctx, "received command with no receiver registered, dropping it",
		logger.Reason(ReasonUnknownIdentifier),
		slog.String("command", cmd.Identifier.String()),
		logger.CommandID(cmd.ID))

	if d.fallback != nil {
		if ferr := d.callFallback(ctx, cmd); ferr != nil {
			d.logger.ErrorContext(ctx, "fallback failed",
				slog.String("command", cmd.Identifier.String()),
				logger.CommandID(cmd.ID),
				logger.Error(ferr))
		}
	}

	return err
}

func (d *Dispatcher) dropUnavailable(ctx context.Context, cmd Command, shared *SharedReceiver, cause error) error {
	err := &DropError{
		Component:  dispatcherComponent,
		Reason:     ReasonAccessUnavailable,
		Identifier: cmd.Identifier,
		Payload:    PayloadName(cmd.Payload),
		Err:        cause,
	}
	d.logger.WarnContext(ctx, "receiver unavailable, dropping command",
		logger.Reason(ReasonAccessUnavailable),
		logger.Receiver(shared.Name()),
		slog.String("command", cmd.Identifier.String()),
		logger.CommandID(cmd.ID),
		logger.Error(cause))
	return err
}

func (d *Dispatcher) callFallback(ctx context.Context, cmd Command) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: fallback: %v", ErrReceiverPanicked, rec)
		}
	}()
	return d.fallback(ctx, cmd)
}
