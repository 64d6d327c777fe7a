// Package command provides a typed command router: a FIFO queue of tagged
// commands is drained and every command is delivered to exactly one receiver
// selected by its identifier.
//
// # Core Concepts
//
//   - Identifier: closed set of routing keys (SimpleDataRequest, ...).
//   - Payload: closed set of payload variants (SimpleData, ComplexData, ...).
//   - Command: an (Identifier, Payload) pair with an ID and creation time.
//   - Queue: unbounded FIFO; not shared between goroutines.
//   - Receiver: performs the side effect for one or more command families.
//   - Registry: identifier to receiver routing table.
//   - Dispatcher: drains a queue and routes each command.
//
// # Quick Start
//
//	registry := command.NewRegistry()
//	registry.MustRegister(command.SimpleDataRequest, command.NewSimpleReceiver("UART0"))
//	registry.MustRegister(command.ComplexDataRequest, command.NewComplexReceiver("/sys/log"))
//
//	queue := command.NewQueue(
//	    command.NewCommand(command.SimpleDataRequest, command.SimpleData{SerialNumber: 0xdeadbeef, ObjectType: 0x50}),
//	    command.NewCommand(command.ComplexDataRequest, command.ComplexData{Payload: []byte{0xff, 0xaa}}),
//	)
//
//	dispatcher := command.NewDispatcher(registry, command.WithLogger(log))
//	stats, err := dispatcher.Drain(ctx, queue)
//
// # Shared Receivers
//
// One receiver instance may serve several identifiers. Wrap it with Share
// and register the same handle under each identifier:
//
//	device := command.Share(command.NewSimpleReceiver("UART0"))
//	registry.MustRegister(command.SimpleDataRequest, device)
//	registry.MustRegister(command.UnimplementedRequest, device)
//
// The dispatcher try-locks the guard for the duration of a single Handle
// call, waiting at most the acquire timeout (WithAcquireTimeout). A
// receiver that stays busy, or that panicked while holding the guard,
// makes the command drop with ErrAccessUnavailable instead of stalling the
// loop.
//
// # Error Handling
//
// No failure aborts a drain. Each drop is logged with the dropping component
// and a reason, counted in Stats, and returned by Dispatch as a *DropError:
//
//   - ErrUnknownIdentifier: no receiver registered (dispatcher).
//   - ErrPayloadMismatch: receiver does not handle the payload variant (receiver).
//   - ErrAccessUnavailable: shared receiver busy or poisoned (dispatcher).
//
// Commands are never retried or requeued.
//
//	err := dispatcher.Dispatch(ctx, cmd)
//	switch {
//	case errors.Is(err, command.ErrUnknownIdentifier):
//	case errors.Is(err, command.ErrPayloadMismatch):
//	case errors.Is(err, command.ErrAccessUnavailable):
//	}
//
// # Middleware
//
// Middleware wraps resolved receivers, inside the shared-receiver guard:
//
//	dispatcher := command.NewDispatcher(registry,
//	    command.WithMiddleware(command.LoggingMiddleware(log)),
//	)
package command
