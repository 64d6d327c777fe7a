package command_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cmdrouter/core/command"
	"github.com/dmitrymomot/cmdrouter/core/logger"
)

func TestLoggingMiddleware(t *testing.T) {
	t.Parallel()

	newLog := func(buf *bytes.Buffer) *slog.Logger {
		return logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelDebug))
	}

	t.Run("logs successful delivery", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := command.NewSimpleReceiver("UART0")
		wrapped := command.LoggingMiddleware(newLog(&buf))(inner)

		assert.Equal(t, inner.Name(), wrapped.Name())
		require.NoError(t, wrapped.Handle(context.Background(), command.SimpleData{SerialNumber: 7}))

		out := buf.String()
		assert.Contains(t, out, "delivery started")
		assert.Contains(t, out, "delivery completed")
		assert.Contains(t, out, "receiver=simple-receiver")
		assert.Contains(t, out, "payload=SimpleData")
		assert.Len(t, inner.Objects(), 1)
	})

	t.Run("keeps mismatches at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		wrapped := command.LoggingMiddleware(newLog(&buf))(command.NewComplexReceiver("/sys/log"))

		err := wrapped.Handle(context.Background(), command.Unimplemented{})
		assert.ErrorIs(t, err, command.ErrPayloadMismatch)
		assert.Contains(t, buf.String(), "delivery dropped by receiver")
		assert.NotContains(t, buf.String(), "level=ERROR")
	})

	t.Run("logs failures as errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		linkDown := errors.New("link down")
		wrapped := command.LoggingMiddleware(newLog(&buf))(command.NewReceiverFunc("uplink",
			func(context.Context, command.SimpleData) error { return linkDown }))

		err := wrapped.Handle(context.Background(), command.SimpleData{})
		assert.ErrorIs(t, err, linkDown)
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "delivery failed")
	})

	t.Run("runs inside the dispatcher with command metadata", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		registry := command.NewRegistry()
		registry.MustRegister(command.SimpleDataRequest, command.Share(command.NewSimpleReceiver("UART0")))

		d := command.NewDispatcher(registry, command.WithMiddleware(command.LoggingMiddleware(newLog(&buf))))
		cmd := command.NewCommand(command.SimpleDataRequest, command.SimpleData{SerialNumber: 1})
		require.NoError(t, d.Dispatch(context.Background(), cmd))

		assert.Contains(t, buf.String(), "command_id="+cmd.ID)
	})
}

func TestTimeoutMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("sets a deadline on the delivery context", func(t *testing.T) {
		t.Parallel()

		var deadline time.Time
		inner := command.NewReceiverFunc("deadline", func(ctx context.Context, _ command.SimpleData) error {
			var ok bool
			deadline, ok = ctx.Deadline()
			assert.True(t, ok)
			return nil
		})

		before := time.Now()
		require.NoError(t, command.TimeoutMiddleware(time.Minute)(inner).Handle(context.Background(), command.SimpleData{}))
		assert.WithinDuration(t, before.Add(time.Minute), deadline, 5*time.Second)
	})

	t.Run("waits for the receiver to return", func(t *testing.T) {
		t.Parallel()

		inner := command.NewReceiverFunc("slow", func(ctx context.Context, _ command.SimpleData) error {
			<-ctx.Done()
			return ctx.Err()
		})

		err := command.TimeoutMiddleware(5*time.Millisecond)(inner).Handle(context.Background(), command.SimpleData{})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("zero disables", func(t *testing.T) {
		t.Parallel()

		inner := command.NewSimpleReceiver("UART0")
		assert.Same(t, command.Receiver(inner), command.TimeoutMiddleware(0)(inner))
	})
}
