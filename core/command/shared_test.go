package command_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cmdrouter/core/command"
)

// blockingReceiver parks inside Handle until released.
type blockingReceiver struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingReceiver() *blockingReceiver {
	return &blockingReceiver{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (r *blockingReceiver) Name() string { return "blocking" }

func (r *blockingReceiver) Handle(context.Context, command.Payload) error {
	r.entered <- struct{}{}
	<-r.release
	return nil
}

func TestShare(t *testing.T) {
	t.Parallel()

	t.Run("wraps a receiver once", func(t *testing.T) {
		t.Parallel()

		inner := command.NewSimpleReceiver("UART0")
		shared := command.Share(inner)
		assert.Same(t, shared, command.Share(shared))
		assert.Same(t, inner, shared.Unwrap())
		assert.Equal(t, "simple-receiver", shared.Name())
	})

	t.Run("panics on nil receiver", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { command.Share(nil) })
	})

	t.Run("handles directly under the guard", func(t *testing.T) {
		t.Parallel()

		inner := command.NewSimpleReceiver("UART0")
		shared := command.Share(inner)
		require.NoError(t, shared.Handle(context.Background(), command.SimpleData{SerialNumber: 1}))
		assert.Len(t, inner.Objects(), 1)
	})

	t.Run("reports busy guard as access unavailable", func(t *testing.T) {
		t.Parallel()

		blocker := newBlockingReceiver()
		shared := command.Share(blocker)

		done := make(chan error, 1)
		go func() { done <- shared.Handle(context.Background(), command.Unimplemented{}) }()
		<-blocker.entered

		start := time.Now()
		err := shared.Handle(context.Background(), command.Unimplemented{})
		assert.ErrorIs(t, err, command.ErrAccessUnavailable)
		assert.Less(t, time.Since(start), 5*time.Second)

		close(blocker.release)
		require.NoError(t, <-done)
	})

	t.Run("poisons after a panic", func(t *testing.T) {
		t.Parallel()

		shared := command.Share(command.NewReceiverFunc("fragile", func(_ context.Context, p command.SimpleData) error {
			if p.SerialNumber == 0 {
				panic("bad serial")
			}
			return nil
		}))

		err := shared.Handle(context.Background(), command.SimpleData{})
		require.ErrorIs(t, err, command.ErrReceiverPanicked)
		assert.True(t, shared.Poisoned())

		err = shared.Handle(context.Background(), command.SimpleData{SerialNumber: 1})
		assert.ErrorIs(t, err, command.ErrReceiverPoisoned)
		assert.ErrorIs(t, err, command.ErrAccessUnavailable)

		shared.ClearPoison()
		assert.NoError(t, shared.Handle(context.Background(), command.SimpleData{SerialNumber: 1}))
	})
}
