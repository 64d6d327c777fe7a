package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cmdrouter/core/command"
)

func serialCommand(serial uint32) command.Command {
	return command.NewCommand(command.SimpleDataRequest, command.SimpleData{SerialNumber: serial})
}

func serialOf(t *testing.T, cmd command.Command) uint32 {
	t.Helper()
	data, ok := cmd.Payload.(command.SimpleData)
	require.True(t, ok, "unexpected payload %T", cmd.Payload)
	return data.SerialNumber
}

func TestQueue(t *testing.T) {
	t.Parallel()

	t.Run("empty queue reports false", func(t *testing.T) {
		t.Parallel()

		q := command.NewQueue()
		cmd, ok := q.Dequeue()
		assert.False(t, ok)
		assert.Equal(t, command.Command{}, cmd)
		assert.Zero(t, q.Len())
	})

	t.Run("preserves FIFO order", func(t *testing.T) {
		t.Parallel()

		q := command.NewQueue(serialCommand(1), serialCommand(2))
		q.Enqueue(serialCommand(3))
		q.Push(serialCommand(4), serialCommand(5))
		require.Equal(t, 5, q.Len())

		for want := uint32(1); want <= 5; want++ {
			cmd, ok := q.Dequeue()
			require.True(t, ok)
			assert.Equal(t, want, serialOf(t, cmd))
		}
		_, ok := q.Dequeue()
		assert.False(t, ok)
	})

	t.Run("keeps order across interleaved use and compaction", func(t *testing.T) {
		t.Parallel()

		q := command.NewQueue()
		next := uint32(0)
		want := uint32(0)

		for round := 0; round < 20; round++ {
			for i := 0; i < 50; i++ {
				q.Enqueue(serialCommand(next))
				next++
			}
			for i := 0; i < 30; i++ {
				cmd, ok := q.Dequeue()
				require.True(t, ok)
				require.Equal(t, want, serialOf(t, cmd))
				want++
			}
		}

		assert.Equal(t, int(next-want), q.Len())
		for q.Len() > 0 {
			cmd, _ := q.Dequeue()
			require.Equal(t, want, serialOf(t, cmd))
			want++
		}
		assert.Equal(t, next, want)
	})
}
