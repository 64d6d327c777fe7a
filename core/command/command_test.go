package command_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cmdrouter/core/command"
)

func TestNewCommand(t *testing.T) {
	t.Parallel()

	t.Run("creates command with auto-generated ID", func(t *testing.T) {
		t.Parallel()

		payload := command.SimpleData{SerialNumber: 0xdeadbeef, ObjectType: 0x50}
		cmd := command.NewCommand(command.SimpleDataRequest, payload)

		require.NotEmpty(t, cmd.ID)
		assert.Equal(t, command.SimpleDataRequest, cmd.Identifier)
		assert.Equal(t, payload, cmd.Payload)
		assert.WithinDuration(t, time.Now(), cmd.CreatedAt, time.Second)
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		t.Parallel()

		cmd1 := command.NewCommand(command.UnimplementedRequest, command.Unimplemented{})
		cmd2 := command.NewCommand(command.UnimplementedRequest, command.Unimplemented{})
		require.NotEqual(t, cmd1.ID, cmd2.ID)
	})

	t.Run("copies byte payloads", func(t *testing.T) {
		t.Parallel()

		raw := []byte{0xff, 0xaa, 0xdd, 0xee}
		cmd := command.NewCommand(command.ComplexDataRequest, command.ComplexData{Payload: raw})
		raw[0] = 0x00

		data, ok := cmd.Payload.(command.ComplexData)
		require.True(t, ok)
		assert.Equal(t, []byte{0xff, 0xaa, 0xdd, 0xee}, data.Payload)
	})

	t.Run("allows payload that disagrees with identifier", func(t *testing.T) {
		t.Parallel()

		cmd := command.NewCommand(command.SimpleDataRequest, command.ComplexData{})
		assert.Equal(t, command.SimpleDataRequest, cmd.Identifier)
		assert.Equal(t, "ComplexData", command.PayloadName(cmd.Payload))
	})
}

func TestIdentifier(t *testing.T) {
	t.Parallel()

	t.Run("names and validity", func(t *testing.T) {
		t.Parallel()

		for _, id := range command.Identifiers() {
			assert.True(t, id.Valid(), id.String())
		}
		assert.Equal(t, "ComplexDataRequest", command.ComplexDataRequest.String())
		assert.False(t, command.Identifier(0).Valid())
		assert.Equal(t, "Identifier(42)", command.Identifier(42).String())
	})

	t.Run("parses names case-insensitively", func(t *testing.T) {
		t.Parallel()

		id, err := command.ParseIdentifier(" simpledatarequest ")
		require.NoError(t, err)
		assert.Equal(t, command.SimpleDataRequest, id)

		_, err = command.ParseIdentifier("Reboot")
		assert.ErrorIs(t, err, command.ErrInvalidIdentifier)
	})
}

func TestPayloadName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SimpleData", command.PayloadName(command.SimpleData{}))
	assert.Equal(t, "ComplexData", command.PayloadName(command.ComplexData{}))
	assert.Equal(t, "Unimplemented", command.PayloadName(command.Unimplemented{}))
	assert.Equal(t, "<nil>", command.PayloadName(nil))
}
