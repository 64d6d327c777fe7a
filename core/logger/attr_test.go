package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cmdrouter/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("stats", logger.Count("received", 5), logger.Count("delivered", 4))
	require.Equal(t, "stats", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "received", g[0].Key)
	assert.Equal(t, "delivered", g[1].Key)

	var buf bytes.Buffer
	logger.New(logger.WithOutput(&buf)).Info("dispatch finished", attr)
	assert.Contains(t, buf.String(), "stats.received=5 stats.delivered=4")
}

// ============================================================================
// Error Tests
// ============================================================================

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

// ============================================================================
// Timing Tests
// ============================================================================

func TestDuration(t *testing.T) {
	t.Parallel()
	attr := logger.Duration(5 * time.Second)
	require.Equal(t, "duration", attr.Key)
	assert.Equal(t, 5*time.Second, attr.Value.Duration())
}

func TestElapsed(t *testing.T) {
	t.Parallel()
	attr := logger.Elapsed(time.Now().Add(-500 * time.Millisecond))
	require.Equal(t, "elapsed", attr.Key)
	assert.GreaterOrEqual(t, attr.Value.Duration(), 500*time.Millisecond)
}

// ============================================================================
// Identifier and Routing Tests
// ============================================================================

func TestCommandID(t *testing.T) {
	t.Parallel()
	attr := logger.CommandID("cmd-1")
	require.Equal(t, "command_id", attr.Key)
	assert.Equal(t, "cmd-1", attr.Value.String())

	assert.True(t, logger.CommandID("").Equal(slog.Attr{}))
}

func TestRoutingAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		attr  slog.Attr
		key   string
		value string
	}{
		{"component", logger.Component("dispatcher"), "component", "dispatcher"},
		{"receiver", logger.Receiver("simple-receiver"), "receiver", "simple-receiver"},
		{"reason", logger.Reason("unknown_identifier"), "reason", "unknown_identifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.value, tt.attr.Value.String())
		})
	}

	assert.True(t, logger.Receiver("").Equal(slog.Attr{}))
	assert.True(t, logger.Reason("").Equal(slog.Attr{}))
}

func TestCount(t *testing.T) {
	t.Parallel()
	attr := logger.Count("delivered", 3)
	require.Equal(t, "delivered", attr.Key)
	assert.Equal(t, int64(3), attr.Value.Int64())
}
