package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/cmdrouter/core/logger"
)

type commandIDCtx struct{}

// WithCommandID attaches a command ID to the context for tracing and correlation.
func WithCommandID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, commandIDCtx{}, id)
}

// CommandID extracts the command ID from the context.
// Returns empty string if not present.
func CommandID(ctx context.Context) string {
	if id, ok := ctx.Value(commandIDCtx{}).(string); ok {
		return id
	}
	return ""
}

type commandIdentifierCtx struct{}

// WithCommandIdentifier attaches the routing identifier to the context.
func WithCommandIdentifier(ctx context.Context, id Identifier) context.Context {
	return context.WithValue(ctx, commandIdentifierCtx{}, id)
}

// CommandIdentifier extracts the routing identifier from the context.
func CommandIdentifier(ctx context.Context) (Identifier, bool) {
	id, ok := ctx.Value(commandIdentifierCtx{}).(Identifier)
	return id, ok
}

type commandTimeCtx struct{}

// WithCommandTime attaches the command creation time to the context for latency tracking.
func WithCommandTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, commandTimeCtx{}, t)
}

// CommandTime extracts the command creation time from the context.
// Returns zero time if not present.
func CommandTime(ctx context.Context) time.Time {
	if t, ok := ctx.Value(commandTimeCtx{}).(time.Time); ok {
		return t
	}
	return time.Time{}
}

// WithCommandMeta attaches all command metadata (ID, Identifier, CreatedAt) to the context.
func WithCommandMeta(ctx context.Context, cmd Command) context.Context {
	ctx = WithCommandID(ctx, cmd.ID)
	ctx = WithCommandIdentifier(ctx, cmd.Identifier)
	ctx = WithCommandTime(ctx, cmd.CreatedAt)
	return ctx
}

// CommandIDExtractor is a logger.ContextExtractor adding "command_id".
func CommandIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id := CommandID(ctx)
	if id == "" {
		return slog.Attr{}, false
	}
	return logger.CommandID(id), true
}

// CommandIdentifierExtractor is a logger.ContextExtractor adding "command".
func CommandIdentifierExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := CommandIdentifier(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("command", id.String()), true
}
