package command

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dmitrymomot/cmdrouter/core/logger"
)

// DefaultSimpleLink is the data link used when none is configured.
const DefaultSimpleLink = "UART0"

// SimpleReceiver registers small fixed-size object records and forwards them
// on its data link. It also answers Unimplemented payloads as link pings,
// which lets one shared instance serve UnimplementedRequest as well. The
// link is an opaque label; no I/O is performed.
type SimpleReceiver struct {
	cfg  receiverConfig
	link string

	// mutated only by Handle
	objects   []SimpleData
	forwarded int
	pings     int
}

// NewSimpleReceiver creates a receiver forwarding on link.
// An empty link falls back to DefaultSimpleLink.
func NewSimpleReceiver(link string, opts ...ReceiverOption) *SimpleReceiver {
	if link == "" {
		link = DefaultSimpleLink
	}
	return &SimpleReceiver{
		cfg:  newReceiverConfig("simple-receiver", opts),
		link: link,
	}
}

// Name returns the receiver name.
func (r *SimpleReceiver) Name() string {
	return r.cfg.name
}

// Link returns the configured data link.
func (r *SimpleReceiver) Link() string {
	return r.link
}

// Handle registers SimpleData payloads and counts Unimplemented payloads as
// pings. Other variants are dropped.
func (r *SimpleReceiver) Handle(ctx context.Context, payload Payload) error {
	var data SimpleData
	switch p := payload.(type) {
	case SimpleData:
		data = p
	case Unimplemented:
		r.pings++
		r.cfg.logger.DebugContext(ctx, "link ping",
			logger.Component(r.cfg.name),
			slog.String("link", r.link))
		return nil
	default:
		return r.cfg.dropUnknown(ctx, payload)
	}

	r.objects = append(r.objects, data)
	r.cfg.logger.InfoContext(ctx, "registered new object",
		logger.Component(r.cfg.name),
		slog.String("serial_number", fmt.Sprintf("0x%08x", data.SerialNumber)),
		slog.Int("object_type", int(data.ObjectType)))

	r.forwarded++
	r.cfg.logger.InfoContext(ctx, "forwarding new object data",
		logger.Component(r.cfg.name),
		slog.String("link", r.link))

	return nil
}

// Objects returns a copy of the registered objects in arrival order.
func (r *SimpleReceiver) Objects() []SimpleData {
	return slices.Clone(r.objects)
}

// Pings returns how many Unimplemented payloads were answered.
func (r *SimpleReceiver) Pings() int {
	return r.pings
}

// Forwarded returns how many records were forwarded on the link.
func (r *SimpleReceiver) Forwarded() int {
	return r.forwarded
}
