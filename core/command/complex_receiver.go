package command

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/cmdrouter/core/logger"
)

// DefaultComplexLogFile is the log destination used when none is configured.
const DefaultComplexLogFile = "/sys/log"

// ComplexReceiver records variable-length opaque payloads against its log
// destination. The destination is an opaque label; no file is written.
type ComplexReceiver struct {
	cfg     receiverConfig
	logFile string

	// mutated only by Handle
	entries int
	bytes   int
}

// NewComplexReceiver creates a receiver logging to logFile.
// An empty logFile falls back to DefaultComplexLogFile.
func NewComplexReceiver(logFile string, opts ...ReceiverOption) *ComplexReceiver {
	if logFile == "" {
		logFile = DefaultComplexLogFile
	}
	return &ComplexReceiver{
		cfg:     newReceiverConfig("complex-receiver", opts),
		logFile: logFile,
	}
}

// Name returns the receiver name.
func (r *ComplexReceiver) Name() string {
	return r.cfg.name
}

// LogFile returns the configured log destination.
func (r *ComplexReceiver) LogFile() string {
	return r.logFile
}

// Handle records ComplexData payloads. Other variants are dropped.
func (r *ComplexReceiver) Handle(ctx context.Context, payload Payload) error {
	data, ok := payload.(ComplexData)
	if !ok {
		return r.cfg.dropUnknown(ctx, payload)
	}

	r.entries++
	r.bytes += len(data.Payload)
	r.cfg.logger.InfoContext(ctx, "received payload",
		logger.Component(r.cfg.name),
		slog.Int("length", len(data.Payload)),
		slog.String("logfile", r.logFile))

	return nil
}

// Entries returns how many payloads were recorded.
func (r *ComplexReceiver) Entries() int {
	return r.entries
}

// Bytes returns the total number of payload bytes recorded.
func (r *ComplexReceiver) Bytes() int {
	return r.bytes
}
