package commandserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/cmdrouter/core/command"
	"github.com/dmitrymomot/cmdrouter/core/logger"
)

// ErrMalformedCommand is reported for input that cannot be turned into a command.
var ErrMalformedCommand = errors.New("malformed command")

// maxLineSize bounds a single JSON line.
const maxLineSize = 1 << 20

// Producer fills a queue before dispatch starts.
type Producer interface {
	Produce(ctx context.Context, q *command.Queue) error
}

// ProducerFunc adapts a function to a Producer.
type ProducerFunc func(ctx context.Context, q *command.Queue) error

func (f ProducerFunc) Produce(ctx context.Context, q *command.Queue) error {
	return f(ctx, q)
}

// ExampleCommands returns the built-in demonstration list: four data
// requests followed by one request without a receiver.
func ExampleCommands() []command.Command {
	return []command.Command{
		command.NewCommand(command.SimpleDataRequest, command.SimpleData{SerialNumber: 0xdeadbeef, ObjectType: 0x50}),
		command.NewCommand(command.ComplexDataRequest, command.ComplexData{Payload: []byte{0xff, 0xaa, 0xdd, 0xee}}),
		command.NewCommand(command.SimpleDataRequest, command.SimpleData{SerialNumber: 0x12345678, ObjectType: 0x10}),
		command.NewCommand(command.SimpleDataRequest, command.SimpleData{SerialNumber: 0xdeadbeef, ObjectType: 0x50}),
		command.NewCommand(command.UnimplementedRequest, command.Unimplemented{}),
	}
}

// ExampleProducer enqueues ExampleCommands.
type ExampleProducer struct{}

func (ExampleProducer) Produce(ctx context.Context, q *command.Queue) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.Push(ExampleCommands()...)
	return nil
}

// JSONLinesProducer reads one command per line:
//
//	{"command":"SimpleDataRequest","serial_number":3735928559,"object_type":80}
//	{"command":"ComplexDataRequest","payload":"ffaaddee"}
//	{"command":"UnimplementedRequest"}
//
// The payload variant follows the fields present, not the command name, so
// a line may pair an identifier with a payload its receiver rejects. Blank
// lines and lines starting with '#' are ignored. Malformed lines are logged
// and skipped; they never reach the queue.
type JSONLinesProducer struct {
	r       io.Reader
	logger  *slog.Logger
	skipped int
}

// NewJSONLinesProducer creates a producer reading from r.
func NewJSONLinesProducer(r io.Reader, log *slog.Logger) *JSONLinesProducer {
	if log == nil {
		log = logger.Discard()
	}
	return &JSONLinesProducer{r: r, logger: log.With(logger.Component("producer"))}
}

// Skipped returns how many malformed lines were dropped.
func (p *JSONLinesProducer) Skipped() int {
	return p.skipped
}

// Produce enqueues every well-formed line in order. It fails only when the
// reader fails or ctx is done.
func (p *JSONLinesProducer) Produce(ctx context.Context, q *command.Queue) error {
	scanner := bufio.NewScanner(p.r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}

		cmd, err := ParseCommand(raw)
		if err != nil {
			p.skipped++
			p.logger.WarnContext(ctx, "malformed command, skipping",
				slog.Int("line", line),
				logger.Error(err))
			continue
		}
		q.Enqueue(cmd)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("commandserver: read input: %w", err)
	}
	return nil
}

type jsonCommand struct {
	Command      string  `json:"command"`
	SerialNumber *uint32 `json:"serial_number,omitempty"`
	ObjectType   *uint8  `json:"object_type,omitempty"`
	Payload      *string `json:"payload,omitempty"`
}

// ParseCommand decodes a single JSON command line.
func ParseCommand(raw []byte) (command.Command, error) {
	var in jsonCommand
	if err := json.Unmarshal(raw, &in); err != nil {
		return command.Command{}, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
	}

	id, err := command.ParseIdentifier(in.Command)
	if err != nil {
		return command.Command{}, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
	}

	switch {
	case in.Payload != nil:
		if in.SerialNumber != nil || in.ObjectType != nil {
			return command.Command{}, fmt.Errorf("%w: payload cannot be combined with object fields", ErrMalformedCommand)
		}
		data, err := hex.DecodeString(*in.Payload)
		if err != nil {
			return command.Command{}, fmt.Errorf("%w: payload: %w", ErrMalformedCommand, err)
		}
		return command.NewCommand(id, command.ComplexData{Payload: data}), nil

	case in.SerialNumber != nil || in.ObjectType != nil:
		data := command.SimpleData{}
		if in.SerialNumber != nil {
			data.SerialNumber = *in.SerialNumber
		}
		if in.ObjectType != nil {
			data.ObjectType = *in.ObjectType
		}
		return command.NewCommand(id, data), nil

	default:
		return command.NewCommand(id, command.Unimplemented{}), nil
	}
}
