package commandserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/cmdrouter/core/command"
	"github.com/dmitrymomot/cmdrouter/core/logger"
)

// Receivers are the receiver instances behind one registry.
type Receivers struct {
	Simple  *command.SimpleReceiver
	Complex *command.ComplexReceiver
}

// NewReceivers creates the receivers configured by cfg.
func NewReceivers(cfg Config, log *slog.Logger) Receivers {
	opt := command.WithReceiverLogger(log)
	return Receivers{
		Simple:  command.NewSimpleReceiver(cfg.SimpleLink, opt),
		Complex: command.NewComplexReceiver(cfg.ComplexLogFile, opt),
	}
}

// Registry maps the receivers to their identifiers.
//
// When shared is true every receiver is wrapped with command.Share, so the
// registry may be used by several dispatch contexts at once, and the simple
// receiver also answers UnimplementedRequest pings through the same handle.
// Otherwise UnimplementedRequest stays unregistered and is dropped.
func (r Receivers) Registry(shared bool) *command.Registry {
	registry := command.NewRegistry()
	if !shared {
		registry.MustRegister(command.SimpleDataRequest, r.Simple)
		registry.MustRegister(command.ComplexDataRequest, r.Complex)
		return registry
	}

	device := command.Share(r.Simple)
	registry.MustRegister(command.SimpleDataRequest, device)
	registry.MustRegister(command.UnimplementedRequest, device)
	registry.MustRegister(command.ComplexDataRequest, command.Share(r.Complex))
	return registry
}

// Server drains produced commands over one or more dispatch contexts.
//
// In shared mode all contexts route to one set of receivers guarded by
// command.Share. Otherwise every context owns private receivers and no
// receiver is reachable from two goroutines.
type Server struct {
	cfg      Config
	producer Producer
	logger   *slog.Logger

	// receivers of each dispatch context; a single entry in shared mode
	receivers []Receivers
}

// New creates a server for cfg reading commands from producer.
func New(cfg Config, producer Producer, log *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if producer == nil {
		return nil, fmt.Errorf("commandserver: producer cannot be nil")
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Server{cfg: cfg, producer: producer, logger: log}, nil
}

// Receivers returns the receivers built by the last Run.
func (s *Server) Receivers() []Receivers {
	return s.receivers
}

// Run produces the commands, fans them out round-robin over the dispatch
// contexts and drains every context. It returns the aggregated outcome.
// Dropped commands are counted, not returned; Run fails only when the
// producer fails or ctx is done.
func (s *Server) Run(ctx context.Context) (command.Stats, error) {
	start := time.Now()

	staging := command.NewQueue()
	if err := s.producer.Produce(ctx, staging); err != nil {
		return command.Stats{}, fmt.Errorf("commandserver: produce: %w", err)
	}

	n := s.cfg.Contexts
	queues := make([]*command.Queue, n)
	for i := range queues {
		queues[i] = command.NewQueue()
	}
	for i := 0; ; i++ {
		cmd, ok := staging.Dequeue()
		if !ok {
			break
		}
		queues[i%n].Enqueue(cmd)
	}

	dispatchers := s.dispatchers(n)
	results := make([]command.Stats, n)

	s.logger.InfoContext(ctx, "dispatch started",
		logger.Count("contexts", n),
		slog.Bool("shared", s.cfg.Shared))

	g, gctx := errgroup.WithContext(ctx)
	for i := range dispatchers {
		g.Go(func() error {
			stats, err := dispatchers[i].Drain(gctx, queues[i])
			results[i] = stats
			if err != nil {
				return fmt.Errorf("commandserver: context %d: %w", i, err)
			}
			return nil
		})
	}
	err := g.Wait()

	var total command.Stats
	for _, r := range results {
		total = total.Add(r)
	}

	s.logger.InfoContext(ctx, "dispatch finished",
		logger.Group("stats",
			logger.Count("received", int(total.Received)),
			logger.Count("delivered", int(total.Delivered)),
			logger.Count("unknown_identifier", int(total.UnknownIdentifier)),
			logger.Count("payload_mismatch", int(total.PayloadMismatch)),
			logger.Count("access_unavailable", int(total.AccessUnavailable)),
			logger.Count("failed", int(total.Failed)),
		),
		logger.Elapsed(start),
		logger.Error(err))

	return total, err
}

func (s *Server) dispatchers(n int) []*command.Dispatcher {
	opts := func(i int) []command.Option {
		log := s.logger.With(slog.Int("context", i))
		return []command.Option{
			command.WithLogger(log),
			command.WithAcquireTimeout(s.cfg.AcquireTimeout),
			command.WithMiddleware(
				command.LoggingMiddleware(log),
				command.TimeoutMiddleware(s.cfg.HandleTimeout),
			),
		}
	}

	dispatchers := make([]*command.Dispatcher, n)
	if s.cfg.Shared {
		receivers := NewReceivers(s.cfg, s.logger)
		registry := receivers.Registry(true)
		s.receivers = []Receivers{receivers}
		for i := range dispatchers {
			dispatchers[i] = command.NewDispatcher(registry, opts(i)...)
		}
		return dispatchers
	}

	s.receivers = make([]Receivers, n)
	for i := range dispatchers {
		s.receivers[i] = NewReceivers(s.cfg, s.logger.With(slog.Int("context", i)))
		dispatchers[i] = command.NewDispatcher(s.receivers[i].Registry(false), opts(i)...)
	}
	return dispatchers
}

// OpenProducer returns the producer selected by input (see Config.Input)
// and a function releasing it.
func OpenProducer(input string, stdin io.Reader, log *slog.Logger) (Producer, func() error, error) {
	noop := func() error { return nil }
	switch input {
	case "":
		return ExampleProducer{}, noop, nil
	case "-":
		return NewJSONLinesProducer(stdin, log), noop, nil
	default:
		f, err := os.Open(input)
		if err != nil {
			return nil, nil, fmt.Errorf("commandserver: open input: %w", err)
		}
		return NewJSONLinesProducer(f, log), f.Close, nil
	}
}

// Run opens the producer named by cfg.Input, reading stdin for "-", and
// runs a server with it. A failure to close the input is returned when the
// run itself succeeded.
func Run(ctx context.Context, cfg Config, stdin io.Reader, log *slog.Logger) (stats command.Stats, err error) {
	producer, closeFn, err := OpenProducer(cfg.Input, stdin, log)
	if err != nil {
		return command.Stats{}, err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = fmt.Errorf("commandserver: close input: %w", cerr)
		}
	}()

	srv, err := New(cfg, producer, log)
	if err != nil {
		return command.Stats{}, err
	}
	return srv.Run(ctx)
}
