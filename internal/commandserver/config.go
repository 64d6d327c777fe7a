package commandserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/cmdrouter/core/command"
	"github.com/dmitrymomot/cmdrouter/core/logger"
)

// ServiceName is attached to every log record of the command server.
const ServiceName = "commandserver"

// Config holds the command server settings, loaded from the environment.
type Config struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	SimpleLink     string        `env:"ROUTER_SIMPLE_LINK" envDefault:"UART0"`
	ComplexLogFile string        `env:"ROUTER_COMPLEX_LOGFILE" envDefault:"/sys/log"`
	Shared         bool          `env:"ROUTER_SHARED" envDefault:"false"`
	Contexts       int           `env:"ROUTER_CONTEXTS" envDefault:"1"`
	AcquireTimeout time.Duration `env:"ROUTER_ACQUIRE_TIMEOUT" envDefault:"100ms"`
	HandleTimeout  time.Duration `env:"ROUTER_HANDLE_TIMEOUT" envDefault:"0s"`

	// Input selects the producer: empty runs the built-in example list,
	// "-" reads JSON lines from stdin, anything else is a file path.
	Input string `env:"ROUTER_INPUT"`
}

// DefaultConfig returns the settings used when the environment is empty.
func DefaultConfig() Config {
	return Config{
		Env:            "development",
		LogLevel:       "info",
		LogFormat:      "text",
		SimpleLink:     command.DefaultSimpleLink,
		ComplexLogFile: command.DefaultComplexLogFile,
		Contexts:       1,
		AcquireTimeout: command.DefaultAcquireTimeout,
	}
}

// Validate reports settings the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Contexts < 1 {
		errs = append(errs, fmt.Errorf("contexts must be at least 1, got %d", c.Contexts))
	}
	if c.AcquireTimeout < 0 {
		errs = append(errs, fmt.Errorf("acquire timeout must not be negative, got %s", c.AcquireTimeout))
	}
	if c.HandleTimeout < 0 {
		errs = append(errs, fmt.Errorf("handle timeout must not be negative, got %s", c.HandleTimeout))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.LogFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("commandserver: invalid config: %w", err)
	}
	return nil
}

// NewLogger builds the server logger for cfg, writing to w.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	opts := []logger.Option{envOption(cfg.Env)}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		opts = append(opts, logger.WithJSONFormatter())
	case "text":
		opts = append(opts, logger.WithTextFormatter())
	}
	opts = append(opts,
		logger.WithOutput(w),
		logger.WithContextExtractors(command.CommandIDExtractor, command.CommandIdentifierExtractor),
	)
	return logger.New(opts...)
}

func envOption(env string) logger.Option {
	switch strings.ToLower(env) {
	case "production", "prod":
		return logger.WithProduction(ServiceName)
	case "staging", "stage":
		return logger.WithStaging(ServiceName)
	default:
		return logger.WithDevelopment(ServiceName)
	}
}
