package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/cmdrouter/core/command"
	"github.com/dmitrymomot/cmdrouter/core/config"
	"github.com/dmitrymomot/cmdrouter/internal/commandserver"
)

type runFlags struct {
	shared         bool
	contexts       int
	input          string
	logFormat      string
	logLevel       string
	acquireTimeout time.Duration
	handleTimeout  time.Duration
}

func newRunCommand() *cobra.Command {
	var flags runFlags

	c := &cobra.Command{
		Use:   "run",
		Short: "Produce commands and drain them through the router",
		Long: `Run produces commands, fans them out over the dispatch contexts and
drains every queue. Without --input the built-in example list is used;
"--input -" reads JSON lines from stdin.

Settings are read from the environment (ROUTER_*, LOG_*, APP_ENV) and a
.env file; flags override them.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			var cfg commandserver.Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			applyFlags(c, flags, &cfg)

			if err := cfg.Validate(); err != nil {
				return err
			}

			log := commandserver.NewLogger(cfg, c.OutOrStdout())
			stats, err := commandserver.Run(c.Context(), cfg, c.InOrStdin(), log)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.ErrOrStderr(), "received=%d delivered=%d dropped=%d failed=%d\n",
				stats.Received, stats.Delivered, stats.Dropped(), stats.Failed)
			return nil
		},
	}

	f := c.Flags()
	f.BoolVar(&flags.shared, "shared", false, "share guarded receivers across dispatch contexts and answer pings")
	f.IntVar(&flags.contexts, "contexts", 1, "number of concurrent dispatch contexts")
	f.StringVarP(&flags.input, "input", "i", "", `JSON lines input file, "-" for stdin (default: example list)`)
	f.StringVar(&flags.logFormat, "log-format", "text", "log format: text or json")
	f.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.DurationVar(&flags.acquireTimeout, "acquire-timeout", command.DefaultAcquireTimeout, "max wait for a busy shared receiver")
	f.DurationVar(&flags.handleTimeout, "handle-timeout", 0, "deadline given to each delivery, 0 disables")

	return c
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(c *cobra.Command, flags runFlags, cfg *commandserver.Config) {
	changed := c.Flags().Changed
	if changed("shared") {
		cfg.Shared = flags.shared
	}
	if changed("contexts") {
		cfg.Contexts = flags.contexts
	}
	if changed("input") {
		cfg.Input = flags.input
	}
	if changed("log-format") {
		cfg.LogFormat = flags.logFormat
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("acquire-timeout") {
		cfg.AcquireTimeout = flags.acquireTimeout
	}
	if changed("handle-timeout") {
		cfg.HandleTimeout = flags.handleTimeout
	}
}
