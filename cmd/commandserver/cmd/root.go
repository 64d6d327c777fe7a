package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		printError(root.ErrOrStderr(), err)
		return err
	}
	return nil
}

// NewRootCommand builds the command tree. Logs go to stdout, errors to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "commandserver",
		Short: "Typed command router",
		Long: `commandserver drains a queue of typed commands and routes each one
to the receiver registered for its identifier.

Receivers:
  simple-receiver   - SimpleDataRequest, forwards object records on a data link
  complex-receiver  - ComplexDataRequest, records opaque payloads

Commands without a receiver, or with a payload their receiver does not
handle, are logged and dropped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newRunCommand())
	return root
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}
