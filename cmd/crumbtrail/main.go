package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crumbtrail/internal/cli"
	crumberrors "github.com/matzehuels/crumbtrail/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "error:", crumberrors.UserMessage(err))
	}
	os.Exit(exitCode(err))
}

// exitCode maps err to a process status: 130 after an interrupt, 2 for bad
// input or trees, 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case crumberrors.IsUsage(err):
		return 2
	default:
		return 1
	}
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Raise the level before the root pre-run so config loading is logged.
	configure := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if configure == nil {
			return nil
		}
		return configure(cmd, args)
	}

	return root.ExecuteContext(ctx)
}
