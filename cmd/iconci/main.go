package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"iconci/internal/version"
)

var logger = zap.NewNop()

// setupErr holds a persistent flag error for commands that report through
// the error boundary; runOperation returns it from inside the boundary.
var setupErr error

// boundaryAnnotation marks commands whose failures go through action.Run.
const boundaryAnnotation = "iconci/boundary"

func usesBoundary(cmd *cobra.Command) bool {
	return cmd.Annotations[boundaryAnnotation] == "true"
}

// configureRun applies the persistent flags: color, logger and profiling.
func configureRun(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return err
	}
	if err := applyColorMode(colorFlag); err != nil {
		return err
	}
	level, err := flags.GetString("log-level")
	if err != nil {
		return err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return err
	}
	l, err := newLogger(level, quiet)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return startProfiling(cmd)
}

var rootCmd = &cobra.Command{
	Use:   "iconci",
	Short: "Icon normalization for continuous integration",
	Long: `iconci optimizes, formats and license-stamps SVG and XML icon assets,
and commits the result back to the repository`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupErr = configureRun(cmd)
		if setupErr != nil && !usesBoundary(cmd) {
			return setupErr
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopProfiling()
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(normalizeDesktopCmd)
	rootCmd.AddCommand(normalizeMobileCmd)
	rootCmd.AddCommand(commitChangesCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "only log warnings and errors")
	rootCmd.PersistentFlags().Bool("timings", false, "show per-phase timing information")
	rootCmd.PersistentFlags().String("ui", "auto", "progress UI mode (auto|on|off)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
}

// main runs the root command and exits with the status of the operation.
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(args)
	// cobra only inherits the root context into subcommands that have none,
	// so each run hands its own context to every subcommand.
	for _, sub := range rootCmd.Commands() {
		sub.SetContext(ctx)
	}
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	stopProfiling()
	_ = logger.Sync()

	var failed *operationError
	if errors.As(err, &failed) {
		return failed.outcome.ExitCode()
	}
	fmt.Fprintf(rootCmd.ErrOrStderr(), "error: %v\n", err)
	return 1
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
