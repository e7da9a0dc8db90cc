package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"iconci/internal/prof"
)

var profiler *prof.Session

// startProfiling enables the profilers named by the persistent flags.
func startProfiling(cmd *cobra.Command) error {
	root := cmd.Root()
	cpuProfile, err := root.PersistentFlags().GetString("cpu-profile")
	if err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := root.PersistentFlags().GetString("mem-profile")
	if err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	profiler, err = prof.Start(cpuProfile, memProfile)
	if err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	return nil
}

func stopProfiling() {
	if err := profiler.Stop(); err != nil {
		logger.Warn("failed to write profile", zap.Error(err))
	}
	profiler = nil
}
