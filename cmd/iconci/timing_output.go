package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"iconci/internal/observ"
)

func newTimer(cmd *cobra.Command) (*observ.Timer, error) {
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if !showTimings {
		return nil, nil
	}
	return observ.NewTimer(), nil
}

func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	if timer == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
}
