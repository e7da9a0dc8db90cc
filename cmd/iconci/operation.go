package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"iconci/internal/action"
	"iconci/internal/config"
	"iconci/internal/fault"
	"iconci/internal/report"
)

// operationError carries a failed Outcome back to main. The boundary has
// already annotated, logged and reported it.
type operationError struct {
	outcome action.Outcome
}

func (e *operationError) Error() string {
	return fmt.Sprintf("%s: %s", e.outcome.Operation, e.outcome.Message)
}

// runContext is what an operation body sees of its configuration.
type runContext struct {
	src      config.Source
	manifest config.ManifestConfig
	dir      string
}

type operationBody func(ctx context.Context, rep *report.Report, rc *runContext) error

// runOperation loads .env, picks the summary sink and runs body inside the
// error boundary.
func runOperation(cmd *cobra.Command, name string, body operationBody) error {
	cwd, cwdErr := os.Getwd()
	var envErr error
	if cwdErr == nil {
		// .env may name the summary file, so it is loaded before the sink is chosen.
		envErr = config.LoadDotEnv(cwd)
	}
	sink := report.SinkFromEnv(os.Getenv, cmd.OutOrStdout())
	logger.Debug("summary sink", zap.String("op", name), zap.String("sink", sink.Name()))

	out := action.Run(cmd.Context(), action.Operation{
		Name: name,
		Run: func(ctx context.Context, rep *report.Report) error {
			if setupErr != nil {
				return setupErr
			}
			if cwdErr != nil {
				return fault.IOError(".", cwdErr)
			}
			if envErr != nil {
				return envErr
			}
			rc, err := loadRunContext(cwd)
			if err != nil {
				return err
			}
			return body(ctx, rep, rc)
		},
	}, action.Env{Sink: sink, Logger: logger, Stdout: cmd.OutOrStdout()})

	if out.OK {
		return nil
	}
	return &operationError{outcome: out}
}

func loadRunContext(dir string) (*runContext, error) {
	m, ok, err := config.LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	if ok {
		logger.Debug("loaded manifest", zap.String("path", m.Path))
	}
	return &runContext{src: config.FromEnv(), manifest: m.Config, dir: dir}, nil
}
