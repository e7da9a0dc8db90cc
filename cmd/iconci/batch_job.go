package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"iconci/internal/batch"
	"iconci/internal/fault"
	"iconci/internal/normalize"
	"iconci/internal/observ"
	"iconci/internal/report"
)

type batchJob struct {
	name     string
	pattern  string
	pipeline *normalize.Pipeline
	check    bool
	emoji    string
	noun     string
	timer    *observ.Timer
}

// runBatch applies the job's pipeline to every match. In check mode any file
// that would change fails the run.
func runBatch(ctx context.Context, cmd *cobra.Command, job batchJob, rep *report.Report) error {
	useUI, err := uiEnabled(cmd)
	if err != nil {
		return err
	}

	batchLogger := logger
	if useUI {
		batchLogger = zap.NewNop()
	}
	opts := []batch.Option{batch.WithLogger(batchLogger), batch.WithTitle(job.emoji, job.noun)}
	if job.check {
		opts = append(opts, batch.WithVerb("would change"))
	}

	logger.Info("normalizing",
		zap.String("pipeline", job.pipeline.Name()),
		zap.String("pattern", job.pattern),
		zap.Strings("rules", job.pipeline.Rules()),
		zap.Bool("check", job.check))

	var res batch.Result
	if useUI {
		res, err = runBatchWithUI(ctx, job.name, job.pattern, job.pipeline.Normalize, rep, opts)
	} else {
		res, err = batch.Run(ctx, job.pattern, job.pipeline.Normalize, rep, opts...)
	}
	printTimings(cmd, job.timer)
	if err != nil {
		return err
	}
	if job.check && len(res.Changed) > 0 {
		return fault.Checkf("%d of %d files are not normalized", len(res.Changed), res.Examined)
	}
	return nil
}
