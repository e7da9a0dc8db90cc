package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"iconci/internal/batch"
	"iconci/internal/report"
	"iconci/internal/ui"
)

// runBatchWithUI runs the batch on a worker goroutine while the progress UI
// owns the terminal. The batch itself stays sequential.
func runBatchWithUI(ctx context.Context, title, pattern string, fn batch.Func, rep *report.Report, opts []batch.Option) (batch.Result, error) {
	return runBatchRendered(ctx, pattern, fn, rep, opts, func(events <-chan batch.Event) error {
		model := ui.NewProgressModel(title, nil, events)
		_, err := tea.NewProgram(model, tea.WithOutput(os.Stdout)).Run()
		return err
	})
}

// runBatchRendered feeds batch events to render. When render returns before
// the batch finishes (the user quit the UI), the batch is canceled.
func runBatchRendered(ctx context.Context, pattern string, fn batch.Func, rep *report.Report, opts []batch.Option, render func(<-chan batch.Event) error) (batch.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan batch.Event, 256)
	runOpts := append(append([]batch.Option(nil), opts...), batch.WithProgress(batch.ChannelSink{Ch: events}))

	var (
		g   errgroup.Group
		res batch.Result
	)
	g.Go(func() error {
		defer close(events)
		var err error
		res, err = batch.Run(ctx, pattern, fn, rep, runOpts...)
		return err
	})

	renderErr := render(events)
	cancel()

	// Keep the worker unblocked until it observes the cancellation.
	go func() {
		for range events {
		}
	}()
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, renderErr
}
