package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iconci/internal/batch"
	"iconci/internal/report"
)

func iconDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("<svg/>"), 0o644))
	}
	return dir
}

func TestRenderQuitCancelsBatch(t *testing.T) {
	dir := iconDir(t, "a.svg", "b.svg", "c.svg")
	started := make(chan struct{})
	var calls atomic.Int32

	fn := func(ctx context.Context, path string) (bool, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-ctx.Done()
		return false, ctx.Err()
	}
	quit := func(<-chan batch.Event) error {
		<-started
		return nil
	}

	res, err := runBatchRendered(context.Background(), filepath.Join(dir, "*.svg"), fn, report.New(nil), nil, quit)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, res.Examined)
}

func TestRenderSeesWholeBatch(t *testing.T) {
	dir := iconDir(t, "a.svg", "b.svg", "c.svg")
	fn := func(context.Context, string) (bool, error) { return true, nil }

	var finished int
	render := func(events <-chan batch.Event) error {
		for evt := range events {
			if evt.Status == batch.StatusChanged {
				finished++
			}
		}
		return nil
	}

	res, err := runBatchRendered(context.Background(), filepath.Join(dir, "*.svg"), fn, report.New(nil), nil, render)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Examined)
	assert.Len(t, res.Changed, 3)
	assert.Equal(t, 3, finished)
}
