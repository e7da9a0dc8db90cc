package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"iconci/internal/fault"
	"iconci/internal/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("<svg/>"), 0o644))
	}
}

type recorder struct {
	calls []string
	fn    func(path string) (bool, error)
}

func (r *recorder) run(_ context.Context, path string) (bool, error) {
	r.calls = append(r.calls, path)
	if r.fn == nil {
		return false, nil
	}
	return r.fn(path)
}

type eventLog []Event

func (l *eventLog) OnEvent(evt Event) { *l = append(*l, evt) }

func TestRunNoFiles(t *testing.T) {
	dir := t.TempDir()
	rep := report.New(nil)
	rec := &recorder{}

	res, err := Run(context.Background(), filepath.Join(dir, "*.svg"), rec.run, rep)
	require.NoError(t, err)
	assert.Empty(t, rec.calls)
	assert.Empty(t, res.Matched)
	assert.Zero(t, res.Examined)
	assert.Contains(t, rep.String(), "> [!WARNING]")
	assert.Contains(t, rep.String(), "No files found")
}

func TestRunNoChanges(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.svg", "b.svg", "c.svg")
	rep := report.New(nil)
	rec := &recorder{}

	res, err := Run(context.Background(), filepath.Join(dir, "*.svg"), rec.run, rep)
	require.NoError(t, err)
	assert.Len(t, rec.calls, 3)
	assert.Equal(t, 3, res.Examined)
	assert.Empty(t, res.Changed)
	assert.Equal(t, "<p>Checked 3 files, changed 0.</p>\n", rep.String())
}

func TestRunWithChanges(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.svg", "b.svg", "c.svg")
	rep := report.New(nil)
	rec := &recorder{fn: func(path string) (bool, error) {
		return filepath.Base(path) != "b.svg", nil
	}}

	res, err := Run(context.Background(), filepath.Join(dir, "*.svg"), rec.run, rep)
	require.NoError(t, err)
	a, c := filepath.Join(dir, "a.svg"), filepath.Join(dir, "c.svg")
	assert.Equal(t, []string{a, c}, res.Changed)
	assert.Equal(t,
		"<p>Changed 2 of 3 files:</p>\n<ul><li>"+a+"</li><li>"+c+"</li></ul>\n",
		rep.String())
}

func TestRunStopsAtFirstError(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.svg", "b.svg", "c.svg")
	rep := report.New(nil)
	rec := &recorder{fn: func(path string) (bool, error) {
		if filepath.Base(path) == "b.svg" {
			return false, fault.Malformed(path, "no width, height, or viewBox found")
		}
		return true, nil
	}}

	res, err := Run(context.Background(), filepath.Join(dir, "*.svg"), rec.run, rep)
	require.Error(t, err)
	assert.Equal(t, fault.MalformedDocument, fault.KindOf(err))
	assert.Equal(t, []string{filepath.Join(dir, "a.svg"), filepath.Join(dir, "b.svg")}, rec.calls)
	assert.Equal(t, 2, res.Examined)
	assert.True(t, rep.Empty())
}

func TestRunDoubleStar(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.svg", "nested/deep/b.svg", "nested/c.xml")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dir.svg"), 0o755))
	rec := &recorder{}

	res, err := Run(context.Background(), filepath.Join(dir, "**", "*.svg"), rec.run, report.New(nil))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.svg"),
		filepath.Join(dir, "nested", "deep", "b.svg"),
	}, res.Matched)
}

func TestRunInvalidPattern(t *testing.T) {
	_, err := Run(context.Background(), "icons/[a-", (&recorder{}).run, report.New(nil))
	require.Error(t, err)
	assert.Equal(t, fault.Configuration, fault.KindOf(err))
}

func TestRunProgressEvents(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.svg", "b.svg")
	boom := errors.New("boom")
	rec := &recorder{fn: func(path string) (bool, error) {
		if filepath.Base(path) == "b.svg" {
			return false, boom
		}
		return true, nil
	}}
	var events eventLog

	_, err := Run(context.Background(), filepath.Join(dir, "*.svg"), rec.run, report.New(nil), WithProgress(&events))
	require.ErrorIs(t, err, boom)

	var statuses []Status
	for _, e := range events {
		statuses = append(statuses, e.Status)
	}
	assert.Equal(t, []Status{
		StatusQueued, StatusQueued,
		StatusWorking, StatusChanged,
		StatusWorking, StatusError,
	}, statuses)
	assert.ErrorIs(t, events[len(events)-1].Err, boom)
}

func TestRunVerb(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.svg")
	rep := report.New(nil)
	rec := &recorder{fn: func(string) (bool, error) { return true, nil }}

	_, err := Run(context.Background(), filepath.Join(dir, "*.svg"), rec.run, rep, WithVerb("would change"))
	require.NoError(t, err)
	assert.Contains(t, rep.String(), "<p>Would change 1 of 1 file:</p>")
}

func TestRunTitle(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.xml", "b.xml")
	title := WithTitle(":iphone:", "XML files")

	rep := report.New(nil)
	_, err := Run(context.Background(), filepath.Join(dir, "*.xml"), (&recorder{}).run, rep, title)
	require.NoError(t, err)
	assert.Equal(t, "<h3>:iphone: No XML files changed</h3>\n<p>Checked 2 files, changed 0.</p>\n", rep.String())

	rep = report.New(nil)
	rec := &recorder{fn: func(string) (bool, error) { return true, nil }}
	_, err = Run(context.Background(), filepath.Join(dir, "*.xml"), rec.run, rep, title)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rep.String(), "<h3>:iphone: Changed 2 XML files</h3>\n<p>Changed 2 of 2 files:</p>\n"))

	rep = report.New(nil)
	_, err = Run(context.Background(), filepath.Join(dir, "*.svg"), rec.run, rep, title)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rep.String(), "<h3>:iphone: No files found</h3>\n> [!WARNING]"))
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.svg")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}

	_, err := Run(ctx, filepath.Join(dir, "*.svg"), rec.run, report.New(nil))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.calls)
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "a.svg", Status: StatusWorking})
	assert.Equal(t, Event{File: "a.svg", Status: StatusWorking}, <-ch)
	ChannelSink{}.OnEvent(Event{})
}
