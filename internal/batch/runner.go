// Package batch applies a pipeline to every file matched by a glob and
// summarises the run in a report.
package batch

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"iconci/internal/fault"
	"iconci/internal/report"
)

// Func processes one file and reports whether it changed.
type Func func(ctx context.Context, path string) (bool, error)

// Result summarises a run. Changed keeps processing order.
type Result struct {
	Pattern  string
	Matched  []string
	Examined int
	Changed  []string
}

type options struct {
	progress ProgressSink
	logger   *zap.Logger
	verb     string
	emoji    string
	noun     string
}

// Option configures Run.
type Option func(*options)

// WithProgress sends per-file events to sink.
func WithProgress(sink ProgressSink) Option {
	return func(o *options) { o.progress = sink }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithVerb replaces "changed" in the summary, e.g. "would change".
func WithVerb(verb string) Option {
	return func(o *options) { o.verb = verb }
}

// WithTitle prefixes the summary with a level-3 heading such as
// ":iphone: Updated 2 XML files". noun names the files, e.g. "desktop SVGs".
func WithTitle(emoji, noun string) Option {
	return func(o *options) {
		o.emoji = emoji
		o.noun = noun
	}
}

// Expand returns the files matching pattern. "**" matches any number of
// directories. Order is the order the glob walk produced.
func Expand(pattern string) ([]string, error) {
	if !doublestar.ValidatePathPattern(pattern) {
		return nil, fault.Configf("invalid glob pattern %q", pattern)
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fault.IOError(pattern, err)
	}
	return matches, nil
}

// Run expands pattern and applies fn to each match in turn. It stops at the
// first error, leaving later files untouched, and returns the partial result
// with that error. On success the outcome is appended to rep.
func Run(ctx context.Context, pattern string, fn Func, rep *report.Report, opts ...Option) (Result, error) {
	o := options{logger: zap.NewNop(), verb: "changed"}
	for _, opt := range opts {
		opt(&o)
	}

	res := Result{Pattern: pattern}
	files, err := Expand(pattern)
	if err != nil {
		return res, err
	}
	res.Matched = files
	o.logger.Debug("expanded glob", zap.String("pattern", pattern), zap.Int("matched", len(files)))

	if len(files) == 0 {
		o.heading(rep, "No files found")
		rep.Alert(report.AlertWarning, fmt.Sprintf("No files found matching `%s`.", pattern))
		o.logger.Warn("no files found", zap.String("pattern", pattern))
		return res, nil
	}

	for _, file := range files {
		emit(o.progress, Event{File: file, Status: StatusQueued})
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		emit(o.progress, Event{File: file, Status: StatusWorking})
		start := time.Now()
		changed, err := fn(ctx, file)
		elapsed := time.Since(start)
		res.Examined++
		if err != nil {
			emit(o.progress, Event{File: file, Status: StatusError, Err: err, Elapsed: elapsed})
			return res, err
		}
		status := StatusUnchanged
		if changed {
			status = StatusChanged
			res.Changed = append(res.Changed, file)
		}
		emit(o.progress, Event{File: file, Status: status, Elapsed: elapsed})
	}

	if len(res.Changed) == 0 {
		o.heading(rep, fmt.Sprintf("No %s %s", o.noun, o.verb))
	} else {
		o.heading(rep, fmt.Sprintf("%s %d %s", capitalize(o.verb), len(res.Changed), o.noun))
	}
	summarize(rep, res, o.verb)
	o.logger.Info("batch complete",
		zap.String("pattern", pattern),
		zap.Int("examined", res.Examined),
		zap.Int("changed", len(res.Changed)))
	return res, nil
}

func (o options) heading(rep *report.Report, text string) {
	if o.noun == "" {
		return
	}
	if o.emoji != "" {
		text = o.emoji + " " + text
	}
	rep.Heading(text, 3)
}

func summarize(rep *report.Report, res Result, verb string) {
	if len(res.Changed) == 0 {
		rep.Raw(fmt.Sprintf("<p>Checked %d %s, %s 0.</p>", res.Examined, files(res.Examined), html.EscapeString(verb)), true)
		return
	}
	rep.Raw(fmt.Sprintf("<p>%s %d of %d %s:</p>", capitalize(verb), len(res.Changed), res.Examined, files(res.Examined)), true)
	rep.List(res.Changed, false)
}

func files(n int) string {
	if n == 1 {
		return "file"
	}
	return "files"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	s = html.EscapeString(s)
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
