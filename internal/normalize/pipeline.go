package normalize

import (
	"context"
	"os"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"

	"iconci/internal/fault"
	"iconci/internal/license"
	"iconci/internal/observ"
	"iconci/internal/svgo"
	"iconci/internal/xmlfmt"
)

// Attributes stripped by each platform.
var (
	DesktopAttrs = []string{
		"id", "data-name", "class",
		"fill", "stroke", "stroke-width", "stroke-miterlimit", "fill-opacity",
	}
	StrictDesktopAttrs = append(append([]string(nil), DesktopAttrs...), "clip-rule", "fill-rule")
	MobileAttrs        = []string{
		"id", "data-name", "class",
		"stroke", "stroke-width", "stroke-miterlimit",
	}
)

// Options configures a Pipeline.
type Options struct {
	// Check computes the result without writing it.
	Check  bool
	Timer  *observ.Timer
	Logger *zap.Logger
}

// Pipeline normalizes files of one kind for one platform.
type Pipeline struct {
	name  string
	kind  Kind
	rules []svgo.Rule
	// formatOriginal formats the text as read instead of the optimizer output.
	formatOriginal bool
	opt            Options
}

// Desktop returns the desktop pipeline. strict also strips clip-rule and
// fill-rule.
func Desktop(strict bool, opt Options) *Pipeline {
	attrs := DesktopAttrs
	if strict {
		attrs = StrictDesktopAttrs
	}
	rules := []svgo.Rule{
		svgo.RemoveAttrs(attrs...),
		svgo.InferDimensions(),
		svgo.AddContextFill(),
	}
	rules = append(rules, svgo.BaseRules()...)
	return newPipeline("desktop", KindSVG, rules, false, opt)
}

// Mobile returns the mobile pipeline for kind. Mobile icons are neither
// resized nor recolored.
//
// For SVG the optimizer runs, so malformed markup still fails the file, but
// the formatter is applied to the text as read and the optimizer output is
// discarded. The on-disk result therefore only gains formatting and the
// license header.
func Mobile(kind Kind, opt Options) *Pipeline {
	var rules []svgo.Rule
	if kind == KindSVG {
		rules = append([]svgo.Rule{svgo.RemoveAttrs(MobileAttrs...)}, svgo.BaseRules()...)
	}
	return newPipeline("mobile", kind, rules, true, opt)
}

func newPipeline(name string, kind Kind, rules []svgo.Rule, formatOriginal bool, opt Options) *Pipeline {
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	return &Pipeline{name: name, kind: kind, rules: rules, formatOriginal: formatOriginal, opt: opt}
}

// Name returns "desktop" or "mobile".
func (p *Pipeline) Name() string { return p.name }

// Kind returns the file kind the pipeline accepts.
func (p *Pipeline) Kind() Kind { return p.kind }

// Rules returns the optimizer rule names in order.
func (p *Pipeline) Rules() []string { return svgo.Names(p.rules) }

// Normalize processes one file and reports whether its content changed.
// Files without the pipeline's extension are skipped without being read.
func (p *Pipeline) Normalize(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !p.kind.Matches(path) {
		p.opt.Logger.Debug("skipping file", zap.String("path", path), zap.String("kind", string(p.kind)))
		return false, nil
	}

	idx := p.opt.Timer.Begin("read")
	raw, err := os.ReadFile(path)
	p.opt.Timer.End(idx, "")
	if err != nil {
		return false, fault.IOError(path, err)
	}
	original := string(raw)

	next := original
	if p.kind == KindSVG {
		if next, err = p.optimizeAndFormat(path, original); err != nil {
			return false, err
		}
	}

	idx = p.opt.Timer.Begin("license")
	next = license.Ensure(next)
	p.opt.Timer.End(idx, "")

	if next == original {
		p.opt.Logger.Debug("unchanged", zap.String("path", path))
		return false, nil
	}
	if p.opt.Check {
		p.opt.Logger.Info("would change", zap.String("path", path), zap.Bool("licensed", license.Has(original)))
		return true, nil
	}

	idx = p.opt.Timer.Begin("write")
	err = writeFile(path, []byte(next))
	p.opt.Timer.End(idx, path)
	if err != nil {
		return false, err
	}
	p.opt.Logger.Info("normalized", zap.String("pipeline", p.name), zap.String("path", path))
	return true, nil
}

func (p *Pipeline) optimizeAndFormat(path, original string) (string, error) {
	idx := p.opt.Timer.Begin("optimize")
	optimized, err := svgo.Optimize(path, original, p.rules)
	p.opt.Timer.End(idx, "")
	if err != nil {
		return "", err
	}

	src := optimized
	if p.formatOriginal {
		src = original
	}

	idx = p.opt.Timer.Begin("format")
	formatted, err := xmlfmt.Format(src, xmlfmt.SVGOptions(path))
	p.opt.Timer.End(idx, "")
	if err != nil {
		return "", err
	}
	return formatted, nil
}

// writeFile atomically replaces path, keeping its permission bits.
func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}
	if err := renameio.WriteFile(path, data, mode.Perm()); err != nil {
		return fault.IOError(path, err)
	}
	return nil
}
