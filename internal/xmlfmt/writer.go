package xmlfmt

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// writer accumulates indented lines.
type writer struct {
	opt         Options
	buf         strings.Builder
	indentLevel int
}

func (w *writer) indent() string {
	if w.opt.UseTabs {
		return strings.Repeat("\t", w.indentLevel)
	}
	return strings.Repeat(" ", w.indentLevel*w.opt.TabWidth)
}

// line writes s on its own indented line.
func (w *writer) line(s string) {
	w.buf.WriteString(w.indent())
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

// fits reports whether s fits on a line at the current indentation.
func (w *writer) fits(s string) bool {
	if w.opt.PrintWidth <= 0 {
		return true
	}
	col := w.indentLevel * w.opt.TabWidth
	return col+runewidth.StringWidth(s) <= w.opt.PrintWidth
}

func (w *writer) String() string { return w.buf.String() }
