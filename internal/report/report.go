package report

import (
	"errors"
	"html"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"iconci/internal/fault"
)

// ErrAlreadyFlushed is returned by a second Flush.
var ErrAlreadyFlushed = errors.New("report: already flushed")

// AlertKind is the severity tag of an alert fragment.
type AlertKind string

const (
	AlertNote      AlertKind = "note"
	AlertTip       AlertKind = "tip"
	AlertImportant AlertKind = "important"
	AlertWarning   AlertKind = "warning"
	AlertCaution   AlertKind = "caution"
)

// Report is an append-only summary buffer.
type Report struct {
	sink    Sink
	buf     strings.Builder
	flushed bool
}

// New returns an empty report that flushes to sink.
func New(sink Sink) *Report {
	return &Report{sink: sink}
}

// String returns the buffered content.
func (r *Report) String() string { return r.buf.String() }

// Empty reports whether nothing has been appended.
func (r *Report) Empty() bool { return r.buf.Len() == 0 }

// Flushed reports whether Flush has been called.
func (r *Report) Flushed() bool { return r.flushed }

// Flush writes the buffer to the sink. It may be called once; the report is
// marked flushed even when the sink fails.
func (r *Report) Flush() error {
	if r.flushed {
		return ErrAlreadyFlushed
	}
	r.flushed = true
	if r.sink == nil {
		return nil
	}
	if err := r.sink.Write(r.buf.String()); err != nil {
		return fault.IOError(r.sink.Name(), err)
	}
	return nil
}

// Raw appends text verbatim, optionally followed by a newline.
func (r *Report) Raw(text string, addEOL bool) *Report {
	r.buf.WriteString(text)
	if addEOL {
		r.buf.WriteByte('\n')
	}
	return r
}

// EOL appends a bare newline.
func (r *Report) EOL() *Report {
	return r.Raw("\n", false)
}

func (r *Report) fragment(s string) *Report {
	return r.Raw(s, true)
}

// Heading appends <hN>; levels outside 1..6 fall back to 1.
func (r *Report) Heading(text string, level int) *Report {
	n, err := safecast.Conv[uint8](level)
	if err != nil || n < 1 || n > 6 {
		n = 1
	}
	tag := "h" + strconv.Itoa(int(n))
	return r.fragment(wrap(tag, html.EscapeString(text), nil))
}

// List appends a <ul>, or an <ol> when ordered.
func (r *Report) List(items []string, ordered bool) *Report {
	tag := "ul"
	if ordered {
		tag = "ol"
	}
	var b strings.Builder
	for _, item := range items {
		b.WriteString(wrap("li", html.EscapeString(item), nil))
	}
	return r.fragment(wrap(tag, b.String(), nil))
}

// Cell is one table cell.
type Cell struct {
	Data    string
	Header  bool
	Colspan int
	Rowspan int
}

// Table appends a <table> of rows.
func (r *Report) Table(rows [][]Cell) *Report {
	var b strings.Builder
	for _, row := range rows {
		var cells strings.Builder
		for _, c := range row {
			tag := "td"
			if c.Header {
				tag = "th"
			}
			var attrs [][2]string
			if c.Colspan > 1 {
				attrs = append(attrs, [2]string{"colspan", strconv.Itoa(c.Colspan)})
			}
			if c.Rowspan > 1 {
				attrs = append(attrs, [2]string{"rowspan", strconv.Itoa(c.Rowspan)})
			}
			cells.WriteString(wrap(tag, html.EscapeString(c.Data), attrs))
		}
		b.WriteString(wrap("tr", cells.String(), nil))
	}
	return r.fragment(wrap("table", b.String(), nil))
}

// Alert appends a callout of the given kind.
func (r *Report) Alert(kind AlertKind, text string) *Report {
	var b strings.Builder
	b.WriteString("> [!")
	b.WriteString(strings.ToUpper(string(kind)))
	b.WriteString("]")
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString("\n> ")
		b.WriteString(line)
	}
	b.WriteByte('\n')
	return r.fragment(b.String())
}

// CodeBlock appends a <pre><code> block, tagged with lang when given.
func (r *Report) CodeBlock(code, lang string) *Report {
	var attrs [][2]string
	if lang != "" {
		attrs = append(attrs, [2]string{"lang", lang})
	}
	return r.fragment(wrap("pre", wrap("code", html.EscapeString(code), nil), attrs))
}

// Details appends a collapsible <details> section.
func (r *Report) Details(label, body string) *Report {
	return r.fragment(wrap("details", wrap("summary", html.EscapeString(label), nil)+body, nil))
}

// Link appends an anchor.
func (r *Report) Link(text, href string) *Report {
	return r.fragment(wrap("a", html.EscapeString(text), [][2]string{{"href", href}}))
}

// Image appends an <img>; zero width or height is omitted.
func (r *Report) Image(src, alt string, width, height int) *Report {
	attrs := [][2]string{{"src", src}, {"alt", alt}}
	if width > 0 {
		attrs = append(attrs, [2]string{"width", strconv.Itoa(width)})
	}
	if height > 0 {
		attrs = append(attrs, [2]string{"height", strconv.Itoa(height)})
	}
	return r.fragment(voidTag("img", attrs))
}

// Separator appends <hr>.
func (r *Report) Separator() *Report { return r.fragment(voidTag("hr", nil)) }

// Break appends <br>.
func (r *Report) Break() *Report { return r.fragment(voidTag("br", nil)) }

func openTag(tag string, attrs [][2]string) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a[0])
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a[1]))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

func wrap(tag, content string, attrs [][2]string) string {
	return openTag(tag, attrs) + content + "</" + tag + ">"
}

func voidTag(tag string, attrs [][2]string) string {
	return openTag(tag, attrs)
}
