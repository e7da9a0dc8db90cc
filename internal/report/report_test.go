package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iconci/internal/fault"
)

type memSink struct {
	writes []string
	err    error
}

func (m *memSink) Name() string { return "mem" }

func (m *memSink) Write(content string) error {
	m.writes = append(m.writes, content)
	return m.err
}

func TestFragments(t *testing.T) {
	tests := []struct {
		name  string
		build func(r *Report)
		want  string
	}{
		{"heading", func(r *Report) { r.Heading("Icons <svg>", 2) }, "<h2>Icons &lt;svg&gt;</h2>\n"},
		{"heading out of range", func(r *Report) { r.Heading("x", 9) }, "<h1>x</h1>\n"},
		{"heading negative", func(r *Report) { r.Heading("x", -3) }, "<h1>x</h1>\n"},
		{"list", func(r *Report) { r.List([]string{"a.svg", "b.svg"}, false) }, "<ul><li>a.svg</li><li>b.svg</li></ul>\n"},
		{"ordered list", func(r *Report) { r.List([]string{"a"}, true) }, "<ol><li>a</li></ol>\n"},
		{"alert", func(r *Report) { r.Alert(AlertWarning, "No files found") }, "> [!WARNING]\n> No files found\n\n"},
		{"code", func(r *Report) { r.CodeBlock("a < b", "go") }, "<pre lang=\"go\"><code>a &lt; b</code></pre>\n"},
		{"link", func(r *Report) { r.Link("docs", "https://example.com/?a=1&b=2") }, "<a href=\"https://example.com/?a=1&amp;b=2\">docs</a>\n"},
		{"image", func(r *Report) { r.Image("i.png", "icon", 16, 0) }, "<img src=\"i.png\" alt=\"icon\" width=\"16\">\n"},
		{"separator", func(r *Report) { r.Separator() }, "<hr>\n"},
		{"break", func(r *Report) { r.Break() }, "<br>\n"},
		{"details", func(r *Report) { r.Details("more", "<p>x</p>") }, "<details><summary>more</summary><p>x</p></details>\n"},
		{"raw", func(r *Report) { r.Raw("plain", false).EOL() }, "plain\n"},
		{
			"table",
			func(r *Report) {
				r.Table([][]Cell{
					{{Data: "File", Header: true}, {Data: "Changed", Header: true}},
					{{Data: "a.svg"}, {Data: "yes", Colspan: 2}},
				})
			},
			"<table><tr><th>File</th><th>Changed</th></tr><tr><td>a.svg</td><td colspan=\"2\">yes</td></tr></table>\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(nil)
			tt.build(r)
			assert.Equal(t, tt.want, r.String())
		})
	}
}

func TestFlushOnce(t *testing.T) {
	sink := &memSink{}
	r := New(sink)
	r.Heading("Run", 1).List([]string{"a"}, false)
	assert.False(t, r.Flushed())

	require.NoError(t, r.Flush())
	assert.True(t, r.Flushed())
	assert.ErrorIs(t, r.Flush(), ErrAlreadyFlushed)
	assert.Equal(t, []string{"<h1>Run</h1>\n<ul><li>a</li></ul>\n"}, sink.writes)
}

func TestFlushSinkFailure(t *testing.T) {
	sink := &memSink{err: errors.New("disk full")}
	r := New(sink)
	err := r.Flush()
	require.Error(t, err)
	assert.Equal(t, fault.IO, fault.KindOf(err))
	assert.True(t, r.Flushed())
}

func TestFileSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))

	r := New(FileSink{Path: path})
	r.Heading("Run", 1)
	require.NoError(t, r.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous\n<h1>Run</h1>\n", string(data))
}

func TestFileSinkMissingDir(t *testing.T) {
	r := New(FileSink{Path: filepath.Join(t.TempDir(), "missing", "summary.md")})
	err := r.Flush()
	require.Error(t, err)
	assert.Equal(t, fault.IO, fault.KindOf(err))
}

func TestConsoleSink(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var out bytes.Buffer
	r := New(ConsoleSink{Out: &out})
	r.Alert(AlertCaution, "boom")
	require.NoError(t, r.Flush())
	assert.Equal(t, "----- summary -----\n> [!CAUTION]\n> boom\n\n----- end summary -----\n", out.String())
}

func TestSinkFromEnv(t *testing.T) {
	env := map[string]string{SummaryEnv: " /tmp/summary "}
	sink := SinkFromEnv(func(k string) string { return env[k] }, nil)
	assert.Equal(t, FileSink{Path: "/tmp/summary"}, sink)

	sink = SinkFromEnv(func(string) string { return "" }, os.Stderr)
	assert.Equal(t, ConsoleSink{Out: os.Stderr}, sink)
}
