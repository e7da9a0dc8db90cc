package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// SummaryEnv names the variable holding the step summary path.
const SummaryEnv = "GITHUB_STEP_SUMMARY"

// Sink receives the flushed report.
type Sink interface {
	Name() string
	Write(content string) error
}

// FileSink appends to a file, creating it if needed.
type FileSink struct {
	Path string
}

func (s FileSink) Name() string { return s.Path }

func (s FileSink) Write(content string) error {
	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ConsoleSink prints the report between delimiter lines.
type ConsoleSink struct {
	Out io.Writer
}

var delimiterColor = color.New(color.FgCyan, color.Bold)

func (s ConsoleSink) Name() string { return "console" }

func (s ConsoleSink) Write(content string) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}
	if _, err := delimiterColor.Fprintln(out, "----- summary -----"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(out, content); err != nil {
		return err
	}
	if !strings.HasSuffix(content, "\n") && content != "" {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	}
	_, err := delimiterColor.Fprintln(out, "----- end summary -----")
	return err
}

// SinkFromEnv returns a FileSink when the summary variable is set and a
// ConsoleSink writing to console otherwise.
func SinkFromEnv(getenv func(string) string, console io.Writer) Sink {
	if path := strings.TrimSpace(getenv(SummaryEnv)); path != "" {
		return FileSink{Path: path}
	}
	return ConsoleSink{Out: console}
}
