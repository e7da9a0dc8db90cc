// Package action is the single error boundary of a top-level operation.
//
// Run gives the operation a fresh report, turns any error (or panic) into a
// workflow annotation and a caution alert, flushes the report exactly once
// and hands back an Outcome. Only main turns the Outcome into an exit status.
package action

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"iconci/internal/fault"
	"iconci/internal/report"
)

// Operation is a named unit of work that writes to the run report.
type Operation struct {
	Name string
	Run  func(ctx context.Context, rep *report.Report) error
}

// Env carries the boundary's collaborators.
type Env struct {
	Sink   report.Sink
	Logger *zap.Logger
	// Stdout receives workflow annotations.
	Stdout io.Writer
}

// Outcome is the result of one operation.
type Outcome struct {
	Operation string
	OK        bool
	Kind      fault.Kind
	Message   string
}

// ExitCode maps the outcome to a process exit status.
func (o Outcome) ExitCode() int {
	if o.OK {
		return 0
	}
	return 1
}

// Run executes op inside the boundary.
func Run(ctx context.Context, op Operation, env Env) Outcome {
	logger := env.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	stdout := env.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	logger = logger.With(zap.String("op", op.Name))

	rep := report.New(env.Sink)
	out := Outcome{Operation: op.Name, OK: true}

	if err := invoke(ctx, op, rep); err != nil {
		out = failed(op.Name, err)
		Annotate(stdout, "error", op.Name, out.Message)
		if fault.Is(err, fault.CheckFailed) {
			logger.Warn("check failed", zap.Error(err))
		} else {
			logger.Error("operation failed", zap.Stringer("kind", out.Kind), zap.Error(err))
		}
		rep.Alert(report.AlertCaution, fmt.Sprintf("**%s** failed (%s): %s", op.Name, out.Kind, out.Message))
	}

	if err := rep.Flush(); err != nil {
		logger.Error("flush summary", zap.Error(err))
		if out.OK {
			out = failed(op.Name, err)
			Annotate(stdout, "error", op.Name, out.Message)
		}
	}
	return out
}

func failed(name string, err error) Outcome {
	return Outcome{Operation: name, Kind: fault.KindOf(err), Message: err.Error()}
}

func invoke(ctx context.Context, op Operation, rep *report.Report) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	if op.Run == nil {
		return fmt.Errorf("operation %q has no body", op.Name)
	}
	return op.Run(ctx, rep)
}

// Annotate writes a workflow command such as "::error title=x::msg".
func Annotate(w io.Writer, level, title, message string) {
	if title == "" {
		fmt.Fprintf(w, "::%s::%s\n", level, escapeData(message))
		return
	}
	fmt.Fprintf(w, "::%s title=%s::%s\n", level, escapeProperty(title), escapeData(message))
}

var (
	dataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

func escapeData(s string) string     { return dataEscaper.Replace(s) }
func escapeProperty(s string) string { return propertyEscaper.Replace(s) }
