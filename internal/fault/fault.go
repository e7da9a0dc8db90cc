// Package fault classifies the errors that can end a run.
//
// Every top-level operation has exactly one boundary that turns an error into
// an exit status. Components return a *Error (usually wrapped with fmt.Errorf
// and %w) so the boundary can recover the kind with KindOf.
package fault

import (
	"errors"
	"fmt"
)

// Kind is the coarse error class reported by the boundary.
type Kind uint8

const (
	// Unknown is used for errors that carry no fault kind.
	Unknown Kind = iota
	// Configuration means a required input is missing or invalid.
	Configuration
	// MalformedDocument means a candidate file lacks sizing information.
	MalformedDocument
	// IO means a file or the report sink could not be read or written.
	IO
	// ExternalTool means the optimizer or formatter rejected the markup.
	ExternalTool
	// CheckFailed means a dry run found files that would change.
	CheckFailed
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "ConfigurationError"
	case MalformedDocument:
		return "MalformedDocument"
	case IO:
		return "IOFailure"
	case ExternalTool:
		return "ExternalToolFailure"
	case CheckFailed:
		return "CheckFailed"
	}
	return "UnknownError"
}

// Error is a classified error. Path is optional.
type Error struct {
	Kind Kind
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Path != "" {
		return e.Path + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Configf reports a missing or invalid input.
func Configf(format string, args ...any) error {
	return &Error{Kind: Configuration, Msg: fmt.Sprintf(format, args...)}
}

// Checkf reports a dry run that found files it would rewrite.
func Checkf(format string, args ...any) error {
	return &Error{Kind: CheckFailed, Msg: fmt.Sprintf(format, args...)}
}

// Malformed reports a document that cannot be normalized.
func Malformed(path, msg string) error {
	return &Error{Kind: MalformedDocument, Path: path, Msg: msg}
}

// IOError wraps a filesystem or sink failure.
func IOError(path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: IO, Path: path, Err: err}
}

// Tool wraps a failure raised by the optimizer or the formatter.
func Tool(path, tool string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: ExternalTool, Path: path, Msg: tool, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
