package katagami

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
)

// SyntaxError is raised when the Go source generated from a template
// fails to parse. Pos and Line are the *template's* coordinates and
// source line, reverse-mapped from the host parse error through the
// emitter's marker side-table.
type SyntaxError struct {
	Filename string
	Pos      Position
	Line     string
	cause    error
}

func (e *SyntaxError) Error() string {
	s := fmt.Sprintf("[SyntaxError in %s | %s] %s", e.Filename, e.Pos, e.cause)
	if e.Line != "" {
		s += fmt.Sprintf(" near the line: %s", strings.TrimSpace(e.Line))
	}
	return s
}

func (e *SyntaxError) Unwrap() error { return e.cause }

func newSyntaxError(filename string, pos Position, line string, cause error) *SyntaxError {
	return &SyntaxError{
		Filename: filename,
		Pos:      pos,
		Line:     line,
		cause:    errors.Annotate(cause, "compiling generated template script"),
	}
}

// IndentationError is raised for an unbalanced block/brace bridge, or
// for a block header whose first token is a definition keyword (func,
// type) where a control-flow header was expected.
type IndentationError struct {
	Filename string
	Pos      Position
	Line     string
	Msg      string
}

func (e *IndentationError) Error() string {
	s := fmt.Sprintf("[IndentationError in %s | %s] %s", e.Filename, e.Pos, e.Msg)
	if e.Line != "" {
		s += fmt.Sprintf(" near the line: %s", strings.TrimSpace(e.Line))
	}
	return s
}

func newIndentationError(filename string, pos Position, line, msg string) *IndentationError {
	return &IndentationError{Filename: filename, Pos: pos, Line: line, Msg: msg}
}

// RuntimeError wraps an error raised while iterating the compiled
// routine, or while encoding a yielded string under ReturnsBytes. Pos is
// the template position the failing host line maps back to.
type RuntimeError struct {
	Filename string
	Pos      Position
	cause    error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[RuntimeError in %s | %s] %s", e.Filename, e.Pos, e.cause)
}

func (e *RuntimeError) Unwrap() error { return e.cause }

func newRuntimeError(filename string, pos Position, cause error) *RuntimeError {
	return &RuntimeError{
		Filename: filename,
		Pos:      pos,
		cause:    errors.Annotate(cause, "executing template script"),
	}
}

// TypeMismatchError is thrown back into the compiled routine at its
// current suspension point when an inline expression yields a
// non-string value and FeatureCastString is not active. A template's
// except_hook feature can recover from it exactly as it would any other
// error raised by the yielded expression.
type TypeMismatchError struct {
	GoType   string
	Pos      Position
	hostLine int
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("Can't convert '%s' object to string implicitly", e.GoType)
}

// RecordLine implements hostlang.LineRecorder: the interpreter calls it
// with the generated-source line the error's "return err" executed on,
// the only place that line is ever visible, since an explicit return
// otherwise propagates verbatim. wrapRuntimeError/Stream.wrapError
// resolve it to a template Position once the routine has aborted.
func (e *TypeMismatchError) RecordLine(line int) { e.hostLine = line }

// InputTypeError describes a template source argument of an unsupported
// type. The Engine's Render* methods take their source as a string, a
// path, or an fs.FS entry name, so none of them returns it.
type InputTypeError struct {
	Got any
}

func (e *InputTypeError) Error() string {
	return fmt.Sprintf("katagami: unsupported input type %T", e.Got)
}
