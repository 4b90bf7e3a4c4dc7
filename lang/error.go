package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Kind classifies a fatal parse or evaluation error.
type Kind int

const (
	// KindUnknown is used for errors that do not originate in the language
	// itself, such as I/O failures.
	KindUnknown Kind = iota
	KindUnbalancedBracket
	KindUnconsumedInput
	KindUnresolvedVariable
	KindDuplicateDeclaration
	KindConstantReassignment
	KindTypeMismatch
	KindDivideByZero
	KindUnimplemented
)

// String returns the name of the error kind.
func (k Kind) String() string {
	switch k {
	case KindUnbalancedBracket:
		return "UnbalancedBracket"

	case KindUnconsumedInput:
		return "UnconsumedInput"

	case KindUnresolvedVariable:
		return "UnresolvedVariable"

	case KindDuplicateDeclaration:
		return "DuplicateDeclaration"

	case KindConstantReassignment:
		return "ConstantReassignment"

	case KindTypeMismatch:
		return "TypeMismatch"

	case KindDivideByZero:
		return "DivideByZero"

	case KindUnimplemented:
		return "Unimplemented"

	default:
		return "Unknown"
	}
}

// Predefined errors (sentinel values).
//
// Errors derived from a sentinel with [Error.With], [Error.Wrap],
// [Error.Wrapf], or [Error.WithPosition] still match it with [errors.Is].
var (
	ErrUnbalancedBracket    = newKindError(KindUnbalancedBracket, "unbalanced bracket")
	ErrUnconsumedInput      = newKindError(KindUnconsumedInput, "remainder to be parsed")
	ErrUnresolvedVariable   = newKindError(KindUnresolvedVariable, "cannot resolve variable")
	ErrDuplicateDeclaration = newKindError(KindDuplicateDeclaration, "variable already defined")
	ErrConstantReassignment = newKindError(KindConstantReassignment, "cannot reassign constant")
	ErrTypeMismatch         = newKindError(KindTypeMismatch, "type mismatch")
	ErrDivideByZero         = newKindError(KindDivideByZero, "divide by zero")
	ErrUnimplemented        = newKindError(KindUnimplemented, "not implemented for node kind")

	ErrReadInput  = NewError("failed to read input")
	ErrCrossCheck = NewError("cross-check mismatch")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	kind  Kind        // Classification for fatal language errors
	pos   *Position   // Source location, if known
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

func newKindError(kind Kind, msg string) *Error {
	return &Error{msg: msg, kind: kind}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message from the fields that are set:
	//
	//   "<line>:<col>: <msg>: <err>"
	part := make([]string, 0, 3)

	if e.pos != nil {
		part = append(part, e.pos.String())
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same kind and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.kind == t.kind && e.msg == t.msg && e.msg != ""
}

// Kind returns the classification of the error.
func (e *Error) Kind() Kind { return e.kind }

// Position returns the source location of the error, if known.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.kind != KindUnknown {
		attrs = append(attrs, slog.String("kind", e.kind.String()))
	}

	if e.pos != nil {
		attrs = append(attrs, slog.String("position", e.pos.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		kind:  e.kind,
		pos:   e.pos,
		attrs: e.attrs, // Share attrs
	}
}

// Wrapf creates a new Error wrapping a formatted detail message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		kind:  e.kind,
		pos:   e.pos,
		attrs: newAttrs,
	}
}

// WithPosition returns a copy of the error located at pos.
// An existing position is kept, so the innermost location wins.
func (e *Error) WithPosition(pos Position) *Error {
	if e.pos != nil {
		return e
	}

	return &Error{
		msg:   e.msg,
		err:   e.err,
		kind:  e.kind,
		pos:   &pos,
		attrs: e.attrs,
	}
}

// ErrorKind returns the [Kind] of err, or [KindUnknown] if err is not a
// language error.
func ErrorKind(err error) Kind {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.kind
	}

	return KindUnknown
}

// FormatError renders err with a snippet of source pointing at the error
// location, when err carries one.
func FormatError(err error, source string) string {
	var ee *Error
	if !errors.As(err, &ee) || ee.pos == nil || source == "" {
		return err.Error()
	}

	pos := *ee.pos
	lines := strings.Split(source, "\n")

	var buf strings.Builder

	buf.WriteString(err.Error())
	buf.WriteRune('\n')

	// Show the offending line if within bounds
	if pos.Line > 0 && pos.Line <= len(lines) {
		line := strings.TrimRight(lines[pos.Line-1], "\r")
		num := strconv.Itoa(pos.Line)

		buf.WriteString("  ")
		buf.WriteString(num)
		buf.WriteString(" | ")
		buf.WriteString(line)
		buf.WriteRune('\n')

		// +5 accounts for: 2 leading spaces + " | " (3 chars)
		padding := strings.Repeat(" ", len(num)+5)
		if pos.Column > 0 {
			padding += strings.Repeat(" ", pos.Column-1)
		}

		buf.WriteString(padding)
		buf.WriteString("^\n")
	}

	return buf.String()
}
