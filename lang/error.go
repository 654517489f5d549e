package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrLex                  = NewError("unexpected character")
	ErrParse                = NewError("parse error")
	ErrUnresolvedIdentifier = NewError("unresolved identifier")
	ErrUndefinedIdentifier  = NewError("undefined identifier")
	ErrNameConflict         = NewError("name conflict")
	ErrMaxDepthExceeded     = NewError("maximum call depth exceeded")
	ErrReadInput            = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

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

// Is reports whether target is a sentinel with the same message, so copies
// made by [Error.With] and [Error.Wrap] still match their origin.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.err != nil || t.msg == "" {
		return false
	}

	return e.msg == t.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
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
		attrs: e.attrs,
	}
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
		attrs: newAttrs,
	}
}

// LexError reports a character the lexer does not recognize.
type LexError struct {
	Char   rune
	Offset int
}

func (e *LexError) Error() string {
	return ErrLex.msg + " " + strconv.QuoteRune(e.Char)
}

func (e *LexError) Unwrap() error { return ErrLex }

func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrLex.msg),
		slog.String("char", string(e.Char)),
		slog.Int("offset", e.Offset),
	)
}

// UnresolvedError reports a function body that references a name which is
// not one of the function's parameters.
type UnresolvedError struct {
	Function string
	Name     string
}

func (e *UnresolvedError) Error() string {
	return ErrUnresolvedIdentifier.msg + " " + strconv.Quote(e.Name)
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolvedIdentifier }

func (e *UnresolvedError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUnresolvedIdentifier.msg),
		slog.String("function", e.Function),
		slog.String("name", e.Name),
	)
}

// UndefinedError reports a variable that is not bound in the active frame.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return ErrUndefinedIdentifier.msg + " " + strconv.Quote(e.Name)
}

func (e *UndefinedError) Unwrap() error { return ErrUndefinedIdentifier }

func (e *UndefinedError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUndefinedIdentifier.msg),
		slog.String("name", e.Name),
	)
}

// Binding names the namespace that already holds a conflicting name.
type Binding int

const (
	BindingFunction Binding = iota // function
	BindingVariable                // variable
)

// ConflictError reports an assignment to a function name, or a function
// declaration over a variable bound in the active frame.
type ConflictError struct {
	Existing Binding
	Name     string
}

func (e *ConflictError) Error() string {
	return ErrNameConflict.msg + ": " + e.Existing.String() + " " +
		strconv.Quote(e.Name) + " is already declared"
}

func (e *ConflictError) Unwrap() error { return ErrNameConflict }

func (e *ConflictError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrNameConflict.msg),
		slog.String("existing", e.Existing.String()),
		slog.String("name", e.Name),
	)
}
