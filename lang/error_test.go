package lang

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"sentinel", ErrParse, ErrParse, true},
		{"with attrs", ErrParse.With(slog.String("token", "x")), ErrParse, true},
		{"wrapped cause", ErrReadInput.Wrap(io.ErrUnexpectedEOF), ErrReadInput, true},
		{"cause reachable", ErrReadInput.Wrap(io.ErrUnexpectedEOF), io.ErrUnexpectedEOF, true},
		{"other sentinel", ErrParse, ErrLex, false},
		{"lex error", &LexError{Char: '$'}, ErrLex, true},
		{"unresolved", &UnresolvedError{Name: "x"}, ErrUnresolvedIdentifier, true},
		{"undefined", &UndefinedError{Name: "x"}, ErrUndefinedIdentifier, true},
		{"conflict", &ConflictError{Name: "f"}, ErrNameConflict, true},
		{"line", &LineError{Line: 1, Err: &UndefinedError{Name: "q"}}, ErrUndefinedIdentifier, true},
		{"undefined is not unresolved", &UndefinedError{Name: "x"}, ErrUnresolvedIdentifier, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrParse, "parse error"},
		{ErrParse.With(slog.Int("want", 2)), "parse error"},
		{ErrReadInput.Wrap(io.ErrUnexpectedEOF), "failed to read input: unexpected EOF"},
		{&LexError{Char: '$', Offset: 2}, `unexpected character '$'`},
		{&ConflictError{Existing: BindingVariable, Name: "v"}, `name conflict: variable "v" is already declared`},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestError_WithDoesNotModify(t *testing.T) {
	base := NewError("base").With(slog.String("a", "1"))
	_ = base.With(slog.String("b", "2"))

	if got := len(base.LogValue().Group()); got != 2 {
		t.Errorf("base has %d attrs, want 2 (message and a)", got)
	}
}

func TestBindingString(t *testing.T) {
	tests := []struct {
		b    Binding
		want string
	}{
		{BindingFunction, "function"},
		{BindingVariable, "variable"},
		{Binding(7), "Binding(7)"},
	}

	for _, tt := range tests {
		if got := tt.b.String(); got != tt.want {
			t.Errorf("Binding(%d).String() = %q, want %q", int(tt.b), got, tt.want)
		}
	}
}
