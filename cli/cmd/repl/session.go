package repl

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// Config describes a REPL session.
type Config struct {
	// Session receives every evaluated line.
	Session *lang.Session
	// NewSession returns an empty session. The edit command replays the
	// edited text into one and adopts it if replay succeeds.
	NewSession func() *lang.Session
	// History is the history file path; empty keeps history in memory.
	History string
	Logger  log.Logger
}

// ctrlCommands are the command-mode commands in help order.
var ctrlCommands = []string{"help", "list", "edit", "clear", "quit"}

// command resolves a command name or its one-letter abbreviation.
func command(name string) (string, bool) {
	switch name {
	case "q", "exit":
		return "quit", true
	case "h", "?":
		return "help", true
	case "l", "ls":
		return "list", true
	case "c":
		return "clear", true
	case "e":
		return "edit", true
	}

	if slices.Contains(ctrlCommands, name) {
		return name, true
	}

	return "", false
}

const helpText = `Commands:

  help     Print this message
  list     List functions and variables
  edit     Edit the session in $EDITOR and replay it
  clear    Clear the screen
  quit     Exit

Functions are declared with "fn name params => body" and called by
juxtaposition, e.g. "fn sum x y => x + y" then "sum 1 2".`

// state is the evaluation state shared by both front ends.
type state struct {
	sess   *lang.Session
	fresh  func() *lang.Session
	logger log.Logger
}

func newState(cfg Config) *state {
	fresh := cfg.NewSession
	if fresh == nil {
		fresh = func() *lang.Session { return lang.NewSession() }
	}

	sess := cfg.Session
	if sess == nil {
		sess = fresh()
	}

	return &state{
		sess:   sess,
		fresh:  fresh,
		logger: cfg.Logger.With(slog.String("component", "repl")),
	}
}

// eval evaluates line and returns the formatted result, which is empty
// for declarations and blank lines.
func (st *state) eval(ctx context.Context, line string) (string, error) {
	res, err := st.sess.Evaluate(ctx, line)

	st.logger.TraceContext(ctx, "repl eval",
		slog.String("input", line),
		slog.String("result", res.String()),
		slog.Bool("failed", err != nil),
	)

	if err != nil {
		return "", err
	}

	return res.String(), nil
}

// listing holds the rows printed by the list command.
type listing struct {
	funcs []string // signatures
	vars  []string // "name = value"
}

func (st *state) list() listing {
	var l listing

	for _, fn := range st.sess.Functions() {
		l.funcs = append(l.funcs, fn.Signature())
	}

	vars := st.sess.Variables()
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		l.vars = append(l.vars, name+" = "+lang.FormatNumber(vars[name]))
	}

	return l
}

// render formats the listing, styling signatures with fn and variables
// with val.
func (l listing) render(fn, val func(...string) string) string {
	if len(l.funcs) == 0 && len(l.vars) == 0 {
		return val("(empty)")
	}

	var b strings.Builder

	for _, sig := range l.funcs {
		b.WriteString("  fn " + fn(sig) + "\n")
	}

	for _, v := range l.vars {
		b.WriteString("  " + val(v) + "\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// dump returns the canonical text of the session.
func (st *state) dump() (string, error) {
	var b strings.Builder
	if err := st.sess.Dump(&b); err != nil {
		return "", err
	}

	return b.String(), nil
}

// replay evaluates text into a fresh session and adopts it. On error the
// current session is kept.
func (st *state) replay(ctx context.Context, r io.Reader) error {
	sess := st.fresh()

	if err := sess.EvaluateReader(ctx, r, nil); err != nil {
		return err
	}

	st.sess = sess

	st.logger.TraceContext(ctx, "repl session replaced",
		slog.Int("functions", len(sess.Functions())),
		slog.Int("variables", len(sess.Variables())),
	)

	return nil
}

// names returns the completion candidates in eval mode: functions first,
// then variables.
func (st *state) names() []string {
	var names []string

	for _, fn := range st.sess.Functions() {
		names = append(names, fn.Name)
	}

	return append(names, slices.Sorted(maps.Keys(st.sess.Variables()))...)
}

func plain(s ...string) string { return strings.Join(s, " ") }
