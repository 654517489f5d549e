package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
)

const (
	basicPrompt = "> "
	ctrlMarker  = ":"
)

// RunBasic starts the line-editor REPL, for terminals the full-screen
// interface does not suit. Commands are entered with a leading colon,
// e.g. ":list".
func RunBasic(ctx context.Context, cfg Config) error {
	st := newState(cfg)

	history := NewHistory(cfg.History)
	if err := history.Load(); err != nil {
		st.logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.History),
			slog.Any("error", err),
		)
	}

	ln := liner.NewLiner()
	defer ln.Close()

	ln.SetCtrlCAborts(true)
	ln.SetTabCompletionStyle(liner.TabPrints)
	ln.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		if strings.HasPrefix(line, ctrlMarker) {
			head, completions, tail := complete(line[1:], pos-1, ctrlCommands)

			return ctrlMarker + head, completions, tail
		}

		return complete(line, pos, st.names())
	})

	for _, entry := range history.Entries() {
		ln.AppendHistory(basicLine(entry))
	}

	b := basic{state: st, history: history, out: os.Stdout, errOut: os.Stderr}

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := ln.Prompt(basicPrompt)

		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(b.out)

			return nil
		case err != nil:
			return err
		}

		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}

		if b.handle(ctx, line) {
			return nil
		}
	}
}

// basicLine renders a history entry as typed in the line editor.
func basicLine(e HistoryEntry) string {
	if e.Mode == modeCtrl {
		return ctrlMarker + e.Line
	}

	return e.Line
}

// basic executes lines for the line-editor REPL.
type basic struct {
	state   *state
	history *History
	out     io.Writer
	errOut  io.Writer
}

// handle executes one submitted line and reports whether to exit.
func (b *basic) handle(ctx context.Context, line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	mode := modeEval
	if s, ok := strings.CutPrefix(line, ctrlMarker); ok {
		mode, line = modeCtrl, strings.TrimSpace(s)
	}

	if err := b.history.Add(line, mode); err != nil {
		b.state.logger.DebugContext(ctx, "history write failed",
			slog.Any("error", err),
		)
	}

	if mode == modeCtrl {
		return b.command(ctx, line)
	}

	out, err := b.state.eval(ctx, line)
	if err != nil {
		fmt.Fprintln(b.errOut, errorStyle.Render("error: "+err.Error()))

		return false
	}

	if out != "" {
		fmt.Fprintln(b.out, resultStyle.Render(out))
	}

	return false
}

func (b *basic) command(ctx context.Context, line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	name, ok := command(fields[0])
	if !ok {
		fmt.Fprintln(b.errOut, errorStyle.Render("unknown command: "+fields[0]+" (try :help)"))

		return false
	}

	switch name {
	case "quit":
		return true

	case "help":
		fmt.Fprintln(b.out, helpText)

	case "list":
		fmt.Fprintln(b.out, b.state.list().render(signatureNameStyle.Render, hintStyle.Render))

	case "clear":
		fmt.Fprint(b.out, "\033[H\033[2J")

	case "edit":
		cmd := &editCommand{
			state:   b.state,
			ctxFunc: func() context.Context { return ctx },
			stdin:   os.Stdin,
			stdout:  b.out,
			stderr:  b.errOut,
		}

		err := cmd.Run()

		switch {
		case errors.Is(err, ErrEditDeclined):
			return true
		case err != nil:
			fmt.Fprintln(b.errOut, errorStyle.Render("error: "+err.Error()))
		case cmd.replaced:
			fmt.Fprintln(b.out, resultStyle.Render("session replaced"))
		default:
			fmt.Fprintln(b.out, hintStyle.Render("edit cancelled"))
		}
	}

	return false
}
