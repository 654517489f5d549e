package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/calc/cli/cmd/repl"
	"github.com/ardnew/calc/log"
)

// Repl runs an interactive session. Without a terminal it evaluates
// standard input like eval.
type Repl struct {
	Basic bool `help:"Use the line editor instead of the full-screen interface." short:"b"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	s := streamsFrom(ctx)

	if !interactive(s) {
		if sourceFilesFrom(ctx).HasStdin() {
			return nil
		}

		return evaluateStream(ctx, sess, s, printer(s.out))
	}

	cfg := repl.Config{
		Session:    sess,
		NewSession: sessionFactory(ctx),
		Logger:     log.Default(),
	}

	if dir := kongVar(ctx, CacheIdentifier); dir != "" {
		cfg.History = filepath.Join(dir, repl.HistoryFile)
	}

	if r.Basic {
		return repl.RunBasic(ctx, cfg)
	}

	return repl.Run(ctx, cfg)
}

// interactive reports whether both standard input and output are
// terminals.
func interactive(s streams) bool {
	for _, stream := range []any{s.in, s.out} {
		f, ok := stream.(*os.File)
		if !ok {
			return false
		}

		fd := f.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return false
		}
	}

	return true
}
