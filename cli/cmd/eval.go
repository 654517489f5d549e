package cmd

import (
	"context"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/ardnew/calc/lang"
)

// Eval evaluates lines in one session and prints each result.
type Eval struct {
	Expr []string `arg:"" help:"Lines to evaluate in order (default: read standard input)" name:"expr" optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	s := streamsFrom(ctx)
	emit := printer(s.out)

	if len(e.Expr) > 0 {
		return evaluateArgs(ctx, sess, e.Expr, emit)
	}

	// Standard input named as a source has already been consumed.
	if sourceFilesFrom(ctx).HasStdin() {
		return nil
	}

	return evaluateStream(ctx, sess, s, emit)
}

func evaluateArgs(
	ctx context.Context,
	sess *lang.Session,
	lines []string,
	fn func(int, string, lang.Result) error,
) error {
	for i, line := range lines {
		res, err := sess.Evaluate(ctx, line)
		if err != nil {
			return ErrEvaluate.
				With(
					slog.String("source", "args"),
					slog.Int("line", i+1),
					slog.String("input", line),
				).
				Wrap(&lang.LineError{Line: i + 1, Source: line, Err: err})
		}

		if err := fn(i+1, line, res); err != nil {
			return err
		}
	}

	return nil
}

func evaluateStream(
	ctx context.Context,
	sess *lang.Session,
	s streams,
	fn func(int, string, lang.Result) error,
) error {
	ra := readahead.NewReader(s.in)
	defer ra.Close()

	return evaluate(ctx, sess, stdinName, ra, fn)
}
