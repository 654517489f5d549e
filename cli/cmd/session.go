package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

// parseCache is shared by every session of the process, so replayed
// prelude and edited REPL lines are parsed once.
var parseCache = lang.NewCache()

// sessionFactory returns a constructor for empty sessions configured from
// ctx.
func sessionFactory(ctx context.Context) func() *lang.Session {
	depth := maxDepthFrom(ctx)

	return func() *lang.Session {
		return lang.NewSession(
			lang.WithLogger(log.Default()),
			lang.WithMaxDepth(depth),
			lang.WithCache(parseCache),
		)
	}
}

// newSession returns a session with every prelude source file evaluated
// into it. Prelude results are not printed.
func newSession(ctx context.Context) (*lang.Session, error) {
	sess := sessionFactory(ctx)()

	err := sourceFilesFrom(ctx).Each(
		streamsFrom(ctx).in,
		func(name string, r io.Reader) error {
			log.DebugContext(ctx, "evaluate source", slog.String("source", name))

			return evaluate(ctx, sess, name, r, nil)
		},
	)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// evaluate evaluates every line of r in sess, passing results to fn.
// Evaluation errors carry the source name and line.
func evaluate(
	ctx context.Context,
	sess *lang.Session,
	name string,
	r io.Reader,
	fn func(line int, src string, res lang.Result) error,
) error {
	err := sess.EvaluateReader(ctx, r, fn)
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrWriteOutput) {
		return err
	}

	var lerr *lang.LineError
	if errors.As(err, &lerr) {
		return ErrEvaluate.
			With(
				slog.String("source", name),
				slog.Int("line", lerr.Line),
				slog.String("input", lerr.Source),
			).
			Wrap(lerr)
	}

	return ErrReadSource.With(slog.String("source", name)).Wrap(err)
}

// printer returns a result callback writing each non-empty result to w on
// its own line.
func printer(w io.Writer) func(int, string, lang.Result) error {
	return func(_ int, _ string, res lang.Result) error {
		if res.IsEmpty() {
			return nil
		}

		if _, err := fmt.Fprintln(w, res); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}
}

// LogCacheStats logs the hit and miss counts of the parse cache shared by
// every session of the process.
func LogCacheStats(ctx context.Context) {
	hits, misses := parseCache.Stats()

	log.DebugContext(ctx, "parse cache",
		slog.Int64("hits", hits),
		slog.Int64("misses", misses),
	)
}
