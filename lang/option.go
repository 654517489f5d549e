package lang

import (
	"log/slog"

	"github.com/ardnew/calc/log"
)

// Option configures a [Session].
type Option func(*Session)

// WithLogger sets the logger used for trace output during evaluation.
// The zero [log.Logger] discards everything.
func WithLogger(logger log.Logger) Option {
	return func(s *Session) {
		s.logger = logger.With(slog.String("component", "lang"))
	}
}

// WithMaxDepth limits the number of nested function calls. A call that
// would exceed the limit fails with [ErrMaxDepthExceeded]. A limit of zero
// or less disables the check.
func WithMaxDepth(n int) Option {
	return func(s *Session) {
		s.maxDepth = max(n, 0)
	}
}

// WithCache shares parse results through c. Sessions that replay the same
// lines, such as a REPL restoring an edited session, parse each line once.
func WithCache(c *Cache) Option {
	return func(s *Session) {
		s.cache = c
	}
}
