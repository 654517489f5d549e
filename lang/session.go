package lang

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/calc/log"
)

// Function is a declared function. Functions are immutable once declared;
// redeclaring a name installs a new Function.
type Function struct {
	Body   Node
	Name   string
	Params []string
	seq    int
}

// Signature returns the name and parameters separated by spaces, e.g.
// "sum x y".
func (f *Function) Signature() string {
	return strings.Join(append([]string{f.Name}, f.Params...), " ")
}

// Result is the outcome of evaluating one line. Declarations and blank
// lines produce an empty Result.
type Result struct {
	Value float64
	Empty bool
}

// Float returns the value and whether r holds one.
func (r Result) Float() (float64, bool) { return r.Value, !r.Empty }

// IsEmpty reports whether r holds no value.
func (r Result) IsEmpty() bool { return r.Empty }

// String returns the formatted value, or "" if r is empty.
func (r Result) String() string {
	if r.Empty {
		return ""
	}

	return FormatNumber(r.Value)
}

// Session holds the state shared by successive lines: the function table
// and the stack of variable scope frames.
//
// A Session is not safe for concurrent use.
type Session struct {
	logger   log.Logger
	cache    *Cache
	funcs    map[string]*Function
	frames   []frame
	maxDepth int
	seq      int
}

// NewSession returns a Session with an empty function table and a single
// empty global frame.
func NewSession(opts ...Option) *Session {
	s := &Session{
		funcs:  make(map[string]*Function),
		frames: []frame{make(frame)},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Evaluate parses and evaluates one line of input.
//
// The line is parsed against a snapshot of the functions declared before
// the call, so a function body cannot call the function being declared.
// Side effects made before an error, such as assignments nested in an
// earlier argument, are kept.
func (s *Session) Evaluate(ctx context.Context, line string) (Result, error) {
	node, err := s.parse(line)
	if err != nil {
		s.logger.TraceContext(ctx, "parse failed",
			slog.String("input", line),
			slog.Any("error", err),
		)

		return Result{}, err
	}

	s.logger.TraceContext(ctx, "parse complete",
		slog.String("input", line),
		slog.String("kind", kindOf(node)),
	)

	res, err := s.exec(ctx, node)
	if err != nil {
		return Result{}, err
	}

	s.logger.TraceContext(ctx, "evaluate complete",
		slog.String("result", res.String()),
		slog.Bool("empty", res.Empty),
	)

	return res, nil
}

func (s *Session) parse(line string) (Node, error) {
	if s.cache != nil {
		return s.cache.Parse(line, s.Signatures())
	}

	return Parse(line, s.Signatures())
}

// EvaluateReader evaluates each line read from r in order and passes every
// result to fn. Lines are read as by [ScanLines].
//
// Evaluation stops at the first error, which is returned as a *LineError.
// An error returned by fn stops evaluation and is returned unchanged.
func (s *Session) EvaluateReader(
	ctx context.Context,
	r io.Reader,
	fn func(line int, src string, res Result) error,
) error {
	return ScanLines(r, func(n int, src string) error {
		res, err := s.Evaluate(ctx, src)
		if err != nil {
			return &LineError{Line: n, Source: src, Err: err}
		}

		if fn == nil {
			return nil
		}

		return fn(n, src, res)
	})
}

// ScanLines calls fn with the 1-based number and text of each line of r.
// Lines whose first non-space character is '#' are skipped, and a trailing
// carriage return is removed. An error returned by fn stops the scan and
// is returned unchanged.
func ScanLines(r io.Reader, fn func(line int, src string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for n := 1; scanner.Scan(); n++ {
		src := strings.TrimSuffix(scanner.Text(), "\r")
		if IsComment(src) {
			continue
		}

		if err := fn(n, src); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return ErrReadInput.Wrap(err)
	}

	return nil
}

// IsComment reports whether line is a comment.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
}

const maxLineSize = 1 << 20

// LineError locates an evaluation error within multi-line input.
type LineError struct {
	Err    error
	Source string
	Line   int
}

func (e *LineError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": " + e.Err.Error()
}

func (e *LineError) Unwrap() error { return e.Err }

func (e *LineError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", e.Line),
		slog.String("input", e.Source),
		slog.Any("error", e.Err),
	)
}

// Signatures returns a snapshot of the declared function signatures.
func (s *Session) Signatures() Signatures {
	sigs := make(Signatures, len(s.funcs))
	for name, fn := range s.funcs {
		sigs[name] = fn.Params
	}

	return sigs
}

// Function returns the function declared with name.
func (s *Session) Function(name string) (*Function, bool) {
	fn, ok := s.funcs[name]

	return fn, ok
}

// Functions returns all declared functions sorted by name.
func (s *Session) Functions() []*Function {
	fns := slices.Collect(maps.Values(s.funcs))
	slices.SortFunc(fns, func(a, b *Function) int {
		return strings.Compare(a.Name, b.Name)
	})

	return fns
}

// Variables returns a copy of the bindings in the global frame.
func (s *Session) Variables() map[string]float64 {
	return maps.Clone(s.frames[0])
}

// Dump writes source text that recreates the functions and global variables
// of s when evaluated line by line in a new Session. Functions are written
// in the order they were last declared.
//
// A body is parsed with the arities visible when it was declared, so a
// callee declared later, or later redeclared with another arity, is first
// written as a placeholder of the arity the caller was parsed with. The
// placeholder is replaced by the callee's own declaration further down.
func (s *Session) Dump(w io.Writer) error {
	fns := slices.Collect(maps.Values(s.funcs))
	slices.SortFunc(fns, func(a, b *Function) int { return a.seq - b.seq })

	var b strings.Builder

	declared := make(map[string]int, len(fns))
	write := func(def *FuncDef) {
		b.WriteString(FormatString(def))
		b.WriteByte('\n')

		declared[def.Name] = len(def.Params)
	}

	for _, fn := range fns {
		visitCalls(fn.Body, func(call *FuncCall) {
			if arity, ok := declared[call.Name]; !ok || arity != len(call.Args) {
				write(placeholder(s.funcs[call.Name], call))
			}
		})

		write(&FuncDef{Name: fn.Name, Params: fn.Params, Body: fn.Body})
	}

	vars := s.frames[0]
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(sourceNumber(vars[name]))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// placeholder returns a declaration of call.Name with the arity of call
// and a constant body.
func placeholder(fn *Function, call *FuncCall) *FuncDef {
	params := make([]string, len(call.Args))
	for i := range params {
		if fn != nil && len(fn.Params) == len(params) {
			params[i] = fn.Params[i]
		} else {
			params[i] = "p" + strconv.Itoa(i+1)
		}
	}

	return &FuncDef{Name: call.Name, Params: params, Body: &Number{Value: 0}}
}
