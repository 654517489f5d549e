package lang

import (
	"bytes"
	"errors"
	"math"
	"slices"
	"strings"
	"testing"
)

// step is one line of input and its expected outcome. A nil err with empty
// set expects an empty Result.
type step struct {
	src   string
	want  float64
	empty bool
	err   error
}

func run(t *testing.T, s *Session, steps []step) {
	t.Helper()

	for _, st := range steps {
		res, err := s.Evaluate(t.Context(), st.src)

		switch {
		case st.err != nil:
			if !errors.Is(err, st.err) {
				t.Fatalf("Evaluate(%q) error = %v, want %v", st.src, err, st.err)
			}

		case err != nil:
			t.Fatalf("Evaluate(%q) unexpected error: %v", st.src, err)

		case st.empty:
			if !res.IsEmpty() {
				t.Fatalf("Evaluate(%q) = %v, want empty", st.src, res.Value)
			}

		default:
			v, ok := res.Float()
			if !ok || v != st.want {
				t.Fatalf("Evaluate(%q) = %v (ok=%v), want %v", st.src, v, ok, st.want)
			}
		}
	}
}

func TestSession_EmptyInput(t *testing.T) {
	run(t, NewSession(), []step{
		{src: "", empty: true},
		{src: "  ", empty: true},
	})
}

func TestSession_Arithmetic(t *testing.T) {
	run(t, NewSession(), []step{
		{src: "1", want: 1},
		{src: " 1 ", want: 1},
		{src: "2+2", want: 4},
		{src: " 2  +  2 ", want: 4},
		{src: "10 + 1 + 2 - 3 + 4 + 6 - 15", want: 5},
		{src: "8 / 2 * 2 / 4", want: 2},
		{src: "14 + 2 * 3 - 6 / 2", want: 17},
		{src: "7 + 3 * (10 / (12 / (3 + 1) - 1)) / (((2 + 3))) - 5 - 3 + (8)", want: 10},
		{src: "- 3", want: -3},
		{src: "+ 3", want: 3},
		{src: "5 - - - + - 3", want: 8},
		{src: "5 - - - + - (3 + 4) - +2", want: 10},
		{src: "5 % 2", want: 1},
		{src: "-7 % 3", want: -1},
		{src: "5.5 + 4.5", want: 10},
		{src: "1 / 4", want: 0.25},
	})
}

func TestSession_IEEE(t *testing.T) {
	s := NewSession()

	tests := []struct {
		src   string
		check func(float64) bool
	}{
		{"1 / 0", func(v float64) bool { return math.IsInf(v, 1) }},
		{"-1 / 0", func(v float64) bool { return math.IsInf(v, -1) }},
		{"0 / 0", math.IsNaN},
		{"5 % 0", math.IsNaN},
	}

	for _, tt := range tests {
		res, err := s.Evaluate(t.Context(), tt.src)
		if err != nil {
			t.Fatalf("Evaluate(%q) error: %v", tt.src, err)
		}

		if !tt.check(res.Value) {
			t.Errorf("Evaluate(%q) = %v", tt.src, res.Value)
		}
	}
}

func TestSession_Variables(t *testing.T) {
	run(t, NewSession(), []step{
		{src: "x = 1", want: 1},
		{src: "x", want: 1},
		{src: "y = 2", want: 2},
		{src: "y", want: 2},
		{src: "x = x + 3 * (10 / (12 / (3 + 1) - 1)) / (2 + 3) - 5 - 3 + (y)", want: -2},
		{src: "x", want: -2},
		{src: "x = y = 1", want: 1},
		{src: "x", want: 1},
		{src: "y", want: 1},
		{src: "a = 7", want: 7},
		{src: "a + 6", want: 13},
		{src: "a = 13 + (b = 3)", want: 16},
		{src: "b", want: 3},
	})
}

func TestSession_UnknownIdentifier(t *testing.T) {
	s := NewSession()

	run(t, s, []step{
		{src: "x", err: ErrUndefinedIdentifier},
		{src: "x = 1", want: 1},
		{src: "x = y", err: ErrUndefinedIdentifier},
		{src: "x", want: 1},
	})

	_, err := s.Evaluate(t.Context(), "y + 1")

	var undefined *UndefinedError
	if !errors.As(err, &undefined) || undefined.Name != "y" {
		t.Fatalf("expected undefined y, got %v", err)
	}

	if got, want := err.Error(), `undefined identifier "y"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestSession_Functions(t *testing.T) {
	run(t, NewSession(), []step{
		{src: "fn sum x y => x + y", empty: true},
		{src: "sum 1 3", want: 4},
		{src: "x = 8", want: 8},
		{src: "sum x 8", want: 16},
		{src: "fn avg x y => (x + y) / 2", empty: true},
		{src: "sum (avg 2 4) 5", want: 8},
		{src: "sum (avg 4 x) (sum 2 x)", want: 16},
		{src: "fn calc x => (sum x (x * 2)) - (avg x (x * 3)) + x", empty: true},
		{src: "calc x", want: 16},
		{src: "fn f0 => 0", empty: true},
		{src: "f0", want: 0},
		{src: "fn echo x => x", empty: true},
		{src: "fn add x y => x + y", empty: true},
		{src: "echo echo echo echo 8", want: 8},
		{src: "add echo 4 echo 12", want: 16},
		{src: "sum 1 2 - 3", want: 0},
		{src: "(sum 1 2) - 3", want: 0},
		{src: "sum 1 2 * 3", want: 7},
		{src: "(sum 1 2) * 3", want: 9},
	})
}

func TestSession_CallScopeIsIsolated(t *testing.T) {
	run(t, NewSession(), []step{
		{src: "x = 100", want: 100},
		{src: "fn inc a => a + 1", empty: true},
		{src: "inc x", want: 101},
		// Assignments in a call body bind in the call's frame only.
		{src: "fn set a => a = a * 2", empty: true},
		{src: "set 4", want: 8},
		{src: "a", err: ErrUndefinedIdentifier},
		// Assignments in arguments bind in the caller's frame.
		{src: "inc (z = 5)", want: 6},
		{src: "z", want: 5},
	})
}

func TestSession_NameConflict(t *testing.T) {
	s := NewSession()

	run(t, s, []step{
		{src: "x = 1", want: 1},
		{src: "fn x a => a", err: ErrNameConflict},
		{src: "fn f a => a", empty: true},
		{src: "f = 2", err: ErrNameConflict},
		{src: "f 3", want: 3},
	})

	tests := []struct {
		src      string
		existing Binding
		msg      string
	}{
		{"fn x => 1", BindingVariable, `name conflict: variable "x" is already declared`},
		{"f = 1", BindingFunction, `name conflict: function "f" is already declared`},
	}

	for _, tt := range tests {
		_, err := s.Evaluate(t.Context(), tt.src)

		var conflict *ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("Evaluate(%q): expected *ConflictError, got %v", tt.src, err)
		}

		if conflict.Existing != tt.existing {
			t.Errorf("Existing = %v, want %v", conflict.Existing, tt.existing)
		}

		if err.Error() != tt.msg {
			t.Errorf("Error() = %q, want %q", err.Error(), tt.msg)
		}
	}
}

func TestSession_ConflictRejectedBeforeValue(t *testing.T) {
	run(t, NewSession(), []step{
		{src: "fn f => 1", empty: true},
		{src: "f = (y = 2)", err: ErrNameConflict},
		{src: "y", err: ErrUndefinedIdentifier},
	})
}

func TestSession_SideEffectsKeptOnError(t *testing.T) {
	run(t, NewSession(), []step{
		{src: "fn sum a b => a + b", empty: true},
		{src: "sum (k = 3) nope", err: ErrUndefinedIdentifier},
		{src: "k", want: 3},
	})
}

func TestSession_Redefine(t *testing.T) {
	s := NewSession()

	run(t, s, []step{
		{src: "fn f x => x", empty: true},
		{src: "f 2", want: 2},
		{src: "fn f x => x * 10", empty: true},
		{src: "f 2", want: 20},
		{src: "fn f x y => x - y", empty: true},
		{src: "f 5 1", want: 4},
		{src: "f 5", err: ErrParse},
	})

	if got := len(s.Functions()); got != 1 {
		t.Errorf("len(Functions()) = %d, want 1", got)
	}
}

func TestSession_StaleCall(t *testing.T) {
	// g was parsed while f took one argument. Redeclaring f with two
	// parameters leaves y unbound when g runs.
	run(t, NewSession(), []step{
		{src: "fn f x => x", empty: true},
		{src: "fn g x => f x", empty: true},
		{src: "g 7", want: 7},
		{src: "fn f x y => x", empty: true},
		{src: "g 7", want: 7},
		{src: "fn f x y => y", empty: true},
		{src: "g 7", err: ErrUndefinedIdentifier},
	})
}

func TestSession_MaxDepth(t *testing.T) {
	s := NewSession(WithMaxDepth(50))

	// Mutual recursion through redeclaration: f calls g calls f.
	run(t, s, []step{
		{src: "fn f x => x", empty: true},
		{src: "fn g x => f x", empty: true},
		{src: "fn f x => g x", empty: true},
		{src: "x = 1", want: 1},
		{src: "f 1", err: ErrMaxDepthExceeded},
	})

	if d := s.depth(); d != 0 {
		t.Errorf("depth after error = %d, want 0", d)
	}

	run(t, s, []step{
		{src: "x", want: 1},
		{src: "g = 2", err: ErrNameConflict},
	})
}

func TestSession_FramesPoppedOnError(t *testing.T) {
	s := NewSession()

	run(t, s, []step{
		{src: "n = 4", want: 4},
		{src: "fn bad x => x", empty: true},
		{src: "fn outer y => bad y", empty: true},
	})

	// The stale call to bad fails two frames deep.
	run(t, s, []step{
		{src: "fn bad x y => y", empty: true},
		{src: "outer 1", err: ErrUndefinedIdentifier},
	})

	if d := s.depth(); d != 0 {
		t.Fatalf("depth after error = %d, want 0", d)
	}

	run(t, s, []step{{src: "n", want: 4}})
}

func TestSession_Introspection(t *testing.T) {
	s := NewSession()

	run(t, s, []step{
		{src: "fn sum x y => x + y", empty: true},
		{src: "fn neg x => -x", empty: true},
		{src: "b = 2", want: 2},
		{src: "a = 1", want: 1},
	})

	var names []string
	for _, fn := range s.Functions() {
		names = append(names, fn.Signature())
	}

	if want := []string{"neg x", "sum x y"}; !slices.Equal(names, want) {
		t.Errorf("Functions() = %v, want %v", names, want)
	}

	vars := s.Variables()
	if len(vars) != 2 || vars["a"] != 1 || vars["b"] != 2 {
		t.Errorf("Variables() = %v", vars)
	}

	vars["a"] = 99
	run(t, s, []step{{src: "a", want: 1}})

	sigs := s.Signatures()
	if got := len(sigs["sum"]); got != 2 {
		t.Errorf("Signatures()[sum] arity = %d, want 2", got)
	}

	if fn, ok := s.Function("neg"); !ok || FormatTree(fn.Body) != "UnaryOp(-, Var(x))" {
		t.Errorf("Function(neg) = %v, %v", fn, ok)
	}

	if _, ok := s.Function("nope"); ok {
		t.Error("Function(nope) reported found")
	}
}

func TestSession_EvaluateReader(t *testing.T) {
	input := strings.Join([]string{
		"# comment",
		"fn sq x => x * x",
		"",
		"  # indented comment",
		"a = sq 3\r",
		"a + 1",
	}, "\n")

	type line struct {
		n     int
		value string
	}

	var got []line

	s := NewSession()

	err := s.EvaluateReader(t.Context(), strings.NewReader(input),
		func(n int, _ string, res Result) error {
			got = append(got, line{n, res.String()})

			return nil
		})
	if err != nil {
		t.Fatalf("EvaluateReader error: %v", err)
	}

	want := []line{{2, ""}, {3, ""}, {5, "9"}, {6, "10"}}
	if !slices.Equal(got, want) {
		t.Errorf("lines = %v, want %v", got, want)
	}
}

func TestSession_EvaluateReaderStops(t *testing.T) {
	s := NewSession()

	var seen int

	err := s.EvaluateReader(t.Context(), strings.NewReader("1\nq\n3\n"),
		func(int, string, Result) error {
			seen++

			return nil
		})

	var lineErr *LineError
	if !errors.As(err, &lineErr) {
		t.Fatalf("expected *LineError, got %v", err)
	}

	if lineErr.Line != 2 || lineErr.Source != "q" {
		t.Errorf("LineError = line %d %q", lineErr.Line, lineErr.Source)
	}

	if !errors.Is(err, ErrUndefinedIdentifier) {
		t.Errorf("expected ErrUndefinedIdentifier in chain, got %v", err)
	}

	if got, want := err.Error(), `line 2: undefined identifier "q"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if seen != 1 {
		t.Errorf("callback ran %d times, want 1", seen)
	}

	stop := errors.New("stop")

	err = s.EvaluateReader(t.Context(), strings.NewReader("1\n2\n"),
		func(int, string, Result) error { return stop })
	if err != stop {
		t.Errorf("callback error = %v, want %v", err, stop)
	}
}

func TestSession_DumpRoundTrip(t *testing.T) {
	s := NewSession()

	run(t, s, []step{
		{src: "fn sum x y => x + y", empty: true},
		{src: "fn half x => x / 2", empty: true},
		{src: "fn mix a b => sum (half a) -b", empty: true},
		{src: "fn sum x y => y + x", empty: true},
		{src: "w = -3.5", want: -3.5},
		{src: "big = 1e300 * 1e300", want: math.Inf(1)},
		{src: "tiny = 1 / 3", want: 1.0 / 3},
	})

	if _, err := s.Evaluate(t.Context(), "nan = 0 / 0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := s.Dump(&buf); err != nil {
		t.Fatalf("Dump error: %v", err)
	}

	restored := NewSession()
	if err := restored.EvaluateReader(t.Context(), &buf, nil); err != nil {
		t.Fatalf("replay error: %v\n%s", err, buf.String())
	}

	if got, want := len(restored.Functions()), len(s.Functions()); got != want {
		t.Fatalf("restored %d functions, want %d", got, want)
	}

	for _, fn := range s.Functions() {
		other, ok := restored.Function(fn.Name)
		if !ok {
			t.Fatalf("function %s missing after replay", fn.Name)
		}

		if FormatTree(fn.Body) != FormatTree(other.Body) {
			t.Errorf("%s body = %s, want %s", fn.Name, other.Body, fn.Body)
		}
	}

	orig, back := s.Variables(), restored.Variables()
	for name, v := range orig {
		w, ok := back[name]

		switch {
		case !ok:
			t.Errorf("variable %s missing after replay", name)
		case math.IsNaN(v):
			if !math.IsNaN(w) {
				t.Errorf("%s = %v, want NaN", name, w)
			}
		case v != w:
			t.Errorf("%s = %v, want %v", name, w, v)
		}
	}
}

func TestResult_String(t *testing.T) {
	if got := (Result{Empty: true}).String(); got != "" {
		t.Errorf("empty Result.String() = %q", got)
	}

	if got := (Result{Value: 2.5}).String(); got != "2.5" {
		t.Errorf("Result.String() = %q", got)
	}
}

func TestScanLines(t *testing.T) {
	src := "1\r\n  # note\n\n#x = 1\nsum 1 2\n"

	var (
		nums  []int
		lines []string
	)

	err := ScanLines(strings.NewReader(src), func(n int, line string) error {
		nums = append(nums, n)
		lines = append(lines, line)

		return nil
	})
	if err != nil {
		t.Fatalf("ScanLines() error = %v", err)
	}

	if !slices.Equal(nums, []int{1, 3, 5}) {
		t.Errorf("line numbers = %v", nums)
	}

	if !slices.Equal(lines, []string{"1", "", "sum 1 2"}) {
		t.Errorf("lines = %q", lines)
	}

	stop := errors.New("stop")

	err = ScanLines(strings.NewReader("1\n2\n"), func(int, string) error { return stop })
	if err != stop {
		t.Errorf("ScanLines() error = %v, want callback error", err)
	}
}

func TestSession_DumpRedeclared(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		check string
		want  float64
	}{
		{
			name:  "callee redeclared",
			lines: []string{"fn f x => x", "fn g x => f x", "fn f x => x * 2"},
			check: "g 5",
			want:  10,
		},
		{
			name:  "callee declared after caller redeclared",
			lines: []string{"fn g x => x", "fn h x => x + 1", "fn g x => h x"},
			check: "g 1",
			want:  2,
		},
		{
			name:  "callee arity changed",
			lines: []string{"fn f x => x", "fn g x => f x", "fn f x y => x - y"},
			check: "f 4 1",
			want:  3,
		},
		{
			name:  "mutual recursion",
			lines: []string{"fn f x => x", "fn g x => f x", "fn f x => g x - 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(WithMaxDepth(50))

			for _, line := range tt.lines {
				if _, err := s.Evaluate(t.Context(), line); err != nil {
					t.Fatalf("Evaluate(%q): %v", line, err)
				}
			}

			var dump bytes.Buffer
			if err := s.Dump(&dump); err != nil {
				t.Fatal(err)
			}

			restored := NewSession(WithMaxDepth(50))
			if err := restored.EvaluateReader(t.Context(), strings.NewReader(dump.String()), nil); err != nil {
				t.Fatalf("replay error: %v\n%s", err, dump.String())
			}

			for _, fn := range s.Functions() {
				other, ok := restored.Function(fn.Name)
				if !ok {
					t.Fatalf("function %s missing after replay", fn.Name)
				}

				if other.Signature() != fn.Signature() || FormatTree(other.Body) != FormatTree(fn.Body) {
					t.Errorf("%s = %s => %s, want %s => %s", fn.Name,
						other.Signature(), FormatTree(other.Body),
						fn.Signature(), FormatTree(fn.Body))
				}
			}

			for _, sess := range []*Session{s, restored} {
				if tt.check == "" {
					break
				}

				res, err := sess.Evaluate(t.Context(), tt.check)
				if v, ok := res.Float(); err != nil || !ok || v != tt.want {
					t.Errorf("Evaluate(%q) = %v, %v, want %v", tt.check, v, err, tt.want)
				}
			}

			var again bytes.Buffer
			if err := restored.Dump(&again); err != nil {
				t.Fatal(err)
			}

			if again.String() != dump.String() {
				t.Errorf("dump after replay = %q, want %q", again.String(), dump.String())
			}
		})
	}
}
