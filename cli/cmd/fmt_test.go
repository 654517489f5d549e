package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/calc/lang"
)

func TestFmtNative(t *testing.T) {
	ctx, out, _ := testContext(t, "")

	cmd := &Native{Input: input{Lines: []string{
		"fn sum x y => x+y",
		"  # comment",
		"",
		"sum 1 2",
		"(a) = 2*(3+4)",
	}}}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "fn sum x y => x + y\nsum 1 2\na = 2 * (3 + 4)\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestFmtTreeStdin(t *testing.T) {
	ctx, out, _ := testContext(t, "fn inc v => v + 1\n# comment\ninc (w * 2)\n")

	if err := (&Tree{}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := "FnDef(inc, [v], BinOp(+, Var(v), Num(1)))\n" +
		"FnCall(inc, [BinOp(*, Var(w), Num(2))])\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestFmtPreludeSignatures(t *testing.T) {
	path := writeFile(t, "prelude.calc", "fn dbl a => a * 2\n")

	ctx, out, _ := testContext(t, "", path)

	if err := (&Tree{Input: input{Lines: []string{"dbl 3"}}}).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got, want := out.String(), "FnCall(dbl, [Num(3)])\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	// Without the prelude dbl is an ordinary variable followed by a number.
	ctx, _, _ = testContext(t, "")

	err := (&Tree{Input: input{Lines: []string{"1", "dbl 3"}}}).Run(ctx)
	if !errors.Is(err, ErrFormat) || !errors.Is(err, lang.ErrParse) {
		t.Fatalf("error = %v, want parse error", err)
	}

	var lerr *lang.LineError
	if !errors.As(err, &lerr) || lerr.Line != 2 {
		t.Errorf("error = %v, want line 2", err)
	}
}

func TestFmtJSON(t *testing.T) {
	ctx, out, _ := testContext(t, "")

	cmd := &JSON{Indent: 2, Input: input{Lines: []string{"1 + x", "y = 2"}}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	dec := json.NewDecoder(strings.NewReader(out.String()))

	var first, second map[string]any
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("decode first: %v", err)
	}

	if err := dec.Decode(&second); err != nil {
		t.Fatalf("decode second: %v", err)
	}

	if first["type"] != "binary" || first["op"] != "+" {
		t.Errorf("first = %v", first)
	}

	if second["type"] != "assign" || second["target"] != "y" {
		t.Errorf("second = %v", second)
	}
}

func TestFmtYAML(t *testing.T) {
	ctx, out, _ := testContext(t, "")

	cmd := &YAML{Indent: 2, Input: input{Lines: []string{"1", "x"}}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var separators, types int

	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	for scanner.Scan() {
		switch line := scanner.Text(); {
		case line == "---":
			separators++
		case strings.HasPrefix(line, "type:"):
			types++
		}
	}

	if separators != 1 || types != 2 {
		t.Errorf("separators = %d, types = %d in %q", separators, types, out.String())
	}
}
