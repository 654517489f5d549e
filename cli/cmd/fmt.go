package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/ardnew/calc/lang"
)

// Fmt parses lines without evaluating them and prints each syntax tree in
// the chosen format. Every line is parsed against the functions declared
// by the prelude and by the preceding "fn" lines.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Print canonical source (default)."`
	Tree   Tree   `cmd:""                    help:"Print the syntax tree in constructor form."`
	JSON   JSON   `cmd:""                    help:"Print the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Print the syntax tree as YAML."`
}

// input is the line source shared by the fmt subcommands.
type input struct {
	Lines []string `arg:"" help:"Lines to format (default: read standard input)" name:"line" optional:""`
}

// each parses every input line and calls fn with the resulting tree.
// Blank lines and comments are skipped.
func (in *input) each(
	ctx context.Context,
	format string,
	fn func(w io.Writer, node lang.Node) error,
) error {
	sess, err := newSession(ctx)
	if err != nil {
		return err
	}

	s := streamsFrom(ctx)
	sigs := sess.Signatures()

	visit := func(n int, line string) error {
		node, err := parseCache.Parse(line, sigs)
		if err != nil {
			return ErrFormat.
				With(
					slog.String("format", format),
					slog.Int("line", n),
					slog.String("input", line),
				).
				Wrap(&lang.LineError{Line: n, Source: line, Err: err})
		}

		if node == nil {
			return nil
		}

		if def, ok := node.(*lang.FuncDef); ok {
			sigs[def.Name] = def.Params
		}

		return fn(s.out, node)
	}

	if len(in.Lines) > 0 {
		for i, line := range in.Lines {
			if lang.IsComment(line) {
				continue
			}

			if err := visit(i+1, line); err != nil {
				return err
			}
		}

		return nil
	}

	if sourceFilesFrom(ctx).HasStdin() {
		return nil
	}

	ra := readahead.NewReader(s.in)
	defer ra.Close()

	err = lang.ScanLines(ra, visit)
	if errors.Is(err, lang.ErrReadInput) {
		return ErrReadSource.With(slog.String("source", stdinName)).Wrap(err)
	}

	return err
}

// Native prints canonical source with minimal parentheses.
type Native struct {
	Input input `embed:""`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return f.Input.each(ctx, "native", func(w io.Writer, node lang.Node) error {
		return writeLine(w, lang.FormatString(node))
	})
}

// Tree prints the constructor form, e.g. BinOp(+, Var(x), Num(1)).
type Tree struct {
	Input input `embed:""`
}

// Run executes the fmt tree command.
func (f *Tree) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return f.Input.each(ctx, "tree", func(w io.Writer, node lang.Node) error {
		return writeLine(w, lang.FormatTree(node))
	})
}

// JSON prints one JSON document per line.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Input input `embed:""`
}

// Run executes the fmt json command.
func (f *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return f.Input.each(ctx, "json", func(w io.Writer, node lang.Node) error {
		if err := lang.FormatJSON(w, node, f.Indent); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil
	})
}

// YAML prints one YAML document per line.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`

	Input input `embed:""`
}

// Run executes the fmt yaml command.
func (f *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	first := true

	return f.Input.each(ctx, "yaml", func(w io.Writer, node lang.Node) error {
		if !first {
			if err := writeLine(w, "---"); err != nil {
				return err
			}
		}

		first = false

		if err := lang.FormatYAML(ctx, w, node, f.Indent); err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		return nil
	})
}

func writeLine(w io.Writer, s string) error {
	if _, err := fmt.Fprintln(w, s); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
