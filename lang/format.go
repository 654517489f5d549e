package lang

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// FormatNumber formats v for display. Magnitudes in [1e-6, 1e21) are
// written in plain decimal notation and all others in exponent notation,
// both using the fewest digits that round-trip. Negative zero prints as 0.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case v == 0:
		return "0"
	}

	if a := math.Abs(v); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

// sourceNumber returns an expression that evaluates to exactly v.
func sourceNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "0 / 0"
	case math.Signbit(v):
		return "-" + sourceNumber(-v)
	case math.IsInf(v, 1):
		// The smallest integer literal that overflows float64.
		return "1" + strings.Repeat("0", 309)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// FormatTree returns the tree form of n, for example
//
//	FnCall(F2, [Num(1), BinOp(-, Num(2), Num(3))])
//
// A nil Node formats as the empty string.
func FormatTree(n Node) string {
	var b strings.Builder

	writeTree(&b, n)

	return b.String()
}

func writeTree(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case nil:

	case *Number:
		b.WriteString("Num(")
		b.WriteString(FormatNumber(n.Value))
		b.WriteByte(')')

	case *Binary:
		b.WriteString("BinOp(")
		b.WriteString(n.Op.String())
		b.WriteString(", ")
		writeTree(b, n.Left)
		b.WriteString(", ")
		writeTree(b, n.Right)
		b.WriteByte(')')

	case *Unary:
		b.WriteString("UnaryOp(")
		b.WriteString(n.Op.String())
		b.WriteString(", ")
		writeTree(b, n.Operand)
		b.WriteByte(')')

	case *Variable:
		b.WriteString("Var(")
		b.WriteString(n.Name)
		b.WriteByte(')')

	case *Assign:
		b.WriteString("Asgn(")
		writeTree(b, n.Target)
		b.WriteString(", ")
		writeTree(b, n.Value)
		b.WriteByte(')')

	case *FuncDef:
		b.WriteString("FnDef(")
		b.WriteString(n.Name)
		b.WriteString(", [")
		b.WriteString(strings.Join(n.Params, ", "))
		b.WriteString("], ")
		writeTree(b, n.Body)
		b.WriteByte(')')

	case *FuncCall:
		b.WriteString("FnCall(")
		b.WriteString(n.Name)
		b.WriteString(", [")

		for i, arg := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}

			writeTree(b, arg)
		}

		b.WriteString("])")

	default:
		panic("lang: unknown node type")
	}
}

// Format writes n to w as source text that parses back to an equal tree
// given the same function signatures. Parentheses are added only where the
// grammar requires them.
func Format(w io.Writer, n Node) error {
	_, err := io.WriteString(w, FormatString(n))

	return err
}

// FormatString returns the source text of n as written by [Format].
func FormatString(n Node) string {
	if n == nil {
		return ""
	}

	return source(n).text
}

const precAtom = precUnary + 1

// fragment is the rendered source of a subtree.
//
// open is set when the text ends in a call with arguments. Such a call
// absorbs any operator that follows it into its last argument, so an open
// fragment must be parenthesized before anything is appended to it.
type fragment struct {
	text string
	prec int
	open bool
}

func (f fragment) wrap() fragment {
	return fragment{text: "(" + f.text + ")", prec: precAtom}
}

func (f fragment) atLeast(prec int) fragment {
	if f.prec < prec {
		return f.wrap()
	}

	return f
}

func source(n Node) fragment {
	switch n := n.(type) {
	case *Number:
		f := fragment{text: sourceNumber(n.Value), prec: precAtom}
		if math.Signbit(n.Value) || math.IsNaN(n.Value) {
			f = f.wrap()
		}

		return f

	case *Variable:
		return fragment{text: n.Name, prec: precAtom}

	case *Binary:
		prec := n.Op.precedence()

		left := source(n.Left).atLeast(prec)
		if left.open {
			left = left.wrap()
		}

		right := source(n.Right).atLeast(prec + 1)

		return fragment{
			text: left.text + " " + n.Op.String() + " " + right.text,
			prec: prec,
			open: right.open,
		}

	case *Unary:
		operand := source(n.Operand).atLeast(precUnary)

		sep := ""
		if strings.HasPrefix(operand.text, "+") ||
			strings.HasPrefix(operand.text, "-") {
			sep = " "
		}

		return fragment{
			text: n.Op.String() + sep + operand.text,
			prec: precUnary,
			open: operand.open,
		}

	case *Assign:
		value := source(n.Value)

		return fragment{
			text: n.Target.Name + " = " + value.text,
			prec: precAssign,
			open: value.open,
		}

	case *FuncDef:
		part := append([]string{"fn", n.Name}, n.Params...)
		part = append(part, "=>", source(n.Body).text)

		return fragment{text: strings.Join(part, " "), prec: precAssign}

	case *FuncCall:
		part := make([]string, 0, len(n.Args)+1)
		part = append(part, n.Name)

		for _, arg := range n.Args {
			f := source(arg)
			if f.prec <= precAssign ||
				strings.HasPrefix(f.text, "+") ||
				strings.HasPrefix(f.text, "-") {
				f = f.wrap()
			}

			part = append(part, f.text)
		}

		return fragment{
			text: strings.Join(part, " "),
			prec: precAtom,
			open: len(n.Args) > 0,
		}

	default:
		panic("lang: unknown node type")
	}
}

// mapNumber returns v, or its [FormatNumber] text if v is not finite, since
// JSON has no representation for infinities.
func mapNumber(v float64) any {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return FormatNumber(v)
	}

	return v
}

// ToMap returns a representation of n built from maps, slices, strings and
// numbers, suitable for generic encoders. A nil Node yields nil.
func ToMap(n Node) map[string]any {
	switch n := n.(type) {
	case nil:
		return nil

	case *Number:
		return map[string]any{"type": kindOf(n), "value": mapNumber(n.Value)}

	case *Binary:
		return map[string]any{
			"type":  kindOf(n),
			"op":    n.Op.String(),
			"left":  ToMap(n.Left),
			"right": ToMap(n.Right),
		}

	case *Unary:
		return map[string]any{
			"type":    kindOf(n),
			"op":      n.Op.String(),
			"operand": ToMap(n.Operand),
		}

	case *Variable:
		return map[string]any{"type": kindOf(n), "name": n.Name}

	case *Assign:
		return map[string]any{
			"type":   kindOf(n),
			"target": n.Target.Name,
			"value":  ToMap(n.Value),
		}

	case *FuncDef:
		params := make([]string, len(n.Params))
		copy(params, n.Params)

		return map[string]any{
			"type":   kindOf(n),
			"name":   n.Name,
			"params": params,
			"body":   ToMap(n.Body),
		}

	case *FuncCall:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = ToMap(arg)
		}

		return map[string]any{"type": kindOf(n), "name": n.Name, "args": args}

	default:
		panic("lang: unknown node type")
	}
}

// FormatJSON writes the map form of n to w as indented JSON.
func FormatJSON(w io.Writer, n Node, indent int) error {
	data, err := json.MarshalIndent(ToMap(n), "", strings.Repeat(" ", indent))
	if err != nil {
		return err
	}

	_, err = w.Write(append(data, '\n'))

	return err
}

// FormatYAML writes the map form of n to w as YAML.
func FormatYAML(ctx context.Context, w io.Writer, n Node, indent int) error {
	opts := []yaml.EncodeOption{yaml.Indent(max(indent, 1))}
	if indent <= 0 {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ToMap(n), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
