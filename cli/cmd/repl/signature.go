package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/calc/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the innermost call whose arguments the cursor is filling.
type functionCall struct {
	name     string
	params   []string
	argIndex int // 0-based index of the argument being filled
}

// pending is a call still collecting arguments.
type pending struct {
	name   string
	params []string
	depth  int  // parenthesis depth of the call name
	arg    int  // index of the current argument, or -1 before the first
	done   bool // the current argument is a complete operand
}

// detectFunctionCall finds the call whose argument is being typed at cursor.
// Calls have no delimiters, so arguments are counted the way the parser
// consumes them: an argument ends where an operand is followed by the start
// of another operand at the same parenthesis depth.
//
// A trailing space after a complete operand means the next argument is
// about to be typed.
func detectFunctionCall(
	input string,
	cursor int,
	sigs lang.Signatures,
) (functionCall, bool) {
	cursor = min(max(cursor, 0), len(input))
	text := input[:cursor]

	var (
		stack   []*pending
		depth   int
		operand bool // the previous token completed an operand
		header  bool // inside "fn NAME PARAMS =>"
	)

	top := func() *pending {
		if len(stack) == 0 {
			return nil
		}

		return stack[len(stack)-1]
	}

	// finish pops calls at the current depth whose last argument is
	// complete; each popped call is itself a complete operand.
	finish := func() {
		for p := top(); p != nil && p.depth == depth && p.done &&
			p.arg == len(p.params)-1; p = top() {
			stack = stack[:len(stack)-1]

			if q := top(); q != nil && q.depth == depth {
				q.done = q.arg >= 0
			}
		}
	}

	// begin records the start of an operand at the current depth.
	begin := func() {
		p := top()
		if p == nil || p.depth != depth {
			return
		}

		if p.arg < 0 || operand {
			p.arg++
		}

		p.done = false
	}

	// complete records the end of an operand at the current depth.
	complete := func() {
		if p := top(); p != nil && p.depth == depth {
			p.done = p.arg >= 0
		}

		operand = true
	}

	lex := lang.NewLexer(text)

	for tok, err := range lex.All() {
		if err != nil || tok.Kind == lang.KindEOF {
			break
		}

		if header {
			header = tok.Kind != lang.KindFnArrow

			continue
		}

		switch tok.Kind {
		case lang.KindFnKey:
			stack, depth, operand, header = nil, 0, false, true

			continue

		case lang.KindAssign:
			stack, depth, operand = nil, 0, false

			continue

		case lang.KindNumber, lang.KindIdent, lang.KindLParen:
			if operand {
				finish()
			}

			begin()

			switch params, ok := sigs[tok.Text]; {
			case tok.Kind == lang.KindLParen:
				depth++
				operand = false

			case tok.Kind == lang.KindIdent && ok:
				stack = append(stack, &pending{
					name:   tok.Text,
					params: params,
					depth:  depth,
					arg:    -1,
				})
				operand = false

				if len(params) == 0 {
					stack = stack[:len(stack)-1]
					complete()
				}

			default:
				complete()
			}

		case lang.KindRParen:
			for p := top(); p != nil && p.depth >= depth; p = top() {
				stack = stack[:len(stack)-1]
			}

			depth = max(depth-1, 0)
			complete()

		default:
			// Binary and unary operators continue the current argument.
			if p := top(); p != nil && p.depth == depth && p.arg >= 0 {
				p.done = false
			}

			operand = false
		}
	}

	if operand && strings.HasSuffix(text, " ") {
		finish()

		if p := top(); p != nil && p.depth == depth && p.done {
			return functionCall{p.name, p.params, p.arg + 1}, true
		}
	}

	p := top()
	if p == nil || len(p.params) == 0 {
		return functionCall{}, false
	}

	return functionCall{p.name, p.params, max(p.arg, 0)}, true
}

// signatureText returns the call's signature with the current parameter
// marked, e.g. "sum x ‹y›".
func signatureText(call functionCall) string {
	return renderSignature(call, plain, plain, func(s ...string) string {
		return "‹" + plain(s...) + "›"
	})
}

// renderSignatureHint returns the styled signature hint for call.
func renderSignatureHint(call functionCall) string {
	return renderSignature(call,
		signatureNameStyle.Render,
		signatureStyle.Render,
		func(s ...string) string {
			return currentParamStyle.Render("‹" + plain(s...) + "›")
		},
	)
}

func renderSignature(call functionCall, name, param, current func(...string) string) string {
	parts := make([]string, 0, len(call.params)+1)
	parts = append(parts, name(call.name))

	for i, p := range call.params {
		if i == call.argIndex {
			parts = append(parts, current(p))
		} else {
			parts = append(parts, param(p))
		}
	}

	return strings.Join(parts, " ")
}
