// Package lang implements a small line-oriented calculator language with
// variables and single-expression functions.
//
// # Language
//
// Each line is a declaration, an expression, or empty:
//
//	fn sum x y => x + y    declares a function (the result is empty)
//	a = 13 + (b = 3)       assignments are expressions
//	sum a b * 2            calls take exactly one argument per parameter
//
// Informal grammar, lowest precedence first:
//
//	Line    → ( 'fn' Ident Ident* '=>' Expr | Expr )? EOF
//	Expr    → Term '=' Expr | Term (('+' | '-') Term)*
//	Term    → Factor (('*' | '/' | '%') Factor)*
//	Factor  → Number | '(' Expr ')' | ('+' | '-') Factor | Call | Ident
//	Call    → Ident Expr{n}     where n is the declared parameter count
//
// Only a bare variable may appear to the left of '='. Spaces separate
// tokens; no other whitespace is accepted.
//
// # Calls
//
// No delimiter separates arguments. Whether an identifier names a function,
// and how many arguments it takes, comes from the [Signatures] known when
// the line is parsed. Each argument is a full expression, so
//
//	sum 1 2 - 3
//
// is sum(1, 2-3), and
//
//	add echo 4 echo 12
//
// is add(echo(4), echo(12)). Wrap a call in parentheses to end it early:
// (sum 1 2) - 3.
//
// # Scope
//
// A [Session] keeps one global frame of variables. Each call pushes a new
// frame holding only the call's parameters; variable lookups never fall
// back to an outer frame. Function bodies may only reference their own
// parameters, which is checked when the function is declared.
//
// Function and variable names share one namespace: a function cannot be
// declared over a variable in the active frame, and a variable cannot be
// assigned over a function.
//
// # Evaluation
//
//	s := lang.NewSession()
//	_, _ = s.Evaluate(ctx, "fn sum x y => x + y")
//	r, _ := s.Evaluate(ctx, "sum 1 3")
//	fmt.Println(r) // 4
package lang
