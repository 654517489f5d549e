package lang_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ardnew/calc/lang"
)

func Example() {
	ctx := context.Background()
	s := lang.NewSession()

	for _, line := range []string{
		"fn avg x y => (x + y) / 2",
		"a = 13 + (b = 3)",
		"avg a b",
		"avg 1 2 - 3",
	} {
		res, err := s.Evaluate(ctx, line)
		if err != nil {
			fmt.Println("error:", err)

			continue
		}

		if res.IsEmpty() {
			fmt.Println(line)

			continue
		}

		fmt.Printf("%-26s %s\n", line, res)
	}

	// Output:
	// fn avg x y => (x + y) / 2
	// a = 13 + (b = 3)           16
	// avg a b                    9.5
	// avg 1 2 - 3                0
}

func Example_errors() {
	ctx := context.Background()
	s := lang.NewSession()

	for _, line := range []string{
		"q + 1",
		"fn bad => q",
		"x = 1",
		"fn x => 0",
		"1 +",
	} {
		_, err := s.Evaluate(ctx, line)

		switch {
		case errors.Is(err, lang.ErrParse):
			fmt.Println("syntax:", err)
		case err != nil:
			fmt.Println(err)
		}
	}

	// Output:
	// undefined identifier "q"
	// unresolved identifier "q"
	// name conflict: variable "x" is already declared
	// syntax: parse error
}

func ExampleParse() {
	sigs := lang.Signatures{"sum": {"x", "y"}}

	n, err := lang.Parse("sum 1 2 - 3", sigs)
	if err != nil {
		panic(err)
	}

	fmt.Println(n)
	fmt.Println(lang.FormatString(n))

	// Output:
	// FnCall(sum, [Num(1), BinOp(-, Num(2), Num(3))])
	// sum 1 2 - 3
}

func ExampleSession_Dump() {
	ctx := context.Background()
	s := lang.NewSession()

	err := s.EvaluateReader(ctx, strings.NewReader(
		"fn sq x => x * x\nside = 4\narea = sq side\n",
	), nil)
	if err != nil {
		panic(err)
	}

	if err := s.Dump(os.Stdout); err != nil {
		panic(err)
	}

	// Output:
	// fn sq x => x * x
	// area = 16
	// side = 4
}
