package lang

//go:generate go tool stringer --linecomment --type Kind,Binding --output token_string.go

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	KindEOF    Kind = iota // end of input
	KindNumber             // number
	KindIdent              // identifier
	KindPlus               // +
	KindMinus              // -
	KindMul                // *
	KindDiv                // /
	KindMod                // %
	KindLParen             // (
	KindRParen             // )
	KindAssign             // =
	KindFnKey              // fn
	KindFnArrow            // =>
)

// startsArg reports whether a token of kind k may begin a call argument.
// Unary operators cannot.
func (k Kind) startsArg() bool {
	return k == KindNumber || k == KindLParen || k == KindIdent
}

// Token is a single lexeme. Text holds the identifier name or the number
// literal as written; Value holds the parsed number.
type Token struct {
	Kind  Kind
	Text  string
	Value float64
}

func (t Token) String() string {
	switch t.Kind {
	case KindNumber, KindIdent:
		return t.Text
	default:
		return t.Kind.String()
	}
}
