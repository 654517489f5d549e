package lang

import (
	"log/slog"
	"maps"
	"slices"
)

// Signatures maps each known function name to its ordered parameter names.
//
// A Parser consults Signatures to decide whether an identifier is a function
// call, and if so, how many argument expressions follow it.
type Signatures map[string][]string

// Clone returns a copy of s that is unaffected by later changes to s.
func (s Signatures) Clone() Signatures {
	c := make(Signatures, len(s))
	for name, params := range s {
		c[name] = slices.Clone(params)
	}

	return c
}

// Names returns the function names in s in sorted order.
func (s Signatures) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// Parser builds the syntax tree of a single line.
//
// A Parser is single-use: construct a new one for each line.
type Parser struct {
	lex  *Lexer
	sigs Signatures
	tok  Token
}

// NewParser returns a Parser for src that recognizes calls to the functions
// named in sigs. The parser never modifies sigs.
func NewParser(src string, sigs Signatures) *Parser {
	return &Parser{lex: NewLexer(src), sigs: sigs}
}

// Parse parses a single line with the given function signatures.
func Parse(src string, sigs Signatures) (Node, error) {
	return NewParser(src, sigs).Parse()
}

// Parse parses the entire input. It returns a nil Node and nil error when
// the input contains no tokens.
func (p *Parser) Parse() (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	var (
		node Node
		err  error
	)

	switch p.tok.Kind {
	case KindEOF:
		return nil, nil

	case KindFnKey:
		node, err = p.funcDef()

	default:
		node, err = p.expr()
	}

	if err != nil {
		return nil, err
	}

	if p.tok.Kind != KindEOF {
		return nil, p.unexpected()
	}

	return node, nil
}

func (p *Parser) advance() (err error) {
	p.tok, err = p.lex.Next()

	return err
}

// peek returns the kind of the token after the current one. Lex errors are
// left for advance to report.
func (p *Parser) peek() Kind {
	l := *p.lex

	tok, err := l.Next()
	if err != nil {
		return KindEOF
	}

	return tok.Kind
}

func (p *Parser) expect(kind Kind) error {
	if p.tok.Kind != kind {
		return p.unexpected()
	}

	return p.advance()
}

func (p *Parser) unexpected() error {
	return ErrParse.With(slog.String("token", p.tok.String()))
}

// expr parses an assignment or a sum of terms.
func (p *Parser) expr() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}

	if p.tok.Kind == KindAssign {
		target, ok := left.(*Variable)
		if !ok {
			return nil, p.unexpected()
		}

		if err := p.advance(); err != nil {
			return nil, err
		}

		value, err := p.expr()
		if err != nil {
			return nil, err
		}

		return &Assign{Target: target, Value: value}, nil
	}

	for p.tok.Kind == KindPlus || p.tok.Kind == KindMinus {
		op := binaryOp[p.tok.Kind]

		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := p.term()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op, Left: left, Right: right}
	}

	return left, nil
}

func (p *Parser) term() (Node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}

	for p.tok.Kind == KindMul || p.tok.Kind == KindDiv || p.tok.Kind == KindMod {
		op := binaryOp[p.tok.Kind]

		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := p.factor()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: op, Left: left, Right: right}
	}

	return left, nil
}

var binaryOp = map[Kind]Op{
	KindPlus:  OpAdd,
	KindMinus: OpSub,
	KindMul:   OpMul,
	KindDiv:   OpDiv,
	KindMod:   OpMod,
}

func (p *Parser) factor() (Node, error) {
	switch p.tok.Kind {
	case KindNumber:
		n := &Number{Value: p.tok.Value}

		return n, p.advance()

	case KindLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}

		n, err := p.expr()
		if err != nil {
			return nil, err
		}

		return n, p.expect(KindRParen)

	case KindPlus, KindMinus:
		op := binaryOp[p.tok.Kind]

		if err := p.advance(); err != nil {
			return nil, err
		}

		operand, err := p.factor()
		if err != nil {
			return nil, err
		}

		return &Unary{Op: op, Operand: operand}, nil

	case KindIdent:
		// A name followed by '=' is an assignment target even when it names
		// a function, so that the conflict is reported by the evaluator.
		if params, ok := p.sigs[p.tok.Text]; ok && p.peek() != KindAssign {
			return p.call(len(params))
		}

		v := &Variable{Name: p.tok.Text}

		return v, p.advance()

	default:
		return nil, p.unexpected()
	}
}

// call parses exactly arity argument expressions following a function name.
func (p *Parser) call(arity int) (Node, error) {
	name := p.tok.Text

	if err := p.advance(); err != nil {
		return nil, err
	}

	args := make([]Node, 0, arity)

	for p.tok.Kind.startsArg() && len(args) < arity {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	if len(args) != arity {
		return nil, ErrParse.With(
			slog.String("function", name),
			slog.Int("want", arity),
			slog.Int("have", len(args)),
		)
	}

	return &FuncCall{Name: name, Args: args}, nil
}

// funcDef parses "fn NAME PARAM* => BODY" and validates that BODY refers to
// no names other than PARAMs.
func (p *Parser) funcDef() (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.tok.Kind != KindIdent {
		return nil, p.unexpected()
	}

	def := &FuncDef{Name: p.tok.Text}

	if err := p.advance(); err != nil {
		return nil, err
	}

	for p.tok.Kind != KindFnArrow {
		if p.tok.Kind != KindIdent {
			return nil, p.unexpected()
		}

		if slices.Contains(def.Params, p.tok.Text) {
			return nil, ErrParse.With(
				slog.String("function", def.Name),
				slog.String("duplicate", p.tok.Text),
			)
		}

		def.Params = append(def.Params, p.tok.Text)

		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	body, err := p.expr()
	if err != nil {
		return nil, err
	}

	def.Body = body

	if err := validate(def); err != nil {
		return nil, err
	}

	return def, nil
}
