package lang

// Node is a parsed expression or declaration.
//
// The set of node types is closed: Node can only be implemented within this
// package, and every visitor is an exhaustive type switch over the concrete
// types below.
type Node interface {
	// String returns the canonical tree form, e.g. BinOp(+, Var(x), Num(1)).
	String() string

	node()
}

// Op is an arithmetic operator.
type Op byte

const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
	OpMod Op = '%'
)

func (o Op) String() string { return string(rune(o)) }

// precedence returns the binding strength of a binary operator.
func (o Op) precedence() int {
	switch o {
	case OpMul, OpDiv, OpMod:
		return precTerm
	default:
		return precSum
	}
}

const (
	precAssign = iota + 1
	precSum
	precTerm
	precUnary
)

type (
	// Number is a numeric literal.
	Number struct {
		Value float64
	}

	// Binary applies Op to Left and Right.
	Binary struct {
		Left  Node
		Right Node
		Op    Op
	}

	// Unary applies a sign (OpAdd or OpSub) to Operand.
	Unary struct {
		Operand Node
		Op      Op
	}

	// Variable references a name in the active scope frame.
	Variable struct {
		Name string
	}

	// Assign binds the value of Value to Target in the active scope frame.
	Assign struct {
		Target *Variable
		Value  Node
	}

	// FuncDef declares a named function of Params with a single expression
	// Body.
	FuncDef struct {
		Body   Node
		Name   string
		Params []string
	}

	// FuncCall invokes a declared function with exactly one argument per
	// declared parameter.
	FuncCall struct {
		Name string
		Args []Node
	}
)

func (*Number) node()   {}
func (*Binary) node()   {}
func (*Unary) node()    {}
func (*Variable) node() {}
func (*Assign) node()   {}
func (*FuncDef) node()  {}
func (*FuncCall) node() {}

func (n *Number) String() string   { return FormatTree(n) }
func (n *Binary) String() string   { return FormatTree(n) }
func (n *Unary) String() string    { return FormatTree(n) }
func (n *Variable) String() string { return FormatTree(n) }
func (n *Assign) String() string   { return FormatTree(n) }
func (n *FuncDef) String() string  { return FormatTree(n) }
func (n *FuncCall) String() string { return FormatTree(n) }

// kindOf returns a short lowercase name for the concrete type of n.
func kindOf(n Node) string {
	switch n.(type) {
	case nil:
		return "empty"
	case *Number:
		return "number"
	case *Binary:
		return "binary"
	case *Unary:
		return "unary"
	case *Variable:
		return "variable"
	case *Assign:
		return "assign"
	case *FuncDef:
		return "function"
	case *FuncCall:
		return "call"
	default:
		panic("lang: unknown node type")
	}
}
