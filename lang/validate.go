package lang

// validate reports the first variable referenced in the body of def that is
// not one of its parameters.
func validate(def *FuncDef) error {
	bound := make(map[string]struct{}, len(def.Params))
	for _, name := range def.Params {
		bound[name] = struct{}{}
	}

	if name, ok := freeVariable(def.Body, bound); ok {
		return &UnresolvedError{Function: def.Name, Name: name}
	}

	return nil
}

// freeVariable walks n in evaluation order and returns the first variable
// name not contained in bound.
func freeVariable(n Node, bound map[string]struct{}) (string, bool) {
	switch n := n.(type) {
	case *Number, *FuncDef:
		return "", false

	case *Variable:
		if _, ok := bound[n.Name]; !ok {
			return n.Name, true
		}

		return "", false

	case *Binary:
		if name, ok := freeVariable(n.Left, bound); ok {
			return name, true
		}

		return freeVariable(n.Right, bound)

	case *Unary:
		return freeVariable(n.Operand, bound)

	case *Assign:
		if name, ok := freeVariable(n.Target, bound); ok {
			return name, true
		}

		return freeVariable(n.Value, bound)

	case *FuncCall:
		for _, arg := range n.Args {
			if name, ok := freeVariable(arg, bound); ok {
				return name, true
			}
		}

		return "", false

	default:
		panic("lang: unknown node type")
	}
}

// visitCalls calls fn with every function call in n, outermost first and
// then left to right.
func visitCalls(n Node, fn func(*FuncCall)) {
	switch n := n.(type) {
	case *Binary:
		visitCalls(n.Left, fn)
		visitCalls(n.Right, fn)

	case *Unary:
		visitCalls(n.Operand, fn)

	case *Assign:
		visitCalls(n.Value, fn)

	case *FuncDef:
		visitCalls(n.Body, fn)

	case *FuncCall:
		fn(n)

		for _, arg := range n.Args {
			visitCalls(arg, fn)
		}
	}
}
