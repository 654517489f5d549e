package lang

import (
	"context"
	"log/slog"
	"math"
)

// exec evaluates a top-level node. Function definitions produce an empty
// Result; every other node produces a value.
func (s *Session) exec(ctx context.Context, n Node) (Result, error) {
	switch n := n.(type) {
	case nil:
		return Result{Empty: true}, nil

	case *FuncDef:
		if err := s.define(ctx, n); err != nil {
			return Result{}, err
		}

		return Result{Empty: true}, nil

	default:
		v, err := s.eval(ctx, n)
		if err != nil {
			return Result{}, err
		}

		return Result{Value: v}, nil
	}
}

func (s *Session) define(ctx context.Context, def *FuncDef) error {
	if _, ok := s.top()[def.Name]; ok {
		return &ConflictError{Existing: BindingVariable, Name: def.Name}
	}

	s.seq++
	s.funcs[def.Name] = &Function{
		Name:   def.Name,
		Params: def.Params,
		Body:   def.Body,
		seq:    s.seq,
	}

	s.logger.TraceContext(ctx, "function defined",
		slog.String("name", def.Name),
		slog.Int("arity", len(def.Params)),
	)

	return nil
}

func (s *Session) eval(ctx context.Context, n Node) (float64, error) {
	switch n := n.(type) {
	case *Number:
		return n.Value, nil

	case *Binary:
		left, err := s.eval(ctx, n.Left)
		if err != nil {
			return 0, err
		}

		right, err := s.eval(ctx, n.Right)
		if err != nil {
			return 0, err
		}

		return apply(n.Op, left, right), nil

	case *Unary:
		v, err := s.eval(ctx, n.Operand)
		if err != nil {
			return 0, err
		}

		if n.Op == OpSub {
			return -v, nil
		}

		return v, nil

	case *Variable:
		v, ok := s.top()[n.Name]
		if !ok {
			return 0, &UndefinedError{Name: n.Name}
		}

		return v, nil

	case *Assign:
		if _, ok := s.funcs[n.Target.Name]; ok {
			return 0, &ConflictError{Existing: BindingFunction, Name: n.Target.Name}
		}

		v, err := s.eval(ctx, n.Value)
		if err != nil {
			return 0, err
		}

		s.top()[n.Target.Name] = v

		return v, nil

	case *FuncCall:
		return s.call(ctx, n)

	case *FuncDef:
		panic("lang: function definition in expression position")

	default:
		panic("lang: unknown node type")
	}
}

// call evaluates the arguments of n in the caller's frame, then evaluates
// the function body in a new frame binding each parameter to its argument.
//
// A call parsed against an earlier declaration may carry more or fewer
// arguments than the current one declares. Surplus arguments are evaluated
// and discarded; parameters without an argument stay unbound.
func (s *Session) call(ctx context.Context, n *FuncCall) (float64, error) {
	fn, ok := s.funcs[n.Name]
	if !ok {
		return 0, &UndefinedError{Name: n.Name}
	}

	args := make(frame, len(fn.Params))

	for i, arg := range n.Args {
		v, err := s.eval(ctx, arg)
		if err != nil {
			return 0, err
		}

		if i < len(fn.Params) {
			args[fn.Params[i]] = v
		}
	}

	if s.maxDepth > 0 && s.depth() >= s.maxDepth {
		return 0, ErrMaxDepthExceeded.With(
			slog.String("function", fn.Name),
			slog.Int("depth", s.depth()),
		)
	}

	s.push(args)
	defer s.pop()

	s.logger.TraceContext(ctx, "call enter",
		slog.String("name", fn.Name),
		slog.Int("depth", s.depth()),
	)

	v, err := s.eval(ctx, fn.Body)

	s.logger.TraceContext(ctx, "call exit",
		slog.String("name", fn.Name),
		slog.Int("depth", s.depth()),
		slog.Bool("ok", err == nil),
	)

	return v, err
}

func apply(op Op, left, right float64) float64 {
	switch op {
	case OpAdd:
		return left + right
	case OpSub:
		return left - right
	case OpMul:
		return left * right
	case OpDiv:
		return left / right
	case OpMod:
		return math.Mod(left, right)
	default:
		panic("lang: unknown operator " + op.String())
	}
}
