package lang

import (
	"context"
	"log/slog"
	"math"
)

// Observer is notified after each top-level statement evaluates.
type Observer interface {
	Observe(ctx context.Context, stmt Statement, result Value)
}

// ObserverFunc adapts a function to the [Observer] interface.
type ObserverFunc func(ctx context.Context, stmt Statement, result Value)

// Observe calls f(ctx, stmt, result).
func (f ObserverFunc) Observe(ctx context.Context, stmt Statement, result Value) {
	f(ctx, stmt, result)
}

// Evaluator walks syntax trees against a single [Environment].
// State persists across calls, so successive programs share variables.
type Evaluator struct {
	env  *Environment
	opts options
}

// NewEvaluator returns an evaluator with a fresh root environment.
func NewEvaluator(opts ...Option) *Evaluator {
	return &Evaluator{
		env:  NewEnvironment(),
		opts: makeOptions(opts...),
	}
}

// Evaluate runs prog in a fresh root environment and returns the value of its
// last statement, or None if prog is empty.
func Evaluate(ctx context.Context, prog *Program, opts ...Option) (Value, error) {
	return NewEvaluator(opts...).Run(ctx, prog)
}

// Environment returns the environment used by e.
func (e *Evaluator) Environment() *Environment { return e.env }

// Reset discards every binding.
func (e *Evaluator) Reset() { e.env = NewEnvironment() }

// Run evaluates each statement of prog in order and returns the value of the
// last one. Evaluation stops at the first error. The context is checked
// between statements.
func (e *Evaluator) Run(ctx context.Context, prog *Program) (Value, error) {
	last := NoneValue()

	for _, stmt := range prog.Body {
		if err := ctx.Err(); err != nil {
			return Value{}, WrapError(err).WithPosition(stmt.Position())
		}

		v, err := e.Evaluate(ctx, stmt)
		if err != nil {
			e.opts.logger.TraceContext(ctx, "evaluation failed",
				slog.Any("error", err))

			return Value{}, err
		}

		if e.opts.observer != nil {
			e.opts.observer.Observe(ctx, stmt, v)
		}

		last = v
	}

	e.opts.logger.TraceContext(ctx, "program evaluated",
		slog.Int("statement_count", len(prog.Body)),
		slog.Any("result", last))

	return last, nil
}

// Evaluate evaluates a single statement.
func (e *Evaluator) Evaluate(ctx context.Context, stmt Statement) (Value, error) {
	e.opts.logger.TraceContext(ctx, "evaluate statement", statementAttrs(stmt)...)

	v, err := e.eval(ctx, stmt)
	if err != nil {
		return Value{}, WrapError(err).WithPosition(stmt.Position())
	}

	return v, nil
}

func (e *Evaluator) eval(ctx context.Context, stmt Statement) (Value, error) {
	switch n := stmt.(type) {
	case *Comment:
		return NoneValue(), nil

	case *BooleanLiteral:
		return BoolValue(n.Value), nil

	case *NumericLiteral:
		return NumberValue(n.Value), nil

	case *Identifier:
		return e.env.Lookup(n.Name)

	case *Declaration:
		v, err := e.Evaluate(ctx, n.Expression)
		if err != nil {
			return Value{}, err
		}

		return e.env.Declare(n.Name, v, n.Constant)

	case *Assign:
		v, err := e.Evaluate(ctx, n.Expression)
		if err != nil {
			return Value{}, err
		}

		return e.env.Assign(n.Name, v)

	case *ArithmeticExpression:
		v, err := e.arith(n.Expr)
		if err != nil {
			return Value{}, err
		}

		if e.opts.crossCheck {
			if err := CrossCheck(ctx, n.Expr, e.env, v); err != nil {
				return Value{}, err
			}
		}

		return v, nil

	default:
		return Value{}, ErrUnimplemented.
			Wrapf("%s", stmt.Type()).
			With(slog.String("node", stmt.Type().String()))
	}
}

// arith evaluates an arithmetic tree. Paren nodes are transparent.
func (e *Evaluator) arith(expr Arithmetic) (Value, error) {
	switch n := expr.(type) {
	case *Literal:
		return NumberValue(n.Value), nil

	case *Variable:
		v, err := e.env.Lookup(n.Name)
		if err != nil {
			return Value{}, WrapError(err).WithPosition(n.Pos)
		}

		return v, nil

	case *Paren:
		return e.arith(n.Inner)

	case *Binary:
		left, err := e.arith(n.Left)
		if err != nil {
			return Value{}, err
		}

		right, err := e.arith(n.Right)
		if err != nil {
			return Value{}, err
		}

		v, err := applyOperator(n.Op, left, right)
		if err != nil {
			return Value{}, WrapError(err).WithPosition(n.Pos)
		}

		return v, nil

	default:
		return Value{}, ErrUnimplemented.Wrapf("%T", expr)
	}
}

// applyOperator applies op to two operands. A zero divisor is reported before
// any operand type is checked.
func applyOperator(op Operator, left, right Value) (Value, error) {
	if op == OpDiv {
		if d, err := right.Float(); err == nil && d == 0 {
			return Value{}, ErrDivideByZero.
				Wrapf("cannot divide %s by 0", left).
				With(slog.String("operator", op.String()))
		}
	}

	for _, operand := range [...]Value{left, right} {
		switch operand.Type() {
		case ValueBool:
			b, _ := operand.Bool()

			return Value{}, ErrTypeMismatch.
				Wrapf("cannot apply operator %s to boolean %t", op, b).
				With(
					slog.String("operator", op.String()),
					slog.Bool("operand", b),
				)

		case ValueObject:
			return Value{}, ErrTypeMismatch.
				Wrapf("operator %s on objects is not yet supported", op).
				With(slog.String("operator", op.String()))
		}
	}

	x, err := left.Float()
	if err != nil {
		return Value{}, err
	}

	y, err := right.Float()
	if err != nil {
		return Value{}, err
	}

	switch op {
	case OpAdd:
		return NumberValue(x + y), nil

	case OpSub:
		return NumberValue(x - y), nil

	case OpMul:
		return NumberValue(x * y), nil

	case OpDiv:
		return NumberValue(x / y), nil

	case OpMod:
		return NumberValue(math.Mod(x, y)), nil

	default:
		return Value{}, ErrUnimplemented.Wrapf("operator %s", op)
	}
}
