package lang

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// CrossCheck verifies that want, the tree-walking result of evaluating tree
// against env, agrees with two independent evaluations of tree's displayed
// form:
//
//  1. The display is parsed again and the new tree is evaluated.
//  2. The display is compiled and run by expr-lang.
//
// Both must produce want. Only Number results are checked.
func CrossCheck(
	ctx context.Context,
	tree Arithmetic,
	env *Environment,
	want Value,
) error {
	if _, ok := want.Number(); !ok {
		return nil
	}

	display := tree.String()

	reparsed, rest, ok := ParseArithmetic(display)
	if !ok || strings.TrimSpace(rest) != "" {
		return ErrCrossCheck.
			Wrapf("display does not parse completely: %q", rest).
			With(slog.String("expression", display))
	}

	got, err := (&Evaluator{env: env}).arith(reparsed)
	if err != nil {
		return ErrCrossCheck.Wrap(err).
			With(slog.String("expression", display))
	}

	if !got.Equal(want) {
		return mismatch("reparse", display, want, got)
	}

	got, ok, err = evalExprLang(ctx, tree, env)
	if err != nil {
		return ErrCrossCheck.Wrap(err).
			With(slog.String("expression", display))
	}

	if ok && !got.Equal(want) {
		return mismatch("expr", display, want, got)
	}

	return nil
}

func mismatch(engine, display string, want, got Value) error {
	return ErrCrossCheck.
		Wrapf("%s evaluated %s, want %s", engine, got, want).
		With(
			slog.String("engine", engine),
			slog.String("expression", display),
			slog.String("want", want.String()),
			slog.String("got", got.String()),
		)
}

// exprVars is the name of the map holding variable values in the expr-lang
// environment. Variables are accessed by key so that names never collide with
// expr-lang builtins or keywords.
const exprVars = "vars"

// evalExprLang renders tree in expr-lang syntax and runs it. It reports
// false if tree cannot be represented, which happens when an operand is not
// finite.
func evalExprLang(
	_ context.Context,
	tree Arithmetic,
	env *Environment,
) (Value, bool, error) {
	vars := make(map[string]float64)

	var sb strings.Builder

	if !renderExprLang(&sb, tree, env, vars) {
		return Value{}, false, nil
	}

	program, err := expr.Compile(
		sb.String(),
		expr.Env(map[string]any{exprVars: vars}),
		expr.Function(
			"mod",
			func(params ...any) (any, error) {
				x, _ := params[0].(float64)
				y, _ := params[1].(float64)

				return math.Mod(x, y), nil
			},
			new(func(float64, float64) float64),
		),
		expr.AsFloat64(),
	)
	if err != nil {
		return Value{}, false, err
	}

	out, err := expr.Run(program, map[string]any{exprVars: vars})
	if err != nil {
		return Value{}, false, err
	}

	f, _ := out.(float64)

	return NumberValue(f), true, nil
}

// renderExprLang writes node in expr-lang syntax. Literals are written as
// floats so that no integer arithmetic is involved, and '%' is written as a
// call to mod since expr-lang only defines it on integers. Variable values
// are collected into vars.
func renderExprLang(
	sb *strings.Builder,
	node Arithmetic,
	env *Environment,
	vars map[string]float64,
) bool {
	switch n := node.(type) {
	case *Literal:
		if math.IsInf(n.Value, 0) || math.IsNaN(n.Value) {
			return false
		}

		s := formatNumber(n.Value)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}

		sb.WriteString(s)

	case *Variable:
		v, err := env.Lookup(n.Name)
		if err != nil {
			return false
		}

		f, err := v.Float()
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return false
		}

		vars[n.Name] = f

		sb.WriteString(exprVars + "[" + strconv.Quote(n.Name) + "]")

	case *Paren:
		sb.WriteRune('(')

		if !renderExprLang(sb, n.Inner, env, vars) {
			return false
		}

		sb.WriteRune(')')

	case *Binary:
		if n.Op == OpMod {
			sb.WriteString("mod(")

			if !renderExprLang(sb, n.Left, env, vars) {
				return false
			}

			sb.WriteString(", ")

			if !renderExprLang(sb, n.Right, env, vars) {
				return false
			}

			sb.WriteRune(')')

			return true
		}

		if !renderExprLang(sb, n.Left, env, vars) {
			return false
		}

		sb.WriteString(" " + n.Op.String() + " ")

		return renderExprLang(sb, n.Right, env, vars)

	default:
		return false
	}

	return true
}
