package lang

import (
	"io"
	"strings"

	"github.com/ardnew/c420/log"
)

// Option configures parsing and evaluation.
type Option func(*options)

// options holds the configuration shared by the parser and [Evaluator].
type options struct {
	logger     log.Logger
	observer   Observer
	crossCheck bool
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithLogger sets the logger used to trace parsing and evaluation.
// The zero value [log.Logger] discards everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver sets an [Observer] notified after each top-level statement is
// evaluated by [Evaluator.Run].
func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithCrossCheck enables verification of every arithmetic result against an
// independent evaluation of the expression's displayed form.
// See [CrossCheck].
func WithCrossCheck(enable bool) Option {
	return func(o *options) {
		o.crossCheck = enable
	}
}

// Print writes an indented tree of the program to w.
func (p *Program) Print(w io.Writer) error {
	put := writer(w)

	for _, stmt := range p.Body {
		printStatement(put, stmt, 0)
	}

	return put.err
}

// lineWriter writes lines to w, remembering the first error.
type lineWriter struct {
	w   io.Writer
	err error
}

func writer(w io.Writer) *lineWriter { return &lineWriter{w: w} }

func (lw *lineWriter) line(indent int, item ...string) {
	if lw.err != nil {
		return
	}

	_, lw.err = io.WriteString(
		lw.w,
		strings.Repeat("  ", indent)+strings.Join(item, ": ")+"\n",
	)
}

func printStatement(put *lineWriter, stmt Statement, indent int) {
	switch n := stmt.(type) {
	case *Declaration:
		put.line(indent, n.Type().String(), n.Name)

		if n.Constant {
			put.line(indent+1, "Constant", "true")
		}

		put.line(indent+1, "Value")
		printStatement(put, n.Expression, indent+2)

	case *Assign:
		put.line(indent, n.Type().String(), n.Name)
		put.line(indent+1, "Value")
		printStatement(put, n.Expression, indent+2)

	case *ArithmeticExpression:
		put.line(indent, n.Type().String())
		printArithmetic(put, n.Expr, indent+1)

	case *ObjectLiteral:
		if len(n.Properties) == 0 {
			put.line(indent, n.Type().String(), "(empty)")

			return
		}

		put.line(indent, n.Type().String())

		for _, prop := range n.Properties {
			printStatement(put, prop, indent+1)
		}

	case *Property:
		put.line(indent, n.Type().String(), n.Key)

		if n.Value != nil {
			printStatement(put, n.Value, indent+1)
		}

	case *CallExpression:
		put.line(indent, n.Type().String(), n.Callee)

		for _, arg := range n.Args {
			put.line(indent+1, "Argument", arg)
		}

	default:
		put.line(indent, stmt.Type().String(), stmt.String())
	}
}

func printArithmetic(put *lineWriter, expr Arithmetic, indent int) {
	switch n := expr.(type) {
	case *Literal:
		put.line(indent, "Value", n.String())

	case *Variable:
		put.line(indent, "Identifier", n.Name)

	case *Paren:
		put.line(indent, "Paren")
		printArithmetic(put, n.Inner, indent+1)

	case *Binary:
		put.line(indent, n.Op.Name())
		printArithmetic(put, n.Left, indent+1)
		printArithmetic(put, n.Right, indent+1)
	}
}
