package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/c420/lang"
	"github.com/ardnew/c420/log"
)

// Run evaluates source files and prints the value of the last statement.
type Run struct {
	Trace      bool `help:"Print each statement and its value as it is evaluated." short:"t"`
	CrossCheck bool `help:"Verify arithmetic results with an independent evaluator." short:"x"`
	Quiet      bool `help:"Do not print the final value."                           short:"q"`

	Source []string `arg:"" default:"-" help:"Source files or '-' for stdin." name:"source" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, names, err := readSources(ctx, r.Source)
	if err != nil {
		return err
	}

	attrs := []slog.Attr{
		slog.String("command", "run"),
		slog.Any("source", names),
	}

	prog, err := lang.ParseReader(ctx, strings.NewReader(text),
		lang.WithLogger(log.Default()))
	if err != nil {
		return report(ctx, ErrParse.With(attrs...), err, text)
	}

	opts := []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithCrossCheck(r.CrossCheck),
	}

	if r.Trace {
		opts = append(opts, lang.WithObserver(newTracer(stderr(ctx))))
	}

	result, err := lang.Evaluate(ctx, prog, opts...)
	if err != nil {
		return report(ctx, ErrEvaluate.With(attrs...), err, text)
	}

	log.DebugContext(ctx, "program evaluated",
		append(attrs,
			slog.Int("statement_count", len(prog.Body)),
			slog.Any("result", result))...)

	if r.Quiet {
		return nil
	}

	_, err = fmt.Fprintln(stdout(ctx), result)

	return err
}

// report prints a source-annotated diagnostic for err and returns it wrapped
// in sentinel.
func report(ctx context.Context, sentinel *Error, err error, source string) error {
	_, _ = fmt.Fprint(stderr(ctx), withNewline(lang.FormatError(err, source)))

	return sentinel.With(slog.String("kind", lang.ErrorKind(err).String())).Wrap(err)
}

func withNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}

	return s + "\n"
}

// tracer prints each evaluated statement with its value.
type tracer struct {
	w    io.Writer
	pos  lipgloss.Style
	stmt lipgloss.Style
	val  lipgloss.Style
}

func newTracer(w io.Writer) *tracer {
	r := lipgloss.NewRenderer(w)

	return &tracer{
		w:    w,
		pos:  r.NewStyle().Foreground(lipgloss.Color("8")),
		stmt: r.NewStyle().Foreground(lipgloss.Color("6")),
		val:  r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	}
}

// Observe implements [lang.Observer].
func (t *tracer) Observe(_ context.Context, stmt lang.Statement, result lang.Value) {
	if stmt.Type() == lang.TypeComment {
		return
	}

	_, _ = fmt.Fprintf(t.w, "%s %s => %s\n",
		t.pos.Render(stmt.Position().String()),
		t.stmt.Render(stmt.String()),
		t.val.Render(result.String()),
	)
}
