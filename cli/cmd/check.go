package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/c420/lang"
	"github.com/ardnew/c420/log"
)

// Check parses source files and, unless disabled, evaluates them with
// arithmetic cross-checking enabled.
type Check struct {
	Eval bool `default:"true" help:"Evaluate after parsing, cross-checking arithmetic." negatable:""`

	Source []string `arg:"" default:"-" help:"Source files or '-' for stdin." name:"source" optional:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	text, names, err := readSources(ctx, c.Source)
	if err != nil {
		return err
	}

	attrs := []slog.Attr{
		slog.String("command", "check"),
		slog.Any("source", names),
	}

	prog, err := lang.ParseReader(ctx, strings.NewReader(text),
		lang.WithLogger(log.Default()))
	if err != nil {
		return report(ctx, ErrParse.With(attrs...), err, text)
	}

	checked := 0

	if c.Eval {
		counter := lang.ObserverFunc(
			func(context.Context, lang.Statement, lang.Value) { checked++ },
		)

		_, err = lang.Evaluate(ctx, prog,
			lang.WithLogger(log.Default()),
			lang.WithCrossCheck(true),
			lang.WithObserver(counter),
		)
		if err != nil {
			return report(ctx, ErrEvaluate.With(attrs...), err, text)
		}
	}

	log.DebugContext(ctx, "check passed",
		append(attrs,
			slog.Int("statement_count", len(prog.Body)),
			slog.Int("evaluated", checked))...)

	_, err = fmt.Fprintf(stdout(ctx), "ok: %d statements", len(prog.Body))
	if err == nil && c.Eval {
		_, err = fmt.Fprintf(stdout(ctx), ", %d evaluated", checked)
	}

	if err == nil {
		_, err = fmt.Fprintln(stdout(ctx))
	}

	return err
}
