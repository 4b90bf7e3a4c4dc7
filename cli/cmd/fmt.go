package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/c420/lang"
	"github.com/ardnew/c420/log"
)

// Fmt parses source files and formats them in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical c420 source (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
}

// parseSources reads and parses sources, reporting parse errors against the
// source text.
func parseSources(
	ctx context.Context,
	format string,
	sources []string,
) (*lang.Program, error) {
	text, names, err := readSources(ctx, sources)
	if err != nil {
		return nil, err
	}

	return parseText(ctx, format, text, names)
}

func parseText(
	ctx context.Context,
	format, text string,
	names []string,
) (*lang.Program, error) {
	prog, err := lang.ParseReader(ctx, strings.NewReader(text),
		lang.WithLogger(log.Default()))
	if err != nil {
		return nil, report(ctx, ErrParse.With(
			slog.String("format", format),
			slog.Any("source", names),
		), err, text)
	}

	return prog, nil
}

// Native formats input as canonical c420 source.
type Native struct {
	Write bool `help:"Rewrite each source file in place instead of printing." short:"w"`

	Source []string `arg:"" default:"-" help:"Source files or '-' for stdin." name:"source" optional:""`
}

// Run executes the native format command.
func (n *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if !n.Write {
		prog, err := parseSources(ctx, "native", n.Source)
		if err != nil {
			return err
		}

		return prog.Format(ctx, stdout(ctx))
	}

	for _, src := range n.Source {
		if src == stdinSource {
			continue
		}

		if err := n.rewrite(ctx, src); err != nil {
			return err
		}
	}

	return nil
}

// rewrite formats one source file in place. Files already in canonical
// form are left untouched.
func (n *Native) rewrite(ctx context.Context, src string) error {
	text, names, err := readSources(ctx, []string{src})
	if err != nil {
		return err
	}

	prog, err := parseText(ctx, "native", text, names)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	if err := prog.Format(ctx, &buf); err != nil {
		return ErrFormat.With(slog.String("format", "native")).Wrap(err)
	}

	if buf.String() == text {
		return nil
	}

	path := names[0]

	info, err := os.Stat(path)
	if err != nil {
		return ErrWriteSource.With(slog.String("file", path)).Wrap(err)
	}

	if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		return ErrWriteSource.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "formatted source", slog.String("file", path))

	return nil
}

// JSON parses input and outputs its syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`

	Source []string `arg:"" default:"-" help:"Source files or '-' for stdin." name:"source" optional:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parseSources(ctx, "json", j.Source)
	if err != nil {
		return err
	}

	return wrapFormat("json", prog.FormatJSON(ctx, stdout(ctx), j.Indent))
}

// YAML parses input and outputs its syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`

	Source []string `arg:"" default:"-" help:"Source files or '-' for stdin." name:"source" optional:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parseSources(ctx, "yaml", y.Source)
	if err != nil {
		return err
	}

	return wrapFormat("yaml", prog.FormatYAML(ctx, stdout(ctx), y.Indent))
}

// AST formats input as an indented syntax tree.
type AST struct {
	Source []string `arg:"" default:"-" help:"Source files or '-' for stdin." name:"source" optional:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parseSources(ctx, "ast", a.Source)
	if err != nil {
		return err
	}

	return wrapFormat("ast", prog.Print(stdout(ctx)))
}

func wrapFormat(format string, err error) error {
	if err == nil {
		return nil
	}

	return ErrFormat.With(slog.String("format", format)).Wrap(err)
}
