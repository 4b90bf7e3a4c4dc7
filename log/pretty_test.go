package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type loggedValue struct{ name string }

func (v loggedValue) LogValue() slog.Value {
	return slog.GroupValue(slog.String("name", v.name), slog.Int("size", 3))
}

func TestPrettyText_Attributes(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithFormat(FormatText),
		WithTimeLayout("none"),
		WithLevel(LevelTrace)).
		With(slog.String("component", "parser"))

	logger.Trace("read input",
		slog.Int("bytes", 42),
		slog.Bool("cached", false),
		slog.Any("source", loggedValue{"main.c4"}))

	got := strings.TrimSpace(buf.String())
	want := "level=TRACE msg=read input component=parser bytes=42 cached=false source.name=main.c4 source.size=3"

	if got != want {
		t.Errorf("output =\n%q\nwant\n%q", got, want)
	}
}

func TestPrettyText_Group(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithTimeLayout("none"))

	grouped := Logger{
		Logger: slog.New(logger.Handler().WithGroup("eval").WithAttrs(
			[]slog.Attr{slog.Int("depth", 1)},
		)),
		config: logger.config,
	}

	grouped.Info("done", slog.String("result", "7"))

	if out := buf.String(); !strings.Contains(out, "eval.depth=1 eval.result=7") {
		t.Errorf("group prefix missing: %q", out)
	}
}

func TestPrettyJSON_NestsGroups(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))

	logger.Warn("evaluation failed", slog.Any("error", loggedValue{"x"}))

	want := strings.Join([]string{
		"{",
		"  level: WARN,",
		"  msg: evaluation failed,",
		"  error: {",
		"    name: x,",
		"    size: 3",
		"  }",
		"}",
		"",
	}, "\n")

	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrettyJSON_CallerAndNull(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithCaller(true))

	logger.Error("boom", slog.Any("cause", nil), slog.Any("err", errors.New("bad")))

	out := buf.String()
	for _, want := range []string{"source: ", "pretty_test.go:", "cause: null", "err: bad", "level: ERROR"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
