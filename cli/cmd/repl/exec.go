package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/c420/lang"
)

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.saved = [2]savedInput{}
	m.input.SetValue("")
	refreshMatches(&m, false)

	_, _ = m.history.WriteWithMode(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
	)

	echoCmd := tea.Println(formatCommand(input))

	result, err := evaluate(m.ctxFunc(), m.eval, input)
	if err != nil {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl eval result",
			slog.String("result_type", "error"),
			slog.String("error", err.Error()),
		)

		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render(strings.TrimRight(err.Error(), "\n"))),
		)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval result",
		slog.String("result_type", result.Type().String()),
	)

	return m, tea.Sequence(
		echoCmd,
		tea.Println(resultStyle.Render(result.String())),
	)
}

// evaluate parses input as a program and runs it in eval's environment. An
// input missing its final statement terminator is retried with one appended.
// Errors are rendered with a caret under the failing position.
func evaluate(
	ctx context.Context,
	eval *lang.Evaluator,
	input string,
) (lang.Value, error) {
	src := input

	prog, err := lang.ParseString(ctx, src)
	if err != nil && !strings.HasSuffix(src, ";") {
		if retry, rerr := lang.ParseString(ctx, src+";"); rerr == nil {
			src, prog, err = src+";", retry, nil
		}
	}

	if err == nil {
		var v lang.Value
		if v, err = eval.Run(ctx, prog); err == nil {
			return v, nil
		}
	}

	return lang.Value{}, errors.New(lang.FormatError(err, src))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]
	args := parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "v", "vars":
		return m, tea.Sequence(echoCmd, tea.Println(listVariables(m.eval.Environment())))

	case "r", "reset":
		m.eval.Reset()

		return m, tea.Sequence(echoCmd,
			tea.Println(hintStyle.Render("environment reset")))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

// listVariables renders every variable in env with its value, marking
// constants.
func listVariables(env *lang.Environment) string {
	names := env.Names()
	if len(names) == 0 {
		return hintStyle.Render("  (no variables)")
	}

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	var b strings.Builder

	for i, name := range names {
		v, err := env.Lookup(name)
		if err != nil {
			continue
		}

		kind := "let"
		if env.IsConstant(name) {
			kind = "const"
		}

		if i > 0 {
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "  %-5s %-*s = %s", kind, width, name,
			hintStyle.Render(v.String()))
	}

	return b.String()
}
