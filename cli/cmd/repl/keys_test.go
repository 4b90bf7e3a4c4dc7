package repl

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeRunes(m model, s string) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return m
}

func TestHandleKey_TabCompletesSingleCandidate(t *testing.T) {
	m := typeRunes(testModel(t), "co")

	if len(m.matches) != 1 || m.matches[0].Str != "const" {
		t.Fatalf("matches = %v, want [const]", m.matches)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})

	if got := m.input.Value(); got != "const" {
		t.Errorf("input = %q, want const", got)
	}

	if m.tabActive {
		t.Error("single candidate left tab-cycling active")
	}
}

func TestHandleKey_TabCycles(t *testing.T) {
	m := typeRunes(testModel(t), "e")

	n := len(m.matches)
	if n < 2 {
		t.Fatalf("matches = %v, want several", m.matches)
	}

	first := m.matches[0].Str
	last := m.matches[n-1].Str

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if got := m.input.Value(); got != first || !m.tabActive {
		t.Fatalf("after Tab input = %q (active %v), want %q", got, m.tabActive, first)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.input.Value(); got != last {
		t.Errorf("after Shift-Tab input = %q, want %q (wrap)", got, last)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.input.Value(); got != "e" || m.tabActive {
		t.Errorf("after Esc input = %q (active %v), want original", got, m.tabActive)
	}
}

func TestHandleKey_EscTogglesModeAndKeepsInput(t *testing.T) {
	m := typeRunes(testModel(t), "1 + ")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("mode = %v input = %q, want ctrl with empty input", m.mode, m.input.Value())
	}

	m = typeRunes(m, "va")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeEval || m.input.Value() != "1 + " {
		t.Errorf("mode = %v input = %q, want eval input restored", m.mode, m.input.Value())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if m.input.Value() != "va" {
		t.Errorf("ctrl input = %q, want va restored", m.input.Value())
	}
}

func TestHandleKey_CtrlCClearsThenQuits(t *testing.T) {
	m := typeRunes(testModel(t), "let")

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.input.Value() != "" || m.quitting || cmd != nil {
		t.Fatalf("first Ctrl+C: input %q quitting %v", m.input.Value(), m.quitting)
	}

	m, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting || cmd == nil {
		t.Error("second Ctrl+C did not quit")
	}
}

func TestHandleKey_EnterEvaluatesAndRecordsHistory(t *testing.T) {
	m := typeRunes(testModel(t), "let x = 4")

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Enter produced no output command")
	}

	if v, err := m.eval.Environment().Lookup("x"); err != nil || v.String() != "4" {
		t.Errorf("x = %v, %v; want 4", v, err)
	}

	if m.history.Len() != 1 || m.historyIdx != 1 {
		t.Errorf("history len %d idx %d, want 1 1", m.history.Len(), m.historyIdx)
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q after Enter", m.input.Value())
	}
}

func historyModel(t *testing.T) model {
	t.Helper()

	m := testModel(t)

	for _, e := range []HistoryEntry{
		{"let a = 1;", modeEval},
		{"vars", modeCtrl},
		{"a + 1;", modeEval},
		{"reset", modeCtrl},
	} {
		if _, err := m.history.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	return m
}

func TestHistoryStep_SwitchesModes(t *testing.T) {
	m := historyModel(t)

	m = m.historyStep(-1)
	if m.input.Value() != "reset" || m.mode != modeCtrl {
		t.Fatalf("step 1: %q mode %v", m.input.Value(), m.mode)
	}

	m = m.historyStep(-1)
	if m.input.Value() != "a + 1;" || m.mode != modeEval {
		t.Fatalf("step 2: %q mode %v", m.input.Value(), m.mode)
	}

	m = m.historyStep(1).historyStep(1)
	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("stepping past newest: %q idx %d", m.input.Value(), m.historyIdx)
	}

	m.historyIdx = 0
	if got := m.historyStep(-1); got.historyIdx != 0 {
		t.Errorf("stepping before oldest moved to %d", got.historyIdx)
	}
}

func TestHistoryInMode(t *testing.T) {
	m := historyModel(t)

	m = m.historyInMode(-1)
	if m.input.Value() != "a + 1;" {
		t.Fatalf("first: %q", m.input.Value())
	}

	m = m.historyInMode(-1)
	if m.input.Value() != "let a = 1;" || m.mode != modeEval {
		t.Fatalf("second: %q mode %v", m.input.Value(), m.mode)
	}

	m = m.historyInMode(1).historyInMode(1)
	if m.input.Value() != "" {
		t.Errorf("past newest eval entry: %q", m.input.Value())
	}
}

func TestHistoryCtrl_RestoresOnExhaustion(t *testing.T) {
	m := typeRunes(historyModel(t), "draft")

	m = m.historyCtrl(-1)
	if m.mode != modeCtrl || m.input.Value() != "reset" {
		t.Fatalf("first: %q mode %v", m.input.Value(), m.mode)
	}

	m = m.historyCtrl(-1)
	if m.input.Value() != "vars" {
		t.Fatalf("second: %q", m.input.Value())
	}

	m = m.historyCtrl(-1)
	if m.mode != modeEval || m.input.Value() != "draft" || m.altNav.active {
		t.Errorf("exhausted: %q mode %v active %v", m.input.Value(), m.mode, m.altNav.active)
	}
}
