package repl

import (
	"context"
	"slices"
	"testing"

	"github.com/ardnew/c420/lang"
	"github.com/ardnew/c420/log"
)

func TestWordBounds_Operators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_minus", "a-fo", 4, "fo", 2, 4},
		{"after_paren", "print(fo", 8, "fo", 6, 8},
		{"after_comma", "print(a, fo", 11, "fo", 9, 11},
		{"after_equals", "let x = fo", 10, "fo", 8, 10},
		{"in_object", "{ k: fo", 7, "fo", 5, 7},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"cursor_past_end", "foo", 10, "foo", 0, 3},
		{"unicode", "x + πr", len("x + πr"), "πr", 4, len("x + πr")},
		{"empty_after_dot", "o.", 2, "", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestEvalCandidates(t *testing.T) {
	eval := lang.NewEvaluator()

	if _, err := evaluate(context.Background(), eval, "let count = 1; const let2 = 2;"); err != nil {
		t.Fatal(err)
	}

	got := evalCandidates(eval.Environment())

	for _, want := range []string{"let", "const", "print", "true", "false", "count", "let2"} {
		if !slices.Contains(got, want) {
			t.Errorf("evalCandidates() = %v, missing %q", got, want)
		}
	}

	if !slices.IsSorted(got) {
		t.Errorf("evalCandidates() = %v, not sorted", got)
	}

	if len(slices.Compact(slices.Clone(got))) != len(got) {
		t.Errorf("evalCandidates() = %v, has duplicates", got)
	}
}

func TestComputeMatches(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("let x = cou")
	m.input.SetCursor(len("let x = cou"))

	if _, err := evaluate(context.Background(), m.eval, "let counter = 0;"); err != nil {
		t.Fatal(err)
	}

	matches, _, start, end := m.computeMatches()
	if start != 8 || end != 11 {
		t.Errorf("word bounds = (%d, %d), want (8, 11)", start, end)
	}

	if len(matches) == 0 || matches[0].Str != "counter" {
		t.Errorf("best match = %v, want counter", matches)
	}

	m = m.switchToMode(modeCtrl)
	m.input.SetValue("va")
	m.input.SetCursor(2)

	matches, _, _, _ = m.computeMatches()
	if len(matches) != 1 || matches[0].Str != "vars" {
		t.Errorf("ctrl matches = %v, want [vars]", matches)
	}
}

func TestRenderCandidateBar_Ellipsizes(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("e")
	m.input.SetCursor(1)

	matches, _, _, _ := m.computeMatches()
	if len(matches) < 2 {
		t.Fatalf("matches = %v, want several", matches)
	}

	full := renderCandidateBar(matches, -1, false, 1000)
	narrow := renderCandidateBar(matches, -1, false, 8)

	if len(narrow) >= len(full) {
		t.Errorf("narrow bar %q not shorter than full bar %q", narrow, full)
	}

	if renderCandidateBar(nil, -1, false, 80) != "" {
		t.Error("empty matches rendered a bar")
	}
}

func testModel(t *testing.T) model {
	t.Helper()

	return newModel(context.Background(), lang.NewEvaluator(), NewHistory(""), log.Logger{})
}
