package lang

import (
	"errors"
	"testing"
	"unicode/utf8"
)

func TestScanIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantMatch string
		wantRest  string
		wantOK    bool
	}{
		{"letters", "abc", "abc", "", true},
		{"underscore start", "_a1 rest", "_a1", " rest", true},
		{"digits after start", "x42+1", "x42", "+1", true},
		{"unicode letters", "héllo!", "héllo", "!", true},
		{"stops at hyphen", "a-b", "a", "-b", true},
		{"leading digit rejected", "1abc", "", "1abc", false},
		{"empty input", "", "", "", false},
		{"leading space rejected", " abc", "", " abc", false},
		{"leading symbol rejected", "{a}", "", "{a}", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, rest, ok := ScanIdentifier(tt.input)

			if ok != tt.wantOK {
				t.Fatalf("ScanIdentifier(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}

			if match != tt.wantMatch {
				t.Errorf("match = %q, want %q", match, tt.wantMatch)
			}

			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestTakeUntilUnbalanced(t *testing.T) {
	scan := TakeUntilUnbalanced('{', '}')

	tests := []struct {
		name      string
		input     string
		wantMatch string
		wantRest  string
		wantErr   bool
	}{
		{
			name:      "balanced to end of input",
			input:     "a{b}c",
			wantMatch: "a{b}c",
			wantRest:  "",
		},
		{
			name:      "stops before unmatched close",
			input:     "b}c",
			wantMatch: "b",
			wantRest:  "}c",
		},
		{
			name:    "never balances",
			input:   "a{b",
			wantErr: true,
		},
		{
			name:      "empty input",
			input:     "",
			wantMatch: "",
			wantRest:  "",
		},
		{
			name:      "nested pair before unmatched close",
			input:     "x{y}}z",
			wantMatch: "x{y}",
			wantRest:  "}z",
		},
		{
			name:      "escaped close is skipped",
			input:     `a\}b}c`,
			wantMatch: `a\}b`,
			wantRest:  "}c",
		},
		{
			name:      "escaped open is skipped",
			input:     `a\{b}c`,
			wantMatch: `a\{b`,
			wantRest:  "}c",
		},
		{
			name:      "trailing backslash",
			input:     `ab\`,
			wantMatch: `ab\`,
			wantRest:  "",
		},
		{
			name:      "unmatched close precedes later open",
			input:     "a}{",
			wantMatch: "a",
			wantRest:  "}{",
		},
		{
			name:    "later nested bracket left open",
			input:   "{a}{",
			wantErr: true,
		},
		{
			name:      "immediate close",
			input:     "}",
			wantMatch: "",
			wantRest:  "}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, rest, err := scan(tt.input)

			if tt.wantErr {
				if !errors.Is(err, ErrUnbalancedBracket) {
					t.Fatalf("scan(%q) error = %v, want %v", tt.input, err, ErrUnbalancedBracket)
				}

				return
			}

			if err != nil {
				t.Fatalf("scan(%q) unexpected error: %v", tt.input, err)
			}

			if match != tt.wantMatch {
				t.Errorf("match = %q, want %q", match, tt.wantMatch)
			}

			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
		})
	}
}

func TestTakeUntilUnbalanced_OtherBrackets(t *testing.T) {
	match, rest, err := TakeUntilUnbalanced('(', ')')("f(x)) + 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if match != "f(x)" || rest != ") + 1" {
		t.Errorf("got (%q, %q), want (%q, %q)", match, rest, "f(x)", ") + 1")
	}
}

func FuzzTakeUntilUnbalanced(f *testing.F) {
	f.Add("a{b}c")
	f.Add("b}c")
	f.Add("a{b")
	f.Add(`a\}b}c`)
	f.Add("{a}{")
	f.Add("")

	scan := TakeUntilUnbalanced('{', '}')

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		match, rest, err := scan(input)
		if err != nil {
			if !errors.Is(err, ErrUnbalancedBracket) {
				t.Fatalf("unexpected error kind: %v", err)
			}

			return
		}

		if match+rest != input {
			t.Fatalf("match %q + rest %q != input %q", match, rest, input)
		}

		if rest != "" && rest[0] != '}' {
			t.Fatalf("rest %q does not begin with the close bracket", rest)
		}
	})
}
