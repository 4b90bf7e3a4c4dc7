package lang

import (
	"log/slog"
	"unicode"
	"unicode/utf8"
)

// ScanIdentifier matches a leading identifier: a letter or '_' followed by
// any number of letters, decimal digits, or '_'.
// It reports false, with input returned unchanged, if the first character
// cannot start an identifier.
func ScanIdentifier(input string) (match, rest string, ok bool) {
	r, size := utf8.DecodeRuneInString(input)
	if size == 0 || !isIdentifierStart(r) {
		return "", input, false
	}

	n := size
	for n < len(input) {
		r, size = utf8.DecodeRuneInString(input[n:])
		if !isIdentifierContinue(r) {
			break
		}

		n += size
	}

	return input[:n], input[n:], true
}

// TakeUntilUnbalanced returns a scanner that consumes input up to the first
// close bracket that has no matching open bracket.
//
// The character following a backslash is never counted. When an unmatched
// close is found, the returned match excludes it and rest begins with it.
// If input is exhausted with every bracket matched, the whole input is
// returned as the match with an empty rest. Otherwise the scanner fails
// with [ErrUnbalancedBracket].
func TakeUntilUnbalanced(
	open, close rune,
) func(input string) (match, rest string, err error) {
	return func(input string) (string, string, error) {
		depth := 0

		for i := 0; i < len(input); {
			r, size := utf8.DecodeRuneInString(input[i:])

			switch r {
			case '\\':
				i += size
				if i < len(input) {
					_, n := utf8.DecodeRuneInString(input[i:])
					i += n
				}

				continue

			case open:
				depth++

			case close:
				depth--
				if depth < 0 {
					return input[:i], input[i:], nil
				}
			}

			i += size
		}

		if depth != 0 {
			return "", input, ErrUnbalancedBracket.With(
				slog.String("open", string(open)),
				slog.String("close", string(close)),
				slog.Int("depth", depth),
			)
		}

		return input, "", nil
	}
}

// Character classification

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHorizontalSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
