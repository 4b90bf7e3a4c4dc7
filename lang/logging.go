package lang

import (
	"log/slog"
	"sort"
)

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// statementAttrs returns the attributes used to trace stmt.
func statementAttrs(stmt Statement) []slog.Attr {
	return []slog.Attr{
		slog.String("type", stmt.Type().String()),
		slog.String("position", stmt.Position().String()),
		slog.String("source", stmt.String()),
	}
}
