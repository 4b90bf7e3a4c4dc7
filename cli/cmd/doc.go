// Package cmd implements the c420 subcommands.
//
// Every command reads its input from one or more source files. Relative
// names are resolved against the search path stored in the context by
// [WithSearchPath], and "-" reads standard input. Sources are concatenated
// in order, with standard input last, and duplicate files are read once.
//
// Commands:
//
//   - [Run] evaluates a program and prints the value of its last statement.
//   - [Check] parses a program and, optionally, evaluates it with
//     arithmetic cross-checking enabled.
//   - [Fmt] re-renders a program as canonical source, JSON, YAML, or an
//     indented syntax tree.
//   - [Repl] starts an interactive session.
//   - [Init] writes the current flag values to the configuration file.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
