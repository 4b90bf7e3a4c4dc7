// Package cli contains the command line interface for c420.
//
// # Usage
//
// With no command, source files are evaluated and the value of the last
// statement is printed:
//
//	c420 prog.c4
//	echo 'let a = 2; a * 21;' | c420
//
// The commands are run, check, fmt (native, json, yaml, ast), repl, and init.
//
// # Source Files
//
// Relative source names that do not exist in the working directory are
// looked up in each --include (-I) directory, then in each directory of
// ${C420_PATH}. The ".c4" extension may be omitted. The name "-" reads
// stdin, which is always read after every named file.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (see [pkg.ConfigDir]). Nested mappings and command names are
// joined with hyphens, and underscores may be used in place of hyphens:
//
//	log:
//	  level: debug
//	  format: text
//	include:
//	  - ~/lib/c420
//	run:
//	  trace: true
//
// The init command writes the current flag values to that file. A
// config.json in the same directory is also honored.
//
// # Diagnostics
//
// Diagnostics go to stderr. At the trace level every statement is logged as
// it is parsed and again as it is evaluated.
//
//   - --log-level, $C420_LOG_LEVEL: trace, debug, info (default), warn, error
//   - --log-format, $C420_LOG_FORMAT: text (default) or json
//   - --log-time-layout: timeonly (default), RFC3339, kitchen, none, or a Go layout
//   - --[no-]log-caller: Go source location of each record
//   - --[no-]log-pretty: colorize on terminals (default on)
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o c420 .
//
// The --pprof-mode flag selects a profile (allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread, trace) and --pprof-dir its output
// directory, which defaults to the pprof directory under [pkg.CacheDir].
package cli
