// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured with functional options at creation time. The zero
// [Logger] discards everything, so library code can accept one without
// requiring callers to configure it.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("program evaluated", slog.Int("statement_count", 3))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options overridden, and [Config]
// does the same for the package default logger used by [Info], [Debug], and
// friends.
//
// # Levels
//
// In addition to the four [log/slog] levels, [LevelTrace] sits below
// [LevelDebug] and is used for per-statement parser and evaluator events.
// Levels render by name, so trace records show "TRACE" rather than
// "DEBUG-4".
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText] are supported. With pretty
// printing enabled (the default) JSON records are indented and text records
// leave strings unquoted; both are colorized when writing to a terminal.
//
// # Context-Aware Logging
//
// Each level has a context-aware variant. Context-unaware functions use
// [DefaultContextProvider], which returns [context.TODO] by default.
package log
