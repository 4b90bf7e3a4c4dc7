package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/c420/log"
)

// logFormat applies the diagnostic format as soon as kong decodes it, so
// errors reported while the rest of the command line is parsed already use
// it.
type logFormat string

func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel applies the diagnostic threshold as soon as kong decodes it.
type logLevel string

func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

// logConfig holds the flags controlling diagnostics written to stderr.
type logConfig struct {
	Level      logLevel  `default:"${logLevel}"      enum:"${logLevelEnum}"  env:"C420_LOG_LEVEL"  help:"Lowest severity reported on stderr; trace follows every statement through parse and evaluation."`
	Format     logFormat `default:"${logFormat}"     enum:"${logFormatEnum}" env:"C420_LOG_FORMAT" help:"Diagnostic record format."`
	TimeLayout string    `default:"${logTimeLayout}" help:"Timestamp layout, a Go layout or a name such as RFC3339 or kitchen ('none' omits it)."`
	Caller     bool      `help:"Annotate records with the Go source location that emitted them." negatable:""`
	Pretty     bool      `default:"true" help:"Colorize records when stderr is a terminal." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevel":      log.DefaultLevel.String(),
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormat":     log.FormatText.String(),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
		"logTimeLayout": "timeonly",
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{
		Key:         "log",
		Title:       "Diagnostics",
		Description: "Interpreter diagnostics are written to stderr.",
	}
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "diagnostics configured",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time_layout", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies the logging flags in args before kong parses them, so that
// diagnostics emitted while parsing honor them wherever they appear.
// Scanning stops at "--".
//
// The level and format take a value from "=" or from the next argument
// unless it starts with '-'. The switches accept an optional "=bool" and
// are inverted by their "--no-" form; an unparsable bool leaves the setting
// unchanged.
func (f *logConfig) scan(args []string) {
	switches := map[string]struct {
		field *bool
		apply func(bool) log.Option
	}{
		"caller": {&f.Caller, log.WithCaller},
		"pretty": {&f.Pretty, log.WithPretty},
	}

	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		flag, value, assigned := strings.Cut(args[i], "=")

		negated := false
		if rest, ok := strings.CutPrefix(flag, "--no-log-"); ok {
			flag, negated = rest, true
		} else if rest, ok := strings.CutPrefix(flag, "--log-"); ok {
			flag = rest
		} else {
			continue
		}

		if sw, ok := switches[flag]; ok {
			on := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				on = v
			}

			*sw.field = on != negated
			log.Config(sw.apply(*sw.field))

			continue
		}

		if negated || (flag != "level" && flag != "format") {
			continue
		}

		if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			value = args[i]
		}

		if flag == "level" {
			_ = f.Level.UnmarshalText([]byte(value))
		} else {
			_ = f.Format.UnmarshalText([]byte(value))
		}
	}
}
