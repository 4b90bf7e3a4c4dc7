package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/c420/cli/cmd/repl"
	"github.com/ardnew/c420/log"
)

// Repl starts an interactive session. Source files, if any, are evaluated
// first so their variables are available at the prompt.
type Repl struct {
	NoHistory bool `help:"Do not load or save input history." name:"no-history"`

	Source []string `arg:"" help:"Source files evaluated before the first prompt." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var prelude string

	if len(r.Source) > 0 {
		var names []string

		prelude, names, err = readSources(ctx, r.Source)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "repl prelude", slog.Any("source", names))
	}

	var cacheDir string

	if !r.NoHistory {
		if ktx := kongContextFrom(ctx); ktx != nil {
			cacheDir = ktx.Model.Vars()[CacheIdentifier]
		}
	}

	return repl.Run(ctx, prelude, cacheDir, log.Default())
}
