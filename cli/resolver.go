package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/c420/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML configuration
// files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Nested mappings are flattened into hyphenated flag names, so both of the
// following set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// A mapping named after a command holds that command's flags:
//
//	run:
//	  trace: true
//
// Keys may use underscores in place of hyphens. Command-line flags override
// config file values.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).DecodeContext(ctx, &doc); err != nil {
			if err == io.EOF {
				return config{}, nil
			}

			// A malformed config file is reported but does not prevent the
			// command line from being parsed.
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("error", err.Error()))

			return config{}, nil
		}

		cfg := make(config)
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

// flatten copies doc into c, joining nested keys with hyphens.
func (c config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		if nested, ok := value.(map[string]any); ok {
			c.flatten(name, nested)

			continue
		}

		c[name] = flagValue(value)
	}
}

// flagValue converts a decoded YAML value into a form kong can map onto a
// flag. Kong parses numbers from strings.
func flagValue(value any) any {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case int:
		return strconv.Itoa(v)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = flagValue(elem)
		}

		return out

	case nil, bool, string:
		return v

	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	var names []string

	if parent != nil && parent.Command != nil {
		names = append(names, parent.Command.Name+"-"+flag.Name)
	}

	names = append(names, flag.Name)

	for _, name := range names {
		if value, ok := c[name]; ok {
			return value, nil
		}
	}

	// Not found, let kong use the default
	return nil, nil
}
