package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed programs keyed by source hash.
var globalCache sync.Map

// entry holds the result of parsing one source.
type entry struct {
	once sync.Once
	body []Statement
	err  error
}

// ParseReader parses a program from r.
// Parse results are cached by a hash of the source text, so reading the same
// source again does not parse it again. Programs returned from the cache share
// their statements and must not be modified.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)

	o.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return parseStringCached(ctx, string(data), opts...)
}

// parseStringCached parses source at most once per process.
func parseStringCached(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Program, error) {
	o := makeOptions(opts...)

	sourceHash := xxh3.HashString(source)
	sourceKey := strconv.FormatUint(sourceHash, 36)

	value, cacheHit := globalCache.LoadOrStore(sourceKey, new(entry))

	cached, ok := value.(*entry)
	if !ok {
		return ParseString(ctx, source, opts...)
	}

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	cached.once.Do(func() {
		prog, err := ParseString(ctx, source, opts...)
		if err != nil {
			cached.err = err

			return
		}

		cached.body = prog.Body
	})

	if cached.err != nil {
		return nil, cached.err
	}

	return &Program{Body: cached.body}, nil
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
