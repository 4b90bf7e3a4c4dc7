package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/c420/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer for command output.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stderr returns the writer for diagnostics.
func stderr(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stderr != nil {
		return ktx.Stderr
	}

	return os.Stderr
}

type searchPathKey struct{}

// WithSearchPath returns a new context.Context containing the directories
// searched for relative source file names.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

type (
	sourceFiles struct {
		names    []string
		read     []io.Reader
		hasStdin bool
		all      io.Reader // lazily joined by Read
	}

	// SourceFiles is the concatenated content of one or more source files.
	SourceFiles interface {
		IsZero() bool
		Names() []string
		Stdin() io.Reader
		io.Reader
		io.WriterTo
		io.Closer
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && !s.hasStdin }

// Names returns the resolved names of the sources in read order.
func (s *sourceFiles) Names() []string { return s.names }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// readers returns the sources in read order, separated by newlines so that
// a trailing comment in one file cannot swallow the first line of the next.
func (s *sourceFiles) readers() []io.Reader {
	all := s.read
	if s.hasStdin {
		all = append(all[:len(all):len(all)], os.Stdin)
	}

	out := make([]io.Reader, 0, 2*len(all))

	for i, r := range all {
		if i > 0 {
			out = append(out, strings.NewReader("\n"))
		}

		out = append(out, r)
	}

	return out
}

// Read implements io.Reader by reading from all source files in order,
// including stdin if present.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	if s.all == nil {
		s.all = io.MultiReader(s.readers()...)
	}

	return s.all.Read(p)
}

// WriteTo implements io.WriterTo by writing all source files to w in order,
// including stdin if present.
func (s *sourceFiles) WriteTo(w io.Writer) (n int64, err error) {
	return io.Copy(w, io.MultiReader(s.readers()...))
}

// Close closes every opened file.
func (s *sourceFiles) Close() error {
	var errs []error

	for _, r := range s.read {
		if c, ok := r.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}

	return errors.Join(errs...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// openSources resolves each of sources against the search path in ctx and
// opens the result.
//
// Readers are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader
// placed last so it reads after all regular files. A source that cannot be
// located or opened is an error.
func openSources(ctx context.Context, sources []string) (SourceFiles, error) {
	if len(sources) == 0 {
		return nil, ErrNoSource
	}

	dirs := searchPathFrom(ctx)

	var srcs sourceFiles

	srcs.read = make([]io.Reader, 0, len(sources))
	seen := make(map[fileKey]struct{})

	var stdinKey fileKey

	stdinInfo, err := os.Stdin.Stat()
	if err == nil {
		stdinKey, _ = makeFileKey(stdinInfo)
	}

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		path, err := pkg.Locate(src, dirs)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrSourceNotFound.
				With(slog.String("source", src), slog.Any("search_path", dirs)).
				Wrap(err)
		}

		reader, ok, err := openUniqueFile(path, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrReadSource.With(slog.String("source", path)).Wrap(err)
		}

		if !ok {
			continue
		}

		srcs.names = append(srcs.names, path)
		srcs.read = append(srcs.read, reader)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	if _, srcs.hasStdin = seen[stdinKey]; srcs.hasStdin {
		srcs.names = append(srcs.names, stdinSource)
	}

	return &srcs, nil
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns false without error if the file is a duplicate.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (io.Reader, bool, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	// Get file info to extract device and inode.
	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// readSources opens and reads sources into a single string.
func readSources(
	ctx context.Context,
	sources []string,
) (text string, names []string, err error) {
	src, err := openSources(ctx, sources)
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	var buf strings.Builder

	if _, err := src.WriteTo(&buf); err != nil {
		return "", nil, ErrReadSource.
			With(slog.Any("source", src.Names())).
			Wrap(err)
	}

	return buf.String(), src.Names(), nil
}
