package pkg

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ardnew/mung"
)

// SearchPath returns the directories searched for relative source paths.
//
// The directories in include come first, followed by those listed in the
// [PathEnv] environment variable. Entries that are not existing directories
// are dropped.
func SearchPath(include ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(filepath.SplitList(os.Getenv(PathEnv))...),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(include...),
		mung.WithFilter(isDir),
	).String()

	dirs := filepath.SplitList(list)
	out := dirs[:0]

	for _, dir := range dirs {
		if dir != "" {
			out = append(out, dir)
		}
	}

	return out
}

// Locate resolves name to a readable source file.
//
// The stdin indicator "-" and names of existing files are returned as-is.
// Otherwise, relative names are tried in each of dirs in order, first
// verbatim and then with [SourceExt] appended when name has no extension.
// The returned error wraps [fs.ErrNotExist] when no candidate exists.
func Locate(name string, dirs []string) (string, error) {
	if name == "-" || isFile(name) {
		return name, nil
	}

	if !filepath.IsAbs(name) {
		for _, dir := range dirs {
			for _, cand := range candidates(filepath.Join(dir, name)) {
				if isFile(cand) {
					return cand, nil
				}
			}
		}
	}

	if filepath.Ext(name) == "" && isFile(name+SourceExt) {
		return name + SourceExt, nil
	}

	return "", &fs.PathError{Op: "locate", Path: name, Err: fs.ErrNotExist}
}

func candidates(path string) []string {
	if filepath.Ext(path) == "" {
		return []string{path, path + SourceExt}
	}

	return []string{path}
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
