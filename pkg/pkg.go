//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the c420 module embedded at build time.
// It is printed by the CLI when users pass --version.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "c420"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Interpreter for a small arithmetic scripting language"
	// PathEnv is the environment variable holding the default list of
	// directories searched for source files.
	PathEnv = "C420_PATH"
	// SourceExt is the conventional file extension for c420 sources.
	SourceExt = ".c4"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
