package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/c420/cli/cmd"
	"github.com/ardnew/c420/lang"
)

// TestMain points the user configuration and cache directories at a
// temporary directory for the whole package and clears the logging
// environment.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "c420-cli-test-*")
	if err != nil {
		panic(err)
	}

	for key, val := range map[string]string{
		"HOME":            dir,
		"XDG_CONFIG_HOME": filepath.Join(dir, "config"),
		"XDG_CACHE_HOME":  filepath.Join(dir, "cache"),
		"C420_PATH":       "",
	} {
		if err := os.Setenv(key, val); err != nil {
			panic(err)
		}
	}

	for _, key := range []string{"C420_LOG_LEVEL", "C420_LOG_FORMAT"} {
		if err := os.Unsetenv(key); err != nil {
			panic(err)
		}
	}

	code := m.Run()

	_ = os.RemoveAll(dir)

	os.Exit(code)
}

func noExit(t *testing.T) func(int) {
	return func(code int) { t.Errorf("unexpected exit(%d)", code) }
}

func TestRun_Commands(t *testing.T) {
	dir := t.TempDir()

	lib := filepath.Join(dir, "lib")
	if err := os.Mkdir(lib, 0o700); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(lib, "prelude.c4"), []byte("const k = 6;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	prog := filepath.Join(dir, "prog.c4")
	if err := os.WriteFile(prog, []byte("let a = k * 7;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"default command", []string{"-I", lib, "prelude", prog}},
		{"run quiet", []string{"-I", lib, "run", "-q", "prelude", prog}},
		{"check", []string{"-I", lib, "check", "prelude", prog}},
		{"check without eval", []string{"check", "--no-eval", prog}},
		{"fmt ast", []string{"fmt", "ast", prog}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Run(context.Background(), noExit(t), tt.args...); err != nil {
				t.Errorf("Run(%q) = %v", tt.args, err)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()

	prog := filepath.Join(dir, "prog.c4")
	if err := os.WriteFile(prog, []byte("let a = b;\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := Run(context.Background(), noExit(t), "run", prog)
	if !errors.Is(err, cmd.ErrEvaluate) || !errors.Is(err, lang.ErrUnresolvedVariable) {
		t.Errorf("error = %v, want unresolved variable", err)
	}

	err = Run(context.Background(), noExit(t), "run", filepath.Join(dir, "missing"))
	if !errors.Is(err, cmd.ErrSourceNotFound) {
		t.Errorf("error = %v, want %v", err, cmd.ErrSourceNotFound)
	}
}
