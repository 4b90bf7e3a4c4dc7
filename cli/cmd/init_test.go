package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initTestCLI struct {
	Level   string   `default:"info"`
	Pretty  bool     `default:"true"`
	Depth   int      `default:"3"`
	Include []string `short:"I"`
	Secret  string   `default:"x"     hidden:""`
	Version kong.VersionFlag
	Pprof   string `name:"pprof-mode"`
}

// initContext parses args against initTestCLI with the configuration file
// set to confPath.
func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli initTestCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx)
}

func TestInit_Run(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{"create", false, false, nil},
		{"overwrite with force", true, true, nil},
		{"refuse without force", false, true, ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("old: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			err := (&Init{Force: tt.force}).Run(initContext(t, confPath))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteConfig) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run: %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("config is not YAML: %v\n%s", err, data)
			}

			if got["level"] != "info" || got["pretty"] != true {
				t.Errorf("config = %v", got)
			}

			if _, ok := got["old"]; ok {
				t.Error("forced init kept the old content")
			}
		})
	}
}

func TestInit_BuildConfig(t *testing.T) {
	ctx := initContext(t, "unused", "--level=debug", "-I", "a", "-I", "b")

	cfg := (&Init{}).buildConfig(ctx)

	got := make(map[string]any, len(cfg))
	for _, item := range cfg {
		got[item.Key.(string)] = item.Value
	}

	want := map[string]any{
		"level":   "debug",
		"pretty":  true,
		"depth":   int64(3),
		"include": []any{"a", "b"},
	}

	for key, val := range want {
		switch w := val.(type) {
		case []any:
			seq, ok := got[key].([]any)
			if !ok || len(seq) != len(w) || seq[0] != w[0] || seq[1] != w[1] {
				t.Errorf("%s = %v, want %v", key, got[key], w)
			}

		default:
			if got[key] != w {
				t.Errorf("%s = %#v, want %#v", key, got[key], w)
			}
		}
	}

	for _, key := range []string{"help", "version", "secret", "pprof-mode"} {
		if _, ok := got[key]; ok {
			t.Errorf("config includes %q", key)
		}
	}
}

func TestConfigValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"string", "text", "text"},
		{"bool", false, false},
		{"int", 7, int64(7)},
		{"uint", uint8(2), uint64(2)},
		{"float", 1.5, 1.5},
		{"empty slice", []string{}, nil},
		{"other", struct{ A int }{1}, "{1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := configValue(tt.in); got != tt.want {
				t.Errorf("configValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
