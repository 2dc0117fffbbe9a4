package config

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Options
	}{
		{
			name: "toml",
			path: "testdata/odin.toml",
			want: Options{WordSize: 4, MaxErrors: 20, Color: "never", LogLevel: "debug", StrictCasts: true},
		},
		{
			name: "yaml overlays defaults",
			path: "testdata/odin.yaml",
			want: Options{WordSize: 8, Color: "auto", LogLevel: "warn", DisallowRTTI: true, Jobs: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load(%s) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"testdata/unknown.yaml", "pointer_size"},
		{"testdata/bad.toml", "word_size must be 4 or 8"},
		{"testdata/missing.toml", "read config"},
		{"config.go", "unsupported extension"},
	}
	for _, tt := range tests {
		_, err := Load(tt.path)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("Load(%s) error = %v, want mention of %q", tt.path, err, tt.want)
		}
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	lvl, _ := Default().Level()
	if lvl != slog.LevelWarn {
		t.Errorf("default level = %v", lvl)
	}
	if Default().Sizes().WordSize != 8 {
		t.Error("default word size should be 8")
	}
}
