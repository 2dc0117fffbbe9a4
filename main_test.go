package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	testdata := filepath.Join("internal", "pipeline", "testdata")
	badConfig := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(badConfig, []byte("word_size = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout []string
		wantStderr []string
	}{
		{
			name:       "version",
			args:       []string{"version"},
			wantStdout: []string{"odin-check version " + version},
		},
		{
			name:       "clean unit",
			args:       []string{"check", "--no-color", filepath.Join(testdata, "split", "unit.yaml")},
			wantStdout: []string{"Units: 1, failed: 0"},
		},
		{
			name:       "records",
			args:       []string{"check", "--no-color", "--records", filepath.Join(testdata, "split", "unit.yaml")},
			wantStdout: []string{"package util", "variable total: int"},
		},
		{
			name:       "errors",
			args:       []string{"check", "--no-color", "-j", "1", filepath.Join(testdata, "undeclared.yaml")},
			wantCode:   1,
			wantStdout: []string{"undeclared name: missing", "Units: 1, failed: 1"},
		},
		{
			name:       "debug logging",
			args:       []string{"check", "--no-color", "--debug", filepath.Join(testdata, "split", "unit.yaml")},
			wantStderr: []string{"level=DEBUG", "msg=\"checked package\"", "unit=split"},
		},
		{
			name:       "no files",
			args:       []string{"check"},
			wantCode:   2,
			wantStderr: []string{"no unit files given"},
		},
		{
			name:       "bad config",
			args:       []string{"check", "--config", badConfig, filepath.Join(testdata, "split", "unit.yaml")},
			wantCode:   2,
			wantStderr: []string{"word_size must be 4 or 8"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(append([]string{"odin-check"}, tt.args...), &stdout, &stderr)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nstdout:\n%s\nstderr:\n%s", code, tt.wantCode, stdout.String(), stderr.String())
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout does not contain %q:\n%s", want, stdout.String())
				}
			}
			for _, want := range tt.wantStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr does not contain %q:\n%s", want, stderr.String())
				}
			}
		})
	}
}
