package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dimenus/Odin/internal/config"
	"github.com/dimenus/Odin/internal/phase"
	"github.com/dimenus/Odin/internal/types"
)

func newTestPipeline() *Pipeline {
	return New(config.Default(), nil)
}

func inlineUnit(pkgs ...PackageFile) *UnitFile {
	uf := &UnitFile{Name: "test", Packages: pkgs}
	if err := uf.Validate(); err != nil {
		panic(err)
	}
	return uf
}

func TestParseUnitErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", "", "empty file"},
		{"no packages", "name: x\n", "no packages"},
		{"unknown field", "name: x\nbogus: 1\n", "field bogus not found"},
		{"missing name", "packages:\n  - source: x\n", "package 1 has no name"},
		{"duplicate", "packages:\n  - name: a\n  - name: a\n", `duplicate package "a"`},
		{"source and path", "packages:\n  - name: a\n    source: x\n    path: a.odin\n", "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUnit("unit.yaml", []byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseUnit() error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestParseUnitDefaults(t *testing.T) {
	uf, err := ParseUnit("unit.yaml", []byte("packages:\n  - name: core\n    source: \"package core\"\n  - name: app\n    path: src/app.odin\n"))
	if err != nil {
		t.Fatalf("ParseUnit() error = %v", err)
	}
	want := &UnitFile{
		Name: "core",
		Packages: []PackageFile{
			{Name: "core", File: "core.odin", Source: "package core"},
			{Name: "app", File: "src/app.odin", Path: "src/app.odin"},
		},
	}
	if diff := cmp.Diff(want, uf); diff != "" {
		t.Errorf("ParseUnit() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadUnitReadsPaths(t *testing.T) {
	uf, err := LoadUnit(filepath.Join("testdata", "split", "unit.yaml"))
	if err != nil {
		t.Fatalf("LoadUnit() error = %v", err)
	}
	if !strings.Contains(uf.Packages[1].Source, "double :: proc") {
		t.Errorf("util source not loaded: %q", uf.Packages[1].Source)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "unit.yaml")
	if err := os.WriteFile(path, []byte("packages:\n  - name: a\n    path: missing.odin\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadUnit(path); err == nil || !strings.Contains(err.Error(), "package a") {
		t.Errorf("LoadUnit() error = %v, want missing file error", err)
	}
}

func TestUnitGraph(t *testing.T) {
	u := newUnit(inlineUnit(
		PackageFile{Name: "app"},
		PackageFile{Name: "net"},
		PackageFile{Name: "core"},
		PackageFile{Name: "fmt"},
	))
	for _, edge := range [][2]string{{"app", "net"}, {"app", "fmt"}, {"net", "core"}, {"fmt", "core"}, {"app", "net"}} {
		if err := u.AddDependency(edge[0], edge[1]); err != nil {
			t.Fatalf("AddDependency(%s, %s) error = %v", edge[0], edge[1], err)
		}
	}
	if got := len(u.DepGraph["app"]); got != 2 {
		t.Errorf("duplicate edge kept: app has %d deps", got)
	}

	err := u.AddDependency("core", "app")
	if err == nil || err.Error() != "circular import detected: core -> app -> net -> core" {
		t.Errorf("AddDependency(core, app) error = %v", err)
	}

	u.ComputeTopologicalOrder()
	if diff := cmp.Diff([]string{"core", "fmt", "net", "app"}, u.Order()); diff != "" {
		t.Errorf("Order() mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckUnitAcrossPackages(t *testing.T) {
	res := newTestPipeline().CheckFile(filepath.Join("testdata", "shapes.yaml"))
	if res.Err != nil {
		t.Fatalf("CheckFile() error = %v", res.Err)
	}
	if msgs := res.Diagnostics.Messages(); len(msgs) != 0 {
		t.Fatalf("unexpected diagnostics: %v", msgs)
	}
	if diff := cmp.Diff([]string{"geom", "main"}, res.Unit.Order()); diff != "" {
		t.Errorf("Order() mismatch (-want +got):\n%s", diff)
	}
	for name, pkg := range res.Unit.Packages {
		if pkg.Phase != phase.Checked {
			t.Errorf("package %s ended in phase %v", name, pkg.Phase)
		}
	}

	mainScope := res.Unit.Packages["main"].Scope
	geomScope := res.Unit.Packages["geom"].Scope
	vec, _ := geomScope.LookupCurrent("Vec2")
	for _, name := range []string{"origin", "moved"} {
		e, ok := mainScope.LookupCurrent(name)
		if !ok {
			t.Fatalf("%s not declared", name)
		}
		if !types.Identical(e.Type, vec.Type) {
			t.Errorf("%s has type %v, want %v", name, e.Type, vec.Type)
		}
	}
	scale, _ := mainScope.LookupCurrent("SCALE")
	if got := scale.Value.String(); got != "8" {
		t.Errorf("SCALE = %s, want 8", got)
	}
}

func TestCheckUnitErrors(t *testing.T) {
	tests := []struct {
		name string
		unit *UnitFile
		want []string
	}{
		{
			name: "unknown package",
			unit: inlineUnit(PackageFile{Name: "main", Source: "package main\nimport \"nope\"\n"}),
			want: []string{"U0001: unknown package 'nope'"},
		},
		{
			name: "import cycle",
			unit: inlineUnit(
				PackageFile{Name: "a", Source: "package a\nimport \"b\"\n"},
				PackageFile{Name: "b", Source: "package b\nimport \"a\"\n"},
			),
			want: []string{"U0001: circular import detected: b -> a -> b"},
		},
		{
			name: "package clause",
			unit: inlineUnit(PackageFile{Name: "main", Source: "package other\n"}),
			want: []string{"U0001: package clause 'other' does not match package name 'main'"},
		},
		{
			name: "syntax error stops checking",
			unit: inlineUnit(PackageFile{Name: "main", Source: "x :: )\ny :: missing\n"}),
			want: []string{"P0001: unexpected ')' in expression"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newTestPipeline().CheckUnit("unit.yaml", tt.unit)
			if diff := cmp.Diff(tt.want, res.Diagnostics.Messages()); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
			if res.Info != nil {
				t.Errorf("Info set although checking stopped early")
			}
			if !res.Failed() {
				t.Errorf("Failed() = false")
			}
		})
	}
}

func TestCheckFilesKeepsOrder(t *testing.T) {
	paths := []string{
		filepath.Join("testdata", "undeclared.yaml"),
		filepath.Join("testdata", "does-not-exist.yaml"),
		filepath.Join("testdata", "split", "unit.yaml"),
		filepath.Join("testdata", "shapes.yaml"),
	}
	opts := config.Default()
	opts.Jobs = 2
	results, err := New(opts, nil).CheckFiles(context.Background(), paths)
	if err != nil {
		t.Fatalf("CheckFiles() error = %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d is for %s, want %s", i, r.Path, paths[i])
		}
	}

	if diff := cmp.Diff([]string{"T0001: undeclared name: missing"}, results[0].Diagnostics.Messages()); diff != "" {
		t.Errorf("undeclared.yaml diagnostics mismatch (-want +got):\n%s", diff)
	}
	if results[1].Err == nil {
		t.Errorf("missing unit loaded without error")
	}
	for _, r := range results[2:] {
		if r.Failed() {
			t.Errorf("%s failed: %v", r.Path, r.Diagnostics.Messages())
		}
	}
}

func TestCheckFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := newTestPipeline().CheckFiles(ctx, []string{filepath.Join("testdata", "shapes.yaml")})
	if err == nil {
		t.Fatalf("CheckFiles() error = nil, want cancellation")
	}
	if results[0].Err == nil {
		t.Errorf("result carries no error")
	}
}

func TestReport(t *testing.T) {
	p := newTestPipeline()
	results := []*Result{
		p.CheckFile(filepath.Join("testdata", "split", "unit.yaml")),
		p.CheckFile(filepath.Join("testdata", "undeclared.yaml")),
		{Path: "gone.yaml", Err: os.ErrNotExist},
	}
	var buf bytes.Buffer
	failed := Report(&buf, results, ReportOptions{Records: true})
	if failed != 2 {
		t.Errorf("Report() = %d failed, want 2", failed)
	}
	out := buf.String()
	for _, want := range []string{
		"package util",
		"procedure double: proc(",
		"package app",
		"variable total: int",
		"undeclared name: missing",
		"error: file does not exist",
		"Units: 3, failed: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report does not contain %q:\n%s", want, out)
		}
	}
}
