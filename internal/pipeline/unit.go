package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/phase"
	"github.com/dimenus/Odin/internal/semantics/table"
)

// UnitFile is the on-disk form of a checking unit: a set of packages that
// import each other by name.
type UnitFile struct {
	Name     string        `yaml:"name"`
	Packages []PackageFile `yaml:"packages"`
}

// PackageFile is one package of a unit. Source holds the code inline;
// otherwise Path names a file relative to the unit file.
type PackageFile struct {
	Name   string `yaml:"name"`
	File   string `yaml:"file"`
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
}

// LoadUnit reads and validates the unit file at path, reading any
// path-referenced package sources.
func LoadUnit(path string) (*UnitFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit: %w", err)
	}
	uf, err := ParseUnit(path, data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i := range uf.Packages {
		pf := &uf.Packages[i]
		if pf.Path == "" {
			continue
		}
		src, err := os.ReadFile(filepath.Join(dir, pf.Path))
		if err != nil {
			return nil, fmt.Errorf("unit %s: package %s: %w", path, pf.Name, err)
		}
		pf.Source = string(src)
	}
	return uf, nil
}

// ParseUnit decodes a unit file. Unknown fields are rejected. name is only
// used in error messages.
func ParseUnit(name string, data []byte) (*UnitFile, error) {
	var uf UnitFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&uf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("unit %s: empty file", name)
		}
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if err := uf.Validate(); err != nil {
		return nil, fmt.Errorf("unit %s: %w", name, err)
	}
	return &uf, nil
}

// Validate checks package names and source selection and fills in default
// file names.
func (uf *UnitFile) Validate() error {
	if len(uf.Packages) == 0 {
		return errors.New("no packages")
	}
	seen := make(map[string]bool)
	for i := range uf.Packages {
		pf := &uf.Packages[i]
		if pf.Name == "" {
			return fmt.Errorf("package %d has no name", i+1)
		}
		if seen[pf.Name] {
			return fmt.Errorf("duplicate package %q", pf.Name)
		}
		seen[pf.Name] = true
		if pf.Source != "" && pf.Path != "" {
			return fmt.Errorf("package %s: source and path are mutually exclusive", pf.Name)
		}
		if pf.File == "" {
			pf.File = pf.Path
		}
		if pf.File == "" {
			pf.File = pf.Name + ".odin"
		}
	}
	if uf.Name == "" {
		uf.Name = uf.Packages[0].Name
	}
	return nil
}

// Package is a unit package as it moves through the phases.
type Package struct {
	Name   string
	File   string
	Source string
	AST    *ast.Module
	Scope  *table.Scope
	Phase  phase.PackagePhase
}

// Unit holds a unit's packages and their import graph.
type Unit struct {
	Name     string
	Packages map[string]*Package
	// DepGraph maps an importer to the packages it imports.
	DepGraph map[string][]string

	sorted []string
}

func newUnit(uf *UnitFile) *Unit {
	u := &Unit{
		Name:     uf.Name,
		Packages: make(map[string]*Package, len(uf.Packages)),
		DepGraph: make(map[string][]string),
	}
	for _, pf := range uf.Packages {
		u.Packages[pf.Name] = &Package{Name: pf.Name, File: pf.File, Source: pf.Source}
	}
	return u
}

// Advance moves pkg to target if its prerequisite is met.
func (u *Unit) Advance(pkg *Package, target phase.PackagePhase) bool {
	next, ok := phase.Advance(pkg.Phase, target)
	pkg.Phase = next
	return ok
}

// AddDependency registers an import edge. It fails if the edge would close
// a cycle.
func (u *Unit) AddDependency(importer, imported string) error {
	if cycle := u.findCycle(imported, importer); cycle != nil {
		return fmt.Errorf("circular import detected: %s", formatCycle(cycle))
	}
	for _, existing := range u.DepGraph[importer] {
		if existing == imported {
			return nil
		}
	}
	u.DepGraph[importer] = append(u.DepGraph[importer], imported)
	return nil
}

// findCycle reports the path closed by adding the edge to -> from, if any.
func (u *Unit) findCycle(from, to string) []string {
	visited := make(map[string]bool)
	var path []string
	if u.hasCyclePath(from, to, visited, &path) {
		cycle := append([]string{to}, path...)
		return append(cycle, to)
	}
	return nil
}

func (u *Unit) hasCyclePath(start, target string, visited map[string]bool, path *[]string) bool {
	if start == target {
		return true
	}
	if visited[start] {
		return false
	}
	visited[start] = true
	*path = append(*path, start)
	for _, dep := range u.DepGraph[start] {
		if u.hasCyclePath(dep, target, visited, path) {
			return true
		}
	}
	*path = (*path)[:len(*path)-1]
	return false
}

func formatCycle(cycle []string) string {
	return strings.Join(cycle, " -> ")
}

// ComputeTopologicalOrder orders packages so each comes after everything it
// imports. Ties break by name.
func (u *Unit) ComputeTopologicalOrder() {
	inDegree := make(map[string]int, len(u.Packages))
	for name := range u.Packages {
		inDegree[name] = len(u.DepGraph[name])
	}

	var queue []string
	for name, n := range inDegree {
		if n == 0 {
			queue = append(queue, name)
		}
	}
	slices.Sort(queue)

	sorted := make([]string, 0, len(u.Packages))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		var next []string
		for importer, deps := range u.DepGraph {
			for _, dep := range deps {
				if dep == current {
					inDegree[importer]--
					if inDegree[importer] == 0 {
						next = append(next, importer)
					}
				}
			}
		}
		slices.Sort(next)
		queue = append(queue, next...)
	}
	u.sorted = sorted
}

// Order returns the package names in dependency order. It is only valid
// after ComputeTopologicalOrder.
func (u *Unit) Order() []string {
	return u.sorted
}
