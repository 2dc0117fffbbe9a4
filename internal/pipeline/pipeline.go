// Package pipeline drives checking units: parse every package, enter the
// top-level declarations, then check packages in import order.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dimenus/Odin/internal/config"
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/parser"
	"github.com/dimenus/Odin/internal/phase"
	"github.com/dimenus/Odin/internal/semantics/typechecker"
)

// Result is the outcome of checking one unit. Err is set when the unit
// could not be loaded at all; source problems land in Diagnostics.
type Result struct {
	Path        string
	Unit        *Unit
	Diagnostics *diagnostics.DiagnosticBag
	// Info is nil when checking stopped before the declare phase.
	Info *typechecker.Info
	Err  error
}

// Failed reports whether the unit has load errors or error diagnostics.
func (r *Result) Failed() bool {
	return r.Err != nil || (r.Diagnostics != nil && r.Diagnostics.HasErrors())
}

// Pipeline checks units with one set of options. Each unit gets its own
// Checker, so units may be checked in parallel.
type Pipeline struct {
	opts   config.Options
	logger *slog.Logger
}

// New creates a Pipeline. A nil logger discards.
func New(opts config.Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{opts: opts, logger: logger}
}

// CheckFiles checks every unit file, at most Options.Jobs at a time.
// Results keep the order of paths. The error is only non-nil when ctx is
// cancelled.
func (p *Pipeline) CheckFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	jobs := p.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(jobs)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = &Result{Path: path, Err: err}
				return err
			}
			results[i] = p.CheckFile(path)
			return nil
		})
	}
	return results, g.Wait()
}

// CheckFile loads and checks one unit file.
func (p *Pipeline) CheckFile(path string) *Result {
	uf, err := LoadUnit(path)
	if err != nil {
		p.logger.Debug("unit load failed", "path", path, "err", err)
		return &Result{Path: path, Err: err}
	}
	return p.CheckUnit(path, uf)
}

// CheckUnit runs the phases over an already loaded unit.
func (p *Pipeline) CheckUnit(path string, uf *UnitFile) *Result {
	diag := diagnostics.NewDiagnosticBag()
	diag.SetMaxErrors(p.opts.MaxErrors)
	unit := newUnit(uf)
	res := &Result{Path: path, Unit: unit, Diagnostics: diag}
	log := p.logger.With("unit", unit.Name)

	// Phase 1: parse, in file order so diagnostics are stable.
	for _, pf := range uf.Packages {
		pkg := unit.Packages[pf.Name]
		diag.AddSourceContent(pkg.File, pkg.Source)
		pkg.AST = parser.ParseSource(pkg.File, pkg.Source, diag)
		if pkg.AST.Package != "" && pkg.AST.Package != pkg.Name {
			diag.Add(diagnostics.NewError(
				fmt.Sprintf("package clause '%s' does not match package name '%s'", pkg.AST.Package, pkg.Name)).
				WithCode(diagnostics.ErrInvalidUnit).
				WithPrimaryLabel(pkg.AST.Location, ""))
		}
		unit.Advance(pkg, phase.Parsed)
		log.Debug("parsed package", "package", pkg.Name, "decls", len(pkg.AST.Decls))
	}
	for _, pf := range uf.Packages {
		p.linkImports(unit, unit.Packages[pf.Name], diag)
	}
	if diag.HasErrors() {
		return res
	}
	unit.ComputeTopologicalOrder()

	// Phase 2: declare. Every scope exists before any import is bound.
	checker := typechecker.New(typechecker.Config{Options: p.opts, Logger: log}, diag)
	res.Info = checker.Info()
	for _, name := range unit.Order() {
		unit.Packages[name].Scope = checker.NewPackageScope(name)
	}
	for _, name := range unit.Order() {
		pkg := unit.Packages[name]
		for _, imp := range pkg.AST.Imports {
			checker.DeclareImport(pkg.Scope, imp.Name, imp.Path, unit.Packages[imp.Path].Scope)
		}
		for _, decl := range pkg.AST.Decls {
			checker.Declare(pkg.Scope, decl)
		}
		unit.Advance(pkg, phase.Declared)
	}

	// Phase 3: check in dependency order.
	for _, name := range unit.Order() {
		pkg := unit.Packages[name]
		checker.CheckPackage(pkg.Scope)
		unit.Advance(pkg, phase.Checked)
		log.Debug("checked package", "package", name, "errors", diag.ErrorCount())
	}
	return res
}

// linkImports records pkg's import edges, reporting unknown packages and
// cycles.
func (p *Pipeline) linkImports(unit *Unit, pkg *Package, diag *diagnostics.DiagnosticBag) {
	for _, imp := range pkg.AST.Imports {
		if _, ok := unit.Packages[imp.Path]; !ok {
			diag.Add(diagnostics.NewError(fmt.Sprintf("unknown package '%s'", imp.Path)).
				WithCode(diagnostics.ErrInvalidUnit).
				WithPrimaryLabel(imp.Location, "not part of unit "+unit.Name))
			continue
		}
		if err := unit.AddDependency(pkg.Name, imp.Path); err != nil {
			diag.Add(diagnostics.NewError(err.Error()).
				WithCode(diagnostics.ErrInvalidUnit).
				WithPrimaryLabel(imp.Location, ""))
		}
	}
}
