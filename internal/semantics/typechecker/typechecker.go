package typechecker

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dimenus/Odin/internal/config"
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/semantics/table"
	"github.com/dimenus/Odin/internal/source"
	"github.com/dimenus/Odin/internal/types"
	"golang.org/x/exp/slices"
)

// TypeInfoRegistry receives every type that must be reified for runtime
// reflection, such as a value boxed into `any`.
type TypeInfoRegistry interface {
	Register(t types.SemType)
}

// DependencyRegistry records runtime routines generated code will call.
type DependencyRegistry interface {
	NoteRuntimeDependency(pkg, symbol string)
}

// Config wires a Checker to its collaborators. Nil registries fall back to
// the ones kept in Info.
type Config struct {
	Options  config.Options
	Logger   *slog.Logger
	TypeInfo TypeInfoRegistry
	Deps     DependencyRegistry
}

// Record is what the checker learned about one expression node.
type Record struct {
	Mode  AddressingMode
	Type  types.SemType
	Value consteval.Value
	// IsLHS marks the untyped left operand of a shift whose amount is not
	// constant. Its final type must be an integer.
	IsLHS bool
}

// Info collects the checker's results for later stages.
type Info struct {
	Records    map[ast.Expression]Record
	Uses       map[*ast.IdentifierExpr]*symbols.Entity
	Selections map[*ast.SelectorExpr]types.Selection
	// Calls maps a call to the procedure it resolved to: the chosen group
	// member or the generated polymorphic instance.
	Calls map[*ast.CallExpr]*symbols.Entity
	// Instances lists generated polymorphic procedures in creation order.
	Instances []*symbols.Entity

	Reflected   []types.SemType
	RuntimeDeps []string

	reflected map[uint64][]types.SemType
	deps      map[string]bool
}

func newInfo() *Info {
	return &Info{
		Records:    make(map[ast.Expression]Record),
		Uses:       make(map[*ast.IdentifierExpr]*symbols.Entity),
		Selections: make(map[*ast.SelectorExpr]types.Selection),
		Calls:      make(map[*ast.CallExpr]*symbols.Entity),
		reflected:  make(map[uint64][]types.SemType),
		deps:       make(map[string]bool),
	}
}

// Register implements TypeInfoRegistry; duplicates are dropped.
func (info *Info) Register(t types.SemType) {
	h := types.Hash(t)
	for _, seen := range info.reflected[h] {
		if types.Identical(seen, t) {
			return
		}
	}
	info.reflected[h] = append(info.reflected[h], t)
	info.Reflected = append(info.Reflected, t)
}

// NoteRuntimeDependency implements DependencyRegistry.
func (info *Info) NoteRuntimeDependency(pkg, symbol string) {
	key := pkg + "." + symbol
	if info.deps[key] {
		return
	}
	info.deps[key] = true
	info.RuntimeDeps = append(info.RuntimeDeps, key)
}

// SortedDeps returns the runtime dependencies in lexical order.
func (info *Info) SortedDeps() []string {
	out := slices.Clone(info.RuntimeDeps)
	slices.Sort(out)
	return out
}

// Checker types expressions and resolves declarations. A Checker is not
// safe for concurrent use; check independent units with separate Checkers.
type Checker struct {
	cfg   Config
	sizes types.Sizes
	diag  *diagnostics.DiagnosticBag
	log   *slog.Logger

	universe *table.Scope
	info     *Info
	typeInfo TypeInfoRegistry
	deps     DependencyRegistry

	procs   *procMemo
	records *recordMemo
	queue   *worklist

	// cycles holds entities whose declaration cycle was already reported.
	cycles map[*symbols.Entity]bool

	nextID int
}

// New creates a Checker reporting into diag.
func New(cfg Config, diag *diagnostics.DiagnosticBag) *Checker {
	if diag == nil {
		diag = diagnostics.NewDiagnosticBag()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Checker{
		cfg:     cfg,
		sizes:   cfg.Options.Sizes(),
		diag:    diag,
		log:     logger,
		info:    newInfo(),
		procs:   newProcMemo(),
		records: newRecordMemo(),
		queue:   &worklist{},
		cycles:  make(map[*symbols.Entity]bool),
	}
	c.typeInfo = cfg.TypeInfo
	if c.typeInfo == nil {
		c.typeInfo = c.info
	}
	c.deps = cfg.Deps
	if c.deps == nil {
		c.deps = c.info
	}
	c.universe = c.buildUniverse()
	return c
}

func (c *Checker) Info() *Info { return c.info }

func (c *Checker) Universe() *table.Scope { return c.universe }

func (c *Checker) Diagnostics() *diagnostics.DiagnosticBag { return c.diag }

// NewPackageScope opens a package scope under the universe.
func (c *Checker) NewPackageScope(name string) *table.Scope {
	return table.NewScope(c.universe, table.ScopePackage, name)
}

// CheckExpr checks e against an optional type hint and returns its operand.
// Type expressions are accepted and come back in ModeType.
func (c *Checker) CheckExpr(env Env, e ast.Expression, hint types.SemType) Operand {
	return c.exprOrType(env, e, hint)
}

// CheckPackage resolves every entity declared in scope, then drains the
// deferred body queue.
func (c *Checker) CheckPackage(scope *table.Scope) {
	env := NewEnv(scope)
	for _, e := range scope.Entities() {
		c.resolve(env, e)
	}
	c.Drain()
}

func (c *Checker) newEntity(kind symbols.EntityKind, name string, ident *ast.IdentifierExpr, typ types.SemType) *symbols.Entity {
	c.nextID++
	e := symbols.NewEntity(kind, name, ident, typ)
	e.ID = c.nextID
	return e
}

// bag is where diagnostics raised under env go.
func (c *Checker) bag(env Env) *diagnostics.DiagnosticBag {
	if env.SuppressErrors || env.NoPolyErrors {
		return diagnostics.Discard()
	}
	return c.diag
}

func (c *Checker) report(env Env, d *diagnostics.Diagnostic) {
	c.bag(env).Add(d)
}

func locOf(n ast.Node) source.Location {
	if n == nil {
		return source.Location{}
	}
	if l := n.Loc(); l != nil {
		return *l
	}
	return source.Location{}
}

// errorf reports a plain error at n.
func (c *Checker) errorf(env Env, n ast.Node, code string, format string, args ...any) {
	c.report(env, diagnostics.NewError(fmt.Sprintf(format, args...)).
		WithCode(code).
		WithPrimaryLabel(locOf(n), ""))
}

func (c *Checker) warnf(env Env, n ast.Node, code string, format string, args ...any) {
	c.report(env, diagnostics.NewWarning(fmt.Sprintf(format, args...)).
		WithCode(code).
		WithPrimaryLabel(locOf(n), ""))
}

func (c *Checker) record(e ast.Expression, o Operand) {
	if e == nil {
		return
	}
	c.info.Records[e] = Record{Mode: o.Mode, Type: o.Type, Value: o.Value}
}

func (c *Checker) registerTypeInfo(t types.SemType) {
	if t == nil || types.IsInvalid(t) || types.IsUntyped(t) {
		return
	}
	c.typeInfo.Register(t)
}

func (c *Checker) noteDep(symbol string) {
	c.deps.NoteRuntimeDependency("runtime", symbol)
}

// entityOf returns the entity an identifier or selector resolved to.
func (c *Checker) entityOf(e ast.Expression) *symbols.Entity {
	switch n := ast.Unparen(e).(type) {
	case *ast.IdentifierExpr:
		return c.info.Uses[n]
	case *ast.SelectorExpr:
		return c.info.Uses[n.Field]
	}
	return nil
}

func (c *Checker) buildUniverse() *table.Scope {
	u := table.NewScope(nil, table.ScopeUniverse, "universe")
	insert := func(e *symbols.Entity) {
		e.State = symbols.Resolved
		e.Pkg = "builtin"
		u.Insert(e)
	}
	for _, b := range types.Universe() {
		insert(c.newEntity(symbols.EntityTypeName, string(b.Name), nil, b))
	}
	insert(c.newEntity(symbols.EntityTypeName, "byte", nil, types.TypeU8))

	for _, v := range []bool{true, false} {
		e := c.newEntity(symbols.EntityConstant, fmt.Sprint(v), nil, types.TypeUntypedBool)
		e.Value = consteval.MakeBool(v)
		insert(e)
	}
	insert(c.newEntity(symbols.EntityNil, "nil", nil, types.TypeUntypedNil))

	for id := BuiltinID(1); id < builtinCount; id++ {
		e := c.newEntity(symbols.EntityBuiltin, builtinProcs[id].name, nil, types.TypeInvalid)
		e.BuiltinID = int(id)
		insert(e)
	}
	return u
}
