package typechecker

import (
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/semantics/table"
	"github.com/dimenus/Odin/internal/types"
)

type procKey struct {
	template int
	hash     uint64
}

// procMemo maps a polymorphic procedure and a concrete parameter list to
// the instance generated for it.
type procMemo struct {
	m map[procKey][]*symbols.Entity
}

func newProcMemo() *procMemo {
	return &procMemo{m: make(map[procKey][]*symbols.Entity)}
}

func keyOf(tmpl *symbols.Entity, sig *types.Proc) procKey {
	return procKey{template: tmpl.ID, hash: types.HashTuple(sig.Params)}
}

func (m *procMemo) find(tmpl *symbols.Entity, sig *types.Proc) *symbols.Entity {
	for _, e := range m.m[keyOf(tmpl, sig)] {
		if types.Identical(e.Type, sig) {
			return e
		}
	}
	return nil
}

func (m *procMemo) add(tmpl, inst *symbols.Entity) {
	k := keyOf(tmpl, inst.Type.(*types.Proc))
	m.m[k] = append(m.m[k], inst)
}

// templateLit returns the literal a polymorphic procedure was declared with.
func templateLit(e *symbols.Entity) (*ast.ProcLit, bool) {
	if e == nil || e.Kind != symbols.EntityProcedure || e.Decl == nil {
		return nil, false
	}
	lit, ok := e.Decl.Init.(*ast.ProcLit)
	return lit, ok
}

func declScope(e *symbols.Entity) *table.Scope {
	if e.Decl != nil && e.Decl.Scope != nil {
		if s, ok := e.Decl.Scope.(*table.Scope); ok {
			return s
		}
	}
	s, _ := e.Scope.(*table.Scope)
	return s
}

// instantiate generates (or finds) the instance of the polymorphic
// procedure tmpl for operands, which line up with its parameters; variadic
// arguments follow the variadic parameter's position.
//
// The signature is first checked with errors suppressed. When that fails
// and the caller wants errors, it is checked again on a fresh copy so the
// diagnostics point at the real problem.
func (c *Checker) instantiate(env Env, tmpl *symbols.Entity, operands []Operand) (*symbols.Entity, bool) {
	lit, ok := templateLit(tmpl)
	base, isProc := tmpl.Type.(*types.Proc)
	if !ok || !isProc || !types.IsPolymorphic(base) {
		return nil, false
	}
	parent := declScope(tmpl)

	check := func(penv Env) (*types.Proc, *table.Scope, *ast.ProcLit, bool) {
		clone := ast.Clone(lit).(*ast.ProcLit)
		scope := table.NewScope(parent, table.ScopeProc, tmpl.Name)
		penv = penv.WithScope(scope).WithPolyScope(scope).WithPolymorphic(true)
		penv.path = env.path
		sig, ok := c.procType(penv, clone.Type, operands)
		return sig, scope, clone, ok
	}

	sig, scope, clone, ok := check(Env{SuppressErrors: true})
	if !ok {
		if !env.SuppressErrors && !env.NoPolyErrors {
			check(Env{})
		}
		return nil, false
	}

	if prev := c.procs.find(tmpl, sig); prev != nil {
		c.log.Debug("proc memo hit", "template", tmpl.Name, "instance", prev.Type.String())
		return prev, true
	}

	sig.Polymorphic = true
	sig.Specialized = true
	for _, o := range operands {
		if o.Mode == ModeInvalid || o.Type == nil {
			continue
		}
		if o.Type == types.SemType(base) || types.Identical(o.Type, base) {
			// a template passed to itself; the instance stays generic
			sig.Specialized = false
		}
	}

	inst := c.newEntity(symbols.EntityProcedure, tmpl.Name, tmpl.Ident, sig)
	inst.Pkg = tmpl.Pkg
	inst.Scope = tmpl.Scope
	inst.State = symbols.Resolved
	inst.Template = tmpl
	inst.Set(symbols.FlagGenerated)
	inst.Decl = &symbols.Decl{Init: clone, Scope: parent}
	if tmpl.Decl != nil {
		inst.Decl.Node = tmpl.Decl.Node
	}

	c.procs.add(tmpl, inst)
	c.info.Instances = append(c.info.Instances, inst)
	c.log.Debug("proc memo miss", "template", tmpl.Name, "instance", sig.String())
	if sig.Specialized {
		c.queueBody(inst, sig, scope, clone.Body)
	}
	return inst, true
}

// polyProcAssignment instantiates the polymorphic procedure named by o so
// that it matches target, as in `f: proc(int) -> int = identity`.
func (c *Checker) polyProcAssignment(env Env, o *Operand, target *types.Proc) (*symbols.Entity, bool) {
	e := c.entityOf(o.Expr)
	if e == nil || e.Kind != symbols.EntityProcedure {
		return nil, false
	}
	src, ok := e.Type.(*types.Proc)
	if !ok || !types.IsPolymorphic(src) || src.Specialized {
		return nil, false
	}
	if types.IsPolymorphic(target) {
		return nil, false
	}
	if src.ParamCount() != target.ParamCount() || src.ResultCount() != target.ResultCount() {
		return nil, false
	}
	operands := make([]Operand, target.ParamCount())
	for i, v := range target.Params.List() {
		operands[i] = Operand{Mode: ModeValue, Type: v.Type}
		if sv := src.Params.At(i); sv.Kind == types.VarType {
			operands[i].Mode = ModeType
		}
	}
	inst, ok := c.instantiate(env.withoutPolyErrors(), e, operands)
	if !ok {
		return nil, false
	}
	got := inst.Type.(*types.Proc)
	if !got.Params.Equals(target.Params) || !got.Results.Equals(target.Results) {
		return nil, false
	}
	return inst, true
}

// polyParamError reports a parameter whose generics could not be bound.
func (c *Checker) polyParamError(env Env, n ast.Node, param string, from, to types.SemType) {
	if from == nil {
		c.errorf(env, n, diagnostics.ErrTypeMismatch,
			"cannot determine polymorphic type for parameter '%s'", param)
		return
	}
	c.errorf(env, n, diagnostics.ErrTypeMismatch,
		"cannot determine polymorphic type from parameter: '%s' to '%s'", from, to)
}
