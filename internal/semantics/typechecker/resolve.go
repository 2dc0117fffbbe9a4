package typechecker

import (
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/semantics/table"
	"github.com/dimenus/Odin/internal/types"
)

// Declare enters the names of decl into scope. Nothing is checked until an
// entity is first used or CheckPackage reaches it.
func (c *Checker) Declare(scope *table.Scope, decl *ast.ValueDecl) []*symbols.Entity {
	env := NewEnv(scope)
	out := c.declEntities(env, scope, decl)
	for _, e := range out {
		c.declare(env, scope, e)
	}
	return out
}

// declEntities creates the entities of decl without entering them.
func (c *Checker) declEntities(env Env, scope *table.Scope, decl *ast.ValueDecl) []*symbols.Entity {
	out := make([]*symbols.Entity, 0, len(decl.Names))
	for i, name := range decl.Names {
		var init ast.Expression
		switch {
		case len(decl.Values) == len(decl.Names):
			init = decl.Values[i]
		case len(decl.Values) == 1:
			init = decl.Values[0]
		}
		kind := symbols.EntityVariable
		if decl.Const {
			kind = declKind(init)
		}
		e := c.newEntity(kind, name.Name, name, nil)
		e.Decl = &symbols.Decl{Type: decl.Type, Init: init, Scope: scope, Node: decl}
		out = append(out, e)
	}
	if len(decl.Values) > 1 && len(decl.Values) != len(decl.Names) {
		c.errorf(env, decl, diagnostics.ErrArityMismatch,
			"assignment mismatch: %d variables but %d values", len(decl.Names), len(decl.Values))
	}
	return out
}

// DeclareImport binds name to the scope of an imported package.
func (c *Checker) DeclareImport(scope *table.Scope, name *ast.IdentifierExpr, path string, imported *table.Scope) *symbols.Entity {
	e := c.newEntity(symbols.EntityImportName, name.Name, name, types.TypeInvalid)
	e.State = symbols.Resolved
	e.ImportScope = imported
	e.ImportPath = path
	c.declare(NewEnv(scope), scope, e)
	return e
}

// declKind guesses an entity kind from the initializer of a constant
// declaration; resolveConst corrects aliases.
func declKind(init ast.Expression) symbols.EntityKind {
	switch ast.Unparen(init).(type) {
	case *ast.ProcLit:
		return symbols.EntityProcedure
	case *ast.ProcGroupExpr:
		return symbols.EntityProcGroup
	case *ast.StructType, *ast.UnionType, *ast.EnumType, *ast.BitSetType, *ast.DistinctType,
		*ast.PointerType, *ast.ArrayType, *ast.DynamicArrayType, *ast.MapType, *ast.ProcType, *ast.OpaqueType:
		return symbols.EntityTypeName
	}
	return symbols.EntityConstant
}

func (c *Checker) declare(env Env, scope *table.Scope, e *symbols.Entity) {
	if e.Pkg == "" {
		if p := scope.Package(); p != nil {
			e.Pkg = p.Name
		}
	}
	if prev, ok := scope.Insert(e); !ok {
		c.report(env, diagnostics.Redeclared(locOf(e.Ident), locOf(prev.Ident), e.Name))
	}
}

// resolve checks the declaration of e on first use. A type name that is
// still in progress already has its Named type, so self references through
// pointers resolve; any other re-entry is a cycle.
func (c *Checker) resolve(env Env, e *symbols.Entity) {
	switch e.State {
	case symbols.Resolved:
		return
	case symbols.InProgress:
		if e.Kind == symbols.EntityTypeName && e.Type != nil {
			return
		}
		c.cycleError(env, e)
		return
	}
	if e.Decl == nil {
		if e.Type == nil {
			e.Type = types.TypeInvalid
		}
		e.State = symbols.Resolved
		return
	}

	e.State = symbols.InProgress
	denv := NewEnv(declScope(e))
	denv.path = env.path
	denv = denv.enter(e)
	c.log.Debug("resolving", "entity", e.Name, "kind", e.Kind.String())

	switch e.Kind {
	case symbols.EntityConstant:
		c.resolveConst(denv, e)
	case symbols.EntityVariable:
		c.resolveVar(denv, e)
	case symbols.EntityTypeName:
		c.resolveTypeDecl(denv, e)
	case symbols.EntityProcedure:
		c.resolveProc(denv, e)
	case symbols.EntityProcGroup:
		c.resolveGroup(denv, e)
	default:
		panic("internal error: cannot resolve entity kind " + e.Kind.String())
	}

	if e.Type == nil {
		e.Type = types.TypeInvalid
	}
	e.State = symbols.Resolved
	c.log.Debug("resolved", "entity", e.Name, "type", e.Type.String())
}

func (c *Checker) cycleError(env Env, e *symbols.Entity) {
	if c.cycles[e] {
		return
	}
	c.cycles[e] = true
	chain := env.cycleFrom(e)
	names := make([]string, 0, len(chain)+1)
	for _, p := range chain {
		names = append(names, p.Name)
	}
	names = append(names, e.Name)
	if len(names) == 1 {
		names = append(names, e.Name)
	}
	c.report(env, diagnostics.DeclarationCycle(locOf(e.Ident), names))
}

func (c *Checker) resolveConst(env Env, e *symbols.Entity) {
	d := e.Decl
	var declared types.SemType
	if d.Type != nil {
		declared = c.typeExpr(env, d.Type)
	}
	if d.Init == nil {
		c.errorf(env, e.Ident, diagnostics.ErrIllegalConstantUse, "constant '%s' has no value", e.Name)
		return
	}

	o := c.exprOrType(env, d.Init, declared)
	switch o.Mode {
	case ModeInvalid:
		return
	case ModeType:
		if declared != nil {
			c.errorf(env, d.Type, diagnostics.ErrInvalidType,
				"type alias '%s' cannot have a type annotation", e.Name)
		}
		e.Kind = symbols.EntityTypeName
		e.Type = o.Type
		return
	case ModeProcGroup:
		e.Kind = symbols.EntityProcGroup
		e.Group = o.ProcGroup.Group
		e.Type = types.TypeInvalid
		return
	case ModeBuiltin:
		c.errorf(env, d.Init, diagnostics.ErrIllegalConstantUse,
			"cannot declare an alias of the built-in procedure '%s'", o.exprString())
		return
	}

	if p := c.entityOf(d.Init); p != nil && p.Kind == symbols.EntityProcedure {
		e.Kind = symbols.EntityProcedure
		e.Type = p.Type
		e.Decl = p.Decl
		e.Template = p.Template
		return
	}
	if o.Mode != ModeConstant {
		c.errorf(env, d.Init, diagnostics.ErrIllegalConstantUse,
			"'%s' is not a constant", o.exprString())
		return
	}
	if declared != nil {
		c.checkAssignment(env, &o, declared, "constant declaration")
		if o.Mode == ModeInvalid {
			return
		}
	}
	e.Type = o.Type
	e.Value = o.Value
}

func (c *Checker) resolveVar(env Env, e *symbols.Entity) {
	d := e.Decl
	var declared types.SemType
	if d.Type != nil {
		declared = c.typeExpr(env, d.Type)
	}
	if d.Init == nil {
		if declared == nil {
			c.errorf(env, e.Ident, diagnostics.ErrInvalidType, "variable '%s' has neither a type nor a value", e.Name)
			return
		}
		e.Type = declared
		return
	}

	if node := d.Node; node != nil && len(node.Names) > 1 && len(node.Values) == 1 {
		e.Type = c.tupleElem(env, node, e.Ident, declared)
		return
	}

	o := c.expr(env, d.Init, declared)
	c.checkAssignment(env, &o, declared, "variable declaration")
	if o.Mode == ModeInvalid {
		return
	}
	if declared != nil {
		e.Type = declared
		return
	}
	e.Type = o.Type
}

// tupleElem types one name of `a, b := f()`. The call is checked once and
// its record reused for the other names.
func (c *Checker) tupleElem(env Env, node *ast.ValueDecl, name *ast.IdentifierExpr, declared types.SemType) types.SemType {
	init := node.Values[0]
	var t types.SemType
	if rec, ok := c.info.Records[init]; ok {
		t = rec.Type
	} else {
		o := c.rawExpr(env, init, nil)
		if o.Mode == ModeInvalid {
			return types.TypeInvalid
		}
		t = o.Type
		if len(node.Names) == 2 {
			if pair := c.commaOk(o); pair != nil {
				t = pair
			}
		}
		tup, ok := t.(*types.Tuple)
		if !ok || tup.Len() != len(node.Names) {
			n := 1
			if ok {
				n = tup.Len()
			}
			c.errorf(env, node, diagnostics.ErrArityMismatch,
				"assignment mismatch: %d variables but %s returns %d values", len(node.Names), ast.ExprString(init), n)
			return types.TypeInvalid
		}
	}
	tup, ok := t.(*types.Tuple)
	if !ok || tup.Len() != len(node.Names) {
		return types.TypeInvalid
	}
	idx := 0
	for i, n := range node.Names {
		if n == name {
			idx = i
		}
	}
	vt := tup.At(idx).Type
	if declared == nil {
		return types.Default(vt)
	}
	trial := Operand{Mode: ModeValue, Type: vt, Expr: init}
	c.checkAssignment(env, &trial, declared, "variable declaration")
	return declared
}

func (c *Checker) resolveTypeDecl(env Env, e *symbols.Entity) {
	d := e.Decl
	if d.Type != nil {
		c.errorf(env, d.Type, diagnostics.ErrInvalidType,
			"type declaration '%s' cannot have a type annotation", e.Name)
	}
	switch n := ast.Unparen(d.Init).(type) {
	case *ast.DistinctType:
		named := types.NewNamed(e.Name, e.Pkg, nil)
		named.Distinct = true
		e.Type = named
		named.SetUnderlying(c.typeExpr(env, n.Type))
		if named.Underlying() == nil {
			named.SetUnderlying(types.TypeInvalid)
		}

	case *ast.StructType, *ast.UnionType, *ast.EnumType, *ast.BitSetType:
		named := types.NewNamed(e.Name, e.Pkg, nil)
		e.Type = named
		if params, ok := recordPolyParams(n); ok {
			tuple := c.recordParams(env, params)
			if _, isStruct := n.(*ast.StructType); isStruct {
				named.SetUnderlying(&types.Struct{PolyParams: tuple})
			} else {
				named.SetUnderlying(&types.Union{PolyParams: tuple, NoNil: n.(*ast.UnionType).NoNil})
			}
			c.registerTemplate(named, n, declScope(e))
			return
		}
		var u types.SemType
		switch n := n.(type) {
		case *ast.StructType:
			u = c.structFields(env, n)
		case *ast.UnionType:
			u = c.unionVariants(env, n)
		default:
			u = c.typeNode(env, n)
		}
		named.SetUnderlying(u)
		c.checkValueCycle(env, e, named)

	default:
		e.Type = c.typeExpr(env, d.Init)
	}
}

func recordPolyParams(n ast.Expression) ([]*ast.Param, bool) {
	switch n := n.(type) {
	case *ast.StructType:
		return n.PolyParams, n.PolyParams != nil
	case *ast.UnionType:
		return n.PolyParams, n.PolyParams != nil
	}
	return nil, false
}

// checkValueCycle rejects a record that contains itself by value, directly
// or through other records and arrays.
func (c *Checker) checkValueCycle(env Env, e *symbols.Entity, named *types.Named) {
	var path []string
	seen := make(map[*types.Named]bool)
	var walk func(t types.SemType) bool
	walk = func(t types.SemType) bool {
		switch u := t.(type) {
		case *types.Named:
			if u == named {
				return true
			}
			if seen[u] || u.Underlying() == nil {
				return false
			}
			seen[u] = true
			path = append(path, u.Name)
			if walk(u.Underlying()) {
				return true
			}
			path = path[:len(path)-1]
		case *types.Struct:
			for _, f := range u.Fields {
				if walk(f.Type) {
					return true
				}
			}
		case *types.Union:
			for _, v := range u.Variants {
				if walk(v) {
					return true
				}
			}
		case *types.Array:
			return walk(u.Elem)
		}
		return false
	}
	if !walk(named.Underlying()) {
		return
	}
	chain := append([]string{e.Name}, path...)
	chain = append(chain, e.Name)
	c.report(env, diagnostics.DeclarationCycle(locOf(e.Ident), chain).
		WithHelp("use a pointer to break the cycle"))
	named.SetUnderlying(types.TypeInvalid)
}

func (c *Checker) resolveProc(env Env, e *symbols.Entity) {
	lit, ok := ast.Unparen(e.Decl.Init).(*ast.ProcLit)
	if !ok {
		panic("internal error: procedure '" + e.Name + "' without a literal")
	}
	scope := table.NewScope(declScope(e), table.ScopeProc, e.Name)
	penv := env.WithScope(scope).WithPolyScope(scope).WithPolymorphic(true)
	sig, _ := c.procType(penv, lit.Type, nil)
	e.Type = sig
	if sig.Polymorphic {
		return
	}
	c.queueBody(e, sig, scope, lit.Body)
}

func (c *Checker) resolveGroup(env Env, e *symbols.Entity) {
	pg, ok := ast.Unparen(e.Decl.Init).(*ast.ProcGroupExpr)
	if !ok {
		panic("internal error: procedure group '" + e.Name + "' without a group literal")
	}
	e.Type = types.TypeInvalid
	members := make([]*symbols.Entity, 0, len(pg.Procs))
	for _, p := range pg.Procs {
		o := c.exprOrType(env, p, nil)
		if o.Mode == ModeInvalid {
			continue
		}
		m := c.entityOf(p)
		if m == nil || m.Kind != symbols.EntityProcedure {
			c.errorf(env, p, diagnostics.ErrInvalidExpression, "'%s' is not a procedure", ast.ExprString(p))
			continue
		}
		dup := false
		for _, have := range members {
			if have == m {
				dup = true
			}
		}
		if dup {
			c.errorf(env, p, diagnostics.ErrRedeclaredName,
				"'%s' appears more than once in procedure group '%s'", ast.ExprString(p), e.Name)
			continue
		}
		members = append(members, m)
	}
	e.Group = members
}
