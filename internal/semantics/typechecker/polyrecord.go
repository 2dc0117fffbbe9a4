package typechecker

import (
	"strings"

	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/semantics/table"
	"github.com/dimenus/Odin/internal/types"
)

// recordTemplate remembers where a polymorphic struct or union was declared
// so each instantiation re-checks a fresh copy of its body there.
type recordTemplate struct {
	named *types.Named
	node  ast.Expression
	scope *table.Scope
}

type recordMemo struct {
	templates map[*types.Named]*recordTemplate
	instances map[*types.Named][]*types.Named
}

func newRecordMemo() *recordMemo {
	return &recordMemo{
		templates: make(map[*types.Named]*recordTemplate),
		instances: make(map[*types.Named][]*types.Named),
	}
}

func (m *recordMemo) find(tmpl *types.Named, args []types.PolyArg) *types.Named {
	for _, inst := range m.instances[tmpl] {
		_, have, _, _ := recordInstance(inst)
		if polyArgsEqual(have, args) {
			return inst
		}
	}
	return nil
}

func polyArgsEqual(a, b []types.PolyArg) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

func instanceName(tmpl *types.Named, args []types.PolyArg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return tmpl.Name + "(" + strings.Join(parts, ", ") + ")"
}

// recordParams builds the parameter tuple of a record template. Type
// parameters become generics.
func (c *Checker) recordParams(env Env, params []*ast.Param) *types.Tuple {
	vars := make([]*types.Var, 0, len(params))
	seen := make(map[string]bool)
	for _, p := range params {
		name := ""
		if p.Name != nil {
			name = p.Name.Name
		}
		if name != "" && name != "_" {
			if seen[name] {
				c.errorf(env, p.Name, diagnostics.ErrRedeclaredName, "'%s' is already declared in this parameter list", name)
			}
			seen[name] = true
		}
		if p.Type == nil || isTypeidExpr(p.Type) {
			vars = append(vars, &types.Var{Name: name, Kind: types.VarType, Type: types.NewGeneric(name, nil)})
			continue
		}
		vars = append(vars, &types.Var{Name: name, Kind: types.VarConst, Type: c.typeExpr(env, p.Type)})
	}
	return types.NewTuple(vars...)
}

func isTypeidExpr(e ast.Expression) bool {
	id, ok := ast.Unparen(e).(*ast.IdentifierExpr)
	return ok && id.Name == "typeid"
}

// registerTemplate records a named polymorphic record declared in scope.
func (c *Checker) registerTemplate(named *types.Named, node ast.Expression, scope *table.Scope) {
	c.records.templates[named] = &recordTemplate{named: named, node: node, scope: scope}
}

// instantiateRecord returns the instance of tmpl for args, building it on
// first use. Instances whose arguments still mention generics get no body.
func (c *Checker) instantiateRecord(env Env, tmpl *types.Named, args []types.PolyArg) *types.Named {
	if inst := c.records.find(tmpl, args); inst != nil {
		c.log.Debug("record memo hit", "template", tmpl.Name, "instance", inst.Name)
		return inst
	}
	inst := types.NewNamed(instanceName(tmpl, args), tmpl.Pkg, nil)
	polymorphic := false
	for _, a := range args {
		if a.IsType() && types.IsPolymorphic(a.Type) {
			polymorphic = true
		}
	}

	rt := c.records.templates[tmpl]
	switch tmpl.Underlying().(type) {
	case *types.Struct:
		inst.SetUnderlying(&types.Struct{Template: tmpl, Args: args, Polymorphic: polymorphic})
	case *types.Union:
		inst.SetUnderlying(&types.Union{Template: tmpl, Args: args, Polymorphic: polymorphic})
	default:
		panic("internal error: instantiating a non-record template " + tmpl.Name)
	}
	c.records.instances[tmpl] = append(c.records.instances[tmpl], inst)
	c.log.Debug("record memo miss", "template", tmpl.Name, "instance", inst.Name)
	if polymorphic || rt == nil {
		return inst
	}

	scope := table.NewScope(rt.scope, table.ScopeRecord, inst.Name)
	params := templateParams(tmpl)
	for i, v := range params.List() {
		if v.IsBlank() {
			continue
		}
		var e *symbols.Entity
		if v.Kind == types.VarType {
			e = c.newEntity(symbols.EntityTypeName, v.Name, nil, args[i].Type)
		} else {
			e = c.newEntity(symbols.EntityConstant, v.Name, nil, v.Type)
			e.Value = args[i].Value
		}
		e.State = symbols.Resolved
		e.Set(symbols.FlagTypeField)
		scope.Insert(e)
	}

	benv := NewEnv(scope)
	benv.SuppressErrors = env.SuppressErrors
	switch n := ast.Clone(rt.node).(type) {
	case *ast.StructType:
		st := c.structFields(benv, n)
		st.Template, st.Args = tmpl, args
		inst.SetUnderlying(st)
	case *ast.UnionType:
		ut := c.unionVariants(benv, n)
		ut.Template, ut.Args = tmpl, args
		inst.SetUnderlying(ut)
	}
	return inst
}

// polyRecordCall checks `Vec(f32, 3)`: a call whose callee is a record
// template. The result is a type operand.
func (c *Checker) polyRecordCall(env Env, call *ast.CallExpr, tmplOp Operand) Operand {
	tmpl, _ := tmplOp.Type.(*types.Named)
	params := templateParams(tmpl)
	count := params.Len()

	named := len(call.Args) > 0
	for _, a := range call.Args {
		if _, ok := a.(*ast.FieldValue); !ok {
			named = false
		}
	}

	ordered := make([]Operand, 0, count)
	failed := false
	if named {
		if call.Ellipsis {
			c.errorf(env, call, diagnostics.ErrInvalidExpression, "invalid use of '..' in a polymorphic type call")
		}
		ordered = make([]Operand, count)
		visited := make([]bool, count)
		for _, a := range call.Args {
			fv := a.(*ast.FieldValue)
			id, ok := fv.Field.(*ast.IdentifierExpr)
			if !ok {
				c.errorf(env, a, diagnostics.ErrUnknownNamedParameter,
					"invalid parameter name '%s' in polymorphic type call", ast.ExprString(fv.Field))
				failed = true
				continue
			}
			idx := -1
			for i, v := range params.List() {
				if !v.IsBlank() && v.Name == id.Name {
					idx = i
				}
			}
			if idx < 0 {
				c.errorf(env, a, diagnostics.ErrUnknownNamedParameter,
					"no parameter named '%s' for this polymorphic type", id.Name)
				failed = true
				continue
			}
			if visited[idx] {
				c.errorf(env, a, diagnostics.ErrDuplicateNamedParameter,
					"duplicate parameter '%s' in polymorphic type", id.Name)
				failed = true
				continue
			}
			visited[idx] = true
			ordered[idx] = c.exprOrType(env, fv.Value, nil)
		}
		for i, v := range params.List() {
			if visited[i] || v.IsBlank() {
				continue
			}
			if v.Kind == types.VarType {
				c.errorf(env, call, diagnostics.ErrMissingNamedParameter,
					"type parameter '%s' is missing in polymorphic type call", v.Name)
			} else {
				c.errorf(env, call, diagnostics.ErrMissingNamedParameter,
					"parameter '%s' of type '%s' is missing in polymorphic type call", v.Name, v.Type)
			}
			failed = true
		}
	} else {
		for _, a := range call.Args {
			ordered = append(ordered, c.exprOrType(env, a, nil))
		}
	}
	if failed {
		return invalidOperand(call)
	}

	if count < len(ordered) {
		c.errorf(env, call, diagnostics.ErrArityMismatch,
			"too many polymorphic type arguments, expected %d, got %d", count, len(ordered))
		return invalidOperand(call)
	}
	if count > len(ordered) {
		c.errorf(env, call, diagnostics.ErrArityMismatch,
			"too few polymorphic type arguments, expected %d, got %d", count, len(ordered))
		return invalidOperand(call)
	}

	args := make([]types.PolyArg, count)
	for i := range ordered {
		o := &ordered[i]
		if o.Mode == ModeInvalid {
			failed = true
			continue
		}
		v := params.At(i)
		if v.Kind == types.VarType {
			if o.Mode != ModeType {
				c.errorf(env, o.Expr, diagnostics.ErrInvalidType, "expected a type for the argument '%s'", v.Name)
				failed = true
				continue
			}
			args[i] = types.PolyArg{Type: o.Type}
			continue
		}
		if o.Mode == ModeType && types.IsGeneric(o.Type) {
			args[i] = types.PolyArg{Type: o.Type}
			continue
		}
		c.checkAssignment(env, o, v.Type, "polymorphic type argument")
		if o.Mode == ModeInvalid {
			failed = true
			continue
		}
		if o.Mode != ModeConstant {
			c.errorf(env, o.Expr, diagnostics.ErrIllegalConstantUse,
				"expected a constant value for this polymorphic type argument")
			failed = true
			continue
		}
		args[i] = types.PolyArg{Type: v.Type, Value: o.Value}
	}
	if failed {
		return invalidOperand(call)
	}
	return Operand{Mode: ModeType, Type: c.instantiateRecord(env, tmpl, args), Expr: call}
}
