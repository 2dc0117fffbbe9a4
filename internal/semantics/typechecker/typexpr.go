package typechecker

import (
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/semantics/table"
	"github.com/dimenus/Odin/internal/tokens"
	"github.com/dimenus/Odin/internal/types"
)

func identName(id *ast.IdentifierExpr) string {
	if id == nil {
		return ""
	}
	return id.Name
}

// typeExpr evaluates e as a type. In a polymorphic signature a bare record
// template stands for any of its instances.
func (c *Checker) typeExpr(env Env, e ast.Expression) types.SemType {
	o := c.exprOrType(env, e, nil)
	if o.Mode == ModeInvalid {
		return types.TypeInvalid
	}
	if o.Mode != ModeType {
		c.errorf(env, e, diagnostics.ErrInvalidType, "'%s' is not a type", ast.ExprString(e))
		return types.TypeInvalid
	}
	if types.IsPolyTemplate(o.Type) {
		if env.AllowPolymorphic {
			return types.NewGeneric("", o.Type)
		}
		c.errorf(env, e, diagnostics.ErrInvalidType,
			"cannot use polymorphic record '%s' without parameters", o.Type)
		return types.TypeInvalid
	}
	return o.Type
}

// typeNode evaluates a type literal.
func (c *Checker) typeNode(env Env, e ast.Expression) types.SemType {
	switch n := e.(type) {
	case *ast.PointerType:
		return types.NewPointer(c.typeExpr(env, n.Elem))
	case *ast.ArrayType:
		return c.arrayType(env, n)
	case *ast.DynamicArrayType:
		return types.NewDynamicArray(c.typeExpr(env, n.Elem))
	case *ast.MapType:
		key := c.typeExpr(env, n.Key)
		val := c.typeExpr(env, n.Value)
		if !types.IsInvalid(key) && !types.IsPolymorphic(key) && !types.IsComparable(key) {
			c.errorf(env, n.Key, diagnostics.ErrInvalidType, "invalid map key type '%s'", key)
			return types.TypeInvalid
		}
		return types.NewMap(key, val)
	case *ast.StructType:
		if n.PolyParams != nil {
			c.errorf(env, n, diagnostics.ErrInvalidType, "polymorphic records must be declared with a name")
			return types.TypeInvalid
		}
		return c.structFields(env, n)
	case *ast.UnionType:
		if n.PolyParams != nil {
			c.errorf(env, n, diagnostics.ErrInvalidType, "polymorphic records must be declared with a name")
			return types.TypeInvalid
		}
		return c.unionVariants(env, n)
	case *ast.EnumType:
		return c.enumType(env, n)
	case *ast.BitSetType:
		return c.bitSetType(env, n)
	case *ast.ProcType:
		scope := table.NewScope(env.Scope, table.ScopeProc, "")
		sig, _ := c.procType(env.WithScope(scope).WithPolyScope(scope), n, nil)
		return sig
	case *ast.OpaqueType:
		return &types.Opaque{Elem: c.typeExpr(env, n.Type)}
	case *ast.PolyType:
		return c.polyType(env, n)
	case *ast.EllipsisType:
		c.errorf(env, n, diagnostics.ErrInvalidType, "invalid use of '..' outside a parameter list")
	case *ast.DistinctType:
		c.errorf(env, n, diagnostics.ErrInvalidType, "'distinct' can only be used in a type declaration")
	default:
		panic("internal error: not a type node")
	}
	return types.TypeInvalid
}

// polyType declares the generic introduced by `$T` in the signature scope.
func (c *Checker) polyType(env Env, n *ast.PolyType) types.SemType {
	name := identName(n.Name)
	if !env.AllowPolymorphic {
		c.errorf(env, n, diagnostics.ErrInvalidType, "invalid use of a polymorphic parameter '$%s'", name)
		return types.TypeInvalid
	}
	var special types.SemType
	if n.Specialization != nil {
		o := c.exprOrType(env, n.Specialization, nil)
		if o.Mode != ModeType {
			if o.Mode != ModeInvalid {
				c.errorf(env, n.Specialization, diagnostics.ErrInvalidType,
					"'%s' is not a type", ast.ExprString(n.Specialization))
			}
			return types.TypeInvalid
		}
		special = o.Type
	}
	g := types.NewGeneric(name, special)
	e := c.newEntity(symbols.EntityTypeName, name, n.Name, g)
	e.State = symbols.Resolved
	e.Set(symbols.FlagPolymorphic)
	scope := env.PolyScope
	if scope == nil {
		scope = env.Scope
	}
	c.declare(env, scope, e)
	return g
}

func (c *Checker) arrayType(env Env, n *ast.ArrayType) types.SemType {
	if n.Infer {
		c.errorf(env, n, diagnostics.ErrInvalidType, "'[?]' is only allowed in compound literals")
		return types.TypeInvalid
	}
	if n.Len == nil {
		return types.NewSlice(c.typeExpr(env, n.Elem))
	}
	if pt, ok := n.Len.(*ast.PolyType); ok {
		g, ok := c.polyType(env, pt).(*types.Generic)
		if !ok {
			return types.TypeInvalid
		}
		return &types.Array{Elem: c.typeExpr(env, n.Elem), CountParam: g}
	}
	if id, ok := ast.Unparen(n.Len).(*ast.IdentifierExpr); ok {
		if e, found := env.Scope.Lookup(id.Name); found && e.Has(symbols.FlagPolymorphic) {
			if g, ok := e.Type.(*types.Generic); ok {
				c.info.Uses[id] = e
				return &types.Array{Elem: c.typeExpr(env, n.Elem), CountParam: g}
			}
		}
	}

	o := c.expr(env, n.Len, nil)
	elem := c.typeExpr(env, n.Elem)
	if o.Mode == ModeInvalid {
		return types.TypeInvalid
	}
	if o.Mode != ModeConstant || !types.IsInteger(o.Type) {
		c.errorf(env, n.Len, diagnostics.ErrIllegalConstantUse,
			"array count must be a constant integer, got '%s'", o.exprString())
		return types.TypeInvalid
	}
	count, ok := o.Value.Int64()
	if !ok || count < 0 {
		c.errorf(env, n.Len, diagnostics.ErrIllegalConstantUse, "invalid array count '%s'", o.Value)
		return types.TypeInvalid
	}
	return types.NewArray(elem, count)
}

func (c *Checker) structFields(env Env, n *ast.StructType) *types.Struct {
	st := &types.Struct{}
	seen := make(map[string]*ast.IdentifierExpr)
	for i, f := range n.Fields {
		name := identName(f.Name)
		t := c.typeExpr(env, f.Type)
		if prev, dup := seen[name]; dup && name != "_" {
			c.report(env, diagnostics.Redeclared(locOf(f.Name), locOf(prev), name))
			continue
		}
		seen[name] = f.Name
		if f.Using && !types.IsInvalid(t) && !types.IsStruct(types.Deref(t)) {
			c.errorf(env, f, diagnostics.ErrInvalidType,
				"'using' can only be applied to struct fields, got '%s'", t)
		}
		st.Fields = append(st.Fields, &types.Field{Name: name, Type: t, Using: f.Using, Index: i})
	}
	return st
}

func (c *Checker) unionVariants(env Env, n *ast.UnionType) *types.Union {
	ut := &types.Union{NoNil: n.NoNil}
	for _, v := range n.Variants {
		t := c.typeExpr(env, v)
		if types.IsInvalid(t) {
			continue
		}
		if ut.Variant(t) {
			c.errorf(env, v, diagnostics.ErrInvalidType, "duplicate variant '%s' in union", t)
			continue
		}
		ut.Variants = append(ut.Variants, t)
	}
	return ut
}

func (c *Checker) enumType(env Env, n *ast.EnumType) types.SemType {
	base := types.SemType(types.TypeInt)
	if n.Base != nil {
		base = c.typeExpr(env, n.Base)
		if types.IsInvalid(base) {
			return types.TypeInvalid
		}
		if !types.IsInteger(base) {
			c.errorf(env, n.Base, diagnostics.ErrInvalidType, "enum base type must be an integer, got '%s'", base)
			return types.TypeInvalid
		}
	}
	en := &types.Enum{Base: base}
	scope := table.NewScope(env.Scope, table.ScopeBlock, "enum")
	fenv := env.WithScope(scope)
	next := consteval.MakeInt64(0)
	for _, f := range n.Fields {
		name := identName(f.Name)
		val := next
		if f.Value != nil {
			o := c.expr(fenv, f.Value, base)
			if o.Mode == ModeInvalid {
				continue
			}
			if o.Mode != ModeConstant || !types.IsInteger(o.Type) {
				c.errorf(env, f.Value, diagnostics.ErrIllegalConstantUse,
					"enum value for '%s' must be a constant integer", name)
				continue
			}
			c.convertToTyped(fenv, &o, base)
			if o.Mode == ModeInvalid {
				continue
			}
			val = o.Value
		}
		if _, ok := c.representable(val, base); !ok {
			c.report(env, diagnostics.ConstantOverflow(locOf(f.Name), name+" = "+val.String(), base.String()))
			continue
		}
		if _, dup := en.Field(name); dup {
			c.errorf(env, f.Name, diagnostics.ErrRedeclaredName, "duplicate enum field '%s'", name)
			continue
		}
		en.Fields = append(en.Fields, &types.EnumField{Name: name, Value: val})
		e := c.newEntity(symbols.EntityConstant, name, f.Name, base)
		e.Value = val
		e.State = symbols.Resolved
		scope.Insert(e)
		next = consteval.BinaryOp(val, tokens.PLUS_TOKEN, consteval.MakeInt64(1))
	}
	return en
}

// maxBitSetSize is the widest bit set, in bits.
const maxBitSetSize = 128

func (c *Checker) bitSetType(env Env, n *ast.BitSetType) types.SemType {
	bs := &types.BitSet{}
	if be, ok := ast.Unparen(n.Elem).(*ast.BinaryExpr); ok && tokens.IsRange(be.Op.Kind) {
		lo := c.expr(env, be.X, nil)
		hi := c.expr(env, be.Y, nil)
		if lo.Mode == ModeInvalid || hi.Mode == ModeInvalid {
			return types.TypeInvalid
		}
		l, lok := consteval.ToInteger(lo.Value).Int64()
		h, hok := consteval.ToInteger(hi.Value).Int64()
		if lo.Mode != ModeConstant || hi.Mode != ModeConstant || !lok || !hok {
			c.errorf(env, be, diagnostics.ErrIllegalConstantUse, "bit set range bounds must be constant integers")
			return types.TypeInvalid
		}
		if be.Op.Kind == tokens.RANGE_EXCL_TOKEN {
			h--
		}
		if l > h {
			c.errorf(env, be, diagnostics.ErrInvalidType, "invalid bit set range %d..=%d", l, h)
			return types.TypeInvalid
		}
		bs.Elem = types.TypeInt
		if types.IsRune(lo.Type) {
			bs.Elem = types.TypeRune
		}
		bs.Lower, bs.Upper = l, h
	} else {
		t := c.typeExpr(env, n.Elem)
		if types.IsInvalid(t) {
			return types.TypeInvalid
		}
		en, ok := types.Under(t).(*types.Enum)
		if !ok {
			c.errorf(env, n.Elem, diagnostics.ErrInvalidType, "bit set element must be an enum or a range, got '%s'", t)
			return types.TypeInvalid
		}
		if len(en.Fields) == 0 {
			c.errorf(env, n.Elem, diagnostics.ErrInvalidType, "bit set of an empty enum '%s'", t)
			return types.TypeInvalid
		}
		bs.Elem = t
		bs.Lower, _ = en.Fields[0].Value.Int64()
		bs.Upper = bs.Lower
		for _, f := range en.Fields[1:] {
			v, _ := f.Value.Int64()
			bs.Lower = min(bs.Lower, v)
			bs.Upper = max(bs.Upper, v)
		}
	}

	bits := bs.Upper - bs.Lower + 1
	if bits > maxBitSetSize {
		c.errorf(env, n, diagnostics.ErrInvalidType,
			"bit set range is too large, %d bits (maximum %d)", bits, maxBitSetSize)
		return types.TypeInvalid
	}
	if n.Underlying != nil {
		u := c.typeExpr(env, n.Underlying)
		if types.IsInvalid(u) {
			return types.TypeInvalid
		}
		if !types.IsInteger(u) {
			c.errorf(env, n.Underlying, diagnostics.ErrInvalidType,
				"bit set underlying type must be an integer, got '%s'", u)
			return types.TypeInvalid
		}
		if c.sizes.SizeOf(u)*8 < bits {
			c.errorf(env, n.Underlying, diagnostics.ErrInvalidType,
				"bit set underlying type '%s' is too small for %d bits", u, bits)
			return types.TypeInvalid
		}
		bs.Underlying = u
	}
	return bs
}

// bindGenerics rebinds the generic entities of a signature scope once
// their arguments are known: type parameters to their types, count
// parameters to constants.
func (c *Checker) bindGenerics(scope *table.Scope, s *Subst) {
	for _, e := range scope.Entities() {
		g, ok := e.Type.(*types.Generic)
		if !ok {
			continue
		}
		if t, ok := s.Lookup(g); ok {
			e.Type = t
			continue
		}
		if v, ok := s.Value(g); ok {
			e.Kind = symbols.EntityConstant
			e.Type = types.TypeInt
			e.Value = v
		}
	}
}

// procType checks a procedure signature, declaring its parameters in
// env.Scope. With operands it instantiates a polymorphic signature: each
// `$T` and `$N` takes the matching operand and generics in parameter types
// are bound by unification.
func (c *Checker) procType(env Env, pt *ast.ProcType, operands []Operand) (*types.Proc, bool) {
	sig := &types.Proc{}
	scope := env.Scope
	instantiating := operands != nil
	s := newSubst()
	ok := true
	polymorphic := false

	operandAt := func(i int) (Operand, bool) {
		if i < len(operands) && operands[i].Mode != ModeInvalid {
			return operands[i], true
		}
		return Operand{}, false
	}

	params := make([]*types.Var, 0, len(pt.Params))
	for i, p := range pt.Params {
		name := identName(p.Name)

		if p.Poly {
			op, has := operandAt(i)
			v, good := c.polyParam(env, p, name, op, has, instantiating)
			if !good {
				ok = false
				continue
			}
			if !instantiating {
				polymorphic = true
			}
			params = append(params, v)
			continue
		}

		if ell, isEll := p.Type.(*ast.EllipsisType); isEll {
			if i != len(pt.Params)-1 {
				c.errorf(env, p, diagnostics.ErrInvalidType, "variadic parameter must be the last parameter")
				ok = false
				continue
			}
			if p.Default != nil {
				c.errorf(env, p.Default, diagnostics.ErrInvalidType, "variadic parameter '%s' cannot have a default value", name)
				ok = false
			}
			elem := c.typeExpr(env, ell.Elem)
			t := types.SemType(types.NewSlice(elem))
			if instantiating && types.IsPolymorphic(t) {
				for j := i; j < len(operands); j++ {
					op := operands[j]
					if op.Mode == ModeInvalid {
						continue
					}
					if !c.unify(env, elem, op.Type, false, s) && !c.unify(env, t, op.Type, false, s) {
						c.polyParamError(env, p, name, op.Type, t)
						ok = false
					}
				}
				c.bindGenerics(scope, s)
				t = c.apply(env, t, s)
			} else if types.IsPolymorphic(t) {
				polymorphic = true
			}
			sig.Variadic = true
			sig.VariadicIndex = i
			sig.CVararg = p.CVararg
			c.declareParam(env, p, t)
			params = append(params, &types.Var{Name: name, Type: t, Using: p.Using})
			continue
		}

		var t types.SemType
		var def Operand
		haveDef := false
		if p.Type == nil {
			if p.Default == nil {
				c.errorf(env, p, diagnostics.ErrInvalidType, "parameter '%s' has neither a type nor a default value", name)
				ok = false
				continue
			}
			def = c.expr(env, p.Default, nil)
			haveDef = true
			if def.isUntypedNil() {
				c.errorf(env, p.Default, diagnostics.ErrIllegalConstantUse, "cannot infer the type of parameter '%s' from nil", name)
				ok = false
				continue
			}
			t = types.Default(def.Type)
		} else {
			t = c.typeExpr(env, p.Type)
		}
		if types.IsInvalid(t) {
			ok = false
			continue
		}

		if types.IsPolymorphic(t) {
			if instantiating {
				op, has := operandAt(i)
				if !has && p.Default != nil {
					op = c.expr(env, p.Default, nil)
					has = op.Mode != ModeInvalid
				}
				if !has {
					c.polyParamError(env, p, name, nil, t)
					ok = false
					continue
				}
				if !c.unify(env, t, op.Type, false, s) {
					c.polyParamError(env, p, name, op.Type, t)
					ok = false
					continue
				}
				c.bindGenerics(scope, s)
				t = c.apply(env, t, s)
			} else {
				polymorphic = true
			}
		}

		if p.Using && !types.IsStruct(types.Deref(t)) && !types.IsPolymorphic(t) {
			c.errorf(env, p, diagnostics.ErrInvalidType, "'using' can only be applied to struct parameters, got '%s'", t)
		}

		v := &types.Var{Name: name, Type: t, AutoCast: p.AutoCast, Using: p.Using}
		if p.Default != nil {
			if !haveDef {
				def = c.expr(env, p.Default, t)
			}
			c.paramDefault(env, v, &def)
			if def.Mode == ModeInvalid {
				ok = false
			}
		}
		c.declareParam(env, p, t)
		params = append(params, v)
	}

	results := make([]*types.Var, 0, len(pt.Results))
	for _, r := range pt.Results {
		t := c.typeExpr(env, r.Type)
		if instantiating && types.IsPolymorphic(t) {
			t = c.apply(env, t, s)
			if types.IsPolymorphic(t) {
				c.errorf(env, r, diagnostics.ErrTypeMismatch, "cannot determine polymorphic result type '%s'", t)
				ok = false
			}
		} else if types.IsPolymorphic(t) {
			polymorphic = true
		}
		if types.IsInvalid(t) {
			ok = false
		}
		name := identName(r.Name)
		if name != "" {
			c.declareParam(env, r, t)
		}
		results = append(results, &types.Var{Name: name, Type: t})
	}

	sig.Params = types.NewTuple(params...)
	sig.Results = types.NewTuple(results...)
	sig.Polymorphic = polymorphic
	return sig, ok
}

// polyParam checks `$T: typeid` or `$N: int`. A template gets a generic
// for it; an instantiation binds the operand.
func (c *Checker) polyParam(env Env, p *ast.Param, name string, op Operand, has, instantiating bool) (*types.Var, bool) {
	isType := p.Type == nil || isTypeidExpr(p.Type)
	var vt types.SemType
	if !isType {
		vt = c.typeExpr(env, p.Type)
		if types.IsInvalid(vt) {
			return nil, false
		}
	}

	if !instantiating {
		g := types.NewGeneric(name, nil)
		e := c.newEntity(symbols.EntityTypeName, name, p.Name, g)
		e.State = symbols.Resolved
		e.Set(symbols.FlagPolymorphic)
		c.declare(env, env.Scope, e)
		if isType {
			return &types.Var{Name: name, Kind: types.VarType, Type: g}, true
		}
		return &types.Var{Name: name, Kind: types.VarConst, Type: vt}, true
	}

	if !has {
		c.polyParamError(env, p, name, nil, vt)
		return nil, false
	}
	if isType {
		if op.Mode != ModeType {
			c.errorf(env, p, diagnostics.ErrInvalidType, "expected a type for polymorphic parameter '%s'", name)
			return nil, false
		}
		e := c.newEntity(symbols.EntityTypeName, name, p.Name, op.Type)
		e.State = symbols.Resolved
		e.Set(symbols.FlagPolymorphic)
		c.declare(env, env.Scope, e)
		return &types.Var{Name: name, Kind: types.VarType, Type: op.Type}, true
	}

	if op.Mode != ModeConstant {
		c.errorf(env, p, diagnostics.ErrIllegalConstantUse,
			"expected a constant value for polymorphic parameter '%s'", name)
		return nil, false
	}
	c.checkAssignment(env, &op, vt, "polymorphic parameter")
	if op.Mode == ModeInvalid {
		return nil, false
	}
	e := c.newEntity(symbols.EntityConstant, name, p.Name, vt)
	e.State = symbols.Resolved
	e.Value = op.Value
	e.Set(symbols.FlagPolymorphic)
	c.declare(env, env.Scope, e)
	return &types.Var{Name: name, Kind: types.VarConst, Type: vt, Value: op.Value}, true
}

// paramDefault records the default value of a parameter.
func (c *Checker) paramDefault(env Env, v *types.Var, d *Operand) {
	if d.Mode == ModeInvalid {
		return
	}
	if types.IsPolymorphic(v.Type) {
		v.Default = types.DefaultValue
		return
	}
	if d.isUntypedNil() {
		if !types.HasNil(v.Type) {
			c.nilError(env, d, v.Type)
			return
		}
		v.Default = types.DefaultNil
		return
	}
	c.checkAssignment(env, d, v.Type, "parameter default value")
	switch d.Mode {
	case ModeInvalid:
	case ModeConstant:
		v.Default = types.DefaultConstant
		v.Value = d.Value
	default:
		v.Default = types.DefaultValue
	}
}

func (c *Checker) declareParam(env Env, p *ast.Param, t types.SemType) {
	if p.Name == nil {
		return
	}
	e := c.newEntity(symbols.EntityVariable, p.Name.Name, p.Name, t)
	e.State = symbols.Resolved
	e.Set(symbols.FlagParam | symbols.FlagImmutable)
	if p.Using {
		e.Set(symbols.FlagUsing)
	}
	if p.AutoCast {
		e.Set(symbols.FlagAutoCast)
	}
	c.declare(env, env.Scope, e)
}
