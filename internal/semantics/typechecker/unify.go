package typechecker

import (
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/types"
)

// Subst binds the generics of one polymorphic signature. Type parameters
// map to types, count parameters of [$N]T arrays to constants.
type Subst struct {
	types  map[uint64]types.SemType
	values map[uint64]consteval.Value
}

func newSubst() *Subst {
	return &Subst{
		types:  make(map[uint64]types.SemType),
		values: make(map[uint64]consteval.Value),
	}
}

func (s *Subst) Lookup(g *types.Generic) (types.SemType, bool) {
	t, ok := s.types[g.ID()]
	return t, ok
}

func (s *Subst) Value(g *types.Generic) (consteval.Value, bool) {
	v, ok := s.values[g.ID()]
	return v, ok
}

func (s *Subst) bind(g *types.Generic, t types.SemType)         { s.types[g.ID()] = t }
func (s *Subst) bindValue(g *types.Generic, v consteval.Value) { s.values[g.ID()] = v }

// Len is the number of bindings made so far.
func (s *Subst) Len() int { return len(s.types) + len(s.values) }

// recordInstance unpacks a struct or union produced from a record template.
func recordInstance(t types.SemType) (tmpl *types.Named, args []types.PolyArg, polymorphic bool, ok bool) {
	switch u := types.Under(t).(type) {
	case *types.Struct:
		if u.Template != nil {
			return u.Template, u.Args, u.Polymorphic, true
		}
	case *types.Union:
		if u.Template != nil {
			return u.Template, u.Args, u.Polymorphic, true
		}
	}
	return nil, nil, false, false
}

func templateParams(tmpl *types.Named) *types.Tuple {
	switch u := tmpl.Underlying().(type) {
	case *types.Struct:
		return u.PolyParams
	case *types.Union:
		return u.PolyParams
	}
	return nil
}

func (c *Checker) assignableType(env Env, src, dst types.SemType) bool {
	trial := Operand{Mode: ModeValue, Type: src}
	return c.isAssignableTo(env.Suppressed(), &trial, dst)
}

// unify matches the polymorphic type poly against src, recording bindings in
// s. Inside a compound type (the element of a pointer, slice and so on)
// matching is by identity; at the top level an assignable src is enough.
func (c *Checker) unify(env Env, poly, src types.SemType, compound bool, s *Subst) bool {
	if poly == nil || src == nil || types.IsInvalid(src) {
		return false
	}
	switch p := poly.(type) {
	case *types.Basic:
		if compound {
			return types.Identical(p, src)
		}
		return c.assignableType(env, src, p)

	case *types.Generic:
		if bound, ok := s.Lookup(p); ok {
			if compound {
				return types.Identical(bound, src)
			}
			return c.assignableType(env, src, bound)
		}
		if p.Specialization != nil && !c.matchSpecialization(env, p.Specialization, src, s) {
			return false
		}
		s.bind(p, types.Default(src))
		return true

	case *types.Named:
		if _, _, polymorphic, ok := recordInstance(p); ok && polymorphic {
			return c.unifyInstance(env, p, src, s)
		}
		if compound || !types.IsPolymorphic(p) {
			return types.Identical(p, src)
		}
		return c.assignableType(env, src, p)

	case *types.Opaque:
		if so, ok := types.Under(src).(*types.Opaque); ok {
			return c.unify(env, p.Elem, so.Elem, true, s)
		}
	case *types.Pointer:
		if sp, ok := types.Under(src).(*types.Pointer); ok {
			return c.unify(env, p.Elem, sp.Elem, true, s)
		}
	case *types.Slice:
		if ss, ok := types.Under(src).(*types.Slice); ok {
			return c.unify(env, p.Elem, ss.Elem, true, s)
		}
	case *types.DynamicArray:
		if sd, ok := types.Under(src).(*types.DynamicArray); ok {
			return c.unify(env, p.Elem, sd.Elem, true, s)
		}

	case *types.Array:
		sa, ok := types.Under(src).(*types.Array)
		if !ok {
			return false
		}
		if p.CountParam != nil {
			if v, ok := s.Value(p.CountParam); ok {
				n, exact := v.Int64()
				if !exact || n != sa.Count {
					return false
				}
			} else {
				s.bindValue(p.CountParam, consteval.MakeInt64(sa.Count))
			}
		} else if p.Count != sa.Count {
			return false
		}
		return c.unify(env, p.Elem, sa.Elem, true, s)

	case *types.Enum:
		return false

	case *types.BitSet:
		sb, ok := types.Under(src).(*types.BitSet)
		if !ok || !c.unify(env, p.Elem, sb.Elem, true, s) {
			return false
		}
		if p.Underlying == nil {
			return true
		}
		return sb.Underlying != nil && c.unify(env, p.Underlying, sb.Underlying, true, s)

	case *types.Union:
		su, ok := types.Under(src).(*types.Union)
		if !ok || len(p.Variants) != len(su.Variants) {
			return false
		}
		for i, v := range p.Variants {
			if !c.unify(env, v, su.Variants[i], false, s) {
				return false
			}
		}
		return true

	case *types.Struct:
		return false

	case *types.Proc:
		sp, ok := types.Under(src).(*types.Proc)
		if !ok {
			return false
		}
		if p.CVararg != sp.CVararg || p.Variadic != sp.Variadic ||
			p.ParamCount() != sp.ParamCount() || p.ResultCount() != sp.ResultCount() {
			return false
		}
		for i, v := range p.Params.List() {
			if !c.unify(env, v.Type, sp.Params.At(i).Type, false, s) {
				return false
			}
		}
		for i, v := range p.Results.List() {
			if !c.unify(env, v.Type, sp.Results.At(i).Type, false, s) {
				return false
			}
		}
		return true

	case *types.Map:
		sm, ok := types.Under(src).(*types.Map)
		if !ok {
			return false
		}
		return c.unify(env, p.Key, sm.Key, true, s) && c.unify(env, p.Value, sm.Value, true, s)
	}
	return false
}

// unifyInstance matches a record instance still mentioning generics, such
// as Vec($T, $N), against a concrete instance of the same template.
func (c *Checker) unifyInstance(env Env, poly *types.Named, src types.SemType, s *Subst) bool {
	tmpl, pargs, _, _ := recordInstance(poly)
	stmpl, sargs, _, ok := recordInstance(src)
	if !ok || stmpl != tmpl || len(pargs) != len(sargs) {
		return false
	}
	params := templateParams(tmpl)
	for i, pa := range pargs {
		sa := sargs[i]
		isConst := params != nil && i < params.Len() && params.At(i).Kind == types.VarConst
		if isConst {
			if g, ok := pa.Type.(*types.Generic); ok && pa.IsType() {
				if v, bound := s.Value(g); bound {
					if !consteval.Equal(v, sa.Value) {
						return false
					}
					continue
				}
				s.bindValue(g, sa.Value)
				continue
			}
			if !pa.Equals(sa) {
				return false
			}
			continue
		}
		if !c.unify(env, pa.Type, sa.Type, true, s) {
			return false
		}
	}
	return true
}

// matchSpecialization checks src against the specialization of a generic
// (`$T/Vec`). A bare record template accepts any of its instances.
func (c *Checker) matchSpecialization(env Env, want, src types.SemType, s *Subst) bool {
	if named, ok := want.(*types.Named); ok && types.IsPolyTemplate(named) {
		tmpl, _, _, ok := recordInstance(src)
		return ok && tmpl == named
	}
	if types.IsPolymorphic(want) {
		return c.unify(env, want, src, true, s)
	}
	return types.Identical(want, src)
}

// apply rebuilds t with every bound generic replaced by its binding.
// Unbound generics are left in place.
func (c *Checker) apply(env Env, t types.SemType, s *Subst) types.SemType {
	if t == nil || !types.IsPolymorphic(t) {
		return t
	}
	switch u := t.(type) {
	case *types.Generic:
		if bound, ok := s.Lookup(u); ok {
			return bound
		}
		return u
	case *types.Named:
		tmpl, args, polymorphic, ok := recordInstance(u)
		if !ok || !polymorphic {
			return u
		}
		params := templateParams(tmpl)
		next := make([]types.PolyArg, len(args))
		for i, a := range args {
			isConst := params != nil && i < params.Len() && params.At(i).Kind == types.VarConst
			if g, ok := a.Type.(*types.Generic); ok && a.IsType() && isConst {
				if v, bound := s.Value(g); bound {
					next[i] = types.PolyArg{Type: params.At(i).Type, Value: v}
					continue
				}
			}
			if a.IsType() {
				next[i] = types.PolyArg{Type: c.apply(env, a.Type, s)}
			} else {
				next[i] = a
			}
		}
		return c.instantiateRecord(env, tmpl, next)
	case *types.Pointer:
		return types.NewPointer(c.apply(env, u.Elem, s))
	case *types.Array:
		elem := c.apply(env, u.Elem, s)
		if u.CountParam != nil {
			if v, ok := s.Value(u.CountParam); ok {
				if n, exact := v.Int64(); exact {
					return types.NewArray(elem, n)
				}
			}
			return &types.Array{Elem: elem, CountParam: u.CountParam}
		}
		return types.NewArray(elem, u.Count)
	case *types.Slice:
		return types.NewSlice(c.apply(env, u.Elem, s))
	case *types.DynamicArray:
		return types.NewDynamicArray(c.apply(env, u.Elem, s))
	case *types.Map:
		return types.NewMap(c.apply(env, u.Key, s), c.apply(env, u.Value, s))
	case *types.Opaque:
		return &types.Opaque{Elem: c.apply(env, u.Elem, s)}
	case *types.BitSet:
		out := *u
		out.Elem = c.apply(env, u.Elem, s)
		if u.Underlying != nil {
			out.Underlying = c.apply(env, u.Underlying, s)
		}
		return &out
	case *types.Union:
		out := *u
		out.Variants = make([]types.SemType, len(u.Variants))
		for i, v := range u.Variants {
			out.Variants[i] = c.apply(env, v, s)
		}
		return &out
	case *types.Tuple:
		return c.applyTuple(env, u, s)
	case *types.Proc:
		out := *u
		out.Params = c.applyTuple(env, u.Params, s)
		out.Results = c.applyTuple(env, u.Results, s)
		return &out
	}
	return t
}

func (c *Checker) applyTuple(env Env, t *types.Tuple, s *Subst) *types.Tuple {
	if t == nil {
		return nil
	}
	vars := make([]*types.Var, t.Len())
	for i, v := range t.Vars {
		nv := *v
		nv.Type = c.apply(env, v.Type, s)
		vars[i] = &nv
	}
	return types.NewTuple(vars...)
}
