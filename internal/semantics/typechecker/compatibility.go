package typechecker

import (
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/types"
)

// MaximumDistance is the largest distance any single conversion rule yields.
const MaximumDistance = 10

// AssignScore turns a distance into a call-candidate score; higher wins.
// Negative distances score zero.
func AssignScore(distance int64, variadic bool) int64 {
	if distance < 0 {
		return 0
	}
	const c = 3*MaximumDistance*MaximumDistance + 1
	d := distance * distance
	if variadic {
		d += distance + 1
	}
	if d > c {
		return 0
	}
	return c - d
}

// Distance reports how far o is from being a value of t: 0 for identical
// types, larger for looser conversions, -1 when no implicit conversion
// exists. It may register runtime type info as a side effect.
func (c *Checker) Distance(env Env, o Operand, t types.SemType) int64 {
	return c.distance(env, &o, t)
}

func (c *Checker) distance(env Env, o *Operand, t types.SemType) int64 {
	if o.Mode == ModeInvalid || types.IsInvalid(t) || types.IsInvalid(o.Type) {
		return -1
	}
	if o.Mode == ModeBuiltin || o.Mode == ModeType {
		return -1
	}
	if types.Identical(o.Type, t) {
		return 0
	}

	src := types.Under(o.Type)
	dst := types.Under(t)

	if o.isUntypedUndef() {
		if types.HasUndef(dst) {
			return 1
		}
		return -1
	}
	if o.isUntypedNil() {
		if types.HasNil(dst) {
			return 1
		}
		return -1
	}

	if types.IsUntyped(src) {
		if types.IsAny(dst) {
			if c.cfg.Options.DisallowRTTI {
				return -1
			}
			c.registerTypeInfo(types.Default(o.Type))
			return 10
		}
		if b, ok := dst.(*types.Basic); ok {
			return c.untypedBasicDistance(o, b, t)
		}
	}

	if env.InEnumContext {
		if en, ok := dst.(*types.Enum); ok && types.Identical(en.Base, o.Type) {
			return 3
		}
	}

	if level := types.UsingDepth(o.Type, t); level > 0 {
		return 4 + int64(level)
	}

	if types.IsRawptr(dst) && types.Identical(t, types.TypeRawptr) && types.IsPointer(src) {
		return 5
	}

	if types.IsPolymorphic(t) && !types.IsPolymorphic(o.Type) && !types.IsProc(dst) {
		if c.unify(env.Suppressed(), t, o.Type, false, newSubst()) {
			return 2
		}
	}

	if u, ok := dst.(*types.Union); ok {
		if u.Variant(o.Type) {
			return 1
		}
	}

	if p, ok := dst.(*types.Proc); ok {
		if types.Identical(src, dst) {
			return 3
		}
		if e, ok := c.polyProcAssignment(env, o, p); ok {
			e.MarkUsed()
			return 4
		}
	}

	if _, ok := dst.(*types.Array); ok {
		elem := types.BaseArrayElem(t)
		if d := c.distance(env, o, elem); d >= 0 {
			return d + 6
		}
	}

	if types.IsAny(dst) && !types.IsPolymorphic(o.Type) {
		if o.Mode == ModeContext || c.cfg.Options.DisallowRTTI {
			return -1
		}
		c.registerTypeInfo(o.Type)
		return 10
	}

	if ac, ok := o.Expr.(*ast.AutoCastExpr); ok {
		inner := *o
		inner.Expr = ac.X
		if c.castInternal(env.Suppressed(), &inner, t) {
			return 10
		}
	}
	return -1
}

// untypedBasicDistance rates an untyped operand against a basic target.
func (c *Checker) untypedBasicDistance(o *Operand, dst *types.Basic, t types.SemType) int64 {
	typed := dst.Flags&types.FlagUntyped == 0
	if o.Mode == ModeConstant {
		if _, ok := c.representable(o.Value, t); !ok {
			return -1
		}
		if typed && sameFamily(o.Type, dst) {
			return 1
		}
		return 2
	}
	switch {
	case types.IsRune(o.Type):
		if dst.Flags&(types.FlagInteger|types.FlagRune) != 0 {
			if typed {
				return 2
			}
			return 1
		}
	case types.IsBoolean(o.Type):
		if dst.Flags&types.FlagBoolean != 0 {
			if typed {
				return 2
			}
			return 1
		}
	}
	return -1
}

// sameFamily reports whether an untyped kind lands on a target of its own
// numeric family.
func sameFamily(untyped types.SemType, dst *types.Basic) bool {
	switch {
	case types.IsRune(untyped), types.IsInteger(untyped):
		return dst.Flags&(types.FlagInteger|types.FlagRune) != 0
	case types.IsFloat(untyped):
		return dst.Flags&types.FlagFloat != 0
	case types.IsComplex(untyped):
		return dst.Flags&types.FlagComplex != 0
	}
	return false
}

func (c *Checker) isAssignableTo(env Env, o *Operand, t types.SemType) bool {
	return c.distance(env, o, t) >= 0
}

// checkNotTuple rejects a multi-valued operand where one value is expected.
func (c *Checker) checkNotTuple(env Env, o *Operand) {
	if o.Mode == ModeInvalid {
		return
	}
	if tup, ok := o.Type.(*types.Tuple); ok && tup.Len() != 1 {
		c.errorf(env, o.Expr, diagnostics.ErrArityMismatch,
			"%d-valued tuple found where single value expected", tup.Len())
		o.invalidate()
	}
}

// checkAssignment makes o a value of t, converting untyped operands first.
// A nil target only finalises an untyped operand to its default type.
func (c *Checker) checkAssignment(env Env, o *Operand, t types.SemType, context string) {
	c.checkNotTuple(env, o)
	if o.Mode == ModeInvalid {
		return
	}

	if o.Mode == ModeProcGroup {
		c.assignProcGroup(env, o, t, context)
		return
	}

	if types.IsUntyped(o.Type) {
		target := t
		if target == nil || types.IsAny(target) {
			if target == nil && o.isUntypedNil() {
				c.errorf(env, o.Expr, diagnostics.ErrIllegalConstantUse, "use of untyped nil in %s", context)
				o.invalidate()
				return
			}
			if target == nil && o.isUntypedUndef() {
				c.errorf(env, o.Expr, diagnostics.ErrIllegalConstantUse, "use of --- in %s", context)
				o.invalidate()
				return
			}
			if !o.isUntypedNil() {
				target = types.Default(o.Type)
			}
		}
		c.convertToTyped(env, o, target)
		if o.Mode == ModeInvalid {
			return
		}
	}

	if t == nil {
		return
	}

	if c.isAssignableTo(env, o, t) {
		return
	}
	switch o.Mode {
	case ModeBuiltin:
		c.errorf(env, o.Expr, diagnostics.ErrNotAssignable,
			"cannot assign built-in procedure '%s' in %s", o.exprString(), context)
	case ModeType:
		c.errorf(env, o.Expr, diagnostics.ErrNotAssignable,
			"cannot assign '%s' which is a type in %s", o.exprString(), context)
	default:
		if types.IsAny(t) && c.cfg.Options.DisallowRTTI {
			c.report(env, diagnostics.TypeMismatch(locOf(o.Expr),
				"cannot box '"+o.exprString()+"' into 'any' when runtime type information is disabled"))
			break
		}
		c.report(env, diagnostics.NotAssignable(locOf(o.Expr), o.exprString(), o.typeString(), t.String(), context))
	}
	o.invalidate()
}

// assignProcGroup picks the first member of a group assignable to t.
func (c *Checker) assignProcGroup(env Env, o *Operand, t types.SemType, context string) {
	group := o.ProcGroup
	if t != nil {
		for _, m := range group.Group {
			c.resolve(env, m)
			cand := Operand{Mode: ModeValue, Type: m.Type, Expr: o.Expr}
			if c.isAssignableTo(env.Suppressed(), &cand, t) {
				o.Mode = ModeValue
				o.Type = m.Type
				o.ProcGroup = nil
				if id, ok := ast.Unparen(o.Expr).(*ast.IdentifierExpr); ok {
					c.info.Uses[id] = m
				}
				m.MarkUsed()
				c.record(o.Expr, *o)
				return
			}
		}
	}
	to := "an untyped target"
	if t != nil {
		to = "'" + t.String() + "'"
	}
	c.errorf(env, o.Expr, diagnostics.ErrNotAssignable,
		"cannot assign overloaded procedure '%s' to %s in %s", o.exprString(), to, context)
	o.invalidate()
}
