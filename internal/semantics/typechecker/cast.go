package typechecker

import (
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/types"
)

// coreType strips names and enums down to the representation type.
func coreType(t types.SemType) types.SemType {
	u := types.Under(t)
	if en, ok := u.(*types.Enum); ok {
		return types.Under(en.Base)
	}
	return u
}

func isPointerLike(t types.SemType) bool { return types.IsPointer(t) || types.IsRawptr(t) }

func isU8Pointer(t types.SemType) bool {
	p, ok := types.Under(t).(*types.Pointer)
	return ok && types.Identical(types.Under(p.Elem), types.TypeU8)
}

// castable reports whether an explicit cast from o to t is allowed.
func (c *Checker) castable(env Env, o *Operand, t types.SemType) bool {
	trial := *o
	if c.isAssignableTo(env.Suppressed(), &trial, t) {
		return true
	}

	src := coreType(o.Type)
	dst := coreType(t)
	if types.Identical(src, dst) {
		return true
	}

	if da, ok := dst.(*types.Array); ok {
		if sa, ok := src.(*types.Array); ok && types.Identical(da.Elem, sa.Elem) {
			return da.Count == sa.Count
		}
	}
	if ds, ok := dst.(*types.Slice); ok {
		if ss, ok := src.(*types.Slice); ok {
			return types.Identical(ds.Elem, ss.Elem)
		}
	}

	switch {
	case (types.IsBoolean(src) || types.IsInteger(src)) && (types.IsBoolean(dst) || types.IsInteger(dst)):
		return true
	case (types.IsInteger(src) || types.IsFloat(src)) && (types.IsInteger(dst) || types.IsFloat(dst)):
		return true
	case types.IsComplex(src) && types.IsComplex(dst):
		return true
	case isPointerLike(src) && isPointerLike(dst):
		return true
	case types.IsUintptr(src) && isPointerLike(dst), isPointerLike(src) && types.IsUintptr(dst):
		return true
	case types.IsU8Slice(src) && types.IsString(dst):
		return true
	case types.IsString(src) && types.IsU8Slice(dst):
		return true
	case types.IsCstring(src) && types.Identical(dst, types.TypeString):
		if o.Mode != ModeConstant {
			c.noteDep("cstring_to_string")
		}
		return true
	case types.IsCstring(src) && (isU8Pointer(dst) || types.IsRawptr(dst)):
		return true
	case (isU8Pointer(src) || types.IsRawptr(src)) && types.IsCstring(dst):
		return true
	case types.IsProc(src) && types.IsProc(dst):
		return true
	case types.IsProc(src) && types.IsRawptr(dst), types.IsRawptr(src) && types.IsProc(dst):
		return true
	}

	if op, ok := src.(*types.Opaque); ok {
		return types.Identical(dst, op.Elem)
	}
	if op, ok := dst.(*types.Opaque); ok {
		return types.Identical(op.Elem, src)
	}
	return false
}

// castInternal converts o to t in place when a cast is legal.
func (c *Checker) castInternal(env Env, o *Operand, t types.SemType) bool {
	isConst := o.Mode == ModeConstant
	bt := types.Under(t)
	if isConst && types.IsConstantType(bt) {
		if _, ok := coreType(bt).(*types.Basic); ok {
			if v, ok := c.representable(o.Value, bt); ok {
				o.Value = v
				return true
			}
			if types.IsPointer(t) && c.castable(env, o, t) {
				return true
			}
		}
		return false
	}
	if !c.castable(env, o, t) {
		return false
	}
	if o.Mode != ModeConstant {
		o.Mode = ModeValue
	} else if types.IsSlice(t) && types.IsString(o.Type) {
		o.Mode = ModeValue
	} else if !types.IsConstantType(t) {
		o.Mode = ModeValue
	}
	return true
}

func (c *Checker) checkCast(env Env, o *Operand, t types.SemType) {
	if !o.IsValue() {
		c.errorf(env, o.Expr, diagnostics.ErrInvalidCast, "only values can be casted")
		o.invalidate()
		return
	}
	from := o.Type
	isConst := o.Mode == ModeConstant
	if !c.castInternal(env, o, t) {
		c.errorf(env, o.Expr, diagnostics.ErrInvalidCast,
			"cannot cast '%s' as '%s' from '%s'", o.exprString(), t, o.typeString())
		o.invalidate()
		return
	}
	if c.cfg.Options.StrictCasts && types.IsTyped(from) && types.Identical(from, t) {
		c.warnf(env, o.Expr, diagnostics.WarnRedundantCast, "redundant cast of '%s' to '%s'", o.exprString(), t)
	}
	if types.IsUntyped(from) {
		final := t
		if isConst && !types.IsConstantType(t) {
			final = types.Default(from)
		}
		c.updateExprType(env, o.Expr, final, true)
	}
	o.Type = t
}

func (c *Checker) checkTransmute(env Env, node ast.Expression, o *Operand, t types.SemType) bool {
	if !o.IsValue() {
		c.errorf(env, o.Expr, diagnostics.ErrInvalidCast, "'transmute' can only be applied to values")
		o.invalidate()
		return false
	}
	if o.Mode == ModeConstant {
		c.errorf(env, o.Expr, diagnostics.ErrIllegalConstantUse,
			"cannot transmute a constant expression: '%s'", o.exprString())
		o.invalidate()
		o.Expr = node
		return false
	}
	if types.IsUntyped(o.Type) {
		c.errorf(env, o.Expr, diagnostics.ErrIllegalConstantUse,
			"cannot transmute untyped expression: '%s'", o.exprString())
		o.invalidate()
		o.Expr = node
		return false
	}
	srcSize, dstSize := c.sizes.SizeOf(o.Type), c.sizes.SizeOf(t)
	if srcSize != dstSize {
		c.errorf(env, o.Expr, diagnostics.ErrInvalidCast,
			"cannot transmute '%s' to '%s', %d vs %d bytes", o.exprString(), t, srcSize, dstSize)
		o.invalidate()
		o.Expr = node
		return false
	}
	if c.cfg.Options.StrictCasts && types.Identical(o.Type, t) {
		c.warnf(env, o.Expr, diagnostics.WarnRedundantTransmute, "redundant transmute of '%s' to '%s'", o.exprString(), t)
	}
	o.Mode = ModeValue
	o.Type = t
	return true
}
