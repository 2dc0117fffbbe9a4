package typechecker

import (
	"fmt"
	"strings"

	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/types"
	"github.com/dimenus/Odin/internal/utils/numeric"
	"golang.org/x/exp/slices"
)

// representable reports whether v fits t, returning v converted to the
// value kind t stores.
func (c *Checker) representable(v consteval.Value, t types.SemType) (consteval.Value, bool) {
	if !v.IsValid() {
		return v, false
	}
	u := types.Under(t)
	if en, ok := u.(*types.Enum); ok {
		u = types.Under(en.Base)
	}
	switch u := u.(type) {
	case *types.Basic:
		return c.representableBasic(v, u)
	case *types.BitSet:
		iv := consteval.ToInteger(v)
		return iv, iv.IsValid()
	case *types.Pointer:
		return v, v.Kind() == consteval.Pointer
	}
	return v, false
}

func (c *Checker) representableBasic(v consteval.Value, b *types.Basic) (consteval.Value, bool) {
	switch {
	case b.Flags&types.FlagBoolean != 0:
		return v, v.Kind() == consteval.Bool
	case b.Flags&types.FlagString != 0:
		return v, v.Kind() == consteval.String
	case b.Flags&types.FlagInteger != 0:
		iv := consteval.ToInteger(v)
		if !iv.IsValid() {
			return v, false
		}
		if b.Flags&types.FlagUntyped != 0 {
			return iv, true
		}
		bits := int(c.sizes.SizeOf(b) * 8)
		lo, hi := numeric.Bounds(bits, b.Flags&types.FlagUnsigned == 0)
		n := iv.BigInt()
		return iv, n.Cmp(lo) >= 0 && n.Cmp(hi) <= 0
	case b.Flags&types.FlagFloat != 0:
		fv := consteval.ToFloat(v)
		return fv, fv.IsValid()
	case b.Flags&types.FlagComplex != 0:
		cv := consteval.ToComplex(v)
		return cv, cv.IsValid()
	case b.Flags&types.FlagPointer != 0:
		if v.Kind() == consteval.Pointer {
			return v, true
		}
	}
	return v, false
}

// checkIsExpressible narrows a constant operand to t or reports why it
// cannot be.
func (c *Checker) checkIsExpressible(env Env, o *Operand, t types.SemType) {
	if v, ok := c.representable(o.Value, t); ok {
		o.Value = v
		return
	}
	expr := o.exprString()
	val := o.Value.String()
	switch {
	case types.IsNumeric(o.Type) && types.IsNumeric(t):
		if !types.IsInteger(o.Type) && types.IsInteger(t) {
			c.errorf(env, o.Expr, diagnostics.ErrConstantOverflow, "'%s' truncated to '%s'", expr, t)
		} else {
			shown := val
			if expr != val {
				shown = expr + " = " + val
			}
			c.report(env, diagnostics.ConstantOverflow(locOf(o.Expr), shown, t.String()))
		}
	default:
		c.report(env, diagnostics.TypeMismatch(locOf(o.Expr),
			fmt.Sprintf("cannot convert '%s' to '%s'", expr, t)))
	}
	o.invalidate()
}

// convertToTyped gives an untyped operand the type t. Typed operands are
// left untouched.
func (c *Checker) convertToTyped(env Env, o *Operand, t types.SemType) {
	if o.Mode == ModeInvalid || o.Mode == ModeType || !types.IsUntyped(o.Type) {
		return
	}
	if t == nil || types.IsInvalid(t) {
		return
	}

	if types.IsUntyped(t) {
		c.convertUntypedPair(env, o, t)
		return
	}

	target := t
	if env.InEnumContext {
		if en, ok := types.Under(t).(*types.Enum); ok {
			target = en.Base
		}
	}

	final := target
	switch u := types.Under(target).(type) {
	case *types.Basic:
		if o.isUntypedNil() {
			if u.Kind == types.Any || u.Kind == types.Cstring || types.HasNil(u) {
				final = types.TypeUntypedNil
				break
			}
			c.nilError(env, o, t)
			return
		}
		if o.isUntypedUndef() {
			if !types.HasUndef(u) {
				c.convertError(env, o, t)
				return
			}
			final = types.TypeUntypedUndef
			break
		}
		if u.Kind == types.Any {
			final = types.Default(o.Type)
			break
		}
		if o.Mode == ModeConstant {
			c.checkIsExpressible(env, o, target)
			if o.Mode == ModeInvalid {
				return
			}
			break
		}
		switch {
		case types.IsBoolean(o.Type):
			if u.Flags&types.FlagBoolean == 0 {
				c.convertError(env, o, t)
				return
			}
		case types.IsNumeric(o.Type):
			if u.Flags&types.FlagNumeric == 0 {
				c.convertError(env, o, t)
				return
			}
		case types.IsString(o.Type):
			if u.Flags&types.FlagString == 0 {
				c.convertError(env, o, t)
				return
			}
		}

	case *types.Enum:
		if o.Mode == ModeConstant {
			c.checkIsExpressible(env, o, target)
			if o.Mode == ModeInvalid {
				return
			}
			break
		}
		if !types.IsNumeric(o.Type) {
			c.convertError(env, o, t)
			return
		}

	case *types.Union:
		if o.isUntypedNil() || o.isUntypedUndef() {
			if (o.isUntypedNil() && types.HasNil(u)) || (o.isUntypedUndef() && types.HasUndef(u)) {
				final = o.Type
				break
			}
			c.nilError(env, o, t)
			return
		}
		c.convertToUnionVariant(env, o, t, u)
		return

	case *types.Array:
		if o.isUntypedNil() || o.isUntypedUndef() {
			if o.isUntypedUndef() {
				final = o.Type
				break
			}
			c.nilError(env, o, t)
			return
		}
		elem := types.BaseArrayElem(t)
		if !c.isAssignableTo(env, o, elem) {
			c.convertError(env, o, t)
			return
		}
		c.convertToTyped(env, o, elem)
		o.Mode = ModeValue

	default:
		switch {
		case o.isUntypedNil() && types.HasNil(target):
			final = types.TypeUntypedNil
		case o.isUntypedUndef() && types.HasUndef(target):
			final = types.TypeUntypedUndef
		case o.isUntypedNil():
			c.nilError(env, o, t)
			return
		default:
			c.convertError(env, o, t)
			return
		}
	}

	c.updateExprType(env, o.Expr, final, true)
	o.Type = final
}

// convertUntypedPair widens an untyped operand towards another untyped
// kind; numeric kinds move up the integer, float, complex ladder.
func (c *Checker) convertUntypedPair(env Env, o *Operand, t types.SemType) {
	if types.Identical(o.Type, t) {
		return
	}
	if types.IsNumeric(o.Type) && types.IsNumeric(t) {
		if untypedRank(o.Type) < untypedRank(t) {
			c.updateExprType(env, o.Expr, t, false)
			o.Type = t
		}
		return
	}
	if o.isUntypedNil() || types.IsUntypedNil(t) || o.isUntypedUndef() || types.IsUntypedUndef(t) {
		return
	}
	c.convertError(env, o, t)
}

func untypedRank(t types.SemType) int {
	switch {
	case types.IsRune(t):
		return 0
	case types.IsInteger(t):
		return 1
	case types.IsFloat(t):
		return 2
	case types.IsComplex(t):
		return 3
	}
	return -1
}

// convertToUnionVariant picks the single best variant for an untyped
// operand assigned to a union.
func (c *Checker) convertToUnionVariant(env Env, o *Operand, t types.SemType, u *types.Union) {
	best := int64(0)
	var candidates []types.SemType
	for _, v := range u.Variants {
		trial := *o
		d := c.distance(env.Suppressed(), &trial, v)
		if d < 0 {
			continue
		}
		s := AssignScore(d, false)
		switch {
		case s > best:
			best = s
			candidates = []types.SemType{v}
		case s == best:
			candidates = append(candidates, v)
		}
	}

	switch len(candidates) {
	case 1:
		c.convertToTyped(env, o, candidates[0])
	case 0:
		c.report(env, diagnostics.TypeMismatch(locOf(o.Expr),
			fmt.Sprintf("cannot convert '%s' to '%s'", o.exprString(), t)).
			WithNote("valid variants: "+variantList(u.Variants)))
		o.invalidate()
	default:
		notes := make([]string, len(candidates))
		for i, v := range candidates {
			notes[i] = fmt.Sprintf("'%s' is a possible variant", v)
		}
		slices.Sort(notes)
		c.report(env, diagnostics.Ambiguous(locOf(o.Expr),
			fmt.Sprintf("ambiguous type conversion of '%s' to '%s'", o.exprString(), t), notes))
		o.invalidate()
	}
}

func variantList(vs []types.SemType) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = "'" + v.String() + "'"
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func (c *Checker) convertError(env Env, o *Operand, t types.SemType) {
	c.report(env, diagnostics.TypeMismatch(locOf(o.Expr),
		fmt.Sprintf("cannot convert '%s' of type '%s' to '%s'", o.exprString(), o.typeString(), t)))
	o.invalidate()
}

func (c *Checker) nilError(env Env, o *Operand, t types.SemType) {
	c.report(env, diagnostics.TypeMismatch(locOf(o.Expr),
		fmt.Sprintf("cannot convert untyped value '%s' to '%s'", o.exprString(), t)))
	o.invalidate()
}

// updateExprType rewrites the recorded type of an untyped expression tree
// once its final type is known. A non-final update only widens untyped
// records.
func (c *Checker) updateExprType(env Env, e ast.Expression, t types.SemType, final bool) {
	if e == nil {
		return
	}
	rec, ok := c.info.Records[e]
	if !ok || !types.IsUntyped(rec.Type) {
		return
	}
	if !final && !types.IsUntyped(t) {
		return
	}

	switch n := e.(type) {
	case *ast.ParenExpr:
		c.updateExprType(env, n.X, t, final)
	case *ast.UnaryExpr:
		if rec.Mode != ModeConstant {
			c.updateExprType(env, n.X, t, final)
		}
	case *ast.BinaryExpr:
		switch {
		case rec.Mode == ModeConstant:
		case isComparisonOp(n.Op.Kind):
			// operands keep their own types
		case isShiftOp(n.Op.Kind):
			c.updateExprType(env, n.X, t, final)
		default:
			c.updateExprType(env, n.X, t, final)
			c.updateExprType(env, n.Y, t, final)
		}
	}

	if final && rec.IsLHS && !types.IsInteger(t) {
		c.errorf(env, e, diagnostics.ErrInvalidOperator,
			"shifted operand '%s' must be an integer, got '%s'", ast.ExprString(e), t)
	}
	if final && rec.Mode == ModeConstant {
		if v, ok := c.representable(rec.Value, t); ok {
			rec.Value = v
		}
	}
	rec.Type = t
	c.info.Records[e] = rec
}
