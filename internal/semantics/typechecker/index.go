package typechecker

import (
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/types"
)

// indexTarget unwraps a pointer to an array, slice or dynamic array.
func indexTarget(t types.SemType) (types.SemType, bool) {
	if p, ok := types.Under(t).(*types.Pointer); ok {
		switch types.Under(p.Elem).(type) {
		case *types.Array, *types.Slice, *types.DynamicArray:
			return p.Elem, true
		}
	}
	return t, false
}

func (c *Checker) index(env Env, n *ast.IndexExpr) Operand {
	x := c.exprOrType(env, n.X, nil)
	if x.Mode == ModeInvalid {
		return invalidOperand(n)
	}
	if !x.IsValue() {
		c.report(env, diagnostics.NotIndexable(locOf(n), x.exprString(), x.typeString()))
		return invalidOperand(n)
	}
	t, indirect := indexTarget(x.Type)

	if m, ok := types.Under(t).(*types.Map); ok {
		key := c.expr(env, n.Index, m.Key)
		c.checkAssignment(env, &key, m.Key, "map index")
		if key.Mode == ModeInvalid {
			return invalidOperand(n)
		}
		c.noteDep("__dynamic_map_get")
		return Operand{Mode: ModeMapIndex, Type: m.Value}
	}

	var elem types.SemType
	length := int64(-1)
	mode := ModeVariable
	switch u := types.Under(t).(type) {
	case *types.Array:
		elem, length = u.Elem, u.Count
		switch {
		case indirect:
		case x.Mode == ModeVariable || x.Mode == ModeImmutable:
			mode = x.Mode
		default:
			mode = ModeValue
		}
	case *types.Slice:
		elem = u.Elem
	case *types.DynamicArray:
		elem = u.Elem
	case *types.Basic:
		if !types.IsString(u) && !types.IsCstring(u) {
			break
		}
		elem, mode = types.TypeU8, ModeValue
		if x.Mode == ModeConstant {
			length = int64(len(x.Value.StringVal()))
		}
	}
	if elem == nil {
		c.report(env, diagnostics.NotIndexable(locOf(n), x.exprString(), x.typeString()))
		return invalidOperand(n)
	}
	if _, _, ok := c.indexValue(env, n.Index, length, false); !ok {
		return invalidOperand(n)
	}
	return Operand{Mode: mode, Type: elem}
}

// indexValue checks an index or slice bound. Constant indices are checked
// against length when it is known; a slice bound may equal it.
func (c *Checker) indexValue(env Env, e ast.Expression, length int64, bound bool) (int64, bool, bool) {
	o := c.expr(env, e, nil)
	if o.Mode == ModeInvalid {
		return 0, false, false
	}
	c.convertToTyped(env, &o, types.TypeInt)
	if o.Mode == ModeInvalid {
		return 0, false, false
	}
	if !types.IsInteger(o.Type) {
		c.errorf(env, e, diagnostics.ErrNotIndexable, "index '%s' must be an integer, got '%s'", o.exprString(), o.Type)
		return 0, false, false
	}
	if o.Mode != ModeConstant {
		return 0, false, true
	}
	v, ok := o.Value.Int64()
	if !ok || v < 0 {
		c.errorf(env, e, diagnostics.ErrNotIndexable, "index '%s' cannot be negative", o.exprString())
		return 0, false, false
	}
	limit := length
	if bound {
		limit++
	}
	if length >= 0 && v >= limit {
		c.errorf(env, e, diagnostics.ErrNotIndexable, "index %d out of bounds, expected 0..<%d", v, limit)
		return 0, false, false
	}
	return v, true, true
}

func (c *Checker) sliceExpr(env Env, n *ast.SliceExpr) Operand {
	x := c.expr(env, n.X, nil)
	if x.Mode == ModeInvalid {
		return invalidOperand(n)
	}
	t, indirect := indexTarget(x.Type)

	var result types.SemType
	length := int64(-1)
	switch u := types.Under(t).(type) {
	case *types.Array:
		if !indirect && x.Mode != ModeVariable {
			c.errorf(env, n, diagnostics.ErrNotAddressable,
				"cannot slice array '%s', value is not addressable", x.exprString())
			return invalidOperand(n)
		}
		result, length = types.NewSlice(u.Elem), u.Count
	case *types.Slice:
		result = t
	case *types.DynamicArray:
		result = types.NewSlice(u.Elem)
	case *types.Basic:
		if types.IsString(u) {
			result = types.TypeString
			if x.Mode == ModeConstant {
				length = int64(len(x.Value.StringVal()))
			}
		}
	}
	if result == nil {
		c.errorf(env, n, diagnostics.ErrNotIndexable, "cannot slice '%s' of type '%s'", x.exprString(), x.Type)
		return invalidOperand(n)
	}

	var lo, hi int64
	var loConst, hiConst bool
	ok := true
	if n.Low != nil {
		var good bool
		lo, loConst, good = c.indexValue(env, n.Low, length, true)
		ok = ok && good
	}
	if n.High != nil {
		var good bool
		hi, hiConst, good = c.indexValue(env, n.High, length, true)
		ok = ok && good
	}
	if !ok {
		return invalidOperand(n)
	}
	if loConst && hiConst && lo > hi {
		c.errorf(env, n, diagnostics.ErrNotIndexable, "invalid slice indices %d > %d", lo, hi)
		return invalidOperand(n)
	}
	return Operand{Mode: ModeValue, Type: result}
}
