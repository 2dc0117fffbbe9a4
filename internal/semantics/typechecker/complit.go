package typechecker

import (
	"math/big"

	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/tokens"
	"github.com/dimenus/Odin/internal/types"
)

// compositeLit checks `T{...}`. Without a written type the hint decides.
func (c *Checker) compositeLit(env Env, n *ast.CompositeLit, hint types.SemType) Operand {
	var t types.SemType
	switch {
	case n.Type != nil:
		if at, ok := n.Type.(*ast.ArrayType); ok && at.Infer {
			elem := c.typeExpr(env, at.Elem)
			if types.IsInvalid(elem) {
				return invalidOperand(n)
			}
			count, ok := c.arrayElems(env, n.Elts, elem, -1)
			if !ok {
				return invalidOperand(n)
			}
			return Operand{Mode: ModeValue, Type: types.NewArray(elem, count)}
		}
		t = c.typeExpr(env, n.Type)
	case hint != nil:
		t = hint
	default:
		c.errorf(env, n, diagnostics.ErrInvalidType, "cannot determine the type of the compound literal")
		return invalidOperand(n)
	}
	if types.IsInvalid(t) {
		return invalidOperand(n)
	}

	ok := true
	switch u := types.Under(t).(type) {
	case *types.Struct:
		ok = c.structLit(env, n, t, u)
	case *types.Array:
		_, ok = c.arrayElems(env, n.Elts, u.Elem, u.Count)
	case *types.Slice:
		_, ok = c.arrayElems(env, n.Elts, u.Elem, -1)
	case *types.DynamicArray:
		_, ok = c.arrayElems(env, n.Elts, u.Elem, -1)
		if len(n.Elts) > 0 {
			c.noteDep("__dynamic_array_reserve")
			c.noteDep("__dynamic_array_append")
		}
	case *types.Map:
		ok = c.mapLit(env, n, u)
		if len(n.Elts) > 0 {
			c.noteDep("__dynamic_map_set")
		}
	case *types.BitSet:
		return c.bitSetLit(env, n, t, u)
	case *types.Union:
		if len(n.Elts) > 0 {
			c.errorf(env, n, diagnostics.ErrInvalidExpression,
				"compound literals of the union type '%s' are not allowed", t)
			ok = false
		}
	default:
		if !types.IsAny(t) || len(n.Elts) > 0 {
			c.errorf(env, n, diagnostics.ErrInvalidType, "invalid compound literal type '%s'", t)
			ok = false
		}
	}
	if !ok {
		return invalidOperand(n)
	}
	return Operand{Mode: ModeValue, Type: t}
}

func (c *Checker) structLit(env Env, n *ast.CompositeLit, t types.SemType, st *types.Struct) bool {
	if len(n.Elts) == 0 {
		return true
	}
	_, named := n.Elts[0].(*ast.FieldValue)
	for _, el := range n.Elts[1:] {
		if _, isFV := el.(*ast.FieldValue); isFV != named {
			c.errorf(env, el, diagnostics.ErrInvalidExpression,
				"mixture of 'field = value' and value elements in a structure literal is not allowed")
			return false
		}
	}

	ok := true
	if named {
		seen := make(map[string]bool)
		for _, el := range n.Elts {
			fv := el.(*ast.FieldValue)
			id, isIdent := fv.Field.(*ast.IdentifierExpr)
			if !isIdent {
				c.errorf(env, fv.Field, diagnostics.ErrInvalidExpression,
					"invalid field name '%s' in structure literal", ast.ExprString(fv.Field))
				ok = false
				continue
			}
			f, found := st.Field(id.Name)
			if !found {
				c.errorf(env, id, diagnostics.ErrFieldNotFound,
					"unknown field '%s' in structure literal of type '%s'", id.Name, t)
				ok = false
				continue
			}
			if seen[id.Name] {
				c.errorf(env, id, diagnostics.ErrInvalidExpression,
					"duplicate field '%s' in structure literal", id.Name)
				ok = false
				continue
			}
			seen[id.Name] = true
			o := c.expr(env, fv.Value, f.Type)
			c.checkAssignment(env, &o, f.Type, "structure literal")
			ok = ok && o.Mode != ModeInvalid
		}
		return ok
	}

	if len(n.Elts) != len(st.Fields) {
		which := "few"
		if len(n.Elts) > len(st.Fields) {
			which = "many"
		}
		c.errorf(env, n, diagnostics.ErrArityMismatch,
			"too %s values in structure literal, expected %d, got %d", which, len(st.Fields), len(n.Elts))
		return false
	}
	for i, el := range n.Elts {
		f := st.Fields[i]
		o := c.expr(env, el, f.Type)
		c.checkAssignment(env, &o, f.Type, "structure literal")
		ok = ok && o.Mode != ModeInvalid
	}
	return ok
}

// arrayElems checks the elements of an array-like literal and returns the
// element count, counting `index = value` designators. count < 0 means
// unbounded.
func (c *Checker) arrayElems(env Env, elts []ast.Expression, elem types.SemType, count int64) (int64, bool) {
	var next, size int64
	ok := true
	for _, el := range elts {
		val := el
		if fv, isFV := el.(*ast.FieldValue); isFV {
			lo, hi, good := c.designator(env, fv.Field, count)
			if !good {
				ok = false
				continue
			}
			next = lo
			val = fv.Value
			if hi > lo {
				next = hi
			}
		}
		if count >= 0 && next >= count {
			c.errorf(env, el, diagnostics.ErrNotIndexable,
				"too many elements in array literal, expected at most %d", count)
			return size, false
		}
		next++
		size = max(size, next)

		o := c.expr(env, val, elem)
		c.checkAssignment(env, &o, elem, "array literal")
		ok = ok && o.Mode != ModeInvalid
	}
	return size, ok
}

// designator checks `i = v` or `lo..=hi = v` in an array literal.
func (c *Checker) designator(env Env, e ast.Expression, count int64) (int64, int64, bool) {
	if be, isRange := ast.Unparen(e).(*ast.BinaryExpr); isRange && tokens.IsRange(be.Op.Kind) {
		lo, loConst, ok1 := c.indexValue(env, be.X, count, true)
		hi, hiConst, ok2 := c.indexValue(env, be.Y, count, true)
		if !ok1 || !ok2 {
			return 0, 0, false
		}
		if !loConst || !hiConst {
			c.errorf(env, e, diagnostics.ErrIllegalConstantUse, "array literal index range must be constant")
			return 0, 0, false
		}
		if be.Op.Kind == tokens.RANGE_EXCL_TOKEN {
			hi--
		}
		if lo > hi {
			c.errorf(env, e, diagnostics.ErrNotIndexable, "invalid index range %d..=%d", lo, hi)
			return 0, 0, false
		}
		return lo, hi, true
	}
	i, isConst, ok := c.indexValue(env, e, count, false)
	if !ok {
		return 0, 0, false
	}
	if !isConst {
		c.errorf(env, e, diagnostics.ErrIllegalConstantUse, "array literal index must be a constant integer")
		return 0, 0, false
	}
	return i, i, true
}

func (c *Checker) mapLit(env Env, n *ast.CompositeLit, m *types.Map) bool {
	ok := true
	for _, el := range n.Elts {
		fv, isFV := el.(*ast.FieldValue)
		if !isFV {
			c.errorf(env, el, diagnostics.ErrInvalidExpression, "map literal elements must be 'key = value' pairs")
			ok = false
			continue
		}
		k := c.expr(env, fv.Field, m.Key)
		c.checkAssignment(env, &k, m.Key, "map literal key")
		v := c.expr(env, fv.Value, m.Value)
		c.checkAssignment(env, &v, m.Value, "map literal value")
		ok = ok && k.Mode != ModeInvalid && v.Mode != ModeInvalid
	}
	return ok
}

// bitSetLit folds `{.A, .C}` into a constant whose bit k-Lower is set for
// each element k.
func (c *Checker) bitSetLit(env Env, n *ast.CompositeLit, t types.SemType, bs *types.BitSet) Operand {
	bits := new(big.Int)
	ok := true
	for _, el := range n.Elts {
		o := c.expr(env, el, bs.Elem)
		c.checkAssignment(env, &o, bs.Elem, "bit set literal")
		if o.Mode == ModeInvalid {
			ok = false
			continue
		}
		if o.Mode != ModeConstant {
			c.errorf(env, el, diagnostics.ErrIllegalConstantUse, "bit set literal elements must be constant")
			ok = false
			continue
		}
		k, _ := consteval.ToInteger(o.Value).Int64()
		if k < bs.Lower || k > bs.Upper {
			c.errorf(env, el, diagnostics.ErrConstantOverflow,
				"bit set element %d out of range %d..=%d", k, bs.Lower, bs.Upper)
			ok = false
			continue
		}
		bits.SetBit(bits, int(k-bs.Lower), 1)
	}
	if !ok {
		return invalidOperand(n)
	}
	return Operand{Mode: ModeConstant, Type: t, Value: consteval.MakeInt(bits)}
}
