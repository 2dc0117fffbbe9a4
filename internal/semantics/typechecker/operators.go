package typechecker

import (
	"fmt"
	"math/big"

	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/tokens"
	"github.com/dimenus/Odin/internal/types"
)

func isComparisonOp(k tokens.TOKEN) bool {
	return tokens.IsComparison(k) || k == tokens.IN_TOKEN || k == tokens.NOT_IN_TOKEN
}

func isShiftOp(k tokens.TOKEN) bool { return tokens.IsShift(k) }

// opType is the type an operator table entry is checked against: arrays
// apply the operator element-wise.
func opType(t types.SemType) types.SemType {
	return types.Under(types.BaseArrayElem(t))
}

func (c *Checker) opError(env Env, op tokens.Token, allowed string) {
	c.report(env, diagnostics.InvalidOperator(op.Loc, string(op.Kind), allowed))
}

func (c *Checker) checkUnaryOp(env Env, o *Operand, op tokens.Token) bool {
	t := opType(o.Type)
	switch op.Kind {
	case tokens.PLUS_TOKEN, tokens.MINUS_TOKEN:
		if !types.IsNumeric(t) {
			c.report(env, diagnostics.NewError(fmt.Sprintf("operator '%s' is not allowed with '%s'", op.Kind, o.exprString())).
				WithCode(diagnostics.ErrInvalidOperator).
				WithPrimaryLabel(op.Loc, ""))
			return false
		}
	case tokens.TILDE_TOKEN:
		if !types.IsInteger(t) && !types.IsBoolean(t) && !types.IsBitSet(t) {
			c.opError(env, op, "integers, booleans, or bit sets")
			return false
		}
	case tokens.NOT_TOKEN:
		if !types.IsBoolean(t) {
			c.opError(env, op, "boolean expressions")
			return false
		}
	default:
		c.report(env, diagnostics.NewError(fmt.Sprintf("unknown operator '%s'", op.Kind)).
			WithCode(diagnostics.ErrInvalidOperator).
			WithPrimaryLabel(op.Loc, ""))
		return false
	}
	return true
}

func (c *Checker) unary(env Env, ue *ast.UnaryExpr, hint types.SemType) Operand {
	if ue.Op.Kind == tokens.BIT_AND_TOKEN {
		var elemHint types.SemType
		if p, ok := types.Under(hint).(*types.Pointer); ok && hint != nil {
			elemHint = p.Elem
		}
		o := c.expr(env, ue.X, elemHint)
		o.Expr = ue
		if o.Mode == ModeInvalid {
			return o
		}
		_, isLit := ast.Unparen(ue.X).(*ast.CompositeLit)
		if o.Mode != ModeVariable && !isLit {
			c.report(env, diagnostics.NotAddressable(ue.Op.Loc, ast.ExprString(ue.X)))
			o.invalidate()
			return o
		}
		o.Mode = ModeValue
		o.Type = types.NewPointer(o.Type)
		return o
	}

	o := c.expr(env, ue.X, hint)
	o.Expr = ue
	if o.Mode == ModeInvalid {
		return o
	}
	if !c.checkUnaryOp(env, &o, ue.Op) {
		o.invalidate()
		return o
	}
	if o.Mode != ModeConstant {
		o.Mode = ModeValue
		return o
	}

	if !types.IsConstantType(o.Type) {
		c.errorf(env, ue, diagnostics.ErrIllegalConstantUse,
			"invalid type, '%s', for constant unary expression '%s'", o.Type, ast.ExprString(ue))
		o.invalidate()
		return o
	}
	if ue.Op.Kind == tokens.TILDE_TOKEN && types.IsUntyped(o.Type) && types.IsInteger(o.Type) {
		c.errorf(env, ue, diagnostics.ErrIllegalConstantUse,
			"bitwise not cannot be applied to untyped constants '%s'", ast.ExprString(ue))
		o.invalidate()
		return o
	}
	if ue.Op.Kind == tokens.MINUS_TOKEN && types.IsUnsigned(o.Type) {
		c.errorf(env, ue, diagnostics.ErrIllegalConstantUse,
			"an unsigned constant cannot be negated '%s'", ast.ExprString(ue))
		o.invalidate()
		return o
	}

	precision := 0
	if types.IsTyped(o.Type) {
		precision = int(8 * c.sizes.SizeOf(o.Type))
	}
	o.Value = consteval.UnaryOp(ue.Op.Kind, o.Value, precision, types.IsUnsigned(o.Type))
	if types.IsTyped(o.Type) {
		c.checkIsExpressible(env, &o, o.Type)
	}
	return o
}

// checkBinaryOp validates an arithmetic or logical operator against the
// operand category.
func (c *Checker) checkBinaryOp(env Env, o *Operand, op tokens.Token) bool {
	t := opType(o.Type)
	switch op.Kind {
	case tokens.MINUS_TOKEN, tokens.MUL_TOKEN, tokens.DIV_TOKEN:
		if !types.IsNumeric(t) {
			c.opError(env, op, "numeric expressions")
			return false
		}
	case tokens.PLUS_TOKEN:
		if types.IsString(t) {
			if o.Mode == ModeConstant {
				return true
			}
			c.report(env, diagnostics.NewError("string concatenation is only allowed with constant strings").
				WithCode(diagnostics.ErrInvalidOperator).
				WithPrimaryLabel(op.Loc, ""))
			return false
		}
		if !types.IsNumeric(t) {
			c.opError(env, op, "numeric expressions")
			return false
		}
	case tokens.BIT_AND_TOKEN, tokens.BIT_OR_TOKEN, tokens.TILDE_TOKEN:
		if !types.IsInteger(t) && !types.IsBoolean(t) && !types.IsBitSet(t) {
			c.opError(env, op, "integers, booleans, or bit sets")
			return false
		}
	case tokens.MOD_TOKEN, tokens.MOD_MOD_TOKEN:
		if !types.IsInteger(t) {
			c.opError(env, op, "integers")
			return false
		}
	case tokens.AND_NOT_TOKEN:
		if !types.IsInteger(t) && !types.IsBitSet(t) {
			c.opError(env, op, "integers and bit sets")
			return false
		}
	case tokens.AND_TOKEN, tokens.OR_TOKEN:
		if !types.IsBoolean(t) {
			c.opError(env, op, "boolean expressions")
			return false
		}
	default:
		c.report(env, diagnostics.NewError(fmt.Sprintf("unknown operator '%s'", op.Kind)).
			WithCode(diagnostics.ErrInvalidOperator).
			WithPrimaryLabel(op.Loc, ""))
		return false
	}
	return true
}

func (c *Checker) binary(env Env, be *ast.BinaryExpr, hint types.SemType) Operand {
	op := be.Op
	var x, y Operand

	switch op.Kind {
	case tokens.DOUBLE_EQUAL_TOKEN, tokens.NOT_EQUAL_TOKEN:
		x = c.exprOrType(env, be.X, nil)
		y = c.exprOrType(env, be.Y, x.Type)
		if (x.Mode == ModeType) != (y.Mode == ModeType) {
			for _, o := range []*Operand{&x, &y} {
				if o.Mode == ModeType {
					c.errorf(env, o.Expr, diagnostics.ErrInvalidExpression, "'%s' is not an expression", o.exprString())
					o.invalidate()
				}
			}
		}
	case tokens.IN_TOKEN, tokens.NOT_IN_TOKEN:
		return c.membership(env, be)
	default:
		x = c.expr(env, be.X, nil)
		y = c.expr(env, be.Y, nil)
	}

	if x.Mode == ModeInvalid {
		return invalidOperand(be)
	}
	if y.Mode == ModeInvalid {
		return invalidOperand(be)
	}
	for _, o := range []*Operand{&x, &y} {
		if o.Mode == ModeBuiltin {
			c.errorf(env, o.Expr, diagnostics.ErrInvalidExpression, "built-in expression in binary expression")
			return invalidOperand(be)
		}
	}

	if isShiftOp(op.Kind) {
		c.shift(env, &x, &y, be)
		x.Expr = be
		return x
	}

	c.convertToTyped(env, &x, y.Type)
	if x.Mode == ModeInvalid {
		return invalidOperand(be)
	}
	c.convertToTyped(env, &y, x.Type)
	if y.Mode == ModeInvalid {
		return invalidOperand(be)
	}

	if tokens.IsComparison(op.Kind) {
		c.comparison(env, &x, &y, op.Kind)
		x.Expr = be
		return x
	}

	if op.Kind == tokens.MINUS_TOKEN && types.IsPointer(x.Type) && types.IsPointer(y.Type) {
		return c.pointerDifference(env, &x, &y, be)
	}

	if c.binaryArrayOp(env, op, &x, &y) {
		return Operand{Mode: ModeValue, Type: x.Type, Expr: be}
	}
	if c.binaryArrayOp(env, op, &y, &x) {
		return Operand{Mode: ModeValue, Type: y.Type, Expr: be}
	}

	if !types.Identical(x.Type, y.Type) {
		c.report(env, diagnostics.TypeMismatch(op.Loc,
			fmt.Sprintf("mismatched types in binary expression '%s' : '%s' vs '%s'", x.exprString(), x.Type, y.Type)))
		return invalidOperand(be)
	}

	if !c.checkBinaryOp(env, &x, op) {
		return invalidOperand(be)
	}

	switch op.Kind {
	case tokens.DIV_TOKEN, tokens.MOD_TOKEN, tokens.MOD_MOD_TOKEN:
		if (x.Mode == ModeConstant || types.IsInteger(x.Type)) && y.Mode == ModeConstant {
			k := y.Value.Kind()
			if (k == consteval.Integer || k == consteval.Float) && y.Value.IsZero() {
				c.report(env, diagnostics.DivisionByZero(locOf(y.Expr)))
				return invalidOperand(be)
			}
		}
	}

	if x.Mode == ModeConstant && y.Mode == ModeConstant {
		if !types.IsConstantType(x.Type) {
			c.errorf(env, be, diagnostics.ErrIllegalConstantUse,
				"invalid type, '%s', for constant binary expression '%s'", x.Type, ast.ExprString(be))
			return invalidOperand(be)
		}
		v := consteval.BinaryOp(x.Value, op.Kind, y.Value)
		if !v.IsValid() {
			c.errorf(env, be, diagnostics.ErrIllegalConstantUse,
				"invalid constant operation '%s'", ast.ExprString(be))
			return invalidOperand(be)
		}
		out := Operand{Mode: ModeConstant, Type: x.Type, Value: v, Expr: be}
		if types.IsTyped(out.Type) {
			c.checkIsExpressible(env, &out, out.Type)
		}
		return out
	}

	if types.IsString(x.Type) {
		c.report(env, diagnostics.NewError("string concatenation is only allowed with constant strings").
			WithCode(diagnostics.ErrInvalidOperator).
			WithPrimaryLabel(locOf(be), ""))
		return invalidOperand(be)
	}

	if types.IsComplex(x.Type) && op.Kind == tokens.DIV_TOKEN {
		switch c.sizes.SizeOf(x.Type) {
		case 8:
			c.noteDep("quo_complex64")
		case 16:
			c.noteDep("quo_complex128")
		}
	}
	return Operand{Mode: ModeValue, Type: x.Type, Expr: be}
}

// binaryArrayOp handles `array op scalar` where the scalar converts to the
// array's element type.
func (c *Checker) binaryArrayOp(env Env, op tokens.Token, arr, scalar *Operand) bool {
	if !types.IsArray(arr.Type) || types.IsArray(scalar.Type) {
		return false
	}
	elem := types.BaseArrayElem(arr.Type)
	trial := *scalar
	if !c.isAssignableTo(env.Suppressed(), &trial, elem) {
		return false
	}
	if !c.checkBinaryOp(env, arr, op) {
		return false
	}
	c.convertToTyped(env, scalar, elem)
	return scalar.Mode != ModeInvalid
}

func (c *Checker) pointerDifference(env Env, x, y *Operand, be *ast.BinaryExpr) Operand {
	if !types.Identical(x.Type, y.Type) {
		c.report(env, diagnostics.TypeMismatch(be.Op.Loc,
			fmt.Sprintf("mismatched types in pointer difference '%s' vs '%s'", x.Type, y.Type)))
		return invalidOperand(be)
	}
	size := c.sizes.SizeOf(types.Deref(x.Type))
	if size <= 0 {
		c.errorf(env, be, diagnostics.ErrInvalidOperator,
			"size of pointer's element type '%s' is zero and cannot be used for pointer arithmetic", types.Deref(x.Type))
		return invalidOperand(be)
	}
	if x.Mode == ModeConstant && y.Mode == ModeConstant {
		diff := (x.Value.PointerVal() - y.Value.PointerVal()) / size
		return Operand{Mode: ModeConstant, Type: types.TypeInt, Value: consteval.MakeInt64(diff), Expr: be}
	}
	return Operand{Mode: ModeValue, Type: types.TypeInt, Expr: be}
}

func (c *Checker) comparison(env Env, x, y *Operand, op tokens.TOKEN) {
	if x.Mode == ModeType && y.Mode == ModeType {
		same := types.Identical(x.Type, y.Type)
		if op == tokens.NOT_EQUAL_TOKEN {
			same = !same
		}
		x.Mode = ModeConstant
		x.Type = types.TypeUntypedBool
		x.Value = consteval.MakeBool(same)
		return
	}

	var errStr string
	if c.isAssignableTo(env, x, y.Type) || c.isAssignableTo(env, y, x.Type) {
		errType := x.Type
		defined := false
		switch op {
		case tokens.DOUBLE_EQUAL_TOKEN, tokens.NOT_EQUAL_TOKEN:
			defined = (types.IsComparable(x.Type) && types.IsComparable(y.Type)) ||
				(x.isUntypedNil() && types.HasNil(y.Type)) ||
				(y.isUntypedNil() && types.HasNil(x.Type))
		default:
			if types.Identical(x.Type, y.Type) && types.IsBitSet(x.Type) {
				defined = true
			} else {
				defined = types.IsOrdered(x.Type) && types.IsOrdered(y.Type)
			}
		}
		if !defined {
			if x.isUntypedNil() {
				errType = y.Type
			}
			errStr = fmt.Sprintf("operator '%s' not defined for type '%s'", op, errType)
		}
	} else {
		errStr = fmt.Sprintf("mismatched types '%s' and '%s'", describeOperandType(x), describeOperandType(y))
	}

	if errStr != "" {
		c.report(env, diagnostics.TypeMismatch(locOf(x.Expr), "cannot compare expression, "+errStr))
		x.invalidate()
		x.Type = types.TypeUntypedBool
		return
	}

	if x.Mode == ModeConstant && y.Mode == ModeConstant {
		if !types.IsConstantType(x.Type) && !types.IsBitSet(x.Type) {
			x.Mode = ModeValue
		} else if types.IsBitSet(x.Type) {
			x.Value = consteval.MakeBool(compareBitSets(x.Value, op, y.Value))
		} else {
			x.Value = consteval.MakeBool(consteval.Compare(x.Value, op, y.Value))
		}
		x.Type = types.TypeUntypedBool
		return
	}

	x.Mode = ModeValue
	c.updateExprType(env, x.Expr, types.Default(x.Type), true)
	c.updateExprType(env, y.Expr, types.Default(y.Type), true)

	var size int64
	for _, t := range []types.SemType{x.Type, y.Type} {
		if types.IsTyped(t) {
			size = max(size, c.sizes.SizeOf(t))
		}
	}
	switch {
	case types.IsString(x.Type) || types.IsString(y.Type):
		c.noteDep(stringCompareDeps[op])
	case types.IsCstring(x.Type) || types.IsCstring(y.Type):
		c.noteDep("c" + stringCompareDeps[op])
	case types.IsComplex(x.Type) || types.IsComplex(y.Type):
		suffix := "_eq"
		if op == tokens.NOT_EQUAL_TOKEN {
			suffix = "_ne"
		} else if op != tokens.DOUBLE_EQUAL_TOKEN {
			break
		}
		switch size {
		case 8:
			c.noteDep("complex64" + suffix)
		case 16:
			c.noteDep("complex128" + suffix)
		}
	}
	x.Type = types.TypeUntypedBool
}

var stringCompareDeps = map[tokens.TOKEN]string{
	tokens.DOUBLE_EQUAL_TOKEN:  "string_eq",
	tokens.NOT_EQUAL_TOKEN:     "string_ne",
	tokens.LESS_TOKEN:          "string_lt",
	tokens.GREATER_TOKEN:       "string_gt",
	tokens.LESS_EQUAL_TOKEN:    "string_le",
	tokens.GREATER_EQUAL_TOKEN: "string_ge",
}

func describeOperandType(o *Operand) string {
	if o.Mode == ModeProcGroup {
		return "procedure group"
	}
	return o.typeString()
}

// compareBitSets treats < and <= as (strict) subset, > and >= as superset.
func compareBitSets(x consteval.Value, op tokens.TOKEN, y consteval.Value) bool {
	a, b := x.BigInt(), y.BigInt()
	if a == nil || b == nil {
		return false
	}
	subset := func(p, q *big.Int) bool {
		return new(big.Int).AndNot(p, q).Sign() == 0
	}
	equal := a.Cmp(b) == 0
	switch op {
	case tokens.DOUBLE_EQUAL_TOKEN:
		return equal
	case tokens.NOT_EQUAL_TOKEN:
		return !equal
	case tokens.LESS_EQUAL_TOKEN:
		return subset(a, b)
	case tokens.LESS_TOKEN:
		return subset(a, b) && !equal
	case tokens.GREATER_EQUAL_TOKEN:
		return subset(b, a)
	case tokens.GREATER_TOKEN:
		return subset(b, a) && !equal
	}
	return false
}

func (c *Checker) shift(env Env, x, y *Operand, be *ast.BinaryExpr) {
	var xv consteval.Value
	if x.Mode == ModeConstant {
		xv = consteval.ToInteger(x.Value)
	}
	untypedX := types.IsUntyped(x.Type)
	if !(types.IsInteger(x.Type) || (untypedX && xv.Kind() == consteval.Integer)) {
		c.errorf(env, be, diagnostics.ErrInvalidOperator, "shifted operand '%s' must be an integer", x.exprString())
		x.invalidate()
		return
	}

	switch {
	case types.IsUnsigned(y.Type):
	case types.IsUntyped(y.Type):
		c.convertToTyped(env, y, types.TypeUntypedInteger)
		if y.Mode == ModeInvalid {
			x.invalidate()
			return
		}
	default:
		c.errorf(env, be, diagnostics.ErrInvalidOperator, "shift amount '%s' must be an unsigned integer", y.exprString())
		x.invalidate()
		return
	}

	if x.Mode == ModeConstant {
		if y.Mode == ModeConstant {
			yv := consteval.ToInteger(y.Value)
			if yv.Kind() != consteval.Integer || yv.Sign() < 0 {
				c.errorf(env, be, diagnostics.ErrInvalidOperator, "shift amount '%s' must be an unsigned integer", y.exprString())
				x.invalidate()
				return
			}
			n, ok := yv.Int64()
			if !ok || n > consteval.MaxShift {
				c.errorf(env, be, diagnostics.ErrConstantOverflow, "shift amount too large: '%s'", y.exprString())
				x.invalidate()
				return
			}
			if !types.IsInteger(x.Type) {
				x.Type = types.TypeUntypedInteger
			}
			x.Value = consteval.Shift(xv, be.Op.Kind, uint(n))
			x.Expr = be
			if types.IsTyped(x.Type) {
				c.checkIsExpressible(env, x, x.Type)
			}
			return
		}
		if untypedX {
			// the operand takes its type from the context it ends up in
			if rec, ok := c.info.Records[x.Expr]; ok {
				rec.IsLHS = true
				c.info.Records[x.Expr] = rec
			}
			x.Mode = ModeValue
			x.Value = consteval.Value{}
			return
		}
	}

	if y.Mode == ModeConstant && y.Value.Sign() < 0 {
		c.errorf(env, be, diagnostics.ErrInvalidOperator, "shift amount cannot be negative: '%s'", y.exprString())
	}
	if !types.IsInteger(x.Type) {
		c.errorf(env, be, diagnostics.ErrInvalidOperator, "shift operand '%s' must be an integer", x.exprString())
		x.invalidate()
		return
	}
	x.Mode = ModeValue
	x.Value = consteval.Value{}
}

// membership checks `x in y` and `x not_in y` for maps and bit sets.
func (c *Checker) membership(env Env, be *ast.BinaryExpr) Operand {
	x := c.expr(env, be.X, nil)
	y := c.expr(env, be.Y, nil)
	if x.Mode == ModeInvalid || y.Mode == ModeInvalid {
		return invalidOperand(be)
	}
	word := "in"
	if be.Op.Kind == tokens.NOT_IN_TOKEN {
		word = "not_in"
	}

	switch yt := types.Under(y.Type).(type) {
	case *types.Map:
		c.checkAssignment(env, &x, yt.Key, "map '"+word+"'")
		c.noteDep("__dynamic_map_get")
	case *types.BitSet:
		c.checkAssignment(env, &x, yt.Elem, "bit_set '"+word+"'")
		if x.Mode == ModeConstant && y.Mode == ModeConstant {
			k, _ := consteval.ToInteger(x.Value).Int64()
			if k < yt.Lower || k > yt.Upper {
				c.errorf(env, x.Expr, diagnostics.ErrConstantOverflow,
					"key '%d' out of range of bit set, %d..%d", k, yt.Lower, yt.Upper)
				return invalidOperand(be)
			}
			bits := consteval.ToInteger(y.Value).BigInt()
			set := bits != nil && bits.Bit(int(k-yt.Lower)) == 1
			if be.Op.Kind == tokens.NOT_IN_TOKEN {
				set = !set
			}
			return Operand{Mode: ModeConstant, Type: types.TypeUntypedBool, Value: consteval.MakeBool(set), Expr: be}
		}
	default:
		c.report(env, diagnostics.TypeMismatch(locOf(x.Expr),
			fmt.Sprintf("expected either a map or bitset for '%s', got %s", word, y.Type)))
		return invalidOperand(be)
	}
	if x.Mode == ModeInvalid {
		return invalidOperand(be)
	}
	return Operand{Mode: ModeValue, Type: types.TypeUntypedBool, Expr: be}
}
