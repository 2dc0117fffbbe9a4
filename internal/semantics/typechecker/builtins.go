package typechecker

import (
	"math"
	"math/cmplx"

	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/tokens"
	"github.com/dimenus/Odin/internal/types"
	"github.com/dimenus/Odin/internal/utils/numeric"
)

// BuiltinID identifies a built-in procedure.
type BuiltinID int

const (
	BuiltinInvalid BuiltinID = iota
	BuiltinLen
	BuiltinCap
	BuiltinSizeOf
	BuiltinAlignOf
	BuiltinTypeOf
	BuiltinMin
	BuiltinMax
	BuiltinAbs
	BuiltinClamp
	BuiltinComplex
	BuiltinReal
	BuiltinImag

	builtinCount
)

// builtinProcs gives each builtin its name and minimum arity; variadic
// builtins accept more.
var builtinProcs = [builtinCount]struct {
	name     string
	args     int
	variadic bool
}{
	BuiltinInvalid: {name: "invalid"},
	BuiltinLen:     {name: "len", args: 1},
	BuiltinCap:     {name: "cap", args: 1},
	BuiltinSizeOf:  {name: "size_of", args: 1},
	BuiltinAlignOf: {name: "align_of", args: 1},
	BuiltinTypeOf:  {name: "type_of", args: 1},
	BuiltinMin:     {name: "min", args: 1, variadic: true},
	BuiltinMax:     {name: "max", args: 1, variadic: true},
	BuiltinAbs:     {name: "abs", args: 1},
	BuiltinClamp:   {name: "clamp", args: 3},
	BuiltinComplex: {name: "complex", args: 2},
	BuiltinReal:    {name: "real", args: 1},
	BuiltinImag:    {name: "imag", args: 1},
}

func (id BuiltinID) String() string {
	if id > BuiltinInvalid && id < builtinCount {
		return builtinProcs[id].name
	}
	return "invalid"
}

// builtinCall checks a call to a built-in procedure.
func (c *Checker) builtinCall(env Env, call *ast.CallExpr, id BuiltinID) Operand {
	bp := builtinProcs[id]
	for _, a := range call.Args {
		if _, ok := a.(*ast.FieldValue); ok {
			c.errorf(env, a, diagnostics.ErrInvalidExpression, "'%s' does not accept named arguments", bp.name)
			return invalidOperand(call)
		}
	}
	if call.Ellipsis {
		c.errorf(env, call, diagnostics.ErrInvalidExpression, "invalid use of '..' in a call to '%s'", bp.name)
		return invalidOperand(call)
	}
	n := len(call.Args)
	if n < bp.args || (!bp.variadic && n > bp.args) {
		c.report(env, diagnostics.WrongArgumentCount(locOf(call), bp.name, bp.args, n))
		return invalidOperand(call)
	}

	var o Operand
	switch id {
	case BuiltinLen, BuiltinCap:
		o = c.builtinLen(env, call, id)
	case BuiltinSizeOf, BuiltinAlignOf:
		o = c.builtinSizeOf(env, call, id)
	case BuiltinTypeOf:
		o = c.builtinTypeOf(env, call)
	case BuiltinMin, BuiltinMax:
		o = c.builtinMinMax(env, call, id)
	case BuiltinAbs:
		o = c.builtinAbs(env, call)
	case BuiltinClamp:
		o = c.builtinClamp(env, call)
	case BuiltinComplex:
		o = c.builtinComplex(env, call)
	case BuiltinReal, BuiltinImag:
		o = c.builtinRealImag(env, call, id)
	default:
		panic("internal error: unknown builtin " + id.String())
	}
	o.Expr = call
	return o
}

func (c *Checker) builtinLen(env Env, call *ast.CallExpr, id BuiltinID) Operand {
	x := c.exprOrType(env, call.Args[0], nil)
	if x.Mode == ModeInvalid {
		return x
	}
	name := builtinProcs[id].name
	t := x.Type
	if p, ok := types.Under(t).(*types.Pointer); ok && x.Mode != ModeType {
		if types.IsArray(p.Elem) {
			t = p.Elem
		}
	}

	if arr, ok := types.Under(t).(*types.Array); ok {
		return Operand{Mode: ModeConstant, Type: types.TypeInt, Value: consteval.MakeInt64(arr.Count)}
	}
	if x.Mode == ModeType {
		if en, ok := types.Under(t).(*types.Enum); ok && id == BuiltinLen {
			return Operand{Mode: ModeConstant, Type: types.TypeInt, Value: consteval.MakeInt64(int64(len(en.Fields)))}
		}
		c.errorf(env, x.Expr, diagnostics.ErrTypeMismatch, "invalid type '%s' for '%s'", t, name)
		return invalidOperand(call)
	}

	switch {
	case id == BuiltinLen && x.Mode == ModeConstant && types.IsString(t):
		return Operand{Mode: ModeConstant, Type: types.TypeUntypedInteger,
			Value: consteval.MakeInt64(int64(len(x.Value.StringVal())))}
	case id == BuiltinLen && types.IsStringLike(t):
		if types.IsCstring(t) {
			c.noteDep("cstring_len")
		}
	case types.IsSlice(t), types.IsDynamicArray(t), types.IsMap(t):
	default:
		c.errorf(env, x.Expr, diagnostics.ErrTypeMismatch,
			"invalid argument '%s' of type '%s' for '%s'", x.exprString(), t, name)
		return invalidOperand(call)
	}
	return Operand{Mode: ModeValue, Type: types.TypeInt}
}

func (c *Checker) builtinSizeOf(env Env, call *ast.CallExpr, id BuiltinID) Operand {
	x := c.exprOrType(env, call.Args[0], nil)
	if x.Mode == ModeInvalid {
		return x
	}
	t := x.Type
	if x.Mode != ModeType {
		if x.isUntypedNil() || x.isUntypedUndef() {
			c.errorf(env, x.Expr, diagnostics.ErrIllegalConstantUse,
				"'%s' has no size, '%s'", x.exprString(), builtinProcs[id].name)
			return invalidOperand(call)
		}
		t = types.Default(t)
	}
	if types.IsPolymorphic(t) {
		c.errorf(env, x.Expr, diagnostics.ErrInvalidType,
			"'%s' of a polymorphic type '%s' is unknown", builtinProcs[id].name, t)
		return invalidOperand(call)
	}
	n := c.sizes.SizeOf(t)
	if id == BuiltinAlignOf {
		n = c.sizes.AlignOf(t)
	}
	return Operand{Mode: ModeConstant, Type: types.TypeUntypedInteger, Value: consteval.MakeInt64(n)}
}

func (c *Checker) builtinTypeOf(env Env, call *ast.CallExpr) Operand {
	x := c.expr(env, call.Args[0], nil)
	if x.Mode == ModeInvalid {
		return x
	}
	if x.isUntypedNil() || x.isUntypedUndef() {
		c.errorf(env, x.Expr, diagnostics.ErrIllegalConstantUse, "'type_of' of '%s' is ambiguous", x.exprString())
		return invalidOperand(call)
	}
	return Operand{Mode: ModeType, Type: types.Default(x.Type)}
}

// typeLimit is the smallest or largest constant of an ordered type.
func (c *Checker) typeLimit(t types.SemType, max bool) (consteval.Value, bool) {
	switch u := types.Under(t).(type) {
	case *types.Enum:
		if len(u.Fields) == 0 {
			return consteval.Value{}, false
		}
		best := u.Fields[0].Value
		op := tokens.LESS_TOKEN
		if max {
			op = tokens.GREATER_TOKEN
		}
		for _, f := range u.Fields[1:] {
			if consteval.Compare(f.Value, op, best) {
				best = f.Value
			}
		}
		return best, true
	case *types.Basic:
		switch {
		case u.Flags&types.FlagUntyped != 0:
			return consteval.Value{}, false
		case u.Flags&types.FlagInteger != 0:
			lo, hi := numeric.Bounds(int(8*c.sizes.SizeOf(u)), u.Flags&types.FlagUnsigned == 0)
			if max {
				return consteval.MakeInt(hi), true
			}
			return consteval.MakeInt(lo), true
		case u.Kind == types.F32:
			if max {
				return consteval.MakeFloat64(math.MaxFloat32), true
			}
			return consteval.MakeFloat64(-math.MaxFloat32), true
		case u.Kind == types.F64:
			if max {
				return consteval.MakeFloat64(math.MaxFloat64), true
			}
			return consteval.MakeFloat64(-math.MaxFloat64), true
		}
	}
	return consteval.Value{}, false
}

// commonType brings operands to one type: the first typed operand's type,
// else the widest untyped kind.
func (c *Checker) commonType(env Env, name string, ops []Operand) (types.SemType, bool) {
	var target types.SemType
	for i := range ops {
		if types.IsTyped(ops[i].Type) {
			target = ops[i].Type
			break
		}
	}
	if target == nil {
		target = ops[0].Type
		for i := range ops[1:] {
			if untypedRank(ops[i+1].Type) > untypedRank(target) {
				target = ops[i+1].Type
			}
		}
	}
	for i := range ops {
		o := &ops[i]
		c.convertToTyped(env, o, target)
		if o.Mode == ModeInvalid {
			return nil, false
		}
		if !types.Identical(o.Type, target) {
			c.report(env, diagnostics.TypeMismatch(locOf(o.Expr),
				"mismatched types for '"+name+"': '"+o.typeString()+"' vs '"+target.String()+"'"))
			return nil, false
		}
	}
	return target, true
}

func (c *Checker) builtinMinMax(env Env, call *ast.CallExpr, id BuiltinID) Operand {
	name := builtinProcs[id].name
	isMax := id == BuiltinMax
	if len(call.Args) == 1 {
		x := c.exprOrType(env, call.Args[0], nil)
		if x.Mode == ModeInvalid {
			return x
		}
		if x.Mode != ModeType {
			c.errorf(env, x.Expr, diagnostics.ErrArityMismatch,
				"'%s' requires a type or at least two values", name)
			return invalidOperand(call)
		}
		v, ok := c.typeLimit(x.Type, isMax)
		if !ok {
			c.errorf(env, x.Expr, diagnostics.ErrInvalidType,
				"expected an ordered numeric or enum type for '%s', got '%s'", name, x.Type)
			return invalidOperand(call)
		}
		return Operand{Mode: ModeConstant, Type: x.Type, Value: v}
	}

	ops := make([]Operand, len(call.Args))
	for i, a := range call.Args {
		ops[i] = c.expr(env, a, nil)
		if ops[i].Mode == ModeInvalid {
			return invalidOperand(call)
		}
	}
	t, ok := c.commonType(env, name, ops)
	if !ok {
		return invalidOperand(call)
	}
	if !types.IsOrdered(t) {
		c.errorf(env, call, diagnostics.ErrTypeMismatch, "expected an ordered type for '%s', got '%s'", name, t)
		return invalidOperand(call)
	}

	op := tokens.LESS_TOKEN
	if isMax {
		op = tokens.GREATER_TOKEN
	}
	best := ops[0]
	constant := true
	for i := range ops {
		if ops[i].Mode != ModeConstant {
			constant = false
		}
	}
	if !constant {
		return Operand{Mode: ModeValue, Type: t}
	}
	for _, o := range ops[1:] {
		if consteval.Compare(o.Value, op, best.Value) {
			best = o
		}
	}
	return Operand{Mode: ModeConstant, Type: t, Value: best.Value}
}

func (c *Checker) builtinAbs(env Env, call *ast.CallExpr) Operand {
	x := c.expr(env, call.Args[0], nil)
	if x.Mode == ModeInvalid {
		return x
	}
	if !types.IsNumeric(x.Type) {
		c.errorf(env, x.Expr, diagnostics.ErrTypeMismatch,
			"expected a numeric value for 'abs', got '%s'", x.typeString())
		return invalidOperand(call)
	}
	t := x.Type
	if types.IsComplex(t) {
		t = complexElem(t)
	}
	if x.Mode != ModeConstant {
		if types.IsUntyped(t) {
			t = types.Default(t)
		}
		return Operand{Mode: ModeValue, Type: t}
	}

	o := Operand{Mode: ModeConstant, Type: t, Value: x.Value, Expr: call}
	switch x.Value.Kind() {
	case consteval.Integer:
		if x.Value.Sign() < 0 {
			o.Value = consteval.UnaryOp(tokens.MINUS_TOKEN, x.Value, 0, false)
		}
	case consteval.Float:
		o.Value = consteval.MakeFloat64(math.Abs(x.Value.Float64()))
	case consteval.Complex:
		o.Value = consteval.MakeFloat64(cmplx.Abs(x.Value.Complex128()))
	}
	if types.IsTyped(t) {
		c.checkIsExpressible(env, &o, t)
	}
	return o
}

func (c *Checker) builtinClamp(env Env, call *ast.CallExpr) Operand {
	ops := make([]Operand, 3)
	for i, a := range call.Args {
		ops[i] = c.expr(env, a, nil)
		if ops[i].Mode == ModeInvalid {
			return invalidOperand(call)
		}
	}
	t, ok := c.commonType(env, "clamp", ops)
	if !ok {
		return invalidOperand(call)
	}
	if !types.IsOrdered(t) || types.IsString(t) {
		c.errorf(env, call, diagnostics.ErrTypeMismatch, "expected a numeric type for 'clamp', got '%s'", t)
		return invalidOperand(call)
	}
	for _, o := range ops {
		if o.Mode != ModeConstant {
			return Operand{Mode: ModeValue, Type: t}
		}
	}
	v, lo, hi := ops[0].Value, ops[1].Value, ops[2].Value
	if consteval.Compare(lo, tokens.GREATER_TOKEN, hi) {
		c.errorf(env, call, diagnostics.ErrIllegalConstantUse,
			"'clamp' minimum %s is greater than maximum %s", lo, hi)
		return invalidOperand(call)
	}
	switch {
	case consteval.Compare(v, tokens.LESS_TOKEN, lo):
		v = lo
	case consteval.Compare(v, tokens.GREATER_TOKEN, hi):
		v = hi
	}
	return Operand{Mode: ModeConstant, Type: t, Value: v}
}

// complexElem is the float type of a complex type's parts.
func complexElem(t types.SemType) types.SemType {
	switch {
	case types.IsUntyped(t):
		return types.TypeUntypedFloat
	case types.Identical(types.Under(t), types.TypeComplex64):
		return types.TypeF32
	}
	return types.TypeF64
}

func (c *Checker) builtinComplex(env Env, call *ast.CallExpr) Operand {
	ops := []Operand{c.expr(env, call.Args[0], nil), c.expr(env, call.Args[1], nil)}
	for i := range ops {
		if ops[i].Mode == ModeInvalid {
			return invalidOperand(call)
		}
		if types.IsUntyped(ops[i].Type) && types.IsNumeric(ops[i].Type) && !types.IsComplex(ops[i].Type) {
			c.convertUntypedPair(env, &ops[i], types.TypeUntypedFloat)
		}
	}
	t, ok := c.commonType(env, "complex", ops)
	if !ok {
		return invalidOperand(call)
	}
	var result types.SemType
	switch {
	case types.IsUntyped(t) && types.IsFloat(t):
		result = types.TypeUntypedComplex
	case types.Identical(types.Under(t), types.TypeF32):
		result = types.TypeComplex64
	case types.Identical(types.Under(t), types.TypeF64):
		result = types.TypeComplex128
	default:
		c.errorf(env, call, diagnostics.ErrTypeMismatch, "arguments to 'complex' must be floats, got '%s'", t)
		return invalidOperand(call)
	}
	if ops[0].Mode == ModeConstant && ops[1].Mode == ModeConstant {
		v := consteval.MakeComplex(ops[0].Value.Float64(), ops[1].Value.Float64())
		return Operand{Mode: ModeConstant, Type: result, Value: v}
	}
	return Operand{Mode: ModeValue, Type: types.Default(result)}
}

func (c *Checker) builtinRealImag(env Env, call *ast.CallExpr, id BuiltinID) Operand {
	name := builtinProcs[id].name
	x := c.expr(env, call.Args[0], nil)
	if x.Mode == ModeInvalid {
		return x
	}
	if types.IsUntyped(x.Type) && types.IsNumeric(x.Type) {
		c.convertUntypedPair(env, &x, types.TypeUntypedComplex)
	}
	if !types.IsComplex(x.Type) {
		c.errorf(env, x.Expr, diagnostics.ErrTypeMismatch,
			"expected a complex value for '%s', got '%s'", name, x.typeString())
		return invalidOperand(call)
	}
	t := complexElem(x.Type)
	if x.Mode == ModeConstant {
		v := consteval.Real(x.Value)
		if id == BuiltinImag {
			v = consteval.Imag(x.Value)
		}
		return Operand{Mode: ModeConstant, Type: t, Value: v}
	}
	return Operand{Mode: ModeValue, Type: t}
}
