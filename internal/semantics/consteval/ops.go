package consteval

import (
	"math"
	"math/big"
	"strings"

	"github.com/dimenus/Odin/internal/tokens"
	"github.com/dimenus/Odin/internal/utils/numeric"
)

// LiteralKind selects how MakeFromLiteral reads its text.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	ImagLiteral
	RuneLiteral
	StringLiteral
)

// MakeFromLiteral decodes literal text. Invalid text yields an Invalid value.
func MakeFromLiteral(lit string, kind LiteralKind) Value {
	switch kind {
	case IntLiteral:
		i, err := numeric.StringToBigInt(lit)
		if err != nil {
			return Value{}
		}
		return Value{kind: Integer, i: i}
	case FloatLiteral:
		if numeric.IsInteger(lit) && !numeric.IsDecimal(lit) {
			// 0x10 written where a float is expected
			return ToFloat(MakeFromLiteral(lit, IntLiteral))
		}
		f, err := numeric.StringToFloat(lit)
		if err != nil {
			return Value{}
		}
		return MakeFloat64(f)
	case ImagLiteral:
		body := strings.TrimRight(lit, "ij")
		if body == lit {
			return Value{}
		}
		f := MakeFromLiteral(body, FloatLiteral)
		if !f.IsValid() {
			return Value{}
		}
		return MakeComplex(0, f.f)
	case RuneLiteral:
		r, err := numeric.StringToRune(lit)
		if err != nil {
			return Value{}
		}
		return MakeInt64(int64(r))
	case StringLiteral:
		return MakeString(lit)
	}
	return Value{}
}

// match promotes x and y to a common kind. Bool and String only match
// themselves; Invalid poisons the pair.
func match(x, y Value) (Value, Value) {
	if x.kind == y.kind {
		return x, y
	}
	if x.kind == Invalid || y.kind == Invalid {
		return Value{}, Value{}
	}
	if x.kind < Integer || y.kind < Integer {
		return Value{}, Value{}
	}
	k := x.kind
	if y.kind > k {
		k = y.kind
	}
	return promote(x, k), promote(y, k)
}

func promote(v Value, k Kind) Value {
	if v.kind == k {
		return v
	}
	switch k {
	case Integer:
		return ToInteger(v)
	case Float:
		return ToFloat(v)
	case Complex:
		return ToComplex(v)
	case Pointer:
		if v.kind == Integer && v.i.IsInt64() {
			return MakePointer(v.i.Int64())
		}
	}
	return Value{}
}

// UnaryOp applies a unary operator. precision is the bit width of a typed
// integer operand (0 for untyped); it only matters for '~'.
func UnaryOp(op tokens.TOKEN, v Value, precision int, unsigned bool) Value {
	switch op {
	case tokens.PLUS_TOKEN:
		switch v.kind {
		case Integer, Float, Complex:
			return v
		}
	case tokens.MINUS_TOKEN:
		switch v.kind {
		case Integer:
			return Value{kind: Integer, i: new(big.Int).Neg(v.i)}
		case Float:
			return MakeFloat64(-v.f)
		case Complex:
			return Value{kind: Complex, c: -v.c}
		}
	case tokens.TILDE_TOKEN:
		if v.kind != Integer {
			return Value{}
		}
		if precision == 0 || !unsigned {
			// two's complement: ~x == -x-1
			return Value{kind: Integer, i: new(big.Int).Not(v.i)}
		}
		mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(precision)), big.NewInt(1))
		return Value{kind: Integer, i: new(big.Int).Xor(v.i, mask)}
	case tokens.NOT_TOKEN:
		if v.kind == Bool {
			return MakeBool(!v.b)
		}
	}
	return Value{}
}

// BinaryOp applies an arithmetic, bitwise or logical operator. Integer '/'
// truncates. Division by zero and kind mismatches yield Invalid.
func BinaryOp(x Value, op tokens.TOKEN, y Value) Value {
	x, y = match(x, y)
	switch x.kind {
	case Bool:
		switch op {
		case tokens.AND_TOKEN:
			return MakeBool(x.b && y.b)
		case tokens.OR_TOKEN:
			return MakeBool(x.b || y.b)
		}
	case String:
		if op == tokens.PLUS_TOKEN {
			return MakeString(x.s + y.s)
		}
	case Integer:
		return integerOp(x.i, op, y.i)
	case Float:
		switch op {
		case tokens.PLUS_TOKEN:
			return MakeFloat64(x.f + y.f)
		case tokens.MINUS_TOKEN:
			return MakeFloat64(x.f - y.f)
		case tokens.MUL_TOKEN:
			return MakeFloat64(x.f * y.f)
		case tokens.DIV_TOKEN:
			if y.f == 0 {
				return Value{}
			}
			return MakeFloat64(x.f / y.f)
		}
	case Complex:
		switch op {
		case tokens.PLUS_TOKEN:
			return Value{kind: Complex, c: x.c + y.c}
		case tokens.MINUS_TOKEN:
			return Value{kind: Complex, c: x.c - y.c}
		case tokens.MUL_TOKEN:
			return Value{kind: Complex, c: x.c * y.c}
		case tokens.DIV_TOKEN:
			if y.c == 0 {
				return Value{}
			}
			return Value{kind: Complex, c: x.c / y.c}
		}
	case Pointer:
		switch op {
		case tokens.PLUS_TOKEN:
			return MakePointer(x.p + y.p)
		case tokens.MINUS_TOKEN:
			return MakePointer(x.p - y.p)
		}
	}
	return Value{}
}

func integerOp(a *big.Int, op tokens.TOKEN, b *big.Int) Value {
	z := new(big.Int)
	switch op {
	case tokens.PLUS_TOKEN:
		z.Add(a, b)
	case tokens.MINUS_TOKEN:
		z.Sub(a, b)
	case tokens.MUL_TOKEN:
		z.Mul(a, b)
	case tokens.DIV_TOKEN:
		if b.Sign() == 0 {
			return Value{}
		}
		z.Quo(a, b)
	case tokens.MOD_TOKEN:
		if b.Sign() == 0 {
			return Value{}
		}
		z.Rem(a, b)
	case tokens.MOD_MOD_TOKEN:
		if b.Sign() == 0 {
			return Value{}
		}
		// result takes the sign of the divisor
		z.Rem(a, b)
		if z.Sign() != 0 && z.Sign() != b.Sign() {
			z.Add(z, b)
		}
	case tokens.BIT_AND_TOKEN:
		z.And(a, b)
	case tokens.BIT_OR_TOKEN:
		z.Or(a, b)
	case tokens.TILDE_TOKEN:
		z.Xor(a, b)
	case tokens.AND_NOT_TOKEN:
		z.AndNot(a, b)
	case tokens.SHL_TOKEN, tokens.SHR_TOKEN:
		if !b.IsUint64() || b.Uint64() > MaxShift {
			return Value{}
		}
		return Shift(Value{kind: Integer, i: a}, op, uint(b.Uint64()))
	default:
		return Value{}
	}
	return Value{kind: Integer, i: z}
}

// MaxShift bounds constant shift amounts.
const MaxShift = 128

// Shift shifts an integer value. Right shifts are arithmetic.
func Shift(x Value, op tokens.TOKEN, s uint) Value {
	if x.kind != Integer {
		return Value{}
	}
	switch op {
	case tokens.SHL_TOKEN:
		return Value{kind: Integer, i: new(big.Int).Lsh(x.i, s)}
	case tokens.SHR_TOKEN:
		return Value{kind: Integer, i: new(big.Int).Rsh(x.i, s)}
	}
	return Value{}
}

// Compare evaluates a comparison. Incomparable pairs compare false.
func Compare(x Value, op tokens.TOKEN, y Value) bool {
	x, y = match(x, y)
	var c int
	switch x.kind {
	case Bool:
		switch op {
		case tokens.DOUBLE_EQUAL_TOKEN:
			return x.b == y.b
		case tokens.NOT_EQUAL_TOKEN:
			return x.b != y.b
		}
		return false
	case String:
		c = strings.Compare(x.s, y.s)
	case Integer:
		c = x.i.Cmp(y.i)
	case Float:
		if math.IsNaN(x.f) || math.IsNaN(y.f) {
			return op == tokens.NOT_EQUAL_TOKEN
		}
		switch {
		case x.f < y.f:
			c = -1
		case x.f > y.f:
			c = 1
		}
	case Complex:
		switch op {
		case tokens.DOUBLE_EQUAL_TOKEN:
			return x.c == y.c
		case tokens.NOT_EQUAL_TOKEN:
			return x.c != y.c
		}
		return false
	case Pointer:
		switch {
		case x.p < y.p:
			c = -1
		case x.p > y.p:
			c = 1
		}
	default:
		return false
	}
	switch op {
	case tokens.DOUBLE_EQUAL_TOKEN:
		return c == 0
	case tokens.NOT_EQUAL_TOKEN:
		return c != 0
	case tokens.LESS_TOKEN:
		return c < 0
	case tokens.LESS_EQUAL_TOKEN:
		return c <= 0
	case tokens.GREATER_TOKEN:
		return c > 0
	case tokens.GREATER_EQUAL_TOKEN:
		return c >= 0
	}
	return false
}
