package consteval

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/dimenus/Odin/internal/tokens"
)

// Kind categorizes a compile-time constant. The order matters: two values of
// different numeric kinds are promoted to the larger kind before an operator
// is applied.
type Kind int

const (
	Invalid Kind = iota // Not a constant, or the result of an illegal operation
	Bool
	String
	Integer
	Float
	Complex
	Pointer
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Complex:
		return "complex"
	case Pointer:
		return "pointer"
	default:
		return "invalid"
	}
}

// Value is an exact compile-time value. The zero Value is Invalid. Values are
// immutable: operators always allocate fresh big integers.
type Value struct {
	kind Kind
	b    bool
	s    string
	i    *big.Int
	f    float64
	c    complex128
	p    int64
}

// MakeBool creates a constant boolean value
func MakeBool(b bool) Value { return Value{kind: Bool, b: b} }

// MakeString creates a constant string value
func MakeString(s string) Value { return Value{kind: String, s: s} }

// MakeInt64 creates a constant integer value
func MakeInt64(v int64) Value { return Value{kind: Integer, i: big.NewInt(v)} }

func MakeUint64(v uint64) Value { return Value{kind: Integer, i: new(big.Int).SetUint64(v)} }

// MakeInt creates a constant integer value from a big.Int (copied)
func MakeInt(v *big.Int) Value {
	if v == nil {
		return Value{}
	}
	return Value{kind: Integer, i: new(big.Int).Set(v)}
}

// MakeFloat64 creates a constant float value. NaN and infinities are kept;
// callers decide whether a non-finite value is an error.
func MakeFloat64(f float64) Value { return Value{kind: Float, f: f} }

func MakeComplex(re, im float64) Value { return Value{kind: Complex, c: complex(re, im)} }

// MakePointer is a constant address, used for pointer arithmetic on nil-based constants.
func MakePointer(p int64) Value { return Value{kind: Pointer, p: p} }

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsValid() bool    { return v.kind != Invalid }
func (v Value) BoolVal() bool    { return v.b }
func (v Value) StringVal() string { return v.s }
func (v Value) Float64() float64 {
	switch v.kind {
	case Integer:
		f, _ := new(big.Float).SetInt(v.i).Float64()
		return f
	case Float:
		return v.f
	case Complex:
		return real(v.c)
	}
	return 0
}
func (v Value) Complex128() complex128 {
	switch v.kind {
	case Complex:
		return v.c
	case Integer, Float:
		return complex(v.Float64(), 0)
	}
	return 0
}
func (v Value) PointerVal() int64 { return v.p }

// BigInt returns a copy of the integer payload, or nil for non-integers.
func (v Value) BigInt() *big.Int {
	if v.kind != Integer {
		return nil
	}
	return new(big.Int).Set(v.i)
}

// Int64 returns the integer value as int64 if it fits
func (v Value) Int64() (int64, bool) {
	if v.kind != Integer || !v.i.IsInt64() {
		return 0, false
	}
	return v.i.Int64(), true
}

// Sign is -1, 0 or +1 for numeric values and 0 otherwise.
func (v Value) Sign() int {
	switch v.kind {
	case Integer:
		return v.i.Sign()
	case Float:
		switch {
		case v.f < 0:
			return -1
		case v.f > 0:
			return 1
		}
	case Complex:
		if v.c != 0 {
			return 1
		}
	case Pointer:
		switch {
		case v.p < 0:
			return -1
		case v.p > 0:
			return 1
		}
	}
	return 0
}

// IsZero reports a numeric zero (the divisor check).
func (v Value) IsZero() bool {
	switch v.kind {
	case Integer, Float, Complex, Pointer:
		return v.Sign() == 0
	}
	return false
}

// String returns a string representation of the constant value
func (v Value) String() string {
	switch v.kind {
	case Bool:
		return strconv.FormatBool(v.b)
	case String:
		return strconv.Quote(v.s)
	case Integer:
		return v.i.String()
	case Float:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case Complex:
		return fmt.Sprintf("%s%+gi", strconv.FormatFloat(real(v.c), 'g', -1, 64), imag(v.c))
	case Pointer:
		return fmt.Sprintf("0x%x", v.p)
	}
	return "<invalid>"
}

// ToInteger converts v to an Integer when that is lossless, else Invalid.
func ToInteger(v Value) Value {
	switch v.kind {
	case Integer:
		return v
	case Float:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) || v.f != math.Trunc(v.f) {
			return Value{}
		}
		i, _ := new(big.Float).SetFloat64(v.f).Int(nil)
		return Value{kind: Integer, i: i}
	case Complex:
		if imag(v.c) != 0 {
			return Value{}
		}
		return ToInteger(MakeFloat64(real(v.c)))
	case Pointer:
		return MakeInt64(v.p)
	}
	return Value{}
}

// ToFloat converts Integer and real-valued Complex values to Float.
func ToFloat(v Value) Value {
	switch v.kind {
	case Integer:
		return MakeFloat64(v.Float64())
	case Float:
		return v
	case Complex:
		if imag(v.c) == 0 {
			return MakeFloat64(real(v.c))
		}
	}
	return Value{}
}

// ToComplex converts any numeric value to Complex.
func ToComplex(v Value) Value {
	switch v.kind {
	case Integer, Float:
		return MakeComplex(v.Float64(), 0)
	case Complex:
		return v
	}
	return Value{}
}

// Real is the real part of a numeric value, as a Float.
func Real(v Value) Value {
	switch v.kind {
	case Integer, Float:
		return ToFloat(v)
	case Complex:
		return MakeFloat64(real(v.c))
	}
	return Value{}
}

// Imag is the imaginary part of a numeric value, as a Float.
func Imag(v Value) Value {
	switch v.kind {
	case Integer, Float:
		return MakeFloat64(0)
	case Complex:
		return MakeFloat64(imag(v.c))
	}
	return Value{}
}

// Equal compares two constant values for equality after promotion.
func Equal(x, y Value) bool {
	if x.kind == Invalid || y.kind == Invalid {
		return x.kind == y.kind
	}
	if x.kind == Pointer || y.kind == Pointer {
		return x.kind == y.kind && x.p == y.p
	}
	return Compare(x, tokens.DOUBLE_EQUAL_TOKEN, y)
}
