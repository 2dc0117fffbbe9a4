package typechecker

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/dimenus/Odin/internal/types"
)

const exprSrc = `
U :: union { i32, string }
x: i32
y: i64
f: f32
u: U
`

func TestCheckExpr(t *testing.T) {
	tests := []struct {
		expr  string
		mode  AddressingMode
		typ   types.SemType
		value string
	}{
		{"1 + 2", ModeConstant, types.TypeUntypedInteger, "3"},
		{"1 + 2.5", ModeConstant, types.TypeUntypedFloat, "3.5"},
		{"(2 + 3) * 4", ModeConstant, types.TypeUntypedInteger, "20"},
		{"x", ModeVariable, types.TypeI32, ""},
		{"x + 1", ModeValue, types.TypeI32, ""},
		{"cast(f32)x", ModeValue, types.TypeF32, ""},
		{"f64(x)", ModeValue, types.TypeF64, ""},
		{"transmute(u32)f", ModeValue, types.TypeU32, ""},
		{"u8(255)", ModeConstant, types.TypeU8, "255"},
		{"u.(i32)", ModeOptionalOk, types.TypeI32, ""},
		{"min(3, 1, 2)", ModeConstant, types.TypeUntypedInteger, "1"},
		{"max(1, 2.5)", ModeConstant, types.TypeUntypedFloat, "2.5"},
		{"i32", ModeType, types.TypeI32, ""},
		{"[4]f32", ModeType, types.NewArray(types.TypeF32, 4), ""},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f := declare(t, exprSrc)
			o := f.expr(tt.expr)
			f.wantMessages()
			if o.Mode != tt.mode {
				t.Errorf("mode = %v, want %v", o.Mode, tt.mode)
			}
			if !types.Identical(o.Type, tt.typ) {
				t.Errorf("type = %v, want %v", o.Type, tt.typ)
			}
			if tt.value != "" && o.Value.String() != tt.value {
				t.Errorf("value = %s, want %s", o.Value, tt.value)
			}
		})
	}
}

func TestCheckExprErrors(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"x + y", "T0002: mismatched types in binary expression 'x' : 'i32' vs 'i64'"},
		{"x / 0", "T0010: division by zero not allowed"},
		{"missing", "T0001: undeclared name: missing"},
		{"u8(300)", "T0019: cannot cast '300' as 'u8'"},
		{"cast(string)x", "T0019: cannot cast 'x' as 'string' from 'i32'"},
		{"transmute(u64)f", "T0019: cannot transmute 'f' to 'u64', 4 vs 8 bytes"},
		{"transmute(u32)1", "T0012: cannot transmute a constant expression"},
		{"u.(f64)", "T0002: cannot type assert 'u' to 'f64' as it is not a variant of 'U'"},
		{"x.(i32)", "T0002: type assertions are only allowed on unions and 'any', got 'i32'"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f := declare(t, exprSrc)
			if o := f.expr(tt.expr); o.Mode != ModeInvalid {
				t.Errorf("mode = %v, want invalid", o.Mode)
			}
			f.wantMessages(tt.want)
		})
	}
}

func TestConstantOverflow(t *testing.T) {
	f := check(t, `
a: u8 = 255
b: u8 = 300
c: i8 = -129
d: i32 = 1.5
`)
	f.wantMessages(
		"T0011: '300' overflows 'u8'",
		"T0011: '-129' overflows 'i8'",
		"T0011: '1.5' truncated to 'i32'",
	)
	if got := f.entity("a").Type; !types.Identical(got, types.TypeU8) {
		t.Errorf("a has type %v, want u8", got)
	}
}

func TestRedundantCastWarning(t *testing.T) {
	f := declare(t, exprSrc)
	f.checker.cfg.Options.StrictCasts = true
	f.expr("cast(i32)x")
	f.wantMessages("W0001: redundant cast of 'x' to 'i32'")
	if f.diag.HasErrors() {
		t.Errorf("a redundant cast is not an error")
	}
}

func TestShifts(t *testing.T) {
	const src = `
x: i32
n: u32
s: i32
`
	tests := []struct {
		expr  string
		mode  AddressingMode
		value string
		want  []string
	}{
		{"x << n", ModeValue, "", nil},
		{"x << 3", ModeValue, "", nil},
		{"1 << 4", ModeConstant, "16", nil},
		{"1.0 << 4", ModeConstant, "16", nil},
		{"1 << 128", ModeConstant, "340282366920938463463374607431768211456", nil},
		{"1 << n", ModeValue, "", nil},
		{"x << -1", ModeValue, "", []string{"T0009: shift amount cannot be negative: '-1'"}},
		{"1 << 129", ModeInvalid, "", []string{"T0011: shift amount too large: '129'"}},
		{"x << s", ModeInvalid, "", []string{"T0009: shift amount 's' must be an unsigned integer"}},
		{"1.5 << 2", ModeInvalid, "", []string{"T0009: shifted operand '1.5' must be an integer"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f := declare(t, src)
			o := f.expr(tt.expr)
			f.wantMessages(tt.want...)
			if o.Mode != tt.mode {
				t.Errorf("mode = %v, want %v", o.Mode, tt.mode)
			}
			if tt.value != "" && o.Value.String() != tt.value {
				t.Errorf("value = %s, want %s", o.Value, tt.value)
			}
		})
	}
}

func TestShiftedUntypedOperand(t *testing.T) {
	tests := []struct {
		decl string
		want []string
	}{
		{"k: i64 = 1 << n\n", nil},
		{"k := 1 << n\n", nil},
		{"k: f32 = 1 << n\n", []string{"T0009: shifted operand '1' must be an integer, got 'f32'"}},
	}
	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			check(t, "n: u32\n"+tt.decl).wantMessages(tt.want...)
		})
	}
}

func TestUnionConversion(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want []string
	}{
		{"single variant", "v: U = 1\n", nil},
		{"string variant", "v: U = \"s\"\n", nil},
		{"ambiguous", "v: W = 1\n", []string{"T0004: ambiguous type conversion of '1' to 'W'"}},
		{"no variant", "v: U = 1.5\n", []string{"T0002: cannot convert '1.5' to 'U'"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check(t, "U :: union { i32, string }\nW :: union { i32, i64 }\n"+tt.decl).wantMessages(tt.want...)
		})
	}
}

func TestUnionConversionIsIdempotent(t *testing.T) {
	f := check(t, `
U :: union { i32, string }
x: i32
a: U = x
b: U = a
`)
	f.wantMessages()
	union := f.entity("U").Type
	for _, name := range []string{"a", "b"} {
		if got := f.entity(name).Type; !types.Identical(got, union) {
			t.Errorf("%s has type %v, want U", name, got)
		}
	}
	env := NewEnv(f.scope)
	if d := f.checker.Distance(env, f.expr("a"), union); d != 0 {
		t.Errorf("Distance(a, U) = %d, want 0", d)
	}
	if d := f.checker.Distance(env, f.expr("x"), union); d != 1 {
		t.Errorf("Distance(x, U) = %d, want 1", d)
	}
}

func TestIntegerBounds(t *testing.T) {
	tests := []struct {
		typ    types.SemType
		bits   uint
		signed bool
	}{
		{types.TypeI8, 8, true},
		{types.TypeI16, 16, true},
		{types.TypeI32, 32, true},
		{types.TypeI64, 64, true},
		{types.TypeI128, 128, true},
		{types.TypeInt, 64, true},
		{types.TypeU8, 8, false},
		{types.TypeU16, 16, false},
		{types.TypeU32, 32, false},
		{types.TypeU64, 64, false},
		{types.TypeU128, 128, false},
		{types.TypeUint, 64, false},
		{types.TypeUintptr, 64, false},
	}
	one := big.NewInt(1)
	for _, tt := range tests {
		lo, hi := new(big.Int), new(big.Int).Lsh(one, tt.bits)
		if tt.signed {
			hi.Rsh(hi, 1)
			lo.Neg(hi)
		}
		hi.Sub(hi, one)
		below := new(big.Int).Sub(lo, one)
		above := new(big.Int).Add(hi, one)

		t.Run(tt.typ.String(), func(t *testing.T) {
			for _, bound := range []*big.Int{lo, hi} {
				f := declare(t, "")
				src := fmt.Sprintf("%s(%s)", tt.typ, bound)
				o := f.expr(src)
				f.wantMessages()
				if o.Mode != ModeConstant || !types.Identical(o.Type, tt.typ) {
					t.Errorf("%s: got %v of type %v, want a %s constant", src, o.Mode, o.Type, tt.typ)
				} else if o.Value.String() != bound.String() {
					t.Errorf("%s = %s, want %s", src, o.Value, bound)
				}
				if d := f.checker.Distance(NewEnv(f.scope), f.expr(bound.String()), tt.typ); d != 1 {
					t.Errorf("Distance(%s, %s) = %d, want 1", bound, tt.typ, d)
				}
			}
			for _, out := range []*big.Int{below, above} {
				f := declare(t, "")
				if d := f.checker.Distance(NewEnv(f.scope), f.expr(out.String()), tt.typ); d != -1 {
					t.Errorf("Distance(%s, %s) = %d, want -1", out, tt.typ, d)
				}
				o := f.expr(fmt.Sprintf("%s(%s)", tt.typ, out))
				if o.Mode != ModeInvalid {
					t.Errorf("%s(%s) mode = %v, want invalid", tt.typ, out, o.Mode)
				}
				f.wantMessages("T0019: cannot cast")
			}
		})
	}
}
