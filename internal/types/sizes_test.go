package types

import "testing"

func TestSizes(t *testing.T) {
	s64 := Sizes{WordSize: 8}
	s32 := Sizes{WordSize: 4}

	tests := []struct {
		name  string
		sizes Sizes
		typ   SemType
		size  int64
		align int64
	}{
		{"i8", s64, TypeI8, 1, 1},
		{"int 64-bit", s64, TypeInt, 8, 8},
		{"int 32-bit", s32, TypeInt, 4, 4},
		{"string", s64, TypeString, 16, 8},
		{"any", s32, TypeAny, 8, 4},
		{"i128", s64, TypeI128, 16, 16},
		{"complex128", s64, TypeComplex128, 16, 8},
		{"untyped integer uses default", s64, TypeUntypedInteger, 8, 8},
		{"slice", s64, NewSlice(TypeInt), 16, 8},
		{"array", s64, NewArray(TypeI16, 3), 6, 2},
		{"padded struct", s64, &Struct{Fields: []*Field{{Name: "a", Type: TypeU8}, {Name: "b", Type: TypeI32}}}, 8, 4},
		{"tail padding", s64, &Struct{Fields: []*Field{{Name: "a", Type: TypeI64}, {Name: "b", Type: TypeU8}}}, 16, 8},
		{"union", s64, &Union{Variants: []SemType{TypeI32, TypeF64}}, 16, 8},
		{"bit_set small", s64, &BitSet{Elem: TypeInt, Lower: 0, Upper: 7}, 1, 1},
		{"bit_set 33 bits", s64, &BitSet{Elem: TypeInt, Lower: 0, Upper: 32}, 8, 8},
		{"enum", s64, &Enum{Base: TypeU16}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sizes.SizeOf(tt.typ); got != tt.size {
				t.Errorf("SizeOf(%v) = %d, want %d", tt.typ, got, tt.size)
			}
			if got := tt.sizes.AlignOf(tt.typ); got != tt.align {
				t.Errorf("AlignOf(%v) = %d, want %d", tt.typ, got, tt.align)
			}
		})
	}
}
