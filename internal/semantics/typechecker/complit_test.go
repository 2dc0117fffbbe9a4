package typechecker

import (
	"testing"

	"github.com/dimenus/Odin/internal/types"
)

const recordSrc = `
Point :: struct { x, y: int }
Vec :: struct { x, y: f32 }
Box :: struct { using pos: Vec, w: f32 }
Dir :: enum { N, E, S, W }
Dirs :: bit_set[Dir]

b: Box
`

func TestCompositeLiterals(t *testing.T) {
	tests := []struct {
		name string
		decl string
		want []string
	}{
		{"positional", "p := Point{1, 2}\n", nil},
		{"named", "p := Point{x = 1}\n", nil},
		{"empty", "p := Point{}\n", nil},
		{"too few", "p := Point{1}\n", []string{"T0005: too few values in structure literal, expected 2, got 1"}},
		{"too many", "p := Point{1, 2, 3}\n", []string{"T0005: too many values in structure literal, expected 2, got 3"}},
		{"unknown field", "p := Point{x = 1, z = 2}\n", []string{"T0018: unknown field 'z' in structure literal of type 'Point'"}},
		{"duplicate field", "p := Point{x = 1, x = 2}\n", []string{"T0017: duplicate field 'x' in structure literal"}},
		{"mixed", "p := Point{1, y = 2}\n", []string{"T0017: mixture of 'field = value' and value elements"}},
		{"element type", "p := Point{1, \"two\"}\n", []string{"T0002: cannot convert"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := check(t, recordSrc+tt.decl)
			f.wantMessages(tt.want...)
			if len(tt.want) == 0 && !types.Identical(f.entity("p").Type, f.entity("Point").Type) {
				t.Errorf("p has type %v, want Point", f.entity("p").Type)
			}
		})
	}
}

func TestArrayLiterals(t *testing.T) {
	tests := []struct {
		decl string
		want types.SemType
	}{
		{"a := [?]int{1, 2, 3}\n", types.NewArray(types.TypeInt, 3)},
		{"a := [?]int{4 = 1}\n", types.NewArray(types.TypeInt, 5)},
		{"a := [4]f32{1, 2}\n", types.NewArray(types.TypeF32, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.decl, func(t *testing.T) {
			f := check(t, tt.decl)
			f.wantMessages()
			if got := f.entity("a").Type; !types.Identical(got, tt.want) {
				t.Errorf("a has type %v, want %v", got, tt.want)
			}
		})
	}

	f := check(t, "a := [2]int{1, 2, 3}\n")
	f.wantMessages("T0015: too many elements in array literal, expected at most 2")
}

func TestBitSetLiteral(t *testing.T) {
	f := check(t, recordSrc+"ALL :: Dirs{.N, .S}\n")
	f.wantMessages()
	all := f.entity("ALL")
	if got := all.Value.String(); got != "5" {
		t.Errorf("ALL = %s, want 5", got)
	}
	if !types.Identical(all.Type, f.entity("Dirs").Type) {
		t.Errorf("ALL has type %v, want Dirs", all.Type)
	}
}

func TestSelectors(t *testing.T) {
	tests := []struct {
		expr string
		mode AddressingMode
		typ  types.SemType
	}{
		{"b.x", ModeVariable, types.TypeF32},
		{"b.pos", ModeVariable, nil},
		{"b.w", ModeVariable, types.TypeF32},
		{"Dir.S", ModeConstant, nil},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f := check(t, recordSrc)
			o := f.expr(tt.expr)
			f.wantMessages()
			if o.Mode != tt.mode {
				t.Errorf("mode = %v, want %v", o.Mode, tt.mode)
			}
			if tt.typ != nil && !types.Identical(o.Type, tt.typ) {
				t.Errorf("type = %v, want %v", o.Type, tt.typ)
			}
		})
	}

	f := check(t, recordSrc)
	f.expr("b.z")
	f.wantMessages("T0018: 'b' of type 'Box' has no field 'z'")
}
