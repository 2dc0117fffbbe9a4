package typechecker

import (
	"testing"

	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/types"
)

func TestDeclarationCycles(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"constants", "a :: b\nb :: a\n", []string{"T0013: illegal declaration cycle of 'a'"}},
		{"self", "a :: a + 1\n", []string{"T0013: illegal declaration cycle of 'a'"}},
		{"pointer to self", "Node :: struct { next: ^Node, value: int }\n", nil},
		{"mutual through pointers", "A :: struct { b: ^B }\nB :: struct { a: ^A }\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check(t, tt.src).wantMessages(tt.want...)
		})
	}
}

func TestOutOfOrderDeclarations(t *testing.T) {
	f := check(t, `
total := double(HALF)
double :: proc(v: int) -> int { return v * 2 }
HALF :: 21
`)
	f.wantMessages()
	for _, name := range []string{"total", "double", "HALF"} {
		if e := f.entity(name); !e.Resolved() {
			t.Errorf("%s was left unresolved", name)
		}
	}
	if got := f.entity("HALF").Kind; got != symbols.EntityConstant {
		t.Errorf("HALF has kind %v, want constant", got)
	}
	if got := f.entity("total").Type; !types.Identical(got, types.TypeInt) {
		t.Errorf("total has type %v, want int", got)
	}
}

func TestPolymorphicRecords(t *testing.T) {
	f := check(t, `
Pair :: struct($T: typeid) { a, b: T }

p1: Pair(int)
p2: Pair(int)
p3: Pair(f32)
`)
	f.wantMessages()

	p1, p2, p3 := f.entity("p1").Type, f.entity("p2").Type, f.entity("p3").Type
	if !types.Identical(p1, p2) {
		t.Errorf("Pair(int) instantiated twice: %v vs %v", p1, p2)
	}
	if types.Identical(p1, p3) {
		t.Errorf("Pair(int) and Pair(f32) share an instance")
	}
	if got := f.expr("p3.b").Type; !types.Identical(got, types.TypeF32) {
		t.Errorf("p3.b has type %v, want f32", got)
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"local constant", "N :: 4\nv := N * 2\n", nil},
		{"shadowing", "x := 1\n{\n\tx := x + 1\n}\n", nil},
		{"unused", "x := 1\nx + 1\n", []string{"T0017: 'x + 1' is not used"}},
		{"type statement", "i32\n", []string{"T0017: 'i32' is not an expression"}},
		{"undeclared local", "v := w\n", []string{"T0001: undeclared name: w"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check(t, "run :: proc() {\n"+tt.body+"}\n").wantMessages(tt.want...)
		})
	}
}

func TestCommaOk(t *testing.T) {
	f := check(t, `
V :: union { int, f32 }
m: map[string]int
u: V

v1, ok1 := m["a"]
v2, ok2 := u.(int)
`)
	f.wantMessages()

	tests := []struct {
		name string
		want types.SemType
	}{
		{"v1", types.TypeInt},
		{"ok1", types.TypeBool},
		{"v2", types.TypeInt},
		{"ok2", types.TypeBool},
	}
	for _, tt := range tests {
		if got := f.entity(tt.name).Type; !types.Identical(got, tt.want) {
			t.Errorf("%s has type %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCommaOkArity(t *testing.T) {
	f := check(t, `
m: map[string]int
a, b, c := m["a"]
`)
	f.wantMessages(`T0005: assignment mismatch: 3 variables but m["a"] returns 1 values`)
}
