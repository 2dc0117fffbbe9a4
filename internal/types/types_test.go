package types

import (
	"testing"

	"github.com/dimenus/Odin/internal/semantics/consteval"
)

func TestTypeString(t *testing.T) {
	vec := NewNamed("Vec", "main", &Struct{Fields: []*Field{{Name: "x", Type: TypeF32}}})
	tests := []struct {
		typ  SemType
		want string
	}{
		{TypeI32, "i32"},
		{TypeUntypedInteger, "untyped integer"},
		{NewPointer(TypeInt), "^int"},
		{NewArray(TypeU8, 4), "[4]u8"},
		{NewSlice(TypeString), "[]string"},
		{NewDynamicArray(vec), "[dynamic]Vec"},
		{NewMap(TypeString, TypeInt), "map[string]int"},
		{&Array{Elem: TypeF32, CountParam: NewGeneric("N", nil)}, "[$N]f32"},
		{NewSlice(NewGeneric("T", nil)), "[]$T"},
		{&Union{Variants: []SemType{TypeInt, TypeF64}}, "union{int, f64}"},
		{&Union{Variants: []SemType{TypeInt}, NoNil: true}, "union #no_nil{int}"},
		{&Struct{Fields: []*Field{{Name: "a", Type: TypeInt}, {Name: "b", Type: vec, Using: true}}}, "struct{a: int, using b: Vec}"},
		{&BitSet{Elem: TypeInt, Lower: 0, Upper: 7}, "bit_set[0..=7]"},
		{&BitSet{Elem: TypeInt, Lower: 0, Upper: 7, Underlying: TypeU8}, "bit_set[0..=7; u8]"},
		{&Opaque{Elem: TypeInt}, "opaque int"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestProcString(t *testing.T) {
	tests := []struct {
		name string
		proc *Proc
		want string
	}{
		{
			name: "no results",
			proc: &Proc{Params: NewTuple(&Var{Name: "a", Type: TypeInt})},
			want: "proc(a: int)",
		},
		{
			name: "single result",
			proc: &Proc{
				Params:  NewTuple(&Var{Name: "a", Type: TypeInt}, &Var{Name: "b", Type: TypeInt}),
				Results: NewTuple(&Var{Type: TypeInt}),
			},
			want: "proc(a: int, b: int) -> int",
		},
		{
			name: "variadic",
			proc: &Proc{
				Params:        NewTuple(&Var{Name: "args", Type: NewSlice(TypeAny)}),
				Variadic:      true,
				VariadicIndex: 0,
			},
			want: "proc(args: ..any)",
		},
		{
			name: "multiple results",
			proc: &Proc{
				Params:  NewTuple(&Var{Name: "T", Kind: VarType, Type: TypeTypeid}),
				Results: NewTuple(&Var{Type: TypeInt}, &Var{Type: TypeBool}),
			},
			want: "proc($T: typeid) -> (int, bool)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.proc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIdentical(t *testing.T) {
	a := NewNamed("A", "main", &Struct{})
	b := NewNamed("A", "main", &Struct{})
	g := NewGeneric("T", nil)

	procA := &Proc{Params: NewTuple(&Var{Name: "x", Type: TypeInt}), Results: NewTuple(&Var{Type: TypeBool})}
	procB := &Proc{Params: NewTuple(&Var{Name: "y", Type: TypeInt}), Results: NewTuple(&Var{Type: TypeBool})}
	procC := &Proc{Params: NewTuple(&Var{Name: "x", Type: TypeI32}), Results: NewTuple(&Var{Type: TypeBool})}

	tests := []struct {
		name  string
		t1    SemType
		t2    SemType
		equal bool
	}{
		{"same basic", TypeI32, TypeI32, true},
		{"basic by kind", &Basic{Kind: I32}, TypeI32, true},
		{"different basic", TypeI32, TypeI64, false},
		{"named is nominal", a, b, false},
		{"named with itself", a, a, true},
		{"named vs underlying", a, a.Underlying(), false},
		{"pointer structural", NewPointer(TypeInt), NewPointer(TypeInt), true},
		{"array count", NewArray(TypeInt, 3), NewArray(TypeInt, 4), false},
		{"slice vs dynamic", NewSlice(TypeInt), NewDynamicArray(TypeInt), false},
		{"map", NewMap(TypeString, a), NewMap(TypeString, a), true},
		{"generic identity", g, g, true},
		{"distinct generics", g, NewGeneric("T", nil), false},
		{"proc ignores names", procA, procB, true},
		{"proc param types", procA, procC, false},
		{"union order matters", &Union{Variants: []SemType{TypeInt, TypeF32}}, &Union{Variants: []SemType{TypeF32, TypeInt}}, false},
		{"nil vs type", nil, TypeInt, false},
		{"nil vs nil", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Identical(tt.t1, tt.t2); got != tt.equal {
				t.Errorf("Identical(%v, %v) = %v, want %v", tt.t1, tt.t2, got, tt.equal)
			}
		})
	}
}

func TestRecordInstancesCompareByArguments(t *testing.T) {
	tmpl := NewNamed("Vec", "main", &Struct{PolyParams: NewTuple(&Var{Name: "T", Kind: VarType, Type: TypeTypeid})})
	inst := func(arg SemType) *Struct {
		return &Struct{Template: tmpl, Args: []PolyArg{{Type: arg}}, Fields: []*Field{{Name: "x", Type: arg}}}
	}
	if !Identical(inst(TypeF32), inst(TypeF32)) {
		t.Error("instances with equal arguments should be identical")
	}
	if Identical(inst(TypeF32), inst(TypeF64)) {
		t.Error("instances with different arguments should differ")
	}

	c1 := PolyArg{Value: consteval.MakeInt64(3)}
	c2 := PolyArg{Value: consteval.MakeInt64(3)}
	if !c1.Equals(c2) {
		t.Error("constant arguments compare by value")
	}
	if c1.Equals(PolyArg{Type: TypeInt}) {
		t.Error("constant argument must not equal a type argument")
	}
}

func TestHash(t *testing.T) {
	n := NewNamed("N", "main", TypeInt)
	tests := []struct {
		name string
		t1   SemType
		t2   SemType
		same bool
	}{
		{"identical slices", NewSlice(TypeInt), NewSlice(TypeInt), true},
		{"different elems", NewSlice(TypeInt), NewSlice(TypeI32), false},
		{"slice vs array", NewSlice(TypeInt), NewArray(TypeInt, 0), false},
		{"named identity", NewPointer(n), NewPointer(n), true},
		{"fresh named", n, NewNamed("N", "main", TypeInt), false},
		{
			"proc",
			&Proc{Params: NewTuple(&Var{Name: "a", Type: TypeInt})},
			&Proc{Params: NewTuple(&Var{Name: "b", Type: TypeInt})},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hash(tt.t1) == Hash(tt.t2)
			if got != tt.same {
				t.Errorf("Hash(%v) == Hash(%v) is %v, want %v", tt.t1, tt.t2, got, tt.same)
			}
		})
	}
}

func TestHashTupleIncludesConstants(t *testing.T) {
	a := NewTuple(&Var{Name: "N", Kind: VarConst, Type: TypeInt, Value: consteval.MakeInt64(2)})
	b := NewTuple(&Var{Name: "N", Kind: VarConst, Type: TypeInt, Value: consteval.MakeInt64(3)})
	if HashTuple(a) == HashTuple(b) {
		t.Error("tuples bound to different constants should hash differently")
	}
	if Identical(a, b) {
		t.Error("tuples bound to different constants should not be identical")
	}
}
