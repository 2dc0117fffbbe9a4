package ast

import (
	"testing"

	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/tokens"
)

func ident(name string) *IdentifierExpr { return &IdentifierExpr{Name: name} }

func intLit(v string) *BasicLit { return &BasicLit{Kind: consteval.IntLiteral, Value: v} }

func op(k tokens.TOKEN) tokens.Token { return tokens.Token{Kind: k} }

func TestExprString(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{"binary", &BinaryExpr{X: ident("a"), Op: op(tokens.PLUS_TOKEN), Y: intLit("1")}, "a + 1"},
		{"unary", &UnaryExpr{Op: op(tokens.MINUS_TOKEN), X: ident("x")}, "-x"},
		{"string literal", &BasicLit{Kind: consteval.StringLiteral, Value: "hi"}, `"hi"`},
		{"call with spread", &CallExpr{Fun: ident("f"), Args: []Expression{intLit("1"), ident("xs")}, Ellipsis: true}, "f(1, ..xs)"},
		{"named call", &CallExpr{Fun: ident("f"), Args: []Expression{&FieldValue{Field: ident("b"), Value: intLit("2")}}}, "f(b = 2)"},
		{"selector", &SelectorExpr{X: ident("fmt"), Field: ident("println")}, "fmt.println"},
		{"implicit selector", &ImplicitSelectorExpr{Field: ident("Red")}, ".Red"},
		{"index", &IndexExpr{X: ident("a"), Index: intLit("0")}, "a[0]"},
		{"slice", &SliceExpr{X: ident("a"), Low: intLit("1")}, "a[1:]"},
		{"deref", &DerefExpr{X: ident("p")}, "p^"},
		{"assert", &TypeAssertExpr{X: ident("v"), Type: ident("int")}, "v.(int)"},
		{"implicit assert", &TypeAssertExpr{X: ident("v")}, "v.?"},
		{"cast", &CastExpr{Op: tokens.CAST_TOKEN, Type: ident("f32"), X: ident("i")}, "cast(f32)i"},
		{"transmute", &CastExpr{Op: tokens.TRANSMUTE_TOKEN, Type: ident("u32"), X: ident("f")}, "transmute(u32)f"},
		{"auto_cast", &AutoCastExpr{X: ident("x")}, "auto_cast x"},
		{"ternary", &TernaryExpr{Op: tokens.QUESTION_TOKEN, Cond: ident("c"), Then: intLit("1"), Else: intLit("2")}, "c ? 1 : 2"},
		{"if ternary", &TernaryExpr{Op: tokens.IF_TOKEN, Cond: ident("c"), Then: intLit("1"), Else: intLit("2")}, "1 if c else 2"},
		{"pointer type", &PointerType{Elem: ident("int")}, "^int"},
		{"array type", &ArrayType{Len: intLit("4"), Elem: ident("f32")}, "[4]f32"},
		{"inferred array", &ArrayType{Infer: true, Elem: ident("int")}, "[?]int"},
		{"slice type", &ArrayType{Elem: ident("int")}, "[]int"},
		{"dynamic", &DynamicArrayType{Elem: ident("int")}, "[dynamic]int"},
		{"map", &MapType{Key: ident("string"), Value: ident("int")}, "map[string]int"},
		{"poly", &PolyType{Name: ident("T")}, "$T"},
		{"poly spec", &PolyType{Name: ident("T"), Specialization: &ArrayType{Elem: &PolyType{Name: ident("E")}}}, "$T/[]$E"},
		{"proc group", &ProcGroupExpr{Procs: []Expression{ident("a"), ident("b")}}, "proc{a, b}"},
		{"compound", &CompositeLit{Type: ident("Point"), Elts: []Expression{&FieldValue{Field: ident("x"), Value: intLit("1")}}}, "Point{x = 1}"},
		{
			"proc type",
			&ProcType{
				Params:  []*Param{{Name: ident("T"), Poly: true, Type: ident("typeid")}, {Name: ident("xs"), Type: &EllipsisType{Elem: ident("T")}}},
				Results: []*Param{{Type: ident("T")}},
			},
			"proc($T: typeid, xs: ..T) -> T",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExprString(tt.expr); got != tt.want {
				t.Errorf("ExprString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := &ProcLit{
		Type: &ProcType{
			Params:  []*Param{{Name: ident("x"), Type: &PolyType{Name: ident("T")}}},
			Results: []*Param{{Type: ident("T")}},
		},
		Body: &Block{Stmts: []Statement{
			&ReturnStmt{Results: []Expression{&BinaryExpr{X: ident("x"), Op: op(tokens.MUL_TOKEN), Y: intLit("2")}}},
		}},
	}

	c, ok := Clone(orig).(*ProcLit)
	if !ok {
		t.Fatalf("Clone returned %T", Clone(orig))
	}
	if ExprString(c) != ExprString(orig) {
		t.Errorf("clone renders %q, original %q", ExprString(c), ExprString(orig))
	}
	if c.Type == orig.Type || c.Type.Params[0] == orig.Type.Params[0] || c.Type.Params[0].Name == orig.Type.Params[0].Name {
		t.Error("clone shares parameter nodes with the original")
	}

	ret := c.Body.Stmts[0].(*ReturnStmt)
	bin := ret.Results[0].(*BinaryExpr)
	bin.X.(*IdentifierExpr).Name = "y"

	origBin := orig.Body.Stmts[0].(*ReturnStmt).Results[0].(*BinaryExpr)
	if origBin.X.(*IdentifierExpr).Name != "x" {
		t.Error("mutating the clone changed the original")
	}
}

func TestUnparen(t *testing.T) {
	x := ident("x")
	if got := Unparen(&ParenExpr{X: &ParenExpr{X: x}}); got != Expression(x) {
		t.Errorf("Unparen = %v, want x", got)
	}
}
