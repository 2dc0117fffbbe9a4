package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"rsc.io/diff"

	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/source"
	"github.com/dimenus/Odin/internal/tokens"
)

func id(name string) *ast.IdentifierExpr { return &ast.IdentifierExpr{Name: name} }

func num(v string) *ast.BasicLit { return &ast.BasicLit{Kind: consteval.IntLiteral, Value: v} }

func bin(x ast.Expression, op tokens.TOKEN, y ast.Expression) *ast.BinaryExpr {
	return &ast.BinaryExpr{X: x, Op: tokens.Token{Kind: op}, Y: y}
}

var ignoreLocations = cmpopts.IgnoreTypes(source.Location{})

func mustParseExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	diag := diagnostics.NewDiagnosticBag()
	x := ParseExpr("expr.odin", src, diag)
	if diag.HasErrors() {
		t.Fatalf("ParseExpr(%q): %v", src, diag.Messages())
	}
	return x
}

func TestParseExprPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want ast.Expression
	}{
		{"1 + 2 * 3", bin(num("1"), tokens.PLUS_TOKEN, bin(num("2"), tokens.MUL_TOKEN, num("3")))},
		{"a - b - c", bin(bin(id("a"), tokens.MINUS_TOKEN, id("b")), tokens.MINUS_TOKEN, id("c"))},
		{"a || b && c", bin(id("a"), tokens.OR_TOKEN, bin(id("b"), tokens.AND_TOKEN, id("c")))},
		{"x == 1 + 2", bin(id("x"), tokens.DOUBLE_EQUAL_TOKEN, bin(num("1"), tokens.PLUS_TOKEN, num("2")))},
		{"x << 1 | y", bin(bin(id("x"), tokens.SHL_TOKEN, num("1")), tokens.BIT_OR_TOKEN, id("y"))},
		{
			"-x * y",
			bin(&ast.UnaryExpr{Op: tokens.Token{Kind: tokens.MINUS_TOKEN}, X: id("x")}, tokens.MUL_TOKEN, id("y")),
		},
		{
			"c ? a : d ? e : f",
			&ast.TernaryExpr{
				Op: tokens.QUESTION_TOKEN, Cond: id("c"), Then: id("a"),
				Else: &ast.TernaryExpr{Op: tokens.QUESTION_TOKEN, Cond: id("d"), Then: id("e"), Else: id("f")},
			},
		},
		{
			"a + b if c else d",
			&ast.TernaryExpr{
				Op: tokens.IF_TOKEN, Cond: id("c"), Then: bin(id("a"), tokens.PLUS_TOKEN, id("b")), Else: id("d"),
			},
		},
		{
			"0 ..< n + 1",
			bin(num("0"), tokens.RANGE_EXCL_TOKEN, bin(id("n"), tokens.PLUS_TOKEN, num("1"))),
		},
	}
	for _, tt := range tests {
		got := mustParseExpr(t, tt.src)
		if diff := cmp.Diff(tt.want, got, ignoreLocations); diff != "" {
			t.Errorf("ParseExpr(%q) mismatch (-want +got):\n%s", tt.src, diff)
		}
	}
}

func TestParseExprForms(t *testing.T) {
	tests := []struct {
		src  string
		want string // empty means src itself
	}{
		{src: "a.b.c"},
		{src: "(a + b) * c"},
		{src: "f(1, y = 2, ..xs)"},
		{src: "Point{x = 1, y = 2}"},
		{src: "{1, 2}"},
		{src: "a[1:]"},
		{src: "a[:n]"},
		{src: "m[k]"},
		{src: "v.(int)"},
		{src: "v.?"},
		{src: "p^.x"},
		{src: ".A"},
		{src: "cast(u8)300"},
		{src: "transmute(u32)f"},
		{src: "auto_cast x"},
		{src: "!ok"},
		{src: "&v"},
		{src: "~m"},
		{src: "x &~ y"},
		{src: "x %% y"},
		{src: "a in s"},
		{src: "a not_in s"},
		{src: "x when c else y"},
		{src: "1 ..= 5"},
		{src: "'a'"},
		{src: "1.5e3"},
		{src: "2i"},
		{src: "0xff"},
		{src: `"hi"`},
		{src: "---"},
		{src: "^int"},
		{src: "[]int"},
		{src: "[dynamic]f32"},
		{src: "[?]int{1, 2}"},
		{src: "[N]T"},
		{src: `map[string]int{"a" = 1}`},
		{src: "bit_set[0 ..< 8; u16]"},
		{src: "bit_set[Dir]"},
		{src: "struct{x: int, y: int}"},
		{src: "struct($T: typeid){v: T}"},
		{src: "union{int, f32}"},
		{src: "enum u8 {A, B = 3}"},
		{src: "distinct int"},
		{src: "$T/[]$E"},
		{src: `Pair(int, string){1, "a"}`},
		{src: "proc(a: int, b: f32) -> bool"},
		{src: "proc($T: typeid, x: T) -> T"},
		{src: "proc(x: $T, y: T) -> T"},
		{src: "proc(int, f32) -> int"},
		{src: "proc() -> (int, bool)"},
		{src: "proc() -> (x: int, ok: bool)"},
		{src: "proc(#c_vararg args: ..any)"},
		{src: "proc(#any_int n: int)"},
		{src: "proc(using p: Point)"},
		{src: "proc{f, g}"},
		{src: "proc(a, b: int)", want: "proc(a: int, b: int)"},
		{src: "proc(x := 1)", want: "proc(x = 1)"},
		{src: "proc(x: int = 1, y: ..int)"},
		{src: "proc(x: int) -> int { return x }", want: "proc(x: int) -> int {...}"},
		{src: "proc(x: int) ---", want: "proc(x: int)"},
	}
	for _, tt := range tests {
		want := tt.want
		if want == "" {
			want = tt.src
		}
		if got := ast.ExprString(mustParseExpr(t, tt.src)); got != want {
			t.Errorf("ParseExpr(%q) = %q, want %q", tt.src, got, want)
		}
	}
}

func TestParseProcShapes(t *testing.T) {
	x := mustParseExpr(t, "proc($T: typeid, #c_vararg args: ..T) -> T ---")
	lit, ok := x.(*ast.ProcLit)
	if !ok {
		t.Fatalf("got %T, want *ast.ProcLit", x)
	}
	if lit.Body != nil {
		t.Errorf("foreign procedure has a body")
	}
	want := []*ast.Param{
		{Name: id("T"), Type: id("typeid"), Poly: true},
		{Name: id("args"), Type: &ast.EllipsisType{Elem: id("T")}, CVararg: true},
	}
	if diff := cmp.Diff(want, lit.Type.Params, ignoreLocations); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func stmtString(b *strings.Builder, s ast.Statement, indent string) {
	switch n := s.(type) {
	case *ast.ValueDecl:
		b.WriteString(indent + declString(n) + "\n")
	case *ast.ReturnStmt:
		parts := []string{"return"}
		for _, r := range n.Results {
			parts = append(parts, ast.ExprString(r))
		}
		b.WriteString(indent + strings.Join(parts, " ") + "\n")
	case *ast.ExprStmt:
		b.WriteString(indent + ast.ExprString(n.X) + "\n")
	case *ast.Block:
		b.WriteString(indent + "{\n")
		for _, st := range n.Stmts {
			stmtString(b, st, indent+"\t")
		}
		b.WriteString(indent + "}\n")
	}
}

func declString(d *ast.ValueDecl) string {
	var b strings.Builder
	for i, n := range d.Names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n.Name)
	}
	switch {
	case d.Type == nil && d.Const:
		b.WriteString(" :: ")
	case d.Type == nil:
		b.WriteString(" := ")
	default:
		b.WriteString(" : " + ast.ExprString(d.Type))
		if len(d.Values) == 0 {
			return b.String()
		}
		if d.Const {
			b.WriteString(" : ")
		} else {
			b.WriteString(" = ")
		}
	}
	for i, v := range d.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(ast.ExprString(v))
	}
	return b.String()
}

func moduleString(m *ast.Module) string {
	var b strings.Builder
	if m.Package != "" {
		b.WriteString("package " + m.Package + "\n")
	}
	for _, imp := range m.Imports {
		b.WriteString("import " + imp.Name.Name + " \"" + imp.Path + "\"\n")
	}
	for _, d := range m.Decls {
		b.WriteString(declString(d) + "\n")
		for _, v := range d.Values {
			if lit, ok := v.(*ast.ProcLit); ok && lit.Body != nil {
				for _, s := range lit.Body.Stmts {
					stmtString(&b, s, "\t")
				}
			}
		}
	}
	return b.String()
}

func TestParseModule(t *testing.T) {
	src := `package demo

import "core:fmt"
import m "math"

A :: 1
B : i32 : 2
c := 3.0
d : f64 = 4
e : int
x, y := f()
Point :: struct {
	x, y: f32,
}
add :: proc(a, b: int) -> int {
	s := a + b
	K :: 2
	fmt.println(s,
		K)
	{
		return s * K
	}
}
`
	want := `package demo
import fmt "core:fmt"
import m "math"
A :: 1
B : i32 : 2
c := 3.0
d : f64 = 4
e : int
x, y := f()
Point :: struct{x: f32, y: f32}
add :: proc(a: int, b: int) -> int {...}
	s := a + b
	K :: 2
	fmt.println(s, K)
	{
		return s * K
	}
`
	diag := diagnostics.NewDiagnosticBag()
	m := ParseSource("demo.odin", src, diag)
	if diag.HasErrors() {
		t.Fatalf("ParseSource: %v", diag.Messages())
	}
	if got := moduleString(m); got != want {
		t.Errorf("ParseSource():\n%s", diff.Format(got, want))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "missing operand",
			src:  "x := 1 +\n",
			want: []string{"P0001: unexpected end of file in expression"},
		},
		{
			name: "missing declaration operator",
			src:  "x 1",
			want: []string{"P0001: expected ':', '::' or ':=' after 'x', got '1'"},
		},
		{
			name: "unclosed parenthesis",
			src:  "x :: (1 + 2",
			want: []string{"P0001: expected ')', got end of file"},
		},
		{
			name: "import after declaration",
			src:  "import \"a\"\nx :: 1\nimport \"b\"\n",
			want: []string{"P0001: import declarations must appear before other declarations"},
		},
		{
			name: "named and unnamed parameters",
			src:  "f :: proc(a: int, b) {}",
			want: []string{"P0001: missing type for parameter 'b'"},
		},
		{
			name: "spread before the last argument",
			src:  "x := f(..xs, y)",
			want: []string{"P0001: '..' may only be used on the last argument"},
		},
		{
			name: "statement at package level",
			src:  "return 1",
			want: []string{"P0001: expected a declaration, got 'return'"},
		},
		{
			name: "unrecognized character",
			src:  "@",
			want: []string{"P0002: unrecognized character '@'"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := diagnostics.NewDiagnosticBag()
			ParseSource("bad.odin", tt.src, diag)
			if diff := cmp.Diff(tt.want, diag.Messages()); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRecoversAfterError(t *testing.T) {
	diag := diagnostics.NewDiagnosticBag()
	m := ParseSource("recover.odin", "x 1\ny :: )\nc :: 3\n", diag)
	if !diag.HasErrors() {
		t.Fatal("expected errors")
	}
	var names []string
	for _, d := range m.Decls {
		names = append(names, d.Names[0].Name)
	}
	if diff := cmp.Diff([]string{"x", "y", "c"}, names); diff != "" {
		t.Errorf("declarations after recovery (-want +got):\n%s", diff)
	}
}
