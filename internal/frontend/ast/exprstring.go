package ast

import (
	"strings"

	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/tokens"
)

// ExprString renders e in source form for diagnostics.
func ExprString(e Expression) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expression) {
	switch n := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case *IdentifierExpr:
		b.WriteString(n.Name)
	case *BasicLit:
		switch n.Kind {
		case consteval.StringLiteral:
			b.WriteString(`"` + n.Value + `"`)
		default:
			b.WriteString(n.Value)
		}
	case *UndefLit:
		b.WriteString("---")
	case *Invalid:
		b.WriteString("<invalid>")
	case *BinaryExpr:
		writeExpr(b, n.X)
		b.WriteString(" " + string(n.Op.Kind) + " ")
		writeExpr(b, n.Y)
	case *UnaryExpr:
		b.WriteString(string(n.Op.Kind))
		writeExpr(b, n.X)
	case *ParenExpr:
		b.WriteString("(")
		writeExpr(b, n.X)
		b.WriteString(")")
	case *TernaryExpr:
		switch n.Op {
		case tokens.QUESTION_TOKEN:
			writeExpr(b, n.Cond)
			b.WriteString(" ? ")
			writeExpr(b, n.Then)
			b.WriteString(" : ")
			writeExpr(b, n.Else)
		default:
			writeExpr(b, n.Then)
			b.WriteString(" " + string(n.Op) + " ")
			writeExpr(b, n.Cond)
			b.WriteString(" else ")
			writeExpr(b, n.Else)
		}
	case *CallExpr:
		writeExpr(b, n.Fun)
		b.WriteString("(")
		for i, a := range n.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			if n.Ellipsis && i == len(n.Args)-1 {
				b.WriteString("..")
			}
			writeExpr(b, a)
		}
		b.WriteString(")")
	case *FieldValue:
		writeExpr(b, n.Field)
		b.WriteString(" = ")
		writeExpr(b, n.Value)
	case *SelectorExpr:
		writeExpr(b, n.X)
		b.WriteString(".")
		writeExpr(b, n.Field)
	case *ImplicitSelectorExpr:
		b.WriteString(".")
		writeExpr(b, n.Field)
	case *IndexExpr:
		writeExpr(b, n.X)
		b.WriteString("[")
		writeExpr(b, n.Index)
		b.WriteString("]")
	case *SliceExpr:
		writeExpr(b, n.X)
		b.WriteString("[")
		if n.Low != nil {
			writeExpr(b, n.Low)
		}
		b.WriteString(":")
		if n.High != nil {
			writeExpr(b, n.High)
		}
		b.WriteString("]")
	case *DerefExpr:
		writeExpr(b, n.X)
		b.WriteString("^")
	case *TypeAssertExpr:
		writeExpr(b, n.X)
		if n.Type == nil {
			b.WriteString(".?")
			break
		}
		b.WriteString(".(")
		writeExpr(b, n.Type)
		b.WriteString(")")
	case *CastExpr:
		b.WriteString(string(n.Op) + "(")
		writeExpr(b, n.Type)
		b.WriteString(")")
		writeExpr(b, n.X)
	case *AutoCastExpr:
		b.WriteString("auto_cast ")
		writeExpr(b, n.X)
	case *ProcGroupExpr:
		b.WriteString("proc{")
		writeList(b, n.Procs)
		b.WriteString("}")
	case *CompositeLit:
		if n.Type != nil {
			writeExpr(b, n.Type)
		}
		b.WriteString("{")
		writeList(b, n.Elts)
		b.WriteString("}")
	case *ProcLit:
		writeExpr(b, n.Type)
		if n.Body != nil {
			b.WriteString(" {...}")
		}
	case *PointerType:
		b.WriteString("^")
		writeExpr(b, n.Elem)
	case *ArrayType:
		b.WriteString("[")
		switch {
		case n.Infer:
			b.WriteString("?")
		case n.Len != nil:
			writeExpr(b, n.Len)
		}
		b.WriteString("]")
		writeExpr(b, n.Elem)
	case *DynamicArrayType:
		b.WriteString("[dynamic]")
		writeExpr(b, n.Elem)
	case *MapType:
		b.WriteString("map[")
		writeExpr(b, n.Key)
		b.WriteString("]")
		writeExpr(b, n.Value)
	case *StructType:
		b.WriteString("struct")
		if n.PolyParams != nil {
			writeParams(b, n.PolyParams)
		}
		b.WriteString("{")
		for i, f := range n.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			if f.Using {
				b.WriteString("using ")
			}
			b.WriteString(f.Name.Name + ": ")
			writeExpr(b, f.Type)
		}
		b.WriteString("}")
	case *UnionType:
		b.WriteString("union")
		if n.PolyParams != nil {
			writeParams(b, n.PolyParams)
		}
		b.WriteString("{")
		writeList(b, n.Variants)
		b.WriteString("}")
	case *EnumType:
		b.WriteString("enum ")
		if n.Base != nil {
			writeExpr(b, n.Base)
			b.WriteString(" ")
		}
		b.WriteString("{")
		for i, f := range n.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name.Name)
			if f.Value != nil {
				b.WriteString(" = ")
				writeExpr(b, f.Value)
			}
		}
		b.WriteString("}")
	case *BitSetType:
		b.WriteString("bit_set[")
		writeExpr(b, n.Elem)
		if n.Underlying != nil {
			b.WriteString("; ")
			writeExpr(b, n.Underlying)
		}
		b.WriteString("]")
	case *ProcType:
		b.WriteString("proc")
		writeParams(b, n.Params)
		switch len(n.Results) {
		case 0:
		case 1:
			if n.Results[0].Name == nil {
				b.WriteString(" -> ")
				writeExpr(b, n.Results[0].Type)
				break
			}
			fallthrough
		default:
			b.WriteString(" -> ")
			writeParams(b, n.Results)
		}
	case *EllipsisType:
		b.WriteString("..")
		writeExpr(b, n.Elem)
	case *PolyType:
		b.WriteString("$" + n.Name.Name)
		if n.Specialization != nil {
			b.WriteString("/")
			writeExpr(b, n.Specialization)
		}
	case *DistinctType:
		b.WriteString("distinct ")
		writeExpr(b, n.Type)
	case *OpaqueType:
		b.WriteString("opaque ")
		writeExpr(b, n.Type)
	default:
		b.WriteString("<expr>")
	}
}

func writeList(b *strings.Builder, list []Expression) {
	for i, e := range list {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(b, e)
	}
}

func writeParams(b *strings.Builder, params []*Param) {
	b.WriteString("(")
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Using {
			b.WriteString("using ")
		}
		if p.AutoCast {
			b.WriteString("#any_int ")
		}
		if p.CVararg {
			b.WriteString("#c_vararg ")
		}
		if p.Name != nil {
			if p.Poly {
				b.WriteString("$")
			}
			b.WriteString(p.Name.Name)
			if p.Type != nil {
				b.WriteString(": ")
			}
		}
		if p.Type != nil {
			writeExpr(b, p.Type)
		}
		if p.Default != nil {
			b.WriteString(" = ")
			writeExpr(b, p.Default)
		}
	}
	b.WriteString(")")
}
