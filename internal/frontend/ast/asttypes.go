package ast

import (
	"github.com/dimenus/Odin/internal/source"
)

type Invalid struct {
	source.Location
}

func (i *Invalid) INode()                {} // Implements Node interface
func (i *Invalid) Expr()                 {} // Can be used as expression (for error recovery)
func (i *Invalid) TypeExpr()             {} // Type nodes implement TypeExpr
func (i *Invalid) Loc() *source.Location { return &i.Location }

// PointerType represents ^T
type PointerType struct {
	Elem Expression
	source.Location
}

func (p *PointerType) INode()                {}
func (p *PointerType) Expr()                 {}
func (p *PointerType) TypeExpr()             {}
func (p *PointerType) Loc() *source.Location { return &p.Location }

// ArrayType represents [N]T, [?]T (Infer) or []T (Len nil)
type ArrayType struct {
	Len   Expression
	Infer bool
	Elem  Expression
	source.Location
}

func (a *ArrayType) INode()                {} // Implements Node interface
func (a *ArrayType) Expr()                 {}
func (a *ArrayType) TypeExpr()             {} // Type nodes implement TypeExpr
func (a *ArrayType) Loc() *source.Location { return &a.Location }

// DynamicArrayType represents [dynamic]T
type DynamicArrayType struct {
	Elem Expression
	source.Location
}

func (d *DynamicArrayType) INode()                {}
func (d *DynamicArrayType) Expr()                 {}
func (d *DynamicArrayType) TypeExpr()             {}
func (d *DynamicArrayType) Loc() *source.Location { return &d.Location }

// MapType represents map[K]V
type MapType struct {
	Key   Expression
	Value Expression
	source.Location
}

func (m *MapType) INode()                {}
func (m *MapType) Expr()                 {}
func (m *MapType) TypeExpr()             {}
func (m *MapType) Loc() *source.Location { return &m.Location }

type StructField struct {
	Name  *IdentifierExpr
	Type  Expression
	Using bool
	source.Location
}

func (f *StructField) INode()                {}
func (f *StructField) Loc() *source.Location { return &f.Location }

// StructType represents struct($T: typeid){...}; PolyParams is nil for a
// plain struct.
type StructType struct {
	PolyParams []*Param
	Fields     []*StructField
	source.Location
}

func (s *StructType) INode()                {}
func (s *StructType) Expr()                 {}
func (s *StructType) TypeExpr()             {}
func (s *StructType) Loc() *source.Location { return &s.Location }

type UnionType struct {
	PolyParams []*Param
	Variants   []Expression
	NoNil      bool
	source.Location
}

func (u *UnionType) INode()                {}
func (u *UnionType) Expr()                 {}
func (u *UnionType) TypeExpr()             {}
func (u *UnionType) Loc() *source.Location { return &u.Location }

// EnumValue is one enum member; Value may be nil to continue the sequence.
type EnumValue struct {
	Name  *IdentifierExpr
	Value Expression
	source.Location
}

type EnumType struct {
	Base   Expression // nil means int
	Fields []*EnumValue
	source.Location
}

func (e *EnumType) INode()                {}
func (e *EnumType) Expr()                 {}
func (e *EnumType) TypeExpr()             {}
func (e *EnumType) Loc() *source.Location { return &e.Location }

// BitSetType is bit_set[Elem; Underlying]. Elem is an enum type or a range
// expression such as 0..<8.
type BitSetType struct {
	Elem       Expression
	Underlying Expression
	source.Location
}

func (b *BitSetType) INode()                {}
func (b *BitSetType) Expr()                 {}
func (b *BitSetType) TypeExpr()             {}
func (b *BitSetType) Loc() *source.Location { return &b.Location }

// Param is one procedure or record parameter.
// Poly marks `$T: typeid` and `$N: int`; a `x: $T` parameter instead has a
// PolyType as its Type.
type Param struct {
	Name     *IdentifierExpr
	Type     Expression
	Default  Expression
	Poly     bool
	Using    bool
	AutoCast bool
	CVararg  bool
	source.Location
}

func (p *Param) INode()                {}
func (p *Param) Loc() *source.Location { return &p.Location }

// ProcType represents proc(params) -> results
type ProcType struct {
	Params  []*Param
	Results []*Param
	source.Location
}

func (p *ProcType) INode()                {}
func (p *ProcType) Expr()                 {}
func (p *ProcType) TypeExpr()             {}
func (p *ProcType) Loc() *source.Location { return &p.Location }

// EllipsisType is the ..T of a variadic parameter
type EllipsisType struct {
	Elem Expression
	source.Location
}

func (e *EllipsisType) INode()                {}
func (e *EllipsisType) Expr()                 {}
func (e *EllipsisType) TypeExpr()             {}
func (e *EllipsisType) Loc() *source.Location { return &e.Location }

// PolyType is $T or $T/Specialization
type PolyType struct {
	Name           *IdentifierExpr
	Specialization Expression
	source.Location
}

func (p *PolyType) INode()                {}
func (p *PolyType) Expr()                 {}
func (p *PolyType) TypeExpr()             {}
func (p *PolyType) Loc() *source.Location { return &p.Location }

type DistinctType struct {
	Type Expression
	source.Location
}

func (d *DistinctType) INode()                {}
func (d *DistinctType) Expr()                 {}
func (d *DistinctType) TypeExpr()             {}
func (d *DistinctType) Loc() *source.Location { return &d.Location }

type OpaqueType struct {
	Type Expression
	source.Location
}

func (o *OpaqueType) INode()                {}
func (o *OpaqueType) Expr()                 {}
func (o *OpaqueType) TypeExpr()             {}
func (o *OpaqueType) Loc() *source.Location { return &o.Location }
