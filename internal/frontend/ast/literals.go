package ast

import (
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/source"
)

// BasicLit represents a literal of basic type (int, float, imaginary, rune, string)
type BasicLit struct {
	Kind  consteval.LiteralKind
	Value string // the literal text; strings are stored unquoted, runes keep their quotes
	source.Location
}

func (b *BasicLit) INode()                {} // Implements Node interface
func (b *BasicLit) Expr()                 {} // Expr is a marker interface for all expressions
func (b *BasicLit) Loc() *source.Location { return &b.Location }

// UndefLit is `---`
type UndefLit struct {
	source.Location
}

func (u *UndefLit) INode()                {}
func (u *UndefLit) Expr()                 {}
func (u *UndefLit) Loc() *source.Location { return &u.Location }

// CompositeLit represents a compound literal
// Examples:
//   - Array:  [3]i32{1, 2, 3}
//   - Struct: Point{x = 1, y = 2}
//   - Map:    map[string]int{"a" = 1}
//
// Type may be nil, in which case the expected type is used.
type CompositeLit struct {
	Type Expression
	Elts []Expression // plain values or FieldValue
	source.Location
}

func (c *CompositeLit) INode()                {} // Implements Node interface
func (c *CompositeLit) Expr()                 {} // Expr is a marker interface for all expressions
func (c *CompositeLit) Loc() *source.Location { return &c.Location }

// ProcLit represents a procedure literal. Body is nil for foreign
// declarations.
type ProcLit struct {
	Type *ProcType
	Body *Block
	source.Location
}

func (p *ProcLit) INode()                {}
func (p *ProcLit) Expr()                 {}
func (p *ProcLit) Loc() *source.Location { return &p.Location }
