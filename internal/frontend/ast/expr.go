package ast

import (
	"github.com/dimenus/Odin/internal/source"
	"github.com/dimenus/Odin/internal/tokens"
)

// IdentifierExpr represents an identifier
type IdentifierExpr struct {
	Name string
	source.Location
}

func (i *IdentifierExpr) INode()                {} // Implements Node interface
func (i *IdentifierExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (i *IdentifierExpr) Loc() *source.Location { return &i.Location }

// BinaryExpr represents a binary expression
type BinaryExpr struct {
	X  Expression   // left operand
	Op tokens.Token // operator
	Y  Expression   // right operand
	source.Location
}

func (b *BinaryExpr) INode()                {} // Implements Node interface
func (b *BinaryExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (b *BinaryExpr) Loc() *source.Location { return &b.Location }

// UnaryExpr represents a prefix operator: + - ~ ! &
type UnaryExpr struct {
	Op tokens.Token // operator
	X  Expression   // operand
	source.Location
}

func (u *UnaryExpr) INode()                {} // Implements Node interface
func (u *UnaryExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (u *UnaryExpr) Loc() *source.Location { return &u.Location }

type ParenExpr struct {
	X Expression
	source.Location
}

func (p *ParenExpr) INode()                {}
func (p *ParenExpr) Expr()                 {}
func (p *ParenExpr) Loc() *source.Location { return &p.Location }

// TernaryExpr covers `c ? a : b` (Op QUESTION), `a if c else b` (Op IF) and
// `a when c else b` (Op WHEN, condition must be constant).
type TernaryExpr struct {
	Op   tokens.TOKEN
	Cond Expression
	Then Expression
	Else Expression
	source.Location
}

func (t *TernaryExpr) INode()                {}
func (t *TernaryExpr) Expr()                 {}
func (t *TernaryExpr) Loc() *source.Location { return &t.Location }

// CallExpr represents a call. Ellipsis marks `f(..xs)`: the last argument is
// spread into the variadic parameter.
type CallExpr struct {
	Fun      Expression   // function expression
	Args     []Expression // arguments, FieldValue for named ones
	Ellipsis bool
	source.Location
}

func (c *CallExpr) INode()                {} // Implements Node interface
func (c *CallExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (c *CallExpr) Loc() *source.Location { return &c.Location }

// FieldValue is `name = value`, used by named call arguments and compound
// literal elements.
type FieldValue struct {
	Field Expression
	Value Expression
	source.Location
}

func (f *FieldValue) INode()                {}
func (f *FieldValue) Expr()                 {}
func (f *FieldValue) Loc() *source.Location { return &f.Location }

// SelectorExpr represents a field access expression (x.field)
type SelectorExpr struct {
	X     Expression      // expression
	Field *IdentifierExpr // field selector
	source.Location
}

func (s *SelectorExpr) INode()                {} // Implements Node interface
func (s *SelectorExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (s *SelectorExpr) Loc() *source.Location { return &s.Location }

// ImplicitSelectorExpr is `.Name`, an enum member taken from the expected type.
type ImplicitSelectorExpr struct {
	Field *IdentifierExpr
	source.Location
}

func (i *ImplicitSelectorExpr) INode()                {}
func (i *ImplicitSelectorExpr) Expr()                 {}
func (i *ImplicitSelectorExpr) Loc() *source.Location { return &i.Location }

// IndexExpr represents x[index]
type IndexExpr struct {
	X     Expression
	Index Expression
	source.Location
}

func (i *IndexExpr) INode()                {}
func (i *IndexExpr) Expr()                 {}
func (i *IndexExpr) Loc() *source.Location { return &i.Location }

// SliceExpr represents x[low:high]; either bound may be nil.
type SliceExpr struct {
	X    Expression
	Low  Expression
	High Expression
	source.Location
}

func (s *SliceExpr) INode()                {}
func (s *SliceExpr) Expr()                 {}
func (s *SliceExpr) Loc() *source.Location { return &s.Location }

// DerefExpr represents x^
type DerefExpr struct {
	X Expression
	source.Location
}

func (d *DerefExpr) INode()                {}
func (d *DerefExpr) Expr()                 {}
func (d *DerefExpr) Loc() *source.Location { return &d.Location }

// TypeAssertExpr represents x.(T), or x.? when Type is nil.
type TypeAssertExpr struct {
	X    Expression
	Type Expression
	source.Location
}

func (t *TypeAssertExpr) INode()                {}
func (t *TypeAssertExpr) Expr()                 {}
func (t *TypeAssertExpr) Loc() *source.Location { return &t.Location }

// CastExpr is cast(T)x or transmute(T)x, depending on Op.
type CastExpr struct {
	Op   tokens.TOKEN
	Type Expression
	X    Expression
	source.Location
}

func (c *CastExpr) INode()                {}
func (c *CastExpr) Expr()                 {}
func (c *CastExpr) Loc() *source.Location { return &c.Location }

type AutoCastExpr struct {
	X Expression
	source.Location
}

func (a *AutoCastExpr) INode()                {}
func (a *AutoCastExpr) Expr()                 {}
func (a *AutoCastExpr) Loc() *source.Location { return &a.Location }

// ProcGroupExpr is proc{a, b, c}
type ProcGroupExpr struct {
	Procs []Expression
	source.Location
}

func (p *ProcGroupExpr) INode()                {}
func (p *ProcGroupExpr) Expr()                 {}
func (p *ProcGroupExpr) Loc() *source.Location { return &p.Location }
