package ast

import (
	"github.com/dimenus/Odin/internal/source"
)

// Module is one checked unit: a package name, its imports and its top-level
// declarations.
type Module struct {
	FullPath string
	Package  string
	Imports  []*ImportDecl
	Decls    []*ValueDecl
	source.Location
}

func (m *Module) INode()                {}
func (m *Module) Loc() *source.Location { return &m.Location }

// ImportDecl binds Name to another package in the same unit.
type ImportDecl struct {
	Name *IdentifierExpr
	Path string
	source.Location
}

func (i *ImportDecl) INode()                {}
func (i *ImportDecl) Decl()                 {}
func (i *ImportDecl) Loc() *source.Location { return &i.Location }

// ValueDecl covers `a :: expr`, `a: T : expr`, `a := expr` and `a: T = expr`.
type ValueDecl struct {
	Names  []*IdentifierExpr
	Type   Expression
	Values []Expression
	Const  bool
	source.Location
}

func (v *ValueDecl) INode()                {}
func (v *ValueDecl) Decl()                 {} // Decl is a marker interface for all declarations
func (v *ValueDecl) Stmt()                 {} // Also valid inside a block
func (v *ValueDecl) Loc() *source.Location { return &v.Location }

// ExprStmt represents an expression statement
type ExprStmt struct {
	X Expression
	source.Location
}

func (e *ExprStmt) INode()                {} // Implements Node interface
func (e *ExprStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (e *ExprStmt) Loc() *source.Location { return &e.Location }

// ReturnStmt represents a return statement
type ReturnStmt struct {
	Results []Expression
	source.Location
}

func (r *ReturnStmt) INode()                {} // Implements Node interface
func (r *ReturnStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (r *ReturnStmt) Loc() *source.Location { return &r.Location }
