package ast

import (
	"github.com/dimenus/Odin/internal/source"
)

// Node is the base interface for all AST nodes
type Node interface {
	INode()
	Loc() *source.Location
}

// Expression represents any node that produces a value or denotes a type.
// Type expressions are expressions too: `[]int` can appear wherever a value
// can, and the checker decides which one it got.
type Expression interface {
	Node
	Expr()
}

// TypeNode is an expression that can only denote a type
type TypeNode interface {
	Expression
	TypeExpr()
}

// Statement represents any node that performs an action
type Statement interface {
	Node
	Stmt()
}

// Decl represents a declaration
type Decl interface {
	Node
	Decl()
}

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expression) Expression {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}
