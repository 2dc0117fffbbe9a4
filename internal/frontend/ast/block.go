package ast

import "github.com/dimenus/Odin/internal/source"

// Block represents a block of statements
type Block struct {
	Stmts []Statement
	source.Location
}

func (b *Block) INode()                {} // Implements Node interface
func (b *Block) Stmt()                 {}
func (b *Block) Loc() *source.Location { return &b.Location }
