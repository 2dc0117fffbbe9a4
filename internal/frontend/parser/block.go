package parser

import (
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/tokens"
)

// parseBlock parses a block of statements: { stmt; stmt; ... }
func (p *Parser) parseBlock() *ast.Block {
	start := p.expect(tokens.OPEN_CURLY).Loc.Start
	old := p.exprLev
	p.exprLev = 0
	block := &ast.Block{}
	for !p.match(tokens.CLOSE_CURLY, tokens.EOF_TOKEN) {
		if p.match(tokens.SEMICOLON_TOKEN) {
			p.advance()
			continue
		}
		before := p.current
		block.Stmts = append(block.Stmts, p.parseStmt())
		p.expectSemicolon()
		if p.current == before {
			p.advance()
		}
	}
	p.exprLev = old
	p.expect(tokens.CLOSE_CURLY)
	block.Location = p.makeLocation(start)
	return block
}
