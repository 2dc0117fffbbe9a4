package parser

import (
	"fmt"

	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/frontend/lexer"
	"github.com/dimenus/Odin/internal/source"
	"github.com/dimenus/Odin/internal/tokens"
)

// Parser holds temporary state during parsing of a single file.
type Parser struct {
	tokens      []tokens.Token
	current     int
	diagnostics *diagnostics.DiagnosticBag
	filepath    string
	// exprLev < 0 while a type is parsed; `T{` is then not a compound
	// literal and `proc(...)` takes no body.
	exprLev int
	lastErr source.Position
}

// Parse builds a module from a token stream ending in EOF_TOKEN.
func Parse(toks []tokens.Token, filepath string, diag *diagnostics.DiagnosticBag) *ast.Module {
	if len(toks) == 0 || toks[len(toks)-1].Kind != tokens.EOF_TOKEN {
		toks = append(toks, tokens.Token{Kind: tokens.EOF_TOKEN})
	}
	p := &Parser{
		tokens:      toks,
		diagnostics: diag,
		filepath:    filepath,
	}
	return p.parseModule()
}

// ParseSource lexes and parses one file.
func ParseSource(filepath, content string, diag *diagnostics.DiagnosticBag) *ast.Module {
	toks := lexer.New(filepath, content, diag).Tokenize()
	return Parse(toks, filepath, diag)
}

// ParseExpr parses a standalone expression.
func ParseExpr(filepath, content string, diag *diagnostics.DiagnosticBag) ast.Expression {
	toks := lexer.New(filepath, content, diag).Tokenize()
	p := &Parser{tokens: toks, diagnostics: diag, filepath: filepath}
	x := p.parseExpr()
	p.skipSemicolons()
	if !p.isAtEnd() {
		p.error(fmt.Sprintf("unexpected %s after expression", describe(p.peek())))
	}
	return x
}

// parseModule: [package name] {import} {decl}
func (p *Parser) parseModule() *ast.Module {
	start := p.peek().Loc.Start
	module := &ast.Module{FullPath: p.filepath}

	p.skipSemicolons()
	if p.match(tokens.PACKAGE_TOKEN) {
		p.advance()
		module.Package = p.parseIdentifier().Name
		p.expectSemicolon()
	}

	for {
		p.skipSemicolons()
		if p.isAtEnd() {
			break
		}
		switch p.peek().Kind {
		case tokens.IMPORT_TOKEN:
			imp := p.parseImport()
			if len(module.Decls) > 0 {
				p.diagnostics.Add(
					diagnostics.NewError("import declarations must appear before other declarations").
						WithCode(diagnostics.ErrUnexpectedToken).
						WithPrimaryLabel(imp.Location, "cannot import here"),
				)
			}
			module.Imports = append(module.Imports, imp)
		case tokens.IDENTIFIER_TOKEN:
			module.Decls = append(module.Decls, p.parseValueDecl())
		default:
			p.error(fmt.Sprintf("expected a declaration, got %s", describe(p.peek())))
			p.advance()
			p.sync()
			continue
		}
		p.expectSemicolon()
	}

	module.Location = p.makeLocation(start)
	return module
}

// parseImport: import [name] "path". The name defaults to the last path
// element.
func (p *Parser) parseImport() *ast.ImportDecl {
	start := p.expect(tokens.IMPORT_TOKEN).Loc.Start

	var name *ast.IdentifierExpr
	if p.match(tokens.IDENTIFIER_TOKEN) {
		name = p.parseIdentifier()
	}
	pathTok := p.expectError(tokens.STRING_TOKEN, "expected import path string")
	path := pathTok.Value
	if name == nil {
		base := path
		for i := len(path) - 1; i >= 0; i-- {
			if path[i] == '/' || path[i] == ':' {
				base = path[i+1:]
				break
			}
		}
		name = &ast.IdentifierExpr{Name: base, Location: pathTok.Loc}
	}
	return &ast.ImportDecl{Name: name, Path: path, Location: p.makeLocation(start)}
}

// parseStmt parses one statement inside a block
func (p *Parser) parseStmt() ast.Statement {
	tok := p.peek()
	switch tok.Kind {
	case tokens.RETURN_TOKEN:
		return p.parseReturnStmt()
	case tokens.OPEN_CURLY:
		return p.parseBlock()
	case tokens.IDENTIFIER_TOKEN:
		switch p.peekAt(1).Kind {
		case tokens.COLON_TOKEN, tokens.DOUBLE_COLON, tokens.WALRUS_TOKEN, tokens.COMMA_TOKEN:
			return p.parseValueDecl()
		}
	}
	x := p.parseExpr()
	return &ast.ExprStmt{X: x, Location: *x.Loc()}
}

// parseReturnStmt: return [expr {, expr}]
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.expect(tokens.RETURN_TOKEN).Loc.Start
	ret := &ast.ReturnStmt{}
	if !p.match(tokens.SEMICOLON_TOKEN, tokens.CLOSE_CURLY, tokens.EOF_TOKEN) {
		ret.Results = p.parseExprList()
	}
	ret.Location = p.makeLocation(start)
	return ret
}

func (p *Parser) parseExprList() []ast.Expression {
	list := []ast.Expression{p.parseExpr()}
	for p.match(tokens.COMMA_TOKEN) {
		p.advance()
		list = append(list, p.parseExpr())
	}
	return list
}

func (p *Parser) parseIdentifier() *ast.IdentifierExpr {
	tok := p.peek()
	if tok.Kind != tokens.IDENTIFIER_TOKEN {
		p.error(fmt.Sprintf("expected identifier, got %s", describe(tok)))
		return &ast.IdentifierExpr{Name: "_", Location: tok.Loc}
	}
	p.advance()
	return &ast.IdentifierExpr{Name: tok.Value, Location: tok.Loc}
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == tokens.EOF_TOKEN
}

func (p *Parser) peek() tokens.Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(n int) tokens.Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current+n]
}

func (p *Parser) previous() tokens.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) advance() tokens.Token {
	tok := p.peek()
	if p.current < len(p.tokens)-1 {
		p.current++
	}
	return tok
}

func (p *Parser) match(kinds ...tokens.TOKEN) bool {
	k := p.peek().Kind
	for _, kind := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind tokens.TOKEN) tokens.Token {
	return p.expectError(kind, fmt.Sprintf("expected '%s', got %s", kind, describe(p.peek())))
}

// expectError consumes a token of the given kind or reports msg. The
// offending token is left in place for the caller's recovery.
func (p *Parser) expectError(kind tokens.TOKEN, msg string) tokens.Token {
	if p.match(kind) {
		return p.advance()
	}
	p.error(msg)
	return tokens.Token{Kind: kind, Loc: p.peek().Loc}
}

// expectSemicolon ends a declaration or statement. A closing delimiter
// ends one too.
func (p *Parser) expectSemicolon() {
	switch p.peek().Kind {
	case tokens.SEMICOLON_TOKEN:
		p.advance()
	case tokens.CLOSE_CURLY, tokens.CLOSE_PAREN, tokens.EOF_TOKEN:
	default:
		p.error(fmt.Sprintf("expected ';' or newline, got %s", describe(p.peek())))
		p.sync()
	}
}

func (p *Parser) skipSemicolons() {
	for p.match(tokens.SEMICOLON_TOKEN) {
		p.advance()
	}
}

// sync skips to the end of the current statement, stepping over nested
// brackets.
func (p *Parser) sync() {
	depth := 0
	for !p.isAtEnd() {
		switch p.peek().Kind {
		case tokens.OPEN_PAREN, tokens.OPEN_BRACKET, tokens.OPEN_CURLY:
			depth++
		case tokens.CLOSE_PAREN, tokens.CLOSE_BRACKET, tokens.CLOSE_CURLY:
			if depth == 0 {
				return
			}
			depth--
		case tokens.SEMICOLON_TOKEN:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

// error reports a parsing error at the current token. Only the first error
// at a given position is kept.
func (p *Parser) error(msg string) {
	tok := p.peek()
	if tok.Loc.Start == p.lastErr && p.lastErr.IsValid() {
		return
	}
	p.lastErr = tok.Loc.Start
	p.diagnostics.Add(
		diagnostics.NewError(msg).
			WithCode(diagnostics.ErrUnexpectedToken).
			WithPrimaryLabel(tok.Loc, ""),
	)
}

// invalidExpr creates an Invalid expression node at the current position
func (p *Parser) invalidExpr() *ast.Invalid {
	return &ast.Invalid{Location: p.peek().Loc}
}

func (p *Parser) makeLocation(start source.Position) source.Location {
	return source.NewLocation(p.filepath, start, p.previous().Loc.End)
}

func describe(tok tokens.Token) string {
	switch {
	case tok.Kind == tokens.EOF_TOKEN:
		return "end of file"
	case tok.Kind == tokens.SEMICOLON_TOKEN && tok.Value == "newline":
		return "newline"
	case tok.Kind == tokens.STRING_TOKEN:
		return fmt.Sprintf("%q", tok.Value)
	}
	return "'" + tok.String() + "'"
}
