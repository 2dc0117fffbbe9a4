package parser

import (
	"fmt"

	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/source"
	"github.com/dimenus/Odin/internal/tokens"
)

// precedence of a binary or ternary operator, 0 if tok is neither.
func precedence(kind tokens.TOKEN) int {
	switch kind {
	case tokens.QUESTION_TOKEN, tokens.IF_TOKEN, tokens.WHEN_TOKEN:
		return 1
	case tokens.ELLIPSIS_TOKEN, tokens.RANGE_INCL_TOKEN, tokens.RANGE_EXCL_TOKEN:
		return 2
	case tokens.OR_TOKEN:
		return 3
	case tokens.AND_TOKEN:
		return 4
	case tokens.DOUBLE_EQUAL_TOKEN, tokens.NOT_EQUAL_TOKEN, tokens.LESS_TOKEN, tokens.LESS_EQUAL_TOKEN,
		tokens.GREATER_TOKEN, tokens.GREATER_EQUAL_TOKEN, tokens.IN_TOKEN, tokens.NOT_IN_TOKEN:
		return 5
	case tokens.PLUS_TOKEN, tokens.MINUS_TOKEN, tokens.BIT_OR_TOKEN, tokens.TILDE_TOKEN:
		return 6
	case tokens.MUL_TOKEN, tokens.DIV_TOKEN, tokens.MOD_TOKEN, tokens.MOD_MOD_TOKEN,
		tokens.BIT_AND_TOKEN, tokens.AND_NOT_TOKEN, tokens.SHL_TOKEN, tokens.SHR_TOKEN:
		return 7
	}
	return 0
}

func (p *Parser) parseExpr() ast.Expression {
	return p.parseBinary(1)
}

// parseBinary climbs precedence levels. Binary operators are left
// associative; the ternaries nest to the right.
func (p *Parser) parseBinary(minPrec int) ast.Expression {
	x := p.parseUnary()
	for {
		op := p.peek()
		prec := precedence(op.Kind)
		if prec == 0 || prec < minPrec {
			return x
		}
		p.advance()
		start := x.Loc().Start

		switch op.Kind {
		case tokens.QUESTION_TOKEN:
			then := p.parseExpr()
			p.expect(tokens.COLON_TOKEN)
			els := p.parseExpr()
			x = &ast.TernaryExpr{Op: op.Kind, Cond: x, Then: then, Else: els, Location: p.makeLocation(start)}
		case tokens.IF_TOKEN, tokens.WHEN_TOKEN:
			cond := p.parseExpr()
			p.expect(tokens.ELSE_TOKEN)
			els := p.parseExpr()
			x = &ast.TernaryExpr{Op: op.Kind, Cond: cond, Then: x, Else: els, Location: p.makeLocation(start)}
		default:
			y := p.parseBinary(prec + 1)
			x = &ast.BinaryExpr{X: x, Op: op, Y: y, Location: p.makeLocation(start)}
		}
	}
}

// parseUnary: op unary | cast(T) unary | auto_cast unary | ^T | postfix
func (p *Parser) parseUnary() ast.Expression {
	tok := p.peek()
	switch tok.Kind {
	case tokens.PLUS_TOKEN, tokens.MINUS_TOKEN, tokens.TILDE_TOKEN, tokens.NOT_TOKEN, tokens.BIT_AND_TOKEN:
		p.advance()
		x := p.parseUnary()
		return &ast.UnaryExpr{Op: tok, X: x, Location: p.makeLocation(tok.Loc.Start)}
	case tokens.CAST_TOKEN, tokens.TRANSMUTE_TOKEN:
		p.advance()
		p.expect(tokens.OPEN_PAREN)
		t := p.parseType()
		p.expect(tokens.CLOSE_PAREN)
		x := p.parseUnary()
		return &ast.CastExpr{Op: tok.Kind, Type: t, X: x, Location: p.makeLocation(tok.Loc.Start)}
	case tokens.AUTO_CAST_TOKEN:
		p.advance()
		x := p.parseUnary()
		return &ast.AutoCastExpr{X: x, Location: p.makeLocation(tok.Loc.Start)}
	case tokens.CARET_TOKEN:
		return p.parseType()
	}
	return p.parsePostfix(p.parseOperand())
}

// parsePostfix applies calls, indexing, selectors, assertions, derefs and
// compound literals to x.
func (p *Parser) parsePostfix(x ast.Expression) ast.Expression {
	start := x.Loc().Start
	for {
		switch p.peek().Kind {
		case tokens.OPEN_PAREN:
			x = p.parseCallExpr(x)
		case tokens.OPEN_BRACKET:
			x = p.parseIndexExpr(x)
		case tokens.DOT_TOKEN:
			p.advance()
			switch p.peek().Kind {
			case tokens.OPEN_PAREN:
				p.advance()
				t := p.parseType()
				p.expect(tokens.CLOSE_PAREN)
				x = &ast.TypeAssertExpr{X: x, Type: t, Location: p.makeLocation(start)}
			case tokens.QUESTION_TOKEN:
				p.advance()
				x = &ast.TypeAssertExpr{X: x, Location: p.makeLocation(start)}
			default:
				field := p.parseIdentifier()
				x = &ast.SelectorExpr{X: x, Field: field, Location: p.makeLocation(start)}
			}
		case tokens.CARET_TOKEN:
			p.advance()
			x = &ast.DerefExpr{X: x, Location: p.makeLocation(start)}
		case tokens.OPEN_CURLY:
			if p.exprLev < 0 || !isLiteralType(x) {
				return x
			}
			x = p.parseCompositeLit(x)
		default:
			return x
		}
	}
}

func isLiteralType(x ast.Expression) bool {
	switch x.(type) {
	case *ast.IdentifierExpr, *ast.SelectorExpr, *ast.CallExpr, *ast.ArrayType, *ast.DynamicArrayType,
		*ast.MapType, *ast.StructType, *ast.BitSetType:
		return true
	}
	return false
}

// parseCallExpr: fun(arg, name = arg, ..spread)
func (p *Parser) parseCallExpr(fun ast.Expression) *ast.CallExpr {
	p.expect(tokens.OPEN_PAREN)
	old := p.exprLev
	p.exprLev = 0
	call := &ast.CallExpr{Fun: fun}
	for !p.match(tokens.CLOSE_PAREN, tokens.EOF_TOKEN) {
		if call.Ellipsis {
			p.error("'..' may only be used on the last argument")
		}
		if p.match(tokens.ELLIPSIS_TOKEN) {
			p.advance()
			call.Ellipsis = true
		}
		arg := p.parseExpr()
		if p.match(tokens.EQUALS_TOKEN) {
			p.advance()
			v := p.parseExpr()
			arg = &ast.FieldValue{Field: arg, Value: v, Location: source.Span(*arg.Loc(), *v.Loc())}
		}
		call.Args = append(call.Args, arg)
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
		p.skipSemicolons()
	}
	p.exprLev = old
	p.skipSemicolons()
	p.expect(tokens.CLOSE_PAREN)
	call.Location = p.makeLocation(fun.Loc().Start)
	return call
}

// parseIndexExpr: x[i] | x[lo:hi]
func (p *Parser) parseIndexExpr(x ast.Expression) ast.Expression {
	p.expect(tokens.OPEN_BRACKET)
	old := p.exprLev
	p.exprLev = 0
	defer func() { p.exprLev = old }()

	var low, high ast.Expression
	if !p.match(tokens.COLON_TOKEN) {
		low = p.parseExpr()
	}
	if p.match(tokens.COLON_TOKEN) {
		p.advance()
		if !p.match(tokens.CLOSE_BRACKET) {
			high = p.parseExpr()
		}
		p.expect(tokens.CLOSE_BRACKET)
		return &ast.SliceExpr{X: x, Low: low, High: high, Location: p.makeLocation(x.Loc().Start)}
	}
	p.expect(tokens.CLOSE_BRACKET)
	return &ast.IndexExpr{X: x, Index: low, Location: p.makeLocation(x.Loc().Start)}
}

// parseCompositeLit: [T]{elem, key = value, ...}
func (p *Parser) parseCompositeLit(typ ast.Expression) *ast.CompositeLit {
	open := p.expect(tokens.OPEN_CURLY)
	start := open.Loc.Start
	if typ != nil {
		start = typ.Loc().Start
	}
	old := p.exprLev
	p.exprLev = 0
	lit := &ast.CompositeLit{Type: typ}
	p.skipSemicolons()
	for !p.match(tokens.CLOSE_CURLY, tokens.EOF_TOKEN) {
		el := p.parseExpr()
		if p.match(tokens.EQUALS_TOKEN) {
			p.advance()
			v := p.parseExpr()
			el = &ast.FieldValue{Field: el, Value: v, Location: source.Span(*el.Loc(), *v.Loc())}
		}
		lit.Elts = append(lit.Elts, el)
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
		p.skipSemicolons()
	}
	p.exprLev = old
	p.skipSemicolons()
	p.expect(tokens.CLOSE_CURLY)
	lit.Location = p.makeLocation(start)
	return lit
}

func (p *Parser) basicLit(kind consteval.LiteralKind) *ast.BasicLit {
	tok := p.advance()
	return &ast.BasicLit{Kind: kind, Value: tok.Value, Location: tok.Loc}
}

// parseOperand parses identifiers, literals, parenthesized expressions,
// implicit selectors and type expressions.
func (p *Parser) parseOperand() ast.Expression {
	tok := p.peek()
	switch tok.Kind {
	case tokens.IDENTIFIER_TOKEN:
		return p.parseIdentifier()
	case tokens.INT_TOKEN:
		return p.basicLit(consteval.IntLiteral)
	case tokens.FLOAT_TOKEN:
		return p.basicLit(consteval.FloatLiteral)
	case tokens.IMAG_TOKEN:
		return p.basicLit(consteval.ImagLiteral)
	case tokens.RUNE_TOKEN:
		return p.basicLit(consteval.RuneLiteral)
	case tokens.STRING_TOKEN:
		return p.basicLit(consteval.StringLiteral)
	case tokens.UNDEF_TOKEN:
		p.advance()
		return &ast.UndefLit{Location: tok.Loc}
	case tokens.OPEN_PAREN:
		p.advance()
		old := p.exprLev
		p.exprLev = 0
		x := p.parseExpr()
		p.exprLev = old
		p.skipSemicolons()
		p.expect(tokens.CLOSE_PAREN)
		return &ast.ParenExpr{X: x, Location: p.makeLocation(tok.Loc.Start)}
	case tokens.DOT_TOKEN:
		p.advance()
		field := p.parseIdentifier()
		return &ast.ImplicitSelectorExpr{Field: field, Location: p.makeLocation(tok.Loc.Start)}
	case tokens.OPEN_CURLY:
		if p.exprLev >= 0 {
			return p.parseCompositeLit(nil)
		}
	}
	if t := p.tryType(); t != nil {
		return t
	}
	p.error(fmt.Sprintf("unexpected %s in expression", describe(tok)))
	bad := p.invalidExpr()
	if !p.match(tokens.SEMICOLON_TOKEN, tokens.CLOSE_CURLY, tokens.CLOSE_PAREN, tokens.CLOSE_BRACKET, tokens.COMMA_TOKEN) {
		p.advance()
	}
	return bad
}
