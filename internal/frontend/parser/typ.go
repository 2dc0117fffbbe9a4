package parser

import (
	"fmt"

	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/tokens"
)

// parseType parses a type expression: a (qualified) name, a record
// application like Pair(int), or a type literal.
func (p *Parser) parseType() ast.Expression {
	old := p.exprLev
	p.exprLev = -1
	defer func() { p.exprLev = old }()

	tok := p.peek()
	switch tok.Kind {
	case tokens.IDENTIFIER_TOKEN:
		var x ast.Expression = p.parseIdentifier()
		for {
			switch p.peek().Kind {
			case tokens.DOT_TOKEN:
				p.advance()
				field := p.parseIdentifier()
				x = &ast.SelectorExpr{X: x, Field: field, Location: p.makeLocation(tok.Loc.Start)}
			case tokens.OPEN_PAREN:
				x = p.parseCallExpr(x)
			default:
				return x
			}
		}
	case tokens.OPEN_PAREN:
		p.advance()
		t := p.parseType()
		p.expect(tokens.CLOSE_PAREN)
		return &ast.ParenExpr{X: t, Location: p.makeLocation(tok.Loc.Start)}
	}
	if t := p.tryType(); t != nil {
		return t
	}
	p.error(fmt.Sprintf("expected a type, got %s", describe(tok)))
	bad := p.invalidExpr()
	if !p.match(tokens.SEMICOLON_TOKEN, tokens.CLOSE_CURLY, tokens.CLOSE_PAREN, tokens.CLOSE_BRACKET,
		tokens.COMMA_TOKEN, tokens.EQUALS_TOKEN) {
		p.advance()
	}
	return bad
}

// tryType parses a type literal if one starts here, nil otherwise.
func (p *Parser) tryType() ast.Expression {
	tok := p.peek()
	switch tok.Kind {
	case tokens.CARET_TOKEN:
		p.advance()
		elem := p.parseType()
		return &ast.PointerType{Elem: elem, Location: p.makeLocation(tok.Loc.Start)}
	case tokens.DOLLAR_TOKEN:
		return p.parsePolyType()
	case tokens.OPEN_BRACKET:
		return p.parseArrayType()
	case tokens.MAP_TOKEN:
		p.advance()
		p.expect(tokens.OPEN_BRACKET)
		key := p.parseType()
		p.expect(tokens.CLOSE_BRACKET)
		value := p.parseType()
		return &ast.MapType{Key: key, Value: value, Location: p.makeLocation(tok.Loc.Start)}
	case tokens.STRUCT_TOKEN:
		return p.parseStructType()
	case tokens.UNION_TOKEN:
		return p.parseUnionType()
	case tokens.ENUM_TOKEN:
		return p.parseEnumType()
	case tokens.BIT_SET_TOKEN:
		return p.parseBitSetType()
	case tokens.PROC_TOKEN:
		return p.parseProc()
	case tokens.DISTINCT_TOKEN:
		p.advance()
		t := p.parseType()
		return &ast.DistinctType{Type: t, Location: p.makeLocation(tok.Loc.Start)}
	case tokens.OPAQUE_TOKEN:
		p.advance()
		t := p.parseType()
		return &ast.OpaqueType{Type: t, Location: p.makeLocation(tok.Loc.Start)}
	}
	return nil
}

// parsePolyType: $T | $T/Specialization
func (p *Parser) parsePolyType() *ast.PolyType {
	start := p.expect(tokens.DOLLAR_TOKEN).Loc.Start
	pt := &ast.PolyType{Name: p.parseIdentifier()}
	if p.match(tokens.DIV_TOKEN) {
		p.advance()
		pt.Specialization = p.parseType()
	}
	pt.Location = p.makeLocation(start)
	return pt
}

// parseArrayType: [N]T | [?]T | []T | [dynamic]T
func (p *Parser) parseArrayType() ast.Expression {
	start := p.expect(tokens.OPEN_BRACKET).Loc.Start
	switch p.peek().Kind {
	case tokens.QUESTION_TOKEN:
		p.advance()
		p.expect(tokens.CLOSE_BRACKET)
		elem := p.parseType()
		return &ast.ArrayType{Infer: true, Elem: elem, Location: p.makeLocation(start)}
	case tokens.CLOSE_BRACKET:
		p.advance()
		elem := p.parseType()
		return &ast.ArrayType{Elem: elem, Location: p.makeLocation(start)}
	case tokens.DYNAMIC_TOKEN:
		p.advance()
		p.expect(tokens.CLOSE_BRACKET)
		elem := p.parseType()
		return &ast.DynamicArrayType{Elem: elem, Location: p.makeLocation(start)}
	}
	old := p.exprLev
	p.exprLev = 0
	n := p.parseExpr()
	p.exprLev = old
	p.expect(tokens.CLOSE_BRACKET)
	elem := p.parseType()
	return &ast.ArrayType{Len: n, Elem: elem, Location: p.makeLocation(start)}
}

// skipDirectives drops record and procedure directives the checker has
// no use for; #no_nil is reported back.
func (p *Parser) skipDirectives() (noNil bool) {
	for p.match(tokens.DIRECTIVE_TOKEN) {
		if p.advance().Value == "#no_nil" {
			noNil = true
		}
	}
	return noNil
}

// parseStructType: struct[(params)] { [using] a, b: T, ... }
func (p *Parser) parseStructType() *ast.StructType {
	start := p.expect(tokens.STRUCT_TOKEN).Loc.Start
	st := &ast.StructType{}
	if p.match(tokens.OPEN_PAREN) {
		st.PolyParams = p.parseParamList()
	}
	p.skipDirectives()
	p.expect(tokens.OPEN_CURLY)
	p.skipSemicolons()
	for !p.match(tokens.CLOSE_CURLY, tokens.EOF_TOKEN) {
		fstart := p.peek().Loc.Start
		using := false
		if p.match(tokens.USING_TOKEN) {
			p.advance()
			using = true
		}
		names := []*ast.IdentifierExpr{p.parseIdentifier()}
		for p.match(tokens.COMMA_TOKEN) {
			p.advance()
			names = append(names, p.parseIdentifier())
		}
		p.expect(tokens.COLON_TOKEN)
		t := p.parseType()
		loc := p.makeLocation(fstart)
		for _, name := range names {
			st.Fields = append(st.Fields, &ast.StructField{Name: name, Type: t, Using: using, Location: loc})
		}
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
		p.skipSemicolons()
	}
	p.skipSemicolons()
	p.expect(tokens.CLOSE_CURLY)
	st.Location = p.makeLocation(start)
	return st
}

// parseUnionType: union[(params)] [#no_nil] { T, U, ... }
func (p *Parser) parseUnionType() *ast.UnionType {
	start := p.expect(tokens.UNION_TOKEN).Loc.Start
	ut := &ast.UnionType{}
	if p.match(tokens.OPEN_PAREN) {
		ut.PolyParams = p.parseParamList()
	}
	ut.NoNil = p.skipDirectives()
	p.expect(tokens.OPEN_CURLY)
	p.skipSemicolons()
	for !p.match(tokens.CLOSE_CURLY, tokens.EOF_TOKEN) {
		ut.Variants = append(ut.Variants, p.parseType())
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
		p.skipSemicolons()
	}
	p.skipSemicolons()
	p.expect(tokens.CLOSE_CURLY)
	ut.Location = p.makeLocation(start)
	return ut
}

// parseEnumType: enum [Base] { A, B = expr, ... }
func (p *Parser) parseEnumType() *ast.EnumType {
	start := p.expect(tokens.ENUM_TOKEN).Loc.Start
	et := &ast.EnumType{}
	if !p.match(tokens.OPEN_CURLY) {
		et.Base = p.parseType()
	}
	p.expect(tokens.OPEN_CURLY)
	p.skipSemicolons()
	old := p.exprLev
	p.exprLev = 0
	for !p.match(tokens.CLOSE_CURLY, tokens.EOF_TOKEN) {
		fstart := p.peek().Loc.Start
		field := &ast.EnumValue{Name: p.parseIdentifier()}
		if p.match(tokens.EQUALS_TOKEN) {
			p.advance()
			field.Value = p.parseExpr()
		}
		field.Location = p.makeLocation(fstart)
		et.Fields = append(et.Fields, field)
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
		p.skipSemicolons()
	}
	p.exprLev = old
	p.skipSemicolons()
	p.expect(tokens.CLOSE_CURLY)
	et.Location = p.makeLocation(start)
	return et
}

// parseBitSetType: bit_set[Elem; Underlying] where Elem is an enum type
// or a constant range.
func (p *Parser) parseBitSetType() *ast.BitSetType {
	start := p.expect(tokens.BIT_SET_TOKEN).Loc.Start
	p.expect(tokens.OPEN_BRACKET)
	old := p.exprLev
	p.exprLev = 0
	bs := &ast.BitSetType{Elem: p.parseExpr()}
	p.exprLev = old
	if p.match(tokens.SEMICOLON_TOKEN) {
		p.advance()
		bs.Underlying = p.parseType()
	}
	p.expect(tokens.CLOSE_BRACKET)
	bs.Location = p.makeLocation(start)
	return bs
}
