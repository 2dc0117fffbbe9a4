package parser

import (
	"fmt"

	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/source"
	"github.com/dimenus/Odin/internal/tokens"
)

// parseValueDecl parses
//
//	a, b :: v, w
//	a : T : v
//	a := v
//	a : T = v
//	a : T
func (p *Parser) parseValueDecl() *ast.ValueDecl {
	start := p.peek().Loc.Start
	decl := &ast.ValueDecl{Names: []*ast.IdentifierExpr{p.parseIdentifier()}}
	for p.match(tokens.COMMA_TOKEN) {
		p.advance()
		decl.Names = append(decl.Names, p.parseIdentifier())
	}

	switch p.peek().Kind {
	case tokens.DOUBLE_COLON:
		p.advance()
		decl.Const = true
		decl.Values = p.parseExprList()
	case tokens.WALRUS_TOKEN:
		p.advance()
		decl.Values = p.parseExprList()
	case tokens.COLON_TOKEN:
		p.advance()
		decl.Type = p.parseType()
		switch p.peek().Kind {
		case tokens.COLON_TOKEN:
			p.advance()
			decl.Const = true
			decl.Values = p.parseExprList()
		case tokens.EQUALS_TOKEN:
			p.advance()
			decl.Values = p.parseExprList()
		}
	default:
		p.error(fmt.Sprintf("expected ':', '::' or ':=' after '%s', got %s",
			decl.Names[len(decl.Names)-1].Name, describe(p.peek())))
	}

	decl.Location = p.makeLocation(start)
	return decl
}

// parseProc parses a procedure group `proc{a, b}`, a procedure type, or,
// outside of a type, a procedure literal with a body. A body of `---`
// marks a foreign procedure.
func (p *Parser) parseProc() ast.Expression {
	start := p.expect(tokens.PROC_TOKEN).Loc.Start
	if p.match(tokens.OPEN_CURLY) {
		return p.parseProcGroup(start)
	}
	if p.match(tokens.STRING_TOKEN) {
		p.advance() // calling convention
	}
	pt := p.parseProcSignature(start)
	if p.exprLev < 0 {
		return pt
	}
	p.skipDirectives()
	switch p.peek().Kind {
	case tokens.OPEN_CURLY:
		body := p.parseBlock()
		return &ast.ProcLit{Type: pt, Body: body, Location: p.makeLocation(start)}
	case tokens.UNDEF_TOKEN:
		p.advance()
		return &ast.ProcLit{Type: pt, Location: p.makeLocation(start)}
	}
	return pt
}

func (p *Parser) parseProcGroup(start source.Position) *ast.ProcGroupExpr {
	p.expect(tokens.OPEN_CURLY)
	old := p.exprLev
	p.exprLev = 0
	group := &ast.ProcGroupExpr{}
	p.skipSemicolons()
	for !p.match(tokens.CLOSE_CURLY, tokens.EOF_TOKEN) {
		group.Procs = append(group.Procs, p.parseExpr())
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
		p.skipSemicolons()
	}
	p.exprLev = old
	p.skipSemicolons()
	p.expect(tokens.CLOSE_CURLY)
	group.Location = p.makeLocation(start)
	return group
}

// parseProcSignature: (params) [-> T | -> (results)]
func (p *Parser) parseProcSignature(start source.Position) *ast.ProcType {
	pt := &ast.ProcType{Params: p.parseParamList()}
	if p.match(tokens.ARROW_TOKEN) {
		p.advance()
		if p.match(tokens.OPEN_PAREN) {
			pt.Results = p.parseParamList()
		} else {
			t := p.parseType()
			pt.Results = []*ast.Param{{Type: t, Location: *t.Loc()}}
		}
	}
	pt.Location = p.makeLocation(start)
	return pt
}

// paramEntry is one comma separated item of a parameter list before it is
// known whether the item is a name or a type.
type paramEntry struct {
	x        ast.Expression
	start    source.Position
	using    bool
	autoCast bool
	cVararg  bool
}

// parseParamList parses `(...)` the way Go does: names are collected until
// a `:` gives them a shared type, and a list without any `:` is a list of
// unnamed types.
//
//	(a, b: int, c := 1, $T: typeid, x: $E, args: ..any)
//	(int, f32)
func (p *Parser) parseParamList() []*ast.Param {
	p.expect(tokens.OPEN_PAREN)
	old := p.exprLev
	p.exprLev = 0
	defer func() { p.exprLev = old }()

	params := make([]*ast.Param, 0)
	var pending []paramEntry
	named := false

	for p.skipSemicolons(); !p.match(tokens.CLOSE_PAREN, tokens.EOF_TOKEN); {
		entry := p.parseParamEntry()
		switch p.peek().Kind {
		case tokens.COLON_TOKEN:
			p.advance()
			named = true
			t := p.parseParamType()
			var def ast.Expression
			if p.match(tokens.EQUALS_TOKEN) {
				p.advance()
				def = p.parseExpr()
			}
			for _, e := range append(pending, entry) {
				params = append(params, p.namedParam(e, t, def))
			}
			pending = nil
		case tokens.WALRUS_TOKEN:
			p.advance()
			named = true
			def := p.parseExpr()
			for _, e := range append(pending, entry) {
				params = append(params, p.namedParam(e, nil, def))
			}
			pending = nil
		default:
			pending = append(pending, entry)
		}
		if !p.match(tokens.COMMA_TOKEN) {
			break
		}
		p.advance()
		p.skipSemicolons()
	}
	p.skipSemicolons()
	p.expect(tokens.CLOSE_PAREN)

	for _, e := range pending {
		if named {
			p.diagnostics.Add(
				diagnostics.NewError(fmt.Sprintf("missing type for parameter '%s'", ast.ExprString(e.x))).
					WithCode(diagnostics.ErrUnexpectedToken).
					WithPrimaryLabel(*e.x.Loc(), "").
					WithHelp("mixing named and unnamed parameters is not allowed"),
			)
			continue
		}
		params = append(params, &ast.Param{
			Type:     e.x,
			Using:    e.using,
			AutoCast: e.autoCast,
			CVararg:  e.cVararg,
			Location: *e.x.Loc(),
		})
	}
	return params
}

func (p *Parser) parseParamEntry() paramEntry {
	e := paramEntry{start: p.peek().Loc.Start}
	for {
		switch {
		case p.match(tokens.USING_TOKEN):
			p.advance()
			e.using = true
			continue
		case p.match(tokens.DIRECTIVE_TOKEN):
			switch d := p.advance(); d.Value {
			case "#any_int":
				e.autoCast = true
			case "#c_vararg":
				e.cVararg = true
			}
			continue
		}
		break
	}
	e.x = p.parseParamType()
	return e
}

// parseParamType: T | ..T
func (p *Parser) parseParamType() ast.Expression {
	if p.match(tokens.ELLIPSIS_TOKEN) {
		start := p.advance().Loc.Start
		elem := p.parseType()
		return &ast.EllipsisType{Elem: elem, Location: p.makeLocation(start)}
	}
	return p.parseType()
}

// namedParam turns an entry into the name of a parameter. `$T` names a
// polymorphic parameter.
func (p *Parser) namedParam(e paramEntry, typ, def ast.Expression) *ast.Param {
	param := &ast.Param{
		Type:     typ,
		Default:  def,
		Using:    e.using,
		AutoCast: e.autoCast,
		CVararg:  e.cVararg,
		Location: p.makeLocation(e.start),
	}
	switch x := e.x.(type) {
	case *ast.IdentifierExpr:
		param.Name = x
	case *ast.PolyType:
		if x.Specialization != nil {
			p.diagnostics.Add(
				diagnostics.NewError("a polymorphic parameter name cannot have a specialization").
					WithCode(diagnostics.ErrUnexpectedToken).
					WithPrimaryLabel(x.Location, ""),
			)
		}
		param.Name = x.Name
		param.Poly = true
	default:
		p.diagnostics.Add(
			diagnostics.NewError(fmt.Sprintf("expected a parameter name, got '%s'", ast.ExprString(e.x))).
				WithCode(diagnostics.ErrUnexpectedToken).
				WithPrimaryLabel(*e.x.Loc(), ""),
		)
		param.Name = &ast.IdentifierExpr{Name: "_", Location: *e.x.Loc()}
	}
	return param
}
