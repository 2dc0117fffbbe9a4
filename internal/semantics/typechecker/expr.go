package typechecker

import (
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/semantics/table"
	"github.com/dimenus/Odin/internal/tokens"
	"github.com/dimenus/Odin/internal/types"
)

// rawExpr checks e and records the result. Tuples from multi-valued calls
// come back as they are.
func (c *Checker) rawExpr(env Env, e ast.Expression, hint types.SemType) Operand {
	o := c.exprBase(env, e, hint)
	o.Expr = e
	if o.Type == nil {
		o.Type = types.TypeInvalid
	}
	c.record(e, o)
	return o
}

// exprOrType checks e as a single value or a type.
func (c *Checker) exprOrType(env Env, e ast.Expression, hint types.SemType) Operand {
	o := c.rawExpr(env, e, hint)
	if o.Mode != ModeNoValue {
		c.checkNotTuple(env, &o)
	}
	return o
}

// expr checks e as a single value.
func (c *Checker) expr(env Env, e ast.Expression, hint types.SemType) Operand {
	o := c.exprOrType(env, e, hint)
	switch o.Mode {
	case ModeType:
		c.errorf(env, e, diagnostics.ErrInvalidExpression, "'%s' is not an expression", o.exprString())
		o.invalidate()
	case ModeBuiltin:
		c.errorf(env, e, diagnostics.ErrInvalidExpression, "'%s' must be called", o.exprString())
		o.invalidate()
	case ModeNoValue:
		c.errorf(env, e, diagnostics.ErrInvalidExpression, "'%s' used as a value", o.exprString())
		o.invalidate()
	}
	return o
}

func (c *Checker) exprBase(env Env, e ast.Expression, hint types.SemType) Operand {
	switch n := e.(type) {
	case *ast.Invalid:
		return invalidOperand(e)
	case *ast.IdentifierExpr:
		return c.ident(env, n, hint)
	case *ast.BasicLit:
		return c.basicLit(env, n)
	case *ast.UndefLit:
		return Operand{Mode: ModeValue, Type: types.TypeUntypedUndef}
	case *ast.ParenExpr:
		return c.rawExpr(env, n.X, hint)
	case *ast.UnaryExpr:
		return c.unary(env, n, hint)
	case *ast.BinaryExpr:
		return c.binary(env, n, hint)
	case *ast.TernaryExpr:
		return c.ternary(env, n, hint)
	case *ast.CallExpr:
		return c.call(env, n, hint)
	case *ast.SelectorExpr:
		return c.selector(env, n, hint)
	case *ast.ImplicitSelectorExpr:
		return c.implicitSelector(env, n, hint)
	case *ast.IndexExpr:
		return c.index(env, n)
	case *ast.SliceExpr:
		return c.sliceExpr(env, n)
	case *ast.DerefExpr:
		return c.deref(env, n)
	case *ast.TypeAssertExpr:
		return c.typeAssert(env, n)
	case *ast.CastExpr:
		return c.castExpr(env, n)
	case *ast.AutoCastExpr:
		return c.autoCast(env, n)
	case *ast.CompositeLit:
		return c.compositeLit(env, n, hint)
	case *ast.ProcLit:
		return c.procLit(env, n)
	case *ast.ProcGroupExpr:
		c.errorf(env, n, diagnostics.ErrInvalidExpression, "procedure groups must be declared as constants")
	case *ast.FieldValue:
		c.errorf(env, n, diagnostics.ErrInvalidExpression,
			"'%s' is only allowed in calls and compound literals", ast.ExprString(n))
	case ast.TypeNode:
		t := c.typeNode(env, n)
		if types.IsInvalid(t) {
			return invalidOperand(e)
		}
		return Operand{Mode: ModeType, Type: t}
	default:
		panic("internal error: unknown expression node " + ast.ExprString(e))
	}
	return invalidOperand(e)
}

func (c *Checker) ident(env Env, id *ast.IdentifierExpr, hint types.SemType) Operand {
	if id.Name == "_" {
		c.errorf(env, id, diagnostics.ErrInvalidExpression, "'_' cannot be used as a value")
		return invalidOperand(id)
	}
	e, ok := env.Scope.Lookup(id.Name)
	if !ok {
		c.report(env, diagnostics.UndeclaredName(locOf(id), id.Name))
		return invalidOperand(id)
	}
	c.info.Uses[id] = e
	e.MarkUsed()
	c.resolve(env, e)
	return c.operandForEntity(env, id, e, hint)
}

func (c *Checker) operandForEntity(env Env, n ast.Expression, e *symbols.Entity, hint types.SemType) Operand {
	switch e.Kind {
	case symbols.EntityConstant:
		if types.IsInvalid(e.Type) || !e.Value.IsValid() {
			return invalidOperand(n)
		}
		return Operand{Mode: ModeConstant, Type: e.Type, Value: e.Value}

	case symbols.EntityVariable:
		if types.IsInvalid(e.Type) {
			return invalidOperand(n)
		}
		if e.Has(symbols.FlagImmutable) {
			return Operand{Mode: ModeImmutable, Type: e.Type}
		}
		return Operand{Mode: ModeVariable, Type: e.Type}

	case symbols.EntityTypeName:
		if types.IsInvalid(e.Type) {
			return invalidOperand(n)
		}
		return Operand{Mode: ModeType, Type: e.Type}

	case symbols.EntityProcedure:
		if types.IsInvalid(e.Type) {
			return invalidOperand(n)
		}
		return Operand{Mode: ModeValue, Type: e.Type}

	case symbols.EntityProcGroup:
		if _, ok := types.Under(hint).(*types.Proc); ok && hint != nil {
			for _, m := range e.Group {
				c.resolve(env, m)
				if c.assignableType(env, m.Type, hint) {
					if id, ok := ast.Unparen(n).(*ast.IdentifierExpr); ok {
						c.info.Uses[id] = m
					}
					m.MarkUsed()
					return Operand{Mode: ModeValue, Type: m.Type}
				}
			}
		}
		return Operand{Mode: ModeProcGroup, Type: types.TypeInvalid, ProcGroup: e}

	case symbols.EntityBuiltin:
		return Operand{Mode: ModeBuiltin, Type: types.TypeInvalid, Builtin: BuiltinID(e.BuiltinID)}

	case symbols.EntityImportName, symbols.EntityLibraryName:
		c.errorf(env, n, diagnostics.ErrInvalidExpression, "use of import '%s' not in selector", e.Name)
		return invalidOperand(n)

	case symbols.EntityNil:
		return Operand{Mode: ModeValue, Type: types.TypeUntypedNil}

	case symbols.EntityLabel:
		c.errorf(env, n, diagnostics.ErrInvalidExpression, "label '%s' cannot be used as a value", e.Name)
		return invalidOperand(n)
	}
	panic("internal error: unknown entity kind " + e.Kind.String())
}

var literalTypes = map[consteval.LiteralKind]types.SemType{
	consteval.IntLiteral:    types.TypeUntypedInteger,
	consteval.FloatLiteral:  types.TypeUntypedFloat,
	consteval.ImagLiteral:   types.TypeUntypedComplex,
	consteval.RuneLiteral:   types.TypeUntypedRune,
	consteval.StringLiteral: types.TypeUntypedString,
}

func (c *Checker) basicLit(env Env, lit *ast.BasicLit) Operand {
	v := consteval.MakeFromLiteral(lit.Value, lit.Kind)
	if !v.IsValid() {
		c.errorf(env, lit, diagnostics.ErrInvalidExpression, "invalid literal '%s'", lit.Value)
		return invalidOperand(lit)
	}
	return Operand{Mode: ModeConstant, Type: literalTypes[lit.Kind], Value: v}
}

// procLit checks an anonymous procedure. Its body joins the worklist unless
// the check is speculative.
func (c *Checker) procLit(env Env, lit *ast.ProcLit) Operand {
	scope := table.NewScope(env.Scope, table.ScopeProc, "")
	penv := env.WithScope(scope).WithPolyScope(scope).WithPolymorphic(true)
	sig, ok := c.procType(penv, lit.Type, nil)
	if !ok {
		return invalidOperand(lit)
	}
	if sig.Polymorphic {
		c.errorf(env, lit, diagnostics.ErrInvalidExpression,
			"polymorphic procedure literals must be declared as constants")
		return invalidOperand(lit)
	}
	e := c.newEntity(symbols.EntityProcedure, "proc", nil, sig)
	e.State = symbols.Resolved
	e.Decl = &symbols.Decl{Init: lit, Scope: env.Scope}
	if !env.SuppressErrors && !env.NoPolyErrors {
		c.queueBody(e, sig, scope, lit.Body)
	}
	return Operand{Mode: ModeValue, Type: sig}
}

func (c *Checker) castExpr(env Env, n *ast.CastExpr) Operand {
	t := c.typeExpr(env, n.Type)
	switch n.Op {
	case tokens.CAST_TOKEN:
		o := c.expr(env, n.X, t)
		if o.Mode == ModeInvalid || types.IsInvalid(t) {
			return invalidOperand(n)
		}
		c.checkCast(env, &o, t)
		return o
	case tokens.TRANSMUTE_TOKEN:
		o := c.expr(env, n.X, nil)
		if o.Mode == ModeInvalid || types.IsInvalid(t) {
			return invalidOperand(n)
		}
		c.checkTransmute(env, n, &o, t)
		return o
	}
	panic("internal error: unknown cast operator " + string(n.Op))
}

// autoCast keeps the operand as it is; the conversion happens where the
// value is assigned.
func (c *Checker) autoCast(env Env, n *ast.AutoCastExpr) Operand {
	o := c.expr(env, n.X, nil)
	if o.Mode == ModeInvalid {
		return o
	}
	if o.Mode != ModeConstant {
		o.Mode = ModeValue
	}
	return o
}

func (c *Checker) deref(env Env, n *ast.DerefExpr) Operand {
	o := c.expr(env, n.X, nil)
	if o.Mode == ModeInvalid {
		return o
	}
	p, ok := types.Under(o.Type).(*types.Pointer)
	if !ok {
		if types.IsRawptr(o.Type) {
			c.errorf(env, n, diagnostics.ErrInvalidOperator, "cannot dereference a 'rawptr'")
		} else {
			c.errorf(env, n, diagnostics.ErrInvalidOperator,
				"cannot dereference '%s' of type '%s'", o.exprString(), o.Type)
		}
		return invalidOperand(n)
	}
	return Operand{Mode: ModeVariable, Type: p.Elem}
}

// ternary checks `c ? a : b`, `a if c else b` and `a when c else b`.
func (c *Checker) ternary(env Env, n *ast.TernaryExpr, hint types.SemType) Operand {
	cond := c.expr(env, n.Cond, nil)
	if cond.Mode != ModeInvalid && !types.IsBoolean(cond.Type) {
		c.errorf(env, n.Cond, diagnostics.ErrTypeMismatch,
			"non-boolean condition in ternary expression '%s'", cond.exprString())
		cond.invalidate()
	}
	if n.Op == tokens.WHEN_TOKEN && cond.Mode != ModeInvalid && cond.Mode != ModeConstant {
		c.errorf(env, n.Cond, diagnostics.ErrIllegalConstantUse,
			"'when' condition must be a constant boolean")
		cond.invalidate()
	}

	x := c.expr(env, n.Then, hint)
	y := c.expr(env, n.Else, hint)
	if cond.Mode == ModeInvalid || x.Mode == ModeInvalid || y.Mode == ModeInvalid {
		return invalidOperand(n)
	}
	if x.isUntypedNil() && y.isUntypedNil() {
		c.errorf(env, n, diagnostics.ErrIllegalConstantUse, "both branches of the ternary expression are untyped nil")
		return invalidOperand(n)
	}

	c.convertToTyped(env, &x, y.Type)
	c.convertToTyped(env, &y, x.Type)
	if x.Mode == ModeInvalid || y.Mode == ModeInvalid {
		return invalidOperand(n)
	}
	t := x.Type
	switch {
	case x.isUntypedNil():
		t = y.Type
	case y.isUntypedNil():
	case !types.Identical(x.Type, y.Type):
		c.report(env, diagnostics.TypeMismatch(locOf(n),
			"mismatched types in ternary expression, '"+x.Type.String()+"' vs '"+y.Type.String()+"'"))
		return invalidOperand(n)
	}

	if cond.Mode == ModeConstant {
		pick := y
		if cond.Value.BoolVal() {
			pick = x
		}
		if n.Op == tokens.WHEN_TOKEN || (x.Mode == ModeConstant && y.Mode == ModeConstant) {
			pick.Type = t
			return pick
		}
	}
	return Operand{Mode: ModeValue, Type: t}
}
