package typechecker

import (
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/semantics/table"
	"github.com/dimenus/Odin/internal/types"
)

func (c *Checker) selector(env Env, n *ast.SelectorExpr, hint types.SemType) Operand {
	if id, ok := ast.Unparen(n.X).(*ast.IdentifierExpr); ok {
		if e, found := env.Scope.Lookup(id.Name); found && e.Kind == symbols.EntityImportName {
			c.info.Uses[id] = e
			e.MarkUsed()
			return c.importSelector(env, n, e, hint)
		}
	}

	x := c.exprOrType(env, n.X, nil)
	if x.Mode == ModeInvalid {
		return invalidOperand(n)
	}
	name := n.Field.Name

	switch x.Mode {
	case ModeType:
		if en, ok := types.Under(x.Type).(*types.Enum); ok {
			f, ok := en.Field(name)
			if !ok {
				c.report(env, diagnostics.FieldNotFound(locOf(n.Field), x.exprString(), x.typeString(), name))
				return invalidOperand(n)
			}
			return Operand{Mode: ModeConstant, Type: x.Type, Value: f.Value}
		}
		c.errorf(env, n, diagnostics.ErrFieldNotFound, "cannot select '%s' from the type '%s'", name, x.Type)
		return invalidOperand(n)
	case ModeBuiltin, ModeProcGroup, ModeNoValue:
		c.errorf(env, n, diagnostics.ErrInvalidExpression, "'%s' has no fields", x.exprString())
		return invalidOperand(n)
	}

	sel, ok := types.LookupField(x.Type, name)
	if !ok {
		c.report(env, diagnostics.FieldNotFound(locOf(n.Field), x.exprString(), x.typeString(), name))
		return invalidOperand(n)
	}
	c.info.Selections[n] = sel

	var mode AddressingMode
	switch {
	case x.Mode == ModeConstant:
		c.errorf(env, n, diagnostics.ErrIllegalConstantUse,
			"cannot select the non-constant field '%s' from the constant '%s'", name, x.exprString())
		return invalidOperand(n)
	case x.Mode == ModeImmutable:
		mode = ModeImmutable
	case x.Mode == ModeMapIndex:
		mode = ModeValue
	case sel.Indirect || x.Mode != ModeValue:
		mode = ModeVariable
	default:
		mode = ModeValue
	}
	return Operand{Mode: mode, Type: sel.Field.Type}
}

// importSelector resolves `pkg.name`. Only names declared by the imported
// package itself are visible, never its own imports or the universe.
func (c *Checker) importSelector(env Env, n *ast.SelectorExpr, imp *symbols.Entity, hint types.SemType) Operand {
	name := n.Field.Name
	scope, _ := imp.ImportScope.(*table.Scope)
	if scope == nil {
		return invalidOperand(n)
	}
	e, ok := scope.LookupCurrent(name)
	if !ok {
		c.errorf(env, n.Field, diagnostics.ErrUndeclaredName, "'%s' is not declared by '%s'", name, imp.Name)
		return invalidOperand(n)
	}
	if !e.IsExported() {
		c.errorf(env, n.Field, diagnostics.ErrNotExported, "'%s' is not exported by '%s'", name, imp.Name)
		return invalidOperand(n)
	}
	c.info.Uses[n.Field] = e
	e.MarkUsed()
	c.resolve(env, e)
	return c.operandForEntity(env, n, e, hint)
}

// implicitSelector checks `.Name` against an enum hint, or the enum of a
// bit set hint.
func (c *Checker) implicitSelector(env Env, n *ast.ImplicitSelectorExpr, hint types.SemType) Operand {
	name := n.Field.Name
	t := hint
	if bs, ok := types.Under(hint).(*types.BitSet); ok {
		t = bs.Elem
	}
	en, ok := types.Under(t).(*types.Enum)
	if !ok {
		c.errorf(env, n, diagnostics.ErrInvalidExpression,
			"cannot determine the type of the implicit selector '.%s'", name)
		return invalidOperand(n)
	}
	f, ok := en.Field(name)
	if !ok {
		c.errorf(env, n, diagnostics.ErrFieldNotFound, "'%s' is not a member of the enum '%s'", name, t)
		return invalidOperand(n)
	}
	return Operand{Mode: ModeConstant, Type: t, Value: f.Value}
}
