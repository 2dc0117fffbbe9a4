package typechecker

import (
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/types"
)

// typeAssert checks `x.(T)` and `x.?` on unions and any. The result may be
// used with an `ok` value.
func (c *Checker) typeAssert(env Env, n *ast.TypeAssertExpr) Operand {
	x := c.expr(env, n.X, nil)
	if x.Mode == ModeInvalid {
		return invalidOperand(n)
	}
	u, isUnion := types.Under(x.Type).(*types.Union)
	if !isUnion && !types.IsAny(x.Type) {
		c.report(env, diagnostics.TypeMismatch(locOf(n),
			"type assertions are only allowed on unions and 'any', got '"+x.typeString()+"'"))
		return invalidOperand(n)
	}

	var t types.SemType
	if n.Type == nil {
		if !isUnion || len(u.Variants) != 1 {
			c.report(env, diagnostics.TypeMismatch(locOf(n),
				"'.?' requires a union with exactly one variant, got '"+x.typeString()+"'"))
			return invalidOperand(n)
		}
		t = u.Variants[0]
	} else {
		t = c.typeExpr(env, n.Type)
		if types.IsInvalid(t) {
			return invalidOperand(n)
		}
	}

	if isUnion {
		if !u.Variant(t) {
			c.report(env, diagnostics.TypeMismatch(locOf(n),
				"cannot type assert '"+x.exprString()+"' to '"+t.String()+"' as it is not a variant of '"+x.typeString()+"'").
				WithNote("variants: "+variantList(u.Variants)))
			return invalidOperand(n)
		}
	} else {
		c.registerTypeInfo(t)
	}
	c.noteDep("type_assertion_check")
	return Operand{Mode: ModeOptionalOk, Type: t}
}
