package typechecker

import (
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/table"
	"github.com/dimenus/Odin/internal/types"
)

// checkBody checks one queued procedure body. Parameters live in
// task.scope; the body gets a block scope of its own.
func (c *Checker) checkBody(task bodyTask) {
	scope := table.NewScope(task.scope, table.ScopeBlock, task.entity.Name)
	env := NewEnv(scope).WithProc(task.entity, task.sig)
	c.stmts(env, task.body.Stmts)
}

func (c *Checker) stmts(env Env, list []ast.Statement) {
	for _, s := range list {
		c.stmt(env, s)
	}
}

func (c *Checker) stmt(env Env, s ast.Statement) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		c.exprStmt(env, n)
	case *ast.ReturnStmt:
		c.returnStmt(env, n)
	case *ast.ValueDecl:
		c.localDecl(env, n)
	case *ast.Block:
		c.stmts(env.WithScope(table.NewScope(env.Scope, table.ScopeBlock, "")), n.Stmts)
	default:
		panic("internal error: unknown statement")
	}
}

func (c *Checker) exprStmt(env Env, n *ast.ExprStmt) {
	o := c.rawExpr(env, n.X, nil)
	switch o.Mode {
	case ModeInvalid:
		return
	case ModeType:
		c.errorf(env, n.X, diagnostics.ErrInvalidExpression, "'%s' is not an expression", o.exprString())
		return
	}
	if _, isCall := ast.Unparen(n.X).(*ast.CallExpr); !isCall {
		c.errorf(env, n.X, diagnostics.ErrInvalidExpression, "'%s' is not used", o.exprString())
	}
}

func (c *Checker) returnStmt(env Env, n *ast.ReturnStmt) {
	if env.ProcType == nil {
		c.errorf(env, n, diagnostics.ErrInvalidExpression, "'return' is only allowed inside a procedure")
		return
	}
	results := env.ProcType.Results
	want := results.Len()

	if len(n.Results) == 0 && want > 0 {
		for _, v := range results.List() {
			if v.Name == "" {
				c.errorf(env, n, diagnostics.ErrArityMismatch,
					"too few return values, expected %d, got 0", want)
				return
			}
		}
		return
	}

	var ops []Operand
	if len(n.Results) == 1 && want > 1 {
		o := c.rawExpr(env, n.Results[0], nil)
		if o.Mode == ModeInvalid {
			return
		}
		tup, ok := o.Type.(*types.Tuple)
		if want == 2 && !ok {
			tup = c.commaOk(o)
		}
		if tup != nil && (o.Mode == ModeValue || o.Mode == ModeMapIndex || o.Mode == ModeOptionalOk) {
			for _, v := range tup.List() {
				ops = append(ops, Operand{Mode: ModeValue, Type: v.Type, Expr: n.Results[0]})
			}
		} else {
			c.checkNotTuple(env, &o)
			ops = append(ops, o)
		}
	} else {
		for i, r := range n.Results {
			var hint types.SemType
			if i < want {
				hint = results.At(i).Type
			}
			ops = append(ops, c.expr(env, r, hint))
		}
	}

	if len(ops) != want {
		which := "few"
		if len(ops) > want {
			which = "many"
		}
		c.errorf(env, n, diagnostics.ErrArityMismatch,
			"too %s return values, expected %d, got %d", which, want, len(ops))
		return
	}
	for i := range ops {
		c.checkAssignment(env, &ops[i], results.At(i).Type, "return statement")
	}
}

// localDecl checks a declaration inside a body. Constants are entered first
// and resolved like package ones; variables only become visible after
// their initializers are checked, so `x := x` sees an outer x.
func (c *Checker) localDecl(env Env, d *ast.ValueDecl) {
	if d.Const {
		for _, e := range c.Declare(env.Scope, d) {
			c.resolve(env, e)
		}
		return
	}
	ents := c.declEntities(env, env.Scope, d)
	for _, e := range ents {
		c.resolve(env, e)
	}
	for _, e := range ents {
		c.declare(env, env.Scope, e)
	}
}
