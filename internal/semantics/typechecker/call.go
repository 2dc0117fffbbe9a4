package typechecker

import (
	"github.com/dimenus/Odin/internal/diagnostics"
	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/types"
	"golang.org/x/exp/slices"
)

type namedArg struct {
	name *ast.IdentifierExpr
	node *ast.FieldValue
	op   Operand
}

// callArgs holds the evaluated arguments of one call. Each argument is
// checked exactly once, no matter how many candidates are tried.
type callArgs struct {
	positional []Operand
	named      []namedArg
	spread     bool
}

// clone copies the operands so a candidate can convert them freely.
func (a callArgs) clone() callArgs {
	out := callArgs{spread: a.spread}
	out.positional = slices.Clone(a.positional)
	out.named = slices.Clone(a.named)
	return out
}

type callResult struct {
	score  int64
	ok     bool
	entity *symbols.Entity
	sig    *types.Proc
	result Operand
}

func (c *Checker) call(env Env, call *ast.CallExpr, hint types.SemType) Operand {
	fn := c.exprOrType(env, call.Fun, nil)
	switch fn.Mode {
	case ModeInvalid:
		for _, a := range call.Args {
			if fv, ok := a.(*ast.FieldValue); ok {
				a = fv.Value
			}
			c.rawExpr(env, a, nil)
		}
		return invalidOperand(call)
	case ModeBuiltin:
		return c.builtinCall(env, call, fn.Builtin)
	case ModeType:
		if types.IsPolyTemplate(fn.Type) {
			return c.polyRecordCall(env, call, fn)
		}
		return c.conversion(env, call, fn.Type)
	case ModeProcGroup:
		args, ok := c.callArguments(env, call, nil)
		if !ok {
			return invalidOperand(call)
		}
		return c.groupCall(env, call, fn.ProcGroup, args)
	}

	sig, ok := types.Under(fn.Type).(*types.Proc)
	if !ok {
		c.report(env, diagnostics.NotCallable(locOf(call.Fun), fn.exprString(), fn.typeString()))
		return invalidOperand(call)
	}
	args, ok := c.callArguments(env, call, sig)
	if !ok {
		return invalidOperand(call)
	}
	callee := c.entityOf(call.Fun)
	if callee != nil && callee.Kind != symbols.EntityProcedure {
		callee = nil
	}
	r := c.callInternal(env, call, callee, sig, args)
	if !r.ok {
		return invalidOperand(call)
	}
	if r.entity != nil {
		c.info.Calls[call] = r.entity
	}
	return r.result
}

// conversion checks `T(x)`.
func (c *Checker) conversion(env Env, call *ast.CallExpr, t types.SemType) Operand {
	if len(call.Args) != 1 || call.Ellipsis {
		c.errorf(env, call, diagnostics.ErrInvalidCast,
			"type conversion to '%s' takes exactly one argument, got %d", t, len(call.Args))
		return invalidOperand(call)
	}
	if _, named := call.Args[0].(*ast.FieldValue); named {
		c.errorf(env, call.Args[0], diagnostics.ErrInvalidCast, "type conversions do not accept named arguments")
		return invalidOperand(call)
	}
	x := c.expr(env, call.Args[0], t)
	if x.Mode == ModeInvalid {
		return invalidOperand(call)
	}
	c.checkCast(env, &x, t)
	if x.Mode == ModeInvalid {
		return invalidOperand(call)
	}
	x.Expr = call
	return x
}

// argHint is the type an argument at position i is checked against, when
// it can be known before the call is resolved.
func argHint(sig *types.Proc, i int, spread bool) types.SemType {
	if sig == nil || sig.Polymorphic && !sig.Specialized {
		return nil
	}
	n := sig.ParamCount()
	if sig.Variadic && i >= sig.VariadicIndex {
		t := sig.Params.At(sig.VariadicIndex).Type
		if spread {
			return t
		}
		if s, ok := types.Under(t).(*types.Slice); ok {
			return s.Elem
		}
		return nil
	}
	if i < n {
		return sig.Params.At(i).Type
	}
	return nil
}

func namedHint(sig *types.Proc, name string) types.SemType {
	if sig == nil || sig.Polymorphic && !sig.Specialized {
		return nil
	}
	for _, v := range sig.Params.List() {
		if v.Name == name {
			return v.Type
		}
	}
	return nil
}

// callArguments evaluates the arguments of call. A single call argument
// returning several values is spread over the parameters.
func (c *Checker) callArguments(env Env, call *ast.CallExpr, sig *types.Proc) (callArgs, bool) {
	args := callArgs{spread: call.Ellipsis}
	ok := true

	if len(call.Args) == 1 {
		if inner, isCall := ast.Unparen(call.Args[0]).(*ast.CallExpr); isCall {
			o := c.rawExpr(env, inner, argHint(sig, 0, false))
			if tup, isTuple := o.Type.(*types.Tuple); isTuple && o.Mode == ModeValue && tup.Len() > 1 {
				for _, v := range tup.List() {
					args.positional = append(args.positional, Operand{Mode: ModeValue, Type: v.Type, Expr: call.Args[0]})
				}
				return args, true
			}
			if o.Mode == ModeNoValue {
				c.errorf(env, call.Args[0], diagnostics.ErrInvalidExpression, "'%s' used as a value", o.exprString())
				return args, false
			}
			c.checkNotTuple(env, &o)
			args.positional = append(args.positional, o)
			return args, o.Mode != ModeInvalid
		}
		if _, named := call.Args[0].(*ast.FieldValue); !named && !call.Ellipsis &&
			sig != nil && !sig.Variadic && sig.ParamCount() == 2 {
			o := c.exprOrType(env, call.Args[0], argHint(sig, 0, false))
			if tup := c.commaOk(o); tup != nil {
				for _, v := range tup.List() {
					args.positional = append(args.positional, Operand{Mode: ModeValue, Type: v.Type, Expr: call.Args[0]})
				}
				return args, true
			}
			args.positional = append(args.positional, o)
			return args, o.Mode != ModeInvalid
		}
	}

	for i, a := range call.Args {
		fv, isNamed := a.(*ast.FieldValue)
		if !isNamed {
			if len(args.named) > 0 {
				c.errorf(env, a, diagnostics.ErrInvalidExpression,
					"positional arguments are not allowed after named arguments")
				ok = false
				continue
			}
			spread := call.Ellipsis && i == len(call.Args)-1
			o := c.exprOrType(env, a, argHint(sig, i, spread))
			ok = ok && o.Mode != ModeInvalid
			args.positional = append(args.positional, o)
			continue
		}
		id, isIdent := fv.Field.(*ast.IdentifierExpr)
		if !isIdent {
			c.errorf(env, fv.Field, diagnostics.ErrUnknownNamedParameter,
				"invalid parameter name '%s' in call", ast.ExprString(fv.Field))
			ok = false
			continue
		}
		o := c.exprOrType(env, fv.Value, namedHint(sig, id.Name))
		ok = ok && o.Mode != ModeInvalid
		args.named = append(args.named, namedArg{name: id, node: fv, op: o})
	}
	if call.Ellipsis && len(args.named) > 0 {
		c.errorf(env, call, diagnostics.ErrInvalidExpression, "'..' cannot be combined with named arguments")
		ok = false
	}
	return args, ok
}

// commaOk turns a map index or type assertion used where two values are
// expected into `(value, ok)`, with ok an untyped bool. The pair is recorded
// on the expression. It returns nil for any other operand.
func (c *Checker) commaOk(o Operand) *types.Tuple {
	if o.Mode != ModeMapIndex && o.Mode != ModeOptionalOk {
		return nil
	}
	tup := types.NewTuple(&types.Var{Type: o.Type}, &types.Var{Type: types.TypeUntypedBool})
	c.info.Records[o.Expr] = Record{Mode: ModeValue, Type: tup}
	return tup
}

// callInternal matches args against sig and scores the match. With errors
// enabled it also converts the arguments to their parameter types; a
// speculative check leaves every recorded type alone.
func (c *Checker) callInternal(env Env, call *ast.CallExpr, callee *symbols.Entity, sig *types.Proc, args callArgs) callResult {
	name := ast.ExprString(call.Fun)
	final := !env.SuppressErrors && !env.NoPolyErrors
	fail := callResult{}

	params := sig.Params.List()
	n := len(params)
	vi := -1
	if sig.Variadic {
		vi = sig.VariadicIndex
	}

	ordered := make([]Operand, n)
	assigned := make([]bool, n)
	var varargs []Operand
	for i, op := range args.positional {
		switch {
		case vi >= 0 && i >= vi:
			varargs = append(varargs, op)
		case i < n:
			ordered[i] = op
			assigned[i] = true
		default:
			c.report(env, diagnostics.WrongArgumentCount(locOf(call), name, n, len(args.positional)))
			return fail
		}
	}

	if args.spread {
		if vi < 0 {
			c.errorf(env, call, diagnostics.ErrInvalidExpression,
				"'..' can only be used with variadic procedures, '%s' is not variadic", name)
			return fail
		}
		if len(varargs) != 1 {
			c.errorf(env, call, diagnostics.ErrInvalidExpression,
				"'..' must be applied to the only argument of the variadic parameter '%s'", params[vi].Name)
			return fail
		}
	}

	for _, na := range args.named {
		idx := -1
		for i, v := range params {
			if !v.IsBlank() && v.Name == na.name.Name {
				idx = i
				break
			}
		}
		switch {
		case idx < 0:
			c.errorf(env, na.name, diagnostics.ErrUnknownNamedParameter,
				"no parameter named '%s' for '%s'", na.name.Name, name)
			return fail
		case idx == vi:
			c.errorf(env, na.name, diagnostics.ErrInvalidExpression,
				"the variadic parameter '%s' cannot be passed by name", na.name.Name)
			return fail
		case assigned[idx]:
			c.errorf(env, na.name, diagnostics.ErrDuplicateNamedParameter,
				"duplicate parameter '%s' in call to '%s'", na.name.Name, name)
			return fail
		}
		ordered[idx] = na.op
		assigned[idx] = true
	}

	missing := false
	required := 0
	for i, v := range params {
		if i == vi {
			continue
		}
		required++
		if assigned[i] || v.HasDefault() || len(args.named) > 0 && v.IsBlank() {
			continue
		}
		missing = true
		if len(args.named) > 0 {
			c.errorf(env, call, diagnostics.ErrMissingNamedParameter,
				"parameter '%s' of type '%s' is missing in call to '%s'", v.Name, v.Type, name)
		}
	}
	if missing {
		if len(args.named) == 0 {
			c.report(env, diagnostics.WrongArgumentCount(locOf(call), name, required, len(args.positional)))
		}
		return fail
	}

	entity := callee
	if types.IsPolymorphic(sig) && !sig.Specialized {
		if _, isTemplate := templateLit(callee); !isTemplate {
			c.errorf(env, call.Fun, diagnostics.ErrNotCallable,
				"cannot call the polymorphic procedure value '%s' without its declaration", name)
			return fail
		}
		operands := make([]Operand, 0, n+len(varargs))
		if vi >= 0 {
			operands = append(operands, ordered[:vi]...)
			operands = append(operands, varargs...)
		} else {
			operands = append(operands, ordered...)
		}
		inst, ok := c.instantiate(env, callee, operands)
		if !ok {
			return fail
		}
		entity = inst
		sig = inst.Type.(*types.Proc)
		params = sig.Params.List()
	}

	var score int64
	argOK := func(op *Operand, t types.SemType, autoCast, variadic bool) bool {
		d := c.distance(env, op, t)
		cast := false
		if d < 0 && autoCast {
			trial := *op
			if c.castable(env.Suppressed(), &trial, t) {
				d, cast = MaximumDistance, true
			}
		}
		if d < 0 {
			if final {
				c.checkAssignment(env, op, t, "procedure argument")
			}
			return false
		}
		score += AssignScore(d, variadic)
		if final {
			if cast {
				c.checkCast(env, op, t)
			} else {
				c.checkAssignment(env, op, t, "procedure argument")
			}
		}
		return op.Mode != ModeInvalid
	}

	ok := true
	for i, v := range params {
		if i == vi || !assigned[i] {
			continue
		}
		op := &ordered[i]
		if v.Kind == types.VarType {
			if op.Mode != ModeType {
				c.errorf(env, op.Expr, diagnostics.ErrInvalidType, "expected a type for the parameter '%s'", v.Name)
				ok = false
				continue
			}
			if types.Identical(op.Type, v.Type) {
				score += AssignScore(1, false)
			} else {
				score += AssignScore(MaximumDistance, false)
			}
			continue
		}
		if !argOK(op, v.Type, v.AutoCast, false) {
			ok = false
		}
	}
	if vi >= 0 {
		slice := params[vi].Type
		if args.spread {
			if !argOK(&varargs[0], slice, false, false) {
				ok = false
			}
		} else if elem, isSlice := types.Under(slice).(*types.Slice); isSlice {
			for j := range varargs {
				if !argOK(&varargs[j], elem.Elem, false, true) {
					ok = false
				}
			}
		}
	}
	if !ok {
		return fail
	}

	r := callResult{score: score, ok: true, entity: entity, sig: sig}
	switch sig.ResultCount() {
	case 0:
		r.result = Operand{Mode: ModeNoValue, Type: types.NewTuple(), Expr: call}
	case 1:
		r.result = Operand{Mode: ModeValue, Type: sig.Results.At(0).Type, Expr: call}
	default:
		r.result = Operand{Mode: ModeValue, Type: sig.Results, Expr: call}
	}
	return r
}

type groupCandidate struct {
	member *symbols.Entity
	res    callResult
}

// groupCall resolves a call to a procedure group. Every member is tried
// without reporting errors; the best scoring one is then checked for real.
// Two members sharing the best score make the call ambiguous.
func (c *Checker) groupCall(env Env, call *ast.CallExpr, group *symbols.Entity, args callArgs) Operand {
	members := make([]*symbols.Entity, 0, len(group.Group))
	for _, m := range group.Group {
		c.resolve(env, m)
		if _, ok := types.Under(m.Type).(*types.Proc); ok {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return invalidOperand(call)
	}

	winner := members[0]
	if len(members) > 1 {
		trial := env.Suppressed().withoutPolyErrors()
		var cands []groupCandidate
		for _, m := range members {
			sig := types.Under(m.Type).(*types.Proc)
			r := c.callInternal(trial, call, m, sig, args.clone())
			c.log.Debug("group candidate", "group", group.Name, "member", m.Type.String(), "ok", r.ok, "score", r.score)
			if r.ok {
				cands = append(cands, groupCandidate{member: m, res: r})
			}
		}

		if len(cands) == 0 {
			d := diagnostics.NewError("no procedures or ambiguous call for procedure group '"+group.Name+
				"' that match with the given arguments").
				WithCode(diagnostics.ErrNotCallable).
				WithPrimaryLabel(locOf(call), "")
			for _, m := range members {
				d.WithNote(m.Name + " :: " + m.Type.String())
			}
			c.report(env, d)
			return invalidOperand(call)
		}

		slices.SortStableFunc(cands, func(a, b groupCandidate) bool { return a.res.score > b.res.score })
		best := cands[0].res.score
		if len(cands) > 1 && cands[1].res.score == best {
			var tied []string
			for _, cd := range cands {
				if cd.res.score == best {
					tied = append(tied, cd.member.Name+" :: "+cd.res.sig.String())
				}
			}
			c.report(env, diagnostics.Ambiguous(locOf(call),
				"ambiguous procedure group call '"+group.Name+"' that match with the given arguments", tied))
			return invalidOperand(call)
		}
		winner = cands[0].member
	}

	sig := types.Under(winner.Type).(*types.Proc)
	r := c.callInternal(env, call, winner, sig, args)
	if !r.ok {
		return invalidOperand(call)
	}
	winner.MarkUsed()
	if id, ok := ast.Unparen(call.Fun).(*ast.IdentifierExpr); ok {
		c.info.Uses[id] = r.entity
	}
	c.info.Calls[call] = r.entity
	return r.result
}
