package typechecker

import (
	"fmt"

	"github.com/dimenus/Odin/internal/frontend/ast"
	"github.com/dimenus/Odin/internal/semantics/consteval"
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/types"
)

// AddressingMode classifies what an expression denotes.
type AddressingMode int

const (
	ModeInvalid AddressingMode = iota
	ModeNoValue
	ModeBuiltin
	ModeType
	ModeConstant
	ModeVariable
	ModeValue
	ModeImmutable
	ModeContext
	ModeMapIndex
	ModeOptionalOk
	ModeProcGroup
)

var modeNames = [...]string{
	ModeInvalid:    "invalid",
	ModeNoValue:    "no value",
	ModeBuiltin:    "built-in",
	ModeType:       "type",
	ModeConstant:   "constant",
	ModeVariable:   "variable",
	ModeValue:      "value",
	ModeImmutable:  "immutable",
	ModeContext:    "context",
	ModeMapIndex:   "map index",
	ModeOptionalOk: "optional ok",
	ModeProcGroup:  "procedure group",
}

func (m AddressingMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("AddressingMode(%d)", int(m))
}

// Operand is the result of checking one expression. Value is only
// meaningful in ModeConstant.
type Operand struct {
	Mode      AddressingMode
	Type      types.SemType
	Value     consteval.Value
	Expr      ast.Expression
	ProcGroup *symbols.Entity
	Builtin   BuiltinID
}

func invalidOperand(e ast.Expression) Operand {
	return Operand{Mode: ModeInvalid, Type: types.TypeInvalid, Expr: e}
}

func (o *Operand) invalidate() {
	o.Mode = ModeInvalid
	o.Value = consteval.Value{}
}

func (o *Operand) IsInvalid() bool { return o.Mode == ModeInvalid }

// IsValue reports whether the operand yields a runtime or constant value.
func (o *Operand) IsValue() bool {
	switch o.Mode {
	case ModeConstant, ModeVariable, ModeValue, ModeImmutable,
		ModeContext, ModeMapIndex, ModeOptionalOk:
		return true
	}
	return false
}

func (o *Operand) IsConstant() bool { return o.Mode == ModeConstant }

func (o *Operand) isUntypedNil() bool {
	return o.Mode != ModeInvalid && types.IsUntypedNil(o.Type)
}

func (o *Operand) isUntypedUndef() bool {
	return o.Mode != ModeInvalid && types.IsUntypedUndef(o.Type)
}

// exprString renders the operand's expression for diagnostics.
func (o *Operand) exprString() string {
	if o.Expr == nil {
		return "<expr>"
	}
	return ast.ExprString(o.Expr)
}

func (o *Operand) typeString() string {
	if o.Type == nil {
		return types.TypeInvalid.String()
	}
	return o.Type.String()
}

func (o Operand) String() string {
	s := fmt.Sprintf("%s %s", o.Mode, o.typeString())
	if o.Mode == ModeConstant && o.Value.IsValid() {
		s += " = " + o.Value.String()
	}
	return s
}
