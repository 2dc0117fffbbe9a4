package diagnostics

import (
	"fmt"
	"strings"

	"github.com/dimenus/Odin/internal/source"
)

// Common diagnostic builders for the checker

// UndeclaredName creates a diagnostic for an identifier with no entity
func UndeclaredName(loc source.Location, name string) *Diagnostic {
	return NewError("undeclared name: "+name).
		WithCode(ErrUndeclaredName).
		WithPrimaryLabel(loc, "not found in this scope").
		WithHelp("check if the name is declared and imported correctly")
}

// Redeclared creates a diagnostic for a name declared twice in one scope
func Redeclared(newLoc, prevLoc source.Location, name string) *Diagnostic {
	d := NewError(name+" is already declared").
		WithCode(ErrRedeclaredName).
		WithPrimaryLabel(newLoc, "redeclared here")
	if prevLoc.IsValid() {
		d = d.WithSecondaryLabel(prevLoc, "previously declared here")
	}
	return d
}

// TypeMismatch creates a diagnostic for a binary or conversion type mismatch
func TypeMismatch(loc source.Location, message string) *Diagnostic {
	return NewError(message).
		WithCode(ErrTypeMismatch).
		WithPrimaryLabel(loc, "")
}

// NotAssignable creates a diagnostic for an operand that cannot be used as target
func NotAssignable(loc source.Location, expr, from, to, context string) *Diagnostic {
	return NewError(fmt.Sprintf("cannot assign value '%s' of type '%s' to '%s' in %s", expr, from, to, context)).
		WithCode(ErrNotAssignable).
		WithPrimaryLabel(loc, "type '"+from+"'")
}

// Ambiguous creates a diagnostic listing tied candidates
func Ambiguous(loc source.Location, message string, candidates []string) *Diagnostic {
	d := NewError(message).
		WithCode(ErrAmbiguousConversion).
		WithPrimaryLabel(loc, "ambiguous")
	for _, c := range candidates {
		d.WithNote(c)
	}
	return d
}

// WrongArgumentCount creates a diagnostic for wrong number of arguments
func WrongArgumentCount(loc source.Location, proc string, expected, found int) *Diagnostic {
	which := "few"
	if found > expected {
		which = "many"
	}
	return NewError(fmt.Sprintf("too %s arguments for '%s', expected %d arguments, got %d", which, proc, expected, found)).
		WithCode(ErrArityMismatch).
		WithPrimaryLabel(loc, "")
}

// InvalidOperator creates a diagnostic for an operator/type-category mismatch
func InvalidOperator(loc source.Location, op, allowed string) *Diagnostic {
	return NewError(fmt.Sprintf("operator '%s' is only allowed with %s", op, allowed)).
		WithCode(ErrInvalidOperator).
		WithPrimaryLabel(loc, "")
}

// DivisionByZero creates a diagnostic for a constant zero divisor
func DivisionByZero(loc source.Location) *Diagnostic {
	return NewError("division by zero not allowed").
		WithCode(ErrDivisionByZero).
		WithPrimaryLabel(loc, "divisor is zero")
}

// ConstantOverflow creates a diagnostic for a value that does not fit its type
func ConstantOverflow(loc source.Location, value, typ string) *Diagnostic {
	return NewError(fmt.Sprintf("'%s' overflows '%s'", value, typ)).
		WithCode(ErrConstantOverflow).
		WithPrimaryLabel(loc, "not representable")
}

// DeclarationCycle creates a diagnostic that shows the full cycle chain
func DeclarationCycle(loc source.Location, chain []string) *Diagnostic {
	return NewError("illegal declaration cycle of '"+chain[0]+"'").
		WithCode(ErrDeclarationCycle).
		WithPrimaryLabel(loc, "cycle starts here").
		WithNote("cycle: " + strings.Join(chain, " -> "))
}

// FieldNotFound creates a diagnostic for field not found
func FieldNotFound(loc source.Location, expr, typeName, fieldName string) *Diagnostic {
	return NewError(fmt.Sprintf("'%s' of type '%s' has no field '%s'", expr, typeName, fieldName)).
		WithCode(ErrFieldNotFound).
		WithPrimaryLabel(loc, "").
		WithHelp("check the field name spelling")
}

// NotCallable creates a diagnostic for a call on a non-procedure
func NotCallable(loc source.Location, expr, typ string) *Diagnostic {
	return NewError(fmt.Sprintf("cannot call a non-procedure: '%s' of type '%s'", expr, typ)).
		WithCode(ErrNotCallable).
		WithPrimaryLabel(loc, "")
}

// NotIndexable creates a diagnostic for an index on a non-indexable value
func NotIndexable(loc source.Location, expr, typ string) *Diagnostic {
	return NewError(fmt.Sprintf("cannot index '%s' of type '%s'", expr, typ)).
		WithCode(ErrNotIndexable).
		WithPrimaryLabel(loc, "")
}

// NotAddressable creates a diagnostic for taking the address of a value
func NotAddressable(loc source.Location, expr string) *Diagnostic {
	return NewError(fmt.Sprintf("cannot take the pointer address of '%s'", expr)).
		WithCode(ErrNotAddressable).
		WithPrimaryLabel(loc, "")
}
