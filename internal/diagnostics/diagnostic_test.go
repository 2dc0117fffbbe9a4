package diagnostics

import (
	"testing"

	"github.com/dimenus/Odin/internal/source"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		expected string
	}{
		{Error, "error"},
		{Warning, "warning"},
		{Info, "info"},
		{Hint, "hint"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.expected {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.expected)
		}
	}
}

func TestDiagnostic_WithPrimaryLabel(t *testing.T) {
	loc := source.At("a.odin", 3, 4)
	d := NewError("oops").WithPrimaryLabel(loc, "here")

	if d.FilePath != "a.odin" {
		t.Errorf("FilePath = %q", d.FilePath)
	}
	if d.Primary() == nil || d.Primary().Message != "here" {
		t.Fatalf("primary label missing: %+v", d.Labels)
	}

	d.WithPrimaryLabel(source.At("a.odin", 9, 9), "ignored")
	if len(d.Labels) != 1 {
		t.Errorf("second primary label should be ignored, have %d labels", len(d.Labels))
	}
	if d.Location() != loc {
		t.Errorf("Location = %v, want %v", d.Location(), loc)
	}
}

func TestDiagnostic_WithSecondaryLabel(t *testing.T) {
	d := NewError("redeclared").
		WithPrimaryLabel(source.At("a.odin", 5, 1), "new").
		WithSecondaryLabel(source.At("a.odin", 1, 1), "old")

	if len(d.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(d.Labels))
	}
	if d.Labels[0].Style != Primary || d.Labels[1].Style != Secondary {
		t.Errorf("label order wrong: %+v", d.Labels)
	}
}

func TestDiagnostic_SecondaryWithoutPrimary_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewError("x").WithSecondaryLabel(source.At("a.odin", 1, 1), "orphan")
}

func TestDiagnostic_BuilderPattern(t *testing.T) {
	d := NewError("bad").
		WithCode(ErrTypeMismatch).
		WithPrimaryLabel(source.At("f", 1, 1), "l").
		WithNote("n1").
		WithNote("n2").
		WithHelp("h")

	if d.Code != ErrTypeMismatch || len(d.Notes) != 2 || d.Help != "h" {
		t.Errorf("builder lost state: %+v", d)
	}
}

func TestBuilders(t *testing.T) {
	loc := source.At("f", 2, 2)
	tests := []struct {
		name string
		diag *Diagnostic
		code string
		msg  string
	}{
		{"undeclared", UndeclaredName(loc, "foo"), ErrUndeclaredName, "undeclared name: foo"},
		{"arity few", WrongArgumentCount(loc, "f", 2, 1), ErrArityMismatch, "too few arguments for 'f', expected 2 arguments, got 1"},
		{"arity many", WrongArgumentCount(loc, "f", 1, 3), ErrArityMismatch, "too many arguments for 'f', expected 1 arguments, got 3"},
		{"overflow", ConstantOverflow(loc, "300", "u8"), ErrConstantOverflow, "'300' overflows 'u8'"},
		{"div zero", DivisionByZero(loc), ErrDivisionByZero, "division by zero not allowed"},
		{"cycle", DeclarationCycle(loc, []string{"a", "b", "a"}), ErrDeclarationCycle, "illegal declaration cycle of 'a'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.diag.Code != tt.code {
				t.Errorf("code = %s, want %s", tt.diag.Code, tt.code)
			}
			if tt.diag.Message != tt.msg {
				t.Errorf("message = %q, want %q", tt.diag.Message, tt.msg)
			}
		})
	}
}
