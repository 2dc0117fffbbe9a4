package diagnostics

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dimenus/Odin/colors"
	"github.com/dimenus/Odin/internal/source"
)

func TestNewDiagnosticBag(t *testing.T) {
	bag := NewDiagnosticBag()

	if bag.ErrorCount() != 0 {
		t.Errorf("Expected 0 errors, got %d", bag.ErrorCount())
	}
	if bag.WarningCount() != 0 {
		t.Errorf("Expected 0 warnings, got %d", bag.WarningCount())
	}
	if bag.HasErrors() {
		t.Error("Expected HasErrors() to be false for empty bag")
	}
}

func TestDiagnosticBag_MultipleDiagnostics(t *testing.T) {
	bag := NewDiagnosticBag()

	bag.Add(NewError("error 1"))
	bag.Add(NewWarning("warning 1"))
	bag.Add(NewError("error 2"))
	bag.Add(NewWarning("warning 2"))
	bag.Add(NewError("error 3"))

	if bag.ErrorCount() != 3 {
		t.Errorf("Expected 3 errors, got %d", bag.ErrorCount())
	}
	if bag.WarningCount() != 2 {
		t.Errorf("Expected 2 warnings, got %d", bag.WarningCount())
	}
	if len(bag.Diagnostics()) != 5 {
		t.Errorf("Expected 5 diagnostics, got %d", len(bag.Diagnostics()))
	}
}

func TestDiagnosticBag_DiagnosticsCopy(t *testing.T) {
	bag := NewDiagnosticBag()
	bag.Add(NewError("error 1"))
	first := bag.Diagnostics()
	bag.Add(NewError("error 2"))

	if len(first) != 1 {
		t.Errorf("Expected first copy to have 1 diagnostic, got %d", len(first))
	}
	if len(bag.Diagnostics()) != 2 {
		t.Errorf("Expected 2 diagnostics, got %d", len(bag.Diagnostics()))
	}
}

func TestDiagnosticBag_MaxErrors(t *testing.T) {
	bag := NewDiagnosticBag()
	bag.SetMaxErrors(2)
	for i := 0; i < 5; i++ {
		bag.Add(NewError("boom"))
	}
	bag.Add(NewWarning("still kept"))

	if bag.ErrorCount() != 5 {
		t.Errorf("ErrorCount = %d, want 5 (dropped errors still count)", bag.ErrorCount())
	}
	if got := len(bag.Diagnostics()); got != 3 {
		t.Errorf("stored %d diagnostics, want 3", got)
	}
}

func TestDiscard(t *testing.T) {
	bag := Discard()
	bag.Add(NewError("hidden"))
	if !bag.HasErrors() {
		t.Error("Discard bag should still count errors")
	}
	if len(bag.Diagnostics()) != 0 {
		t.Error("Discard bag should not keep diagnostics")
	}
}

func TestDiagnosticBag_ThreadSafety(t *testing.T) {
	bag := NewDiagnosticBag()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bag.Add(NewError("concurrent"))
		}()
	}
	wg.Wait()
	if bag.ErrorCount() != 50 {
		t.Errorf("Expected 50 errors, got %d", bag.ErrorCount())
	}
}

func TestDiagnosticBag_Sorted(t *testing.T) {
	bag := NewDiagnosticBag()
	bag.Add(NewError("third").WithPrimaryLabel(source.At("b.odin", 1, 1), ""))
	bag.Add(NewError("second").WithPrimaryLabel(source.At("a.odin", 4, 2), ""))
	bag.Add(NewError("first").WithPrimaryLabel(source.At("a.odin", 1, 9), ""))

	var got []string
	for _, d := range bag.Sorted() {
		got = append(got, d.Message)
	}
	if diff := cmp.Diff([]string{"first", "second", "third"}, got); diff != "" {
		t.Errorf("Sorted mismatch (-want +got):\n%s", diff)
	}
}

func TestDiagnosticBag_EmitWithSource(t *testing.T) {
	colors.SetMode(colors.Never)
	defer colors.SetMode(colors.Auto)

	bag := NewDiagnosticBag()
	bag.AddSourceContent("unit.odin", "x := 1\ny := x + \"s\"\n")
	bag.Add(TypeMismatch(source.NewLocation("unit.odin",
		source.Position{Line: 2, Column: 6}, source.Position{Line: 2, Column: 13}), "mismatched types"))

	out := bag.EmitAllToString()
	for _, want := range []string{
		"error[T0002]: mismatched types",
		"--> unit.odin:2:6",
		"2 | y := x + \"s\"",
		"^^^^^^^",
		"Checking failed with 1 error(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDiagnosticBag_Clear(t *testing.T) {
	bag := NewDiagnosticBag()
	bag.Add(NewError("e"))
	bag.Add(NewWarning("w"))
	bag.Clear()
	if bag.HasErrors() || bag.WarningCount() != 0 || len(bag.Diagnostics()) != 0 {
		t.Error("Clear left state behind")
	}
}
