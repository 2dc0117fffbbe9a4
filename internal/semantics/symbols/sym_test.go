package symbols

import (
	"testing"

	"github.com/dimenus/Odin/internal/types"
)

func TestEntityFlags(t *testing.T) {
	e := NewEntity(EntityVariable, "x", nil, types.TypeInt)
	if e.IsUsed() {
		t.Error("new entity should be unused")
	}
	e.MarkUsed()
	e.Set(FlagParam)
	if !e.IsUsed() || !e.Has(FlagParam) || e.Has(FlagUsing) {
		t.Errorf("unexpected flags %b", e.Flags)
	}
	if e.State != Unresolved {
		t.Error("new entity should start unresolved")
	}
}

func TestEntityString(t *testing.T) {
	tests := []struct {
		e    *Entity
		want string
	}{
		{NewEntity(EntityConstant, "N", nil, types.TypeUntypedInteger), "constant N: untyped integer"},
		{NewEntity(EntityProcGroup, "min", nil, nil), "procedure group min"},
	}
	for _, tt := range tests {
		if got := tt.e.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if got := EntityKind(99).String(); got != "EntityKind(99)" {
		t.Errorf("unknown kind renders %q", got)
	}
}

func TestIsExported(t *testing.T) {
	if !NewEntity(EntityConstant, "Max", nil, nil).IsExported() {
		t.Error("Max should be exported")
	}
	if NewEntity(EntityConstant, "_hidden", nil, nil).IsExported() {
		t.Error("_hidden should not be exported")
	}
}
