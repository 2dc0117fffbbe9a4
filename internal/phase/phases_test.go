package phase

import "testing"

func TestAdvance(t *testing.T) {
	tests := []struct {
		from, to PackagePhase
		want     PackagePhase
		ok       bool
	}{
		{NotStarted, Parsed, Parsed, true},
		{Parsed, Declared, Declared, true},
		{Declared, Checked, Checked, true},
		{NotStarted, Declared, NotStarted, false},
		{Parsed, Checked, Parsed, false},
		{Checked, Checked, Checked, false},
		{Parsed, NotStarted, Parsed, false},
	}
	for _, tt := range tests {
		got, ok := Advance(tt.from, tt.to)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Advance(%v, %v) = %v, %v; want %v, %v", tt.from, tt.to, got, ok, tt.want, tt.ok)
		}
	}
}

func TestString(t *testing.T) {
	if got := Declared.String(); got != "Declared" {
		t.Errorf("Declared.String() = %q", got)
	}
	if got := PackagePhase(42).String(); got != "Unknown" {
		t.Errorf("PackagePhase(42).String() = %q", got)
	}
}
