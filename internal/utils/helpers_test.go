package utils

import "testing"

func TestIsExported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"foo", true},
		{"Foo", true},
		{"_foo", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsExported(tt.name); got != tt.want {
			t.Errorf("IsExported(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPluralize(t *testing.T) {
	if Pluralize("argument", "arguments", 1) != "argument" || Pluralize("argument", "arguments", 2) != "arguments" {
		t.Error("Pluralize mismatch")
	}
}
