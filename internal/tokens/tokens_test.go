package tokens

import (
	"testing"

	"github.com/dimenus/Odin/internal/source"
)

func TestOperatorClasses(t *testing.T) {
	tests := []struct {
		tok        TOKEN
		binary     bool
		unary      bool
		comparison bool
		shift      bool
	}{
		{PLUS_TOKEN, true, true, false, false},
		{TILDE_TOKEN, true, true, false, false},
		{SHL_TOKEN, true, false, false, true},
		{LESS_EQUAL_TOKEN, true, false, true, false},
		{NOT_TOKEN, false, true, false, false},
		{IN_TOKEN, true, false, false, false},
		{CAST_TOKEN, false, false, false, false},
	}
	for _, tt := range tests {
		if IsBinaryOperator(tt.tok) != tt.binary || IsUnaryOperator(tt.tok) != tt.unary ||
			IsComparison(tt.tok) != tt.comparison || IsShift(tt.tok) != tt.shift {
			t.Errorf("classification of %q wrong", tt.tok)
		}
	}
	if IsOrderedComparison(DOUBLE_EQUAL_TOKEN) || !IsOrderedComparison(GREATER_TOKEN) {
		t.Error("IsOrderedComparison mismatch")
	}
	if !IsRange(RANGE_EXCL_TOKEN) || IsRange(MINUS_TOKEN) {
		t.Error("IsRange mismatch")
	}
}

func TestKeyword(t *testing.T) {
	tests := []struct {
		word string
		want TOKEN
		ok   bool
	}{
		{"proc", PROC_TOKEN, true},
		{"bit_set", BIT_SET_TOKEN, true},
		{"not_in", NOT_IN_TOKEN, true},
		{"auto_cast", AUTO_CAST_TOKEN, true},
		{"typeid", INVALID_TOKEN, false},
		{"int", INVALID_TOKEN, false},
	}
	for _, tt := range tests {
		got, ok := Keyword(tt.word)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Keyword(%q) = %q, %v; want %q, %v", tt.word, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTokenString(t *testing.T) {
	if got := NewToken(IDENTIFIER_TOKEN, "x", source.Location{}).String(); got != "x" {
		t.Errorf("identifier token String() = %q", got)
	}
	if got := (Token{Kind: ARROW_TOKEN}).String(); got != "->" {
		t.Errorf("arrow token String() = %q", got)
	}
}
