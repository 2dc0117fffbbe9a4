package source

import "testing"

func TestLocationContains(t *testing.T) {
	loc := NewLocation("a.odin", Position{Line: 2, Column: 3}, Position{Line: 4, Column: 1})
	tests := []struct {
		pos  Position
		want bool
	}{
		{Position{Line: 2, Column: 3}, true},
		{Position{Line: 3, Column: 99}, true},
		{Position{Line: 4, Column: 1}, true},
		{Position{Line: 2, Column: 2}, false},
		{Position{Line: 4, Column: 2}, false},
		{Position{Line: 1, Column: 9}, false},
	}
	for _, tt := range tests {
		if got := loc.Contains(tt.pos); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestSpan(t *testing.T) {
	a := At("f", 1, 5)
	b := At("f", 3, 2)
	s := Span(a, b)
	if s.Start != a.Start || s.End != b.End {
		t.Errorf("Span = %v..%v", s.Start, s.End)
	}
	if got := Span(Location{}, b); got != b {
		t.Errorf("Span with invalid left = %v", got)
	}
}

func TestLocationString(t *testing.T) {
	if got := At("x.odin", 7, 9).String(); got != "x.odin:7:9" {
		t.Errorf("String = %q", got)
	}
	if got := (Location{}).String(); got != "location(unknown)" {
		t.Errorf("String = %q", got)
	}
}
