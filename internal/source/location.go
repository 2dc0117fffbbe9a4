package source

import "fmt"

// Position is a 1-based line/column pair. The zero value means unknown.
type Position struct {
	Line   int `yaml:"line"`
	Column int `yaml:"col"`
}

func (p Position) IsValid() bool { return p.Line > 0 }

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Column < q.Column)
}

// Location represents a span of source code with start and end positions
type Location struct {
	Filename string
	Start    Position
	End      Position
}

// NewLocation creates a new Location with the given start and end positions
func NewLocation(filename string, start, end Position) Location {
	return Location{Filename: filename, Start: start, End: end}
}

// At is a zero-width location at line:col.
func At(filename string, line, col int) Location {
	p := Position{Line: line, Column: col}
	return Location{Filename: filename, Start: p, End: p}
}

func (l Location) IsValid() bool { return l.Start.IsValid() }

// Contains checks if the given position is within this location
func (l Location) Contains(pos Position) bool {
	return !pos.Before(l.Start) && !l.End.Before(pos)
}

// Span joins two locations into the smallest location covering both.
func Span(a, b Location) Location {
	if !a.IsValid() {
		return b
	}
	if !b.IsValid() {
		return a
	}
	out := a
	if b.Start.Before(out.Start) {
		out.Start = b.Start
	}
	if out.End.Before(b.End) {
		out.End = b.End
	}
	return out
}

func (l Location) String() string {
	if !l.IsValid() {
		return "location(unknown)"
	}
	if l.Filename == "" {
		return fmt.Sprintf("%d:%d", l.Start.Line, l.Start.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Start.Line, l.Start.Column)
}
