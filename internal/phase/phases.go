package phase

// PackagePhase tracks how far a package in a unit has progressed.
//
// Phase progression is sequential:
// NotStarted -> Parsed -> Declared -> Checked
//
// Transitions go through Advance, which checks the prerequisite in
// Prerequisites. A package is only checked after every package it imports
// has been declared.
type PackagePhase int

const (
	NotStarted PackagePhase = iota // listed in the unit, nothing done
	Parsed                         // AST built
	Declared                       // top-level entities entered into the package scope
	Checked                        // entities resolved and bodies drained
)

// Prerequisites maps each phase to the phase a package must be in before
// entering it.
var Prerequisites = map[PackagePhase]PackagePhase{
	Parsed:   NotStarted,
	Declared: Parsed,
	Checked:  Declared,
}

// Advance returns the target phase when current is its prerequisite.
func Advance(current, target PackagePhase) (PackagePhase, bool) {
	pre, ok := Prerequisites[target]
	if !ok || pre != current {
		return current, false
	}
	return target, true
}

func (p PackagePhase) String() string {
	switch p {
	case NotStarted:
		return "NotStarted"
	case Parsed:
		return "Parsed"
	case Declared:
		return "Declared"
	case Checked:
		return "Checked"
	default:
		return "Unknown"
	}
}
