package diagnostics

import (
	"github.com/dimenus/Odin/internal/source"
)

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Label represents a labeled section of code in a diagnostic
type Label struct {
	Location source.Location
	Message  string
	Style    LabelStyle
}

type LabelStyle int

const (
	Primary   LabelStyle = iota // The main error location (uses ^^^)
	Secondary                   // Additional context (uses ---)
)

// Note represents additional information attached to a diagnostic
type Note struct {
	Message string
}

// Diagnostic represents a checker diagnostic (error, warning, etc.)
type Diagnostic struct {
	Severity Severity
	Message  string
	Code     string // Error code like "T0001"
	FilePath string // Source file for this diagnostic
	Labels   []Label
	Notes    []Note
	Help     string // Suggestion for fixing the error
}

// NewError creates a new error diagnostic
func NewError(message string) *Diagnostic {
	return &Diagnostic{Severity: Error, Message: message}
}

// NewWarning creates a new warning diagnostic
func NewWarning(message string) *Diagnostic {
	return &Diagnostic{Severity: Warning, Message: message}
}

// NewInfo creates a new info diagnostic
func NewInfo(message string) *Diagnostic {
	return &Diagnostic{Severity: Info, Message: message}
}

// WithCode sets the error code
func (d *Diagnostic) WithCode(code string) *Diagnostic {
	d.Code = code
	return d
}

func (d *Diagnostic) withLabel(loc source.Location, message string, style LabelStyle) *Diagnostic {
	if d.FilePath == "" {
		d.FilePath = loc.Filename
	}
	d.Labels = append(d.Labels, Label{Location: loc, Message: message, Style: style})
	return d
}

// WithPrimaryLabel adds the primary labeled location. A second primary label
// is ignored; the primary label is always kept first.
func (d *Diagnostic) WithPrimaryLabel(loc source.Location, message string) *Diagnostic {
	for _, label := range d.Labels {
		if label.Style == Primary {
			return d
		}
	}
	if len(d.Labels) > 0 {
		d.Labels = append([]Label{{Location: loc, Message: message, Style: Primary}}, d.Labels...)
		if d.FilePath == "" {
			d.FilePath = loc.Filename
		}
		return d
	}
	return d.withLabel(loc, message, Primary)
}

// WithSecondaryLabel adds a secondary labeled location.
// Primary label must exist before adding secondary labels
func (d *Diagnostic) WithSecondaryLabel(loc source.Location, message string) *Diagnostic {
	if d.Primary() == nil {
		panic("internal error: secondary label without primary label; call WithPrimaryLabel first")
	}
	return d.withLabel(loc, message, Secondary)
}

// WithNote adds a note to the diagnostic
func (d *Diagnostic) WithNote(message string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Message: message})
	return d
}

// WithHelp sets helpful suggestion for fixing the error
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// Primary returns the primary label, or nil.
func (d *Diagnostic) Primary() *Label {
	for i := range d.Labels {
		if d.Labels[i].Style == Primary {
			return &d.Labels[i]
		}
	}
	return nil
}

// Location is the primary label's location, or the zero Location.
func (d *Diagnostic) Location() source.Location {
	if p := d.Primary(); p != nil {
		return p.Location
	}
	return source.Location{}
}
