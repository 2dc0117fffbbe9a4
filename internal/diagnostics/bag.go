package diagnostics

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/dimenus/Odin/colors"
)

const (
	checkFailedMsg          = "\nChecking failed with %d error(s)"
	andWarningMsg           = " and %d warning(s)"
	checkSuccessWithWarning = "\nChecking succeeded with %d warning(s)\n"
)

// DiagnosticBag collects diagnostics during checking
type DiagnosticBag struct {
	diagnostics []*Diagnostic
	mu          sync.Mutex
	errorCount  int
	warnCount   int
	maxErrors   int
	discard     bool
	sourceCache *SourceCache
}

// NewDiagnosticBag creates a new diagnostic bag
func NewDiagnosticBag() *DiagnosticBag {
	return &DiagnosticBag{sourceCache: NewSourceCache()}
}

// Discard returns a bag that counts but keeps nothing. Suppressed checking
// passes write here.
func Discard() *DiagnosticBag {
	return &DiagnosticBag{discard: true, sourceCache: NewSourceCache()}
}

// SetMaxErrors caps the number of stored errors; 0 means no cap.
func (db *DiagnosticBag) SetMaxErrors(n int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.maxErrors = n
}

// AddSourceContent adds source content for a file path (for in-memory units)
func (db *DiagnosticBag) AddSourceContent(filepath, content string) {
	db.sourceCache.AddSource(filepath, content)
}

// Add adds a diagnostic to the bag
func (db *DiagnosticBag) Add(diag *Diagnostic) {
	db.mu.Lock()
	defer db.mu.Unlock()

	switch diag.Severity {
	case Error:
		db.errorCount++
		if db.maxErrors > 0 && db.errorCount > db.maxErrors {
			return
		}
	case Warning:
		db.warnCount++
	}
	if db.discard {
		return
	}
	db.diagnostics = append(db.diagnostics, diag)
}

// HasErrors returns true if there are any errors
func (db *DiagnosticBag) HasErrors() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount > 0
}

// ErrorCount returns the number of errors, including dropped ones
func (db *DiagnosticBag) ErrorCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.errorCount
}

// WarningCount returns the number of warnings
func (db *DiagnosticBag) WarningCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.warnCount
}

// Diagnostics returns a copy of all diagnostics in insertion order
func (db *DiagnosticBag) Diagnostics() []*Diagnostic {
	db.mu.Lock()
	defer db.mu.Unlock()
	result := make([]*Diagnostic, len(db.diagnostics))
	copy(result, db.diagnostics)
	return result
}

// Sorted returns the diagnostics ordered by file and primary position.
func (db *DiagnosticBag) Sorted() []*Diagnostic {
	out := db.Diagnostics()
	slices.SortStableFunc(out, func(a, b *Diagnostic) bool {
		la, lb := a.Location(), b.Location()
		if la.Filename != lb.Filename {
			return la.Filename < lb.Filename
		}
		return la.Start.Before(lb.Start)
	})
	return out
}

// Messages returns "code: message" strings, mostly for tests.
func (db *DiagnosticBag) Messages() []string {
	var out []string
	for _, d := range db.Diagnostics() {
		if d.Code != "" {
			out = append(out, d.Code+": "+d.Message)
		} else {
			out = append(out, d.Message)
		}
	}
	return out
}

// EmitTo renders every diagnostic followed by the summary line.
func (db *DiagnosticBag) EmitTo(w io.Writer) {
	emitter := &Emitter{cache: db.sourceCache, writer: w}
	for _, diag := range db.Sorted() {
		emitter.Emit(diag)
	}
	db.printSummary(w)
}

// EmitAllToString emits all diagnostics to a string (escapes only when the
// color mode is Always)
func (db *DiagnosticBag) EmitAllToString() string {
	var buf bytes.Buffer
	db.EmitTo(&buf)
	return buf.String()
}

func (db *DiagnosticBag) printSummary(w io.Writer) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.errorCount > 0 {
		colors.RED.Fprintf(w, checkFailedMsg, db.errorCount)
		if db.warnCount > 0 {
			colors.RED.Fprintf(w, andWarningMsg, db.warnCount)
		}
		fmt.Fprintln(w)
	} else if db.warnCount > 0 {
		colors.ORANGE.Fprintf(w, checkSuccessWithWarning, db.warnCount)
	}
}

// Clear removes all diagnostics
func (db *DiagnosticBag) Clear() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.diagnostics = nil
	db.errorCount = 0
	db.warnCount = 0
}
