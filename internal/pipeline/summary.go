package pipeline

import (
	"fmt"
	"io"

	"golang.org/x/exp/slices"

	"github.com/dimenus/Odin/colors"
	"github.com/dimenus/Odin/internal/semantics/symbols"
	"github.com/dimenus/Odin/internal/utils"
)

// ReportOptions selects what Report prints beyond diagnostics.
type ReportOptions struct {
	// Records lists every package-level entity with its type.
	Records bool
}

// Report writes each result's diagnostics, optional records and a final
// summary. It returns the number of failed units.
func Report(w io.Writer, results []*Result, opts ReportOptions) int {
	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
		if r.Err != nil {
			colors.BOLD_RED.Fprintf(w, "error: %v\n", r.Err)
			continue
		}
		r.Diagnostics.EmitTo(w)
		if opts.Records {
			writeRecords(w, r)
		}
	}
	PrintSummary(w, results)
	return failed
}

// PrintSummary prints one line per unit and a total.
func PrintSummary(w io.Writer, results []*Result) {
	fmt.Fprintln(w)
	colors.CYAN.Fprintln(w, "═══════════════════════════════════════")
	colors.CYAN.Fprintln(w, "          CHECK SUMMARY")
	colors.CYAN.Fprintln(w, "═══════════════════════════════════════")

	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			colors.RED.Fprintf(w, " ✗ %s (not loaded)\n", r.Path)
		case r.Diagnostics.HasErrors():
			failed++
			n := r.Diagnostics.ErrorCount()
			colors.RED.Fprintf(w, " ✗ %s (%d %s)\n", r.Path, n, utils.Pluralize("error", "errors", n))
		default:
			n := len(r.Unit.Packages)
			colors.GREEN.Fprintf(w, " ✓ %s (%d %s)\n", r.Path, n, utils.Pluralize("package", "packages", n))
		}
	}
	fmt.Fprintf(w, "Units: %d, failed: %d\n", len(results), failed)
}

// writeRecords lists the package-level entities of a checked unit in
// dependency order, then the generated instances, reflected types and
// runtime routines.
func writeRecords(w io.Writer, r *Result) {
	if r.Info == nil {
		return
	}
	for _, name := range r.Unit.Order() {
		pkg := r.Unit.Packages[name]
		colors.BOLD.Fprintf(w, "package %s\n", name)
		for _, e := range pkg.Scope.Entities() {
			fmt.Fprintf(w, "  %s\n", recordLine(e))
		}
	}
	if len(r.Info.Instances) > 0 {
		colors.BOLD.Fprintln(w, "instances")
		for _, e := range r.Info.Instances {
			fmt.Fprintf(w, "  %s\n", recordLine(e))
		}
	}
	if len(r.Info.Reflected) > 0 {
		names := make([]string, len(r.Info.Reflected))
		for i, t := range r.Info.Reflected {
			names[i] = t.String()
		}
		slices.Sort(names)
		colors.BOLD.Fprintln(w, "type info")
		for _, n := range names {
			fmt.Fprintf(w, "  %s\n", n)
		}
	}
	if deps := r.Info.SortedDeps(); len(deps) > 0 {
		colors.BOLD.Fprintln(w, "runtime")
		for _, d := range deps {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}

func recordLine(e *symbols.Entity) string {
	line := e.String()
	if e.Kind == symbols.EntityConstant && e.Value.IsValid() {
		line += " = " + e.Value.String()
	}
	return line
}
