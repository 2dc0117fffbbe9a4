package colors

import (
	"fmt"
	"io"

	"github.com/charmbracelet/x/ansi"
)

func (c COLOR) wrap(w io.Writer, s string) string {
	if !Enabled(w) {
		return s
	}
	return string(c) + s + string(RESET)
}

// Fprintf writes a colored formatted string to w. Color is dropped when w is
// not a terminal (unless the mode is Always).
func (c COLOR) Fprintf(w io.Writer, format string, args ...any) {
	fmt.Fprint(w, c.wrap(w, fmt.Sprintf(format, args...)))
}

func (c COLOR) Fprintln(w io.Writer, args ...any) {
	fmt.Fprintln(w, c.wrap(w, fmt.Sprint(args...)))
}

func (c COLOR) Fprint(w io.Writer, args ...any) {
	fmt.Fprint(w, c.wrap(w, fmt.Sprint(args...)))
}

// Sprintf always colors; callers decide whether the result reaches a terminal.
func (c COLOR) Sprintf(format string, args ...any) string {
	return string(c) + fmt.Sprintf(format, args...) + string(RESET)
}

func (c COLOR) Sprint(args ...any) string {
	return string(c) + fmt.Sprint(args...) + string(RESET)
}

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// Width is the printable cell width of s, ignoring escapes.
func Width(s string) int {
	return ansi.StringWidth(s)
}
