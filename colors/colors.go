package colors

import (
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// COLOR is an ANSI escape prefix.
type COLOR string

const (
	RESET        COLOR = "\033[0m"
	RED          COLOR = "\033[31m"
	GREEN        COLOR = "\033[32m"
	YELLOW       COLOR = "\033[33m"
	BLUE         COLOR = "\033[34m"
	PURPLE       COLOR = "\033[35m"
	CYAN         COLOR = "\033[36m"
	WHITE        COLOR = "\033[37m"
	GREY         COLOR = "\033[90m"
	BOLD         COLOR = "\033[1m"
	BOLD_RED     COLOR = "\033[1;31m"
	BOLD_YELLOW  COLOR = "\033[1;33m"
	BOLD_BLUE    COLOR = "\033[1;34m"
	BOLD_PURPLE  COLOR = "\033[1;35m"
	BOLD_CYAN    COLOR = "\033[1;36m"
	ORANGE       COLOR = "\033[38;5;208m"
	LIGHT_ORANGE COLOR = "\033[38;5;215m"
)

// Mode selects when escapes are written.
type Mode int

const (
	Auto Mode = iota
	Always
	Never
)

// ParseMode maps the config spelling to a Mode. Unknown values fall back to Auto.
func ParseMode(s string) Mode {
	switch s {
	case "always":
		return Always
	case "never":
		return Never
	default:
		return Auto
	}
}

var mode atomic.Int32

// SetMode sets the process-wide color mode.
func SetMode(m Mode) {
	mode.Store(int32(m))
}

// Enabled reports whether escapes should be written to w.
func Enabled(w io.Writer) bool {
	switch Mode(mode.Load()) {
	case Always:
		return true
	case Never:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
