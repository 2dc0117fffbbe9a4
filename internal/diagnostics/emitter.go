package diagnostics

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dimenus/Odin/colors"
)

const (
	STR_MULTIPLIER = "%*d | "
	LINE_POS       = "%s--> %s\n"
)

// SourceCache caches source file contents for error reporting
type SourceCache struct {
	files map[string][]string
}

func NewSourceCache() *SourceCache {
	return &SourceCache{files: make(map[string][]string)}
}

// AddSource registers in-memory content for filepath.
func (sc *SourceCache) AddSource(filepath, content string) {
	sc.files[filepath] = strings.Split(content, "\n")
}

// GetLine retrieves a specific line from a source file
func (sc *SourceCache) GetLine(filepath string, line int) (string, error) {
	lines, ok := sc.files[filepath]
	if !ok {
		file, err := os.Open(filepath)
		if err != nil {
			return "", err
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return "", err
		}
		sc.files[filepath] = lines
	}
	if line > 0 && line <= len(lines) {
		return lines[line-1], nil
	}
	return "", fmt.Errorf("line %d out of range", line)
}

// Emitter handles the rendering and output of diagnostics
type Emitter struct {
	cache  *SourceCache
	writer io.Writer
}

// NewEmitter creates an emitter that writes to a specific writer
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{cache: NewSourceCache(), writer: w}
}

func severityColor(s Severity) colors.COLOR {
	switch s {
	case Warning:
		return colors.BOLD_YELLOW
	case Info:
		return colors.BOLD_CYAN
	case Hint:
		return colors.BOLD_PURPLE
	default:
		return colors.BOLD_RED
	}
}

func (e *Emitter) Emit(diag *Diagnostic) {
	e.printHeader(diag)
	for _, label := range diag.Labels {
		e.printLabel(label, diag.Severity)
	}
	for _, note := range diag.Notes {
		fmt.Fprint(e.writer, "  = ")
		colors.CYAN.Fprint(e.writer, "note")
		fmt.Fprintf(e.writer, ": %s\n", note.Message)
	}
	if diag.Help != "" {
		fmt.Fprint(e.writer, "  = ")
		colors.GREEN.Fprint(e.writer, "help")
		fmt.Fprintf(e.writer, ": %s\n", diag.Help)
	}
	fmt.Fprintln(e.writer)
}

func (e *Emitter) printHeader(diag *Diagnostic) {
	color := severityColor(diag.Severity)
	color.Fprint(e.writer, diag.Severity.String())
	if diag.Code != "" {
		fmt.Fprintf(e.writer, "[%s]", diag.Code)
	}
	fmt.Fprint(e.writer, ": ")
	color.Fprintln(e.writer, diag.Message)
}

func (e *Emitter) printLabel(label Label, severity Severity) {
	loc := label.Location
	if !loc.IsValid() {
		return
	}
	width := len(fmt.Sprintf("%d", loc.Start.Line))
	colors.BLUE.Fprintf(e.writer, LINE_POS, strings.Repeat(" ", width), loc.String())

	line, err := e.cache.GetLine(loc.Filename, loc.Start.Line)
	if err != nil {
		if label.Message != "" {
			fmt.Fprintf(e.writer, "%s   %s\n", strings.Repeat(" ", width), label.Message)
		}
		return
	}
	colors.GREY.Fprintf(e.writer, STR_MULTIPLIER, width, loc.Start.Line)
	fmt.Fprintln(e.writer, line)

	// caret column is measured in cells so wide runes line up
	padding := 0
	if loc.Start.Column > 1 && loc.Start.Column-1 <= len(line) {
		padding = colors.Width(line[:loc.Start.Column-1])
	}
	length := 1
	if loc.End.Line == loc.Start.Line && loc.End.Column > loc.Start.Column {
		length = loc.End.Column - loc.Start.Column
	}

	underline := strings.Repeat("-", length)
	color := colors.BLUE
	if label.Style == Primary {
		underline = strings.Repeat("^", length)
		color = severityColor(severity)
	}
	fmt.Fprint(e.writer, strings.Repeat(" ", width))
	colors.GREY.Fprint(e.writer, " | ")
	fmt.Fprint(e.writer, strings.Repeat(" ", padding))
	color.Fprint(e.writer, underline)
	if label.Message != "" {
		color.Fprintf(e.writer, " %s", label.Message)
	}
	fmt.Fprintln(e.writer)
}
