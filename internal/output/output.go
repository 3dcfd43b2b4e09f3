// Package output provides consistent CLI status output for rarian's
// subcommands: status lines prefixed with an icon, written to the
// command's configured out stream.
package output

import (
	"fmt"
	"io"

	"github.com/mattn/go-isatty"
)

// Writer formats status messages for CLI output.
type Writer struct {
	out      io.Writer
	useColor bool
}

// fder matches *os.File without requiring one, so tests can pass a
// plain bytes.Buffer and get useColor=false.
type fder interface {
	Fd() uintptr
}

// New creates a Writer. Color is only considered (and currently only
// affects nothing beyond the useColor flag status commands may read)
// when out is a real terminal, detected the same way the teacher
// repo's UI package decides whether to colorize.
func New(out io.Writer) *Writer {
	useColor := false
	if f, ok := out.(fder); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Writer{out: out, useColor: useColor}
}

// UseColor reports whether this writer detected a color-capable terminal.
func (w *Writer) UseColor() bool {
	return w.useColor
}

// Status prints a status message with an icon, or indented plainly if
// icon is empty.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with a checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", msg)
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}
