package errors

import (
	"os"

	"golang.org/x/term"
)

// StderrIsTerminal reports whether stderr is attached to a real terminal,
// the same color-on-tty-only gate the teacher's CLI applies before calling
// Format(true).
func StderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// PrintToStderr writes e's formatted form to stderr, colorized only when
// stderr is a terminal.
func PrintToStderr(e *SourceError) {
	os.Stderr.WriteString(e.Format(StderrIsTerminal()))
	os.Stderr.WriteString("\n")
}
