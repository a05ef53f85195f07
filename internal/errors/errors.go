// Package errors formats pserror.Error values for terminal display: a
// file/line/column header, the offending source line with a caret, and the
// PLRM error name and detail, with ANSI color applied only when the output
// is a real terminal. It is the CLI-facing counterpart to internal/pserror,
// which only carries structured data and never touches formatting or color.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-postscript/internal/pserror"
)

// SourceError pairs a pserror.Error with the program source it faulted in,
// so Format can recover the offending line the same way the teacher's
// CompilerError recovers a DWScript source line from a lexer.Position.
type SourceError struct {
	Err    *pserror.Error
	Source string
	File   string
}

// NewSourceError wraps a raw interpreter error with the source text it was
// run against, for later formatting.
func NewSourceError(err *pserror.Error, source, file string) *SourceError {
	return &SourceError{Err: err, Source: source, File: file}
}

func (e *SourceError) Error() string { return e.Format(false) }

// location names where the fault occurred, for the header line: the file
// name when one was given (`psi run -e` passes `<eval>`), or a generic
// placeholder when the file name is empty, so the header is always one shape
// rather than branching between a file and a no-file sentence.
func (e *SourceError) location() string {
	if e.File != "" {
		return e.File
	}
	return "<postscript>"
}

// Format renders the error with source context: a single-line location
// header, the offending source line annotated with a caret under the
// faulting column, and the PLRM error name/operator/detail. Color, when
// requested, picks out the gutter and the error name.
func (e *SourceError) Format(color bool) string {
	paint := func(code, text string) string {
		if !color {
			return text
		}
		return code + text + "\033[0m"
	}

	var sb strings.Builder
	if e.Err.At.Valid {
		fmt.Fprintf(&sb, "%s (line %d, col %d)\n", e.location(), e.Err.At.Line, e.Err.At.Column)
	} else {
		fmt.Fprintf(&sb, "%s\n", e.location())
	}

	if line, ok := e.sourceLine(e.Err.At); ok {
		gutter := fmt.Sprintf("%d", e.Err.At.Line)
		sb.WriteString(paint("\033[36m", gutter))
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat(" ", len(gutter)+2))
		sb.WriteString(caretPad(line, e.Err.At.Column))
		sb.WriteString(paint("\033[1;31m", "^"))
		sb.WriteByte('\n')
	}

	msg := string(e.Err.ErrorName)
	if e.Err.Op != "" {
		msg += " (" + e.Err.Op + ")"
	}
	if e.Err.Detail != "" {
		msg += ": " + e.Err.Detail
	}
	sb.WriteString(paint("\033[1m", msg))

	return sb.String()
}

// caretPad builds the run of spaces preceding the caret by walking the
// source line rune by rune up to the faulting column, rather than
// assuming one space per byte — a tab or multi-byte rune before the
// fault still lines the caret up under plain ASCII columns.
func caretPad(line string, col int) string {
	var pad strings.Builder
	i := 0
	for _, r := range line {
		i++
		if i >= col {
			break
		}
		if r == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	return pad.String()
}

// sourceLine resolves a span position to its 1-indexed source line. ok is
// false when the position is invalid or the source text is unavailable
// (e.g. an error raised before any source was scanned).
func (e *SourceError) sourceLine(at pserror.Span) (string, bool) {
	if !at.Valid || e.Source == "" || at.Line < 1 {
		return "", false
	}
	lines := strings.Split(e.Source, "\n")
	if at.Line > len(lines) {
		return "", false
	}
	return lines[at.Line-1], true
}
