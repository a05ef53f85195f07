package postscript

import (
	"github.com/cwbudde/go-postscript/internal/errors"
	"github.com/cwbudde/go-postscript/internal/pserror"
)

// Error is the error type every failing Engine.Run call returns: the
// structured PLRM error name/detail plus the source text it faulted
// against, so a host can print a formatted source-line diagnostic the same
// way internal/errors.SourceError does for the CLI.
type Error struct {
	Err    *pserror.Error
	Source string
}

func (e *Error) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying *pserror.Error for errors.As/errors.Is,
// e.g. errors.Is(err, pserror.Named(pserror.Undefined)).
func (e *Error) Unwrap() error { return e.Err }

// Name returns the PLRM error name (spec.md §7) this failure classifies
// into, e.g. "undefined" or "timeout".
func (e *Error) Name() pserror.Name { return e.Err.ErrorName }

// Format renders a source-line diagnostic, colorized when color is true,
// via the CLI-facing formatter in internal/errors.
func (e *Error) Format(color bool) string {
	return errors.NewSourceError(e.Err, e.Source, "").Format(color)
}
