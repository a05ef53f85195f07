package errors

import (
	"testing"

	"github.com/cwbudde/go-postscript/internal/pserror"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestFormatSnapshots pins the exact text a host sees for a handful of
// representative faults, the same go-snaps golden-file convention the
// teacher uses over its fixture output (internal/interp/fixture_test.go).
func TestFormatSnapshots(t *testing.T) {
	cases := []struct {
		name string
		src  *SourceError
	}{
		{
			name: "undefined_name",
			src: NewSourceError(
				pserror.New(pserror.Undefined, "", "name not found on dictionary stack").WithSpan(1, 1),
				"nosuchname\n", "figure.eps"),
		},
		{
			name: "divide_by_zero",
			src: NewSourceError(
				pserror.New(pserror.UndefinedResult, "div", "division by zero").WithSpan(2, 12),
				"1 2 add\n1 2 add 0 div\n", "figure.eps"),
		},
		{
			name: "no_span",
			src:  NewSourceError(pserror.New(pserror.Timeout, "", "execution step budget exceeded"), "", ""),
		},
	}

	for _, c := range cases {
		snaps.MatchSnapshot(t, c.name, c.src.Format(false))
	}
}
