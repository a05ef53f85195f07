// Command psi is the reference CLI for the PostScript interpreter core
// (internal/interp), the teacher's cmd/dwscript shell redirected at EPS
// source instead of DWScript source. It feeds source to an
// internal/interp.Interpreter and wires a CLI-facing error formatter
// around whatever surfaces uncaught.
package main

import (
	"os"

	"github.com/cwbudde/go-postscript/cmd/psi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
