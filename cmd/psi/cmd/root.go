package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "psi",
	Short: "A PostScript (EPS, level 2 subset) interpreter",
	Long: `psi is a Go implementation of the PostScript execution engine described
in the PostScript Language Reference, level 2 subset: the lexer/scanner,
the typed object model, the operand/dictionary/execution stack trio, the
fetch-decode-execute loop, and its ~200-operator library.

Rendering, clipping, and text shaping are delegated to an abstract
graphics backend; without one, painting operators report
configurationerror but every data/control/stack operator still works.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
