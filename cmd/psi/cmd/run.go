package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-postscript/internal/errors"
	"github.com/cwbudde/go-postscript/pkg/postscript"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	trace    bool
	showBBox bool
	maxSteps int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a PostScript/EPS file or expression",
	Long: `Execute a PostScript program from a file or inline expression.

Examples:
  # Run an EPS file
  psi run figure.eps

  # Evaluate an inline expression
  psi run -e "1 2 add ="

  # Run with an execution trace
  psi run --trace figure.eps

  # Print the EPS bounding box before running
  psi run --show-bbox figure.eps`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "run inline code instead of reading from file")
	runCmd.Flags().BoolVar(&trace, "trace", false, "trace execution (one line per fetch-loop step)")
	runCmd.Flags().BoolVar(&showBBox, "show-bbox", false, "print the EPS %%BoundingBox before running")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "override the fetch-loop step budget (0 = default)")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	opts := []postscript.Option{postscript.WithOutput(os.Stdout)}
	if trace {
		opts = append(opts, postscript.WithTrace(os.Stderr))
	}
	if maxSteps > 0 {
		opts = append(opts, postscript.WithMaxSteps(maxSteps))
	}

	engine := postscript.New(opts...)

	if showBBox {
		if bb, ok := postscript.BoundingBoxOf(input); ok {
			fmt.Fprintf(os.Stderr, "%%%%BoundingBox: %d %d %d %d\n",
				bb.LowerLeftX, bb.LowerLeftY, bb.UpperRightX, bb.UpperRightY)
		} else if verbose {
			fmt.Fprintln(os.Stderr, "no %%BoundingBox found")
		}
	}

	_, runErr := engine.Run(input)
	if runErr == nil {
		return nil
	}

	var psErr *postscript.Error
	if as, ok := runErr.(*postscript.Error); ok {
		psErr = as
	}
	if psErr == nil {
		return runErr
	}

	source := errors.NewSourceError(psErr.Err, input, filename)
	errors.PrintToStderr(source)
	return fmt.Errorf("execution failed: %s", psErr.Name())
}

// readSource resolves the -e flag and a single positional file argument
// into source text, the same "either -e or a file path" contract the
// teacher's run/lex commands share.
func readSource(eval string, args []string) (input, filename string, err error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		content, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], readErr)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}
