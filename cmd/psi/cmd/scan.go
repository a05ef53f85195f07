package cmd

import (
	"fmt"

	"github.com/cwbudde/go-postscript/internal/psscan"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Print the DSC header metadata of an EPS file",
	Long: `Walk the leading %%-comment block of a PostScript/EPS file (stopping at
%%EndComments) and print the DSC pragmas it carries: %%BoundingBox plus the
inert %%Title/%%Creator/%%CreationDate/%%Pages/%%For fields.

This does not run the program; it is the same read-only pre-scan the
interpreter performs before execution to size a graphics backend.

Example:
  psi scan figure.eps`,
	Args: cobra.MaximumNArgs(1),
	RunE: scanFile,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "scan inline code instead of reading from file")
}

func scanFile(_ *cobra.Command, args []string) error {
	input, _, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	md := psscan.ScanMetadata(input)
	if md.HasBoundingBox {
		bb := md.BoundingBox
		fmt.Printf("%%%%BoundingBox: %d %d %d %d\n", bb.LowerLeftX, bb.LowerLeftY, bb.UpperRightX, bb.UpperRightY)
	} else {
		fmt.Println("%%BoundingBox: (none)")
	}
	printIfSet("%%Title", md.Title)
	printIfSet("%%Creator", md.Creator)
	printIfSet("%%CreationDate", md.CreationDate)
	printIfSet("%%Pages", md.Pages)
	printIfSet("%%For", md.For)
	return nil
}

func printIfSet(pragma, value string) {
	if value != "" {
		fmt.Printf("%s: %s\n", pragma, value)
	}
}
