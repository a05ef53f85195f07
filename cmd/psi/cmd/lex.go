package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-postscript/internal/pslex"
	"github.com/spf13/cobra"
)

var (
	showPos  bool
	showKind bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a PostScript file or expression",
	Long: `Tokenize (lex) a PostScript program and print the resulting tokens.

This is useful for debugging the lexer and understanding how PostScript
source is split into Number/Name/String/delimiter tokens.

Examples:
  # Tokenize a file
  psi lex figure.eps

  # Tokenize an inline expression
  psi lex -e "/x 10 def x x mul"

  # Show token kind and position
  psi lex --show-kind --show-pos figure.eps`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showKind, "show-kind", false, "show token kind names")
}

func lexScript(_ *cobra.Command, args []string) error {
	input, _, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	lex := pslex.New(input)
	count := 0
	for {
		tok := lex.Next()
		if tok.Kind == pslex.EOF {
			break
		}
		count++
		printToken(tok)
		if tok.Kind == pslex.Illegal {
			return fmt.Errorf("syntax error at %d:%d", tok.Span.From.Line, tok.Span.From.Column)
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "%d token(s)\n", count)
	}
	return nil
}

func printToken(tok pslex.Token) {
	var out string
	if showKind {
		out = fmt.Sprintf("[%-14s]", tok.Kind)
	}
	if tok.Content == "" {
		out += fmt.Sprintf(" %s", tok.Kind)
	} else {
		out += fmt.Sprintf(" %q", tok.Content)
	}
	if showPos {
		out += fmt.Sprintf(" @%d:%d", tok.Span.From.Line, tok.Span.From.Column)
	}
	fmt.Println(out)
}
