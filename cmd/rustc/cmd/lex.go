package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex",
	Short: "Tokenize standard input and print the token stream",
	Long: `lex reads a program from standard input, runs the preprocessor
and lexer, and prints one line per token to standard output. It stops
before parsing; useful for inspecting how source text is tokenized.`,
	RunE:         runLex,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	rep := errors.NewReporter()

	pp, err := lexer.Preprocess(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}

	tokens, lexErrs := lexer.New(pp).Lex()
	lexErrorsToReporter(rep, lexErrs)
	printTokens(os.Stdout, tokens)
	emitDiagnostics(os.Stderr, rep)
	if rep.HasErrors() {
		return fmt.Errorf("lexing failed")
	}
	return nil
}
