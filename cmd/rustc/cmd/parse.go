package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse standard input and print the AST",
	Long: `parse reads a program from standard input, runs the preprocessor,
lexer, and parser, and prints a bracketed listing of the resulting AST to
standard output. It stops before name resolution; useful for inspecting
parser output in isolation from the rest of the pipeline.`,
	RunE:         runParse,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	rep := errors.NewReporter()

	pp, err := lexer.Preprocess(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}

	tokens, lexErrs := lexer.New(pp).Lex()
	lexErrorsToReporter(rep, lexErrs)
	if rep.HasErrors() {
		emitDiagnostics(os.Stderr, rep)
		return fmt.Errorf("lexing failed")
	}

	prog := parser.ParseProgram(tokens, rep)
	if prog != nil {
		fmt.Fprintln(os.Stdout, prog.String())
	}
	emitDiagnostics(os.Stderr, rep)
	if rep.HasErrors() || prog == nil {
		return fmt.Errorf("parsing failed")
	}
	return nil
}
