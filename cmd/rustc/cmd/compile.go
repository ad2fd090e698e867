package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ir"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/parser"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/semantic"
)

var (
	dumpTokens        bool
	dumpAST           bool
	emitStage         string
	diagnosticsFormat string
	astFormat         string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Run the full pipeline and emit LLVM IR",
	Long: `compile reads a program from standard input, runs every pipeline
stage (preprocess, lex, parse, resolve names, resolve types, check types,
generate IR) and writes the resulting LLVM textual IR to standard output.

Diagnostics from whichever stage fails first are written to standard error
and the process exits non-zero; nothing is written to standard output in
that case.`,
	RunE:         runCompile,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	for _, c := range []*cobra.Command{rootCmd, compileCmd} {
		c.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "also print the token stream to stderr")
		c.Flags().BoolVar(&dumpAST, "dump-ast", false, "also print the parsed AST to stderr")
		c.Flags().StringVar(&emitStage, "emit", "ir", "what to write to stdout: ir, tokens, or ast")
		c.Flags().StringVar(&diagnosticsFormat, "diagnostics-format", "text", "diagnostic output format: text or yaml")
		c.Flags().StringVar(&astFormat, "ast-format", "text", "format for --emit=ast: text or json")
	}
}

// yamlDiagnostic is the structured form of errors.Diagnostic emitted when
// --diagnostics-format=yaml is requested, for editor tooling that wants to
// parse positions and kinds rather than a rendered sentence.
type yamlDiagnostic struct {
	Kind     string `yaml:"kind"`
	Severity string `yaml:"severity"`
	Line     int    `yaml:"line,omitempty"`
	Column   int    `yaml:"column,omitempty"`
	Message  string `yaml:"message"`
}

func emitDiagnostics(w io.Writer, rep *errors.Reporter) {
	if diagnosticsFormat != "yaml" {
		rep.Emit(w)
		return
	}
	var out []yamlDiagnostic
	for _, d := range rep.Diagnostics() {
		sev := "error"
		if d.Severity == errors.SeverityWarning {
			sev = "warning"
		}
		yd := yamlDiagnostic{Kind: string(d.Kind), Severity: sev, Message: d.Message}
		if d.HasPos {
			yd.Line, yd.Column = d.Pos.Line, d.Pos.Column
		}
		out = append(out, yd)
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		fmt.Fprintln(w, "failed to marshal diagnostics as yaml:", err)
		return
	}
	w.Write(data)
}

// lexErrorsToReporter folds the lexer's own []error slice into rep, since
// the lexer predates the shared Reporter and still returns bare errors.
func lexErrorsToReporter(rep *errors.Reporter, lexErrs []error) {
	for _, e := range lexErrs {
		if le, ok := e.(*lexer.Error); ok {
			rep.Errorf(errors.LexError, le.Pos, "%s", le.Message)
		} else {
			rep.IOErrorf("%s", e.Error())
		}
	}
}

func printTokens(w io.Writer, tokens []lexer.Token) {
	for _, t := range tokens {
		fmt.Fprintln(w, t.String())
	}
}

func runCompile(cmd *cobra.Command, args []string) error {
	rep := errors.NewReporter()

	pp, err := lexer.Preprocess(os.Stdin)
	if err != nil {
		rep.IOErrorf("%s", err.Error())
		emitDiagnostics(os.Stderr, rep)
		return err
	}

	tokens, lexErrs := lexer.New(pp).Lex()
	lexErrorsToReporter(rep, lexErrs)
	if dumpTokens {
		printTokens(os.Stderr, tokens)
	}
	if emitStage == "tokens" {
		if !rep.HasErrors() {
			printTokens(os.Stdout, tokens)
		}
		emitDiagnostics(os.Stderr, rep)
		if rep.HasErrors() {
			return fmt.Errorf("lexing failed")
		}
		return nil
	}
	if rep.HasErrors() {
		emitDiagnostics(os.Stderr, rep)
		return fmt.Errorf("lexing failed")
	}

	prog := parser.ParseProgram(tokens, rep)
	if dumpAST && prog != nil {
		fmt.Fprintln(os.Stderr, prog.String())
	}
	if emitStage == "ast" {
		if !rep.HasErrors() && prog != nil {
			if astFormat == "json" {
				encoded, err := astToJSON(prog)
				if err != nil {
					return fmt.Errorf("encoding AST as json: %w", err)
				}
				fmt.Fprintln(os.Stdout, encoded)
			} else {
				fmt.Fprintln(os.Stdout, prog.String())
			}
		}
		emitDiagnostics(os.Stderr, rep)
		if rep.HasErrors() || prog == nil {
			return fmt.Errorf("parsing failed")
		}
		return nil
	}
	if prog == nil || rep.HasErrors() {
		emitDiagnostics(os.Stderr, rep)
		return fmt.Errorf("parsing failed")
	}

	ctx := semantic.Analyze(prog, rep)
	if rep.HasErrors() {
		emitDiagnostics(os.Stderr, rep)
		return fmt.Errorf("semantic analysis failed")
	}

	module := ir.Generate(prog, ctx)
	if rep.HasErrors() {
		emitDiagnostics(os.Stderr, rep)
		return fmt.Errorf("IR generation failed")
	}

	fmt.Fprint(os.Stdout, module)
	emitDiagnostics(os.Stderr, rep)
	return nil
}
