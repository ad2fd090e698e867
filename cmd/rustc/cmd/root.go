package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rustc",
	Short: "Rust-subset to LLVM IR compiler",
	Long: `rustc compiles a small, statically typed subset of Rust to LLVM
textual IR.

The subset covers functions, structs, enums with payloads, arrays, impl
blocks with methods and associated functions, match/if/while/loop control
flow, and a handful of built-in I/O intrinsics. Generics, traits, lifetimes,
borrow checking, floating point, Unicode identifiers, and macros are out of
scope.

Invoked with no subcommand, rustc runs the full pipeline: it reads source
from standard input and writes IR to standard output, exactly like the
"compile" subcommand.`,
	Version:      Version,
	RunE:         runCompile,
	SilenceUsage: true,
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

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
