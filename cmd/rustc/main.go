// Command rustc reads a Rust-subset program from standard input and writes
// LLVM textual IR to standard output.
package main

import (
	"os"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/cmd/rustc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
