// Command anilang is the language's CLI: it runs scripts, compiles them
// to syntax-tree archives, starts the REPL, and executes conformance
// suites.
package main

import (
	"fmt"
	"os"

	"anilang/interpreter-go/pkg/diag"
	"anilang/interpreter-go/pkg/source"
)

const version = "anilang 0.5.0"

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if run, ok := err.(*scriptError); ok && run.src != nil {
			diag.NewRenderer(os.Stderr).Render(run.src, run.err)
		} else {
			fmt.Fprintf(os.Stderr, "anilang: %v\n", err)
		}
		os.Exit(1)
	}
}

// scriptError wraps a lex, parse, or runtime failure together with the
// source it came from, so main can render the excerpt and caret.
type scriptError struct {
	src *source.SourceText
	err error
}

func (e *scriptError) Error() string { return e.err.Error() }

func (e *scriptError) Unwrap() error { return e.err }
