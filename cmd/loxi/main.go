// Command loxi is the CLI driver for the Language: a REPL when invoked
// with no arguments, a batch runner when given exactly one file path,
// and a usage error for anything else, per spec.md §6.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"

	"github.com/kristofer/loxi/pkg/diagnostics"
	"github.com/kristofer/loxi/pkg/interpreter"
	"github.com/kristofer/loxi/pkg/parser"
	"github.com/kristofer/loxi/pkg/scanner"
)

const (
	exitUsage   = 64
	exitSyntax  = 65
	exitRuntime = 70
)

func main() {
	switch len(os.Args) {
	case 1:
		runPrompt()
	case 2:
		runFile(os.Args[1])
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [optional script]\n", progName())
		os.Exit(exitUsage)
	}
}

func progName() string {
	if len(os.Args) == 0 {
		return "loxi"
	}
	return os.Args[0]
}

// newLogger builds the trace logger wired from LOXI_TRACE (SPEC_FULL.md
// §4.5). Unset or empty disables tracing entirely via a null logger.
func newLogger() hclog.Logger {
	if os.Getenv("LOXI_TRACE") == "" {
		return hclog.NewNullLogger()
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:  "loxi",
		Level: hclog.Trace,
	})
}

// runFile reads path and runs it as one batch program, exiting with the
// status spec.md §6 assigns to whatever happened.
func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, errors.Wrapf(err, "reading %s", path))
		os.Exit(exitRuntime)
	}

	sink := diagnostics.New(os.Stderr, newLogger())
	interp := interpreter.New(os.Stdout, sink)
	run(string(source), sink, interp)

	if sink.HadError() {
		os.Exit(exitSyntax)
	}
	if sink.HadRuntimeError() {
		os.Exit(exitRuntime)
	}
}

// runPrompt is the interactive REPL: one program per input line, read
// until a line reading exactly "quit" or EOF. had_error resets between
// lines; had_runtime_error is never consulted for exit status here
// (spec.md §6).
func runPrompt() {
	sink := diagnostics.New(os.Stderr, newLogger())
	interp := interpreter.New(os.Stdout, sink)

	input := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !input.Scan() {
			fmt.Println()
			return
		}
		line := input.Text()
		if line == "quit" {
			return
		}

		run(line, sink, interp)
		sink.Reset()
	}
}

// run scans, parses, and (if no scan/parse error occurred) interprets
// one program's worth of source, against the shared sink and
// interpreter passed in by the caller.
func run(source string, sink *diagnostics.Sink, interp *interpreter.Interpreter) {
	sc := scanner.New(source, sink)
	tokens := sc.ScanTokens()

	p := parser.New(tokens, sink)
	statements := p.Parse()

	if sink.HadError() {
		return
	}

	interp.Interpret(statements)
}
