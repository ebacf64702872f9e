// Package diagnostics implements the shared diagnostic sink that every
// pipeline stage (scanner, parser, interpreter) writes to and the driver
// reads (the parser also checks HadError to decide whether to return its
// statements), per spec.md §5/§7: a pair of sticky flags plus a stderr
// stream in the exact wire format `[line N] Error<where>: message`.
//
// The sink additionally carries an optional structured trace logger
// (SPEC_FULL.md §4.5), entirely separate from the stderr diagnostic
// protocol above: trace output is for developers running with
// LOXI_TRACE=1, never part of the language's user-facing contract, and
// is written through github.com/hashicorp/go-hclog rather than directly
// to stderr so it can be filtered, leveled, and silenced independently.
package diagnostics

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/kristofer/loxi/pkg/token"
)

// Sink is the process-wide diagnostic surface. A single Sink is shared
// by the scanner, parser, and interpreter for the duration of one run
// (one file execution, or one REPL session, reset between lines).
type Sink struct {
	out    io.Writer
	logger hclog.Logger

	hadError        bool
	hadRuntimeError bool
}

// New creates a Sink that writes error reports to out and trace logs
// through logger. A nil logger is replaced with hclog.NewNullLogger(),
// so callers that don't care about tracing can pass nil.
func New(out io.Writer, logger hclog.Logger) *Sink {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Sink{out: out, logger: logger}
}

// HadError reports whether a scan or parse error was recorded since the
// last Reset.
func (s *Sink) HadError() bool {
	return s.hadError
}

// HadRuntimeError reports whether a runtime error was recorded since the
// last Reset.
func (s *Sink) HadRuntimeError() bool {
	return s.hadRuntimeError
}

// Reset clears both sticky flags. The REPL driver calls this between
// lines so that a scan/parse error on one line doesn't stop later lines
// from being interpreted (spec.md §6).
func (s *Sink) Reset() {
	s.hadError = false
	s.hadRuntimeError = false
}

// Tracef writes a developer-facing trace line through the injected
// logger. It never touches hadError/hadRuntimeError and never writes to
// the stderr diagnostic stream — it is pure internal observability.
func (s *Sink) Tracef(format string, args ...interface{}) {
	s.logger.Trace(fmt.Sprintf(format, args...))
}

// ScannerError records a lexical error at the given source line. The
// `where` component of the report is always empty for scanner errors.
func (s *Sink) ScannerError(line int, message string) {
	s.hadError = true
	s.report(line, "", message)
}

// ParserError records a syntax error at the given token. The `where`
// component is " at end" for an Eof token and " at '<lexeme>'" otherwise.
func (s *Sink) ParserError(tok token.Token, message string) {
	s.hadError = true
	if tok.Kind == token.Eof {
		s.report(tok.Line, " at end", message)
	} else {
		s.report(tok.Line, fmt.Sprintf(" at '%s'", tok.Lexeme), message)
	}
}

// RuntimeError records a semantic-runtime error at the given token.
func (s *Sink) RuntimeError(tok token.Token, message string) {
	s.hadRuntimeError = true
	s.report(tok.Line, fmt.Sprintf(" at '%s'", tok.Lexeme), message)
}

// report writes one diagnostic line to stderr in the exact format
// spec.md §6 requires: `[line N] Error<where>: message`.
func (s *Sink) report(line int, where, message string) {
	fmt.Fprintf(s.out, "[line %d] Error%s: %s\n", line, where, message)
}
