// Package test holds end-to-end scenario tests that drive the full
// scanner -> parser -> interpreter pipeline the way cmd/loxi does,
// checking stdout, the stderr diagnostics, and the exit status cmd/loxi
// would choose.
package test

import (
	"bytes"
	"testing"

	"github.com/kristofer/loxi/pkg/diagnostics"
	"github.com/kristofer/loxi/pkg/interpreter"
	"github.com/kristofer/loxi/pkg/parser"
	"github.com/kristofer/loxi/pkg/scanner"
)

type result struct {
	stdout          string
	stderr          string
	hadError        bool
	hadRuntimeError bool
}

func runProgram(source string) result {
	var out, err bytes.Buffer
	sink := diagnostics.New(&err, nil)

	toks := scanner.New(source, sink).ScanTokens()
	stmts := parser.New(toks, sink).Parse()
	if !sink.HadError() {
		interpreter.New(&out, sink).Interpret(stmts)
	}

	return result{
		stdout:          out.String(),
		stderr:          err.String(),
		hadError:        sink.HadError(),
		hadRuntimeError: sink.HadRuntimeError(),
	}
}

// exitCode mirrors cmd/loxi's status mapping (spec.md §6) from a result.
func (r result) exitCode() int {
	if r.hadError {
		return 65
	}
	if r.hadRuntimeError {
		return 70
	}
	return 0
}

func TestScenarioS1_ArithmeticPrecedence(t *testing.T) {
	r := runProgram(`print 1 + 2 * 3;`)
	if r.stdout != "7\n" {
		t.Errorf("stdout = %q, want %q", r.stdout, "7\n")
	}
	if r.exitCode() != 0 {
		t.Errorf("exit = %d, want 0", r.exitCode())
	}
}

func TestScenarioS2_VariablesAndAddition(t *testing.T) {
	r := runProgram(`
var a = 1;
var b = 2;
print a + b;
`)
	if r.stdout != "3\n" {
		t.Errorf("stdout = %q, want %q", r.stdout, "3\n")
	}
	if r.exitCode() != 0 {
		t.Errorf("exit = %d, want 0", r.exitCode())
	}
}

func TestScenarioS3_BlockShadowing(t *testing.T) {
	r := runProgram(`
var a = "hi";
{ var a = "bye"; print a; }
print a;
`)
	if r.stdout != "bye\nhi\n" {
		t.Errorf("stdout = %q, want %q", r.stdout, "bye\nhi\n")
	}
	if r.exitCode() != 0 {
		t.Errorf("exit = %d, want 0", r.exitCode())
	}
}

func TestScenarioS4_WhileLoop(t *testing.T) {
	r := runProgram(`
var i = 0;
while (i < 3) { print i; i = i + 1; }
`)
	if r.stdout != "0\n1\n2\n" {
		t.Errorf("stdout = %q, want %q", r.stdout, "0\n1\n2\n")
	}
	if r.exitCode() != 0 {
		t.Errorf("exit = %d, want 0", r.exitCode())
	}
}

func TestScenarioS5_ForLoop(t *testing.T) {
	r := runProgram(`for (var i = 0; i < 2; i = i + 1) print i;`)
	if r.stdout != "0\n1\n" {
		t.Errorf("stdout = %q, want %q", r.stdout, "0\n1\n")
	}
	if r.exitCode() != 0 {
		t.Errorf("exit = %d, want 0", r.exitCode())
	}
}

func TestScenarioS6_DivideByZero(t *testing.T) {
	r := runProgram(`print 1 / 0;`)
	if !bytes.Contains([]byte(r.stderr), []byte("Can't divide by 0")) {
		t.Errorf("stderr = %q, want it to contain %q", r.stderr, "Can't divide by 0")
	}
	if r.exitCode() != 70 {
		t.Errorf("exit = %d, want 70", r.exitCode())
	}
}

func TestBoundary_UnterminatedStringAtEOF(t *testing.T) {
	r := runProgram(`print "unterminated;`)
	if !bytes.Contains([]byte(r.stderr), []byte("Undetermined String")) {
		t.Errorf("stderr = %q, want it to contain %q", r.stderr, "Undetermined String")
	}
	if r.exitCode() != 65 {
		t.Errorf("exit = %d, want 65", r.exitCode())
	}
}

func TestBoundary_UnclosedGrouping(t *testing.T) {
	r := runProgram(`print (1+2;`)
	if !bytes.Contains([]byte(r.stderr), []byte("Expect ')' after expression.")) {
		t.Errorf("stderr = %q, want it to contain %q", r.stderr, "Expect ')' after expression.")
	}
	if r.exitCode() != 65 {
		t.Errorf("exit = %d, want 65", r.exitCode())
	}
}

func TestBoundary_NumberThenStringConcatenation(t *testing.T) {
	r := runProgram(`print 1 + "a";`)
	if r.stdout != "1a\n" {
		t.Errorf("stdout = %q, want %q", r.stdout, "1a\n")
	}
}

func TestBoundary_StringThenNumberConcatenation(t *testing.T) {
	r := runProgram(`print "a" + 1;`)
	if r.stdout != "a1\n" {
		t.Errorf("stdout = %q, want %q", r.stdout, "a1\n")
	}
}

func TestBoundary_UndefinedVariable(t *testing.T) {
	r := runProgram(`print x;`)
	if !bytes.Contains([]byte(r.stderr), []byte("Undefined variable x.")) {
		t.Errorf("stderr = %q, want it to contain %q", r.stderr, "Undefined variable x.")
	}
	if r.exitCode() != 70 {
		t.Errorf("exit = %d, want 70", r.exitCode())
	}
}

func TestBoundary_PrintNilPrintsNill(t *testing.T) {
	r := runProgram(`print nil;`)
	if r.stdout != "nill\n" {
		t.Errorf("stdout = %q, want %q", r.stdout, "nill\n")
	}
}
