// Package interpreter implements the tree-walking evaluator for the
// Language: it executes statements and computes expression values
// directly from the AST, writing print output to an injected writer and
// runtime diagnostics to the shared sink, per spec.md §4.4.
//
// Evaluation Model:
//
// Every expression evaluation returns an (token.Literal, ok) pair rather
// than a bare value. ok is false exactly when evaluation failed and an
// error was already reported to the sink — spec.md §9 calls this
// "optional value" propagation: an operator that receives a failed
// operand must itself fail silently (no secondary error) and propagate
// the failure upward. This mirrors the source's own short-circuit-on-
// error discipline without needing a Go error return on every call.
//
// Statement execution instead returns a single bool: true means
// "continue to the next statement", false means a runtime error already
// aborted this statement and the caller's own statement should also be
// abandoned (the driver then moves on to the next top-level statement,
// matching the REPL-tolerant propagation policy in spec.md §7).
package interpreter

import (
	"io"

	"github.com/kristofer/loxi/pkg/ast"
	"github.com/kristofer/loxi/pkg/diagnostics"
	"github.com/kristofer/loxi/pkg/environment"
	"github.com/kristofer/loxi/pkg/token"
)

// Interpreter holds the state of one evaluation: the current scope and
// where `print` output goes.
type Interpreter struct {
	env  *environment.Environment
	out  io.Writer
	sink *diagnostics.Sink
}

// New creates an interpreter with a fresh global scope, writing `print`
// output to out and runtime diagnostics to sink.
func New(out io.Writer, sink *diagnostics.Sink) *Interpreter {
	return &Interpreter{
		env:  environment.New(nil),
		out:  out,
		sink: sink,
	}
}

// Interpret executes a program's statements in order. A runtime error
// aborts the statement it occurred in; execution then continues with
// the next top-level statement, matching the evaluator's REPL-tolerant
// propagation policy (spec.md §7).
func (in *Interpreter) Interpret(statements []ast.Statement) {
	for _, stmt := range statements {
		in.execute(stmt)
	}
}

// execute runs one statement. Its bool result is consumed only by
// constructs (block, if, while) that must stop early on a runtime
// error inside them; Interpret itself always moves on regardless.
func (in *Interpreter) execute(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, ok := in.evaluate(s.Expression)
		return ok
	case *ast.PrintStmt:
		return in.executePrint(s)
	case *ast.VarStmt:
		return in.executeVar(s)
	case *ast.BlockStmt:
		return in.executeBlock(s.Statements, environment.New(in.env))
	case *ast.IfStmt:
		return in.executeIf(s)
	case *ast.WhileStmt:
		return in.executeWhile(s)
	default:
		return false
	}
}

func (in *Interpreter) executePrint(s *ast.PrintStmt) bool {
	value, ok := in.evaluate(s.Expression)
	if !ok {
		return false
	}
	io.WriteString(in.out, value.String())
	io.WriteString(in.out, "\n")
	return true
}

func (in *Interpreter) executeVar(s *ast.VarStmt) bool {
	value := token.NilValue
	if s.Initializer != nil {
		v, ok := in.evaluate(s.Initializer)
		if !ok {
			return false
		}
		value = v
	}
	in.env.Define(s.Name.Lexeme, value)
	return true
}

// executeBlock runs statements in a fresh scope, restoring the previous
// scope on every exit path — including when a runtime error cuts
// execution short (spec.md §5's "block exit must restore the enclosing
// environment").
func (in *Interpreter) executeBlock(statements []ast.Statement, blockEnv *environment.Environment) bool {
	previous := in.env
	in.env = blockEnv
	defer func() { in.env = previous }()

	for _, stmt := range statements {
		if !in.execute(stmt) {
			return false
		}
	}
	return true
}

func (in *Interpreter) executeIf(s *ast.IfStmt) bool {
	condition, ok := in.evaluate(s.Condition)
	if !ok {
		return false
	}

	if condition.IsTruthy() {
		return in.execute(s.Then)
	}
	if s.Else != nil {
		return in.execute(s.Else)
	}
	return true
}

func (in *Interpreter) executeWhile(s *ast.WhileStmt) bool {
	for {
		condition, ok := in.evaluate(s.Condition)
		if !ok {
			return false
		}
		if !condition.IsTruthy() {
			return true
		}
		if !in.execute(s.Body) {
			return false
		}
	}
}

// evaluate computes the value of an expression. ok is false exactly
// when a runtime error was reported while evaluating it (or one of its
// sub-expressions); the caller must not report a secondary error and
// must itself propagate the failure.
func (in *Interpreter) evaluate(expr ast.Expression) (token.Literal, bool) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return e.Value, true
	case *ast.Grouping:
		return in.evaluate(e.Expression)
	case *ast.Unary:
		return in.evalUnary(e)
	case *ast.Binary:
		return in.evalBinary(e)
	case *ast.Logical:
		return in.evalLogical(e)
	case *ast.Variable:
		return in.evalVariable(e)
	case *ast.Assign:
		return in.evalAssign(e)
	case *ast.Call:
		in.sink.RuntimeError(e.ClosingParen, "Can only call functions.")
		return token.Literal{}, false
	default:
		return token.Literal{}, false
	}
}

func (in *Interpreter) evalUnary(e *ast.Unary) (token.Literal, bool) {
	right, ok := in.evaluate(e.Right)
	if !ok {
		return token.Literal{}, false
	}

	switch e.Operator.Kind {
	case token.Minus:
		if right.Kind != token.KindNum {
			in.sink.RuntimeError(e.Operator, "Operand must be a number.")
			return token.Literal{}, false
		}
		return token.NumValue(-right.Num), true
	case token.Bang:
		return token.BoolValue(!right.IsTruthy()), true
	default:
		return token.Literal{}, false
	}
}

func (in *Interpreter) evalLogical(e *ast.Logical) (token.Literal, bool) {
	left, ok := in.evaluate(e.Left)
	if !ok {
		return token.Literal{}, false
	}

	// Short-circuit: the right operand is not evaluated when the result
	// is already determined by the left operand alone (spec.md §4.4).
	if e.Operator.Kind == token.Or {
		if left.IsTruthy() {
			return left, true
		}
	} else {
		if !left.IsTruthy() {
			return left, true
		}
	}

	return in.evaluate(e.Right)
}

func (in *Interpreter) evalVariable(e *ast.Variable) (token.Literal, bool) {
	value, err := in.env.Get(e.Name.Lexeme)
	if err != nil {
		in.sink.RuntimeError(e.Name, err.Error())
		return token.Literal{}, false
	}
	return value, true
}

func (in *Interpreter) evalAssign(e *ast.Assign) (token.Literal, bool) {
	value, ok := in.evaluate(e.Value)
	if !ok {
		return token.Literal{}, false
	}

	if err := in.env.Assign(e.Name.Lexeme, value); err != nil {
		in.sink.RuntimeError(e.Name, err.Error())
		return token.Literal{}, false
	}
	return value, true
}

func (in *Interpreter) evalBinary(e *ast.Binary) (token.Literal, bool) {
	left, ok := in.evaluate(e.Left)
	if !ok {
		return token.Literal{}, false
	}
	right, ok := in.evaluate(e.Right)
	if !ok {
		return token.Literal{}, false
	}

	switch e.Operator.Kind {
	case token.Comma:
		// Carried forward verbatim per spec.md §4.2/§9: `,` between
		// primaries is accepted as a binary operator. It evaluates
		// both sides for their side effects and yields the right
		// operand, the conventional comma-operator semantics.
		return right, true
	case token.Minus:
		return in.arithmetic(e.Operator, left, right, func(a, b float64) token.Literal { return token.NumValue(a - b) })
	case token.Star:
		return in.arithmetic(e.Operator, left, right, func(a, b float64) token.Literal { return token.NumValue(a * b) })
	case token.Slash:
		return in.divide(e.Operator, left, right)
	case token.Greater:
		return in.comparison(e.Operator, left, right, func(a, b float64) bool { return a > b })
	case token.GreaterEqual:
		return in.comparison(e.Operator, left, right, func(a, b float64) bool { return a >= b })
	case token.Less:
		return in.comparison(e.Operator, left, right, func(a, b float64) bool { return a < b })
	case token.LessEqual:
		return in.comparison(e.Operator, left, right, func(a, b float64) bool { return a <= b })
	case token.Plus:
		return in.add(e.Operator, left, right)
	case token.EqualEqual:
		return token.BoolValue(isEqual(left, right)), true
	case token.BangEqual:
		return token.BoolValue(!isEqual(left, right)), true
	default:
		return token.Literal{}, false
	}
}

// arithmetic handles the Num-only binary operators -, *: both operands
// must be Num (spec.md §4.4).
func (in *Interpreter) arithmetic(op token.Token, left, right token.Literal, apply func(a, b float64) token.Literal) (token.Literal, bool) {
	if left.Kind != token.KindNum || right.Kind != token.KindNum {
		in.sink.RuntimeError(op, mustBothBeNumbers(left, right))
		return token.Literal{}, false
	}
	return apply(left.Num, right.Num), true
}

// comparison handles <, <=, >, >=, which share arithmetic's Num-only
// operand rule but produce a boolean.
func (in *Interpreter) comparison(op token.Token, left, right token.Literal, apply func(a, b float64) bool) (token.Literal, bool) {
	if left.Kind != token.KindNum || right.Kind != token.KindNum {
		in.sink.RuntimeError(op, mustBothBeNumbers(left, right))
		return token.Literal{}, false
	}
	return token.BoolValue(apply(left.Num, right.Num)), true
}

// divide is arithmetic's '/' case, with the additional divide-by-zero
// check from spec.md §4.4.
func (in *Interpreter) divide(op token.Token, left, right token.Literal) (token.Literal, bool) {
	if left.Kind != token.KindNum || right.Kind != token.KindNum {
		in.sink.RuntimeError(op, mustBothBeNumbers(left, right))
		return token.Literal{}, false
	}
	if right.Num == 0.0 {
		in.sink.RuntimeError(op, "Can't divide by 0")
		return token.Literal{}, false
	}
	return token.NumValue(left.Num / right.Num), true
}

// add implements '+': Num+Num addition, or textual concatenation when
// at least one operand is String and the other is String or Num
// (spec.md §4.4). A Num operand being concatenated is formatted into
// its canonical textual form first.
func (in *Interpreter) add(op token.Token, left, right token.Literal) (token.Literal, bool) {
	if left.Kind == token.KindNum && right.Kind == token.KindNum {
		return token.NumValue(left.Num + right.Num), true
	}

	if isStringOrNum(left) && isStringOrNum(right) && (left.Kind == token.KindString || right.Kind == token.KindString) {
		return token.StringValue(left.String() + right.String()), true
	}

	in.sink.RuntimeError(op, left.String()+" and "+right.String()+" must be either a String or a Num")
	return token.Literal{}, false
}

func isStringOrNum(l token.Literal) bool {
	return l.Kind == token.KindString || l.Kind == token.KindNum
}

func mustBothBeNumbers(left, right token.Literal) string {
	return left.String() + " and " + right.String() + " must both be numbers"
}

// isEqual implements the Language's total equality rule (spec.md §4.4):
// reflexive within each literal kind, cross-kind pairs are simply
// unequal rather than a type error. This resolves spec.md §9's Open
// Question in favor of decision (b); see DESIGN.md.
func isEqual(a, b token.Literal) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case token.KindNil:
		return true
	case token.KindBool:
		return a.Bool == b.Bool
	case token.KindString:
		return a.Str == b.Str
	case token.KindNum:
		return a.Num == b.Num
	default:
		return false
	}
}
