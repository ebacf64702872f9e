// Package parser implements the recursive-descent parser for the
// Language. It converts a token stream from pkg/scanner into an AST of
// statements (pkg/ast), reporting syntax errors to a shared diagnostics
// sink and recovering via synchronize() rather than aborting the parse.
//
// Parser Architecture:
//
// The parser maintains a single lookahead token (peek) in addition to
// the cursor into the token slice. Each grammar rule in spec.md §4.2
// corresponds to one parsing method; lower-precedence rules call into
// higher-precedence ones, building up a left-associative expression tree
// one binary operator at a time:
//
//   expression -> assignment -> logic_or -> logic_and -> equality ->
//   comparison -> term -> factor -> unary -> comma -> primary
//
// Error Handling:
//
// A parse error is reported to the sink and the offending production
// returns nil. The declaration loop in Parse skips a nil statement and,
// via synchronize, discards tokens until the next plausible statement
// boundary so that later, independent errors can still be reported in
// the same pass (spec.md §4.2/§7).
package parser

import (
	"github.com/kristofer/loxi/pkg/ast"
	"github.com/kristofer/loxi/pkg/diagnostics"
	"github.com/kristofer/loxi/pkg/token"
)

// Parser holds the state of an in-progress parse.
type Parser struct {
	tokens  []token.Token
	current int
	sink    *diagnostics.Sink
}

// New creates a parser over the given token sequence (normally the
// output of scanner.ScanTokens), reporting syntax errors to sink.
func New(tokens []token.Token, sink *diagnostics.Sink) *Parser {
	return &Parser{tokens: tokens, sink: sink}
}

// Parse parses the full token sequence and returns the statement list.
// If any parser error was reported, Parse returns nil: per spec.md §4.2,
// a failed parse yields no AST for the evaluator to execute.
func (p *Parser) Parse() []ast.Statement {
	var statements []ast.Statement
	for !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}

	if p.sink.HadError() {
		return nil
	}
	p.sink.Tracef("parser: produced %d statements", len(statements))
	return statements
}

// --- token cursor helpers ---

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.Eof
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

// match consumes the current token and returns true if its kind is any
// of kinds; otherwise it leaves the cursor untouched and returns false.
func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// consume requires the current token to be of kind, advancing past it.
// If it isn't, it reports message at the current token and returns a
// failure indicator without advancing the cursor.
func (p *Parser) consume(kind token.Kind, message string) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.sink.ParserError(p.peek(), message)
	return token.Token{}, false
}

func (p *Parser) errorAt(tok token.Token, message string) {
	p.sink.ParserError(tok, message)
}

// synchronize discards tokens until either the previous token was a
// Semicolon or the next token begins a new declaration/statement,
// resuming the surrounding parse loop at a plausible boundary
// (spec.md §4.2).
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}

		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}

		p.advance()
	}
}

// --- declarations and statements ---

// declaration -> varDecl | statement
func (p *Parser) declaration() ast.Statement {
	var stmt ast.Statement
	if p.match(token.Var) {
		stmt = p.varDeclaration()
	} else {
		stmt = p.statement()
	}

	if stmt == nil && p.sink.HadError() {
		p.synchronize()
	}
	return stmt
}

// varDecl -> "var" IDENT ( "=" expression )? ";"
func (p *Parser) varDeclaration() ast.Statement {
	name, ok := p.consume(token.Id, "Expect variable name.")
	if !ok {
		return nil
	}

	var initializer ast.Expression
	if p.match(token.Equal) {
		initializer = p.expression()
	}

	if _, ok := p.consume(token.Semicolon, "Expect ';' after variable declaration."); !ok {
		return nil
	}
	return &ast.VarStmt{Name: name, Initializer: initializer}
}

// statement -> printStmt | ifStmt | whileStmt | forStmt | block | exprStmt
func (p *Parser) statement() ast.Statement {
	switch {
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.LBrace):
		return &ast.BlockStmt{Statements: p.block()}
	default:
		return p.expressionStatement()
	}
}

// printStmt -> "print" expression ";"
func (p *Parser) printStatement() ast.Statement {
	value := p.expression()
	if _, ok := p.consume(token.Semicolon, "Expect ';' after value."); !ok {
		return nil
	}
	return &ast.PrintStmt{Expression: value}
}

// exprStmt -> expression ";"
func (p *Parser) expressionStatement() ast.Statement {
	expr := p.expression()
	if _, ok := p.consume(token.Semicolon, "Expect ';' after value."); !ok {
		return nil
	}
	return &ast.ExpressionStmt{Expression: expr}
}

// ifStmt -> "if" "(" expression ")" statement ( "else" statement )?
func (p *Parser) ifStatement() ast.Statement {
	if _, ok := p.consume(token.LParen, "Expect '(' after 'if'."); !ok {
		return nil
	}
	condition := p.expression()
	if _, ok := p.consume(token.RParen, "Expect ')' after if condition."); !ok {
		return nil
	}

	thenBranch := p.statement()
	var elseBranch ast.Statement
	if p.match(token.Else) {
		elseBranch = p.statement()
	}

	return &ast.IfStmt{Condition: condition, Then: thenBranch, Else: elseBranch}
}

// whileStmt -> "while" "(" expression ")" statement
func (p *Parser) whileStatement() ast.Statement {
	if _, ok := p.consume(token.LParen, "Expect '(' after 'while'."); !ok {
		return nil
	}
	condition := p.expression()
	if _, ok := p.consume(token.RParen, "Expect ')' after 'while'."); !ok {
		return nil
	}
	body := p.statement()

	return &ast.WhileStmt{Condition: condition, Body: body}
}

// forStmt -> "for" "(" ( varDecl | exprStmt | ";" )
//
//	expression? ";" expression? ")" statement
//
// `for` is not a distinct AST node: it desugars here into a While loop
// wrapped in Block statements, following the construction in
// original_source/src/parser.rs (for_statement): the initializer becomes
// the first statement of an outer block, a missing condition becomes the
// literal `true`, and the increment (if present) is appended to the loop
// body inside an inner block.
func (p *Parser) forStatement() ast.Statement {
	if _, ok := p.consume(token.LParen, "Expect '(' after 'for'."); !ok {
		return nil
	}

	var initializer ast.Statement
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expression
	if !p.check(token.Semicolon) {
		condition = p.expression()
	} else {
		condition = &ast.LiteralExpr{Value: token.BoolValue(true)}
	}
	if _, ok := p.consume(token.Semicolon, "Expect ';' after loop condition."); !ok {
		return nil
	}

	var increment ast.Expression
	if !p.check(token.RParen) {
		increment = p.expression()
	}
	if _, ok := p.consume(token.RParen, "Expect ')' after for clauses."); !ok {
		return nil
	}

	body := p.statement()

	if increment != nil {
		body = &ast.BlockStmt{Statements: []ast.Statement{body, &ast.ExpressionStmt{Expression: increment}}}
	}

	body = &ast.WhileStmt{Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.BlockStmt{Statements: []ast.Statement{initializer, body}}
	}

	return body
}

// block -> "{" declaration* "}"
func (p *Parser) block() []ast.Statement {
	var statements []ast.Statement

	for !p.check(token.RBrace) && !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}

	p.consume(token.RBrace, "Expect '}' after block.")
	return statements
}

// --- expressions, by ascending precedence ---

// expression -> assignment
func (p *Parser) expression() ast.Expression {
	return p.assignment()
}

// assignment -> IDENT "=" assignment | logic_or
//
// Assignment is right-associative: the left side is parsed as a normal
// expression first, and if '=' follows, the right side is parsed
// recursively. If the left side isn't a Variable, the target is invalid
// and an error is reported at the '=' token — but parsing continues with
// the already-built left expression, matching
// original_source/src/parser.rs's assignment(), which reports but does
// not abort on an invalid target.
func (p *Parser) assignment() ast.Expression {
	expr := p.or()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		if variable, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: variable.Name, Value: value}
		}
		p.errorAt(equals, "Invalid assignment target.")
	}

	return expr
}

// logic_or -> logic_and ( "or" logic_and )*
func (p *Parser) or() ast.Expression {
	expr := p.and()

	for p.match(token.Or) {
		operator := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

// logic_and -> equality ( "and" equality )*
func (p *Parser) and() ast.Expression {
	expr := p.equality()

	for p.match(token.And) {
		operator := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

// equality -> comparison ( ("!=" | "==") comparison )*
func (p *Parser) equality() ast.Expression {
	expr := p.comparison()

	for p.match(token.BangEqual, token.EqualEqual) {
		operator := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

// comparison -> term ( (">" | ">=" | "<" | "<=") term )*
func (p *Parser) comparison() ast.Expression {
	expr := p.term()

	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		operator := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

// term -> factor ( ("-" | "+") factor )*
func (p *Parser) term() ast.Expression {
	expr := p.factor()

	for p.match(token.Minus, token.Plus) {
		operator := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

// factor -> unary ( ("/" | "*") unary )*
func (p *Parser) factor() ast.Expression {
	expr := p.unary()

	for p.match(token.Slash, token.Star) {
		operator := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

// unary -> ("!" | "-") unary | comma
func (p *Parser) unary() ast.Expression {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: operator, Right: right}
	}

	return p.comma()
}

// comma -> primary ( "," primary )*
//
// Not a standard production — carried forward verbatim per spec.md §4.2
// and §9 (Open Question 3), matching original_source/src/parser.rs's
// comma().
func (p *Parser) comma() ast.Expression {
	expr := p.primary()

	for p.match(token.Comma) {
		operator := p.previous()
		right := p.primary()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}

	return expr
}

// primary -> NUMBER | STRING | "true" | "false" | "nil" | IDENT
//
//	| "(" expression ")"
func (p *Parser) primary() ast.Expression {
	switch {
	case p.match(token.False):
		return &ast.LiteralExpr{Value: token.BoolValue(false)}
	case p.match(token.True):
		return &ast.LiteralExpr{Value: token.BoolValue(true)}
	case p.match(token.Nil):
		return &ast.LiteralExpr{Value: token.NilValue}
	case p.match(token.Num):
		return &ast.LiteralExpr{Value: p.previous().Literal}
	case p.match(token.String):
		return &ast.LiteralExpr{Value: p.previous().Literal}
	case p.match(token.Id):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LParen):
		expr := p.expression()
		p.consume(token.RParen, "Expect ')' after expression.")
		return &ast.Grouping{Expression: expr}
	default:
		p.errorAt(p.peek(), "Expect expression.")
		return nil
	}
}
