// Package parser provides parsing of deadstore token streams into an AST.
//
// The parser is a one-token-lookahead recursive descent over the grammar:
//
//	Program       := StatementList
//	StatementList := Statement+
//	Statement     := Variable '=' Expr
//	               | 'if' Expr StatementList ['else' StatementList] 'end'
//	               | 'while' Expr StatementList 'end'
//	Expr          := Primary [Operator Expr]
//	Primary       := Variable | Constant | '-' Constant | '(' Expr ')'
//
// Because Expr recurses on its right, the raw tree leans right regardless
// of operator precedence. Every binary combination is therefore passed
// through rebalance (see rebalance.go), which regroups operators according
// to ast.BinaryOp.Precedence.
//
// Parsing stops at the first error. There is no recovery and no partial
// program is returned.
package parser

import (
	"fmt"
	"strconv"

	"github.com/HugoDaniel/deadstore/internal/ast"
	"github.com/HugoDaniel/deadstore/internal/lexer"
)

// Parser parses a token stream into an AST.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// ErrorKind classifies syntax errors. Each kind is itself an error so that
// callers can test for it with errors.Is.
type ErrorKind uint8

const (
	ErrUnexpectedToken ErrorKind = iota + 1
	ErrUnexpectedEOF
	ErrMissingAssign
	ErrMissingParen
	ErrMissingEnd
	ErrInvalidExpression
	ErrEmptyStatementList
	ErrTrailingTokens
)

var errorKindNames = [...]string{
	ErrUnexpectedToken:    "unexpected token",
	ErrUnexpectedEOF:      "unexpected end of input",
	ErrMissingAssign:      "missing assignment",
	ErrMissingParen:       "missing closing bracket",
	ErrMissingEnd:         "missing end",
	ErrInvalidExpression:  "invalid expression",
	ErrEmptyStatementList: "empty statement list",
	ErrTrailingTokens:     "trailing tokens",
}

func (k ErrorKind) Error() string {
	if int(k) < len(errorKindNames) && errorKindNames[k] != "" {
		return errorKindNames[k]
	}
	return "syntax error"
}

// SyntaxError represents a grammar violation.
type SyntaxError struct {
	Kind    ErrorKind
	Message string
	Pos     int // Index of the offending token
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return e.Kind
}

// New creates a new parser for the given tokens. A trailing EOF token,
// if present, is ignored.
func New(tokens []lexer.Token) *Parser {
	if n := len(tokens); n > 0 && tokens[n-1].Kind == lexer.TokEOF {
		tokens = tokens[:n-1]
	}
	return &Parser{tokens: tokens}
}

// Parse parses tokens into a program.
func Parse(tokens []lexer.Token) (*ast.Program, error) {
	return New(tokens).Parse()
}

// ParseSource tokenizes and parses source text.
func ParseSource(source string) (*ast.Program, error) {
	tokens, err := lexer.New(source).Tokenize()
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parse parses the whole token stream. All tokens must be consumed.
func (p *Parser) Parse() (*ast.Program, error) {
	stmts, err := p.parseStatementList()
	if err != nil {
		return nil, err
	}

	if !p.atEOF() {
		return nil, p.errorf(ErrTrailingTokens, "did not consume all tokens, stopped at %s", describe(p.current()))
	}

	return &ast.Program{Stmts: stmts}, nil
}

// ----------------------------------------------------------------------------
// Token Helpers
// ----------------------------------------------------------------------------

func (p *Parser) current() lexer.Token {
	return p.peek(0)
}

func (p *Parser) peek(offset int) lexer.Token {
	pos := p.pos + offset
	if pos >= len(p.tokens) {
		return p.eofToken()
	}
	return p.tokens[pos]
}

// eofToken positions EOF just after the last real token.
func (p *Parser) eofToken() lexer.Token {
	if len(p.tokens) == 0 {
		return lexer.Token{Kind: lexer.TokEOF, Line: 1, Column: 1}
	}
	last := p.tokens[len(p.tokens)-1]
	return lexer.Token{Kind: lexer.TokEOF, Line: last.Line, Column: last.Column + len(last.Value)}
}

func (p *Parser) atEOF() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind lexer.TokenKind, errKind ErrorKind, context string) error {
	tok := p.current()
	if tok.Kind != kind {
		if tok.Kind == lexer.TokEOF && errKind == ErrUnexpectedToken {
			errKind = ErrUnexpectedEOF
		}
		return p.errorf(errKind, "expected %s %s, got %s", kind, context, describe(tok))
	}
	p.advance()
	return nil
}

func (p *Parser) match(kind lexer.TokenKind) bool {
	if p.current().Kind == kind {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) errorf(kind ErrorKind, format string, args ...interface{}) *SyntaxError {
	tok := p.current()
	return &SyntaxError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     p.pos,
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

func describe(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.TokEOF:
		return "end of input"
	case lexer.TokIdent:
		return fmt.Sprintf("variable %q", tok.Value)
	case lexer.TokNumber:
		return fmt.Sprintf("number %s", tok.Value)
	}
	if tok.IsKeyword() {
		return fmt.Sprintf("keyword %q", tok.Value)
	}
	return fmt.Sprintf("%q", tok.Kind.String())
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Parser) startsStatement() bool {
	switch p.current().Kind {
	case lexer.TokIdent, lexer.TokIf, lexer.TokWhile:
		return true
	}
	return false
}

// parseStatementList reads statements until the next token cannot start one.
func (p *Parser) parseStatementList() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for p.startsStatement() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	if len(stmts) == 0 {
		if p.atEOF() {
			return nil, p.errorf(ErrEmptyStatementList, "expected a statement, got end of input")
		}
		return nil, p.errorf(ErrEmptyStatementList, "expected a statement, got %s", describe(p.current()))
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.current().Kind {
	case lexer.TokIf:
		return p.parseIfStmt()
	case lexer.TokWhile:
		return p.parseWhileStmt()
	default:
		return p.parseAssignStmt()
	}
}

// variable consumes the current variable token. Tokens that did not come
// from the lexer may carry any value, so the name is checked here.
func (p *Parser) variable() (lexer.Token, error) {
	tok := p.current()
	if len(tok.Value) != 1 || tok.Value[0] < 'a' || tok.Value[0] > 'z' {
		return tok, p.errorf(ErrUnexpectedToken, "invalid variable name %q", tok.Value)
	}
	p.advance()
	return tok, nil
}

func (p *Parser) parseAssignStmt() (*ast.AssignStmt, error) {
	target, err := p.variable()
	if err != nil {
		return nil, err
	}

	if err := p.expect(lexer.TokAssign, ErrMissingAssign, "after variable "+target.Value); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.AssignStmt{Line: target.Line, Column: target.Column, Target: target.Value[0], Value: value}, nil
}

func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	keyword := p.advance()
	stmt := &ast.IfStmt{Line: keyword.Line}

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Condition = cond

	if stmt.Then, err = p.parseStatementList(); err != nil {
		return nil, err
	}

	if p.match(lexer.TokElse) {
		if stmt.Else, err = p.parseStatementList(); err != nil {
			return nil, err
		}
	}

	if err := p.expect(lexer.TokEnd, ErrMissingEnd, "to close if"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseWhileStmt() (*ast.WhileStmt, error) {
	keyword := p.advance()
	stmt := &ast.WhileStmt{Line: keyword.Line}

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	stmt.Condition = cond

	if stmt.Body, err = p.parseStatementList(); err != nil {
		return nil, err
	}

	if err := p.expect(lexer.TokEnd, ErrMissingEnd, "to close while"); err != nil {
		return nil, err
	}
	return stmt, nil
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

var binaryOps = map[lexer.TokenKind]ast.BinaryOp{
	lexer.TokPlus:  ast.BinOpAdd,
	lexer.TokMinus: ast.BinOpSub,
	lexer.TokStar:  ast.BinOpMul,
	lexer.TokSlash: ast.BinOpDiv,
	lexer.TokLt:    ast.BinOpLt,
	lexer.TokGt:    ast.BinOpGt,
}

// parseExpression reads `Primary (Operator Primary)*` and folds it from
// the right, so each operator is combined with the already balanced rest
// of the expression.
func (p *Parser) parseExpression() (ast.Expr, error) {
	var (
		operands []ast.Expr
		ops      []ast.BinaryOp
	)

	for {
		operand, err := p.parsePrimaryExpr()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)

		op, ok := binaryOps[p.current().Kind]
		if !ok {
			break
		}
		p.advance()
		ops = append(ops, op)
	}

	c := newChain(operands[len(operands)-1])
	for i := len(ops) - 1; i >= 0; i-- {
		c.prepend(operands[i], ops[i])
	}
	return c.expr(), nil
}

func (p *Parser) parsePrimaryExpr() (ast.Expr, error) {
	tok := p.current()

	switch tok.Kind {
	case lexer.TokIdent:
		if _, err := p.variable(); err != nil {
			return nil, err
		}
		return &ast.IdentExpr{Name: tok.Value[0]}, nil

	case lexer.TokNumber:
		p.advance()
		return p.makeValue(tok, tok.Value)

	case lexer.TokMinus:
		// Only a minus directly before a constant is accepted here;
		// the two tokens fuse into one negative literal.
		if next := p.peek(1); next.Kind == lexer.TokNumber {
			p.advance()
			p.advance()
			return p.makeValue(next, "-"+next.Value)
		}

	case lexer.TokLParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.TokRParen, ErrMissingParen, "to close bracket"); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Expr: inner}, nil

	case lexer.TokEOF:
		return nil, p.errorf(ErrUnexpectedEOF, "expecting an expression, did not encounter valid one: reached end of input")
	}

	return nil, p.errorf(ErrInvalidExpression, "expecting an expression, did not encounter valid one: got %s", describe(tok))
}

func (p *Parser) makeValue(tok lexer.Token, text string) (ast.Expr, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &SyntaxError{
			Kind:    ErrInvalidExpression,
			Message: fmt.Sprintf("invalid number %s", text),
			Pos:     p.pos - 1,
			Line:    tok.Line,
			Column:  tok.Column,
		}
	}
	return &ast.ValueExpr{Value: v, Text: text}, nil
}
