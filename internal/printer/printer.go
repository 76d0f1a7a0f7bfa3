// Package printer outputs deadstore source code from an AST.
//
// The printer can operate in two modes:
// - Pretty: one statement per line, nested bodies indented
// - Minified: the whole program on one line with minimal whitespace
//
// Only brackets present in the tree are printed. For trees produced by the
// parser, printing and parsing again yields the same tree.
package printer

import (
	"strings"

	"github.com/HugoDaniel/deadstore/internal/ast"
)

// DefaultIndent is the number of spaces per nesting level in pretty mode.
const DefaultIndent = 4

// Options controls printer output.
type Options struct {
	// MinifyWhitespace removes optional whitespace and puts every
	// statement on one line
	MinifyWhitespace bool

	// Indent is the number of spaces per nesting level (0 means DefaultIndent)
	Indent int
}

// Printer outputs deadstore code.
type Printer struct {
	options Options
	unit    string

	buf    strings.Builder
	indent int
}

// New creates a new printer.
func New(options Options) *Printer {
	width := options.Indent
	if width <= 0 {
		width = DefaultIndent
	}
	return &Printer{
		options: options,
		unit:    strings.Repeat(" ", width),
	}
}

// Print outputs the program as a string. Pretty output ends with a newline.
func (p *Printer) Print(program *ast.Program) string {
	p.reset()
	if program == nil {
		return ""
	}
	p.printStmts(program.Stmts)
	if !p.options.MinifyWhitespace {
		p.buf.WriteByte('\n')
	}
	return p.buf.String()
}

// PrintStmt outputs a single statement without a trailing newline.
func (p *Printer) PrintStmt(stmt ast.Stmt) string {
	p.reset()
	p.printStmt(stmt)
	return p.buf.String()
}

// PrintExpr outputs a single expression.
func (p *Printer) PrintExpr(expr ast.Expr) string {
	p.reset()
	p.printExpr(expr)
	return p.buf.String()
}

// ----------------------------------------------------------------------------
// Output Helpers
// ----------------------------------------------------------------------------

func (p *Printer) reset() {
	p.buf.Reset()
	p.indent = 0
}

func (p *Printer) print(s string) {
	p.buf.WriteString(s)
}

// printNewline starts the next statement: a line break plus indentation,
// or a single space when minifying.
func (p *Printer) printNewline() {
	if p.options.MinifyWhitespace {
		p.buf.WriteByte(' ')
		return
	}
	p.buf.WriteByte('\n')
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString(p.unit)
	}
}

// printOperator prints an operator with surrounding spaces unless minifying.
func (p *Printer) printOperator(op string) {
	if p.options.MinifyWhitespace {
		p.print(op)
		return
	}
	p.print(" " + op + " ")
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

func (p *Printer) printStmts(stmts []ast.Stmt) {
	for i, stmt := range stmts {
		if i > 0 {
			p.printNewline()
		}
		p.printStmt(stmt)
	}
}

func (p *Printer) printBody(stmts []ast.Stmt) {
	p.indent++
	p.printNewline()
	p.printStmts(stmts)
	p.indent--
	p.printNewline()
}

func (p *Printer) printStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.AssignStmt:
		p.buf.WriteByte(stmt.Target)
		p.printOperator("=")
		p.printExpr(stmt.Value)

	case *ast.IfStmt:
		p.print("if ")
		p.printExpr(stmt.Condition)
		p.printBody(stmt.Then)
		if len(stmt.Else) > 0 {
			p.print("else")
			p.printBody(stmt.Else)
		}
		p.print("end")

	case *ast.WhileStmt:
		p.print("while ")
		p.printExpr(stmt.Condition)
		p.printBody(stmt.Body)
		p.print("end")
	}
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func (p *Printer) printExpr(e ast.Expr) {
	switch expr := e.(type) {
	case *ast.ValueExpr:
		p.print(expr.Text)

	case *ast.IdentExpr:
		p.buf.WriteByte(expr.Name)

	case *ast.ParenExpr:
		p.print("(")
		p.printExpr(expr.Expr)
		p.print(")")

	case *ast.BinaryExpr:
		p.printExpr(expr.Left)
		p.printOperator(expr.Op.String())
		p.printExpr(expr.Right)
	}
}
