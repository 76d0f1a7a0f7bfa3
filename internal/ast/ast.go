// Package ast defines the Abstract Syntax Tree types for deadstore programs.
//
// The AST is designed to be:
// - Closed: Expr and Stmt are sealed, so every type switch over them
//   can list all variants
// - Immutable: nodes are never modified once the parser hands them out
// - Positioned: every statement knows the source line it starts on
package ast

import "sort"

// ----------------------------------------------------------------------------
// Program (Top Level)
// ----------------------------------------------------------------------------

// Program represents a complete parsed program.
type Program struct {
	// Top-level statements in order. Never empty after a successful parse.
	Stmts []Stmt
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// Expr represents an expression.
type Expr interface {
	isExpr()
}

// ValueExpr represents a numeric literal.
type ValueExpr struct {
	Value float64
	Text  string // Literal as written, including a fused leading '-'
}

func (*ValueExpr) isExpr() {}

// IdentExpr represents a read of a variable.
type IdentExpr struct {
	Name byte
}

func (*IdentExpr) isExpr() {}

// ParenExpr represents a parenthesized expression.
// Rebalancing never looks inside it.
type ParenExpr struct {
	Expr Expr
}

func (*ParenExpr) isExpr() {}

// BinaryExpr represents a binary operation.
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (*BinaryExpr) isExpr() {}

// BinaryOp represents binary operators.
type BinaryOp uint8

const (
	BinOpAdd BinaryOp = iota // +
	BinOpSub                 // -
	BinOpMul                 // *
	BinOpDiv                 // /
	BinOpLt                  // <
	BinOpGt                  // >
)

var binaryOpText = [...]string{
	BinOpAdd: "+",
	BinOpSub: "-",
	BinOpMul: "*",
	BinOpDiv: "/",
	BinOpLt:  "<",
	BinOpGt:  ">",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) {
		return binaryOpText[op]
	}
	return "?"
}

// Precedence returns the binding strength of the operator; higher binds tighter.
// Comparisons bind tighter than multiplication, which binds tighter than addition.
func (op BinaryOp) Precedence() int {
	switch op {
	case BinOpLt, BinOpGt:
		return 3
	case BinOpMul, BinOpDiv:
		return 2
	default:
		return 1
	}
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

// Stmt represents a statement.
type Stmt interface {
	// StmtLine returns the 1-based source line the statement starts on.
	StmtLine() int
	isStmt()
}

// AssignStmt represents: target = value
type AssignStmt struct {
	Line   int
	Column int // Column of the target variable
	Target byte
	Value  Expr
}

func (s *AssignStmt) StmtLine() int { return s.Line }
func (*AssignStmt) isStmt()         {}

// IfStmt represents: if cond ... [else ...] end
type IfStmt struct {
	Line      int
	Condition Expr
	Then      []Stmt
	Else      []Stmt // empty when there is no else clause
}

func (s *IfStmt) StmtLine() int { return s.Line }
func (*IfStmt) isStmt()         {}

// WhileStmt represents: while cond ... end
type WhileStmt struct {
	Line      int
	Condition Expr
	Body      []Stmt
}

func (s *WhileStmt) StmtLine() int { return s.Line }
func (*WhileStmt) isStmt()         {}

// ----------------------------------------------------------------------------
// Variable Reads
// ----------------------------------------------------------------------------

// ReadVariables returns the distinct variables read by an expression,
// sorted ascending. The result does not depend on the shape of the tree.
func ReadVariables(expr Expr) []byte {
	seen := make(map[byte]bool)
	collectReads(expr, seen)

	vars := make([]byte, 0, len(seen))
	for name := range seen {
		vars = append(vars, name)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}

func collectReads(expr Expr, seen map[byte]bool) {
	switch e := expr.(type) {
	case *IdentExpr:
		seen[e.Name] = true
	case *BinaryExpr:
		collectReads(e.Left, seen)
		collectReads(e.Right, seen)
	case *ParenExpr:
		collectReads(e.Expr, seen)
	case *ValueExpr, nil:
		// No reads
	}
}

// CountAssignments returns the number of assignments in the statements,
// including those nested in if and while bodies.
func CountAssignments(stmts []Stmt) int {
	count := 0
	for _, s := range stmts {
		switch stmt := s.(type) {
		case *AssignStmt:
			count++
		case *IfStmt:
			count += CountAssignments(stmt.Then) + CountAssignments(stmt.Else)
		case *WhileStmt:
			count += CountAssignments(stmt.Body)
		}
	}
	return count
}
