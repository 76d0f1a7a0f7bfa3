package ast

import (
	"testing"
)

// ----------------------------------------------------------------------------
// BinaryOp Tests
// ----------------------------------------------------------------------------

func TestBinaryOpString(t *testing.T) {
	tests := []struct {
		op       BinaryOp
		expected string
	}{
		{BinOpAdd, "+"},
		{BinOpSub, "-"},
		{BinOpMul, "*"},
		{BinOpDiv, "/"},
		{BinOpLt, "<"},
		{BinOpGt, ">"},
		{BinaryOp(99), "?"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.expected {
			t.Errorf("BinaryOp(%d).String() = %q, want %q", tt.op, got, tt.expected)
		}
	}
}

func TestBinaryOpPrecedence(t *testing.T) {
	// Comparisons bind tightest, then multiplicative, then additive.
	if BinOpLt.Precedence() != BinOpGt.Precedence() {
		t.Error("< and > should share a precedence level")
	}
	if BinOpMul.Precedence() != BinOpDiv.Precedence() {
		t.Error("* and / should share a precedence level")
	}
	if BinOpAdd.Precedence() != BinOpSub.Precedence() {
		t.Error("+ and - should share a precedence level")
	}
	if !(BinOpLt.Precedence() > BinOpMul.Precedence()) {
		t.Error("comparison should bind tighter than multiplication")
	}
	if !(BinOpMul.Precedence() > BinOpAdd.Precedence()) {
		t.Error("multiplication should bind tighter than addition")
	}
}

// ----------------------------------------------------------------------------
// ReadVariables Tests
// ----------------------------------------------------------------------------

func ident(name byte) *IdentExpr { return &IdentExpr{Name: name} }

func value(text string, v float64) *ValueExpr { return &ValueExpr{Value: v, Text: text} }

func binary(left Expr, op BinaryOp, right Expr) *BinaryExpr {
	return &BinaryExpr{Left: left, Op: op, Right: right}
}

func TestReadVariablesLiteral(t *testing.T) {
	if got := ReadVariables(value("5", 5)); len(got) != 0 {
		t.Errorf("literal should read nothing, got %q", got)
	}
}

func TestReadVariablesSingle(t *testing.T) {
	if got := string(ReadVariables(ident('y'))); got != "y" {
		t.Errorf("expected y, got %q", got)
	}
}

func TestReadVariablesIsShapeIndependent(t *testing.T) {
	// ((x*y)*z)/a and x*(y*(z/a)) read the same set
	leftLeaning := binary(binary(binary(ident('x'), BinOpMul, ident('y')), BinOpMul, ident('z')), BinOpDiv, ident('a'))
	rightLeaning := binary(ident('x'), BinOpMul, binary(ident('y'), BinOpMul, binary(ident('z'), BinOpDiv, ident('a'))))

	for _, expr := range []Expr{leftLeaning, rightLeaning} {
		if got := string(ReadVariables(expr)); got != "axyz" {
			t.Errorf("expected axyz, got %q", got)
		}
	}
}

func TestReadVariablesDeduplicates(t *testing.T) {
	expr := binary(ident('x'), BinOpAdd, &ParenExpr{Expr: binary(ident('x'), BinOpMul, value("2", 2))})
	if got := string(ReadVariables(expr)); got != "x" {
		t.Errorf("expected x, got %q", got)
	}
}

func TestReadVariablesNil(t *testing.T) {
	if got := ReadVariables(nil); len(got) != 0 {
		t.Errorf("nil expression should read nothing, got %q", got)
	}
}

// ----------------------------------------------------------------------------
// Statement Tests
// ----------------------------------------------------------------------------

func TestStmtLine(t *testing.T) {
	stmts := []Stmt{
		&AssignStmt{Line: 1, Target: 'a', Value: value("1", 1)},
		&IfStmt{Line: 2, Condition: ident('a')},
		&WhileStmt{Line: 7, Condition: ident('b')},
	}
	for i, want := range []int{1, 2, 7} {
		if got := stmts[i].StmtLine(); got != want {
			t.Errorf("statement %d: StmtLine() = %d, want %d", i, got, want)
		}
	}
}

func TestCountAssignments(t *testing.T) {
	stmts := []Stmt{
		&AssignStmt{Line: 1, Target: 'a', Value: value("1", 1)},
		&IfStmt{
			Line:      2,
			Condition: ident('a'),
			Then:      []Stmt{&AssignStmt{Line: 3, Target: 'b', Value: ident('a')}},
			Else: []Stmt{
				&WhileStmt{
					Line:      5,
					Condition: ident('a'),
					Body: []Stmt{
						&AssignStmt{Line: 6, Target: 'a', Value: value("2", 2)},
						&AssignStmt{Line: 7, Target: 'c', Value: value("3", 3)},
					},
				},
			},
		},
	}
	if got := CountAssignments(stmts); got != 4 {
		t.Errorf("CountAssignments() = %d, want 4", got)
	}
}
