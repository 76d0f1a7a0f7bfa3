package parser

import "github.com/HugoDaniel/deadstore/internal/ast"

// chain builds the tree for `x0 op0 x1 op1 ... xn` from right to left,
// grouping operators by precedence instead of by parse order.
//
// Prepending `left op` to an already balanced tree applies op to the
// leftmost operand, except that nodes on the left spine binding tighter
// than op stay together and become the right operand of op. Nodes on the
// spine binding no tighter than op stay above the new node.
//
// spine holds the left spine of root, outermost first. Precedence never
// decreases going down the spine, so the nodes binding tighter than op
// are always at the end of the slice and each prepend touches only those.
// The step is non-recursive and the whole fold is linear in the number
// of operators.
type chain struct {
	root  ast.Expr
	spine []*ast.BinaryExpr
}

func newChain(last ast.Expr) *chain {
	return &chain{root: last}
}

// prepend combines left and op with the tree built so far. Spine nodes
// are only re-pointed while the chain is still being built; the tree is
// not reachable from anywhere else until expr returns it.
func (c *chain) prepend(left ast.Expr, op ast.BinaryOp) {
	n := len(c.spine)
	for n > 0 && c.spine[n-1].Op.Precedence() > op.Precedence() {
		n--
	}

	var right ast.Expr
	switch {
	case n < len(c.spine):
		right = c.spine[n]
	case n > 0:
		right = c.spine[n-1].Left
	default:
		right = c.root
	}

	node := &ast.BinaryExpr{Left: left, Op: op, Right: right}
	if n > 0 {
		c.spine[n-1].Left = node
	} else {
		c.root = node
	}
	c.spine = append(c.spine[:n], node)
}

func (c *chain) expr() ast.Expr {
	return c.root
}
