// Package deadstore finds assignments whose value is never read.
//
// The analysis walks the program once, keeping for every variable the
// assignments that have written it on the current path and not yet been
// read. Such a write is dead when:
// 1. Another assignment to the same variable is reached first, or
// 2. The end of the program is reached.
//
// Control flow is handled by:
// - if: the state is forked, both branches are walked on their own copy,
//   and the copies are merged by union afterwards
// - while: the body is walked once normally, then a second time only to
//   clear reads, so values read on the next iteration stay live
package deadstore

import (
	"errors"
	"fmt"
	"sort"

	"github.com/HugoDaniel/deadstore/internal/ast"
)

// ErrUnknownStatement is returned when the program contains a statement
// the walker does not recognize.
var ErrUnknownStatement = errors.New("unknown statement type")

// Options controls the report.
type Options struct {
	// SortByLine orders the result by source position. When false, the
	// result is in discovery order: overwritten writes as they are found,
	// then the writes still pending at the end, grouped by variable.
	SortByLine bool
}

// DefaultOptions returns the options used by FindUnusedAssignments.
func DefaultOptions() Options {
	return Options{SortByLine: true}
}

// Checker runs the analysis. A Checker can be reused; each Check call
// starts from a clean state.
type Checker struct {
	options     Options
	reported    []*ast.AssignStmt
	seen        map[*ast.AssignStmt]bool
	overwriters map[*ast.AssignStmt]*ast.AssignStmt
}

// NewChecker creates a checker with the given options.
func NewChecker(options Options) *Checker {
	return &Checker{options: options}
}

// FindUnusedAssignments returns every assignment in the program whose value
// can never be read, ordered by source line. Each assignment appears at
// most once.
func FindUnusedAssignments(program *ast.Program) ([]*ast.AssignStmt, error) {
	return NewChecker(DefaultOptions()).Check(program)
}

// Check analyzes the program.
func (c *Checker) Check(program *ast.Program) ([]*ast.AssignStmt, error) {
	c.reported = nil
	c.seen = make(map[*ast.AssignStmt]bool)
	c.overwriters = make(map[*ast.AssignStmt]*ast.AssignStmt)

	if program == nil {
		return nil, nil
	}

	state, err := c.walk(program.Stmts, make(pendingWrites))
	if err != nil {
		return nil, err
	}

	for _, name := range state.variables() {
		for _, stmt := range state[name] {
			c.report(stmt, nil)
		}
	}

	if c.options.SortByLine {
		order := sourceOrder(program.Stmts)
		sort.SliceStable(c.reported, func(i, j int) bool {
			a, b := c.reported[i], c.reported[j]
			if a.Line != b.Line {
				return a.Line < b.Line
			}
			return order[a] < order[b]
		})
	}

	return c.reported, nil
}

// OverwrittenBy returns the assignment that overwrote stmt before its value
// was read, or nil when stmt was still pending at the end of the program.
// It describes the last Check call.
func (c *Checker) OverwrittenBy(stmt *ast.AssignStmt) *ast.AssignStmt {
	return c.overwriters[stmt]
}

// report records stmt once. by is the overwriting assignment, if any; the
// first one found is kept.
func (c *Checker) report(stmt, by *ast.AssignStmt) {
	if c.seen[stmt] {
		return
	}
	c.seen[stmt] = true
	c.reported = append(c.reported, stmt)
	if by != nil {
		c.overwriters[stmt] = by
	}
}

// ----------------------------------------------------------------------------
// Pending Writes
// ----------------------------------------------------------------------------

// pendingWrites maps a variable to the writes not yet read. On a single
// path a variable has at most one; after an if it may hold one per branch.
type pendingWrites map[byte][]*ast.AssignStmt

func (p pendingWrites) clone() pendingWrites {
	out := make(pendingWrites, len(p))
	for name, stmts := range p {
		out[name] = append([]*ast.AssignStmt(nil), stmts...)
	}
	return out
}

// clearReads drops the pending writes of every variable the expression reads.
func (p pendingWrites) clearReads(expr ast.Expr) {
	for _, name := range ast.ReadVariables(expr) {
		delete(p, name)
	}
}

func (p pendingWrites) variables() []byte {
	names := make([]byte, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// merge unions two branch states. Writes from a come first, and a write
// present in both appears once.
func merge(a, b pendingWrites) pendingWrites {
	out := a.clone()
	for name, stmts := range b {
		for _, stmt := range stmts {
			if !containsStmt(out[name], stmt) {
				out[name] = append(out[name], stmt)
			}
		}
	}
	return out
}

func containsStmt(stmts []*ast.AssignStmt, target *ast.AssignStmt) bool {
	for _, s := range stmts {
		if s == target {
			return true
		}
	}
	return false
}

// ----------------------------------------------------------------------------
// Traversal
// ----------------------------------------------------------------------------

// walk visits statements in order and returns the resulting state.
func (c *Checker) walk(stmts []ast.Stmt, state pendingWrites) (pendingWrites, error) {
	for _, stmt := range stmts {
		var err error
		if state, err = c.visit(stmt, state); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func (c *Checker) visit(stmt ast.Stmt, state pendingWrites) (pendingWrites, error) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		// The value is evaluated before the target is written, so a
		// self-referencing assignment reads the previous write first.
		state.clearReads(s.Value)
		for _, prev := range state[s.Target] {
			c.report(prev, s)
		}
		state[s.Target] = []*ast.AssignStmt{s}
		return state, nil

	case *ast.IfStmt:
		state.clearReads(s.Condition)
		thenState, err := c.walk(s.Then, state.clone())
		if err != nil {
			return nil, err
		}
		elseState, err := c.walk(s.Else, state.clone())
		if err != nil {
			return nil, err
		}
		return merge(thenState, elseState), nil

	case *ast.WhileStmt:
		state.clearReads(s.Condition)
		after, err := c.walk(s.Body, state)
		if err != nil {
			return nil, err
		}
		if err := clearBodyReads(s.Body, after); err != nil {
			return nil, err
		}
		after.clearReads(s.Condition)
		return after, nil

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownStatement, stmt)
	}
}

// clearBodyReads replays a loop body for the next iteration. It only
// clears reads; nothing is reported and no write is recorded.
func clearBodyReads(stmts []ast.Stmt, state pendingWrites) error {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.AssignStmt:
			state.clearReads(s.Value)
		case *ast.IfStmt:
			state.clearReads(s.Condition)
			if err := clearBodyReads(s.Then, state); err != nil {
				return err
			}
			if err := clearBodyReads(s.Else, state); err != nil {
				return err
			}
		case *ast.WhileStmt:
			state.clearReads(s.Condition)
			if err := clearBodyReads(s.Body, state); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %T", ErrUnknownStatement, stmt)
		}
	}
	return nil
}

// sourceOrder numbers assignments in the order they appear in the source.
func sourceOrder(stmts []ast.Stmt) map[*ast.AssignStmt]int {
	order := make(map[*ast.AssignStmt]int)
	var visit func([]ast.Stmt)
	visit = func(stmts []ast.Stmt) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.AssignStmt:
				order[s] = len(order)
			case *ast.IfStmt:
				visit(s.Then)
				visit(s.Else)
			case *ast.WhileStmt:
				visit(s.Body)
			}
		}
	}
	visit(stmts)
	return order
}
