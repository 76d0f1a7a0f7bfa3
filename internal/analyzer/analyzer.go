// Package analyzer provides the main analysis API.
//
// It coordinates lexing, parsing, dead-store detection and printing, and
// turns every failure or finding into a diagnostic with a stable code.
package analyzer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/HugoDaniel/deadstore/internal/ast"
	"github.com/HugoDaniel/deadstore/internal/deadstore"
	"github.com/HugoDaniel/deadstore/internal/diagnostic"
	"github.com/HugoDaniel/deadstore/internal/lexer"
	"github.com/HugoDaniel/deadstore/internal/parser"
	"github.com/HugoDaniel/deadstore/internal/printer"
)

// Options controls analysis behavior.
type Options struct {
	// SortByLine orders dead stores by source position instead of
	// discovery order
	SortByLine bool

	// Logger receives debug output for each stage (nil for none)
	Logger *log.Logger

	// Filter overrides diagnostic severities by code (nil for defaults).
	// Turning W0001 off drops the findings as well as their diagnostics.
	Filter *diagnostic.Filter
}

// DefaultOptions returns the options used by Analyze.
func DefaultOptions() Options {
	return Options{SortByLine: true}
}

// Result contains the analysis output.
type Result struct {
	// Program is the parsed program (nil when lexing or parsing failed)
	Program *ast.Program

	// DeadStores lists assignments whose value is never read
	DeadStores []Finding

	// Errors encountered during analysis. When non-empty, DeadStores is empty.
	Errors []Error

	// Diagnostics holds one entry per error and per dead store
	Diagnostics *diagnostic.DiagnosticList

	// Statistics about the analyzed program
	Stats Stats
}

// Finding is a single dead store.
type Finding struct {
	Line      int
	Column    int
	Variable  string
	Statement string // The assignment printed as "v = expr"

	// OverwrittenAt is the assignment that overwrote the value unread,
	// nil when the value was still pending at the end of the program
	OverwrittenAt *diagnostic.Position
}

// Error represents an analysis error.
type Error struct {
	Code    string
	Message string
	Line    int
	Column  int
}

func (e Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Stats provides analysis statistics.
type Stats struct {
	Lines       int
	Tokens      int
	Statements  int // Including statements nested in if and while
	Assignments int
	DeadStores  int
}

// Analyzer runs the pipeline.
type Analyzer struct {
	options Options
	logger  *log.Logger
}

// New creates a new analyzer with the given options.
func New(options Options) *Analyzer {
	logger := options.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Analyzer{options: options, logger: logger}
}

// Analyze runs the whole pipeline on source.
func Analyze(source string) Result {
	return New(DefaultOptions()).Analyze(source)
}

// Analyze lexes, parses and checks the given source code.
func (a *Analyzer) Analyze(source string) Result {
	result := Result{
		Diagnostics: diagnostic.NewDiagnosticList(source),
		Stats:       Stats{Lines: countLines(source)},
	}
	if a.options.Filter != nil {
		result.Diagnostics.SetFilter(a.options.Filter)
	}

	// 1. Tokenize
	tokens, err := lexer.New(source).Tokenize()
	if err != nil {
		a.fail(&result, err)
		return result
	}
	result.Stats.Tokens = len(tokens)
	a.logger.Debug("tokenized", "tokens", len(tokens), "lines", result.Stats.Lines)

	// 2. Parse
	program, err := parser.Parse(tokens)
	if err != nil {
		a.fail(&result, err)
		return result
	}
	result.Program = program
	result.Stats.Statements = countStatements(program.Stmts)
	result.Stats.Assignments = ast.CountAssignments(program.Stmts)
	a.logger.Debug("parsed", "statements", result.Stats.Statements, "assignments", result.Stats.Assignments)

	// 3. Find dead stores
	checker := deadstore.NewChecker(deadstore.Options{SortByLine: a.options.SortByLine})
	unused, err := checker.Check(program)
	if err != nil {
		a.fail(&result, err)
		result.Program = nil
		return result
	}

	// 4. Report
	if a.silenced(diagnostic.CodeDeadStore) {
		a.logger.Debug("checked", "deadStores", 0, "silenced", len(unused))
		return result
	}
	pr := printer.New(printer.Options{})
	for _, stmt := range unused {
		finding := Finding{
			Line:      stmt.Line,
			Column:    stmt.Column,
			Variable:  string(stmt.Target),
			Statement: pr.PrintStmt(stmt),
		}
		d := diagnostic.Diagnostic{
			Severity: diagnostic.Warning,
			Code:     diagnostic.CodeDeadStore,
			Message:  fmt.Sprintf("value assigned to %s is never read", finding.Variable),
			Range:    diagnostic.PointRange(stmt.Line, stmt.Column, 1),
		}
		if over := checker.OverwrittenBy(stmt); over != nil {
			finding.OverwrittenAt = &diagnostic.Position{Line: over.Line, Column: over.Column}
			d.Related = []diagnostic.RelatedInfo{{
				Range:   diagnostic.PointRange(over.Line, over.Column, 1),
				Message: "overwritten here",
			}}
		}
		result.DeadStores = append(result.DeadStores, finding)
		result.Diagnostics.Add(d)
	}
	result.Stats.DeadStores = len(result.DeadStores)
	a.logger.Debug("checked", "deadStores", result.Stats.DeadStores)

	return result
}

func (a *Analyzer) silenced(code diagnostic.DiagnosticCode) bool {
	return a.options.Filter != nil && a.options.Filter.SeverityFor(code, diagnostic.Warning) == diagnostic.Off
}

// fail records err as the single error of the result.
func (a *Analyzer) fail(result *Result, err error) {
	e := Error{Code: string(diagnostic.CodeInternal), Message: err.Error()}

	var lexErr *lexer.LexError
	var syntaxErr *parser.SyntaxError
	switch {
	case errors.As(err, &lexErr):
		e = Error{Code: string(lexErrorCode(lexErr.Kind)), Message: lexErr.Message, Line: lexErr.Line, Column: lexErr.Column}
	case errors.As(err, &syntaxErr):
		e = Error{Code: string(syntaxErrorCode(syntaxErr.Kind)), Message: syntaxErr.Message, Line: syntaxErr.Line, Column: syntaxErr.Column}
	}

	a.logger.Debug("analysis failed", "code", e.Code, "line", e.Line, "column", e.Column, "err", e.Message)
	result.Errors = append(result.Errors, e)
	result.Diagnostics.AddWithCode(diagnostic.Error, e.Line, e.Column, diagnostic.DiagnosticCode(e.Code), e.Message)
}

func lexErrorCode(kind lexer.LexErrorKind) diagnostic.DiagnosticCode {
	switch kind {
	case lexer.LexMalformedNumber:
		return diagnostic.CodeInvalidNumber
	case lexer.LexLongIdentifier:
		return diagnostic.CodeInvalidIdentifier
	default:
		return diagnostic.CodeUnrecognizedChar
	}
}

func syntaxErrorCode(kind parser.ErrorKind) diagnostic.DiagnosticCode {
	switch kind {
	case parser.ErrTrailingTokens:
		return diagnostic.CodeTrailingTokens
	case parser.ErrMissingEnd:
		return diagnostic.CodeMissingEnd
	default:
		return diagnostic.CodeUnexpectedToken
	}
}

func countLines(source string) int {
	if source == "" {
		return 0
	}
	return strings.Count(strings.TrimRight(source, "\n"), "\n") + 1
}

func countStatements(stmts []ast.Stmt) int {
	count := len(stmts)
	for _, s := range stmts {
		switch stmt := s.(type) {
		case *ast.IfStmt:
			count += countStatements(stmt.Then) + countStatements(stmt.Else)
		case *ast.WhileStmt:
			count += countStatements(stmt.Body)
		}
	}
	return count
}
