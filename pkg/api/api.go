// Package api provides the public API for the deadstore analyzer.
//
// This package is intended for programmatic use of the analyzer.
// For CLI usage, see cmd/deadstore.
package api

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/HugoDaniel/deadstore/internal/analyzer"
	"github.com/HugoDaniel/deadstore/internal/diagnostic"
	"github.com/HugoDaniel/deadstore/internal/parser"
	"github.com/HugoDaniel/deadstore/internal/printer"
)

// Options controls analysis behavior.
type Options struct {
	// Unsorted reports dead stores in discovery order instead of by line.
	Unsorted bool `json:"unsorted,omitempty" yaml:"unsorted,omitempty"`

	// Rules overrides diagnostic severities by code, e.g. {"W0001": "off"}.
	Rules map[string]string `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Logger receives debug output for each stage (nil for none).
	Logger *log.Logger `json:"-" yaml:"-"`
}

// Result contains the analysis output.
type Result struct {
	// DeadStores lists assignments whose value is never read.
	DeadStores []DeadStore `json:"deadStores" yaml:"deadStores"`

	// Errors contains lex, parse or internal errors.
	// If non-empty, DeadStores is empty.
	Errors []Error `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Diagnostics contains one entry per error and per dead store,
	// after rules are applied.
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`

	// Stats describes the analyzed program.
	Stats Stats `json:"stats" yaml:"stats"`

	diagnostics *diagnostic.DiagnosticList
}

// DeadStore is an assignment whose value is never read.
type DeadStore struct {
	Line      int    `json:"line" yaml:"line"`
	Column    int    `json:"column" yaml:"column"`
	Variable  string `json:"variable" yaml:"variable"`
	Statement string `json:"statement" yaml:"statement"`

	// OverwrittenAt is the assignment that replaced the value unread.
	// It is nil when the value was still pending at the end of the program.
	OverwrittenAt *Position `json:"overwrittenAt,omitempty" yaml:"overwrittenAt,omitempty"`
}

// Position is a 1-based line and column.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Error is a failure that stopped the analysis.
type Error struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
}

// Diagnostic is a positioned message with a severity and code.
type Diagnostic struct {
	Severity string `json:"severity" yaml:"severity"`
	Code     string `json:"code" yaml:"code"`
	Message  string `json:"message" yaml:"message"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`

	Related []Related `json:"related,omitempty" yaml:"related,omitempty"`
}

// Related points at another location involved in a diagnostic.
type Related struct {
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line" yaml:"line"`
	Column  int    `json:"column" yaml:"column"`
}

// TextOptions controls FormatText.
type TextOptions = diagnostic.FormatOptions

// TextStyles decorates the parts of FormatText output.
type TextStyles = diagnostic.Styles

// FormatText renders the diagnostics with their source lines, one block
// per diagnostic, followed by a note for each related location.
func (r Result) FormatText(opts TextOptions) string {
	if r.diagnostics == nil {
		return ""
	}
	return r.diagnostics.Format(opts)
}

// Stats describes the analyzed program.
type Stats struct {
	Lines       int `json:"lines" yaml:"lines"`
	Tokens      int `json:"tokens" yaml:"tokens"`
	Statements  int `json:"statements" yaml:"statements"`
	Assignments int `json:"assignments" yaml:"assignments"`
	DeadStores  int `json:"deadStores" yaml:"deadStores"`
}

// Analyze reports the dead stores in source, ordered by line.
func Analyze(source string) Result {
	result, _ := AnalyzeWithOptions(source, Options{})
	return result
}

// AnalyzeWithOptions reports the dead stores in source with custom options.
// It returns an error only for invalid options.
func AnalyzeWithOptions(source string, opts Options) (Result, error) {
	aopts := analyzer.Options{SortByLine: !opts.Unsorted, Logger: opts.Logger}
	if len(opts.Rules) > 0 {
		aopts.Filter = diagnostic.NewFilter()
		for code, name := range opts.Rules {
			severity, err := diagnostic.ParseSeverity(name)
			if err != nil {
				return Result{}, fmt.Errorf("rule %s: %w", code, err)
			}
			aopts.Filter.SetRule(diagnostic.DiagnosticCode(strings.ToUpper(code)), severity)
		}
	}

	return convert(analyzer.New(aopts).Analyze(source)), nil
}

func convert(r analyzer.Result) Result {
	result := Result{
		DeadStores:  make([]DeadStore, 0, len(r.DeadStores)),
		Diagnostics: make([]Diagnostic, 0, r.Diagnostics.Count()),
		Stats: Stats{
			Lines:       r.Stats.Lines,
			Tokens:      r.Stats.Tokens,
			Statements:  r.Stats.Statements,
			Assignments: r.Stats.Assignments,
			DeadStores:  r.Stats.DeadStores,
		},
		diagnostics: r.Diagnostics,
	}

	for _, f := range r.DeadStores {
		ds := DeadStore{
			Line:      f.Line,
			Column:    f.Column,
			Variable:  f.Variable,
			Statement: f.Statement,
		}
		if f.OverwrittenAt != nil {
			ds.OverwrittenAt = &Position{Line: f.OverwrittenAt.Line, Column: f.OverwrittenAt.Column}
		}
		result.DeadStores = append(result.DeadStores, ds)
	}
	for _, e := range r.Errors {
		result.Errors = append(result.Errors, Error{
			Code:    e.Code,
			Message: e.Message,
			Line:    e.Line,
			Column:  e.Column,
		})
	}
	for _, d := range r.Diagnostics.Diagnostics() {
		out := Diagnostic{
			Severity: d.Severity.String(),
			Code:     string(d.Code),
			Message:  d.Message,
			Line:     d.Range.Start.Line,
			Column:   d.Range.Start.Column,
		}
		for _, rel := range d.Related {
			out.Related = append(out.Related, Related{
				Message: rel.Message,
				Line:    rel.Range.Start.Line,
				Column:  rel.Range.Start.Column,
			})
		}
		result.Diagnostics = append(result.Diagnostics, out)
	}

	return result
}

// Format parses source and prints it back in canonical layout.
// With minify, the whole program is printed on one line.
func Format(source string, minify bool) (string, error) {
	program, err := parser.ParseSource(source)
	if err != nil {
		return "", err
	}
	return printer.New(printer.Options{MinifyWhitespace: minify}).Print(program), nil
}
