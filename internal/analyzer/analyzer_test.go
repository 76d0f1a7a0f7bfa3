package analyzer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/HugoDaniel/deadstore/internal/diagnostic"
	"github.com/HugoDaniel/deadstore/internal/test"
)

func TestAnalyzeFindings(t *testing.T) {
	result := Analyze("a = 1\nb = a\nx = 3\ny = 4\nwhile (b < 5)\n  z = x\n  b = b + 1\n  x = 9\n  y = 10\nend\n")

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	test.AssertDeepEqual(t, result.DeadStores, []Finding{
		{Line: 4, Column: 1, Variable: "y", Statement: "y = 4", OverwrittenAt: &diagnostic.Position{Line: 9, Column: 3}},
		{Line: 6, Column: 3, Variable: "z", Statement: "z = x"},
		{Line: 9, Column: 3, Variable: "y", Statement: "y = 10"},
	})
	test.AssertDeepEqual(t, result.Stats, Stats{
		Lines:       10,
		Tokens:      33,
		Statements:  9,
		Assignments: 8,
		DeadStores:  3,
	})
	if result.Program == nil {
		t.Error("expected the parsed program")
	}
}

func TestAnalyzeDiagnostics(t *testing.T) {
	result := Analyze("a = 1\nb = a")

	diags := result.Diagnostics.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	test.AssertEqual(t, diags[0].Severity, diagnostic.Warning)
	test.AssertEqual(t, diags[0].Code, diagnostic.CodeDeadStore)
	test.AssertEqual(t, diags[0].Message, "value assigned to b is never read")
	test.AssertEqual(t, len(diags[0].Related), 0)

	expected := "2:1: warning[W0001]: value assigned to b is never read\n" +
		"    b = a\n" +
		"    ^\n"
	test.AssertEqualWithDiff(t, result.Diagnostics.Format(diagnostic.FormatOptions{}), expected)
}

func TestAnalyzeOverwrittenNote(t *testing.T) {
	result := Analyze("x = 1\n  x = 2\ny = x")
	test.AssertDeepEqual(t, result.DeadStores, []Finding{
		{
			Line: 1, Column: 1, Variable: "x", Statement: "x = 1",
			OverwrittenAt: &diagnostic.Position{Line: 2, Column: 3},
		},
		{Line: 3, Column: 1, Variable: "y", Statement: "y = x"},
	})

	expected := "1:1: warning[W0001]: value assigned to x is never read\n" +
		"    x = 1\n" +
		"    ^\n" +
		"  2:3: note: overwritten here\n" +
		"3:1: warning[W0001]: value assigned to y is never read\n" +
		"    y = x\n" +
		"    ^\n"
	test.AssertEqualWithDiff(t, result.Diagnostics.Format(diagnostic.FormatOptions{}), expected)
}

func TestAnalyzeErrorCodes(t *testing.T) {
	cases := []struct {
		source string
		code   diagnostic.DiagnosticCode
		line   int
		column int
	}{
		{"a = 1 # 2", diagnostic.CodeUnrecognizedChar, 1, 7},
		{"a = 1.", diagnostic.CodeInvalidNumber, 1, 5},
		{"ab = 1", diagnostic.CodeInvalidIdentifier, 1, 1},
		{"a = 1\nb = a end", diagnostic.CodeTrailingTokens, 2, 7},
		{"while a < 3 b = 1", diagnostic.CodeMissingEnd, 1, 18},
		{"a = + 1", diagnostic.CodeUnexpectedToken, 1, 5},
	}

	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			result := Analyze(tc.source)
			if len(result.Errors) != 1 {
				t.Fatalf("expected 1 error, got %v", result.Errors)
			}
			err := result.Errors[0]
			test.AssertEqual(t, err.Code, string(tc.code))
			test.AssertEqual(t, err.Line, tc.line)
			test.AssertEqual(t, err.Column, tc.column)
			test.AssertEqual(t, len(result.DeadStores), 0)
			diags := result.Diagnostics.Diagnostics()
			if len(diags) != 1 || diags[0].Severity != diagnostic.Error {
				t.Errorf("expected one error diagnostic, got %v", diags)
			}
			if result.Program != nil {
				t.Error("expected no program on error")
			}
		})
	}
}

func TestAnalyzeUnsorted(t *testing.T) {
	source := "z = 1\ny = 2\ny = 3\na = 4"

	sorted := Analyze(source)
	unsorted := New(Options{}).Analyze(source)

	statements := func(r Result) string {
		var parts []string
		for _, f := range r.DeadStores {
			parts = append(parts, f.Statement)
		}
		return strings.Join(parts, ", ")
	}
	test.AssertEqual(t, statements(sorted), "z = 1, y = 2, y = 3, a = 4")
	test.AssertEqual(t, statements(unsorted), "y = 2, a = 4, y = 3, z = 1")
}

func TestAnalyzeFilter(t *testing.T) {
	filter := diagnostic.NewFilter()
	filter.DisableRule(diagnostic.CodeDeadStore)

	result := New(Options{SortByLine: true, Filter: filter}).Analyze("a = 1")
	test.AssertEqual(t, len(result.DeadStores), 0)
	test.AssertEqual(t, result.Stats.DeadStores, 0)
	test.AssertEqual(t, result.Diagnostics.Count(), 0)

	filter.SetRule(diagnostic.CodeDeadStore, diagnostic.Error)
	result = New(Options{SortByLine: true, Filter: filter}).Analyze("a = 1")
	test.AssertEqual(t, len(result.DeadStores), 1)
	test.AssertEqual(t, result.Diagnostics.Diagnostics()[0].Severity, diagnostic.Error)
}

func TestAnalyzeLogsStages(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	New(Options{SortByLine: true, Logger: logger}).Analyze("a = 1\nb = a")

	out := buf.String()
	for _, want := range []string{"tokenized", "parsed", "checked", "deadStores=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeEmptySource(t *testing.T) {
	result := Analyze("")
	if len(result.Errors) != 1 {
		t.Fatalf("expected an error for empty source, got %v", result.Errors)
	}
	test.AssertEqual(t, result.Stats.Lines, 0)
}

func TestCountLines(t *testing.T) {
	test.AssertEqual(t, countLines("a = 1"), 1)
	test.AssertEqual(t, countLines("a = 1\nb = 2\n"), 2)
	test.AssertEqual(t, countLines("a = 1\n\nb = 2"), 3)
}
