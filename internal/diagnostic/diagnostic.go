// Package diagnostic provides error reporting and diagnostic messages for
// deadstore analysis.
//
// Diagnostics carry a severity, a stable code, a source range and optional
// related locations. A DiagnosticList formats them with the offending
// source line and a caret under the reported column.
package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic.
type Severity uint8

const (
	// Error stops the analysis of a program.
	Error Severity = iota
	// Warning is a finding that does not stop the analysis.
	Warning
	// Info is an informational message.
	Info
	// Note provides additional context for another diagnostic.
	Note

	// Off disables a diagnostic in a Filter.
	Off Severity = 255
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Note:
		return "note"
	case Off:
		return "off"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a name such as "warning" or "off" to a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return Error, nil
	case "warning", "warn":
		return Warning, nil
	case "info":
		return Info, nil
	case "note":
		return Note, nil
	case "off", "none":
		return Off, nil
	}
	return Off, fmt.Errorf("unknown severity %q", name)
}

// Position represents a position in source code.
type Position struct {
	Line   int // Line number (1-based)
	Column int // Column number (1-based)
}

// Range represents a range in source code.
type Range struct {
	Start Position
	End   Position
}

// RelatedInfo provides additional location information for a diagnostic.
type RelatedInfo struct {
	Range   Range
	Message string
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Severity Severity
	Code     DiagnosticCode
	Message  string
	Range    Range
	Related  []RelatedInfo
}

// DiagnosticList collects diagnostics for one source.
type DiagnosticList struct {
	diagnostics []Diagnostic
	lines       []string
	filter      *Filter
}

// NewDiagnosticList creates a new diagnostic list for the given source.
func NewDiagnosticList(source string) *DiagnosticList {
	return &DiagnosticList{
		diagnostics: make([]Diagnostic, 0),
		lines:       strings.Split(source, "\n"),
	}
}

// SetFilter installs a filter applied to diagnostics added afterwards.
func (dl *DiagnosticList) SetFilter(f *Filter) {
	dl.filter = f
}

// Add adds a diagnostic to the list, unless the filter turns it off.
func (dl *DiagnosticList) Add(d Diagnostic) {
	if dl.filter != nil {
		d.Severity = dl.filter.SeverityFor(d.Code, d.Severity)
		if d.Severity == Off {
			return
		}
	}
	dl.diagnostics = append(dl.diagnostics, d)
}

// AddWithCode adds a diagnostic with a code. The range covers one column.
func (dl *DiagnosticList) AddWithCode(severity Severity, line, column int, code DiagnosticCode, message string) {
	dl.Add(Diagnostic{
		Severity: severity,
		Code:     code,
		Message:  message,
		Range:    PointRange(line, column, 1),
	})
}

// PointRange returns a single-line range of the given width.
func PointRange(line, column, width int) Range {
	if width < 1 {
		width = 1
	}
	return Range{
		Start: Position{Line: line, Column: column},
		End:   Position{Line: line, Column: column + width},
	}
}

// Diagnostics returns all collected diagnostics.
func (dl *DiagnosticList) Diagnostics() []Diagnostic {
	return dl.diagnostics
}

// Count returns the total number of diagnostics.
func (dl *DiagnosticList) Count() int {
	return len(dl.diagnostics)
}

// ----------------------------------------------------------------------------
// Formatting
// ----------------------------------------------------------------------------

// Styles decorates the parts of a formatted diagnostic. A nil func leaves
// its part unchanged.
type Styles struct {
	Location func(string) string           // "file:3:1:"
	Severity func(Severity, string) string // "warning"
	Code     func(string) string           // "[W0001]"
	Source   func(string) string           // the quoted source line
	Caret    func(string) string           // "^~~"
	Note     func(string) string           // a related location and its message
}

func apply(style func(string) string, s string) string {
	if style == nil {
		return s
	}
	return style(s)
}

// FormatOptions controls Format.
type FormatOptions struct {
	// File prefixes every location when set
	File string

	// HideSource omits the source line and caret
	HideSource bool

	Styles Styles
}

// Format formats all diagnostics as a human-readable string.
func (dl *DiagnosticList) Format(opts FormatOptions) string {
	var sb strings.Builder
	for i := range dl.diagnostics {
		dl.formatDiagnostic(&sb, &dl.diagnostics[i], opts)
	}
	return sb.String()
}

// formatDiagnostic writes one diagnostic with source context:
//
//	3:1: warning[W0001]: value assigned to y is never read
//	    y = 4
//	    ^
//	  5:1: note: overwritten here
func (dl *DiagnosticList) formatDiagnostic(sb *strings.Builder, d *Diagnostic, opts FormatOptions) {
	st := opts.Styles
	start := d.Range.Start

	sb.WriteString(apply(st.Location, location(opts.File, start)))
	sb.WriteByte(' ')
	severity := d.Severity.String()
	if st.Severity != nil {
		severity = st.Severity(d.Severity, severity)
	}
	sb.WriteString(severity)
	if d.Code != "" {
		sb.WriteString(apply(st.Code, "["+string(d.Code)+"]"))
	}
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	sb.WriteByte('\n')

	if line := dl.sourceLine(start.Line); !opts.HideSource && line != "" && start.Column > 0 {
		sb.WriteString("    ")
		sb.WriteString(apply(st.Source, line))
		sb.WriteByte('\n')

		caret := "^"
		if d.Range.End.Line == start.Line && d.Range.End.Column > start.Column {
			caret += strings.Repeat("~", d.Range.End.Column-start.Column-1)
		}
		sb.WriteString(strings.Repeat(" ", start.Column-1+4))
		sb.WriteString(apply(st.Caret, caret))
		sb.WriteByte('\n')
	}

	for _, rel := range d.Related {
		sb.WriteString("  ")
		sb.WriteString(apply(st.Note, location(opts.File, rel.Range.Start)+" note: "+rel.Message))
		sb.WriteByte('\n')
	}
}

func location(file string, pos Position) string {
	if file == "" {
		return fmt.Sprintf("%d:%d:", pos.Line, pos.Column)
	}
	return fmt.Sprintf("%s:%d:%d:", file, pos.Line, pos.Column)
}

// sourceLine returns the source code line at the given 1-based line number.
func (dl *DiagnosticList) sourceLine(line int) string {
	if line < 1 || line > len(dl.lines) {
		return ""
	}
	return strings.TrimRight(dl.lines[line-1], "\r")
}

// DiagnosticCode defines standard diagnostic codes.
type DiagnosticCode string

const (
	// Syntax errors (E00xx)
	CodeUnexpectedToken   DiagnosticCode = "E0001"
	CodeUnrecognizedChar  DiagnosticCode = "E0002"
	CodeInvalidNumber     DiagnosticCode = "E0003"
	CodeInvalidIdentifier DiagnosticCode = "E0004"
	CodeTrailingTokens    DiagnosticCode = "E0005"
	CodeMissingEnd        DiagnosticCode = "E0006"

	// Analysis findings (W00xx)
	CodeDeadStore DiagnosticCode = "W0001"

	// Internal errors (E09xx)
	CodeInternal DiagnosticCode = "E0900"
)

// Filter overrides the severity of diagnostics by code.
type Filter struct {
	Rules map[DiagnosticCode]Severity
}

// NewFilter creates an empty filter.
func NewFilter() *Filter {
	return &Filter{Rules: make(map[DiagnosticCode]Severity)}
}

// SetRule sets the severity for a diagnostic code.
func (f *Filter) SetRule(code DiagnosticCode, severity Severity) {
	f.Rules[code] = severity
}

// DisableRule turns a diagnostic code off.
func (f *Filter) DisableRule(code DiagnosticCode) {
	f.Rules[code] = Off
}

// SeverityFor returns the severity for a code, or defaultSev if no rule is
// set. Errors cannot be lowered or disabled.
func (f *Filter) SeverityFor(code DiagnosticCode, defaultSev Severity) Severity {
	if defaultSev == Error {
		return Error
	}
	if sev, ok := f.Rules[code]; ok {
		return sev
	}
	return defaultSev
}
