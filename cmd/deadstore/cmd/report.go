package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HugoDaniel/deadstore/internal/config"
	"github.com/HugoDaniel/deadstore/internal/diagnostic"
	"github.com/HugoDaniel/deadstore/pkg/api"
)

var (
	colorError   = lipgloss.Color("#EF4444") // Red
	colorWarning = lipgloss.Color("#F59E0B") // Amber
	colorInfo    = lipgloss.Color("#06B6D4") // Cyan
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorSuccess = lipgloss.Color("#10B981") // Emerald
)

type styles struct {
	location lipgloss.Style
	error    lipgloss.Style
	warning  lipgloss.Style
	info     lipgloss.Style
	code     lipgloss.Style
	source   lipgloss.Style
	caret    lipgloss.Style
	note     lipgloss.Style
	summary  lipgloss.Style
	clean    lipgloss.Style
}

// newStyles returns the report styles for w. Without color every style
// renders its text unchanged.
func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		plain := r.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		location: r.NewStyle().Bold(true),
		error:    r.NewStyle().Foreground(colorError).Bold(true),
		warning:  r.NewStyle().Foreground(colorWarning).Bold(true),
		info:     r.NewStyle().Foreground(colorInfo),
		code:     r.NewStyle().Foreground(colorMuted),
		source:   r.NewStyle().Foreground(colorMuted),
		caret:    r.NewStyle().Foreground(colorWarning),
		note:     r.NewStyle().Foreground(colorInfo),
		summary:  r.NewStyle().Bold(true),
		clean:    r.NewStyle().Foreground(colorSuccess),
	}
}

func (s styles) severity(sev diagnostic.Severity, name string) string {
	switch sev {
	case diagnostic.Error:
		return s.error.Render(name)
	case diagnostic.Warning:
		return s.warning.Render(name)
	default:
		return s.info.Render(name)
	}
}

// text returns the diagnostic styles. Without color it returns none so the
// formatter output is left untouched.
func (s styles) text(color bool) api.TextStyles {
	if !color {
		return api.TextStyles{}
	}
	return api.TextStyles{
		Location: render(s.location),
		Severity: s.severity,
		Code:     render(s.code),
		Source:   render(s.source),
		Caret:    render(s.caret),
		Note:     render(s.note),
	}
}

func render(style lipgloss.Style) func(string) string {
	return func(text string) string { return style.Render(text) }
}

// writeText prints the diagnostics of every file followed by a summary
// line:
//
//	file:1:1: warning[W0001]: value assigned to y is never read
//	    y = 4
//	    ^
//	  file:2:1: note: overwritten here
//	1 dead store in 1 file
func writeText(w io.Writer, reports []fileReport, opts config.Options) error {
	st := newStyles(w, opts.Color)
	textStyles := st.text(opts.Color)
	var b strings.Builder

	deadStores, files := 0, 0
	for _, report := range reports {
		b.WriteString(report.FormatText(api.TextOptions{
			File:       report.File,
			HideSource: !opts.ShowSource,
			Styles:     textStyles,
		}))
		if n := len(report.DeadStores); n > 0 {
			deadStores += n
			files++
		}
	}

	switch {
	case deadStores > 0:
		b.WriteString(st.summary.Render(fmt.Sprintf("%d dead %s in %d %s",
			deadStores, plural(deadStores, "store", "stores"), files, plural(files, "file", "files"))))
	case hasErrors(reports):
		b.WriteString(st.error.Render("analysis failed"))
	default:
		b.WriteString(st.clean.Render("no dead stores"))
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func hasErrors(reports []fileReport) bool {
	for _, r := range reports {
		if len(r.Errors) > 0 {
			return true
		}
	}
	return false
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
