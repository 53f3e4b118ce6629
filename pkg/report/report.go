// Package report renders diagnostics and output diffs for the terminal.
//
// Design: Colors only when writing to a TTY. The plain form is the stable
// "Severity [span]: #code message" listing tools can grep.
package report

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/valdisz/PyToJs/pkg/diag"
)

var (
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#5C7A84")
)

type styles struct {
	file    lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	fatal   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	added   lipgloss.Style
	deleted lipgloss.Style
	hunk    lipgloss.Style
}

func colorStyles() styles {
	return styles{
		file:    lipgloss.NewStyle().Bold(true),
		warning: lipgloss.NewStyle().Foreground(ColorWarning),
		err:     lipgloss.NewStyle().Foreground(ColorError),
		fatal:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(ColorMuted),
		success: lipgloss.NewStyle().Foreground(ColorSuccess),
		added:   lipgloss.NewStyle().Foreground(ColorSuccess),
		deleted: lipgloss.NewStyle().Foreground(ColorError),
		hunk:    lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

type Printer struct {
	w     io.Writer
	color bool
	st    styles
}

// NewPrinter writes to f, with colors when f is a terminal.
func NewPrinter(f *os.File) *Printer {
	color := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return &Printer{w: f, color: color, st: colorStyles()}
}

// NewPlainPrinter writes uncolored text to w.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *Printer) severity(sev diag.Severity) string {
	switch sev {
	case diag.Warning:
		return p.render(p.st.warning, sev.String())
	case diag.Error:
		return p.render(p.st.err, sev.String())
	default:
		return p.render(p.st.fatal, sev.String())
	}
}

// Diagnostics lists list in source order, one per line, prefixed with
// file when it is not empty. list itself is not reordered.
func (p *Printer) Diagnostics(file string, list []diag.Diagnostic) {
	sorted := slices.Clone(list)
	diag.Sort(sorted)
	for _, d := range sorted {
		var sb strings.Builder
		if file != "" {
			sb.WriteString(p.render(p.st.file, file))
			sb.WriteString(": ")
		}
		fmt.Fprintf(&sb, "%s %s: %s %s",
			p.severity(d.Severity),
			p.render(p.st.muted, "["+d.Span.String()+"]"),
			p.render(p.st.muted, fmt.Sprintf("#%d", int(d.Code))),
			d.Message,
		)
		fmt.Fprintln(p.w, sb.String())
	}
}

// Error prints a one-line failure message.
func (p *Printer) Error(file string, err error) {
	prefix := ""
	if file != "" {
		prefix = p.render(p.st.file, file) + ": "
	}
	fmt.Fprintf(p.w, "%s%s %v\n", prefix, p.render(p.st.fatal, "error:"), err)
}

// Summary prints the batch totals.
func (p *Printer) Summary(translated, failed int) {
	line := fmt.Sprintf("%d translated, %d failed", translated, failed)
	if failed == 0 {
		line = p.render(p.st.success, line)
	} else {
		line = p.render(p.st.err, line)
	}
	fmt.Fprintln(p.w, line)
}

// Diff prints a unified diff, coloring added and removed lines.
func (p *Printer) Diff(unified []byte) {
	if !p.color {
		_, _ = p.w.Write(unified)
		return
	}
	for _, line := range strings.SplitAfter(string(unified), "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			text = p.render(p.st.file, text)
		case strings.HasPrefix(text, "@@"):
			text = p.render(p.st.hunk, text)
		case strings.HasPrefix(text, "+"):
			text = p.render(p.st.added, text)
		case strings.HasPrefix(text, "-"):
			text = p.render(p.st.deleted, text)
		}
		fmt.Fprintln(p.w, text)
	}
}
