package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleFile    = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// colorEnabled reports if w is an interactive terminal that accepts colors.
// NO_COLOR and TERM=dumb turn colors off.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printer writes human readable output, styled when the writer is a
// terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, color: colorEnabled(w)}
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) file(path string) {
	p.printf("%s\n", p.style(styleFile, path))
}

func (p *printer) issue(label string, s lipgloss.Style, category, detail string) {
	p.printf("  %s %s\n", p.style(s, label+"["+category+"]:"), detail)
}

func (p *printer) success(format string, args ...any) {
	p.printf("  %s %s\n", p.style(styleSuccess, "ok"), fmt.Sprintf(format, args...))
}

func (p *printer) note(format string, args ...any) {
	p.printf("  %s\n", p.style(styleDim, fmt.Sprintf(format, args...)))
}

func (p *printer) failure(err error) {
	p.printf("%s %v\n", p.style(styleError, "error:"), err)
	if h := hint(err); h != "" {
		p.printf("  %s\n", p.style(styleDim, "hint: "+h))
	}
}
