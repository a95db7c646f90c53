// Package tui renders assistant output in the terminal. Markdown answers
// go through glamour, panels and status lines are styled with lipgloss,
// and everything degrades to plain text when stdout is not a terminal.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/nekyl/twob"
)

// DefaultWidth is used when the terminal width cannot be determined.
const DefaultWidth = 100

// Printer writes styled output for one personality theme.
type Printer struct {
	out      io.Writer
	theme    twob.Theme
	plain    bool
	width    int
	renderer *markdownRenderer
}

// Option configures a Printer.
type Option func(*Printer)

// WithPlain forces plain-text output regardless of TTY detection.
func WithPlain() Option {
	return func(p *Printer) { p.plain = true }
}

// WithWidth overrides the detected terminal width.
func WithWidth(width int) Option {
	return func(p *Printer) { p.width = width }
}

// NewPrinter builds a printer for the given theme. Styling is enabled
// only when out is os.Stdout on a terminal; pipes get plain text.
func NewPrinter(out io.Writer, theme twob.Theme, opts ...Option) *Printer {
	p := &Printer{out: out, theme: theme}
	if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		p.plain = true
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.width <= 0 {
		p.width = detectWidth(out)
	}
	if !p.plain {
		p.renderer = newMarkdownRenderer(p.width)
	}
	return p
}

// Assistant prints a model answer. Markdown is rendered and framed in the
// personality's panel; plain mode prints the raw text under a header line.
func (p *Printer) Assistant(markdown string) {
	title := strings.TrimSpace(p.theme.Emoji + " " + p.theme.Title)
	if p.plain {
		fmt.Fprintf(p.out, "--- %s ---\n%s\n", title, strings.TrimRight(markdown, "\n"))
		return
	}
	body := p.renderer.render(markdown)
	p.panel(title, body, lipgloss.Color(p.theme.Color))
}

// Panel prints arbitrary text inside a titled personality-colored frame.
func (p *Printer) Panel(title, body string) {
	if p.plain {
		fmt.Fprintf(p.out, "--- %s ---\n%s\n", title, strings.TrimRight(body, "\n"))
		return
	}
	p.panel(title, body, lipgloss.Color(p.theme.Color))
}

// Info prints a dim status line.
func (p *Printer) Info(format string, args ...any) {
	p.line(infoStyle, "", format, args...)
}

// Success prints a confirmation line.
func (p *Printer) Success(format string, args ...any) {
	p.line(successStyle, "✔ ", format, args...)
}

// Warning prints a warning line.
func (p *Printer) Warning(format string, args ...any) {
	p.line(warningStyle, "⚠ ", format, args...)
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...any) {
	p.line(errorStyle, "✖ ", format, args...)
}

func (p *Printer) line(style lipgloss.Style, prefix, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.plain {
		fmt.Fprintln(p.out, prefix+msg)
		return
	}
	fmt.Fprintln(p.out, style.Render(prefix+msg))
}

func (p *Printer) panel(title, body string, color lipgloss.Color) {
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(p.width - 2)
	titled := lipgloss.NewStyle().Foreground(color).Bold(true).Render(title)
	fmt.Fprintln(p.out, titled)
	fmt.Fprintln(p.out, frame.Render(strings.TrimRight(body, "\n")))
}

func detectWidth(out io.Writer) int {
	if f, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return DefaultWidth
}
