// Package printer writes human oriented status messages for commands.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/ctt/internal/core/styles"
)

type ctxKey struct{}

// Printer prefixes messages with a coloured marker.
type Printer struct {
	out     io.Writer
	success lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
}

// New returns a printer writing to out with colours from p.
func New(out io.Writer, p styles.Palette) *Printer {
	return &Printer{
		out:     out,
		success: lipgloss.NewStyle().Foreground(p.Success),
		info:    lipgloss.NewStyle().Foreground(p.Primary),
		warn:    lipgloss.NewStyle().Foreground(p.Warning),
		err:     lipgloss.NewStyle().Foreground(p.Error),
	}
}

// NewContext stores p on ctx.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored on ctx, or a stderr printer with the
// default theme.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	p, _ := styles.GetPalette(styles.DefaultTheme)
	return New(os.Stderr, p)
}

func (p *Printer) line(prefix lipgloss.Style, mark, format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, "%s %s\n", prefix.Render(mark), fmt.Sprintf(format, args...))
}

// Successf prints a success message.
func (p *Printer) Successf(format string, args ...any) {
	p.line(p.success, "✔", format, args...)
}

// Infof prints an informational message.
func (p *Printer) Infof(format string, args ...any) {
	p.line(p.info, "•", format, args...)
}

// Warnf prints a warning.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.warn, "!", format, args...)
}

// Errorf prints an error message.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(p.err, "✘", format, args...)
}

// Printf prints an unprefixed line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}
