package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/yamusic/internal/tasks"
)

var styles = NewPalette("#FFCC00", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func (p *Palette) Title(s string) string   { return p.title.Render(s) }
func (p *Palette) Success(s string) string { return p.ok.Render("✓ " + s) }
func (p *Palette) Error(s string) string   { return p.err.Render("✗ " + s) }
func (p *Palette) Warning(s string) string { return p.warn.Render("! " + s) }
func (p *Palette) Help(s string) string    { return p.help.Render(s) }

// Title renders a heading with the default palette.
func Title(s string) string { return styles.Title(s) }

func Success(format string, args ...any) string { return styles.Success(fmt.Sprintf(format, args...)) }
func Error(format string, args ...any) string   { return styles.Error(fmt.Sprintf(format, args...)) }
func Warning(format string, args ...any) string { return styles.Warning(fmt.Sprintf(format, args...)) }
func Help(s string) string                      { return styles.Help(s) }

// ProgressLine renders a progress update as one status line.
//
// Failed fetches and exports (messages carrying ✗) use the error style; everything else is dimmed.
func ProgressLine(u tasks.ProgressUpdate) string {
	line := fmt.Sprintf("%-16s %s", u.Phase, u.Message)
	switch {
	case strings.Contains(u.Message, "✗"):
		return styles.err.Render(line)
	case strings.Contains(u.Message, "✓"):
		return styles.ok.Render(line)
	default:
		return styles.help.Render(line)
	}
}
