// Package styles provides the lipgloss styles used for terminal output.
package styles

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/ctt/internal/core/status"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// Styles holds the rendered styles for one palette.
type Styles struct {
	Header   lipgloss.Style
	Location lipgloss.Style
	Duration lipgloss.Style
	Warning  lipgloss.Style

	status map[status.Status]lipgloss.Style
}

// New builds the styles for p.
func New(p Palette) Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Location: lipgloss.NewStyle().Foreground(p.Muted),
		Duration: lipgloss.NewStyle().Foreground(p.Primary),
		Warning:  lipgloss.NewStyle().Foreground(p.Error),
		status: map[status.Status]lipgloss.Style{
			status.Todo:      lipgloss.NewStyle().Foreground(p.Foreground),
			status.Doing:     lipgloss.NewStyle().Bold(true).Foreground(p.Warning),
			status.Done:      lipgloss.NewStyle().Foreground(p.Success),
			status.Cancelled: lipgloss.NewStyle().Strikethrough(true).Foreground(p.Muted),
		},
	}
}

// ForTheme builds the styles for a named theme, falling back to the default
// theme for unknown names.
func ForTheme(name string) Styles {
	p, ok := GetPalette(name)
	if !ok {
		p = themes[DefaultTheme]
	}
	return New(p)
}

// Status returns the style for s.
func (s Styles) Status(st status.Status) lipgloss.Style {
	if style, ok := s.status[st]; ok {
		return style
	}
	return lipgloss.NewStyle()
}
