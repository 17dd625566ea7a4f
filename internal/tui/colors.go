// Package tui is the interactive terminal front end for an analysis session.
package tui

import "github.com/charmbracelet/lipgloss"

// ColorScheme is the palette a Theme is built from.
type ColorScheme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Positive  lipgloss.Color
	Warning   lipgloss.Color
	Negative  lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	Border    lipgloss.Color
	Highlight lipgloss.Color
}

// DarkScheme is the default scheme.
var DarkScheme = ColorScheme{
	Primary:   lipgloss.Color("#7C3AED"), // Purple
	Secondary: lipgloss.Color("#06B6D4"), // Cyan
	Positive:  lipgloss.Color("#10B981"), // Green
	Warning:   lipgloss.Color("#F59E0B"), // Amber
	Negative:  lipgloss.Color("#EF4444"), // Red
	Text:      lipgloss.Color("#E5E7EB"),
	TextMuted: lipgloss.Color("#9CA3AF"),
	Border:    lipgloss.Color("#374151"),
	Highlight: lipgloss.Color("#FDE68A"),
}

// LightScheme is used with ui.theme=light.
var LightScheme = ColorScheme{
	Primary:   lipgloss.Color("#6D28D9"),
	Secondary: lipgloss.Color("#0891B2"),
	Positive:  lipgloss.Color("#059669"),
	Warning:   lipgloss.Color("#D97706"),
	Negative:  lipgloss.Color("#DC2626"),
	Text:      lipgloss.Color("#1F2937"),
	TextMuted: lipgloss.Color("#6B7280"),
	Border:    lipgloss.Color("#D1D5DB"),
	Highlight: lipgloss.Color("#B45309"),
}

// SchemeFor returns the scheme for a theme name. Unknown names get the dark scheme.
func SchemeFor(theme string) ColorScheme {
	if theme == "light" {
		return LightScheme
	}
	return DarkScheme
}
