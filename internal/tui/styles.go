package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/narrative-risk/riskview/internal/core"
	"github.com/narrative-risk/riskview/internal/report"
)

// Theme holds every style the model renders with.
type Theme struct {
	Name    string
	NoColor bool

	Header   lipgloss.Style
	Badge    lipgloss.Style
	InputBox lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Running  lipgloss.Style
	Status   lipgloss.Style
	Cursor   lipgloss.Style
	Heading  lipgloss.Style

	tones map[core.Tone]lipgloss.Style
}

// NewTheme builds a theme from a theme name. With noColor set every style is
// unstyled apart from borders.
func NewTheme(name string, noColor bool) Theme {
	if noColor {
		plain := lipgloss.NewStyle()
		return Theme{
			Name:     name,
			NoColor:  true,
			Header:   plain.Bold(true),
			Badge:    plain.Padding(0, 1),
			InputBox: plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
			Muted:    plain,
			Error:    plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
			Running:  plain,
			Status:   plain,
			Cursor:   plain,
			Heading:  plain,
			tones:    map[core.Tone]lipgloss.Style{},
		}
	}

	c := SchemeFor(name)
	return Theme{
		Name: name,
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(c.Primary),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(c.Primary).
			Padding(0, 1).
			Bold(true),
		InputBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.Primary).
			Padding(0, 1),
		Muted: lipgloss.NewStyle().
			Foreground(c.TextMuted),
		Error: lipgloss.NewStyle().
			Foreground(c.Negative).
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.Negative).
			Padding(0, 1),
		Running: lipgloss.NewStyle().
			Foreground(c.Secondary).
			Bold(true),
		Status: lipgloss.NewStyle().
			Foreground(c.Secondary),
		Cursor: lipgloss.NewStyle().
			Foreground(c.Highlight).
			Bold(true),
		Heading: lipgloss.NewStyle().
			Foreground(c.Primary).
			Bold(true),
		tones: map[core.Tone]lipgloss.Style{
			core.ToneNeutral:  lipgloss.NewStyle().Foreground(c.Text),
			core.TonePositive: lipgloss.NewStyle().Foreground(c.Positive),
			core.ToneWarning:  lipgloss.NewStyle().Foreground(c.Warning),
			core.ToneNegative: lipgloss.NewStyle().Foreground(c.Negative).Bold(true),
		},
	}
}

// Tone renders text in the style for a descriptor tone.
func (t Theme) Tone(tone core.Tone, text string) string {
	if s, ok := t.tones[tone]; ok {
		return s.Render(text)
	}
	return text
}

// StatusBadge renders the session status shown in the header.
func (t Theme) StatusBadge(label string, tone core.Tone) string {
	if t.NoColor {
		return "[" + label + "]"
	}
	s := t.Badge
	if style, ok := t.tones[tone]; ok && tone != core.ToneNeutral {
		s = s.Background(style.GetForeground())
	}
	return s.Render(label)
}

// ReportStyles adapts the theme for report.Text.
func (t Theme) ReportStyles() report.Styles {
	if t.NoColor {
		return report.Styles{}
	}
	return report.Styles{
		Heading: render(t.Heading),
		Muted:   render(t.Muted),
		Tone:    t.Tone,
		Cursor:  render(t.Cursor),
	}
}

func render(s lipgloss.Style) func(string) string {
	return func(text string) string { return s.Render(text) }
}
