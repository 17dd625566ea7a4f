package report

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// MarkdownRenderer renders markdown for a terminal. *glamour.TermRenderer satisfies it.
type MarkdownRenderer interface {
	Render(in string) (string, error)
}

// NewMarkdownRenderer creates a glamour renderer for style ("auto", "dark",
// "light", "dracula", "notty" or "ascii") wrapped at width columns.
func NewMarkdownRenderer(style string, width int) (*glamour.TermRenderer, error) {
	if width < 40 {
		width = 40
	}
	if width > 120 {
		width = 120
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch strings.ToLower(style) {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	case "dracula":
		custom := styles.DraculaStyleConfig
		custom.Code = ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:           stringPtr("229"),
				BackgroundColor: stringPtr(""),
			},
		}
		opts = append(opts, glamour.WithStyles(custom))
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	return glamour.NewTermRenderer(opts...)
}

func stringPtr(s string) *string {
	return &s
}

// aiMarkdown builds the markdown body of the AI analysis section.
func aiMarkdown(verdict, analysis string, facts []string, recommendation string) string {
	var b strings.Builder
	if verdict != "" {
		b.WriteString("**Verdict:** ")
		b.WriteString(verdict)
		b.WriteString("\n\n")
	}
	if analysis != "" {
		b.WriteString(strings.TrimSpace(analysis))
		b.WriteString("\n\n")
	}
	if len(facts) > 0 {
		b.WriteString("**Key facts**\n\n")
		for _, f := range facts {
			b.WriteString("- ")
			b.WriteString(strings.TrimSpace(f))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if recommendation != "" {
		b.WriteString("**Recommendation:** ")
		b.WriteString(recommendation)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
