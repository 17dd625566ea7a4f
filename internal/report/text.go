// Package report renders analysis reports as terminal text, JSON or YAML.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/narrative-risk/riskview/internal/core"
)

// Styles decorates rendered text. Nil fields leave text unchanged.
type Styles struct {
	Heading func(string) string
	Muted   func(string) string
	Tone    func(core.Tone, string) string
	Cursor  func(string) string
}

func (s Styles) heading(text string) string {
	if s.Heading == nil {
		return text
	}
	return s.Heading(text)
}

func (s Styles) muted(text string) string {
	if s.Muted == nil {
		return text
	}
	return s.Muted(text)
}

func (s Styles) tone(t core.Tone, text string) string {
	if s.Tone == nil {
		return text
	}
	return s.Tone(t, text)
}

func (s Styles) cursor(text string) string {
	if s.Cursor == nil {
		return text
	}
	return s.Cursor(text)
}

// Options controls text rendering.
type Options struct {
	Styles Styles
	// Markdown renders the AI analysis section; raw markdown is printed when nil.
	Markdown MarkdownRenderer
	// View is a precomputed aggregate of the report's cross-check section.
	// When nil it is computed from the report.
	View *core.CrossCheckView
	// ExpandAll lists the sources of every claim.
	ExpandAll bool
	// Expanded lists the sources of the claims at these indexes.
	Expanded map[int]bool
	// Cursor marks the claim at this index when ShowCursor is set.
	Cursor     int
	ShowCursor bool
	// Catalogue replaces the aggregate's source catalogue, e.g. with a filtered subset.
	Catalogue []core.CatalogueEntry
	// SourcesHint is appended to the collapsed source count of a claim.
	SourcesHint string
}

const (
	labelWidth = 16
	barWidth   = 20
)

type writer struct {
	b      strings.Builder
	styles Styles
}

func (w *writer) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *writer) field(label, value string) {
	w.line("%-*s%s", labelWidth, label, value)
}

func (w *writer) section(title string) {
	if w.b.Len() > 0 {
		w.b.WriteByte('\n')
	}
	w.line("%s", w.styles.heading(strings.ToUpper(title)))
}

// Text renders r for a terminal. Sections absent from the report are omitted.
func Text(r *core.AnalysisReport, opts Options) string {
	if r == nil {
		return ""
	}
	w := &writer{styles: opts.Styles}

	writeOverview(w, r)
	writeSentiment(w, r.Sentiment)
	writeReasons(w, r)

	view := opts.View
	if view == nil {
		view = core.AggregateCrossCheck(r.CrossCheck)
	}
	if view != nil {
		writeVerification(w, view, opts)
		writeClaims(w, view, opts)
	}

	writeRelated(w, r.Related)
	writeAI(w, r.AIAnalysis, opts.Markdown)

	return w.b.String()
}

// InputLabel names the input type for display.
func InputLabel(t core.InputType) string {
	switch {
	case t == core.InputURL:
		return "URL"
	case t.IsTopic():
		return "Topic"
	case t == "":
		return "Unknown"
	default:
		return string(t)
	}
}

func badge(s Styles, d core.Descriptor) string {
	return s.tone(d.Tone, d.Icon+" "+d.Label)
}

func writeOverview(w *writer, r *core.AnalysisReport) {
	w.section("Narrative risk report")
	w.field("Input", InputLabel(r.InputType))
	w.field("Risk level", badge(w.styles, core.DescribeRisk(r.RiskLevel)))

	if r.MisinformationScore > 0 || r.Confidence != "" {
		score := fmt.Sprintf("%d/100", r.MisinformationScore)
		if r.Confidence != "" {
			score += w.styles.muted(fmt.Sprintf(" (confidence %s)", r.Confidence))
		}
		w.field("Misinformation", score)
	}
	w.field("Source trust", fmt.Sprintf("%.2f", r.SourceTrustScore))
	w.field("Similarity", fmt.Sprintf("%.2f", r.SimilarityScore))
	if r.ReputationScore > 0 || r.ReputationLevel != "" {
		rep := fmt.Sprintf("%d/100", r.ReputationScore)
		if r.ReputationLevel != "" {
			rep += " " + badge(w.styles, core.DescribeRisk(r.ReputationLevel))
		}
		w.field("Reputation risk", rep)
	}
	if s := strings.TrimSpace(r.Summary); s != "" {
		w.line("")
		w.line("%s", s)
	}
}

func writeSentiment(w *writer, s *core.Sentiment) {
	if s == nil {
		return
	}
	w.section("Sentiment")
	rows := []struct {
		label string
		pct   float64
		tone  core.Tone
	}{
		{"Positive", s.Positive, core.TonePositive},
		{"Neutral", s.Neutral, core.ToneNeutral},
		{"Negative", s.Negative, core.ToneNegative},
	}
	for _, row := range rows {
		w.field(row.label, w.styles.tone(row.tone, Bar(row.pct, barWidth))+fmt.Sprintf(" %3.0f%%", row.pct))
	}
}

// Bar draws a horizontal bar for a 0-100 percentage.
func Bar(pct float64, width int) string {
	if math.IsNaN(pct) {
		pct = 0
	}
	filled := int(math.Round(pct / 100 * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func writeReasons(w *writer, r *core.AnalysisReport) {
	if len(r.Reasons) == 0 {
		return
	}
	w.section("Reasons")
	for _, reason := range r.Reasons {
		w.line("  • %s", reason)
	}
}

func writeVerification(w *writer, v *core.CrossCheckView, opts Options) {
	w.section("Verification")
	w.field("Claims checked", fmt.Sprintf("%d", v.ClaimsChecked))

	platforms := "none"
	if len(v.PlatformsSearched) > 0 {
		platforms = strings.Join(v.PlatformsSearched, ", ")
	}
	w.field("Platforms", platforms)
	w.field("Reliability", badge(w.styles, core.DescribeReliability(v.Reliability)))

	counts := make([]string, 0, 4)
	for _, verdict := range []core.Verdict{
		core.VerdictLikelyTrue, core.VerdictLikelyFalse, core.VerdictDisputed, core.VerdictUnverified,
	} {
		d := core.DescribeVerdict(verdict)
		counts = append(counts, w.styles.tone(d.Tone, fmt.Sprintf("%s %d %s", d.Icon, v.Tally.Count(verdict), d.Label)))
	}
	w.field("Verdicts", strings.Join(counts, "  "))

	if v.Alert {
		w.line("%s", w.styles.tone(core.ToneNegative, "⚠ "+v.AlertMessage))
	}

	catalogue := v.Catalogue
	if opts.Catalogue != nil {
		catalogue = opts.Catalogue
	}
	if len(catalogue) > 0 {
		w.line("Sources")
		for _, e := range catalogue {
			if host := core.Hostname(e.URL); host != "" {
				w.line("  • %s %s", e.Name, w.styles.muted(host))
			} else {
				w.line("  • %s", e.Name)
			}
		}
	}
}

func writeClaims(w *writer, v *core.CrossCheckView, opts Options) {
	w.section("Claims")
	hint := opts.SourcesHint
	for i, c := range v.Claims {
		marker := "  "
		if opts.ShowCursor && opts.Cursor == i {
			marker = w.styles.cursor("▸ ")
		}
		head := fmt.Sprintf("%d. %s", i+1, badge(w.styles, c.Descriptor))
		head += w.styles.muted(fmt.Sprintf(" · %.0f%% confidence", c.Claim.Confidence*100))
		w.line("%s%s", marker, head)
		w.line("     %s", c.Claim.Claim)
		if corr := c.Claim.Correction(); corr != "" {
			w.line("     Correction: %s", corr)
		}

		if !c.ShowSourcesAffordance() {
			continue
		}
		if !opts.ExpandAll && !opts.Expanded[i] {
			count := pluralSources(c.SourceCount())
			if hint != "" {
				count += w.styles.muted(" (" + hint + ")")
			}
			w.line("     %s", count)
			continue
		}
		writeStanceGroup(w, core.StanceSupports, c.Stances.Supports)
		writeStanceGroup(w, core.StanceContradicts, c.Stances.Contradicts)
		writeStanceGroup(w, core.StanceNeutral, c.Stances.Neutral)
	}
}

func pluralSources(n int) string {
	if n == 1 {
		return "1 source"
	}
	return fmt.Sprintf("%d sources", n)
}

func writeStanceGroup(w *writer, stance core.Stance, sources []core.Source) {
	if len(sources) == 0 {
		return
	}
	d := core.DescribeStance(stance)
	w.line("     %s", w.styles.tone(d.Tone, fmt.Sprintf("%s %s (%d)", d.Icon, d.Label, len(sources))))
	for _, s := range sources {
		name := s.Source
		if name == "" {
			name = s.Platform
		}
		if name == "" {
			name = "Unknown source"
		}
		if s.Title != "" {
			name += ": " + s.Title
		}
		w.line("       %s", name)
		if s.URL != "" {
			w.line("       %s", w.styles.muted(s.URL))
		}
	}
}

func writeRelated(w *writer, rel *core.RelatedInfo) {
	if rel == nil {
		return
	}
	writeArticles(w, "Related coverage", rel.Articles)
	writeArticles(w, "Fact checks", rel.FactChecks)
	if len(rel.Entities) > 0 {
		w.section("Entities")
		names := make([]string, 0, len(rel.Entities))
		for _, e := range rel.Entities {
			if e.Type != "" {
				names = append(names, fmt.Sprintf("%s (%s)", e.Name, e.Type))
			} else {
				names = append(names, e.Name)
			}
		}
		w.line("  %s", strings.Join(names, ", "))
	}
}

func writeArticles(w *writer, title string, articles []core.RelatedArticle) {
	if len(articles) == 0 {
		return
	}
	w.section(title)
	for _, a := range articles {
		if a.Source != "" {
			w.line("  • %s %s", a.Title, w.styles.muted("("+a.Source+")"))
		} else {
			w.line("  • %s", a.Title)
		}
		if a.URL != "" {
			w.line("    %s", w.styles.muted(a.URL))
		}
	}
}

func writeAI(w *writer, ai *core.AIAnalysis, md MarkdownRenderer) {
	if ai == nil {
		return
	}
	body := aiMarkdown(ai.Verdict, ai.Analysis, ai.KeyFacts, ai.Recommendation)
	if body == "" {
		return
	}
	w.section("AI analysis")
	if md != nil {
		if out, err := md.Render(body); err == nil {
			w.line("%s", strings.TrimRight(out, "\n"))
			return
		}
	}
	w.line("%s", body)
}
