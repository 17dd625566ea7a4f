package mockserver

import (
	"strings"

	"github.com/narrative-risk/riskview/internal/core"
)

// CodeUnextractable marks a URL whose content could not be fetched.
const CodeUnextractable = "UNEXTRACTABLE_URL"

// unreachableSuffix marks hosts that simulate a page that cannot be scraped.
const unreachableSuffix = ".invalid"

// Analyze builds a demo report for input without touching the network.
//
// Every claim is left unverified with neutral Google and Wikipedia references,
// which is what the reference backend reports when no search credentials are
// configured. Related coverage is canned. Sentiment, coordination, trust and
// the risk assessment are computed from the input itself.
func Analyze(input string) (*core.AnalysisReport, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, core.ErrValidation(core.CodeEmptyInput, "Input cannot be empty.")
	}

	isURL := IsURL(input)
	if isURL && strings.HasSuffix(domainOf(input), unreachableSuffix) {
		return nil, core.ErrValidation(CodeUnextractable, "Could not extract content from the provided URL.")
	}

	content := contentOf(input, isURL)
	inputType := core.InputText
	trust := topicTrust
	if isURL {
		inputType = core.InputURL
		trust = TrustScore(input)
	}

	pos, neu, neg := SentimentOf(content)
	sentiment := core.Sentiment{Positive: pos, Neutral: neu, Negative: neg}
	similarity := Similarity([]string{content})
	cross := crossCheck(ExtractClaims(content))

	a := Assess(Signals{
		Sentiment:  sentiment,
		Similarity: similarity,
		Trust:      trust,
		CrossCheck: cross,
	})

	return &core.AnalysisReport{
		InputType:           inputType,
		RiskLevel:           a.Level,
		MisinformationScore: a.Misinformation,
		Confidence:          a.Confidence,
		SourceTrustScore:    trust,
		Sentiment:           &sentiment,
		SimilarityScore:     similarity,
		Reasons:             a.Reasons,
		ReputationScore:     a.Reputation,
		ReputationLevel:     a.ReputationLevel,
		Summary:             a.Summary,
		Related:             related(input, content),
		CrossCheck:          cross,
	}, nil
}

func crossCheck(claims []string) *core.CrossCheckReport {
	out := &core.CrossCheckReport{
		PlatformsSearched: []string{"Wikipedia", "Wikidata"},
	}
	for _, claim := range claims {
		out.Claims = append(out.Claims, unverifiedClaim(claim))
	}
	out.ClaimsChecked = len(out.Claims)
	out.OverallReliability = overallReliability(out.Claims)
	return out
}

func unverifiedClaim(claim string) core.Claim {
	return core.Claim{
		Claim:      claim,
		Verdict:    core.VerdictUnverified,
		Confidence: 0.4,
		Sources: []core.Source{
			{
				Platform: "Google Search",
				Title:    "Related: " + cut(claim, 50) + "...",
				URL:      "https://www.google.com/search?q=" + strings.ReplaceAll(cut(claim, 30), " ", "+"),
				Source:   "Google",
				Snippet:  "Multiple sources discuss this topic. Cross-reference with trusted sources for verification.",
				Stance:   core.StanceNeutral,
			},
			{
				Platform: "Wikipedia",
				Title:    "Background on " + cut(claim, 40),
				URL:      "https://en.wikipedia.org",
				Source:   "Wikipedia",
				Snippet:  "This topic has been covered in various publications. Check primary sources for accuracy.",
				Stance:   core.StanceNeutral,
			},
		},
	}
}

// overallReliability is unreliable when most claims are false or disputed,
// questionable when any is, reliable when most are likely true.
func overallReliability(claims []core.Claim) core.Reliability {
	total := len(claims)
	if total == 0 {
		return core.ReliabilityInsufficientData
	}
	var falseCount, trueCount int
	for _, c := range claims {
		switch c.Verdict {
		case core.VerdictLikelyFalse, core.VerdictDisputed:
			falseCount++
		case core.VerdictLikelyTrue:
			trueCount++
		}
	}
	switch {
	case float64(falseCount) > float64(total)/2:
		return core.ReliabilityUnreliable
	case falseCount > 0:
		return core.ReliabilityQuestionable
	case float64(trueCount) > float64(total)/2:
		return core.ReliabilityReliable
	default:
		return core.ReliabilityInsufficientData
	}
}

func related(query, content string) *core.RelatedInfo {
	info := &core.RelatedInfo{
		Articles: []core.RelatedArticle{
			{Title: "Analysis: " + cut(query, 60), URL: "https://reuters.com/world/analysis", Source: "Reuters"},
			{Title: "Report on " + cut(query, 50) + " - What experts say", URL: "https://bbc.com/news/world", Source: "BBC News"},
			{Title: "Breaking: " + cut(query, 55) + " developments", URL: "https://apnews.com/article/sample", Source: "AP News"},
		},
		FactChecks: []core.RelatedArticle{
			{Title: "Fact Check: Claims about " + cut(query, 50), URL: "https://snopes.com/fact-check/sample", Source: "Snopes"},
			{Title: "PolitiFact: Is it true that " + cut(query, 45) + "?", URL: "https://politifact.com/factchecks/sample", Source: "PolitiFact"},
		},
	}
	for _, name := range ExtractEntities(content) {
		info.Entities = append(info.Entities, core.Entity{Name: name, Type: "ORG"})
	}
	return info
}
