package mockserver

import (
	"fmt"
	"strings"

	"github.com/narrative-risk/riskview/internal/core"
)

// Signals are the measured inputs of a risk assessment.
type Signals struct {
	Sentiment  core.Sentiment
	Similarity float64
	Trust      float64
	CrossCheck *core.CrossCheckReport
}

// Assessment is the risk section of a report.
type Assessment struct {
	Level           core.RiskLevel
	Reasons         []string
	Misinformation  int
	Reputation      int
	ReputationLevel core.RiskLevel
	Confidence      string
	Summary         string
}

func flagged(cc *core.CrossCheckReport) []core.Claim {
	if cc == nil {
		return nil
	}
	var out []core.Claim
	for _, c := range cc.Claims {
		if c.Verdict == core.VerdictLikelyFalse || c.Verdict == core.VerdictDisputed {
			out = append(out, c)
		}
	}
	return out
}

// verdictTitle renders "likely_false" as "Likely False".
func verdictTitle(v core.Verdict) string {
	words := strings.Fields(strings.ReplaceAll(string(v), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Assess classifies the signals. Any false or disputed claim forces HIGH;
// otherwise reliability, sentiment, coordination and source trust are checked
// against fixed thresholds, HIGH conditions before MEDIUM ones.
func Assess(s Signals) Assessment {
	var reasons []string
	level := core.RiskLow

	if cc := s.CrossCheck; cc != nil {
		for _, c := range flagged(cc) {
			corrected := c.Correction()
			if corrected == "" {
				corrected = "No correction available."
			}
			reasons = append(reasons, fmt.Sprintf("Cross-platform check: claim \"%s\" is %s. %s",
				cut(c.Claim, 80), verdictTitle(c.Verdict), corrected))
			level = core.RiskHigh
		}
		if level != core.RiskHigh {
			switch cc.OverallReliability {
			case core.ReliabilityUnreliable:
				reasons = append(reasons, "Cross-platform verification rated this content as unreliable.")
				level = core.RiskHigh
			case core.ReliabilityQuestionable:
				reasons = append(reasons, "Cross-platform verification found questionable claims.")
			}
		}
	}

	neg, pos := s.Sentiment.Negative, s.Sentiment.Positive
	if level != core.RiskHigh {
		var high []string
		if neg > 50 {
			high = append(high, fmt.Sprintf("High negative sentiment detected: %.0f%% of content is negative.", neg))
		}
		if s.Similarity > 0.6 {
			high = append(high, fmt.Sprintf("Strong coordinated messaging detected: similarity score %.2f exceeds 0.6 threshold.", s.Similarity))
		}
		if s.Trust < 0.3 {
			high = append(high, fmt.Sprintf("Low source credibility: trust score %.2f is below 0.3.", s.Trust))
		}
		reasons = append(reasons, high...)

		if len(high) > 0 {
			level = core.RiskHigh
		} else {
			var medium []string
			if neg > 30 {
				medium = append(medium, fmt.Sprintf("Elevated negative sentiment: %.0f%% of content is negative.", neg))
			}
			if s.Similarity > 0.4 {
				medium = append(medium, fmt.Sprintf("Moderate coordinated messaging: similarity score %.2f exceeds 0.4 threshold.", s.Similarity))
			}
			if s.Trust < 0.6 {
				medium = append(medium, fmt.Sprintf("Moderate source credibility concern: trust score %.2f is below 0.6.", s.Trust))
			}
			reasons = append(reasons, medium...)

			if len(medium) > 0 {
				level = core.RiskMedium
			} else {
				reasons = append(reasons, "Content appears to be from credible sources with balanced sentiment.")
				if pos > 40 {
					reasons = append(reasons, fmt.Sprintf("Predominantly positive content: %.0f%% positive sentiment.", pos))
				}
			}
		}
	}

	a := Assessment{
		Level:          level,
		Reasons:        reasons,
		Misinformation: misinformationScore(s),
		Reputation:     reputationScore(s),
	}
	switch {
	case a.Reputation >= 60:
		a.ReputationLevel = core.RiskHigh
	case a.Reputation >= 30:
		a.ReputationLevel = core.RiskMedium
	default:
		a.ReputationLevel = core.RiskLow
	}
	a.Confidence = confidenceFor(a.Misinformation)
	a.Summary = summarize(a, s.CrossCheck)
	return a
}

func reliabilityPoints(cc *core.CrossCheckReport) int {
	switch cc.OverallReliability {
	case core.ReliabilityUnreliable:
		return 15
	case core.ReliabilityQuestionable:
		return 8
	default:
		return 0
	}
}

func misinformationScore(s Signals) int {
	score := 0
	if cc := s.CrossCheck; cc != nil {
		if n := len(cc.Claims); n > 0 {
			score += int(float64(len(flagged(cc))) / float64(n) * 50)
		}
		score += reliabilityPoints(cc)
	}
	score += min(int(s.Sentiment.Negative*0.4), 20)
	score += min(int(s.Similarity*25), 15)
	score += min(int((1-s.Trust)*15), 15)
	return clamp(score)
}

func reputationScore(s Signals) int {
	score := 0
	if cc := s.CrossCheck; cc != nil {
		score += min(len(flagged(cc))*30, 60)
		score += reliabilityPoints(cc)
	}
	score += min(int(s.Sentiment.Negative*0.5), 25)
	return clamp(score)
}

func clamp(score int) int {
	return max(0, min(score, 100))
}

func confidenceFor(misinformation int) string {
	switch {
	case misinformation >= 70:
		return "High"
	case misinformation >= 35:
		return "Medium"
	default:
		return "Low"
	}
}

func summarize(a Assessment, cc *core.CrossCheckReport) string {
	parts := []string{fmt.Sprintf(
		"The analysis indicates a %s risk level with a misinformation score of %d/100 and a reputation risk score of %d/100.",
		a.Level, a.Misinformation, a.Reputation)}

	if cc != nil {
		bad := flagged(cc)
		if len(bad) > 0 {
			line := fmt.Sprintf("Cross-platform verification flagged %d claim(s) as false or disputed.", len(bad))
			for _, c := range bad {
				if corr := c.Correction(); corr != "" {
					line += " " + corr
					break
				}
			}
			parts = append(parts, line)
		} else if cc.ClaimsChecked > 0 {
			parts = append(parts, fmt.Sprintf("All %d claim(s) checked across trusted sources appear consistent.", cc.ClaimsChecked))
		}
	}

	if len(a.Reasons) > 1 {
		parts = append(parts, "Key finding: "+a.Reasons[0])
	}

	switch a.Level {
	case core.RiskHigh:
		parts = append(parts, "Exercise extreme caution before sharing or acting on this content.")
	case core.RiskMedium:
		parts = append(parts, "We recommend verifying this information with additional trusted sources.")
	default:
		parts = append(parts, "The content appears generally reliable based on available evidence.")
	}
	return strings.Join(parts, " ")
}
