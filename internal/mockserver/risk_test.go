package mockserver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/narrative-risk/riskview/internal/core"
)

func strPtr(s string) *string { return &s }

func TestAssess(t *testing.T) {
	tests := []struct {
		name    string
		signals Signals
		want    Assessment
	}{
		{
			name: "credible and balanced",
			signals: Signals{
				Sentiment: core.Sentiment{Neutral: 100},
				Trust:     1.0,
			},
			want: Assessment{
				Level:           core.RiskLow,
				Reasons:         []string{"Content appears to be from credible sources with balanced sentiment."},
				ReputationLevel: core.RiskLow,
				Confidence:      "Low",
				Summary: "The analysis indicates a LOW risk level with a misinformation score of 0/100 and a reputation risk score of 0/100. " +
					"The content appears generally reliable based on available evidence.",
			},
		},
		{
			name: "false claim overrides everything",
			signals: Signals{
				Sentiment: core.Sentiment{Negative: 60, Neutral: 40},
				Trust:     0.5,
				CrossCheck: &core.CrossCheckReport{
					ClaimsChecked:      1,
					OverallReliability: core.ReliabilityUnreliable,
					Claims: []core.Claim{{
						Claim:         "The bridge collapsed",
						Verdict:       core.VerdictLikelyFalse,
						CorrectedInfo: strPtr("It was closed."),
					}},
				},
			},
			want: Assessment{
				Level:           core.RiskHigh,
				Reasons:         []string{`Cross-platform check: claim "The bridge collapsed" is Likely False. It was closed.`},
				Misinformation:  92,
				Reputation:      70,
				ReputationLevel: core.RiskHigh,
				Confidence:      "High",
				Summary: "The analysis indicates a HIGH risk level with a misinformation score of 92/100 and a reputation risk score of 70/100. " +
					"Cross-platform verification flagged 1 claim(s) as false or disputed. It was closed. " +
					"Exercise extreme caution before sharing or acting on this content.",
			},
		},
		{
			name: "medium thresholds",
			signals: Signals{
				Sentiment:  core.Sentiment{Positive: 10, Neutral: 50, Negative: 40},
				Similarity: 0.5,
				Trust:      0.5,
			},
			want: Assessment{
				Level: core.RiskMedium,
				Reasons: []string{
					"Elevated negative sentiment: 40% of content is negative.",
					"Moderate coordinated messaging: similarity score 0.50 exceeds 0.4 threshold.",
					"Moderate source credibility concern: trust score 0.50 is below 0.6.",
				},
				Misinformation:  35,
				Reputation:      20,
				ReputationLevel: core.RiskLow,
				Confidence:      "Medium",
				Summary: "The analysis indicates a MEDIUM risk level with a misinformation score of 35/100 and a reputation risk score of 20/100. " +
					"Key finding: Elevated negative sentiment: 40% of content is negative. " +
					"We recommend verifying this information with additional trusted sources.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assess(tt.signals)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Assess() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssess_QuestionableThenLowTrust(t *testing.T) {
	got := Assess(Signals{
		Sentiment: core.Sentiment{Neutral: 100},
		Trust:     0.2,
		CrossCheck: &core.CrossCheckReport{
			ClaimsChecked:      1,
			OverallReliability: core.ReliabilityQuestionable,
			Claims:             []core.Claim{{Claim: "x", Verdict: core.VerdictUnverified}},
		},
	})

	assert.Equal(t, core.RiskHigh, got.Level)
	assert.Equal(t, []string{
		"Cross-platform verification found questionable claims.",
		"Low source credibility: trust score 0.20 is below 0.3.",
	}, got.Reasons)
	assert.Contains(t, got.Summary, "All 1 claim(s) checked across trusted sources appear consistent.")
	assert.Contains(t, got.Summary, "Key finding: Cross-platform verification found questionable claims.")
}

func TestAssess_UnreliableWithoutFlaggedClaims(t *testing.T) {
	got := Assess(Signals{
		Sentiment: core.Sentiment{Neutral: 100},
		Trust:     1.0,
		CrossCheck: &core.CrossCheckReport{
			OverallReliability: core.ReliabilityUnreliable,
		},
	})
	assert.Equal(t, core.RiskHigh, got.Level)
	assert.Equal(t, []string{"Cross-platform verification rated this content as unreliable."}, got.Reasons)
	assert.Equal(t, 15, got.Misinformation)
	assert.Equal(t, 15, got.Reputation)
}

func TestAssess_PositiveContent(t *testing.T) {
	got := Assess(Signals{
		Sentiment: core.Sentiment{Positive: 50, Neutral: 50},
		Trust:     1.0,
	})
	assert.Equal(t, core.RiskLow, got.Level)
	assert.Equal(t, []string{
		"Content appears to be from credible sources with balanced sentiment.",
		"Predominantly positive content: 50% positive sentiment.",
	}, got.Reasons)
}

func TestAssess_MissingCorrection(t *testing.T) {
	got := Assess(Signals{
		Trust: 1.0,
		CrossCheck: &core.CrossCheckReport{
			Claims: []core.Claim{{Claim: "Everyone agrees", Verdict: core.VerdictDisputed}},
		},
	})
	assert.Equal(t, `Cross-platform check: claim "Everyone agrees" is Disputed. No correction available.`, got.Reasons[0])
	assert.Contains(t, got.Summary, "flagged 1 claim(s) as false or disputed. Exercise")
}

func TestOverallReliability(t *testing.T) {
	claims := func(verdicts ...core.Verdict) []core.Claim {
		out := make([]core.Claim, len(verdicts))
		for i, v := range verdicts {
			out[i] = core.Claim{Verdict: v}
		}
		return out
	}

	assert.Equal(t, core.ReliabilityInsufficientData, overallReliability(nil))
	assert.Equal(t, core.ReliabilityUnreliable, overallReliability(claims(core.VerdictLikelyFalse, core.VerdictDisputed, core.VerdictLikelyTrue)))
	assert.Equal(t, core.ReliabilityQuestionable, overallReliability(claims(core.VerdictLikelyFalse, core.VerdictLikelyTrue)))
	assert.Equal(t, core.ReliabilityReliable, overallReliability(claims(core.VerdictLikelyTrue, core.VerdictLikelyTrue, core.VerdictUnverified)))
	assert.Equal(t, core.ReliabilityInsufficientData, overallReliability(claims(core.VerdictLikelyTrue, core.VerdictUnverified)))
}
