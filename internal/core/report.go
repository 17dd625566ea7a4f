// Package core holds the analysis report data contract, the display descriptors for its
// enumerated tags, the cross-check aggregation and the domain error type.
package core

import (
	"encoding/json"
)

// InputType is the server's classification of the submitted input.
type InputType string

const (
	InputURL   InputType = "url"
	InputTopic InputType = "topic"
	// InputText is what the reference backend emits for free-text topics.
	InputText InputType = "text"
)

// IsTopic reports whether the input was analyzed as a free-text topic.
func (t InputType) IsTopic() bool {
	return t == InputTopic || t == InputText
}

// AnalysisReport is the composite report returned by the analyzer.
//
// Only a handful of fields drive client-side logic; the rest are passed through
// for rendering. Unknown top-level fields survive a decode/encode round trip
// because the original payload is kept alongside the decoded struct.
type AnalysisReport struct {
	InputType           InputType         `json:"input_type" yaml:"input_type"`
	RiskLevel           RiskLevel         `json:"risk_level" yaml:"risk_level"`
	MisinformationScore int               `json:"misinformation_score" yaml:"misinformation_score"`
	Confidence          string            `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	SourceTrustScore    float64           `json:"source_trust_score" yaml:"source_trust_score"`
	Sentiment           *Sentiment        `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
	SimilarityScore     float64           `json:"similarity_score" yaml:"similarity_score"`
	Reasons             []string          `json:"reasons,omitempty" yaml:"reasons,omitempty"`
	ReputationScore     int               `json:"reputation_risk_score,omitempty" yaml:"reputation_risk_score,omitempty"`
	ReputationLevel     RiskLevel         `json:"reputation_risk_level,omitempty" yaml:"reputation_risk_level,omitempty"`
	Summary             string            `json:"summary,omitempty" yaml:"summary,omitempty"`
	Related             *RelatedInfo      `json:"related,omitempty" yaml:"related,omitempty"`
	CrossCheck          *CrossCheckReport `json:"cross_check,omitempty" yaml:"cross_check,omitempty"`
	AIAnalysis          *AIAnalysis       `json:"ai_analysis,omitempty" yaml:"ai_analysis,omitempty"`

	raw json.RawMessage
}

// Sentiment is the server's percentage breakdown of sentence polarity.
type Sentiment struct {
	Positive float64 `json:"positive" yaml:"positive"`
	Neutral  float64 `json:"neutral" yaml:"neutral"`
	Negative float64 `json:"negative" yaml:"negative"`
}

// RelatedInfo groups related coverage found for the input.
type RelatedInfo struct {
	Articles   []RelatedArticle `json:"articles,omitempty" yaml:"articles,omitempty"`
	FactChecks []RelatedArticle `json:"fact_checks,omitempty" yaml:"fact_checks,omitempty"`
	Entities   []Entity         `json:"entities,omitempty" yaml:"entities,omitempty"`
}

// RelatedArticle is a single related link.
type RelatedArticle struct {
	Title  string `json:"title" yaml:"title"`
	URL    string `json:"url" yaml:"url"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Entity is a named entity extracted from the analyzed content.
type Entity struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// AIAnalysis is the model-generated verdict block. Text fields may contain markdown.
type AIAnalysis struct {
	Verdict        string   `json:"verdict" yaml:"verdict"`
	Analysis       string   `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	KeyFacts       []string `json:"key_facts,omitempty" yaml:"key_facts,omitempty"`
	Recommendation string   `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// CrossCheckReport is the claim verification section of a report.
type CrossCheckReport struct {
	ClaimsChecked      int         `json:"claims_checked" yaml:"claims_checked"`
	PlatformsSearched  []string    `json:"platforms_searched" yaml:"platforms_searched"`
	OverallReliability Reliability `json:"overall_reliability" yaml:"overall_reliability"`
	Claims             []Claim     `json:"claims" yaml:"claims"`
}

// Claim is one fact-checked assertion.
type Claim struct {
	Claim         string   `json:"claim" yaml:"claim"`
	Verdict       Verdict  `json:"verdict" yaml:"verdict"`
	Confidence    float64  `json:"confidence" yaml:"confidence"`
	CorrectedInfo *string  `json:"corrected_info,omitempty" yaml:"corrected_info,omitempty"`
	Sources       []Source `json:"sources" yaml:"sources"`
}

// Correction returns the corrected information, or "" when none was supplied.
func (c Claim) Correction() string {
	if c.CorrectedInfo == nil {
		return ""
	}
	return *c.CorrectedInfo
}

// HasSources reports whether the claim offers a "show sources" affordance.
func (c Claim) HasSources() bool {
	return len(c.Sources) > 0
}

// Source is a corroborating or contradicting reference for a claim.
type Source struct {
	URL       string `json:"url" yaml:"url"`
	Source    string `json:"source" yaml:"source"`
	Platform  string `json:"platform" yaml:"platform"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Snippet   string `json:"snippet,omitempty" yaml:"snippet,omitempty"`
	Stance    Stance `json:"stance" yaml:"stance"`
	TrustTier string `json:"trust_tier,omitempty" yaml:"trust_tier,omitempty"`
}

// UnmarshalJSON decodes the report and keeps the original payload.
func (r *AnalysisReport) UnmarshalJSON(data []byte) error {
	type plain AnalysisReport
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*r = AnalysisReport(decoded)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits the original payload when the report was decoded from JSON,
// so fields unknown to this client are not lost on export.
func (r AnalysisReport) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain AnalysisReport
	return json.Marshal(plain(r))
}

// Document returns the report as a generic JSON document, including unknown fields.
func (r *AnalysisReport) Document() (map[string]any, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
