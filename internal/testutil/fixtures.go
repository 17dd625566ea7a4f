package testutil

import (
	"encoding/json"

	"github.com/narrative-risk/riskview/internal/core"
)

// SampleReportJSON is a complete analyzer response, including a field this
// client does not model.
const SampleReportJSON = `{
  "input_type": "url",
  "risk_level": "HIGH",
  "misinformation_score": 72,
  "confidence": "High",
  "source_trust_score": 0.4,
  "sentiment": {"positive": 10, "neutral": 30, "negative": 60},
  "similarity_score": 0.25,
  "reasons": [
    "Cross-platform check: claim \"The bridge collapsed on Monday\" is Likely False. It was closed for repairs."
  ],
  "reputation_risk_score": 55,
  "reputation_risk_level": "MEDIUM",
  "summary": "The analysis indicates a HIGH risk level.",
  "related": {
    "articles": [{"title": "Bridge closed for repairs", "url": "https://www.reuters.com/bridge", "source": "Reuters"}],
    "fact_checks": [{"title": "No, the bridge did not collapse", "url": "https://www.snopes.com/bridge", "source": "Snopes"}],
    "entities": [{"name": "City Council", "type": "ORG"}]
  },
  "cross_check": {
    "claims_checked": 2,
    "platforms_searched": ["Google", "Wikipedia"],
    "overall_reliability": "questionable",
    "claims": [
      {
        "claim": "The bridge collapsed on Monday",
        "verdict": "likely_false",
        "confidence": 0.8,
        "corrected_info": "It was closed for repairs.",
        "sources": [
          {"url": "https://www.reuters.com/bridge", "source": "Reuters", "platform": "Google", "title": "Bridge closed", "stance": "contradicts"},
          {"url": "https://en.wikipedia.org/wiki/Bridge", "source": "", "platform": "Wikipedia", "title": "Bridge", "stance": "neutral"}
        ]
      },
      {
        "claim": "The council approved repairs",
        "verdict": "likely_true",
        "confidence": 0.65,
        "corrected_info": null,
        "sources": [
          {"url": "https://reuters.com/council", "source": "Reuters", "platform": "Google", "title": "Council vote", "stance": "supports"}
        ]
      }
    ]
  },
  "ai_analysis": {
    "verdict": "Misleading",
    "analysis": "The post misstates a **closure** as a collapse.",
    "key_facts": ["Closed for repairs", "No injuries reported"],
    "recommendation": "Do not share."
  },
  "experimental_signal": {"score": 3}
}`

// SampleReport decodes SampleReportJSON.
func SampleReport() *core.AnalysisReport {
	var r core.AnalysisReport
	if err := json.Unmarshal([]byte(SampleReportJSON), &r); err != nil {
		panic(err)
	}
	return &r
}
