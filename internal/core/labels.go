package core

import "strings"

// Verdict is the server's assessment of a single claim.
type Verdict string

const (
	VerdictLikelyTrue  Verdict = "likely_true"
	VerdictLikelyFalse Verdict = "likely_false"
	VerdictDisputed    Verdict = "disputed"
	VerdictUnverified  Verdict = "unverified"
)

// Stance is a source's position toward a claim.
type Stance string

const (
	StanceSupports    Stance = "supports"
	StanceContradicts Stance = "contradicts"
	StanceNeutral     Stance = "neutral"
)

// Reliability is the server's overall classification of a claim set.
type Reliability string

const (
	ReliabilityReliable         Reliability = "reliable"
	ReliabilityQuestionable     Reliability = "questionable"
	ReliabilityUnreliable       Reliability = "unreliable"
	ReliabilityInsufficientData Reliability = "insufficient_data"
)

// RiskLevel is the coarse risk classification of a report.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Tone is the presentation-neutral sentiment of a label. Renderers map it to colors.
type Tone int

const (
	ToneNeutral Tone = iota
	TonePositive
	ToneWarning
	ToneNegative
)

// String returns the tone name.
func (t Tone) String() string {
	switch t {
	case TonePositive:
		return "positive"
	case ToneWarning:
		return "warning"
	case ToneNegative:
		return "negative"
	default:
		return "neutral"
	}
}

// Descriptor is the display form of an enumerated tag.
type Descriptor struct {
	Label string
	Icon  string
	Tone  Tone
}

// NormalizeVerdict maps any value outside the known set to VerdictUnverified.
func NormalizeVerdict(v Verdict) Verdict {
	switch v {
	case VerdictLikelyTrue, VerdictLikelyFalse, VerdictDisputed:
		return v
	default:
		return VerdictUnverified
	}
}

// NormalizeStance maps any value outside the known set to StanceNeutral.
func NormalizeStance(s Stance) Stance {
	switch s {
	case StanceSupports, StanceContradicts:
		return s
	default:
		return StanceNeutral
	}
}

// NormalizeReliability maps missing or unknown labels to ReliabilityInsufficientData.
// It is a display mapping only; the server's value is never reinterpreted.
func NormalizeReliability(r Reliability) Reliability {
	switch r {
	case ReliabilityReliable, ReliabilityQuestionable, ReliabilityUnreliable:
		return r
	default:
		return ReliabilityInsufficientData
	}
}

// DescribeVerdict returns the display descriptor for a verdict.
func DescribeVerdict(v Verdict) Descriptor {
	switch v {
	case VerdictLikelyTrue:
		return Descriptor{Label: "Likely True", Icon: "✓", Tone: TonePositive}
	case VerdictLikelyFalse:
		return Descriptor{Label: "Likely False", Icon: "✗", Tone: ToneNegative}
	case VerdictDisputed:
		return Descriptor{Label: "Disputed", Icon: "⚠", Tone: ToneWarning}
	default:
		return Descriptor{Label: "Unverified", Icon: "?", Tone: ToneNeutral}
	}
}

// DescribeStance returns the display descriptor for a stance.
func DescribeStance(s Stance) Descriptor {
	switch s {
	case StanceSupports:
		return Descriptor{Label: "Supports", Icon: "+", Tone: TonePositive}
	case StanceContradicts:
		return Descriptor{Label: "Contradicts", Icon: "-", Tone: ToneNegative}
	default:
		return Descriptor{Label: "Neutral", Icon: "~", Tone: ToneNeutral}
	}
}

// DescribeReliability returns the display descriptor for an overall reliability label.
func DescribeReliability(r Reliability) Descriptor {
	switch r {
	case ReliabilityReliable:
		return Descriptor{Label: "Reliable", Icon: "✓", Tone: TonePositive}
	case ReliabilityQuestionable:
		return Descriptor{Label: "Questionable", Icon: "⚠", Tone: ToneWarning}
	case ReliabilityUnreliable:
		return Descriptor{Label: "Unreliable", Icon: "✗", Tone: ToneNegative}
	default:
		return Descriptor{Label: "Insufficient Data", Icon: "?", Tone: ToneNeutral}
	}
}

// DescribeRisk returns the display descriptor for a risk level. Lowercase values
// are accepted; anything else is shown verbatim with a neutral tone.
func DescribeRisk(level RiskLevel) Descriptor {
	switch RiskLevel(strings.ToUpper(string(level))) {
	case RiskLow:
		return Descriptor{Label: "LOW", Icon: "●", Tone: TonePositive}
	case RiskMedium:
		return Descriptor{Label: "MEDIUM", Icon: "●", Tone: ToneWarning}
	case RiskHigh:
		return Descriptor{Label: "HIGH", Icon: "●", Tone: ToneNegative}
	default:
		label := string(level)
		if label == "" {
			label = "UNKNOWN"
		}
		return Descriptor{Label: label, Icon: "○", Tone: ToneNeutral}
	}
}
