package core

import (
	"fmt"
	"strings"
)

// VerdictTally counts claims per verdict bucket.
type VerdictTally struct {
	LikelyTrue  int `json:"likely_true"`
	LikelyFalse int `json:"likely_false"`
	Disputed    int `json:"disputed"`
	Unverified  int `json:"unverified"`
}

// Total returns the number of claims tallied.
func (t VerdictTally) Total() int {
	return t.LikelyTrue + t.LikelyFalse + t.Disputed + t.Unverified
}

// Count returns the tally for a single verdict, normalizing unknown values.
func (t VerdictTally) Count(v Verdict) int {
	switch NormalizeVerdict(v) {
	case VerdictLikelyTrue:
		return t.LikelyTrue
	case VerdictLikelyFalse:
		return t.LikelyFalse
	case VerdictDisputed:
		return t.Disputed
	default:
		return t.Unverified
	}
}

func (t *VerdictTally) add(v Verdict) {
	switch NormalizeVerdict(v) {
	case VerdictLikelyTrue:
		t.LikelyTrue++
	case VerdictLikelyFalse:
		t.LikelyFalse++
	case VerdictDisputed:
		t.Disputed++
	default:
		t.Unverified++
	}
}

// CatalogueEntry is one deduplicated outlet in the source catalogue.
type CatalogueEntry struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Platform string `json:"platform"`
	// Favicon is empty when URL is not a usable http(s) URL.
	Favicon string `json:"favicon,omitempty"`
}

// StanceGroups buckets a claim's sources by normalized stance, preserving order.
type StanceGroups struct {
	Supports    []Source
	Contradicts []Source
	Neutral     []Source
}

// ClaimView is the per-claim derivation consumed by the claims list.
type ClaimView struct {
	Claim      Claim
	Verdict    Verdict
	Descriptor Descriptor
	Stances    StanceGroups
}

// SourceCount returns how many sources the claim itself lists.
func (c ClaimView) SourceCount() int {
	return len(c.Claim.Sources)
}

// ShowSourcesAffordance reports whether a "show N sources" toggle should be offered.
func (c ClaimView) ShowSourcesAffordance() bool {
	return c.Claim.HasSources()
}

// CrossCheckView is the derived model behind the verification summary.
type CrossCheckView struct {
	// ClaimsChecked and PlatformsSearched are server metadata, shown as supplied.
	ClaimsChecked     int
	PlatformsSearched []string

	Tally        VerdictTally
	Catalogue    []CatalogueEntry
	Alert        bool
	AlertMessage string
	Reliability  Reliability
	Claims       []ClaimView
}

// AggregateCrossCheck derives the verification view model from a cross-check
// report. It returns nil when there is nothing to show. The input is not modified.
func AggregateCrossCheck(cc *CrossCheckReport) *CrossCheckView {
	if cc == nil || len(cc.Claims) == 0 {
		return nil
	}

	view := &CrossCheckView{
		ClaimsChecked:     cc.ClaimsChecked,
		PlatformsSearched: append([]string(nil), cc.PlatformsSearched...),
		Reliability:       NormalizeReliability(cc.OverallReliability),
		Claims:            make([]ClaimView, 0, len(cc.Claims)),
	}

	for _, claim := range cc.Claims {
		view.Tally.add(claim.Verdict)
	}

	view.Catalogue = FirstOccurrence(CatalogueKeys(cc.Claims))

	view.Alert = view.Tally.LikelyFalse > 0 || view.Tally.Disputed > 0
	view.AlertMessage = AlertMessage(view.Tally)

	for _, claim := range cc.Claims {
		verdict := NormalizeVerdict(claim.Verdict)
		view.Claims = append(view.Claims, ClaimView{
			Claim:      claim,
			Verdict:    verdict,
			Descriptor: DescribeVerdict(verdict),
			Stances:    GroupByStance(claim.Sources),
		})
	}

	return view
}

// KeyedSource is a source paired with its catalogue key.
type KeyedSource struct {
	Key    string
	Source Source
}

// KeyFor returns the catalogue dedup key of a source: its outlet name, else its
// platform. ok is false when the source has neither.
func KeyFor(s Source) (key string, ok bool) {
	if s.Source != "" {
		return s.Source, true
	}
	if s.Platform != "" {
		return s.Platform, true
	}
	return "", false
}

// CatalogueKeys walks claims and their sources in order and keys every source
// that has a usable key. Keyless sources are skipped.
func CatalogueKeys(claims []Claim) []KeyedSource {
	var keyed []KeyedSource
	for _, claim := range claims {
		for _, src := range claim.Sources {
			key, ok := KeyFor(src)
			if !ok {
				continue
			}
			keyed = append(keyed, KeyedSource{Key: key, Source: src})
		}
	}
	return keyed
}

// FirstOccurrence keeps the first source seen for each key, in encounter order.
// Later duplicates are dropped without merging.
func FirstOccurrence(keyed []KeyedSource) []CatalogueEntry {
	seen := make(map[string]struct{}, len(keyed))
	entries := make([]CatalogueEntry, 0, len(keyed))
	for _, ks := range keyed {
		if _, dup := seen[ks.Key]; dup {
			continue
		}
		seen[ks.Key] = struct{}{}
		entries = append(entries, CatalogueEntry{
			Name:     ks.Key,
			URL:      ks.Source.URL,
			Platform: ks.Source.Platform,
			Favicon:  FaviconURL(ks.Source.URL),
		})
	}
	return entries
}

// GroupByStance splits sources into stance buckets. Unknown stances land in Neutral.
func GroupByStance(sources []Source) StanceGroups {
	var g StanceGroups
	for _, src := range sources {
		switch NormalizeStance(src.Stance) {
		case StanceSupports:
			g.Supports = append(g.Supports, src)
		case StanceContradicts:
			g.Contradicts = append(g.Contradicts, src)
		default:
			g.Neutral = append(g.Neutral, src)
		}
	}
	return g
}

// AlertMessage composes the warning shown when claims were flagged. Zero counts are
// omitted; it returns "" when nothing was flagged.
func AlertMessage(t VerdictTally) string {
	var parts []string
	if t.LikelyFalse > 0 {
		parts = append(parts, fmt.Sprintf("%s likely false", pluralClaims(t.LikelyFalse)))
	}
	if t.Disputed > 0 {
		parts = append(parts, fmt.Sprintf("%s disputed", pluralClaims(t.Disputed)))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " and ")
}

func pluralClaims(n int) string {
	if n == 1 {
		return "1 claim"
	}
	return fmt.Sprintf("%d claims", n)
}
