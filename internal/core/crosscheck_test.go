package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAggregateCrossCheck_NilAndEmpty(t *testing.T) {
	assert.Nil(t, AggregateCrossCheck(nil))
	assert.Nil(t, AggregateCrossCheck(&CrossCheckReport{}))
	assert.Nil(t, AggregateCrossCheck(&CrossCheckReport{
		ClaimsChecked:      3,
		PlatformsSearched:  []string{"Wikipedia"},
		OverallReliability: ReliabilityReliable,
		Claims:             []Claim{},
	}))
}

func TestAggregateCrossCheck_ReutersExample(t *testing.T) {
	cc := &CrossCheckReport{
		Claims: []Claim{
			{Verdict: VerdictLikelyFalse, Sources: []Source{{Source: "Reuters", URL: "https://reuters.com/a"}}},
			{Verdict: VerdictLikelyFalse, Sources: []Source{{Source: "Reuters", URL: "https://reuters.com/b"}}},
		},
	}

	view := AggregateCrossCheck(cc)
	require.NotNil(t, view)

	assert.Equal(t, VerdictTally{LikelyFalse: 2}, view.Tally)
	want := []CatalogueEntry{{
		Name:    "Reuters",
		URL:     "https://reuters.com/a",
		Favicon: "https://www.google.com/s2/favicons?domain=reuters.com&sz=32",
	}}
	if diff := cmp.Diff(want, view.Catalogue); diff != "" {
		t.Errorf("catalogue mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, view.Alert)
	assert.Equal(t, "2 claims likely false", view.AlertMessage)
}

func TestAggregateCrossCheck_TallySumsWithUnknownVerdicts(t *testing.T) {
	cc := &CrossCheckReport{
		Claims: []Claim{
			{Verdict: VerdictLikelyTrue},
			{Verdict: "mostly_true"},
			{Verdict: ""},
			{Verdict: VerdictDisputed},
			{Verdict: VerdictUnverified},
			{Verdict: "LIKELY_FALSE"},
		},
	}

	view := AggregateCrossCheck(cc)
	require.NotNil(t, view)

	assert.Equal(t, len(cc.Claims), view.Tally.Total())
	assert.Equal(t, VerdictTally{LikelyTrue: 1, Disputed: 1, Unverified: 4}, view.Tally)
	assert.Equal(t, VerdictUnverified, view.Claims[1].Verdict)
	assert.Equal(t, "Unverified", view.Claims[1].Descriptor.Label)
	// The raw claim is carried untouched.
	assert.Equal(t, Verdict("mostly_true"), view.Claims[1].Claim.Verdict)
}

func TestAggregateCrossCheck_CatalogueOrderAndFallbackKey(t *testing.T) {
	cc := &CrossCheckReport{
		Claims: []Claim{
			{
				Verdict: VerdictLikelyTrue,
				Sources: []Source{
					{Platform: "Wikipedia", URL: "https://en.wikipedia.org/wiki/X"},
					{Source: "BBC", Platform: "NewsAPI", URL: "https://bbc.co.uk/1"},
					{URL: "https://orphan.example/1"},
				},
			},
			{Verdict: VerdictUnverified, Sources: nil},
			{
				Verdict: VerdictDisputed,
				Sources: []Source{
					{Source: "BBC", Platform: "Google News", URL: "https://bbc.co.uk/2"},
					{Platform: "Wikipedia", URL: "https://en.wikipedia.org/wiki/Y"},
					{Source: "Snopes", Platform: "Fact-Check Sites", URL: "not a url"},
				},
			},
		},
	}

	view := AggregateCrossCheck(cc)
	require.NotNil(t, view)

	want := []CatalogueEntry{
		{Name: "Wikipedia", URL: "https://en.wikipedia.org/wiki/X", Platform: "Wikipedia",
			Favicon: "https://www.google.com/s2/favicons?domain=en.wikipedia.org&sz=32"},
		{Name: "BBC", URL: "https://bbc.co.uk/1", Platform: "NewsAPI",
			Favicon: "https://www.google.com/s2/favicons?domain=bbc.co.uk&sz=32"},
		{Name: "Snopes", URL: "not a url", Platform: "Fact-Check Sites"},
	}
	if diff := cmp.Diff(want, view.Catalogue); diff != "" {
		t.Errorf("catalogue mismatch (-want +got):\n%s", diff)
	}

	seen := map[string]bool{}
	for _, e := range view.Catalogue {
		assert.False(t, seen[e.Name], "duplicate key %q", e.Name)
		seen[e.Name] = true
	}
}

func TestAggregateCrossCheck_SourcelessClaimHasNoAffordance(t *testing.T) {
	cc := &CrossCheckReport{
		Claims: []Claim{
			{Claim: "a", Verdict: VerdictUnverified, Sources: []Source{}},
			{Claim: "b", Verdict: VerdictLikelyTrue, Sources: []Source{{Source: "AP"}}},
		},
	}

	view := AggregateCrossCheck(cc)
	require.NotNil(t, view)

	assert.False(t, view.Claims[0].ShowSourcesAffordance())
	assert.Equal(t, 0, view.Claims[0].SourceCount())
	assert.True(t, view.Claims[1].ShowSourcesAffordance())
	assert.Equal(t, 1, view.Claims[1].SourceCount())
	require.Len(t, view.Catalogue, 1)
	assert.Equal(t, "AP", view.Catalogue[0].Name)
}

func TestAggregateCrossCheck_KeylessSourceStillListedUnderClaim(t *testing.T) {
	cc := &CrossCheckReport{
		Claims: []Claim{{Verdict: VerdictLikelyTrue, Sources: []Source{{URL: "https://x.example"}}}},
	}

	view := AggregateCrossCheck(cc)
	require.NotNil(t, view)

	assert.Empty(t, view.Catalogue)
	assert.Equal(t, 1, view.Claims[0].SourceCount())
	assert.Len(t, view.Claims[0].Stances.Neutral, 1)
}

func TestAggregateCrossCheck_AlertConditions(t *testing.T) {
	tests := []struct {
		name      string
		verdicts  []Verdict
		wantAlert bool
		wantMsg   string
	}{
		{"all true", []Verdict{VerdictLikelyTrue, VerdictLikelyTrue}, false, ""},
		{"unverified only", []Verdict{VerdictUnverified}, false, ""},
		{"one disputed", []Verdict{VerdictDisputed, VerdictLikelyTrue}, true, "1 claim disputed"},
		{"one false", []Verdict{VerdictLikelyFalse}, true, "1 claim likely false"},
		{"both", []Verdict{VerdictLikelyFalse, VerdictDisputed, VerdictDisputed}, true,
			"1 claim likely false and 2 claims disputed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := &CrossCheckReport{}
			for _, v := range tt.verdicts {
				cc.Claims = append(cc.Claims, Claim{Verdict: v})
			}
			view := AggregateCrossCheck(cc)
			require.NotNil(t, view)
			assert.Equal(t, tt.wantAlert, view.Alert)
			assert.Equal(t, tt.wantMsg, view.AlertMessage)
		})
	}
}

func TestAggregateCrossCheck_ReliabilityPassThrough(t *testing.T) {
	tests := []struct {
		in   Reliability
		want Reliability
	}{
		{ReliabilityReliable, ReliabilityReliable},
		{ReliabilityQuestionable, ReliabilityQuestionable},
		{ReliabilityUnreliable, ReliabilityUnreliable},
		{ReliabilityInsufficientData, ReliabilityInsufficientData},
		{"", ReliabilityInsufficientData},
		{"great", ReliabilityInsufficientData},
	}

	for _, tt := range tests {
		// Tallies say unreliable; the server label still wins.
		cc := &CrossCheckReport{
			OverallReliability: tt.in,
			Claims:             []Claim{{Verdict: VerdictLikelyFalse}, {Verdict: VerdictLikelyFalse}},
		}
		view := AggregateCrossCheck(cc)
		require.NotNil(t, view)
		assert.Equal(t, tt.want, view.Reliability, "input %q", tt.in)
	}
}

func TestAggregateCrossCheck_MetadataNotReconciled(t *testing.T) {
	cc := &CrossCheckReport{
		ClaimsChecked:     7,
		PlatformsSearched: []string{"Wikipedia", "Wikipedia", "NewsAPI"},
		Claims:            []Claim{{Verdict: VerdictLikelyTrue, Sources: []Source{{Source: "AP", Platform: "Google News"}}}},
	}

	view := AggregateCrossCheck(cc)
	require.NotNil(t, view)

	assert.Equal(t, 7, view.ClaimsChecked)
	assert.Equal(t, []string{"Wikipedia", "Wikipedia", "NewsAPI"}, view.PlatformsSearched)
}

func TestAggregateCrossCheck_DoesNotMutateInput(t *testing.T) {
	cc := &CrossCheckReport{
		ClaimsChecked:      2,
		PlatformsSearched:  []string{"Wikipedia"},
		OverallReliability: "weird",
		Claims: []Claim{
			{Claim: "x", Verdict: "odd", CorrectedInfo: strPtr("fix"), Sources: []Source{
				{Source: "A", Stance: "sideways"},
				{Source: "A", Stance: StanceSupports},
			}},
		},
	}
	before := cloneCrossCheck(cc)

	view := AggregateCrossCheck(cc)
	require.NotNil(t, view)
	view.PlatformsSearched[0] = "changed"

	if diff := cmp.Diff(before, cc); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestGroupByStance_UnknownIsNeutral(t *testing.T) {
	sources := []Source{
		{Source: "a", Stance: StanceSupports},
		{Source: "b", Stance: "sideways"},
		{Source: "c", Stance: StanceContradicts},
		{Source: "d", Stance: StanceNeutral},
		{Source: "e"},
	}

	g := GroupByStance(sources)

	assert.Equal(t, []Source{sources[0]}, g.Supports)
	assert.Equal(t, []Source{sources[2]}, g.Contradicts)
	assert.Equal(t, []Source{sources[1], sources[3], sources[4]}, g.Neutral)

	sideways := GroupByStance([]Source{{Source: "x", Stance: "sideways"}})
	neutral := GroupByStance([]Source{{Source: "x", Stance: StanceNeutral}})
	assert.Equal(t, len(neutral.Neutral), len(sideways.Neutral))
	assert.Empty(t, sideways.Supports)
	assert.Empty(t, sideways.Contradicts)
}

func TestCatalogueKeys_TwoStage(t *testing.T) {
	claims := []Claim{
		{Sources: []Source{{Source: "A", URL: "1"}, {}, {Platform: "P", URL: "2"}}},
		{Sources: []Source{{Source: "A", URL: "3"}}},
	}

	keyed := CatalogueKeys(claims)
	require.Len(t, keyed, 3)
	assert.Equal(t, []string{"A", "P", "A"}, []string{keyed[0].Key, keyed[1].Key, keyed[2].Key})

	entries := FirstOccurrence(keyed)
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].URL)
	assert.Equal(t, "P", entries[1].Name)
}

func TestKeyFor(t *testing.T) {
	key, ok := KeyFor(Source{Source: "Reuters", Platform: "NewsAPI"})
	assert.True(t, ok)
	assert.Equal(t, "Reuters", key)

	key, ok = KeyFor(Source{Platform: "NewsAPI"})
	assert.True(t, ok)
	assert.Equal(t, "NewsAPI", key)

	_, ok = KeyFor(Source{URL: "https://x"})
	assert.False(t, ok)
}

func cloneCrossCheck(cc *CrossCheckReport) *CrossCheckReport {
	out := *cc
	out.PlatformsSearched = append([]string(nil), cc.PlatformsSearched...)
	out.Claims = make([]Claim, len(cc.Claims))
	for i, c := range cc.Claims {
		c.Sources = append([]Source(nil), c.Sources...)
		if c.CorrectedInfo != nil {
			c.CorrectedInfo = strPtr(*c.CorrectedInfo)
		}
		out.Claims[i] = c
	}
	return &out
}
