package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/narrative-risk/riskview/internal/core"
)

type catalogueSource []core.CatalogueEntry

func (c catalogueSource) String(i int) string {
	e := c[i]
	return strings.Join([]string{e.Name, core.Hostname(e.URL), e.Platform}, " ")
}

func (c catalogueSource) Len() int { return len(c) }

// FilterCatalogue fuzzy-matches query against each entry's name, host and
// platform. Results are ordered by match quality. An empty query returns entries.
func FilterCatalogue(entries []core.CatalogueEntry, query string) []core.CatalogueEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}
	matches := fuzzy.FindFrom(query, catalogueSource(entries))
	out := make([]core.CatalogueEntry, 0, len(matches))
	for _, match := range matches {
		out = append(out, entries[match.Index])
	}
	return out
}
