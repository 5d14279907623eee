package compose

import (
	"strings"

	"github.com/tda234574534243/law-advisor/internal/model"
)

// Verifier gates confidence with a cheap term-overlap check between the
// query and a candidate answer. It never filters retrieval results.
type Verifier struct {
	// MinRatio is the fraction of long query terms that must appear in
	// the candidate text.
	MinRatio float64
}

// Verify reports whether the candidate text engages with the query topic.
//
// Query terms longer than 3 runes are matched as substrings of the
// lowercased candidate. Before thresholding, any token longer than 4
// runes from the top hit's title and section found in the candidate
// confirms relevance outright: the answer demonstrably came from the
// retrieved source.
func (v *Verifier) Verify(query, candidate string, hits []model.RankedHit) bool {
	queryLower := strings.ToLower(query)
	candidateLower := strings.ToLower(candidate)

	var terms []string
	for _, w := range strings.Fields(queryLower) {
		if len([]rune(w)) > 3 {
			terms = append(terms, w)
		}
	}

	if len(hits) > 0 {
		sourceLabel := strings.ToLower(hits[0].Passage.Title + " " + hits[0].Passage.Section)
		for _, w := range strings.Fields(sourceLabel) {
			if len([]rune(w)) > 4 && strings.Contains(candidateLower, w) {
				return true
			}
		}
	}

	matched := 0
	for _, t := range terms {
		if strings.Contains(candidateLower, t) {
			matched++
		}
	}
	total := len(terms)
	if total < 1 {
		total = 1
	}
	return float64(matched)/float64(total) > v.MinRatio
}
