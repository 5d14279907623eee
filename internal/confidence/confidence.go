// Package confidence assigns a discrete confidence tier to a set of
// retrieval scores. Thresholds are conservative: the very_high tier is
// reserved for near-certain statistical matches or exact article
// citations.
package confidence

import (
	"github.com/tda234574534243/law-advisor/internal/model"
	"github.com/tda234574534243/law-advisor/internal/search"
)

// Model holds the calibrated thresholds. They are empirical values
// carried as configuration, not re-derived.
type Model struct {
	cfg model.ConfidenceConfig
}

func NewModel(cfg model.ConfidenceConfig) *Model {
	return &Model{cfg: cfg}
}

// Calculate maps scores and hits to a tier and a numeric score.
//
// The tier follows the average of the top three scores, except when the
// query names an article and a hit carries that exact label: a matching
// citation is ground truth regardless of the continuous scores, so it
// returns very_high with a boosted score capped at 0.99.
func (m *Model) Calculate(scores []float64, query string, hits []model.RankedHit) (model.ConfidenceTier, float64) {
	if len(scores) == 0 {
		return model.TierLow, 0.0
	}

	n := len(scores)
	if n > 3 {
		n = 3
	}
	sum := 0.0
	for _, s := range scores[:n] {
		sum += s
	}
	avg := sum / float64(n)

	if num, ok := search.ArticleNumber(query); ok {
		for _, h := range hits {
			if search.SectionCitesArticle(h.Passage.Section+" "+h.Passage.Title, num) {
				boosted := avg + m.cfg.CitationBoost
				if boosted > 0.99 {
					boosted = 0.99
				}
				return model.TierVeryHigh, boosted
			}
		}
	}

	switch {
	case avg >= m.cfg.VeryHigh:
		return model.TierVeryHigh, avg
	case avg >= m.cfg.High:
		return model.TierHigh, avg
	case avg >= m.cfg.Medium:
		return model.TierMedium, avg
	default:
		return model.TierLow, avg
	}
}
