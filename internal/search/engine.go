// Package search implements the tiered passage retrieval engine:
// an exact article-number fast path, then semantic, statistical and
// lexical tiers. Each tier either supplies the complete result set or is
// skipped; tiers never merge.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/tda234574534243/law-advisor/internal/embed"
	"github.com/tda234574534243/law-advisor/internal/index"
	"github.com/tda234574534243/law-advisor/internal/model"
	"github.com/tda234574534243/law-advisor/internal/store"
	"github.com/tda234574534243/law-advisor/internal/vntext"
)

// articlePattern extracts the numeral after the word for "article".
// Accepts the accented forms and the bare ASCII "dieu". \b is ASCII-only
// in RE2, so the accented alternative carries no leading boundary.
var articlePattern = regexp.MustCompile(`(?i)đi[eêề]u\s*\.?\s*(\d+)\b|\bdieu\s*\.?\s*(\d+)\b`)

// Engine answers retrieval queries against read-mostly index artifacts.
// Artifacts are swapped atomically on Reload so in-flight queries see
// either the old index or the new one, never a partial rebuild.
type Engine struct {
	store   store.PassageStore
	encoder embed.Encoder // nil disables the semantic tier
	cfg     model.RetrievalConfig
	idxCfg  model.IndexConfig
	logger  *slog.Logger

	tfidf      atomic.Pointer[index.TFIDFIndex]
	embeddings atomic.Pointer[index.EmbeddingIndex]
}

// NewEngine constructs an engine. Call Reload to load index artifacts;
// construction never touches the disk.
func NewEngine(s store.PassageStore, encoder embed.Encoder, cfg model.RetrievalConfig, idxCfg model.IndexConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: s, encoder: encoder, cfg: cfg, idxCfg: idxCfg, logger: logger}
}

// Reload loads the index artifacts from disk and swaps them in. A missing
// artifact disables its tier; that is not an error.
func (e *Engine) Reload() error {
	tfidf, err := index.LoadTFIDF(e.idxCfg.TFIDFPath)
	if err != nil {
		return fmt.Errorf("load tfidf: %w", err)
	}
	embIdx, err := index.LoadEmbeddings(e.idxCfg.EmbeddingPath)
	if err != nil {
		return fmt.Errorf("load embeddings: %w", err)
	}
	e.tfidf.Store(tfidf)
	e.embeddings.Store(embIdx)
	return nil
}

// tierResult is the outcome of one tier attempt. A tier either succeeds
// with a complete result set or is skipped with a reason; failures inside
// a tier degrade to a skip, never to an error for the caller.
type tierResult struct {
	hits    []model.RankedHit
	skipped bool
	reason  string
}

func skipped(reason string) tierResult { return tierResult{skipped: true, reason: reason} }

// Retrieve returns up to k hits ordered by descending score.
func (e *Engine) Retrieve(ctx context.Context, query string, k int, mode model.RetrievalMode) []model.RankedHit {
	if k <= 0 {
		k = e.cfg.TopK
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	// Explicit article citations bypass statistical ranking entirely.
	if mode == model.ModeArticle {
		if hits := e.articleFastPath(ctx, query, k); len(hits) > 0 {
			return hits
		}
	}

	var tiers []func() tierResult
	if mode == model.ModeKeyword {
		tiers = []func() tierResult{
			func() tierResult { return e.lexicalTier(ctx, query, k) },
		}
	} else {
		tiers = []func() tierResult{
			func() tierResult { return e.semanticTier(ctx, query, k) },
			func() tierResult { return e.statisticalTier(query, k) },
			func() tierResult { return e.lexicalTier(ctx, query, k) },
		}
	}

	for _, tier := range tiers {
		res := tier()
		if res.skipped {
			e.logger.Debug("retrieval tier skipped", "reason", res.reason)
			continue
		}
		if len(res.hits) > 0 {
			return res.hits
		}
	}
	return nil
}

// ArticleNumber extracts an explicit article-number citation from a query.
func ArticleNumber(query string) (string, bool) {
	m := articlePattern.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

// articleFastPath scans the corpus for passages whose section label cites
// the queried article number exactly. Matches score a fixed 1.0.
func (e *Engine) articleFastPath(ctx context.Context, query string, k int) []model.RankedHit {
	num, ok := ArticleNumber(query)
	if !ok {
		return nil
	}

	passages, err := e.store.FetchAllPassages(ctx)
	if err != nil {
		e.logger.Warn("article fast path: store unavailable", "error", err)
		return nil
	}

	var hits []model.RankedHit
	for _, p := range passages {
		if SectionCitesArticle(p.Section+" "+p.Title, num) {
			hits = append(hits, model.RankedHit{Passage: p, Score: 1.0})
			if len(hits) >= k {
				break
			}
		}
	}
	return hits
}

// SectionCitesArticle reports whether a section/title label contains the
// word for "article" immediately followed by exactly the given numeral.
func SectionCitesArticle(label, num string) bool {
	toks := vntext.Tokenize(label)
	for i := 0; i+1 < len(toks); i++ {
		if (toks[i] == "điều" || toks[i] == "dieu") && toks[i+1] == num {
			return true
		}
	}
	return false
}

// semanticTier encodes the query and ranks by cosine similarity against
// the embedding index.
func (e *Engine) semanticTier(ctx context.Context, query string, k int) tierResult {
	idx := e.embeddings.Load()
	if idx == nil {
		return skipped("no embedding index")
	}
	if e.encoder == nil {
		return skipped("no embedding encoder")
	}
	if e.encoder.Name() != idx.Model {
		return skipped(fmt.Sprintf("encoder %q does not match index model %q", e.encoder.Name(), idx.Model))
	}

	vecs, err := e.encoder.Encode(ctx, []string{query})
	if err != nil || len(vecs) != 1 {
		return skipped(fmt.Sprintf("query encoding failed: %v", err))
	}

	sims := idx.Similarities(vecs[0])
	var hits []model.RankedHit
	for i, s := range sims {
		if s > e.cfg.MinSimilarity {
			hits = append(hits, model.RankedHit{Passage: idx.Docs[i], Score: clamp01(s)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return tierResult{hits: hits}
}

// statisticalTier ranks by TF-IDF dot product, max-normalized, then
// re-ranks with exact token overlap: 0.7*tfidf + 0.3*overlap by default.
func (e *Engine) statisticalTier(query string, k int) tierResult {
	idx := e.tfidf.Load()
	if idx == nil {
		return skipped("no tfidf index")
	}

	scores := idx.Scores(idx.QueryVector(query))
	maxScore := 0.0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore == 0 {
		return tierResult{} // no positive candidates: fall through
	}

	queryTokens := vntext.TokenSet(query)
	var hits []model.RankedHit
	for i, s := range scores {
		norm := s / maxScore
		if norm <= 0 {
			continue
		}
		overlap := tokenOverlap(queryTokens, idx.Docs[i].CombinedText())
		final := e.cfg.TFIDFWeight*norm + e.cfg.OverlapWeight*overlap
		hits = append(hits, model.RankedHit{Passage: idx.Docs[i], Score: clamp01(final)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return tierResult{hits: hits}
}

// lexicalTier is the final fallback: substring containment search in the
// store. Hits are scored by query-token overlap so every hit carries a
// normalized score.
func (e *Engine) lexicalTier(ctx context.Context, query string, k int) tierResult {
	norm := vntext.Normalize(query)
	passages, err := e.store.TextSearch(ctx, norm, k)
	if err != nil {
		e.logger.Warn("lexical tier: store search failed", "error", err)
		return skipped(fmt.Sprintf("store search failed: %v", err))
	}

	queryTokens := vntext.TokenSet(query)
	hits := make([]model.RankedHit, 0, len(passages))
	for _, p := range passages {
		hits = append(hits, model.RankedHit{
			Passage: p,
			Score:   tokenOverlap(queryTokens, p.Title+" "+p.CombinedText()),
		})
	}
	return tierResult{hits: hits}
}

// tokenOverlap is the fraction of query tokens present in the text.
func tokenOverlap(queryTokens map[string]struct{}, text string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	textTokens := vntext.TokenSet(text)
	matched := 0
	for t := range queryTokens {
		if _, ok := textTokens[t]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
