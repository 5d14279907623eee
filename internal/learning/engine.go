// Package learning records question/answer interactions and their
// ratings, and serves previously well-rated answers back for similar
// queries so retrieval can be bypassed for questions the bot already
// answered to the user's satisfaction.
package learning

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tda234574534243/law-advisor/internal/vntext"
)

// Match is a learned answer similar to the current query.
type Match struct {
	Similarity float64 `json:"similarity"`
	Query      string  `json:"query"`
	Answer     string  `json:"answer"`
	Rating     int     `json:"rating"`
}

// Stats summarizes the feedback corpus.
type Stats struct {
	TotalInteractions int      `json:"total_interactions"`
	PositiveFeedback  int      `json:"positive_feedback"`
	NegativeFeedback  int      `json:"negative_feedback"`
	AvgRating         float64  `json:"avg_rating"`
	WithFeedback      int      `json:"interactions_with_feedback"`
	MostAsked         []string `json:"most_asked"`
}

// Engine mediates between the orchestrator and the interaction store.
type Engine struct {
	store Store
	// minRating is the rating floor for an interaction to be reused.
	minRating int
	// minSimilarity is the Jaccard floor for collecting candidates.
	minSimilarity float64
}

func NewEngine(store Store, minRating int) *Engine {
	if minRating <= 0 {
		minRating = 4
	}
	return &Engine{store: store, minRating: minRating, minSimilarity: 0.3}
}

// RecordInteraction stores a new exchange and returns its id.
func (e *Engine) RecordInteraction(ctx context.Context, query, answer string, sources []string, userID string, metadata map[string]string) (string, error) {
	if userID == "" {
		userID = "anonymous"
	}
	in := Interaction{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Query:     query,
		Answer:    answer,
		Sources:   sources,
		UserID:    userID,
		Metadata:  metadata,
		Tokens:    vntext.ContentTokens(query),
	}
	if err := e.store.Append(ctx, in); err != nil {
		return "", fmt.Errorf("record interaction: %w", err)
	}
	return in.ID, nil
}

// SubmitFeedback attaches a 1-5 rating and optional free text to an
// interaction.
func (e *Engine) SubmitFeedback(ctx context.Context, interactionID string, rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating %d out of range 1-5", rating)
	}
	in, ok, err := e.store.Get(ctx, interactionID)
	if err != nil {
		return fmt.Errorf("load interaction: %w", err)
	}
	if !ok {
		return fmt.Errorf("interaction %s not found", interactionID)
	}
	in.Rating = rating
	in.Feedback = feedback
	if err := e.store.Update(ctx, in); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}

// FindSimilar returns up to topK well-rated interactions whose queries
// overlap the given one, ordered by descending Jaccard similarity.
func (e *Engine) FindSimilar(ctx context.Context, query string, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 3
	}
	queryTokens := tokenSet(vntext.ContentTokens(query))
	if len(queryTokens) == 0 {
		return nil, nil
	}

	all, err := e.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	var matches []Match
	for _, in := range all {
		if in.Rating < e.minRating {
			continue
		}
		sim := jaccard(queryTokens, tokenSet(in.Tokens))
		if sim > e.minSimilarity {
			matches = append(matches, Match{Similarity: sim, Query: in.Query, Answer: in.Answer, Rating: in.Rating})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Stats aggregates feedback counters from the stored interactions.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	all, err := e.store.All(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load interactions: %w", err)
	}

	st := Stats{TotalInteractions: len(all)}
	ratingSum := 0
	queryCount := make(map[string]int)
	for _, in := range all {
		queryCount[in.Query]++
		if in.Rating == 0 {
			continue
		}
		st.WithFeedback++
		ratingSum += in.Rating
		if in.Rating >= 4 {
			st.PositiveFeedback++
		} else if in.Rating <= 2 {
			st.NegativeFeedback++
		}
	}
	if st.WithFeedback > 0 {
		st.AvgRating = float64(ratingSum) / float64(st.WithFeedback)
	}
	st.MostAsked = topQueries(queryCount, 5)
	return st, nil
}

func topQueries(counts map[string]int, n int) []string {
	type qc struct {
		q string
		c int
	}
	list := make([]qc, 0, len(counts))
	for q, c := range counts {
		list = append(list, qc{q, c})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].c != list[j].c {
			return list[i].c > list[j].c
		}
		return list[i].q < list[j].q
	})
	if len(list) > n {
		list = list[:n]
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.q)
	}
	return out
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
