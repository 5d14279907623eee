// Package bot orchestrates one question/answer cycle: sentiment and
// intent analysis, learned-answer reuse, retrieval, confidence scoring,
// composition, tone wrapping and interaction recording.
package bot

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tda234574534243/law-advisor/internal/compose"
	"github.com/tda234574534243/law-advisor/internal/confidence"
	"github.com/tda234574534243/law-advisor/internal/conversation"
	"github.com/tda234574534243/law-advisor/internal/intent"
	"github.com/tda234574534243/law-advisor/internal/learning"
	"github.com/tda234574534243/law-advisor/internal/model"
	"github.com/tda234574534243/law-advisor/internal/nlg"
	"github.com/tda234574534243/law-advisor/internal/sentiment"
)

// Retriever is the slice of the search engine the bot depends on.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int, mode model.RetrievalMode) []model.RankedHit
}

const emptyQueryAnswer = "Bạn hãy nhập câu hỏi của bạn. Tôi sẵn sàng giúp! 😊"

// Bot wires the collaborators around the retrieval/composition core.
// All dependencies are injected; Bot holds no hidden global state.
type Bot struct {
	retriever  Retriever
	confidence *confidence.Model
	composer   *compose.Composer
	learning   *learning.Engine
	sentiment  *sentiment.Analyzer
	sessions   *conversation.Manager
	nlg        *nlg.Engine
	logger     *slog.Logger

	// learnedBypass is the similarity above which a learned answer is
	// returned without running retrieval.
	learnedBypass float64
	topK          int
}

// Options carry the tunables the orchestrator needs from config.
type Options struct {
	LearnedBypass float64
	TopK          int
}

func New(retriever Retriever, conf *confidence.Model, composer *compose.Composer, learn *learning.Engine, analyzer *sentiment.Analyzer, sessions *conversation.Manager, gen *nlg.Engine, opts Options, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.LearnedBypass <= 0 {
		opts.LearnedBypass = 0.7
	}
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	return &Bot{
		retriever:     retriever,
		confidence:    conf,
		composer:      composer,
		learning:      learn,
		sentiment:     analyzer,
		sessions:      sessions,
		nlg:           gen,
		logger:        logger,
		learnedBypass: opts.LearnedBypass,
		topK:          opts.TopK,
	}
}

// AnswerQuestion runs the full pipeline for one query.
func (b *Bot) AnswerQuestion(ctx context.Context, query string, k int, sessionID, userID string) model.Answer {
	q := strings.TrimSpace(query)
	if q == "" {
		return model.Answer{Answer: emptyQueryAnswer, Sources: []string{}}
	}
	if k <= 0 {
		k = b.topK
	}

	senti, _ := b.sentiment.AnalyzeSentiment(q)
	urgency, _ := b.sentiment.AnalyzeUrgency(q)
	isFollowup := b.sentiment.IsFollowUp(q)
	contextType := b.sentiment.DetectContextType(q)
	tone := b.sentiment.ResponseTone(senti, urgency)

	isScenario := intent.DetectScenario(q)
	var scenarioCtx *model.ScenarioContext
	var in model.Intent
	if isScenario {
		c := intent.ExtractScenarioContext(q)
		scenarioCtx = &c
		in = model.IntentScenario
	} else {
		in = intent.DetectIntent(q)
	}

	if in == model.IntentGreeting {
		answer := compose.RandomGreeting()
		b.logTurn(sessionID, q, answer, string(senti), "")
		return model.Answer{Answer: answer, Sources: []string{}, Sentiment: string(senti)}
	}

	// Learned answers are skipped for definitions: a paraphrased reply
	// must not replace a canonical definition.
	if in != model.IntentDefinition {
		if answer, ok := b.tryLearnedAnswer(ctx, q, sessionID, userID, senti); ok {
			return answer
		}
	}

	var mode model.RetrievalMode
	switch in {
	case model.IntentArticle:
		mode = model.ModeArticle
	case model.IntentDefinition, model.IntentWho, model.IntentProcedure, model.IntentPenalty:
		mode = model.ModeKeyword
	}

	hits := b.retriever.Retrieve(ctx, q, k, mode)
	if len(hits) == 0 {
		answer := compose.RandomNoResult()
		b.logTurn(sessionID, q, answer, string(senti), "")
		return model.Answer{Answer: answer, Sources: []string{}, Sentiment: string(senti)}
	}

	scores := make([]float64, len(hits))
	for i, h := range hits {
		scores[i] = h.Score
	}
	tier, confScore := b.confidence.Calculate(scores, q, hits)

	sources := collectSources(hits)

	answer, revisedTier := b.composer.Compose(in, hits, q, tier, isScenario, scenarioCtx)
	if revisedTier != tier {
		confScore = revisedTier.Midpoint()
		tier = revisedTier
	}

	if tone.Greeting != "" {
		answer = tone.Greeting + "\n\n" + answer
	}
	if tone.Suffix != "" {
		answer = answer + "\n\n" + tone.Suffix
	}
	answer = b.nlg.DecorateHeadings(answer)

	interactionID, err := b.learning.RecordInteraction(ctx, q, answer, sources, userID, map[string]string{
		"sentiment":    string(senti),
		"urgency":      string(urgency),
		"intent":       string(in),
		"confidence":   strconv.FormatFloat(confScore, 'f', 4, 64),
		"context_type": string(contextType),
	})
	if err != nil {
		b.logger.Warn("record interaction failed", "error", err)
	}

	b.logTurn(sessionID, q, answer, string(senti), interactionID)

	return model.Answer{
		Answer:        answer,
		Sources:       sources,
		Confidence:    confScore,
		IsScenario:    isScenario,
		Sentiment:     string(senti),
		Urgency:       string(urgency),
		InteractionID: interactionID,
		IsFollowup:    isFollowup,
	}
}

// tryLearnedAnswer replays a previously well-rated answer when the
// query is close enough, bypassing retrieval entirely.
func (b *Bot) tryLearnedAnswer(ctx context.Context, q, sessionID, userID string, senti sentiment.Sentiment) (model.Answer, bool) {
	matches, err := b.learning.FindSimilar(ctx, q, 2)
	if err != nil {
		b.logger.Warn("learned-answer lookup failed", "error", err)
		return model.Answer{}, false
	}
	if len(matches) == 0 || matches[0].Similarity <= b.learnedBypass {
		return model.Answer{}, false
	}

	answer := b.nlg.Paraphrase(matches[0].Answer, nlg.StyleInformal)
	interactionID, err := b.learning.RecordInteraction(ctx, q, answer, nil, userID, map[string]string{
		"from_learning": "true",
		"similarity":    strconv.FormatFloat(matches[0].Similarity, 'f', 4, 64),
	})
	if err != nil {
		b.logger.Warn("record interaction failed", "error", err)
	}
	b.logTurn(sessionID, q, answer, string(senti), interactionID)

	return model.Answer{
		Answer:        answer,
		Sources:       []string{},
		Confidence:    matches[0].Similarity,
		Sentiment:     string(senti),
		FromLearning:  true,
		InteractionID: interactionID,
	}, true
}

// logTurn appends the exchange to the session history when one exists.
func (b *Bot) logTurn(sessionID, query, answer, senti, interactionID string) {
	if sessionID == "" {
		return
	}
	if err := b.sessions.AddMessage(sessionID, "user", query, map[string]string{"sentiment": senti}); err != nil {
		b.logger.Debug("session append failed", "error", err)
		return
	}
	meta := map[string]string{}
	if interactionID != "" {
		meta["interaction_id"] = interactionID
	}
	if err := b.sessions.AddMessage(sessionID, "bot", answer, meta); err != nil {
		b.logger.Debug("session append failed", "error", err)
	}
}

// collectSources deduplicates source URLs in order of first appearance,
// considering at most the top three hits.
func collectSources(hits []model.RankedHit) []string {
	limit := len(hits)
	if limit > 3 {
		limit = 3
	}
	seen := make(map[string]bool)
	sources := []string{}
	for _, h := range hits[:limit] {
		url := h.Passage.URL
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		sources = append(sources, url)
	}
	return sources
}
