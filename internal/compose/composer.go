// Package compose turns ranked passages into a final answer shaped by
// the detected intent. Composition may downgrade the confidence tier
// when relevance verification fails; it never raises it.
package compose

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tda234574534243/law-advisor/internal/model"
	"github.com/tda234574534243/law-advisor/internal/search"
	"github.com/tda234574534243/law-advisor/internal/vntext"
)

// Composer synthesizes answer text from retrieval hits.
type Composer struct {
	verifier *Verifier
}

func NewComposer(cfg model.ConfidenceConfig) *Composer {
	return &Composer{verifier: &Verifier{MinRatio: cfg.RelevanceRatio}}
}

var definitionSuffix = regexp.MustCompile(`\s*(là gì|là)\?*\s*$`)

var procedureVerbs = []string{"nộp", "lập", "xin", "cấp", "trình", "hoàn thành", "thực hiện", "gửi", "khai", "đề nghị"}

var penaltyKeywords = []string{"phạt", "xử phạt", "mức phạt", "tiền phạt", "hành chính"}

var durationKeywords = []string{"thời hạn", "năm", "tháng", "ngày", "tối đa", "tối thiểu"}

// Compose dispatches on intent and returns the answer text plus the
// possibly downgraded tier. It returns a non-empty answer for every
// valid input, including empty hits.
func (c *Composer) Compose(in model.Intent, hits []model.RankedHit, query string, tier model.ConfidenceTier, isScenario bool, scenarioCtx *model.ScenarioContext) (string, model.ConfidenceTier) {
	if len(hits) == 0 {
		return RandomNoResult(), tier
	}

	if isScenario && scenarioCtx != nil {
		return c.scenarioAnswer(hits, *scenarioCtx, tier), tier
	}

	switch in {
	case model.IntentArticle:
		return c.articleAnswer(hits, query, tier)
	case model.IntentDefinition:
		return c.definitionAnswer(hits, query, tier)
	case model.IntentProcedure:
		if answer, ok := c.procedureAnswer(hits, tier); ok {
			return answer, tier
		}
		return c.generalAnswer(hits, query, tier)
	case model.IntentPenalty:
		return c.penaltyAnswer(hits, tier), tier
	case model.IntentTimeLimit:
		return c.timeLimitAnswer(hits, query, tier)
	default:
		return c.generalAnswer(hits, query, tier)
	}
}

// scenarioAnswer assembles the multi-section practical analysis. Empty
// sections are omitted, never emitted blank.
func (c *Composer) scenarioAnswer(hits []model.RankedHit, ctx model.ScenarioContext, tier model.ConfidenceTier) string {
	var parts []string
	parts = append(parts, prefixFor(tier), "")

	if analysis := analyzeScenario(ctx, hits); analysis != "" {
		parts = append(parts, analysis, "")
	}

	var facts numericFacts
	for _, h := range hits {
		f := extractNumericFacts(h.Passage.CombinedText())
		facts.penalties = append(facts.penalties, f.penalties...)
		facts.timeLimits = append(facts.timeLimits, f.timeLimits...)
		facts.percentages = append(facts.percentages, f.percentages...)
	}
	if section := renderNumericFacts(facts); section != "" {
		parts = append(parts, section, "")
	}

	if comparison := comparisonSection(hits); comparison != "" {
		parts = append(parts, comparison, "")
	}

	parts = append(parts, practicalAdvice(ctx), "")
	parts = append(parts, suffixFor(tier))
	return strings.Join(parts, "\n")
}

// articleAnswer quotes the cited sub-entry verbatim when its numeric
// identifier matches the query exactly, else falls back to the top hit
// truncated to 1000 runes.
func (c *Composer) articleAnswer(hits []model.RankedHit, query string, tier model.ConfidenceTier) (string, model.ConfidenceTier) {
	if num, ok := search.ArticleNumber(query); ok {
		for _, h := range hits {
			if sub, found := h.Passage.SubEntryByID(num); found && sub.Text != "" {
				answer := fmt.Sprintf("%s\n\n**Điều %s:**\n\n%s\n\n%s", prefixFor(tier), num, sub.Text, suffixFor(tier))
				return answer, tier
			}
		}
	}

	top := hits[0].Passage
	text := top.Text
	if len(top.Body) > 0 && top.Body[0].Text != "" {
		text = top.Body[0].Text
	}
	if text == "" {
		text = top.CombinedText()
	}
	answer := fmt.Sprintf("%s\n\n%s\n\n%s", prefixFor(tier), vntext.Truncate(text, 1000), suffixFor(tier))
	return answer, tier
}

// definitionAnswer prefers the canonical dictionary, then a verified
// "<term> là ..." sentence from the hits, then related information at a
// forced medium tier.
func (c *Composer) definitionAnswer(hits []model.RankedHit, query string, tier model.ConfidenceTier) (string, model.ConfidenceTier) {
	term := strings.TrimSpace(definitionSuffix.ReplaceAllString(strings.ToLower(query), ""))

	if def, ok := knownDefinitions[term]; ok {
		return fmt.Sprintf("Dựa trên các tài liệu pháp luật:\n\n%s\n\n%s", def, suffixFor(tier)), tier
	}

	pattern, err := regexp.Compile(regexp.QuoteMeta(term) + `\s+là`)
	if err == nil && term != "" {
		for _, h := range hits {
			sentences := vntext.SplitSentences(h.Passage.CombinedText())
			if len(sentences) > 15 {
				sentences = sentences[:15]
			}
			for _, sent := range sentences {
				if len([]rune(sent)) < 20 {
					continue
				}
				if pattern.MatchString(strings.ToLower(sent)) && c.verifier.Verify(query, sent, hits) {
					return fmt.Sprintf("Dựa trên các tài liệu pháp luật:\n\n%s.\n\n%s", sent, suffixFor(tier)), tier
				}
			}
		}
	}

	// No direct definitional sentence: related info only, and the tier
	// drops to medium at most.
	downgraded := tier
	if downgraded > model.TierMedium {
		downgraded = model.TierMedium
	}
	sentences := vntext.SplitSentences(hits[0].Passage.CombinedText())
	if len(sentences) > 2 {
		sentences = sentences[:2]
	}
	text := strings.Join(sentences, ". ") + "."
	return fmt.Sprintf("Thông tin liên quan:\n\n%s\n\n%s", text, suffixFor(downgraded)), downgraded
}

// procedureAnswer collects sentences carrying procedural verbs into a
// numbered list. Scanning stops at the first hit that yields steps.
func (c *Composer) procedureAnswer(hits []model.RankedHit, tier model.ConfidenceTier) (string, bool) {
	var steps []string
	for _, h := range hits {
		for _, sent := range vntext.SplitSentences(h.Passage.CombinedText()) {
			lower := strings.ToLower(sent)
			for _, verb := range procedureVerbs {
				if strings.Contains(lower, verb) {
					steps = append(steps, sent)
					break
				}
			}
			if len(steps) >= 4 {
				break
			}
		}
		if len(steps) > 0 {
			break
		}
	}
	if len(steps) == 0 {
		return "", false
	}

	var numbered []string
	for i, s := range steps {
		numbered = append(numbered, fmt.Sprintf("%d. %s", i+1, s))
	}
	answer := fmt.Sprintf("%s\n\n%s\n\n%s", prefixFor(tier), strings.Join(numbered, "\n"), suffixFor(tier))
	return answer, true
}

// penaltyAnswer joins up to three penalty-vocabulary sentences from the
// top hit, or falls back to a 400-rune summary.
func (c *Composer) penaltyAnswer(hits []model.RankedHit, tier model.ConfidenceTier) string {
	text := hits[0].Passage.CombinedText()

	var penaltySents []string
	for _, sent := range vntext.SplitSentences(text) {
		lower := strings.ToLower(sent)
		for _, kw := range penaltyKeywords {
			if strings.Contains(lower, kw) {
				penaltySents = append(penaltySents, sent)
				break
			}
		}
		if len(penaltySents) >= 3 {
			break
		}
	}

	if len(penaltySents) > 0 {
		return fmt.Sprintf("%s\n\n%s.\n\n%s", prefixFor(tier), strings.Join(penaltySents, ". "), suffixFor(tier))
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s", prefixFor(tier), summarizeSnippet(text, 400), suffixFor(tier))
}

// timeLimitAnswer returns the first verified duration sentence, else a
// summary of the top hit downgraded to low when even the summary fails
// verification.
func (c *Composer) timeLimitAnswer(hits []model.RankedHit, query string, tier model.ConfidenceTier) (string, model.ConfidenceTier) {
	for _, h := range hits {
		for _, sent := range vntext.SplitSentences(h.Passage.CombinedText()) {
			if len([]rune(sent)) <= 20 {
				continue
			}
			lower := strings.ToLower(sent)
			matched := false
			for _, kw := range durationKeywords {
				if strings.Contains(lower, kw) {
					matched = true
					break
				}
			}
			if matched && c.verifier.Verify(query, sent, hits) {
				answer := fmt.Sprintf("%s\n\n%s.\n\n%s", prefixFor(tier), sent, suffixFor(tier))
				return answer, tier
			}
		}
	}

	text := summarizeSnippet(hits[0].Passage.CombinedText(), 400)
	downgraded := tier
	if !c.verifier.Verify(query, text, hits) {
		downgraded = model.TierLow
	}
	answer := fmt.Sprintf("%s\n\n%s\n\n%s", prefixFor(downgraded), text, suffixFor(downgraded))
	return answer, downgraded
}

// generalAnswer serves the who and general intents from the best hit
// only. A failed relevance check drops very_high and high to low.
func (c *Composer) generalAnswer(hits []model.RankedHit, query string, tier model.ConfidenceTier) (string, model.ConfidenceTier) {
	top := hits[0]
	text := top.Passage.CombinedText()

	downgraded := tier
	if !c.verifier.Verify(query, text, hits) && (tier == model.TierVeryHigh || tier == model.TierHigh) {
		downgraded = model.TierLow
	}

	if top.Score > 0.6 {
		summary := summarizeSnippet(text, 500)
		return fmt.Sprintf("%s\n\n%s\n\n%s", prefixFor(downgraded), summary, suffixFor(downgraded)), downgraded
	}

	var summaries []string
	limit := len(hits)
	if limit > 2 {
		limit = 2
	}
	for i := 0; i < limit; i++ {
		title := hits[i].Passage.Title
		if title == "" {
			title = "Thông tin"
		}
		summary := summarizeSnippet(hits[i].Passage.CombinedText(), 250)
		summaries = append(summaries, fmt.Sprintf("**%d. %s:**\n%s", i+1, title, summary))
	}
	answer := fmt.Sprintf("%s\n\n%s\n\n%s", prefixFor(downgraded), strings.Join(summaries, "\n\n"), suffixFor(downgraded))
	return answer, downgraded
}
