// Package nlg varies the surface form of composed answers: synonym
// substitution, register adjustment and tone wrapping. It never changes
// legal content beyond word choice.
package nlg

import (
	"math/rand"
	"strings"

	"github.com/tda234574534243/law-advisor/internal/sentiment"
	"github.com/tda234574534243/law-advisor/internal/vntext"
)

// Style selects the target register for paraphrasing.
type Style string

const (
	StyleFormal   Style = "formal"
	StyleInformal Style = "informal"
)

var introPhrases = []string{
	"Theo luật định:",
	"Dựa trên quy định pháp luật:",
	"Theo đó:",
	"Cần lưu ý rằng:",
	"Theo các tài liệu pháp luật:",
	"Cụ thể:",
	"Để trả lời bạn:",
}

var conclusionPhrases = []string{
	"Tóm lại:",
	"Do đó:",
	"Vì vậy:",
	"Như vậy:",
	"Nói cách khác:",
}

// synonyms substitute one alternative per occurrence during paraphrase.
var synonyms = map[string][]string{
	"thủ tục":   {"quy trình", "cách thức"},
	"giấy phép": {"chứng chỉ"},
	"cơ quan":   {"ban", "sở"},
	"xử phạt":   {"phạt tiền", "hình phạt"},
	"cho thuê":  {"cho sử dụng"},
}

var informalReplacements = map[string]string{
	"được cho phép": "có thể",
	"bị cấm":        "không được",
	"theo đó":       "vậy thì",
}

var formalReplacements = map[string]string{
	"vậy thì":    "theo đó",
	"không được": "bị cấm",
	"có thể":     "được cho phép",
}

// Engine generates varied response text. The zero value is usable.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Paraphrase rewrites the text with synonym substitution and the given
// register. Used when a learned answer is replayed, so repeated queries
// do not get word-for-word identical responses.
func (e *Engine) Paraphrase(text string, style Style) string {
	out := text
	lower := strings.ToLower(out)
	for word, alts := range synonyms {
		if strings.Contains(lower, word) {
			out = replaceFold(out, word, alts[rand.Intn(len(alts))])
			lower = strings.ToLower(out)
		}
	}

	switch style {
	case StyleInformal:
		out = applyReplacements(out, informalReplacements)
	case StyleFormal:
		out = applyReplacements(out, formalReplacements)
	}
	return out
}

// Intro returns a randomly chosen answer opener.
func (e *Engine) Intro() string {
	return introPhrases[rand.Intn(len(introPhrases))]
}

// Conclusion returns a randomly chosen closing phrase.
func (e *Engine) Conclusion() string {
	return conclusionPhrases[rand.Intn(len(conclusionPhrases))]
}

// WrapWithTone frames a finished answer with the greeting and suffix of
// the detected tone. The core answer text is untouched.
func (e *Engine) WrapWithTone(answer string, tone sentiment.Tone) string {
	var parts []string
	if tone.Greeting != "" {
		parts = append(parts, tone.Greeting)
	}
	parts = append(parts, answer)
	if tone.Suffix != "" {
		parts = append(parts, tone.Suffix)
	}
	return strings.Join(parts, "\n\n")
}

// BulletPoints renders each sentence of the text as a bullet line.
func (e *Engine) BulletPoints(text string) string {
	sentences := vntext.SplitSentences(text)
	var lines []string
	for _, s := range sentences {
		lines = append(lines, "• "+s)
	}
	return strings.Join(lines, "\n")
}

// DecorateHeadings prefixes warning emphasis onto markdown headings
// that announce caveats. Inline text is left alone.
func (e *Engine) DecorateHeadings(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "##") {
			continue
		}
		lower := strings.ToLower(trimmed)
		if (strings.Contains(lower, "cảnh báo") || strings.Contains(lower, "lưu ý")) && !strings.Contains(trimmed, "⚠️") {
			lines[i] = strings.Replace(line, "##", "## ⚠️", 1)
		}
	}
	return strings.Join(lines, "\n")
}

// replaceFold replaces occurrences of old regardless of case, keeping
// the rest of the text intact.
func replaceFold(text, old, repl string) string {
	lower := strings.ToLower(text)
	oldLower := strings.ToLower(old)

	var b strings.Builder
	for {
		i := strings.Index(lower, oldLower)
		if i < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:i])
		b.WriteString(repl)
		text = text[i+len(oldLower):]
		lower = lower[i+len(oldLower):]
	}
}

func applyReplacements(text string, replacements map[string]string) string {
	for old, repl := range replacements {
		text = replaceFold(text, old, repl)
	}
	return text
}
