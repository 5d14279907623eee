// Package vntext holds the Vietnamese-leaning text helpers shared by the
// index builder, the retrieval engine and the answer composer. A proper
// word segmenter would improve tokenization; the normalization here is the
// fallback path and the behavior every caller can rely on.
package vntext

import (
	"strings"
	"unicode"
)

// Normalize lowercases text and strips everything that is neither a letter,
// a digit nor whitespace. Runs of whitespace collapse to single spaces.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize normalizes and splits on whitespace.
func Tokenize(text string) []string {
	norm := Normalize(text)
	if norm == "" {
		return nil
	}
	return strings.Split(norm, " ")
}

// TokenSet returns the unique tokens of text.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokenize(text) {
		set[t] = struct{}{}
	}
	return set
}

// stopwords are common Vietnamese function words excluded from similarity
// comparisons. Kept small on purpose.
var stopwords = map[string]struct{}{
	"các": {}, "và": {}, "hay": {}, "là": {}, "được": {}, "để": {},
	"trong": {}, "ở": {}, "về": {}, "từ": {}, "với": {}, "như": {},
	"cái": {}, "gì": {}, "ai": {}, "không": {}, "có": {}, "bạn": {},
	"tôi": {}, "mình": {},
}

// ContentTokens tokenizes and drops stopwords and tokens of length <= 2.
func ContentTokens(text string) []string {
	var out []string
	for _, t := range Tokenize(text) {
		if len([]rune(t)) <= 2 {
			continue
		}
		if _, ok := stopwords[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SplitSentences splits text on sentence terminators. Fragments are
// trimmed; empty fragments are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		s = strings.TrimRight(s, ".!?…")
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == ';' {
			flush()
		}
	}
	flush()
	return sentences
}

// Truncate cuts text to at most max runes, never splitting a rune.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
