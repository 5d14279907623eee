package model

import "strings"

// Passage is one retrievable unit of statute text.
type Passage struct {
	DocID   string     `bson:"doc_id" json:"doc_id"`                 // Stable identifier within a corpus snapshot
	Title   string     `bson:"title" json:"title"`                   // Parent document name (may be empty)
	Section string     `bson:"section" json:"section"`               // Human label, e.g. "Điều 12"
	Text    string     `bson:"text" json:"text"`                     // Passage body
	URL     string     `bson:"url,omitempty" json:"url,omitempty"`   // Source reference
	Body    []SubEntry `bson:"body,omitempty" json:"body,omitempty"` // Bundled sub-articles, if any
}

// SubEntry is one sub-article inside a bundled passage.
type SubEntry struct {
	SubID string `bson:"sub_id" json:"sub_id"` // Numeric article identifier, e.g. "12"
	Title string `bson:"title" json:"title"`
	Text  string `bson:"text" json:"text"`
}

// CombinedText flattens the passage body into a single searchable string.
// Sub-entries are appended after the top-level text; missing fields are
// treated as empty, never as an error.
func (p Passage) CombinedText() string {
	if len(p.Body) == 0 {
		return p.Text
	}
	var b strings.Builder
	if p.Text != "" {
		b.WriteString(p.Text)
	}
	for _, e := range p.Body {
		if e.Text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(e.Text)
	}
	return b.String()
}

// SubEntryByID returns the sub-article with the given numeric identifier.
func (p Passage) SubEntryByID(id string) (SubEntry, bool) {
	for _, e := range p.Body {
		if e.SubID == id {
			return e, true
		}
	}
	return SubEntry{}, false
}

// RankedHit is a passage scored by the retrieval engine. Scores are
// normalized into [0,1] before hits from different tiers are compared.
type RankedHit struct {
	Passage
	Score float64 `json:"score"`
}

// RetrievalMode selects a retrieval strategy for one query.
type RetrievalMode string

const (
	ModeDefault RetrievalMode = ""        // Full tier chain
	ModeArticle RetrievalMode = "article" // Exact article-number fast path first
	ModeKeyword RetrievalMode = "keyword" // Lexical tier only
)
