// Package store provides the passage store behind the retrieval engine.
// Mongo is the primary backend; a JSON file store serves as the fallback
// when Mongo is unreachable, mirroring the corpus snapshot on disk.
package store

import (
	"context"

	"github.com/tda234574534243/law-advisor/internal/model"
)

// PassageStore exposes the two operations the retrieval engine needs.
type PassageStore interface {
	// FetchAllPassages returns the full corpus, one Passage per article.
	// Used to build the statistical/embedding indices and by the
	// article fast path.
	FetchAllPassages(ctx context.Context) ([]model.Passage, error)

	// TextSearch returns up to limit passages whose text matches the
	// normalized query. This is the lexical fallback tier.
	TextSearch(ctx context.Context, query string, limit int) ([]model.Passage, error)

	// Insert adds a passage to the corpus.
	Insert(ctx context.Context, p model.Passage) error
}
