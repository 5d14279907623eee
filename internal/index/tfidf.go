// Package index builds and loads the retrieval index artifacts. Artifacts
// live on disk as JSON and are loaded whole; a missing artifact disables
// the tier that would use it rather than failing.
package index

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/tda234574534243/law-advisor/internal/model"
	"github.com/tda234574534243/law-advisor/internal/vntext"
)

// TFIDFIndex is the statistical index: one sparse tf-idf row per passage,
// sharing a single vocabulary. Rows are L2-normalized at build time so the
// dot product against a query vector is a cosine-like score.
type TFIDFIndex struct {
	BuiltAt    time.Time         `json:"built_at"`
	Vocabulary map[string]int    `json:"vocabulary"`
	IDF        []float64         `json:"idf"`
	Rows       []map[int]float64 `json:"rows"`
	Docs       []model.Passage   `json:"docs"`
}

// BuildTFIDF constructs the index from the given passages. Passages with
// empty combined text are skipped, never indexed as empty rows.
func BuildTFIDF(passages []model.Passage) *TFIDFIndex {
	idx := &TFIDFIndex{
		BuiltAt:    time.Now().UTC(),
		Vocabulary: make(map[string]int),
	}

	// First pass: vocabulary and document frequencies
	var termCounts []map[string]int
	df := make(map[string]int)
	for _, p := range passages {
		text := p.CombinedText()
		if text == "" {
			continue
		}
		counts := make(map[string]int)
		for _, tok := range vntext.Tokenize(text) {
			counts[tok]++
		}
		for term := range counts {
			if _, ok := idx.Vocabulary[term]; !ok {
				idx.Vocabulary[term] = len(idx.Vocabulary)
			}
			df[term]++
		}
		termCounts = append(termCounts, counts)
		idx.Docs = append(idx.Docs, p)
	}

	n := len(idx.Docs)
	idx.IDF = make([]float64, len(idx.Vocabulary))
	for term, id := range idx.Vocabulary {
		// Smoothed idf, same shape sklearn uses
		idx.IDF[id] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	// Second pass: weighted, L2-normalized rows
	idx.Rows = make([]map[int]float64, n)
	for i, counts := range termCounts {
		row := make(map[int]float64, len(counts))
		var norm float64
		for term, count := range counts {
			id := idx.Vocabulary[term]
			w := float64(count) * idx.IDF[id]
			row[id] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for id := range row {
				row[id] /= norm
			}
		}
		idx.Rows[i] = row
	}
	return idx
}

// QueryVector transforms a query into the index vector space.
func (idx *TFIDFIndex) QueryVector(query string) map[int]float64 {
	counts := make(map[string]int)
	for _, tok := range vntext.Tokenize(query) {
		counts[tok]++
	}

	vec := make(map[int]float64)
	var norm float64
	for term, count := range counts {
		id, ok := idx.Vocabulary[term]
		if !ok {
			continue
		}
		w := float64(count) * idx.IDF[id]
		vec[id] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for id := range vec {
			vec[id] /= norm
		}
	}
	return vec
}

// Scores returns the dot product of the query vector against every row.
func (idx *TFIDFIndex) Scores(queryVec map[int]float64) []float64 {
	scores := make([]float64, len(idx.Rows))
	if len(queryVec) == 0 {
		return scores
	}
	for i, row := range idx.Rows {
		var s float64
		// Iterate the smaller map
		if len(queryVec) <= len(row) {
			for id, qw := range queryVec {
				if dw, ok := row[id]; ok {
					s += qw * dw
				}
			}
		} else {
			for id, dw := range row {
				if qw, ok := queryVec[id]; ok {
					s += qw * dw
				}
			}
		}
		scores[i] = s
	}
	return scores
}

// SaveTFIDF writes the artifact atomically.
func SaveTFIDF(idx *TFIDFIndex, path string) error {
	return saveArtifact(idx, path)
}

// LoadTFIDF reads the artifact. A missing file returns (nil, nil): the
// statistical tier is simply unavailable.
func LoadTFIDF(path string) (*TFIDFIndex, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tfidf artifact: %w", err)
	}
	var idx TFIDFIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode tfidf artifact: %w", err)
	}
	return &idx, nil
}
