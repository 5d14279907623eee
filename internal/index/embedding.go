package index

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/tda234574534243/law-advisor/internal/model"
)

// EmbeddingIndex is the semantic index: one vector per passage, produced by
// the encoder named in Model. Vectors are L2-normalized at build time so
// cosine similarity reduces to a dot product.
type EmbeddingIndex struct {
	BuiltAt time.Time       `json:"built_at"`
	Model   string          `json:"model"`
	Vectors [][]float32     `json:"vectors"`
	Docs    []model.Passage `json:"docs"`
}

// Similarities returns the cosine similarity of the query vector against
// every indexed passage.
func (idx *EmbeddingIndex) Similarities(queryVec []float32) []float64 {
	q := normalizeVector(queryVec)
	sims := make([]float64, len(idx.Vectors))
	for i, v := range idx.Vectors {
		if len(v) != len(q) {
			continue
		}
		var s float64
		for j := range v {
			s += float64(v[j]) * float64(q[j])
		}
		sims[i] = s
	}
	return sims
}

func normalizeVector(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// SaveEmbeddings writes the artifact atomically.
func SaveEmbeddings(idx *EmbeddingIndex, path string) error {
	return saveArtifact(idx, path)
}

// LoadEmbeddings reads the artifact; a missing file disables the tier.
func LoadEmbeddings(path string) (*EmbeddingIndex, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read embedding artifact: %w", err)
	}
	var idx EmbeddingIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decode embedding artifact: %w", err)
	}
	return &idx, nil
}

// saveArtifact writes JSON via temp file + rename so an interrupted build
// never leaves a partial artifact for another process to load.
func saveArtifact(v any, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
