package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tda234574534243/law-advisor/internal/model"
)

// FileStore is a JSON-file passage store used when Mongo is unreachable.
// The whole corpus is held in memory and rewritten on every insert, which
// is acceptable at statute-corpus scale.
type FileStore struct {
	path string

	mu       sync.RWMutex
	passages []model.Passage
}

// NewFileStore loads (or lazily creates) the JSON corpus at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.passages); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return s, nil
}

// FetchAllPassages returns a copy of the corpus.
func (s *FileStore) FetchAllPassages(ctx context.Context) ([]model.Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Passage, len(s.passages))
	copy(out, s.passages)
	return out, nil
}

// TextSearch does a case-insensitive substring scan over title, section and
// flattened body text, returning the first limit matches in corpus order.
func (s *FileStore) TextSearch(ctx context.Context, query string, limit int) ([]model.Passage, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []model.Passage
	for _, p := range s.passages {
		haystack := strings.ToLower(p.Title + " " + p.Section + " " + p.CombinedText())
		if strings.Contains(haystack, q) {
			results = append(results, p)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// Insert appends a passage and persists the corpus.
func (s *FileStore) Insert(ctx context.Context, p model.Passage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.passages = append(s.passages, p)
	return s.flush()
}

// flush writes the corpus atomically: temp file then rename, so a crashed
// write never leaves a truncated corpus behind.
func (s *FileStore) flush() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(s.passages, "", "  ")
	if err != nil {
		return fmt.Errorf("encode passages: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
