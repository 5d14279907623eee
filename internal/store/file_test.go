package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tda234574534243/law-advisor/internal/model"
)

func TestFileStore_InsertAndFetchAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passages.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	ctx := context.Background()
	passages := []model.Passage{
		{DocID: "luat-dat-dai#3", Title: "Luật Đất đai", Section: "Điều 3", Text: "Quyền sử dụng đất là quyền của người được Nhà nước giao đất."},
		{DocID: "luat-dat-dai#12", Title: "Luật Đất đai", Section: "Điều 12", Text: "Nhà nước nghiêm cấm hành vi lấn chiếm đất đai."},
	}
	for _, p := range passages {
		if err := s.Insert(ctx, p); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	got, err := s.FetchAllPassages(ctx)
	if err != nil {
		t.Fatalf("FetchAllPassages: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(got))
	}

	// Reload from disk to confirm persistence
	reloaded, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err = reloaded.FetchAllPassages(ctx)
	if err != nil {
		t.Fatalf("FetchAllPassages after reload: %v", err)
	}
	if len(got) != 2 || got[0].DocID != "luat-dat-dai#3" {
		t.Errorf("reloaded corpus mismatch: %+v", got)
	}
}

func TestFileStore_TextSearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passages.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	ctx := context.Background()
	if err := s.Insert(ctx, model.Passage{
		DocID:   "d1",
		Title:   "Luật Đất đai",
		Section: "Điều 45",
		Text:    "Điều kiện chuyển nhượng quyền sử dụng đất.",
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	hits, err := s.TextSearch(ctx, "CHUYỂN NHƯỢNG", 10)
	if err != nil {
		t.Fatalf("TextSearch: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}

	hits, err = s.TextSearch(ctx, "thừa kế", 10)
	if err != nil {
		t.Fatalf("TextSearch: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestFileStore_TextSearchLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passages.json")
	s, _ := NewFileStore(path)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_ = s.Insert(ctx, model.Passage{DocID: string(rune('a' + i)), Text: "đất nông nghiệp"})
	}

	hits, err := s.TextSearch(ctx, "đất", 3)
	if err != nil {
		t.Fatalf("TextSearch: %v", err)
	}
	if len(hits) != 3 {
		t.Errorf("expected limit of 3, got %d", len(hits))
	}
}
