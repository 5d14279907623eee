package index

import (
	"path/filepath"
	"testing"

	"github.com/tda234574534243/law-advisor/internal/model"
)

func corpus() []model.Passage {
	return []model.Passage{
		{DocID: "d1", Section: "Điều 3", Text: "Quyền sử dụng đất là quyền của người được Nhà nước giao đất"},
		{DocID: "d2", Section: "Điều 45", Text: "Điều kiện chuyển nhượng quyền sử dụng đất nông nghiệp"},
		{DocID: "d3", Section: "Điều 100", Text: "Mức phạt tiền đối với hành vi lấn chiếm đất"},
		{DocID: "empty", Section: "", Text: ""},
	}
}

func TestBuildTFIDF_SkipsEmptyPassages(t *testing.T) {
	idx := BuildTFIDF(corpus())

	if len(idx.Docs) != 3 {
		t.Fatalf("expected 3 indexed docs, got %d", len(idx.Docs))
	}
	if len(idx.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(idx.Rows))
	}
	if len(idx.Vocabulary) == 0 {
		t.Fatal("expected non-empty vocabulary")
	}
}

func TestTFIDF_RankingPrefersMatchingDoc(t *testing.T) {
	idx := BuildTFIDF(corpus())

	qv := idx.QueryVector("chuyển nhượng quyền sử dụng đất")
	scores := idx.Scores(qv)

	best, bestScore := -1, 0.0
	for i, s := range scores {
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		t.Fatal("expected a positive score")
	}
	if idx.Docs[best].DocID != "d2" {
		t.Errorf("expected d2 to rank first, got %s", idx.Docs[best].DocID)
	}
}

func TestTFIDF_UnknownTermsScoreZero(t *testing.T) {
	idx := BuildTFIDF(corpus())

	qv := idx.QueryVector("hoàn toàn không liên quan")
	for _, s := range idx.Scores(qv) {
		if s != 0 {
			t.Errorf("expected zero score for unrelated query, got %f", s)
		}
	}
}

func TestTFIDF_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tfidf.json")
	idx := BuildTFIDF(corpus())

	if err := SaveTFIDF(idx, path); err != nil {
		t.Fatalf("SaveTFIDF: %v", err)
	}
	loaded, err := LoadTFIDF(path)
	if err != nil {
		t.Fatalf("LoadTFIDF: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected loaded index")
	}
	if len(loaded.Docs) != len(idx.Docs) || len(loaded.Vocabulary) != len(idx.Vocabulary) {
		t.Error("loaded index does not match built index")
	}

	// Scores must survive the round trip
	q := "quyền sử dụng đất"
	orig := idx.Scores(idx.QueryVector(q))
	got := loaded.Scores(loaded.QueryVector(q))
	for i := range orig {
		if diff := orig[i] - got[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("score %d drifted: %f vs %f", i, orig[i], got[i])
		}
	}
}

func TestLoadTFIDF_MissingArtifact(t *testing.T) {
	idx, err := LoadTFIDF(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing artifact must not error, got %v", err)
	}
	if idx != nil {
		t.Error("missing artifact must load as nil")
	}
}

func TestEmbeddingIndex_Similarities(t *testing.T) {
	idx := &EmbeddingIndex{
		Model: "test",
		Vectors: [][]float32{
			normalizeVector([]float32{1, 0}),
			normalizeVector([]float32{0, 1}),
		},
		Docs: []model.Passage{{DocID: "a", Text: "x"}, {DocID: "b", Text: "y"}},
	}

	sims := idx.Similarities([]float32{2, 0})
	if sims[0] < 0.99 {
		t.Errorf("expected near-1 similarity for aligned vector, got %f", sims[0])
	}
	if sims[1] > 0.01 {
		t.Errorf("expected near-0 similarity for orthogonal vector, got %f", sims[1])
	}
}
