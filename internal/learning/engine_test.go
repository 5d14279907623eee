package learning

import (
	"context"
	"testing"
)

func TestRecordAndFeedback(t *testing.T) {
	e := NewEngine(NewMemoryStore(), 4)
	ctx := context.Background()

	id, err := e.RecordInteraction(ctx, "Thủ tục cấp sổ đỏ?", "Cần nộp hồ sơ tại văn phòng đăng ký đất đai.", []string{"https://example.vn/luat"}, "", nil)
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if id == "" {
		t.Fatal("empty interaction id")
	}

	if err := e.SubmitFeedback(ctx, id, 5, "rất hữu ích"); err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if err := e.SubmitFeedback(ctx, id, 6, ""); err == nil {
		t.Error("rating 6 accepted")
	}
	if err := e.SubmitFeedback(ctx, "missing-id", 3, ""); err == nil {
		t.Error("feedback on unknown interaction accepted")
	}
}

func TestFindSimilar(t *testing.T) {
	e := NewEngine(NewMemoryStore(), 4)
	ctx := context.Background()

	id1, _ := e.RecordInteraction(ctx, "thủ tục chuyển nhượng quyền sử dụng đất", "Trả lời A", nil, "u1", nil)
	id2, _ := e.RecordInteraction(ctx, "thủ tục chuyển nhượng đất nông nghiệp", "Trả lời B", nil, "u2", nil)
	id3, _ := e.RecordInteraction(ctx, "mức phạt xây dựng không phép", "Trả lời C", nil, "u3", nil)

	// Only well-rated interactions are eligible.
	if err := e.SubmitFeedback(ctx, id1, 5, ""); err != nil {
		t.Fatal(err)
	}
	if err := e.SubmitFeedback(ctx, id2, 4, ""); err != nil {
		t.Fatal(err)
	}
	if err := e.SubmitFeedback(ctx, id3, 5, ""); err != nil {
		t.Fatal(err)
	}

	matches, err := e.FindSimilar(ctx, "thủ tục chuyển nhượng quyền sử dụng đất ở", 3)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("no matches for a near-identical query")
	}
	if matches[0].Answer != "Trả lời A" {
		t.Errorf("top match = %q, want the near-identical query", matches[0].Answer)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Similarity > matches[i-1].Similarity {
			t.Error("matches not sorted by similarity")
		}
	}
	for _, m := range matches {
		if m.Answer == "Trả lời C" {
			t.Error("unrelated interaction matched")
		}
	}
}

func TestFindSimilar_IgnoresUnrated(t *testing.T) {
	e := NewEngine(NewMemoryStore(), 4)
	ctx := context.Background()

	if _, err := e.RecordInteraction(ctx, "thủ tục chuyển nhượng đất", "Chưa được đánh giá", nil, "", nil); err != nil {
		t.Fatal(err)
	}

	matches, err := e.FindSimilar(ctx, "thủ tục chuyển nhượng đất", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Errorf("unrated interaction reused: %+v", matches)
	}
}

func TestStats(t *testing.T) {
	e := NewEngine(NewMemoryStore(), 4)
	ctx := context.Background()

	id1, _ := e.RecordInteraction(ctx, "câu hỏi một", "a", nil, "", nil)
	id2, _ := e.RecordInteraction(ctx, "câu hỏi hai", "b", nil, "", nil)
	if _, err := e.RecordInteraction(ctx, "câu hỏi một", "c", nil, "", nil); err != nil {
		t.Fatal(err)
	}

	if err := e.SubmitFeedback(ctx, id1, 5, ""); err != nil {
		t.Fatal(err)
	}
	if err := e.SubmitFeedback(ctx, id2, 1, ""); err != nil {
		t.Fatal(err)
	}

	st, err := e.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TotalInteractions != 3 {
		t.Errorf("TotalInteractions = %d, want 3", st.TotalInteractions)
	}
	if st.PositiveFeedback != 1 || st.NegativeFeedback != 1 {
		t.Errorf("feedback counts = %d/%d, want 1/1", st.PositiveFeedback, st.NegativeFeedback)
	}
	if st.AvgRating != 3.0 {
		t.Errorf("AvgRating = %v, want 3.0", st.AvgRating)
	}
	if st.WithFeedback != 2 {
		t.Errorf("WithFeedback = %d, want 2", st.WithFeedback)
	}
	if len(st.MostAsked) == 0 || st.MostAsked[0] != "câu hỏi một" {
		t.Errorf("MostAsked = %v", st.MostAsked)
	}
}
