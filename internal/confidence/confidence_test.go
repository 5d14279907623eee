package confidence

import (
	"math"
	"testing"

	"github.com/tda234574534243/law-advisor/internal/model"
)

func newModel() *Model {
	return NewModel(model.DefaultConfig().Confidence)
}

func TestCalculate_EmptyScores(t *testing.T) {
	tier, score := newModel().Calculate(nil, "bất kỳ", nil)
	if tier != model.TierLow || score != 0.0 {
		t.Fatalf("got (%v, %v), want (low, 0.0)", tier, score)
	}
}

func TestCalculate_Thresholds(t *testing.T) {
	m := newModel()
	tests := []struct {
		scores []float64
		want   model.ConfidenceTier
	}{
		{[]float64{0.9, 0.9, 0.9}, model.TierVeryHigh},
		{[]float64{0.85}, model.TierVeryHigh},
		{[]float64{0.7, 0.7}, model.TierHigh},
		{[]float64{0.5, 0.5, 0.5}, model.TierMedium},
		{[]float64{0.2, 0.1}, model.TierLow},
		// Only the top three scores count.
		{[]float64{0.9, 0.9, 0.9, 0.0, 0.0}, model.TierVeryHigh},
	}
	for _, tc := range tests {
		tier, _ := m.Calculate(tc.scores, "chuyển nhượng đất", nil)
		if tier != tc.want {
			t.Errorf("Calculate(%v) tier = %v, want %v", tc.scores, tier, tc.want)
		}
	}
}

func TestCalculate_ScoreEqualsAverage(t *testing.T) {
	_, score := newModel().Calculate([]float64{0.6, 0.4, 0.2}, "chuyển nhượng đất", nil)
	want := (0.6 + 0.4 + 0.2) / 3
	if math.Abs(score-want) > 1e-12 {
		t.Errorf("score = %v, want %v", score, want)
	}
}

func TestCalculate_CitationOverride(t *testing.T) {
	m := newModel()
	hits := []model.RankedHit{
		{Passage: model.Passage{Section: "Điều 45. Điều kiện chuyển nhượng"}, Score: 0.3},
	}

	tier, score := m.Calculate([]float64{0.3}, "điều 45 quy định gì?", hits)
	if tier != model.TierVeryHigh {
		t.Errorf("tier = %v, want very_high", tier)
	}
	if math.Abs(score-0.5) > 1e-12 {
		t.Errorf("score = %v, want 0.5", score)
	}

	// Boost is capped below certainty.
	_, score = m.Calculate([]float64{0.95}, "điều 45", hits)
	if score != 0.99 {
		t.Errorf("capped score = %v, want 0.99", score)
	}

	// The cited article must match exactly.
	tier, _ = m.Calculate([]float64{0.3}, "điều 4", hits)
	if tier != model.TierLow {
		t.Errorf("tier = %v, want low for non-matching citation", tier)
	}
}

func TestCalculate_MonotonicInAverage(t *testing.T) {
	m := newModel()
	prev := model.TierLow
	for avg := 0.0; avg <= 1.0; avg += 0.05 {
		tier, _ := m.Calculate([]float64{avg, avg, avg}, "chuyển nhượng đất", nil)
		if tier < prev {
			t.Fatalf("tier decreased from %v to %v at avg=%v", prev, tier, avg)
		}
		prev = tier
	}
}
