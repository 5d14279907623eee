package compose

import (
	"strings"
	"testing"

	"github.com/tda234574534243/law-advisor/internal/model"
)

func newComposer() *Composer {
	return NewComposer(model.DefaultConfig().Confidence)
}

func lawHits() []model.RankedHit {
	return []model.RankedHit{
		{
			Passage: model.Passage{
				DocID:   "d1",
				Title:   "Luật Đất đai",
				Section: "Điều 45. Điều kiện chuyển nhượng",
				Text:    "Người sử dụng đất được thực hiện quyền chuyển nhượng khi có giấy chứng nhận. Phải nộp hồ sơ tại cơ quan đăng ký đất đai. Thời hạn giải quyết tối đa 30 ngày kể từ ngày nhận đủ hồ sơ hợp lệ.",
			},
			Score: 0.8,
		},
		{
			Passage: model.Passage{
				DocID:   "d2",
				Title:   "Nghị định xử phạt",
				Section: "Điều 9",
				Text:    "Hành vi lấn chiếm đất bị xử phạt hành chính với mức phạt tiền 50 triệu đồng tùy diện tích vi phạm.",
			},
			Score: 0.5,
		},
	}
}

func TestCompose_EmptyHits(t *testing.T) {
	c := newComposer()
	answer, tier := c.Compose(model.IntentGeneral, nil, "câu hỏi", model.TierHigh, false, nil)
	if answer == "" {
		t.Fatal("empty answer for empty hits")
	}
	if tier != model.TierHigh {
		t.Errorf("tier changed on empty hits: %v", tier)
	}
	found := false
	for _, tpl := range NoResultTemplates {
		if answer == tpl {
			found = true
		}
	}
	if !found {
		t.Errorf("answer %q not from the no-result set", answer)
	}
}

func TestCompose_NeverRaisesTier(t *testing.T) {
	c := newComposer()
	intents := []model.Intent{
		model.IntentArticle, model.IntentDefinition, model.IntentProcedure,
		model.IntentPenalty, model.IntentTimeLimit, model.IntentWho, model.IntentGeneral,
	}
	tiers := []model.ConfidenceTier{model.TierLow, model.TierMedium, model.TierHigh, model.TierVeryHigh}

	for _, in := range intents {
		for _, tier := range tiers {
			answer, revised := c.Compose(in, lawHits(), "điều kiện chuyển nhượng đất là gì", tier, false, nil)
			if answer == "" {
				t.Errorf("%s/%v: empty answer", in, tier)
			}
			if revised > tier {
				t.Errorf("%s: tier raised from %v to %v", in, tier, revised)
			}
		}
	}
}

func TestCompose_KnownDefinitionVerbatim(t *testing.T) {
	c := newComposer()
	answer, tier := c.Compose(model.IntentDefinition, lawHits(), "Quyền sử dụng đất là gì?", model.TierHigh, false, nil)

	if !strings.Contains(answer, knownDefinitions["quyền sử dụng đất"]) {
		t.Errorf("answer missing canonical definition: %q", answer)
	}
	if tier != model.TierHigh {
		t.Errorf("dictionary hit changed tier to %v", tier)
	}
}

func TestCompose_UnknownDefinitionDowngradesToMedium(t *testing.T) {
	c := newComposer()
	_, tier := c.Compose(model.IntentDefinition, lawHits(), "Khu bảo tồn biển là gì?", model.TierVeryHigh, false, nil)
	if tier != model.TierMedium {
		t.Errorf("tier = %v, want medium when no definitional sentence found", tier)
	}
}

func TestCompose_ArticleQuotesSubEntry(t *testing.T) {
	c := newComposer()
	hits := []model.RankedHit{
		{
			Passage: model.Passage{
				Title:   "Luật Đất đai",
				Section: "Chương III",
				Body: []model.SubEntry{
					{SubID: "45", Title: "Điều kiện chuyển nhượng", Text: "Người sử dụng đất được chuyển nhượng khi có giấy chứng nhận."},
				},
			},
			Score: 1.0,
		},
	}

	answer, tier := c.Compose(model.IntentArticle, hits, "điều 45 quy định gì?", model.TierVeryHigh, false, nil)
	if !strings.Contains(answer, "Người sử dụng đất được chuyển nhượng khi có giấy chứng nhận.") {
		t.Errorf("answer does not quote the sub-entry: %q", answer)
	}
	if tier != model.TierVeryHigh {
		t.Errorf("article quote changed tier to %v", tier)
	}
}

func TestCompose_ProcedureNumbersSteps(t *testing.T) {
	c := newComposer()
	answer, _ := c.Compose(model.IntentProcedure, lawHits(), "thủ tục chuyển nhượng đất", model.TierHigh, false, nil)
	if !strings.Contains(answer, "1. ") {
		t.Errorf("procedure answer has no numbered steps: %q", answer)
	}
}

func TestCompose_ProcedureStepCap(t *testing.T) {
	c := newComposer()
	hits := []model.RankedHit{
		{
			Passage: model.Passage{
				DocID:   "d9",
				Section: "Điều 12",
				Text: "Nộp hồ sơ tại văn phòng đăng ký đất đai. " +
					"Lập hợp đồng chuyển nhượng có công chứng. " +
					"Xin xác nhận tình trạng tranh chấp tại xã. " +
					"Trình cơ quan thuế bản kê khai nghĩa vụ tài chính. " +
					"Gửi thông báo kết quả cho các bên. " +
					"Khai bổ sung khi hồ sơ thiếu giấy tờ.",
			},
			Score: 0.8,
		},
	}

	answer, _ := c.Compose(model.IntentProcedure, hits, "thủ tục sang tên đất", model.TierHigh, false, nil)
	if !strings.Contains(answer, "\n4. ") {
		t.Errorf("expected four numbered steps: %q", answer)
	}
	if strings.Contains(answer, "\n5. ") {
		t.Errorf("steps not capped at four: %q", answer)
	}
}

func TestCompose_PenaltySentences(t *testing.T) {
	c := newComposer()
	hits := lawHits()
	hits[0], hits[1] = hits[1], hits[0] // penalty passage on top
	answer, _ := c.Compose(model.IntentPenalty, hits, "mức phạt lấn chiếm đất", model.TierHigh, false, nil)
	if !strings.Contains(answer, "xử phạt") && !strings.Contains(answer, "mức phạt") {
		t.Errorf("penalty answer misses penalty sentence: %q", answer)
	}
}

func TestCompose_ScenarioSections(t *testing.T) {
	c := newComposer()
	ctx := model.ScenarioContext{
		Action:         model.ActionBuy,
		Object:         model.ObjectAgriculturalLand,
		Conditions:     []string{"Địa điểm: thành phố", "Mục đích kinh doanh"},
		RequiresPermit: true,
	}

	answer, _ := c.Compose(model.IntentScenario, lawHits(), "Tôi muốn mua đất nông nghiệp trong thành phố", model.TierMedium, true, &ctx)

	if !strings.Contains(answer, "Phân tích tình huống") {
		t.Errorf("missing scenario analysis section: %q", answer)
	}
	if !strings.Contains(answer, "Lời khuyên thực tế") {
		t.Errorf("missing practical advice section: %q", answer)
	}
	if !strings.Contains(answer, "Lưu ý quan trọng") {
		t.Errorf("missing permit warning: %q", answer)
	}
	if !strings.Contains(answer, "So sánh và đối chiếu") {
		t.Errorf("missing comparison section for 2 hits: %q", answer)
	}
}

func TestVerifier_PureAndThresholded(t *testing.T) {
	v := &Verifier{MinRatio: 0.25}
	hits := lawHits()

	query := "điều kiện chuyển nhượng quyền sử dụng đất"
	candidate := "Điều kiện chuyển nhượng quyền sử dụng đất gồm giấy chứng nhận."

	first := v.Verify(query, candidate, hits)
	for i := 0; i < 3; i++ {
		if v.Verify(query, candidate, hits) != first {
			t.Fatal("Verify is not deterministic")
		}
	}
	if !first {
		t.Error("matching candidate failed verification")
	}

	if v.Verify("kinh doanh vận tải biển quốc tế", "nội dung hoàn toàn không liên quan", nil) {
		t.Error("unrelated candidate passed verification")
	}
}

func TestSummarizeSnippet_LengthBound(t *testing.T) {
	long := strings.Repeat("Câu văn mô tả chung không có từ khóa đặc biệt nào cả. ", 30)
	got := summarizeSnippet(long, 400)
	if got == "" {
		t.Fatal("empty summary for non-empty input")
	}
	if n := len([]rune(got)); n > 460 {
		t.Errorf("summary length %d exceeds budget plus one sentence", n)
	}
}

func TestSummarizeSnippet_KeywordOverflow(t *testing.T) {
	text := "Phần mở đầu ngắn. Người sử dụng đất có quyền và nghĩa vụ theo quy định chi tiết của pháp luật hiện hành."
	got := summarizeSnippet(text, 30)
	if !strings.Contains(got, "quyền") {
		t.Errorf("keyword sentence not retained: %q", got)
	}
}

func TestSummarizeSnippet_FallbackTruncation(t *testing.T) {
	text := strings.Repeat("a", 100) // one long sentence, no keywords
	got := summarizeSnippet(text, 40)
	if got == "" {
		t.Fatal("empty fallback")
	}
	if len([]rune(got)) > 40 {
		t.Errorf("fallback longer than budget: %d", len([]rune(got)))
	}
}
