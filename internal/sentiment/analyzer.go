// Package sentiment scores the emotional register and urgency of a
// query from weighted keyword tables and maps the pair to a response
// tone. Scores are heuristic; confidence values are capped at 1.
package sentiment

import (
	"regexp"
	"strings"
)

// Sentiment is the detected emotional register of a query.
type Sentiment string

const (
	Positive   Sentiment = "positive"
	Negative   Sentiment = "negative"
	Neutral    Sentiment = "neutral"
	Frustrated Sentiment = "frustrated"
	Urgent     Sentiment = "urgent"
)

// Urgency grades how time-critical the query is.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// ContextType is a coarse classification of the query's setting.
type ContextType string

const (
	ContextBusiness     ContextType = "business"
	ContextPersonal     ContextType = "personal"
	ContextConsultation ContextType = "legal_consultation"
	ContextInformation  ContextType = "information"
)

// Tone carries the greeting and suffix strings wrapped around a
// finished answer. It never alters confidence or retrieval.
type Tone struct {
	Greeting  string
	Prefix    string
	Suffix    string
	Formality string
}

var positiveKeywords = map[string]float64{
	"cảm ơn": 2, "tuyệt": 3, "tốt": 1, "hiểu": 1, "rõ": 1,
}

var negativeKeywords = map[string]float64{
	"không hiểu": 3, "sai": 2, "không đúng": 2, "phức tạp": 1,
	"khó": 1, "tệ": 2, "vô dụng": 3,
}

var frustrationKeywords = map[string]float64{
	"tại sao": 1, "không biết": 1, "bối rối": 2, "mơ hồ": 2,
}

var urgentKeywords = map[string]float64{
	"gấp": 2, "ngay": 2, "ngay bây giờ": 3, "cấp bách": 3,
	"sắp": 1, "sắp tới": 2, "hôm nay": 1, "cần gấp": 3,
}

var retryKeywords = map[string]float64{
	"lại": 1, "khác": 1, "hỏi lại": 1, "hiểu sai": 2, "không phải": 1,
}

var deadlinePattern = regexp.MustCompile(`trước.*(ngày|tháng|năm)\s+(\d+)`)

var followupPatterns = []*regexp.Regexp{
	regexp.MustCompile(`vậy (nếu|khi|thì|mà)`),
	regexp.MustCompile(`nếu vậy`),
	regexp.MustCompile(`còn`),
	regexp.MustCompile(`thêm về`),
	regexp.MustCompile(`chi tiết hơn`),
}

// Analyzer is stateless; the zero value is usable.
type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// AnalyzeSentiment scores the query against each keyword table. Urgent
// and frustrated registers take precedence over the positive/negative
// balance.
func (a *Analyzer) AnalyzeSentiment(query string) (Sentiment, float64) {
	ql := strings.ToLower(query)

	positive := keywordScore(ql, positiveKeywords)
	negative := keywordScore(ql, negativeKeywords)
	frustration := keywordScore(ql, frustrationKeywords)
	urgent := keywordScore(ql, urgentKeywords)

	switch {
	case urgent > 2:
		return Urgent, capConfidence(urgent / 5)
	case frustration > 1.5:
		return Frustrated, capConfidence(frustration / 5)
	case positive > negative:
		return Positive, capConfidence(positive / 5)
	case negative > 0:
		return Negative, capConfidence(negative / 5)
	default:
		return Neutral, 0.5
	}
}

// AnalyzeUrgency grades urgency by keyword weight; an explicit deadline
// phrase escalates straight to critical.
func (a *Analyzer) AnalyzeUrgency(query string) (Urgency, float64) {
	ql := strings.ToLower(query)
	score := keywordScore(ql, urgentKeywords)

	switch {
	case deadlinePattern.MatchString(ql) || score >= 3:
		return UrgencyCritical, capConfidence(score / 5)
	case score >= 2:
		return UrgencyHigh, capConfidence(score / 5)
	case score >= 1:
		return UrgencyMedium, capConfidence(score / 5)
	default:
		return UrgencyLow, 0.3
	}
}

// IsFollowUp reports whether the query revisits an earlier exchange.
func (a *Analyzer) IsFollowUp(query string) bool {
	ql := strings.ToLower(query)
	if keywordScore(ql, retryKeywords) > 0.5 {
		return true
	}
	for _, p := range followupPatterns {
		if p.MatchString(ql) {
			return true
		}
	}
	return false
}

// DetectContextType classifies the query setting, most specific first.
func (a *Analyzer) DetectContextType(query string) ContextType {
	ql := strings.ToLower(query)

	for _, w := range []string{"kinh doanh", "doanh nghiệp", "lợi nhuận", "thu nhập"} {
		if strings.Contains(ql, w) {
			return ContextBusiness
		}
	}
	for _, w := range []string{"cá nhân", "gia đình", "tôi", "mình"} {
		if strings.Contains(ql, w) {
			return ContextPersonal
		}
	}
	for _, w := range []string{"tư vấn", "luật sư"} {
		if strings.Contains(ql, w) {
			return ContextConsultation
		}
	}
	return ContextInformation
}

type toneKey struct {
	sentiment Sentiment
	urgency   Urgency
}

var neutralTone = Tone{
	Greeting:  "Tôi có thể giúp bạn:",
	Prefix:    "Dưới đây là thông tin:",
	Suffix:    "Hãy cho tôi biết nếu cần thêm thông tin.",
	Formality: "formal",
}

var tones = map[toneKey]Tone{
	{Positive, UrgencyLow}: {
		Greeting:  "Cảm ơn bạn! 😊",
		Prefix:    "Vui mừng là có thể giúp bạn:",
		Suffix:    "Hy vọng câu trả lời này hữu ích! 👍",
		Formality: "informal",
	},
	{Positive, UrgencyHigh}: {
		Greeting:  "Hiểu rồi! Tôi sẽ giúp ngay:",
		Prefix:    "Để giải quyết vấn đề của bạn ngay:",
		Suffix:    "Hy vọng điều này giúp bạn kịp thời! ✓",
		Formality: "semi-formal",
	},
	{Neutral, UrgencyLow}: neutralTone,
	{Neutral, UrgencyHigh}: {
		Greeting:  "Hiểu rồi, bạn cần thông tin gấp:",
		Prefix:    "Thông tin cần thiết:",
		Suffix:    "Hy vọng điều này giải quyết được vấn đề của bạn.",
		Formality: "semi-formal",
	},
	{Frustrated, UrgencyLow}: {
		Greeting:  "Xin lỗi nếu câu trả lời trước không rõ. Để tôi giải thích lại:",
		Prefix:    "Để làm cho vấn đề này rõ ràng hơn:",
		Suffix:    "Nếu vẫn còn vấn đề, hãy báo cho tôi biết.",
		Formality: "semi-formal",
	},
	{Frustrated, UrgencyHigh}: {
		Greeting:  "Tôi hiểu bạn bức xúc. Để giải quyết ngay:",
		Prefix:    "Thông tin quan trọng nhất mà bạn cần:",
		Suffix:    "Xin lỗi vì sự khó chịu này. Bạn có cần tôi giải thích thêm không?",
		Formality: "semi-formal",
	},
	{Negative, UrgencyLow}: {
		Greeting:  "Xin lỗi nếu câu trả lời trước không chính xác.",
		Prefix:    "Để sửa lại:",
		Suffix:    "Cảm ơn bạn vì phản hồi. Tôi sẽ cải thiện.",
		Formality: "formal",
	},
	{Negative, UrgencyHigh}: {
		Greeting:  "Xin lỗi! Để sửa ngay:",
		Prefix:    "Thông tin chính xác:",
		Suffix:    "Xin lỗi vì sự nhầm lẫn. Bạn có cần thêm hỗ trợ không?",
		Formality: "semi-formal",
	},
	{Urgent, UrgencyCritical}: {
		Greeting:  "⚠️ Vấn đề cấp bách! Tôi sẽ giải quyết ngay:",
		Prefix:    "Thông tin bạn cần:",
		Suffix:    "Đây là thông tin cấp bách. Liên hệ cơ quan hữu quan nếu cần thêm hỗ trợ.",
		Formality: "urgent",
	},
}

// ResponseTone returns the tone for a sentiment/urgency pair, falling
// back to the neutral tone for unmapped combinations.
func (a *Analyzer) ResponseTone(s Sentiment, u Urgency) Tone {
	if t, ok := tones[toneKey{s, u}]; ok {
		return t
	}
	return neutralTone
}

func keywordScore(text string, keywords map[string]float64) float64 {
	score := 0.0
	for kw, weight := range keywords {
		if strings.Contains(text, kw) {
			score += weight
		}
	}
	return score
}

func capConfidence(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
