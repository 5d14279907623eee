package compose

import (
	"math/rand"

	"github.com/tda234574534243/law-advisor/internal/model"
)

// GreetingResponses are rotated for greeting-intent queries.
var GreetingResponses = []string{
	"Chào bạn! 👋 Mình là trợ lý pháp luật đất đai. Hỏi mình bất kỳ điều gì về luật đất đai nhé.",
	"Xin chào! 😊 Mình ở đây để giải đáp thắc mắc của bạn về pháp luật một cách rõ ràng và dễ hiểu.",
	"Chào! Mình là trợ lý pháp luật của bạn. Hãy cứ hỏi, mình sẽ cố gắng trả lời tốt nhất.",
	"Hola! 👋 Có thể giúp gì cho bạn về luật đất đai hôm nay?",
}

// NoResultTemplates are rotated when retrieval finds nothing.
var NoResultTemplates = []string{
	"Xin lỗi, mình không tìm thấy thông tin về vấn đề này trong cơ sở dữ liệu. Bạn có thể diễn đạt lại hoặc hỏi về một khía cạnh khác không?",
	"Mình chưa có dữ liệu chi tiết về điều này. Hãy thử hỏi lại với từ khóa khác hoặc một câu hỏi liên quan.",
	"Câu hỏi này có vẻ nằm ngoài phạm vi của mình. Nhưng mình có thể giúp bạn với các câu hỏi khác liên quan đến luật đất đai.",
}

// confidencePrefixes open the answer according to the assigned tier.
var confidencePrefixes = map[model.ConfidenceTier]string{
	model.TierVeryHigh: "Đây là thông tin từ pháp luật chính thức:",
	model.TierHigh:     "Dựa trên các tài liệu pháp luật:",
	model.TierMedium:   "Theo thông tin tìm được (cần kiểm tra thêm):",
	model.TierLow:      "⚠️ Thông tin liên quan nhưng cần xác nhận từ cơ quan chức năng:",
}

// confidenceSuffixes close the answer with a tier-appropriate caveat.
var confidenceSuffixes = map[model.ConfidenceTier]string{
	model.TierVeryHigh: "Thông tin này được trích từ văn bản pháp luật chính thức.",
	model.TierHigh:     "Bạn nên xác nhận thêm với cơ quan liên quan để chắc chắn.",
	model.TierMedium:   "⚠️ Bạn nên tham khảo thêm các nguồn khác hoặc liên hệ cơ quan pháp luật.",
	model.TierLow:      "⚠️ Bạn NÊN liên hệ với cơ quan pháp luật để được tư vấn chính xác. Thông tin này có độ tin cậy thấp.",
}

const defaultPrefix = "Mình tìm được thông tin sau:"

func prefixFor(tier model.ConfidenceTier) string {
	if p, ok := confidencePrefixes[tier]; ok {
		return p
	}
	return defaultPrefix
}

func suffixFor(tier model.ConfidenceTier) string {
	return confidenceSuffixes[tier]
}

// knownDefinitions short-circuits a handful of high-traffic terms with
// canonical definitions. A deliberate precision/recall trade-off kept as
// an explicit override table.
var knownDefinitions = map[string]string{
	"quyền sử dụng đất": "Quyền sử dụng đất là quyền của người được Nhà nước giao đất, cho thuê đất, công nhận quyền sử dụng đất để khai thác, sử dụng đất theo quy định của Luật.",
	"đất đai":           "Đất đai là toàn bộ lãnh thổ đất liền và đảo của Việt Nam, bao gồm mặt đất, lòng đất, tài nguyên trên bề mặt đất.",
	"người sử dụng đất": "Người sử dụng đất là người được Nhà nước giao đất, cho thuê đất, công nhận quyền sử dụng đất hoặc nhận chuyển quyền sử dụng đất theo quy định của Luật.",
}

// RandomGreeting picks one greeting response.
func RandomGreeting() string {
	return GreetingResponses[rand.Intn(len(GreetingResponses))]
}

// RandomNoResult picks one no-result template.
func RandomNoResult() string {
	return NoResultTemplates[rand.Intn(len(NoResultTemplates))]
}
