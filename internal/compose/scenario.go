package compose

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tda234574534243/law-advisor/internal/model"
	"github.com/tda234574534243/law-advisor/internal/vntext"
)

// triggerObservation emits a fixed observation when a trigger phrase
// appears in the combined passage text.
type triggerObservation struct {
	trigger   string
	statement string
}

// scenarioChecklists hold per-action observation rules keyed off the
// combined passage text. Ordered, all matching rules fire.
var scenarioChecklists = map[model.ScenarioAction]struct {
	heading string
	rules   []triggerObservation
}{
	model.ActionBuy: {
		heading: "**Về việc mua/sở hữu:**",
		rules: []triggerObservation{
			{"nước ngoài", "- ⚠️ **Hạn chế**: Người nước ngoài không được sở hữu đất nông nghiệp tại Việt Nam"},
			{"không được", "- ⚠️ **Hạn chế**: Có quy định cấm hoặc hạn chế áp dụng cho trường hợp này"},
			{"diện tích", "- ✓ **Có giới hạn**: Có quy định về diện tích sở hữu tối đa"},
			{"quyền sử dụng", "- ✓ **Có thể**: Bạn có thể có quyền sử dụng đất, tuỳ theo loại đất"},
		},
	},
	model.ActionSell: {
		heading: "**Về việc bán/chuyển nhượng:**",
		rules: []triggerObservation{
			{"thủ tục", "- 📝 **Yêu cầu**: Phải thực hiện đầy đủ thủ tục pháp lý"},
			{"giấy chứng nhận", "- ✓ **Cần**: Phải có giấy chứng nhận quyền sử dụng đất"},
			{"chứng chỉ", "- ✓ **Cần**: Phải có giấy chứng nhận quyền sử dụng đất"},
		},
	},
	model.ActionBuild: {
		heading: "**Về việc xây dựng:**",
		rules: []triggerObservation{
			{"giấy phép xây dựng", "- ⚠️ **Bắt buộc**: Phải có giấy phép xây dựng"},
			{"quy hoạch", "- ✓ **Tuân thủ**: Phải tuân theo quy hoạch sử dụng đất"},
		},
	},
	model.ActionLease: {
		heading: "**Về việc cho thuê:**",
		rules: []triggerObservation{
			{"hợp đồng", "- 📋 **Cần**: Phải lập hợp đồng cho thuê rõ ràng"},
			{"thời hạn", "- ⏰ **Lưu ý**: Phải xác định rõ thời hạn cho thuê"},
		},
	},
	model.ActionInherit: {
		heading: "**Về việc thừa kế:**",
		rules: []triggerObservation{
			{"di chúc", "- 📋 **Cần**: Kiểm tra hiệu lực của di chúc theo quy định"},
			{"giấy chứng nhận", "- ✓ **Cần**: Đất thừa kế phải có giấy chứng nhận quyền sử dụng"},
		},
	},
}

// analyzeScenario builds the situation-analysis section from the action
// checklist and the combined passage text. Empty when nothing fires.
func analyzeScenario(ctx model.ScenarioContext, hits []model.RankedHit) string {
	if len(hits) == 0 {
		return ""
	}

	var texts []string
	for _, h := range hits {
		texts = append(texts, h.Passage.CombinedText())
	}
	combined := strings.ToLower(strings.Join(texts, " "))

	var parts []string
	parts = append(parts, "### 📋 Phân tích tình huống của bạn:\n")

	if checklist, ok := scenarioChecklists[ctx.Action]; ok {
		var observations []string
		for _, rule := range checklist.rules {
			if strings.Contains(combined, rule.trigger) {
				observations = append(observations, rule.statement)
			}
		}
		if len(observations) > 0 {
			parts = append(parts, checklist.heading)
			parts = append(parts, observations...)
		}
	}

	if len(ctx.Conditions) > 0 {
		parts = append(parts, "\n**Các điều kiện áp dụng:**")
		for _, cond := range ctx.Conditions {
			parts = append(parts, "- "+cond)
		}
	}

	// Only the header was produced: nothing to analyze.
	if len(parts) == 1 {
		return ""
	}
	return strings.Join(parts, "\n")
}

// numericFacts are the figures pulled out of passage text.
type numericFacts struct {
	penalties   []string
	timeLimits  []string
	percentages []string
}

var (
	penaltyPattern = regexp.MustCompile(`(?:phạt tiền|mức phạt|lệ phí)[\s:]*(\d+[\.,]?\d*)\s*(triệu|nghìn|đồng|%|năm)`)
	timePattern    = regexp.MustCompile(`(?:thời hạn|tối đa|tối thiểu)[\s:]*(\d+)\s*(năm|tháng|ngày)`)
	percentPattern = regexp.MustCompile(`(\d+[\.,]?\d*)\s*%`)
)

// extractNumericFacts pulls penalty amounts, time limits and percentages
// out of passage text with language-specific unit patterns.
func extractNumericFacts(text string) numericFacts {
	lower := strings.ToLower(text)

	var facts numericFacts
	for _, m := range penaltyPattern.FindAllStringSubmatch(lower, -1) {
		facts.penalties = append(facts.penalties, m[1]+" "+m[2])
	}
	for _, m := range timePattern.FindAllStringSubmatch(lower, -1) {
		facts.timeLimits = append(facts.timeLimits, m[1]+" "+m[2])
	}
	for _, m := range percentPattern.FindAllStringSubmatch(text, -1) {
		facts.percentages = append(facts.percentages, m[1])
	}
	return facts
}

func (f numericFacts) empty() bool {
	return len(f.penalties) == 0 && len(f.timeLimits) == 0 && len(f.percentages) == 0
}

// renderNumericFacts formats the figures section, or "" when empty.
func renderNumericFacts(f numericFacts) string {
	if f.empty() {
		return ""
	}
	var parts []string
	parts = append(parts, "### 📊 Thông tin số liệu:")
	if len(f.penalties) > 0 {
		parts = append(parts, "- Mức phạt: "+strings.Join(f.penalties, ", "))
	}
	if len(f.timeLimits) > 0 {
		parts = append(parts, "- Thời hạn: "+strings.Join(f.timeLimits, ", "))
	}
	if len(f.percentages) > 0 {
		parts = append(parts, "- Tỷ lệ: "+strings.Join(f.percentages, ", ")+"%")
	}
	return strings.Join(parts, "\n")
}

// comparisonSection contrasts up to three hits with a short excerpt each.
// Requires at least two hits.
func comparisonSection(hits []model.RankedHit) string {
	if len(hits) < 2 {
		return ""
	}

	var parts []string
	parts = append(parts, "### 🔍 So sánh và đối chiếu:\n")
	parts = append(parts, "**Theo các quy định khác nhau:**")

	limit := len(hits)
	if limit > 3 {
		limit = 3
	}
	for i := 0; i < limit; i++ {
		title := hits[i].Passage.Title
		if title == "" {
			title = fmt.Sprintf("Quy định %d", i+1)
		}
		excerpt := vntext.Truncate(hits[i].Passage.CombinedText(), 150)
		parts = append(parts, fmt.Sprintf("\n**%d. %s:**\n- %s...", i+1, title, excerpt))
	}
	return strings.Join(parts, "\n")
}

// adviceChecklists hold per-action recommendation steps.
var adviceChecklists = map[model.ScenarioAction][]string{
	model.ActionBuy: {
		"✓ Đảm bảo bạn hiểu rõ loại đất và quyền sử dụng",
		"✓ Kiểm tra đầy đủ hồ sơ pháp lý và giấy tờ liên quan",
		"✓ Tư vấn với cơ quan đất đai địa phương trước khi quyết định",
		"✓ Lập hợp đồng mua bán rõ ràng, có chứng thực",
	},
	model.ActionSell: {
		"✓ Chuẩn bị đầy đủ giấy chứng nhận quyền sử dụng",
		"✓ Thực hiện đúng thủ tục công khai theo quy định",
		"✓ Lập hợp đồng chuyển nhượng rõ ràng, có công chứng",
		"✓ Hoàn thành thủ tục chuyển quyền tại cơ quan đăng ký",
	},
	model.ActionBuild: {
		"✓ Xin cấp giấy phép xây dựng từ chính quyền địa phương",
		"✓ Tuân thủ quy hoạch chung của khu vực",
		"✓ Chuẩn bị bản vẽ kiến trúc phù hợp",
		"✓ Kiểm tra các quy định về mật độ xây dựng",
	},
	model.ActionLease: {
		"✓ Lập hợp đồng cho thuê có xác thực",
		"✓ Thỏa thuận rõ tiền thuê, thời hạn, trách nhiệm bảo trì",
		"✓ Ghi rõ các quyền và nghĩa vụ của hai bên",
		"✓ Kiểm tra pháp lý trước khi ký kết",
	},
}

var genericAdvice = []string{
	"✓ Tìm hiểu kỹ các quy định liên quan",
	"✓ Tư vấn chuyên gia pháp lý khi cần",
	"✓ Chuẩn bị hồ sơ đầy đủ và rõ ràng",
	"✓ Tuân thủ quy trình hành chính",
}

// practicalAdvice renders the recommendation section, with an extra
// warning block when business intent requires a permit.
func practicalAdvice(ctx model.ScenarioContext) string {
	recommendations, ok := adviceChecklists[ctx.Action]
	if !ok {
		recommendations = genericAdvice
	}

	var parts []string
	parts = append(parts, "### 💡 Lời khuyên thực tế:\n")
	parts = append(parts, "**Các bước đề xuất:**")
	parts = append(parts, recommendations...)

	if ctx.RequiresPermit {
		parts = append(parts, "\n⚠️ **Lưu ý quan trọng:**")
		parts = append(parts, "- Nếu mục đích kinh doanh/có lợi nhuận, có thể áp dụng thêm quy định khác")
		parts = append(parts, "- Hãy xác nhận với cơ quan thuế và quản lý kinh doanh địa phương")
	}
	return strings.Join(parts, "\n")
}
