// Package intent classifies queries into answer-shape intents and
// extracts structured context from practical scenario questions. All
// classification is driven by ordered rule tables so the vocabulary can
// be swapped per target language without touching control flow.
package intent

import (
	"regexp"
	"strings"

	"github.com/tda234574534243/law-advisor/internal/model"
)

// Rule binds a category to the substrings and optional regex that select it.
type Rule struct {
	Intent     model.Intent
	Substrings []string
	Pattern    *regexp.Regexp
}

// intentRules are evaluated in order, first match wins.
var intentRules = []Rule{
	{Intent: model.IntentGreeting, Substrings: []string{"xin chào", "chào", "hello", "hi", "halo", "hế lô"}},
	// \b is ASCII-only in RE2, so the accented form is matched without it.
	{Intent: model.IntentArticle, Pattern: regexp.MustCompile(`đi[eêề]u|\bdieu\b`)},
	{Intent: model.IntentDefinition, Substrings: []string{"là gì", "định nghĩa", "được hiểu", "được gọi", "có nghĩa", "tức là", "khái niệm", "ý nghĩa"}},
	{Intent: model.IntentTimeLimit, Substrings: []string{"bao lâu", "thời hạn", "khi nào", "tối đa", "tối thiểu", "bao giờ", "mấy năm", "mấy tháng", "mấy ngày"}},
	{Intent: model.IntentProcedure, Substrings: []string{"thủ tục", "hồ sơ", "nộp", "xin", "cách thức", "làm sao", "cách nào", "bước", "quy trình"}},
	{Intent: model.IntentPenalty, Substrings: []string{"phạt", "xử phạt", "mức phạt", "vi phạm", "hình phạt", "xử lý", "hậu quả"}},
	{Intent: model.IntentWho, Substrings: []string{"ai", "người", "cơ quan", "chủ thể", "có quyền", "phải", "tổ chức", "doanh nghiệp"}},
}

// Classify runs an ordered rule table against lowercased text.
func Classify(text string, rules []Rule) (model.Intent, bool) {
	for _, r := range rules {
		for _, s := range r.Substrings {
			if strings.Contains(text, s) {
				return r.Intent, true
			}
		}
		if r.Pattern != nil && r.Pattern.MatchString(text) {
			return r.Intent, true
		}
	}
	return "", false
}

// DetectIntent maps a raw query to an intent. Scenario detection is a
// separate, higher-priority check; callers run DetectScenario first.
func DetectIntent(query string) model.Intent {
	ql := strings.ToLower(strings.TrimSpace(query))
	if in, ok := Classify(ql, intentRules); ok {
		return in
	}
	return model.IntentGeneral
}

// scenarioPatterns mark first-person, conditional or situational phrasing.
var scenarioPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\btôi (có|muốn|cần|sẽ|đang)`),
	regexp.MustCompile(`\bmình (có|muốn|cần|sẽ|đang)`),
	regexp.MustCompile(`\bnếu\b`),
	regexp.MustCompile(`\btrường hợp\b`),
	regexp.MustCompile(`\btình huống\b`),
	regexp.MustCompile(`nên làm gì|phải làm gì|nên như thế nào`),
	regexp.MustCompile(`có được không|được không|có thể không`),
}

var bareDefinitionQuery = regexp.MustCompile(`^[^?]*là gì\?$`)

var definitionVocabulary = []string{"khái niệm", "định nghĩa", "ý nghĩa", "được hiểu là"}

// DetectScenario reports whether the query describes a personal or
// practical situation. Definitional phrasing takes precedence and is
// never classified as a scenario.
func DetectScenario(query string) bool {
	ql := strings.ToLower(strings.TrimSpace(query))

	matched := false
	for _, p := range scenarioPatterns {
		if p.MatchString(ql) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	if bareDefinitionQuery.MatchString(ql) {
		return false
	}
	for _, w := range definitionVocabulary {
		if strings.Contains(ql, w) {
			return false
		}
	}
	return true
}

// actionRules map verb phrases to an action class, first match wins.
var actionRules = []struct {
	Pattern *regexp.Regexp
	Action  model.ScenarioAction
}{
	{regexp.MustCompile(`mua|sở hữu`), model.ActionBuy},
	{regexp.MustCompile(`bán|chuyển nhượng|chuyển`), model.ActionSell},
	{regexp.MustCompile(`cho thuê|cho sử dụng`), model.ActionLease},
	{regexp.MustCompile(`xây dựng|xây|khai thác`), model.ActionBuild},
	{regexp.MustCompile(`di chúc|thừa kế`), model.ActionInherit},
	{regexp.MustCompile(`cấp phép|cấp`), model.ActionPermit},
}

// objectRules map noun phrases to an object category, most specific first.
var objectRules = []struct {
	Pattern *regexp.Regexp
	Object  model.ScenarioObject
}{
	{regexp.MustCompile(`đất nông nghiệp`), model.ObjectAgriculturalLand},
	{regexp.MustCompile(`đất phi nông nghiệp|thổ cư|đất ở`), model.ObjectResidentialLand},
	{regexp.MustCompile(`đất\b`), model.ObjectLand},
	{regexp.MustCompile(`nhà ở|nhà cửa|nhà`), model.ObjectHousing},
	{regexp.MustCompile(`quyền sử dụng`), model.ObjectUsageRight},
	{regexp.MustCompile(`bất động sản`), model.ObjectRealEstate},
}

var locationPattern = regexp.MustCompile(`thành phố|quận|huyện|tỉnh|thôn|xã`)

var businessPattern = regexp.MustCompile(`kinh doanh|lợi nhuận|thu nhập|doanh nghiệp`)

// ExtractScenarioContext pulls action, object and condition hints out of
// a scenario query. The result is a value, never mutated afterwards.
func ExtractScenarioContext(query string) model.ScenarioContext {
	ql := strings.ToLower(query)

	ctx := model.ScenarioContext{Action: model.ActionNone, Object: model.ObjectNone}

	for _, r := range actionRules {
		if r.Pattern.MatchString(ql) {
			ctx.Action = r.Action
			break
		}
	}
	for _, r := range objectRules {
		if r.Pattern.MatchString(ql) {
			ctx.Object = r.Object
			break
		}
	}

	if loc := locationPattern.FindString(ql); loc != "" {
		ctx.Conditions = append(ctx.Conditions, "Địa điểm: "+loc)
	}
	if businessPattern.MatchString(ql) {
		ctx.Conditions = append(ctx.Conditions, "Mục đích kinh doanh")
		ctx.RequiresPermit = true
	}
	return ctx
}
