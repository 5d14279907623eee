package compose

import (
	"strings"

	"github.com/tda234574534243/law-advisor/internal/vntext"
)

// importantKeywords let one sentence exceed the summary budget when it
// carries the load-bearing legal vocabulary.
var importantKeywords = []string{"quyền", "nghĩa vụ", "điều kiện", "vi phạm", "phạt"}

// summarizeSnippet keeps whole sentences up to maxLength runes. A
// sentence containing an important keyword may be included past the
// budget, after which accumulation stops. Non-empty input always yields
// a non-empty result.
func summarizeSnippet(text string, maxLength int) string {
	sentences := vntext.SplitSentences(text)

	var kept []string
	length := 0
	for _, sent := range sentences {
		n := len([]rune(sent))
		if length+n <= maxLength {
			kept = append(kept, sent)
			length += n + 1
			continue
		}
		if length < maxLength && hasImportantKeyword(sent) {
			kept = append(kept, sent)
			break
		}
	}

	if len(kept) == 0 {
		return vntext.Truncate(text, maxLength)
	}
	return strings.Join(kept, ". ") + "."
}

func hasImportantKeyword(sent string) bool {
	lower := strings.ToLower(sent)
	for _, kw := range importantKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
