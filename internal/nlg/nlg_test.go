package nlg

import (
	"strings"
	"testing"

	"github.com/tda234574534243/law-advisor/internal/sentiment"
)

func TestParaphrase_SynonymSubstitution(t *testing.T) {
	e := NewEngine()
	got := e.Paraphrase("Thủ tục này cần giấy phép của cơ quan.", StyleFormal)
	if strings.Contains(strings.ToLower(got), "thủ tục") {
		t.Errorf("synonym not substituted: %q", got)
	}
	if got == "" {
		t.Fatal("empty paraphrase")
	}
}

func TestParaphrase_Register(t *testing.T) {
	e := NewEngine()
	got := e.Paraphrase("Hành vi này bị cấm theo quy định.", StyleInformal)
	if !strings.Contains(got, "không được") {
		t.Errorf("informal register not applied: %q", got)
	}

	got = e.Paraphrase("Bạn có thể nộp đơn tại xã.", StyleFormal)
	if !strings.Contains(got, "được cho phép") {
		t.Errorf("formal register not applied: %q", got)
	}
}

func TestWrapWithTone(t *testing.T) {
	e := NewEngine()
	tone := sentiment.Tone{Greeting: "Chào bạn:", Suffix: "Mong là hữu ích."}
	got := e.WrapWithTone("Nội dung trả lời.", tone)

	if !strings.HasPrefix(got, "Chào bạn:") {
		t.Errorf("greeting missing: %q", got)
	}
	if !strings.HasSuffix(got, "Mong là hữu ích.") {
		t.Errorf("suffix missing: %q", got)
	}
	if !strings.Contains(got, "Nội dung trả lời.") {
		t.Errorf("core answer altered: %q", got)
	}
}

func TestWrapWithTone_EmptyParts(t *testing.T) {
	e := NewEngine()
	got := e.WrapWithTone("Chỉ nội dung.", sentiment.Tone{})
	if got != "Chỉ nội dung." {
		t.Errorf("empty tone changed the answer: %q", got)
	}
}

func TestBulletPoints(t *testing.T) {
	e := NewEngine()
	got := e.BulletPoints("Câu một. Câu hai. Câu ba.")
	if strings.Count(got, "• ") != 3 {
		t.Errorf("got %q, want three bullets", got)
	}
}

func TestDecorateHeadings(t *testing.T) {
	e := NewEngine()
	in := "### Lưu ý quan trọng\nnội dung có lưu ý inline"
	got := e.DecorateHeadings(in)

	lines := strings.Split(got, "\n")
	if !strings.Contains(lines[0], "⚠️") {
		t.Errorf("heading not decorated: %q", lines[0])
	}
	if strings.Contains(lines[1], "⚠️") {
		t.Errorf("inline text decorated: %q", lines[1])
	}
	// Already-decorated headings are left alone.
	if again := e.DecorateHeadings(got); strings.Count(again, "⚠️") != 1 {
		t.Errorf("double decoration: %q", again)
	}
}

func TestIntroAndConclusion_NonEmpty(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 10; i++ {
		if e.Intro() == "" || e.Conclusion() == "" {
			t.Fatal("empty intro or conclusion phrase")
		}
	}
}
