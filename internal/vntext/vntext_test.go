package vntext

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation stripped", "Điều 5. Quyền, nghĩa vụ!", "điều 5 quyền nghĩa vụ"},
		{"whitespace collapsed", "đất   nông\tnghiệp", "đất nông nghiệp"},
		{"empty", "", ""},
		{"diacritics preserved", "Chuyển nhượng", "chuyển nhượng"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Quyền sử dụng đất?")
	want := []string{"quyền", "sử", "dụng", "đất"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}

	if got := Tokenize("   "); got != nil {
		t.Errorf("Tokenize(blank) = %v, want nil", got)
	}
}

func TestContentTokens_DropsStopwords(t *testing.T) {
	got := ContentTokens("tôi muốn chuyển nhượng đất")
	for _, tok := range got {
		if tok == "tôi" {
			t.Error("stopword leaked into content tokens")
		}
	}
	found := false
	for _, tok := range got {
		if tok == "nhượng" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected content token, got %v", got)
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("Câu một. Câu hai! Câu ba?")
	if len(got) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %v", len(got), got)
	}
	if got[0] != "Câu một" {
		t.Errorf("first sentence = %q", got[0])
	}
}

func TestTruncate(t *testing.T) {
	// Multi-byte runes must not be split
	s := "đất đai"
	if got := Truncate(s, 3); got != "đất" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate(s, 100); got != s {
		t.Errorf("Truncate should not change short text, got %q", got)
	}
}
