package enrich

import (
	"math"
	"testing"
)

func TestLexiconAnalyzer_Polarity(t *testing.T) {
	a := NewLexiconAnalyzer()

	tests := []struct {
		name string
		text string
		want float64
	}{
		{"all positive", "great quality love it", 1},
		{"all negative", "terrible waste", -1},
		{"mixed", "good quality but slow", 1.0 / 3.0},
		{"no sentiment words", "the box arrived on tuesday", 0},
		{"empty", "", 0},
		{"thai positive", "สินค้าดีมาก ประทับใจ", 1},
		{"thai negative", "ของปลอม ผิดหวัง", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Polarity(tt.text); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Polarity(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestLexiconAnalyzer_ThaiLongestMatch(t *testing.T) {
	a := NewLexiconAnalyzer()

	// "ไม่ดี"（负面）包含 "ดี"（正面），最长匹配必须先命中长词
	if got := a.Polarity("ไม่ดี"); got >= 0 {
		t.Errorf("Polarity(ไม่ดี) = %v, want negative", got)
	}
}

func TestLexiconAnalyzer_AddWords(t *testing.T) {
	a := NewLexiconAnalyzer()

	if got := a.Polarity("bussing"); got != 0 {
		t.Fatalf("unknown word should be neutral, got %v", got)
	}
	a.AddPositive("bussing")
	if got := a.Polarity("bussing"); got != 1 {
		t.Errorf("after AddPositive, Polarity = %v, want 1", got)
	}
}

func TestContainsThai(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"hello world", false},
		{"สวัสดี", true},
		{"good ดี mixed", true},
		{"", false},
	}

	for _, tt := range tests {
		if got := ContainsThai(tt.text); got != tt.want {
			t.Errorf("ContainsThai(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestBucketPolarity(t *testing.T) {
	tests := []struct {
		p    float64
		want int
	}{
		{1, 3},
		{0.6, 3},
		{0.5, 1},
		{0.1, 1},
		{0, 0},
		{-0.1, -1},
		{-0.5, -1},
		{-0.6, -3},
		{-1, -3},
	}

	for _, tt := range tests {
		if got := BucketPolarity(tt.p); got != tt.want {
			t.Errorf("BucketPolarity(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}
}
