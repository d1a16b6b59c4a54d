package eval

import (
	"math"
	"testing"

	"github.com/reviewapp/hybridrec/core"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		relevant    []int64
		recommended []int64
		want        Metrics
	}{
		{
			name:        "perfect match",
			relevant:    []int64{1, 2, 3},
			recommended: []int64{1, 2, 3},
			want:        Metrics{Precision: 1, Recall: 1, F1: 1},
		},
		{
			name:        "disjoint",
			relevant:    []int64{1, 2},
			recommended: []int64{3, 4},
			want:        Metrics{},
		},
		{
			name:        "partial overlap",
			relevant:    []int64{1, 2, 3, 4},
			recommended: []int64{1, 2, 9, 10},
			// P=0.5 R=0.5 F1=0.5
			want: Metrics{Precision: 0.5, Recall: 0.5, F1: 0.5},
		},
		{
			name:        "unbalanced",
			relevant:    []int64{1, 2, 3, 4, 5},
			recommended: []int64{1},
			want:        Metrics{Precision: 1, Recall: 0.2, F1: 2 * 1 * 0.2 / 1.2},
		},
		{
			name:        "empty recommendation",
			relevant:    []int64{1, 2},
			recommended: nil,
			want:        Metrics{},
		},
		{
			name:        "empty relevant",
			relevant:    nil,
			recommended: []int64{1, 2},
			want:        Metrics{},
		},
		{
			name:        "both empty",
			relevant:    nil,
			recommended: nil,
			want:        Metrics{},
		},
		{
			name:        "duplicates collapse",
			relevant:    []int64{1, 1, 1, 2},
			recommended: []int64{1, 1},
			want:        Metrics{Precision: 1, Recall: 0.5, F1: 2 * 1 * 0.5 / 1.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.relevant, tt.recommended)
			if !almostEqual(got.Precision, tt.want.Precision) ||
				!almostEqual(got.Recall, tt.want.Recall) ||
				!almostEqual(got.F1, tt.want.F1) {
				t.Errorf("Evaluate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRelevantSet(t *testing.T) {
	enriched := []core.EnrichedPost{
		{Post: core.Post{ID: 1, EngagementCount: 50}, SentimentScore: 3},
		{Post: core.Post{ID: 2, EngagementCount: 50}, SentimentScore: -3}, // 最差情感桶被排除
		{Post: core.Post{ID: 3, EngagementCount: 10}, SentimentScore: 1},  // 互动低于阈值
		{Post: core.Post{ID: 4, EngagementCount: 11}, SentimentScore: 0},
		{Post: core.Post{ID: 5, EngagementCount: 10}, SentimentScore: 3}, // 阈值不含等于
	}

	got := RelevantSet(enriched, 10)
	want := []int64{1, 4}
	if len(got) != len(want) {
		t.Fatalf("RelevantSet() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("RelevantSet() = %v, want %v", got, want)
		}
	}
}

func TestRelevantSet_Empty(t *testing.T) {
	if got := RelevantSet(nil, 0); len(got) != 0 {
		t.Errorf("expected empty set, got %v", got)
	}
}
