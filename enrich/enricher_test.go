package enrich

import (
	"reflect"
	"testing"

	"github.com/reviewapp/hybridrec/core"
)

func TestEnricher_SentimentFromComments(t *testing.T) {
	e := NewEnricher()

	tests := []struct {
		name     string
		comments []string
		want     int
	}{
		{"strongly positive", []string{"great quality", "love it"}, 3},
		{"strongly negative", []string{"terrible", "waste"}, -3},
		{"balanced comments", []string{"good", "bad"}, 0},
		{"no comments", nil, 0},
		{"neutral comments", []string{"arrived on tuesday"}, 0},
		{"mildly positive mean", []string{"good", "arrived on tuesday", "bad", "great"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.Enrich([]core.Post{{ID: 1, OwnerID: 1, Comments: tt.comments}})
			if len(out) != 1 {
				t.Fatalf("expected 1 enriched post, got %d", len(out))
			}
			if out[0].SentimentScore != tt.want {
				t.Errorf("SentimentScore = %d, want %d", out[0].SentimentScore, tt.want)
			}
		})
	}
}

func TestEnricher_PerOwnerScaling(t *testing.T) {
	e := NewEnricher()

	out := e.Enrich([]core.Post{
		{ID: 1, OwnerID: 10, EngagementCount: 100},
		{ID: 2, OwnerID: 10, EngagementCount: 0},
		{ID: 3, OwnerID: 11, EngagementCount: 50},
	})

	byID := make(map[int64]core.EnrichedPost)
	for _, p := range out {
		byID[p.ID] = p
	}

	if got := byID[1].NormalizedEngagement; got != 1 {
		t.Errorf("owner 10 top post should normalize to 1, got %v", got)
	}
	if got := byID[2].NormalizedEngagement; got != 0 {
		t.Errorf("owner 10 bottom post should normalize to 0, got %v", got)
	}
	// 单帖作者组内 max==min，恒等后截断到 [0,1]
	if got := byID[3].NormalizedEngagement; got < 0 || got > 1 {
		t.Errorf("single-post owner outside [0,1]: %v", got)
	}
}

func TestEnricher_OutputRange(t *testing.T) {
	e := NewEnricher()

	out := e.Enrich([]core.Post{
		{ID: 1, OwnerID: 1, EngagementCount: 3, Comments: []string{"great"}},
		{ID: 2, OwnerID: 1, EngagementCount: 7, Comments: []string{"bad"}},
		{ID: 3, OwnerID: 2, EngagementCount: 0},
		{ID: 4, OwnerID: 3, EngagementCount: 1000},
	})

	if len(out) != 4 {
		t.Fatalf("expected 4 enriched posts, got %d", len(out))
	}
	for _, p := range out {
		if p.NormalizedEngagement < 0 || p.NormalizedEngagement > 1 {
			t.Errorf("post %d NormalizedEngagement %v outside [0,1]", p.ID, p.NormalizedEngagement)
		}
	}
}

func TestEnricher_EmptyInput(t *testing.T) {
	if out := NewEnricher().Enrich(nil); len(out) != 0 {
		t.Errorf("expected empty output, got %v", out)
	}
}

func TestMinMaxNormalize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   []float64
	}{
		{"basic", []float64{0, 5, 10}, []float64{0, 0.5, 1}},
		{"negative range", []float64{-3, -1}, []float64{0, 1}},
		{"all equal stays identity", []float64{4, 4, 4}, []float64{4, 4, 4}},
		{"single value stays identity", []float64{7}, []float64{7}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinMaxNormalize(tt.values)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MinMaxNormalize(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}
