package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/reviewapp/hybridrec/core"
	"github.com/reviewapp/hybridrec/pkg/utils"
	"github.com/reviewapp/hybridrec/store"
)

func item(id int64, score float64) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	return it
}

func TestBlacklistFilter_MemoryList(t *testing.T) {
	f := NewBlacklistFilter([]int64{5, 7}, nil, "")

	tests := []struct {
		id   int64
		want bool
	}{
		{5, true},
		{7, true},
		{1, false},
	}
	for _, tt := range tests {
		got, err := f.ShouldFilter(context.Background(), nil, item(tt.id, 0))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("ShouldFilter(%d) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

type fakeBlacklistStore struct {
	ids []int64
	err error
}

func (s *fakeBlacklistStore) GetBlacklist(ctx context.Context, key string) ([]int64, error) {
	return s.ids, s.err
}

func TestBlacklistFilter_Store(t *testing.T) {
	f := &BlacklistFilter{Store: &fakeBlacklistStore{ids: []int64{42}}, Key: "moderation:removed"}

	if got, _ := f.ShouldFilter(context.Background(), nil, item(42, 0)); !got {
		t.Error("post in store blacklist should be filtered")
	}
	if got, _ := f.ShouldFilter(context.Background(), nil, item(1, 0)); got {
		t.Error("post outside store blacklist should pass")
	}

	// 存储出错时放行，审核系统故障不应清空推荐
	f = &BlacklistFilter{Store: &fakeBlacklistStore{err: errors.New("down")}, Key: "moderation:removed"}
	if got, _ := f.ShouldFilter(context.Background(), nil, item(42, 0)); got {
		t.Error("store error must not filter the post")
	}
}

func TestRuleFilter(t *testing.T) {
	it := item(1, 0.8)
	it.PutLabel("category", utils.Label{Value: "fashion", Source: "recall"})
	rctx := &core.RecommendContext{UserID: 7, Scene: "feed"}

	tests := []struct {
		name   string
		expr   string
		invert bool
		want   bool
	}{
		{"keep condition holds", "item.score >= 0.5", false, false},
		{"keep condition fails", "item.score >= 0.9", false, true},
		{"label match keeps", `label.category == "fashion"`, false, false},
		{"label mismatch drops", `label.category == "electronics"`, false, true},
		{"scene from context", `rctx.scene == "feed"`, false, false},
		{"invert turns keep into drop", "item.score >= 0.5", true, true},
		{"empty expr keeps everything", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &RuleFilter{Expr: tt.expr, Invert: tt.invert}
			got, err := f.ShouldFilter(context.Background(), rctx, it)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleFilter_EvalErrorKeepsItem(t *testing.T) {
	f := NewRuleFilter("this is not cel ((")
	got, err := f.ShouldFilter(context.Background(), nil, item(1, 0))
	if err == nil {
		t.Fatal("expected compile error")
	}
	if got {
		t.Error("broken rule must not filter the post")
	}
}

type fakeProvider struct {
	snap *core.Snapshot
}

func (p *fakeProvider) Snapshot() *core.Snapshot { return p.snap }

func TestSeenFilter(t *testing.T) {
	snap := &core.Snapshot{UserSeen: map[int64]map[int64]struct{}{7: {3: {}}}}
	f := &SeenFilter{Provider: &fakeProvider{snap: snap}}
	rctx := &core.RecommendContext{UserID: 7}

	if got, _ := f.ShouldFilter(context.Background(), rctx, item(3, 0)); !got {
		t.Error("seen post should be filtered")
	}
	if got, _ := f.ShouldFilter(context.Background(), rctx, item(4, 0)); got {
		t.Error("fresh post should pass")
	}

	// 无快照时放行
	f = &SeenFilter{Provider: &fakeProvider{}}
	if got, _ := f.ShouldFilter(context.Background(), rctx, item(3, 0)); got {
		t.Error("missing snapshot must not filter")
	}
}

func TestOwnerBlockFilter(t *testing.T) {
	snap := &core.Snapshot{
		Posts: map[int64]*core.EnrichedPost{
			1: {Post: core.Post{ID: 1, OwnerID: 100}},
			2: {Post: core.Post{ID: 2, OwnerID: 200}},
		},
	}

	mem := store.NewMemoryStore()
	defer mem.Close()
	if err := mem.Set(context.Background(), "blocks:owner:7", []byte("[100]")); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	f := &OwnerBlockFilter{
		Provider: &fakeProvider{snap: snap},
		Adapter:  NewStoreAdapter(mem),
	}
	rctx := &core.RecommendContext{UserID: 7}

	if got, _ := f.ShouldFilter(context.Background(), rctx, item(1, 0)); !got {
		t.Error("post from blocked owner should be filtered")
	}
	if got, _ := f.ShouldFilter(context.Background(), rctx, item(2, 0)); got {
		t.Error("post from other owner should pass")
	}
	// 不在快照内的帖子放行
	if got, _ := f.ShouldFilter(context.Background(), rctx, item(3, 0)); got {
		t.Error("unknown post must not be filtered")
	}
	// 无拉黑记录的用户放行
	other := &core.RecommendContext{UserID: 8}
	if got, _ := f.ShouldFilter(context.Background(), other, item(1, 0)); got {
		t.Error("user without block list must see the post")
	}
}

func TestFilterNode_FirstHitWinsAndLabels(t *testing.T) {
	node := &FilterNode{Filters: []Filter{
		NewBlacklistFilter([]int64{2}, nil, ""),
		NewRuleFilter("item.score >= 0.5"),
	}}

	items := []*core.Item{item(1, 0.9), item(2, 0.9), item(3, 0.1)}
	out, err := node.Process(context.Background(), &core.RecommendContext{}, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ID != 1 {
		t.Fatalf("expected only item 1 to survive, got %v", out)
	}

	// 剔除原因落在 filtered 标签的 source 上
	lbl, ok := items[1].GetLabel("filtered")
	if !ok || lbl.Source != "filter.blacklist" {
		t.Errorf("item 2: filtered label = %+v", lbl)
	}
	lbl, ok = items[2].GetLabel("filtered")
	if !ok || lbl.Source != "filter.rule" {
		t.Errorf("item 3: filtered label = %+v", lbl)
	}
}
