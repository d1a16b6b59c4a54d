package rerank

import (
	"context"
	"testing"

	"github.com/reviewapp/hybridrec/core"
	"github.com/reviewapp/hybridrec/pkg/utils"
)

func items(ids ...int64) []*core.Item {
	out := make([]*core.Item, len(ids))
	for i, id := range ids {
		out[i] = core.NewItem(id)
	}
	return out
}

func ids(items []*core.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		params map[string]any
		in     []int64
		want   int
	}{
		{"truncates", 2, nil, []int64{1, 2, 3, 4}, 2},
		{"fewer than n", 10, nil, []int64{1, 2}, 2},
		{"n zero keeps all", 0, nil, []int64{1, 2, 3}, 3},
		{"request limit overrides", 10, map[string]any{"limit": 1}, []int64{1, 2, 3}, 1},
		{"float limit from json config", 10, map[string]any{"limit": float64(2)}, []int64{1, 2, 3}, 2},
		{"zero request limit keeps all", 2, map[string]any{"limit": 0}, []int64{1, 2, 3}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopNNode{N: tt.n}
			rctx := &core.RecommendContext{Params: tt.params}
			out, err := node.Process(context.Background(), rctx, items(tt.in...))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("got %d items, want %d", len(out), tt.want)
			}
		})
	}
}

func TestDiversity_OverflowSinksToTail(t *testing.T) {
	in := items(1, 2, 3, 4, 5)
	in[0].PutLabel("category", utils.Label{Value: "shoes"})
	in[1].PutLabel("category", utils.Label{Value: "shoes"})
	in[2].PutLabel("category", utils.Label{Value: "hats"})
	in[3].PutLabel("category", utils.Label{Value: "shoes"})
	// item 5 无分类，原位保留

	node := &Diversity{MaxPerCategory: 1}
	out, err := node.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := ids(out)
	// 头部：1(shoes 首个)、3(hats 首个)、5(无分类)，超额 shoes 2、4 沉底且保持相对顺序
	want := []int64{1, 3, 5, 2, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if len(out) != len(in) {
		t.Errorf("diversity must rearrange, not drop: %d != %d", len(out), len(in))
	}
}

func TestDiversity_MaxPerCategory(t *testing.T) {
	in := items(1, 2, 3)
	for _, it := range in {
		it.PutLabel("category", utils.Label{Value: "shoes"})
	}

	node := &Diversity{MaxPerCategory: 2}
	out, err := node.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ids(out)
	want := []int64{1, 2, 3} // 前两个留头部，第三个沉底，恰好同序
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDiversity_CategoryFromMeta(t *testing.T) {
	in := items(1, 2)
	in[0].Meta["category"] = "shoes"
	in[1].Meta["category"] = "shoes"

	out, err := (&Diversity{}).Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out); got[0] != 1 || got[1] != 2 || len(got) != 2 {
		t.Errorf("order = %v, want [1 2]", got)
	}
	// 默认每分类 1 个：第二个 shoes 沉底（这里列表只有两个，顺序不变但计数生效）
	node := &Diversity{}
	three := items(1, 2, 3)
	three[0].Meta["category"] = "shoes"
	three[1].Meta["category"] = "shoes"
	three[2].Meta["category"] = "hats"
	out, _ = node.Process(context.Background(), nil, three)
	if got := ids(out); got[0] != 1 || got[1] != 3 || got[2] != 2 {
		t.Errorf("order = %v, want [1 3 2]", got)
	}
}
