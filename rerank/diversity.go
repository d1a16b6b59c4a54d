package rerank

import (
	"context"

	"github.com/reviewapp/hybridrec/core"
	"github.com/reviewapp/hybridrec/pipeline"
)

// Diversity 按分类做多样性重排：每个分类最多保留 MaxPerCategory 个帖子，
// 超出的沉到尾部（保持组内相对顺序），避免 feed 被单一分类刷屏。
// 分类来源优先级：
//   - label["category"].Value
//   - meta["category"] (string)
type Diversity struct {
	LabelKey       string // 默认 "category"
	MaxPerCategory int    // 默认 1
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	key := n.LabelKey
	if key == "" {
		key = "category"
	}
	maxPer := n.MaxPerCategory
	if maxPer <= 0 {
		maxPer = 1
	}

	counts := make(map[string]int, 32)
	head := make([]*core.Item, 0, len(items))
	tail := make([]*core.Item, 0)

	for _, it := range items {
		if it == nil {
			continue
		}

		cate := n.category(it, key)
		if cate == "" {
			head = append(head, it)
			continue
		}
		if counts[cate] >= maxPer {
			tail = append(tail, it)
			continue
		}
		counts[cate]++
		head = append(head, it)
	}

	return append(head, tail...), nil
}

func (n *Diversity) category(it *core.Item, key string) string {
	if it.Labels != nil {
		if lbl, ok := it.Labels[key]; ok && lbl.Value != "" {
			return lbl.Value
		}
	}
	if it.Meta != nil {
		if v, ok := it.Meta[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
