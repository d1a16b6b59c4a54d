package rerank

import (
	"context"

	"github.com/reviewapp/hybridrec/core"
	"github.com/reviewapp/hybridrec/pipeline"
)

// TopNNode 在排序后截取前 N 个帖子，控制返回结果数量。
// 通常放在 rank.hybrid 之后、多样性重排之前。
type TopNNode struct {
	// N 要保留的帖子数量。N <= 0 或超过候选数时不截断。
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	// 请求级 limit 覆盖节点配置
	if rctx != nil && rctx.Params != nil {
		if v, ok := rctx.Params["limit"]; ok {
			switch val := v.(type) {
			case int:
				limit = val
			case int64:
				limit = int(val)
			case float64:
				limit = int(val)
			}
		}
	}

	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
