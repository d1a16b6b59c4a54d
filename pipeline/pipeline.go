package pipeline

import (
	"context"
	"fmt"

	"github.com/reviewapp/hybridrec/core"
)

// Pipeline 把推荐流程拆成可组合的 Node 链：
// 候选召回 -> 过滤 -> 融合排序 -> 重排。
type Pipeline struct {
	Nodes []Node
}

// Run 依次执行各 Node，任一 Node 出错即终止并带上节点名返回。
func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", node.Name(), err)
		}
		cur = next
	}
	return cur, nil
}
