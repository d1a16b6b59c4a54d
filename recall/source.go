package recall

import (
	"context"

	"github.com/reviewapp/hybridrec/core"
)

// Source 表示一个可复用的候选源（快照全量/热门/分类/...）。
// 多个 Source 可以由 Fanout 并发执行后合并。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}
