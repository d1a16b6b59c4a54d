package recall

import (
	"context"

	"github.com/reviewapp/hybridrec/core"
	"github.com/reviewapp/hybridrec/pipeline"
	"github.com/reviewapp/hybridrec/pkg/conv"
)

// Similar 是“相似帖子”候选源：以上下文指定的种子帖为锚点，
// 从快照的相似度索引取近邻。种子帖从 rctx.Params["post_id"] 读取，
// 缺失或索引未收录时返回空候选。
type Similar struct {
	Provider SnapshotProvider
	TopK     int     // <=0 使用默认近邻数
	MinSim   float64 // 相似度下限
}

func (r *Similar) Name() string        { return "recall.similar" }
func (r *Similar) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Similar) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

func (r *Similar) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Provider == nil || rctx == nil || rctx.Params == nil {
		return nil, nil
	}
	seed, ok := conv.ToInt64(rctx.Params["post_id"])
	if !ok || seed == 0 {
		return nil, nil
	}
	snap := r.Provider.Snapshot()
	if snap == nil || snap.Index == nil {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = (&core.DefaultRankConfig{}).DefaultTopKNeighbors()
	}

	neighbors := snap.Index.Neighbors(seed, topK, r.MinSim)
	out := make([]*core.Item, 0, len(neighbors))
	for _, nb := range neighbors {
		item := core.NewItem(nb.PostID)
		item.Score = nb.Similarity
		out = append(out, item)
	}
	return out, nil
}
