package rank

import (
	"context"

	"github.com/reviewapp/hybridrec/core"
	"github.com/reviewapp/hybridrec/pipeline"
	"github.com/reviewapp/hybridrec/pkg/utils"
)

// SnapshotProvider 提供当前可服务的快照，由引擎实现。
type SnapshotProvider interface {
	Snapshot() *core.Snapshot
}

// HybridNode 是 HybridRanker 的 Pipeline 封装：
// 把上游召回的 items 当作候选集做融合排序，分数与中间分写回 item。
type HybridNode struct {
	Ranker   *HybridRanker
	Provider SnapshotProvider

	// Opts 节点级排序参数；rctx.Alpha >= 0 时覆盖其中的 Alpha
	Opts Options
}

// NewHybridNode 创建融合排序节点。
func NewHybridNode(provider SnapshotProvider) *HybridNode {
	return &HybridNode{
		Ranker:   NewHybridRanker(),
		Provider: provider,
		Opts:     Options{Alpha: -1},
	}
}

func (n *HybridNode) Name() string { return "rank.hybrid" }

func (n *HybridNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *HybridNode) Process(ctx context.Context, rctx *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	var snap *core.Snapshot
	if n.Provider != nil {
		snap = n.Provider.Snapshot()
	}
	if snap == nil {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeUnavailable,
			"no snapshot available for ranking")
	}

	var userID int64
	opts := n.Opts
	if rctx != nil {
		userID = rctx.UserID
		if rctx.Alpha >= 0 {
			opts.Alpha = rctx.Alpha
		}
	}

	byID := make(map[int64]*core.Item, len(items))
	candidates := make([]int64, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		byID[item.ID] = item
		candidates = append(candidates, item.ID)
	}

	ranked, err := n.Ranker.Recommend(ctx, userID, candidates, snap, &opts)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Item, 0, len(ranked))
	for _, c := range ranked {
		item, ok := byID[c.PostID]
		if !ok {
			continue
		}
		item.Score = c.FusedScore
		if item.Meta == nil {
			item.Meta = map[string]any{}
		}
		item.Meta["collaborative_score"] = c.CollabScore
		item.Meta["content_score"] = c.ContentScore
		if c.Interacted {
			item.PutLabel("interacted", utils.Label{Value: "1", Source: "rank"})
		}
		out = append(out, item)
	}
	return out, nil
}
