package recall

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/reviewapp/hybridrec/core"
	"github.com/reviewapp/hybridrec/pipeline"
)

// SnapshotProvider 提供当前可服务的快照，由引擎实现。
type SnapshotProvider interface {
	Snapshot() *core.Snapshot
}

// Candidates 是排序前的候选帖子源，按优先级依次尝试：
//   - Store 实现了 KeyValueStore 时用 ZRange 读有序集合（运营位/热门池）
//   - 否则从普通 key 读 JSON 数组
//   - 都为空时回退到快照全量帖子，按归一化互动降序截断到 Max
//
// Candidates 同时实现 Source 和 Node 接口，可直接挂进 Pipeline。
type Candidates struct {
	Store    core.Store
	Key      string // 例如 "candidates:feed"
	Provider SnapshotProvider
	Max      int // 候选上限，<=0 使用默认值
}

func (r *Candidates) Name() string        { return "recall.candidates" }
func (r *Candidates) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *Candidates) max() int {
	if r.Max > 0 {
		return r.Max
	}
	return (&core.DefaultRankConfig{}).DefaultMaxCandidates()
}

// Process 实现 Node 接口，忽略上游 items 直接召回。
func (r *Candidates) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Candidates) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	limit := r.max()
	ids := r.fromStore(ctx, limit)
	if len(ids) == 0 {
		ids = r.fromSnapshot(limit)
	}

	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(id))
	}
	return out, nil
}

func (r *Candidates) fromStore(ctx context.Context, limit int) []int64 {
	if r.Store == nil || r.Key == "" {
		return nil
	}
	if kv, ok := r.Store.(core.KeyValueStore); ok {
		members, err := kv.ZRange(ctx, r.Key, 0, int64(limit-1))
		if err != nil || len(members) == 0 {
			return nil
		}
		ids := make([]int64, 0, len(members))
		for _, m := range members {
			if id, err := strconv.ParseInt(m, 10, 64); err == nil {
				ids = append(ids, id)
			}
		}
		return ids
	}

	data, err := r.Store.Get(ctx, r.Key)
	if err != nil {
		return nil
	}
	var parsed []int64
	if json.Unmarshal(data, &parsed) != nil {
		return nil
	}
	if len(parsed) > limit {
		parsed = parsed[:limit]
	}
	return parsed
}

// fromSnapshot 回退到快照全量帖子，按归一化互动降序截断。
func (r *Candidates) fromSnapshot(limit int) []int64 {
	if r.Provider == nil {
		return nil
	}
	snap := r.Provider.Snapshot()
	if snap == nil || len(snap.Enriched) == 0 {
		return nil
	}

	posts := make([]core.EnrichedPost, len(snap.Enriched))
	copy(posts, snap.Enriched)
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].NormalizedEngagement > posts[j].NormalizedEngagement
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}

	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
