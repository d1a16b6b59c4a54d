package filter

import (
	"context"

	"github.com/reviewapp/hybridrec/core"
)

// SnapshotProvider 提供当前可服务的快照，由引擎实现。
type SnapshotProvider interface {
	Snapshot() *core.Snapshot
}

// SeenFilter 剔除用户已交互过的帖子。
// 默认排序策略只是把已交互候选沉底；需要完全不出重复内容的场景
// （如新品 feed）挂上这个过滤器。
type SeenFilter struct {
	Provider SnapshotProvider
}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Provider == nil || rctx == nil {
		return false, nil
	}
	snap := f.Provider.Snapshot()
	if snap == nil {
		return false, nil
	}
	return snap.Seen(rctx.UserID, item.ID), nil
}
