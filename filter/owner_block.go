package filter

import (
	"context"

	"github.com/reviewapp/hybridrec/core"
)

// DefaultOwnerBlockPrefix 用户拉黑作者列表的 key 前缀。
const DefaultOwnerBlockPrefix = "blocks:owner"

// OwnerBlockFilter 剔除被当前用户拉黑的作者的帖子。
// 拉黑列表按用户存储（{prefix}:{user_id} -> JSON 作者 ID 数组），
// 帖子的作者通过快照解析，尚未进快照的帖子放行。
type OwnerBlockFilter struct {
	Provider SnapshotProvider
	Adapter  *StoreAdapter

	// KeyPrefix 默认 DefaultOwnerBlockPrefix
	KeyPrefix string
}

func (f *OwnerBlockFilter) Name() string {
	return "filter.owner_block"
}

func (f *OwnerBlockFilter) prefix() string {
	if f.KeyPrefix != "" {
		return f.KeyPrefix
	}
	return DefaultOwnerBlockPrefix
}

func (f *OwnerBlockFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Provider == nil || f.Adapter == nil || rctx == nil || rctx.UserID == 0 {
		return false, nil
	}

	snap := f.Provider.Snapshot()
	if snap == nil {
		return false, nil
	}
	post := snap.EnrichedPostByID(item.ID)
	if post == nil {
		return false, nil
	}

	blocked, err := f.Adapter.GetOwnerBlocks(ctx, rctx.UserID, f.prefix())
	if err != nil {
		// 拉黑列表读不到时放行，存储故障不应清空推荐
		return false, nil
	}
	for _, owner := range blocked {
		if post.OwnerID == owner {
			return true, nil
		}
	}
	return false, nil
}
