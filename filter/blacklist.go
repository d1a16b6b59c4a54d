package filter

import (
	"context"

	"github.com/reviewapp/hybridrec/core"
)

// BlacklistFilter 剔除被下架/屏蔽的帖子。
// 黑名单可以是内存列表（配置下发），也可以来自 Store（审核系统写入）。
type BlacklistFilter struct {
	// PostIDs 内存中的黑名单帖子 ID 列表
	PostIDs []int64

	// Store 从存储读取黑名单（可选）
	Store BlacklistStore

	// Key Store 中的黑名单 key（可选），例如 "moderation:removed"
	Key string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单帖子 ID 列表
	GetBlacklist(ctx context.Context, key string) ([]int64, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(postIDs []int64, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	var store BlacklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &BlacklistFilter{
		PostIDs: postIDs,
		Store:   store,
		Key:     key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	for _, id := range f.PostIDs {
		if item.ID == id {
			return true, nil
		}
	}

	if f.Store != nil && f.Key != "" {
		blacklist, err := f.Store.GetBlacklist(ctx, f.Key)
		if err == nil {
			for _, id := range blacklist {
				if item.ID == id {
					return true, nil
				}
			}
		}
	}

	return false, nil
}
