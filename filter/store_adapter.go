package filter

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/reviewapp/hybridrec/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
// 黑名单以 JSON int64 数组存储，OwnerBlocks 按 {keyPrefix}:{userID} 取 key。
type StoreAdapter struct {
	store core.Store
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store) *StoreAdapter {
	return &StoreAdapter{store: s}
}

// GetBlacklist 从 Store 读取黑名单。
func (a *StoreAdapter) GetBlacklist(ctx context.Context, key string) ([]int64, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}

	return ids, nil
}

// GetOwnerBlocks 从 Store 读取用户拉黑的作者列表。
func (a *StoreAdapter) GetOwnerBlocks(ctx context.Context, userID int64, keyPrefix string) ([]int64, error) {
	key := keyPrefix + ":" + strconv.FormatInt(userID, 10)
	return a.GetBlacklist(ctx, key)
}
