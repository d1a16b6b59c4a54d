package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/reviewapp/hybridrec/core"
)

// 默认的交互/帖子数据 key。BatchLoader 等离线任务按同样的 key 写入。
const (
	DefaultInteractionsKey = "rec:interactions"
	DefaultPostsKey        = "rec:posts"
)

// InteractionAdapter 把 core.Store 适配为类型化的交互/帖子读取口，
// 同时实现 core.DataSource，使 Redis/内存 Store 可以直接作为训练数据源。
// 数据以 JSON 数组整体存储，读路径只有一次 Get。
type InteractionAdapter struct {
	Store           core.Store
	InteractionsKey string // 默认 DefaultInteractionsKey
	PostsKey        string // 默认 DefaultPostsKey
}

// NewInteractionAdapter 创建使用默认 key 的适配器。
func NewInteractionAdapter(s core.Store) *InteractionAdapter {
	return &InteractionAdapter{Store: s}
}

func (a *InteractionAdapter) interactionsKey() string {
	if a.InteractionsKey != "" {
		return a.InteractionsKey
	}
	return DefaultInteractionsKey
}

func (a *InteractionAdapter) postsKey() string {
	if a.PostsKey != "" {
		return a.PostsKey
	}
	return DefaultPostsKey
}

// AllInteractions 读取全量聚合交互行。key 不存在视为空数据集。
func (a *InteractionAdapter) AllInteractions(ctx context.Context) ([]core.Interaction, error) {
	data, err := a.Store.Get(ctx, a.interactionsKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, core.NewUpstreamError(fmt.Sprintf("load interactions: %v", err))
	}
	var rows []core.Interaction
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, core.NewUpstreamError(fmt.Sprintf("decode interactions: %v", err))
	}
	return rows, nil
}

// AllPosts 读取全量可推荐帖子。key 不存在视为空数据集。
func (a *InteractionAdapter) AllPosts(ctx context.Context) ([]core.Post, error) {
	data, err := a.Store.Get(ctx, a.postsKey())
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, core.NewUpstreamError(fmt.Sprintf("load posts: %v", err))
	}
	var posts []core.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, core.NewUpstreamError(fmt.Sprintf("decode posts: %v", err))
	}
	return posts, nil
}

// GetUserInteractions 返回指定用户的全部交互行。
func (a *InteractionAdapter) GetUserInteractions(ctx context.Context, userID int64) ([]core.Interaction, error) {
	rows, err := a.AllInteractions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Interaction, 0)
	for _, r := range rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetPostInteractions 返回指定帖子的全部交互行。
func (a *InteractionAdapter) GetPostInteractions(ctx context.Context, postID int64) ([]core.Interaction, error) {
	rows, err := a.AllInteractions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Interaction, 0)
	for _, r := range rows {
		if r.PostID == postID {
			out = append(out, r)
		}
	}
	return out, nil
}

// SaveInteractions 整体写入交互数据（离线同步任务使用）。
func (a *InteractionAdapter) SaveInteractions(ctx context.Context, rows []core.Interaction) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return a.Store.Set(ctx, a.interactionsKey(), data)
}

// SavePosts 整体写入帖子数据（离线同步任务使用）。
func (a *InteractionAdapter) SavePosts(ctx context.Context, posts []core.Post) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return err
	}
	return a.Store.Set(ctx, a.postsKey(), data)
}

// LoadInteractions 实现 core.DataSource。
func (a *InteractionAdapter) LoadInteractions(ctx context.Context) ([]core.Interaction, error) {
	return a.AllInteractions(ctx)
}

// LoadPosts 实现 core.DataSource。
func (a *InteractionAdapter) LoadPosts(ctx context.Context) ([]core.Post, error) {
	return a.AllPosts(ctx)
}

var _ core.DataSource = (*InteractionAdapter)(nil)
