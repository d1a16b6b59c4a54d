package core

import "context"

// DataSource 是训练/索引数据的只读上游视图（交互表 + 帖子表）。
//
// 核心只消费不回写；上游不可达或数据损坏时实现方应返回
// ErrorCodeUpstream 级别的 DomainError（可重试），而不是静默返回
// 半份数据——引擎据此中止整个重建并继续服务旧快照。
type DataSource interface {
	// LoadInteractions 加载全量聚合交互行 (user_id, post_id, score)
	LoadInteractions(ctx context.Context) ([]Interaction, error)

	// LoadPosts 加载全量可推荐帖子（应已按状态过滤）
	LoadPosts(ctx context.Context) ([]Post, error)
}

// NewUpstreamError 构造一个可重试的上游数据错误。
func NewUpstreamError(message string) *DomainError {
	return NewDomainError(ModuleStore, ErrorCodeUpstream, message)
}
