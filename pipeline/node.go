package pipeline

import (
	"context"

	"github.com/reviewapp/hybridrec/core"
)

// Kind 用于标记 Node 类型，方便观测/编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：生成候选帖子集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除黑名单/规则命中的候选
	KindRank        Kind = "rank"        // 排序阶段：融合打分并排序
	KindReRank      Kind = "rerank"      // 重排阶段：多样性/截断等业务调优
	KindPostProcess Kind = "postprocess" // 后处理阶段：补充展示字段或最终修饰
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，召回生成、过滤截断、重排改序都走同一个接口。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
