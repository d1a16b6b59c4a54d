package filter

import (
	"context"

	"github.com/reviewapp/hybridrec/core"
	"github.com/reviewapp/hybridrec/pkg/dsl"
)

// RuleFilter 按 CEL 表达式剔除候选，用于运营规则下发。
//
// Expr 描述“保留条件”：表达式为 true 保留、false 剔除。例如
//
//	label.category != "adult" && item.score >= 0.1
//
// Invert 为 true 时语义反转，表达式描述“剔除条件”。
type RuleFilter struct {
	Expr   string
	Invert bool
}

// NewRuleFilter 创建一个规则过滤器。
func NewRuleFilter(expr string) *RuleFilter {
	return &RuleFilter{Expr: expr}
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" {
		return false, nil
	}

	keep, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		// 表达式错误时保留候选，规则问题不应清空推荐结果
		return false, err
	}
	if f.Invert {
		return keep, nil
	}
	return !keep, nil
}
