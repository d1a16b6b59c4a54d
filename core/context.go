package core

import "github.com/reviewapp/hybridrec/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/场景/参数信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID int64
	Scene  string // feed / category / similar 等

	// Alpha 是协同分与内容分的融合权重，取值 [0,1]；<0 表示使用引擎默认值。
	Alpha float64

	// Labels 是用户级标签，可驱动整个 Pipeline 行为（新用户、重度用户等）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（limit、category、exclude_ids 等）。
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
