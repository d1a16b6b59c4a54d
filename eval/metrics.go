// Package eval 提供推荐结果的离线评估指标。
package eval

import "github.com/reviewapp/hybridrec/core"

// Metrics 是一次评估的精确率/召回率/F1。
type Metrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Evaluate 比较推荐列表与相关集合。
//   - precision = 命中数 / 推荐数
//   - recall    = 命中数 / 相关数
//   - f1        = 2PR / (P+R)
//
// 任一分母为 0 时对应指标取 0，不报错。重复 ID 按集合语义去重。
func Evaluate(relevant, recommended []int64) Metrics {
	relevantSet := make(map[int64]struct{}, len(relevant))
	for _, id := range relevant {
		relevantSet[id] = struct{}{}
	}
	recommendedSet := make(map[int64]struct{}, len(recommended))
	for _, id := range recommended {
		recommendedSet[id] = struct{}{}
	}

	hits := 0
	for id := range recommendedSet {
		if _, ok := relevantSet[id]; ok {
			hits++
		}
	}

	var m Metrics
	if len(recommendedSet) > 0 {
		m.Precision = float64(hits) / float64(len(recommendedSet))
	}
	if len(relevantSet) > 0 {
		m.Recall = float64(hits) / float64(len(relevantSet))
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// RelevantSet 从增强后的帖子集合推导“相关”帖子：
// 互动数高于阈值且情感分不是最差桶。
func RelevantSet(enriched []core.EnrichedPost, engagementThreshold float64) []int64 {
	out := make([]int64, 0, len(enriched))
	for _, p := range enriched {
		if p.EngagementCount > engagementThreshold && p.SentimentScore > -3 {
			out = append(out, p.ID)
		}
	}
	return out
}
