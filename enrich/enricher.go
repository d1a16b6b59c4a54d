package enrich

import (
	"github.com/reviewapp/hybridrec/core"
)

// Enricher 为帖子集合派生情感分与归一化互动权重。
//
// 计算流程（批处理，无内部状态）：
//  1. 每条评论算极性并分桶；帖子的情感分 = 评论极性均值的分桶值
//     （固定口径：均值再分桶，而不是取首条评论的桶）
//  2. weighted = 0.75*互动量 + 0.25*normalize(情感分)，normalize 在
//     全候选集上做 min-max（max==min 时恒等，不做除零）
//  3. weighted 在每个 Owner 自己的帖子集合内再做 min-max，得到
//     [0,1] 的相对质量信号，同一作者的帖子之间可比
type Enricher struct {
	Analyzer Analyzer

	// EngagementWeight / SentimentWeight 加权系数，零值使用 0.75 / 0.25
	EngagementWeight float64
	SentimentWeight  float64
}

// NewEnricher 创建一个使用默认词表分析器的 Enricher。
func NewEnricher() *Enricher {
	return &Enricher{Analyzer: NewLexiconAnalyzer()}
}

func (e *Enricher) weights() (float64, float64) {
	if e.EngagementWeight == 0 && e.SentimentWeight == 0 {
		return 0.75, 0.25
	}
	return e.EngagementWeight, e.SentimentWeight
}

// Enrich 返回与输入同序的增强帖子序列。空输入返回空序列。
func (e *Enricher) Enrich(posts []core.Post) []core.EnrichedPost {
	if len(posts) == 0 {
		return nil
	}
	analyzer := e.Analyzer
	if analyzer == nil {
		analyzer = NewLexiconAnalyzer()
	}

	out := make([]core.EnrichedPost, len(posts))
	for i, p := range posts {
		out[i] = core.EnrichedPost{
			Post:           p,
			SentimentScore: e.postSentiment(analyzer, p.Comments),
		}
	}

	// 全候选集上的情感分归一化
	sentiments := make([]float64, len(out))
	for i := range out {
		sentiments[i] = float64(out[i].SentimentScore)
	}
	sentNorm := MinMaxNormalize(sentiments)

	engWeight, sentWeight := e.weights()
	weighted := make([]float64, len(out))
	for i := range out {
		weighted[i] = engWeight*out[i].EngagementCount + sentWeight*sentNorm[i]
	}

	// 按 Owner 分组后组内 min-max，产出相对质量信号
	byOwner := make(map[int64][]int)
	for i := range out {
		byOwner[out[i].OwnerID] = append(byOwner[out[i].OwnerID], i)
	}
	for _, idxs := range byOwner {
		group := make([]float64, len(idxs))
		for gi, i := range idxs {
			group[gi] = weighted[i]
		}
		normalized := MinMaxNormalize(group)
		for gi, i := range idxs {
			out[i].NormalizedEngagement = clamp01(normalized[gi])
		}
	}

	return out
}

// postSentiment 聚合一个帖子的评论情感：极性均值再分桶。
// 没有评论或全部无法解析时为 0。
func (e *Enricher) postSentiment(analyzer Analyzer, comments []string) int {
	if len(comments) == 0 {
		return 0
	}
	var sum float64
	for _, c := range comments {
		sum += analyzer.Polarity(c)
	}
	return BucketPolarity(sum / float64(len(comments)))
}

// MinMaxNormalize 把观测 min 映射为 0、max 映射为 1。
// 所有值相等时恒等返回（不做除零）。
func MinMaxNormalize(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(values))
	if max == min {
		copy(out, values)
		return out
	}
	for i, v := range values {
		out[i] = (v - min) / (max - min)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
