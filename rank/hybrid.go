package rank

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/reviewapp/hybridrec/core"
	"github.com/reviewapp/hybridrec/enrich"
)

// Options 是单次融合排序的可调参数，未显式设置的字段使用 RankConfig 的默认值
// （Alpha 以负值表示未设置，0 是合法的显式取值）。
type Options struct {
	// Alpha 协同分权重，内容分权重为 1-Alpha。
	// 负值表示使用默认值；[0,1] 之外返回 INVALID_INPUT。
	Alpha float64

	// TopKNeighbors 内容分聚合的近邻数量
	TopKNeighbors int

	// RecencyWindow / RecencyBonus 新帖加权窗口与附加分
	RecencyWindow time.Duration
	RecencyBonus  float64

	// Now 用于新帖判定的基准时间，零值取 time.Now()
	Now time.Time
}

// HybridRanker 融合协同分与内容分对候选集排序。
//
// 算法流程：
//  1. 每个候选取 model.Predict 的协同分，批内 min-max 归一化
//  2. 内容分 = 该候选 topK 近邻的 NormalizedEngagement 均值
//     （索引未收录时为 0），同样批内归一化
//  3. fused = alpha*collab + (1-alpha)*content
//  4. UpdatedAt 在时间窗口内的候选加 RecencyBonus
//  5. 用户交互过的候选整组排在未交互候选之后，组内按 fused 降序（稳定）
//
// 排序只读快照，不修改任何共享状态，可并发调用。
type HybridRanker struct {
	Config core.RankConfig
}

// NewHybridRanker 创建使用默认配置的排序器。
func NewHybridRanker() *HybridRanker {
	return &HybridRanker{Config: &core.DefaultRankConfig{}}
}

func (r *HybridRanker) config() core.RankConfig {
	if r.Config != nil {
		return r.Config
	}
	return &core.DefaultRankConfig{}
}

func (r *HybridRanker) resolve(opts *Options) (Options, error) {
	cfg := r.config()
	resolved := Options{
		Alpha:         cfg.DefaultAlpha(),
		TopKNeighbors: cfg.DefaultTopKNeighbors(),
		RecencyWindow: cfg.DefaultRecencyWindow(),
		RecencyBonus:  cfg.DefaultRecencyBonus(),
		Now:           time.Now(),
	}
	if opts != nil {
		if opts.Alpha >= 0 {
			resolved.Alpha = opts.Alpha
		}
		if opts.TopKNeighbors > 0 {
			resolved.TopKNeighbors = opts.TopKNeighbors
		}
		if opts.RecencyWindow > 0 {
			resolved.RecencyWindow = opts.RecencyWindow
		}
		if opts.RecencyBonus != 0 {
			resolved.RecencyBonus = opts.RecencyBonus
		}
		if !opts.Now.IsZero() {
			resolved.Now = opts.Now
		}
	}
	if resolved.Alpha < 0 || resolved.Alpha > 1 {
		return resolved, core.NewDomainError(core.ModuleRank, core.ErrorCodeInvalidInput,
			fmt.Sprintf("alpha must be in [0,1], got %v", resolved.Alpha))
	}
	return resolved, nil
}

// Recommend 对候选帖子做融合排序。
// 候选集为空时返回空结果和 nil；快照缺失模型或索引的候选按兜底值处理，
// 单个候选的缺失不会使整个请求失败。
func (r *HybridRanker) Recommend(ctx context.Context, userID int64, candidates []int64, snap *core.Snapshot, opts *Options) ([]core.Candidate, error) {
	resolved, err := r.resolve(opts)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []core.Candidate{}, nil
	}
	if snap == nil {
		return nil, core.NewDomainError(core.ModuleRank, core.ErrorCodeUnavailable,
			"no snapshot available for ranking")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]core.Candidate, 0, len(candidates))
	collabScores := make([]float64, 0, len(candidates))
	contentScores := make([]float64, 0, len(candidates))
	for _, postID := range candidates {
		c := core.Candidate{
			PostID:     postID,
			Interacted: snap.Seen(userID, postID),
		}
		if snap.Model != nil {
			c.CollabScore = snap.Model.Predict(userID, postID)
		}
		c.ContentScore = r.contentScore(snap, postID, resolved.TopKNeighbors)
		collabScores = append(collabScores, c.CollabScore)
		contentScores = append(contentScores, c.ContentScore)
		out = append(out, c)
	}

	collabNorm := enrich.MinMaxNormalize(collabScores)
	contentNorm := enrich.MinMaxNormalize(contentScores)
	for i := range out {
		fused := resolved.Alpha*collabNorm[i] + (1-resolved.Alpha)*contentNorm[i]
		if r.isRecent(snap, out[i].PostID, resolved) {
			fused += resolved.RecencyBonus
		}
		out[i].FusedScore = fused
	}

	// 未交互组在前、交互组在后，组内稳定降序
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Interacted != out[j].Interacted {
			return !out[i].Interacted
		}
		return out[i].FusedScore > out[j].FusedScore
	})
	return out, nil
}

// contentScore 取候选 topK 近邻的归一化互动均值，索引未收录时为 0。
func (r *HybridRanker) contentScore(snap *core.Snapshot, postID int64, topK int) float64 {
	if snap.Index == nil {
		return 0
	}
	neighbors := snap.Index.Neighbors(postID, topK, 0)
	if len(neighbors) == 0 {
		return 0
	}
	var sum float64
	var n int
	for _, nb := range neighbors {
		ep := snap.EnrichedPostByID(nb.PostID)
		if ep == nil {
			continue
		}
		sum += ep.NormalizedEngagement
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (r *HybridRanker) isRecent(snap *core.Snapshot, postID int64, opts Options) bool {
	if opts.RecencyBonus == 0 || opts.RecencyWindow <= 0 {
		return false
	}
	ep := snap.EnrichedPostByID(postID)
	if ep == nil {
		return false
	}
	ts := ep.UpdatedAt
	if ts.IsZero() {
		ts = ep.CreatedAt
	}
	if ts.IsZero() {
		return false
	}
	return opts.Now.Sub(ts) <= opts.RecencyWindow
}
