package collab

import (
	"context"
	"math"
	"math/rand"

	"github.com/reviewapp/hybridrec/core"
)

// Options 是矩阵分解训练的配置项。零值字段使用默认值，负值视为配置错误。
type Options struct {
	// Factors 隐向量维度（默认 100）
	Factors int

	// Epochs 训练轮数（默认 20）
	Epochs int

	// LearningRate 学习率（默认 0.005）
	LearningRate float64

	// Regularization L2 正则系数（默认 0.02）
	Regularization float64

	// Seed 随机种子：固定 Seed 与输入顺序时训练结果可复现
	Seed int64

	// ClampToRange 预测时截断到训练观测的评分区间（默认关闭）
	ClampToRange bool
}

func (o Options) withDefaults() Options {
	if o.Factors == 0 {
		o.Factors = 100
	}
	if o.Epochs == 0 {
		o.Epochs = 20
	}
	if o.LearningRate == 0 {
		o.LearningRate = 0.005
	}
	if o.Regularization == 0 {
		o.Regularization = 0.02
	}
	return o
}

// Trainer 是 SGD 矩阵分解训练器。
//
// 核心思想：将用户-帖子交互矩阵分解为用户隐向量和帖子隐向量，
// 以梯度下降最小化 (实际分 - 预测分)² + L2 正则。
//
// 算法流程：
//  1. 全局偏置 = 交互分均值；记录观测 min/max
//  2. 每轮以固定 rng 洗牌交互顺序
//  3. 对每条交互按残差更新偏置与隐向量
//
// 工程特征：
//   - 离线训练、在线查表，训练期间不暴露中间状态
//   - 每轮之间检查 ctx，支持协作式取消（丢弃在建模型即可，无需回滚）
type Trainer struct {
	Opts Options
}

// 训练阶段的错误定义
var (
	ErrEmptyTrainingSet = core.NewDomainError(core.ModuleCollab, core.ErrorCodeEmptyDataset, "collab: empty training set, no model can be produced")
)

// Train 在全量交互集上训练一个 FactorModel。
//
// 失败语义：
//   - 零条交互是致命配置错误（ErrEmptyTrainingSet），绝不产出退化模型
//   - Factors/Epochs/LearningRate/Regularization 为负 → INVALID_INPUT
//   - ctx 取消 → 返回 ctx.Err()，丢弃在建模型
func (t *Trainer) Train(ctx context.Context, interactions []core.Interaction) (*FactorModel, error) {
	if len(interactions) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if t.Opts.Factors < 0 || t.Opts.Epochs < 0 {
		return nil, core.NewDomainError(core.ModuleCollab, core.ErrorCodeInvalidInput, "collab: factors and epochs must be non-negative")
	}
	if t.Opts.LearningRate < 0 || t.Opts.Regularization < 0 {
		return nil, core.NewDomainError(core.ModuleCollab, core.ErrorCodeInvalidInput, "collab: learning rate and regularization must be non-negative")
	}

	opts := t.Opts.withDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))

	model := &FactorModel{
		Factors:     opts.Factors,
		UserBias:    make(map[int64]float64),
		ItemBias:    make(map[int64]float64),
		UserFactors: make(map[int64][]float64),
		ItemFactors: make(map[int64][]float64),
		MinScore:    math.Inf(1),
		MaxScore:    math.Inf(-1),
		Clamp:       opts.ClampToRange,
	}

	// 全局偏置 = 均值；同时记录观测评分区间
	var sum float64
	for _, in := range interactions {
		sum += in.Score
		if in.Score < model.MinScore {
			model.MinScore = in.Score
		}
		if in.Score > model.MaxScore {
			model.MaxScore = in.Score
		}
	}
	model.GlobalBias = sum / float64(len(interactions))

	// 隐向量初始化为小随机值，避免对称性导致的梯度停滞
	initFactors := func(vectors map[int64][]float64, id int64) []float64 {
		if vec, ok := vectors[id]; ok {
			return vec
		}
		vec := make([]float64, opts.Factors)
		for i := range vec {
			vec[i] = rng.NormFloat64() * 0.1
		}
		vectors[id] = vec
		return vec
	}
	for _, in := range interactions {
		initFactors(model.UserFactors, in.UserID)
		initFactors(model.ItemFactors, in.PostID)
	}

	perm := make([]int, len(interactions))
	for i := range perm {
		perm[i] = i
	}

	lr := opts.LearningRate
	reg := opts.Regularization

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		// 每轮之间支持协作式取消
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rng.Shuffle(len(perm), func(i, j int) {
			perm[i], perm[j] = perm[j], perm[i]
		})

		for _, idx := range perm {
			in := interactions[idx]

			pu := model.UserFactors[in.UserID]
			qi := model.ItemFactors[in.PostID]

			pred := model.GlobalBias + model.UserBias[in.UserID] + model.ItemBias[in.PostID] + dot(pu, qi)
			residual := in.Score - pred

			model.UserBias[in.UserID] += lr * (residual - reg*model.UserBias[in.UserID])
			model.ItemBias[in.PostID] += lr * (residual - reg*model.ItemBias[in.PostID])

			for f := 0; f < opts.Factors; f++ {
				puf, qif := pu[f], qi[f]
				pu[f] += lr * (residual*qif - reg*puf)
				qi[f] += lr * (residual*puf - reg*qif)
			}
		}
	}

	return model, nil
}
