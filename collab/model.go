package collab

import (
	"encoding/json"
	"os"

	"github.com/reviewapp/hybridrec/core"
)

// FactorModel 是训练产出的隐因子模型（Funk-SVD 风格矩阵分解）。
//
// 预测公式：
//
//	score = GlobalBias + UserBias[u] + ItemBias[i] + dot(UserFactors[u], ItemFactors[i])
//
// 模型在 Train 结束后不可变：并发 Predict 无锁安全，重训只产生新对象。
// MinScore/MaxScore 记录训练时观测到的评分区间，用于可选的预测截断。
type FactorModel struct {
	Factors    int     `json:"factors"`
	GlobalBias float64 `json:"global_bias"`

	UserBias map[int64]float64 `json:"user_biases"`
	ItemBias map[int64]float64 `json:"item_biases"`

	UserFactors map[int64][]float64 `json:"user_factors"`
	ItemFactors map[int64][]float64 `json:"item_factors"`

	MinScore float64 `json:"min_score"`
	MaxScore float64 `json:"max_score"`

	// Clamp 为 true 时 Predict 结果截断到 [MinScore, MaxScore]。
	// 默认关闭：预测值允许越过观测区间，排序阶段会再做批内归一化。
	Clamp bool `json:"clamp"`
}

// Predict 预测 (user, post) 的亲和度分，永不失败。
//
// 冷启动兜底：
//   - 只认识一侧时返回 GlobalBias + 已知一侧的 bias
//   - 两侧都不认识时返回 GlobalBias
func (m *FactorModel) Predict(userID, postID int64) float64 {
	pred := m.GlobalBias

	ub, hasUser := m.UserBias[userID]
	if hasUser {
		pred += ub
	}
	ib, hasItem := m.ItemBias[postID]
	if hasItem {
		pred += ib
	}

	if hasUser && hasItem {
		pred += dot(m.UserFactors[userID], m.ItemFactors[postID])
	}

	if m.Clamp {
		if pred < m.MinScore {
			pred = m.MinScore
		}
		if pred > m.MaxScore {
			pred = m.MaxScore
		}
	}
	return pred
}

// Save 将模型以 JSON 工件形式写入磁盘，可被 LoadFactorModel 恢复而无需重训。
func (m *FactorModel) Save(path string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadFactorModel 从磁盘加载模型工件。
func LoadFactorModel(path string) (*FactorModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m FactorModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// dot 计算两个向量的点积
func dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// 确保 FactorModel 实现了 core.Predictor 接口
var _ core.Predictor = (*FactorModel)(nil)
