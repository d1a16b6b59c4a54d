package feast

import (
	"context"
	"strconv"
)

// 默认的在线互动特征名（post_stats 特征视图）。
const DefaultEngagementFeature = "post_stats:engagement_count"

// EngagementSource 把 Feast 在线特征封装成“帖子 -> 实时互动数”的查询口。
// 重建快照时用它覆盖离线交互表里滞后的 EngagementCount；
// Feast 不可用时引擎直接跳过覆盖，重建不依赖特征服务在线。
type EngagementSource struct {
	Client  Client
	Feature string // 默认 DefaultEngagementFeature
}

// NewEngagementSource 创建在线互动特征源。
func NewEngagementSource(client Client) *EngagementSource {
	return &EngagementSource{Client: client}
}

func (s *EngagementSource) feature() string {
	if s.Feature != "" {
		return s.Feature
	}
	return DefaultEngagementFeature
}

// OnlineEngagement 批量查询帖子的实时互动数。
// 返回 map 只包含查到特征值的帖子，缺失的帖子由调用方保留离线值。
func (s *EngagementSource) OnlineEngagement(ctx context.Context, postIDs []int64) (map[int64]float64, error) {
	if s.Client == nil || len(postIDs) == 0 {
		return nil, nil
	}

	entityRows := make([]map[string]interface{}, len(postIDs))
	for i, id := range postIDs {
		entityRows[i] = map[string]interface{}{"post_id": id}
	}

	resp, err := s.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   []string{s.feature()},
		EntityRows: entityRows,
	})
	if err != nil {
		return nil, err
	}

	out := make(map[int64]float64, len(resp.FeatureVectors))
	for _, fv := range resp.FeatureVectors {
		id, ok := entityID(fv.EntityRow["post_id"])
		if !ok {
			continue
		}
		if v, ok := featureFloat(fv.Values[s.feature()]); ok {
			out[id] = v
		}
	}
	return out, nil
}

func entityID(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case float64:
		return int64(val), true
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func featureFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
