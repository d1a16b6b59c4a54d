package core

import "time"

// RankConfig 是融合排序相关的配置接口，用于提供默认值。
type RankConfig interface {
	// DefaultAlpha 返回默认的融合权重
	DefaultAlpha() float64

	// DefaultTopKNeighbors 返回内容分聚合的近邻数量
	DefaultTopKNeighbors() int

	// DefaultRecencyWindow 返回新帖加权的时间窗口
	DefaultRecencyWindow() time.Duration

	// DefaultRecencyBonus 返回新帖的附加分
	DefaultRecencyBonus() float64

	// DefaultMaxCandidates 返回单次请求候选集上限
	DefaultMaxCandidates() int
}

// DefaultRankConfig 是默认的排序配置实现。
type DefaultRankConfig struct{}

func (c *DefaultRankConfig) DefaultAlpha() float64 {
	return 0.8
}

func (c *DefaultRankConfig) DefaultTopKNeighbors() int {
	return 20
}

func (c *DefaultRankConfig) DefaultRecencyWindow() time.Duration {
	return 7 * 24 * time.Hour
}

func (c *DefaultRankConfig) DefaultRecencyBonus() float64 {
	return 1.0
}

func (c *DefaultRankConfig) DefaultMaxCandidates() int {
	return 500
}
