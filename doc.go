// Package hybridrec 是一个混合推荐引擎（协同过滤 + 内容相似度）。
//
// 设计要点：
// - Snapshot-first: 训练与服务分离，重建产物（模型/索引/增强帖子）原子发布为不可变快照
// - Pipeline-first: 服务链路通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
package hybridrec

import "github.com/reviewapp/hybridrec/pipeline"

// 轻量 facade：便于直接 import 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
