package config

import (
	"fmt"
	"time"

	"github.com/reviewapp/hybridrec/core"
	"github.com/reviewapp/hybridrec/filter"
	"github.com/reviewapp/hybridrec/pipeline"
	"github.com/reviewapp/hybridrec/pkg/conv"
	"github.com/reviewapp/hybridrec/rank"
	"github.com/reviewapp/hybridrec/recall"
	"github.com/reviewapp/hybridrec/rerank"
)

// Provider 提供当前可服务的快照，由引擎实现。
type Provider interface {
	Snapshot() *core.Snapshot
}

// Deps 是配置驱动装配所需的运行时依赖。
// Provider 必填（召回兜底与排序都要快照）；Store 可选，缺省时
// 候选源只走快照路径、黑名单只用内存列表。
type Deps struct {
	Provider Provider
	Store    core.Store
}

// builtinTypes 是 DefaultFactory 内置的 Node 类型。
var builtinTypes = map[string]bool{
	"recall.candidates": true,
	"recall.similar":    true,
	"recall.fanout":     true,
	"filter":            true,
	"rank.hybrid":       true,
	"rerank.topn":       true,
	"rerank.diversity":  true,
}

// DefaultFactory 返回一个包含所有内置 Node 的工厂，并合入通过 Register
// 注册的自定义类型。
func DefaultFactory(deps Deps) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	factory.Register("recall.candidates", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildCandidatesNode(deps, cfg)
	})
	factory.Register("recall.similar", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildSimilarNode(deps, cfg)
	})
	factory.Register("recall.fanout", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildFanoutNode(deps, cfg)
	})
	factory.Register("filter", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildFilterNode(deps, cfg)
	})
	factory.Register("rank.hybrid", func(cfg map[string]interface{}) (pipeline.Node, error) {
		return buildHybridNode(deps, cfg)
	})
	factory.Register("rerank.topn", buildTopNNode)
	factory.Register("rerank.diversity", buildDiversityNode)

	defaultBuildersMu.RLock()
	for typeName, builder := range defaultBuilders {
		factory.Register(typeName, builder)
	}
	defaultBuildersMu.RUnlock()

	return factory
}

func buildCandidatesNode(deps Deps, cfg map[string]interface{}) (pipeline.Node, error) {
	node := &recall.Candidates{
		Store:    deps.Store,
		Provider: deps.Provider,
		Key:      conv.ConfigGet[string](cfg, "key", ""),
	}
	if max := conv.ConfigGetInt64(cfg, "max", 0); max > 0 {
		node.Max = int(max)
	}
	return node, nil
}

func buildSimilarNode(deps Deps, cfg map[string]interface{}) (pipeline.Node, error) {
	node := &recall.Similar{
		Provider: deps.Provider,
		MinSim:   conv.ConfigGetFloat64(cfg, "min_sim", 0),
	}
	if topK := conv.ConfigGetInt64(cfg, "top_k", 0); topK > 0 {
		node.TopK = int(topK)
	}
	return node, nil
}

func buildFanoutNode(deps Deps, cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesCfg, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesCfg))
	for _, sc := range sourcesCfg {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet[string](sourceMap, "type", "")
		switch sourceType {
		case "candidates":
			node, err := buildCandidatesNode(deps, sourceMap)
			if err != nil {
				return nil, err
			}
			sources = append(sources, node.(*recall.Candidates))
		case "similar":
			node, err := buildSimilarNode(deps, sourceMap)
			if err != nil {
				return nil, err
			}
			sources = append(sources, node.(*recall.Similar))
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}

	fanout := &recall.Fanout{
		Sources:       sources,
		Dedup:         conv.ConfigGet[bool](cfg, "dedup", true),
		MergeStrategy: conv.ConfigGet[string](cfg, "merge_strategy", ""),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func buildFilterNode(deps Deps, cfg map[string]interface{}) (pipeline.Node, error) {
	filtersCfg, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	var adapter *filter.StoreAdapter
	if deps.Store != nil {
		adapter = filter.NewStoreAdapter(deps.Store)
	}

	filters := make([]filter.Filter, 0, len(filtersCfg))
	for _, fc := range filtersCfg {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet[string](filterMap, "type", "")
		switch filterType {
		case "blacklist":
			ids := conv.SliceAnyToInt64(filterMap["post_ids"])
			key := conv.ConfigGet[string](filterMap, "key", "")
			filters = append(filters, filter.NewBlacklistFilter(ids, adapter, key))

		case "rule":
			expr := conv.ConfigGet[string](filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("rule filter requires expr")
			}
			filters = append(filters, filter.NewRuleFilter(expr))

		case "seen":
			filters = append(filters, &filter.SeenFilter{Provider: deps.Provider})

		case "owner_block":
			filters = append(filters, &filter.OwnerBlockFilter{
				Provider:  deps.Provider,
				Adapter:   adapter,
				KeyPrefix: conv.ConfigGet[string](filterMap, "key_prefix", ""),
			})

		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

func buildHybridNode(deps Deps, cfg map[string]interface{}) (pipeline.Node, error) {
	node := rank.NewHybridNode(deps.Provider)
	node.Opts.Alpha = conv.ConfigGetFloat64(cfg, "alpha", -1)
	if topK := conv.ConfigGetInt64(cfg, "top_k_neighbors", 0); topK > 0 {
		node.Opts.TopKNeighbors = int(topK)
	}
	if days := conv.ConfigGetInt64(cfg, "recency_window_days", 0); days > 0 {
		node.Opts.RecencyWindow = time.Duration(days) * 24 * time.Hour
	}
	if bonus := conv.ConfigGetFloat64(cfg, "recency_bonus", 0); bonus != 0 {
		node.Opts.RecencyBonus = bonus
	}
	return node, nil
}

func buildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	return &rerank.TopNNode{N: int(n)}, nil
}

func buildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &rerank.Diversity{
		LabelKey: conv.ConfigGet[string](cfg, "label_key", "category"),
	}
	if max := conv.ConfigGetInt64(cfg, "max_per_category", 0); max > 0 {
		node.MaxPerCategory = int(max)
	}
	return node, nil
}
