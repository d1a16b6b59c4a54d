package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/reviewapp/hybridrec/collab"
	"github.com/reviewapp/hybridrec/core"
	"github.com/reviewapp/hybridrec/enrich"
	"github.com/reviewapp/hybridrec/feast"
	"github.com/reviewapp/hybridrec/rank"
	"github.com/reviewapp/hybridrec/textsim"
)

// Engine 负责快照的重建与推荐服务。
//
// 核心思想：训练与服务彻底分离。
//   - Rebuild 在请求路径之外跑：加载数据、训练协同模型、构建相似度索引、
//     增强帖子，全部成功后一次性原子发布新快照
//   - Recommend 只读当前快照，无锁、可并发；重建失败时继续服务旧快照
//
// 请求路径上永远不训练。
type Engine struct {
	source   core.DataSource
	trainer  *collab.Trainer
	enricher *enrich.Enricher
	ranker   *rank.HybridRanker
	vecOpts  textsim.VectorizerOptions

	// engagement 可选的 Feast 实时互动特征源
	engagement *feast.EngagementSource

	snapshot atomic.Pointer[core.Snapshot]
	version  atomic.Int64
	cron     *cron.Cron
	log      zerolog.Logger
}

// Option 配置 Engine。
type Option func(*Engine)

// WithTrainer 指定协同训练器。
func WithTrainer(t *collab.Trainer) Option {
	return func(e *Engine) { e.trainer = t }
}

// WithEnricher 指定增强器。
func WithEnricher(en *enrich.Enricher) Option {
	return func(e *Engine) { e.enricher = en }
}

// WithRanker 指定排序器。
func WithRanker(r *rank.HybridRanker) Option {
	return func(e *Engine) { e.ranker = r }
}

// WithVectorizerOptions 指定 TF-IDF 向量化参数。
func WithVectorizerOptions(opts textsim.VectorizerOptions) Option {
	return func(e *Engine) { e.vecOpts = opts }
}

// WithEngagementSource 接入 Feast 实时互动特征，重建时覆盖离线互动数。
func WithEngagementSource(s *feast.EngagementSource) Option {
	return func(e *Engine) { e.engagement = s }
}

// WithLogger 指定结构化日志。
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New 创建 Engine。source 是训练/索引数据的上游。
func New(source core.DataSource, opts ...Option) *Engine {
	e := &Engine{
		source:   source,
		trainer:  &collab.Trainer{},
		enricher: enrich.NewEnricher(),
		ranker:   rank.NewHybridRanker(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot 返回当前已发布的快照，尚无快照时返回 nil。
func (e *Engine) Snapshot() *core.Snapshot {
	return e.snapshot.Load()
}

// Rebuild 执行一次完整重建并在成功后原子发布新快照。
// 任一阶段失败都不发布，当前快照不受影响。
func (e *Engine) Rebuild(ctx context.Context) error {
	version := e.version.Add(1)
	started := time.Now()
	log := e.log.With().Int64("version", version).Logger()
	log.Info().Msg("rebuild started")

	interactions, err := e.source.LoadInteractions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("load interactions failed")
		return err
	}
	posts, err := e.source.LoadPosts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("load posts failed")
		return err
	}
	log.Info().
		Int("interactions", len(interactions)).
		Int("posts", len(posts)).
		Msg("data loaded")

	model, err := e.trainer.Train(ctx, interactions)
	if err != nil {
		log.Error().Err(err).Msg("training failed")
		return err
	}

	index, err := textsim.Build(ctx, posts, textsim.BuildOptions{Vectorizer: e.vecOpts})
	if err != nil {
		log.Error().Err(err).Msg("index build failed")
		return err
	}

	e.applyOnlineEngagement(ctx, posts, log)
	enriched := e.enricher.Enrich(posts)

	byID := make(map[int64]*core.EnrichedPost, len(enriched))
	for i := range enriched {
		byID[enriched[i].ID] = &enriched[i]
	}
	seen := make(map[int64]map[int64]struct{})
	for _, row := range interactions {
		if seen[row.UserID] == nil {
			seen[row.UserID] = make(map[int64]struct{})
		}
		seen[row.UserID][row.PostID] = struct{}{}
	}

	snap := &core.Snapshot{
		Version:  version,
		BuiltAt:  time.Now(),
		Model:    model,
		Index:    index,
		Posts:    byID,
		Enriched: enriched,
		UserSeen: seen,
	}
	e.snapshot.Store(snap)

	log.Info().
		Dur("elapsed", time.Since(started)).
		Int("indexed_posts", index.Size()).
		Msg("snapshot published")
	return nil
}

// applyOnlineEngagement 用 Feast 在线特征覆盖离线互动数。
// 特征服务不可用时只记日志，不影响重建。
func (e *Engine) applyOnlineEngagement(ctx context.Context, posts []core.Post, log zerolog.Logger) {
	if e.engagement == nil || len(posts) == 0 {
		return
	}
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	online, err := e.engagement.OnlineEngagement(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Msg("online engagement unavailable, using offline counts")
		return
	}
	for i := range posts {
		if v, ok := online[posts[i].ID]; ok {
			posts[i].EngagementCount = v
		}
	}
}

// RecommendOptions 是一次推荐请求的参数。
type RecommendOptions struct {
	// Alpha 融合权重，0 或负值使用默认值。
	// 需要显式 alpha=0（纯内容分）时直接调用 rank.HybridRanker。
	Alpha float64

	// Limit 返回数量上限，<=0 不截断
	Limit int

	// Candidates 显式候选集；为空时使用快照全量帖子
	Candidates []int64
}

// Recommend 从当前快照为用户生成推荐。
// 尚无已发布快照时返回 UNAVAILABLE。
func (e *Engine) Recommend(ctx context.Context, userID int64, opts RecommendOptions) ([]core.Candidate, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeUnavailable,
			"no snapshot published yet")
	}

	candidates := opts.Candidates
	if len(candidates) == 0 {
		max := (&core.DefaultRankConfig{}).DefaultMaxCandidates()
		candidates = make([]int64, 0, len(snap.Enriched))
		for _, p := range snap.Enriched {
			candidates = append(candidates, p.ID)
			if len(candidates) >= max {
				break
			}
		}
	}

	alpha := opts.Alpha
	if alpha <= 0 {
		alpha = -1
	}
	ranked, err := e.ranker.Recommend(ctx, userID, candidates, snap, &rank.Options{Alpha: alpha})
	if err != nil {
		return nil, err
	}
	if opts.Limit > 0 && len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}
	return ranked, nil
}

// StartRefresh 按 cron 表达式定时重建快照，返回停止函数。
// 表达式示例："0 3 * * *"（每天 03:00）、"@every 6h"。
func (e *Engine) StartRefresh(spec string) (func(), error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := e.Rebuild(ctx); err != nil {
			e.log.Error().Err(err).Msg("scheduled rebuild failed")
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	e.cron = c
	e.log.Info().Str("spec", spec).Msg("refresh schedule started")
	return func() { c.Stop() }, nil
}
