package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/reviewapp/hybridrec/collab"
	"github.com/reviewapp/hybridrec/core"
	"github.com/reviewapp/hybridrec/store"
)

func testSource() *store.MemorySource {
	interactions := []core.Interaction{
		{UserID: 1, PostID: 1, Score: 5},
		{UserID: 1, PostID: 2, Score: 4},
		{UserID: 2, PostID: 2, Score: 5},
		{UserID: 2, PostID: 3, Score: 3},
		{UserID: 3, PostID: 1, Score: 1},
		{UserID: 3, PostID: 4, Score: 5},
	}
	posts := []core.Post{
		{ID: 1, OwnerID: 10, Title: "red running shoes", Content: "lightweight red running shoes", EngagementCount: 40, Comments: []string{"great quality"}},
		{ID: 2, OwnerID: 10, Title: "red sneakers", Content: "casual red sneakers", EngagementCount: 25},
		{ID: 3, OwnerID: 11, Title: "blue hat", Content: "warm blue winter hat", EngagementCount: 10, Comments: []string{"bad stitching"}},
		{ID: 4, OwnerID: 11, Title: "coffee grinder", Content: "manual coffee grinder", EngagementCount: 60},
	}
	return store.NewMemorySourceWith(interactions, posts)
}

func newTestEngine() *Engine {
	return New(testSource(), WithTrainer(&collab.Trainer{Opts: collab.Options{Factors: 4, Epochs: 20, Seed: 42}}))
}

func TestEngine_RecommendBeforeRebuild(t *testing.T) {
	eng := newTestEngine()
	_, err := eng.Recommend(context.Background(), 1, RecommendOptions{})
	if !core.IsUnavailable(err) {
		t.Fatalf("expected UNAVAILABLE before first rebuild, got %v", err)
	}
	if eng.Snapshot() != nil {
		t.Errorf("expected nil snapshot before first rebuild")
	}
}

func TestEngine_RebuildThenRecommend(t *testing.T) {
	eng := newTestEngine()
	if err := eng.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	snap := eng.Snapshot()
	if snap == nil {
		t.Fatal("expected published snapshot")
	}
	if snap.Version != 1 {
		t.Errorf("snapshot version = %d, want 1", snap.Version)
	}
	if snap.Model == nil || snap.Index == nil {
		t.Fatal("snapshot missing model or index")
	}
	if len(snap.Enriched) != 4 {
		t.Errorf("enriched posts = %d, want 4", len(snap.Enriched))
	}

	out, err := eng.Recommend(context.Background(), 1, RecommendOptions{Limit: 3})
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(out))
	}
	// 用户 1 交互过 1、2，应排在未交互的 3、4 之后
	if out[0].Interacted {
		t.Errorf("first result %d should be a fresh post", out[0].PostID)
	}
}

func TestEngine_RebuildIncrementsVersion(t *testing.T) {
	eng := newTestEngine()
	for i := int64(1); i <= 3; i++ {
		if err := eng.Rebuild(context.Background()); err != nil {
			t.Fatalf("rebuild %d failed: %v", i, err)
		}
		if got := eng.Snapshot().Version; got != i {
			t.Errorf("after rebuild %d: version = %d", i, got)
		}
	}
}

// failingSource 在注入点之后开始报错，用于验证重建失败不影响已发布快照。
type failingSource struct {
	inner *store.MemorySource
	fail  bool
}

func (s *failingSource) LoadInteractions(ctx context.Context) ([]core.Interaction, error) {
	if s.fail {
		return nil, errors.New("upstream gone")
	}
	return s.inner.LoadInteractions(ctx)
}

func (s *failingSource) LoadPosts(ctx context.Context) ([]core.Post, error) {
	if s.fail {
		return nil, errors.New("upstream gone")
	}
	return s.inner.LoadPosts(ctx)
}

func TestEngine_FailedRebuildKeepsSnapshot(t *testing.T) {
	src := &failingSource{inner: testSource()}
	eng := New(src, WithTrainer(&collab.Trainer{Opts: collab.Options{Factors: 4, Epochs: 20, Seed: 42}}))

	if err := eng.Rebuild(context.Background()); err != nil {
		t.Fatalf("first rebuild failed: %v", err)
	}
	first := eng.Snapshot()

	src.fail = true
	if err := eng.Rebuild(context.Background()); err == nil {
		t.Fatal("expected rebuild error from failing source")
	}
	if eng.Snapshot() != first {
		t.Errorf("failed rebuild must not replace the published snapshot")
	}

	// 旧快照继续服务
	if _, err := eng.Recommend(context.Background(), 1, RecommendOptions{}); err != nil {
		t.Errorf("recommend on previous snapshot failed: %v", err)
	}
}

func TestEngine_ExplicitCandidates(t *testing.T) {
	eng := newTestEngine()
	if err := eng.Rebuild(context.Background()); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	out, err := eng.Recommend(context.Background(), 1, RecommendOptions{Candidates: []int64{3, 4}})
	if err != nil {
		t.Fatalf("recommend failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(out))
	}
	for _, c := range out {
		if c.PostID != 3 && c.PostID != 4 {
			t.Errorf("unexpected candidate %d outside explicit set", c.PostID)
		}
	}
}
