package store

import (
	"context"
	"sync"

	"github.com/reviewapp/hybridrec/core"
)

// MemorySource 是内存实现的 core.DataSource，用于测试和示例。
// 数据通过 SetInteractions/SetPosts 注入，Load 返回副本，外部修改不影响内部状态。
type MemorySource struct {
	mu           sync.RWMutex
	interactions []core.Interaction
	posts        []core.Post
}

func NewMemorySource() *MemorySource {
	return &MemorySource{}
}

// NewMemorySourceWith 以给定数据创建 MemorySource。
func NewMemorySourceWith(interactions []core.Interaction, posts []core.Post) *MemorySource {
	s := NewMemorySource()
	s.SetInteractions(interactions)
	s.SetPosts(posts)
	return s
}

func (s *MemorySource) SetInteractions(interactions []core.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append([]core.Interaction(nil), interactions...)
}

func (s *MemorySource) SetPosts(posts []core.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append([]core.Post(nil), posts...)
}

func (s *MemorySource) LoadInteractions(_ context.Context) ([]core.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Interaction(nil), s.interactions...), nil
}

func (s *MemorySource) LoadPosts(_ context.Context) ([]core.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Post(nil), s.posts...), nil
}

var _ core.DataSource = (*MemorySource)(nil)
