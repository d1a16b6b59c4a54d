package core

import "time"

// Predictor 是协同模型的最小抽象：预测 (user, post) 的亲和度分。
// 冷启动（unseen user/item）必须有兜底值，实现不允许失败。
type Predictor interface {
	Predict(userID, postID int64) float64
}

// Neighbor 是相似度索引中的一个近邻。
type Neighbor struct {
	PostID     int64
	Similarity float64
}

// NeighborIndex 是内容相似度索引的最小抽象。
// postID 不在索引中时返回空列表而不是错误。
type NeighborIndex interface {
	Neighbors(postID int64, topK int, minSim float64) []Neighbor
}

// Snapshot 是一次完整重建的产物：模型、索引、增强后的帖子与用户已交互集合。
//
// Snapshot 发布后不可变：并发的 Recommend 调用无锁共享同一个快照；
// 重建完成后由引擎整体原子替换（atomic.Pointer），读方永远看不到半成品。
type Snapshot struct {
	Version   int64
	BuiltAt   time.Time
	Model     Predictor
	Index     NeighborIndex
	Posts     map[int64]*EnrichedPost
	Enriched  []EnrichedPost
	UserSeen  map[int64]map[int64]struct{} // user_id -> 已交互 post_id 集合
}

// Seen 判断用户是否与帖子交互过。
func (s *Snapshot) Seen(userID, postID int64) bool {
	if s == nil || s.UserSeen == nil {
		return false
	}
	seen, ok := s.UserSeen[userID]
	if !ok {
		return false
	}
	_, ok = seen[postID]
	return ok
}

// EnrichedPost 查找增强后的帖子，不存在时返回 nil。
func (s *Snapshot) EnrichedPostByID(postID int64) *EnrichedPost {
	if s == nil || s.Posts == nil {
		return nil
	}
	return s.Posts[postID]
}
