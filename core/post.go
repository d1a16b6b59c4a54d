package core

import "time"

// Interaction 是一条聚合后的用户-帖子交互记录。
// Score 是非负的加权互动分（浏览=1、点赞=2、评论=3、购买=5，按 (user, post) 聚合），
// 同一 (UserID, PostID) 至多一行，分值在同一次训练内可比。
type Interaction struct {
	UserID int64   `json:"user_id" bson:"user_id"`
	PostID int64   `json:"post_id" bson:"post_id"`
	Score  float64 `json:"score" bson:"interaction_score"`
}

// Post 是推荐核心消费的帖子视图：文本内容、分类、互动统计与评论。
// Post 由外部内容服务拥有，核心只读不写；传入核心的帖子集合应已按状态过滤。
type Post struct {
	ID              int64          `json:"post_id" bson:"post_id"`
	OwnerID         int64          `json:"owner_id" bson:"user_id"`
	Title           string         `json:"title" bson:"title"`
	Content         string         `json:"content" bson:"post_content"`
	Category        string         `json:"category" bson:"category_name"`
	CreatedAt       time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" bson:"updated_at"`
	EngagementCount float64        `json:"engagement_count" bson:"engagement_count"`
	Comments        []string       `json:"comments" bson:"comments"`
	CategoryFlags   map[string]int `json:"category_flags,omitempty" bson:"category_flags,omitempty"`
}

// EnrichedPost 是附加了情感分与归一化互动权重的帖子。
// SentimentScore 取离散桶 {-3,-1,1,3}（无可用评论时为 0）；
// NormalizedEngagement 在同一 Owner 的帖子集合内做 min-max 归一到 [0,1]。
type EnrichedPost struct {
	Post

	SentimentScore       int     `json:"sentiment_score"`
	NormalizedEngagement float64 `json:"normalized_engagement"`
}

// Candidate 是每次排序请求的中间结果，只在单次请求内存在，不落盘。
type Candidate struct {
	PostID       int64   `json:"post_id"`
	CollabScore  float64 `json:"collaborative_score"`
	ContentScore float64 `json:"content_score"`
	FusedScore   float64 `json:"fused_score"`

	// Interacted 标记该用户是否与帖子交互过；
	// 交互过的候选排在所有未交互候选之后（各组内按 FusedScore 降序）。
	Interacted bool `json:"interacted"`
}
