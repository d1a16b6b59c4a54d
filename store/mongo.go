package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/reviewapp/hybridrec/core"
)

// MongoSource 是 MongoDB 实现的 core.DataSource：
// 从交互表和帖子表读全量训练数据，只读不写。
//
// 交互表按 (user_id, post_id) 存聚合分（interaction_score），
// 帖子表应只包含可推荐状态的帖子（下架/审核中的由上游过滤）。
// 上游不可达或文档无法解码时返回可重试的 UPSTREAM 错误，
// 引擎据此中止整个重建，不会拿半份数据训练。
type MongoSource struct {
	interactions *mongo.Collection
	posts        *mongo.Collection
}

// NewMongoSource 连接 MongoDB 并返回数据源。
func NewMongoSource(ctx context.Context, uri, database, interactionColl, postColl string) (*MongoSource, *mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, core.NewUpstreamError(fmt.Sprintf("mongo connect: %v", err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, core.NewUpstreamError(fmt.Sprintf("mongo ping: %v", err))
	}
	db := client.Database(database)
	return &MongoSource{
		interactions: db.Collection(interactionColl),
		posts:        db.Collection(postColl),
	}, client, nil
}

// NewMongoSourceWith 用已有的集合句柄创建数据源（便于测试与复用连接）。
func NewMongoSourceWith(interactions, posts *mongo.Collection) *MongoSource {
	return &MongoSource{interactions: interactions, posts: posts}
}

func (s *MongoSource) LoadInteractions(ctx context.Context) ([]core.Interaction, error) {
	cursor, err := s.interactions.Find(ctx, bson.D{})
	if err != nil {
		return nil, core.NewUpstreamError(fmt.Sprintf("load interactions: %v", err))
	}
	defer cursor.Close(ctx)

	var rows []core.Interaction
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, core.NewUpstreamError(fmt.Sprintf("decode interactions: %v", err))
	}
	return rows, nil
}

func (s *MongoSource) LoadPosts(ctx context.Context) ([]core.Post, error) {
	cursor, err := s.posts.Find(ctx, bson.D{})
	if err != nil {
		return nil, core.NewUpstreamError(fmt.Sprintf("load posts: %v", err))
	}
	defer cursor.Close(ctx)

	var posts []core.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, core.NewUpstreamError(fmt.Sprintf("decode posts: %v", err))
	}
	return posts, nil
}

var _ core.DataSource = (*MongoSource)(nil)
