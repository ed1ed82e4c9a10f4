package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/xiebiao/bookmall/internal/infrastructure/config"
)

// wishlistCollection 收藏夹集合
const wishlistCollection = "wishlists"

// NewDatabase 连接MongoDB并返回业务库
// 调用方负责在退出时Disconnect
func NewDatabase(ctx context.Context, cfg config.MongoConfig, log *zap.Logger) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("MongoDB连接失败: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("MongoDB连接测试失败: %w", err)
	}

	db := client.Database(cfg.Database)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Info("MongoDB连接成功", zap.String("database", cfg.Database))
	return client, db, nil
}

// ensureIndexes book_ids多键索引，用于下架图书时批量移除收藏
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(wishlistCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "book_ids", Value: 1}},
		Options: options.Index().SetName("idx_book_ids"),
	})
	if err != nil {
		return fmt.Errorf("创建收藏夹索引失败: %w", err)
	}
	return nil
}
