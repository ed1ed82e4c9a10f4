package book

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// 缓存键
const (
	cacheKeyHomeData   = "home-data"
	cacheKeyCategories = "categories"
)

// Cache 目录查询缓存(Cache-Aside)
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CatalogCache 首页书架与分类缓存
// 缓存不可用时直接查库,只记录日志
type CatalogCache struct {
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogCache 创建目录缓存,cache为nil时不缓存
func NewCatalogCache(cache Cache, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	return &CatalogCache{cache: cache, ttl: ttl, logger: logger}
}

// Invalidate 图书增删改后清除缓存
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c == nil || c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, cacheKeyHomeData, cacheKeyCategories); err != nil {
		c.logger.Warn("清除目录缓存失败", zap.Error(err))
	}
}

// cached 先读缓存,未命中时调用load并回写
func cached[T any](ctx context.Context, c *CatalogCache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if c == nil || c.cache == nil {
		return load(ctx)
	}

	var value T
	hit, err := c.cache.Get(ctx, key, &value)
	if err != nil {
		c.logger.Warn("读取缓存失败", zap.String("key", key), zap.Error(err))
	}
	if hit && err == nil {
		return value, nil
	}

	value, err = load(ctx)
	if err != nil {
		return value, err
	}
	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		c.logger.Warn("写入缓存失败", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}
