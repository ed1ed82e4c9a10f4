package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookmall/pkg/metrics"
)

// CacheStore JSON缓存（Cache-Aside）
// 更新数据库后删除缓存，下次查询时重新加载
type CacheStore struct {
	client *redis.Client
	name   string // 指标标签
}

// NewCacheStore 创建缓存存储
func NewCacheStore(client *redis.Client, name string) *CacheStore {
	return &CacheStore{client: client, name: name}
}

// Get 读取缓存到dest，未命中返回false
func (c *CacheStore) Get(ctx context.Context, k string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key("cache", k)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheResult(c.name, "miss")
			return false, nil
		}
		metrics.CacheResult(c.name, "error")
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		metrics.CacheResult(c.name, "error")
		return false, err
	}
	metrics.CacheResult(c.name, "hit")
	return true, nil
}

// Set 写入缓存
func (c *CacheStore) Set(ctx context.Context, k string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key("cache", k), raw, ttl).Err()
}

// Delete 删除缓存
func (c *CacheStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = key("cache", k)
	}
	return c.client.Del(ctx, full...).Err()
}
