package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"historical-qa-api/internal/application/analysis"
)

// AnswerCache 问答结果缓存
// 相同的归一化查询在 TTL 内直接复用已生成的答案
type AnswerCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewAnswerCache 创建问答结果缓存
func NewAnswerCache(cache *Cache, ttl time.Duration) *AnswerCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &AnswerCache{cache: cache, ttl: ttl}
}

// Get 读取缓存的分析结果，未命中返回 (nil, nil)
func (c *AnswerCache) Get(ctx context.Context, key string) (*analysis.Result, error) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var result analysis.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}
	return &result, nil
}

// Set 写入分析结果
func (c *AnswerCache) Set(ctx context.Context, key string, result *analysis.Result) error {
	return c.cache.Set(ctx, key, result, c.ttl)
}
