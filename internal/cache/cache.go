// Package cache 为首页分区投影等读多写少的数据提供缓存，支持进程内与 Redis 两种实现。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Cache 以字节切片保存值，实现必须并发安全。
type Cache interface {
	// Get 在键不存在或已过期时返回 ErrCacheMiss。
	Get(ctx context.Context, key string) ([]byte, error)
	// Set 写入值；ttl 为 0 时使用默认过期时间。
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var (
	// ErrCacheMiss indicates the key was not found or has expired.
	ErrCacheMiss = errors.New("cache miss")
	// ErrCacheClosed indicates the cache has been closed.
	ErrCacheClosed = errors.New("cache closed")
)

// GetJSON 读取并解码 JSON 值。
func GetJSON[T any](ctx context.Context, c Cache, key string) (T, error) {
	var value T
	raw, err := c.Get(ctx, key)
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, err
	}
	return value, nil
}

// SetJSON 将值编码为 JSON 后写入。
func SetJSON[T any](ctx context.Context, c Cache, key string, value T, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}
