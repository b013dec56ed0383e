// Package cache holds short-lived snapshots of rendered feed pages.
//
// Entries expire on their own after the configured TTL; writes to the store never
// invalidate them, so a reader may see a stale page until the entry expires.
package cache

import (
	"context"
	"fmt"
	"yatube/pkg/config"
)

type Cache interface {
	// Get returns the cached value and whether it was present and not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// 根据配置创建缓存
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(cfg.Size, cfg.TTL), nil
	case "redis":
		return NewRedis(cfg.RedisAddr, cfg.RedisDB, cfg.KeyPrefix, cfg.TTL)
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}

// Nop 不缓存任何内容
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (Nop) Set(context.Context, string, []byte) error { return nil }
