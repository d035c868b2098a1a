// Package cache implements the catalog read cache on Redis.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"storefront/config"
	"storefront/internal/domain/lifecycle"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const keyPrefix = "storefront:catalog:"

// redisCatalogCache stores JSON values under a namespaced key.
type redisCatalogCache struct {
	client redis.Cmdable
}

// NewRedisCatalogCache wraps an existing redis client.
func NewRedisCatalogCache(client redis.Cmdable) service.CatalogCache {
	return &redisCatalogCache{client: client}
}

func (c *redisCatalogCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to read cache key %s", key)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, errors.Wrapf(err, "failed to decode cache key %s", key)
	}

	return true, nil
}

func (c *redisCatalogCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode cache key %s", key)
	}

	if err := c.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to write cache key %s", key)
	}

	return nil
}

func (c *redisCatalogCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, keyPrefix+key)
	}

	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		return errors.Wrap(err, "failed to delete cache keys")
	}

	return nil
}

// noopCatalogCache always misses.
type noopCatalogCache struct{}

// NewNoopCatalogCache returns a cache that stores nothing.
func NewNoopCatalogCache() service.CatalogCache {
	return noopCatalogCache{}
}

func (noopCatalogCache) Get(context.Context, string, any) (bool, error) {
	return false, nil
}

func (noopCatalogCache) Set(context.Context, string, any, time.Duration) error {
	return nil
}

func (noopCatalogCache) Delete(context.Context, ...string) error {
	return nil
}

// Params holds dependencies for the catalog cache, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewCatalogCache connects to Redis when an address is configured and falls back to a no-op cache otherwise.
func NewCatalogCache(params Params) service.CatalogCache {
	cfg := params.Config.Redis
	if cfg == nil || cfg.Addr == "" {
		params.Logger.Info("Redis not configured, catalog cache disabled")

		return NewNoopCatalogCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	params.Lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			// The cache is optional; an unreachable Redis only degrades reads.
			if err := client.Ping(ctx).Err(); err != nil {
				params.Logger.Warn("Redis ping failed, catalog cache will miss",
					slog.String("addr", cfg.Addr),
					slog.Any("error", err),
				)
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return NewRedisCatalogCache(client)
}
