package caching

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = cache.ErrCacheMiss

type Cache interface {
	Get(ctx context.Context, key string, target any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// UseCache is a read-through helper: a miss runs callback and stores its result.
func UseCache[T any](ctx context.Context, cash Cache, key string, ttl time.Duration, callback func() (T, error)) (T, error) {
	var v T
	err := cash.Get(ctx, key, &v)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("caching: get %s: %v", key, err)
	}

	v, err = callback()
	if err != nil {
		return v, err
	}

	// fire and forget
	//nolint:errcheck
	cash.Set(ctx, key, v, ttl)
	return v, nil
}

// Invalidate drops keys, logging failures. Stale entries expire on their own.
func Invalidate(ctx context.Context, cash Cache, keys ...string) {
	for _, key := range keys {
		if err := cash.Delete(ctx, key); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("caching: delete %s: %v", key, err)
		}
	}
}

type CacheRedis struct {
	instance *cache.Cache
}

func (c *CacheRedis) Get(ctx context.Context, key string, target any) error {
	return c.instance.Get(ctx, key, target)
}

func (c *CacheRedis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.instance.Set(&cache.Item{
		Ctx:   ctx,
		Key:   key,
		Value: value,
		TTL:   ttl,
	})
}

func (c *CacheRedis) Delete(ctx context.Context, key string) error {
	return c.instance.Delete(ctx, key)
}

func NewCacheRedis(client redis.UniversalClient, withLocalCache bool) (*CacheRedis, error) {
	if client == nil {
		return nil, errors.New("caching: redis client is required")
	}

	var localCache cache.LocalCache
	if withLocalCache {
		localCache = cache.NewTinyLFU(1000, 5*time.Second)
	}
	return &CacheRedis{cache.New(&cache.Options{
		Redis:      client,
		LocalCache: localCache,
	})}, nil
}
