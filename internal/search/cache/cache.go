// Package cache stores encoded search responses keyed by snapshot version
// and query fingerprint, so a reload naturally invalidates old entries.
package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"delivery_admin_backend/internal/search/domain"
	"delivery_admin_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "search:v1:"

// Cache is a response cache. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte) error
}

// Key builds the cache key of q against the snapshot version.
func Key(version string, q domain.Query) string {
	return keyPrefix + version + ":" + q.Fingerprint()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte) error         { return nil }

// RedisCache keeps responses in redis with a fixed TTL.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCache connects to the redis URL from cfg.
func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) (*RedisCache, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}

	return NewRedisCacheWithClient(redis.NewClient(opt), ttl), nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, body []byte) error {
	return c.client.Set(ctx, key, body, c.ttl).Err()
}

// Ping checks the redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
