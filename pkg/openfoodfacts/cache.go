package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"nutriscan-backend/internal/utils"
)

const (
	DefaultCacheTTL = 24 * time.Hour
	keyPrefix       = "off:product:"
)

type (
	// Cache stores raw product payloads. A miss returns (nil, false, nil).
	Cache interface {
		Get(ctx context.Context, key string) ([]byte, bool, error)
		Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	}

	redisCache struct {
		rdb *redis.Client
	}

	noopCache struct{}

	cachedClient struct {
		inner Client
		cache Cache
		ttl   time.Duration
	}
)

func NewRedisCache(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb}
}

// NewCacheFromConfig returns a Redis-backed cache when REDIS_ADDR is set and
// reachable, otherwise a cache that never hits.
func NewCacheFromConfig(ctx context.Context) Cache {
	addr := utils.GetConfig("REDIS_ADDR")
	if addr == "" {
		return noopCache{}
	}
	db, _ := strconv.Atoi(utils.GetConfigOr("REDIS_DB", "0"))
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.GetConfig("REDIS_PASSWORD"),
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warnw("redis unavailable, product cache disabled", "addr", addr, "error", err)
		_ = rdb.Close()
		return noopCache{}
	}
	return NewRedisCache(rdb)
}

func NewNoopCache() Cache { return noopCache{} }

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (noopCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (noopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// NewCachedClient wraps product lookups with a read-through cache.
// Search results are not cached.
func NewCachedClient(inner Client, cache Cache, ttl time.Duration) Client {
	if cache == nil {
		cache = noopCache{}
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cachedClient{inner: inner, cache: cache, ttl: ttl}
}

func (c *cachedClient) GetProduct(ctx context.Context, barcode string) (*Product, error) {
	key := keyPrefix + barcode
	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		log.Warnw("product cache read failed", "barcode", barcode, "error", err)
	} else if ok {
		var p Product
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
	}

	p, err := c.inner.GetProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode product: %w", err)
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		log.Warnw("product cache write failed", "barcode", barcode, "error", err)
	}
	return p, nil
}

func (c *cachedClient) Search(ctx context.Context, term string, page, pageSize int) (*SearchResult, error) {
	return c.inner.Search(ctx, term, page, pageSize)
}
