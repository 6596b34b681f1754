// Package cache stores converted collections in redis, keyed by the
// digest of the request that produced them. A nil *Cache is valid and
// never hits.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vasalvit/geoleaf/internal/metrics"
)

const keyPrefix = "geoleaf:fc:"

// Cache is a redis backed response cache.
type Cache struct {
	rc  *redis.Client
	ttl time.Duration
	log *slog.Logger
}

// Open connects to redis at addr. An empty addr disables caching and
// returns nil.
func Open(addr, password string, db int, ttl time.Duration, l *slog.Logger) *Cache {
	if addr == "" {
		return nil
	}
	return New(redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}), ttl, l)
}

// New wraps an existing client.
func New(rc *redis.Client, ttl time.Duration, l *slog.Logger) *Cache {
	if l == nil {
		l = slog.Default()
	}
	return &Cache{rc: rc, ttl: ttl, log: l}
}

// Key derives the cache key of a request body converted with the given
// settings.
func Key(body []byte, settings ...string) string {
	h := sha256.New()
	for _, s := range settings {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	h.Write(body)
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rc.Ping(ctx).Err()
}

// Get returns the cached GeoJSON document for key. Errors other than a
// plain miss are logged and reported as a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache_get_error", "err", err)
		}
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	metrics.CacheHitsTotal.Inc()
	return b, true
}

// Put stores doc under key for the configured TTL.
func (c *Cache) Put(ctx context.Context, key string, doc []byte) error {
	if c == nil {
		return nil
	}
	return c.rc.Set(ctx, key, doc, c.ttl).Err()
}

// Close releases the connection pool.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rc.Close()
}
