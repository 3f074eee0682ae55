package translation

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bestfriendai/Lingo-lens-sub002/internal/logging"
)

// Cache maps (source language, target language, normalized text) to a
// translated text, checked before any round-trip to the engine.
type Cache interface {
	Get(ctx context.Context, source, target, text string) (string, bool)
	Put(ctx context.Context, source, target, text, translated string)
}

// MemoryCache is a bounded in-memory cache with oldest-entry eviction.
type MemoryCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*list.Element
	order   *list.List
}

type cacheEntry struct {
	key        string
	translated string
}

// NewMemoryCache creates a cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &MemoryCache{
		maxSize: maxSize,
		entries: make(map[string]*list.Element, maxSize),
		order:   list.New(),
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, source, target, text string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[CacheKey(source, target, text)]
	if !ok {
		return "", false
	}
	return el.Value.(*cacheEntry).translated, true
}

// Put implements Cache. Inserting beyond capacity evicts the oldest
// entry.
func (c *MemoryCache) Put(_ context.Context, source, target, text, translated string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := CacheKey(source, target, text)
	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).translated = translated
		return
	}
	c.entries[key] = c.order.PushBack(&cacheEntry{key: key, translated: translated})
	if c.order.Len() > c.maxSize {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// RedisCache stores translations in Redis with a TTL, so repeated text
// survives process restarts and is shared between instances. Failures
// degrade to cache misses; the cache never fails a translation.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logging.Logger
}

// NewRedisCache connects to Redis at the given URL.
func NewRedisCache(redisURL string, ttl time.Duration, log *logging.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if log == nil {
		log = logging.NewNop()
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client, ttl: ttl, log: log}, nil
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, source, target, text string) (string, bool) {
	val, err := c.client.Get(ctx, "lingolens:tr:"+CacheKey(source, target, text)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("redis cache get failed", "error", err)
		}
		return "", false
	}
	return val, true
}

// Put implements Cache.
func (c *RedisCache) Put(ctx context.Context, source, target, text, translated string) {
	key := "lingolens:tr:" + CacheKey(source, target, text)
	if err := c.client.Set(ctx, key, translated, c.ttl).Err(); err != nil {
		c.log.Warn("redis cache put failed", "error", err)
	}
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
