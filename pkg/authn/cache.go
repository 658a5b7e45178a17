package authn

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/metriclab/platformkit/pkg/directory"
)

// IdentityCache is an optional read-through cache consulted before the user
// repository when resolving a bound session. A cached identity can lag the
// store by up to its TTL; deployments that revoke users aggressively should
// keep the TTL short or skip the cache.
type IdentityCache interface {
	Get(ctx context.Context, userID string) (*directory.User, bool)
	Set(ctx context.Context, userID string, user *directory.User)
}

type memoryCacheEntry struct {
	user      directory.User
	expiresAt time.Time
}

// MemoryCache is an in-process IdentityCache with per-entry TTL. Safe for
// concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
	ttl     time.Duration
}

// NewMemoryCache creates a cache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryCacheEntry),
		ttl:     ttl,
	}
}

// Get returns a cached identity if present and not expired.
func (c *MemoryCache) Get(ctx context.Context, userID string) (*directory.User, bool) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, userID)
		c.mu.Unlock()
		return nil, false
	}

	user := entry.user
	return &user, true
}

// Set stores an identity until its TTL elapses.
func (c *MemoryCache) Set(ctx context.Context, userID string, user *directory.User) {
	if user == nil {
		return
	}
	c.mu.Lock()
	c.entries[userID] = memoryCacheEntry{user: *user, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// RedisCache is an IdentityCache backed by Redis, for deployments where
// many instances share the same hot identities. Cache failures degrade to
// misses; they never fail a request.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache on the given client with the given TTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func redisCacheKey(userID string) string {
	return "authn:identity:" + userID
}

// Get returns a cached identity if present.
func (c *RedisCache) Get(ctx context.Context, userID string) (*directory.User, bool) {
	payload, err := c.client.Get(ctx, redisCacheKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}

	var user directory.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, false
	}
	return &user, true
}

// Set stores an identity until its TTL elapses.
func (c *RedisCache) Set(ctx context.Context, userID string, user *directory.User) {
	if user == nil {
		return
	}
	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, redisCacheKey(userID), payload, c.ttl).Err()
}

// Compile-time interface assertions
var (
	_ IdentityCache = (*MemoryCache)(nil)
	_ IdentityCache = (*RedisCache)(nil)
)
