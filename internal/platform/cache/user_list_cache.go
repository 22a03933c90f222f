// Package cache provides caching implementations for usecase interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"registration_backend/internal/feature/registration/domain/entity"
	"registration_backend/internal/feature/registration/usecase"
)

// UserListCache keeps the user listing in Redis.
// Listings are stored under "<namespace>:all:<gen>", where gen is the counter at "<namespace>:gen".
// Invalidate increments the counter, so a listing read before a write is written under a generation
// nobody reads anymore and simply expires.
// A nil client turns every method into a no-op so the listing always falls through to the store.
type UserListCache struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UserListCache = (*UserListCache)(nil)

// NewUserListCache creates a UserListCache.
// If ttl is 0, it defaults to 1 minute. If namespace is empty, it uses "users".
func NewUserListCache(rdb *redis.Client, ttl time.Duration, namespace string) *UserListCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &UserListCache{
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Get returns the listing cached for the current generation, if any.
func (c *UserListCache) Get(ctx context.Context) ([]entity.User, int64, bool) {
	if c.rdb == nil {
		return nil, -1, false
	}

	gen, err := c.generation(ctx)
	if err != nil {
		slog.Warn("failed to read user list generation", "error", err)
		return nil, -1, false
	}

	key := c.listKey(gen)
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return nil, gen, false
	}

	var users []entity.User
	if err := json.Unmarshal(b, &users); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return nil, gen, false
	}
	return users, gen, true
}

// Set stores the listing for gen (best effort). A negative gen is ignored.
func (c *UserListCache) Set(ctx context.Context, gen int64, users []entity.User) {
	if c.rdb == nil || gen < 0 {
		return
	}
	b, err := json.Marshal(users)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.listKey(gen), b, c.ttl).Err(); err != nil {
		slog.Warn("failed to cache user list", "error", err)
	}
}

// Invalidate advances the generation after a write.
func (c *UserListCache) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Incr(ctx, c.genKey()).Err(); err != nil {
		slog.Error("failed to invalidate user list cache", "error", err, "stale_for_at_most", c.ttl)
	}
}

// generation reads the current counter; a missing counter is generation 0.
func (c *UserListCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *UserListCache) genKey() string {
	return safe(c.namespace) + ":gen"
}

func (c *UserListCache) listKey(gen int64) string {
	return safe(c.namespace) + ":all:" + strconv.FormatInt(gen, 10)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
