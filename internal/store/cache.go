package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsCachePrefix namespaces cached dashboard summaries; one key per filter
// combination, all dropped together on invalidation.
const StatsCachePrefix = "discipline:stats:"

// Redis holds the client shared by the queue, the stats cache and healthz.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects with tight timeouts: everything stored here is a small
// JSON summary or a queue frame, and a slow redis must degrade to a cache
// miss rather than stall a dashboard request.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// CacheGet returns the cached value for key, or "" when absent or redis is down.
// A cache miss is never an error for the caller.
func (r *Redis) CacheGet(ctx context.Context, key string) string {
	if r == nil || r.Client == nil {
		return ""
	}
	val, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// CacheSet stores a value with a TTL, best effort.
func (r *Redis) CacheSet(ctx context.Context, key, val string, ttl time.Duration) {
	if r == nil || r.Client == nil {
		return
	}
	_ = r.Client.Set(ctx, key, val, ttl).Err()
}

// InvalidateStats deletes every cached stats summary. Called by the worker
// when a new complaint lands so the dashboard converges quickly.
func (r *Redis) InvalidateStats(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return nil
	}
	iter := r.Client.Scan(ctx, 0, StatsCachePrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil && err != redis.Nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}
