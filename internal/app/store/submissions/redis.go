// internal/app/store/submissions/redis.go
package submissions

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTracker keeps one key per (form, client) holding the unix-millisecond
// time of the last submission. Keys expire after ttl.
type RedisTracker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects to redisURL and verifies the connection.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*RedisTracker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisWithClient(client, ttl), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *RedisTracker {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisTracker{client: client, prefix: "ddsite:submit:", ttl: ttl}
}

func (r *RedisTracker) key(form, client string) string {
	return r.prefix + form + ":" + client
}

func (r *RedisTracker) Last(ctx context.Context, form, client string) (time.Time, error) {
	v, err := r.client.Get(ctx, r.key(form, client)).Result()
	if err == redis.Nil {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("lookup last submission: %w", err)
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse last submission %q: %w", v, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

func (r *RedisTracker) Record(ctx context.Context, form, client string, at time.Time) error {
	if err := r.client.Set(ctx, r.key(form, client), at.UnixMilli(), r.ttl).Err(); err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// Ping checks if Redis is reachable.
func (r *RedisTracker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *RedisTracker) Close() error {
	return r.client.Close()
}
