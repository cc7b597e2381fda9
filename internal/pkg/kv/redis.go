package kv

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	pkgredis "github.com/vidsum/core/internal/pkg/redis"
)

// Redis is a Store over a shared Redis connection. Used for the summary
// cache partition when a Redis URL is configured, so cached summaries
// survive daemon restarts.
type Redis struct {
	rc *pkgredis.Client
}

// NewRedis wraps an established connection as a Store.
func NewRedis(rc *pkgredis.Client) *Redis {
	return &Redis{rc: rc}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.rc.Raw().Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.rc.Raw().Set(ctx, key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rc.Raw().Del(ctx, key).Err()
}

func (r *Redis) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := r.rc.Raw().Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}
