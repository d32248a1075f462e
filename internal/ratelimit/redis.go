package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	db *redis.Client
}

func NewRedisStore(db *redis.Client) *RedisStore {
	return &RedisStore{db: db}
}

func (r *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := r.db.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("error incrementing %s: %w", key, err)
	}
	if count == 1 {
		if err := r.db.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("error setting expiry on %s: %w", key, err)
		}
	}
	return count, nil
}

func (r *RedisStore) Attempts(ctx context.Context, key string) (int64, time.Duration, error) {
	count, err := r.db.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, 0, nil
	} else if err != nil {
		return 0, 0, fmt.Errorf("error reading %s: %w", key, err)
	}

	ttl, err := r.db.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("error reading ttl of %s: %w", key, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	return count, ttl, nil
}

func (r *RedisStore) Clear(ctx context.Context, key string) error {
	if err := r.db.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("error clearing %s: %w", key, err)
	}
	return nil
}
