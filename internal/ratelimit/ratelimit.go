// Package ratelimit counts attempts per key inside a fixed window. A key is
// locked once its attempts reach the maximum and stays locked until the window
// that started with its first attempt expires.
package ratelimit

import (
	"context"
	"time"
)

type Store interface {
	// Hit increments the counter for key, starting a window of the given
	// length if none is open, and returns the new count.
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
	// Attempts returns the current count and the time left in the window.
	Attempts(ctx context.Context, key string) (int64, time.Duration, error)
	Clear(ctx context.Context, key string) error
}

type Limiter struct {
	store  Store
	prefix string
	max    int64
	window time.Duration
}

func NewLimiter(store Store, prefix string, maxAttempts int, window time.Duration) *Limiter {
	return &Limiter{
		store:  store,
		prefix: prefix,
		max:    int64(maxAttempts),
		window: window,
	}
}

func (l *Limiter) key(id string) string {
	return l.prefix + ":" + id
}

// Allow reports whether id may try again; when it may not, retryAfter is the
// time until the window closes.
func (l *Limiter) Allow(ctx context.Context, id string) (bool, time.Duration, error) {
	count, ttl, err := l.store.Attempts(ctx, l.key(id))
	if err != nil {
		return false, 0, err
	}
	if count >= l.max {
		return false, ttl, nil
	}
	return true, 0, nil
}

func (l *Limiter) Hit(ctx context.Context, id string) error {
	_, err := l.store.Hit(ctx, l.key(id), l.window)
	return err
}

func (l *Limiter) Clear(ctx context.Context, id string) error {
	return l.store.Clear(ctx, l.key(id))
}
