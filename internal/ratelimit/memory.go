package ratelimit

import (
	"context"
	"sync"
	"time"
)

type attemptInfo struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore keeps counters in process memory. Used when no redis is
// configured; counters are not shared between instances.
type MemoryStore struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		attempts: make(map[string]*attemptInfo),
		now:      time.Now,
	}
}

// live returns the entry for key, dropping it first if its window has closed.
// Callers hold mu.
func (m *MemoryStore) live(key string) *attemptInfo {
	info, ok := m.attempts[key]
	if !ok {
		return nil
	}
	if !m.now().Before(info.expiresAt) {
		delete(m.attempts, key)
		return nil
	}
	return info
}

func (m *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := m.live(key)
	if info == nil {
		info = &attemptInfo{expiresAt: m.now().Add(window)}
		m.attempts[key] = info
	}
	info.count++
	return info.count, nil
}

func (m *MemoryStore) Attempts(_ context.Context, key string) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info := m.live(key)
	if info == nil {
		return 0, 0, nil
	}
	return info.count, info.expiresAt.Sub(m.now()), nil
}

func (m *MemoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.attempts, key)
	return nil
}
