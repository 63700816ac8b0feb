package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryCache is the in-process Cache backend used when
// config.Config.CacheBackend is "memory" (local development, tests).
// Grounded on the mutex-guarded-map shape already used by tests/mocks.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	counters
}

// NewMemory constructs an empty in-process cache.
func NewMemory() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (m *MemoryCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || (!entry.expires.IsZero() && time.Now().After(entry.expires)) {
		m.miss()
		return false, nil
	}
	if err := decode(entry.data, dest); err != nil {
		return false, err
	}
	m.hit()
	return true, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := encode(value)
	if err != nil {
		return err
	}
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{data: raw, expires: expires}
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) InvalidatePattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if matched, _ := path.Match(pattern, key); matched {
			delete(m.entries, key)
		}
	}
	return nil
}

func (m *MemoryCache) Stats() Stats { return m.snapshot() }

func (m *MemoryCache) Health(ctx context.Context) error { return nil }

func (m *MemoryCache) Close() error { return nil }
