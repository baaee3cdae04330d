package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is one cache tier. Entries expire on their own TTL; Get reports a
// miss for expired or absent keys.
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Flush()
	ItemCount() int
}

// MemoryStore is an in-process Store backed by go-cache.
type MemoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore creates a memory store. defaultTTL applies when Set is
// called with a zero TTL; cleanupInterval drives the background janitor.
func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{c: gocache.New(defaultTTL, cleanupInterval)}
}

func (m *MemoryStore) Get(key string) (interface{}, bool) {
	return m.c.Get(key)
}

func (m *MemoryStore) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, value, ttl)
}

func (m *MemoryStore) Delete(key string) {
	m.c.Delete(key)
}

func (m *MemoryStore) Flush() {
	m.c.Flush()
}

func (m *MemoryStore) ItemCount() int {
	return m.c.ItemCount()
}
