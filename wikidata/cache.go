package wikidata

import (
	"sync"
	"time"

	"yashubustudio/entitylinker/entitylinker"
)

// DefaultCacheTTL is the default time-to-live for cached records.
const DefaultCacheTTL = 1 * time.Hour

type cacheEntry struct {
	record    *entitylinker.Record
	expiresAt time.Time
}

// RecordCache is a thread-safe in-memory TTL cache for fetched records.
// Filtering and projection both fetch the same ids repeatedly within a
// document, so even a short TTL saves most round trips. Entries expire
// lazily on access.
type RecordCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

// NewRecordCache creates a cache with the given TTL.
func NewRecordCache(ttl time.Duration) *RecordCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RecordCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached record for id, or false when absent or expired.
func (c *RecordCache) Get(id string) (*entitylinker.Record, bool) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[id]; still && time.Now().After(current.expiresAt) {
			delete(c.entries, id)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.record, true
}

// Set stores a record under id with the configured TTL.
func (c *RecordCache) Set(id string, record *entitylinker.Record) {
	c.mu.Lock()
	c.entries[id] = cacheEntry{record: record, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Len reports the number of entries, including not-yet-expired ones.
func (c *RecordCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
