package optimizer

import (
	"sync"
	"time"

	"github.com/velofit/studio-optimizer/pkg/core/model"
)

// DefaultCacheTTL is how long derived schedule slots stay trustworthy
// without revalidation.
const DefaultCacheTTL = 60 * time.Second

// SlotCache is a read-through cache for schedule-derived slot aggregates.
// An entry is valid only while it is younger than the TTL AND no external
// invalidation has happened since it was stored; schedule edits elsewhere
// (e.g. drag-and-drop) call Invalidate to bump the generation.
type SlotCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	now        func() time.Time
	generation uint64
	entries    map[string]slotCacheEntry
}

type slotCacheEntry struct {
	slots      []model.ScheduleSlot
	storedAt   time.Time
	generation uint64
}

// NewSlotCache creates a cache with the given TTL. now is injectable for
// tests; pass nil for time.Now.
func NewSlotCache(ttl time.Duration, now func() time.Time) *SlotCache {
	if now == nil {
		now = time.Now
	}
	return &SlotCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]slotCacheEntry),
	}
}

// Get returns the cached slots for key, or false if absent, expired, or
// invalidated.
func (c *SlotCache) Get(key string) ([]model.ScheduleSlot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if entry.generation != c.generation {
		delete(c.entries, key)
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.slots, true
}

// Put stores slots under key at the current generation.
func (c *SlotCache) Put(key string, slots []model.ScheduleSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = slotCacheEntry{
		slots:      slots,
		storedAt:   c.now(),
		generation: c.generation,
	}
}

// Invalidate discards every cached entry by bumping the generation.
func (c *SlotCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
}
