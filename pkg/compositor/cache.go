package compositor

import (
	"image"
	"math"
	"sync"
	"sync/atomic"

	"github.com/dshills/traitforge/pkg/model"
)

// defaultCacheFrames is the number of output_size-sized frames the decode
// cache can hold by default, per the engine's default capacity contract.
const defaultCacheFrames = 64

type cacheEntry struct {
	img      image.Image
	pixels   int64
	lastUsed int64
}

// decodeCache is an LRU of decoded trait images bounded by total decoded
// pixel count. Lookups take a shared lock and never block each other;
// recency is tracked with an atomic counter so a hit does not require
// upgrading to an exclusive lock. Inserts (and the eviction they may
// trigger) take the exclusive lock.
type decodeCache struct {
	mu sync.RWMutex

	maxPixels  int64
	usedPixels int64
	entries    map[model.TraitId]*cacheEntry

	clock int64
}

func newDecodeCache(maxPixels int64) *decodeCache {
	return &decodeCache{
		maxPixels: maxPixels,
		entries:   make(map[model.TraitId]*cacheEntry),
	}
}

func (c *decodeCache) get(id model.TraitId) (image.Image, bool) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	atomic.StoreInt64(&e.lastUsed, atomic.AddInt64(&c.clock, 1))
	return e.img, true
}

func (c *decodeCache) put(id model.TraitId, img image.Image, pixels int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[id]; exists {
		return
	}
	for c.usedPixels+pixels > c.maxPixels && len(c.entries) > 0 {
		c.evictOldestLocked()
	}

	c.entries[id] = &cacheEntry{
		img:      img,
		pixels:   pixels,
		lastUsed: atomic.AddInt64(&c.clock, 1),
	}
	c.usedPixels += pixels
}

func (c *decodeCache) evictOldestLocked() {
	var oldestID model.TraitId
	oldestTime := int64(math.MaxInt64)
	found := false
	for id, e := range c.entries {
		t := atomic.LoadInt64(&e.lastUsed)
		if !found || t < oldestTime {
			oldestTime = t
			oldestID = id
			found = true
		}
	}
	if !found {
		return
	}
	c.usedPixels -= c.entries[oldestID].pixels
	delete(c.entries, oldestID)
}
