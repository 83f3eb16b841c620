package lens

import (
	"container/list"
	"math"
)

// cacheQuantum is the quantization step for cache keys. Inputs closer than
// half a step quantize to the same key, so calls differing only in
// floating-point noise share one entry. The quantized value is used for
// both map hashing and equality, so the two cannot disagree.
const cacheQuantum = 0.001

// maxQuantizable is the largest magnitude that still quantizes into a
// distinct int64 bucket: 9e15 / cacheQuantum = 9e18, inside the int64
// range. Inputs beyond it saturate into shared sentinel buckets, so
// CachedTransformer bypasses the cache for them (see cacheableInput).
const maxQuantizable = 9e15

// quantize rounds v to the nearest cacheQuantum step as an integer. NaN,
// ±Inf, and magnitudes past maxQuantizable saturate into sentinel buckets
// that cannot collide with in-range coordinates.
func quantize(v float64) int64 {
	q := math.Round(v / cacheQuantum)
	switch {
	case math.IsNaN(q):
		return math.MaxInt64
	case q >= math.MaxInt64:
		return math.MaxInt64 - 1
	case q <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(q)
	}
}

// cacheableInput reports whether p can participate in a cache key: both
// components finite and within the quantizable range. NaN compares false,
// so non-finite values fail the bounds check.
func cacheableInput(p Vec2) bool {
	return math.Abs(p.X) <= maxQuantizable && math.Abs(p.Y) <= maxQuantizable
}

// cacheKey identifies one transform call: the input point plus the full
// transformer state it was evaluated under. Comparable, so it works
// directly as a map key.
type cacheKey struct {
	px, py int64
	ox, oy int64
	zoom   int64
	sw, sh int64
}

func makeCacheKey(p, offset Vec2, zoom float64, screen Vec2) cacheKey {
	return cacheKey{
		px:   quantize(p.X),
		py:   quantize(p.Y),
		ox:   quantize(offset.X),
		oy:   quantize(offset.Y),
		zoom: quantize(zoom),
		sw:   quantize(screen.X),
		sh:   quantize(screen.Y),
	}
}

// CacheStats reports the counters for one cache direction. Counters only
// grow until ResetStats is called.
type CacheStats struct {
	Hits        int
	Misses      int
	Evictions   int
	CurrentSize int
	MaxSize     int
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// add returns the element-wise sum of two stat sets.
func (s CacheStats) add(o CacheStats) CacheStats {
	return CacheStats{
		Hits:        s.Hits + o.Hits,
		Misses:      s.Misses + o.Misses,
		Evictions:   s.Evictions + o.Evictions,
		CurrentSize: s.CurrentSize + o.CurrentSize,
		MaxSize:     s.MaxSize + o.MaxSize,
	}
}

// CombinedCacheStats reports both directions of a TransformCache plus
// whether it is currently enabled.
type CombinedCacheStats struct {
	Enabled       bool
	WorldToScreen CacheStats
	ScreenToWorld CacheStats
}

// Total returns both directions summed.
func (s CombinedCacheStats) Total() CacheStats {
	return s.WorldToScreen.add(s.ScreenToWorld)
}

// lruEntry is one cached transform result.
type lruEntry struct {
	key   cacheKey
	value Vec2
}

// lruCache is a bounded least-recently-used map from cacheKey to Vec2.
// Front of the list is most recently used.
type lruCache struct {
	entries map[cacheKey]*list.Element
	order   *list.List
	maxSize int
	stats   CacheStats
}

func newLRUCache(maxSize int) *lruCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &lruCache{
		entries: make(map[cacheKey]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		stats:   CacheStats{MaxSize: maxSize},
	}
}

// get looks up key and refreshes its recency on a hit.
func (c *lruCache) get(key cacheKey) (Vec2, bool) {
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		c.stats.Hits++
		return el.Value.(*lruEntry).value, true
	}
	c.stats.Misses++
	return Vec2{}, false
}

// put inserts or updates key. Updating a live key refreshes recency without
// growing occupancy. Insertion at capacity evicts the least-recently-used
// entry first.
func (c *lruCache) put(key cacheKey, value Vec2) {
	if el, ok := c.entries[key]; ok {
		el.Value.(*lruEntry).value = value
		c.order.MoveToFront(el)
		return
	}
	if c.order.Len() >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = c.order.PushFront(&lruEntry{key: key, value: value})
	c.stats.CurrentSize = c.order.Len()
}

func (c *lruCache) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.order.Remove(oldest)
	delete(c.entries, oldest.Value.(*lruEntry).key)
	c.stats.Evictions++
	c.stats.CurrentSize = c.order.Len()
}

func (c *lruCache) clear() {
	c.entries = make(map[cacheKey]*list.Element)
	c.order.Init()
	c.stats.CurrentSize = 0
}

// resize changes the capacity, evicting oldest entries (counted as
// evictions) if the cache is over the new limit.
func (c *lruCache) resize(maxSize int) {
	if maxSize < 1 {
		maxSize = 1
	}
	c.maxSize = maxSize
	c.stats.MaxSize = maxSize
	for c.order.Len() > maxSize {
		c.evictOldest()
	}
}

func (c *lruCache) snapshot() CacheStats {
	s := c.stats
	s.CurrentSize = c.order.Len()
	return s
}

func (c *lruCache) resetStats() {
	size := c.order.Len()
	c.stats = CacheStats{MaxSize: c.maxSize, CurrentSize: size}
}

// DefaultCacheSize is the per-direction capacity used when a CacheConfig
// does not specify one.
const DefaultCacheSize = 1000

// TransformCache memoizes transform results in two independent LRU caches,
// one per direction, keyed by the input point and the full transformer
// state. Not safe for concurrent use on its own.
type TransformCache struct {
	worldToScreen *lruCache
	screenToWorld *lruCache
	enabled       bool
}

// NewTransformCache creates a cache with the given per-direction capacity.
// A capacity below 1 falls back to DefaultCacheSize.
func NewTransformCache(maxSize int) *TransformCache {
	if maxSize < 1 {
		maxSize = DefaultCacheSize
	}
	return &TransformCache{
		worldToScreen: newLRUCache(maxSize),
		screenToWorld: newLRUCache(maxSize),
		enabled:       true,
	}
}

// GetWorldToScreen looks up a cached forward transform for the given input
// and state. Always misses while the cache is disabled.
func (c *TransformCache) GetWorldToScreen(p, offset Vec2, zoom float64, screen Vec2) (Vec2, bool) {
	if !c.enabled {
		return Vec2{}, false
	}
	return c.worldToScreen.get(makeCacheKey(p, offset, zoom, screen))
}

// PutWorldToScreen stores a forward transform result. Dropped while disabled.
func (c *TransformCache) PutWorldToScreen(p, offset Vec2, zoom float64, screen, result Vec2) {
	if !c.enabled {
		return
	}
	c.worldToScreen.put(makeCacheKey(p, offset, zoom, screen), result)
}

// GetScreenToWorld looks up a cached inverse transform.
func (c *TransformCache) GetScreenToWorld(p, offset Vec2, zoom float64, screen Vec2) (Vec2, bool) {
	if !c.enabled {
		return Vec2{}, false
	}
	return c.screenToWorld.get(makeCacheKey(p, offset, zoom, screen))
}

// PutScreenToWorld stores an inverse transform result. Dropped while disabled.
func (c *TransformCache) PutScreenToWorld(p, offset Vec2, zoom float64, screen, result Vec2) {
	if !c.enabled {
		return
	}
	c.screenToWorld.put(makeCacheKey(p, offset, zoom, screen), result)
}

// Clear drops all entries in both directions. Statistics counters are kept.
func (c *TransformCache) Clear() {
	c.worldToScreen.clear()
	c.screenToWorld.clear()
}

// SetEnabled toggles the cache. Disabling clears both directions
// immediately; subsequent lookups miss without storing until re-enabled.
func (c *TransformCache) SetEnabled(enabled bool) {
	c.enabled = enabled
	if !enabled {
		c.Clear()
	}
}

// Enabled reports whether the cache is currently active.
func (c *TransformCache) Enabled() bool {
	return c.enabled
}

// Resize changes the per-direction capacity. A capacity below 1 falls back
// to DefaultCacheSize, matching NewTransformCache. Shrinking below current
// occupancy evicts oldest entries, counting each as an eviction.
func (c *TransformCache) Resize(maxSize int) {
	if maxSize < 1 {
		maxSize = DefaultCacheSize
	}
	c.worldToScreen.resize(maxSize)
	c.screenToWorld.resize(maxSize)
}

// Stats returns a snapshot of both directions' counters.
func (c *TransformCache) Stats() CombinedCacheStats {
	return CombinedCacheStats{
		Enabled:       c.enabled,
		WorldToScreen: c.worldToScreen.snapshot(),
		ScreenToWorld: c.screenToWorld.snapshot(),
	}
}

// ResetStats zeroes the hit/miss/eviction counters in both directions.
// Entries are kept.
func (c *TransformCache) ResetStats() {
	c.worldToScreen.resetStats()
	c.screenToWorld.resetStats()
}
