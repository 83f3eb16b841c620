package lens

// CacheConfig selects the cache behavior of a CachedTransformer.
// The zero value means DefaultCacheSize with caching enabled.
type CacheConfig struct {
	// MaxSize is the per-direction entry capacity. Zero or negative selects
	// DefaultCacheSize.
	MaxSize int
	// Disabled starts the transformer with caching off. It can be toggled
	// later with SetCacheEnabled.
	Disabled bool
}

// CachedTransformer layers a TransformCache over a CameraTransformer. It
// preserves the CameraTransformer contract exactly: for any state and input
// the two produce identical results, the cached variant just avoids
// recomputing repeated transforms. Any setter that changes camera offset,
// zoom, or screen size clears the cache before returning, so a stale result
// can never be observed against new state.
//
// Non-finite inputs and magnitudes past the quantizable range bypass the
// cache entirely and go straight to the math.
type CachedTransformer struct {
	base  *CameraTransformer
	cache *TransformCache
}

// NewCachedTransformer creates a caching transformer for the given screen
// size and zoom level.
func NewCachedTransformer(screenSize Vec2, zoom float64, cfg CacheConfig) *CachedTransformer {
	cache := NewTransformCache(cfg.MaxSize)
	if cfg.Disabled {
		cache.SetEnabled(false)
	}
	return &CachedTransformer{
		base:  NewCameraTransformer(screenSize, zoom),
		cache: cache,
	}
}

// WorldToScreen converts a world position to screen pixels, consulting the
// cache first.
func (t *CachedTransformer) WorldToScreen(p Vec2) Vec2 {
	if !t.cache.enabled || !cacheableInput(p) {
		return t.base.WorldToScreen(p)
	}
	offset, zoom, screen := t.base.offset, t.base.zoom, t.base.screenSize
	if cached, ok := t.cache.GetWorldToScreen(p, offset, zoom, screen); ok {
		return cached
	}
	result := t.base.WorldToScreen(p)
	t.cache.PutWorldToScreen(p, offset, zoom, screen, result)
	return result
}

// ScreenToWorld converts a screen position back to world space, consulting
// the inverse cache first.
func (t *CachedTransformer) ScreenToWorld(p Vec2) Vec2 {
	if !t.cache.enabled || !cacheableInput(p) {
		return t.base.ScreenToWorld(p)
	}
	offset, zoom, screen := t.base.offset, t.base.zoom, t.base.screenSize
	if cached, ok := t.cache.GetScreenToWorld(p, offset, zoom, screen); ok {
		return cached
	}
	result := t.base.ScreenToWorld(p)
	t.cache.PutScreenToWorld(p, offset, zoom, screen, result)
	return result
}

// CameraOffset returns the current camera offset.
func (t *CachedTransformer) CameraOffset() Vec2 {
	return t.base.CameraOffset()
}

// SetCameraOffset replaces the camera offset and clears the cache if the
// value changed.
func (t *CachedTransformer) SetCameraOffset(offset Vec2) {
	if t.base.offset == offset {
		return
	}
	t.base.SetCameraOffset(offset)
	t.cache.Clear()
}

// Zoom returns the current zoom level.
func (t *CachedTransformer) Zoom() float64 {
	return t.base.Zoom()
}

// SetZoom sets the zoom level and clears the cache if the clamped value
// differs from the current one.
func (t *CachedTransformer) SetZoom(zoom float64) {
	prev := t.base.zoom
	t.base.SetZoom(zoom)
	if t.base.zoom != prev {
		t.cache.Clear()
	}
}

// ScreenSize returns the current screen dimensions.
func (t *CachedTransformer) ScreenSize() Vec2 {
	return t.base.ScreenSize()
}

// SetScreenSize replaces the screen dimensions and clears the cache if the
// value changed.
func (t *CachedTransformer) SetScreenSize(size Vec2) {
	if t.base.screenSize == size {
		return
	}
	t.base.SetScreenSize(size)
	t.cache.Clear()
}

// ScreenCenter returns the screen-space center point.
func (t *CachedTransformer) ScreenCenter() Vec2 {
	return t.base.ScreenCenter()
}

// InvalidateCache discards the derived matrices and all memoized results.
func (t *CachedTransformer) InvalidateCache() {
	t.base.InvalidateCache()
	t.cache.Clear()
}

// TransformMultiple converts a batch of world positions to screen
// positions. Cached inputs are served from the cache; the rest are
// batch-computed through the underlying transformer and stored. Output
// order always matches input order exactly, regardless of the hit/miss mix.
func (t *CachedTransformer) TransformMultiple(points []Vec2) []Vec2 {
	if len(points) == 0 {
		return nil
	}
	if !t.cache.enabled {
		return t.base.TransformMultiple(points)
	}

	offset, zoom, screen := t.base.offset, t.base.zoom, t.base.screenSize
	out := make([]Vec2, len(points))

	var missed []Vec2
	var missedIdx []int
	for i, p := range points {
		if !cacheableInput(p) {
			out[i] = t.base.WorldToScreen(p)
			continue
		}
		if cached, ok := t.cache.GetWorldToScreen(p, offset, zoom, screen); ok {
			out[i] = cached
			continue
		}
		missed = append(missed, p)
		missedIdx = append(missedIdx, i)
	}

	if len(missed) > 0 {
		computed := t.base.TransformMultiple(missed)
		for j, result := range computed {
			out[missedIdx[j]] = result
			t.cache.PutWorldToScreen(missed[j], offset, zoom, screen, result)
		}
	}
	return out
}

// IsPointVisible reports whether the world position lands within the screen
// extended by margin pixels, using the cached forward transform.
func (t *CachedTransformer) IsPointVisible(worldPos Vec2, margin float64) bool {
	s := t.WorldToScreen(worldPos)
	size := t.base.screenSize
	return s.X >= -margin && s.X <= size.X+margin &&
		s.Y >= -margin && s.Y <= size.Y+margin
}

// VisibleWorldBounds returns the world-space rectangle currently visible.
func (t *CachedTransformer) VisibleWorldBounds() Rect {
	return t.base.VisibleWorldBounds()
}

// SetCacheEnabled toggles result memoization. Disabling clears the cache.
func (t *CachedTransformer) SetCacheEnabled(enabled bool) {
	t.cache.SetEnabled(enabled)
}

// CacheEnabled reports whether result memoization is active.
func (t *CachedTransformer) CacheEnabled() bool {
	return t.cache.Enabled()
}

// ResizeCache changes the per-direction cache capacity. A capacity below 1
// falls back to DefaultCacheSize.
func (t *CachedTransformer) ResizeCache(maxSize int) {
	t.cache.Resize(maxSize)
}

// CacheStats returns a snapshot of the cache counters.
func (t *CachedTransformer) CacheStats() CombinedCacheStats {
	return t.cache.Stats()
}

// ResetCacheStats zeroes the cache counters without dropping entries.
func (t *CachedTransformer) ResetCacheStats() {
	t.cache.ResetStats()
}
