package lens

import (
	"math"
	"testing"
)

func newTestCached() *CachedTransformer {
	return NewCachedTransformer(V(800, 600), 1.0, CacheConfig{})
}

func TestCachedMatchesPlain(t *testing.T) {
	cached := newTestCached()
	plain := NewCameraTransformer(V(800, 600), 1.0)

	points := []Vec2{V(0, 0), V(100, 100), V(-50, 25), V(0, 0), V(100, 100)}

	// Identical call sequences with interleaved state mutations must produce
	// pairwise-identical results.
	mutate := func(tf Transformer) {
		tf.SetCameraOffset(V(50, 30))
		tf.SetZoom(2.0)
	}

	for _, p := range points {
		a, b := cached.WorldToScreen(p), plain.WorldToScreen(p)
		if !vecApproxEqual(a, b, epsilon) {
			t.Errorf("pre-mutation: cached %v != plain %v for %v", a, b, p)
		}
	}
	mutate(cached)
	mutate(plain)
	for _, p := range points {
		a, b := cached.WorldToScreen(p), plain.WorldToScreen(p)
		if !vecApproxEqual(a, b, epsilon) {
			t.Errorf("post-mutation: cached %v != plain %v for %v", a, b, p)
		}
		ia, ib := cached.ScreenToWorld(p), plain.ScreenToWorld(p)
		if !vecApproxEqual(ia, ib, epsilon) {
			t.Errorf("inverse: cached %v != plain %v for %v", ia, ib, p)
		}
	}
}

func TestCachedSecondCallHits(t *testing.T) {
	tr := newTestCached()

	tr.WorldToScreen(V(10, 20))
	tr.WorldToScreen(V(10, 20))
	stats := tr.CacheStats().WorldToScreen
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %d hits / %d misses, want 1/1", stats.Hits, stats.Misses)
	}

	tr.ScreenToWorld(V(400, 300))
	tr.ScreenToWorld(V(400, 300))
	stats = tr.CacheStats().ScreenToWorld
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("inverse stats = %d hits / %d misses, want 1/1", stats.Hits, stats.Misses)
	}
}

func TestCachedInvalidationOnOffsetChange(t *testing.T) {
	tr := newTestCached()

	got := tr.WorldToScreen(V(0, 0))
	if !vecApproxEqual(got, V(400, 300), epsilon) {
		t.Fatalf("initial = %v, want (400,300)", got)
	}

	tr.SetCameraOffset(V(50, 30))
	got = tr.WorldToScreen(V(0, 0))
	if !vecApproxEqual(got, V(450, 330), epsilon) {
		t.Errorf("after offset change = %v, want (450,330); stale cache?", got)
	}
	if size := tr.CacheStats().ScreenToWorld.CurrentSize; size != 0 {
		t.Errorf("inverse cache size after invalidation = %d, want 0", size)
	}
}

func TestCachedInvalidationOnZoomChange(t *testing.T) {
	tr := newTestCached()
	before := tr.WorldToScreen(V(100, 100))

	tr.SetZoom(2.0)
	after := tr.WorldToScreen(V(100, 100))
	if vecApproxEqual(before, after, epsilon) {
		t.Errorf("zoom change returned stale result %v", after)
	}
	want := NewCameraTransformer(V(800, 600), 2.0).WorldToScreen(V(100, 100))
	if !vecApproxEqual(after, want, epsilon) {
		t.Errorf("after zoom = %v, want %v", after, want)
	}
}

func TestCachedInvalidationOnScreenSizeChange(t *testing.T) {
	tr := newTestCached()
	tr.WorldToScreen(V(0, 0))

	tr.SetScreenSize(V(1024, 768))
	got := tr.WorldToScreen(V(0, 0))
	if !vecApproxEqual(got, V(512, 384), epsilon) {
		t.Errorf("after resize = %v, want (512,384)", got)
	}
}

func TestCachedRedundantSetterKeepsCache(t *testing.T) {
	tr := newTestCached()
	tr.WorldToScreen(V(1, 2))

	tr.SetCameraOffset(V(0, 0)) // unchanged
	tr.SetZoom(1.0)             // unchanged
	tr.SetZoom(-3)              // clamps to MinZoom: a real change
	tr.SetZoom(0.05)            // clamps to MinZoom again: no change

	if size := tr.CacheStats().WorldToScreen.CurrentSize; size != 0 {
		t.Errorf("cache size after effective zoom change = %d, want 0", size)
	}

	tr.WorldToScreen(V(1, 2))
	tr.SetCameraOffset(V(0, 0)) // still unchanged
	if size := tr.CacheStats().WorldToScreen.CurrentSize; size != 1 {
		t.Errorf("redundant setter dropped cache, size = %d, want 1", size)
	}
}

func TestCachedExplicitInvalidate(t *testing.T) {
	tr := newTestCached()
	tr.WorldToScreen(V(1, 2))

	tr.InvalidateCache()
	if size := tr.CacheStats().Total().CurrentSize; size != 0 {
		t.Errorf("cache size after InvalidateCache = %d, want 0", size)
	}
}

func TestCachedTransformMultipleOrder(t *testing.T) {
	tr := newTestCached()
	points := []Vec2{V(3, 3), V(1, 1), V(2, 2), V(1, 1), V(4, 4)}

	// Warm the cache for a subset so the batch mixes hits and misses.
	tr.WorldToScreen(V(1, 1))
	tr.WorldToScreen(V(4, 4))

	got := tr.TransformMultiple(points)
	plain := NewCameraTransformer(V(800, 600), 1.0)
	want := plain.TransformMultiple(points)

	if len(got) != len(want) {
		t.Fatalf("batch length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !vecApproxEqual(got[i], want[i], epsilon) {
			t.Errorf("batch[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCachedTransformMultipleStoresMisses(t *testing.T) {
	tr := newTestCached()
	tr.TransformMultiple([]Vec2{V(1, 1), V(2, 2)})

	stats := tr.CacheStats().WorldToScreen
	if stats.CurrentSize != 2 {
		t.Errorf("cache size after batch = %d, want 2", stats.CurrentSize)
	}
	// The whole batch now hits.
	tr.TransformMultiple([]Vec2{V(1, 1), V(2, 2)})
	stats = tr.CacheStats().WorldToScreen
	if stats.Hits != 2 {
		t.Errorf("hits after repeat batch = %d, want 2", stats.Hits)
	}
}

func TestCachedDisabledDelegates(t *testing.T) {
	tr := NewCachedTransformer(V(800, 600), 1.0, CacheConfig{Disabled: true})
	if tr.CacheEnabled() {
		t.Fatal("cache enabled despite Disabled config")
	}

	tr.WorldToScreen(V(1, 1))
	tr.WorldToScreen(V(1, 1))
	stats := tr.CacheStats().WorldToScreen
	if stats.Hits != 0 || stats.CurrentSize != 0 {
		t.Errorf("disabled cache recorded hits=%d size=%d", stats.Hits, stats.CurrentSize)
	}

	tr.SetCacheEnabled(true)
	tr.WorldToScreen(V(1, 1))
	tr.WorldToScreen(V(1, 1))
	if tr.CacheStats().WorldToScreen.Hits != 1 {
		t.Error("re-enabled cache did not serve hits")
	}
}

func TestCachedNonFiniteBypassesCache(t *testing.T) {
	tr := newTestCached()

	got := tr.WorldToScreen(V(math.NaN(), 0))
	if !math.IsNaN(got.X) {
		t.Errorf("NaN input = %v, want NaN x", got)
	}
	if size := tr.CacheStats().WorldToScreen.CurrentSize; size != 0 {
		t.Errorf("non-finite input was cached, size = %d", size)
	}

	got2 := tr.TransformMultiple([]Vec2{V(0, 0), V(math.Inf(1), 0)})
	if !math.IsInf(got2[1].X, 1) {
		t.Errorf("batch Inf input = %v, want +Inf x", got2[1])
	}
}

func TestCachedHugeMagnitudeBypassesCache(t *testing.T) {
	cached := newTestCached()
	plain := NewCameraTransformer(V(800, 600), 1.0)

	// Coordinates this large would overflow the quantized key space, so
	// distinct points must not be served from one another's entries.
	a, b := V(1e17, 0), V(2e17, 0)
	if got, want := cached.WorldToScreen(a), plain.WorldToScreen(a); !vecApproxEqual(got, want, epsilon) {
		t.Errorf("WorldToScreen(%v) = %v, want %v", a, got, want)
	}
	if got, want := cached.WorldToScreen(b), plain.WorldToScreen(b); !vecApproxEqual(got, want, epsilon) {
		t.Errorf("WorldToScreen(%v) = %v, want %v", b, got, want)
	}
	if size := cached.CacheStats().WorldToScreen.CurrentSize; size != 0 {
		t.Errorf("out-of-range input was cached, size = %d", size)
	}

	batch := cached.TransformMultiple([]Vec2{a, b})
	if !vecApproxEqual(batch[0], plain.WorldToScreen(a), epsilon) || !vecApproxEqual(batch[1], plain.WorldToScreen(b), epsilon) {
		t.Errorf("batch out-of-range results = %v", batch)
	}
}

func TestCachedResize(t *testing.T) {
	tr := newTestCached()
	for i := 0; i < 10; i++ {
		tr.WorldToScreen(V(float64(i), 0))
	}

	tr.ResizeCache(3)
	stats := tr.CacheStats().WorldToScreen
	if stats.CurrentSize != 3 {
		t.Errorf("size after resize = %d, want 3", stats.CurrentSize)
	}
	if stats.Evictions != 7 {
		t.Errorf("evictions after resize = %d, want 7", stats.Evictions)
	}
}

func TestCachedResetStats(t *testing.T) {
	tr := newTestCached()
	tr.WorldToScreen(V(1, 1))
	tr.WorldToScreen(V(1, 1))

	tr.ResetCacheStats()
	stats := tr.CacheStats().WorldToScreen
	if stats.Hits != 0 || stats.Misses != 0 {
		t.Errorf("counters after reset = %+v", stats)
	}
	// Entries survive a stats reset.
	tr.WorldToScreen(V(1, 1))
	if tr.CacheStats().WorldToScreen.Hits != 1 {
		t.Error("entry lost across stats reset")
	}
}

func TestCachedVisibility(t *testing.T) {
	tr := newTestCached()
	if !tr.IsPointVisible(V(0, 0), 0) {
		t.Error("world origin not visible")
	}
	if tr.IsPointVisible(V(10000, 0), 0) {
		t.Error("distant point visible")
	}

	b := tr.VisibleWorldBounds()
	if !approxEqual(b.Width, 800, epsilon) || !approxEqual(b.Height, 600, epsilon) {
		t.Errorf("visible bounds = %v", b)
	}
}
