package lens

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// Default transformer state installed by a Registry that was never given one.
var defaultScreenSize = Vec2{X: 800, Y: 600}

// Observer is notified when a Registry's active transformer is replaced.
type Observer interface {
	// TransformerChanged is called with the newly installed transformer.
	// A panic inside the callback is recovered and logged; it never blocks
	// delivery to other observers.
	TransformerChanged(t Transformer)
}

// Registry is the shared access point to "the current transformer" for all
// subsystems of an application. It supports hot-swapping the active
// transformer at runtime and notifies registered observers on every swap.
//
// Create one Registry at application start and pass it to the systems that
// need coordinate transforms; there is no hidden package-level instance.
//
// All methods are safe for concurrent use. The Registry serializes every
// delegated transformer call under its lock, so the Transformer and cache
// types themselves need no internal synchronization. Every operation is
// bounded-time, so readers never block writers indefinitely.
type Registry struct {
	mu          sync.Mutex
	transformer Transformer
	observers   []Observer
}

// NewRegistry creates an empty registry. The first access to the
// transformer lazily installs a default CameraTransformer (800x600 screen,
// zero offset, zoom 1).
func NewRegistry() *Registry {
	return &Registry{}
}

// activeLocked returns the installed transformer, creating the default one
// on first use. Callers must hold r.mu.
func (r *Registry) activeLocked() Transformer {
	if r.transformer == nil {
		r.transformer = NewCameraTransformer(defaultScreenSize, 1.0)
	}
	return r.transformer
}

// Transformer returns the active transformer, installing the default if
// none was ever set. The returned reference stays owned by the registry;
// callers that mutate it concurrently must provide their own coordination.
func (r *Registry) Transformer() Transformer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked()
}

// SetTransformer installs a new active transformer and notifies all
// observers. The outgoing and incoming transformers both have their caches
// invalidated so no stale derived state survives the swap. A nil
// transformer is rejected.
//
// Observers are notified outside the registry lock, in registration order.
// A panicking observer is logged and skipped; the remaining observers are
// still notified and the swap itself always completes.
func (r *Registry) SetTransformer(t Transformer) error {
	if t == nil {
		return errors.New("lens: nil transformer")
	}

	r.mu.Lock()
	if r.transformer != nil {
		r.transformer.InvalidateCache()
	}
	t.InvalidateCache()
	r.transformer = t
	observers := make([]Observer, len(r.observers))
	copy(observers, r.observers)
	r.mu.Unlock()

	for _, obs := range observers {
		notifyObserver(obs, t)
	}
	return nil
}

// notifyObserver delivers one callback, isolating panics.
func notifyObserver(obs Observer, t Transformer) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("lens: observer %T panicked during transformer change: %v", obs, rec)
		}
	}()
	obs.TransformerChanged(t)
}

// AddObserver registers an observer for transformer swaps. Adding the same
// observer twice is a no-op. Observers are compared by identity, so use a
// pointer type. The registry does not own the observer's lifetime; remove
// it before discarding it.
func (r *Registry) AddObserver(obs Observer) {
	if obs == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.observers {
		if existing == obs {
			return
		}
	}
	r.observers = append(r.observers, obs)
}

// RemoveObserver unregisters an observer. Removing an observer that was
// never added is a no-op.
func (r *Registry) RemoveObserver(obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.observers {
		if existing == obs {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// ObserverCount returns the number of registered observers.
func (r *Registry) ObserverCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.observers)
}

// WorldToScreen converts a world position through the active transformer.
func (r *Registry) WorldToScreen(p Vec2) Vec2 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked().WorldToScreen(p)
}

// ScreenToWorld converts a screen position through the active transformer.
func (r *Registry) ScreenToWorld(p Vec2) Vec2 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked().ScreenToWorld(p)
}

// TransformMultiple batch-converts world positions through the active
// transformer, holding the lock for the whole batch so no camera mutation
// can interleave mid-batch.
func (r *Registry) TransformMultiple(points []Vec2) []Vec2 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked().TransformMultiple(points)
}

// SetCameraOffset updates the active transformer's camera offset. Cache
// invalidation happens inside the same critical section as the mutation, so
// no reader can observe a stale result against the new offset.
func (r *Registry) SetCameraOffset(offset Vec2) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeLocked().SetCameraOffset(offset)
}

// CameraOffset returns the active transformer's camera offset.
func (r *Registry) CameraOffset() Vec2 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked().CameraOffset()
}

// SetZoom updates the active transformer's zoom level.
func (r *Registry) SetZoom(zoom float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeLocked().SetZoom(zoom)
}

// Zoom returns the active transformer's zoom level.
func (r *Registry) Zoom() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked().Zoom()
}

// SetScreenSize updates the active transformer's screen dimensions.
func (r *Registry) SetScreenSize(size Vec2) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeLocked().SetScreenSize(size)
}

// ScreenSize returns the active transformer's screen dimensions.
func (r *Registry) ScreenSize() Vec2 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked().ScreenSize()
}

// InvalidateCache discards the active transformer's derived and memoized
// state. An explicit cache-busting hook for collaborators that mutate
// transformer state outside the standard setters.
func (r *Registry) InvalidateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeLocked().InvalidateCache()
}

// Reset drops the active transformer and all observers, returning the
// registry to its initial state. Intended for test teardown.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transformer = nil
	r.observers = nil
}

// RegistryStats describes the registry's current state for diagnostics.
type RegistryStats struct {
	TransformerType string
	ObserverCount   int
	// CacheStats is set when the active transformer is a CachedTransformer.
	CacheStats *CombinedCacheStats
}

// Stats returns a snapshot of the registry state, installing the default
// transformer first if none was set.
func (r *Registry) Stats() RegistryStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.activeLocked()
	stats := RegistryStats{
		TransformerType: fmt.Sprintf("%T", t),
		ObserverCount:   len(r.observers),
	}
	if cached, ok := t.(*CachedTransformer); ok {
		cs := cached.CacheStats()
		stats.CacheStats = &cs
	}
	return stats
}
