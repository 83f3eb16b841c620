package lens

import "math"

// Zoom limits applied by every transformer. Values outside this range are
// clamped before any matrix is built, so a zero or negative zoom can never
// reach a division.
const (
	MinZoom = 0.1
	MaxZoom = 10.0
)

// Transformer converts between world and screen coordinate spaces. The two
// implementations are CameraTransformer (pure math) and CachedTransformer
// (the same math behind a memoization cache); they produce identical results
// for identical state.
//
// Transformers are not safe for concurrent use on their own. Share one
// across goroutines through a Registry, which serializes access.
type Transformer interface {
	// WorldToScreen converts a world position to screen pixels.
	WorldToScreen(p Vec2) Vec2
	// ScreenToWorld converts a screen position back to world space. It is
	// the exact inverse of WorldToScreen for the same state.
	ScreenToWorld(p Vec2) Vec2

	// CameraOffset returns the current camera offset.
	CameraOffset() Vec2
	// SetCameraOffset replaces the camera offset. A no-op if the value is
	// unchanged; otherwise derived state is invalidated before returning.
	SetCameraOffset(offset Vec2)

	// Zoom returns the current zoom level.
	Zoom() float64
	// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom].
	SetZoom(zoom float64)

	// ScreenSize returns the current screen dimensions.
	ScreenSize() Vec2
	// SetScreenSize replaces the screen dimensions. Width and height must be
	// positive.
	SetScreenSize(size Vec2)

	// TransformMultiple converts a batch of world positions to screen
	// positions, preserving input order. Results match per-point
	// WorldToScreen calls.
	TransformMultiple(points []Vec2) []Vec2

	// InvalidateCache discards any derived or memoized state. Call after
	// mutating transformer state outside the standard setters.
	InvalidateCache()
}

// CameraTransformer converts between world and screen space given a camera
// offset, zoom level, and screen size:
//
//	screen = (world + offset) * zoom + screenSize/2
//	world  = (screen - screenSize/2) / zoom - offset
//
// The camera offset is added before scaling, so the world point -offset
// lands on the screen center. Forward and inverse matrices are derived
// lazily and cached under a dirty flag, the same discipline as a scene
// camera's view matrix.
//
// Non-finite inputs (NaN, Inf) propagate through the math unchanged; callers
// that cannot tolerate them must reject them before calling.
type CameraTransformer struct {
	screenSize Vec2
	offset     Vec2
	zoom       float64

	forward [6]float64
	inverse [6]float64
	dirty   bool
}

// compile-time interface checks
var (
	_ Transformer = (*CameraTransformer)(nil)
	_ Transformer = (*CachedTransformer)(nil)
)

// NewCameraTransformer creates a transformer for the given screen size with
// a zero camera offset and the given zoom level (clamped to the valid range).
func NewCameraTransformer(screenSize Vec2, zoom float64) *CameraTransformer {
	return &CameraTransformer{
		screenSize: screenSize,
		zoom:       clampZoom(zoom),
		dirty:      true,
	}
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// ensureMatrices recomputes the forward and inverse matrices if dirty.
func (t *CameraTransformer) ensureMatrices() {
	if !t.dirty {
		return
	}
	t.dirty = false

	cx := t.screenSize.X / 2
	cy := t.screenSize.Y / 2
	z := t.zoom

	// Forward: Scale(z) then Translate(center + offset*z).
	translate := [6]float64{1, 0, 0, 1, cx + t.offset.X*z, cy + t.offset.Y*z}
	scale := [6]float64{z, 0, 0, z, 0, 0}
	t.forward = multiplyAffine(translate, scale)
	t.inverse = invertAffine(t.forward)
}

// WorldToScreen converts a world position to screen pixels.
func (t *CameraTransformer) WorldToScreen(p Vec2) Vec2 {
	t.ensureMatrices()
	x, y := applyAffine(t.forward, p.X, p.Y)
	return Vec2{x, y}
}

// ScreenToWorld converts a screen position back to world space.
func (t *CameraTransformer) ScreenToWorld(p Vec2) Vec2 {
	t.ensureMatrices()
	x, y := applyAffine(t.inverse, p.X, p.Y)
	return Vec2{x, y}
}

// CameraOffset returns the current camera offset.
func (t *CameraTransformer) CameraOffset() Vec2 {
	return t.offset
}

// SetCameraOffset replaces the camera offset. No-op if unchanged.
func (t *CameraTransformer) SetCameraOffset(offset Vec2) {
	if t.offset == offset {
		return
	}
	t.offset = offset
	t.dirty = true
}

// Zoom returns the current zoom level.
func (t *CameraTransformer) Zoom() float64 {
	return t.zoom
}

// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom]. The matrices
// are invalidated only if the clamped value differs from the current one.
func (t *CameraTransformer) SetZoom(zoom float64) {
	z := clampZoom(zoom)
	if t.zoom == z {
		return
	}
	t.zoom = z
	t.dirty = true
}

// ScreenSize returns the current screen dimensions.
func (t *CameraTransformer) ScreenSize() Vec2 {
	return t.screenSize
}

// SetScreenSize replaces the screen dimensions. No-op if unchanged.
func (t *CameraTransformer) SetScreenSize(size Vec2) {
	if t.screenSize == size {
		return
	}
	t.screenSize = size
	t.dirty = true
}

// ScreenCenter returns the screen-space center point, the effective origin
// of the transform.
func (t *CameraTransformer) ScreenCenter() Vec2 {
	return t.screenSize.Div(2)
}

// InvalidateCache forces recomputation of the derived matrices on next use.
func (t *CameraTransformer) InvalidateCache() {
	t.dirty = true
}

// TransformMultiple converts a batch of world positions to screen positions
// through the precomputed forward matrix. Output order matches input order,
// and each result is identical to a per-point WorldToScreen call.
func (t *CameraTransformer) TransformMultiple(points []Vec2) []Vec2 {
	if len(points) == 0 {
		return nil
	}
	t.ensureMatrices()
	out := make([]Vec2, len(points))
	for i, p := range points {
		x, y := applyAffine(t.forward, p.X, p.Y)
		out[i] = Vec2{x, y}
	}
	return out
}

// IsPointVisible reports whether the world position lands within the screen
// extended by margin pixels on every side.
func (t *CameraTransformer) IsPointVisible(worldPos Vec2, margin float64) bool {
	s := t.WorldToScreen(worldPos)
	return s.X >= -margin && s.X <= t.screenSize.X+margin &&
		s.Y >= -margin && s.Y <= t.screenSize.Y+margin
}

// IsRectVisible reports whether any part of a world-space rectangle, given
// by its center and size, is visible on the screen extended by margin. A
// rectangle that fully covers the screen is visible even though none of its
// corners are.
func (t *CameraTransformer) IsRectVisible(worldCenter, worldSize Vec2, margin float64) bool {
	half := worldSize.Div(2)
	corners := [4]Vec2{
		worldCenter.Add(Vec2{-half.X, -half.Y}),
		worldCenter.Add(Vec2{half.X, -half.Y}),
		worldCenter.Add(Vec2{half.X, half.Y}),
		worldCenter.Add(Vec2{-half.X, half.Y}),
	}

	t.ensureMatrices()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := applyAffine(t.forward, c.X, c.Y)
		if x >= -margin && x <= t.screenSize.X+margin &&
			y >= -margin && y <= t.screenSize.Y+margin {
			return true
		}
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}

	// No corner on screen; the rect may still cover the screen entirely.
	return minX <= -margin && maxX >= t.screenSize.X+margin &&
		minY <= -margin && maxY >= t.screenSize.Y+margin
}

// VisibleWorldBounds returns the axis-aligned world-space rectangle
// currently visible on screen, for upstream culling.
func (t *CameraTransformer) VisibleWorldBounds() Rect {
	topLeft := t.ScreenToWorld(Vec2{})
	bottomRight := t.ScreenToWorld(t.screenSize)
	return Rect{
		X:      topLeft.X,
		Y:      topLeft.Y,
		Width:  bottomRight.X - topLeft.X,
		Height: bottomRight.Y - topLeft.Y,
	}
}
