package lens

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for the camera center X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Follower drives a transformer's camera offset over time: target
// following with a dead zone, scripted scroll-to animation, and world
// bounds clamping. Offsets are always written through the transformer's
// setter, so caches invalidate on every effective move.
//
// The camera's world center is the point currently mapped to the screen
// center, i.e. the negated camera offset.
type Follower struct {
	transformer Transformer

	target     func() Vec2
	followLerp float64

	// DeadZone is the world-space radius under which target movement is
	// ignored, preventing cache churn from sub-pixel camera jitter.
	DeadZone float64

	boundsEnabled bool
	bounds        Rect

	scrollTween *scrollAnim
}

// NewFollower creates a follower driving the given transformer.
func NewFollower(t Transformer) *Follower {
	return &Follower{transformer: t}
}

// Follow makes the camera track the position returned by target. A lerp of
// 1.0 snaps immediately; lower values approach the target smoothly.
func (f *Follower) Follow(target func() Vec2, lerp float64) {
	f.target = target
	f.followLerp = lerp
}

// Unfollow stops tracking the current target.
func (f *Follower) Unfollow() {
	f.target = nil
}

// ScrollTo animates the camera center to the given world position over
// duration seconds.
func (f *Follower) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	center := f.center()
	f.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(center.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(center.Y), float32(y), duration, easeFn),
	}
}

// SetBounds enables world bounds clamping: the visible area never leaves
// the given world rectangle.
func (f *Follower) SetBounds(bounds Rect) {
	f.boundsEnabled = true
	f.bounds = bounds
}

// ClearBounds disables world bounds clamping.
func (f *Follower) ClearBounds() {
	f.boundsEnabled = false
}

// center returns the camera's current world center.
func (f *Follower) center() Vec2 {
	return f.transformer.CameraOffset().Neg()
}

// Update advances following, scroll animation, and bounds clamping by dt
// seconds, then writes the resulting offset to the transformer. Call once
// per frame.
func (f *Follower) Update(dt float32) {
	center := f.center()

	if f.target != nil {
		desired := f.target()
		if desired.DistanceTo(center) > f.DeadZone {
			center = center.Add(desired.Sub(center).Scale(f.followLerp))
		}
	}

	if f.scrollTween != nil {
		if !f.scrollTween.doneX {
			val, done := f.scrollTween.tweenX.Update(dt)
			center.X = float64(val)
			f.scrollTween.doneX = done
		}
		if !f.scrollTween.doneY {
			val, done := f.scrollTween.tweenY.Update(dt)
			center.Y = float64(val)
			f.scrollTween.doneY = done
		}
		if f.scrollTween.doneX && f.scrollTween.doneY {
			f.scrollTween = nil
		}
	}

	if f.boundsEnabled {
		center = f.clampToBounds(center)
	}

	f.transformer.SetCameraOffset(center.Neg())
}

// clampToBounds restricts the camera center so the visible area stays
// within the world bounds. When the bounds are smaller than the visible
// area on an axis, the camera centers on that axis instead.
func (f *Follower) clampToBounds(center Vec2) Vec2 {
	size := f.transformer.ScreenSize()
	zoom := f.transformer.Zoom()
	halfW := size.X / (2 * zoom)
	halfH := size.Y / (2 * zoom)

	minX := f.bounds.X + halfW
	maxX := f.bounds.X + f.bounds.Width - halfW
	minY := f.bounds.Y + halfH
	maxY := f.bounds.Y + f.bounds.Height - halfH

	if minX > maxX {
		center.X = f.bounds.X + f.bounds.Width/2
	} else {
		center.X = math.Max(minX, math.Min(center.X, maxX))
	}
	if minY > maxY {
		center.Y = f.bounds.Y + f.bounds.Height/2
	} else {
		center.Y = math.Max(minY, math.Min(center.Y, maxY))
	}
	return center
}
