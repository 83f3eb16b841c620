// Package lens converts between world and screen coordinate spaces for 2D
// games, parameterized by a movable camera offset and a zoom factor.
//
// Every visible object's position crosses this boundary every frame, so the
// package is built around three things: exact, invertible affine math; a
// memoization cache with a tolerance-quantized key and LRU eviction; and a
// registry that lets unrelated subsystems share and hot-swap the active
// transformer safely.
//
// # Quick start
//
//	reg := lens.NewRegistry()
//	reg.SetTransformer(lens.NewCachedTransformer(
//		lens.V(800, 600), 1.0, lens.CacheConfig{},
//	))
//
//	screen := reg.WorldToScreen(lens.V(0, 0)) // (400, 300)
//	reg.SetCameraOffset(lens.V(50, 30))
//	screen = reg.WorldToScreen(lens.V(0, 0))  // (450, 330)
//
// # Transformers
//
// [CameraTransformer] is the pure math layer:
//
//	screen = (world + offset) * zoom + screenSize/2
//
// with lazily derived forward and inverse matrices. [CachedTransformer]
// wraps the same math in a dual-direction LRU cache ([TransformCache]) and
// clears it whenever offset, zoom, or screen size changes. The two are
// interchangeable behind the [Transformer] interface and always agree.
//
// # Registry
//
// [Registry] holds the active transformer for an application. It is safe
// for concurrent use and serializes every delegated call, so camera-moving
// writers and rendering/AI readers on other goroutines never observe torn
// state. [Observer] callbacks fire when the transformer is swapped;
// [BindRegistry] connects a [Dispatcher] so camera movement published as
// [OffsetChanged] events reaches the transformer without coupling.
//
// # Camera driving
//
// [Follower] moves the camera each frame: target following with a dead
// zone, scroll-to animation (via [gween] tweens), and world bounds
// clamping. See examples/follow and examples/zoomcache for runnable
// [Ebitengine] programs.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package lens
