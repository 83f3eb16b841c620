package lens

import "fmt"

// Space identifies one of the two coordinate spaces the engine converts
// between.
type Space uint8

const (
	// SpaceWorld is the coordinate system game-object logical positions are
	// expressed in, independent of camera or screen.
	SpaceWorld Space = iota
	// SpaceScreen is pixel coordinates on the rendering surface, origin
	// top-left.
	SpaceScreen
)

// String returns a human-readable name for the space.
func (s Space) String() string {
	switch s {
	case SpaceWorld:
		return "world"
	case SpaceScreen:
		return "screen"
	default:
		return fmt.Sprintf("space(%d)", uint8(s))
	}
}

// TransformBetween converts p from one coordinate space to another using t.
// Converting a point to the space it is already in returns it unchanged.
// An unknown space pairing returns an error.
func TransformBetween(t Transformer, p Vec2, from, to Space) (Vec2, error) {
	if from == to {
		return p, nil
	}
	switch {
	case from == SpaceWorld && to == SpaceScreen:
		return t.WorldToScreen(p), nil
	case from == SpaceScreen && to == SpaceWorld:
		return t.ScreenToWorld(p), nil
	default:
		return Vec2{}, fmt.Errorf("lens: unsupported transform %v to %v", from, to)
	}
}
