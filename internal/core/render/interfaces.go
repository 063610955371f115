package render

import "context"

// The render/asset collaborator. The AI core only ever selects animations and
// adjusts debug appearance; scene graph ownership stays on the other side of
// these interfaces.

// Loader resolves a model path into a playable visual plus the names of the
// animation clips it ships with. Loading is the only suspending operation in
// the simulation and honors ctx cancellation.
type Loader interface {
	LoadAnimatedModel(ctx context.Context, path string) (Visual, []string, error)
}

// Visual is the renderable, animated representation of one entity.
type Visual interface {
	// ID identifies the visual inside its renderer.
	ID() string

	// PlayClip starts a named clip, crossfading from whatever is playing.
	// Unknown clip names are an error; callers resolve names through a clip
	// map at load time, never at playback time.
	PlayClip(name string, opts PlayOptions) error

	// SetTint applies a debug color overlay; zero clears it.
	SetTint(tint Color)

	// SetScale sets a uniform scale multiplier (1 = authored size).
	SetScale(scale float64)

	// SetOpacity sets overall opacity in [0,1].
	SetOpacity(opacity float64)

	// SetVisible toggles rendering of the visual entirely.
	SetVisible(visible bool)

	// Release detaches the visual from the scene and frees its resources.
	// Safe to call more than once.
	Release()
}

// PlayOptions controls clip playback.
type PlayOptions struct {
	FadeTime float64 // crossfade duration in seconds
	Loop     bool
}

// Color is a packed 0xRRGGBB debug tint. Zero means untinted.
type Color uint32

const (
	ColorNone   Color = 0
	ColorGreen  Color = 0x2ecc71
	ColorYellow Color = 0xf1c40f
	ColorOrange Color = 0xe67e22
	ColorRed    Color = 0xe74c3c
	ColorGray   Color = 0x7f8c8d
)
