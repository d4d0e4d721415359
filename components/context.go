package components

import "github.com/pthm-cable/reimyaku/palette"

// Bands holds the three loudness bands for the current frame, each in [0,1].
type Bands struct {
	Low, Mid, High float64
}

// Pointer is the external pointer state in normalized viewport coordinates.
type Pointer struct {
	Pos     Vec2 // [0,1]² with y growing downwards
	Pressed bool
}

// SimulationContext is the frame-global state. The orchestrator owns it and mutates it
// only between frames; systems receive the slices of it they need by value.
type SimulationContext struct {
	Frame int64
	Time  float64 // simulation seconds since start
	DT    float64 // seconds covered by the current frame

	Width, Height int     // frame resolution
	RenderScale   float64 // frame pixels per window pixel; 0 means 1

	Bands       Bands
	AudioActive bool
	Pointer     Pointer

	Palette palette.State
	Psy     float64

	Sides     int
	Spin      float64
	Posterize int

	// InjectRadius is the current RD injection radius; flashes widen it temporarily.
	InjectRadius float64
	FlashLeft    float64 // seconds until InjectRadius reverts
}

// Center returns the viewport center in display space.
func (c *SimulationContext) Center() Vec2 {
	return Vec2{X: float64(c.Width) * 0.5, Y: float64(c.Height) * 0.5}
}

// MinDim returns the shorter display dimension.
func (c *SimulationContext) MinDim() float64 {
	return float64(min(c.Width, c.Height))
}

// PixelScale returns the length of one window pixel in frame pixels. Particle speeds
// and sizes are tuned in window pixels and multiplied by it.
func (c *SimulationContext) PixelScale() float64 {
	if c.RenderScale <= 0 {
		return 1
	}
	return c.RenderScale
}
