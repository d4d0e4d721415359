// Package camera maps between window pixels and the rendered frame, which is drawn
// scaled to fit and centered with letterbox bars.
package camera

// Camera fits a frame of FrameW×FrameH pixels into a ViewportW×ViewportH window.
type Camera struct {
	// Viewport dimensions (window size)
	ViewportW, ViewportH float32

	// Frame dimensions (simulation output size)
	FrameW, FrameH float32

	// Zoom is window pixels per frame pixel
	Zoom float32

	// Top-left corner of the frame in window coordinates
	OffsetX, OffsetY float32
}

// New creates a camera fitting the frame into the viewport.
func New(viewportW, viewportH, frameW, frameH float32) *Camera {
	c := &Camera{FrameW: frameW, FrameH: frameH}
	c.Resize(viewportW, viewportH)
	return c
}

// FrameSize returns the frame size for a viewport at the given render scale, at least
// one pixel per side.
func FrameSize(viewportW, viewportH int, scale float64) (w, h int) {
	w = max(int(float64(viewportW)*scale), 1)
	h = max(int(float64(viewportH)*scale), 1)
	return w, h
}

// Resize updates the viewport dimensions and refits the frame.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.fit()
}

// SetFrame updates the frame dimensions and refits it.
func (c *Camera) SetFrame(frameW, frameH float32) {
	c.FrameW = frameW
	c.FrameH = frameH
	c.fit()
}

func (c *Camera) fit() {
	if c.FrameW <= 0 || c.FrameH <= 0 {
		c.Zoom = 1
		c.OffsetX, c.OffsetY = 0, 0
		return
	}
	c.Zoom = min(c.ViewportW/c.FrameW, c.ViewportH/c.FrameH)
	c.OffsetX = (c.ViewportW - c.FrameW*c.Zoom) / 2
	c.OffsetY = (c.ViewportH - c.FrameH*c.Zoom) / 2
}

// FrameToScreen converts frame pixel coordinates to window coordinates.
func (c *Camera) FrameToScreen(fx, fy float32) (sx, sy float32) {
	return c.OffsetX + fx*c.Zoom, c.OffsetY + fy*c.Zoom
}

// ScreenToFrame converts window coordinates to frame pixel coordinates. Points in the
// letterbox bars map outside [0,FrameW]×[0,FrameH].
func (c *Camera) ScreenToFrame(sx, sy float32) (fx, fy float32) {
	return (sx - c.OffsetX) / c.Zoom, (sy - c.OffsetY) / c.Zoom
}

// ScreenToNormalized converts window coordinates to frame UV, clamped to [0,1].
func (c *Camera) ScreenToNormalized(sx, sy float32) (u, v float64) {
	fx, fy := c.ScreenToFrame(sx, sy)
	return clamp(float64(fx/c.FrameW), 0, 1), clamp(float64(fy/c.FrameH), 0, 1)
}

// Dest returns the window rectangle the frame is drawn into.
func (c *Camera) Dest() (x, y, w, h float32) {
	return c.OffsetX, c.OffsetY, c.FrameW * c.Zoom, c.FrameH * c.Zoom
}

// Contains reports whether a window point lies on the frame rather than the bars.
func (c *Camera) Contains(sx, sy float32) bool {
	fx, fy := c.ScreenToFrame(sx, sy)
	return fx >= 0 && fy >= 0 && fx < c.FrameW && fy < c.FrameH
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
