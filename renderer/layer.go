// Package renderer turns simulation state into pixels: the additive particle layer and the
// kaleidoscope compositor that folds the field and the layer into the final frame.
package renderer

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Layer is a linear RGB float image in [0,1], display resolution, row-major.
type Layer struct {
	w, h int
	pix  []float32 // 3 floats per pixel
}

// NewLayer allocates a cleared w×h layer.
func NewLayer(w, h int) *Layer {
	l := &Layer{}
	l.Resize(w, h)
	return l
}

// Resize reallocates the layer and clears it.
func (l *Layer) Resize(w, h int) {
	l.w = max(w, 1)
	l.h = max(h, 1)
	l.pix = make([]float32, l.w*l.h*3)
}

// Width returns the layer width in pixels.
func (l *Layer) Width() int { return l.w }

// Height returns the layer height in pixels.
func (l *Layer) Height() int { return l.h }

// Clear sets every pixel to black.
func (l *Layer) Clear() {
	clear(l.pix)
}

// Fade blends the whole layer towards black with opacity alpha in [0,1].
func (l *Layer) Fade(alpha float64) {
	k := float32(1 - clamp01(alpha))
	for i := range l.pix {
		l.pix[i] *= k
	}
}

// Stamp adds an anti-aliased disc of the given diameter centered at (x, y).
// Each channel gains color·alpha·coverage and saturates at 1, so the result does
// not depend on the order stamps are applied in.
func (l *Layer) Stamp(x, y, diameter float64, c colorful.Color, alpha float64) {
	r := diameter * 0.5
	x0 := max(int(math.Floor(x-r-1)), 0)
	x1 := min(int(math.Ceil(x+r+1)), l.w-1)
	y0 := max(int(math.Floor(y-r-1)), 0)
	y1 := min(int(math.Ceil(y+r+1)), l.h-1)

	cr := float32(c.R * alpha)
	cg := float32(c.G * alpha)
	cb := float32(c.B * alpha)

	for py := y0; py <= y1; py++ {
		dy := float64(py) + 0.5 - y
		row := py * l.w
		for px := x0; px <= x1; px++ {
			dx := float64(px) + 0.5 - x
			cov := float32(clamp01(r + 0.5 - math.Hypot(dx, dy)))
			if cov == 0 {
				continue
			}
			i := (row + px) * 3
			l.pix[i] = min(l.pix[i]+cr*cov, 1)
			l.pix[i+1] = min(l.pix[i+1]+cg*cov, 1)
			l.pix[i+2] = min(l.pix[i+2]+cb*cov, 1)
		}
	}
}

// At returns pixel (x, y), clamped to the layer.
func (l *Layer) At(x, y int) (r, g, b float32) {
	x = min(max(x, 0), l.w-1)
	y = min(max(y, 0), l.h-1)
	i := (y*l.w + x) * 3
	return l.pix[i], l.pix[i+1], l.pix[i+2]
}

// Sample returns the bilinearly filtered color at normalized (s, t), clamped to the edge.
func (l *Layer) Sample(s, t float64) [3]float64 {
	fx := s*float64(l.w) - 0.5
	fy := t*float64(l.h) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	ax := fx - float64(x0)
	ay := fy - float64(y0)

	r00, g00, b00 := l.At(x0, y0)
	r10, g10, b10 := l.At(x0+1, y0)
	r01, g01, b01 := l.At(x0, y0+1)
	r11, g11, b11 := l.At(x0+1, y0+1)

	bl := func(c00, c10, c01, c11 float32) float64 {
		top := float64(c00) + (float64(c10)-float64(c00))*ax
		bot := float64(c01) + (float64(c11)-float64(c01))*ax
		return top + (bot-top)*ay
	}
	return [3]float64{bl(r00, r10, r01, r11), bl(g00, g10, g01, g11), bl(b00, b10, b01, b11)}
}

// Luma is the Rec. 601 luminance of c.
func Luma(c [3]float64) float64 {
	return 0.299*c[0] + 0.587*c[1] + 0.114*c[2]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
