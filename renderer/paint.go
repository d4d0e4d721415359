package renderer

import "github.com/pthm-cable/reimyaku/components"

// Small particles with enough jitter get a second, smaller stamp at this offset.
// Offsets and sizes are in window pixels.
const (
	companionDX    = 0.6
	companionDY    = -0.4
	companionScale = 0.8
	companionSize  = 1.9
	companionJit   = 0.2
)

// PaintParticles fades the layer by fadeAlpha (0-255 scale) and stamps every particle
// additively. Particle sizes are in window pixels; pixelScale converts them to layer
// pixels. Returns the number of stamps drawn.
func PaintParticles(l *Layer, particles []components.Particle, fadeAlpha, pixelScale float64) int {
	l.Fade(fadeAlpha / 255)

	stamps := 0
	for i := range particles {
		p := &particles[i]
		alpha := (10 + 90*p.Energy) / 255
		size := p.Size * pixelScale
		l.Stamp(p.Pos.X, p.Pos.Y, size, p.Color, alpha)
		stamps++
		if p.Size < companionSize && p.Jitter > companionJit {
			l.Stamp(p.Pos.X+companionDX*pixelScale, p.Pos.Y+companionDY*pixelScale, size*companionScale, p.Color, alpha)
			stamps++
		}
	}
	return stamps
}
