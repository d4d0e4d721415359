package systems

import (
	"github.com/ojrac/opensimplex-go"
)

// FlowSampler provides the smooth scalar field that steers particles.
// Implementations must be safe for concurrent reads.
type FlowSampler interface {
	// Sample returns a value in [0, 1] at the (already scaled) coordinates.
	Sample(x, y, t float64) float64
}

// FlowNoise is a 3-D OpenSimplex field (x, y, time) normalized to [0, 1].
type FlowNoise struct {
	noise opensimplex.Noise
}

// NewFlowNoise creates a flow field from the given seed.
func NewFlowNoise(seed int64) *FlowNoise {
	return &FlowNoise{noise: opensimplex.NewNormalized(seed)}
}

// Sample implements FlowSampler.
func (f *FlowNoise) Sample(x, y, t float64) float64 {
	return f.noise.Eval3(x, y, t)
}
