package systems

import "math"

// Clamp functions for common value ranges

// clamp01 clamps a float64 value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampUnit clamps to [0, 1] and narrows to float32.
func clampUnit(v float64) float32 {
	return float32(clamp01(v))
}

// clampUnit32 clamps a float32 value to [0, 1]. NaN maps to 0.
func clampUnit32(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Interpolation

// lerp blends from a to b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// smoothstep is the GLSL smoothstep. edge0 may exceed edge1 for a falling edge.
func smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// Phase helpers

// fract returns the fractional part of x, in [0, 1).
func fract(x float64) float64 {
	return x - math.Floor(x)
}
