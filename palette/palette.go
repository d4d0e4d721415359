// Package palette maps scalar phases to colors: a cosine palette, a sinebow and a
// piecewise-linear gradient across four anchor colors.
package palette

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const tau = 2 * math.Pi

// Scheme selects the cyclic color function.
type Scheme uint8

const (
	SchemeCosine Scheme = iota
	SchemeSinebow
)

// String returns the HUD label of the scheme.
func (s Scheme) String() string {
	if s == SchemeSinebow {
		return "Sinebow"
	}
	return "Cosine"
}

// ParseScheme accepts "cosine" or "sinebow" (case-sensitive, as written in config).
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "", "cosine":
		return SchemeCosine, nil
	case "sinebow":
		return SchemeSinebow, nil
	}
	return SchemeCosine, fmt.Errorf("unknown palette scheme %q", name)
}

// CosPal is the cosine palette a + b·cos(2π(t + d)) with a = b = 0.5 and phase offsets
// (0, 0.33, 0.67). Periodic in t with period 1.
func CosPal(t float64) colorful.Color {
	return colorful.Color{
		R: 0.5 + 0.5*math.Cos(tau*(t+0.00)),
		G: 0.5 + 0.5*math.Cos(tau*(t+0.33)),
		B: 0.5 + 0.5*math.Cos(tau*(t+0.67)),
	}
}

// Sinebow returns squared sines a third of a period apart. Periodic in h with period 1.
func Sinebow(h float64) colorful.Color {
	r := math.Sin(math.Pi * h)
	g := math.Sin(math.Pi * (h + 1.0/3.0))
	b := math.Sin(math.Pi * (h + 2.0/3.0))
	return colorful.Color{R: r * r, G: g * g, B: b * b}
}

// Sample evaluates the scheme at phase t.
func Sample(s Scheme, t float64) colorful.Color {
	if s == SchemeSinebow {
		return Sinebow(t)
	}
	return CosPal(t)
}

// Anchors is a 4-color anchor palette, darkest first by convention.
type Anchors [4]colorful.Color

// Lerp interpolates across the anchors: t in [0,1] is clamped and split into three equal
// segments, continuous at 1/3 and 2/3.
func (a Anchors) Lerp(t float64) colorful.Color {
	x := clamp01(t) * 3
	switch {
	case x < 1:
		return a[0].BlendRgb(a[1], x)
	case x < 2:
		return a[1].BlendRgb(a[2], x-1)
	default:
		return a[2].BlendRgb(a[3], x-2)
	}
}

// ParseAnchors parses four hex colors ("#rrggbb").
func ParseAnchors(hex []string) (Anchors, error) {
	var a Anchors
	if len(hex) != len(a) {
		return a, fmt.Errorf("anchor set needs %d colors, got %d", len(a), len(hex))
	}
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return a, fmt.Errorf("anchor %d: %w", i, err)
		}
		a[i] = c
	}
	return a, nil
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
