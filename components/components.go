// Package components defines the plain data records shared by the simulation systems.
package components

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Vec2 is a 2D vector in display space (pixels) or normalized UV space.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Len returns the length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec2{v.X / l, v.Y / l}
}

// WithLen returns v rescaled to length m (p5's setMag).
func (v Vec2) WithLen(m float64) Vec2 {
	return v.Normalize().Scale(m)
}

// Limit caps the length of v at m.
func (v Vec2) Limit(m float64) Vec2 {
	l2 := v.X*v.X + v.Y*v.Y
	if l2 > m*m && l2 > 0 {
		return v.Scale(m / math.Sqrt(l2))
	}
	return v
}

// Reflect mirrors v about the unit normal n: v - 2(v·n)n.
func (v Vec2) Reflect(n Vec2) Vec2 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// FromAngle returns the unit vector at angle a (radians).
func FromAngle(a float64) Vec2 {
	return Vec2{math.Cos(a), math.Sin(a)}
}

// Particle is one light-emitting particle. Particles live in a fixed-size arena and are
// recycled in place; only the slot's own fields change on respawn.
type Particle struct {
	Pos    Vec2
	Vel    Vec2
	Size   float64 // stamp diameter in window pixels
	Life   float64 // seconds remaining
	Jitter float64 // [0,1); > 0.2 adds a companion stamp for small particles
	Energy float64 // emitted brightness in [0.3,1]

	// Color is fixed at spawn, components in [0,1].
	Color colorful.Color

	// Generation counts respawns of this slot.
	Generation uint32
}
