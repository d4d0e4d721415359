package systems

import (
	"math"

	"github.com/pthm-cable/reimyaku/components"
	"github.com/pthm-cable/reimyaku/config"
)

// Grid holds the two Gray-Scott channels, row-major, width*height cells each.
type Grid struct {
	U, V []float32
}

func newGrid(n int) *Grid {
	return &Grid{U: make([]float32, n), V: make([]float32, n)}
}

// RDParams are the per-frame Gray-Scott parameters. They are recomputed every frame from
// the audio bands and pointer and are not part of the grid state.
type RDParams struct {
	Du, Dv float64
	F, K   float64
	DT     float64

	InjectPos components.Vec2 // normalized grid UV
	InjectAmt float64
	InjectR   float64 // in UV units
}

// SeedParams describe the initial pattern written by Seed.
type SeedParams struct {
	Center components.Vec2 // normalized grid UV
	Radius float64
	Amount float64 // depth of the central U dip is 0.5·falloff; V is 0.25·falloff
	Noise  float64 // amplitude of the per-cell hash perturbation on U
}

// ReactionDiffusion is a double-buffered Gray-Scott field. Step reads the current grid and
// writes the next one; Swap exchanges their roles.
type ReactionDiffusion struct {
	width, height int
	cur, next     *Grid
	pool          *Pool
}

// NewReactionDiffusion allocates a width×height field. Both grids start at U=1, V=0.
func NewReactionDiffusion(width, height int, pool *Pool) *ReactionDiffusion {
	width = max(width, 1)
	height = max(height, 1)
	rd := &ReactionDiffusion{
		width:  width,
		height: height,
		cur:    newGrid(width * height),
		next:   newGrid(width * height),
		pool:   pool,
	}
	for i := range rd.cur.U {
		rd.cur.U[i] = 1
		rd.next.U[i] = 1
	}
	return rd
}

// Width returns the grid width in cells.
func (rd *ReactionDiffusion) Width() int { return rd.width }

// Height returns the grid height in cells.
func (rd *ReactionDiffusion) Height() int { return rd.height }

// Current returns the grid the next Step will read from.
func (rd *ReactionDiffusion) Current() *Grid { return rd.cur }

// DefaultSeed returns the centered seed pattern for the given config.
func DefaultSeed(cfg config.RDConfig) SeedParams {
	return SeedParams{
		Center: components.Vec2{X: 0.5, Y: 0.5},
		Radius: cfg.SeedRadius,
		Amount: 1,
		Noise:  cfg.SeedNoise,
	}
}

// Seed overwrites the whole current grid with U≈1 (dipping towards the center) and
// V=0.25 inside a broad radius, plus a small deterministic per-cell perturbation.
// Reseeding twice yields identical grids.
func (rd *ReactionDiffusion) Seed(p SeedParams) {
	w, h := rd.width, rd.height
	g := rd.cur
	rd.pool.Run(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := (float64(y) + 0.5) / float64(h)
			for x := 0; x < w; x++ {
				u := (float64(x) + 0.5) / float64(w)
				d := math.Hypot(u-p.Center.X, v-p.Center.Y)
				inj := smoothstep(p.Radius, 0, d) * p.Amount
				i := y*w + x
				g.U[i] = clampUnit(1 - 0.5*inj + cellHash(u*17.3, v*29.7)*p.Noise)
				g.V[i] = clampUnit(0.25 * inj)
			}
		}
	})
}

// Step advances one Gray-Scott step from the current grid into the next grid.
// Call Swap afterwards to make the result current.
func (rd *ReactionDiffusion) Step(p RDParams) {
	w, h := rd.width, rd.height
	src, dst := rd.cur, rd.next
	du, dv := float32(p.Du), float32(p.Dv)
	f, k := float32(p.F), float32(p.K)
	dt := float32(p.DT)

	rd.pool.Run(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			yUp := max(y-1, 0) * w
			yDn := min(y+1, h-1) * w
			yc := y * w
			v := (float64(y) + 0.5) / float64(h)
			for x := 0; x < w; x++ {
				xl := max(x-1, 0)
				xr := min(x+1, w-1)
				i := yc + x

				cu, cv := src.U[i], src.V[i]

				// 8-neighbour Laplacian: sum of neighbours minus 8×center
				lu := src.U[yc+xl] + src.U[yc+xr] + src.U[yUp+x] + src.U[yDn+x] +
					src.U[yUp+xl] + src.U[yUp+xr] + src.U[yDn+xl] + src.U[yDn+xr] - 8*cu
				lv := src.V[yc+xl] + src.V[yc+xr] + src.V[yUp+x] + src.V[yDn+x] +
					src.V[yUp+xl] + src.V[yUp+xr] + src.V[yDn+xl] + src.V[yDn+xr] - 8*cv

				uvv := cu * cv * cv
				nu := cu + (du*lu-uvv+f*(1-cu))*dt
				nv := cv + (dv*lv+uvv-(f+k)*cv)*dt

				if p.InjectAmt != 0 {
					u := (float64(x) + 0.5) / float64(w)
					d := math.Hypot(u-p.InjectPos.X, v-p.InjectPos.Y)
					inj := float32(smoothstep(p.InjectR, 0, d) * p.InjectAmt)
					nu += inj * 0.50
					nv -= inj * 0.25
				}

				dst.U[i] = clampUnit32(nu)
				dst.V[i] = clampUnit32(nv)
			}
		}
	})
}

// Swap makes the last written grid current.
func (rd *ReactionDiffusion) Swap() {
	rd.cur, rd.next = rd.next, rd.cur
}

// At returns the current concentrations of cell (x, y), clamped to the grid.
func (rd *ReactionDiffusion) At(x, y int) (u, v float32) {
	x = min(max(x, 0), rd.width-1)
	y = min(max(y, 0), rd.height-1)
	i := y*rd.width + x
	return rd.cur.U[i], rd.cur.V[i]
}

// Sample returns bilinearly filtered concentrations at normalized coordinates,
// clamping to the edge texels.
func (rd *ReactionDiffusion) Sample(s, t float64) (u, v float32) {
	fx := s*float64(rd.width) - 0.5
	fy := t*float64(rd.height) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	ax := float32(fx - float64(x0))
	ay := float32(fy - float64(y0))

	u00, v00 := rd.At(x0, y0)
	u10, v10 := rd.At(x0+1, y0)
	u01, v01 := rd.At(x0, y0+1)
	u11, v11 := rd.At(x0+1, y0+1)

	u0 := u00 + (u10-u00)*ax
	u1 := u01 + (u11-u01)*ax
	v0 := v00 + (v10-v00)*ax
	v1 := v01 + (v11-v01)*ax
	return u0 + (u1-u0)*ay, v0 + (v1-v0)*ay
}

// RDParamsFrom remaps the audio bands and pointer state to this frame's parameters.
func RDParamsFrom(cfg config.RDConfig, b components.Bands, ptr components.Pointer, injectR float64) RDParams {
	amt := cfg.LowGain * b.Low
	if ptr.Pressed {
		amt += cfg.PointerBonus
	}
	return RDParams{
		Du: cfg.Du,
		Dv: cfg.Dv,
		F:  lerp(cfg.Feed[0], cfg.Feed[1], b.Mid),
		K:  lerp(cfg.Kill[0], cfg.Kill[1], 0.35+0.65*(1-b.High)),
		DT: cfg.DT,
		InjectPos: components.Vec2{
			X: clamp01(ptr.Pos.X),
			Y: clamp01(ptr.Pos.Y),
		},
		InjectAmt: amt,
		InjectR:   injectR,
	}
}

// cellHash is the classic fract(sin(dot)) hash, in [0,1).
func cellHash(x, y float64) float64 {
	s := math.Sin(x*12.9898+y*78.233) * 43758.5453
	return s - math.Floor(s)
}
