package systems

import (
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/reimyaku/components"
	"github.com/pthm-cable/reimyaku/config"
	"github.com/pthm-cable/reimyaku/palette"
)

const tau = 2 * math.Pi

// Ring spawn distribution, as fractions of the spawn radius.
const (
	ringMean   = 0.65
	ringSpread = 0.20
)

// accentMix is the weight of the accent anchor in spawn colors.
const accentMix = 0.2

// Window-pixel lengths applied per step.
const (
	pointerPull  = 0.04
	reflectNudge = 2.0
)

// ParticleFrame carries every frame-global value the particle integrator reads.
type ParticleFrame struct {
	Center        components.Vec2
	ConfineRadius float64 // reflection boundary
	SpawnRadius   float64 // respawn disk

	Speed    float64 // shared flow speed
	MaxSpeed float64
	Bands    components.Bands

	// PixelScale converts window pixels to frame pixels. Speeds above already include it.
	PixelScale float64

	Pointer        components.Vec2 // display space
	PointerPressed bool

	Time, DT float64

	HueBase float64
	Scheme  palette.Scheme
	Accent  colorful.Color // 4th anchor of the active palette
}

// ParticleFrameFrom derives the particle frame from the simulation context.
func ParticleFrameFrom(ctx *components.SimulationContext, cfg config.ParticlesConfig, mandalaScale float64) ParticleFrame {
	r := ctx.MinDim() * mandalaScale
	b := ctx.Bands
	px := ctx.PixelScale()
	return ParticleFrame{
		Center:        ctx.Center(),
		ConfineRadius: r * cfg.ConfineFactor,
		SpawnRadius:   r * cfg.SpawnFactor,
		Speed:         px * cfg.BaseSpeed * (0.6 + 0.6*ctx.Psy + 0.4*b.Mid),
		MaxSpeed:      px * (2.6 + 0.8*ctx.Psy),
		Bands:         b,
		PixelScale:    px,
		Pointer: components.Vec2{
			X: ctx.Pointer.Pos.X * float64(ctx.Width),
			Y: ctx.Pointer.Pos.Y * float64(ctx.Height),
		},
		PointerPressed: ctx.Pointer.Pressed,
		Time:           ctx.Time,
		DT:             ctx.DT,
		HueBase:        ctx.Palette.HueBase,
		Scheme:         ctx.Palette.Scheme,
		Accent:         ctx.Palette.Active()[3],
	}
}

// ParticleField owns a fixed arena of particles orbiting the viewport center.
// Each slot has its own random stream, so results do not depend on how the pool
// splits the work.
type ParticleField struct {
	cfg       config.ParticlesConfig
	particles []components.Particle
	rngs      []*rand.Rand
	flow      FlowSampler
	pool      *Pool
}

// NewParticleField allocates cfg.Count particles. Call Spawn before the first Step.
func NewParticleField(cfg config.ParticlesConfig, pool *Pool, seed uint64) *ParticleField {
	if cfg.Seed != 0 {
		seed = cfg.Seed
	}
	pf := &ParticleField{
		cfg:       cfg,
		particles: make([]components.Particle, cfg.Count),
		rngs:      make([]*rand.Rand, cfg.Count),
		flow:      NewFlowNoise(int64(seed)),
		pool:      pool,
	}
	for i := range pf.rngs {
		pf.rngs[i] = rand.New(rand.NewPCG(seed, uint64(i)))
	}
	return pf
}

// SetFlowSampler replaces the flow field.
func (pf *ParticleField) SetFlowSampler(s FlowSampler) {
	pf.flow = s
}

// Particles returns the arena. Callers must not retain it across Steps.
func (pf *ParticleField) Particles() []components.Particle {
	return pf.particles
}

// Len returns the fixed particle count.
func (pf *ParticleField) Len() int {
	return len(pf.particles)
}

// Spawn redraws every particle uniformly inside the spawn disk.
func (pf *ParticleField) Spawn(f ParticleFrame) {
	pf.pool.Run(len(pf.particles), func(i0, i1 int) {
		for i := i0; i < i1; i++ {
			pf.respawn(i, &f, true)
		}
	})
}

// Step advances every particle by one frame and returns how many were respawned.
func (pf *ParticleField) Step(f ParticleFrame) int {
	var respawned atomic.Int64
	pf.pool.Run(len(pf.particles), func(i0, i1 int) {
		n := 0
		for i := i0; i < i1; i++ {
			if pf.stepOne(i, &f) {
				n++
			}
		}
		respawned.Add(int64(n))
	})
	return int(respawned.Load())
}

// stepOne integrates particle i and reports whether it was respawned.
func (pf *ParticleField) stepOne(i int, f *ParticleFrame) bool {
	p := &pf.particles[i]
	px := f.PixelScale
	s := pf.cfg.FlowScale / px

	// Flow force from the noise field
	ang := pf.flow.Sample(p.Pos.X*s, p.Pos.Y*s, f.Time*pf.cfg.FlowTimeScale) * 2 * tau
	flow := components.FromAngle(ang).Scale(f.Speed * (0.5 + 0.8*f.Bands.High))

	// Centering force
	pull := f.Center.Sub(p.Pos).WithLen(px * (0.02 + 0.05*f.Bands.Low))

	p.Vel = p.Vel.Add(flow).Add(pull).Limit(f.MaxSpeed)
	if f.PointerPressed {
		p.Vel = p.Vel.Add(f.Pointer.Sub(p.Pos).WithLen(px * pointerPull))
	}
	p.Pos = p.Pos.Add(p.Vel)

	// Soft confinement: reflect and nudge inwards; a fast particle may stay outside
	// for one more step.
	if p.Pos.Sub(f.Center).Len() > f.ConfineRadius {
		n := f.Center.Sub(p.Pos).Normalize()
		p.Vel = p.Vel.Reflect(n)
		p.Pos = p.Pos.Add(n.Scale(px * reflectNudge))
	}

	p.Life -= f.DT
	if p.Life <= 0 || pf.rngs[i].Float64() < pf.cfg.RespawnChance {
		pf.respawn(i, f, false)
		return true
	}
	return false
}

// respawn redraws position, velocity and appearance of slot i.
func (pf *ParticleField) respawn(i int, f *ParticleFrame, initial bool) {
	rng := pf.rngs[i]
	p := &pf.particles[i]
	cfg := &pf.cfg

	var r float64
	if initial {
		r = math.Sqrt(rng.Float64()) * f.SpawnRadius
	} else {
		r = ringRadius(rng, f.SpawnRadius)
	}
	a := rng.Float64() * tau
	p.Pos = f.Center.Add(components.FromAngle(a).Scale(r))
	p.Vel = components.FromAngle(rng.Float64() * tau).Scale(f.PixelScale * uniform(rng, 0.2, 1.0))
	p.Size = uniform(rng, cfg.Size[0], cfg.Size[1]) // window pixels
	p.Life = uniform(rng, cfg.Life[0], cfg.Life[1])
	p.Jitter = rng.Float64()
	p.Energy = uniform(rng, cfg.Energy[0], cfg.Energy[1])

	h := fract(f.HueBase + rng.Float64()*0.2)
	p.Color = palette.Sample(f.Scheme, h).BlendRgb(f.Accent, accentMix)
	p.Generation++
}

// ringRadius draws from a Gaussian centered at 65% of the radius with 20% spread,
// truncated to [0, radius].
func ringRadius(rng *rand.Rand, radius float64) float64 {
	for range 8 {
		r := radius * (ringMean + ringSpread*rng.NormFloat64())
		if r >= 0 && r <= radius {
			return r
		}
	}
	return radius * ringMean
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
