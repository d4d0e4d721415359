package renderer

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/pthm-cable/reimyaku/config"
	"github.com/pthm-cable/reimyaku/palette"
	"github.com/pthm-cable/reimyaku/systems"
)

// ErrInvalidParams is returned for compositor parameters outside their domain.
var ErrInvalidParams = errors.New("invalid compositor parameters")

// Compositor weights.
const (
	baseGain   = 0.35 // field color attenuation before mixing with the particle layer
	anchorMix  = 0.18 // share of the anchor gradient in the field color
	maskInner  = 1.02 // mask starts falling at mandalaScale·maskInner
	maskOuter  = 1.12 // and is zero beyond mandalaScale·maskOuter
	fieldGain  = 0.85
	phaseLuma  = 0.15
	maxPsy     = 3.0
	minPosterL = 2
)

// FieldSampler is the reaction-diffusion field as seen by the compositor.
type FieldSampler interface {
	Sample(s, t float64) (u, v float32)
}

// CompositeParams are the per-frame compositor inputs.
type CompositeParams struct {
	Sides      int
	Spin       float64 // radians
	Aberration float64 // in UV units
	Psy        float64
	Posterize  int // levels, < 2 disables
	HueBase    float64
	Scheme     palette.Scheme
	Anchors    palette.Anchors
}

// Validate reports parameters the shading math cannot handle.
func (p CompositeParams) Validate() error {
	switch {
	case p.Sides < 1:
		return fmt.Errorf("%w: sides %d", ErrInvalidParams, p.Sides)
	case p.Aberration < 0 || math.IsNaN(p.Aberration):
		return fmt.Errorf("%w: aberration %v", ErrInvalidParams, p.Aberration)
	case p.Psy < 0 || p.Psy > maxPsy:
		return fmt.Errorf("%w: psy %v", ErrInvalidParams, p.Psy)
	case p.Posterize < 0:
		return fmt.Errorf("%w: posterize %d", ErrInvalidParams, p.Posterize)
	}
	return nil
}

// Compositor folds the field and the particle layer into a centered kaleidoscope.
type Compositor struct {
	mandalaScale   float64
	particleWeight float64
	pool           *systems.Pool
}

// NewCompositor validates the static parameters.
func NewCompositor(cfg config.KaleidoConfig, pool *systems.Pool) (*Compositor, error) {
	if cfg.MandalaScale <= 0 {
		return nil, fmt.Errorf("%w: mandala scale %v", ErrInvalidParams, cfg.MandalaScale)
	}
	if cfg.ParticleWeight < 0 || cfg.ParticleWeight > 1 {
		return nil, fmt.Errorf("%w: particle weight %v", ErrInvalidParams, cfg.ParticleWeight)
	}
	if pool == nil {
		return nil, fmt.Errorf("%w: no worker pool", ErrInvalidParams)
	}
	return &Compositor{
		mandalaScale:   cfg.MandalaScale,
		particleWeight: cfg.ParticleWeight,
		pool:           pool,
	}, nil
}

// MandalaScale returns the mandala radius in half-viewport units.
func (c *Compositor) MandalaScale() float64 { return c.mandalaScale }

// FoldUV maps viewport UV to the kaleidoscope source UV: zoom about the center by
// 1/mandalaScale, rotate by spin, fold the angle into one sector and mirror its upper
// half. aspect is width/height.
func FoldUV(u, v, aspect float64, sides int, spin, mandalaScale float64) (float64, float64) {
	px := ((u - 0.5) / mandalaScale) * 2 * aspect
	py := ((v - 0.5) / mandalaScale) * 2
	r := math.Hypot(px, py)
	a := math.Atan2(py, px) + spin

	sector := 2 * math.Pi / float64(max(sides, 1))
	a = math.Mod(a, sector)
	if a < 0 {
		a += sector
	}
	if a > sector*0.5 {
		a = sector - a
	}

	qx := math.Cos(a) * r / aspect
	qy := math.Sin(a) * r
	return (qx + 1) * 0.5, (qy + 1) * 0.5
}

// Mask is the circular vignette at viewport UV, 1 inside the mandala and 0 outside.
// The radius is measured in UV units, not aspect corrected.
func Mask(u, v, mandalaScale float64) float64 {
	r := math.Hypot((u-0.5)*2, (v-0.5)*2)
	return 1 - smoothstep(mandalaScale*maskInner, mandalaScale*maskOuter, r)
}

// Shade computes the linear color at viewport UV (u, v).
func (c *Compositor) Shade(rd FieldSampler, layer *Layer, u, v, aspect float64, p CompositeParams) [3]float64 {
	mask := Mask(u, v, c.mandalaScale)
	if mask <= 0 {
		return [3]float64{}
	}

	ku, kv := FoldUV(u, v, aspect, p.Sides, p.Spin, c.mandalaScale)

	// Chromatic aberration along the radial direction of the viewport
	dx, dy := u-0.5, v-0.5
	if l := math.Hypot(dx, dy); l > 0 {
		dx, dy = dx/l*p.Aberration, dy/l*p.Aberration
	} else {
		dx, dy = 0, 0
	}

	var base [3]float64
	if dx == 0 && dy == 0 {
		base = c.sampleBase(rd, layer, ku, kv, &p)
	} else {
		base[0] = c.sampleBase(rd, layer, ku+dx, kv+dy, &p)[0]
		base[1] = c.sampleBase(rd, layer, ku, kv, &p)[1]
		base[2] = c.sampleBase(rd, layer, ku-dx, kv-dy, &p)[2]
	}

	paint := layer.Sample(ku, kv)
	w := c.particleWeight
	var out [3]float64
	for i := range out {
		b := base[i] * baseGain
		col := b + (paint[i]-b)*w
		if p.Posterize >= minPosterL {
			l := float64(p.Posterize)
			col = math.Floor(col*l) / l
		}
		out[i] = col * mask
	}
	return out
}

// sampleBase is the field color at source UV: the U−V contrast drives a cyclic palette,
// tinted by the anchor gradient and shaped by psy.
func (c *Compositor) sampleBase(rd FieldSampler, layer *Layer, s, t float64, p *CompositeParams) [3]float64 {
	fu, fv := rd.Sample(s, t)
	x := clamp01(float64(fu-fv)*fieldGain + 0.5)
	paintL := Luma(layer.Sample(s, t))
	phase := fract(x*(0.7+0.2*p.Psy) + phaseLuma*paintL + p.HueBase)

	cyc := palette.Sample(p.Scheme, phase)
	pal := p.Anchors.Lerp(x)
	mixed := cyc.BlendRgb(pal, anchorMix)

	gamma := 0.9 - 0.25*p.Psy
	gain := 0.85 + 0.25*p.Psy
	return [3]float64{
		math.Pow(max(mixed.R, 0), gamma) * gain,
		math.Pow(max(mixed.G, 0), gamma) * gain,
		math.Pow(max(mixed.B, 0), gamma) * gain,
	}
}

// Render shades every pixel of dst. Rows are shaded in parallel.
func (c *Compositor) Render(dst *image.RGBA, rd FieldSampler, layer *Layer, p CompositeParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return fmt.Errorf("%w: empty target %v", ErrInvalidParams, b)
	}
	aspect := float64(w) / float64(h)

	c.pool.Run(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := (float64(y) + 0.5) / float64(h)
			off := dst.PixOffset(b.Min.X, b.Min.Y+y)
			row := dst.Pix[off : off+w*4]
			for x := 0; x < w; x++ {
				u := (float64(x) + 0.5) / float64(w)
				col := c.Shade(rd, layer, u, v, aspect, p)
				o := x * 4
				row[o] = to8(col[0])
				row[o+1] = to8(col[1])
				row[o+2] = to8(col[2])
				row[o+3] = 0xff
			}
		}
	})
	return nil
}

func to8(c float64) uint8 {
	return uint8(clamp01(c)*255 + 0.5)
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}
