package renderer

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/pthm-cable/reimyaku/config"
	"github.com/pthm-cable/reimyaku/palette"
	"github.com/pthm-cable/reimyaku/systems"
)

// ringField varies with distance from the center so folding is visible in the output.
type ringField struct{}

func (ringField) Sample(s, t float64) (float32, float32) {
	d := math.Hypot(s-0.5, t-0.5)
	return float32(0.5 + 0.5*math.Cos(d*40)), float32(0.25 + 0.2*math.Sin(s*17+t*5))
}

type constField struct{ u, v float32 }

func (c constField) Sample(float64, float64) (float32, float32) { return c.u, c.v }

func testCompositor(t *testing.T) (*Compositor, CompositeParams) {
	t.Helper()
	pool, err := systems.NewPool(2)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	cfg := config.Default()
	c, err := NewCompositor(cfg.Kaleido, pool)
	if err != nil {
		t.Fatal(err)
	}
	return c, CompositeParams{
		Sides:   cfg.Kaleido.Sides,
		Psy:     0.6,
		Scheme:  palette.SchemeCosine,
		Anchors: cfg.Derived.Anchors[0],
	}
}

// rotateUV rotates viewport UV about the center by angle, assuming a square viewport.
func rotateUV(u, v, angle float64) (float64, float64) {
	x, y := u-0.5, v-0.5
	s, c := math.Sincos(angle)
	return 0.5 + x*c - y*s, 0.5 + x*s + y*c
}

var probes = [][2]float64{
	{0.53, 0.41}, {0.37, 0.62}, {0.71, 0.55}, {0.45, 0.29}, {0.6, 0.66}, {0.22, 0.48},
}

func TestFoldUVRotationalSymmetry(t *testing.T) {
	for _, sides := range []int{8, 10, 12, 16} {
		step := 2 * math.Pi / float64(sides)
		for _, pr := range probes {
			u0, v0 := FoldUV(pr[0], pr[1], 1, sides, 0.37, 0.62)
			for k := 1; k < sides; k++ {
				ru, rv := rotateUV(pr[0], pr[1], step*float64(k))
				u1, v1 := FoldUV(ru, rv, 1, sides, 0.37, 0.62)
				if math.Abs(u1-u0) > 1e-9 || math.Abs(v1-v0) > 1e-9 {
					t.Fatalf("sides=%d k=%d: (%v,%v) vs (%v,%v)", sides, k, u0, v0, u1, v1)
				}
			}
		}
	}
}

func TestFoldUVMirror(t *testing.T) {
	for _, sides := range []int{8, 12} {
		for _, pr := range probes {
			u0, v0 := FoldUV(pr[0], pr[1], 1, sides, 0, 0.62)
			u1, v1 := FoldUV(pr[0], 1-pr[1], 1, sides, 0, 0.62)
			if math.Abs(u1-u0) > 1e-9 || math.Abs(v1-v0) > 1e-9 {
				t.Fatalf("sides=%d probe=%v: mirror differs (%v,%v) vs (%v,%v)", sides, pr, u0, v0, u1, v1)
			}
		}
	}
}

func TestFoldUVStaysInFirstHalfSector(t *testing.T) {
	sides := 12
	half := math.Pi / float64(sides)
	for _, pr := range probes {
		u, v := FoldUV(pr[0], pr[1], 1.6, sides, 1.1, 0.62)
		qx := (u*2 - 1) * 1.6
		qy := v*2 - 1
		a := math.Atan2(qy, qx)
		if a < -1e-9 || a > half+1e-9 {
			t.Errorf("probe %v folded to angle %v outside [0, %v]", pr, a, half)
		}
	}
}

func TestShadeRotationalSymmetry(t *testing.T) {
	c, p := testCompositor(t)
	layer := NewLayer(64, 64)
	layer.Stamp(40, 22, 5, white, 0.6)
	field := ringField{}

	step := 2 * math.Pi / float64(p.Sides)
	for _, pr := range probes {
		want := c.Shade(field, layer, pr[0], pr[1], 1, p)
		for k := 1; k < p.Sides; k++ {
			ru, rv := rotateUV(pr[0], pr[1], step*float64(k))
			got := c.Shade(field, layer, ru, rv, 1, p)
			for i := range got {
				if math.Abs(got[i]-want[i]) > 1e-6 {
					t.Fatalf("probe %v k=%d channel %d: %v vs %v", pr, k, i, got[i], want[i])
				}
			}
		}
	}
}

func TestShadePosterize(t *testing.T) {
	c, p := testCompositor(t)
	p.Posterize = 8
	layer := NewLayer(32, 32)
	for _, pr := range probes {
		if Mask(pr[0], pr[1], c.MandalaScale()) != 1 {
			continue
		}
		col := c.Shade(ringField{}, layer, pr[0], pr[1], 1, p)
		for i, v := range col {
			if f := v * 8; math.Abs(f-math.Round(f)) > 1e-9 {
				t.Errorf("probe %v channel %d = %v not on an 1/8 step", pr, i, v)
			}
		}
	}
}

func TestMask(t *testing.T) {
	ms := 0.62
	if m := Mask(0.5, 0.5, ms); m != 1 {
		t.Errorf("center mask %v", m)
	}
	if m := Mask(0.5+ms*1.12/2+0.01, 0.5, ms); m != 0 {
		t.Errorf("mask beyond outer radius %v", m)
	}
	m := Mask(0.5+ms*1.07/2, 0.5, ms)
	if m <= 0 || m >= 1 {
		t.Errorf("mask in the falloff band should be fractional, got %v", m)
	}
}

func TestRenderMaskAndCoverage(t *testing.T) {
	c, p := testCompositor(t)
	w, h := 96, 64
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	layer := NewLayer(w, h)

	// A seeded field is a mix of high and low U; use both extremes
	for _, field := range []FieldSampler{constField{1, 0}, constField{0, 1}, ringField{}} {
		if err := c.Render(dst, field, layer, p); err != nil {
			t.Fatal(err)
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				u := (float64(x) + 0.5) / float64(w)
				v := (float64(y) + 0.5) / float64(h)
				px := dst.RGBAAt(x, y)
				if px.A != 0xff {
					t.Fatalf("pixel (%d,%d) not opaque", x, y)
				}
				switch Mask(u, v, c.MandalaScale()) {
				case 0:
					if px.R != 0 || px.G != 0 || px.B != 0 {
						t.Fatalf("pixel (%d,%d) outside the mask is %v", x, y, px)
					}
				case 1:
					if px.R == 0 && px.G == 0 && px.B == 0 {
						t.Fatalf("pixel (%d,%d) inside the mask is black", x, y)
					}
				}
			}
		}
	}
}

func TestRenderAberrationSplitsChannels(t *testing.T) {
	c, p := testCompositor(t)
	layer := NewLayer(64, 64)
	field := ringField{}

	flat := c.Shade(field, layer, 0.6, 0.57, 1, p)
	p.Aberration = 0.02
	split := c.Shade(field, layer, 0.6, 0.57, 1, p)

	if split[1] != flat[1] {
		t.Errorf("green channel should be unshifted: %v vs %v", split[1], flat[1])
	}
	if split[0] == flat[0] && split[2] == flat[2] {
		t.Error("aberration did not change red or blue")
	}
}

func TestInvalidParams(t *testing.T) {
	pool, err := systems.NewPool(1)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default().Kaleido

	bad := cfg
	bad.MandalaScale = 0
	if _, err := NewCompositor(bad, pool); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("mandala scale 0: got %v", err)
	}
	bad = cfg
	bad.ParticleWeight = 1.5
	if _, err := NewCompositor(bad, pool); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("particle weight 1.5: got %v", err)
	}
	if _, err := NewCompositor(cfg, nil); !errors.Is(err, ErrInvalidParams) {
		t.Errorf("nil pool: got %v", err)
	}

	c, err := NewCompositor(cfg, pool)
	if err != nil {
		t.Fatal(err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for _, p := range []CompositeParams{{Sides: 0}, {Sides: 6, Aberration: -1}, {Sides: 6, Psy: 9}, {Sides: 6, Posterize: -2}} {
		if err := c.Render(dst, constField{}, NewLayer(8, 8), p); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("params %+v: got %v", p, err)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	pool, _ := systems.NewPool(0)
	defer pool.Close()
	cfg := config.Default()
	c, _ := NewCompositor(cfg.Kaleido, pool)
	dst := image.NewRGBA(image.Rect(0, 0, 640, 360))
	layer := NewLayer(640, 360)
	p := CompositeParams{Sides: 12, Psy: 0.6, Aberration: 0.002, Anchors: cfg.Derived.Anchors[0]}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		_ = c.Render(dst, ringField{}, layer, p)
	}
}
