package palette

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func colorDist(a, b colorful.Color) float64 {
	return math.Max(math.Abs(a.R-b.R), math.Max(math.Abs(a.G-b.G), math.Abs(a.B-b.B)))
}

func TestSchemesPeriodic(t *testing.T) {
	for _, s := range []Scheme{SchemeCosine, SchemeSinebow} {
		for i := 0; i <= 100; i++ {
			x := float64(i) / 100
			a := Sample(s, x)
			b := Sample(s, x+1)
			c := Sample(s, x-3)
			if colorDist(a, b) > 1e-9 || colorDist(a, c) > 1e-9 {
				t.Errorf("%s not periodic at t=%.2f: %v %v %v", s, x, a, b, c)
			}
		}
	}
}

func TestSchemesContinuous(t *testing.T) {
	const h = 1e-6
	for _, s := range []Scheme{SchemeCosine, SchemeSinebow} {
		for i := 0; i <= 1000; i++ {
			x := float64(i) / 1000
			if d := colorDist(Sample(s, x), Sample(s, x+h)); d > 1e-4 {
				t.Errorf("%s jumps by %g at t=%.3f", s, d, x)
			}
		}
	}
}

func TestSchemesInUnitRange(t *testing.T) {
	for _, s := range []Scheme{SchemeCosine, SchemeSinebow} {
		for i := 0; i <= 200; i++ {
			c := Sample(s, float64(i)/200)
			for _, v := range []float64{c.R, c.G, c.B} {
				if v < 0 || v > 1 {
					t.Fatalf("%s produced %v outside [0,1]", s, c)
				}
			}
		}
	}
}

func testAnchors(t *testing.T) Anchors {
	t.Helper()
	a, err := ParseAnchors([]string{"#0b0d10", "#0e2a47", "#3b3f46", "#e5c16f"})
	if err != nil {
		t.Fatalf("ParseAnchors: %v", err)
	}
	return a
}

func TestLerpHitsAnchors(t *testing.T) {
	a := testAnchors(t)
	tests := []struct {
		t    float64
		want colorful.Color
	}{
		{0, a[0]},
		{1.0 / 3.0, a[1]},
		{2.0 / 3.0, a[2]},
		{1, a[3]},
		{-0.5, a[0]},
		{1.5, a[3]},
	}
	for _, tc := range tests {
		if d := colorDist(a.Lerp(tc.t), tc.want); d > 1e-9 {
			t.Errorf("Lerp(%v) = %v, want %v", tc.t, a.Lerp(tc.t), tc.want)
		}
	}
}

func TestLerpContinuousAtSegmentBoundaries(t *testing.T) {
	a := testAnchors(t)
	const h = 1e-9
	for _, b := range []float64{1.0 / 3.0, 2.0 / 3.0} {
		if d := colorDist(a.Lerp(b-h), a.Lerp(b+h)); d > 1e-6 {
			t.Errorf("discontinuity %g at %.4f", d, b)
		}
	}
}

func TestParseAnchorsErrors(t *testing.T) {
	if _, err := ParseAnchors([]string{"#000000"}); err == nil {
		t.Error("expected error for short anchor set")
	}
	if _, err := ParseAnchors([]string{"#000000", "#zzzzzz", "#000000", "#000000"}); err == nil {
		t.Error("expected error for invalid hex")
	}
}

func TestStateAdvanceWraps(t *testing.T) {
	s := State{HueBase: 0.99}
	s.Advance(1, 0, 0)
	if s.HueBase < 0 || s.HueBase >= 1 {
		t.Fatalf("hue base %v outside [0,1)", s.HueBase)
	}
	if math.Abs(s.HueBase-0.01) > 1e-9 {
		t.Errorf("expected 0.01 after wrap, got %v", s.HueBase)
	}
}

func TestStateCycleAndToggle(t *testing.T) {
	a := testAnchors(t)
	s := State{Sets: []Anchors{a, a, a}}
	for i := 0; i < 4; i++ {
		s.Cycle()
	}
	if s.Index != 1 {
		t.Errorf("expected index 1 after 4 cycles of 3, got %d", s.Index)
	}
	s.ToggleScheme()
	if s.Scheme != SchemeSinebow {
		t.Errorf("expected sinebow, got %s", s.Scheme)
	}
	s.ToggleScheme()
	if s.Scheme != SchemeCosine {
		t.Errorf("expected cosine, got %s", s.Scheme)
	}
}
