package audio

import (
	"math"
	"testing"

	"github.com/pthm-cable/reimyaku/components"
	"github.com/pthm-cable/reimyaku/config"
)

func TestEnergyIn(t *testing.T) {
	// 11 bins at sample rate 20: bin index equals frequency in Hz
	spec := []float32{0, 0, 255, 255, 0, 0, 0, 0, 0, 0, 51}

	tests := []struct {
		name     string
		spectrum []float32
		lo, hi   float64
		want     float64
	}{
		{"inclusive range", spec, 2, 4, 170.0 / 255},
		{"single bin", spec, 3, 3, 1},
		{"above nyquist clamps", spec, 10, 50, 0.2},
		{"silent range", spec, 5, 9, 0},
		{"inverted range", spec, 6, 2, 0},
		{"empty spectrum", nil, 0, 10, 0},
		{"negative frequencies", spec, -40, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EnergyIn(tc.spectrum, 20, tc.lo, tc.hi)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("EnergyIn = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEnergyInClampsToUnit(t *testing.T) {
	spec := []float32{400, 400, 400}
	if got := EnergyIn(spec, 44100, 0, 22050); got != 1 {
		t.Errorf("expected clamp to 1, got %v", got)
	}
	if got := EnergyIn(spec, 0, 0, 100); got != 0 {
		t.Errorf("expected 0 for zero sample rate, got %v", got)
	}
}

func flatSpectrum(v float32) *Spectrum {
	m := make([]float32, 1024)
	for i := range m {
		m[i] = v
	}
	return &Spectrum{Magnitudes: m, SampleRate: 44100}
}

func TestExtractorHoldsWhileInactive(t *testing.T) {
	e := NewExtractor(config.Default().Audio)

	if b := e.Extract(nil, false); b != (components.Bands{}) {
		t.Fatalf("never-started bands should be zero, got %+v", b)
	}

	loud := e.Extract(flatSpectrum(204), true)
	if math.Abs(loud.Low-0.8) > 1e-6 || math.Abs(loud.Mid-0.8) > 1e-6 || math.Abs(loud.High-0.8) > 1e-6 {
		t.Fatalf("unexpected bands %+v", loud)
	}

	// Stopped input keeps the last values, even if a newer spectrum is around
	if b := e.Extract(flatSpectrum(0), false); b != loud {
		t.Errorf("inactive bands changed: %+v", b)
	}
	// Active without a spectrum also holds
	if b := e.Extract(nil, true); b != loud {
		t.Errorf("missing spectrum changed bands: %+v", b)
	}

	e.Reset()
	if b := e.Extract(nil, false); b != (components.Bands{}) {
		t.Errorf("reset bands should be zero, got %+v", b)
	}
}

func TestOnsetCooldown(t *testing.T) {
	o := NewOnsetDetector(config.Default().Audio)
	dt := 1.0 / 60
	loud := components.Bands{Mid: 0.7}

	var fired []int
	for frame := range 60 {
		if o.Update(loud, dt) {
			fired = append(fired, frame)
		}
	}
	want := []int{0, 15, 30, 45}
	if len(fired) != len(want) {
		t.Fatalf("fired on frames %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Fatalf("fired on frames %v, want %v", fired, want)
		}
	}
}

func TestOnsetThresholds(t *testing.T) {
	tests := []struct {
		name  string
		bands components.Bands
		fire  bool
	}{
		{"quiet", components.Bands{Low: 0.5, Mid: 0.5, High: 1}, false},
		{"mid at threshold", components.Bands{Mid: 0.62}, false},
		{"mid above", components.Bands{Mid: 0.63}, true},
		{"low above", components.Bands{Low: 0.71}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := NewOnsetDetector(config.Default().Audio)
			if got := o.Update(tc.bands, 1.0/60); got != tc.fire {
				t.Errorf("Update = %v, want %v", got, tc.fire)
			}
		})
	}
}

func TestSlotMostRecentWins(t *testing.T) {
	var s Slot
	if s.Latest() != nil {
		t.Fatal("empty slot should return nil")
	}
	a, b := flatSpectrum(1), flatSpectrum(2)
	s.Publish(a)
	s.Publish(b)
	if s.Latest() != b {
		t.Error("expected the most recent spectrum")
	}
	s.Reset()
	if s.Latest() != nil {
		t.Error("reset slot should return nil")
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{StateOff: "off", StateOn: "on", StateDenied: "denied"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
