package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/pthm-cable/reimyaku/config"
)

// sine is an endless beep streamer, or a finite one when limit > 0.
type sine struct {
	freq, amp float64
	rate      beep.SampleRate
	pos       int
	limit     int
}

func (s *sine) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if s.limit > 0 && s.pos >= s.limit {
			return i, i > 0
		}
		v := s.amp * math.Sin(2*math.Pi*s.freq*float64(s.pos)/float64(s.rate))
		samples[i] = [2]float64{v, v}
		s.pos++
	}
	return len(samples), true
}

func (s *sine) Err() error { return nil }

func sineSamples(freq, amp, rate float64, start, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(start+i)/rate))
	}
	return out
}

func TestAnalyzerSilence(t *testing.T) {
	var slot Slot
	a := NewAnalyzer(config.Default().Audio, 44100, &slot)
	a.Write(make([]float32, 4096))
	s := a.Analyze()

	if len(s.Magnitudes) != 1024 || a.Bins() != 1024 {
		t.Fatalf("expected 1024 bins, got %d", len(s.Magnitudes))
	}
	for i, m := range s.Magnitudes {
		if m != 0 {
			t.Fatalf("bin %d = %v for silence", i, m)
		}
	}
	if slot.Latest() != s {
		t.Error("analysis was not published")
	}
}

func TestAnalyzerLowTone(t *testing.T) {
	cfg := config.Default().Audio
	a := NewAnalyzer(cfg, 44100, nil)

	pos := 0
	var s *Spectrum
	for range 40 {
		a.Write(sineSamples(100, 0.5, 44100, pos, 735))
		pos += 735
		s = a.Analyze()
	}

	e := NewExtractor(cfg)
	b := e.Extract(s, true)
	if b.Low < 0.4 {
		t.Errorf("low band %v too quiet for a 100 Hz tone", b.Low)
	}
	if b.Mid >= b.Low {
		t.Errorf("mid band %v should be below low band %v", b.Mid, b.Low)
	}
	if b.High > 0.05 {
		t.Errorf("high band %v should be near zero", b.High)
	}
}

func TestAnalyzerSmoothingRisesGradually(t *testing.T) {
	a := NewAnalyzer(config.Default().Audio, 44100, nil)
	tone := sineSamples(1000, 0.001, 44100, 0, 2048)

	// 1000 Hz is bin 46.4
	a.Write(tone)
	first := a.Analyze().Magnitudes[46]
	a.Write(tone)
	second := a.Analyze().Magnitudes[46]
	if !(second > first) {
		t.Errorf("smoothed magnitude should rise: %v then %v", first, second)
	}
}

func TestStreamSourceDeterministic(t *testing.T) {
	cfg := config.Default().Audio
	run := func() []float32 {
		src := NewStreamSource(cfg, &sine{freq: 440, amp: 0.4, rate: 44100}, 44100)
		for range 20 {
			if err := src.Advance(1.0 / 60); err != nil {
				t.Fatal(err)
			}
		}
		return src.Latest().Magnitudes
	}
	if !slices.Equal(run(), run()) {
		t.Error("identical input produced different spectra")
	}
}

func TestStreamSourceExhausts(t *testing.T) {
	src := NewStreamSource(config.Default().Audio, &sine{freq: 440, amp: 0.4, rate: 44100, limit: 1000}, 44100)
	if src.State() != StateOn {
		t.Fatal("new source should be on")
	}
	for range 3 {
		if err := src.Advance(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	if src.State() != StateOff {
		t.Errorf("exhausted source state %v", src.State())
	}
	if src.Latest() == nil {
		t.Error("exhausted source should keep its last spectrum")
	}
	if err := src.Close(); err != nil {
		t.Error(err)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: 22050, NumChannels: 1, Precision: 2}
	tone := beep.Take(11025, &sine{freq: 100, amp: 0.5, rate: 22050})
	if err := wav.Encode(f, tone, format); err != nil {
		t.Fatal(err)
	}
	f.Close()

	cfg := config.Default().Audio
	src, err := OpenFile(cfg, path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	for range 12 {
		if err := src.Advance(1.0 / 30); err != nil {
			t.Fatal(err)
		}
	}
	s := src.Latest()
	if s == nil || s.SampleRate != 22050 {
		t.Fatalf("unexpected spectrum %+v", s)
	}
	b := NewExtractor(cfg).Extract(s, true)
	if b.Low <= b.High {
		t.Errorf("expected a low-heavy tone, got %+v", b)
	}
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(config.Default().Audio, filepath.Join(t.TempDir(), "nope.wav"))
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("expected ErrNoInput, got %v", err)
	}
}
