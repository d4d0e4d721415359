// Package audio turns live or recorded sound into the three loudness bands that drive the
// simulation. A producer (microphone callback or file pump) analyzes samples into byte-scaled
// spectra and publishes them to a single-slot mailbox; the frame loop reads the latest one.
package audio

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/pthm-cable/reimyaku/components"
	"github.com/pthm-cable/reimyaku/config"
)

// ErrNoInput is returned when no capture device can be opened or access is refused.
var ErrNoInput = errors.New("no audio input available")

// State is the user-visible input state.
type State uint8

const (
	StateOff State = iota
	StateOn
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateOn:
		return "on"
	case StateDenied:
		return "denied"
	}
	return "off"
}

// Spectrum is one analysis result: bin magnitudes on a 0..255 scale covering 0..Nyquist.
// A published Spectrum is never modified.
type Spectrum struct {
	Magnitudes []float32
	SampleRate float64
}

// Slot holds the most recently published spectrum. Publishing replaces it; readers never
// block and never see a partially written spectrum.
type Slot struct {
	p atomic.Pointer[Spectrum]
}

// Publish makes s the latest spectrum.
func (sl *Slot) Publish(s *Spectrum) { sl.p.Store(s) }

// Latest returns the most recent spectrum, or nil if none was published.
func (sl *Slot) Latest() *Spectrum { return sl.p.Load() }

// Reset drops the stored spectrum.
func (sl *Slot) Reset() { sl.p.Store(nil) }

// Source is anything that produces spectra for the frame loop.
type Source interface {
	State() State
	Latest() *Spectrum
	// Advance gives pull-based sources the chance to analyze dt seconds of audio.
	// Push-based sources ignore it.
	Advance(dt float64) error
	Close() error
}

// EnergyIn averages the spectrum between fLo and fHi Hz and normalizes it to [0,1].
// Frequencies map linearly onto bin indices over [0, Nyquist]; the index range is inclusive
// and clamped to the spectrum. An empty spectrum or empty range yields 0.
func EnergyIn(spectrum []float32, sampleRate, fLo, fHi float64) float64 {
	n := len(spectrum)
	if n == 0 || sampleRate <= 0 {
		return 0
	}
	nyq := sampleRate / 2
	toIndex := func(f float64) int {
		return int(math.Floor(f / nyq * float64(n-1)))
	}
	lo := max(toIndex(fLo), 0)
	hi := min(toIndex(min(fHi, nyq)), n-1)
	if hi < lo {
		return 0
	}

	var sum float64
	for _, m := range spectrum[lo : hi+1] {
		sum += float64(m)
	}
	avg := sum / float64(hi-lo+1)
	return min(max(avg/255, 0), 1)
}

// Extractor maps spectra to bands. While the input is inactive it keeps reporting the last
// bands it computed.
type Extractor struct {
	cfg  config.AudioConfig
	last components.Bands
}

// NewExtractor creates an extractor for the configured band ranges.
func NewExtractor(cfg config.AudioConfig) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract returns the bands for this frame.
func (e *Extractor) Extract(s *Spectrum, active bool) components.Bands {
	if !active || s == nil {
		return e.last
	}
	e.last = components.Bands{
		Low:  EnergyIn(s.Magnitudes, s.SampleRate, e.cfg.Low.Lo, e.cfg.Low.Hi),
		Mid:  EnergyIn(s.Magnitudes, s.SampleRate, e.cfg.Mid.Lo, e.cfg.Mid.Hi),
		High: EnergyIn(s.Magnitudes, s.SampleRate, e.cfg.High.Lo, e.cfg.High.Hi),
	}
	return e.last
}

// Reset returns the held bands to silence, used when input is denied.
func (e *Extractor) Reset() {
	e.last = components.Bands{}
}

// OnsetDetector fires when mid or low energy crosses its threshold, at most once per
// cooldown period.
type OnsetDetector struct {
	lowThreshold float64
	midThreshold float64
	cooldown     float64
	remaining    float64
}

// NewOnsetDetector creates a detector from the audio config.
func NewOnsetDetector(cfg config.AudioConfig) *OnsetDetector {
	return &OnsetDetector{
		lowThreshold: cfg.OnsetLow,
		midThreshold: cfg.OnsetMid,
		cooldown:     cfg.OnsetCooldown,
	}
}

// Update reports whether an onset fires this frame. The cooldown only runs down on
// frames that do not fire.
func (o *OnsetDetector) Update(b components.Bands, dt float64) bool {
	if o.remaining <= 0 && (b.Mid > o.midThreshold || b.Low > o.lowThreshold) {
		o.remaining = o.cooldown
		return true
	}
	o.remaining -= dt
	return false
}
