package audio

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"github.com/pthm-cable/reimyaku/config"
)

// Analyzer keeps the last FFTSize mono samples and turns them into byte-scaled spectra
// the way a browser analyser node does: Blackman window, |X|/N, exponential smoothing
// across analyses, then decibels mapped from [MinDB, MaxDB] onto [0, 255].
//
// An Analyzer is not safe for concurrent use; it belongs to its producer goroutine.
type Analyzer struct {
	size       int
	sampleRate float64
	smoothing  float64
	minDB      float64
	maxDB      float64

	fft    *fourier.FFT
	window []float64

	ring []float64 // circular, pos is the oldest sample
	pos  int

	frame  []float64
	coeffs []complex128
	smooth []float64

	slot *Slot
}

// NewAnalyzer creates an analyzer publishing to slot. sampleRate is the rate of the
// samples that will be written, which may differ from the configured default.
func NewAnalyzer(cfg config.AudioConfig, sampleRate float64, slot *Slot) *Analyzer {
	n := cfg.FFTSize
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return &Analyzer{
		size:       n,
		sampleRate: sampleRate,
		smoothing:  cfg.Smoothing,
		minDB:      cfg.MinDB,
		maxDB:      cfg.MaxDB,
		fft:        fourier.NewFFT(n),
		window:     window.Blackman(w),
		ring:       make([]float64, n),
		frame:      make([]float64, n),
		coeffs:     make([]complex128, n/2+1),
		smooth:     make([]float64, n/2),
		slot:       slot,
	}
}

// Bins returns the number of magnitudes per spectrum.
func (a *Analyzer) Bins() int { return a.size / 2 }

// Write appends samples to the analysis window.
func (a *Analyzer) Write(samples []float32) {
	for _, s := range samples {
		a.push(float64(s))
	}
}

func (a *Analyzer) push(s float64) {
	a.ring[a.pos] = s
	a.pos++
	if a.pos == a.size {
		a.pos = 0
	}
}

// Analyze computes a spectrum from the current window, publishes it and returns it.
func (a *Analyzer) Analyze() *Spectrum {
	for i := range a.frame {
		a.frame[i] = a.ring[(a.pos+i)%a.size] * a.window[i]
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.frame)

	out := &Spectrum{
		Magnitudes: make([]float32, len(a.smooth)),
		SampleRate: a.sampleRate,
	}
	span := a.maxDB - a.minDB
	inv := 1 / float64(a.size)
	for k := range a.smooth {
		mag := cmplx.Abs(a.coeffs[k]) * inv
		a.smooth[k] = a.smoothing*a.smooth[k] + (1-a.smoothing)*mag
		db := 20 * math.Log10(a.smooth[k])
		v := 255 * (db - a.minDB) / span
		out.Magnitudes[k] = float32(min(max(v, 0), 255))
	}

	if a.slot != nil {
		a.slot.Publish(out)
	}
	return out
}
