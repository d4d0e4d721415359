package audio

import (
	"fmt"
	"math"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/pthm-cable/reimyaku/config"
)

// StreamSource pulls audio from a beep streamer at simulation pace: each Advance consumes
// exactly dt seconds of samples, so headless runs see the same bands on every run.
type StreamSource struct {
	streamer beep.Streamer
	closer   func() error
	rate     beep.SampleRate

	analyzer *Analyzer
	slot     Slot
	buf      [][2]float64
	mono     []float32
	carry    float64 // fractional samples owed from previous frames
	state    State
}

// NewStreamSource wraps an already decoded streamer. The source is on until the streamer
// is exhausted.
func NewStreamSource(cfg config.AudioConfig, s beep.Streamer, rate beep.SampleRate) *StreamSource {
	src := &StreamSource{
		streamer: s,
		rate:     rate,
		state:    StateOn,
	}
	src.analyzer = NewAnalyzer(cfg, float64(rate), &src.slot)
	return src
}

// OpenFile decodes a WAV file as a stream source.
func OpenFile(cfg config.AudioConfig, path string) (*StreamSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoInput, err)
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrNoInput, path, err)
	}
	src := NewStreamSource(cfg, s, format.SampleRate)
	src.closer = s.Close
	return src, nil
}

// State returns StateOn while samples remain.
func (s *StreamSource) State() State { return s.state }

// Latest returns the latest spectrum.
func (s *StreamSource) Latest() *Spectrum { return s.slot.Latest() }

// Advance feeds dt seconds of audio through the analyzer and publishes one spectrum.
func (s *StreamSource) Advance(dt float64) error {
	if s.state != StateOn {
		return nil
	}
	want := float64(s.rate)*dt + s.carry
	n := int(math.Floor(want))
	s.carry = want - float64(n)
	if n == 0 {
		return nil
	}

	if cap(s.buf) < n {
		s.buf = make([][2]float64, n)
		s.mono = make([]float32, n)
	}
	buf := s.buf[:n]

	got := 0
	for got < n {
		k, ok := s.streamer.Stream(buf[got:])
		got += k
		if !ok {
			s.state = StateOff
			break
		}
		if k == 0 {
			break
		}
	}
	if err := s.streamer.Err(); err != nil {
		s.state = StateOff
		return fmt.Errorf("reading audio stream: %w", err)
	}

	mono := s.mono[:got]
	for i := range mono {
		mono[i] = float32((buf[i][0] + buf[i][1]) * 0.5)
	}
	s.analyzer.Write(mono)
	s.analyzer.Analyze()
	return nil
}

// Close releases the underlying file, if any.
func (s *StreamSource) Close() error {
	s.state = StateOff
	if s.closer == nil {
		return nil
	}
	err := s.closer()
	s.closer = nil
	return err
}
