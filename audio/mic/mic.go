// Package mic captures the default input device through PortAudio. It is the only
// package that needs the PortAudio C library.
package mic

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/pthm-cable/reimyaku/audio"
	"github.com/pthm-cable/reimyaku/config"
)

// framesPerBuffer is the capture callback size; one spectrum is analyzed per callback.
const framesPerBuffer = 1024

// Source captures the default input device. The PortAudio callback feeds the analyzer
// and publishes spectra; the frame loop only reads the slot.
type Source struct {
	cfg config.AudioConfig

	mu          sync.Mutex
	state       audio.State
	initialized bool
	stream      *portaudio.Stream
	analyzer    *audio.Analyzer
	slot        audio.Slot
}

// New creates a stopped microphone source.
func New(cfg config.AudioConfig) *Source {
	return &Source{cfg: cfg}
}

// State returns the current input state.
func (m *Source) State() audio.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Latest returns the latest spectrum.
func (m *Source) Latest() *audio.Spectrum { return m.slot.Latest() }

// Advance is a no-op; the capture callback drives analysis.
func (m *Source) Advance(float64) error { return nil }

// Start opens and starts the default input stream. On failure the state becomes
// audio.StateDenied and the error wraps audio.ErrNoInput.
func (m *Source) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == audio.StateOn {
		return nil
	}

	if !m.initialized {
		if err := portaudio.Initialize(); err != nil {
			m.state = audio.StateDenied
			return fmt.Errorf("%w: initializing portaudio: %v", audio.ErrNoInput, err)
		}
		m.initialized = true
	}

	m.analyzer = audio.NewAnalyzer(m.cfg, m.cfg.SampleRate, &m.slot)
	analyzer := m.analyzer
	stream, err := portaudio.OpenDefaultStream(1, 0, m.cfg.SampleRate, framesPerBuffer, func(in []float32) {
		analyzer.Write(in)
		analyzer.Analyze()
	})
	if err != nil {
		m.state = audio.StateDenied
		return fmt.Errorf("%w: opening input stream: %v", audio.ErrNoInput, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		m.state = audio.StateDenied
		return fmt.Errorf("%w: starting input stream: %v", audio.ErrNoInput, err)
	}

	m.stream = stream
	m.state = audio.StateOn
	slog.Info("microphone started", "sample_rate", m.cfg.SampleRate, "fft_size", m.cfg.FFTSize)
	return nil
}

// Stop stops capturing. The last published spectrum stays readable.
func (m *Source) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

func (m *Source) stopLocked() error {
	if m.stream == nil {
		if m.state == audio.StateOn {
			m.state = audio.StateOff
		}
		return nil
	}
	err := m.stream.Stop()
	if cerr := m.stream.Close(); err == nil {
		err = cerr
	}
	m.stream = nil
	m.state = audio.StateOff
	if err != nil {
		return fmt.Errorf("stopping input stream: %w", err)
	}
	return nil
}

// Toggle starts a stopped (or denied) microphone and stops a running one.
func (m *Source) Toggle() error {
	if m.State() == audio.StateOn {
		return m.Stop()
	}
	return m.Start()
}

// Close stops capture and releases PortAudio.
func (m *Source) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.stopLocked()
	if m.initialized {
		if terr := portaudio.Terminate(); err == nil && terr != nil {
			err = fmt.Errorf("terminating portaudio: %w", terr)
		}
		m.initialized = false
	}
	return err
}

var _ audio.Source = (*Source)(nil)
