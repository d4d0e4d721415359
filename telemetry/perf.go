package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one stage of the frame pipeline.
type Phase uint8

const (
	PhaseAudio Phase = iota
	PhaseReactionDiffusion
	PhaseParticles
	PhasePaint
	PhaseComposite
	PhaseExport
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"audio", "reaction_diffusion", "particles", "paint", "composite", "export", "telemetry",
}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// Phases lists every pipeline phase in execution order.
func Phases() []Phase {
	out := make([]Phase, numPhases)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	Frame  time.Duration
	Phases [numPhases]time.Duration
}

// PerfCollector tracks per-phase frame timings over a rolling window.
type PerfCollector struct {
	samples []PerfSample
	next    int
	count   int

	cur        PerfSample
	frameStart time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	// Presentation timing (windowed mode)
	lastPresent     time.Time
	presentInterval time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{samples: make([]PerfSample, windowSize)}
}

// StartFrame begins timing a frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.cur = PerfSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	if p.inPhase {
		p.cur.Phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.phase = ph
	p.inPhase = true
}

// EndFrame closes the running phase and records the frame.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.inPhase {
		p.cur.Phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
	p.cur.Frame = now.Sub(p.frameStart)

	p.samples[p.next] = p.cur
	p.next = (p.next + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
}

// RecordPresent marks a frame shown on screen; the interval between calls gives the FPS.
func (p *PerfCollector) RecordPresent() {
	now := time.Now()
	if !p.lastPresent.IsZero() {
		p.presentInterval = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrame time.Duration
	MinFrame time.Duration
	MaxFrame time.Duration

	// Per-phase average duration and share of the average frame
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	// Simulation throughput if frames ran back to back
	FramesPerSecond float64

	PresentInterval time.Duration
	FPS             float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	var s PerfStats
	s.PresentInterval = p.presentInterval
	if p.presentInterval > 0 {
		s.FPS = float64(time.Second) / float64(p.presentInterval)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [numPhases]time.Duration
	for i, smp := range p.samples[:p.count] {
		total += smp.Frame
		if i == 0 || smp.Frame < s.MinFrame {
			s.MinFrame = smp.Frame
		}
		s.MaxFrame = max(s.MaxFrame, smp.Frame)
		for ph, d := range smp.Phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.count)
	s.AvgFrame = total / n
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgFrame > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgFrame) * 100
		}
	}
	if s.AvgFrame > 0 {
		s.FramesPerSecond = float64(time.Second) / float64(s.AvgFrame)
	}
	return s
}

// LogStats logs the window summary, skipping phases below 0.1%.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrame.Microseconds(),
		"min_frame_us", s.MinFrame.Microseconds(),
		"max_frame_us", s.MaxFrame.Microseconds(),
		"frames_per_sec", int(s.FramesPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, Phase(ph).String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
		slog.Float64("frames_per_sec", s.FramesPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the flat perf.csv row.
type PerfStatsCSV struct {
	WindowEnd            int64   `csv:"window_end"`
	AvgFrameUS           int64   `csv:"avg_frame_us"`
	MinFrameUS           int64   `csv:"min_frame_us"`
	MaxFrameUS           int64   `csv:"max_frame_us"`
	FramesPerSec         float64 `csv:"frames_per_sec"`
	FPS                  float64 `csv:"fps"`
	AudioPct             float64 `csv:"audio_pct"`
	ReactionDiffusionPct float64 `csv:"reaction_diffusion_pct"`
	ParticlesPct         float64 `csv:"particles_pct"`
	PaintPct             float64 `csv:"paint_pct"`
	CompositePct         float64 `csv:"composite_pct"`
	ExportPct            float64 `csv:"export_pct"`
	TelemetryPct         float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for perf.csv.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:            windowEnd,
		AvgFrameUS:           s.AvgFrame.Microseconds(),
		MinFrameUS:           s.MinFrame.Microseconds(),
		MaxFrameUS:           s.MaxFrame.Microseconds(),
		FramesPerSec:         s.FramesPerSecond,
		FPS:                  s.FPS,
		AudioPct:             s.PhasePct[PhaseAudio],
		ReactionDiffusionPct: s.PhasePct[PhaseReactionDiffusion],
		ParticlesPct:         s.PhasePct[PhaseParticles],
		PaintPct:             s.PhasePct[PhasePaint],
		CompositePct:         s.PhasePct[PhaseComposite],
		ExportPct:            s.PhasePct[PhaseExport],
		TelemetryPct:         s.PhasePct[PhaseTelemetry],
	}
}
