// Package game wires audio, reaction-diffusion, particles and the kaleidoscope compositor
// into one frame loop. It has no windowing dependency; the ui package drives it
// interactively and main drives it headless.
package game

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/pthm-cable/reimyaku/audio"
	"github.com/pthm-cable/reimyaku/components"
	"github.com/pthm-cable/reimyaku/config"
	"github.com/pthm-cable/reimyaku/export"
	"github.com/pthm-cable/reimyaku/palette"
	"github.com/pthm-cable/reimyaku/renderer"
	"github.com/pthm-cable/reimyaku/systems"
	"github.com/pthm-cable/reimyaku/telemetry"
)

// DT is the fixed frame step used by headless runs.
const DT = 1.0 / 60.0

// Options configures a Game beyond the loaded config.
type Options struct {
	Width, Height int    // frame size; 0 uses the configured screen size
	Seed          uint64 // particle seed unless particles.seed is set
	Workers       int    // 0 = GOMAXPROCS

	LogStats       bool
	StatsWindowSec float64 // 0 = telemetry.stats_window
	OutputDir      string  // telemetry CSVs and config.yaml; empty disables

	// Source is the initial audio source; the game takes ownership of it.
	Source audio.Source

	// OnStats is called with every flushed telemetry window.
	OnStats func(telemetry.WindowStats)
}

// Game holds the complete renderer state.
type Game struct {
	cfg  *config.Config
	pool *systems.Pool
	ctx  components.SimulationContext

	rd         *systems.ReactionDiffusion
	particles  *systems.ParticleField
	layer      *renderer.Layer
	compositor *renderer.Compositor
	frame      *image.RGBA
	aberration float64

	// Last frame's derived values, for Inspect.
	lastRD       systems.RDParams
	lastRespawns int
	lastStamps   int

	source      audio.Source
	sourceState audio.State
	extractor   *audio.Extractor
	onset       *audio.OnsetDetector

	recorder *export.Recorder

	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool
	onStats   func(telemetry.WindowStats)
}

// New builds a game and allocates every buffer for the initial frame size.
// A missing worker pool or invalid compositor settings are fatal.
func New(cfg *config.Config, opts Options) (*Game, error) {
	pool, err := systems.NewPool(opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	comp, err := renderer.NewCompositor(cfg.Kaleido, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g := &Game{
		cfg:        cfg,
		pool:       pool,
		compositor: comp,
		particles:  systems.NewParticleField(cfg.Particles, pool, opts.Seed),
		layer:      renderer.NewLayer(1, 1),
		source:     opts.Source,
		extractor:  audio.NewExtractor(cfg.Audio),
		onset:      audio.NewOnsetDetector(cfg.Audio),
		recorder:   export.NewRecorder(cfg.Export),
		perf:       telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:  telemetry.NewCollector(statsWindow, DT),
		output:     output,
		logStats:   opts.LogStats,
		onStats:    opts.OnStats,
	}
	if g.source != nil {
		g.sourceState = g.source.State()
	}

	g.ctx = components.SimulationContext{
		Palette: palette.State{
			Sets:   cfg.Derived.Anchors,
			Scheme: cfg.Derived.Scheme,
		},
		Psy:          cfg.Psy.Initial,
		Sides:        cfg.Kaleido.Sides,
		Posterize:    cfg.Posterize.Initial,
		InjectRadius: cfg.ReactionDiffusion.InjectRadius,
		RenderScale:  cfg.Screen.RenderScale,
		Pointer:      components.Pointer{Pos: components.Vec2{X: 0.5, Y: 0.5}},
	}
	g.aberration = cfg.Kaleido.Aberration

	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = cfg.Screen.Width, cfg.Screen.Height
	}
	g.allocate(w, h)

	slog.Info("game created",
		"width", w,
		"height", h,
		"rd_width", g.rd.Width(),
		"rd_height", g.rd.Height(),
		"particles", g.particles.Len(),
		"workers", pool.Workers(),
	)
	return g, nil
}

// Frame returns the most recently composited frame. It is overwritten by the next Update.
func (g *Game) Frame() *image.RGBA { return g.frame }

// FrameIndex returns the number of completed frames.
func (g *Game) FrameIndex() int64 { return g.ctx.Frame }

// Context returns a copy of the frame-global state.
func (g *Game) Context() components.SimulationContext { return g.ctx }

// Field returns the reaction-diffusion field.
func (g *Game) Field() *systems.ReactionDiffusion { return g.rd }

// Perf returns the frame timing collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perf }

// Status is the HUD summary of the current settings.
type Status struct {
	Audio     audio.State
	Bands     components.Bands
	Psy       float64
	Sides     int
	Posterize int
	Palette   int
	Scheme    palette.Scheme
	Recording bool
	Frame     int64
}

// Status returns the current HUD values.
func (g *Game) Status() Status {
	return Status{
		Audio:     g.sourceState,
		Bands:     g.ctx.Bands,
		Psy:       g.ctx.Psy,
		Sides:     g.ctx.Sides,
		Posterize: g.ctx.Posterize,
		Palette:   g.ctx.Palette.Index,
		Scheme:    g.ctx.Palette.Scheme,
		Recording: g.recorder.Recording(),
		Frame:     g.ctx.Frame,
	}
}

// SetPointer records the pointer for the next frame. Position is normalized to the frame.
func (g *Game) SetPointer(p components.Pointer) {
	g.ctx.Pointer = p
}

// SetAudioSource replaces the audio source, closing the previous one.
func (g *Game) SetAudioSource(s audio.Source) {
	if g.source != nil && g.source != s {
		if err := g.source.Close(); err != nil {
			slog.Warn("failed to close audio source", "error", err)
		}
	}
	g.source = s
	state := audio.StateOff
	if s != nil {
		state = s.State()
	}
	// A source that arrives denied never changes state in updateAudio.
	if state == audio.StateDenied {
		g.extractor.Reset()
	}
	g.sourceState = state
}

// Close finalizes any clip in progress and releases the audio source, output files and
// worker pool.
func (g *Game) Close() {
	if g.recorder.Recording() {
		if err := g.stopRecording(); err != nil {
			slog.Error("failed to stop recording", "error", err)
		}
	}
	if g.source != nil {
		if err := g.source.Close(); err != nil {
			slog.Warn("failed to close audio source", "error", err)
		}
		g.source = nil
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.pool.Close()
}
