package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/reimyaku/audio"
	"github.com/pthm-cable/reimyaku/audio/mic"
	"github.com/pthm-cable/reimyaku/camera"
	"github.com/pthm-cable/reimyaku/config"
	"github.com/pthm-cable/reimyaku/game"
	"github.com/pthm-cable/reimyaku/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Render without a window at a fixed 1/60 s step")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Uint64("seed", 0, "Particle seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N frames (0 = unlimited)")
	audioFile := flag.String("audio-file", "", "WAV file driving the audio bands instead of the microphone")
	saveLast := flag.Bool("save-last", false, "Save the final frame as PNG on exit")
	record := flag.Bool("record", false, "Record an MJPEG clip from the first frame")
	workers := flag.Int("workers", 0, "Worker goroutines (0 = GOMAXPROCS)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	var source audio.Source
	if *audioFile != "" {
		src, err := audio.OpenFile(cfg.Audio, *audioFile)
		if err != nil {
			slog.Error("failed to open audio file", "path", *audioFile, "error", err)
			os.Exit(1)
		}
		source = src
	} else if !*headless {
		source = mic.New(cfg.Audio)
	}

	opts := game.Options{
		Seed:           rngSeed,
		Workers:        *workers,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Source:         source,
	}
	opts.Width, opts.Height = camera.FrameSize(cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.RenderScale)

	if *headless {
		runHeadless(cfg, opts, *maxTicks, *saveLast, *record)
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Reimyaku")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	v := ui.NewViewer(g, cfg.Screen.RenderScale)
	defer v.Close()

	if *record {
		if err := g.ToggleRecording(); err != nil {
			slog.Error("failed to start recording", "error", err)
		}
	}
	slog.Info("starting", "seed", rngSeed, "max_ticks", *maxTicks)
	v.Run(*maxTicks)

	if *saveLast {
		if _, err := g.SavePNG(); err != nil {
			slog.Error("failed to save last frame", "error", err)
			g.Close()
			os.Exit(1)
		}
	}
}

// runHeadless steps the game at a fixed dt without a window.
func runHeadless(cfg *config.Config, opts game.Options, maxTicks int64, saveLast, record bool) {
	g, err := game.New(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	if maxTicks <= 0 {
		slog.Warn("headless run without -max-ticks runs until interrupted")
	}
	if record {
		if err := g.ToggleRecording(); err != nil {
			slog.Error("failed to start recording", "error", err)
		}
	}

	slog.Info("starting headless render",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"audio", opts.Source != nil,
	)

	start := time.Now()
	for maxTicks <= 0 || g.FrameIndex() < maxTicks {
		g.Update(game.DT)
	}
	slog.Info("max ticks reached", "frame", g.FrameIndex(), "elapsed", time.Since(start).String())

	if saveLast {
		if _, err := g.SavePNG(); err != nil {
			slog.Error("failed to save last frame", "error", err)
			g.Close()
			os.Exit(1)
		}
	}
}
