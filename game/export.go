package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/reimyaku/export"
)

// SavePNG writes the current frame as a still and returns its path.
func (g *Game) SavePNG() (string, error) {
	ex := g.cfg.Export
	path, err := export.SavePNG(ex.Dir, ex.StillPrefix, g.ctx.Frame, g.frame)
	if err != nil {
		return "", fmt.Errorf("saving still: %w", err)
	}
	slog.Info("still saved", "path", path, "frame", g.ctx.Frame)
	return path, nil
}

// ToggleRecording starts a clip at the current frame size, or finalizes the open one.
func (g *Game) ToggleRecording() error {
	if g.recorder.Recording() {
		return g.stopRecording()
	}
	path, err := g.recorder.Start(g.ctx.Width, g.ctx.Height)
	if err != nil {
		return fmt.Errorf("starting recording: %w", err)
	}
	slog.Info("recording started", "path", path)
	return nil
}

// Recording reports whether a clip is open.
func (g *Game) Recording() bool { return g.recorder.Recording() }

func (g *Game) stopRecording() error {
	path, frames, err := g.recorder.Stop()
	if err != nil {
		return fmt.Errorf("finalizing recording %s: %w", path, err)
	}
	slog.Info("recording stopped", "path", path, "frames", frames)
	return nil
}

// captureFrame hands the composited frame to an open clip. A failing clip is closed so
// the frame loop is not disturbed again.
func (g *Game) captureFrame(dt float64) {
	if !g.recorder.Recording() {
		return
	}
	if err := g.recorder.Capture(g.frame, dt); err != nil {
		if serr := g.stopRecording(); serr != nil {
			err = errors.Join(err, serr)
		}
		slog.Error("failed to capture frame", "error", err)
	}
}
