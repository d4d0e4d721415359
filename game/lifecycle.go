package game

import (
	"image"
	"log/slog"
	"math"

	"github.com/pthm-cable/reimyaku/systems"
)

// allocate (re)creates every size-dependent buffer, reseeds the field and respawns the
// particles.
func (g *Game) allocate(w, h int) {
	w, h = max(w, 1), max(h, 1)
	g.ctx.Width, g.ctx.Height = w, h

	scale := g.cfg.ReactionDiffusion.ResolutionScale
	rw := max(int(math.Floor(float64(w)*scale)), 1)
	rh := max(int(math.Floor(float64(h)*scale)), 1)
	g.rd = systems.NewReactionDiffusion(rw, rh, g.pool)
	g.rd.Seed(systems.DefaultSeed(g.cfg.ReactionDiffusion))

	g.layer.Resize(w, h)
	g.frame = image.NewRGBA(image.Rect(0, 0, w, h))
	g.particles.Spawn(systems.ParticleFrameFrom(&g.ctx, g.cfg.Particles, g.compositor.MandalaScale()))
}

// Resize reallocates for a new frame size. Field contents are not carried over; an
// open clip is finalized because its frame size is fixed.
func (g *Game) Resize(w, h int) {
	if w == g.ctx.Width && h == g.ctx.Height {
		return
	}
	if g.recorder.Recording() {
		if err := g.stopRecording(); err != nil {
			slog.Error("failed to stop recording on resize", "error", err)
		}
	}
	g.allocate(w, h)
	slog.Info("resized", "width", g.ctx.Width, "height", g.ctx.Height, "rd_width", g.rd.Width(), "rd_height", g.rd.Height())
}

// ResetField reseeds the reaction-diffusion field.
func (g *Game) ResetField() {
	g.rd.Seed(systems.DefaultSeed(g.cfg.ReactionDiffusion))
}
