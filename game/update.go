package game

import (
	"log/slog"

	"github.com/pthm-cable/reimyaku/audio"
	"github.com/pthm-cable/reimyaku/renderer"
	"github.com/pthm-cable/reimyaku/systems"
	"github.com/pthm-cable/reimyaku/telemetry"
)

// Update advances one frame covering dt seconds and composites the result into Frame.
// Commands, pointer and resize changes must happen between calls.
func (g *Game) Update(dt float64) {
	g.perf.StartFrame()
	ctx := &g.ctx
	ctx.DT = dt
	cfg := g.cfg

	g.perf.StartPhase(telemetry.PhaseAudio)
	g.decayFlash(dt)
	onset := g.updateAudio(dt)

	g.perf.StartPhase(telemetry.PhaseReactionDiffusion)
	rdp := systems.RDParamsFrom(cfg.ReactionDiffusion, ctx.Bands, ctx.Pointer, ctx.InjectRadius)
	g.rd.Step(rdp)
	g.rd.Swap()

	g.perf.StartPhase(telemetry.PhaseParticles)
	pf := systems.ParticleFrameFrom(ctx, cfg.Particles, g.compositor.MandalaScale())
	respawns := g.particles.Step(pf)

	g.perf.StartPhase(telemetry.PhasePaint)
	stamps := renderer.PaintParticles(g.layer, g.particles.Particles(), cfg.Particles.FadeAlpha, ctx.PixelScale())

	g.perf.StartPhase(telemetry.PhaseComposite)
	ctx.Palette.Advance(dt, ctx.Bands.Mid, ctx.Psy)
	spin := cfg.Kaleido.SpinRate + cfg.Kaleido.SpinLowGain*ctx.Bands.Low
	if ctx.Sides%2 == 0 {
		spin = -spin
	}
	ctx.Spin += spin
	g.aberration = cfg.Kaleido.Aberration * (1 + 1.4*ctx.Psy + ctx.Bands.High)
	if err := g.compositor.Render(g.frame, g.rd, g.layer, g.compositeParams()); err != nil {
		slog.Error("composite failed", "error", err)
	}

	g.perf.StartPhase(telemetry.PhaseExport)
	g.captureFrame(dt)

	ctx.Frame++
	ctx.Time += dt

	g.lastRD, g.lastRespawns, g.lastStamps = rdp, respawns, stamps

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Record(telemetry.FrameSample{
		Bands:     ctx.Bands,
		Feed:      rdp.F,
		Kill:      rdp.K,
		InjectAmt: rdp.InjectAmt,
		Onset:     onset,
		Respawns:  respawns,
		Stamps:    stamps,
	})
	g.flushTelemetry()

	g.perf.EndFrame()
}

// updateAudio advances the source, commits this frame's bands and reports whether an
// onset fired.
func (g *Game) updateAudio(dt float64) bool {
	ctx := &g.ctx
	var snap *audio.Spectrum
	state := audio.StateOff
	if g.source != nil {
		if err := g.source.Advance(dt); err != nil {
			slog.Warn("audio source failed", "error", err)
		}
		state = g.source.State()
		snap = g.source.Latest()
	}
	if state != g.sourceState {
		slog.Info("audio state changed", "from", g.sourceState.String(), "to", state.String())
		if state == audio.StateDenied {
			g.extractor.Reset()
		}
		g.sourceState = state
	}

	ctx.AudioActive = state == audio.StateOn
	ctx.Bands = g.extractor.Extract(snap, ctx.AudioActive)
	if !ctx.AudioActive {
		return false
	}
	if g.onset.Update(ctx.Bands, dt) {
		g.flash(g.cfg.Audio.FlashStrength)
		return true
	}
	return false
}

// flash widens the injection radius for the configured duration.
func (g *Game) flash(strength float64) {
	rd := g.cfg.ReactionDiffusion
	g.ctx.InjectRadius = rd.InjectRadius + rd.FlashRadiusGain*strength
	g.ctx.FlashLeft = g.cfg.Audio.FlashDuration
}

func (g *Game) decayFlash(dt float64) {
	if g.ctx.FlashLeft <= 0 {
		return
	}
	g.ctx.FlashLeft -= dt
	if g.ctx.FlashLeft <= 0 {
		g.ctx.FlashLeft = 0
		g.ctx.InjectRadius = g.cfg.ReactionDiffusion.InjectRadius
	}
}

func (g *Game) compositeParams() renderer.CompositeParams {
	return renderer.CompositeParams{
		Sides:      g.ctx.Sides,
		Spin:       g.ctx.Spin,
		Aberration: g.aberration,
		Psy:        g.ctx.Psy,
		Posterize:  g.ctx.Posterize,
		HueBase:    g.ctx.Palette.HueBase,
		Scheme:     g.ctx.Palette.Scheme,
		Anchors:    g.ctx.Palette.Active(),
	}
}
