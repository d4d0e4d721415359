package game

import (
	"log/slog"

	"github.com/pthm-cable/reimyaku/telemetry"
)

// flushTelemetry closes the stats window when it is complete.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.ctx.Frame) {
		return
	}

	grid := g.rd.Current()
	stats := g.collector.Flush(g.ctx.Frame, g.ctx.Time, grid.U, grid.V, telemetry.Settings{
		Psy:        g.ctx.Psy,
		Sides:      g.ctx.Sides,
		Posterize:  g.ctx.Posterize,
		Palette:    g.ctx.Palette.Index,
		Scheme:     g.ctx.Palette.Scheme.String(),
		AudioState: g.sourceState.String(),
	})
	perfStats := g.perf.Stats()

	if g.onStats != nil {
		g.onStats(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.output.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
