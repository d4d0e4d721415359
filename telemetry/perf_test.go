package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseReactionDiffusion)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseComposite)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.AvgFrame <= 0 {
		t.Error("expected positive average frame duration")
	}
	if stats.PhaseAvg[PhaseReactionDiffusion] <= 0 {
		t.Error("expected reaction_diffusion phase to be tracked")
	}
	if stats.PhaseAvg[PhaseComposite] <= 0 {
		t.Error("expected composite phase to be tracked")
	}
	if stats.PhaseAvg[PhaseParticles] != 0 {
		t.Error("untouched phase should stay at zero")
	}
	if stats.MinFrame > stats.AvgFrame || stats.AvgFrame > stats.MaxFrame {
		t.Errorf("min %v avg %v max %v out of order", stats.MinFrame, stats.AvgFrame, stats.MaxFrame)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseAudio)
		pc.EndFrame()
	}

	if pc.count != 5 {
		t.Errorf("window holds %d samples, want 5", pc.count)
	}
	if pc.Stats().FramesPerSecond <= 0 {
		t.Error("expected positive frames per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhasePaint)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseExport)
		time.Sleep(2 * time.Millisecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseExport] <= stats.PhasePct[PhasePaint] {
		t.Errorf("expected export (%v%%) > paint (%v%%)", stats.PhasePct[PhaseExport], stats.PhasePct[PhasePaint])
	}
	var sum float64
	for _, pct := range stats.PhasePct {
		sum += pct
	}
	if sum > 100.0001 {
		t.Errorf("phase percentages sum to %v", sum)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgFrame != 0 || stats.FramesPerSecond != 0 || stats.FPS != 0 {
		t.Errorf("expected zero stats for empty collector, got %+v", stats)
	}
}

func TestPerfCollector_PresentTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordPresent()
	time.Sleep(16 * time.Millisecond)
	pc.RecordPresent()

	stats := pc.Stats()
	if stats.PresentInterval < 15*time.Millisecond {
		t.Errorf("expected present interval >= 15ms, got %v", stats.PresentInterval)
	}
	// Sleep only guarantees a lower bound
	if stats.FPS <= 0 || stats.FPS > 67 {
		t.Errorf("expected FPS in (0, 67] with 16ms frames, got %v", stats.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	var s PerfStats
	s.AvgFrame = 1500 * time.Microsecond
	s.PhasePct[PhaseComposite] = 62.5
	s.PhasePct[PhaseTelemetry] = 0.5

	row := s.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgFrameUS != 1500 {
		t.Errorf("unexpected row header fields %+v", row)
	}
	if row.CompositePct != 62.5 || row.TelemetryPct != 0.5 || row.AudioPct != 0 {
		t.Errorf("phase columns not mapped: %+v", row)
	}
}

func TestPhaseString(t *testing.T) {
	phases := Phases()
	if len(phases) != 7 {
		t.Fatalf("got %d phases", len(phases))
	}
	if phases[0].String() != "audio" || phases[len(phases)-1].String() != "telemetry" {
		t.Errorf("unexpected phase order %v", phases)
	}
	if Phase(200).String() != "unknown" {
		t.Error("out of range phase should be unknown")
	}
}
