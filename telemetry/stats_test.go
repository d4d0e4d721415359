package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/reimyaku/components"
	"github.com/pthm-cable/reimyaku/config"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeBandStats(t *testing.T) {
	// Unsorted on purpose
	values := []float64{1.0, 0.3, 0.5, 0.1, 0.9, 0.2, 0.7, 0.4, 0.8, 0.6}
	mean, p90 := ComputeBandStats(values)
	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	if math.Abs(p90-0.91) > 0.001 {
		t.Errorf("p90 = %v, want 0.91", p90)
	}
	if values[0] != 1.0 {
		t.Error("input slice was reordered")
	}

	if m, p := ComputeBandStats(nil); m != 0 || p != 0 {
		t.Error("empty input should return zeros")
	}
}

func TestComputeFieldStats(t *testing.T) {
	u := make([]float32, 100)
	v := make([]float32, 100)
	for i := range u {
		u[i] = 1
		v[i] = 0.25
	}
	uMean, uStd, vMean, vStd := ComputeFieldStats(u, v, 7)
	if math.Abs(uMean-1) > 1e-9 || uStd != 0 {
		t.Errorf("u = %v ± %v, want 1 ± 0", uMean, uStd)
	}
	if math.Abs(vMean-0.25) > 1e-9 || vStd != 0 {
		t.Errorf("v = %v ± %v, want 0.25 ± 0", vMean, vStd)
	}

	// Alternating values, stride 1: mean 0.5 and a positive spread
	for i := range v {
		v[i] = float32(i % 2)
	}
	_, _, vMean, vStd = ComputeFieldStats(u, v, 1)
	if math.Abs(vMean-0.5) > 1e-9 || vStd <= 0.4 {
		t.Errorf("alternating v = %v ± %v", vMean, vStd)
	}

	if a, b, c, d := ComputeFieldStats(nil, nil, 3); a != 0 || b != 0 || c != 0 || d != 0 {
		t.Error("empty field should return zeros")
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, 0.1)
	if c.WindowDurationFrames() != 10 {
		t.Fatalf("window is %d frames, want 10", c.WindowDurationFrames())
	}

	var frame int64
	for ; !c.ShouldFlush(frame); frame++ {
		c.Record(FrameSample{
			Bands:    components.Bands{Low: 0.4, Mid: 0.2, High: 0.1},
			Feed:     0.05,
			Kill:     0.06,
			Onset:    frame%5 == 0,
			Respawns: 3,
			Stamps:   100,
		})
	}
	if frame != 10 {
		t.Fatalf("flushed after %d frames", frame)
	}
	c.RecordManualFlash()

	u := []float32{1, 1, 1}
	v := []float32{0, 0, 0}
	s := c.Flush(frame, 1.0, u, v, Settings{Psy: 1.2, Sides: 8, AudioState: "off"})

	if math.Abs(s.LowMean-0.4) > 1e-9 || math.Abs(s.MidMean-0.2) > 1e-9 || math.Abs(s.HighP90-0.1) > 1e-9 {
		t.Errorf("band stats %+v", s)
	}
	if math.Abs(s.FeedMean-0.05) > 1e-9 || math.Abs(s.KillMean-0.06) > 1e-9 {
		t.Errorf("feed/kill means %v %v", s.FeedMean, s.KillMean)
	}
	if s.Onsets != 2 || s.ManualFlashes != 1 || s.Respawns != 30 || s.Stamps != 1000 {
		t.Errorf("event counts %+v", s)
	}
	if s.UMean != 1 || s.VMean != 0 {
		t.Errorf("field means %v %v", s.UMean, s.VMean)
	}
	if math.Abs(s.SimTimeSec-1.0) > 1e-9 || s.Sides != 8 || s.AudioState != "off" {
		t.Errorf("window metadata %+v", s)
	}

	// Next window starts clean
	if c.ShouldFlush(frame + 9) {
		t.Error("new window should not be complete yet")
	}
	s = c.Flush(frame+10, 2.0, u, v, Settings{})
	if s.WindowStartFrame != frame || s.Onsets != 0 || s.LowMean != 0 {
		t.Errorf("collector not reset: %+v", s)
	}
}

func TestOutputManager(t *testing.T) {
	if om, err := NewOutputManager(""); om != nil || err != nil {
		t.Fatalf("empty dir should disable output, got %v %v", om, err)
	}

	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	for i := range 2 {
		if err := om.WriteTelemetry(WindowStats{WindowEndFrame: int64(i+1) * 600}); err != nil {
			t.Fatal(err)
		}
		if err := om.WritePerf(PerfStats{}, int64(i+1)*600); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"telemetry.csv", "perf.csv"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Errorf("%s has %d lines, want header + 2", name, len(lines))
		}
		if !strings.HasPrefix(lines[0], "window_end,") {
			t.Errorf("%s header %q", name, lines[0])
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}
