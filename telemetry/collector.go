package telemetry

import (
	"math"

	"github.com/pthm-cable/reimyaku/components"
)

// fieldStride subsamples the field when computing window moments.
const fieldStride = 7

// FrameSample is what the orchestrator reports after each frame.
type FrameSample struct {
	Bands     components.Bands
	Feed      float64
	Kill      float64
	InjectAmt float64
	Onset     bool
	Respawns  int
	Stamps    int
}

// Settings are the user-controlled look settings reported with each window.
type Settings struct {
	Psy        float64
	Sides      int
	Posterize  int
	Palette    int
	Scheme     string
	AudioState string
}

// Collector accumulates frame samples within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec    float64
	windowDurationFrames int64

	windowStartFrame int64

	low, mid, high []float64
	feedSum        float64
	killSum        float64
	injectSum      float64
	frames         int

	onsets        int
	manualFlashes int
	respawns      int
	stamps        int
}

// NewCollector creates a collector whose windows span windowDurationSec at the nominal
// dt seconds per frame.
func NewCollector(windowDurationSec, dt float64) *Collector {
	frames := int64(math.Round(windowDurationSec / dt))
	if frames < 1 {
		frames = 1
	}
	return &Collector{
		windowDurationSec:    windowDurationSec,
		windowDurationFrames: frames,
	}
}

// Record adds one frame.
func (c *Collector) Record(s FrameSample) {
	c.low = append(c.low, s.Bands.Low)
	c.mid = append(c.mid, s.Bands.Mid)
	c.high = append(c.high, s.Bands.High)
	c.feedSum += s.Feed
	c.killSum += s.Kill
	c.injectSum += s.InjectAmt
	c.frames++
	if s.Onset {
		c.onsets++
	}
	c.respawns += s.Respawns
	c.stamps += s.Stamps
}

// RecordManualFlash counts a user-triggered flash.
func (c *Collector) RecordManualFlash() {
	c.manualFlashes++
}

// ShouldFlush reports whether the window ending at frame is complete.
func (c *Collector) ShouldFlush(frame int64) bool {
	return frame-c.windowStartFrame >= c.windowDurationFrames
}

// Flush produces the stats for the window ending at frame and starts a new window.
// simTime is the simulation clock at frame; u and v are the current field channels.
func (c *Collector) Flush(frame int64, simTime float64, u, v []float32, set Settings) WindowStats {
	s := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   frame,
		SimTimeSec:       simTime,

		Onsets:        c.onsets,
		ManualFlashes: c.manualFlashes,
		Respawns:      c.respawns,
		Stamps:        c.stamps,

		Psy:        set.Psy,
		Sides:      set.Sides,
		Posterize:  set.Posterize,
		Palette:    set.Palette,
		Scheme:     set.Scheme,
		AudioState: set.AudioState,
	}
	s.LowMean, s.LowP90 = ComputeBandStats(c.low)
	s.MidMean, s.MidP90 = ComputeBandStats(c.mid)
	s.HighMean, s.HighP90 = ComputeBandStats(c.high)
	if c.frames > 0 {
		n := float64(c.frames)
		s.FeedMean = c.feedSum / n
		s.KillMean = c.killSum / n
		s.InjectMean = c.injectSum / n
	}
	s.UMean, s.UStd, s.VMean, s.VStd = ComputeFieldStats(u, v, fieldStride)

	c.windowStartFrame = frame
	c.low = c.low[:0]
	c.mid = c.mid[:0]
	c.high = c.high[:0]
	c.feedSum, c.killSum, c.injectSum = 0, 0, 0
	c.frames = 0
	c.onsets, c.manualFlashes, c.respawns, c.stamps = 0, 0, 0, 0
	return s
}

// WindowDurationFrames returns the number of frames per window.
func (c *Collector) WindowDurationFrames() int64 {
	return c.windowDurationFrames
}
