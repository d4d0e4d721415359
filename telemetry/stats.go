package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`

	// Audio bands over the window
	LowMean  float64 `csv:"low_mean"`
	LowP90   float64 `csv:"low_p90"`
	MidMean  float64 `csv:"mid_mean"`
	MidP90   float64 `csv:"mid_p90"`
	HighMean float64 `csv:"high_mean"`
	HighP90  float64 `csv:"high_p90"`

	// Gray-Scott parameters actually used
	FeedMean   float64 `csv:"feed_mean"`
	KillMean   float64 `csv:"kill_mean"`
	InjectMean float64 `csv:"inject_mean"`

	// Events during the window
	Onsets        int `csv:"onsets"`
	ManualFlashes int `csv:"manual_flashes"`
	Respawns      int `csv:"respawns"`
	Stamps        int `csv:"stamps"`

	// Field moments at window end
	UMean float64 `csv:"u_mean"`
	UStd  float64 `csv:"u_std"`
	VMean float64 `csv:"v_mean"`
	VStd  float64 `csv:"v_std"`

	// Look settings at window end
	Psy        float64 `csv:"psy"`
	Sides      int     `csv:"sides"`
	Posterize  int     `csv:"posterize"`
	Palette    int     `csv:"palette"`
	Scheme     string  `csv:"scheme"`
	AudioState string  `csv:"audio"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	if lo+1 >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// ComputeBandStats returns the mean and 90th percentile of per-frame band values.
func ComputeBandStats(values []float64) (mean, p90 float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean = stat.Mean(values, nil)
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return mean, Percentile(sorted, 0.9)
}

// ComputeFieldStats returns the mean and standard deviation of U and V, sampling every
// stride-th cell.
func ComputeFieldStats(u, v []float32, stride int) (uMean, uStd, vMean, vStd float64) {
	stride = max(stride, 1)
	n := min(len(u), len(v))
	if n == 0 {
		return 0, 0, 0, 0
	}
	us := make([]float64, 0, n/stride+1)
	vs := make([]float64, 0, n/stride+1)
	for i := 0; i < n; i += stride {
		us = append(us, float64(u[i]))
		vs = append(vs, float64(v[i]))
	}
	if len(us) == 1 {
		return us[0], 0, vs[0], 0
	}
	uMean, uStd = stat.MeanStdDev(us, nil)
	vMean, vStd = stat.MeanStdDev(vs, nil)
	return uMean, uStd, vMean, vStd
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("low_mean", s.LowMean),
		slog.Float64("mid_mean", s.MidMean),
		slog.Float64("high_mean", s.HighMean),
		slog.Float64("feed_mean", s.FeedMean),
		slog.Float64("kill_mean", s.KillMean),
		slog.Int("onsets", s.Onsets),
		slog.Int("respawns", s.Respawns),
		slog.Float64("u_mean", s.UMean),
		slog.Float64("v_mean", s.VMean),
		slog.String("audio", s.AudioState),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"sim_time", s.SimTimeSec,
		"low", s.LowMean,
		"mid", s.MidMean,
		"high", s.HighMean,
		"feed", s.FeedMean,
		"kill", s.KillMean,
		"onsets", s.Onsets,
		"flashes", s.ManualFlashes,
		"respawns", s.Respawns,
		"u_mean", s.UMean,
		"u_std", s.UStd,
		"v_mean", s.VMean,
		"v_std", s.VStd,
		"psy", s.Psy,
		"sides", s.Sides,
		"audio", s.AudioState,
	)
}
