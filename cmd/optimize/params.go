package main

import (
	"github.com/pthm-cable/reimyaku/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name string  // column name in the log
	Path string  // config path
	Min  float64 // lower bound
	Max  float64 // upper bound
}

// ParamVector holds the tunable Gray-Scott parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters. The feed and kill
// ranges are the endpoints the audio bands interpolate between.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "du", Path: "reaction_diffusion.du", Min: 0.08, Max: 0.24},
			{Name: "dv", Path: "reaction_diffusion.dv", Min: 0.03, Max: 0.12},
			{Name: "feed_lo", Path: "reaction_diffusion.feed[0]", Min: 0.010, Max: 0.060},
			{Name: "feed_hi", Path: "reaction_diffusion.feed[1]", Min: 0.030, Max: 0.090},
			{Name: "kill_lo", Path: "reaction_diffusion.kill[0]", Min: 0.030, Max: 0.065},
			{Name: "kill_hi", Path: "reaction_diffusion.kill[1]", Min: 0.045, Max: 0.075},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize converts raw parameter values to the [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return out
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return out
}

// ApplyToConfig writes clamped parameter values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.RDConfig, values []float64) {
	c := pv.Clamp(values)
	cfg.Du = c[0]
	cfg.Dv = c[1]
	cfg.Feed = [2]float64{c[2], c[3]}
	cfg.Kill = [2]float64{c[4], c[5]}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg config.RDConfig) []float64 {
	return []float64{cfg.Du, cfg.Dv, cfg.Feed[0], cfg.Feed[1], cfg.Kill[0], cfg.Kill[1]}
}
