package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/reimyaku/components"
	"github.com/pthm-cable/reimyaku/config"
	"github.com/pthm-cable/reimyaku/systems"
	"github.com/pthm-cable/reimyaku/telemetry"
)

// frameDT is the nominal frame duration; one field step runs per frame.
const frameDT = 1.0 / 60.0

// Scenario is a synthetic audio profile driving the bands during a run.
type Scenario struct {
	Name  string
	Bands func(frame int) components.Bands
}

// DefaultScenarios covers silence, steady music and a pulsing kick.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "silent", Bands: func(int) components.Bands { return components.Bands{} }},
		{Name: "steady", Bands: func(int) components.Bands {
			return components.Bands{Low: 0.45, Mid: 0.5, High: 0.35}
		}},
		{Name: "loud", Bands: func(int) components.Bands {
			return components.Bands{Low: 0.9, Mid: 0.85, High: 0.8}
		}},
		{Name: "kick", Bands: func(frame int) components.Bands {
			// 120 bpm at 60 frames per second
			phase := float64(frame%30) / 30
			return components.Bands{Low: math.Exp(-6 * phase), Mid: 0.4, High: 0.3 * (1 - phase)}
		}},
	}
}

// FitnessEvaluator runs headless field simulations and scores the patterns.
type FitnessEvaluator struct {
	params      *ParamVector
	frames      int
	width       int
	height      int
	centers     []components.Vec2
	scenarios   []Scenario
	baseConfig  config.RDConfig
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64
	lastAlive   float64
}

// NewFitnessEvaluator creates an evaluator running frames steps per scenario on a
// width×height grid, once for each seed center.
func NewFitnessEvaluator(params *ParamVector, frames, width, height int, centers []components.Vec2, base config.RDConfig) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		frames:      frames,
		width:       width,
		height:      height,
		centers:     centers,
		scenarios:   DefaultScenarios(),
		baseConfig:  base,
		statsWindow: 2.0,
	}
}

// LastQuality returns the quality and alive fraction of the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() (quality, alive float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality, fe.lastAlive
}

// A field with V deviation below this has either died out or flooded the grid.
const deadVStd = 0.01

// runResult holds the results from a single run.
type runResult struct {
	aliveFrames int
	windows     []telemetry.WindowStats
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	type job struct {
		scenario Scenario
		center   components.Vec2
	}
	var jobs []job
	for _, sc := range fe.scenarios {
		for _, c := range fe.centers {
			jobs = append(jobs, job{sc, c})
		}
	}

	results := make([]*runResult, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fe.runSimulation(cfg, j.scenario, j.center)
		}()
	}
	wg.Wait()

	var totalFitness, totalQuality, totalAlive float64
	for _, r := range results {
		q := computeQuality(r.windows)
		alive := float64(r.aliveFrames) / float64(fe.frames)
		totalQuality += q
		totalAlive += alive
		totalFitness += -(alive * (1 + q))
	}

	n := float64(len(results))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastAlive = totalAlive / n
	fe.mu.Unlock()
	return totalFitness / n
}

// runSimulation steps one field through a scenario, collecting window stats.
func (fe *FitnessEvaluator) runSimulation(cfg config.RDConfig, sc Scenario, center components.Vec2) *runResult {
	// Grids this small run inline, so one worker per run is enough.
	pool, _ := systems.NewPool(1)
	defer pool.Close()

	rd := systems.NewReactionDiffusion(fe.width, fe.height, pool)
	seed := systems.DefaultSeed(cfg)
	seed.Center = center
	rd.Seed(seed)

	col := telemetry.NewCollector(fe.statsWindow, frameDT)
	ptr := components.Pointer{Pos: center}
	result := &runResult{}
	warmup := int(2.0 / frameDT)

	for f := 1; f <= fe.frames; f++ {
		b := sc.Bands(f)
		p := systems.RDParamsFrom(cfg, b, ptr, cfg.InjectRadius)
		rd.Step(p)
		rd.Swap()
		col.Record(telemetry.FrameSample{Bands: b, Feed: p.F, Kill: p.K, InjectAmt: p.InjectAmt})

		if !col.ShouldFlush(int64(f)) {
			continue
		}
		g := rd.Current()
		w := col.Flush(int64(f), float64(f)*frameDT, g.U, g.V, telemetry.Settings{AudioState: sc.Name})
		result.windows = append(result.windows, w)
		if f > warmup && w.VStd < deadVStd {
			// Gray-Scott fields do not recover once uniform.
			result.aliveFrames = f
			return result
		}
	}
	result.aliveFrames = fe.frames
	return result
}

// Quality component weights.
const (
	qualityWeightContrast = 0.45
	qualityWeightCoverage = 0.30
	qualityWeightMotion   = 0.25

	qualityWarmupWindows = 1
)

// computeQuality scores pattern richness in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var contrastSum, coverageSum, motionSum float64
	for i, w := range valid {
		// Strong spots and stripes sit around 0.12 V deviation on this grid size.
		contrastSum += math.Exp(-math.Pow((w.VStd-0.12)/0.06, 2))
		// Coverage: neither a few specks nor a flooded field.
		coverageSum += math.Exp(-math.Pow((w.VMean-0.18)/0.10, 2))
		if i > 0 {
			d := math.Abs(w.VMean-valid[i-1].VMean) + math.Abs(w.VStd-valid[i-1].VStd)
			motionSum += 1 - math.Exp(-d/0.01)
		}
	}

	n := float64(len(valid))
	quality := qualityWeightContrast*contrastSum/n + qualityWeightCoverage*coverageSum/n
	if len(valid) > 1 {
		quality += qualityWeightMotion * motionSum / float64(len(valid)-1)
	}
	return min(max(quality, 0), 1)
}
