// Package config provides configuration loading and access for the mandala renderer.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/reimyaku/palette"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all renderer configuration parameters.
type Config struct {
	Screen            ScreenConfig    `yaml:"screen"`
	Audio             AudioConfig     `yaml:"audio"`
	ReactionDiffusion RDConfig        `yaml:"reaction_diffusion"`
	Particles         ParticlesConfig `yaml:"particles"`
	Kaleido           KaleidoConfig   `yaml:"kaleido"`
	Palette           PaletteConfig   `yaml:"palette"`
	Psy               CycleConfig     `yaml:"psy"`
	Posterize         PosterizeConfig `yaml:"posterize"`
	Telemetry         TelemetryConfig `yaml:"telemetry"`
	Export            ExportConfig    `yaml:"export"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	TargetFPS   int     `yaml:"target_fps"`
	RenderScale float64 `yaml:"render_scale"` // frame size / window size
}

// BandConfig is a frequency range in Hz.
type BandConfig struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

// AudioConfig holds spectrum analysis and onset parameters.
type AudioConfig struct {
	SampleRate float64 `yaml:"sample_rate"`
	FFTSize    int     `yaml:"fft_size"`  // bins = FFTSize/2
	Smoothing  float64 `yaml:"smoothing"` // analyser time constant
	MinDB      float64 `yaml:"min_db"`
	MaxDB      float64 `yaml:"max_db"`

	Low  BandConfig `yaml:"low"`
	Mid  BandConfig `yaml:"mid"`
	High BandConfig `yaml:"high"`

	OnsetLow      float64 `yaml:"onset_low"`      // low energy above this fires a flash
	OnsetMid      float64 `yaml:"onset_mid"`      // mid energy above this fires a flash
	OnsetCooldown float64 `yaml:"onset_cooldown"` // seconds
	FlashStrength float64 `yaml:"flash_strength"` // onset flash
	ManualFlash   float64 `yaml:"manual_flash"`   // keyboard flash
	FlashDuration float64 `yaml:"flash_duration"` // seconds
}

// RDConfig holds Gray-Scott parameters and the audio remapping ranges.
type RDConfig struct {
	Du              float64    `yaml:"du"`
	Dv              float64    `yaml:"dv"`
	DT              float64    `yaml:"dt"`
	InjectRadius    float64    `yaml:"inject_radius"`
	FlashRadiusGain float64    `yaml:"flash_radius_gain"`
	Feed            [2]float64 `yaml:"feed"` // lerp by mid band
	Kill            [2]float64 `yaml:"kill"` // lerp by 0.35 + 0.65(1-high)
	PointerBonus    float64    `yaml:"pointer_bonus"`
	LowGain         float64    `yaml:"low_gain"`
	SeedRadius      float64    `yaml:"seed_radius"`
	SeedNoise       float64    `yaml:"seed_noise"`
	ResolutionScale float64    `yaml:"resolution_scale"`
}

// ParticlesConfig holds particle field parameters.
type ParticlesConfig struct {
	Count         int        `yaml:"count"`
	BaseSpeed     float64    `yaml:"base_speed"`
	FlowScale     float64    `yaml:"flow_scale"`      // noise frequency per pixel
	FlowTimeScale float64    `yaml:"flow_time_scale"` // noise frequency per second
	Life          [2]float64 `yaml:"life"`
	Size          [2]float64 `yaml:"size"`
	Energy        [2]float64 `yaml:"energy"`
	RespawnChance float64    `yaml:"respawn_chance"` // per frame
	SpawnFactor   float64    `yaml:"spawn_factor"`   // spawn disk radius / mandala radius
	ConfineFactor float64    `yaml:"confine_factor"` // confinement radius / mandala radius
	FadeAlpha     float64    `yaml:"fade_alpha"`     // 0..255, per-frame fade of the layer
	Seed          uint64     `yaml:"seed"`           // 0 = derive from run seed
}

// KaleidoConfig holds compositor parameters.
type KaleidoConfig struct {
	Sides          int     `yaml:"sides"`
	SidesCycle     []int   `yaml:"sides_cycle"`
	MandalaScale   float64 `yaml:"mandala_scale"`
	ParticleWeight float64 `yaml:"particle_weight"`
	Aberration     float64 `yaml:"aberration"`
	SpinRate       float64 `yaml:"spin_rate"`
	SpinLowGain    float64 `yaml:"spin_low_gain"`
}

// PaletteConfig holds the anchor sets and the initial scheme.
type PaletteConfig struct {
	Scheme  string     `yaml:"scheme"`
	Anchors [][]string `yaml:"anchors"`
}

// CycleConfig is a scalar knob with its cycle of presets.
type CycleConfig struct {
	Initial float64   `yaml:"initial"`
	Cycle   []float64 `yaml:"cycle"`
}

// PosterizeConfig holds posterization presets (0 = off).
type PosterizeConfig struct {
	Initial int   `yaml:"initial"`
	Cycle   []int `yaml:"cycle"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// ExportConfig holds still and video export settings.
type ExportConfig struct {
	Dir         string `yaml:"dir"`
	StillPrefix string `yaml:"still_prefix"`
	ClipPrefix  string `yaml:"clip_prefix"`
	VideoFPS    int    `yaml:"video_fps"`
	JPEGQuality int    `yaml:"jpeg_quality"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Anchors []palette.Anchors
	Scheme  palette.Scheme
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// computeDerived parses palette anchors and the scheme name.
func (c *Config) computeDerived() error {
	c.Derived.Anchors = c.Derived.Anchors[:0]
	for i, hex := range c.Palette.Anchors {
		a, err := palette.ParseAnchors(hex)
		if err != nil {
			return fmt.Errorf("palette.anchors[%d]: %w", i, err)
		}
		c.Derived.Anchors = append(c.Derived.Anchors, a)
	}
	s, err := palette.ParseScheme(c.Palette.Scheme)
	if err != nil {
		return fmt.Errorf("palette.scheme: %w", err)
	}
	c.Derived.Scheme = s
	return nil
}

// Validate checks ranges that would otherwise break the simulation at runtime.
func (c *Config) Validate() error {
	var errs []error
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size %dx%d must be positive", c.Screen.Width, c.Screen.Height))
	}
	if c.Screen.RenderScale <= 0 || c.Screen.RenderScale > 1 {
		errs = append(errs, errors.New("screen.render_scale must be in (0,1]"))
	}
	if c.Audio.FFTSize < 2 || c.Audio.FFTSize&(c.Audio.FFTSize-1) != 0 {
		errs = append(errs, fmt.Errorf("audio.fft_size %d must be a power of two", c.Audio.FFTSize))
	}
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, errors.New("audio.sample_rate must be positive"))
	}
	if c.Audio.MaxDB <= c.Audio.MinDB {
		errs = append(errs, errors.New("audio.max_db must exceed audio.min_db"))
	}
	if c.ReactionDiffusion.ResolutionScale <= 0 || c.ReactionDiffusion.ResolutionScale > 1 {
		errs = append(errs, errors.New("reaction_diffusion.resolution_scale must be in (0,1]"))
	}
	if c.Particles.Count < 0 {
		errs = append(errs, errors.New("particles.count must not be negative"))
	}
	if c.Particles.Life[0] <= 0 || c.Particles.Life[1] < c.Particles.Life[0] {
		errs = append(errs, errors.New("particles.life must be a positive [min,max] range"))
	}
	if c.Kaleido.Sides < 1 {
		errs = append(errs, errors.New("kaleido.sides must be at least 1"))
	}
	if c.Kaleido.MandalaScale <= 0 {
		errs = append(errs, errors.New("kaleido.mandala_scale must be positive"))
	}
	if len(c.Derived.Anchors) == 0 {
		errs = append(errs, errors.New("palette.anchors must hold at least one set"))
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		errs = append(errs, errors.New("export.jpeg_quality must be in [1,100]"))
	}
	return errors.Join(errs...)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
