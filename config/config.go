// Package config provides configuration loading and access for the scene.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all scene configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Simulation SimulationConfig `yaml:"simulation"`
	Gesture    GestureConfig    `yaml:"gesture"`
	Tracker    TrackerConfig    `yaml:"tracker"`
	Easing     EasingConfig     `yaml:"easing"`
	Beat       BeatConfig       `yaml:"beat"`
	Heart      HeartConfig      `yaml:"heart"`
	Firefly    FireflyConfig    `yaml:"firefly"`
	Meteor     MeteorConfig     `yaml:"shooting_star"`
	RoseStorm  RoseStormConfig  `yaml:"rose_storm"`
	Rain       RainConfig       `yaml:"rain"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	TargetFPS   int     `yaml:"target_fps"`
	CameraZ     float64 `yaml:"camera_z"`     // Camera distance from the origin
	FOV         float64 `yaml:"fov"`          // Vertical field of view in degrees
	TrailFade   float64 `yaml:"trail_fade"`   // Opacity of the black fade plane drawn each frame
	ShowHUD     bool    `yaml:"show_hud"`
	SpriteScale float64 `yaml:"sprite_scale"` // World units per particle size unit
}

// SimulationConfig holds frame stepping parameters.
type SimulationConfig struct {
	Seed     uint64  `yaml:"seed"`      // 0 = time-based
	FixedDT  float64 `yaml:"fixed_dt"`  // Step size for headless runs
	MaxDT    float64 `yaml:"max_dt"`    // Clamp for long frames (window drag, breakpoints)
	AutoSpin float64 `yaml:"auto_spin"` // Heart group yaw added per second of elapsed time
}

// GestureConfig holds the classifier thresholds. All distances are divided by
// palm scale (wrist to middle knuckle), so they are independent of hand size.
type GestureConfig struct {
	OpenThreshold     float64 `yaml:"open_threshold"`     // pinch/palm above this = open
	CurlRatio         float64 `yaml:"curl_ratio"`         // tip-wrist < ratio * knuckle-wrist = curled
	RotationGainX     float64 `yaml:"rotation_gain_x"`    // pitch target per unit of palm y offset
	RotationGainY     float64 `yaml:"rotation_gain_y"`    // yaw target per unit of palm x offset
	DegenerateEpsilon float64 `yaml:"degenerate_epsilon"` // palm scale below this is treated as zero
}

// TrackerConfig holds camera and inference pacing.
type TrackerConfig struct {
	FrameRate    float64 `yaml:"frame_rate"` // Camera frames per second
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	MaxHands     int     `yaml:"max_hands"`
	Loop         bool    `yaml:"loop"`          // Loop landmark recordings
	StaleTimeout float64 `yaml:"stale_timeout"` // Seconds without a frame before the HUD shows "no signal"
}

// EasingConfig holds first-order smoothing factors, expressed per frame at
// ReferenceFPS.
type EasingConfig struct {
	Rotation     float64 `yaml:"rotation"`
	Jump         float64 `yaml:"jump"`
	Explode      float64 `yaml:"explode"`
	ReferenceFPS float64 `yaml:"reference_fps"`
	FrameLocked  bool    `yaml:"frame_locked"` // true = apply factors once per call, ignoring dt
	RoseFade     float64 `yaml:"rose_fade"`    // Seconds for the rose storm opacity tween
}

// BeatConfig holds the heartbeat waveform parameters.
type BeatConfig struct {
	Frequency     float64 `yaml:"frequency"`      // Angular frequency of the closed-hand pulse
	Power         int     `yaml:"power"`          // Odd exponent applied to sin
	Amplitude     float64 `yaml:"amplitude"`      // Pulse peak
	JumpDepth     float64 `yaml:"jump_depth"`     // Group shrink per unit of beat
	BreathAmp     float64 `yaml:"breath_amp"`     // Open-hand idle breathing amplitude
	BeatOffset    float64 `yaml:"beat_offset"`    // Radial push per unit of beat
	Spread        float64 `yaml:"spread"`         // Radial push at full explode
	NoiseAmp      float64 `yaml:"noise_amp"`      // Low-frequency jitter amplitude
	NoiseFreq     float64 `yaml:"noise_freq"`     // Low-frequency jitter angular frequency
	TurbulenceAmp float64 `yaml:"turbulence_amp"` // Open-hand turbulence amplitude
	TurbulenceK   float64 `yaml:"turbulence_k"`   // Turbulence spatial frequency along base x
}

// HeartConfig holds the three heart layers.
type HeartConfig struct {
	Core  HeartLayerConfig `yaml:"core"`
	Shard HeartLayerConfig `yaml:"shard"`
	Petal HeartLayerConfig `yaml:"petal"`
}

// HeartLayerConfig describes one heart-shaped population.
type HeartLayerConfig struct {
	Count            int        `yaml:"count"`
	Exponent         float64    `yaml:"exponent"`     // r = U^Exponent; <1 pushes particles outward
	RadiusScale      float64    `yaml:"radius_scale"` // multiplies r
	Compress         [3]float64 `yaml:"compress"`     // per-axis squash before radial scaling
	DepthRange       float64    `yaml:"depth_range"`  // z = U(-DepthRange, DepthRange) * taper
	ColorRadius      float64    `yaml:"color_radius"` // distance at which the outer color is reached
	InnerColor       string     `yaml:"inner_color"`
	OuterColor       string     `yaml:"outer_color"`
	SizeBase         float64    `yaml:"size_base"`
	SizeVariance     float64    `yaml:"size_variance"`
	Opacity          float64    `yaml:"opacity"`
	SpreadMultiplier float64    `yaml:"spread_multiplier"`
	Sprite           string     `yaml:"sprite"`
}

// Box is an axis-aligned spawn volume.
type Box struct {
	Min [3]float64 `yaml:"min"`
	Max [3]float64 `yaml:"max"`
}

// Range is a closed interval sampled uniformly.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// FireflyConfig holds firefly spawn and drift parameters.
type FireflyConfig struct {
	Count      int     `yaml:"count"`
	Spawn      Box     `yaml:"spawn"`
	Speed      Range   `yaml:"speed"`
	Phase      Range   `yaml:"phase"`
	WobbleFreq float64 `yaml:"wobble_freq"`
	WobbleAmp  float64 `yaml:"wobble_amp"`
	BlinkFreq  float64 `yaml:"blink_freq"`
	BlinkDepth float64 `yaml:"blink_depth"` // size = base * (1 - depth + depth*sin)
	BaseSize   float64 `yaml:"base_size"`
	RecycleZ   float64 `yaml:"recycle_z"`
	ResetZ     float64 `yaml:"reset_z"`
	Color      string  `yaml:"color"`
	Opacity    float64 `yaml:"opacity"`
}

// MeteorConfig holds shooting star parameters.
type MeteorConfig struct {
	Count    int        `yaml:"count"`
	Spawn    Box        `yaml:"spawn"`
	Respawn  Box        `yaml:"respawn"`
	Speed    Range      `yaml:"speed"`
	Phase    Range      `yaml:"phase"`
	Velocity [2]float64 `yaml:"velocity"` // per-unit-speed displacement (x, y)
	MinX     float64    `yaml:"min_x"`
	MinY     float64    `yaml:"min_y"`
	Size     float64    `yaml:"size"`
	Color    string     `yaml:"color"`
	Opacity  float64    `yaml:"opacity"`
}

// RoseStormConfig holds rose storm parameters.
type RoseStormConfig struct {
	Count         int     `yaml:"count"`
	Spawn         Box     `yaml:"spawn"`
	Radius        Range   `yaml:"radius"`
	Speed         Range   `yaml:"speed"`
	BloomChance   float64 `yaml:"bloom_chance"`
	BloomSize     Range   `yaml:"bloom_size"`
	PetalSize     Range   `yaml:"petal_size"`
	SpinGain      float64 `yaml:"spin_gain"`  // angular speed gain per unit of speed
	DepthTwist    float64 `yaml:"depth_twist"`
	WobbleFreq    float64 `yaml:"wobble_freq"`
	WobblePhase   float64 `yaml:"wobble_phase"`
	WobbleAmp     float64 `yaml:"wobble_amp"`
	NearPlane     float64 `yaml:"near_plane"`
	ResetZ        Range   `yaml:"reset_z"`
	RetreatSpeed  float64 `yaml:"retreat_speed"`
	Disperse      float64 `yaml:"disperse"`       // per-frame radial multiplier while inactive
	DisperseLimit float64 `yaml:"disperse_limit"` // |x|,|y| clamp while inactive
	FarPlane      float64 `yaml:"far_plane"`
	Color         string  `yaml:"color"`
}

// RainConfig holds stream rain parameters.
type RainConfig struct {
	Count   int     `yaml:"count"`
	Spawn   Box     `yaml:"spawn"`
	Speed   Range   `yaml:"speed"`
	FloorY  float64 `yaml:"floor_y"`
	TopY    float64 `yaml:"top_y"`
	Size    float64 `yaml:"size"`
	Color   string  `yaml:"color"`
	Opacity float64 `yaml:"opacity"`
}

// ParallelConfig holds worker pool parameters.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // layers smaller than this update on the caller
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Frames in the rolling perf window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Colors map[string][3]float32 // parsed hex colors keyed by their source string
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
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
	return cfg, nil
}

// computeDerived validates counts and parses colors.
func (c *Config) computeDerived() error {
	if c.Easing.ReferenceFPS <= 0 {
		c.Easing.ReferenceFPS = 60
	}
	if c.Simulation.FixedDT <= 0 {
		c.Simulation.FixedDT = 1.0 / c.Easing.ReferenceFPS
	}
	if c.Beat.Power%2 == 0 {
		return fmt.Errorf("beat.power must be odd, got %d", c.Beat.Power)
	}

	counts := map[string]int{
		"heart.core":    c.Heart.Core.Count,
		"heart.shard":   c.Heart.Shard.Count,
		"heart.petal":   c.Heart.Petal.Count,
		"firefly":       c.Firefly.Count,
		"shooting_star": c.Meteor.Count,
		"rose_storm":    c.RoseStorm.Count,
		"rain":          c.Rain.Count,
	}
	for name, n := range counts {
		if n < 0 {
			return fmt.Errorf("%s.count must not be negative, got %d", name, n)
		}
	}

	hexes := []string{
		c.Heart.Core.InnerColor, c.Heart.Core.OuterColor,
		c.Heart.Shard.InnerColor, c.Heart.Shard.OuterColor,
		c.Heart.Petal.InnerColor, c.Heart.Petal.OuterColor,
		c.Firefly.Color, c.Meteor.Color, c.RoseStorm.Color, c.Rain.Color,
	}
	c.Derived.Colors = make(map[string][3]float32, len(hexes))
	for _, h := range hexes {
		rgb, err := ParseHexColor(h)
		if err != nil {
			return err
		}
		c.Derived.Colors[h] = rgb
	}
	return nil
}

// Color returns the parsed RGB triple for a hex string from this config.
func (c *Config) Color(hex string) [3]float32 {
	if rgb, ok := c.Derived.Colors[hex]; ok {
		return rgb
	}
	rgb, _ := ParseHexColor(hex)
	return rgb
}

// ParseHexColor parses "#rrggbb" (or "rrggbb", "0xrrggbb") into linear 0..1 floats.
func ParseHexColor(s string) ([3]float32, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	if len(h) != 6 {
		return [3]float32{}, fmt.Errorf("invalid color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return [3]float32{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return [3]float32{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// TotalParticles returns the particle count across all layers.
func (c *Config) TotalParticles() int {
	return c.Heart.Core.Count + c.Heart.Shard.Count + c.Heart.Petal.Count +
		c.Firefly.Count + c.Meteor.Count + c.RoseStorm.Count + c.Rain.Count
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
