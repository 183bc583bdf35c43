// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/biome/systems"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Plants     PlantsConfig     `yaml:"plants"`
	Population PopulationConfig `yaml:"population"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Time       TimeConfig       `yaml:"time"`
	Steering   SteeringConfig   `yaml:"steering"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds world dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`  // World width in world units (0 = use screen width)
	Height int `yaml:"height"` // World height in world units (0 = use screen height)
}

// PlantsConfig holds plant population and growth parameters.
type PlantsConfig struct {
	Max            int             `yaml:"max"`
	Initial        int             `yaml:"initial"`
	RegenPerSecond float64         `yaml:"regen_per_second"`
	Placement      PlacementConfig `yaml:"placement"`
}

// PlacementConfig selects where new plants grow.
type PlacementConfig struct {
	Mode        string  `yaml:"mode"`        // uniform | fertile
	Scale       float64 `yaml:"scale"`       // World units per noise unit
	Octaves     int     `yaml:"octaves"`     // FBM octaves
	Persistence float64 `yaml:"persistence"` // Amplitude falloff per octave
	Threshold   float64 `yaml:"threshold"`   // Minimum fertility for a plant to grow
	Attempts    int     `yaml:"attempts"`    // Rejection-sampling tries per plant
}

// Placement modes.
const (
	PlacementUniform = "uniform"
	PlacementFertile = "fertile"
)

// PopulationConfig holds founder counts.
type PopulationConfig struct {
	InitialHerbivores int `yaml:"initial_herbivores"`
	InitialCarnivores int `yaml:"initial_carnivores"`
}

// MutationConfig holds trait mutation parameters.
type MutationConfig struct {
	Rate float64 `yaml:"rate"` // Per-trait probability of a one-level shift
}

// TimeConfig holds the fixed-step driver parameters.
type TimeConfig struct {
	FixedStep        float64 `yaml:"fixed_step"`          // Seconds per tick
	MaxFrameDT       float64 `yaml:"max_frame_dt"`        // Scaled frame delta cap
	MaxStepsPerFrame int     `yaml:"max_steps_per_frame"` // Ticks consumed per frame at most
	SpeedFactor      float64 `yaml:"speed_factor"`        // Time dilation applied to frame delta
}

// SteeringConfig selects how agents turn toward their heading.
type SteeringConfig struct {
	Mode      string  `yaml:"mode"`       // smooth | direct
	BlendRate float64 `yaml:"blend_rate"` // Exponential smoothing rate per second
}

// TelemetryConfig holds statistics collection parameters.
type TelemetryConfig struct {
	StatsInterval       float64 `yaml:"stats_interval"` // Simulated seconds between census samples
	HistoryLength       int     `yaml:"history_length"` // Samples kept in memory
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	TopGenotypes        int     `yaml:"top_genotypes"` // Genotypes listed per species
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	HerbivoreCrash    HerbivoreCrashConfig    `yaml:"herbivore_crash"`
	CarnivoreRecovery CarnivoreRecoveryConfig `yaml:"carnivore_recovery"`
	StableCoexistence StableCoexistenceConfig `yaml:"stable_coexistence"`
	GenotypeDominance GenotypeDominanceConfig `yaml:"genotype_dominance"`
}

// HerbivoreCrashConfig holds herbivore crash detection parameters.
type HerbivoreCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// CarnivoreRecoveryConfig holds carnivore recovery detection parameters.
type CarnivoreRecoveryConfig struct {
	MinPopulation      int `yaml:"min_population"`
	RecoveryMultiplier int `yaml:"recovery_multiplier"`
	MinFinal           int `yaml:"min_final"`
}

// StableCoexistenceConfig holds stable coexistence detection parameters.
type StableCoexistenceConfig struct {
	MinHerbivores int     `yaml:"min_herbivores"`
	MinCarnivores int     `yaml:"min_carnivores"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// GenotypeDominanceConfig holds single-genotype takeover detection parameters.
type GenotypeDominanceConfig struct {
	Share         float64 `yaml:"share"`          // Fraction of a species held by one genotype
	MinPopulation int     `yaml:"min_population"` // Species size below which dominance is ignored
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW       float64              // Effective world width
	WorldH       float64              // Effective world height
	SteeringMode systems.SteeringMode // Parsed Steering.Mode
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

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Defaults returns the embedded default configuration.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate reports every malformed setting at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Screen.Width > 0 && c.Screen.Height > 0, "screen size %dx%d must be positive", c.Screen.Width, c.Screen.Height)
	check(c.World.Width >= 0 && c.World.Height >= 0, "world size %dx%d must not be negative", c.World.Width, c.World.Height)

	check(c.Plants.Max >= 0, "plants.max %d must not be negative", c.Plants.Max)
	check(c.Plants.Initial >= 0, "plants.initial %d must not be negative", c.Plants.Initial)
	check(c.Plants.RegenPerSecond >= 0, "plants.regen_per_second %v must not be negative", c.Plants.RegenPerSecond)
	switch c.Plants.Placement.Mode {
	case "", PlacementUniform, PlacementFertile:
	default:
		errs = append(errs, fmt.Errorf("unknown plants.placement.mode %q", c.Plants.Placement.Mode))
	}
	check(c.Plants.Placement.Threshold >= 0 && c.Plants.Placement.Threshold <= 1,
		"plants.placement.threshold %v outside [0,1]", c.Plants.Placement.Threshold)

	check(c.Population.InitialHerbivores >= 0, "population.initial_herbivores %d must not be negative", c.Population.InitialHerbivores)
	check(c.Population.InitialCarnivores >= 0, "population.initial_carnivores %d must not be negative", c.Population.InitialCarnivores)

	check(c.Mutation.Rate >= 0 && c.Mutation.Rate <= 1, "mutation.rate %v outside [0,1]", c.Mutation.Rate)

	check(c.Time.FixedStep > 0, "time.fixed_step %v must be positive", c.Time.FixedStep)
	check(c.Time.MaxFrameDT > 0, "time.max_frame_dt %v must be positive", c.Time.MaxFrameDT)
	check(c.Time.MaxStepsPerFrame > 0, "time.max_steps_per_frame %d must be positive", c.Time.MaxStepsPerFrame)
	check(c.Time.SpeedFactor >= 0, "time.speed_factor %v must not be negative", c.Time.SpeedFactor)

	if _, err := systems.ParseSteeringMode(c.Steering.Mode); err != nil {
		errs = append(errs, fmt.Errorf("steering.mode: %w", err))
	}
	check(c.Steering.BlendRate >= 0, "steering.blend_rate %v must not be negative", c.Steering.BlendRate)

	check(c.Telemetry.StatsInterval > 0, "telemetry.stats_interval %v must be positive", c.Telemetry.StatsInterval)
	check(c.Telemetry.HistoryLength > 0, "telemetry.history_length %d must be positive", c.Telemetry.HistoryLength)

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW = float64(worldW)
	c.Derived.WorldH = float64(worldH)

	// Validate has already rejected unknown modes
	c.Derived.SteeringMode, _ = systems.ParseSteeringMode(c.Steering.Mode)
}

// SteeringPolicy returns the configured steering.
func (c *Config) SteeringPolicy() systems.Steering {
	return systems.Steering{Mode: c.Derived.SteeringMode, BlendRate: c.Steering.BlendRate}
}

// PlantPlacer builds the configured plant placement strategy. The seed
// only affects the fertility field.
func (c *Config) PlantPlacer(seed int64) systems.PlantPlacer {
	p := c.Plants.Placement
	if p.Mode != PlacementFertile {
		return systems.UniformPlacer{}
	}
	return systems.NewFertilityPlacer(systems.FertilityConfig{
		Seed:        seed,
		Scale:       p.Scale,
		Octaves:     p.Octaves,
		Persistence: p.Persistence,
		Threshold:   p.Threshold,
		Attempts:    p.Attempts,
	})
}

// YAML returns the configuration encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
