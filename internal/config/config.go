package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/flowvis/internal/advect"
	"github.com/san-kum/flowvis/internal/field"
	"github.com/san-kum/flowvis/internal/seed"
)

var ErrInvalid = errors.New("config: invalid")

const (
	DefaultWidth  = 800
	DefaultHeight = 600
	DefaultFPS    = 30
)

type Config struct {
	Field     FieldConfig     `yaml:"field"`
	Advection AdvectionConfig `yaml:"advection"`
	Screen    ScreenConfig    `yaml:"screen"`
	Seeds     SeedConfig      `yaml:"seeds"`
	View      ViewConfig      `yaml:"view"`
	Output    OutputConfig    `yaml:"output"`
}

type FieldConfig struct {
	Path      string  `yaml:"path"`
	Truncate  string  `yaml:"truncate"`
	Synthetic bool    `yaml:"synthetic"`
	XCells    int     `yaml:"x_cells"`
	YCells    int     `yaml:"y_cells"`
	TCells    int     `yaml:"t_cells"`
	XStart    float64 `yaml:"x_start"`
	XEnd      float64 `yaml:"x_end"`
	YStart    float64 `yaml:"y_start"`
	YEnd      float64 `yaml:"y_end"`
	TStart    float64 `yaml:"t_start"`
	TEnd      float64 `yaml:"t_end"`
}

type AdvectionConfig struct {
	Integrator      string  `yaml:"integrator"`
	Density         int     `yaml:"density"`
	StepSize        float64 `yaml:"step_size"`
	Border          float64 `yaml:"border"`
	Reinject        bool    `yaml:"reinject"`
	ReinjectAlpha   float64 `yaml:"reinject_alpha"`
	TimePassing     bool    `yaml:"time_passing"`
	Seed            string  `yaml:"seed"`
	MinDensity      int     `yaml:"min_density"`
	MinStep         float64 `yaml:"min_step"`
	StepIncrement   float64 `yaml:"step_increment"`
	StepReinjectOn  float64 `yaml:"step_reinject_on"`
	StepReinjectOff float64 `yaml:"step_reinject_off"`
}

type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`
}

type SeedConfig struct {
	Size       int    `yaml:"size"`
	RandomSeed int64  `yaml:"random_seed"`
	Dir        string `yaml:"dir"`
}

type ViewConfig struct {
	MaxLength float64 `yaml:"max_length"`
	Overlay   bool    `yaml:"overlay"`
}

type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Frames int    `yaml:"frames"`
	Every  int    `yaml:"every"`
}

func DefaultConfig() *Config {
	spec := field.DefaultSpec()
	s := advect.DefaultSettings()
	so := seed.DefaultOptions()
	return &Config{
		Field: FieldConfig{
			Path:     "flow.raw",
			Truncate: string(field.TruncatePad),
			XCells:   spec.XCells,
			YCells:   spec.YCells,
			TCells:   spec.TCells,
			XStart:   spec.XStart,
			XEnd:     spec.XEnd,
			YStart:   spec.YStart,
			YEnd:     spec.YEnd,
			TStart:   spec.TStart,
			TEnd:     spec.TEnd,
		},
		Advection: AdvectionConfig{
			Integrator:      s.Integrator,
			Density:         s.Density,
			StepSize:        s.StepSize,
			Border:          s.Border,
			Reinject:        s.Reinject,
			ReinjectAlpha:   s.ReinjectAlpha,
			TimePassing:     s.TimePassing,
			Seed:            seed.Names[0],
			MinDensity:      s.MinDensity,
			MinStep:         s.MinStep,
			StepIncrement:   s.StepIncrement,
			StepReinjectOn:  s.StepReinjectOn,
			StepReinjectOff: s.StepReinjectOff,
		},
		Screen: ScreenConfig{Width: DefaultWidth, Height: DefaultHeight, FPS: DefaultFPS},
		Seeds:  SeedConfig{Size: so.Size, RandomSeed: so.Seed},
		View:   ViewConfig{MaxLength: 1.5},
		Output: OutputConfig{Dir: "runs", Frames: 120, Every: 10},
	}
}

// Load reads a YAML file over DefaultConfig and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := Overlay(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay reads the YAML file at path over cfg. Keys missing from the file
// keep their current values in cfg.
func Overlay(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Spec().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := field.ParsePolicy(c.Field.Truncate); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	s, err := c.Settings()
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("%w: screen %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	}
	if c.Screen.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.Screen.FPS)
	}
	if c.Seeds.Size < 8 {
		return fmt.Errorf("%w: seed size %d", ErrInvalid, c.Seeds.Size)
	}
	return nil
}

// Spec is the grid description of the configured field.
func (c *Config) Spec() field.Spec {
	f := c.Field
	return field.Spec{
		XCells: f.XCells, XStart: f.XStart, XEnd: f.XEnd,
		YCells: f.YCells, YStart: f.YStart, YEnd: f.YEnd,
		TCells: f.TCells, TStart: f.TStart, TEnd: f.TEnd,
	}
}

// Settings converts the advection section to pipeline settings.
func (c *Config) Settings() (advect.Settings, error) {
	a := c.Advection
	idx, ok := seed.Index(a.Seed)
	if !ok {
		return advect.Settings{}, fmt.Errorf("%w: unknown seed %q", ErrInvalid, a.Seed)
	}
	return advect.Settings{
		TimePassing:     a.TimePassing,
		Density:         a.Density,
		StepSize:        a.StepSize,
		Border:          a.Border,
		Reinject:        a.Reinject,
		ReinjectAlpha:   a.ReinjectAlpha,
		Seed:            idx,
		Integrator:      a.Integrator,
		MinDensity:      a.MinDensity,
		MinStep:         a.MinStep,
		StepIncrement:   a.StepIncrement,
		StepReinjectOn:  a.StepReinjectOn,
		StepReinjectOff: a.StepReinjectOff,
	}, nil
}

func (c *Config) SeedOptions() seed.Options {
	return seed.Options{Size: c.Seeds.Size, Seed: c.Seeds.RandomSeed, Dir: c.Seeds.Dir}
}

// LoadField reads the configured field, or synthesizes one.
func (c *Config) LoadField() (*field.Field, error) {
	spec := c.Spec()
	if c.Field.Synthetic {
		return field.Synthesize(spec, field.DefaultSynthParams()), nil
	}
	policy, err := field.ParsePolicy(c.Field.Truncate)
	if err != nil {
		return nil, err
	}
	return field.Load(c.Field.Path, spec, policy)
}
