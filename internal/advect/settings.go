package advect

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/flowvis/internal/integrators"
	"github.com/san-kum/flowvis/internal/mesh"
)

var (
	ErrInvalidSettings = errors.New("advect: invalid settings")
	ErrNoSeeds         = errors.New("advect: empty seed table")
	ErrUnknownControl  = errors.New("advect: unknown control")
)

// Settings is the mutable configuration record of a pipeline.
type Settings struct {
	TimeSlice   int
	TimePassing bool

	Density  int
	StepSize float64
	Border   float64

	Reinject      bool
	ReinjectAlpha float64

	Seed       int
	Integrator string

	MinDensity      int
	MinStep         float64
	StepIncrement   float64
	StepReinjectOn  float64
	StepReinjectOff float64
}

func DefaultSettings() Settings {
	return Settings{
		TimePassing:     true,
		Density:         20,
		StepSize:        0.5,
		Border:          mesh.DefaultBorder,
		Reinject:        true,
		ReinjectAlpha:   0.1,
		Integrator:      integrators.Default,
		MinDensity:      2,
		MinStep:         0.05,
		StepIncrement:   0.05,
		StepReinjectOn:  1.0,
		StepReinjectOff: 0.5,
	}
}

func (s Settings) Validate() error {
	switch {
	case s.MinDensity < 1:
		return fmt.Errorf("%w: min density %d", ErrInvalidSettings, s.MinDensity)
	case s.Density < 1:
		return fmt.Errorf("%w: density %d", ErrInvalidSettings, s.Density)
	case s.StepSize < 0 || math.IsNaN(s.StepSize):
		return fmt.Errorf("%w: step size %v", ErrInvalidSettings, s.StepSize)
	case s.MinStep <= 0 || s.StepIncrement <= 0:
		return fmt.Errorf("%w: step floor %v increment %v", ErrInvalidSettings, s.MinStep, s.StepIncrement)
	case s.ReinjectAlpha < 0 || s.ReinjectAlpha > 1:
		return fmt.Errorf("%w: reinjection alpha %v", ErrInvalidSettings, s.ReinjectAlpha)
	case s.Border < 0:
		return fmt.Errorf("%w: border %v", ErrInvalidSettings, s.Border)
	}
	return nil
}

func (s Settings) meshParams() mesh.Params {
	return mesh.Params{Density: s.Density, StepSize: s.StepSize, Border: s.Border}
}
