package advect

import (
	"fmt"
	"math"
)

// Control names a user action on the pipeline.
type Control string

const (
	ToggleTime        Control = "toggle_time"
	Rebuild           Control = "rebuild"
	ToggleReinjection Control = "toggle_reinjection"
	DensityUp         Control = "density_up"
	DensityDown       Control = "density_down"
	StepDown          Control = "step_down"
	StepUp            Control = "step_up"
	SelectSeed        Control = "select_seed"
	SetTimeSlice      Control = "set_time"
)

// Controls lists every control in a stable order.
var Controls = []Control{
	ToggleTime, Rebuild, ToggleReinjection, DensityUp, DensityDown,
	StepDown, StepUp, SelectSeed, SetTimeSlice,
}

// KeyControl maps a key to its control. Digit keys select seeds 0-8.
func KeyControl(key string) (Control, int, bool) {
	switch key {
	case "t", "T":
		return ToggleTime, 0, true
	case "f", "F":
		return Rebuild, 0, true
	case "b", "B":
		return ToggleReinjection, 0, true
	case "+", "=":
		return DensityUp, 0, true
	case "-", "_":
		return DensityDown, 0, true
	case "h", "H":
		return StepDown, 0, true
	case "j", "J":
		return StepUp, 0, true
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return SelectSeed, int(key[0] - '1'), true
	}
	return "", 0, false
}

// Apply performs c. arg is the seed index for SelectSeed and the slice for
// SetTimeSlice and is ignored otherwise.
func (p *Pipeline) Apply(c Control, arg int) error {
	switch c {
	case ToggleTime:
		p.ToggleTime()
	case Rebuild:
		p.ForceRebuild()
	case ToggleReinjection:
		p.ToggleReinjection()
	case DensityUp:
		p.IncreaseDensity()
	case DensityDown:
		p.DecreaseDensity()
	case StepDown:
		p.DecreaseStep()
	case StepUp:
		p.IncreaseStep()
	case SelectSeed:
		p.SelectSeed(arg)
	case SetTimeSlice:
		p.SetTimeSlice(arg)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownControl, c)
	}
	return nil
}

func (p *Pipeline) ToggleTime() {
	p.settings.TimePassing = !p.settings.TimePassing
}

// ForceRebuild restarts advection from the seed on the next frame.
func (p *Pipeline) ForceRebuild() {
	p.reset()
}

// ToggleReinjection flips seed reinjection and sets the matching default
// step size.
func (p *Pipeline) ToggleReinjection() {
	s := &p.settings
	s.Reinject = !s.Reinject
	if s.Reinject {
		s.StepSize = s.StepReinjectOn
	} else {
		s.StepSize = s.StepReinjectOff
	}
	p.reset()
}

func (p *Pipeline) IncreaseDensity() {
	p.settings.Density++
	p.reset()
}

// DecreaseDensity lowers the density unless it is already at MinDensity.
func (p *Pipeline) DecreaseDensity() {
	if p.settings.Density > p.settings.MinDensity {
		p.settings.Density--
		p.reset()
	}
}

func (p *Pipeline) DecreaseStep() {
	s := &p.settings
	s.StepSize = roundStep(math.Max(s.StepSize-s.StepIncrement, s.MinStep))
}

func (p *Pipeline) IncreaseStep() {
	s := &p.settings
	s.StepSize = roundStep(s.StepSize + s.StepIncrement)
}

// SelectSeed switches to seed i modulo the table size and restarts.
func (p *Pipeline) SelectSeed(i int) {
	p.settings.Seed = wrapIndex(i, len(p.seeds))
	p.reset()
}

// SetTimeSlice jumps to slice t modulo the slice count.
func (p *Pipeline) SetTimeSlice(t int) {
	p.settings.TimeSlice = wrapIndex(t, p.field.Spec().TCells)
}

// roundStep drops accumulated float error from repeated increments.
func roundStep(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
