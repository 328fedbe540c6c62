package advect

import (
	"github.com/gogpu/gg"

	"github.com/san-kum/flowvis/internal/raster"
)

type State int

const (
	// StateIdle means the active target is up to date.
	StateIdle State = iota
	// StateIterating means a feedback step is being issued.
	StateIterating
)

func (s State) String() string {
	if s == StateIterating {
		return "iterating"
	}
	return "idle"
}

// InputRule selects the texture the next iteration samples.
type InputRule int

const (
	// InputSeed samples the selected seed pattern.
	InputSeed InputRule = iota
	// InputHistory samples the most recently completed target.
	InputHistory
)

func (r InputRule) String() string {
	if r == InputHistory {
		return "history"
	}
	return "seed"
}

// Iteration describes one completed feedback step.
type Iteration struct {
	Number    int
	TimeSlice int
	Input     InputRule
	Blend     raster.Blend
	Seed      string
	Quads     int
	Target    raster.TextureID
	// Image is the completed target. It is only valid until the next
	// iteration writes to it.
	Image *gg.Pixmap
}

type Observer interface {
	OnIteration(Iteration)
}

type ObserverFunc func(Iteration)

func (f ObserverFunc) OnIteration(it Iteration) { f(it) }

// Report summarizes one call to Frame.
type Report struct {
	TimeSlice int
	Resized   bool
	Iterated  bool
	Iteration Iteration
}
