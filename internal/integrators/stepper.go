package integrators

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrUnknownIntegrator is returned by New for an unregistered scheme name.
var ErrUnknownIntegrator = errors.New("integrators: unknown integrator")

// Sampler answers continuous grid-space queries on one time slice.
type Sampler interface {
	Sample(t int, x, y float64) r2.Vec
}

// Stepper advances p by one step of size h through slice t of f.
type Stepper interface {
	Advect(f Sampler, t int, h float64, p r2.Vec) r2.Vec
}

// Default is the scheme used when none is configured.
const Default = "heun"

var registry = map[string]func() Stepper{
	"euler": func() Stepper { return NewEuler() },
	"heun":  func() Stepper { return NewHeun() },
	"rk4":   func() Stepper { return NewRK4() },
}

// New returns the scheme registered under name.
func New(name string) (Stepper, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

// Names lists the registered schemes in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
