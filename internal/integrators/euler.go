package integrators

import "gonum.org/v1/gonum/spatial/r2"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Advect(f Sampler, t int, h float64, p r2.Vec) r2.Vec {
	return r2.Add(p, r2.Scale(h, f.Sample(t, p.X, p.Y)))
}
