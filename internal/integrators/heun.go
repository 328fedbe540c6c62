package integrators

import "gonum.org/v1/gonum/spatial/r2"

// Heun is the improved Euler method: it averages the slope at p with the
// slope at the Euler-predicted end point. Both slopes come from the same
// time slice.
type Heun struct{}

func NewHeun() *Heun {
	return &Heun{}
}

func (h *Heun) Advect(f Sampler, t int, step float64, p r2.Vec) r2.Vec {
	v0 := f.Sample(t, p.X, p.Y)
	predicted := r2.Add(p, r2.Scale(step, v0))
	v1 := f.Sample(t, predicted.X, predicted.Y)
	return r2.Add(p, r2.Scale(step*0.5, r2.Add(v0, v1)))
}
