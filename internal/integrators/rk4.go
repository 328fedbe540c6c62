package integrators

import "gonum.org/v1/gonum/spatial/r2"

type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Advect(f Sampler, t int, h float64, p r2.Vec) r2.Vec {
	k1 := f.Sample(t, p.X, p.Y)

	q := r2.Add(p, r2.Scale(h*0.5, k1))
	k2 := f.Sample(t, q.X, q.Y)

	q = r2.Add(p, r2.Scale(h*0.5, k2))
	k3 := f.Sample(t, q.X, q.Y)

	q = r2.Add(p, r2.Scale(h, k3))
	k4 := f.Sample(t, q.X, q.Y)

	sum := r2.Add(r2.Add(k1, r2.Scale(2, k2)), r2.Add(r2.Scale(2, k3), k4))
	return r2.Add(p, r2.Scale(h/6.0, sum))
}
