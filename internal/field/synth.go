package field

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SynthParams configures the analytic vortex street produced by Synthesize.
// Lengths are in domain units, velocities in domain units per unit time.
type SynthParams struct {
	Stream   float64 // free-stream speed in +x
	Radius   float64 // cylinder radius, centred at the domain origin
	Gamma    float64 // circulation of each shed vortex
	Core     float64 // Lamb-Oseen core radius
	Spacing  float64 // streamwise distance between same-sign vortices
	Offset   float64 // lateral offset of the two vortex rows
	Convect  float64 // vortex convection speed as a fraction of Stream
	Vortices int     // vortices alive in the wake at any time
}

func DefaultSynthParams() SynthParams {
	return SynthParams{
		Stream:   1.0,
		Radius:   0.1,
		Gamma:    0.35,
		Core:     0.08,
		Spacing:  1.0,
		Offset:   0.12,
		Convect:  0.8,
		Vortices: 16,
	}
}

// Synthesize builds a cylinder wake: potential flow around a cylinder at the
// origin plus two staggered rows of Lamb-Oseen vortices convected downstream.
// Velocity inside the cylinder is zero.
func Synthesize(spec Spec, p SynthParams) *Field {
	wake := spec.XEnd - p.Radius
	if wake <= 0 {
		wake = spec.XEnd - spec.XStart
	}
	c := p.Convect * p.Stream
	half := p.Spacing / 2

	return FromFunc(spec, func(t, y, x int) r2.Vec {
		wx := spec.WorldX(float64(x) + 0.5)
		wy := spec.WorldY(float64(y) + 0.5)
		tw := spec.Time(t)

		r2sq := wx*wx + wy*wy
		rr := p.Radius * p.Radius
		if r2sq <= rr {
			return r2.Vec{}
		}

		r4 := r2sq * r2sq
		v := r2.Vec{
			X: p.Stream * (1 - rr*(wx*wx-wy*wy)/r4),
			Y: -p.Stream * 2 * rr * wx * wy / r4,
		}

		for k := 0; k < p.Vortices; k++ {
			// Positions advance with time and wrap over the wake length.
			pos := math.Mod(c*tw+float64(k)*half, wake)
			if pos < 0 {
				pos += wake
			}
			vx := p.Radius + pos
			vy := p.Offset
			sign := 1.0
			if k%2 == 1 {
				vy = -p.Offset
				sign = -1.0
			}
			v = r2.Add(v, lambOseen(wx-vx, wy-vy, sign*p.Gamma, p.Core))
		}
		return v
	})
}

func lambOseen(dx, dy, gamma, core float64) r2.Vec {
	rsq := dx*dx + dy*dy
	if rsq < 1e-12 {
		return r2.Vec{}
	}
	// Tangential speed divided by r, so the components need no sqrt.
	s := gamma / (2 * math.Pi * rsq) * (1 - math.Exp(-rsq/(core*core)))
	return r2.Vec{X: -s * dy, Y: s * dx}
}
